package diagnostics_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thomasrohde/rlisp/pkg/diagnostics"
	"github.com/thomasrohde/rlisp/pkg/token"
)

func TestFormat(t *testing.T) {
	span := token.NewSpan(3, 20, 26, 31)
	d := diagnostics.New(diagnostics.Name, span, "undefined variable %q", "x")

	assert.Equal(t, `NameError: undefined variable "x", line 3, pos 6`, diagnostics.Format(d))
	assert.Equal(t, diagnostics.Format(d), d.Error())
}

func TestKindNames(t *testing.T) {
	tests := map[diagnostics.Kind]string{
		diagnostics.Syntax:            "SyntaxError",
		diagnostics.Value:             "ValueError",
		diagnostics.Parse:             "ParseError",
		diagnostics.Runtime:           "RuntimeError",
		diagnostics.Name:              "NameError",
		diagnostics.ZeroDivision:      "ZeroDivisionError",
		diagnostics.Type:              "TypeError",
		diagnostics.TooManyParameters: "TooManyParameters",
	}
	for kind, want := range tests {
		assert.Equal(t, want, string(kind))
	}
}

func TestAtFillsUnlocatedSpan(t *testing.T) {
	span := token.NewSpan(1, 0, 4, 9)
	err := diagnostics.At(diagnostics.Unlocated(diagnostics.Runtime, "boom"), span)

	var d *diagnostics.Diagnostic
	require.True(t, errors.As(err, &d))
	assert.Equal(t, span, d.Span)
}

func TestAtKeepsExistingSpan(t *testing.T) {
	orig := token.NewSpan(2, 5, 6, 7)
	err := diagnostics.At(diagnostics.New(diagnostics.Runtime, orig, "boom"), token.NewSpan(9, 0, 1, 2))

	var d *diagnostics.Diagnostic
	require.True(t, errors.As(err, &d))
	assert.Equal(t, orig, d.Span)
}

func TestAtPassesThroughForeignErrors(t *testing.T) {
	plain := fmt.Errorf("disk full")
	assert.Same(t, plain, diagnostics.At(plain, token.Span{Line: 1}))
}

func TestFormatPretty(t *testing.T) {
	src := "let a = 1;\nprint missing;\n"
	d := diagnostics.New(diagnostics.Name, token.NewSpan(2, 11, 17, 24), `undefined variable "missing"`).
		WithHint("declare it with let first")

	out := diagnostics.FormatPretty(d, "main.rl", src)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, `NameError: undefined variable "missing"`, lines[0])
	assert.Equal(t, "  --> main.rl:2:7", lines[1])
	assert.Equal(t, "2 | print missing;", lines[3])
	assert.Equal(t, "  |       ^^^^^^^", lines[4])
	assert.Equal(t, "  hint: declare it with let first", lines[5])
}

func TestFormatJSON(t *testing.T) {
	d := diagnostics.New(diagnostics.Syntax, token.NewSpan(1, 0, 0, 1), "unexpected character '@'")
	out := diagnostics.FormatJSON([]*diagnostics.Diagnostic{d})
	assert.Contains(t, out, `"kind":"SyntaxError"`)
	assert.Contains(t, out, `"line":1`)
	assert.Equal(t, "[]", diagnostics.FormatJSON(nil))
}

func TestCollector(t *testing.T) {
	var c diagnostics.Collector
	var report diagnostics.Reporter = c.Report
	report(diagnostics.Unlocated(diagnostics.Value, "bad number"))
	report(diagnostics.Unlocated(diagnostics.Syntax, "bad char"))
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, diagnostics.Value, c.Diagnostics[0].Kind)
}
