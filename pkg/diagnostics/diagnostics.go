// Package diagnostics defines rlisp error kinds and their rendering.
package diagnostics

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/thomasrohde/rlisp/pkg/token"
)

// Kind classifies a diagnostic.
type Kind string

// Error kinds.
const (
	Syntax            Kind = "SyntaxError"
	Value             Kind = "ValueError"
	Parse             Kind = "ParseError"
	Runtime           Kind = "RuntimeError"
	Name              Kind = "NameError"
	ZeroDivision      Kind = "ZeroDivisionError"
	Type              Kind = "TypeError"
	TooManyParameters Kind = "TooManyParameters"
)

// Diagnostic is a user-facing error with the source range it refers to.
type Diagnostic struct {
	Kind    Kind       `json:"kind"`
	Message string     `json:"message"`
	Span    token.Span `json:"span"`
	Hint    string     `json:"hint,omitempty"`
}

// New creates a diagnostic with a formatted message.
func New(kind Kind, span token.Span, format string, args ...any) *Diagnostic {
	return &Diagnostic{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Span:    span,
	}
}

// Unlocated creates a diagnostic whose span is filled in by the caller later.
func Unlocated(kind Kind, format string, args ...any) *Diagnostic {
	return New(kind, token.Span{}, format, args...)
}

func (d *Diagnostic) Error() string {
	return Format(d)
}

// WithHint returns d with a hint attached.
func (d *Diagnostic) WithHint(hint string) *Diagnostic {
	d.Hint = hint
	return d
}

// At returns err with its span set to span when err is an unlocated diagnostic.
// Other errors are returned unchanged.
func At(err error, span token.Span) error {
	var d *Diagnostic
	if errors.As(err, &d) && d.Span == (token.Span{}) {
		located := *d
		located.Span = span
		return &located
	}
	return err
}

// Format renders a diagnostic as "<Kind>: <message>, line <L>, pos <P>".
func Format(d *Diagnostic) string {
	return fmt.Sprintf("%s: %s, line %d, pos %d", d.Kind, d.Message, d.Span.Line, d.Span.Pos())
}

// FormatPretty renders a diagnostic with a caret snippet of the offending line.
func FormatPretty(d *Diagnostic, filename, source string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s\n", d.Kind, d.Message)
	if filename == "" {
		filename = "<input>"
	}
	fmt.Fprintf(&b, "  --> %s:%d:%d\n", filename, d.Span.Line, d.Span.Pos()+1)

	line := sourceLine(source, d.Span.LineStart)
	gutter := fmt.Sprintf("%d", d.Span.Line)
	pad := strings.Repeat(" ", len(gutter))
	fmt.Fprintf(&b, "%s |\n", pad)
	fmt.Fprintf(&b, "%s | %s\n", gutter, line)

	col := d.Span.Pos()
	if col > len(line) {
		col = len(line)
	}
	if col < 0 {
		col = 0
	}
	width := d.Span.End - d.Span.Start
	if width < 1 {
		width = 1
	}
	if col+width > len(line) && len(line) > col {
		width = len(line) - col
	}
	caretPad := strings.Map(func(r rune) rune {
		if r == '\t' {
			return '\t'
		}
		return ' '
	}, line[:col])
	fmt.Fprintf(&b, "%s | %s%s", pad, caretPad, strings.Repeat("^", width))
	if d.Hint != "" {
		fmt.Fprintf(&b, "\n  hint: %s", d.Hint)
	}
	return b.String()
}

func sourceLine(source string, lineStart int) string {
	if lineStart < 0 || lineStart > len(source) {
		return ""
	}
	rest := source[lineStart:]
	if i := strings.IndexByte(rest, '\n'); i >= 0 {
		rest = rest[:i]
	}
	return strings.TrimRight(rest, "\r")
}

// FormatDiagnostics renders a list of diagnostics, one per line.
func FormatDiagnostics(diags []*Diagnostic) string {
	parts := make([]string, len(diags))
	for i, d := range diags {
		parts[i] = Format(d)
	}
	return strings.Join(parts, "\n")
}

// FormatJSON renders a list of diagnostics as a JSON array.
func FormatJSON(diags []*Diagnostic) string {
	if diags == nil {
		diags = []*Diagnostic{}
	}
	b, _ := json.Marshal(diags)
	return string(b)
}

// Reporter receives diagnostics as they are produced.
type Reporter func(d *Diagnostic)

// Collector accumulates reported diagnostics.
type Collector struct {
	Diagnostics []*Diagnostic
}

// Report appends d.
func (c *Collector) Report(d *Diagnostic) {
	c.Diagnostics = append(c.Diagnostics, d)
}

// Len returns the number of collected diagnostics.
func (c *Collector) Len() int {
	return len(c.Diagnostics)
}
