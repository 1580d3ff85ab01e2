package lexer

import (
	"testing"

	"github.com/thomasrohde/rlisp/pkg/token"
)

// FuzzTokenize checks that scanning always terminates with EOF and never panics.
func FuzzTokenize(f *testing.F) {
	seeds := []string{
		`let x = 1; const y = 2;`,
		`fn add(a, b) { return a + b; }`,
		`for (let i = 0; i < 3; i += 1) { print i; }`,
		`"hello" "with\nescape" "quote\""`,
		`+= -= *= /= %= ^= &= |= && || << >> <= >= == !=`,
		`# comment only`,
		`"unterminated`,
		`"bad \q escape"`,
		`1.2.3`,
		`@$~` + "`",
		"\t\n\r",
		`é ü 日本`,
		``,
	}
	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, input string) {
		tokens, _ := Tokenize(input)
		if len(tokens) == 0 || tokens[len(tokens)-1].Kind != token.EOF {
			t.Fatalf("token stream for %q does not end in EOF", input)
		}
		for _, tok := range tokens {
			if tok.Span.Start > tok.Span.End || tok.Span.End > len(input) {
				t.Fatalf("bad span %+v for input %q", tok.Span, input)
			}
		}
	})
}
