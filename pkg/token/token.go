// Package token defines source spans and the lexical tokens of rlisp.
package token

import (
	"fmt"
	"strconv"
)

// Span identifies a contiguous range of source bytes.
// Line is 1-based; LineStart, Start and End are byte offsets into the source.
type Span struct {
	Line      int `json:"line"`
	LineStart int `json:"lineStart"`
	Start     int `json:"start"`
	End       int `json:"end"`
}

// NewSpan creates a span.
func NewSpan(line, lineStart, start, end int) Span {
	return Span{Line: line, LineStart: lineStart, Start: start, End: end}
}

// Pos returns the byte offset of the span start within its line.
func (s Span) Pos() int {
	return s.Start - s.LineStart
}

// Merge returns the smallest span covering both a and b.
// The line of the earlier span is kept.
func Merge(a, b Span) Span {
	if b.Start < a.Start {
		a, b = b, a
	}
	end := a.End
	if b.End > end {
		end = b.End
	}
	return Span{Line: a.Line, LineStart: a.LineStart, Start: a.Start, End: end}
}

// Kind identifies the type of a token.
type Kind int

const (
	EOF Kind = iota

	// Payload-carrying tokens
	Identifier
	String
	Number

	// Delimiters
	Comma     // ,
	Semicolon // ;
	Colon     // :
	Dot       // .
	LParen    // (
	RParen    // )
	LBrace    // {
	RBrace    // }
	LBracket  // [
	RBracket  // ]

	// Operators
	Assign // =
	Plus   // +
	Minus  // -
	Times  // *
	Divide // /
	Mod    // %
	Not    // !
	And    // &
	Or     // |
	Xor    // ^
	LShift // <<
	RShift // >>
	LAnd   // &&
	LOr    // ||
	Lt     // <
	Gt     // >
	Eq     // ==
	Ne     // !=
	Lte    // <=
	Gte    // >=

	// Compound assignment
	PlusEq  // +=
	MinusEq // -=
	TimesEq // *=
	DivEq   // /=
	ModEq   // %=
	XorEq   // ^=
	AndEq   // &=
	OrEq    // |=

	// Keywords
	True
	False
	Function
	Let
	Const
	If
	Else
	For
	While
	Return
	Import
	Nil
	Class
	This
	Break
	Continue
	Super
	Print
)

var kindNames = [...]string{
	EOF:        "EOF",
	Identifier: "Identifier",
	String:     "String",
	Number:     "Number",
	Comma:      ",",
	Semicolon:  ";",
	Colon:      ":",
	Dot:        ".",
	LParen:     "(",
	RParen:     ")",
	LBrace:     "{",
	RBrace:     "}",
	LBracket:   "[",
	RBracket:   "]",
	Assign:     "=",
	Plus:       "+",
	Minus:      "-",
	Times:      "*",
	Divide:     "/",
	Mod:        "%",
	Not:        "!",
	And:        "&",
	Or:         "|",
	Xor:        "^",
	LShift:     "<<",
	RShift:     ">>",
	LAnd:       "&&",
	LOr:        "||",
	Lt:         "<",
	Gt:         ">",
	Eq:         "==",
	Ne:         "!=",
	Lte:        "<=",
	Gte:        ">=",
	PlusEq:     "+=",
	MinusEq:    "-=",
	TimesEq:    "*=",
	DivEq:      "/=",
	ModEq:      "%=",
	XorEq:      "^=",
	AndEq:      "&=",
	OrEq:       "|=",
	True:       "true",
	False:      "false",
	Function:   "fn",
	Let:        "let",
	Const:      "const",
	If:         "if",
	Else:       "else",
	For:        "for",
	While:      "while",
	Return:     "return",
	Import:     "import",
	Nil:        "nil",
	Class:      "class",
	This:       "this",
	Break:      "break",
	Continue:   "continue",
	Super:      "super",
	Print:      "print",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("token(%d)", int(k))
}

// IsKeyword reports whether k is a reserved word.
func (k Kind) IsKeyword() bool {
	return k >= True && k <= Print
}

// CompoundBase maps a compound assignment operator to the binary operator it applies.
func (k Kind) CompoundBase() (Kind, bool) {
	switch k {
	case PlusEq:
		return Plus, true
	case MinusEq:
		return Minus, true
	case TimesEq:
		return Times, true
	case DivEq:
		return Divide, true
	case ModEq:
		return Mod, true
	case XorEq:
		return Xor, true
	case AndEq:
		return And, true
	case OrEq:
		return Or, true
	}
	return 0, false
}

var keywords = map[string]Kind{
	"true":     True,
	"false":    False,
	"fn":       Function,
	"let":      Let,
	"const":    Const,
	"if":       If,
	"else":     Else,
	"for":      For,
	"while":    While,
	"return":   Return,
	"import":   Import,
	"nil":      Nil,
	"class":    Class,
	"this":     This,
	"break":    Break,
	"continue": Continue,
	"super":    Super,
	"print":    Print,
}

// Lookup returns the keyword kind for ident, or Identifier.
// Keywords are case sensitive.
func Lookup(ident string) Kind {
	if k, ok := keywords[ident]; ok {
		return k
	}
	return Identifier
}

// Keywords returns the reserved words in no particular order.
func Keywords() []string {
	out := make([]string, 0, len(keywords))
	for k := range keywords {
		out = append(out, k)
	}
	return out
}

// Token is a single lexical unit. Lexeme holds the identifier name or the
// decoded string value; Number holds the value of a numeric literal.
type Token struct {
	Kind   Kind
	Lexeme string
	Number float64
	Span   Span
}

// Is reports whether the token has kind k.
func (t Token) Is(k Kind) bool {
	return t.Kind == k
}

func (t Token) String() string {
	switch t.Kind {
	case Identifier:
		return "$" + t.Lexeme
	case String:
		return strconv.Quote(t.Lexeme)
	case Number:
		return strconv.FormatFloat(t.Number, 'f', -1, 64)
	}
	return t.Kind.String()
}
