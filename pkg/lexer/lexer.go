// Package lexer implements the rlisp tokenizer.
//
// The lexer is pull based: each call to Next scans exactly one token. Lexical
// errors are reported through a Reporter and scanning resumes after the
// offending input, so a malformed literal never hides later problems.
package lexer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/tliron/commonlog"

	"github.com/thomasrohde/rlisp/pkg/diagnostics"
	"github.com/thomasrohde/rlisp/pkg/token"
)

var log = commonlog.GetLogger("rlisp.lexer")

// Lexer produces tokens from source text on demand.
type Lexer struct {
	source    string
	pos       int
	line      int
	lineStart int

	// start of the token being scanned
	tokStart     int
	tokLine      int
	tokLineStart int

	report diagnostics.Reporter
	errors []*diagnostics.Diagnostic
}

// Option configures a Lexer.
type Option func(*Lexer)

// WithReporter sets the callback that receives lexical errors as they occur.
func WithReporter(r diagnostics.Reporter) Option {
	return func(l *Lexer) {
		l.report = r
	}
}

// New creates a lexer over source.
func New(source string, opts ...Option) *Lexer {
	l := &Lexer{
		source: source,
		line:   1,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Errors returns the lexical errors reported so far.
func (l *Lexer) Errors() []*diagnostics.Diagnostic {
	return l.errors
}

// Next returns the next token. Past the end of input it returns EOF forever.
func (l *Lexer) Next() token.Token {
	for {
		tok, err := l.scan()
		if err == nil {
			return tok
		}
		l.fail(err)
	}
}

func (l *Lexer) fail(d *diagnostics.Diagnostic) {
	log.Debugf("recovering from %s at line %d", d.Kind, d.Span.Line)
	l.errors = append(l.errors, d)
	if l.report != nil {
		l.report(d)
	}
}

func (l *Lexer) atEnd() bool {
	return l.pos >= len(l.source)
}

func (l *Lexer) peek() byte {
	if l.atEnd() {
		return 0
	}
	return l.source[l.pos]
}

func (l *Lexer) advance() byte {
	ch := l.source[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.lineStart = l.pos
	}
	return ch
}

// match consumes the next byte when it equals want.
func (l *Lexer) match(want byte) bool {
	if l.atEnd() || l.source[l.pos] != want {
		return false
	}
	l.advance()
	return true
}

func (l *Lexer) span() token.Span {
	return token.NewSpan(l.tokLine, l.tokLineStart, l.tokStart, l.pos)
}

func (l *Lexer) make(kind token.Kind) token.Token {
	return token.Token{Kind: kind, Span: l.span()}
}

func (l *Lexer) errorf(kind diagnostics.Kind, format string, args ...any) *diagnostics.Diagnostic {
	return diagnostics.New(kind, l.span(), format, args...)
}

func (l *Lexer) skipWhitespaceAndComments() {
	for !l.atEnd() {
		switch ch := l.peek(); {
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
			l.advance()
		case ch == '#':
			for !l.atEnd() && l.peek() != '\n' {
				l.advance()
			}
		default:
			return
		}
	}
}

func isAlpha(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isAlphaNumeric(ch byte) bool {
	return isAlpha(ch) || isDigit(ch)
}

// pick returns twoChar if the next byte is second, otherwise oneChar.
func (l *Lexer) pick(second byte, twoChar, oneChar token.Kind) token.Token {
	if l.match(second) {
		return l.make(twoChar)
	}
	return l.make(oneChar)
}

func (l *Lexer) scan() (token.Token, *diagnostics.Diagnostic) {
	l.skipWhitespaceAndComments()

	l.tokStart, l.tokLine, l.tokLineStart = l.pos, l.line, l.lineStart
	if l.atEnd() {
		return l.make(token.EOF), nil
	}

	ch := l.advance()
	switch ch {
	case ',':
		return l.make(token.Comma), nil
	case ';':
		return l.make(token.Semicolon), nil
	case ':':
		return l.make(token.Colon), nil
	case '.':
		return l.make(token.Dot), nil
	case '(':
		return l.make(token.LParen), nil
	case ')':
		return l.make(token.RParen), nil
	case '{':
		return l.make(token.LBrace), nil
	case '}':
		return l.make(token.RBrace), nil
	case '[':
		return l.make(token.LBracket), nil
	case ']':
		return l.make(token.RBracket), nil
	case '+':
		return l.pick('=', token.PlusEq, token.Plus), nil
	case '-':
		return l.pick('=', token.MinusEq, token.Minus), nil
	case '*':
		return l.pick('=', token.TimesEq, token.Times), nil
	case '/':
		return l.pick('=', token.DivEq, token.Divide), nil
	case '%':
		return l.pick('=', token.ModEq, token.Mod), nil
	case '^':
		return l.pick('=', token.XorEq, token.Xor), nil
	case '=':
		return l.pick('=', token.Eq, token.Assign), nil
	case '!':
		return l.pick('=', token.Ne, token.Not), nil
	case '&':
		if l.match('&') {
			return l.make(token.LAnd), nil
		}
		return l.pick('=', token.AndEq, token.And), nil
	case '|':
		if l.match('|') {
			return l.make(token.LOr), nil
		}
		return l.pick('=', token.OrEq, token.Or), nil
	case '<':
		if l.match('<') {
			return l.make(token.LShift), nil
		}
		return l.pick('=', token.Lte, token.Lt), nil
	case '>':
		if l.match('>') {
			return l.make(token.RShift), nil
		}
		return l.pick('=', token.Gte, token.Gt), nil
	case '"':
		return l.scanString()
	}

	switch {
	case isDigit(ch):
		return l.scanNumber()
	case isAlpha(ch):
		return l.scanIdentOrKeyword(), nil
	}

	// step over the whole rune so the message shows the real character
	l.pos = l.tokStart
	r, size := utf8.DecodeRuneInString(l.source[l.pos:])
	l.pos += size
	return token.Token{}, l.errorf(diagnostics.Syntax, "unexpected character %q", r)
}

func (l *Lexer) scanString() (token.Token, *diagnostics.Diagnostic) {
	var buf strings.Builder
	var bad *diagnostics.Diagnostic
	for !l.atEnd() {
		ch := l.advance()
		switch ch {
		case '"':
			if bad != nil {
				return token.Token{}, bad
			}
			tok := l.make(token.String)
			tok.Lexeme = buf.String()
			return tok, nil
		case '\\':
			if l.atEnd() {
				break
			}
			esc := l.advance()
			switch esc {
			case 'n':
				buf.WriteByte('\n')
			case 't':
				buf.WriteByte('\t')
			case 'r':
				buf.WriteByte('\r')
			case '"':
				buf.WriteByte('"')
			case '\\':
				buf.WriteByte('\\')
			default:
				if bad == nil {
					bad = l.errorf(diagnostics.Syntax, "invalid escape sequence '\\%c'", esc)
				}
			}
		default:
			buf.WriteByte(ch)
		}
	}
	return token.Token{}, l.errorf(diagnostics.Syntax, "unterminated string")
}

func (l *Lexer) scanNumber() (token.Token, *diagnostics.Diagnostic) {
	for !l.atEnd() && (isDigit(l.peek()) || l.peek() == '.') {
		l.advance()
	}
	text := l.source[l.tokStart:l.pos]
	if strings.Count(text, ".") > 1 {
		return token.Token{}, l.errorf(diagnostics.Value, "invalid number literal %q", text)
	}
	val, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return token.Token{}, l.errorf(diagnostics.Value, "invalid number literal %q", text)
	}
	tok := l.make(token.Number)
	tok.Number = val
	return tok, nil
}

func (l *Lexer) scanIdentOrKeyword() token.Token {
	for !l.atEnd() && isAlphaNumeric(l.peek()) {
		l.advance()
	}
	text := l.source[l.tokStart:l.pos]
	kind := token.Lookup(text)
	tok := l.make(kind)
	if kind == token.Identifier {
		tok.Lexeme = text
	}
	return tok
}

// Tokenize scans the whole source, returning every token up to and including
// EOF together with the lexical errors encountered.
func Tokenize(source string) ([]token.Token, []*diagnostics.Diagnostic) {
	l := New(source)
	var tokens []token.Token
	for {
		tok := l.Next()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			return tokens, l.Errors()
		}
	}
}

// Describe renders a token for debugging output: kind, payload and position.
func Describe(tok token.Token) string {
	return fmt.Sprintf("%d:%d\t%-10s %s", tok.Span.Line, tok.Span.Pos(), tok.Kind, tok)
}
