// Package parser implements the rlisp parser.
//
// Statements are parsed by recursive descent and expressions by one function
// per precedence level, lowest binding power first:
//
//	assignment → or → and → equality → comparison → term → factor → unary → call → primary
//
// The parser stops at the first error it meets.
package parser

import (
	"github.com/thomasrohde/rlisp/pkg/ast"
	"github.com/thomasrohde/rlisp/pkg/diagnostics"
	"github.com/thomasrohde/rlisp/pkg/lexer"
	"github.com/thomasrohde/rlisp/pkg/token"
)

// DefaultMaxParameters bounds parameter and argument lists.
const DefaultMaxParameters = 255

// Parser builds an AST from the tokens of a Lexer.
type Parser struct {
	lex       *lexer.Lexer
	cur       token.Token
	maxParams int

	// set when the error was raised while looking at EOF
	failedAtEOF bool
}

// Option configures a Parser.
type Option func(*Parser)

// WithMaxParameters overrides DefaultMaxParameters. Values below one are ignored.
func WithMaxParameters(n int) Option {
	return func(p *Parser) {
		if n > 0 {
			p.maxParams = n
		}
	}
}

// New creates a parser reading from lex.
func New(lex *lexer.Lexer, opts ...Option) *Parser {
	p := &Parser{lex: lex, maxParams: DefaultMaxParameters}
	for _, opt := range opts {
		opt(p)
	}
	p.cur = lex.Next()
	return p
}

// Parse lexes and parses source. It returns the program, or nil together with
// every lexical error and the parse error, if any.
func Parse(source string, opts ...Option) (*ast.Program, []*diagnostics.Diagnostic) {
	lex := lexer.New(source)
	p := New(lex, opts...)
	prog, err := p.ParseProgram()

	diags := append([]*diagnostics.Diagnostic(nil), lex.Errors()...)
	if err != nil {
		diags = append(diags, err.(*diagnostics.Diagnostic))
	}
	if len(diags) > 0 {
		return nil, diags
	}
	return prog, nil
}

// Incomplete reports whether source fails to parse only because it ends too
// early, such as an unclosed block or a missing semicolon on the last line.
// Interactive front ends use it to decide whether to ask for more input.
func Incomplete(source string) bool {
	lex := lexer.New(source)
	p := New(lex)
	_, err := p.ParseProgram()
	for _, d := range lex.Errors() {
		if d.Message == "unterminated string" {
			return true
		}
	}
	return err != nil && p.failedAtEOF
}

// ParseProgram parses declarations until EOF.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	prog := &ast.Program{}
	for !p.check(token.EOF) {
		stmt, err := p.declaration()
		if err != nil {
			return nil, err
		}
		prog.Stmts = append(prog.Stmts, stmt)
	}
	return prog, nil
}

// --- token helpers ---

func (p *Parser) advance() token.Token {
	tok := p.cur
	if tok.Kind != token.EOF {
		p.cur = p.lex.Next()
	}
	return tok
}

func (p *Parser) check(k token.Kind) bool {
	return p.cur.Kind == k
}

func (p *Parser) match(kinds ...token.Kind) (token.Token, bool) {
	for _, k := range kinds {
		if p.cur.Kind == k {
			return p.advance(), true
		}
	}
	return token.Token{}, false
}

// expect consumes the current token unconditionally and fails if it is not
// of kind k.
func (p *Parser) expect(k token.Kind) (token.Token, error) {
	tok := p.advance()
	if tok.Kind != k {
		return tok, p.errorAt(tok, diagnostics.Syntax, "expected %q, found %q", k.String(), found(tok))
	}
	return tok, nil
}

func (p *Parser) errorAt(tok token.Token, kind diagnostics.Kind, format string, args ...any) error {
	p.failedAtEOF = tok.Kind == token.EOF
	return diagnostics.New(kind, tok.Span, format, args...)
}

func found(tok token.Token) string {
	switch tok.Kind {
	case token.Identifier:
		return tok.Lexeme
	case token.String, token.Number:
		return tok.String()
	}
	return tok.Kind.String()
}

// --- declarations and statements ---

func (p *Parser) declaration() (ast.Stmt, error) {
	switch p.cur.Kind {
	case token.Let, token.Const:
		return p.letDecl()
	case token.Class:
		return p.classDecl()
	case token.Function:
		p.advance()
		return p.function()
	}
	return p.statement()
}

func (p *Parser) letDecl() (ast.Stmt, error) {
	kw := p.advance()
	name, err := p.expect(token.Identifier)
	if err != nil {
		return nil, err
	}
	var value ast.Expr
	if _, ok := p.match(token.Assign); ok {
		if value, err = p.expression(); err != nil {
			return nil, err
		}
	}
	semi, err := p.expect(token.Semicolon)
	if err != nil {
		return nil, err
	}
	return &ast.Let{
		Span:     token.Merge(kw.Span, semi.Span),
		Name:     name.Lexeme,
		NameSpan: name.Span,
		Value:    value,
		Const:    kw.Kind == token.Const,
	}, nil
}

func (p *Parser) classDecl() (ast.Stmt, error) {
	kw := p.advance()
	name, err := p.expect(token.Identifier)
	if err != nil {
		return nil, err
	}
	class := &ast.Class{Name: name.Lexeme}
	if _, ok := p.match(token.Lt); ok {
		super, err := p.expect(token.Identifier)
		if err != nil {
			return nil, err
		}
		if super.Lexeme == name.Lexeme {
			return nil, p.errorAt(super, diagnostics.Parse, "a class cannot inherit from itself")
		}
		class.Superclass = &ast.Variable{Span: super.Span, Name: super.Lexeme}
	}
	if _, err := p.expect(token.LBrace); err != nil {
		return nil, err
	}
	for !p.check(token.RBrace) && !p.check(token.EOF) {
		method, err := p.function()
		if err != nil {
			return nil, err
		}
		class.Methods = append(class.Methods, method)
	}
	end, err := p.expect(token.RBrace)
	if err != nil {
		return nil, err
	}
	class.Span = token.Merge(kw.Span, end.Span)
	return class, nil
}

// function parses `name(params) { body }`; the fn keyword, if any, has
// already been consumed.
func (p *Parser) function() (*ast.Function, error) {
	name, err := p.expect(token.Identifier)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}
	var params []ast.Param
	if !p.check(token.RParen) {
		for {
			if len(params) >= p.maxParams {
				return nil, p.errorAt(p.cur, diagnostics.TooManyParameters, "cannot have more than %d parameters", p.maxParams)
			}
			param, err := p.expect(token.Identifier)
			if err != nil {
				return nil, err
			}
			params = append(params, ast.Param{Name: param.Lexeme, Span: param.Span})
			if _, ok := p.match(token.Comma); !ok {
				break
			}
		}
	}
	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBrace); err != nil {
		return nil, err
	}
	body, end, err := p.blockBody()
	if err != nil {
		return nil, err
	}
	return &ast.Function{
		Span:   token.Merge(name.Span, end.Span),
		Name:   name.Lexeme,
		Params: params,
		Body:   body,
	}, nil
}

func (p *Parser) statement() (ast.Stmt, error) {
	switch p.cur.Kind {
	case token.Print:
		return p.printStmt()
	case token.If:
		return p.ifStmt()
	case token.While:
		return p.whileStmt()
	case token.For:
		return p.forStmt()
	case token.Return:
		return p.returnStmt()
	case token.Break:
		kw := p.advance()
		semi, err := p.expect(token.Semicolon)
		if err != nil {
			return nil, err
		}
		return &ast.Break{Span: token.Merge(kw.Span, semi.Span)}, nil
	case token.Continue:
		kw := p.advance()
		semi, err := p.expect(token.Semicolon)
		if err != nil {
			return nil, err
		}
		return &ast.Continue{Span: token.Merge(kw.Span, semi.Span)}, nil
	case token.LBrace:
		return p.block()
	}
	return p.exprStmt()
}

func (p *Parser) printStmt() (ast.Stmt, error) {
	kw := p.advance()
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	semi, err := p.expect(token.Semicolon)
	if err != nil {
		return nil, err
	}
	return &ast.Print{Span: token.Merge(kw.Span, semi.Span), Expr: value}, nil
}

func (p *Parser) exprStmt() (ast.Stmt, error) {
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	semi, err := p.expect(token.Semicolon)
	if err != nil {
		return nil, err
	}
	return &ast.ExprStmt{Span: token.Merge(value.NodeSpan(), semi.Span), Expr: value}, nil
}

func (p *Parser) block() (*ast.Block, error) {
	open := p.advance()
	stmts, end, err := p.blockBody()
	if err != nil {
		return nil, err
	}
	return &ast.Block{Span: token.Merge(open.Span, end.Span), Stmts: stmts}, nil
}

// blockBody parses declarations up to and including the closing brace.
func (p *Parser) blockBody() ([]ast.Stmt, token.Token, error) {
	var stmts []ast.Stmt
	for !p.check(token.RBrace) && !p.check(token.EOF) {
		stmt, err := p.declaration()
		if err != nil {
			return nil, token.Token{}, err
		}
		stmts = append(stmts, stmt)
	}
	end, err := p.expect(token.RBrace)
	if err != nil {
		return nil, token.Token{}, err
	}
	return stmts, end, nil
}

// condition parses a parenthesised condition.
func (p *Parser) condition() (ast.Expr, error) {
	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}
	return cond, nil
}

func (p *Parser) ifStmt() (ast.Stmt, error) {
	kw := p.advance()
	cond, err := p.condition()
	if err != nil {
		return nil, err
	}
	then, err := p.statement()
	if err != nil {
		return nil, err
	}
	stmt := &ast.If{Span: token.Merge(kw.Span, then.NodeSpan()), Cond: cond, Then: then}
	if _, ok := p.match(token.Else); ok {
		if stmt.Else, err = p.statement(); err != nil {
			return nil, err
		}
		stmt.Span = token.Merge(stmt.Span, stmt.Else.NodeSpan())
	}
	return stmt, nil
}

func (p *Parser) whileStmt() (ast.Stmt, error) {
	kw := p.advance()
	cond, err := p.condition()
	if err != nil {
		return nil, err
	}
	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	return &ast.While{Span: token.Merge(kw.Span, body.NodeSpan()), Cond: cond, Body: body}, nil
}

// forStmt desugars `for (init; cond; incr) body` into
// Block[init, While{cond, Block[body, incr]}].
func (p *Parser) forStmt() (ast.Stmt, error) {
	kw := p.advance()
	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}

	var init ast.Stmt
	var err error
	switch p.cur.Kind {
	case token.Semicolon:
		p.advance()
	case token.Let, token.Const:
		init, err = p.letDecl()
	default:
		init, err = p.exprStmt()
	}
	if err != nil {
		return nil, err
	}

	var cond ast.Expr
	if !p.check(token.Semicolon) {
		if cond, err = p.expression(); err != nil {
			return nil, err
		}
	}
	semi, err := p.expect(token.Semicolon)
	if err != nil {
		return nil, err
	}

	var incr ast.Expr
	if !p.check(token.RParen) {
		if incr, err = p.expression(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}

	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	span := token.Merge(kw.Span, body.NodeSpan())

	if cond == nil {
		cond = &ast.Literal{Span: semi.Span, Value: ast.BoolValue(true)}
	}
	loop := &ast.While{Span: span, Cond: cond, Body: body}
	if incr != nil {
		loop.Body = &ast.Block{
			Span:  body.NodeSpan(),
			Stmts: []ast.Stmt{body, &ast.ExprStmt{Span: incr.NodeSpan(), Expr: incr}},
		}
		loop.ForLoop = true
	}
	if init == nil {
		return loop, nil
	}
	return &ast.Block{Span: span, Stmts: []ast.Stmt{init, loop}}, nil
}

func (p *Parser) returnStmt() (ast.Stmt, error) {
	kw := p.advance()
	var value ast.Expr
	if !p.check(token.Semicolon) {
		var err error
		if value, err = p.expression(); err != nil {
			return nil, err
		}
	}
	semi, err := p.expect(token.Semicolon)
	if err != nil {
		return nil, err
	}
	return &ast.Return{Span: token.Merge(kw.Span, semi.Span), Value: value}, nil
}

// --- expressions ---

func (p *Parser) expression() (ast.Expr, error) {
	return p.assignment()
}

func isAssignOp(k token.Kind) bool {
	if k == token.Assign {
		return true
	}
	_, ok := k.CompoundBase()
	return ok
}

// assignment is right associative. Compound operators are rewritten so that
// `x op= e` becomes `x = x op e`.
func (p *Parser) assignment() (ast.Expr, error) {
	target, err := p.or()
	if err != nil {
		return nil, err
	}
	if !isAssignOp(p.cur.Kind) {
		return target, nil
	}
	op := p.advance()
	value, err := p.assignment()
	if err != nil {
		return nil, err
	}
	span := token.Merge(target.NodeSpan(), value.NodeSpan())

	if base, ok := op.Kind.CompoundBase(); ok {
		value = &ast.Binary{Span: span, Left: target, Op: base, Right: value}
	}

	switch t := target.(type) {
	case *ast.Variable:
		return &ast.Assign{Span: span, Name: t.Name, Value: value}, nil
	case *ast.Get:
		return &ast.Set{Span: span, Object: t.Object, Name: t.Name, Value: value}, nil
	}
	p.failedAtEOF = false
	return nil, diagnostics.New(diagnostics.Parse, target.NodeSpan(), "invalid assignment target")
}

// binaryLevel parses a left-associative chain of operators from ops over
// operands produced by next.
func (p *Parser) binaryLevel(next func() (ast.Expr, error), ops ...token.Kind) (ast.Expr, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.match(ops...)
		if !ok {
			return left, nil
		}
		right, err := next()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{
			Span:  token.Merge(left.NodeSpan(), right.NodeSpan()),
			Left:  left,
			Op:    op.Kind,
			Right: right,
		}
	}
}

func (p *Parser) or() (ast.Expr, error) {
	return p.binaryLevel(p.and, token.LOr)
}

func (p *Parser) and() (ast.Expr, error) {
	return p.binaryLevel(p.equality, token.LAnd)
}

func (p *Parser) equality() (ast.Expr, error) {
	return p.binaryLevel(p.comparison, token.Eq, token.Ne)
}

func (p *Parser) comparison() (ast.Expr, error) {
	return p.binaryLevel(p.term, token.Lt, token.Lte, token.Gt, token.Gte)
}

func (p *Parser) term() (ast.Expr, error) {
	return p.binaryLevel(p.factor,
		token.Plus, token.Minus, token.Or, token.And, token.Xor, token.LShift, token.RShift)
}

func (p *Parser) factor() (ast.Expr, error) {
	return p.binaryLevel(p.unary, token.Times, token.Divide, token.Mod)
}

func (p *Parser) unary() (ast.Expr, error) {
	op, ok := p.match(token.Minus, token.Not, token.Plus)
	if !ok {
		return p.call()
	}
	operand, err := p.unary()
	if err != nil {
		return nil, err
	}
	return &ast.Unary{Span: token.Merge(op.Span, operand.NodeSpan()), Op: op.Kind, Operand: operand}, nil
}

func (p *Parser) call() (ast.Expr, error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur.Kind {
		case token.LParen:
			p.advance()
			if expr, err = p.finishCall(expr); err != nil {
				return nil, err
			}
		case token.Dot:
			p.advance()
			name, err := p.expect(token.Identifier)
			if err != nil {
				return nil, err
			}
			expr = &ast.Get{Span: token.Merge(expr.NodeSpan(), name.Span), Object: expr, Name: name.Lexeme}
		default:
			return expr, nil
		}
	}
}

func (p *Parser) finishCall(callee ast.Expr) (ast.Expr, error) {
	var args []ast.Expr
	if !p.check(token.RParen) {
		for {
			if len(args) >= p.maxParams {
				return nil, p.errorAt(p.cur, diagnostics.TooManyParameters, "cannot have more than %d arguments", p.maxParams)
			}
			arg, err := p.expression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if _, ok := p.match(token.Comma); !ok {
				break
			}
		}
	}
	paren, err := p.expect(token.RParen)
	if err != nil {
		return nil, err
	}
	return &ast.Call{Span: token.Merge(callee.NodeSpan(), paren.Span), Callee: callee, Args: args}, nil
}

func (p *Parser) primary() (ast.Expr, error) {
	tok := p.advance()
	switch tok.Kind {
	case token.Number:
		return &ast.Literal{Span: tok.Span, Value: ast.NumberValue(tok.Number)}, nil
	case token.String:
		return &ast.Literal{Span: tok.Span, Value: ast.StringValue(tok.Lexeme)}, nil
	case token.True:
		return &ast.Literal{Span: tok.Span, Value: ast.BoolValue(true)}, nil
	case token.False:
		return &ast.Literal{Span: tok.Span, Value: ast.BoolValue(false)}, nil
	case token.Nil:
		return &ast.Literal{Span: tok.Span, Value: ast.NilValue{}}, nil
	case token.Identifier:
		return &ast.Variable{Span: tok.Span, Name: tok.Lexeme}, nil
	case token.This:
		return &ast.This{Span: tok.Span}, nil
	case token.Super:
		if _, err := p.expect(token.Dot); err != nil {
			return nil, err
		}
		method, err := p.expect(token.Identifier)
		if err != nil {
			return nil, err
		}
		return &ast.Super{Span: token.Merge(tok.Span, method.Span), Method: method.Lexeme}, nil
	case token.LParen:
		inner, err := p.expression()
		if err != nil {
			return nil, err
		}
		closing, err := p.expect(token.RParen)
		if err != nil {
			return nil, err
		}
		return &ast.Grouping{Span: token.Merge(tok.Span, closing.Span), Inner: inner}, nil
	}
	return nil, p.errorAt(tok, diagnostics.Parse, "expected expression, found %q", found(tok))
}
