// Package formatter renders rlisp syntax trees, either back to source code
// or as S-expressions for debugging.
package formatter

import (
	"strconv"
	"strings"

	"github.com/thomasrohde/rlisp/pkg/ast"
	"github.com/thomasrohde/rlisp/pkg/token"
)

const indent = "  "

// Precedence table for binary operators (higher = tighter binding)
var precedence = map[token.Kind]int{
	token.LOr:  1,
	token.LAnd: 2,
	token.Eq:   3, token.Ne: 3,
	token.Lt: 4, token.Lte: 4, token.Gt: 4, token.Gte: 4,
	token.Plus: 5, token.Minus: 5, token.Or: 5, token.And: 5, token.Xor: 5, token.LShift: 5, token.RShift: 5,
	token.Times: 6, token.Divide: 6, token.Mod: 6,
}

func needsParens(child ast.Expr, parentOp token.Kind, isRight bool) bool {
	bin, ok := child.(*ast.Binary)
	if !ok {
		return false
	}
	childPrec := precedence[bin.Op]
	parentPrec := precedence[parentOp]
	if childPrec < parentPrec {
		return true
	}
	// operators are left associative, so an equal-precedence right operand keeps its parens
	return childPrec == parentPrec && isRight
}

// Format pretty-prints a program back to source code. Comments are not part
// of the tree and are lost; desugared forms print in their desugared shape
// except for loops, which are reassembled.
func Format(program *ast.Program) string {
	lines := make([]string, len(program.Stmts))
	for i, s := range program.Stmts {
		lines[i] = formatStmt(s, 0)
	}
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

// HasComments checks if a source string contains comments (# prefix),
// ignoring # inside string literals.
func HasComments(source string) bool {
	inString := false
	escaped := false
	for i := 0; i < len(source); i++ {
		ch := source[i]
		switch {
		case escaped:
			escaped = false
		case inString && ch == '\\':
			escaped = true
		case ch == '"':
			inString = !inString
		case !inString && ch == '#':
			return true
		}
	}
	return false
}

func formatStmt(s ast.Stmt, depth int) string {
	prefix := strings.Repeat(indent, depth)
	switch stmt := s.(type) {
	case *ast.ExprStmt:
		return prefix + formatExpr(stmt.Expr) + ";"
	case *ast.Print:
		return prefix + "print " + formatExpr(stmt.Expr) + ";"
	case *ast.Let:
		kw := "let "
		if stmt.Const {
			kw = "const "
		}
		if stmt.Value == nil {
			return prefix + kw + stmt.Name + ";"
		}
		return prefix + kw + stmt.Name + " = " + formatExpr(stmt.Value) + ";"
	case *ast.Block:
		if loop, ok := forLoop(stmt); ok {
			return prefix + formatFor(stmt.Stmts[0], loop, depth)
		}
		return prefix + formatBlock(stmt.Stmts, depth)
	case *ast.If:
		out := prefix + "if (" + formatExpr(stmt.Cond) + ")" + formatBody(stmt.Then, depth)
		if stmt.Else != nil {
			if _, isBlock := stmt.Then.(*ast.Block); isBlock {
				out += " else"
			} else {
				out += "\n" + prefix + "else"
			}
			out += formatBody(stmt.Else, depth)
		}
		return out
	case *ast.While:
		if stmt.ForLoop {
			return prefix + formatFor(nil, stmt, depth)
		}
		return prefix + "while (" + formatExpr(stmt.Cond) + ")" + formatBody(stmt.Body, depth)
	case *ast.Function:
		return prefix + "fn " + formatFunction(stmt, depth)
	case *ast.Return:
		if stmt.Value == nil {
			return prefix + "return;"
		}
		return prefix + "return " + formatExpr(stmt.Value) + ";"
	case *ast.Class:
		head := prefix + "class " + stmt.Name
		if stmt.Superclass != nil {
			head += " < " + stmt.Superclass.Name
		}
		if len(stmt.Methods) == 0 {
			return head + " {}"
		}
		methods := make([]string, len(stmt.Methods))
		for i, m := range stmt.Methods {
			methods[i] = strings.Repeat(indent, depth+1) + formatFunction(m, depth+1)
		}
		return head + " {\n" + strings.Join(methods, "\n") + "\n" + prefix + "}"
	case *ast.Break:
		return prefix + "break;"
	case *ast.Continue:
		return prefix + "continue;"
	}
	return ""
}

func formatFunction(fn *ast.Function, depth int) string {
	params := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = p.Name
	}
	return fn.Name + "(" + strings.Join(params, ", ") + ") " + formatBlock(fn.Body, depth)
}

func formatBlock(stmts []ast.Stmt, depth int) string {
	if len(stmts) == 0 {
		return "{}"
	}
	lines := make([]string, len(stmts))
	for i, s := range stmts {
		lines[i] = formatStmt(s, depth+1)
	}
	return "{\n" + strings.Join(lines, "\n") + "\n" + strings.Repeat(indent, depth) + "}"
}

// formatBody renders the body of if/while/for: blocks stay on the same line,
// single statements go on the next line, indented.
func formatBody(s ast.Stmt, depth int) string {
	if b, ok := s.(*ast.Block); ok {
		if _, isFor := forLoop(b); !isFor {
			return " " + formatBlock(b.Stmts, depth)
		}
	}
	return "\n" + formatStmt(s, depth+1)
}

// forLoop recognises the Block[init, While] shape produced for a for
// statement with an initializer.
func forLoop(b *ast.Block) (*ast.While, bool) {
	if len(b.Stmts) != 2 {
		return nil, false
	}
	loop, ok := b.Stmts[1].(*ast.While)
	if !ok || !loop.ForLoop {
		return nil, false
	}
	switch b.Stmts[0].(type) {
	case *ast.Let, *ast.ExprStmt:
		return loop, true
	}
	return nil, false
}

func formatFor(init ast.Stmt, loop *ast.While, depth int) string {
	head := "for ("
	if init != nil {
		head += formatStmt(init, 0)
	} else {
		head += ";"
	}
	head += " " + formatExpr(loop.Cond) + ";"

	body := loop.Body
	if b, ok := loop.Body.(*ast.Block); ok && len(b.Stmts) == 2 {
		if incr, ok := b.Stmts[1].(*ast.ExprStmt); ok {
			head += " " + formatExpr(incr.Expr)
			body = b.Stmts[0]
		}
	}
	return head + ")" + formatBody(body, depth)
}

func formatExpr(e ast.Expr) string {
	switch expr := e.(type) {
	case *ast.Literal:
		return formatLiteral(expr.Value)
	case *ast.Variable:
		return expr.Name
	case *ast.Grouping:
		return "(" + formatExpr(expr.Inner) + ")"
	case *ast.Unary:
		operand := formatExpr(expr.Operand)
		if _, isBin := expr.Operand.(*ast.Binary); isBin {
			operand = "(" + operand + ")"
		}
		return expr.Op.String() + operand
	case *ast.Binary:
		left := formatExpr(expr.Left)
		right := formatExpr(expr.Right)
		if needsParens(expr.Left, expr.Op, false) {
			left = "(" + left + ")"
		}
		if needsParens(expr.Right, expr.Op, true) {
			right = "(" + right + ")"
		}
		return left + " " + expr.Op.String() + " " + right
	case *ast.Assign:
		return expr.Name + " = " + formatExpr(expr.Value)
	case *ast.Call:
		args := make([]string, len(expr.Args))
		for i, a := range expr.Args {
			args[i] = formatExpr(a)
		}
		return formatOperand(expr.Callee) + "(" + strings.Join(args, ", ") + ")"
	case *ast.Get:
		return formatOperand(expr.Object) + "." + expr.Name
	case *ast.Set:
		return formatOperand(expr.Object) + "." + expr.Name + " = " + formatExpr(expr.Value)
	case *ast.This:
		return "this"
	case *ast.Super:
		return "super." + expr.Method
	}
	return ""
}

// formatOperand parenthesises operators used as the target of a call or
// property access.
func formatOperand(e ast.Expr) string {
	switch e.(type) {
	case *ast.Binary, *ast.Unary, *ast.Assign, *ast.Set:
		return "(" + formatExpr(e) + ")"
	}
	return formatExpr(e)
}

func formatLiteral(v ast.LiteralValue) string {
	switch lit := v.(type) {
	case ast.StringValue:
		return quote(string(lit))
	case ast.NumberValue:
		return strconv.FormatFloat(float64(lit), 'f', -1, 64)
	}
	return v.String()
}

// quote renders s using only the escapes the lexer understands.
func quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch ch := s[i]; ch {
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		default:
			b.WriteByte(ch)
		}
	}
	b.WriteByte('"')
	return b.String()
}
