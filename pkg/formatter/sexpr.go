package formatter

import (
	"strings"

	"github.com/thomasrohde/rlisp/pkg/ast"
)

// SExpr renders a node as a parenthesised prefix expression, e.g.
// `(- (group (/ 1 (group (* 2 32)))))`.
func SExpr(n ast.Node) string {
	var b strings.Builder
	writeNode(&b, n)
	return b.String()
}

// SExprProgram renders every top-level statement on its own line.
func SExprProgram(program *ast.Program) string {
	var b strings.Builder
	for _, s := range program.Stmts {
		writeNode(&b, s)
		b.WriteByte('\n')
	}
	return b.String()
}

func writeList(b *strings.Builder, head string, parts ...ast.Node) {
	b.WriteByte('(')
	b.WriteString(head)
	for _, p := range parts {
		b.WriteByte(' ')
		writeNode(b, p)
	}
	b.WriteByte(')')
}

func writeStmts(b *strings.Builder, head string, stmts []ast.Stmt) {
	nodes := make([]ast.Node, len(stmts))
	for i, s := range stmts {
		nodes[i] = s
	}
	writeList(b, head, nodes...)
}

func writeNode(b *strings.Builder, n ast.Node) {
	switch node := n.(type) {
	case *ast.Literal:
		b.WriteString(formatLiteral(node.Value))
	case *ast.Variable:
		b.WriteString(node.Name)
	case *ast.Grouping:
		writeList(b, "group", node.Inner)
	case *ast.Unary:
		writeList(b, node.Op.String(), node.Operand)
	case *ast.Binary:
		writeList(b, node.Op.String(), node.Left, node.Right)
	case *ast.Assign:
		writeList(b, "= "+node.Name, node.Value)
	case *ast.Call:
		parts := append([]ast.Node{node.Callee}, exprNodes(node.Args)...)
		writeList(b, "call", parts...)
	case *ast.Get:
		b.WriteString("(. ")
		writeNode(b, node.Object)
		b.WriteString(" " + node.Name + ")")
	case *ast.Set:
		b.WriteString("(set ")
		writeNode(b, node.Object)
		b.WriteString(" " + node.Name + " ")
		writeNode(b, node.Value)
		b.WriteByte(')')
	case *ast.This:
		b.WriteString("this")
	case *ast.Super:
		b.WriteString("(super " + node.Method + ")")

	case *ast.ExprStmt:
		writeList(b, "expr", node.Expr)
	case *ast.Print:
		writeList(b, "print", node.Expr)
	case *ast.Let:
		head := "let " + node.Name
		if node.Const {
			head = "const " + node.Name
		}
		if node.Value == nil {
			writeList(b, head)
		} else {
			writeList(b, head, node.Value)
		}
	case *ast.Block:
		writeStmts(b, "block", node.Stmts)
	case *ast.If:
		if node.Else == nil {
			writeList(b, "if", node.Cond, node.Then)
		} else {
			writeList(b, "if", node.Cond, node.Then, node.Else)
		}
	case *ast.While:
		writeList(b, "while", node.Cond, node.Body)
	case *ast.Function:
		writeFunction(b, node)
	case *ast.Return:
		if node.Value == nil {
			writeList(b, "return")
		} else {
			writeList(b, "return", node.Value)
		}
	case *ast.Class:
		head := "class " + node.Name
		if node.Superclass != nil {
			head += " < " + node.Superclass.Name
		}
		b.WriteString("(" + head)
		for _, m := range node.Methods {
			b.WriteByte(' ')
			writeFunction(b, m)
		}
		b.WriteByte(')')
	case *ast.Break:
		b.WriteString("(break)")
	case *ast.Continue:
		b.WriteString("(continue)")
	}
}

func writeFunction(b *strings.Builder, fn *ast.Function) {
	names := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		names[i] = p.Name
	}
	writeStmts(b, "fn "+fn.Name+" ("+strings.Join(names, " ")+")", fn.Body)
}

func exprNodes(exprs []ast.Expr) []ast.Node {
	nodes := make([]ast.Node, len(exprs))
	for i, e := range exprs {
		nodes[i] = e
	}
	return nodes
}
