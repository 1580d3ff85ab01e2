package ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thomasrohde/rlisp/pkg/ast"
	"github.com/thomasrohde/rlisp/pkg/token"
)

func TestNodeKinds(t *testing.T) {
	nodes := []ast.Node{
		&ast.Literal{Value: ast.NumberValue(1)},
		&ast.Variable{Name: "x"},
		&ast.Grouping{},
		&ast.Unary{Op: token.Minus},
		&ast.Binary{Op: token.Plus},
		&ast.Assign{Name: "x"},
		&ast.Call{},
		&ast.Get{},
		&ast.Set{},
		&ast.This{},
		&ast.Super{},
		&ast.ExprStmt{},
		&ast.Print{},
		&ast.Let{},
		&ast.Block{},
		&ast.If{},
		&ast.While{},
		&ast.Function{},
		&ast.Return{},
		&ast.Class{},
		&ast.Break{},
		&ast.Continue{},
	}

	expected := []string{
		"Literal", "Variable", "Grouping", "Unary", "Binary", "Assign",
		"Call", "Get", "Set", "This", "Super",
		"ExprStmt", "Print", "Let", "Block", "If", "While", "Function",
		"Return", "Class", "Break", "Continue",
	}

	for i, node := range nodes {
		assert.Equal(t, expected[i], node.Kind(), "node %d", i)
	}
}

func TestNodeSpan(t *testing.T) {
	span := token.NewSpan(2, 10, 12, 15)
	var n ast.Node = &ast.Variable{Span: span, Name: "abc"}
	assert.Equal(t, span, n.NodeSpan())
}

func TestLiteralValueStrings(t *testing.T) {
	assert.Equal(t, `"hi\n"`, ast.StringValue("hi\n").String())
	assert.Equal(t, "2.5", ast.NumberValue(2.5).String())
	assert.Equal(t, "32", ast.NumberValue(32).String())
	assert.Equal(t, "true", ast.BoolValue(true).String())
	assert.Equal(t, "nil", ast.NilValue{}.String())
}
