package interpreter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thomasrohde/rlisp/pkg/ast"
)

func TestTruthy(t *testing.T) {
	falsy := []Value{Nil{}, nil, Bool(false), Number(0), String("")}
	for _, v := range falsy {
		assert.False(t, Truthy(v), "%#v", v)
	}
	truthy := []Value{Bool(true), Number(-1), Number(0.1), String("0"), &NativeFunction{}}
	for _, v := range truthy {
		assert.True(t, Truthy(v), "%#v", v)
	}
}

func TestDisplayAndRepr(t *testing.T) {
	fn := &UserFunction{Decl: &ast.Function{Name: "add"}}
	tests := []struct {
		v       Value
		display string
		repr    string
	}{
		{Nil{}, "nil", "nil"},
		{Bool(false), "false", "false"},
		{Number(3), "3", "3"},
		{Number(-0.25), "-0.25", "-0.25"},
		{Number(1e21), "1000000000000000000000", "1000000000000000000000"},
		{Number(math.Inf(1)), "inf", "inf"},
		{Number(math.NaN()), "NaN", "NaN"},
		{String("hi"), "hi", `"hi"`},
		{fn, "<fn add>", "<fn add>"},
		{&NativeFunction{FnName: "clock"}, "<native fn>", "<native fn>"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.display, Display(tt.v))
		assert.Equal(t, tt.repr, Repr(tt.v))
	}
}

func TestTypeName(t *testing.T) {
	assert.Equal(t, "nil", TypeName(Nil{}))
	assert.Equal(t, "boolean", TypeName(Bool(true)))
	assert.Equal(t, "number", TypeName(Number(1)))
	assert.Equal(t, "string", TypeName(String("")))
	assert.Equal(t, "function", TypeName(&NativeFunction{}))
	assert.Equal(t, "function", TypeName(&UserFunction{}))
}

func TestEqual(t *testing.T) {
	f1 := &NativeFunction{FnName: "f"}
	f2 := &NativeFunction{FnName: "f"}

	assert.True(t, Equal(Nil{}, nil))
	assert.True(t, Equal(Number(2), Number(2)))
	assert.True(t, Equal(String("a"), String("a")))
	assert.True(t, Equal(Bool(true), Bool(true)))
	assert.True(t, Equal(f1, f1))

	assert.False(t, Equal(f1, f2))
	assert.False(t, Equal(Number(1), String("1")))
	assert.False(t, Equal(Number(0), Bool(false)))
	assert.False(t, Equal(Nil{}, Bool(false)))
	assert.False(t, Equal(Number(math.NaN()), Number(math.NaN())))
}

func TestFromLiteral(t *testing.T) {
	assert.Equal(t, String("s"), FromLiteral(ast.StringValue("s")))
	assert.Equal(t, Number(2), FromLiteral(ast.NumberValue(2)))
	assert.Equal(t, Bool(true), FromLiteral(ast.BoolValue(true)))
	assert.Equal(t, Nil{}, FromLiteral(ast.NilValue{}))
}
