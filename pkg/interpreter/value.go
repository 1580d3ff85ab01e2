// Package interpreter implements the rlisp tree-walking evaluator.
package interpreter

import (
	"math"
	"strconv"

	"github.com/thomasrohde/rlisp/pkg/ast"
)

// Value is the interface for all runtime values.
// Use the sealed marker method to restrict implementations to this package.
type Value interface {
	value() // sealed marker
}

// Nil is the absence of a value.
type Nil struct{}

// Bool is a boolean value.
type Bool bool

// Number is the only numeric type; all arithmetic is float64.
type Number float64

// String is an immutable string value.
type String string

func (Nil) value()    {}
func (Bool) value()   {}
func (Number) value() {}
func (String) value() {}

// IsNil reports whether v is nil or absent.
func IsNil(v Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(Nil)
	return ok
}

// FromLiteral converts a literal payload to its runtime value.
func FromLiteral(lit ast.LiteralValue) Value {
	switch v := lit.(type) {
	case ast.StringValue:
		return String(v)
	case ast.NumberValue:
		return Number(v)
	case ast.BoolValue:
		return Bool(v)
	}
	return Nil{}
}

// Truthy returns the boolean interpretation of a value.
// nil, false, 0 and "" are falsy; everything else is truthy.
func Truthy(v Value) bool {
	switch val := v.(type) {
	case Nil:
		return false
	case Bool:
		return bool(val)
	case Number:
		return val != 0
	case String:
		return val != ""
	case nil:
		return false
	default:
		return true
	}
}

// Display renders a value the way print shows it.
func Display(v Value) string {
	switch val := v.(type) {
	case Bool:
		return strconv.FormatBool(bool(val))
	case Number:
		return formatNumber(float64(val))
	case String:
		return string(val)
	case *UserFunction:
		return "<fn " + val.Name() + ">"
	case *NativeFunction:
		return "<native fn>"
	}
	return "nil"
}

// Repr is like Display but quotes strings.
func Repr(v Value) string {
	if s, ok := v.(String); ok {
		return strconv.Quote(string(s))
	}
	return Display(v)
}

func formatNumber(n float64) string {
	switch {
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 1):
		return "inf"
	case math.IsInf(n, -1):
		return "-inf"
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// TypeName returns the name of a value's type.
func TypeName(v Value) string {
	switch v.(type) {
	case Bool:
		return "boolean"
	case Number:
		return "number"
	case String:
		return "string"
	case *UserFunction, *NativeFunction:
		return "function"
	}
	return "nil"
}

// Equal compares by value for nil, booleans, numbers and strings and by
// identity for functions. Values of different types are never equal.
func Equal(a, b Value) bool {
	if IsNil(a) || IsNil(b) {
		return IsNil(a) && IsNil(b)
	}
	switch x := a.(type) {
	case Bool:
		y, ok := b.(Bool)
		return ok && x == y
	case Number:
		y, ok := b.(Number)
		return ok && x == y
	case String:
		y, ok := b.(String)
		return ok && x == y
	case *UserFunction:
		y, ok := b.(*UserFunction)
		return ok && x == y
	case *NativeFunction:
		y, ok := b.(*NativeFunction)
		return ok && x == y
	}
	return false
}
