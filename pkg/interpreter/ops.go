package interpreter

import (
	"math"
	"strings"

	"github.com/thomasrohde/rlisp/pkg/ast"
	"github.com/thomasrohde/rlisp/pkg/diagnostics"
	"github.com/thomasrohde/rlisp/pkg/token"
)

// maxStringLen caps the result of string repetition.
const maxStringLen = 1 << 28

func unary(e *ast.Unary, operand Value) (Value, error) {
	switch e.Op {
	case token.Not:
		return Bool(!Truthy(operand)), nil
	case token.Minus, token.Plus:
		n, ok := operand.(Number)
		if !ok {
			return nil, diagnostics.New(diagnostics.Runtime, e.Span, "operand must be a number")
		}
		if e.Op == token.Minus {
			return -n, nil
		}
		return n, nil
	}
	return nil, diagnostics.New(diagnostics.Runtime, e.Span, "unknown unary operator %s", e.Op)
}

func binary(e *ast.Binary, left, right Value) (Value, error) {
	fail := func(format string, args ...any) (Value, error) {
		return nil, diagnostics.New(diagnostics.Runtime, e.Span, format, args...)
	}
	ln, lNum := left.(Number)
	rn, rNum := right.(Number)
	nums := lNum && rNum

	switch e.Op {
	case token.Plus:
		if nums {
			return ln + rn, nil
		}
		ls, lok := left.(String)
		rs, rok := right.(String)
		if lok && rok {
			return ls + rs, nil
		}
		return fail("operands must be two numbers or two strings")

	case token.Minus:
		if nums {
			return ln - rn, nil
		}
		return fail("operands must be numbers")

	case token.Times:
		if nums {
			return ln * rn, nil
		}
		if s, ok := left.(String); ok && rNum {
			return repeat(e, s, rn)
		}
		if s, ok := right.(String); ok && lNum {
			return repeat(e, s, ln)
		}
		if b, ok := right.(Bool); ok && lNum {
			return boolScale(ln, b), nil
		}
		if b, ok := left.(Bool); ok && rNum {
			return boolScale(rn, b), nil
		}
		return fail("operands must be numbers, or a string and a number")

	case token.Divide:
		if nums {
			if rn == 0 {
				return nil, diagnostics.New(diagnostics.ZeroDivision, e.Span, "division by zero")
			}
			return ln / rn, nil
		}
		if b, ok := right.(Bool); ok && lNum {
			return boolScale(ln, b), nil
		}
		return fail("operands must be numbers")

	case token.Mod:
		if nums {
			if rn == 0 {
				return nil, diagnostics.New(diagnostics.ZeroDivision, e.Span, "modulo by zero")
			}
			return Number(math.Mod(float64(ln), float64(rn))), nil
		}
		return fail("operands must be numbers")

	case token.And, token.Or, token.Xor, token.LShift, token.RShift:
		if !nums {
			return fail("operands must be numbers")
		}
		return bitwise(e, toInt(ln), toInt(rn))

	case token.LAnd, token.LOr:
		lb, lok := left.(Bool)
		rb, rok := right.(Bool)
		if !lok || !rok {
			return fail("operands must be two booleans")
		}
		if e.Op == token.LAnd {
			return lb && rb, nil
		}
		return lb || rb, nil

	case token.Lt, token.Lte, token.Gt, token.Gte:
		if !nums {
			return fail("operands must be numbers")
		}
		switch e.Op {
		case token.Lt:
			return Bool(ln < rn), nil
		case token.Lte:
			return Bool(ln <= rn), nil
		case token.Gt:
			return Bool(ln > rn), nil
		}
		return Bool(ln >= rn), nil

	case token.Eq:
		return Bool(Equal(left, right)), nil
	case token.Ne:
		return Bool(!Equal(left, right)), nil
	}
	return fail("unknown binary operator %s", e.Op)
}

// boolScale implements number*boolean: n when b is true, else 0.
func boolScale(n Number, b Bool) Number {
	if b {
		return n
	}
	return 0
}

// repeat concatenates s count times. The count is truncated toward zero and
// anything not positive yields the empty string.
func repeat(e *ast.Binary, s String, count Number) (Value, error) {
	n := math.Trunc(float64(count))
	if math.IsNaN(n) || n <= 0 || s == "" {
		return String(""), nil
	}
	if float64(len(s))*n > maxStringLen {
		return nil, diagnostics.New(diagnostics.Runtime, e.Span, "string repetition too large")
	}
	return String(strings.Repeat(string(s), int(n))), nil
}

// toInt truncates n to an int64, saturating at the bounds.
func toInt(n Number) int64 {
	f := float64(n)
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt64:
		return math.MaxInt64
	case f <= math.MinInt64:
		return math.MinInt64
	}
	return int64(f)
}

func bitwise(e *ast.Binary, l, r int64) (Value, error) {
	switch e.Op {
	case token.And:
		return Number(l & r), nil
	case token.Or:
		return Number(l | r), nil
	case token.Xor:
		return Number(l ^ r), nil
	}
	if r < 0 {
		return nil, diagnostics.New(diagnostics.Runtime, e.Span, "negative shift count")
	}
	if e.Op == token.LShift {
		return Number(l << r), nil
	}
	return Number(l >> r), nil
}
