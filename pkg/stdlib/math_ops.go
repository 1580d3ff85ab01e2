package stdlib

import (
	"math"

	"github.com/thomasrohde/rlisp/pkg/interpreter"
)

func numbers(fn string, args []interpreter.Value) ([]float64, error) {
	out := make([]float64, len(args))
	for i, a := range args {
		n, ok := a.(interpreter.Number)
		if !ok {
			return nil, argError(fn, "expected a number, got %s", interpreter.TypeName(a))
		}
		out[i] = float64(n)
	}
	return out, nil
}

// max(a, b) → the larger number
func stdlibMax(args []interpreter.Value) (interpreter.Value, error) {
	ns, err := numbers("max", args)
	if err != nil {
		return nil, err
	}
	return interpreter.Number(math.Max(ns[0], ns[1])), nil
}

// min(a, b) → the smaller number
func stdlibMin(args []interpreter.Value) (interpreter.Value, error) {
	ns, err := numbers("min", args)
	if err != nil {
		return nil, err
	}
	return interpreter.Number(math.Min(ns[0], ns[1])), nil
}

// floor(n) → n rounded toward negative infinity
func stdlibFloor(args []interpreter.Value) (interpreter.Value, error) {
	ns, err := numbers("floor", args)
	if err != nil {
		return nil, err
	}
	return interpreter.Number(math.Floor(ns[0])), nil
}
