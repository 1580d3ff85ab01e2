package stdlib

import (
	"github.com/thomasrohde/rlisp/pkg/diagnostics"
	"github.com/thomasrohde/rlisp/pkg/interpreter"
)

// RegisterDefaults adds all host functions.
func RegisterDefaults(r *Registry) {
	r.Register(Fn{Name: "clock", Arity: 0, Execute: stdlibClock})

	// Conversions and predicates
	r.Register(Fn{Name: "str", Arity: 1, Execute: stdlibStr})
	r.Register(Fn{Name: "num", Arity: 1, Execute: stdlibNum})
	r.Register(Fn{Name: "type", Arity: 1, Execute: stdlibType})

	// String ops
	r.Register(Fn{Name: "len", Arity: 1, Execute: stdlibLen})
	r.Register(Fn{Name: "contains", Arity: 2, Execute: stdlibContains})
	r.Register(Fn{Name: "upper", Arity: 1, Execute: stdlibUpper})
	r.Register(Fn{Name: "lower", Arity: 1, Execute: stdlibLower})

	// Math
	r.Register(Fn{Name: "max", Arity: 2, Execute: stdlibMax})
	r.Register(Fn{Name: "min", Arity: 2, Execute: stdlibMin})
	r.Register(Fn{Name: "floor", Arity: 1, Execute: stdlibFloor})
}

// Defaults returns a registry holding every default function.
func Defaults() *Registry {
	r := NewRegistry()
	RegisterDefaults(r)
	return r
}

// str(v) → display form of v
func stdlibStr(args []interpreter.Value) (interpreter.Value, error) {
	return interpreter.String(interpreter.Display(args[0])), nil
}

// type(v) → "nil", "boolean", "number", "string" or "function"
func stdlibType(args []interpreter.Value) (interpreter.Value, error) {
	return interpreter.String(interpreter.TypeName(args[0])), nil
}

func argError(fn, format string, args ...any) error {
	return diagnostics.Unlocated(diagnostics.Type, fn+": "+format, args...)
}
