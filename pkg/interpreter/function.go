package interpreter

import (
	"github.com/thomasrohde/rlisp/pkg/ast"
)

// Function is a callable value: a *UserFunction or a *NativeFunction.
type Function interface {
	Value
	Arity() int
	Name() string
	call(in *Interpreter, args []Value) (Value, error)
}

// NativeFunction is a host-provided function.
type NativeFunction struct {
	FnName string
	Params int
	Fn     func(args []Value) (Value, error)
}

func (*NativeFunction) value() {}

func (f *NativeFunction) Arity() int   { return f.Params }
func (f *NativeFunction) Name() string { return f.FnName }

func (f *NativeFunction) call(_ *Interpreter, args []Value) (Value, error) {
	v, err := f.Fn(args)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return Nil{}, nil
	}
	return v, nil
}

// UserFunction is a function declared in source, closed over the
// environment that was active when its declaration executed.
type UserFunction struct {
	Decl    *ast.Function
	Closure *Environment

	// IsInitializer marks class initializers. Classes do not evaluate yet,
	// so it is always false.
	IsInitializer bool
}

func (*UserFunction) value() {}

func (f *UserFunction) Arity() int   { return len(f.Decl.Params) }
func (f *UserFunction) Name() string { return f.Decl.Name }

// call binds parameters in a fresh scope under the closure, not the caller's
// environment, and runs the body there.
func (f *UserFunction) call(in *Interpreter, args []Value) (Value, error) {
	env := NewEnvironment(f.Closure)
	for i, p := range f.Decl.Params {
		if err := env.Define(p.Name, args[i], false); err != nil {
			return nil, err
		}
	}
	c, err := in.executeBlock(f.Decl.Body, env)
	if err != nil {
		return nil, err
	}
	switch c.kind {
	case completionReturn:
		return c.value, nil
	case completionBreak, completionContinue:
		return nil, strayCompletion(c)
	}
	return Nil{}, nil
}
