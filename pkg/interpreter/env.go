package interpreter

import (
	"sort"

	"github.com/thomasrohde/rlisp/pkg/diagnostics"
)

type binding struct {
	value    Value
	constant bool
}

// Environment is one lexical scope. Lookups walk the parent chain; closures
// keep their defining Environment alive by holding a pointer to it.
type Environment struct {
	bindings map[string]binding
	parent   *Environment
}

// NewEnvironment creates a scope with an optional parent.
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{
		bindings: make(map[string]binding),
		parent:   parent,
	}
}

// Child creates a new child scope whose parent is this environment.
func (e *Environment) Child() *Environment {
	return NewEnvironment(e)
}

// Parent returns the enclosing scope, or nil for the root.
func (e *Environment) Parent() *Environment {
	return e.parent
}

// Define binds name in this scope, shadowing any outer binding. A constant
// needs a non-nil value, and a constant already bound in this scope cannot
// be redefined.
func (e *Environment) Define(name string, val Value, constant bool) error {
	if constant && IsNil(val) {
		return diagnostics.Unlocated(diagnostics.Syntax, "cannot declare a constant without a value")
	}
	if old, ok := e.bindings[name]; ok && old.constant {
		return diagnostics.Unlocated(diagnostics.Syntax, "cannot reassign a constant variable")
	}
	e.bindings[name] = binding{value: val, constant: constant}
	return nil
}

// Get looks up a variable by name, traversing parent scopes.
func (e *Environment) Get(name string) (Value, error) {
	for env := e; env != nil; env = env.parent {
		if b, ok := env.bindings[name]; ok {
			return b.value, nil
		}
	}
	return nil, undefined(name)
}

// Assign overwrites the nearest binding of name and returns the stored value.
func (e *Environment) Assign(name string, val Value) (Value, error) {
	for env := e; env != nil; env = env.parent {
		b, ok := env.bindings[name]
		if !ok {
			continue
		}
		if b.constant {
			return nil, diagnostics.Unlocated(diagnostics.Syntax, "cannot reassign a constant variable")
		}
		env.bindings[name] = binding{value: val}
		return val, nil
	}
	return nil, undefined(name)
}

// Has checks whether a variable is defined in this scope or any parent.
func (e *Environment) Has(name string) bool {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.bindings[name]; ok {
			return true
		}
	}
	return false
}

// Names returns the names bound directly in this scope, sorted.
func (e *Environment) Names() []string {
	names := make([]string, 0, len(e.bindings))
	for name := range e.bindings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func undefined(name string) error {
	return diagnostics.Unlocated(diagnostics.Name, "undefined variable %q", name)
}
