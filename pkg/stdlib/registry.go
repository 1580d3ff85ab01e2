// Package stdlib provides the rlisp host function registry.
package stdlib

import (
	"sort"

	"github.com/thomasrohde/rlisp/pkg/interpreter"
)

// Fn represents a host function with a fixed number of arguments.
type Fn struct {
	Name    string
	Arity   int
	Execute func(args []interpreter.Value) (interpreter.Value, error)
}

// Registry holds registered host functions.
type Registry struct {
	fns map[string]*Fn
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		fns: make(map[string]*Fn),
	}
}

// Register adds a function to the registry, replacing any with the same name.
func (r *Registry) Register(fn Fn) {
	r.fns[fn.Name] = &fn
}

// Get retrieves a function by name.
func (r *Registry) Get(name string) *Fn {
	return r.fns[name]
}

// All returns all registered functions.
func (r *Registry) All() map[string]*Fn {
	return r.fns
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.fns))
	for name := range r.fns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Natives converts the registry into interpreter values, sorted by name.
func (r *Registry) Natives() []*interpreter.NativeFunction {
	out := make([]*interpreter.NativeFunction, 0, len(r.fns))
	for _, name := range r.Names() {
		fn := r.fns[name]
		out = append(out, &interpreter.NativeFunction{FnName: fn.Name, Params: fn.Arity, Fn: fn.Execute})
	}
	return out
}
