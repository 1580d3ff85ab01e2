// Package validator implements static checks over rlisp programs.
//
// Validation never changes how a program runs; it reports problems the
// interpreter would only discover when the offending code executes.
package validator

import (
	"github.com/thomasrohde/rlisp/pkg/ast"
	"github.com/thomasrohde/rlisp/pkg/diagnostics"
)

// scope maps the names bound in one lexical scope to whether they are constant.
type scope struct {
	bindings map[string]bool
	parent   *scope
}

func newScope(parent *scope) *scope {
	return &scope{bindings: make(map[string]bool), parent: parent}
}

// lookup reports whether name is bound and whether that binding is constant.
func (s *scope) lookup(name string) (isConst, ok bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if c, found := sc.bindings[name]; found {
			return c, true
		}
	}
	return false, false
}

func (s *scope) add(name string, isConst bool) {
	s.bindings[name] = isConst
}

type classContext struct {
	hasSuper bool
}

type validator struct {
	diags    []*diagnostics.Diagnostic
	declared map[string]bool

	loops     int
	functions int
	class     *classContext
}

// Validate checks program and returns diagnostics in source order. globals
// names the host-provided bindings that exist before the program runs.
func Validate(program *ast.Program, globals ...string) []*diagnostics.Diagnostic {
	v := &validator{declared: make(map[string]bool)}
	root := newScope(nil)
	for _, g := range globals {
		root.add(g, false)
		v.declared[g] = true
	}
	collectDeclared(program.Stmts, v.declared)

	top := newScope(root)
	for _, stmt := range program.Stmts {
		v.stmt(stmt, top)
	}
	return v.diags
}

func (v *validator) add(kind diagnostics.Kind, node ast.Node, format string, args ...any) {
	v.diags = append(v.diags, diagnostics.New(kind, node.NodeSpan(), format, args...))
}

// collectDeclared gathers every name declared anywhere in stmts. A name that
// is never declared can only ever fail at runtime.
func collectDeclared(stmts []ast.Stmt, into map[string]bool) {
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.Let:
			into[s.Name] = true
		case *ast.Function:
			into[s.Name] = true
			for _, p := range s.Params {
				into[p.Name] = true
			}
			collectDeclared(s.Body, into)
		case *ast.Class:
			into[s.Name] = true
			for _, m := range s.Methods {
				collectDeclared([]ast.Stmt{m}, into)
			}
		case *ast.Block:
			collectDeclared(s.Stmts, into)
		case *ast.If:
			collectDeclared([]ast.Stmt{s.Then}, into)
			if s.Else != nil {
				collectDeclared([]ast.Stmt{s.Else}, into)
			}
		case *ast.While:
			collectDeclared([]ast.Stmt{s.Body}, into)
		}
	}
}

func (v *validator) stmt(stmt ast.Stmt, sc *scope) {
	switch s := stmt.(type) {
	case *ast.ExprStmt:
		v.expr(s.Expr, sc)

	case *ast.Print:
		v.expr(s.Expr, sc)

	case *ast.Let:
		if s.Const && s.Value == nil {
			v.add(diagnostics.Syntax, s, "cannot declare a constant without a value")
		}
		if isConst, ok := sc.bindings[s.Name]; ok && isConst {
			v.add(diagnostics.Syntax, s, "cannot reassign a constant variable")
		}
		if s.Value != nil {
			v.expr(s.Value, sc)
		}
		sc.add(s.Name, s.Const)

	case *ast.Block:
		inner := newScope(sc)
		for _, child := range s.Stmts {
			v.stmt(child, inner)
		}

	case *ast.If:
		v.expr(s.Cond, sc)
		v.stmt(s.Then, sc)
		if s.Else != nil {
			v.stmt(s.Else, sc)
		}

	case *ast.While:
		v.expr(s.Cond, sc)
		v.loops++
		v.stmt(s.Body, sc)
		v.loops--

	case *ast.Function:
		sc.add(s.Name, false)
		v.function(s, sc)

	case *ast.Return:
		if v.functions == 0 {
			v.add(diagnostics.Parse, s, "return outside of a function")
		}
		if s.Value != nil {
			v.expr(s.Value, sc)
		}

	case *ast.Class:
		sc.add(s.Name, false)
		if s.Superclass != nil {
			v.expr(s.Superclass, sc)
		}
		outer := v.class
		v.class = &classContext{hasSuper: s.Superclass != nil}
		for _, m := range s.Methods {
			v.function(m, sc)
		}
		v.class = outer

	case *ast.Break:
		if v.loops == 0 {
			v.add(diagnostics.Parse, s, "break outside of a loop")
		}

	case *ast.Continue:
		if v.loops == 0 {
			v.add(diagnostics.Parse, s, "continue outside of a loop")
		}
	}
}

func (v *validator) function(fn *ast.Function, sc *scope) {
	inner := newScope(sc)
	seen := make(map[string]bool, len(fn.Params))
	for _, p := range fn.Params {
		if seen[p.Name] {
			v.diags = append(v.diags, diagnostics.New(diagnostics.Parse, p.Span, "duplicate parameter %q", p.Name))
		}
		seen[p.Name] = true
		inner.add(p.Name, false)
	}

	loops := v.loops
	v.loops = 0
	v.functions++
	for _, stmt := range fn.Body {
		v.stmt(stmt, inner)
	}
	v.functions--
	v.loops = loops
}

func (v *validator) expr(expr ast.Expr, sc *scope) {
	switch e := expr.(type) {
	case *ast.Variable:
		if !v.declared[e.Name] {
			v.add(diagnostics.Name, e, "undefined variable %q", e.Name)
		}
	case *ast.Grouping:
		v.expr(e.Inner, sc)
	case *ast.Unary:
		v.expr(e.Operand, sc)
	case *ast.Binary:
		v.expr(e.Left, sc)
		v.expr(e.Right, sc)
	case *ast.Assign:
		if isConst, ok := sc.lookup(e.Name); ok && isConst {
			v.add(diagnostics.Syntax, e, "cannot reassign a constant variable")
		} else if !v.declared[e.Name] {
			v.add(diagnostics.Name, e, "undefined variable %q", e.Name)
		}
		v.expr(e.Value, sc)
	case *ast.Call:
		v.expr(e.Callee, sc)
		for _, a := range e.Args {
			v.expr(a, sc)
		}
	case *ast.Get:
		v.expr(e.Object, sc)
	case *ast.Set:
		v.expr(e.Object, sc)
		v.expr(e.Value, sc)
	case *ast.This:
		if v.class == nil {
			v.add(diagnostics.Parse, e, "this outside of a class")
		}
	case *ast.Super:
		switch {
		case v.class == nil:
			v.add(diagnostics.Parse, e, "super outside of a class")
		case !v.class.hasSuper:
			v.add(diagnostics.Parse, e, "super in a class with no superclass")
		}
	}
}
