package interpreter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/tliron/commonlog"

	"github.com/thomasrohde/rlisp/pkg/ast"
	"github.com/thomasrohde/rlisp/pkg/diagnostics"
)

var log = commonlog.GetLogger("rlisp.interpreter")

// Interpreter evaluates programs against a root environment that persists
// across calls to Interpret, so a REPL can feed it one input at a time.
type Interpreter struct {
	globals *Environment
	out     io.Writer
	report  diagnostics.Reporter
	budget  Budget
	tracker BudgetTracker
	ctx     context.Context
	halted  bool
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithOutput sets where print writes. The default is standard output.
func WithOutput(w io.Writer) Option {
	return func(in *Interpreter) {
		in.out = w
	}
}

// WithReporter sets a callback invoked for each runtime error as it happens.
func WithReporter(r diagnostics.Reporter) Option {
	return func(in *Interpreter) {
		in.report = r
	}
}

// WithBudget replaces the default limits.
func WithBudget(b Budget) Option {
	return func(in *Interpreter) {
		in.budget = b
	}
}

// WithNatives binds host functions in the global scope.
func WithNatives(fns ...*NativeFunction) Option {
	return func(in *Interpreter) {
		for _, fn := range fns {
			in.globals.bindings[fn.FnName] = binding{value: fn}
		}
	}
}

// New creates an interpreter. Host functions can only be installed here.
func New(opts ...Option) *Interpreter {
	in := &Interpreter{
		globals: NewEnvironment(nil),
		out:     os.Stdout,
		budget:  Budget{MaxCallDepth: DefaultMaxCallDepth},
		ctx:     context.Background(),
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Globals returns the root environment.
func (in *Interpreter) Globals() *Environment {
	return in.globals
}

// Tracker returns resource usage accumulated so far.
func (in *Interpreter) Tracker() BudgetTracker {
	return in.tracker
}

// Interpret executes the top-level statements of program in order. An error
// aborts only the statement that raised it; execution resumes with the next
// one. It returns every error reported, in order. The step budget applies to
// each call separately.
func (in *Interpreter) Interpret(ctx context.Context, program *ast.Program) []*diagnostics.Diagnostic {
	in.ctx = ctx
	in.halted = false
	in.tracker.Steps = 0
	defer func() { in.ctx = context.Background() }()

	var diags []*diagnostics.Diagnostic
	for _, stmt := range program.Stmts {
		err := in.executeTop(stmt)
		if err == nil {
			continue
		}
		d := toDiagnostic(err, stmt)
		log.Debugf("statement at line %d failed: %s", d.Span.Line, d.Message)
		diags = append(diags, d)
		if in.report != nil {
			in.report(d)
		}
		if in.halted {
			break
		}
	}
	return diags
}

func (in *Interpreter) executeTop(stmt ast.Stmt) error {
	c, err := in.execute(stmt, in.globals)
	if err != nil {
		return err
	}
	if c.kind != completionNormal {
		return strayCompletion(c)
	}
	return nil
}

func toDiagnostic(err error, at ast.Node) *diagnostics.Diagnostic {
	var d *diagnostics.Diagnostic
	if errors.As(diagnostics.At(err, at.NodeSpan()), &d) {
		return d
	}
	return diagnostics.New(diagnostics.Runtime, at.NodeSpan(), "%s", err.Error())
}

func (in *Interpreter) execute(stmt ast.Stmt, env *Environment) (completion, error) {
	if err := in.step(stmt.NodeSpan()); err != nil {
		return normal, err
	}

	switch s := stmt.(type) {
	case *ast.ExprStmt:
		_, err := in.evaluate(s.Expr, env)
		return normal, err

	case *ast.Print:
		v, err := in.evaluate(s.Expr, env)
		if err != nil {
			return normal, err
		}
		fmt.Fprintln(in.out, Display(v))
		return normal, nil

	case *ast.Let:
		var v Value = Nil{}
		if s.Value != nil {
			var err error
			if v, err = in.evaluate(s.Value, env); err != nil {
				return normal, err
			}
		}
		if err := env.Define(s.Name, v, s.Const); err != nil {
			return normal, diagnostics.At(err, s.Span)
		}
		return normal, nil

	case *ast.Block:
		return in.executeBlock(s.Stmts, env.Child())

	case *ast.If:
		cond, err := in.evaluate(s.Cond, env)
		if err != nil {
			return normal, err
		}
		if Truthy(cond) {
			return in.execute(s.Then, env)
		}
		if s.Else != nil {
			return in.execute(s.Else, env)
		}
		return normal, nil

	case *ast.While:
		return in.executeWhile(s, env)

	case *ast.Function:
		fn := &UserFunction{Decl: s, Closure: env}
		if err := env.Define(s.Name, fn, false); err != nil {
			return normal, diagnostics.At(err, s.Span)
		}
		return normal, nil

	case *ast.Return:
		var v Value = Nil{}
		if s.Value != nil {
			var err error
			if v, err = in.evaluate(s.Value, env); err != nil {
				return normal, err
			}
		}
		return completion{kind: completionReturn, value: v, span: s.Span}, nil

	case *ast.Class:
		if s.Superclass != nil {
			if _, err := in.evaluate(s.Superclass, env); err != nil {
				return normal, err
			}
		}
		return normal, diagnostics.New(diagnostics.Runtime, s.Span, "classes are not implemented")

	case *ast.Break:
		return completion{kind: completionBreak, span: s.Span}, nil

	case *ast.Continue:
		return completion{kind: completionContinue, span: s.Span}, nil
	}
	return normal, diagnostics.New(diagnostics.Runtime, stmt.NodeSpan(), "unsupported statement %s", stmt.Kind())
}

// executeBlock runs stmts in env, stopping at the first error or
// non-normal completion.
func (in *Interpreter) executeBlock(stmts []ast.Stmt, env *Environment) (completion, error) {
	for _, stmt := range stmts {
		c, err := in.execute(stmt, env)
		if err != nil || c.kind != completionNormal {
			return c, err
		}
	}
	return normal, nil
}

func (in *Interpreter) executeWhile(s *ast.While, env *Environment) (completion, error) {
	for {
		cond, err := in.evaluate(s.Cond, env)
		if err != nil {
			return normal, err
		}
		if !Truthy(cond) {
			return normal, nil
		}

		var c completion
		if body, ok := forBody(s); ok {
			c, err = in.executeForBody(body, env)
		} else {
			c, err = in.execute(s.Body, env)
		}
		if err != nil {
			return normal, err
		}

		switch c.kind {
		case completionBreak:
			return normal, nil
		case completionReturn:
			return c, nil
		}
	}
}

func forBody(s *ast.While) (*ast.Block, bool) {
	if !s.ForLoop {
		return nil, false
	}
	b, ok := s.Body.(*ast.Block)
	return b, ok && len(b.Stmts) == 2
}

// executeForBody runs a desugared for-loop iteration: the user body, then
// the increment, which also runs when the body ends with continue.
func (in *Interpreter) executeForBody(b *ast.Block, env *Environment) (completion, error) {
	scope := env.Child()
	c, err := in.execute(b.Stmts[0], scope)
	if err != nil || c.kind == completionBreak || c.kind == completionReturn {
		return c, err
	}
	return in.execute(b.Stmts[1], scope)
}

func (in *Interpreter) evaluate(expr ast.Expr, env *Environment) (Value, error) {
	switch e := expr.(type) {
	case *ast.Literal:
		return FromLiteral(e.Value), nil

	case *ast.Variable:
		v, err := env.Get(e.Name)
		if err != nil {
			return nil, diagnostics.At(err, e.Span)
		}
		return v, nil

	case *ast.Grouping:
		return in.evaluate(e.Inner, env)

	case *ast.Unary:
		operand, err := in.evaluate(e.Operand, env)
		if err != nil {
			return nil, err
		}
		return unary(e, operand)

	case *ast.Binary:
		left, err := in.evaluate(e.Left, env)
		if err != nil {
			return nil, err
		}
		right, err := in.evaluate(e.Right, env)
		if err != nil {
			return nil, err
		}
		return binary(e, left, right)

	case *ast.Assign:
		v, err := in.evaluate(e.Value, env)
		if err != nil {
			return nil, err
		}
		stored, err := env.Assign(e.Name, v)
		if err != nil {
			return nil, diagnostics.At(err, e.Span)
		}
		return stored, nil

	case *ast.Call:
		return in.call(e, env)

	case *ast.Get:
		if _, err := in.evaluate(e.Object, env); err != nil {
			return nil, err
		}
		return nil, diagnostics.New(diagnostics.Runtime, e.Span, "property access is not implemented")

	case *ast.Set:
		if _, err := in.evaluate(e.Object, env); err != nil {
			return nil, err
		}
		if _, err := in.evaluate(e.Value, env); err != nil {
			return nil, err
		}
		return nil, diagnostics.New(diagnostics.Runtime, e.Span, "property assignment is not implemented")

	case *ast.This:
		return nil, diagnostics.New(diagnostics.Runtime, e.Span, "this is not implemented")

	case *ast.Super:
		return nil, diagnostics.New(diagnostics.Runtime, e.Span, "super is not implemented")
	}
	return nil, diagnostics.New(diagnostics.Runtime, expr.NodeSpan(), "unsupported expression %s", expr.Kind())
}

func (in *Interpreter) call(e *ast.Call, env *Environment) (Value, error) {
	callee, err := in.evaluate(e.Callee, env)
	if err != nil {
		return nil, err
	}
	fn, ok := callee.(Function)
	if !ok {
		return nil, diagnostics.New(diagnostics.Type, e.Span, "%s is not callable", Repr(callee))
	}

	args := make([]Value, 0, len(e.Args))
	for _, a := range e.Args {
		v, err := in.evaluate(a, env)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	if len(args) != fn.Arity() {
		return nil, diagnostics.New(diagnostics.Runtime, e.Span,
			"%s expected %d arguments but got %d", fn.Name(), fn.Arity(), len(args))
	}

	if err := in.enterCall(e.Span); err != nil {
		return nil, err
	}
	defer in.leaveCall()

	log.Debugf("call %s at line %d, depth %d", fn.Name(), e.Span.Line, in.tracker.Depth)
	v, err := fn.call(in, args)
	if err != nil {
		return nil, diagnostics.At(err, e.Span)
	}
	return v, nil
}
