package interpreter

import (
	"github.com/thomasrohde/rlisp/pkg/diagnostics"
	"github.com/thomasrohde/rlisp/pkg/token"
)

// DefaultMaxCallDepth bounds nested calls so runaway recursion surfaces as a
// runtime error instead of exhausting the host stack.
const DefaultMaxCallDepth = 2048

// Budget holds the resource limits for a program execution.
// A zero field means unlimited.
type Budget struct {
	MaxCallDepth int
	MaxSteps     int64
}

// BudgetTracker tracks resource consumption during execution.
type BudgetTracker struct {
	Depth int
	Steps int64
}

// step counts one executed statement. Exhausting the step budget or
// cancelling the context halts the whole run, not just the current statement.
func (in *Interpreter) step(span token.Span) error {
	in.tracker.Steps++
	if in.budget.MaxSteps > 0 && in.tracker.Steps > in.budget.MaxSteps {
		in.halted = true
		return diagnostics.New(diagnostics.Runtime, span, "step budget exceeded (max %d)", in.budget.MaxSteps)
	}
	if in.ctx.Err() != nil {
		in.halted = true
		return diagnostics.New(diagnostics.Runtime, span, "execution interrupted")
	}
	return nil
}

func (in *Interpreter) enterCall(span token.Span) error {
	in.tracker.Depth++
	if in.budget.MaxCallDepth > 0 && in.tracker.Depth > in.budget.MaxCallDepth {
		in.tracker.Depth--
		return diagnostics.New(diagnostics.Runtime, span, "maximum call depth exceeded")
	}
	return nil
}

func (in *Interpreter) leaveCall() {
	in.tracker.Depth--
}
