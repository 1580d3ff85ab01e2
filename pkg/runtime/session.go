package runtime

import (
	"context"

	"github.com/thomasrohde/rlisp/pkg/interpreter"
	"github.com/thomasrohde/rlisp/pkg/parser"
)

// Session evaluates a sequence of inputs against one set of globals.
type Session struct {
	rt     *Runtime
	interp *interpreter.Interpreter
	inputs int
}

// NewSession starts an empty session.
func (rt *Runtime) NewSession() *Session {
	s := &Session{rt: rt}
	s.interp = interpreter.New(
		interpreter.WithOutput(rt.out),
		interpreter.WithBudget(rt.budget),
		interpreter.WithNatives(rt.stdlib.Natives()...),
	)
	return s
}

// Complete reports whether input can be parsed as is, or needs more lines.
func (s *Session) Complete(input string) bool {
	return !parser.Incomplete(input)
}

// Eval runs one input. Diagnostics are written to the runtime's error output
// and returned as a *DiagnosticError. Definitions made before an error stay.
func (s *Session) Eval(ctx context.Context, input string) error {
	s.inputs++
	program, err := s.rt.parse(input)
	if err != nil {
		s.rt.Report(err, "", input)
		return err
	}
	diags := s.interp.Interpret(ctx, program)
	if len(diags) == 0 {
		return nil
	}
	err = &DiagnosticError{Stage: StageRuntime, Diagnostics: diags}
	s.rt.Report(err, "", input)
	return err
}

// Globals lists the names currently bound at the top level.
func (s *Session) Globals() []string {
	return s.interp.Globals().Names()
}

// Inputs returns how many inputs have been evaluated.
func (s *Session) Inputs() int {
	return s.inputs
}
