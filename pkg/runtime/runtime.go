// Package runtime provides the top-level rlisp runtime orchestrator.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/thomasrohde/rlisp/pkg/ast"
	"github.com/thomasrohde/rlisp/pkg/config"
	"github.com/thomasrohde/rlisp/pkg/diagnostics"
	"github.com/thomasrohde/rlisp/pkg/formatter"
	"github.com/thomasrohde/rlisp/pkg/interpreter"
	"github.com/thomasrohde/rlisp/pkg/lexer"
	"github.com/thomasrohde/rlisp/pkg/parser"
	"github.com/thomasrohde/rlisp/pkg/stdlib"
	"github.com/thomasrohde/rlisp/pkg/validator"
)

var log = commonlog.GetLogger("rlisp.runtime")

// Exit codes returned by ExitCode.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitParse   = 2
	ExitRuntime = 3
)

// Runtime wires together the lexer, parser and interpreter.
type Runtime struct {
	stdlib    *stdlib.Registry
	budget    interpreter.Budget
	maxParams int
	out       io.Writer
	errOut    io.Writer
	pretty    bool
}

// Option is a functional option for configuring the Runtime.
type Option func(*Runtime)

// WithStdlib sets the stdlib registry.
func WithStdlib(r *stdlib.Registry) Option {
	return func(rt *Runtime) {
		rt.stdlib = r
	}
}

// WithBudget sets the interpreter limits.
func WithBudget(b interpreter.Budget) Option {
	return func(rt *Runtime) {
		rt.budget = b
	}
}

// WithMaxParameters sets the parser's parameter/argument limit.
func WithMaxParameters(n int) Option {
	return func(rt *Runtime) {
		rt.maxParams = n
	}
}

// WithOutput sets where programs print.
func WithOutput(w io.Writer) Option {
	return func(rt *Runtime) {
		rt.out = w
	}
}

// WithErrorOutput sets where diagnostics are written.
func WithErrorOutput(w io.Writer) Option {
	return func(rt *Runtime) {
		rt.errOut = w
	}
}

// WithPretty switches diagnostics to the caret snippet form.
func WithPretty(pretty bool) Option {
	return func(rt *Runtime) {
		rt.pretty = pretty
	}
}

// WithConfig applies interpreter and diagnostics settings from cfg.
func WithConfig(cfg *config.Config) Option {
	return func(rt *Runtime) {
		rt.budget = interpreter.Budget{
			MaxCallDepth: cfg.Interpreter.MaxCallDepth,
			MaxSteps:     cfg.Interpreter.MaxSteps,
		}
		rt.maxParams = cfg.Interpreter.MaxParameters
		rt.pretty = cfg.Diagnostics.Pretty
	}
}

// New creates a new Runtime with the given options.
// By default the stdlib defaults are registered and output goes to the
// process's standard streams.
func New(opts ...Option) *Runtime {
	rt := &Runtime{
		stdlib:    stdlib.Defaults(),
		budget:    interpreter.Budget{MaxCallDepth: interpreter.DefaultMaxCallDepth},
		maxParams: parser.DefaultMaxParameters,
		out:       os.Stdout,
		errOut:    os.Stderr,
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

// Stage names the pipeline step that produced a DiagnosticError.
type Stage string

const (
	StageParse    Stage = "parse"
	StageValidate Stage = "validate"
	StageRuntime  Stage = "runtime"
)

// DiagnosticError wraps diagnostics as an error.
type DiagnosticError struct {
	Stage       Stage
	Diagnostics []*diagnostics.Diagnostic
}

func (e *DiagnosticError) Error() string {
	msgs := make([]string, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		msgs[i] = diagnostics.Format(d)
	}
	return strings.Join(msgs, "; ")
}

// ExitCode maps an error returned by Run to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var de *DiagnosticError
	if !errors.As(err, &de) {
		return ExitFailure
	}
	if de.Stage == StageRuntime {
		return ExitRuntime
	}
	return ExitParse
}

func (rt *Runtime) parse(source string) (*ast.Program, error) {
	program, diags := parser.Parse(source, parser.WithMaxParameters(rt.maxParams))
	if len(diags) > 0 {
		return nil, &DiagnosticError{Stage: StageParse, Diagnostics: diags}
	}
	return program, nil
}

// Render formats one diagnostic according to the runtime's settings.
func (rt *Runtime) Render(d *diagnostics.Diagnostic, filename, source string) string {
	if rt.pretty {
		return diagnostics.FormatPretty(d, filename, source)
	}
	return diagnostics.Format(d)
}

// Report writes err's diagnostics, if any, to the error output.
func (rt *Runtime) Report(err error, filename, source string) {
	var de *DiagnosticError
	if !errors.As(err, &de) {
		return
	}
	for _, d := range de.Diagnostics {
		fmt.Fprintln(rt.errOut, rt.Render(d, filename, source))
	}
}

func (rt *Runtime) newInterpreter(filename, source string) *interpreter.Interpreter {
	return interpreter.New(
		interpreter.WithOutput(rt.out),
		interpreter.WithBudget(rt.budget),
		interpreter.WithNatives(rt.stdlib.Natives()...),
		interpreter.WithReporter(func(d *diagnostics.Diagnostic) {
			fmt.Fprintln(rt.errOut, rt.Render(d, filename, source))
		}),
	)
}

// Run parses and executes a program. Parse diagnostics are written to the
// error output and nothing runs. Runtime diagnostics are written as they
// occur; the remaining top-level statements still run.
func (rt *Runtime) Run(ctx context.Context, source, filename string) error {
	program, err := rt.parse(source)
	if err != nil {
		rt.Report(err, filename, source)
		return err
	}
	log.Debugf("running %s (%d statements)", displayName(filename), len(program.Stmts))

	in := rt.newInterpreter(filename, source)
	diags := in.Interpret(ctx, program)
	usage := in.Tracker()
	log.Debugf("finished %s: %d steps, %d errors", displayName(filename), usage.Steps, len(diags))
	if len(diags) > 0 {
		return &DiagnosticError{Stage: StageRuntime, Diagnostics: diags}
	}
	return nil
}

// Check parses and statically validates a program without executing it.
func (rt *Runtime) Check(source string) []*diagnostics.Diagnostic {
	program, err := rt.parse(source)
	if err != nil {
		return err.(*DiagnosticError).Diagnostics
	}
	return validator.Validate(program, rt.stdlib.Names()...)
}

// Tokens renders the token stream of source, one token per line.
func (rt *Runtime) Tokens(source string) (string, error) {
	tokens, diags := lexer.Tokenize(source)
	var b strings.Builder
	for _, tok := range tokens {
		b.WriteString(lexer.Describe(tok))
		b.WriteByte('\n')
	}
	if len(diags) > 0 {
		return b.String(), &DiagnosticError{Stage: StageParse, Diagnostics: diags}
	}
	return b.String(), nil
}

// AST parses source and renders it as S-expressions.
func (rt *Runtime) AST(source string) (string, error) {
	program, err := rt.parse(source)
	if err != nil {
		return "", err
	}
	return formatter.SExprProgram(program), nil
}

// ErrComments is returned by Format for sources it would lose comments from.
var ErrComments = errors.New("source contains comments, which formatting would drop")

// Format parses and re-prints a program in canonical layout.
func (rt *Runtime) Format(source string, force bool) (string, error) {
	if !force && formatter.HasComments(source) {
		return "", ErrComments
	}
	program, err := rt.parse(source)
	if err != nil {
		return "", err
	}
	return formatter.Format(program), nil
}

func displayName(filename string) string {
	if filename == "" {
		return "<input>"
	}
	return filename
}
