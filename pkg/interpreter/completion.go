package interpreter

import (
	"github.com/thomasrohde/rlisp/pkg/diagnostics"
	"github.com/thomasrohde/rlisp/pkg/token"
)

type completionKind int

const (
	completionNormal completionKind = iota
	completionReturn
	completionBreak
	completionContinue
)

// completion is how a statement finished. Non-normal completions unwind
// through enclosing blocks until a loop or call boundary consumes them.
type completion struct {
	kind  completionKind
	value Value
	span  token.Span
}

var normal = completion{}

// strayCompletion is the error for a completion that reached a boundary
// that cannot consume it.
func strayCompletion(c completion) error {
	switch c.kind {
	case completionReturn:
		return diagnostics.New(diagnostics.Runtime, c.span, "return outside of a function")
	case completionBreak:
		return diagnostics.New(diagnostics.Runtime, c.span, "break outside of a loop")
	}
	return diagnostics.New(diagnostics.Runtime, c.span, "continue outside of a loop")
}
