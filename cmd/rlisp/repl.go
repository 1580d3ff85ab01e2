package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/thomasrohde/rlisp/pkg/help"
	"github.com/thomasrohde/rlisp/pkg/runtime"
	"github.com/thomasrohde/rlisp/pkg/stdlib"
	"github.com/thomasrohde/rlisp/pkg/token"
)

const (
	banner   = "rlisp REPL. Ctrl+C cancels input, Ctrl+D exits. Type :help for commands."
	replHelp = `REPL commands:
  :help          show this help
  :quit, :exit   leave the REPL
  :globals       list the names defined at the top level
  :load <file>   run a file in the current session
  :reset         start over with a fresh session
  :ref [topic]   show the language reference
`
)

func (a *app) replCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.repl(cmd)
		},
	}
}

func (a *app) repl(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, banner)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	ln.SetCompleter(completer(stdlib.Defaults().Names()))

	histPath := a.cfg.HistoryPath()
	if histPath != "" {
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
	}

	rt := a.runtime(cmd)
	sess := rt.NewSession()
	for {
		input, ok := readInput(ln, sess, a.cfg.REPL.Prompt, a.cfg.REPL.Continuation)
		if !ok {
			fmt.Fprintln(out)
			break
		}
		trimmed := strings.TrimSpace(input)
		if trimmed == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(input, "\n", " "))

		if strings.HasPrefix(trimmed, ":") {
			var quit bool
			sess, quit = a.replCommand(cmd, rt, sess, trimmed)
			if quit {
				break
			}
			continue
		}
		eval(cmd.Context(), sess, input)
	}

	if histPath != "" {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}
	return nil
}

// eval runs one input; Ctrl+C while it runs interrupts it.
func eval(parent context.Context, sess *runtime.Session, input string) {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt)
	defer stop()
	// diagnostics were already written by the session
	_ = sess.Eval(ctx, input)
}

func (a *app) replCommand(cmd *cobra.Command, rt *runtime.Runtime, sess *runtime.Session, line string) (*runtime.Session, bool) {
	out := cmd.OutOrStdout()
	fields := strings.Fields(line)
	switch fields[0] {
	case ":help":
		fmt.Fprint(out, replHelp)
	case ":quit", ":exit":
		return sess, true
	case ":globals":
		fmt.Fprintln(out, strings.Join(sess.Globals(), " "))
	case ":reset":
		sess = rt.NewSession()
		fmt.Fprintln(out, "session reset")
	case ":ref":
		if len(fields) == 1 {
			fmt.Fprint(out, help.QUICKREF)
			break
		}
		if text, ok := help.Lookup(fields[1]); ok {
			fmt.Fprint(out, text)
		} else {
			fmt.Fprintf(out, "unknown topic %s\n", fields[1])
		}
	case ":load":
		if len(fields) != 2 {
			fmt.Fprintln(out, "usage: :load <file>")
			break
		}
		source, err := readSource(fields[1])
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), err)
			break
		}
		eval(cmd.Context(), sess, source)
	default:
		fmt.Fprintf(out, "unknown command %s, type :help for help\n", fields[0])
	}
	return sess, false
}

// readInput reads lines until the buffer parses or fails for a reason other
// than ending early. ok is false on end of input.
func readInput(ln *liner.State, sess *runtime.Session, prompt, cont string) (string, bool) {
	var b strings.Builder
	for {
		p := prompt
		if b.Len() > 0 {
			p = cont
		}
		line, err := ln.Prompt(p)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			log.Errorf("reading input: %s", err)
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") || sess.Complete(src) {
			return src, true
		}
	}
}

// completer offers keywords and host function names for the word under the
// cursor.
func completer(natives []string) liner.Completer {
	words := append(token.Keywords(), natives...)
	return func(line string) []string {
		start := strings.LastIndexFunc(line, func(r rune) bool {
			return !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9')
		}) + 1
		prefix := line[start:]
		if prefix == "" {
			return nil
		}
		var out []string
		for _, w := range words {
			if strings.HasPrefix(w, prefix) {
				out = append(out, line[:start]+w)
			}
		}
		return out
	}
}
