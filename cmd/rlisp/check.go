package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thomasrohde/rlisp/pkg/diagnostics"
	"github.com/thomasrohde/rlisp/pkg/runtime"
)

func (a *app) checkCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Report syntax and static errors without running",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			source, err := readSource(path)
			if err != nil {
				return err
			}
			rt := a.runtime(cmd)
			diags := rt.Check(source)
			if asJSON {
				fmt.Fprintln(cmd.OutOrStdout(), diagnostics.FormatJSON(diags))
			} else {
				for _, d := range diags {
					fmt.Fprintln(cmd.ErrOrStderr(), rt.Render(d, path, source))
				}
			}
			if len(diags) > 0 {
				return &runtime.DiagnosticError{Stage: runtime.StageValidate, Diagnostics: diags}
			}
			if !asJSON {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", path)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print diagnostics as a JSON array on stdout")
	return cmd
}
