package main

import (
	"github.com/spf13/cobra"

	"github.com/thomasrohde/rlisp/pkg/lsp"
	"github.com/thomasrohde/rlisp/pkg/stdlib"
)

func (a *app) lspCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start the language server on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return lsp.New(stdlib.Defaults().Names()).RunStdio()
		},
	}
}
