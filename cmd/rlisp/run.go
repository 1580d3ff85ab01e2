package main

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

func (a *app) runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <file>",
		Short: "Run a program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runFile(cmd, args[0])
		},
	}
}

func (a *app) runFile(cmd *cobra.Command, path string) error {
	source, err := readSource(path)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	return a.runtime(cmd).Run(ctx, source, path)
}
