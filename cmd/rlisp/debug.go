package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) tokensCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tokens <file>",
		Short: "Print the token stream",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readSource(args[0])
			if err != nil {
				return err
			}
			rt := a.runtime(cmd)
			out, err := rt.Tokens(source)
			fmt.Fprint(cmd.OutOrStdout(), out)
			rt.Report(err, args[0], source)
			return err
		},
	}
}

func (a *app) astCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ast <file>",
		Short: "Print the syntax tree as S-expressions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readSource(args[0])
			if err != nil {
				return err
			}
			rt := a.runtime(cmd)
			out, err := rt.AST(source)
			if err != nil {
				rt.Report(err, args[0], source)
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
}
