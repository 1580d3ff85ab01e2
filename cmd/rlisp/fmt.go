package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func (a *app) fmtCmd() *cobra.Command {
	var write, force bool
	cmd := &cobra.Command{
		Use:   "fmt <file>",
		Short: "Print a program in canonical layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			source, err := readSource(path)
			if err != nil {
				return err
			}
			rt := a.runtime(cmd)
			out, err := rt.Format(source, force)
			if err != nil {
				rt.Report(err, path, source)
				return err
			}
			if !write {
				fmt.Fprint(cmd.OutOrStdout(), out)
				return nil
			}
			if out == source {
				return nil
			}
			info, err := os.Stat(path)
			if err != nil {
				return err
			}
			return os.WriteFile(path, []byte(out), info.Mode().Perm())
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "rewrite the file in place")
	cmd.Flags().BoolVar(&force, "force", false, "format even if comments would be lost")
	return cmd
}
