package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thomasrohde/rlisp/pkg/help"
)

func (a *app) refCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "ref [topic]",
		Short:     "Show the language reference",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: help.TopicList,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				fmt.Fprint(cmd.OutOrStdout(), help.QUICKREF)
				return nil
			}
			text, ok := help.Lookup(args[0])
			if !ok {
				return fmt.Errorf("unknown topic %q (topics: %s)", args[0], strings.Join(help.TopicList, ", "))
			}
			fmt.Fprint(cmd.OutOrStdout(), text)
			return nil
		},
	}
}
