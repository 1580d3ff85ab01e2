package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"

	"github.com/thomasrohde/rlisp/pkg/config"
	"github.com/thomasrohde/rlisp/pkg/runtime"
)

var log = commonlog.GetLogger("rlisp")

// app carries the global flags and the resolved configuration.
type app struct {
	configPath string
	verbose    int
	pretty     bool

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "rlisp [file]",
		Short: "rlisp interpreter",
		Long: `rlisp runs programs written in the rlisp scripting language.

With a single file argument it behaves like "rlisp run <file>".`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return cmd.Help()
			}
			return a.runFile(cmd, args[0])
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "configuration file (default: ./.rlisp.yaml, then ~/.rlisp/config.yaml)")
	flags.CountVarP(&a.verbose, "verbose", "v", "increase log verbosity (repeatable)")
	flags.BoolVar(&a.pretty, "pretty", false, "render diagnostics with source snippets")

	root.AddCommand(
		a.runCmd(),
		a.checkCmd(),
		a.tokensCmd(),
		a.astCmd(),
		a.fmtCmd(),
		a.replCmd(),
		a.lspCmd(),
		a.refCmd(),
	)
	return root
}

// setup loads configuration and configures logging. Flags win over the file.
func (a *app) setup(cmd *cobra.Command) error {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	cfg, used, err := config.Load(a.configPath, wd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cmd.Flags().Changed("pretty") {
		cfg.Diagnostics.Pretty = a.pretty
	}
	if a.verbose > 0 {
		cfg.Log.Verbosity = a.verbose
	}
	a.cfg = cfg

	var logFile *string
	if cfg.Log.File != "" {
		logFile = &cfg.Log.File
	}
	commonlog.Configure(cfg.Log.Verbosity, logFile)
	if used != "" {
		log.Debugf("using config %s", used)
	}
	return nil
}

func (a *app) runtime(cmd *cobra.Command) *runtime.Runtime {
	return runtime.New(
		runtime.WithConfig(a.cfg),
		runtime.WithOutput(cmd.OutOrStdout()),
		runtime.WithErrorOutput(cmd.ErrOrStderr()),
	)
}

func readSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("cannot read %s: %w", path, err)
	}
	return string(data), nil
}
