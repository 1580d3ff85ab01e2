package main

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thomasrohde/rlisp/internal/testutil"
	"github.com/thomasrohde/rlisp/pkg/config"
	"github.com/thomasrohde/rlisp/pkg/diagnostics"
	"github.com/thomasrohde/rlisp/pkg/runtime"
)

func TestConformance(t *testing.T) {
	dirs, err := testutil.ListScenarios(testutil.ScenariosDir)
	require.NoError(t, err)
	require.NotEmpty(t, dirs)

	for _, dir := range dirs {
		dir := dir
		t.Run(filepath.Base(dir), func(t *testing.T) {
			scenario, err := testutil.LoadScenario(dir)
			require.NoError(t, err)

			source, filename, err := testutil.ReadProgramFile(dir, scenario.Cmd)
			require.NoError(t, err)

			cfg := config.Default()
			if scenario.Config != "" {
				cfg, err = config.Parse([]byte(scenario.Config))
				require.NoError(t, err)
			}

			var stdout, stderr bytes.Buffer
			rt := runtime.New(
				runtime.WithConfig(cfg),
				runtime.WithPretty(testutil.HasFlag(scenario.Cmd, "--pretty")),
				runtime.WithOutput(&stdout),
				runtime.WithErrorOutput(&stderr),
			)

			var code int
			switch scenario.Cmd[0] {
			case "run":
				code = runtime.ExitCode(rt.Run(context.Background(), source, filename))
			case "check":
				code = runCheck(rt, source, filename, testutil.HasFlag(scenario.Cmd, "--json"), &stdout, &stderr)
			default:
				t.Skipf("unsupported command: %s", scenario.Cmd[0])
			}

			expect := scenario.Expect
			assert.Equal(t, expect.ExitCode, code, "exit code")
			if expect.Stdout != nil {
				assert.Equal(t, *expect.Stdout, stdout.String(), "stdout")
			}
			if expect.Stderr != nil || expect.StderrContains == "" {
				assert.Equal(t, expect.Stderr, testutil.Lines(stderr.String()), "stderr")
			}
			if expect.StderrContains != "" {
				assert.Contains(t, stderr.String(), expect.StderrContains, "stderr")
			}
		})
	}
}

// runCheck mirrors "rlisp check".
func runCheck(rt *runtime.Runtime, source, filename string, asJSON bool, stdout, stderr *bytes.Buffer) int {
	diags := rt.Check(source)
	if asJSON {
		fmt.Fprintln(stdout, diagnostics.FormatJSON(diags))
	} else {
		for _, d := range diags {
			fmt.Fprintln(stderr, rt.Render(d, filename, source))
		}
	}
	if len(diags) > 0 {
		return runtime.ExitCode(&runtime.DiagnosticError{Stage: runtime.StageValidate, Diagnostics: diags})
	}
	if !asJSON {
		fmt.Fprintf(stdout, "%s: ok\n", filename)
	}
	return runtime.ExitOK
}
