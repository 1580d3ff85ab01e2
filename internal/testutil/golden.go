// Package testutil provides shared test helpers for rlisp tests.
package testutil

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ScenariosDir is the scenario root relative to the module root.
const ScenariosDir = "testdata/scenarios"

// Scenario is a golden test case loaded from scenario.yaml.
type Scenario struct {
	// Cmd is the command line after "rlisp", e.g. [run, main.rl].
	Cmd    []string       `yaml:"cmd"`
	Config string         `yaml:"config,omitempty"`
	Meta   *ScenarioMeta  `yaml:"meta,omitempty"`
	Expect ExpectedResult `yaml:"expect"`
}

type ScenarioMeta struct {
	Tags []string `yaml:"tags,omitempty"`
}

// ExpectedResult describes the outcome of running a scenario. Stdout is
// compared exactly when set; Stderr lists the expected diagnostic lines.
type ExpectedResult struct {
	ExitCode       int      `yaml:"exitCode"`
	Stdout         *string  `yaml:"stdout,omitempty"`
	Stderr         []string `yaml:"stderr,omitempty"`
	StderrContains string   `yaml:"stderrContains,omitempty"`
}

// LoadScenario loads a scenario from a directory containing scenario.yaml.
func LoadScenario(dir string) (*Scenario, error) {
	data, err := os.ReadFile(filepath.Join(dir, "scenario.yaml"))
	if err != nil {
		return nil, err
	}
	var s Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("%s: %w", dir, err)
	}
	if len(s.Cmd) == 0 {
		return nil, fmt.Errorf("%s: empty cmd", dir)
	}
	return &s, nil
}

// ListScenarios returns all scenario directories under root, sorted.
func ListScenarios(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	var dirs []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(root, e.Name(), "scenario.yaml")); err == nil {
			dirs = append(dirs, filepath.Join(root, e.Name()))
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

// ReadProgramFile reads the first non-flag argument after the command.
func ReadProgramFile(scenarioDir string, cmd []string) (source, filename string, err error) {
	for _, arg := range cmd[1:] {
		if strings.HasPrefix(arg, "-") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(scenarioDir, arg))
		if err != nil {
			return "", "", err
		}
		return string(data), arg, nil
	}
	return "", "", fmt.Errorf("%s: no program file in cmd", scenarioDir)
}

// HasFlag reports whether flag appears in cmd.
func HasFlag(cmd []string, flag string) bool {
	for _, arg := range cmd {
		if arg == flag {
			return true
		}
	}
	return false
}

// Lines splits captured output into lines, dropping the trailing newline.
func Lines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
