// Package config loads rlisp settings from YAML files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// ProjectFile is looked up in the working directory.
	ProjectFile = ".rlisp.yaml"
	// UserDir and UserFile locate the per-user file under the home directory.
	UserDir  = ".rlisp"
	UserFile = "config.yaml"
)

// Config is the full set of settings.
type Config struct {
	Interpreter Interpreter `yaml:"interpreter"`
	Diagnostics Diagnostics `yaml:"diagnostics"`
	REPL        REPL        `yaml:"repl"`
	Log         Log         `yaml:"log"`
}

// Interpreter holds evaluation limits. Zero means unlimited for the first two.
type Interpreter struct {
	MaxCallDepth  int   `yaml:"max_call_depth"`
	MaxSteps      int64 `yaml:"max_steps"`
	MaxParameters int   `yaml:"max_parameters"`
}

type Diagnostics struct {
	Pretty bool `yaml:"pretty"`
}

type REPL struct {
	Prompt       string `yaml:"prompt"`
	Continuation string `yaml:"continuation"`
	// History is relative to the home directory unless absolute.
	History string `yaml:"history"`
}

type Log struct {
	Verbosity int    `yaml:"verbosity"`
	File      string `yaml:"file"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Interpreter: Interpreter{
			MaxCallDepth:  2048,
			MaxParameters: 255,
		},
		REPL: REPL{
			Prompt:       ">> ",
			Continuation: ".. ",
			History:      ".rlisp_history",
		},
	}
}

// Load resolves settings. Precedence: explicit path (must exist) → project
// file in projectDir → user file → defaults. A file only overrides the keys
// it sets. It returns the path that was used, or "" for defaults.
func Load(explicit, projectDir string) (*Config, string, error) {
	if explicit != "" {
		cfg, err := LoadFile(explicit)
		if err != nil {
			return nil, "", err
		}
		return cfg, explicit, nil
	}

	candidates := []string{filepath.Join(projectDir, ProjectFile)}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, UserDir, UserFile))
	}
	for _, path := range candidates {
		cfg, err := LoadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, "", err
		}
		return cfg, path, nil
	}
	return Default(), "", nil
}

// LoadFile reads one YAML file over the defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings that cannot be honoured.
func (c *Config) Validate() error {
	switch {
	case c.Interpreter.MaxCallDepth < 0:
		return errors.New("interpreter.max_call_depth must not be negative")
	case c.Interpreter.MaxSteps < 0:
		return errors.New("interpreter.max_steps must not be negative")
	case c.Interpreter.MaxParameters < 1:
		return errors.New("interpreter.max_parameters must be at least 1")
	case c.Log.Verbosity < -4:
		return errors.New("log.verbosity must be at least -4")
	}
	return nil
}

// HistoryPath returns the absolute REPL history path, or "" when history is
// disabled or the home directory is unknown.
func (c *Config) HistoryPath() string {
	if c.REPL.History == "" {
		return ""
	}
	if filepath.IsAbs(c.REPL.History) {
		return c.REPL.History
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, c.REPL.History)
}

// Marshal renders c as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
