package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type result struct {
	code           int
	stdout, stderr string
}

func rlisp(t *testing.T, args ...string) result {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	var out, errOut bytes.Buffer
	code := execute(args, &out, &errOut)
	return result{code: code, stdout: out.String(), stderr: errOut.String()}
}

func writeProgram(t *testing.T, source string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "main.rl")
	require.NoError(t, os.WriteFile(path, []byte(source), 0o644))
	return path
}

func TestRootRunsFile(t *testing.T) {
	path := writeProgram(t, "for (let i = 0; i < 3; i += 1) { print i; }")
	r := rlisp(t, path)
	assert.Equal(t, 0, r.code)
	assert.Equal(t, "0\n1\n2\n", r.stdout)
	assert.Empty(t, r.stderr)
}

func TestRootUsageExitsCleanly(t *testing.T) {
	r := rlisp(t)
	assert.Equal(t, 0, r.code)
	assert.Contains(t, r.stdout, "Usage:")

	r = rlisp(t, "a.rl", "b.rl")
	assert.Equal(t, 0, r.code)
	assert.Contains(t, r.stdout, "Usage:")
}

func TestRunExitCodes(t *testing.T) {
	r := rlisp(t, "run", writeProgram(t, "print nope;\nprint 1;"))
	assert.Equal(t, 3, r.code)
	assert.Equal(t, "1\n", r.stdout)
	assert.Equal(t, "NameError: undefined variable \"nope\", line 1, pos 6\n", r.stderr)

	r = rlisp(t, "run", writeProgram(t, "print (1;"))
	assert.Equal(t, 2, r.code)
	assert.Empty(t, r.stdout)
	assert.Contains(t, r.stderr, `SyntaxError: expected ")"`)

	r = rlisp(t, "run", filepath.Join(t.TempDir(), "missing.rl"))
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.stderr, "rlisp: cannot read")
}

func TestPrettyFlag(t *testing.T) {
	r := rlisp(t, "--pretty", "run", writeProgram(t, "print 1 / 0;"))
	assert.Equal(t, 3, r.code)
	assert.Contains(t, r.stderr, "ZeroDivisionError: division by zero")
	assert.Contains(t, r.stderr, "^")
}

func TestConfigFlag(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("interpreter:\n  max_call_depth: 10\n"), 0o644))
	r := rlisp(t, "--config", cfg, "run", writeProgram(t, "fn f(n) { return f(n + 1); }\nf(0);"))
	assert.Equal(t, 3, r.code)
	assert.Contains(t, r.stderr, "maximum call depth exceeded")

	r = rlisp(t, "--config", filepath.Join(t.TempDir(), "none.yaml"), "run", writeProgram(t, "print 1;"))
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.stderr, "loading config")
}

func TestCheck(t *testing.T) {
	path := writeProgram(t, "print clock() > 0;")
	r := rlisp(t, "check", path)
	assert.Equal(t, 0, r.code)
	assert.Equal(t, path+": ok\n", r.stdout)

	r = rlisp(t, "check", "--json", writeProgram(t, "break;"))
	assert.Equal(t, 2, r.code)
	assert.Contains(t, r.stdout, `"kind":"ParseError"`)
	assert.Contains(t, r.stdout, `"message":"break outside of a loop"`)

	r = rlisp(t, "check", "--json", path)
	assert.Equal(t, 0, r.code)
	assert.Equal(t, "[]\n", r.stdout)
}

func TestTokensAndAST(t *testing.T) {
	path := writeProgram(t, "print -(1 / (2 * 32));")
	r := rlisp(t, "tokens", path)
	assert.Equal(t, 0, r.code)
	assert.Contains(t, r.stdout, "print")
	assert.Contains(t, r.stdout, "EOF")

	r = rlisp(t, "ast", path)
	assert.Equal(t, 0, r.code)
	assert.Equal(t, "(print (- (group (/ 1 (group (* 2 32))))))\n", r.stdout)
}

func TestFmt(t *testing.T) {
	path := writeProgram(t, "let   a=1;print a;")
	r := rlisp(t, "fmt", path)
	assert.Equal(t, 0, r.code)
	assert.Equal(t, "let a = 1;\nprint a;\n", r.stdout)

	r = rlisp(t, "fmt", "-w", path)
	assert.Equal(t, 0, r.code)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "let a = 1;\nprint a;\n", string(data))

	r = rlisp(t, "fmt", writeProgram(t, "# keep\nprint 1;"))
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.stderr, "comments")
}

func TestCompleter(t *testing.T) {
	complete := completer([]string{"clock"})
	assert.ElementsMatch(t, []string{"print class", "print clock"}, complete("print cl"))
	assert.Contains(t, complete("wh"), "while")
	assert.Nil(t, complete("print "))
}

func TestRef(t *testing.T) {
	r := rlisp(t, "ref")
	assert.Equal(t, 0, r.code)
	assert.Contains(t, r.stdout, "quick reference")

	r = rlisp(t, "ref", "stdlib")
	assert.Equal(t, 0, r.code)
	assert.Contains(t, r.stdout, "clock()")

	r = rlisp(t, "ref", "nope")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.stderr, `unknown topic "nope"`)
}
