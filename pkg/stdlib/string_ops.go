package stdlib

import (
	"strconv"
	"strings"

	"github.com/thomasrohde/rlisp/pkg/interpreter"
)

func stringArg(fn string, v interpreter.Value) (string, error) {
	s, ok := v.(interpreter.String)
	if !ok {
		return "", argError(fn, "expected a string, got %s", interpreter.TypeName(v))
	}
	return string(s), nil
}

// len(s) → length of s in bytes
func stdlibLen(args []interpreter.Value) (interpreter.Value, error) {
	s, err := stringArg("len", args[0])
	if err != nil {
		return nil, err
	}
	return interpreter.Number(len(s)), nil
}

// num(s) → number parsed from s, or nil when s is not a number.
// Numbers pass through unchanged.
func stdlibNum(args []interpreter.Value) (interpreter.Value, error) {
	if n, ok := args[0].(interpreter.Number); ok {
		return n, nil
	}
	s, err := stringArg("num", args[0])
	if err != nil {
		return nil, err
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return interpreter.Nil{}, nil
	}
	return interpreter.Number(f), nil
}

// contains(s, sub) → whether sub occurs in s
func stdlibContains(args []interpreter.Value) (interpreter.Value, error) {
	s, err := stringArg("contains", args[0])
	if err != nil {
		return nil, err
	}
	sub, err := stringArg("contains", args[1])
	if err != nil {
		return nil, err
	}
	return interpreter.Bool(strings.Contains(s, sub)), nil
}

func stdlibUpper(args []interpreter.Value) (interpreter.Value, error) {
	s, err := stringArg("upper", args[0])
	if err != nil {
		return nil, err
	}
	return interpreter.String(strings.ToUpper(s)), nil
}

func stdlibLower(args []interpreter.Value) (interpreter.Value, error) {
	s, err := stringArg("lower", args[0])
	if err != nil {
		return nil, err
	}
	return interpreter.String(strings.ToLower(s)), nil
}
