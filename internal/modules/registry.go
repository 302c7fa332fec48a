// Package modules is the host module surface spec.md §1 treats as an
// external collaborator and SPEC_FULL.md §3 pins down concretely: each
// module is a *value.Dict of name → *value.BuiltinFn (spec.md §4.5).
package modules

import (
	"fmt"

	"github.com/latch-lang/latch/internal/value"
)

// Registry builds every built-in module dict, keyed by the name a script
// uses with `use <name>` / `import x in <name>`.
func Registry() map[string]*value.Dict {
	return map[string]*value.Dict{
		"fs":     fsModule(),
		"proc":   procModule(),
		"http":   httpModule(),
		"json":   jsonModule(),
		"env":    envModule(),
		"path":   pathModule(),
		"time":   timeModule(),
		"ai":     aiModule(),
		"regex":  regexModule(),
		"csv":    csvModule(),
		"base64": base64Module(),
		"hash":   hashModule(),
		"math":   mathModule(),
		"set":    setModule(),
	}
}

// Names returns every top-level global name the semantic analyzer should
// treat as resolved without a local declaration: module names plus the
// core builtins registered by interp.registerGlobals.
func Names() []string {
	return []string{
		"fs", "proc", "http", "json", "env", "path", "time", "ai", "regex",
		"csv", "base64", "hash", "math", "set",
		"print", "str", "typeof", "assert", "len", "get", "keys", "values",
		"items", "sum", "uniq", "filter", "map",
	}
}

func builtin(name string, arity int, impl func([]value.V) (value.V, error)) *value.BuiltinFn {
	return &value.BuiltinFn{Name: name, Arity: arity, Impl: impl}
}

func dictOf(pairs ...*value.BuiltinFn) *value.Dict {
	d := value.NewDict()
	for _, p := range pairs {
		d.Set(p.Name, p)
	}
	return d
}

func wantString(args []value.V, i int, fn string) (string, error) {
	s, ok := args[i].(value.String)
	if !ok {
		return "", argTypeErr(fn, i, "string", args[i])
	}
	return string(s), nil
}

func wantInt(args []value.V, i int, fn string) (int64, error) {
	n, ok := args[i].(value.Int)
	if !ok {
		return 0, argTypeErr(fn, i, "int", args[i])
	}
	return int64(n), nil
}

func wantList(args []value.V, i int, fn string) (*value.List, error) {
	l, ok := args[i].(*value.List)
	if !ok {
		return nil, argTypeErr(fn, i, "list", args[i])
	}
	return l, nil
}

func wantDict(args []value.V, i int, fn string) (*value.Dict, error) {
	d, ok := args[i].(*value.Dict)
	if !ok {
		return nil, argTypeErr(fn, i, "dict", args[i])
	}
	return d, nil
}

func wantNumber(args []value.V, i int, fn string) (float64, error) {
	switch t := args[i].(type) {
	case value.Int:
		return float64(t), nil
	case value.Float:
		return float64(t), nil
	}
	return 0, argTypeErr(fn, i, "int or float", args[i])
}

func argTypeErr(fn string, i int, want string, got value.V) error {
	return &ModErr{Kind: "TypeError", Message: fnArgMsg(fn, i, want, got)}
}

func fnArgMsg(fn string, i int, want string, got value.V) string {
	return fn + "() argument " + itoa(i) + " must be " + want + ", got " + string(got.Kind())
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}

// ModErr is the error shape host modules raise; internal/interp wraps it
// into a *interp.RuntimeError of the matching kind at the call boundary
// (SPEC_FULL.md §2.2) via the RuntimeKind() interface below, so modules
// stay decoupled from interp (no import cycle).
type ModErr struct {
	Kind    string
	Message string
}

func (e *ModErr) Error() string      { return e.Message }
func (e *ModErr) RuntimeKind() string { return e.Kind }

func fileErr(format string, args ...any) error  { return &ModErr{Kind: "FileError", Message: sprintf(format, args...)} }
func netErr(format string, args ...any) error   { return &ModErr{Kind: "NetworkError", Message: sprintf(format, args...)} }
func procErr(format string, args ...any) error  { return &ModErr{Kind: "ProcessError", Message: sprintf(format, args...)} }
func parseErr(format string, args ...any) error { return &ModErr{Kind: "ParseError", Message: sprintf(format, args...)} }
func typeErr(format string, args ...any) error  { return &ModErr{Kind: "TypeError", Message: sprintf(format, args...)} }
func valErr(format string, args ...any) error   { return &ModErr{Kind: "ValueError", Message: sprintf(format, args...)} }

func sprintf(format string, args ...any) string {
	return fmt.Sprintf(format, args...)
}
