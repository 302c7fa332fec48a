package modules

import (
	"path/filepath"

	"github.com/latch-lang/latch/internal/value"
)

func pathModule() *value.Dict {
	return dictOf(
		builtin("join", -1, func(a []value.V) (value.V, error) {
			parts, err := stringArgs(a, "path.join")
			if err != nil {
				return nil, err
			}
			return value.String(filepath.Join(parts...)), nil
		}),
		builtin("dirname", 1, func(a []value.V) (value.V, error) {
			p, err := wantString(a, 0, "path.dirname")
			if err != nil {
				return nil, err
			}
			return value.String(filepath.Dir(p)), nil
		}),
		builtin("basename", 1, func(a []value.V) (value.V, error) {
			p, err := wantString(a, 0, "path.basename")
			if err != nil {
				return nil, err
			}
			return value.String(filepath.Base(p)), nil
		}),
		builtin("ext", 1, func(a []value.V) (value.V, error) {
			p, err := wantString(a, 0, "path.ext")
			if err != nil {
				return nil, err
			}
			return value.String(filepath.Ext(p)), nil
		}),
		builtin("abs", 1, func(a []value.V) (value.V, error) {
			p, err := wantString(a, 0, "path.abs")
			if err != nil {
				return nil, err
			}
			abs, absErr := filepath.Abs(p)
			if absErr != nil {
				return nil, fileErr("path.abs: %s", absErr)
			}
			return value.String(abs), nil
		}),
		builtin("isAbs", 1, func(a []value.V) (value.V, error) {
			p, err := wantString(a, 0, "path.isAbs")
			if err != nil {
				return nil, err
			}
			return value.Bool(filepath.IsAbs(p)), nil
		}),
	)
}

// stringArgs backs path.join, registered with Arity -1 (variadic) since it
// accepts any number of path segments.
func stringArgs(a []value.V, fn string) ([]string, error) {
	out := make([]string, len(a))
	for i, v := range a {
		s, ok := v.(value.String)
		if !ok {
			return nil, argTypeErr(fn, i, "string", v)
		}
		out[i] = string(s)
	}
	return out, nil
}
