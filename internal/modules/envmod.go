package modules

import (
	"os"
	"strings"

	"github.com/spf13/cast"

	"github.com/latch-lang/latch/internal/value"
)

// envModule wraps os.Environ with spf13/cast typed getters, the same
// typed-coercion library the teacher reaches for when a stringly-typed
// source needs converting into Int/Float/Bool (SPEC_FULL.md §3's env row).
func envModule() *value.Dict {
	return dictOf(
		builtin("get", 2, func(a []value.V) (value.V, error) {
			name, err := wantString(a, 0, "env.get")
			if err != nil {
				return nil, err
			}
			if v, ok := os.LookupEnv(name); ok {
				return value.String(v), nil
			}
			return a[1], nil
		}),
		builtin("int", 2, func(a []value.V) (value.V, error) {
			name, err := wantString(a, 0, "env.int")
			if err != nil {
				return nil, err
			}
			v, ok := os.LookupEnv(name)
			if !ok {
				return a[1], nil
			}
			i, castErr := cast.ToInt64E(v)
			if castErr != nil {
				return nil, valErr("env.int: %s=%q is not an integer", name, v)
			}
			return value.Int(i), nil
		}),
		builtin("float", 2, func(a []value.V) (value.V, error) {
			name, err := wantString(a, 0, "env.float")
			if err != nil {
				return nil, err
			}
			v, ok := os.LookupEnv(name)
			if !ok {
				return a[1], nil
			}
			f, castErr := cast.ToFloat64E(v)
			if castErr != nil {
				return nil, valErr("env.float: %s=%q is not a float", name, v)
			}
			return value.Float(f), nil
		}),
		builtin("bool", 2, func(a []value.V) (value.V, error) {
			name, err := wantString(a, 0, "env.bool")
			if err != nil {
				return nil, err
			}
			v, ok := os.LookupEnv(name)
			if !ok {
				return a[1], nil
			}
			b, castErr := cast.ToBoolE(v)
			if castErr != nil {
				return nil, valErr("env.bool: %s=%q is not a boolean", name, v)
			}
			return value.Bool(b), nil
		}),
		builtin("has", 1, func(a []value.V) (value.V, error) {
			name, err := wantString(a, 0, "env.has")
			if err != nil {
				return nil, err
			}
			_, ok := os.LookupEnv(name)
			return value.Bool(ok), nil
		}),
		builtin("all", 0, func(a []value.V) (value.V, error) {
			d := value.NewDict()
			for _, kv := range os.Environ() {
				parts := strings.SplitN(kv, "=", 2)
				if len(parts) == 2 {
					d.Set(parts[0], value.String(parts[1]))
				}
			}
			return d, nil
		}),
	)
}
