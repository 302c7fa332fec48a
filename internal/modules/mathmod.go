package modules

import (
	"math"

	"github.com/latch-lang/latch/internal/value"
)

func mathModule() *value.Dict {
	return dictOf(
		builtin("abs", 1, func(a []value.V) (value.V, error) {
			switch t := a[0].(type) {
			case value.Int:
				if t < 0 {
					return value.Int(-t), nil
				}
				return t, nil
			case value.Float:
				return value.Float(math.Abs(float64(t))), nil
			}
			return nil, argTypeErr("math.abs", 0, "int or float", a[0])
		}),
		builtin("sqrt", 1, func(a []value.V) (value.V, error) {
			f, err := wantNumber(a, 0, "math.sqrt")
			if err != nil {
				return nil, err
			}
			return value.Float(math.Sqrt(f)), nil
		}),
		builtin("floor", 1, func(a []value.V) (value.V, error) {
			f, err := wantNumber(a, 0, "math.floor")
			if err != nil {
				return nil, err
			}
			return value.Int(int64(math.Floor(f))), nil
		}),
		builtin("ceil", 1, func(a []value.V) (value.V, error) {
			f, err := wantNumber(a, 0, "math.ceil")
			if err != nil {
				return nil, err
			}
			return value.Int(int64(math.Ceil(f))), nil
		}),
		builtin("round", 1, func(a []value.V) (value.V, error) {
			f, err := wantNumber(a, 0, "math.round")
			if err != nil {
				return nil, err
			}
			return value.Int(int64(math.Round(f))), nil
		}),
		builtin("pow", 2, func(a []value.V) (value.V, error) {
			base, err := wantNumber(a, 0, "math.pow")
			if err != nil {
				return nil, err
			}
			exp, err := wantNumber(a, 1, "math.pow")
			if err != nil {
				return nil, err
			}
			return value.Float(math.Pow(base, exp)), nil
		}),
		builtin("min", 2, func(a []value.V) (value.V, error) {
			return minMax(a, true)
		}),
		builtin("max", 2, func(a []value.V) (value.V, error) {
			return minMax(a, false)
		}),
	)
}

func minMax(a []value.V, wantMin bool) (value.V, error) {
	af, err := wantNumber(a, 0, "math.min/max")
	if err != nil {
		return nil, err
	}
	bf, err := wantNumber(a, 1, "math.min/max")
	if err != nil {
		return nil, err
	}
	if (wantMin && bf < af) || (!wantMin && bf > af) {
		return a[1], nil
	}
	return a[0], nil
}
