package interp

import (
	"github.com/samber/lo"

	"github.com/latch-lang/latch/internal/value"
)

// registerGlobals installs the builtins available without a `use`
// qualification: print/str/typeof/assert plus the list/dict helpers
// spec.md §8's testable properties exercise (filter, keys, values).
func registerGlobals(it *Interp) {
	def := func(name string, arity int, impl func(args []value.V) (value.V, error)) {
		it.Global.Define(name, &value.BuiltinFn{Name: name, Arity: arity, Impl: impl}, true)
	}

	def("print", -1, func(args []value.V) (value.V, error) {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = a.String()
		}
		line := ""
		for i, p := range parts {
			if i > 0 {
				line += " "
			}
			line += p
		}
		it.stdout.WriteLine(line)
		return value.Null, nil
	})

	def("str", 1, func(args []value.V) (value.V, error) {
		return value.String(args[0].String()), nil
	})

	def("typeof", 1, func(args []value.V) (value.V, error) {
		return value.String(value.TypeName(args[0])), nil
	})

	def("assert", -1, func(args []value.V) (value.V, error) {
		if len(args) < 1 {
			return nil, newErr(ArityError, token0(), "assert expects at least 1 argument")
		}
		if value.Truthy(args[0]) {
			return value.Null, nil
		}
		msg := "assertion failed"
		if len(args) > 1 {
			if s, ok := args[1].(value.String); ok {
				msg = string(s)
			} else {
				msg = args[1].String()
			}
		}
		return nil, newErr(AssertionError, token0(), "%s", msg)
	})

	def("len", 1, func(args []value.V) (value.V, error) {
		switch t := args[0].(type) {
		case *value.List:
			return value.Int(len(t.Items)), nil
		case *value.Dict:
			return value.Int(t.Len()), nil
		case value.String:
			return value.Int(len([]rune(string(t)))), nil
		}
		return nil, newErr(TypeError, token0(), "len() requires a list, dict, or string, got %s", value.TypeName(args[0]))
	})

	def("get", -1, func(args []value.V) (value.V, error) {
		if len(args) < 2 {
			return nil, newErr(ArityError, token0(), "get() expects (container, key[, default])")
		}
		def := value.Null
		if len(args) > 2 {
			def = args[2]
		}
		switch t := args[0].(type) {
		case *value.Dict:
			ks, ok := args[1].(value.String)
			if !ok {
				return nil, newErr(TypeError, token0(), "get() on a dict requires a string key")
			}
			v, found := t.Get(string(ks))
			if !found {
				return def, nil
			}
			return v, nil
		case *value.List:
			ii, ok := args[1].(value.Int)
			if !ok {
				return nil, newErr(TypeError, token0(), "get() on a list requires an int index")
			}
			idx := int(ii)
			if idx < 0 {
				idx += len(t.Items)
			}
			if idx < 0 || idx >= len(t.Items) {
				return def, nil
			}
			return t.Items[idx], nil
		}
		return nil, newErr(TypeError, token0(), "get() requires a list or dict")
	})

	def("keys", 1, func(args []value.V) (value.V, error) {
		d, ok := args[0].(*value.Dict)
		if !ok {
			return nil, newErr(TypeError, token0(), "keys() requires a dict")
		}
		ks := d.SortedKeys()
		out := lo.Map(ks, func(k string, _ int) value.V { return value.String(k) })
		return value.NewList(out), nil
	})

	def("values", 1, func(args []value.V) (value.V, error) {
		d, ok := args[0].(*value.Dict)
		if !ok {
			return nil, newErr(TypeError, token0(), "values() requires a dict")
		}
		ks := d.SortedKeys()
		out := lo.Map(ks, func(k string, _ int) value.V {
			v, _ := d.Get(k)
			return v
		})
		return value.NewList(out), nil
	})

	def("items", 1, func(args []value.V) (value.V, error) {
		d, ok := args[0].(*value.Dict)
		if !ok {
			return nil, newErr(TypeError, token0(), "items() requires a dict")
		}
		ks := d.SortedKeys()
		out := lo.Map(ks, func(k string, _ int) value.V {
			v, _ := d.Get(k)
			return value.NewList([]value.V{value.String(k), v})
		})
		return value.NewList(out), nil
	})

	def("sum", 1, func(args []value.V) (value.V, error) {
		l, ok := args[0].(*value.List)
		if !ok {
			return nil, newErr(TypeError, token0(), "sum() requires a list")
		}
		isFloat := false
		for _, it := range l.Items {
			if _, ok := it.(value.Float); ok {
				isFloat = true
			}
		}
		if isFloat {
			total := 0.0
			for _, it := range l.Items {
				f, ok := asFloat(it)
				if !ok {
					return nil, newErr(TypeError, token0(), "sum() requires a list of numbers")
				}
				total += f
			}
			return value.Float(total), nil
		}
		var total int64
		for _, it := range l.Items {
			iv, ok := it.(value.Int)
			if !ok {
				return nil, newErr(TypeError, token0(), "sum() requires a list of numbers")
			}
			total += int64(iv)
		}
		return value.Int(total), nil
	})

	def("uniq", 1, func(args []value.V) (value.V, error) {
		l, ok := args[0].(*value.List)
		if !ok {
			return nil, newErr(TypeError, token0(), "uniq() requires a list")
		}
		out := lo.UniqBy(l.Items, func(v value.V) string { return value.Repr(v) })
		return value.NewList(out), nil
	})

	it.Global.Define("filter", &value.BuiltinFn{Name: "filter", Arity: 2, Impl: func(args []value.V) (value.V, error) {
		return it.filterList(args)
	}}, true)
	it.Global.Define("map", &value.BuiltinFn{Name: "map", Arity: 2, Impl: func(args []value.V) (value.V, error) {
		return it.mapList(args)
	}}, true)
}

// filterList/mapList need access to callValue (the user closure), so they
// live on *Interp rather than as closures captured purely over value.V.
func (it *Interp) filterList(args []value.V) (value.V, error) {
	l, ok := args[0].(*value.List)
	if !ok {
		return nil, newErr(TypeError, token0(), "filter() requires a list as its first argument")
	}
	pred := args[1]
	var callErr error
	out := lo.Filter(l.Items, func(item value.V, _ int) bool {
		if callErr != nil {
			return false
		}
		v, err := it.callValue(pred, []value.V{item}, token0())
		if err != nil {
			callErr = err
			return false
		}
		return value.Truthy(v)
	})
	if callErr != nil {
		return nil, callErr
	}
	return value.NewList(out), nil
}

func (it *Interp) mapList(args []value.V) (value.V, error) {
	l, ok := args[0].(*value.List)
	if !ok {
		return nil, newErr(TypeError, token0(), "map() requires a list as its first argument")
	}
	fn := args[1]
	var callErr error
	out := lo.Map(l.Items, func(item value.V, _ int) value.V {
		if callErr != nil {
			return value.Null
		}
		v, err := it.callValue(fn, []value.V{item}, token0())
		if err != nil {
			callErr = err
			return value.Null
		}
		return v
	})
	if callErr != nil {
		return nil, callErr
	}
	return value.NewList(out), nil
}
