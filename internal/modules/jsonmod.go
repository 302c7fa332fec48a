package modules

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/latch-lang/latch/internal/value"
)

// jsonModule implements spec.md §6's JSON contract: `UseNumber` keeps the
// Int/Float distinction (integers that fit become Int) on round-trip, and
// stringify pretty-prints with sorted dict keys (encoding/json sorts map
// keys when it marshals the converted dict).
func jsonModule() *value.Dict {
	return dictOf(
		builtin("parse", 1, func(a []value.V) (value.V, error) {
			s, err := wantString(a, 0, "json.parse")
			if err != nil {
				return nil, err
			}
			dec := json.NewDecoder(strings.NewReader(s))
			dec.UseNumber()
			var raw any
			if err := dec.Decode(&raw); err != nil {
				return nil, parseErr("json.parse: %s", err)
			}
			return fromJSON(raw), nil
		}),
		builtin("stringify", 1, func(a []value.V) (value.V, error) {
			v, err := toJSON(a[0])
			if err != nil {
				return nil, err
			}
			var buf bytes.Buffer
			enc := json.NewEncoder(&buf)
			enc.SetIndent("", "  ")
			enc.SetEscapeHTML(false)
			if err := enc.Encode(v); err != nil {
				return nil, parseErr("json.stringify: %s", err)
			}
			return value.String(strings.TrimRight(buf.String(), "\n")), nil
		}),
	)
}

func fromJSON(raw any) value.V {
	switch t := raw.(type) {
	case nil:
		return value.Null
	case bool:
		return value.Bool(t)
	case json.Number:
		// A literal that carries a decimal point or exponent can only have
		// come from a Float going in (toJSON forces one via jsonFloat below,
		// even for whole numbers), so that's the one place we trust over
		// Int64 — a bare "3" still decodes as Int, matching plain JSON input
		// that never went through toJSON at all.
		if strings.ContainsAny(t.String(), ".eE") {
			f, err := t.Float64()
			if err == nil {
				return value.Float(f)
			}
		}
		if i, err := t.Int64(); err == nil {
			return value.Int(i)
		}
		f, _ := t.Float64()
		return value.Float(f)
	case string:
		return value.String(t)
	case []any:
		items := make([]value.V, len(t))
		for i, it := range t {
			items[i] = fromJSON(it)
		}
		return value.NewList(items)
	case map[string]any:
		d := value.NewDict()
		for k, v := range t {
			d.Set(k, fromJSON(v))
		}
		return d
	}
	return value.Null
}

// toJSON walks a value.V tree into plain Go values for encoding/json.
// Dict key order doesn't need preserving here: encoding/json sorts
// map[string]any keys ascending on its own, matching value.Dict's
// SortedKeys order.
func toJSON(v value.V) (any, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case value.Bool:
		return bool(t), nil
	case value.Int:
		return int64(t), nil
	case value.Float:
		return jsonFloat(t), nil
	case value.String:
		return string(t), nil
	case *value.List:
		out := make([]any, len(t.Items))
		for i, item := range t.Items {
			jv, err := toJSON(item)
			if err != nil {
				return nil, err
			}
			out[i] = jv
		}
		return out, nil
	case *value.Dict:
		out := map[string]any{}
		for _, k := range t.SortedKeys() {
			iv, _ := t.Get(k)
			jv, err := toJSON(iv)
			if err != nil {
				return nil, err
			}
			out[k] = jv
		}
		return out, nil
	}
	if v.Kind() == value.KNull {
		return nil, nil
	}
	return nil, typeErr("json.stringify: cannot serialize a %s", v.Kind())
}

// jsonFloat forces a decimal point onto every Float on the way out, the same
// way value.Float.String() does, so a whole number like 3.0 round-trips back
// through fromJSON as a Float instead of encoding/json's bare "3" (which
// would otherwise be indistinguishable from an Int).
type jsonFloat float64

func (f jsonFloat) MarshalJSON() ([]byte, error) {
	s := strconv.FormatFloat(float64(f), 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return []byte(s), nil
}
