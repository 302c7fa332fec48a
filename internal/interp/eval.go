package interp

import (
	"math"
	"strconv"
	"strings"

	"github.com/latch-lang/latch/internal/ast"
	"github.com/latch-lang/latch/internal/token"
	"github.com/latch-lang/latch/internal/value"
)

func (it *Interp) evalExpr(e ast.Expr, env *Environment) (value.V, error) {
	switch n := e.(type) {
	case *ast.Int:
		return value.Int(n.Value), nil
	case *ast.Float:
		return value.Float(n.Value), nil
	case *ast.Bool:
		return value.Bool(n.Value), nil
	case *ast.Null:
		return value.Null, nil
	case *ast.String:
		return it.evalString(n, env)
	case *ast.Ident:
		v, ok := env.Get(n.Name)
		if !ok {
			return nil, newErrHint(Undefined, n.Span(), "declare the variable first with ':='", "undefined variable '%s'", n.Name)
		}
		return v, nil
	case *ast.ListLit:
		items := make([]value.V, len(n.Items))
		for i, it2 := range n.Items {
			v, err := it.evalExpr(it2, env)
			if err != nil {
				return nil, err
			}
			items[i] = v
		}
		return value.NewList(items), nil
	case *ast.DictLit:
		d := value.NewDict()
		for _, pr := range n.Pairs {
			kv, err := it.evalExpr(pr.Key, env)
			if err != nil {
				return nil, err
			}
			ks, ok := kv.(value.String)
			if !ok {
				return nil, newErr(TypeError, n.Span(), "dict keys must be strings")
			}
			vv, err := it.evalExpr(pr.Value, env)
			if err != nil {
				return nil, err
			}
			d.Set(string(ks), vv)
		}
		return d, nil
	case *ast.Index:
		return it.evalIndex(n, env)
	case *ast.Slice:
		return it.evalSlice(n, env)
	case *ast.Field:
		tv, err := it.evalExpr(n.Target, env)
		if err != nil {
			return nil, err
		}
		return it.getField(tv, n.Name, n.Span())
	case *ast.SafeField:
		tv, err := it.evalExpr(n.Target, env)
		if err != nil {
			return nil, err
		}
		if tv.Kind() == value.KNull {
			return value.Null, nil
		}
		v, err := it.getField(tv, n.Name, n.Span())
		if err != nil {
			return value.Null, nil
		}
		return v, nil
	case *ast.Call:
		return it.evalCall(n, env)
	case *ast.Pipe:
		return it.evalExpr(n.Call, env)
	case *ast.Unary:
		return it.evalUnary(n, env)
	case *ast.Binary:
		return it.evalBinary(n, env)
	case *ast.Ternary:
		cv, err := it.evalExpr(n.Cond, env)
		if err != nil {
			return nil, err
		}
		if value.Truthy(cv) {
			return it.evalExpr(n.Then, env)
		}
		return it.evalExpr(n.Else, env)
	case *ast.Range:
		return it.evalRange(n, env)
	case *ast.FnLit:
		return &value.Fn{Params: n.Params, Body: n.Body, Env: env}, nil
	case *ast.ListComp:
		return it.evalListComp(n, env)
	}
	return nil, newErr(TypeError, e.Span(), "unsupported expression")
}

func (it *Interp) evalString(n *ast.String, env *Environment) (value.V, error) {
	var b strings.Builder
	for _, seg := range n.Segments {
		if seg.Expr == nil {
			b.WriteString(seg.Literal)
			continue
		}
		v, err := it.evalExpr(seg.Expr, env)
		if err != nil {
			return nil, err
		}
		b.WriteString(v.String())
	}
	return value.String(b.String()), nil
}

func (it *Interp) evalRange(n *ast.Range, env *Environment) (value.V, error) {
	sv, err := it.evalExpr(n.Start, env)
	if err != nil {
		return nil, err
	}
	ev, err := it.evalExpr(n.End, env)
	if err != nil {
		return nil, err
	}
	si, ok := sv.(value.Int)
	if !ok {
		return nil, newErr(TypeError, n.Span(), "range bounds must be ints")
	}
	ei, ok := ev.(value.Int)
	if !ok {
		return nil, newErr(TypeError, n.Span(), "range bounds must be ints")
	}
	if si >= ei {
		return value.NewList(nil), nil
	}
	items := make([]value.V, 0, int(ei-si))
	for i := si; i < ei; i++ {
		items = append(items, i)
	}
	return value.NewList(items), nil
}

func (it *Interp) evalUnary(n *ast.Unary, env *Environment) (value.V, error) {
	v, err := it.evalExpr(n.Arg, env)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case ast.UnaryNeg:
		switch t := v.(type) {
		case value.Int:
			return -t, nil
		case value.Float:
			return -t, nil
		}
		return nil, newErr(TypeError, n.Span(), "unary - requires a number, got %s", value.TypeName(v))
	case ast.UnaryNot:
		return value.Bool(!value.Truthy(v)), nil
	}
	return nil, newErr(TypeError, n.Span(), "unsupported unary operator")
}

func (it *Interp) evalBinary(n *ast.Binary, env *Environment) (value.V, error) {
	switch n.Op {
	case ast.BAnd:
		l, err := it.evalExpr(n.L, env)
		if err != nil {
			return nil, err
		}
		if !value.Truthy(l) {
			return l, nil
		}
		return it.evalExpr(n.R, env)
	case ast.BOr:
		l, err := it.evalExpr(n.L, env)
		if err != nil {
			return nil, err
		}
		if value.Truthy(l) {
			return l, nil
		}
		return it.evalExpr(n.R, env)
	case ast.BNullCoalesce:
		l, err := it.evalExpr(n.L, env)
		if err != nil {
			return nil, err
		}
		if l.Kind() == value.KNull {
			return it.evalExpr(n.R, env)
		}
		return l, nil
	case ast.BErrorFallback:
		l, err := it.evalExpr(n.L, env)
		if _, ok := asStop(err); ok {
			return nil, err
		}
		if err != nil {
			return it.evalExpr(n.R, env)
		}
		return l, nil
	}

	l, err := it.evalExpr(n.L, env)
	if err != nil {
		return nil, err
	}
	r, err := it.evalExpr(n.R, env)
	if err != nil {
		return nil, err
	}
	return it.binaryOp(n.Op, l, r, n.Span())
}

func (it *Interp) binaryOp(op ast.BinaryOp, l, r value.V, sp token.Span) (value.V, error) {
	switch op {
	case ast.BEq:
		return value.Bool(value.Equal(l, r)), nil
	case ast.BNeq:
		return value.Bool(!value.Equal(l, r)), nil
	case ast.BIn:
		return it.evalIn(l, r, sp)
	case ast.BAdd:
		return it.evalAdd(l, r, sp)
	}

	if op == ast.BLt || op == ast.BLte || op == ast.BGt || op == ast.BGte {
		lf, lok := asFloat(l)
		rf, rok := asFloat(r)
		if lok && rok {
			switch op {
			case ast.BLt:
				return value.Bool(lf < rf), nil
			case ast.BLte:
				return value.Bool(lf <= rf), nil
			case ast.BGt:
				return value.Bool(lf > rf), nil
			case ast.BGte:
				return value.Bool(lf >= rf), nil
			}
		}
		if ls, lok := l.(value.String); lok {
			if rs, rok := r.(value.String); rok {
				switch op {
				case ast.BLt:
					return value.Bool(ls < rs), nil
				case ast.BLte:
					return value.Bool(ls <= rs), nil
				case ast.BGt:
					return value.Bool(ls > rs), nil
				case ast.BGte:
					return value.Bool(ls >= rs), nil
				}
			}
		}
		return nil, newErr(TypeError, sp, "cannot compare %s and %s", value.TypeName(l), value.TypeName(r))
	}

	lf, lok := asFloat(l)
	rf, rok := asFloat(r)
	if !lok || !rok {
		return nil, newErr(TypeError, sp, "arithmetic requires numbers, got %s and %s", value.TypeName(l), value.TypeName(r))
	}
	_, lIsInt := l.(value.Int)
	_, rIsInt := r.(value.Int)
	bothInt := lIsInt && rIsInt

	switch op {
	case ast.BSub:
		if bothInt {
			return value.Int(int64(l.(value.Int)) - int64(r.(value.Int))), nil
		}
		return value.Float(lf - rf), nil
	case ast.BMul:
		if bothInt {
			return value.Int(int64(l.(value.Int)) * int64(r.(value.Int))), nil
		}
		return value.Float(lf * rf), nil
	case ast.BDiv:
		if rf == 0 {
			return nil, newErr(DivisionByZero, sp, "division by zero")
		}
		if bothInt {
			return value.Int(int64(l.(value.Int)) / int64(r.(value.Int))), nil
		}
		return value.Float(lf / rf), nil
	case ast.BMod:
		if rf == 0 {
			return nil, newErr(DivisionByZero, sp, "modulo by zero")
		}
		if bothInt {
			return value.Int(int64(l.(value.Int)) % int64(r.(value.Int))), nil
		}
		return value.Float(math.Mod(lf, rf)), nil
	case ast.BPow:
		result := math.Pow(lf, rf)
		if bothInt && rf >= 0 {
			return value.Int(int64(result)), nil
		}
		return value.Float(result), nil
	}
	return nil, newErr(TypeError, sp, "unsupported binary operator")
}

func (it *Interp) evalAdd(l, r value.V, sp token.Span) (value.V, error) {
	ls, lIsStr := l.(value.String)
	rs, rIsStr := r.(value.String)
	if lIsStr && rIsStr {
		return ls + rs, nil
	}
	if lIsStr {
		return ls + value.String(r.String()), nil
	}
	if rIsStr {
		return value.String(l.String()) + rs, nil
	}
	lf, lok := asFloat(l)
	rf, rok := asFloat(r)
	if !lok || !rok {
		return nil, newErr(TypeError, sp, "+ requires numbers or strings, got %s and %s", value.TypeName(l), value.TypeName(r))
	}
	_, lIsInt := l.(value.Int)
	_, rIsInt := r.(value.Int)
	if lIsInt && rIsInt {
		return value.Int(int64(l.(value.Int)) + int64(r.(value.Int))), nil
	}
	return value.Float(lf + rf), nil
}

func (it *Interp) evalIn(l, r value.V, sp token.Span) (value.V, error) {
	switch t := r.(type) {
	case *value.List:
		for _, item := range t.Items {
			if value.Equal(l, item) {
				return value.Bool(true), nil
			}
		}
		return value.Bool(false), nil
	case *value.Dict:
		ks, ok := l.(value.String)
		if !ok {
			return nil, newErr(TypeError, sp, "dict keys are strings; cannot test %s in dict", value.TypeName(l))
		}
		_, found := t.Get(string(ks))
		return value.Bool(found), nil
	case value.String:
		ls, ok := l.(value.String)
		if !ok {
			return nil, newErr(TypeError, sp, "'in' on a string requires a string operand")
		}
		return value.Bool(strings.Contains(string(t), string(ls))), nil
	}
	return nil, newErr(TypeError, sp, "'in' requires a list, dict, or string on the right, got %s", value.TypeName(r))
}

func asFloat(v value.V) (float64, bool) {
	switch t := v.(type) {
	case value.Int:
		return float64(t), true
	case value.Float:
		return float64(t), true
	}
	return 0, false
}

func (it *Interp) evalIndex(n *ast.Index, env *Environment) (value.V, error) {
	tv, err := it.evalExpr(n.Target, env)
	if err != nil {
		return nil, err
	}
	iv, err := it.evalExpr(n.Index, env)
	if err != nil {
		return nil, err
	}
	return it.getIndex(tv, iv, n.Span())
}

func (it *Interp) getIndex(tv, iv value.V, sp token.Span) (value.V, error) {
	switch t := tv.(type) {
	case *value.List:
		ii, ok := iv.(value.Int)
		if !ok {
			return nil, newErr(TypeError, sp, "list index must be an int")
		}
		idx := int(ii)
		if idx < 0 {
			idx += len(t.Items)
		}
		if idx < 0 || idx >= len(t.Items) {
			return nil, newErr(IndexError, sp, "list index %d out of range (len %d)", int(ii), len(t.Items))
		}
		return t.Items[idx], nil
	case value.String:
		ii, ok := iv.(value.Int)
		if !ok {
			return nil, newErr(TypeError, sp, "string index must be an int")
		}
		runes := []rune(string(t))
		idx := int(ii)
		if idx < 0 {
			idx += len(runes)
		}
		if idx < 0 || idx >= len(runes) {
			return nil, newErr(IndexError, sp, "string index %d out of range (len %d)", int(ii), len(runes))
		}
		return value.String(string(runes[idx])), nil
	case *value.Dict:
		ks, ok := iv.(value.String)
		if !ok {
			return nil, newErr(TypeError, sp, "dict keys are strings, got %s", value.TypeName(iv))
		}
		v, found := t.Get(string(ks))
		if !found {
			return nil, newErr(KeyError, sp, "key %q not found", string(ks))
		}
		return v, nil
	}
	return nil, newErr(TypeError, sp, "cannot index a %s", value.TypeName(tv))
}

func (it *Interp) setIndex(tv, iv, rv value.V, sp token.Span) error {
	switch t := tv.(type) {
	case *value.List:
		ii, ok := iv.(value.Int)
		if !ok {
			return newErr(TypeError, sp, "list index must be an int")
		}
		idx := int(ii)
		if idx < 0 {
			idx += len(t.Items)
		}
		if idx < 0 || idx >= len(t.Items) {
			return newErr(IndexError, sp, "list index %d out of range (len %d)", int(ii), len(t.Items))
		}
		t.Items[idx] = rv
		return nil
	case *value.Dict:
		ks, ok := iv.(value.String)
		if !ok {
			return newErr(TypeError, sp, "dict keys are strings, got %s", value.TypeName(iv))
		}
		t.Set(string(ks), rv)
		return nil
	}
	return newErr(TypeError, sp, "cannot index-assign a %s", value.TypeName(tv))
}

func (it *Interp) evalSlice(n *ast.Slice, env *Environment) (value.V, error) {
	tv, err := it.evalExpr(n.Target, env)
	if err != nil {
		return nil, err
	}
	length, err := sliceableLen(tv, n.Span())
	if err != nil {
		return nil, err
	}
	start := 0
	end := length
	if n.Start != nil {
		sv, err := it.evalExpr(n.Start, env)
		if err != nil {
			return nil, err
		}
		si, ok := sv.(value.Int)
		if !ok {
			return nil, newErr(TypeError, n.Span(), "slice bounds must be ints")
		}
		start = clampIndex(int(si), length)
	}
	if n.End != nil {
		ev, err := it.evalExpr(n.End, env)
		if err != nil {
			return nil, err
		}
		ei, ok := ev.(value.Int)
		if !ok {
			return nil, newErr(TypeError, n.Span(), "slice bounds must be ints")
		}
		end = clampIndex(int(ei), length)
	}
	if start > end {
		start = end
	}
	switch t := tv.(type) {
	case *value.List:
		out := make([]value.V, end-start)
		copy(out, t.Items[start:end])
		return value.NewList(out), nil
	case value.String:
		runes := []rune(string(t))
		return value.String(string(runes[start:end])), nil
	}
	return nil, newErr(TypeError, n.Span(), "cannot slice a %s", value.TypeName(tv))
}

func sliceableLen(v value.V, sp token.Span) (int, error) {
	switch t := v.(type) {
	case *value.List:
		return len(t.Items), nil
	case value.String:
		return len([]rune(string(t))), nil
	}
	return 0, newErr(TypeError, sp, "cannot slice a %s", value.TypeName(v))
}

func clampIndex(i, length int) int {
	if i < 0 {
		i += length
	}
	if i < 0 {
		i = 0
	}
	if i > length {
		i = length
	}
	return i
}

func (it *Interp) getField(tv value.V, name string, sp token.Span) (value.V, error) {
	switch t := tv.(type) {
	case *value.Dict:
		v, found := t.Get(name)
		if !found {
			return nil, newErr(Undefined, sp, "field %q not found", name)
		}
		return v, nil
	case *value.Instance:
		if v, ok := t.Fields[name]; ok {
			return v, nil
		}
		if m, ok := t.Class.Methods[name]; ok {
			return bindMethod(m, t), nil
		}
		return nil, newErr(Undefined, sp, "instance of %s has no field %q", t.Class.Name, name)
	case *value.Process:
		switch name {
		case "stdout":
			return value.String(t.Stdout), nil
		case "stderr":
			return value.String(t.Stderr), nil
		case "code":
			return value.Int(t.Code), nil
		}
	case *value.Response:
		switch name {
		case "status":
			return value.Int(t.Status), nil
		case "body":
			return value.String(t.Body), nil
		case "headers":
			return t.Headers, nil
		}
	}
	return nil, newErr(Undefined, sp, "cannot access field %q on %s", name, value.TypeName(tv))
}

func (it *Interp) setField(tv value.V, name string, rv value.V, sp token.Span) error {
	switch t := tv.(type) {
	case *value.Dict:
		t.Set(name, rv)
		return nil
	case *value.Instance:
		t.Fields[name] = rv
		return nil
	}
	return newErr(TypeError, sp, "cannot set field %q on %s", name, value.TypeName(tv))
}

// bindMethod returns a closure whose captured environment has `self`
// pre-bound, matching spec.md §4.3: "Method bodies for class members
// implicitly declare self as a parameter."
func bindMethod(m *value.Fn, self *value.Instance) *value.Fn {
	parent, _ := m.Env.(*Environment)
	bound := NewEnvironment(parent)
	bound.Define("self", self, false)
	return &value.Fn{Name: m.Name, Params: m.Params, Body: m.Body, Env: bound}
}

func (it *Interp) evalListComp(n *ast.ListComp, env *Environment) (value.V, error) {
	iterV, err := it.evalExpr(n.Iter, env)
	if err != nil {
		return nil, err
	}
	items, err := iterableItems(iterV, n.Span())
	if err != nil {
		return nil, err
	}
	out := make([]value.V, 0, len(items))
	for _, item := range items {
		scope := env.New()
		scope.Define(n.Var, item, false)
		if n.Guard != nil {
			gv, err := it.evalExpr(n.Guard, scope)
			if err != nil {
				return nil, err
			}
			if !value.Truthy(gv) {
				continue
			}
		}
		v, err := it.evalExpr(n.Expr, scope)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return value.NewList(out), nil
}

// mustInt/mustFloat parse decimal numeric text, returning 0 on failure.
// Nothing in the interpreter calls them: ast.Int/ast.Float already store
// decoded Go values, and env.int does its own conversion.
func mustInt(s string) int64 {
	v, _ := strconv.ParseInt(s, 10, 64)
	return v
}

func mustFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}
