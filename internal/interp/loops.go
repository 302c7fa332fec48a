package interp

import (
	"github.com/latch-lang/latch/internal/ast"
	"github.com/latch-lang/latch/internal/token"
	"github.com/latch-lang/latch/internal/value"
)

func (it *Interp) execFor(n *ast.For, env *Environment) (signal, error) {
	iterV, err := it.evalExpr(n.Iter, env)
	if err != nil {
		return noSignal, err
	}
	items, err := iterableItems(iterV, n.Span())
	if err != nil {
		return noSignal, err
	}
	for _, item := range items {
		scope := env.New()
		scope.Define(n.Var, item, false)
		sig, err := it.execBlock(n.Body, scope)
		if err != nil {
			return noSignal, err
		}
		switch sig.Kind {
		case sigBreak:
			return noSignal, nil
		case sigContinue:
			continue
		case sigReturn, sigStop:
			return sig, nil
		}
	}
	return noSignal, nil
}

func (it *Interp) execWhile(n *ast.While, env *Environment) (signal, error) {
	for {
		cv, err := it.evalExpr(n.Cond, env)
		if err != nil {
			return noSignal, err
		}
		if !value.Truthy(cv) {
			return noSignal, nil
		}
		sig, err := it.execBlock(n.Body, env)
		if err != nil {
			return noSignal, err
		}
		switch sig.Kind {
		case sigBreak:
			return noSignal, nil
		case sigContinue:
			continue
		case sigReturn, sigStop:
			return sig, nil
		}
	}
}

// iterableItems turns a list/dict/string value into the sequence a
// `for`/`parallel` loop walks: dicts iterate over sorted keys and strings
// over characters, matching `in`'s substring/membership symmetry.
func iterableItems(v value.V, sp token.Span) ([]value.V, error) {
	switch t := v.(type) {
	case *value.List:
		return append([]value.V(nil), t.Items...), nil
	case *value.Dict:
		keys := t.SortedKeys()
		out := make([]value.V, len(keys))
		for i, k := range keys {
			out[i] = value.String(k)
		}
		return out, nil
	case value.String:
		runes := []rune(string(t))
		out := make([]value.V, len(runes))
		for i, r := range runes {
			out[i] = value.String(string(r))
		}
		return out, nil
	default:
		return nil, newErr(TypeError, sp, "value of kind %s is not iterable", t.Kind())
	}
}
