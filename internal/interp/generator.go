package interp

import (
	"github.com/latch-lang/latch/internal/token"
	"github.com/latch-lang/latch/internal/value"
)

// doYield implements the eager-materialization realization of spec.md
// §4.4/§9 Yield: every yielded value is appended to the nearest enclosing
// call's sink; the call returns the collected list once its body finishes
// running to completion.
func (it *Interp) doYield(env *Environment, v value.V, sp token.Span) (signal, error) {
	if env.genSink == nil {
		return noSignal, newErr(UnsupportedControl, sp, "yield used outside a function")
	}
	*env.genSink = append(*env.genSink, v)
	return noSignal, nil
}
