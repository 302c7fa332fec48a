package interp

import (
	"github.com/sourcegraph/conc/pool"

	"github.com/latch-lang/latch/internal/ast"
	"github.com/latch-lang/latch/internal/value"
)

type workerOutcome struct {
	idx int
	err error
}

// execParallel fans iterations of n out across up to workers logical
// workers using conc/pool's ResultPool. Wait()'s result order is not
// guaranteed to match submission order, so each workerOutcome carries its
// own idx and the join below scans explicitly for the lowest surviving
// index — that explicit tracking, not any ordering guarantee from the
// pool, is what gives spec.md §5's "lowest surviving index wins" rule.
func (it *Interp) execParallel(n *ast.Parallel, env *Environment) (signal, error) {
	iterV, err := it.evalExpr(n.Iter, env)
	if err != nil {
		return noSignal, err
	}
	items, err := iterableItems(iterV, n.Span())
	if err != nil {
		return noSignal, err
	}

	workers := it.MaxWorkers
	if len(items) < workers {
		workers = len(items)
	}
	if n.Workers != nil {
		wv, err := it.evalExpr(n.Workers, env)
		if err != nil {
			return noSignal, err
		}
		wi, ok := wv.(value.Int)
		if !ok {
			return noSignal, newErr(TypeError, n.Span(), "workers= must be an int")
		}
		workers = int(wi)
	}
	if workers < 1 {
		workers = 1
	}

	snapshot := env.Flatten()
	it.logger.Debug("parallel fan-out", "count", len(items), "workers", workers)

	p := pool.NewWithResults[workerOutcome]().WithMaxGoroutines(workers)
	for idx, item := range items {
		idx, item := idx, item
		p.Go(func() workerOutcome {
			workerEnv := FromSnapshot(snapshot)
			scope := workerEnv.New()
			scope.Define(n.Var, item, false)
			sig, err := it.execBlock(n.Body, scope)
			if _, ok := asStop(err); ok {
				return workerOutcome{idx: idx, err: newErr(UnsupportedControl, n.Span(),
					"stop is not allowed inside a parallel worker")}
			}
			if err != nil {
				return workerOutcome{idx: idx, err: err}
			}
			if sig.Kind != sigNone {
				return workerOutcome{idx: idx, err: newErr(UnsupportedControl, n.Span(),
					"break/continue/return/stop are not allowed inside a parallel worker")}
			}
			return workerOutcome{idx: idx}
		})
	}
	results := p.Wait()
	it.logger.Debug("parallel join", "count", len(items))

	var lowest *workerOutcome
	for i := range results {
		if results[i].err != nil {
			r := results[i]
			if lowest == nil || r.idx < lowest.idx {
				lowest = &r
			}
		}
	}
	if lowest != nil {
		return noSignal, lowest.err
	}
	return noSignal, nil
}
