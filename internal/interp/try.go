package interp

import (
	"github.com/latch-lang/latch/internal/ast"
	"github.com/latch-lang/latch/internal/value"
)

// errToValue exposes a RuntimeError to catch-body code as a dict with
// kind/message/hint fields, so `catch(e) { e.kind }` etc. work.
func errToValue(err error) value.V {
	re := AsRuntimeError(err, TypeError, token0())
	d := value.NewDict()
	d.Set("kind", value.String(re.ErrKind))
	d.Set("message", value.String(re.Message))
	d.Set("hint", value.String(re.Hint))
	return d
}

// execTry implements spec.md §4.4's deferred-control-flow contract: body
// runs, catch binds and handles any error, finally always runs last and
// its own error/control-flow supersedes whatever body/catch produced. A
// `stop` initiated in body or catch is control flow, not a catchable
// error (spec.md §4.4: "a return/break/continue/stop ... is deferred
// until finally completes"), so it bypasses catch entirely.
func (it *Interp) execTry(n *ast.Try, env *Environment) (signal, error) {
	pendingSig, pendingErr := it.execBlock(n.Body, env)

	if stopSig, ok := asStop(pendingErr); ok {
		pendingSig, pendingErr = stopSig, nil
	} else if pendingErr != nil {
		catchScope := env.New()
		catchScope.Define(n.CatchVar, errToValue(pendingErr), false)
		pendingSig, pendingErr = it.execBlock(n.CatchBody, catchScope)
		if stopSig, ok := asStop(pendingErr); ok {
			pendingSig, pendingErr = stopSig, nil
		}
	}

	if n.FinallyBody != nil {
		finSig, finErr := it.execBlock(n.FinallyBody, env)
		if stopSig, ok := asStop(finErr); ok {
			return stopSig, nil
		}
		if finErr != nil {
			return noSignal, finErr
		}
		if finSig.Kind != sigNone {
			return finSig, nil
		}
	}

	return pendingSig, pendingErr
}
