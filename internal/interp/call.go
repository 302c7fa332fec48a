package interp

import (
	"github.com/latch-lang/latch/internal/ast"
	"github.com/latch-lang/latch/internal/token"
	"github.com/latch-lang/latch/internal/value"
)

func (it *Interp) evalCall(n *ast.Call, env *Environment) (value.V, error) {
	callee, err := it.evalExpr(n.Callee, env)
	if err != nil {
		return nil, err
	}
	args := make([]value.V, len(n.Args))
	for i, a := range n.Args {
		v, err := it.evalExpr(a, env)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return it.callValue(callee, args, n.Span())
}

// callValue dispatches a call to a user Fn, a host BuiltinFn, or a Class
// constructor, per spec.md §4.4 "Calls".
func (it *Interp) callValue(callee value.V, args []value.V, sp token.Span) (value.V, error) {
	switch fn := callee.(type) {
	case *value.Fn:
		return it.callFn(fn, args, sp)
	case *value.BuiltinFn:
		if fn.Arity >= 0 && len(args) != fn.Arity {
			return nil, newErr(ArityError, sp, "%s expects %d argument(s), got %d", fn.Name, fn.Arity, len(args))
		}
		v, err := fn.Impl(args)
		if err != nil {
			return nil, AsRuntimeError(err, TypeError, sp)
		}
		return v, nil
	case *value.Class:
		return it.instantiate(fn, args, sp)
	}
	return nil, newErr(TypeError, sp, "%s is not callable", value.TypeName(callee))
}

func (it *Interp) callFn(fn *value.Fn, args []value.V, sp token.Span) (value.V, error) {
	parent, _ := fn.Env.(*Environment)
	callScope := NewEnvironment(parent)
	sink := make([]value.V, 0)
	callScope.genSink = &sink

	if len(args) > len(fn.Params) {
		return nil, newErr(ArityError, sp, "%s expects at most %d argument(s), got %d", fnLabel(fn.Name), len(fn.Params), len(args))
	}
	for i, p := range fn.Params {
		if i < len(args) {
			callScope.Define(p.Name, args[i], false)
			continue
		}
		if p.Default == nil {
			return nil, newErr(ArityError, sp, "%s missing required argument '%s'", fnLabel(fn.Name), p.Name)
		}
		dv, err := it.evalExpr(p.Default, callScope)
		if err != nil {
			return nil, err
		}
		callScope.Define(p.Name, dv, false)
	}

	sig, err := it.execBlock(fn.Body, callScope)
	if err != nil {
		return nil, err
	}
	if len(sink) > 0 {
		return value.NewList(sink), nil
	}
	switch sig.Kind {
	case sigReturn:
		return sig.Value, nil
	case sigStop:
		// stop is allowed anywhere (spec.md §4.3); since evalExpr has no
		// signal channel of its own, wrap it as an error so it keeps
		// unwinding through whatever expression called this function,
		// and unwrap it back into a real signal at every site that
		// might receive one (see stopSignal/asStop in errors.go).
		return nil, &stopSignal{Code: sig.StopCode}
	default:
		return value.Null, nil
	}
}

func fnLabel(name string) string {
	if name == "" {
		return "<fn>"
	}
	return name
}

// instantiate builds a Class's Instance: positional args bind the
// declared Fields in order, then an `init` method (if any) runs with
// self bound, for classes that want constructor logic beyond field
// assignment.
func (it *Interp) instantiate(cls *value.Class, args []value.V, sp token.Span) (value.V, error) {
	if len(args) > len(cls.Fields) {
		return nil, newErr(ArityError, sp, "%s expects at most %d field argument(s), got %d", cls.Name, len(cls.Fields), len(args))
	}
	inst := &value.Instance{Class: cls, Fields: map[string]value.V{}}
	for _, f := range cls.Fields {
		inst.Fields[f] = value.Null
	}
	for i, a := range args {
		inst.Fields[cls.Fields[i]] = a
	}
	if initM, ok := cls.Methods["init"]; ok {
		bound := bindMethod(initM, inst)
		if _, err := it.callFn(bound, args, sp); err != nil {
			return nil, err
		}
	}
	return inst, nil
}
