package interp

import (
	"github.com/latch-lang/latch/internal/ast"
	"github.com/latch-lang/latch/internal/token"
	"github.com/latch-lang/latch/internal/value"
)

type sigKind int

const (
	sigNone sigKind = iota
	sigBreak
	sigContinue
	sigReturn
	sigStop
)

// signal carries a pending non-local exit: break/continue/return/stop.
// Normal completion is sigNone.
type signal struct {
	Kind     sigKind
	Value    value.V
	StopCode int64
}

var noSignal = signal{Kind: sigNone}

// execBlock runs stmts in a fresh child scope of env, the shape every
// block body uses (spec.md §3 Lifecycle: "Scopes stack on ... block
// entry").
func (it *Interp) execBlock(stmts []ast.Stmt, parent *Environment) (signal, error) {
	scope := parent.New()
	for _, s := range stmts {
		sig, err := it.execStmt(s, scope)
		if err != nil {
			return noSignal, err
		}
		if sig.Kind != sigNone {
			return sig, nil
		}
	}
	return noSignal, nil
}

func (it *Interp) execStmt(s ast.Stmt, env *Environment) (signal, error) {
	switch n := s.(type) {
	case *ast.Let:
		v, err := it.evalExpr(n.Expr, env)
		if err != nil {
			return noSignal, err
		}
		env.Define(n.Name, v, n.IsConst)
		return noSignal, nil

	case *ast.Assign:
		return noSignal, it.execAssign(n, env)

	case *ast.ExprStmt:
		_, err := it.evalExpr(n.Expr, env)
		return noSignal, err

	case *ast.If:
		for _, br := range n.Branches {
			cv, err := it.evalExpr(br.Cond, env)
			if err != nil {
				return noSignal, err
			}
			if value.Truthy(cv) {
				return it.execBlock(br.Body, env)
			}
		}
		if n.Else != nil {
			return it.execBlock(n.Else, env)
		}
		return noSignal, nil

	case *ast.For:
		return it.execFor(n, env)

	case *ast.While:
		return it.execWhile(n, env)

	case *ast.Parallel:
		return it.execParallel(n, env)

	case *ast.Break:
		return signal{Kind: sigBreak}, nil

	case *ast.Continue:
		return signal{Kind: sigContinue}, nil

	case *ast.Return:
		var v value.V = value.Null
		if n.Expr != nil {
			var err error
			v, err = it.evalExpr(n.Expr, env)
			if err != nil {
				return noSignal, err
			}
		}
		return signal{Kind: sigReturn, Value: v}, nil

	case *ast.Yield:
		v, err := it.evalExpr(n.Expr, env)
		if err != nil {
			return noSignal, err
		}
		return it.doYield(env, v, n.Span())

	case *ast.Try:
		return it.execTry(n, env)

	case *ast.Stop:
		code := int64(0)
		if n.Code != nil {
			v, err := it.evalExpr(n.Code, env)
			if err != nil {
				return noSignal, err
			}
			iv, ok := v.(value.Int)
			if !ok {
				return noSignal, newErr(TypeError, n.Span(), "stop code must be an int")
			}
			code = int64(iv)
		}
		return signal{Kind: sigStop, StopCode: code}, nil

	case *ast.FnDecl:
		fn := &value.Fn{Name: n.Name, Params: n.Params, Body: n.Body, Env: env}
		env.Define(n.Name, fn, false)
		return noSignal, nil

	case *ast.ClassDecl:
		cls := &value.Class{Name: n.Name, Fields: n.Fields, Methods: map[string]*value.Fn{}}
		for _, m := range n.Methods {
			cls.Methods[m.Name] = &value.Fn{Name: m.Name, Params: m.Params, Body: m.Body, Env: env}
		}
		env.Define(n.Name, cls, false)
		return noSignal, nil

	case *ast.Import:
		return noSignal, it.execImport(n, env)

	case *ast.Export:
		// Export has no observable effect inside a single-file run/repl;
		// it is meaningful only to a module resolver, which is a declared
		// Non-goal (SPEC_FULL.md §6).
		return noSignal, nil
	}
	return noSignal, newErr(TypeError, s.Span(), "unsupported statement")
}

func (it *Interp) execAssign(n *ast.Assign, env *Environment) error {
	rhs, err := it.evalExpr(n.Rhs, env)
	if err != nil {
		return err
	}
	if n.Op != ast.AssignSet {
		cur, err := it.evalExpr(n.Target, env)
		if err != nil {
			return err
		}
		rhs, err = it.applyCompound(n.Op, cur, rhs, n.Span())

		if err != nil {
			return err
		}
	}
	switch target := n.Target.(type) {
	case *ast.Ident:
		isConst, found := env.Assign(target.Name, rhs)
		if !found {
			return newErrHint(TypeError, n.Span(), "declare it first with :=", "assign to undeclared variable '%s'", target.Name)
		}
		if isConst {
			return newErr(TypeError, n.Span(), "cannot assign to const variable '%s'", target.Name)
		}
		return nil
	case *ast.Index:
		tv, err := it.evalExpr(target.Target, env)
		if err != nil {
			return err
		}
		iv, err := it.evalExpr(target.Index, env)
		if err != nil {
			return err
		}
		return it.setIndex(tv, iv, rhs, n.Span())
	case *ast.Field:
		tv, err := it.evalExpr(target.Target, env)
		if err != nil {
			return err
		}
		return it.setField(tv, target.Name, rhs, n.Span())
	}
	return newErr(TypeError, n.Span(), "invalid assignment target")
}

func (it *Interp) applyCompound(op ast.AssignOp, cur, rhs value.V, sp token.Span) (value.V, error) {
	var bop ast.BinaryOp
	switch op {
	case ast.AssignAdd:
		bop = ast.BAdd
	case ast.AssignSub:
		bop = ast.BSub
	case ast.AssignMul:
		bop = ast.BMul
	case ast.AssignDiv:
		bop = ast.BDiv
	case ast.AssignMod:
		bop = ast.BMod
	}
	return it.binaryOp(bop, cur, rhs, sp)
}
