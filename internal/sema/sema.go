// Package sema is the semantic analyzer of spec.md §4.3: a scope-stack
// walk that resolves bindings, validates keyword positions, and collects
// diagnostics. It never aborts evaluation itself — callers gate on
// diag.List.HasErrors().
package sema

import (
	"fmt"

	"github.com/latch-lang/latch/internal/ast"
	"github.com/latch-lang/latch/internal/diag"
	"github.com/latch-lang/latch/internal/token"
)

type scope struct {
	parent *scope
	names  map[string]bool // true if const
}

func newScope(parent *scope) *scope {
	return &scope{parent: parent, names: make(map[string]bool)}
}

func (s *scope) declare(name string, isConst bool) {
	s.names[name] = isConst
}

func (s *scope) resolve(name string) (isConst bool, found bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if c, ok := sc.names[name]; ok {
			return c, true
		}
	}
	return false, false
}

// Analyzer walks a Program and a known set of host-module/global names
// (builtins, modules) that resolve without a local declaration.
type Analyzer struct {
	file  string
	src   string
	globals map[string]bool

	top *scope

	loopDepth int
	fnDepth   int

	Diagnostics diag.List
}

// New creates an Analyzer. globals lists every name that resolves without
// a `:=` (builtins like print/len, and host module names like fs/http).
func New(file, src string, globals []string) *Analyzer {
	a := &Analyzer{file: file, src: src, globals: map[string]bool{}, top: newScope(nil)}
	for _, g := range globals {
		a.globals[g] = true
	}
	return a
}

func (a *Analyzer) errorf(sp token.Span, hint, format string, args ...any) {
	a.Diagnostics = append(a.Diagnostics, diag.New(diag.SemanticError, a.src, sp, fmt.Sprintf(format, args...), hint))
}

// Check runs the full analysis pass over prog.
func (a *Analyzer) Check(prog *ast.Program) diag.List {
	a.checkBlock(prog.Stmts, a.top)
	return a.Diagnostics
}

func (a *Analyzer) checkBlock(stmts []ast.Stmt, parent *scope) {
	s := newScope(parent)
	for _, st := range stmts {
		a.checkStmt(st, s)
	}
}

func (a *Analyzer) checkStmt(st ast.Stmt, s *scope) {
	switch n := st.(type) {
	case *ast.Let:
		a.checkExpr(n.Expr, s)
		s.declare(n.Name, n.IsConst)

	case *ast.Assign:
		a.checkAssignTarget(n.Target, s)
		a.checkExpr(n.Rhs, s)

	case *ast.ExprStmt:
		a.checkExpr(n.Expr, s)

	case *ast.If:
		for _, br := range n.Branches {
			a.checkExpr(br.Cond, s)
			a.checkBlock(br.Body, s)
		}
		if n.Else != nil {
			a.checkBlock(n.Else, s)
		}

	case *ast.For:
		a.checkExpr(n.Iter, s)
		inner := newScope(s)
		inner.declare(n.Var, false)
		a.loopDepth++
		a.checkBlock(n.Body, inner)
		a.loopDepth--

	case *ast.While:
		a.checkExpr(n.Cond, s)
		a.loopDepth++
		a.checkBlock(n.Body, s)
		a.loopDepth--

	case *ast.Parallel:
		a.checkExpr(n.Iter, s)
		if n.Workers != nil {
			a.checkExpr(n.Workers, s)
		}
		inner := newScope(s)
		inner.declare(n.Var, false)
		a.loopDepth++
		a.checkBlock(n.Body, inner)
		a.loopDepth--

	case *ast.Break:
		if a.loopDepth == 0 {
			a.errorf(n.Span(), "break only makes sense inside for/while/parallel", "break outside a loop")
		}

	case *ast.Continue:
		if a.loopDepth == 0 {
			a.errorf(n.Span(), "continue only makes sense inside for/while/parallel", "continue outside a loop")
		}

	case *ast.Return:
		if a.fnDepth == 0 {
			a.errorf(n.Span(), "return only makes sense inside a function body", "return outside a function")
		}
		if n.Expr != nil {
			a.checkExpr(n.Expr, s)
		}

	case *ast.Yield:
		if a.fnDepth == 0 {
			a.errorf(n.Span(), "yield only makes sense inside a function body", "yield outside a function")
		}
		a.checkExpr(n.Expr, s)

	case *ast.Try:
		a.checkBlock(n.Body, s)
		catchScope := newScope(s)
		catchScope.declare(n.CatchVar, false)
		a.checkBlock(n.CatchBody, catchScope)
		if n.FinallyBody != nil {
			a.checkBlock(n.FinallyBody, s)
		}

	case *ast.Stop:
		if n.Code != nil {
			a.checkExpr(n.Code, s)
		}

	case *ast.FnDecl:
		s.declare(n.Name, false)
		a.checkFnBody(n.Params, n.Body, s)

	case *ast.ClassDecl:
		s.declare(n.Name, false)
		for _, m := range n.Methods {
			a.checkMethodBody(n.Fields, m.Params, m.Body, s)
		}

	case *ast.Import:
		if len(n.Names) == 0 {
			s.declare(n.Source, false)
		}
		for _, name := range n.Names {
			s.declare(name, false)
		}

	case *ast.Export:
		for _, name := range n.Names {
			if _, found := s.resolve(name); !found && !a.globals[name] {
				a.errorf(n.Span(), "declare it before exporting it", "export of undefined name '%s'", name)
			}
		}
	}
}

func (a *Analyzer) checkFnBody(params []ast.Param, body []ast.Stmt, outer *scope) {
	fnScope := newScope(outer)
	for _, p := range params {
		if p.Default != nil {
			a.checkExpr(p.Default, outer)
		}
		fnScope.declare(p.Name, false)
	}
	a.fnDepth++
	savedLoop := a.loopDepth
	a.loopDepth = 0 // break/continue do not cross a function boundary
	a.checkBlock(body, fnScope)
	a.loopDepth = savedLoop
	a.fnDepth--
}

// checkMethodBody implicitly declares `self` and every field name as a
// method-local binding (spec.md §4.3: "field names used without
// qualification inside a method body resolve to self.<name>").
func (a *Analyzer) checkMethodBody(fields []string, params []ast.Param, body []ast.Stmt, outer *scope) {
	fnScope := newScope(outer)
	fnScope.declare("self", false)
	for _, f := range fields {
		fnScope.declare(f, false)
	}
	for _, p := range params {
		if p.Default != nil {
			a.checkExpr(p.Default, outer)
		}
		fnScope.declare(p.Name, false)
	}
	a.fnDepth++
	savedLoop := a.loopDepth
	a.loopDepth = 0
	a.checkBlock(body, fnScope)
	a.loopDepth = savedLoop
	a.fnDepth--
}

func (a *Analyzer) checkAssignTarget(e ast.Expr, s *scope) {
	switch n := e.(type) {
	case *ast.Ident:
		isConst, found := s.resolve(n.Name)
		if !found {
			if a.globals[n.Name] {
				a.errorf(n.Span(), "", "cannot assign to built-in '%s'", n.Name)
				return
			}
			a.errorf(n.Span(), "declare it first with ':='", "assign to undeclared variable '%s'", n.Name)
			return
		}
		if isConst {
			a.errorf(n.Span(), "", "cannot assign to const variable '%s'", n.Name)
		}
	case *ast.Index:
		a.checkExpr(n.Target, s)
		a.checkExpr(n.Index, s)
	case *ast.Field:
		a.checkExpr(n.Target, s)
	default:
		a.errorf(e.Span(), "", "invalid assignment target")
	}
}

func (a *Analyzer) checkExpr(e ast.Expr, s *scope) {
	switch n := e.(type) {
	case *ast.Ident:
		if _, found := s.resolve(n.Name); !found && !a.globals[n.Name] {
			a.errorf(n.Span(), "Declare the variable first with ':='", "Undefined variable '%s'", n.Name)
		}
	case *ast.String:
		for _, seg := range n.Segments {
			if seg.Expr != nil {
				a.checkExpr(seg.Expr, s)
			}
		}
	case *ast.ListLit:
		for _, it := range n.Items {
			a.checkExpr(it, s)
		}
	case *ast.DictLit:
		for _, pr := range n.Pairs {
			a.checkExpr(pr.Key, s)
			a.checkExpr(pr.Value, s)
		}
	case *ast.Index:
		a.checkExpr(n.Target, s)
		a.checkExpr(n.Index, s)
	case *ast.Slice:
		a.checkExpr(n.Target, s)
		if n.Start != nil {
			a.checkExpr(n.Start, s)
		}
		if n.End != nil {
			a.checkExpr(n.End, s)
		}
	case *ast.Field:
		a.checkExpr(n.Target, s)
	case *ast.SafeField:
		a.checkExpr(n.Target, s)
	case *ast.Call:
		a.checkExpr(n.Callee, s)
		for _, arg := range n.Args {
			a.checkExpr(arg, s)
		}
	case *ast.Pipe:
		a.checkExpr(n.Lhs, s)
		a.checkExpr(n.Call, s)
	case *ast.Unary:
		a.checkExpr(n.Arg, s)
	case *ast.Binary:
		a.checkExpr(n.L, s)
		a.checkExpr(n.R, s)
	case *ast.Ternary:
		a.checkExpr(n.Cond, s)
		a.checkExpr(n.Then, s)
		a.checkExpr(n.Else, s)
	case *ast.Range:
		a.checkExpr(n.Start, s)
		a.checkExpr(n.End, s)
	case *ast.FnLit:
		a.checkFnBody(n.Params, n.Body, s)
	case *ast.ListComp:
		a.checkExpr(n.Iter, s)
		inner := newScope(s)
		inner.declare(n.Var, false)
		if n.Guard != nil {
			a.checkExpr(n.Guard, inner)
		}
		a.checkExpr(n.Expr, inner)
	}
}
