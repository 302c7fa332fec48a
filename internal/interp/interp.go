// Package interp is the tree-walking evaluator: spec.md §4.4 against an
// Environment chain, including the parallel fan-out (§5) and try/finally
// deferred control flow.
package interp

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/latch-lang/latch/internal/ast"
	"github.com/latch-lang/latch/internal/value"
)

// Interp owns the global scope, the host module registry, and the logger.
// One Interp is reused across REPL lines so top-level bindings persist.
type Interp struct {
	Global  *Environment
	Modules map[string]*value.Dict

	logger *slog.Logger

	// MaxWorkers bounds the default `parallel` worker ceiling (SPEC_FULL.md
	// §5, overridable by --workers); spec.md §5 defaults to min(len(iter), 64).
	MaxWorkers int

	stdout *lineWriter
}

// New creates an interpreter with modules (a module-name → Dict registry,
// typically internal/modules.Registry()) wired in as `use`-able bindings;
// every module is also bound in the global scope under its own name.
func New(modules map[string]*value.Dict) *Interp {
	level := slog.LevelInfo
	if os.Getenv("LATCH_DEBUG") != "" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	it := &Interp{
		Global:     NewEnvironment(nil),
		Modules:    modules,
		logger:     logger,
		MaxWorkers: 64,
		stdout:     &lineWriter{w: os.Stdout},
	}
	for name, mod := range modules {
		it.Global.Define(name, mod, false)
	}
	registerGlobals(it)
	return it
}

// lineWriter serializes writes so parallel workers never tear a printed
// line (spec.md §5: "print is serialized ... line-atomic writes").
type lineWriter struct {
	mu sync.Mutex
	w  *os.File
}

func (lw *lineWriter) WriteLine(s string) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	fmt.Fprintln(lw.w, s)
}

// ProgramResult is what Run reports back to the CLI.
type ProgramResult struct {
	StopCode    int
	Stopped     bool
	RuntimeErr  *RuntimeError
}

// Run evaluates every top-level statement in prog against it.Global,
// stopping early on an uncaught error or a `stop` statement.
func (it *Interp) Run(prog *ast.Program) ProgramResult {
	var sig signal
	var err error
	for _, s := range prog.Stmts {
		sig, err = it.execStmt(s, it.Global)
		if err != nil || sig.Kind != sigNone {
			break
		}
	}
	if stopSig, ok := asStop(err); ok {
		return ProgramResult{Stopped: true, StopCode: int(stopSig.StopCode)}
	}
	if err != nil {
		return ProgramResult{RuntimeErr: AsRuntimeError(err, TypeError, token0())}
	}
	if sig.Kind == sigStop {
		return ProgramResult{Stopped: true, StopCode: int(sig.StopCode)}
	}
	return ProgramResult{}
}

// EvalLine runs the statements of one REPL submission against the
// persistent global scope, returning the value of the last bare expression
// statement among them (null if there is none).
func (it *Interp) EvalLine(stmts []ast.Stmt) (value.V, error) {
	var last value.V = value.Null
	for _, s := range stmts {
		if es, ok := s.(*ast.ExprStmt); ok {
			v, err := it.evalExpr(es.Expr, it.Global)
			if _, ok := asStop(err); ok {
				return nil, newErr(UnsupportedControl, es.Span(), "stop is not valid at the top level of a REPL line")
			}
			if err != nil {
				return nil, err
			}
			last = v
			continue
		}
		sig, err := it.execStmt(s, it.Global)
		if _, ok := asStop(err); ok {
			return nil, newErr(UnsupportedControl, s.Span(), "stop is not valid at the top level of a REPL line")
		}
		if err != nil {
			return nil, err
		}
		if sig.Kind == sigStop {
			return nil, newErr(UnsupportedControl, s.Span(), "stop is not valid at the top level of a REPL line")
		}
	}
	return last, nil
}
