package interp

import (
	"fmt"

	"github.com/latch-lang/latch/internal/token"
)

// ErrorKind is the closed runtime error-kind set from spec.md §7.
type ErrorKind string

const (
	TypeError          ErrorKind = "TypeError"
	ValueError         ErrorKind = "ValueError"
	ArityError         ErrorKind = "ArityError"
	IndexError         ErrorKind = "IndexError"
	KeyError           ErrorKind = "KeyError"
	DivisionByZero     ErrorKind = "DivisionByZero"
	FileError          ErrorKind = "FileError"
	NetworkError       ErrorKind = "NetworkError"
	ProcessError       ErrorKind = "ProcessError"
	ParseError         ErrorKind = "ParseError"
	UnsupportedControl ErrorKind = "UnsupportedControl"
	AssertionError     ErrorKind = "AssertionError"
	Undefined          ErrorKind = "Undefined"
)

// RuntimeError is the tagged error value of spec.md §4.4 "Evaluator
// failure semantics": a kind, message, the span of the innermost
// contributing AST node, and an optional hint.
type RuntimeError struct {
	ErrKind ErrorKind
	Message string
	Span    token.Span
	Hint    string
}

func (e *RuntimeError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s: %s (hint: %s)", e.ErrKind, e.Message, e.Hint)
	}
	return fmt.Sprintf("%s: %s", e.ErrKind, e.Message)
}

func newErr(kind ErrorKind, sp token.Span, format string, args ...any) *RuntimeError {
	return &RuntimeError{ErrKind: kind, Message: fmt.Sprintf(format, args...), Span: sp}
}

func newErrHint(kind ErrorKind, sp token.Span, hint, format string, args ...any) *RuntimeError {
	return &RuntimeError{ErrKind: kind, Message: fmt.Sprintf(format, args...), Span: sp, Hint: hint}
}

// stopSignal carries a `stop` that occurred inside a function call back
// through evalExpr's (value.V, error) return shape, since expression
// evaluation has no signal channel of its own. Every site that might
// receive one from a call result unwraps it back into a real sigStop
// signal (spec.md §4.3: "stop is allowed anywhere") rather than treating
// it as an ordinary runtime error.
type stopSignal struct{ Code int64 }

func (s *stopSignal) Error() string { return "stop" }

// asStop reports whether err is a pending stop, unwrapped to the
// (carries-its-own-kind) signal form callers can thread onward.
func asStop(err error) (signal, bool) {
	ss, ok := err.(*stopSignal)
	if !ok {
		return noSignal, false
	}
	return signal{Kind: sigStop, StopCode: ss.Code}, true
}

// kinded is satisfied by internal/modules.ModErr without either package
// importing the other: module failures self-report which closed-set kind
// they map to, and this boundary trusts that tag over the generic
// fallback (SPEC_FULL.md §2.2).
type kinded interface{ RuntimeKind() string }

// AsRuntimeError unwraps err into a *RuntimeError, wrapping foreign errors
// (e.g. from host modules) as the given fallback kind so they never leak
// a raw Go error into Latch user code (SPEC_FULL.md §2.2).
func AsRuntimeError(err error, fallback ErrorKind, sp token.Span) *RuntimeError {
	if err == nil {
		return nil
	}
	if re, ok := err.(*RuntimeError); ok {
		return re
	}
	if k, ok := err.(kinded); ok {
		return &RuntimeError{ErrKind: ErrorKind(k.RuntimeKind()), Message: err.Error(), Span: sp}
	}
	return &RuntimeError{ErrKind: fallback, Message: err.Error(), Span: sp}
}
