package interp

import "github.com/latch-lang/latch/internal/value"

type binding struct {
	val     value.V
	isConst bool
}

// Environment is the scope chain of spec.md §4.4: "a mapping from name to
// a cell holding a Value and a mutability flag; lookup walks parent
// scopes."
type Environment struct {
	parent *Environment
	vars   map[string]*binding

	// genSink, when non-nil, is the enclosing function call's yield
	// collector (spec.md §4.4 Yield: eager materialization realization).
	// It is inherited by every child scope of that call so `yield`
	// anywhere in the function body reaches the same sink.
	genSink *[]value.V
}

// NewEnvironment creates a scope; parent may be nil for the root.
func NewEnvironment(parent *Environment) *Environment {
	e := &Environment{parent: parent, vars: make(map[string]*binding)}
	if parent != nil {
		e.genSink = parent.genSink
	}
	return e
}

// Child satisfies value.Env so *Fn can carry its defining scope without
// the value package importing interp.
func (e *Environment) Child() value.Env { return NewEnvironment(e) }

// New pushes a fresh child scope, the shape eval uses for blocks/calls.
func (e *Environment) New() *Environment { return NewEnvironment(e) }

// Define creates name in this scope (`:=`/`const`); shadowing an outer
// binding of the same name is allowed.
func (e *Environment) Define(name string, v value.V, isConst bool) {
	e.vars[name] = &binding{val: v, isConst: isConst}
}

// Lookup walks the chain and returns the binding cell, if any.
func (e *Environment) Lookup(name string) (*binding, bool) {
	for s := e; s != nil; s = s.parent {
		if b, ok := s.vars[name]; ok {
			return b, true
		}
	}
	return nil, false
}

// Get reads name's current value.
func (e *Environment) Get(name string) (value.V, bool) {
	b, ok := e.Lookup(name)
	if !ok {
		return nil, false
	}
	return b.val, true
}

// Assign implements `=`/compound-assign: the binding must already exist
// and must not be const.
func (e *Environment) Assign(name string, v value.V) (isConst bool, found bool) {
	b, ok := e.Lookup(name)
	if !ok {
		return false, false
	}
	if b.isConst {
		return true, true
	}
	b.val = v
	return false, true
}

// Flatten collects every name visible from e, innermost shadowing
// outermost, into a plain map — the basis of a `parallel` fan-out
// snapshot (spec.md §5: "the surrounding scope is captured by snapshot at
// fan-out").
func (e *Environment) Flatten() map[string]value.V {
	out := make(map[string]value.V)
	seen := make(map[string]bool)
	for s := e; s != nil; s = s.parent {
		for name, b := range s.vars {
			if !seen[name] {
				seen[name] = true
				out[name] = b.val
			}
		}
	}
	return out
}

// FromSnapshot builds an independent root scope from a flattened snapshot:
// every worker gets its own copy so no worker's mutation of an
// outer-scope name is visible to any other worker or to the surrounding
// scope (spec.md §4.4 Parallel semantics).
func FromSnapshot(snapshot map[string]value.V) *Environment {
	env := NewEnvironment(nil)
	for name, v := range snapshot {
		env.Define(name, v, false)
	}
	return env
}
