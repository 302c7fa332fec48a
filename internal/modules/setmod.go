package modules

import (
	"sync"

	"github.com/bits-and-blooms/bitset"

	"github.com/latch-lang/latch/internal/value"
)

// latchSet backs SPEC_FULL.md §3's set row: a bitset.BitSet carries
// non-negative int members densely; the moment a non-int (or negative
// int) element is added, membership falls back to a map keyed on
// value.Repr, matching the exact fallback behavior SPEC_FULL.md
// describes for sets holding mixed or non-integer content. mu guards
// every field below it: a `parallel` worker (spec.md §5) can hand the
// same set handle to another worker, and both may call set.add/set.has
// concurrently, same as lineWriter guards stdout in interp.go.
type latchSet struct {
	mu      sync.Mutex
	bits    *bitset.BitSet
	generic map[string]value.V
	useBits bool
}

func newSet() *latchSet {
	return &latchSet{bits: bitset.New(64), useBits: true}
}

// downgrade assumes the caller already holds s.mu.
func (s *latchSet) downgrade() {
	if !s.useBits {
		return
	}
	s.generic = map[string]value.V{}
	for i, e := s.bits.NextSet(0); e; i, e = s.bits.NextSet(i + 1) {
		s.generic[value.Repr(value.Int(i))] = value.Int(i)
	}
	s.useBits = false
}

func (s *latchSet) add(v value.V) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n, ok := v.(value.Int); ok && n >= 0 && s.useBits {
		s.bits.Set(uint(n))
		return
	}
	s.downgrade()
	s.generic[value.Repr(v)] = v
}

func (s *latchSet) has(v value.V) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n, ok := v.(value.Int); ok && n >= 0 && s.useBits {
		return s.bits.Test(uint(n))
	}
	if s.useBits {
		return false
	}
	_, ok := s.generic[value.Repr(v)]
	return ok
}

func (s *latchSet) remove(v value.V) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n, ok := v.(value.Int); ok && n >= 0 && s.useBits {
		s.bits.Clear(uint(n))
		return
	}
	if !s.useBits {
		delete(s.generic, value.Repr(v))
	}
}

func (s *latchSet) items() []value.V {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.useBits {
		out := make([]value.V, 0, s.bits.Count())
		for i, e := s.bits.NextSet(0); e; i, e = s.bits.NextSet(i + 1) {
			out = append(out, value.Int(i))
		}
		return out
	}
	out := make([]value.V, 0, len(s.generic))
	for _, v := range s.generic {
		out = append(out, v)
	}
	return out
}

// setModule exposes sets to Latch scripts as plain dict-backed builtins
// operating on a fresh, empty *value.Dict handle; the registry below maps
// each handle's pointer to its live *latchSet instead of
// exposing a dedicated value.Kind, keeping the closed Kind set in
// internal/value untouched. liveSetsMu guards the map itself (distinct
// from latchSet.mu, which guards one set's contents): parallel workers
// (spec.md §5) can call set.new/set.add/set.has concurrently on
// different or the same handles, same as lineWriter guards stdout in
// interp.go.
var (
	liveSetsMu sync.RWMutex
	liveSets   = map[*value.Dict]*latchSet{}
)

func setModule() *value.Dict {
	return dictOf(
		builtin("new", 0, func(a []value.V) (value.V, error) {
			d := value.NewDict()
			liveSetsMu.Lock()
			liveSets[d] = newSet()
			liveSetsMu.Unlock()
			return d, nil
		}),
		builtin("add", 2, func(a []value.V) (value.V, error) {
			s, err := setOf(a, 0, "set.add")
			if err != nil {
				return nil, err
			}
			s.add(a[1])
			return a[0], nil
		}),
		builtin("remove", 2, func(a []value.V) (value.V, error) {
			s, err := setOf(a, 0, "set.remove")
			if err != nil {
				return nil, err
			}
			s.remove(a[1])
			return a[0], nil
		}),
		builtin("has", 2, func(a []value.V) (value.V, error) {
			s, err := setOf(a, 0, "set.has")
			if err != nil {
				return nil, err
			}
			return value.Bool(s.has(a[1])), nil
		}),
		builtin("items", 1, func(a []value.V) (value.V, error) {
			s, err := setOf(a, 0, "set.items")
			if err != nil {
				return nil, err
			}
			return value.NewList(s.items()), nil
		}),
	)
}

func setOf(a []value.V, i int, fn string) (*latchSet, error) {
	d, err := wantDict(a, i, fn)
	if err != nil {
		return nil, err
	}
	liveSetsMu.RLock()
	s, ok := liveSets[d]
	liveSetsMu.RUnlock()
	if !ok {
		return nil, typeErr("%s: not a set (create one with set.new())", fn)
	}
	return s, nil
}
