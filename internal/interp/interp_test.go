package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latch-lang/latch/internal/parser"
)

// runOK parses and runs src against a fresh Interp with no host modules,
// requiring a clean parse and no uncaught runtime error.
func runOK(t *testing.T, src string) *Interp {
	t.Helper()
	prog, diags := parser.Parse("t.lt", src)
	require.Empty(t, diags, "unexpected parse diagnostics")
	it := New(nil)
	result := it.Run(prog)
	require.Nil(t, result.RuntimeErr, "unexpected runtime error: %v", result.RuntimeErr)
	return it
}

func TestAndOrShortCircuit(t *testing.T) {
	it := runOK(t, `
called := false
fn sideEffect() {
	called = true
	return true
}
x := false && sideEffect()
y := true || sideEffect()
`)
	called, ok := it.Global.Get("called")
	require.True(t, ok)
	assert.Equal(t, "false", called.String(), "RHS must not evaluate once the LHS already decides the result")
}

func TestNullCoalesceFallsBackOnlyOnNull(t *testing.T) {
	it := runOK(t, `
a := null ?? 5
b := 0 ?? 5
`)
	a, _ := it.Global.Get("a")
	b, _ := it.Global.Get("b")
	assert.Equal(t, "5", a.String())
	assert.Equal(t, "0", b.String())
}

func TestErrorFallbackUsesRHSOnError(t *testing.T) {
	it := runOK(t, `
fn boom() { return 1/0 }
x := boom() or 42
`)
	x, _ := it.Global.Get("x")
	assert.Equal(t, "42", x.String())
}

func TestTryCatchFinallyOrdering(t *testing.T) {
	it := runOK(t, `
order := ""
try {
	order = order + "body,"
	x := 1 / 0
} catch e {
	order = order + "catch,"
} finally {
	order = order + "finally,"
}
`)
	order, _ := it.Global.Get("order")
	assert.Equal(t, "body,catch,finally,", order.String())
}

func TestTryCatchExposesErrorKind(t *testing.T) {
	it := runOK(t, `
kind := ""
try {
	x := 1 / 0
} catch e {
	kind = e.kind
}
`)
	kind, _ := it.Global.Get("kind")
	assert.Equal(t, string(DivisionByZero), kind.String())
}

func TestFinallyErrorSupersedesBodyError(t *testing.T) {
	prog, diags := parser.Parse("t.lt", `
try {
	x := 1 / 0
} catch e {
	assert(false, "catch failed")
} finally {
	y := 1 / 0
}
`)
	require.Empty(t, diags)
	it := New(nil)
	result := it.Run(prog)
	require.NotNil(t, result.RuntimeErr)
	assert.Equal(t, DivisionByZero, result.RuntimeErr.ErrKind)
}

func TestParallelLowestIndexErrorWins(t *testing.T) {
	prog, diags := parser.Parse("t.lt", `
parallel x in [0, 1, 2, 3] {
	if x == 2 {
		assert(false, "later worker")
	}
	y := 10 / x
}
`)
	require.Empty(t, diags)
	it := New(nil)
	result := it.Run(prog)
	require.NotNil(t, result.RuntimeErr)
	assert.Equal(t, DivisionByZero, result.RuntimeErr.ErrKind)
}

func TestParallelWorkersAreIsolated(t *testing.T) {
	it := runOK(t, `
results := []
parallel x in [1, 2, 3, 4, 5] {
	local := x * 2
}
`)
	_, ok := it.Global.Get("local")
	assert.False(t, ok, "parallel worker bindings must not leak into the outer scope")
}

func TestNegativeIndexingAndSlicing(t *testing.T) {
	it := runOK(t, `
xs := [10, 20, 30, 40]
last := xs[-1]
mid := xs[1:3]
s := "hello"
tail := s[-2:]
`)
	last, _ := it.Global.Get("last")
	mid, _ := it.Global.Get("mid")
	tail, _ := it.Global.Get("tail")
	assert.Equal(t, "40", last.String())
	assert.Equal(t, "[20, 30]", mid.String())
	assert.Equal(t, "lo", tail.String())
}

func TestNumericWideningIntPlusFloat(t *testing.T) {
	it := runOK(t, `
a := 1 + 2
b := 1 + 2.0
c := 3 / 2
d := 3.0 / 2
`)
	a, _ := it.Global.Get("a")
	b, _ := it.Global.Get("b")
	c, _ := it.Global.Get("c")
	d, _ := it.Global.Get("d")
	assert.Equal(t, "3", a.String())
	assert.Equal(t, "3.0", b.String())
	assert.Equal(t, "1", c.String())
	assert.Equal(t, "1.5", d.String())
}

func TestClosureCapturesEnclosingScope(t *testing.T) {
	it := runOK(t, `
fn makeCounter() {
	n := 0
	fn inc() {
		n = n + 1
		return n
	}
	return inc
}
counter := makeCounter()
a := counter()
b := counter()
c := counter()
`)
	a, _ := it.Global.Get("a")
	b, _ := it.Global.Get("b")
	c, _ := it.Global.Get("c")
	assert.Equal(t, "1", a.String())
	assert.Equal(t, "2", b.String())
	assert.Equal(t, "3", c.String())
}

func TestDeepEqualityAcrossListsAndDicts(t *testing.T) {
	it := runOK(t, `
a := {"x": [1, 2], "y": 3}
b := {"y": 3, "x": [1, 2]}
same := a == b
`)
	same, _ := it.Global.Get("same")
	assert.Equal(t, "true", same.String())
}

func TestStopStatementSetsExitCode(t *testing.T) {
	prog, diags := parser.Parse("t.lt", `
fn check(ok) {
	if !ok {
		stop 3
	}
}
check(false)
`)
	require.Empty(t, diags)
	it := New(nil)
	result := it.Run(prog)
	require.Nil(t, result.RuntimeErr)
	require.True(t, result.Stopped)
	assert.Equal(t, 3, result.StopCode)
}
