package sema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latch-lang/latch/internal/parser"
)

func check(t *testing.T, src string) []string {
	t.Helper()
	prog, parseDiags := parser.Parse("t.lt", src)
	require.Empty(t, parseDiags)
	an := New("t.lt", src, []string{"print", "len", "fs"})
	diags := an.Check(prog)
	reasons := make([]string, len(diags))
	for i, d := range diags {
		reasons[i] = d.Reason
	}
	return reasons
}

func TestSemaUndefinedVariable(t *testing.T) {
	diags := check(t, "y := x + 1")
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0], "Undefined variable 'x'")
}

func TestSemaConstReassignmentIsAnError(t *testing.T) {
	diags := check(t, "const x := 1\nx = 2")
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0], "const")
}

func TestSemaBreakOutsideLoop(t *testing.T) {
	diags := check(t, "break")
	require.Len(t, diags, 1)
}

func TestSemaBreakInsideForIsFine(t *testing.T) {
	diags := check(t, "for i in 0..3 { break }")
	assert.Empty(t, diags)
}

func TestSemaBreakDoesNotCrossFunctionBoundary(t *testing.T) {
	diags := check(t, "for i in 0..3 { fn f() { break } }")
	require.Len(t, diags, 1)
}

func TestSemaReturnOutsideFunction(t *testing.T) {
	diags := check(t, "return 1")
	require.Len(t, diags, 1)
}

func TestSemaClassMethodResolvesFieldsAndSelf(t *testing.T) {
	diags := check(t, `
class Point {
	x
	y
	fn sum() {
		return self.x + y
	}
}`)
	assert.Empty(t, diags)
}

func TestSemaModuleNameResolvesAsGlobal(t *testing.T) {
	diags := check(t, `content := fs.read("a.txt")`)
	assert.Empty(t, diags)
}
