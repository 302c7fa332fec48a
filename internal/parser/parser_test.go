package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latch-lang/latch/internal/ast"
)

func parseOK(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, diags := Parse("t.lt", src)
	require.Empty(t, diags, "unexpected diagnostics: %v", diags)
	return prog
}

func TestParsePrecedenceChain(t *testing.T) {
	prog := parseOK(t, "x := 1 + 2 * 3")
	require.Len(t, prog.Stmts, 1)
	let := prog.Stmts[0].(*ast.Let)
	bin := let.Expr.(*ast.Binary)
	assert.Equal(t, ast.BAdd, bin.Op)
	rhs := bin.R.(*ast.Binary)
	assert.Equal(t, ast.BMul, rhs.Op)
}

func TestParsePipeInjection(t *testing.T) {
	prog := parseOK(t, "y := x |> f(a, b)")
	let := prog.Stmts[0].(*ast.Let)
	pipe := let.Expr.(*ast.Pipe)
	require.Len(t, pipe.Call.Args, 3)
	assert.Equal(t, "x", pipe.Call.Args[0].(*ast.Ident).Name)
}

func TestParseBarePipeWrapsLhsAsSoleArg(t *testing.T) {
	prog := parseOK(t, "y := x |> f")
	let := prog.Stmts[0].(*ast.Let)
	pipe := let.Expr.(*ast.Pipe)
	require.Len(t, pipe.Call.Args, 1)
}

func TestParseElifDesugarsIntoBranches(t *testing.T) {
	prog := parseOK(t, `if x>50 { a } elif x>20 { b } else { c }`)
	ifStmt := prog.Stmts[0].(*ast.If)
	require.Len(t, ifStmt.Branches, 2)
	require.NotNil(t, ifStmt.Else)
}

func TestParseParallelWorkersEitherSide(t *testing.T) {
	a := parseOK(t, "parallel x in xs workers=2 { y := x }")
	b := parseOK(t, "parallel workers=2 x in xs { y := x }")
	pa := a.Stmts[0].(*ast.Parallel)
	pb := b.Stmts[0].(*ast.Parallel)
	require.NotNil(t, pa.Workers)
	require.NotNil(t, pb.Workers)
	assert.Equal(t, "x", pa.Var)
	assert.Equal(t, "x", pb.Var)
}

func TestParseRangeIsNonAssociative(t *testing.T) {
	prog := parseOK(t, "r := 0..5")
	let := prog.Stmts[0].(*ast.Let)
	rng := let.Expr.(*ast.Range)
	assert.Equal(t, int64(0), rng.Start.(*ast.Int).Value)
	assert.Equal(t, int64(5), rng.End.(*ast.Int).Value)
}

func TestParseTryCatchFinally(t *testing.T) {
	prog := parseOK(t, `try { a } catch e { b } finally { c }`)
	tr := prog.Stmts[0].(*ast.Try)
	assert.Equal(t, "e", tr.CatchVar)
	assert.NotNil(t, tr.FinallyBody)
}

func TestParseUseBindsWholeModule(t *testing.T) {
	prog := parseOK(t, "use fs")
	imp := prog.Stmts[0].(*ast.Import)
	assert.Empty(t, imp.Names)
	assert.Equal(t, "fs", imp.Source)
}

func TestParseImportWithNames(t *testing.T) {
	prog := parseOK(t, `import read, write in "fs"`)
	imp := prog.Stmts[0].(*ast.Import)
	assert.Equal(t, []string{"read", "write"}, imp.Names)
	assert.Equal(t, "fs", imp.Source)
}

func TestParseStringInterpolation(t *testing.T) {
	prog := parseOK(t, `s := "hi ${name}!"`)
	let := prog.Stmts[0].(*ast.Let)
	str := let.Expr.(*ast.String)
	require.Len(t, str.Segments, 3)
	assert.Equal(t, "hi ", str.Segments[0].Literal)
	require.NotNil(t, str.Segments[1].Expr)
	assert.Equal(t, "!", str.Segments[2].Literal)
}

func TestParseErrorRecoveryReportsDiagnostic(t *testing.T) {
	_, diags := Parse("t.lt", "x := ")
	assert.True(t, diags.HasErrors())
}
