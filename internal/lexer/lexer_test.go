package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latch-lang/latch/internal/token"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestLexerOperatorMaximalMunch(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []token.Kind
	}{
		{"walrus before colon", "x := 1", []token.Kind{token.IDENT, token.WALRUS, token.INT, token.EOF}},
		{"null coalesce before question", "a ?? b", []token.Kind{token.IDENT, token.QQ, token.IDENT, token.EOF}},
		{"safe access before question", "a?.b", []token.Kind{token.IDENT, token.QDOT, token.IDENT, token.EOF}},
		{"pipe injection before or-or", "a |> b", []token.Kind{token.IDENT, token.PIPE, token.IDENT, token.EOF}},
		{"range before dot", "0..5", []token.Kind{token.INT, token.DOTDOT, token.INT, token.EOF}},
		{"power before star", "2**3", []token.Kind{token.INT, token.STARSTAR, token.INT, token.EOF}},
		{"arrow after minus", "x -> y", []token.Kind{token.IDENT, token.ARROW, token.IDENT, token.EOF}},
		{"compound plus-eq", "x += 1", []token.Kind{token.IDENT, token.PLUS_EQ, token.INT, token.EOF}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks := New("t.lt", tt.input).All()
			assert.Equal(t, tt.want, kinds(toks))
		})
	}
}

func TestLexerKeywordsVsIdent(t *testing.T) {
	toks := New("t.lt", "if elif forge").All()
	require.Len(t, toks, 4)
	assert.Equal(t, token.KW_IF, toks[0].Kind)
	assert.Equal(t, token.KW_ELIF, toks[1].Kind)
	assert.Equal(t, token.IDENT, toks[2].Kind)
	assert.Equal(t, "forge", toks[2].Text)
}

func TestLexerStringEscapesPassThroughUndecoded(t *testing.T) {
	toks := New("t.lt", `"a\nb"`).All()
	require.Len(t, toks, 2)
	assert.Equal(t, token.STRING, toks[0].Kind)
	assert.Equal(t, `a\nb`, toks[0].Text)
}

func TestLexerRawStringSkipsEscaping(t *testing.T) {
	toks := New("t.lt", `r"a\nb"`).All()
	require.Len(t, toks, 2)
	assert.Equal(t, token.RAWSTRING, toks[0].Kind)
	assert.Equal(t, `a\nb`, toks[0].Text)
}

func TestLexerUnterminatedStringReportsDiagnostic(t *testing.T) {
	l := New("t.lt", `"abc`)
	l.All()
	require.Len(t, l.Diagnostics, 1)
	assert.Contains(t, l.Diagnostics[0].Reason, "unterminated")
}

func TestLexerCommentsAreSkipped(t *testing.T) {
	toks := New("t.lt", "x := 1 # comment\n// also a comment\ny := 2").All()
	assert.Equal(t, []token.Kind{
		token.IDENT, token.WALRUS, token.INT,
		token.IDENT, token.WALRUS, token.INT,
		token.EOF,
	}, kinds(toks))
}

func TestLexerFloatVsInt(t *testing.T) {
	toks := New("t.lt", "3 3.5 3.").All()
	require.Len(t, toks, 5)
	assert.Equal(t, token.INT, toks[0].Kind)
	assert.Equal(t, token.FLOAT, toks[1].Kind)
	assert.Equal(t, "3.5", toks[1].Text)
	// a trailing dot with no following digit does not start a fractional part
	assert.Equal(t, token.INT, toks[2].Kind)
	assert.Equal(t, token.DOT, toks[3].Kind)
}
