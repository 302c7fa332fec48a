// Package diag is the structured diagnostic payload shared by the lexer,
// parser and semantic analyzer (spec.md §6 "Diagnostic format (contract)").
// Pretty-printing is a presentation choice left to the CLI; this package
// only carries the data.
package diag

import (
	"fmt"
	"strings"

	"github.com/latch-lang/latch/internal/token"
)

// Kind classifies where a Diagnostic originated.
type Kind string

const (
	LexError      Kind = "LexError"
	ParseError    Kind = "ParseError"
	SemanticError Kind = "SemanticError"
)

// Diagnostic is one finding: a kind, a location, a line of source with a
// caret, a reason, and an optional hint.
type Diagnostic struct {
	Kind    Kind
	File    string
	Line    int
	Col     int
	Snippet string
	Reason  string
	Hint    string
}

// New builds a Diagnostic from a span and the full source text, rendering
// the one-line snippet with a caret under the offending column.
func New(kind Kind, src string, sp token.Span, reason, hint string) Diagnostic {
	return Diagnostic{
		Kind:    kind,
		File:    sp.File,
		Line:    sp.Start.Line,
		Col:     sp.Start.Column,
		Snippet: snippetFor(src, sp.Start.Line, sp.Start.Column),
		Reason:  reason,
		Hint:    hint,
	}
}

func snippetFor(src string, line, col int) string {
	lines := strings.Split(src, "\n")
	if line < 1 || line > len(lines) {
		return ""
	}
	text := lines[line-1]
	caretCol := col
	if caretCol < 1 {
		caretCol = 1
	}
	if caretCol > len(text)+1 {
		caretCol = len(text) + 1
	}
	return text + "\n" + strings.Repeat(" ", caretCol-1) + "^"
}

// String renders a single diagnostic as `file:line:col: kind: reason` plus the
// snippet and optional hint, the shape the teacher's CLI prints for errors.
func (d Diagnostic) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:%d:%d: %s: %s\n", d.File, d.Line, d.Col, d.Kind, d.Reason)
	if d.Snippet != "" {
		b.WriteString(d.Snippet)
		b.WriteByte('\n')
	}
	if d.Hint != "" {
		fmt.Fprintf(&b, "hint: %s\n", d.Hint)
	}
	return b.String()
}

// List is a diagnostic batch with a convenience formatter.
type List []Diagnostic

func (l List) String() string {
	var b strings.Builder
	for _, d := range l {
		b.WriteString(d.String())
	}
	return b.String()
}

// HasErrors reports whether any diagnostic was recorded. Every Kind in this
// package is currently fatal-to-evaluation (spec.md §4.3: "check prints
// them and exits non-zero if any; run also aborts if any error is
// emitted"), so presence is equivalent to failure.
func (l List) HasErrors() bool { return len(l) > 0 }
