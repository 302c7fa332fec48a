// Package repl is the persistent-environment line reader for `latch repl`
// (spec.md §6: "line-at-a-time evaluation with persistent environment;
// `;;` or empty line submits multi-line input").
package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/latch-lang/latch/internal/interp"
	"github.com/latch-lang/latch/internal/parser"
	"github.com/latch-lang/latch/internal/sema"
	"github.com/latch-lang/latch/internal/token"
)

// Options configures a REPL session.
type Options struct {
	In       io.Reader
	Out      io.Writer
	Err      io.Writer
	Globals  []string
	Prompt   string
	Continue string
}

// Run drives the read-eval-print loop until In is exhausted. Each
// submission is parsed as its own small program against a growing
// "replN.lt" virtual file name so diagnostics stay locatable.
func Run(it *interp.Interp, opts Options) {
	scanner := bufio.NewScanner(opts.In)
	var buf strings.Builder
	n := 0
	fmt.Fprint(opts.Out, opts.Prompt)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == ";;" || (line == "" && buf.Len() > 0) {
			n++
			evalSubmission(it, buf.String(), n, opts)
			buf.Reset()
			fmt.Fprint(opts.Out, opts.Prompt)
			continue
		}
		if line == "" {
			fmt.Fprint(opts.Out, opts.Prompt)
			continue
		}
		buf.WriteString(line)
		buf.WriteByte('\n')
		fmt.Fprint(opts.Out, opts.Continue)
	}
	if buf.Len() > 0 {
		n++
		evalSubmission(it, buf.String(), n, opts)
	}
}

func evalSubmission(it *interp.Interp, src string, n int, opts Options) {
	file := fmt.Sprintf("repl%d.lt", n)
	prog, diags := parser.Parse(file, src)
	if diags.HasErrors() {
		fmt.Fprint(opts.Err, diags.String())
		return
	}
	// Names bound by earlier submissions live on in it.Global, so the
	// analyzer treats them as declared globals too.
	globals := append([]string(nil), opts.Globals...)
	for name := range it.Global.Flatten() {
		globals = append(globals, name)
	}
	an := sema.New(file, src, globals)
	semaDiags := an.Check(prog)
	if semaDiags.HasErrors() {
		fmt.Fprint(opts.Err, semaDiags.String())
		return
	}
	v, err := it.EvalLine(prog.Stmts)
	if err != nil {
		re := interp.AsRuntimeError(err, interp.TypeError, token.Span{File: file})
		fmt.Fprintln(opts.Err, re.Error())
		return
	}
	if v != nil {
		fmt.Fprintln(opts.Out, v.String())
	}
}
