package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/latch-lang/latch/internal/diag"
	"github.com/latch-lang/latch/internal/interp"
	"github.com/latch-lang/latch/internal/modules"
	"github.com/latch-lang/latch/internal/parser"
	"github.com/latch-lang/latch/internal/repl"
	"github.com/latch-lang/latch/internal/sema"
)

const version = "v0.1.0"

func main() {
	var (
		debug   bool
		noColor bool
		workers int
	)

	rootCmd := &cobra.Command{
		Use:           "latch",
		Short:         "Run Latch automation scripts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored diagnostic output")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 0, "override the default parallel worker ceiling (0 = spec default)")

	runCmd := &cobra.Command{
		Use:   "run <file.lt>",
		Short: "Parse, semantic-check, and evaluate a Latch script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScript(args[0], debug, workers)
		},
	}

	checkCmd := &cobra.Command{
		Use:   "check <file.lt>",
		Short: "Parse and semantic-check a Latch script without running it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return checkScript(args[0])
		},
	}

	replCmd := &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive Latch session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runRepl(debug, workers)
			return nil
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the latch version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("latch %s\n", version)
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, checkCmd, replCmd, versionCmd)

	if debug {
		os.Setenv("LATCH_DEBUG", "1")
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}

// runScript implements `latch run`: exit with the program's own `stop`
// code if one ran, 0 on normal completion, 1 on an uncaught runtime
// error, 2 on a parse/semantic failure (spec.md §6).
func runScript(path string, debug bool, workers int) error {
	if debug {
		os.Setenv("LATCH_DEBUG", "1")
	}
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "latch: %s\n", err)
		os.Exit(2)
	}

	prog, diags := parser.Parse(path, string(src))
	if diags.HasErrors() {
		fmt.Fprint(os.Stderr, diags.String())
		os.Exit(2)
	}

	an := sema.New(path, string(src), modules.Names())
	semaDiags := an.Check(prog)
	if semaDiags.HasErrors() {
		fmt.Fprint(os.Stderr, semaDiags.String())
		os.Exit(2)
	}

	it := interp.New(modules.Registry())
	if workers > 0 {
		it.MaxWorkers = workers
	}
	result := it.Run(prog)
	if result.RuntimeErr != nil {
		fmt.Fprintln(os.Stderr, result.RuntimeErr.Error())
		os.Exit(1)
	}
	if result.Stopped {
		os.Exit(result.StopCode)
	}
	os.Exit(0)
	return nil
}

// checkScript implements `latch check`: exit 0 on no diagnostics, 1 on
// any parse or semantic error (spec.md §6).
func checkScript(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "latch: %s\n", err)
		os.Exit(2)
	}

	prog, diags := parser.Parse(path, string(src))
	var all diag.List
	all = append(all, diags...)
	if !diags.HasErrors() {
		an := sema.New(path, string(src), modules.Names())
		all = append(all, an.Check(prog)...)
	}
	if all.HasErrors() {
		fmt.Fprint(os.Stderr, all.String())
		os.Exit(1)
	}
	os.Exit(0)
	return nil
}

func runRepl(debug bool, workers int) {
	if debug {
		os.Setenv("LATCH_DEBUG", "1")
	}
	it := interp.New(modules.Registry())
	if workers > 0 {
		it.MaxWorkers = workers
	}
	repl.Run(it, repl.Options{
		In:       os.Stdin,
		Out:      os.Stdout,
		Err:      os.Stderr,
		Globals:  modules.Names(),
		Prompt:   "latch> ",
		Continue: "...... ",
	})
}
