package modules

import (
	"bytes"
	"os/exec"

	"github.com/latch-lang/latch/internal/value"
)

// procModule backs spec.md §4.5: "proc.exec(list) must bypass shell;
// proc.exec(string) goes through sh -c."
func procModule() *value.Dict {
	return dictOf(
		builtin("exec", 1, func(a []value.V) (value.V, error) {
			return runExec(a[0])
		}),
	)
}

func runExec(arg value.V) (value.V, error) {
	var cmd *exec.Cmd
	switch t := arg.(type) {
	case value.String:
		cmd = exec.Command("sh", "-c", string(t))
	case *value.List:
		argv := make([]string, len(t.Items))
		for i, item := range t.Items {
			s, ok := item.(value.String)
			if !ok {
				return nil, typeErr("proc.exec: list elements must be strings")
			}
			argv[i] = string(s)
		}
		if len(argv) == 0 {
			return nil, valErr("proc.exec: empty argument list")
		}
		cmd = exec.Command(argv[0], argv[1:]...)
	default:
		return nil, typeErr("proc.exec requires a string or a list of strings")
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	runErr := cmd.Run()

	code := int64(0)
	if runErr != nil {
		if exitErr, ok := runErr.(*exec.ExitError); ok {
			code = int64(exitErr.ExitCode())
		} else {
			return nil, procErr("proc.exec: %s", runErr)
		}
	}
	return &value.Process{Stdout: stdout.String(), Stderr: stderr.String(), Code: code}, nil
}
