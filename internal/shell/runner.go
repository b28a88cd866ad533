// Package shell provides the command primitive the submitter hands its
// rendered scheduler line to.
package shell

import (
	"os"
	"os/exec"
)

// Runner executes one command line to completion. Implementations must be
// safe to call from a background goroutine.
type Runner interface {
	Execute(commandLine string) error
}

// LocalRunner runs command lines through a local shell, streaming output
// to the current process. This is the production implementation; tests
// substitute a stub.
type LocalRunner struct {
	Shell string // shell binary; "bash" when empty
}

// Execute runs commandLine via `<shell> -c` and blocks until it exits.
func (r *LocalRunner) Execute(commandLine string) error {
	sh := r.Shell
	if sh == "" {
		sh = "bash"
	}

	cmd := exec.Command(sh, "-c", commandLine)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
