//go:build !windows

package elevate

import (
	"context"
	"os"
	"os/exec"

	"github.com/victoralfred/cmdrunner/runner"
)

func isAdmin() bool {
	return os.Geteuid() == 0
}

// relaunch re-runs the current executable under sudo through the
// engine, streaming the child's output to the parent's own stdio.
// Returns the child's exit code and whether a relaunch happened at
// all.
func relaunch(exe string, args []string) (int, bool) {
	sudo, err := exec.LookPath("sudo")
	if err != nil {
		return 0, false
	}

	argv := append([]string{sudo, exe}, args...)
	res := runner.Run(context.Background(), runner.CommandArgs(argv...),
		runner.WithNoTimeout(),
		runner.WithStdout(runner.ToWriter(os.Stdout)),
		runner.WithStderr(runner.ToWriter(os.Stderr)),
		runner.WithStdin(os.Stdin),
	)
	return res.ExitCode, true
}
