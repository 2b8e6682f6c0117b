//go:build !windows

package runner

import (
	"fmt"
	"os/exec"
	"syscall"

	"github.com/google/shlex"
)

// shellCommand hands the line verbatim to the POSIX shell.
func shellCommand(line string) *exec.Cmd {
	// #nosec G204 -- shell invocation is explicitly requested
	return exec.Command("/bin/sh", "-c", line)
}

// lineCommand tokenizes a raw line with shell-lexing rules, which is
// safer than turning on shell invocation just to split words.
func lineCommand(line string) (*exec.Cmd, error) {
	argv, err := shlex.Split(line)
	if err != nil {
		return nil, err
	}
	if len(argv) == 0 {
		return nil, errEmptyAfterSplit
	}
	// #nosec G204 -- executing caller-supplied commands is this
	// package's purpose
	return exec.Command(argv[0], argv[1:]...), nil
}

// applyProcAttr places the child in its own process group so the whole
// group can later be signaled at once.
func applyProcAttr(c *exec.Cmd, _ *Options) {
	c.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// detach severs the deferred child from the caller's session so it
// survives the caller's exit.
func detach(c *exec.Cmd) {
	c.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}

// deferredLine wraps a command line in a ping-based delay.
func deferredLine(command string, secs int) string {
	return fmt.Sprintf("ping -c %d 127.0.0.1 > /dev/null && %s", secs, command)
}
