//go:build windows

package runner

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"

	"golang.org/x/sys/windows"
)

// shellCommand hands the line verbatim to cmd.exe. The full command
// line is set through SysProcAttr so cmd.exe's own quoting rules apply
// instead of the Go argv re-quoting.
func shellCommand(line string) *exec.Cmd {
	shell := comSpec()
	// #nosec G204 -- shell invocation is explicitly requested
	c := exec.Command(shell)
	c.SysProcAttr = &syscall.SysProcAttr{
		CmdLine: shell + " /c " + line,
	}
	return c
}

// lineCommand passes a raw line to CreateProcess unchanged: the first
// token locates the binary, the line itself becomes the command line.
func lineCommand(line string) (*exec.Cmd, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, errEmptyAfterSplit
	}
	c := exec.Command(fields[0])
	c.SysProcAttr = &syscall.SysProcAttr{CmdLine: line}
	return c, nil
}

// applyProcAttr sets the creation flags: a fresh process group so the
// subtree walker owns the whole tree, and optionally no console
// window.
func applyProcAttr(c *exec.Cmd, o *Options) {
	if c.SysProcAttr == nil {
		c.SysProcAttr = &syscall.SysProcAttr{}
	}
	c.SysProcAttr.CreationFlags |= windows.CREATE_NEW_PROCESS_GROUP
	if o.WindowsNoWindow {
		c.SysProcAttr.CreationFlags |= windows.CREATE_NO_WINDOW
		c.SysProcAttr.HideWindow = true
	}
}

// detach severs the deferred child from the caller's console so it
// survives the caller's exit.
func detach(c *exec.Cmd) {
	if c.SysProcAttr == nil {
		c.SysProcAttr = &syscall.SysProcAttr{}
	}
	c.SysProcAttr.CreationFlags |= windows.DETACHED_PROCESS | windows.CREATE_NEW_PROCESS_GROUP
}

// deferredLine wraps a command line in a ping-based delay.
func deferredLine(command string, secs int) string {
	return fmt.Sprintf("ping -n %d 127.0.0.1 > NUL & %s", secs, command)
}

func comSpec() string {
	if cs := os.Getenv("COMSPEC"); cs != "" {
		return cs
	}
	return "cmd.exe"
}
