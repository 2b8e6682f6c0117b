//go:build !windows

package runner

import (
	"os"
	"syscall"
)

// nativeExitCode extracts the child's exit code. A signal death uses
// the 128+signal convention; the classifier substitutes a reserved
// code instead when the engine itself initiated the kill.
func nativeExitCode(ps *os.ProcessState) int {
	if ps == nil {
		return ExitInternalError
	}
	if ws, ok := ps.Sys().(syscall.WaitStatus); ok {
		if ws.Signaled() {
			return 128 + int(ws.Signal())
		}
		return ws.ExitStatus()
	}
	return ps.ExitCode()
}
