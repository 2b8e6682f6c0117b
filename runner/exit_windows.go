//go:build windows

package runner

import "os"

// nativeExitCode extracts the child's exit code. Windows has no
// signal-death convention; terminated processes report the exit code
// passed to TerminateProcess.
func nativeExitCode(ps *os.ProcessState) int {
	if ps == nil {
		return ExitInternalError
	}
	return ps.ExitCode()
}
