package runner

import (
	"time"
)

// DeferredCommand launches command in a detached shell after delay,
// with no stdio attached and no supervision. The child survives the
// caller; the classic use is self-update or self-deletion of a running
// executable once it has exited.
//
// The delay is implemented with a ping-based timer since ping exists
// on virtually any system; sub-second delays round up to one second.
func DeferredCommand(command string, delay time.Duration) error {
	secs := int(delay / time.Second)
	if secs < 1 {
		secs = 1
	}
	c := shellCommand(deferredLine(command, secs))
	detach(c)
	if err := c.Start(); err != nil {
		return newRunError("defer", CommandLine(command), ExitSpawnFailure, err)
	}
	return c.Process.Release()
}
