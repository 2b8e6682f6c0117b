//go:build !windows

package proc

import (
	"errors"
	"syscall"
	"time"
)

// KillTree terminates pid together with every live descendant.
//
// The child was spawned in its own process group, so the fast path is
// two group signals: SIGTERM, a grace window, then SIGKILL. A snapshot
// sweep afterwards catches descendants that detached from the group
// (setsid). Returns true when the escalation to SIGKILL was needed.
func KillTree(pid int, grace time.Duration) (escalated bool) {
	pgid, err := syscall.Getpgid(pid)
	if err != nil || pgid <= 1 {
		// Group lookup failed: the root may already be gone while
		// descendants linger. Fall back to a full snapshot kill.
		return killTreeBySnapshot(pid, grace)
	}

	_ = syscall.Kill(-pgid, syscall.SIGTERM)

	if !groupGone(pgid, grace) {
		_ = syscall.Kill(-pgid, syscall.SIGKILL)
		escalated = true
	}

	// Processes that called setsid escaped the group signal; sweep the
	// remaining descendants individually.
	if stragglers := descendantNodes(int32(pid), snapshot()); len(stragglers) > 0 {
		terminateNodes(stragglers)
		waitGone(int(stragglers[0].pid), grace)
		if killNodes(stragglers) > 0 {
			escalated = true
		}
	}
	return escalated
}

// groupGone polls the process group with signal 0 until it is empty or
// the grace window elapses.
func groupGone(pgid int, grace time.Duration) bool {
	deadline := time.Now().Add(grace)
	for {
		err := syscall.Kill(-pgid, 0)
		if errors.Is(err, syscall.ESRCH) {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(20 * time.Millisecond)
	}
}

// killTreeBySnapshot is the group-less fallback: walk the snapshot and
// signal each descendant, deepest first, then the root.
func killTreeBySnapshot(pid int, grace time.Duration) (escalated bool) {
	nodes := descendantNodes(int32(pid), snapshot())
	terminateNodes(nodes)
	_ = syscall.Kill(pid, syscall.SIGTERM)

	if !waitGone(pid, grace) {
		_ = syscall.Kill(pid, syscall.SIGKILL)
		escalated = true
	}
	if killNodes(nodes) > 0 {
		escalated = true
	}
	return escalated
}
