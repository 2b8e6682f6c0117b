//go:build windows

package proc

import (
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

// KillTree terminates pid together with every live descendant.
//
// Windows has no process groups to signal, so the tree is derived from
// a full process snapshot: descendants are terminated youngest-first
// so no parent can respawn a child mid-walk, then the root. A second
// snapshot after the grace window catches late-born grandchildren.
// Descendants whose parent already exited are unreachable through the
// walk, and the second pass, which walks the same ancestry from pid,
// does not reach them either.
func KillTree(pid int, grace time.Duration) (escalated bool) {
	nodes := descendantNodes(int32(pid), snapshot())
	terminateNodes(nodes)
	terminateRoot(pid)

	if !waitGone(pid, grace) {
		escalated = true
	}

	// Second pass: children spawned between the snapshot and the walk,
	// plus anything that ignored the polite request.
	again := descendantNodes(int32(pid), snapshot())
	if killNodes(again) > 0 {
		escalated = true
	}
	if Alive(pid) {
		killRoot(pid)
		escalated = true
	}
	return escalated
}

func terminateRoot(pid int) {
	if p, err := process.NewProcess(int32(pid)); err == nil {
		_ = p.Terminate()
	}
}

func killRoot(pid int) {
	if p, err := process.NewProcess(int32(pid)); err == nil {
		_ = p.Kill()
	}
}
