// Package proc enumerates and terminates process subtrees and adjusts
// scheduling priority of spawned children.
//
// The kill strategy is platform specific: on POSIX the child runs in
// its own process group so the whole group can be signaled at once,
// with a snapshot sweep to catch processes that left the group; on
// Windows a full process snapshot is walked to terminate descendants
// youngest-first. Both paths deliver a polite terminate first and
// escalate to a forceful kill after a grace window.
package proc

import (
	"sort"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

// node is one live process observed in a snapshot.
type node struct {
	proc       *process.Process
	pid        int32
	ppid       int32
	createTime int64
}

// snapshot captures the live process table as a parent index. When the
// same PID appears with conflicting parent links across reads, the
// entry with the newest create time wins (PID reuse).
func snapshot() map[int32]node {
	procs, err := process.Processes()
	if err != nil {
		return nil
	}
	table := make(map[int32]node, len(procs))
	for _, p := range procs {
		ppid, err := p.Ppid()
		if err != nil {
			continue
		}
		created, _ := p.CreateTime()
		n := node{proc: p, pid: p.Pid, ppid: ppid, createTime: created}
		if prev, ok := table[p.Pid]; ok && prev.createTime >= created {
			continue
		}
		table[p.Pid] = n
	}
	return table
}

// Descendants returns every live descendant of root, ordered so that
// deeper processes come first (children always precede their parent).
// The root itself is not included.
func Descendants(root int) []int32 {
	nodes := descendantNodes(int32(root), snapshot())
	pids := make([]int32, len(nodes))
	for i, n := range nodes {
		pids[i] = n.pid
	}
	return pids
}

// descendantNodes runs a BFS from root over the parent index and
// returns the visited nodes deepest-first.
func descendantNodes(root int32, table map[int32]node) []node {
	children := make(map[int32][]node, len(table))
	for _, n := range table {
		children[n.ppid] = append(children[n.ppid], n)
	}

	type level struct {
		n     node
		depth int
	}
	var found []level
	queue := []level{{n: node{pid: root}, depth: 0}}
	seen := map[int32]bool{root: true}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, child := range children[cur.n.pid] {
			if seen[child.pid] {
				continue
			}
			seen[child.pid] = true
			found = append(found, level{n: child, depth: cur.depth + 1})
			queue = append(queue, level{n: child, depth: cur.depth + 1})
		}
	}

	sort.SliceStable(found, func(i, j int) bool { return found[i].depth > found[j].depth })
	out := make([]node, len(found))
	for i, l := range found {
		out[i] = l.n
	}
	return out
}

// Alive reports whether a PID refers to a live process.
func Alive(pid int) bool {
	ok, err := process.PidExists(int32(pid))
	return err == nil && ok
}

// Exited reports whether pid no longer runs: gone entirely, or a
// zombie awaiting reap. A zombie still occupies its PID, so Alive
// alone cannot tell an exited child from a running one.
func Exited(pid int) bool {
	p, err := process.NewProcess(int32(pid))
	if err != nil {
		return true
	}
	statuses, err := p.Status()
	if err != nil {
		return !Alive(pid)
	}
	for _, s := range statuses {
		if s == process.Zombie {
			return true
		}
	}
	return false
}

// terminateNodes delivers a polite terminate to each node in order,
// returning the nodes that were still reachable. Nodes whose process
// vanished between snapshot and signal are skipped silently.
func terminateNodes(nodes []node) []node {
	var signaled []node
	for _, n := range nodes {
		if n.proc == nil {
			continue
		}
		if err := n.proc.Terminate(); err == nil {
			signaled = append(signaled, n)
		}
	}
	return signaled
}

// killNodes force-kills every node that is still alive.
func killNodes(nodes []node) int {
	killed := 0
	for _, n := range nodes {
		if n.proc == nil {
			continue
		}
		if running, err := n.proc.IsRunning(); err != nil || !running {
			continue
		}
		if err := n.proc.Kill(); err == nil {
			killed++
		}
	}
	return killed
}

// waitGone polls until pid is gone or the grace window elapses.
func waitGone(pid int, grace time.Duration) bool {
	deadline := time.Now().Add(grace)
	for time.Now().Before(deadline) {
		if !Alive(pid) {
			return true
		}
		time.Sleep(20 * time.Millisecond)
	}
	return !Alive(pid)
}
