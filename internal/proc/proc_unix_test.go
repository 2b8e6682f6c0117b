//go:build !windows

package proc

import (
	"os"
	"os/exec"
	"syscall"
	"testing"
	"time"
)

func startTree(t *testing.T) *exec.Cmd {
	t.Helper()
	cmd := exec.Command("/bin/sh", "-c", "sleep 30 & sleep 30")
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	if err := cmd.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() {
		KillTree(cmd.Process.Pid, 100*time.Millisecond)
		cmd.Wait()
	})
	return cmd
}

func TestAlive(t *testing.T) {
	if !Alive(os.Getpid()) {
		t.Error("current process reported dead")
	}
	if Alive(1<<22 + 12345) {
		t.Error("implausible PID reported alive")
	}
}

func TestDescendants(t *testing.T) {
	if testing.Short() {
		t.Skip("spawns processes")
	}
	cmd := startTree(t)
	time.Sleep(200 * time.Millisecond) // let the shell fork

	pids := Descendants(cmd.Process.Pid)
	if len(pids) == 0 {
		t.Fatal("no descendants found for a forking shell")
	}
	for _, pid := range pids {
		if int(pid) == cmd.Process.Pid {
			t.Error("root included in its own descendants")
		}
	}
}

func TestKillTree(t *testing.T) {
	if testing.Short() {
		t.Skip("spawns processes")
	}
	cmd := startTree(t)
	time.Sleep(200 * time.Millisecond)

	root := cmd.Process.Pid
	children := Descendants(root)

	KillTree(root, 200*time.Millisecond)
	go cmd.Wait() // reap so the zombie does not count as alive

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		anyAlive := false
		for _, pid := range children {
			if Alive(int(pid)) && !Exited(int(pid)) {
				anyAlive = true
			}
		}
		if !anyAlive {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Error("descendants survived KillTree")
}

func TestExited(t *testing.T) {
	if testing.Short() {
		t.Skip("spawns processes")
	}
	cmd := exec.Command("true")
	if err := cmd.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	pid := cmd.Process.Pid

	// Unreaped: the child becomes a zombie, which must count as
	// exited even though the PID still exists.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if Exited(pid) {
			cmd.Wait()
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	cmd.Wait()
	t.Error("exited child never detected")
}

func TestClampNice(t *testing.T) {
	tests := []struct{ in, want int }{
		{in: 0, want: 0},
		{in: 19, want: 19},
		{in: 20, want: 19},
		{in: 100, want: 19},
		{in: -20, want: -20},
		{in: -21, want: -20},
		{in: -100, want: -20},
	}
	for _, tt := range tests {
		if got := ClampNice(tt.in); got != tt.want {
			t.Errorf("ClampNice(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestSetNiceOnSelfChild(t *testing.T) {
	if testing.Short() {
		t.Skip("spawns processes")
	}
	cmd := exec.Command("sleep", "2")
	if err := cmd.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer func() {
		cmd.Process.Kill()
		cmd.Wait()
	}()

	// Lowering priority never needs privileges.
	if err := SetNice(cmd.Process.Pid, 10); err != nil {
		t.Errorf("SetNice: %v", err)
	}
}
