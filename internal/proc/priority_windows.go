//go:build windows

package proc

import "golang.org/x/sys/windows"

// SetPriority applies a process priority class to a running child.
func SetPriority(pid int, p Priority) error {
	var class uint32
	switch p {
	case PriorityLow:
		class = windows.IDLE_PRIORITY_CLASS
	case PriorityHigh:
		class = windows.HIGH_PRIORITY_CLASS
	default:
		class = windows.NORMAL_PRIORITY_CLASS
	}
	h, err := windows.OpenProcess(windows.PROCESS_SET_INFORMATION, false, uint32(pid))
	if err != nil {
		return err
	}
	defer windows.CloseHandle(h)
	return windows.SetPriorityClass(h, class)
}

// SetNice maps a POSIX niceness onto the nearest priority class.
func SetNice(pid, nice int) error {
	switch {
	case nice > 0:
		return SetPriority(pid, PriorityLow)
	case nice < 0:
		return SetPriority(pid, PriorityHigh)
	default:
		return SetPriority(pid, PriorityNormal)
	}
}

// SetIOPriority is a no-op on Windows: background I/O mode can only be
// entered by the target process itself, and the NtSetInformationProcess
// route is undocumented. The CPU priority class already deprioritizes
// I/O issued by idle-class processes.
func SetIOPriority(int, Priority) error {
	return nil
}
