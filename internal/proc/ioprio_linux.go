//go:build linux

package proc

import "golang.org/x/sys/unix"

// ioprio_set class and mask layout, from linux/ioprio.h.
const (
	ioprioClassShift = 13
	ioprioWhoProcess = 1

	ioprioClassRT   = 1
	ioprioClassBE   = 2
	ioprioClassIdle = 3
)

// SetIOPriority applies an I/O scheduling class to a running child.
// Best effort: the realtime class needs CAP_SYS_ADMIN and idle/best
// effort usually succeed unprivileged.
func SetIOPriority(pid int, p Priority) error {
	var class, data uintptr
	switch p {
	case PriorityLow:
		class, data = ioprioClassIdle, 0
	case PriorityHigh:
		class, data = ioprioClassRT, 4
	default:
		class, data = ioprioClassBE, 4
	}
	ioprio := class<<ioprioClassShift | data
	_, _, errno := unix.Syscall(unix.SYS_IOPRIO_SET, ioprioWhoProcess, uintptr(pid), ioprio)
	if errno != 0 {
		return errno
	}
	return nil
}
