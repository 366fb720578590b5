//go:build darwin

package lock

import (
	"time"

	"golang.org/x/sys/unix"
)

// getProcessStartTimeDarwin reads the process creation time from the
// kern.proc.pid sysctl. Combined with the PID it identifies a process
// across PID reuse.
func getProcessStartTimeDarwin(pid int) (time.Time, bool) {
	if pid <= 0 {
		return time.Time{}, false
	}
	info, err := unix.SysctlKinfoProc("kern.proc.pid", pid)
	if err != nil || info == nil {
		return time.Time{}, false
	}
	started := info.Proc.P_starttime
	return time.Unix(int64(started.Sec), int64(started.Usec)*1000), true
}

func getProcessStartTimeWindows(_ int) (time.Time, bool) {
	return time.Time{}, false
}
