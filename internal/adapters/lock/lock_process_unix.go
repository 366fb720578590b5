//go:build !windows

package lock

import (
	"fmt"
	"os"
	"runtime"
	"syscall"
)

// isProcessRunning reports whether a process with the given PID exists.
// A stat of /proc/<pid> answers without touching the process; where
// /proc is unavailable a null signal checks liveness instead.
func (a *Adapter) isProcessRunning(pid int) bool {
	if pid <= 0 {
		return false
	}

	if runtime.GOOS == osLinux || runtime.GOOS == osDarwin {
		if _, err := os.Stat(fmt.Sprintf("/proc/%d", pid)); err == nil {
			return true
		}
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return process.Signal(syscall.Signal(0)) == nil
}
