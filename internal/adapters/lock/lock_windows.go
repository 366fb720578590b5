//go:build windows

package lock

import (
	"time"

	"golang.org/x/sys/windows"
)

// getProcessStartTimeWindows reads the process creation time via
// GetProcessTimes. Combined with the PID it identifies a process
// across PID reuse.
func getProcessStartTimeWindows(pid int) (time.Time, bool) {
	if pid <= 0 {
		return time.Time{}, false
	}
	handle, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, uint32(pid))
	if err != nil {
		return time.Time{}, false
	}
	defer windows.CloseHandle(handle)

	var creation, exit, kernel, user windows.Filetime
	if err := windows.GetProcessTimes(handle, &creation, &exit, &kernel, &user); err != nil {
		return time.Time{}, false
	}
	return time.Unix(0, creation.Nanoseconds()), true
}
