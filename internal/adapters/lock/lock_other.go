//go:build !darwin && !windows

package lock

import "time"

// Platforms without a native start-time lookup fall back to the
// /proc ticks path or a plain liveness signal.

func getProcessStartTimeDarwin(_ int) (time.Time, bool) {
	return time.Time{}, false
}

func getProcessStartTimeWindows(_ int) (time.Time, bool) {
	return time.Time{}, false
}
