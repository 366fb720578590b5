// Package lock implements LockPort using filesystem-based locking.
//
// A lock is a directory containing an "info" JSON file describing the
// holding process. Directory creation is atomic on all supported
// platforms, which gives mutual exclusion between concurrent fetches
// against the same repository metadata.
package lock

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/hgbridge/hgbridge/internal/usecase"
)

const (
	osLinux  = "linux"
	osDarwin = "darwin"

	infoFileName = "info"

	// maxLockAge bounds lock validity. A lock older than this is
	// considered stale even when the PID appears to be alive.
	maxLockAge = 24 * time.Hour
)

// Adapter implements LockPort using filesystem-based locking
type Adapter struct {
	logger *slog.Logger
}

// New creates a new lock adapter.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		panic("lock adapter requires logger")
	}
	return &Adapter{logger: logger}
}

// AcquireLock attempts to acquire exclusive lock
func (a *Adapter) AcquireLock(ctx context.Context, path string, info usecase.LockInfo) error {
	if err := os.Mkdir(path, 0o750); err == nil {
		return a.createInfoFile(filepath.Join(path, infoFileName), info)
	} else if !os.IsExist(err) {
		return fmt.Errorf("failed to create lock directory: %w", err)
	}

	// Directory already exists, decide whether the holder is still alive.
	infoFile := filepath.Join(path, infoFileName)
	if a.validateInfoFile(infoFile) {
		return fmt.Errorf("lock is held by another active process: %w", usecase.ErrLockBusy)
	}

	a.logger.Warn("removing stale metadata lock", "path", path)
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("failed to remove stale lock: %w", err)
	}
	if err := os.Mkdir(path, 0o750); err != nil {
		return fmt.Errorf("failed to create lock after cleanup: %w", err)
	}
	return a.createInfoFile(filepath.Join(path, infoFileName), info)
}

// ReleaseLock releases held lock
func (a *Adapter) ReleaseLock(ctx context.Context, path string) error {
	return os.RemoveAll(path)
}

// IsLocked checks if path is locked
func (a *Adapter) IsLocked(ctx context.Context, path string) (bool, usecase.LockInfo, error) {
	infoFile := filepath.Join(path, infoFileName)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return false, usecase.LockInfo{}, nil
	}
	if _, err := os.Stat(infoFile); os.IsNotExist(err) {
		return false, usecase.LockInfo{}, nil
	}

	info, err := a.readLockInfo(infoFile)
	if err != nil {
		return false, usecase.LockInfo{}, err
	}

	return a.validateInfoFile(infoFile), info, nil
}

// RefreshLock updates lock timestamp
func (a *Adapter) RefreshLock(ctx context.Context, path string) error {
	infoFile := filepath.Join(path, infoFileName)

	info, err := a.readLockInfo(infoFile)
	if err != nil {
		return fmt.Errorf("failed to read lock info: %w", err)
	}

	info.StartTime = time.Now()
	return a.createInfoFile(infoFile, info)
}

// createInfoFile writes lock holder information as JSON.
func (a *Adapter) createInfoFile(infoPath string, info usecase.LockInfo) error {
	if info.PID == 0 {
		info.PID = os.Getpid()
	}
	if info.StartTime.IsZero() {
		info.StartTime = time.Now()
	}
	if info.Hostname == "" {
		hostname, _ := os.Hostname()
		info.Hostname = hostname
	}
	if info.ProcessStartTicks == 0 {
		if ticks, ok := getProcessStartTicks(info.PID); ok {
			info.ProcessStartTicks = ticks
		}
	}
	if info.ProcessStartID == "" {
		if id, ok := getProcessStartID(info.PID); ok {
			info.ProcessStartID = id
		}
	}

	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal lock info: %w", err)
	}

	return os.WriteFile(infoPath, data, 0o600)
}

// readLockInfo reads lock holder information from file
func (a *Adapter) readLockInfo(infoPath string) (usecase.LockInfo, error) {
	data, err := os.ReadFile(infoPath) // #nosec G304 - infoPath is controlled by the adapter
	if err != nil {
		return usecase.LockInfo{}, err
	}

	var info usecase.LockInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return usecase.LockInfo{}, fmt.Errorf("invalid lock file format: %w", err)
	}
	return info, nil
}

// validateInfoFile checks if lock file is valid and process is still running
func (a *Adapter) validateInfoFile(infoPath string) bool {
	info, err := a.readLockInfo(infoPath)
	if err != nil {
		return false // Invalid file format means invalid lock
	}

	if time.Since(info.StartTime) > maxLockAge {
		return false // Lock is too old
	}

	// A lock taken on a different host cannot be validated against
	// local process state, treat it as held until it ages out.
	if info.Hostname != "" {
		if hostname, err := os.Hostname(); err == nil && hostname != info.Hostname {
			return true
		}
	}

	if info.ProcessStartID != "" {
		if id, ok := getProcessStartID(info.PID); ok {
			return id == info.ProcessStartID
		}
	}

	if info.ProcessStartTicks != 0 {
		if ticks, ok := getProcessStartTicks(info.PID); ok {
			if ticks != info.ProcessStartTicks {
				return false // PID reused
			}
			return true
		}
	}

	return a.isProcessRunning(info.PID)
}

func getProcessStartTicks(pid int) (int64, bool) {
	if pid <= 0 {
		return 0, false
	}
	if runtime.GOOS != osLinux {
		return 0, false
	}
	statPath := fmt.Sprintf("/proc/%d/stat", pid)
	// #nosec G304 -- reading /proc/<pid>/stat from controlled path.
	data, err := os.ReadFile(statPath)
	if err != nil {
		return 0, false
	}
	parts := strings.Fields(string(data))
	if len(parts) < 22 {
		return 0, false
	}
	startTicks, err := strconv.ParseInt(parts[21], 10, 64)
	if err != nil {
		return 0, false
	}
	return startTicks, true
}

func getProcessStartID(pid int) (string, bool) {
	if pid <= 0 {
		return "", false
	}
	switch runtime.GOOS {
	case osLinux:
		if ticks, ok := getProcessStartTicks(pid); ok {
			return fmt.Sprintf("ticks:%d", ticks), true
		}
		return "", false
	case osDarwin:
		startTime, ok := getProcessStartTimeDarwin(pid)
		if !ok {
			return "", false
		}
		return fmt.Sprintf("lstart:%d", startTime.UnixNano()), true
	case "windows":
		startTime, ok := getProcessStartTimeWindows(pid)
		if !ok {
			return "", false
		}
		return fmt.Sprintf("ctime:%d", startTime.UnixNano()), true
	default:
		return "", false
	}
}
