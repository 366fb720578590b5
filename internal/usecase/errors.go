package usecase

import (
	"errors"
	"fmt"
)

var (
	// ErrAbort matches any abort, silent or not.
	ErrAbort = errors.New("abort")
	// ErrHelperClosed matches operations attempted on a closed helper.
	ErrHelperClosed = errors.New("helper closed")
	// ErrHelperFailed matches non-success responses reported by the helper.
	ErrHelperFailed = errors.New("helper failed")
	// ErrUsage indicates user input/usage errors.
	ErrUsage = errors.New("usage error")
	// ErrLockBusy indicates an active metadata lock held by another process.
	ErrLockBusy = errors.New("lock busy")
	// ErrInterrupted indicates a canceled or interrupted operation.
	ErrInterrupted = errors.New("interrupted")
)

// AbortError signals that the command should stop and exit non-zero.
// When Silent is set the message has already been emitted by the helper
// side and the top-level handler must not print it again.
type AbortError struct {
	Message string
	Silent  bool
}

func (e *AbortError) Error() string {
	if e.Message == "" {
		return "aborted"
	}
	return e.Message
}

// Is makes both silent and non-silent aborts match ErrAbort.
func (e *AbortError) Is(target error) bool {
	return target == ErrAbort
}

// Abortf constructs an abort carrying a user-facing message.
func Abortf(format string, args ...any) error {
	return &AbortError{Message: fmt.Sprintf(format, args...)}
}

// SilentAbort constructs an abort whose message was already shown elsewhere.
func SilentAbort() error {
	return &AbortError{Silent: true}
}

// HelperClosedError reports an operation attempted on a helper connection
// after it has been shut down. This is a caller-side lifecycle bug, not a
// failure reported by the helper itself.
type HelperClosedError struct {
	Op string
}

func (e *HelperClosedError) Error() string {
	if e.Op == "" {
		return "helper is closed"
	}
	return "helper is closed: " + e.Op
}

func (e *HelperClosedError) Is(target error) bool {
	return target == ErrHelperClosed
}

// HelperFailedError reports a non-success status returned by the helper
// for a requested operation.
type HelperFailedError struct {
	Op      string
	Code    int
	Message string
}

func (e *HelperFailedError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = fmt.Sprintf("exit code %d", e.Code)
	}
	if e.Op == "" {
		return "helper failed: " + msg
	}
	return fmt.Sprintf("helper failed: %s: %s", e.Op, msg)
}

func (e *HelperFailedError) Is(target error) bool {
	return target == ErrHelperFailed
}
