// Package filesystem implements FileSystemPort using standard os and filepath packages.
package filesystem

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/hgbridge/hgbridge/internal/usecase"
)

// Adapter implements FileSystemPort using standard os and filepath packages
type Adapter struct {
	logger *slog.Logger
}

// New creates a new filesystem adapter.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		panic("filesystem adapter requires logger")
	}
	return &Adapter{logger: logger}
}

// ReadFile reads file content
func (a *Adapter) ReadFile(ctx context.Context, path string) ([]byte, error) {
	return os.ReadFile(path) // #nosec G304 - paths are controlled by usecase
}

// WriteFile writes content to file
func (a *Adapter) WriteFile(ctx context.Context, path string, data []byte, perm int) error {
	if perm < 0 || perm > 0o777 {
		perm = 0o644 // Default safe permissions
	}
	// #nosec G115 - perm is validated to be within safe range
	return os.WriteFile(path, data, fs.FileMode(perm))
}

// CreateDir creates directory with permissions
func (a *Adapter) CreateDir(ctx context.Context, path string, perm int) error {
	if perm < 0 || perm > 0o777 {
		perm = 0o755 // Default safe permissions
	}
	// #nosec G115 - perm is validated to be within safe range
	return os.MkdirAll(path, fs.FileMode(perm))
}

// Stat returns file info
func (a *Adapter) Stat(ctx context.Context, path string) (usecase.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	return &fileInfoWrapper{info}, nil
}

// Join joins path elements
func (a *Adapter) Join(elements ...string) string {
	return filepath.Join(elements...)
}

// Dir returns directory of path
func (a *Adapter) Dir(path string) string {
	return filepath.Dir(path)
}

// IsNotExist reports whether err indicates that a path does not exist.
// Also covers syscall.ENOTDIR (path component is not a directory).
func (a *Adapter) IsNotExist(err error) bool {
	return os.IsNotExist(err) || errors.Is(err, syscall.ENOTDIR)
}

// fileInfoWrapper wraps os.FileInfo to implement usecase.FileInfo
type fileInfoWrapper struct {
	fs.FileInfo
}

// Name returns the name of the file
func (w *fileInfoWrapper) Name() string {
	return w.FileInfo.Name()
}

// Size returns the size of the file
func (w *fileInfoWrapper) Size() int64 {
	return w.FileInfo.Size()
}

// ModTime returns the modification time
func (w *fileInfoWrapper) ModTime() time.Time {
	return w.FileInfo.ModTime()
}

// IsDir returns true if the file is a directory
func (w *fileInfoWrapper) IsDir() bool {
	return w.FileInfo.IsDir()
}
