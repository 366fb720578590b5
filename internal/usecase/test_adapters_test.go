package usecase

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Mock implementations for testing. Each adapter defaults to a reasonable
// in-memory behavior and can be overridden per test via function fields.

type mockFileInfo struct {
	name    string
	size    int64
	modTime time.Time
	isDir   bool
}

func (m *mockFileInfo) Name() string       { return m.name }
func (m *mockFileInfo) Size() int64        { return m.size }
func (m *mockFileInfo) ModTime() time.Time { return m.modTime }
func (m *mockFileInfo) IsDir() bool        { return m.isDir }

type mockFileSystem struct {
	mu    sync.Mutex
	files map[string][]byte

	ReadFileFunc  func(ctx context.Context, path string) ([]byte, error)
	WriteFileFunc func(ctx context.Context, path string, data []byte, perm int) error
	CreateDirFunc func(ctx context.Context, path string, perm int) error
	StatFunc      func(ctx context.Context, path string) (FileInfo, error)
}

func newMockFileSystem() *mockFileSystem {
	return &mockFileSystem{files: map[string][]byte{}}
}

func (m *mockFileSystem) ReadFile(ctx context.Context, path string) ([]byte, error) {
	if m.ReadFileFunc != nil {
		return m.ReadFileFunc(ctx, path)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return data, nil
}

func (m *mockFileSystem) WriteFile(ctx context.Context, path string, data []byte, perm int) error {
	if m.WriteFileFunc != nil {
		return m.WriteFileFunc(ctx, path, data, perm)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = append([]byte(nil), data...)
	return nil
}

func (m *mockFileSystem) CreateDir(ctx context.Context, path string, perm int) error {
	if m.CreateDirFunc != nil {
		return m.CreateDirFunc(ctx, path, perm)
	}
	return nil
}

func (m *mockFileSystem) Stat(ctx context.Context, path string) (FileInfo, error) {
	if m.StatFunc != nil {
		return m.StatFunc(ctx, path)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return &mockFileInfo{name: filepath.Base(path), size: int64(len(data))}, nil
}

func (m *mockFileSystem) Join(elements ...string) string { return filepath.Join(elements...) }
func (m *mockFileSystem) Dir(path string) string         { return filepath.Dir(path) }
func (m *mockFileSystem) IsNotExist(err error) bool      { return os.IsNotExist(err) }

type mockGit struct {
	RepoRootFunc  func(ctx context.Context) (string, error)
	GitDirFunc    func(ctx context.Context, repoPath string) (string, error)
	ConfigGetFunc func(ctx context.Context, repoPath, key string) (string, error)
	ConfigSetFunc func(ctx context.Context, repoPath, key, value string) error
	RevParseFunc  func(ctx context.Context, repoPath, rev string) (string, error)
	NoteAddFunc   func(ctx context.Context, repoPath, ref, object, note string) error
	NoteShowFunc  func(ctx context.Context, repoPath, ref, object string) (string, error)
}

func (m *mockGit) RepoRoot(ctx context.Context) (string, error) {
	if m.RepoRootFunc != nil {
		return m.RepoRootFunc(ctx)
	}
	return "/test/repo", nil
}

func (m *mockGit) GitDir(ctx context.Context, repoPath string) (string, error) {
	if m.GitDirFunc != nil {
		return m.GitDirFunc(ctx, repoPath)
	}
	return "/test/repo/.git", nil
}

func (m *mockGit) ConfigGet(ctx context.Context, repoPath, key string) (string, error) {
	if m.ConfigGetFunc != nil {
		return m.ConfigGetFunc(ctx, repoPath, key)
	}
	return "", nil
}

func (m *mockGit) ConfigSet(ctx context.Context, repoPath, key, value string) error {
	if m.ConfigSetFunc != nil {
		return m.ConfigSetFunc(ctx, repoPath, key, value)
	}
	return nil
}

func (m *mockGit) RevParse(ctx context.Context, repoPath, rev string) (string, error) {
	if m.RevParseFunc != nil {
		return m.RevParseFunc(ctx, repoPath, rev)
	}
	return rev, nil
}

func (m *mockGit) NoteAdd(ctx context.Context, repoPath, ref, object, note string) error {
	if m.NoteAddFunc != nil {
		return m.NoteAddFunc(ctx, repoPath, ref, object, note)
	}
	return nil
}

func (m *mockGit) NoteShow(ctx context.Context, repoPath, ref, object string) (string, error) {
	if m.NoteShowFunc != nil {
		return m.NoteShowFunc(ctx, repoPath, ref, object)
	}
	return "", os.ErrNotExist
}

type mockHelperConn struct {
	QueryFunc func(ctx context.Context, op string, args ...string) ([]byte, error)
	CloseFunc func(ctx context.Context) error

	closed bool
}

func (m *mockHelperConn) Query(ctx context.Context, op string, args ...string) ([]byte, error) {
	if m.closed {
		return nil, &HelperClosedError{Op: op}
	}
	if m.QueryFunc != nil {
		return m.QueryFunc(ctx, op, args...)
	}
	return nil, nil
}

func (m *mockHelperConn) Close(ctx context.Context) error {
	m.closed = true
	if m.CloseFunc != nil {
		return m.CloseFunc(ctx)
	}
	return nil
}

type mockHelper struct {
	StartFunc func(ctx context.Context, url string) (HelperConn, error)
}

func (m *mockHelper) Start(ctx context.Context, url string) (HelperConn, error) {
	if m.StartFunc != nil {
		return m.StartFunc(ctx, url)
	}
	return &mockHelperConn{}, nil
}

type mockLock struct {
	AcquireLockFunc func(ctx context.Context, path string, info LockInfo) error
	ReleaseLockFunc func(ctx context.Context, path string) error
	IsLockedFunc    func(ctx context.Context, path string) (bool, LockInfo, error)
	RefreshLockFunc func(ctx context.Context, path string) error
}

func (m *mockLock) AcquireLock(ctx context.Context, path string, info LockInfo) error {
	if m.AcquireLockFunc != nil {
		return m.AcquireLockFunc(ctx, path, info)
	}
	return nil
}

func (m *mockLock) ReleaseLock(ctx context.Context, path string) error {
	if m.ReleaseLockFunc != nil {
		return m.ReleaseLockFunc(ctx, path)
	}
	return nil
}

func (m *mockLock) IsLocked(ctx context.Context, path string) (bool, LockInfo, error) {
	if m.IsLockedFunc != nil {
		return m.IsLockedFunc(ctx, path)
	}
	return false, LockInfo{}, nil
}

func (m *mockLock) RefreshLock(ctx context.Context, path string) error {
	if m.RefreshLockFunc != nil {
		return m.RefreshLockFunc(ctx, path)
	}
	return nil
}

type mockProcess struct {
	PID int
}

func (m *mockProcess) GetPID() int {
	if m.PID != 0 {
		return m.PID
	}
	return 4242
}

type mockConfig struct {
	LoadFunc func(ctx context.Context, path string) (ConfigFile, error)
	SaveFunc func(ctx context.Context, path string, cfg ConfigFile) error

	saved map[string]ConfigFile
}

func (m *mockConfig) Load(ctx context.Context, path string) (ConfigFile, error) {
	if m.LoadFunc != nil {
		return m.LoadFunc(ctx, path)
	}
	return DefaultConfigFile(), nil
}

func (m *mockConfig) Save(ctx context.Context, path string, cfg ConfigFile) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, path, cfg)
	}
	if m.saved == nil {
		m.saved = map[string]ConfigFile{}
	}
	m.saved[path] = cfg
	return nil
}

func newTestDeps() *Dependencies {
	return &Dependencies{
		FileSystem: newMockFileSystem(),
		Git:        &mockGit{},
		Helper:     &mockHelper{},
		Lock:       &mockLock{},
		Process:    &mockProcess{},
		Config:     &mockConfig{},
	}
}
