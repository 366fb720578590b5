package usecase

import (
	"context"
)

// Dependencies represents all external dependencies needed by use cases
type Dependencies struct {
	FileSystem FileSystemPort
	Git        GitPort
	Helper     HelperPort
	Lock       LockPort
	Process    ProcessPort
	Config     ConfigPort
}

// Ports define the interfaces that use cases need (hexagonal architecture)

// FileSystemPort defines filesystem operations needed by use cases
type FileSystemPort interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
	WriteFile(ctx context.Context, path string, data []byte, perm int) error
	CreateDir(ctx context.Context, path string, perm int) error
	Stat(ctx context.Context, path string) (FileInfo, error)

	Join(elements ...string) string
	Dir(path string) string

	IsNotExist(err error) bool
}

// GitPort defines git operations needed by use cases
type GitPort interface {
	// RepoRoot returns repository root path
	RepoRoot(ctx context.Context) (string, error)

	// GitDir returns the git directory for the repo
	GitDir(ctx context.Context, repoPath string) (string, error)

	// ConfigGet reads git config value
	ConfigGet(ctx context.Context, repoPath, key string) (string, error)

	// ConfigSet sets git config value
	ConfigSet(ctx context.Context, repoPath, key, value string) error

	// RevParse resolves a revision to a full object id
	RevParse(ctx context.Context, repoPath, rev string) (string, error)

	// NoteAdd attaches a note to a git object under ref
	NoteAdd(ctx context.Context, repoPath, ref, object, note string) error

	// NoteShow reads the note attached to a git object under ref
	NoteShow(ctx context.Context, repoPath, ref, object string) (string, error)
}

// HelperConn is a live connection to the helper process. Query sends one
// operation and returns the raw payload; using the connection after Close
// reports a HelperClosedError.
type HelperConn interface {
	Query(ctx context.Context, op string, args ...string) ([]byte, error)
	Close(ctx context.Context) error
}

// HelperPort spawns helper connections to a mercurial remote
type HelperPort interface {
	Start(ctx context.Context, url string) (HelperConn, error)
}

// ConfigPort defines configuration operations needed by use cases
type ConfigPort interface {
	Load(ctx context.Context, path string) (ConfigFile, error)
	Save(ctx context.Context, path string, cfg ConfigFile) error
}

// LockPort defines locking operations needed by use cases
type LockPort interface {
	AcquireLock(ctx context.Context, path string, info LockInfo) error
	ReleaseLock(ctx context.Context, path string) error
	IsLocked(ctx context.Context, path string) (bool, LockInfo, error)
	RefreshLock(ctx context.Context, path string) error
}

// ProcessPort defines process operations needed by use cases
type ProcessPort interface {
	GetPID() int
}
