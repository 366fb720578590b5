package usecase

import "time"

// Config contains all runtime configuration.
type Config struct {
	Verbose       bool
	DryRun        bool
	RemoteURL     string
	HelperCommand string
	HelperArgs    []string
	NotesRef      string
	LogDir        string
	LogLevel      string
}

// FileInfo represents file information.
type FileInfo interface {
	Name() string
	Size() int64
	ModTime() time.Time
	IsDir() bool
}

// Changeset describes a mercurial changeset imported by the helper.
type Changeset struct {
	HgRev  string
	GitRev string
	Branch string
}

// FetchResult summarizes a completed fetch.
type FetchResult struct {
	RemoteURL string
	Heads     []string
	Imported  []Changeset
}

// ResolveResult is the outcome of a revision lookup.
type ResolveResult struct {
	Query     string
	Direction string // "hg2git" or "git2hg"
	Resolved  string
}

// StatusReport describes bridge state for the status command.
type StatusReport struct {
	ConfigPath    string
	ConfigExists  bool
	RepoPath      string
	InRepo        bool
	RemoteURL     string
	HelperCommand string
	HelperVersion string
	HelperOK      bool
	Mappings      int
	LockHeld      bool
	LockOwnerPID  int
}

// LockInfo represents metadata lock file information.
type LockInfo struct {
	PID               int       `json:"pid"`
	StartTime         time.Time `json:"start_time"`
	RepoPath          string    `json:"repo_path"`
	RemoteURL         string    `json:"remote_url"`
	Hostname          string    `json:"hostname"`
	ProcessStartTicks int64     `json:"process_start_ticks"`
	ProcessStartID    string    `json:"process_start_id"`
}
