package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Fetch connects the helper to the mercurial remote, imports changesets not
// yet known to the bridge and records their revision mappings.
func Fetch(ctx context.Context, cfg *Config, deps *Dependencies, logger *slog.Logger) (*FetchResult, error) {
	if logger == nil {
		panic("logger is required")
	}
	if err := requireDeps(deps, depGit|depHelper|depFileSystem|depLock|depProcess); err != nil {
		return nil, err
	}

	repoPath, gitDir, err := resolveRepo(ctx, deps)
	if err != nil {
		return nil, err
	}

	url, err := remoteURL(ctx, cfg, deps, repoPath)
	if err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "Fetching from mercurial remote", "url", url)

	release, refresh, err := acquireMetadataLock(ctx, cfg, deps, repoPath, gitDir, url)
	if err != nil {
		return nil, err
	}
	defer release()

	conn, err := deps.Helper.Start(ctx, url)
	if err != nil {
		return nil, err
	}
	closed := false
	defer func() {
		if !closed {
			_ = conn.Close(ctx)
		}
	}()

	heads, err := remoteHeads(ctx, conn)
	if err != nil {
		return nil, err
	}
	logger.DebugContext(ctx, "Remote heads received", "count", len(heads))

	revMap, err := loadRevMap(ctx, deps.FileSystem, gitDir)
	if err != nil {
		return nil, err
	}

	result := &FetchResult{RemoteURL: url, Heads: heads}
	for _, head := range heads {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("fetch canceled: %w", ErrInterrupted)
		}
		if _, known := revMap[head]; known {
			continue
		}

		cs, err := importChangeset(ctx, conn, head)
		if err != nil {
			return nil, err
		}
		logger.InfoContext(ctx, "Imported changeset", "hg", cs.HgRev, "git", cs.GitRev, "branch", cs.Branch)

		if cfg.DryRun {
			result.Imported = append(result.Imported, cs)
			continue
		}
		if err := deps.Git.NoteAdd(ctx, repoPath, git2hgRef(cfg), cs.GitRev, cs.HgRev); err != nil {
			return nil, fmt.Errorf("record git2hg note for %s: %w", cs.GitRev, err)
		}
		revMap[cs.HgRev] = cs.GitRev
		result.Imported = append(result.Imported, cs)

		// Imports can outlast the stale-lock age on large remotes, keep
		// the lock timestamp current while work is still progressing.
		refresh()
	}

	if !cfg.DryRun && len(result.Imported) > 0 {
		if err := saveRevMap(ctx, deps.FileSystem, gitDir, revMap); err != nil {
			return nil, err
		}
	}

	// Close before returning so a helper that dies with a non-zero status
	// still fails the fetch.
	closed = true
	if err := conn.Close(ctx); err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "Fetch complete", "imported", len(result.Imported), "dry_run", cfg.DryRun)
	return result, nil
}

// remoteHeads asks the helper for the remote head revisions.
func remoteHeads(ctx context.Context, conn HelperConn) ([]string, error) {
	payload, err := conn.Query(ctx, "heads")
	if err != nil {
		return nil, err
	}

	heads := strings.Fields(string(payload))
	for _, head := range heads {
		if !isHexRev(head) {
			return nil, &HelperFailedError{Op: "heads", Message: fmt.Sprintf("malformed head %q", head)}
		}
	}
	return heads, nil
}

// importChangeset asks the helper to import one changeset and parses the
// resulting mapping from its response.
func importChangeset(ctx context.Context, conn HelperConn, hgRev string) (Changeset, error) {
	payload, err := conn.Query(ctx, "import", hgRev)
	if err != nil {
		return Changeset{}, err
	}

	cs := Changeset{HgRev: hgRev}
	for _, line := range strings.Split(string(payload), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		key, value, found := strings.Cut(line, " ")
		if !found {
			return Changeset{}, &HelperFailedError{Op: "import", Message: fmt.Sprintf("malformed response line %q", line)}
		}
		switch key {
		case "git":
			cs.GitRev = value
		case "branch":
			cs.Branch = value
		}
	}
	if !isHexRev(cs.GitRev) {
		return Changeset{}, &HelperFailedError{Op: "import", Message: fmt.Sprintf("missing git revision for %s", hgRev)}
	}
	return cs, nil
}

// remoteURL determines the remote URL from flags, git config or bridge config.
func remoteURL(ctx context.Context, cfg *Config, deps *Dependencies, repoPath string) (string, error) {
	if url := strings.TrimSpace(cfg.RemoteURL); url != "" {
		return url, nil
	}
	url, err := deps.Git.ConfigGet(ctx, repoPath, "hgbridge.remote")
	if err == nil && strings.TrimSpace(url) != "" {
		return strings.TrimSpace(url), nil
	}
	return "", Abortf("no mercurial remote configured (run: hgbridge setup --url <url>)")
}

// resolveRepo locates the current repository and its git directory.
func resolveRepo(ctx context.Context, deps *Dependencies) (repoPath, gitDir string, err error) {
	repoPath, err = deps.Git.RepoRoot(ctx)
	if err != nil {
		return "", "", Abortf("not a git repository")
	}
	gitDir, err = deps.Git.GitDir(ctx, repoPath)
	if err != nil {
		return "", "", fmt.Errorf("resolve git dir: %w", err)
	}
	return repoPath, gitDir, nil
}

// acquireMetadataLock guards concurrent metadata updates for one repository.
// It returns a release function and a refresh function that renews the lock
// timestamp so long-running fetches are not reaped as stale.
func acquireMetadataLock(
	ctx context.Context,
	cfg *Config,
	deps *Dependencies,
	repoPath, gitDir, url string,
) (release, refresh func(), err error) {
	if cfg.DryRun {
		return func() {}, func() {}, nil
	}
	if err := deps.FileSystem.CreateDir(ctx, metadataDir(deps.FileSystem, gitDir), metadataDirPerm); err != nil {
		return nil, nil, fmt.Errorf("create metadata dir: %w", err)
	}

	lockPath := deps.FileSystem.Join(gitDir, metadataDirName, "lock")
	info := LockInfo{
		PID:       deps.Process.GetPID(),
		StartTime: time.Now(),
		RepoPath:  repoPath,
		RemoteURL: url,
	}
	if err := deps.Lock.AcquireLock(ctx, lockPath, info); err != nil {
		if errors.Is(err, ErrLockBusy) {
			return nil, nil, fmt.Errorf("metadata lock is held by another process: %w", ErrLockBusy)
		}
		return nil, nil, fmt.Errorf("acquire metadata lock: %w", err)
	}
	release = func() {
		_ = deps.Lock.ReleaseLock(ctx, lockPath)
	}
	refresh = func() {
		// A failed refresh only shortens the stale grace period, it
		// must not fail an otherwise healthy fetch.
		_ = deps.Lock.RefreshLock(ctx, lockPath)
	}
	return release, refresh, nil
}

func git2hgRef(cfg *Config) string {
	ref := strings.TrimSpace(cfg.NotesRef)
	if ref == "" {
		ref = DefaultNotesRef
	}
	return ref + "/git2hg"
}

type depMask uint8

const (
	depFileSystem depMask = 1 << iota
	depGit
	depHelper
	depLock
	depProcess
	depConfig
)

// requireDeps validates that the adapters a use case needs are wired.
func requireDeps(deps *Dependencies, need depMask) error {
	if deps == nil {
		return fmt.Errorf("dependencies not available: %w", ErrUsage)
	}
	missing := ""
	switch {
	case need&depFileSystem != 0 && deps.FileSystem == nil:
		missing = "filesystem"
	case need&depGit != 0 && deps.Git == nil:
		missing = "git"
	case need&depHelper != 0 && deps.Helper == nil:
		missing = "helper"
	case need&depLock != 0 && deps.Lock == nil:
		missing = "lock"
	case need&depProcess != 0 && deps.Process == nil:
		missing = "process"
	case need&depConfig != 0 && deps.Config == nil:
		missing = "config"
	}
	if missing != "" {
		return fmt.Errorf("%s adapter not available: %w", missing, ErrUsage)
	}
	return nil
}
