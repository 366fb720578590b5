package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// minRevPrefixLen is the shortest accepted abbreviated revision.
const minRevPrefixLen = 4

// Resolve maps a revision across the bridge. Mercurial ids resolve to their
// git commit through the map file; git ids resolve to their mercurial
// changeset through the git2hg notes ref. Abbreviated hex ids are accepted
// and expanded before lookup. An unknown or ambiguous revision aborts.
func Resolve(ctx context.Context, cfg *Config, deps *Dependencies, logger *slog.Logger, rev string) (*ResolveResult, error) {
	if logger == nil {
		panic("logger is required")
	}
	if err := requireDeps(deps, depGit|depFileSystem); err != nil {
		return nil, err
	}

	rev = strings.TrimSpace(rev)
	if !isHexPrefix(rev) {
		return nil, fmt.Errorf("revision must be a hex id of at least %d characters: %w", minRevPrefixLen, ErrUsage)
	}

	repoPath, gitDir, err := resolveRepo(ctx, deps)
	if err != nil {
		return nil, err
	}

	revMap, err := loadRevMap(ctx, deps.FileSystem, gitDir)
	if err != nil {
		return nil, err
	}
	if gitRev, ok := revMap[rev]; ok {
		logger.DebugContext(ctx, "Resolved mercurial revision", "hg", rev, "git", gitRev)
		return &ResolveResult{Query: rev, Direction: "hg2git", Resolved: gitRev}, nil
	}
	if len(rev) < 40 {
		matches := hgPrefixMatches(revMap, rev)
		if len(matches) > 1 {
			return nil, Abortf("ambiguous revision prefix %s", rev)
		}
		if len(matches) == 1 {
			hgRev := matches[0]
			logger.DebugContext(ctx, "Resolved mercurial revision", "hg", hgRev, "git", revMap[hgRev])
			return &ResolveResult{Query: rev, Direction: "hg2git", Resolved: revMap[hgRev]}, nil
		}
	}

	// Not a known mercurial id; try the reverse direction. Abbreviated
	// git ids are expanded by the repository itself.
	gitRev := rev
	if len(rev) < 40 {
		full, err := deps.Git.RevParse(ctx, repoPath, rev)
		if err != nil {
			return nil, Abortf("unknown revision %s", rev)
		}
		full = strings.TrimSpace(full)
		if !isHexRev(full) {
			return nil, Abortf("unknown revision %s", rev)
		}
		gitRev = full
	}
	note, err := deps.Git.NoteShow(ctx, repoPath, git2hgRef(cfg), gitRev)
	if err == nil {
		hgRev := strings.TrimSpace(note)
		if isHexRev(hgRev) {
			logger.DebugContext(ctx, "Resolved git revision", "git", gitRev, "hg", hgRev)
			return &ResolveResult{Query: rev, Direction: "git2hg", Resolved: hgRev}, nil
		}
	}

	return nil, Abortf("unknown revision %s", rev)
}

// hgPrefixMatches returns the mercurial ids in m starting with prefix.
func hgPrefixMatches(m map[string]string, prefix string) []string {
	var matches []string
	for hgRev := range m {
		if strings.HasPrefix(hgRev, prefix) {
			matches = append(matches, hgRev)
		}
	}
	return matches
}
