package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// SetupOptions controls per-repository setup.
type SetupOptions struct {
	RemoteURL string
	DryRun    bool
}

// Setup records the mercurial remote for the current repository in git config.
func Setup(ctx context.Context, opts SetupOptions, deps *Dependencies, logger *slog.Logger) error {
	if logger == nil {
		panic("logger is required")
	}
	if err := requireDeps(deps, depGit); err != nil {
		return err
	}

	url := strings.TrimSpace(opts.RemoteURL)
	if url == "" {
		return fmt.Errorf("remote URL is required (--url): %w", ErrUsage)
	}
	if err := ValidateRemoteURL(url); err != nil {
		return err
	}

	repoPath, err := deps.Git.RepoRoot(ctx)
	if err != nil {
		return Abortf("not a git repository")
	}

	if opts.DryRun {
		logger.InfoContext(ctx, "Would set mercurial remote", "repo", repoPath, "url", url, "dry_run", true)
		return nil
	}

	if err := deps.Git.ConfigSet(ctx, repoPath, "hgbridge.remote", url); err != nil {
		return fmt.Errorf("set hgbridge.remote: %w", err)
	}

	logger.InfoContext(ctx, "Mercurial remote configured", "repo", repoPath, "url", url)
	return nil
}

// ValidateRemoteURL accepts http(s) and ssh URLs plus local paths.
func ValidateRemoteURL(url string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return fmt.Errorf("remote URL is empty: %w", ErrUsage)
	}
	for _, scheme := range []string{"http://", "https://", "ssh://"} {
		if strings.HasPrefix(url, scheme) {
			if len(url) == len(scheme) {
				return fmt.Errorf("remote URL %q has no host: %w", url, ErrUsage)
			}
			return nil
		}
	}
	if strings.Contains(url, "://") {
		return fmt.Errorf("unsupported remote URL scheme in %q: %w", url, ErrUsage)
	}
	// Anything else is treated as a local repository path.
	return nil
}
