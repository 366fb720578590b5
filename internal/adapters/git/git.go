// Package git implements GitPort using the git command line tool.
package git

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// Adapter implements GitPort by shelling out to git.
type Adapter struct {
	logger *slog.Logger
}

// New creates a new git adapter.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		panic("git adapter requires logger")
	}
	return &Adapter{logger: logger}
}

// RepoRoot returns repository root path
func (a *Adapter) RepoRoot(ctx context.Context) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "rev-parse", "--show-toplevel")
	output, err := cmd.Output()
	if err != nil {
		return "", errors.New("not a git repository (no work tree)")
	}
	return strings.TrimSpace(string(output)), nil
}

// GitDir returns git directory for repo
func (a *Adapter) GitDir(ctx context.Context, repoPath string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "rev-parse", "--absolute-git-dir")
	cmd.Dir = repoPath
	output, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(output)), nil
}

// ConfigGet reads git config value
func (a *Adapter) ConfigGet(ctx context.Context, repoPath, key string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "config", "--get", key)
	cmd.Dir = repoPath
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(output)), nil
}

// ConfigSet sets git config value.
func (a *Adapter) ConfigSet(ctx context.Context, repoPath, key, value string) error {
	cmd := exec.CommandContext(ctx, "git", "config", key, value)
	cmd.Dir = repoPath
	return cmd.Run()
}

// RevParse resolves a revision to a full object id.
func (a *Adapter) RevParse(ctx context.Context, repoPath, rev string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "rev-parse", "--verify", rev)
	cmd.Dir = repoPath
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("unknown git revision %q", rev)
	}
	return strings.TrimSpace(string(output)), nil
}

// NoteAdd attaches a note to a git object under ref, replacing any existing note.
func (a *Adapter) NoteAdd(ctx context.Context, repoPath, ref, object, note string) error {
	cmd := exec.CommandContext(ctx, "git", "notes", "--ref", ref, "add", "-f", "-m", note, object)
	cmd.Dir = repoPath
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("git notes add for %s: %w", object, err)
	}
	return nil
}

// NoteShow reads the note attached to a git object under ref.
func (a *Adapter) NoteShow(ctx context.Context, repoPath, ref, object string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "notes", "--ref", ref, "show", object)
	cmd.Dir = repoPath
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("no note for %s under %s", object, ref)
	}
	return strings.TrimSpace(string(output)), nil
}
