package usecase

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
)

func TestResolveHgToGit(t *testing.T) {
	deps := newTestDeps()
	fs := deps.FileSystem.(*mockFileSystem)
	if err := saveRevMap(context.Background(), fs, "/test/repo/.git", map[string]string{testHgHead1: testGitRev1}); err != nil {
		t.Fatalf("seed rev map: %v", err)
	}

	result, err := Resolve(context.Background(), testFetchConfig(), deps, testLogger(), testHgHead1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Direction != "hg2git" {
		t.Errorf("expected direction hg2git, got %q", result.Direction)
	}
	if result.Resolved != testGitRev1 {
		t.Errorf("expected %s, got %s", testGitRev1, result.Resolved)
	}
}

func TestResolveGitToHg(t *testing.T) {
	deps := newTestDeps()
	deps.Git = &mockGit{
		NoteShowFunc: func(_ context.Context, _, ref, object string) (string, error) {
			if ref != DefaultNotesRef+"/git2hg" {
				t.Errorf("unexpected notes ref %q", ref)
			}
			if object == testGitRev1 {
				return testHgHead1 + "\n", nil
			}
			return "", os.ErrNotExist
		},
	}

	result, err := Resolve(context.Background(), testFetchConfig(), deps, testLogger(), testGitRev1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Direction != "git2hg" {
		t.Errorf("expected direction git2hg, got %q", result.Direction)
	}
	if result.Resolved != testHgHead1 {
		t.Errorf("expected %s, got %s", testHgHead1, result.Resolved)
	}
}

func TestResolveUnknownRevisionAborts(t *testing.T) {
	deps := newTestDeps()

	_, err := Resolve(context.Background(), testFetchConfig(), deps, testLogger(), testHgHead2)
	if !errors.Is(err, ErrAbort) {
		t.Fatalf("expected abort, got %v", err)
	}
	var abortErr *AbortError
	if !errors.As(err, &abortErr) {
		t.Fatalf("expected AbortError, got %T", err)
	}
	if !strings.Contains(abortErr.Message, testHgHead2) {
		t.Errorf("abort message should name the revision: %q", abortErr.Message)
	}
}

func TestResolveShortHgPrefix(t *testing.T) {
	deps := newTestDeps()
	fs := deps.FileSystem.(*mockFileSystem)
	if err := saveRevMap(context.Background(), fs, "/test/repo/.git", map[string]string{testHgHead1: testGitRev1}); err != nil {
		t.Fatalf("seed rev map: %v", err)
	}

	result, err := Resolve(context.Background(), testFetchConfig(), deps, testLogger(), testHgHead1[:8])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Direction != "hg2git" {
		t.Errorf("expected direction hg2git, got %q", result.Direction)
	}
	if result.Resolved != testGitRev1 {
		t.Errorf("expected %s, got %s", testGitRev1, result.Resolved)
	}
	if result.Query != testHgHead1[:8] {
		t.Errorf("query should keep the user input, got %q", result.Query)
	}
}

func TestResolveAmbiguousPrefixAborts(t *testing.T) {
	deps := newTestDeps()
	fs := deps.FileSystem.(*mockFileSystem)
	sibling := testHgHead1[:8] + strings.Repeat("c", 32)
	seed := map[string]string{testHgHead1: testGitRev1, sibling: testGitRev2}
	if err := saveRevMap(context.Background(), fs, "/test/repo/.git", seed); err != nil {
		t.Fatalf("seed rev map: %v", err)
	}

	_, err := Resolve(context.Background(), testFetchConfig(), deps, testLogger(), testHgHead1[:8])
	if !errors.Is(err, ErrAbort) {
		t.Fatalf("expected abort, got %v", err)
	}
	var abortErr *AbortError
	if !errors.As(err, &abortErr) {
		t.Fatalf("expected AbortError, got %T", err)
	}
	if !strings.Contains(abortErr.Message, "ambiguous") {
		t.Errorf("abort should name the ambiguity: %q", abortErr.Message)
	}
}

func TestResolveShortGitRevision(t *testing.T) {
	deps := newTestDeps()
	deps.Git = &mockGit{
		RevParseFunc: func(_ context.Context, _, rev string) (string, error) {
			if rev != testGitRev1[:8] {
				t.Errorf("unexpected rev-parse input %q", rev)
			}
			return testGitRev1 + "\n", nil
		},
		NoteShowFunc: func(_ context.Context, _, _, object string) (string, error) {
			if object == testGitRev1 {
				return testHgHead1, nil
			}
			return "", os.ErrNotExist
		},
	}

	result, err := Resolve(context.Background(), testFetchConfig(), deps, testLogger(), testGitRev1[:8])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Direction != "git2hg" {
		t.Errorf("expected direction git2hg, got %q", result.Direction)
	}
	if result.Resolved != testHgHead1 {
		t.Errorf("expected %s, got %s", testHgHead1, result.Resolved)
	}
}

func TestResolveUnknownShortRevisionAborts(t *testing.T) {
	deps := newTestDeps()
	deps.Git = &mockGit{
		RevParseFunc: func(_ context.Context, _, rev string) (string, error) {
			return "", errors.New("unknown git revision")
		},
	}

	_, err := Resolve(context.Background(), testFetchConfig(), deps, testLogger(), "deadbeef")
	if !errors.Is(err, ErrAbort) {
		t.Fatalf("expected abort, got %v", err)
	}
}

func TestResolveRejectsMalformedRevision(t *testing.T) {
	deps := newTestDeps()

	for _, rev := range []string{"", "abc", "xyz12345", strings.Repeat("a", 41)} {
		_, err := Resolve(context.Background(), testFetchConfig(), deps, testLogger(), rev)
		if !errors.Is(err, ErrUsage) {
			t.Fatalf("expected usage error for %q, got %v", rev, err)
		}
	}
}

func TestResolveOutsideRepositoryAborts(t *testing.T) {
	deps := newTestDeps()
	deps.Git = &mockGit{
		RepoRootFunc: func(_ context.Context) (string, error) {
			return "", errors.New("not a git repository")
		},
	}

	_, err := Resolve(context.Background(), testFetchConfig(), deps, testLogger(), testHgHead1)
	if !errors.Is(err, ErrAbort) {
		t.Fatalf("expected abort, got %v", err)
	}
}
