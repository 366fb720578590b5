package usecase

import (
	"context"
	"errors"
	"testing"
)

func TestInitWritesDefaultConfig(t *testing.T) {
	deps := newTestDeps()
	cfgAdapter := deps.Config.(*mockConfig)

	err := Init(context.Background(), InitOptions{HomeDir: "/home/u"}, deps, testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	path := DefaultConfigPath(deps.FileSystem, "/home/u")
	saved, ok := cfgAdapter.saved[path]
	if !ok {
		t.Fatalf("expected config saved at %s", path)
	}
	if saved.Helper.Command != DefaultHelperCommand {
		t.Errorf("expected default helper command, got %q", saved.Helper.Command)
	}
	if saved.Helper.NotesRef != DefaultNotesRef {
		t.Errorf("expected default notes ref, got %q", saved.Helper.NotesRef)
	}
}

func TestInitWithRemoteURL(t *testing.T) {
	deps := newTestDeps()
	cfgAdapter := deps.Config.(*mockConfig)

	opts := InitOptions{HomeDir: "/home/u", RemoteURL: "https://hg.example.org/repo"}
	if err := Init(context.Background(), opts, deps, testLogger()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	path := DefaultConfigPath(deps.FileSystem, "/home/u")
	if cfgAdapter.saved[path].Remote.URL != opts.RemoteURL {
		t.Errorf("remote URL not stored: %+v", cfgAdapter.saved[path].Remote)
	}
}

func TestInitRejectsBadRemoteURL(t *testing.T) {
	deps := newTestDeps()

	opts := InitOptions{HomeDir: "/home/u", RemoteURL: "ftp://hg.example.org/repo"}
	err := Init(context.Background(), opts, deps, testLogger())
	if !errors.Is(err, ErrUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}
}

func TestInitRefusesToOverwrite(t *testing.T) {
	deps := newTestDeps()
	fs := deps.FileSystem.(*mockFileSystem)
	path := DefaultConfigPath(fs, "/home/u")
	if err := fs.WriteFile(context.Background(), path, []byte("existing"), 0o644); err != nil {
		t.Fatalf("seed config: %v", err)
	}

	err := Init(context.Background(), InitOptions{HomeDir: "/home/u"}, deps, testLogger())
	if !errors.Is(err, ErrUsage) {
		t.Fatalf("expected usage error for existing config, got %v", err)
	}
}

func TestInitForceOverwrites(t *testing.T) {
	deps := newTestDeps()
	fs := deps.FileSystem.(*mockFileSystem)
	cfgAdapter := deps.Config.(*mockConfig)
	path := DefaultConfigPath(fs, "/home/u")
	if err := fs.WriteFile(context.Background(), path, []byte("existing"), 0o644); err != nil {
		t.Fatalf("seed config: %v", err)
	}

	err := Init(context.Background(), InitOptions{HomeDir: "/home/u", Force: true}, deps, testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := cfgAdapter.saved[path]; !ok {
		t.Error("expected config rewritten with --force")
	}
}

func TestInitDryRunWritesNothing(t *testing.T) {
	deps := newTestDeps()
	cfgAdapter := deps.Config.(*mockConfig)

	err := Init(context.Background(), InitOptions{HomeDir: "/home/u", DryRun: true}, deps, testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfgAdapter.saved) != 0 {
		t.Error("dry-run must not save config")
	}
}
