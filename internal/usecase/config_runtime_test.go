package usecase

import (
	"errors"
	"testing"
)

func TestRuntimeConfigFromFileDefaults(t *testing.T) {
	cfg, err := RuntimeConfigFromFile(ConfigFile{}, "/home/u")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HelperCommand != DefaultHelperCommand {
		t.Errorf("expected default helper command, got %q", cfg.HelperCommand)
	}
	if cfg.NotesRef != DefaultNotesRef {
		t.Errorf("expected default notes ref, got %q", cfg.NotesRef)
	}
}

func TestRuntimeConfigFromFileExpandsLogDir(t *testing.T) {
	file := ConfigFile{Logging: LoggingConfig{Dir: "~/.local/state/hgbridge/logs"}}

	cfg, err := RuntimeConfigFromFile(file, "/home/u")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.LogDir != "/home/u/.local/state/hgbridge/logs" {
		t.Errorf("unexpected log dir %q", cfg.LogDir)
	}
}

func TestRuntimeConfigFromFileRejectsBadNotesRef(t *testing.T) {
	file := ConfigFile{Helper: HelperConfig{NotesRef: "refs/heads/main"}}

	_, err := RuntimeConfigFromFile(file, "/home/u")
	if !errors.Is(err, ErrUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}
}

func TestRuntimeConfigFromFileRequiresHome(t *testing.T) {
	_, err := RuntimeConfigFromFile(ConfigFile{}, "  ")
	if !errors.Is(err, ErrUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}
}

func TestExpandHomeDir(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{"tilde only", "~", "/home/u"},
		{"tilde prefix", "~/logs", "/home/u/logs"},
		{"home var", "$HOME/logs", "/home/u/logs"},
		{"braced home var", "${HOME}/logs", "/home/u/logs"},
		{"absolute untouched", "/var/log", "/var/log"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := expandHomeDir(tt.path, "/home/u"); got != tt.want {
				t.Errorf("expandHomeDir(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
