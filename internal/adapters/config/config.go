// Package config implements ConfigPort using TOML files on disk.
package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/hgbridge/hgbridge/internal/usecase"
)

// Adapter implements ConfigPort using TOML files on disk.
type Adapter struct {
	logger *slog.Logger
}

// New creates a new config adapter.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		panic("config adapter requires logger")
	}
	return &Adapter{logger: logger}
}

// Load reads config from path or returns defaults when file is missing.
func (a *Adapter) Load(ctx context.Context, path string) (usecase.ConfigFile, error) {
	_ = ctx
	if strings.TrimSpace(path) == "" {
		return usecase.ConfigFile{}, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path) // #nosec G304 - path is controlled by usecase
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return usecase.DefaultConfigFile(), nil
		}
		return usecase.ConfigFile{}, err
	}

	cfg := usecase.DefaultConfigFile()
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return usecase.ConfigFile{}, fmt.Errorf("parse config toml: %w", err)
	}

	return cfg, nil
}

// Save writes config to path in TOML format with inline documentation.
func (a *Adapter) Save(ctx context.Context, path string, cfg usecase.ConfigFile) error {
	_ = ctx
	if strings.TrimSpace(path) == "" {
		return errors.New("config path is empty")
	}

	content := renderCommentedTOML(cfg)

	// #nosec G306 G304 - config is not secret, path is controlled by usecase.
	return os.WriteFile(path, []byte(content), 0o644)
}

func renderCommentedTOML(cfg usecase.ConfigFile) string {
	args := strings.Builder{}
	for i, arg := range cfg.Helper.Args {
		if i > 0 {
			args.WriteString(", ")
		}
		fmt.Fprintf(&args, "%q", arg)
	}

	return fmt.Sprintf(`# hgbridge Configuration

# ── Mercurial Remote ─────────────────────────────────────────────
[remote]

# Default remote repository URL (http, https, ssh or local path).
# Per-repository remotes set via "hgbridge setup --url" take precedence.
url = %[1]q

# ── Helper Process ───────────────────────────────────────────────
[helper]

# Helper binary spawned for each remote connection.
command = %[2]q

# Extra arguments passed to the helper before the remote URL.
args = [%[3]s]

# Git notes ref prefix for revision mappings.
# Must start with refs/notes/.
notes_ref = %[4]q

# ── Logging ──────────────────────────────────────────────────────
[logging]

# Log directory. Supports ~, $HOME, ${HOME}. Created automatically.
dir = %[5]q

# Minimum log level: debug, info, warn, error.
level = %[6]q
`,
		cfg.Remote.URL,
		cfg.Helper.Command,
		args.String(),
		cfg.Helper.NotesRef,
		cfg.Logging.Dir,
		cfg.Logging.Level,
	)
}
