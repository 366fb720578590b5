package usecase

import (
	"context"
	"fmt"
	"log/slog"
)

const configDirPerm = 0o750

// InitOptions controls config bootstrap.
type InitOptions struct {
	HomeDir   string
	RemoteURL string
	Force     bool
	DryRun    bool
}

// DefaultConfigPath returns the config file location under the home dir.
func DefaultConfigPath(fs FileSystemPort, homeDir string) string {
	return fs.Join(homeDir, ".config", "hgbridge", "config.toml")
}

// Init writes the bridge configuration file with commented defaults.
func Init(ctx context.Context, opts InitOptions, deps *Dependencies, logger *slog.Logger) error {
	if logger == nil {
		panic("logger is required")
	}
	if err := requireDeps(deps, depFileSystem|depConfig); err != nil {
		return err
	}
	if opts.HomeDir == "" {
		return fmt.Errorf("home directory is empty: %w", ErrUsage)
	}

	configPath := DefaultConfigPath(deps.FileSystem, opts.HomeDir)
	if _, err := deps.FileSystem.Stat(ctx, configPath); err == nil && !opts.Force {
		return fmt.Errorf("config already exists at %s (use --force to overwrite): %w", configPath, ErrUsage)
	}

	cfg := DefaultConfigFile()
	if opts.RemoteURL != "" {
		if err := ValidateRemoteURL(opts.RemoteURL); err != nil {
			return err
		}
		cfg.Remote.URL = opts.RemoteURL
	}

	if opts.DryRun {
		logger.InfoContext(ctx, "Would write config", "path", configPath, "dry_run", true)
		return nil
	}

	if err := deps.FileSystem.CreateDir(ctx, deps.FileSystem.Dir(configPath), configDirPerm); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := deps.Config.Save(ctx, configPath, cfg); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	logger.InfoContext(ctx, "Config written", "path", configPath)
	return nil
}
