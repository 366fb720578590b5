package usecase

import (
	"fmt"
	"strings"
)

// RuntimeConfigFromFile converts TOML config into runtime config for bridge execution.
func RuntimeConfigFromFile(cfg ConfigFile, homeDir string) (*Config, error) {
	cleanHome := strings.TrimSpace(homeDir)
	if cleanHome == "" {
		return nil, fmt.Errorf("home directory is empty: %w", ErrUsage)
	}

	helperCmd := strings.TrimSpace(cfg.Helper.Command)
	if helperCmd == "" {
		helperCmd = DefaultHelperCommand
	}

	notesRef := strings.TrimSpace(cfg.Helper.NotesRef)
	if notesRef == "" {
		notesRef = DefaultNotesRef
	}
	if !strings.HasPrefix(notesRef, "refs/notes/") {
		return nil, fmt.Errorf("helper.notes_ref must start with refs/notes/: %w", ErrUsage)
	}

	logDir := strings.TrimSpace(cfg.Logging.Dir)
	if logDir != "" {
		logDir = expandHomeDir(logDir, cleanHome)
	}

	return &Config{
		RemoteURL:     strings.TrimSpace(cfg.Remote.URL),
		HelperCommand: helperCmd,
		HelperArgs:    append([]string(nil), cfg.Helper.Args...),
		NotesRef:      notesRef,
		LogDir:        logDir,
		LogLevel:      strings.TrimSpace(cfg.Logging.Level),
	}, nil
}

// expandHomeDir expands ~ and $HOME prefixes in path.
func expandHomeDir(path, homeDir string) string {
	clean := strings.TrimSpace(path)
	if clean == "" {
		return clean
	}
	if clean == "~" || clean == "$HOME" || clean == "${HOME}" {
		return homeDir
	}
	for _, prefix := range []string{"~/", "$HOME/", "${HOME}/"} {
		if strings.HasPrefix(clean, prefix) {
			return strings.TrimRight(homeDir, "/") + "/" + clean[len(prefix):]
		}
	}
	return clean
}
