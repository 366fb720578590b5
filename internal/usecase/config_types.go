package usecase

// ConfigFile describes TOML configuration structure.
type ConfigFile struct {
	Remote  RemoteConfig  `toml:"remote"`
	Helper  HelperConfig  `toml:"helper"`
	Logging LoggingConfig `toml:"logging"`
}

// RemoteConfig holds mercurial remote settings.
type RemoteConfig struct {
	URL string `toml:"url"`
}

// HelperConfig holds helper process settings.
type HelperConfig struct {
	Command  string   `toml:"command"`
	Args     []string `toml:"args"`
	NotesRef string   `toml:"notes_ref"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Dir   string `toml:"dir"`
	Level string `toml:"level"`
}

// DefaultHelperCommand is the helper binary used when none is configured.
const DefaultHelperCommand = "hg-helper"

// DefaultNotesRef is the git notes ref prefix for revision mappings.
const DefaultNotesRef = "refs/notes/hgbridge"

// DefaultConfigFile returns default TOML configuration.
func DefaultConfigFile() ConfigFile {
	return ConfigFile{
		Remote: RemoteConfig{
			URL: "",
		},
		Helper: HelperConfig{
			Command:  DefaultHelperCommand,
			Args:     nil,
			NotesRef: DefaultNotesRef,
		},
		Logging: LoggingConfig{
			Dir:   "~/.local/state/hgbridge/logs",
			Level: "info",
		},
	}
}
