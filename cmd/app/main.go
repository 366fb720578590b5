package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/spf13/cobra"

	"github.com/hgbridge/hgbridge/internal/adapters/loghandler"
	"github.com/hgbridge/hgbridge/internal/app"
	"github.com/hgbridge/hgbridge/internal/usecase"
)

func main() {
	os.Exit(runMain())
}

func runMain() int {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
		syscall.SIGHUP,
	)
	defer stop()

	cmd, exitCode := newRootCmd(app.NewDefaultDependencies)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsageError
	}
	return *exitCode
}

// depsFactory builds the dependency set for a command. The runtime
// config is needed because the helper adapter is configured from it.
type depsFactory func(*slog.Logger, usecase.Config) *usecase.Dependencies

func newRootCmd(factory depsFactory) (*cobra.Command, *int) {
	exitCode := 0
	cmd := &cobra.Command{
		Use:           "hgbridge",
		Short:         "Bridge between git and mercurial repositories",
		SilenceUsage:  false,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
			exitCode = exitUsageError
		},
	}
	cmd.SetErr(os.Stderr)

	cmd.AddCommand(newInitCmd(factory, &exitCode))
	cmd.AddCommand(newSetupCmd(factory, &exitCode))
	cmd.AddCommand(newFetchCmd(factory, &exitCode))
	cmd.AddCommand(newResolveCmd(factory, &exitCode))
	cmd.AddCommand(newStatusCmd(factory, &exitCode))
	cmd.AddCommand(newVersionCmd())

	return cmd, &exitCode
}

// cmdRuntime holds everything a bridge command needs after config
// resolution.
type cmdRuntime struct {
	cfg     *usecase.Config
	deps    *usecase.Dependencies
	logger  *slog.Logger
	homeDir string
	cleanup func()
}

// initRuntime loads the config file, derives the runtime config and
// builds real dependencies. The returned cleanup closes the log file.
func initRuntime(ctx context.Context, factory depsFactory, verbose bool) (*cmdRuntime, error) {
	logger := setupLogger(verbose)

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, usecase.Abortf("cannot resolve home directory: %v", err)
	}

	bootstrap := factory(logger, usecase.Config{})
	configFile, err := loadConfigFile(ctx, bootstrap, homeDir)
	if err != nil {
		return nil, err
	}

	cfg, err := usecase.RuntimeConfigFromFile(configFile, homeDir)
	if err != nil {
		return nil, err
	}
	cfg.Verbose = verbose

	fileLogger, cleanup := withFileLogging(logger, cfg.LogDir, cfg.LogLevel, verbose)
	return &cmdRuntime{
		cfg:     cfg,
		deps:    factory(fileLogger, *cfg),
		logger:  fileLogger,
		homeDir: homeDir,
		cleanup: cleanup,
	}, nil
}

func loadConfigFile(
	ctx context.Context,
	deps *usecase.Dependencies,
	homeDir string,
) (usecase.ConfigFile, error) {
	if deps == nil || deps.Config == nil || deps.FileSystem == nil {
		return usecase.ConfigFile{}, fmt.Errorf("dependencies not available: %w", usecase.ErrUsage)
	}
	configPath := usecase.DefaultConfigPath(deps.FileSystem, homeDir)
	if info, err := deps.FileSystem.Stat(ctx, configPath); err == nil {
		if info != nil && info.IsDir() {
			return usecase.ConfigFile{}, fmt.Errorf("config path is a directory: %w", usecase.ErrUsage)
		}
	} else if !deps.FileSystem.IsNotExist(err) {
		return usecase.ConfigFile{}, usecase.Abortf("stat config: %v", err)
	}
	cfg, err := deps.Config.Load(ctx, configPath)
	if err != nil {
		return usecase.ConfigFile{}, usecase.Abortf("load config: %v", err)
	}
	return cfg, nil
}

func setupLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := loghandler.NewHandler(os.Stderr, &loghandler.Options{
		Level:    level,
		UseColor: shouldUseColor(os.Stderr),
	})
	return slog.New(handler)
}

func withFileLogging(logger *slog.Logger, logDir, logLevel string, verbose bool) (*slog.Logger, func()) {
	dir := strings.TrimSpace(logDir)
	if dir == "" {
		return logger, func() {}
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		logger.Warn("Cannot create log directory", "path", dir, "error", err)
		return logger, func() {}
	}
	filename := "hgbridge-" + time.Now().Format("2006-01-02") + ".log"
	logPath := filepath.Join(dir, filename)

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) //nolint:gosec // path from config
	if err != nil {
		logger.Warn("Cannot open log file", "path", logPath, "error", err)
		return logger, func() {}
	}

	fileLevel := parseLogLevel(logLevel)
	if verbose && fileLevel > slog.LevelDebug {
		fileLevel = slog.LevelDebug
	}
	fileHandler := loghandler.NewHandler(f, &loghandler.Options{
		Level:    fileLevel,
		UseColor: false,
	})

	combined := loghandler.NewMultiHandler(logger.Handler(), fileHandler)
	return slog.New(combined), func() { _ = f.Close() }
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func shouldUseColor(f *os.File) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
