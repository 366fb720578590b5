package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// StatusOptions controls what the status report covers.
type StatusOptions struct {
	HomeDir    string
	ConfigPath string
	Probe      bool // spawn the helper to check availability
}

// Status collects bridge configuration and repository state.
func Status(ctx context.Context, cfg *Config, opts StatusOptions, deps *Dependencies, logger *slog.Logger) (StatusReport, error) {
	if logger == nil {
		panic("logger is required")
	}
	if err := requireDeps(deps, depFileSystem|depGit|depLock); err != nil {
		return StatusReport{}, err
	}

	report := StatusReport{
		ConfigPath:    opts.ConfigPath,
		HelperCommand: cfg.HelperCommand,
	}

	if opts.ConfigPath != "" {
		if _, err := deps.FileSystem.Stat(ctx, opts.ConfigPath); err == nil {
			report.ConfigExists = true
		}
	}

	repoPath, err := deps.Git.RepoRoot(ctx)
	if err != nil {
		// Status outside a repository is still useful.
		return report, nil
	}
	report.InRepo = true
	report.RepoPath = repoPath

	gitDir, err := deps.Git.GitDir(ctx, repoPath)
	if err != nil {
		return StatusReport{}, fmt.Errorf("resolve git dir: %w", err)
	}

	if url, err := remoteURL(ctx, cfg, deps, repoPath); err == nil {
		report.RemoteURL = url
	}

	revMap, err := loadRevMap(ctx, deps.FileSystem, gitDir)
	if err != nil {
		return StatusReport{}, err
	}
	report.Mappings = len(revMap)

	lockPath := deps.FileSystem.Join(gitDir, metadataDirName, "lock")
	if held, info, err := deps.Lock.IsLocked(ctx, lockPath); err == nil && held {
		report.LockHeld = true
		report.LockOwnerPID = info.PID
	}

	if opts.Probe && deps.Helper != nil && report.RemoteURL != "" {
		probeHelper(ctx, deps, &report, logger)
	}

	return report, nil
}

// probeHelper spawns the helper once to check it responds. Probe failures are
// reported, not returned: an unavailable helper is a status, not an error.
func probeHelper(ctx context.Context, deps *Dependencies, report *StatusReport, logger *slog.Logger) {
	conn, err := deps.Helper.Start(ctx, report.RemoteURL)
	if err != nil {
		logger.DebugContext(ctx, "Helper probe failed to start", "error", err)
		return
	}
	defer func() {
		_ = conn.Close(ctx)
	}()

	payload, err := conn.Query(ctx, "version")
	if err != nil {
		logger.DebugContext(ctx, "Helper probe query failed", "error", err)
		return
	}
	report.HelperOK = true
	report.HelperVersion = strings.TrimSpace(string(payload))
}

type statusPalette struct {
	reset    string
	bold     string
	boldCyan string
	green    string
	red      string
	dim      string
}

func newStatusPalette(useColor bool) statusPalette {
	if !useColor {
		return statusPalette{}
	}
	return statusPalette{
		reset:    "\033[0m",
		bold:     "\033[1m",
		boldCyan: "\033[1;36m",
		green:    "\033[32m",
		red:      "\033[31m",
		dim:      "\033[2m",
	}
}

// FormatStatus renders a status report for terminal output.
func FormatStatus(report StatusReport, useColor bool) string {
	p := newStatusPalette(useColor)
	var b strings.Builder

	fmt.Fprintf(&b, "%shgbridge Status%s\n", p.bold, p.reset)
	b.WriteString(strings.Repeat("─", 54))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "%sConfiguration:%s\n", p.boldCyan, p.reset)
	appendStatusLine(&b, "Config file:", formatExistence(report.ConfigPath, report.ConfigExists, p))
	appendStatusLine(&b, "Helper:", report.HelperCommand)

	if !report.InRepo {
		b.WriteString("\n  (not inside a git repository)\n")
		return b.String()
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "%sCurrent Repository:%s %s\n", p.boldCyan, p.reset, report.RepoPath)
	appendStatusLine(&b, "Mercurial remote:", formatMissing(report.RemoteURL, "(not configured)", p))
	appendStatusLine(&b, "Mappings:", fmt.Sprintf("%d", report.Mappings))
	if report.LockHeld {
		appendStatusLine(&b, "Metadata lock:", fmt.Sprintf("%sheld by pid %d%s", p.red, report.LockOwnerPID, p.reset))
	} else {
		appendStatusLine(&b, "Metadata lock:", "free")
	}

	switch {
	case report.HelperOK:
		appendStatusLine(&b, "Helper:", fmt.Sprintf("%sok%s %s", p.green, p.reset, report.HelperVersion))
	case report.RemoteURL != "":
		appendStatusLine(&b, "Helper:", fmt.Sprintf("%s(use --probe)%s", p.dim, p.reset))
	}

	return b.String()
}

func appendStatusLine(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "  %-20s %s\n", label, value)
}

func formatExistence(path string, exists bool, p statusPalette) string {
	if path == "" {
		return fmt.Sprintf("%s(none)%s", p.dim, p.reset)
	}
	if exists {
		return fmt.Sprintf("%s %s✓%s", path, p.green, p.reset)
	}
	return fmt.Sprintf("%s %s(missing)%s", path, p.red, p.reset)
}

func formatMissing(value, placeholder string, p statusPalette) string {
	if strings.TrimSpace(value) == "" {
		return fmt.Sprintf("%s%s%s", p.dim, placeholder, p.reset)
	}
	return value
}
