// Package helper spawns and talks to the mercurial-side helper process.
//
// The helper is a separate binary connected over stdio. Requests are single
// lines of the form "<op> <args...>"; responses are either "ok <len>"
// followed by a payload of exactly len bytes, "err <code> <message>" for an
// operation the helper rejected, "abort <message>" when the helper wants the
// whole command stopped, or a bare "abort" when the helper already wrote its
// diagnostics to stderr and the command must stop without printing again.
package helper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"

	"github.com/hgbridge/hgbridge/internal/usecase"
)

// Adapter implements HelperPort by spawning the configured helper command.
type Adapter struct {
	logger  *slog.Logger
	command string
	args    []string
}

// New creates a new helper adapter.
func New(logger *slog.Logger, command string, args []string) *Adapter {
	if logger == nil {
		panic("helper adapter requires logger")
	}
	if command == "" {
		command = usecase.DefaultHelperCommand
	}
	return &Adapter{logger: logger, command: command, args: args}
}

// Start spawns the helper connected to url and returns a live connection.
// The helper's stderr is passed through so it can report errors directly
// to the user.
func (a *Adapter) Start(ctx context.Context, url string) (usecase.HelperConn, error) {
	args := make([]string, 0, len(a.args)+1)
	args = append(args, a.args...)
	args = append(args, url)

	cmd := exec.CommandContext(ctx, a.command, args...) // #nosec G204 - command comes from config
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("helper stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("helper stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, &usecase.HelperFailedError{Op: "start", Message: err.Error()}
	}
	a.logger.DebugContext(ctx, "Helper started", "command", a.command, "url", url, "pid", cmd.Process.Pid)

	transport := &pipeTransport{w: stdin, r: stdout}
	wait := func() (int, error) {
		if err := cmd.Wait(); err != nil {
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				return exitErr.ExitCode(), nil
			}
			return 0, err
		}
		return 0, nil
	}
	return NewConn(transport, wait, a.logger), nil
}
