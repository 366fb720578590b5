package helper

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/hgbridge/hgbridge/internal/usecase"
)

// maxPayloadSize bounds a single response payload (64 MiB).
const maxPayloadSize = 64 << 20

// Conn is one live helper connection. Queries are serialized; using the
// connection after Close reports a HelperClosedError.
type Conn struct {
	mu     sync.Mutex
	closed bool

	transport io.ReadWriteCloser
	br        *bufio.Reader
	wait      func() (int, error)
	logger    *slog.Logger
}

// NewConn wraps a transport in the helper wire protocol. wait is called once
// on Close and returns the helper's exit code; it may be nil for transports
// with no process behind them.
func NewConn(transport io.ReadWriteCloser, wait func() (int, error), logger *slog.Logger) *Conn {
	if logger == nil {
		panic("helper conn requires logger")
	}
	return &Conn{
		transport: transport,
		br:        bufio.NewReader(transport),
		wait:      wait,
		logger:    logger,
	}
}

// Query sends one operation and returns the response payload.
func (c *Conn) Query(ctx context.Context, op string, args ...string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, &usecase.HelperClosedError{Op: op}
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("helper query %s: %w", op, usecase.ErrInterrupted)
	}

	request, err := encodeRequest(op, args)
	if err != nil {
		return nil, err
	}
	if _, err := io.WriteString(c.transport, request); err != nil {
		return nil, &usecase.HelperFailedError{Op: op, Message: fmt.Sprintf("write request: %v", err)}
	}

	status, err := c.br.ReadString('\n')
	if err != nil {
		return nil, &usecase.HelperFailedError{Op: op, Message: fmt.Sprintf("read response: %v", err)}
	}
	return c.decodeResponse(op, strings.TrimSuffix(status, "\n"))
}

// Close shuts the connection down and reaps the helper. A helper that exits
// with a non-zero status fails the close. Closing twice is misuse and
// reports a HelperClosedError like any other use-after-close.
func (c *Conn) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return &usecase.HelperClosedError{Op: "close"}
	}
	c.closed = true

	if err := c.transport.Close(); err != nil {
		c.logger.DebugContext(ctx, "Helper transport close failed", "error", err)
	}
	if c.wait == nil {
		return nil
	}
	code, err := c.wait()
	if err != nil {
		return &usecase.HelperFailedError{Op: "finish", Message: err.Error()}
	}
	if code != 0 {
		return &usecase.HelperFailedError{Op: "finish", Code: code}
	}
	return nil
}

// encodeRequest builds the request line, rejecting content that would break
// the line-oriented framing.
func encodeRequest(op string, args []string) (string, error) {
	if op == "" || strings.ContainsAny(op, " \n") {
		return "", fmt.Errorf("invalid helper operation %q: %w", op, usecase.ErrUsage)
	}
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, op)
	for _, arg := range args {
		if strings.ContainsAny(arg, " \n") {
			return "", fmt.Errorf("invalid helper argument %q: %w", arg, usecase.ErrUsage)
		}
		parts = append(parts, arg)
	}
	return strings.Join(parts, " ") + "\n", nil
}

// decodeResponse interprets one status line, reading the payload when the
// helper reports success.
func (c *Conn) decodeResponse(op, status string) ([]byte, error) {
	verb, rest, _ := strings.Cut(status, " ")
	switch verb {
	case "ok":
		size, err := strconv.Atoi(rest)
		if err != nil || size < 0 || size > maxPayloadSize {
			return nil, &usecase.HelperFailedError{Op: op, Message: fmt.Sprintf("bad payload size %q", rest)}
		}
		payload := make([]byte, size)
		if _, err := io.ReadFull(c.br, payload); err != nil {
			return nil, &usecase.HelperFailedError{Op: op, Message: fmt.Sprintf("read payload: %v", err)}
		}
		return payload, nil

	case "err":
		codeStr, message, _ := strings.Cut(rest, " ")
		code, err := strconv.Atoi(codeStr)
		if err != nil {
			return nil, &usecase.HelperFailedError{Op: op, Message: fmt.Sprintf("malformed error status %q", status)}
		}
		return nil, &usecase.HelperFailedError{Op: op, Code: code, Message: message}

	case "abort":
		if rest == "" {
			// The helper already wrote its diagnostics to stderr.
			return nil, usecase.SilentAbort()
		}
		return nil, usecase.Abortf("%s", rest)

	default:
		return nil, &usecase.HelperFailedError{Op: op, Message: fmt.Sprintf("unexpected response %q", status)}
	}
}

var _ usecase.HelperConn = (*Conn)(nil)
