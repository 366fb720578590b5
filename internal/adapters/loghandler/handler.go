// Package loghandler provides compact slog handlers for CLI output.
package loghandler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"time"
)

const (
	ansiReset   = "\033[0m"
	ansiDim     = "\033[2m"
	ansiCyan    = "\033[36m"
	ansiGreen   = "\033[32m"
	ansiYellow  = "\033[33m"
	ansiBoldRed = "\033[1;31m"
)

// Options configures the Handler.
type Options struct {
	// Level is the minimum level to log. Defaults to slog.LevelInfo
	// when nil.
	Level slog.Leveler

	// UseColor enables ANSI color codes in the output.
	UseColor bool
}

// Handler is a compact, optionally colored slog.Handler for terminal
// output. Records are rendered as "hh:mm:ss LEVEL message key=value".
type Handler struct {
	w      io.Writer
	opts   Options
	mu     *sync.Mutex
	prefix []byte
	groups []string
}

// NewHandler creates a new Handler writing to w.
func NewHandler(w io.Writer, opts *Options) *Handler {
	h := &Handler{
		w:  w,
		mu: &sync.Mutex{},
	}
	if opts != nil {
		h.opts = *opts
	}
	return h
}

func (h *Handler) minLevel() slog.Level {
	if h.opts.Level == nil {
		return slog.LevelInfo
	}
	return h.opts.Level.Level()
}

// Enabled reports whether the handler handles records at the given level.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.minLevel()
}

// Handle formats and writes the log record.
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	buf := make([]byte, 0, 128)

	buf = h.appendClock(buf, r.Time)
	buf = append(buf, ' ')
	buf = h.appendLevel(buf, r.Level)
	if r.Message != "" {
		buf = append(buf, ' ')
		buf = append(buf, r.Message...)
	}

	buf = append(buf, h.prefix...)
	r.Attrs(func(a slog.Attr) bool {
		buf = h.appendAttr(buf, a, h.groups)
		return true
	})

	buf = append(buf, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf)
	return err
}

// WithAttrs returns a new Handler with the given attributes appended.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	h2 := h.clone()
	for _, a := range attrs {
		h2.prefix = h2.appendAttr(h2.prefix, a, h.groups)
	}
	return h2
}

// WithGroup returns a new Handler with the given group name appended.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := h.clone()
	h2.groups = append(h2.groups, name)
	return h2
}

func (h *Handler) clone() *Handler {
	return &Handler{
		w:      h.w,
		opts:   h.opts,
		mu:     h.mu,
		prefix: append([]byte(nil), h.prefix...),
		groups: append([]string(nil), h.groups...),
	}
}

func (h *Handler) appendClock(buf []byte, t time.Time) []byte {
	if h.opts.UseColor {
		buf = append(buf, ansiDim...)
	}
	hour, minute, sec := t.Clock()
	buf = appendPad2(buf, hour)
	buf = append(buf, ':')
	buf = appendPad2(buf, minute)
	buf = append(buf, ':')
	buf = appendPad2(buf, sec)
	if h.opts.UseColor {
		buf = append(buf, ansiReset...)
	}
	return buf
}

func (h *Handler) appendLevel(buf []byte, level slog.Level) []byte {
	var label, color string
	switch {
	case level >= slog.LevelError:
		label, color = "ERROR", ansiBoldRed
	case level >= slog.LevelWarn:
		label, color = "WARN", ansiYellow
	case level >= slog.LevelInfo:
		label, color = "INFO", ansiGreen
	default:
		label, color = "DEBUG", ansiCyan
	}
	if h.opts.UseColor {
		buf = append(buf, color...)
	}
	buf = append(buf, label...)
	if h.opts.UseColor {
		buf = append(buf, ansiReset...)
	}
	return buf
}

func (h *Handler) appendAttr(buf []byte, a slog.Attr, groups []string) []byte {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return buf
	}

	// Groups expand to dotted keys.
	if a.Value.Kind() == slog.KindGroup {
		sub := a.Value.Group()
		if a.Key != "" {
			groups = append(append([]string(nil), groups...), a.Key)
		}
		for _, ga := range sub {
			buf = h.appendAttr(buf, ga, groups)
		}
		return buf
	}

	buf = append(buf, ' ')
	if h.opts.UseColor {
		buf = append(buf, ansiDim...)
	}
	for _, g := range groups {
		buf = append(buf, g...)
		buf = append(buf, '.')
	}
	buf = append(buf, a.Key...)
	buf = append(buf, '=')
	buf = appendValue(buf, a.Value)
	if h.opts.UseColor {
		buf = append(buf, ansiReset...)
	}
	return buf
}

func appendValue(buf []byte, v slog.Value) []byte {
	var s string
	switch v.Kind() {
	case slog.KindString:
		s = v.String()
	case slog.KindInt64:
		return strconv.AppendInt(buf, v.Int64(), 10)
	case slog.KindBool:
		return strconv.AppendBool(buf, v.Bool())
	case slog.KindDuration:
		s = v.Duration().String()
	default:
		s = fmt.Sprint(v.Any())
	}
	if needsQuoting(s) {
		return strconv.AppendQuote(buf, s)
	}
	return append(buf, s...)
}

func needsQuoting(s string) bool {
	if s == "" {
		return true
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c <= ' ' || c == '"' || c == '\\' || c == '=' {
			return true
		}
	}
	return false
}

func appendPad2(buf []byte, n int) []byte {
	if n < 10 {
		buf = append(buf, '0')
	}
	return strconv.AppendInt(buf, int64(n), 10)
}

// Verify interface compliance at compile time.
var _ slog.Handler = (*Handler)(nil)
