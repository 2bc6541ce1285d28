// Package log provides the diagnostics log of a run: a log/slog logger that keeps an ordered transcript of all
// messages and mirrors them to the console and an optional rotated log file.
package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LevelOK marks successfully completed steps, it sits between info and warning.
const LevelOK = slog.LevelInfo + 2

// Logger wraps slog.Logger and keeps the transcript of the run.
type Logger struct {
	*slog.Logger
	Transcript *Transcript
	LogFile    string

	file *lumberjack.Logger
}

// Options configure the sinks of a Logger.
type Options struct {
	Level   string    // debug, info, warn or error
	Console io.Writer // nil disables console output
	File    string    // rotated JSON log file, empty disables
}

// ParseLevel parses a level name.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "ok":
		return LevelOK, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("invalid log level: %s", level)
}

// New returns a logger writing to the transcript and the configured sinks.
func New(opts Options) (*Logger, error) {
	lvl, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	l := &Logger{
		Transcript: NewTranscript(lvl),
	}
	handlers := []slog.Handler{l.Transcript}
	if opts.Console != nil {
		handlers = append(handlers, NewConsoleHandler(opts.Console, lvl))
	}
	if opts.File != "" {
		l.file = &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    8, // MB
			MaxBackups: 3,
		}
		l.LogFile = opts.File
		handlers = append(handlers, slog.NewJSONHandler(l.file, &slog.HandlerOptions{
			Level:       lvl,
			ReplaceAttr: replaceLevel,
		}))
	}
	l.Logger = slog.New(fanout(handlers))
	return l, nil
}

// Discard returns a logger that only keeps a transcript.
func Discard() *Logger {
	l, _ := New(Options{Level: "debug"})
	return l
}

// OK logs a successfully completed step.
func (l *Logger) OK(msg string, args ...any) {
	l.Logger.Log(context.Background(), LevelOK, msg, args...)
}

// OKf is a convenience wrapper that logs a formatted message at LevelOK.
func (l *Logger) OKf(format string, args ...any) {
	l.Logger.Log(context.Background(), LevelOK, fmt.Sprintf(format, args...))
}

// Errorf logs a formatted message at the error level.
func (l *Logger) Errorf(format string, args ...any) {
	l.Logger.Error(fmt.Sprintf(format, args...))
}

// Close closes the log file.
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// LevelName returns the name of a level, including LevelOK.
func LevelName(level slog.Level) string {
	if level == LevelOK {
		return "OK"
	}
	return level.String()
}

func replaceLevel(groups []string, a slog.Attr) slog.Attr {
	if a.Key == slog.LevelKey && len(groups) == 0 {
		if level, ok := a.Value.Any().(slog.Level); ok {
			a.Value = slog.StringValue(LevelName(level))
		}
	}
	return a
}

// fanout sends records to every handler that is enabled for its level.
type fanout []slog.Handler

func (hs fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range hs {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (hs fanout) Handle(ctx context.Context, r slog.Record) error {
	var first error
	for _, h := range hs {
		if h.Enabled(ctx, r.Level) {
			if err := h.Handle(ctx, r.Clone()); err != nil && first == nil {
				first = err
			}
		}
	}
	return first
}

func (hs fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	hs2 := make(fanout, len(hs))
	for i, h := range hs {
		hs2[i] = h.WithAttrs(attrs)
	}
	return hs2
}

func (hs fanout) WithGroup(name string) slog.Handler {
	hs2 := make(fanout, len(hs))
	for i, h := range hs {
		hs2[i] = h.WithGroup(name)
	}
	return hs2
}

// IsTerminal returns true if w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// ConsoleHandler writes one line per record, coloured by level when writing to a terminal.
type ConsoleHandler struct {
	w      io.Writer
	level  slog.Level
	attrs  []slog.Attr
	colors map[slog.Level]*color.Color
}

// NewConsoleHandler returns a console handler for records at or above level.
func NewConsoleHandler(w io.Writer, level slog.Level) *ConsoleHandler {
	colors := map[slog.Level]*color.Color{
		slog.LevelDebug: color.New(color.Faint),
		LevelOK:         color.New(color.FgGreen),
		slog.LevelWarn:  color.New(color.FgYellow),
		slog.LevelError: color.New(color.FgRed, color.Bold),
	}
	if !IsTerminal(w) {
		for _, c := range colors {
			c.DisableColor()
		}
	}
	return &ConsoleHandler{
		w:      w,
		level:  level,
		colors: colors,
	}
}

func (h *ConsoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.level <= level
}

func (h *ConsoleHandler) Handle(_ context.Context, r slog.Record) error {
	line := formatRecord(r, h.attrs)
	if c, ok := h.colors[r.Level]; ok {
		line = c.Sprint(line)
	}
	_, err := fmt.Fprintln(h.w, line)
	return err
}

func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h2 := *h
	h2.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &h2
}

func (h *ConsoleHandler) WithGroup(string) slog.Handler {
	return h
}

func formatRecord(r slog.Record, attrs []slog.Attr) string {
	sb := &strings.Builder{}
	sb.WriteString(r.Message)
	write := func(a slog.Attr) bool {
		fmt.Fprintf(sb, " %s=%v", a.Key, a.Value)
		return true
	}
	for _, a := range attrs {
		write(a)
	}
	r.Attrs(write)
	return sb.String()
}
