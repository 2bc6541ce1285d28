package log

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Entry is a single diagnostic message.
type Entry struct {
	Time    time.Time
	Level   slog.Level
	Message string // including attributes
}

func (e Entry) String() string {
	return LevelName(e.Level) + " " + e.Message
}

// Transcript is a slog.Handler that keeps all messages in the order they were logged.
type Transcript struct {
	level slog.Level
	attrs []slog.Attr

	mu      *sync.Mutex
	entries *[]Entry
}

// NewTranscript returns an empty transcript for records at or above level.
func NewTranscript(level slog.Level) *Transcript {
	return &Transcript{
		level:   level,
		mu:      &sync.Mutex{},
		entries: &[]Entry{},
	}
}

func (t *Transcript) Enabled(_ context.Context, level slog.Level) bool {
	return t.level <= level
}

func (t *Transcript) Handle(_ context.Context, r slog.Record) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	*t.entries = append(*t.entries, Entry{
		Time:    r.Time,
		Level:   r.Level,
		Message: formatRecord(r, t.attrs),
	})
	return nil
}

func (t *Transcript) WithAttrs(attrs []slog.Attr) slog.Handler {
	t2 := *t
	t2.attrs = append(append([]slog.Attr{}, t.attrs...), attrs...)
	return &t2
}

func (t *Transcript) WithGroup(string) slog.Handler {
	return t
}

// Entries returns a copy of the logged entries.
func (t *Transcript) Entries() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Entry{}, *t.entries...)
}

// Messages returns the logged messages.
func (t *Transcript) Messages() []string {
	entries := t.Entries()
	msgs := make([]string, len(entries))
	for i, e := range entries {
		msgs[i] = e.Message
	}
	return msgs
}

// Last returns the last entry at or above level.
func (t *Transcript) Last(level slog.Level) (Entry, bool) {
	entries := t.Entries()
	for i := len(entries) - 1; 0 <= i; i-- {
		if level <= entries[i].Level {
			return entries[i], true
		}
	}
	return Entry{}, false
}

func (t *Transcript) String() string {
	sb := &strings.Builder{}
	for _, e := range t.Entries() {
		sb.WriteString(e.String())
		sb.WriteString("\n")
	}
	return sb.String()
}
