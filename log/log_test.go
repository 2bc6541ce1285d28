package log

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tdewolff/test"
)

func TestParseLevel(t *testing.T) {
	var tests = []struct {
		name  string
		level slog.Level
	}{
		{"", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"ok", LevelOK},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, err := ParseLevel(tt.name)
			test.Error(t, err)
			test.T(t, level, tt.level)
		})
	}

	_, err := ParseLevel("verbose")
	test.That(t, err != nil)
}

func TestLevelName(t *testing.T) {
	test.String(t, LevelName(LevelOK), "OK")
	test.String(t, LevelName(slog.LevelWarn), "WARN")
	test.That(t, slog.LevelInfo < LevelOK && LevelOK < slog.LevelWarn)
}

func TestTranscript(t *testing.T) {
	l := Discard()
	l.Info("Starting…")
	l.OK("Libraries OK")
	l.OKf("Layers added: %d", 58)
	l.Debug("Fitting", "count", 2)
	l.Warn("No geometry")
	l.Errorf("❌ Fetch/parse error: %v", "EOF")

	test.T(t, l.Transcript.Messages(), []string{
		"Starting…",
		"Libraries OK",
		"Layers added: 58",
		"Fitting count=2",
		"No geometry",
		"❌ Fetch/parse error: EOF",
	})
	test.String(t, l.Transcript.String(), "INFO Starting…\nOK Libraries OK\nOK Layers added: 58\nDEBUG Fitting count=2\nWARN No geometry\nERROR ❌ Fetch/parse error: EOF\n")

	last, ok := l.Transcript.Last(LevelOK)
	test.That(t, ok)
	test.String(t, last.Message, "❌ Fetch/parse error: EOF")
	last, ok = l.Transcript.Last(slog.LevelWarn)
	test.That(t, ok)
	test.T(t, last.Level, slog.LevelError)

	l2 := Discard()
	l2.Info("only info")
	_, ok = l2.Transcript.Last(slog.LevelWarn)
	test.That(t, !ok)
}

func TestTranscriptAttrs(t *testing.T) {
	l := Discard()
	sub := l.With("url", "counties.geojson")
	sub.Info("Fetch")
	test.T(t, l.Transcript.Messages(), []string{"Fetch url=counties.geojson"})
}

func TestConsole(t *testing.T) {
	buf := &bytes.Buffer{}
	l, err := New(Options{Level: "ok", Console: buf})
	test.Error(t, err)
	l.Info("hidden")
	l.OK("Done.")
	l.Error("Failed to rasterize SVG.")

	// not a terminal, no color codes
	test.String(t, buf.String(), "Done.\nFailed to rasterize SVG.\n")
	test.T(t, len(l.Transcript.Entries()), 2)
	test.That(t, !IsTerminal(buf))
}

func TestLogFile(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "countymap.log")
	l, err := New(Options{Level: "info", File: filename})
	test.Error(t, err)
	l.OK("Libraries OK")
	test.Error(t, l.Close())

	b, err := os.ReadFile(filename)
	test.Error(t, err)
	test.That(t, strings.Contains(string(b), `"level":"OK"`), string(b))
	test.That(t, strings.Contains(string(b), `"msg":"Libraries OK"`), string(b))
}

func TestNewError(t *testing.T) {
	_, err := New(Options{Level: "loud"})
	test.That(t, err != nil)
}
