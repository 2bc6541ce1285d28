package choropleth

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/tdewolff/choropleth/log"
	"github.com/tdewolff/test"
)

func TestParseHighlights(t *testing.T) {
	h, ok := ParseHighlights([]byte(`{"Alpha ": "#ff0000", " los ANGELES": "rgb(0,0,255)"}`))
	test.That(t, ok)
	test.T(t, len(h), 2)
	test.T(t, h, Highlights{"alpha": "#ff0000", "los angeles": "rgb(0,0,255)"})
	test.T(t, h.Keys(), []string{"alpha", "los angeles"})

	color, ok := h.Color("alpha")
	test.That(t, ok)
	test.String(t, color, "#ff0000")
	test.That(t, !h.Has("Alpha "))
}

func TestParseHighlightsDuplicates(t *testing.T) {
	h, ok := ParseHighlights([]byte(`{"Kern": "#111111", " KERN ": "#222222", "kern": "#333333"}`))
	test.That(t, ok)
	test.T(t, h, Highlights{"kern": "#333333"})

	h, ok = ParseHighlights([]byte(`{"kern": "#333333", "Kern\t": "#111111"}`))
	test.That(t, ok)
	test.T(t, h, Highlights{"kern": "#111111"})
}

func TestParseHighlightsValues(t *testing.T) {
	h, ok := ParseHighlights([]byte(`{"a": "", "b": null, "c": false, "d": 0, "e": "red", "f": 5}`))
	test.That(t, ok)
	test.T(t, h, Highlights{
		"a": DefaultHighlightColor,
		"b": DefaultHighlightColor,
		"c": DefaultHighlightColor,
		"d": DefaultHighlightColor,
		"e": "red",
		"f": "5",
	})

	h, ok = ParseHighlights([]byte(`{}`))
	test.That(t, ok)
	test.T(t, len(h), 0)
}

func TestParseHighlightsInvalid(t *testing.T) {
	var tests = []string{
		``,
		`null`,
		`"alpha"`,
		`42`,
		`true`,
		`["Alpha", "#ff0000"]`,
		`[{"Alpha": "#ff0000"}]`,
		`{"Alpha": `,
		`{Alpha: "#ff0000"}`,
	}
	for _, tt := range tests {
		t.Run(tt, func(t *testing.T) {
			h, ok := ParseHighlights([]byte(tt))
			test.That(t, !ok)
			test.T(t, len(h), 0)
		})
	}
}

func TestNewHighlights(t *testing.T) {
	h := NewHighlights([2]string{"Alpha", "#f00"}, [2]string{" ALPHA", "#0f0"}, [2]string{"Beta", ""})
	test.T(t, h, Highlights{"alpha": "#0f0", "beta": DefaultHighlightColor})

	var nilHighlights Highlights
	test.That(t, !nilHighlights.Has("alpha"))
}

func TestLoadHighlights(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/highlights.json":
			w.Write([]byte(`{"Alpha ": "#ff0000"}`))
		case "/array.json":
			w.Write([]byte(`["Alpha"]`))
		case "/broken.json":
			w.Write([]byte(`{"Alpha"`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	dir := t.TempDir()
	filename := filepath.Join(dir, "highlights.json")
	test.Error(t, os.WriteFile(filename, []byte(`{"Beta": "blue"}`), 0644))

	l := log.Discard()
	f := NewFetcher(l.Logger)
	ctx := context.Background()
	test.T(t, LoadHighlights(ctx, f, srv.URL+"/highlights.json", l.Logger), Highlights{"alpha": "#ff0000"})
	test.T(t, LoadHighlights(ctx, f, filename, l.Logger), Highlights{"beta": "blue"})
	test.T(t, len(LoadHighlights(ctx, f, srv.URL+"/array.json", l.Logger)), 0)
	test.T(t, len(LoadHighlights(ctx, f, srv.URL+"/broken.json", l.Logger)), 0)
	test.T(t, len(LoadHighlights(ctx, f, srv.URL+"/missing.json", l.Logger)), 0)
	test.T(t, len(LoadHighlights(ctx, f, filepath.Join(dir, "missing.json"), l.Logger)), 0)
	test.T(t, len(LoadHighlights(ctx, f, "", l.Logger)), 0)

	for _, e := range l.Transcript.Entries() {
		test.That(t, e.Level < slog.LevelWarn, "highlight failures are not errors: "+e.String())
	}
}
