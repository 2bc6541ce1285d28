package choropleth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"

	"github.com/iancoleman/orderedmap"
)

// Highlights maps normalized county names to CSS colors. It is not modified after construction.
type Highlights map[string]string

// NewHighlights builds a highlight mapping from (name, color) pairs in order. Names are normalized and
// later pairs overwrite earlier ones with the same normalized name. Empty colors are replaced by DefaultHighlightColor.
func NewHighlights(pairs ...[2]string) Highlights {
	h := make(Highlights, len(pairs))
	for _, pair := range pairs {
		h.set(pair[0], pair[1])
	}
	return h
}

func (h Highlights) set(name, color string) {
	if color == "" {
		color = DefaultHighlightColor
	}
	h[NormalizeName(name)] = color
}

// Color returns the highlight color for a normalized name.
func (h Highlights) Color(key string) (string, bool) {
	if h == nil {
		return "", false
	}
	color, ok := h[key]
	return color, ok
}

// Has returns true if the normalized name is highlighted.
func (h Highlights) Has(key string) bool {
	_, ok := h.Color(key)
	return ok
}

// Keys returns the sorted normalized names.
func (h Highlights) Keys() []string {
	keys := make([]string, 0, len(h))
	for key := range h {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// ParseHighlights parses a JSON object of county name to color. Keys are normalized in document order, so
// that the last of several keys differing only in case or whitespace wins. Any other JSON value, or invalid
// JSON, returns false.
func ParseHighlights(data []byte) (Highlights, bool) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return nil, false
	}

	o := orderedmap.New()
	if err := json.Unmarshal(data, &o); err != nil {
		return nil, false
	}

	h := make(Highlights, len(o.Keys()))
	for _, name := range o.Keys() {
		v, _ := o.Get(name)
		h.set(name, colorValue(v))
	}
	return h, true
}

// colorValue formats a highlight value, empty-like values (null, false, 0, "") become an empty string.
func colorValue(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if !v {
			return ""
		}
	case float64:
		if v == 0.0 || v != v {
			return ""
		}
	}
	return fmt.Sprint(v)
}

// LoadHighlights fetches and parses the highlight mapping at location. The highlight source is optional: an empty
// location, a failed fetch, or a malformed document all return nil without error.
func LoadHighlights(ctx context.Context, f *Fetcher, location string, log *slog.Logger) Highlights {
	if location == "" {
		log.Debug("Highlights disabled")
		return nil
	}

	data, err := f.Fetch(ctx, location)
	if err != nil {
		log.Debug("No highlights", "location", location, "error", err)
		return nil
	}

	h, ok := ParseHighlights(data)
	if !ok {
		log.Debug("No highlights: not a JSON object", "location", location)
		return nil
	}
	log.Info(fmt.Sprintf("Highlights loaded: %d", len(h)))
	return h
}
