package choropleth

import (
	"image/color"

	"github.com/paulmach/orb/geojson"
)

// Style is the stroke and fill of a single feature, colors are CSS colors.
type Style struct {
	StrokeColor  string
	StrokeWeight float64
	FillColor    string
	FillOpacity  float64
}

// DefaultStyle is used for features that are not highlighted.
var DefaultStyle = Style{
	StrokeColor:  "#000",
	StrokeWeight: 2.0,
	FillColor:    "#bdbdbd",
	FillOpacity:  1.0,
}

// HighlightStyle returns the style of a highlighted feature.
func HighlightStyle(fill string) Style {
	if fill == "" {
		fill = DefaultHighlightColor
	}
	return Style{
		StrokeColor:  "#000",
		StrokeWeight: 3.0,
		FillColor:    fill,
		FillOpacity:  1.0,
	}
}

// Fill returns the fill color with the opacity applied. Fill colors that cannot be parsed, which only come from
// highlight documents, fall back to DefaultHighlightColor.
func (s Style) Fill() color.RGBA {
	c, err := ParseColor(s.FillColor)
	if err != nil {
		c = MustParseColor(DefaultHighlightColor)
	}
	return withOpacity(c, s.FillOpacity)
}

// Stroke returns the stroke color, black if it cannot be parsed.
func (s Style) Stroke() color.RGBA {
	c, err := ParseColor(s.StrokeColor)
	if err != nil {
		return color.RGBA{0, 0, 0, 255}
	}
	return c
}

// StyleFunc returns the style of a feature.
type StyleFunc func(*geojson.Feature) Style

// ResolveStyle returns the style for a normalized county name.
func ResolveStyle(key string, h Highlights) Style {
	if fill, ok := h.Color(key); ok {
		return HighlightStyle(fill)
	}
	return DefaultStyle
}

// Styler returns a StyleFunc that highlights the features whose normalized name is in h.
func (h Highlights) Styler() StyleFunc {
	return func(f *geojson.Feature) Style {
		return ResolveStyle(FeatureKey(f), h)
	}
}
