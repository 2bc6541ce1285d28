package choropleth

import (
	"image/color"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/tdewolff/test"
)

func TestResolveStyle(t *testing.T) {
	h := NewHighlights([2]string{"Alpha ", "#ff0000"})

	style := ResolveStyle("alpha", h)
	test.T(t, style, Style{StrokeColor: "#000", StrokeWeight: 3.0, FillColor: "#ff0000", FillOpacity: 1.0})
	test.T(t, ResolveStyle("alpha", h), style)

	test.T(t, ResolveStyle("beta", h), DefaultStyle)
	test.T(t, ResolveStyle("", h), DefaultStyle)
	test.T(t, ResolveStyle("alpha", nil), DefaultStyle)
	test.T(t, DefaultStyle, Style{StrokeColor: "#000", StrokeWeight: 2.0, FillColor: "#bdbdbd", FillOpacity: 1.0})
}

func TestStyler(t *testing.T) {
	h := NewHighlights([2]string{"Alpha ", "#ff0000"})
	styler := h.Styler()

	alpha := geojson.NewFeature(orb.Polygon{})
	alpha.Properties["NAME"] = "ALPHA"
	beta := geojson.NewFeature(orb.Polygon{})
	beta.Properties["name"] = "Beta"

	// styling is independent of the order of the features
	for _, f := range []*geojson.Feature{beta, alpha, beta, alpha} {
		if f == alpha {
			test.T(t, styler(f).FillColor, "#ff0000")
			test.Float(t, styler(f).StrokeWeight, 3.0)
		} else {
			test.T(t, styler(f).FillColor, "#bdbdbd")
			test.Float(t, styler(f).StrokeWeight, 2.0)
		}
	}
}

func TestStyleColors(t *testing.T) {
	test.T(t, DefaultStyle.Fill(), color.RGBA{189, 189, 189, 255})
	test.T(t, DefaultStyle.Stroke(), color.RGBA{0, 0, 0, 255})
	test.T(t, HighlightStyle("").Fill(), color.RGBA{255, 204, 0, 255})
	test.T(t, HighlightStyle("not a color").Fill(), color.RGBA{255, 204, 0, 255})
	test.T(t, HighlightStyle("blue").Fill(), color.RGBA{0, 0, 255, 255})

	style := HighlightStyle("#ff0000")
	style.FillOpacity = 0.5
	test.T(t, style.Fill(), color.RGBA{128, 0, 0, 128})
}
