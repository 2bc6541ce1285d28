package choropleth

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/tdewolff/canvas"
	"github.com/wroge/wgs84/v2"
)

// BoundPadding is the fraction of the bounds' span added on each side before fitting.
const BoundPadding = 0.05

// DefaultCenter and DefaultScale define the view when there is no geometry to fit, they show all of California.
var (
	DefaultCenter = orb.Point{-119.5, 37.5}
	DefaultScale  = 256.0 * math.Exp2(6.0) / (2.0 * math.Pi * 6378137.0) // pixels per meter at zoom level 6
)

const maxLatitude = 85.05112878

var webMercator = wgs84.Transform(wgs84.EPSG(4326), wgs84.EPSG(3857))

// Mercator projects a longitude/latitude point to Web Mercator (EPSG:3857) in meters.
func Mercator(p orb.Point) (float64, float64) {
	lat := math.Max(-maxLatitude, math.Min(maxLatitude, p[1]))
	x, y, _ := webMercator(p[0], lat, 0.0)
	return x, y
}

// PadBound extends the bounds by ratio times its width and height on each side.
func PadBound(b orb.Bound, ratio float64) orb.Bound {
	dx := math.Abs(b.Max[0]-b.Min[0]) * ratio
	dy := math.Abs(b.Max[1]-b.Min[1]) * ratio
	return orb.Bound{
		Min: orb.Point{b.Min[0] - dx, b.Min[1] - dy},
		Max: orb.Point{b.Max[0] + dx, b.Max[1] + dy},
	}
}

// Extent returns the union of the bounds of the features for which keep returns true.
func Extent(fc *geojson.FeatureCollection, keep func(*geojson.Feature) bool) (orb.Bound, bool) {
	var bound orb.Bound
	found := false
	for _, f := range fc.Features {
		if keep != nil && !keep(f) {
			continue
		}
		b, ok := FeatureBound(f)
		if !ok {
			continue
		} else if !found {
			bound, found = b, true
		} else {
			bound = bound.Union(b)
		}
	}
	return bound, found
}

// TargetBounds returns the padded bounds of the highlighted features, or of all features when none is highlighted.
// The second return value reports whether the highlighted subset was used, the third whether any bounds were found.
func TargetBounds(fc *geojson.FeatureCollection, h Highlights) (orb.Bound, bool, bool) {
	if 0 < len(h) {
		if b, ok := Extent(fc, func(f *geojson.Feature) bool {
			return h.Has(FeatureKey(f))
		}); ok {
			return PadBound(b, BoundPadding), true, true
		}
	}
	if b, ok := Extent(fc, nil); ok {
		return PadBound(b, BoundPadding), false, true
	}
	return orb.Bound{}, false, false
}

// Viewport maps Web Mercator coordinates onto a canvas of Width by Height pixels.
type Viewport struct {
	Bound   orb.Bound // fitted longitude/latitude bounds
	Width   float64
	Height  float64
	Padding float64
	Scale   float64       // pixels per meter
	View    canvas.Matrix // Web Mercator to canvas coordinates, with the Y axis pointing up
}

// FitViewport returns the viewport that centers the bounds on the canvas, as large as possible within the padding.
func FitViewport(b orb.Bound, width, height, padding float64) Viewport {
	x0, y0 := Mercator(b.Min)
	x1, y1 := Mercator(b.Max)
	w, h := x1-x0, y1-y0

	availW := math.Max(1.0, width-2.0*padding)
	availH := math.Max(1.0, height-2.0*padding)
	scale := DefaultScale
	if 0.0 < w && 0.0 < h {
		scale = math.Min(availW/w, availH/h)
	} else if 0.0 < w {
		scale = availW / w
	} else if 0.0 < h {
		scale = availH / h
	}
	return newViewport(b, orb.Point{(x0 + x1) / 2.0, (y0 + y1) / 2.0}, width, height, padding, scale)
}

// DefaultViewport shows the default center at the default scale.
func DefaultViewport(width, height, padding float64) Viewport {
	x, y := Mercator(DefaultCenter)
	return newViewport(orb.Bound{Min: DefaultCenter, Max: DefaultCenter}, orb.Point{x, y}, width, height, padding, DefaultScale)
}

func newViewport(b orb.Bound, center orb.Point, width, height, padding, scale float64) Viewport {
	return Viewport{
		Bound:   b,
		Width:   width,
		Height:  height,
		Padding: padding,
		Scale:   scale,
		View:    canvas.Identity.Translate(width/2.0, height/2.0).Scale(scale, scale).Translate(-center[0], -center[1]),
	}
}

// Project returns the canvas coordinates of a longitude/latitude point with the Y axis pointing up.
func (v Viewport) Project(p orb.Point) (float64, float64) {
	x, y := Mercator(p)
	q := v.View.Dot(canvas.Point{X: x, Y: y})
	return q.X, q.Y
}

// ProjectSVG returns the image coordinates of a longitude/latitude point with the Y axis pointing down.
func (v Viewport) ProjectSVG(p orb.Point) (float64, float64) {
	x, y := v.Project(p)
	return x, v.Height - y
}
