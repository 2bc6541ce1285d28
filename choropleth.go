// Package choropleth renders GeoJSON county maps with optionally highlighted counties to bitmap images.
//
// A run is a linear sequence of stages, see State. Loading the geometry, validating it, serializing the rendered
// scene, and rasterizing it are fatal when they fail, while the highlight document is optional and any failure to
// load it means that no county is highlighted.
package choropleth

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/paulmach/orb/geojson"
	"github.com/tdewolff/choropleth/log"
	"github.com/tdewolff/choropleth/rasterizer"
)

// DefaultFilename is the name of the exported image.
const DefaultFilename = "california-counties.png"

// State is a stage of a run.
type State int

// States in the order they are run.
const (
	StateInit State = iota
	StateLoadLibraries
	StateFetchGeometry
	StateValidate
	StateLoadHighlights
	StateRenderLayer
	StateComputeBounds
	StateFitViewport
	StateWaitSettle
	StateSerialize
	StateRasterize
	StateExport
	StateDone
)

var stateNames = []string{
	"INIT",
	"LOAD_LIBRARIES",
	"FETCH_GEOMETRY",
	"VALIDATE",
	"LOAD_HIGHLIGHTS",
	"RENDER_LAYER",
	"COMPUTE_BOUNDS",
	"FIT_VIEWPORT",
	"WAIT_SETTLE",
	"SERIALIZE",
	"RASTERIZE",
	"EXPORT",
	"DONE",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// StageError is a fatal error that halted a run.
type StageError struct {
	State State
	Err   error
}

func (err *StageError) Error() string {
	return fmt.Sprintf("%v: %v", err.State, err.Err)
}

func (err *StageError) Unwrap() error {
	return err.Err
}

// RasterizeFunc draws an SVG document over a background, zero sizes are taken from the document.
type RasterizeFunc func(svg []byte, width, height int, background color.Color) (*image.RGBA, error)

// Options configure a run.
type Options struct {
	Geometry   string // location of the GeoJSON FeatureCollection
	Highlights string // location of the highlight JSON object, empty disables highlighting

	Width      float64 // pixels
	Height     float64 // pixels
	Padding    float64 // pixels around the fitted bounds
	Background string  // CSS color

	Renderer  Renderer
	Rasterize RasterizeFunc // defaults to rasterizer.Rasterize
	Fetcher   *Fetcher      // defaults to NewFetcher

	Export ExportOptions
}

// DefaultOptions are the options of a run without a renderer.
var DefaultOptions = Options{
	Geometry:   "data/california-counties.geojson",
	Highlights: "data/highlights.json",
	Width:      1200.0,
	Height:     800.0,
	Padding:    16.0,
	Background: DefaultBackground,
	Export: ExportOptions{
		Filename: DefaultFilename,
	},
}

// Result is the outcome of a run, only complete when State is StateDone.
type Result struct {
	Image    *image.RGBA
	PNG      []byte
	SVG      []byte
	Filename string

	Features    int      // number of rendered features
	Highlighted int      // number of highlighted features
	Viewport    Viewport // final viewport
	State       State    // last state reached
}

// Run loads the geometry and highlights, renders, fits, serializes, rasterizes, and exports the map. The first
// fatal error stops the run and is returned as a *StageError.
func Run(ctx context.Context, opts Options, l *log.Logger) (*Result, error) {
	if l == nil {
		l = log.Discard()
	}
	res := &Result{State: StateInit}
	fail := func(state State, err error, msg string) (*Result, error) {
		res.State = state
		l.Error(msg)
		return res, &StageError{state, err}
	}
	l.Info("Starting…")

	background, err := ParseColor(opts.Background)
	if err != nil {
		return fail(StateInit, err, "❌ Bad background color: "+err.Error())
	} else if opts.Width <= 0.0 || opts.Height <= 0.0 {
		return fail(StateInit, fmt.Errorf("bad size %gx%g", opts.Width, opts.Height), "❌ Image size must be positive.")
	} else if opts.Export.Filename != "" {
		if _, err := rasterizer.WriterFor(opts.Export.Filename); err != nil {
			return fail(StateInit, err, "❌ "+err.Error())
		}
	}

	// LOAD_LIBRARIES
	res.State = StateLoadLibraries
	if opts.Renderer == nil {
		return fail(StateLoadLibraries, ErrNoRenderer, "Renderer failed to load.")
	}
	rasterize := opts.Rasterize
	if rasterize == nil {
		rasterize = rasterizer.Rasterize
	}
	fetcher := opts.Fetcher
	if fetcher == nil {
		fetcher = NewFetcher(l.Logger)
	} else if fetcher.Log == nil {
		f := *fetcher
		f.Log = l.Logger
		fetcher = &f
	}
	l.OK("Libraries OK")

	// FETCH_GEOMETRY
	res.State = StateFetchGeometry
	data, err := fetcher.Fetch(ctx, opts.Geometry)
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			return fail(StateFetchGeometry, err, "❌ Could not fetch GeoJSON.")
		}
		return fail(StateFetchGeometry, err, "❌ Fetch/parse error: "+err.Error())
	}

	// VALIDATE
	res.State = StateValidate
	fc, err := ParseGeometry(data)
	if errors.Is(err, ErrNotFeatureCollection) {
		return fail(StateValidate, err, "❌ Not a GeoJSON FeatureCollection.")
	} else if err != nil {
		return fail(StateValidate, err, "❌ Fetch/parse error: "+err.Error())
	}

	// LOAD_HIGHLIGHTS
	res.State = StateLoadHighlights
	highlights := LoadHighlights(ctx, fetcher, opts.Highlights, l.Logger)

	// RENDER_LAYER
	res.State = StateRenderLayer
	scene, err := opts.Renderer.RenderFeatures(fc, highlights.Styler())
	if err != nil {
		return fail(StateRenderLayer, err, "❌ Render error: "+err.Error())
	}
	defer scene.Close()
	res.Features = scene.Len()
	l.OKf("Layers added: %d", scene.Len())

	// COMPUTE_BOUNDS
	res.State = StateComputeBounds
	bound, subset, ok := TargetBounds(fc, highlights)
	if subset {
		res.Highlighted = countHighlighted(fc, highlights)
		l.Debug("Fitting highlighted counties", "count", res.Highlighted)
	}

	// FIT_VIEWPORT
	res.State = StateFitViewport
	var viewport Viewport
	if ok {
		viewport = FitViewport(bound, opts.Width, opts.Height, opts.Padding)
	} else {
		l.Warn("No geometry to fit, using the default view")
		viewport = DefaultViewport(opts.Width, opts.Height, opts.Padding)
	}
	scene.SetViewport(viewport)
	res.Viewport = viewport

	// WAIT_SETTLE
	res.State = StateWaitSettle
	if err := scene.Settled(ctx); err != nil {
		return fail(StateWaitSettle, err, "❌ Scene did not settle: "+err.Error())
	}

	// SERIALIZE
	res.State = StateSerialize
	svg, err := opts.Renderer.SerializeScene(scene)
	if errors.Is(err, ErrNoOverlay) {
		return fail(StateSerialize, err, "No SVG overlay found.")
	} else if err != nil {
		return fail(StateSerialize, err, "❌ Serialize error: "+err.Error())
	}
	res.SVG = svg

	// RASTERIZE
	res.State = StateRasterize
	img, err := rasterize(svg, 0, 0, background)
	if err != nil {
		return fail(StateRasterize, err, "Failed to rasterize SVG.")
	}
	res.Image = img

	// EXPORT
	res.State = StateExport
	if err := res.export(opts.Export, l); err != nil {
		return fail(StateExport, err, "❌ Export error: "+err.Error())
	}
	if err := scene.Close(); err != nil {
		l.Warn("Could not release scene", "error", err)
	}

	res.State = StateDone
	l.OK("Done.")
	return res, nil
}

func countHighlighted(fc *geojson.FeatureCollection, h Highlights) int {
	n := 0
	for _, f := range fc.Features {
		if h.Has(FeatureKey(f)) {
			n++
		}
	}
	return n
}

// encodePNG encodes the image as PNG.
func encodePNG(img image.Image) ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := rasterizer.PNGWriter()(buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
