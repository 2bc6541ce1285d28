// Package vector renders feature layers with github.com/tdewolff/canvas and serializes them with its SVG renderer.
package vector

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/svg"
	"github.com/tdewolff/choropleth"
)

// Renderer is a choropleth.Renderer producing tdewolff/canvas scenes.
type Renderer struct {
	SVG *svg.Options
}

// New returns a renderer with the default SVG options.
func New() *Renderer {
	return &Renderer{
		SVG: &svg.Options{
			EmbedFonts:    false,
			ImageEncoding: canvas.Lossless,
		},
	}
}

type layer struct {
	path   *canvas.Path // in Web Mercator coordinates
	closed bool
	style  choropleth.Style
}

// Scene holds the projected feature paths and the canvas they were last drawn to.
type Scene struct {
	layers []layer

	mu       sync.Mutex
	viewport choropleth.Viewport
	canvas   *canvas.Canvas
	done     chan struct{}
	closed   bool
}

// RenderFeatures styles every feature and converts its geometry to paths. Points are not part of the layer.
func (r *Renderer) RenderFeatures(fc *geojson.FeatureCollection, style choropleth.StyleFunc) (choropleth.Scene, error) {
	s := &Scene{}
	for _, f := range fc.Features {
		if f == nil || f.Geometry == nil {
			continue
		}
		p, closed := geometryPath(f.Geometry)
		if p.Empty() {
			continue
		}
		s.layers = append(s.layers, layer{
			path:   p,
			closed: closed,
			style:  style(f),
		})
	}
	return s, nil
}

// geometryPath converts a geometry to a path, closed is true for areal geometries.
func geometryPath(g orb.Geometry) (*canvas.Path, bool) {
	p := &canvas.Path{}
	closed := false
	switch g := g.(type) {
	case orb.Polygon:
		appendPolygon(p, g)
		closed = true
	case orb.MultiPolygon:
		for _, poly := range g {
			appendPolygon(p, poly)
		}
		closed = true
	case orb.LineString:
		appendLine(p, g)
	case orb.MultiLineString:
		for _, ls := range g {
			appendLine(p, ls)
		}
	case orb.Ring:
		appendPolygon(p, orb.Polygon{g})
		closed = true
	case orb.Collection:
		for _, sub := range g {
			q, subClosed := geometryPath(sub)
			p = p.Append(q)
			closed = closed || subClosed
		}
	}
	return p, closed
}

func appendPolygon(p *canvas.Path, poly orb.Polygon) {
	for _, ring := range poly {
		if len(ring) == 0 {
			continue
		}
		x, y := choropleth.Mercator(ring[0])
		p.MoveTo(x, y)
		for _, point := range ring[1:] {
			x, y = choropleth.Mercator(point)
			p.LineTo(x, y)
		}
		p.Close()
	}
}

func appendLine(p *canvas.Path, ls orb.LineString) {
	if len(ls) < 2 {
		return
	}
	x, y := choropleth.Mercator(ls[0])
	p.MoveTo(x, y)
	for _, point := range ls[1:] {
		x, y = choropleth.Mercator(point)
		p.LineTo(x, y)
	}
}

// Len returns the number of rendered features.
func (s *Scene) Len() int {
	return len(s.layers)
}

// SetViewport redraws the scene through the viewport in the background.
func (s *Scene) SetViewport(v choropleth.Viewport) {
	s.mu.Lock()
	s.viewport = v
	s.canvas = nil
	done := make(chan struct{})
	s.done = done
	s.mu.Unlock()

	go func() {
		c := s.draw(v)
		s.mu.Lock()
		if s.done == done && !s.closed {
			s.canvas = c
		}
		s.mu.Unlock()
		close(done)
	}()
}

// Viewport returns the last set viewport.
func (s *Scene) Viewport() choropleth.Viewport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewport
}

func (s *Scene) draw(v choropleth.Viewport) *canvas.Canvas {
	c := canvas.New(v.Width, v.Height)
	ctx := canvas.NewContext(c)
	ctx.SetStrokeCapper(canvas.RoundCap)
	ctx.SetStrokeJoiner(canvas.RoundJoin)
	ctx.SetFillRule(canvas.EvenOdd)
	for _, l := range s.layers {
		if l.closed {
			ctx.SetFillColor(l.style.Fill())
		} else {
			ctx.SetFillColor(canvas.Transparent)
		}
		ctx.SetStrokeColor(l.style.Stroke())
		ctx.SetStrokeWidth(l.style.StrokeWeight)
		ctx.DrawPath(0.0, 0.0, l.path.Copy().Transform(v.View))
	}
	return c
}

// Settled waits until the last viewport change has been drawn.
func (s *Scene) Settled(ctx context.Context) error {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if done == nil {
		return fmt.Errorf("scene has no viewport")
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close drops the drawn canvas and paths.
func (s *Scene) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.canvas = nil
	s.layers = nil
	return nil
}

// SerializeScene writes the drawn canvas as a standalone SVG document.
func (r *Renderer) SerializeScene(scene choropleth.Scene) ([]byte, error) {
	s, ok := scene.(*Scene)
	if !ok {
		return nil, fmt.Errorf("unsupported scene type %T", scene)
	}

	s.mu.Lock()
	c, closed := s.canvas, s.closed
	s.mu.Unlock()
	if closed {
		return nil, fmt.Errorf("scene is closed")
	} else if len(s.layers) == 0 || c == nil {
		return nil, choropleth.ErrNoOverlay
	}

	opts := svg.DefaultOptions
	if r.SVG != nil {
		opts = *r.SVG
	}
	buf := &bytes.Buffer{}
	w := svg.New(buf, c.W, c.H, &opts)
	c.RenderTo(w)
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
