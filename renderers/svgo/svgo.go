// Package svgo renders feature layers directly as SVG elements with github.com/ajstarks/svgo.
package svgo

import (
	"bytes"
	"context"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	svg "github.com/ajstarks/svgo"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/tdewolff/choropleth"
)

// Precision is the number of decimals of path coordinates.
var Precision = 2

// Renderer is a choropleth.Renderer writing one SVG path element per feature.
type Renderer struct{}

// New returns an svgo renderer.
func New() *Renderer {
	return &Renderer{}
}

type feature struct {
	geometry orb.Geometry
	style    choropleth.Style
}

// Scene is painted into an SVG document when it settles.
type Scene struct {
	features []feature
	viewport choropleth.Viewport
	dirty    bool
	painted  []byte
	closed   bool
}

// RenderFeatures keeps the styled features that have areal or linear geometry.
func (r *Renderer) RenderFeatures(fc *geojson.FeatureCollection, style choropleth.StyleFunc) (choropleth.Scene, error) {
	s := &Scene{}
	for _, f := range fc.Features {
		if f == nil || f.Geometry == nil || !drawable(f.Geometry) {
			continue
		}
		s.features = append(s.features, feature{f.Geometry, style(f)})
	}
	return s, nil
}

func drawable(g orb.Geometry) bool {
	switch g := g.(type) {
	case orb.Polygon, orb.MultiPolygon, orb.Ring, orb.LineString, orb.MultiLineString:
		return true
	case orb.Collection:
		for _, sub := range g {
			if drawable(sub) {
				return true
			}
		}
	}
	return false
}

// Len returns the number of rendered features.
func (s *Scene) Len() int {
	return len(s.features)
}

// SetViewport moves the view, the scene is painted again when settled.
func (s *Scene) SetViewport(v choropleth.Viewport) {
	s.viewport = v
	s.dirty = true
}

// Viewport returns the last set viewport.
func (s *Scene) Viewport() choropleth.Viewport {
	return s.viewport
}

// Settled paints the scene if the viewport changed.
func (s *Scene) Settled(ctx context.Context) error {
	if s.closed {
		return fmt.Errorf("scene is closed")
	} else if !s.dirty {
		return nil
	}

	v := s.viewport
	buf := &bytes.Buffer{}
	w, h := int(math.Ceil(v.Width)), int(math.Ceil(v.Height))
	doc := svg.New(buf)
	doc.Startview(w, h, 0, 0, w, h)
	doc.Gstyle("stroke-linecap:round;stroke-linejoin:round;fill-rule:evenodd")
	for _, f := range s.features {
		if err := ctx.Err(); err != nil {
			return err
		}
		d, closed := pathData(f.geometry, v)
		if d == "" {
			continue
		}
		doc.Path(d, styleAttr(f.style, closed))
	}
	doc.Gend()
	doc.End()

	s.painted = buf.Bytes()
	s.dirty = false
	return nil
}

// Close releases the painted document.
func (s *Scene) Close() error {
	s.closed = true
	s.features = nil
	s.painted = nil
	return nil
}

// SerializeScene returns the painted SVG document.
func (r *Renderer) SerializeScene(scene choropleth.Scene) ([]byte, error) {
	s, ok := scene.(*Scene)
	if !ok {
		return nil, fmt.Errorf("unsupported scene type %T", scene)
	} else if s.closed {
		return nil, fmt.Errorf("scene is closed")
	} else if len(s.features) == 0 || s.painted == nil {
		return nil, choropleth.ErrNoOverlay
	}
	return s.painted, nil
}

func pathData(g orb.Geometry, v choropleth.Viewport) (string, bool) {
	sb := &strings.Builder{}
	closed := false
	var write func(orb.Geometry)
	write = func(g orb.Geometry) {
		switch g := g.(type) {
		case orb.Polygon:
			writePolygon(sb, g, v)
			closed = true
		case orb.MultiPolygon:
			for _, poly := range g {
				writePolygon(sb, poly, v)
			}
			closed = true
		case orb.Ring:
			writePolygon(sb, orb.Polygon{g}, v)
			closed = true
		case orb.LineString:
			writeLine(sb, g, v, false)
		case orb.MultiLineString:
			for _, ls := range g {
				writeLine(sb, ls, v, false)
			}
		case orb.Collection:
			for _, sub := range g {
				write(sub)
			}
		}
	}
	write(g)
	return strings.TrimSpace(sb.String()), closed
}

func writePolygon(sb *strings.Builder, poly orb.Polygon, v choropleth.Viewport) {
	for _, ring := range poly {
		writeLine(sb, orb.LineString(ring), v, true)
	}
}

func writeLine(sb *strings.Builder, ls orb.LineString, v choropleth.Viewport, closeRing bool) {
	if len(ls) == 0 || !closeRing && len(ls) < 2 {
		return
	}
	for i, p := range ls {
		x, y := v.ProjectSVG(p)
		if i == 0 {
			sb.WriteString("M")
		} else {
			sb.WriteString("L")
		}
		sb.WriteString(num(x))
		sb.WriteString(" ")
		sb.WriteString(num(y))
	}
	if closeRing {
		sb.WriteString("Z")
	}
	sb.WriteString(" ")
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', Precision, 64)
}

func styleAttr(style choropleth.Style, closed bool) string {
	sb := &strings.Builder{}
	if closed {
		fill := style.Fill()
		fmt.Fprintf(sb, "fill:%s", hex(fill))
		if fill.A != 255 {
			fmt.Fprintf(sb, ";fill-opacity:%s", strconv.FormatFloat(float64(fill.A)/255.0, 'f', 3, 64))
		}
	} else {
		sb.WriteString("fill:none")
	}
	fmt.Fprintf(sb, ";stroke:%s;stroke-width:%s", hex(style.Stroke()), strconv.FormatFloat(style.StrokeWeight, 'f', -1, 64))
	return sb.String()
}

// hex formats a premultiplied color without its alpha.
func hex(c color.RGBA) string {
	if c.A == 0 {
		return "#000000"
	} else if c.A != 255 {
		a := float64(c.A) / 255.0
		c.R = uint8(math.Min(255.0, float64(c.R)/a+0.5))
		c.G = uint8(math.Min(255.0, float64(c.G)/a+0.5))
		c.B = uint8(math.Min(255.0, float64(c.B)/a+0.5))
	}
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
