package main

import (
	"testing"

	"github.com/tdewolff/choropleth"
	"github.com/tdewolff/choropleth/renderers/svgo"
	"github.com/tdewolff/choropleth/renderers/vector"
	"github.com/tdewolff/test"
)

func TestRenderer(t *testing.T) {
	r, err := renderer("")
	test.Error(t, err)
	_, ok := r.(*vector.Renderer)
	test.That(t, ok, "vector is the default")

	r, err = renderer("svgo")
	test.Error(t, err)
	_, ok = r.(*svgo.Renderer)
	test.That(t, ok)

	_, err = renderer("cairo")
	test.That(t, err != nil)
}

func TestOptions(t *testing.T) {
	cmd := &Render{
		Geometry:   "https://example.com/counties.geojson",
		Highlights: "",
		Output:     "out/map.jpg",
		SVG:        "out/map.svg",
		Minify:     true,
		Width:      600,
		Height:     400,
		Padding:    8,
		Background: "white",
		Backend:    "svgo",
		Preview:    true,
	}
	opts, err := cmd.Options()
	test.Error(t, err)
	test.String(t, opts.Geometry, cmd.Geometry)
	test.String(t, opts.Highlights, "")
	test.Float(t, opts.Width, 600.0)
	test.Float(t, opts.Height, 400.0)
	test.Float(t, opts.Padding, 8.0)
	test.String(t, opts.Background, "white")
	test.T(t, opts.Export, choropleth.ExportOptions{
		Filename:    "out/map.jpg",
		SVGFilename: "out/map.svg",
		MinifySVG:   true,
		Preview:     true,
	})

	cmd.Backend = "unknown"
	_, err = cmd.Options()
	test.That(t, err != nil)
}
