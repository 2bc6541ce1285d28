package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/tdewolff/argp"
	"github.com/tdewolff/choropleth"
	"github.com/tdewolff/choropleth/log"
	"github.com/tdewolff/choropleth/renderers/svgo"
	"github.com/tdewolff/choropleth/renderers/vector"
)

type Render struct {
	Geometry   string  `short:"g" default:"data/california-counties.geojson" desc:"GeoJSON FeatureCollection (file, http(s):// or bucket URL)"`
	Highlights string  `short:"l" default:"data/highlights.json" desc:"JSON object of county name to color, empty disables highlighting"`
	Output     string  `short:"o" default:"california-counties.png" desc:"Output image (.png, .jpg, .gif, .tif)"`
	SVG        string  `desc:"Also write the serialized SVG document"`
	Minify     bool    `desc:"Minify the written SVG document"`
	Width      float64 `short:"W" default:"1200" desc:"Image width in pixels"`
	Height     float64 `short:"H" default:"800" desc:"Image height in pixels"`
	Padding    float64 `default:"16" desc:"Padding around the fitted bounds in pixels"`
	Background string  `default:"#e6f2ff" desc:"Background color"`
	Backend    string  `short:"b" default:"vector" desc:"Scene renderer: vector or svgo"`
	Preview    bool    `short:"p" desc:"Open the image in the system viewer"`
	LogLevel   string  `name:"log-level" default:"info" desc:"Log level: debug, info, warn, or error"`
	LogFile    string  `name:"log-file" desc:"Write a JSON log to this rotated file"`
}

func main() {
	root := argp.NewCmd(&Render{}, "Render a map of California counties with highlighted counties to an image")
	root.Parse()
}

// renderer returns the scene renderer by name.
func renderer(name string) (choropleth.Renderer, error) {
	switch name {
	case "", "vector":
		return vector.New(), nil
	case "svgo":
		return svgo.New(), nil
	}
	return nil, fmt.Errorf("unknown backend: %s", name)
}

// Options converts the command line options to run options.
func (cmd *Render) Options() (choropleth.Options, error) {
	r, err := renderer(cmd.Backend)
	if err != nil {
		return choropleth.Options{}, err
	}

	opts := choropleth.DefaultOptions
	opts.Geometry = cmd.Geometry
	opts.Highlights = cmd.Highlights
	opts.Width = cmd.Width
	opts.Height = cmd.Height
	opts.Padding = cmd.Padding
	opts.Background = cmd.Background
	opts.Renderer = r
	opts.Export = choropleth.ExportOptions{
		Filename:    cmd.Output,
		SVGFilename: cmd.SVG,
		MinifySVG:   cmd.Minify,
		Preview:     cmd.Preview,
	}
	return opts, nil
}

func (cmd *Render) Run() error {
	l, err := log.New(log.Options{
		Level:   cmd.LogLevel,
		Console: os.Stderr,
		File:    cmd.LogFile,
	})
	if err != nil {
		return err
	}
	defer l.Close()

	opts, err := cmd.Options()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := choropleth.Run(ctx, opts, l)
	if err != nil {
		return err
	}
	l.Debug("Image", "width", res.Image.Bounds().Dx(), "height", res.Image.Bounds().Dy(), "bytes", len(res.PNG))
	return nil
}
