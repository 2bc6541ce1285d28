package choropleth

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/browser"
	"github.com/tdewolff/minify/v2"
	minifySVG "github.com/tdewolff/minify/v2/svg"

	"github.com/tdewolff/choropleth/log"
	"github.com/tdewolff/choropleth/rasterizer"
)

// ExportOptions configure where the rendered map is written.
type ExportOptions struct {
	Filename    string // image file, its extension selects the format; empty only keeps the image in memory
	SVGFilename string // optional serialized SVG document
	MinifySVG   bool
	Preview     bool // open the image in the system's viewer
}

// openFile is replaced in tests.
var openFile = browser.OpenFile

func (res *Result) export(opts ExportOptions, l *log.Logger) error {
	b, err := encodePNG(res.Image)
	if err != nil {
		return err
	}
	res.PNG = b
	res.Filename = opts.Filename

	if opts.Filename != "" {
		if err := writeImage(opts.Filename, res); err != nil {
			return err
		}
		l.OKf("Download %s: %s", strings.ToUpper(strings.TrimPrefix(filepath.Ext(opts.Filename), ".")), opts.Filename)
	}

	if opts.SVGFilename != "" {
		svg := res.SVG
		if opts.MinifySVG {
			if svg, err = MinifySVG(svg); err != nil {
				return err
			}
		}
		if err := os.WriteFile(opts.SVGFilename, svg, 0644); err != nil {
			return err
		}
		l.Info(fmt.Sprintf("Wrote %s", opts.SVGFilename), "bytes", len(svg))
	}

	if opts.Preview {
		if opts.Filename == "" {
			l.Warn("Nothing to preview without an output file")
		} else if err := openFile(opts.Filename); err != nil {
			// the image has been written, a missing viewer is not fatal
			l.Warn("Could not open preview", "error", err)
		}
	}
	return nil
}

func writeImage(filename string, res *Result) error {
	if ext := strings.ToLower(filepath.Ext(filename)); ext == "" || ext == ".png" {
		return os.WriteFile(filename, res.PNG, 0644)
	}

	writer, err := rasterizer.WriterFor(filename)
	if err != nil {
		return err
	}
	buf := &bytes.Buffer{}
	if err := writer(buf, res.Image); err != nil {
		return err
	}
	return os.WriteFile(filename, buf.Bytes(), 0644)
}

// MinifySVG minifies an SVG document.
func MinifySVG(svg []byte) ([]byte, error) {
	m := minify.New()
	m.AddFunc("image/svg+xml", minifySVG.Minify)
	return m.Bytes("image/svg+xml", svg)
}
