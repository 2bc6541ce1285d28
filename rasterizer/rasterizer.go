// Package rasterizer draws SVG documents onto images using github.com/srwiley/oksvg and github.com/srwiley/rasterx.
package rasterizer

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"
)

// DefaultWidth and DefaultHeight are used when the SVG document has no view box.
const (
	DefaultWidth  = 1200
	DefaultHeight = 800
)

var ErrRasterize = errors.New("failed to rasterize SVG")

// Size returns the pixel size of the SVG's view box, or the default size if it has none.
func Size(svg []byte) (int, int, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(svg), oksvg.IgnoreErrorMode)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrRasterize, err)
	}
	w, h := iconSize(icon)
	return w, h, nil
}

func iconSize(icon *oksvg.SvgIcon) (int, int) {
	w, h := int(math.Ceil(icon.ViewBox.W)), int(math.Ceil(icon.ViewBox.H))
	if w <= 0 {
		w = DefaultWidth
	}
	if h <= 0 {
		h = DefaultHeight
	}
	return w, h
}

// Rasterize draws the SVG document stretched to width by height pixels over a background color. A zero width or
// height is taken from the document's view box. Transparent areas of the document show the background.
func Rasterize(svg []byte, width, height int, background color.Color) (img *image.RGBA, err error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(svg), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRasterize, err)
	}
	if width <= 0 || height <= 0 {
		width, height = iconSize(icon)
	}

	defer func() {
		if r := recover(); r != nil {
			img, err = nil, fmt.Errorf("%w: %v", ErrRasterize, r)
		}
	}()

	img = image.NewRGBA(image.Rect(0, 0, width, height))
	if background != nil {
		draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)
	}

	icon.SetTarget(0.0, 0.0, float64(width), float64(height))
	scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
	dasher := rasterx.NewDasher(width, height, scanner)
	icon.Draw(dasher, 1.0)
	return img, nil
}
