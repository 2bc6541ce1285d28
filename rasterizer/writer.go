package rasterizer

import (
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/image/tiff"
)

// Writer encodes an image.
type Writer func(io.Writer, image.Image) error

// PNGWriter writes the image as a PNG file.
func PNGWriter() Writer {
	return func(w io.Writer, img image.Image) error {
		return png.Encode(w, img)
	}
}

// JPGWriter writes the image as a JPG file.
func JPGWriter(opts *jpeg.Options) Writer {
	return func(w io.Writer, img image.Image) error {
		return jpeg.Encode(w, img, opts)
	}
}

// GIFWriter writes the image as a GIF file.
func GIFWriter(opts *gif.Options) Writer {
	return func(w io.Writer, img image.Image) error {
		return gif.Encode(w, img, opts)
	}
}

// TIFFWriter writes the image as a TIFF file.
func TIFFWriter(opts *tiff.Options) Writer {
	return func(w io.Writer, img image.Image) error {
		return tiff.Encode(w, img, opts)
	}
}

// WriterFor returns the image writer for a filename's extension, PNG when it has none.
func WriterFor(filename string) (Writer, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case "", ".png":
		return PNGWriter(), nil
	case ".jpg", ".jpeg":
		return JPGWriter(&jpeg.Options{Quality: 90}), nil
	case ".gif":
		return GIFWriter(nil), nil
	case ".tif", ".tiff":
		return TIFFWriter(&tiff.Options{Compression: tiff.Deflate}), nil
	default:
		return nil, fmt.Errorf("unknown image extension: %v", ext)
	}
}
