package rasterizer

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/tdewolff/test"
)

var square = []byte(`<svg xmlns="http://www.w3.org/2000/svg" width="100" height="50" viewBox="0 0 100 50">
<path d="M25 10L75 10L75 40L25 40Z" style="fill:#ff0000;stroke:none"/>
</svg>`)

func TestSize(t *testing.T) {
	w, h, err := Size(square)
	test.Error(t, err)
	test.T(t, w, 100)
	test.T(t, h, 50)

	w, h, err = Size([]byte(`<svg xmlns="http://www.w3.org/2000/svg"></svg>`))
	test.Error(t, err)
	test.T(t, w, DefaultWidth)
	test.T(t, h, DefaultHeight)
}

func TestRasterize(t *testing.T) {
	background := color.RGBA{230, 242, 255, 255}
	img, err := Rasterize(square, 0, 0, background)
	test.Error(t, err)
	test.T(t, img.Bounds(), image.Rect(0, 0, 100, 50))
	test.T(t, img.RGBAAt(0, 0), background)
	test.T(t, img.RGBAAt(99, 49), background)
	test.T(t, img.RGBAAt(50, 25), color.RGBA{255, 0, 0, 255})

	// stretched
	img, err = Rasterize(square, 200, 100, nil)
	test.Error(t, err)
	test.T(t, img.Bounds(), image.Rect(0, 0, 200, 100))
	test.T(t, img.RGBAAt(0, 0), color.RGBA{})
	test.T(t, img.RGBAAt(100, 50), color.RGBA{255, 0, 0, 255})
}

func TestRasterizeError(t *testing.T) {
	_, err := Rasterize([]byte("not svg <"), 0, 0, nil)
	test.Error(t, err, ErrRasterize)
}

func TestWriterFor(t *testing.T) {
	var tests = []struct {
		filename string
		err      bool
	}{
		{"", false},
		{"map.png", false},
		{"map.PNG", false},
		{"map.jpg", false},
		{"map.jpeg", false},
		{"map.gif", false},
		{"map.tif", false},
		{"map.tiff", false},
		{"map.bmp", true},
		{"map.svg", true},
	}
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			writer, err := WriterFor(tt.filename)
			if tt.err {
				test.That(t, err != nil, "unknown extension")
				return
			}
			test.Error(t, err)

			buf := &bytes.Buffer{}
			test.Error(t, writer(buf, img))
			test.That(t, 0 < buf.Len())
		})
	}
}

func TestPNGWriter(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.SetRGBA(1, 1, color.RGBA{255, 204, 0, 255})

	buf := &bytes.Buffer{}
	test.Error(t, PNGWriter()(buf, img))
	decoded, err := png.Decode(buf)
	test.Error(t, err)
	test.T(t, color.RGBAModel.Convert(decoded.At(1, 1)), color.Color(color.RGBA{255, 204, 0, 255}))
}
