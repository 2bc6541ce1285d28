package choropleth

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/parse/v2/strconv"
	"golang.org/x/image/colornames"
)

// DefaultHighlightColor is used for highlighted counties that have no (or an empty) color.
const DefaultHighlightColor = "#ffcc00"

// DefaultBackground fills the parts of the image not covered by geometry.
const DefaultBackground = "#e6f2ff"

// ParseColor parses a CSS color: hexadecimal (#rgb, #rgba, #rrggbb, #rrggbbaa), rgb(), rgba(), transparent, or a named color.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return color.RGBA{}, fmt.Errorf("empty color")
	} else if s[0] == '#' {
		return parseHex(s)
	} else if s == "transparent" {
		return canvas.Transparent, nil
	} else if strings.HasPrefix(s, "rgb(") || strings.HasPrefix(s, "rgba(") {
		return parseRGB(s)
	} else if c, ok := colornames.Map[s]; ok {
		return c, nil
	}
	return color.RGBA{}, fmt.Errorf("unknown color: %s", s)
}

// MustParseColor parses a CSS color and panics on error.
func MustParseColor(s string) color.RGBA {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

func parseHex(s string) (color.RGBA, error) {
	hex := s[1:]
	if n := len(hex); n != 3 && n != 4 && n != 6 && n != 8 {
		return color.RGBA{}, fmt.Errorf("bad hexadecimal color: %s", s)
	}
	for _, c := range hex {
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f') {
			return color.RGBA{}, fmt.Errorf("bad hexadecimal color: %s", s)
		}
	}
	return canvas.Hex(hex), nil
}

// parseRGB parses rgb(r,g,b) and rgba(r,g,b,a) with components either in [0,255] or percentages.
func parseRGB(s string) (color.RGBA, error) {
	open, end := strings.IndexByte(s, '('), strings.LastIndexByte(s, ')')
	if end < open {
		return color.RGBA{}, fmt.Errorf("bad rgb color: %s", s)
	}
	args := strings.FieldsFunc(s[open+1:end], func(r rune) bool {
		return r == ',' || r == ' ' || r == '/'
	})
	if len(args) != 3 && len(args) != 4 {
		return color.RGBA{}, fmt.Errorf("bad rgb color: %s", s)
	}

	var rgba [4]float64
	rgba[3] = 1.0
	for i, arg := range args {
		percentage := strings.HasSuffix(arg, "%")
		arg = strings.TrimSuffix(arg, "%")
		f, n := strconv.ParseFloat([]byte(arg))
		if n != len(arg) || n == 0 {
			return color.RGBA{}, fmt.Errorf("bad rgb color: %s", s)
		}
		if i == 3 {
			if percentage {
				f /= 100.0
			}
			rgba[i] = math.Max(0.0, math.Min(1.0, f))
		} else {
			if percentage {
				f *= 255.0 / 100.0
			}
			rgba[i] = math.Max(0.0, math.Min(255.0, f))
		}
	}

	// color.RGBA is alpha premultiplied
	a := rgba[3]
	return color.RGBA{
		uint8(rgba[0]*a + 0.5),
		uint8(rgba[1]*a + 0.5),
		uint8(rgba[2]*a + 0.5),
		uint8(a*255.0 + 0.5),
	}, nil
}

// withOpacity multiplies the (premultiplied) color by an opacity in [0,1].
func withOpacity(c color.RGBA, opacity float64) color.RGBA {
	if 1.0 <= opacity {
		return c
	} else if opacity <= 0.0 {
		return canvas.Transparent
	}
	return color.RGBA{
		uint8(float64(c.R)*opacity + 0.5),
		uint8(float64(c.G)*opacity + 0.5),
		uint8(float64(c.B)*opacity + 0.5),
		uint8(float64(c.A)*opacity + 0.5),
	}
}
