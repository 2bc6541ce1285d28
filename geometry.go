package choropleth

import (
	"bytes"
	"errors"
	"fmt"

	gojson "github.com/goccy/go-json"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

var (
	ErrMalformedGeometry    = errors.New("malformed GeoJSON")
	ErrNotFeatureCollection = errors.New("not a GeoJSON FeatureCollection")
)

type collectionShape struct {
	Type     string            `json:"type"`
	Features gojson.RawMessage `json:"features"`
}

// ParseGeometry parses a GeoJSON document that must be a FeatureCollection with a features array.
func ParseGeometry(data []byte) (*geojson.FeatureCollection, error) {
	shape := collectionShape{}
	if err := gojson.Unmarshal(data, &shape); err != nil {
		if _, ok := err.(*gojson.UnmarshalTypeError); ok {
			return nil, ErrNotFeatureCollection
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedGeometry, err)
	}
	features := bytes.TrimSpace(shape.Features)
	if shape.Type != "FeatureCollection" || len(features) == 0 || features[0] != '[' {
		return nil, ErrNotFeatureCollection
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedGeometry, err)
	}
	return fc, nil
}

// FeatureBound returns the bounds of a feature's geometry, false if it has no (or empty) geometry.
func FeatureBound(f *geojson.Feature) (orb.Bound, bool) {
	if f == nil || f.Geometry == nil {
		return orb.Bound{}, false
	}
	b := f.Geometry.Bound()
	if b.Max[0] < b.Min[0] || b.Max[1] < b.Min[1] {
		return orb.Bound{}, false
	}
	return b, true
}
