package choropleth

import (
	"context"
	"errors"

	"github.com/paulmach/orb/geojson"
)

var (
	ErrNoOverlay  = errors.New("no SVG overlay found")
	ErrNoRenderer = errors.New("no scene renderer configured")
)

// Renderer turns styled features into a vector scene and serializes scenes to self-contained SVG documents.
type Renderer interface {
	RenderFeatures(*geojson.FeatureCollection, StyleFunc) (Scene, error)
	SerializeScene(Scene) ([]byte, error)
}

// Scene is a rendered feature layer. It is drawn through its viewport once it has settled.
type Scene interface {
	// Len returns the number of rendered features.
	Len() int

	// SetViewport moves the view, the scene is redrawn asynchronously.
	SetViewport(Viewport)
	Viewport() Viewport

	// Settled blocks until the last viewport change has been drawn completely.
	Settled(context.Context) error

	// Close releases the scene, it cannot be serialized afterwards.
	Close() error
}
