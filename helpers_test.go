package choropleth

import (
	"fmt"
	"strings"
)

// square returns a GeoJSON polygon feature covering [lon,lon+1]x[lat,lat+1] with the given properties.
func square(lon, lat float64, props string) string {
	return fmt.Sprintf(`{"type":"Feature","properties":%s,"geometry":{"type":"Polygon","coordinates":[[[%g,%g],[%g,%g],[%g,%g],[%g,%g],[%g,%g]]]}}`,
		props, lon, lat, lon+1, lat, lon+1, lat+1, lon, lat+1, lon, lat)
}

func collection(features ...string) string {
	return `{"type":"FeatureCollection","features":[` + strings.Join(features, ",") + `]}`
}

var (
	alphaFeature = square(-120, 37, `{"NAME":"Alpha"}`)
	betaFeature  = square(-118, 37, `{"county":"  BETA "}`)
	twoCounties  = collection(alphaFeature, betaFeature)
)
