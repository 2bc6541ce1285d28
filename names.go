package choropleth

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/paulmach/orb/geojson"
)

// NameKeys are the property keys that may hold a county name, in order of priority.
var NameKeys = []string{"NAME", "Name", "name", "COUNTY", "COUNTY_NAME", "county", "NAMELSAD", "NAMELSAD20"}

// CountyName returns the first non-empty name found under one of NameKeys, or an empty string.
// Values that are not strings are formatted, except for those that are empty-like (false, 0, null).
func CountyName(props geojson.Properties) string {
	for _, key := range NameKeys {
		if s, ok := nameValue(props[key]); ok {
			return s
		}
	}
	return ""
}

func nameValue(v interface{}) (string, bool) {
	switch v := v.(type) {
	case nil:
		return "", false
	case string:
		return v, v != ""
	case bool:
		return "true", v
	case float64:
		if v == 0.0 || v != v {
			return "", false
		}
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case int:
		return strconv.Itoa(v), v != 0
	}
	return fmt.Sprint(v), true
}

// NormalizeName lowercases and trims a name so it can be used as lookup key.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// FeatureKey returns the normalized county name of a feature.
func FeatureKey(f *geojson.Feature) string {
	if f == nil {
		return ""
	}
	return NormalizeName(CountyName(f.Properties))
}
