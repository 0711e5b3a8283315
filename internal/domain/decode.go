package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// featureCollection is the feed envelope. Features stay raw so one bad
// feature cannot fail the whole document.
type featureCollection struct {
	Type     string            `json:"type"`
	Features []json.RawMessage `json:"features"`
}

// DecodeFeatureCollection parses a feed document into raw features. A
// document that is not a GeoJSON FeatureCollection is a fetch failure, not a
// per-feature problem.
func DecodeFeatureCollection(data []byte) ([]json.RawMessage, error) {
	var fc featureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("%w: decode feature collection: %w", ErrFetchFailed, err)
	}
	if fc.Type != "FeatureCollection" {
		return nil, fmt.Errorf("%w: document type %q, want FeatureCollection", ErrFetchFailed, fc.Type)
	}
	return fc.Features, nil
}

// DecodeFeature reads the fields the map needs from one GeoJSON feature.
// An empty place is allowed here so enrichment can fill it in; Validate
// rejects it later. Everything else that is missing or mistyped wraps
// ErrMalformedFeature.
func DecodeFeature(raw json.RawMessage) (Feature, error) {
	if trimmed := bytes.TrimSpace(raw); len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Feature{}, fmt.Errorf("%w: null feature", ErrMalformedFeature)
	}
	if nullCoordinate(raw) {
		return Feature{}, fmt.Errorf("%w: null coordinate", ErrMalformedFeature)
	}
	var gf geojson.Feature
	if err := json.Unmarshal(raw, &gf); err != nil {
		return Feature{}, fmt.Errorf("%w: %w", ErrMalformedFeature, err)
	}

	point, ok := gf.Geometry.(*geom.Point)
	if !ok || point == nil {
		return Feature{}, fmt.Errorf("%w: geometry is %T, want Point", ErrMalformedFeature, gf.Geometry)
	}
	if point.Empty() || point.Layout().ZIndex() == -1 {
		return Feature{}, fmt.Errorf("%w: missing depth coordinate", ErrMalformedFeature)
	}

	props := gf.Properties
	millis, ok := numberProp(props, "time")
	if !ok {
		return Feature{}, fmt.Errorf("%w: missing time", ErrMalformedFeature)
	}
	if millis < -maxMillis || millis >= maxMillis {
		return Feature{}, fmt.Errorf("%w: time %g out of range", ErrMalformedFeature, millis)
	}
	mag, ok := numberProp(props, "mag")
	if !ok {
		return Feature{}, fmt.Errorf("%w: missing magnitude", ErrMalformedFeature)
	}

	f := Feature{
		Place:     stringProp(props, "place"),
		Time:      time.UnixMilli(int64(millis)).UTC(),
		Magnitude: mag,
		MagType:   stringProp(props, "magType"),
		Lon:       point.X(),
		Lat:       point.Y(),
		Depth:     point.Z(),
		URL:       stringProp(props, "url"),
	}
	// USGS event IDs are the network code followed by the event code.
	if network, code := stringProp(props, "net"), stringProp(props, "code"); network != "" && code != "" {
		f.ID = network + code
	} else {
		f.ID = gf.ID
	}
	return f, nil
}

// maxMillis bounds epoch milliseconds that fit in an int64.
const maxMillis = float64(math.MaxInt64)

// nullCoordinate reports whether a Point's coordinate array holds a JSON
// null, which would otherwise decode as zero.
func nullCoordinate(raw json.RawMessage) bool {
	var doc struct {
		Geometry *struct {
			Type        string          `json:"type"`
			Coordinates json.RawMessage `json:"coordinates"`
		} `json:"geometry"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil || doc.Geometry == nil || doc.Geometry.Type != "Point" {
		return false
	}
	var coords []*float64
	if err := json.Unmarshal(doc.Geometry.Coordinates, &coords); err != nil {
		return false
	}
	for _, c := range coords {
		if c == nil {
			return true
		}
	}
	return false
}

func numberProp(props map[string]interface{}, key string) (float64, bool) {
	v, ok := props[key].(float64)
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func stringProp(props map[string]interface{}, key string) string {
	s, _ := props[key].(string)
	return s
}
