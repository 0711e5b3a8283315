package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/couchcryptid/quake-map-service/internal/domain"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// MarkersGeoJSON encodes markers as a GeoJSON FeatureCollection of
// [lon, lat, depth] points. Styling travels in the feature properties.
func MarkersGeoJSON(markers []domain.Marker) ([]byte, error) {
	fc := geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(markers))}
	for _, m := range markers {
		point, err := geom.NewPoint(geom.XYZ).SetCoords(geom.Coord{m.Position.Lon, m.Position.Lat, m.Depth})
		if err != nil {
			return nil, fmt.Errorf("marker %s: %w", m.ID, err)
		}
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:       m.ID,
			Geometry: point,
			Properties: map[string]interface{}{
				"id":           m.ID,
				"place":        m.Place,
				"time":         m.Time.UTC().Format(time.RFC3339),
				"mag":          m.Magnitude,
				"depth":        m.Depth,
				"radius":       m.Radius,
				"fill_color":   string(m.FillColor),
				"stroke_color": string(m.StrokeColor),
				"weight":       m.Weight,
				"opacity":      m.Opacity,
				"fill_opacity": m.FillOpacity,
				"popup_text":   m.PopupText,
				"url":          m.URL,
			},
		})
	}
	return json.Marshal(&fc)
}

// ParseMarkersGeoJSON reverses MarkersGeoJSON.
func ParseMarkersGeoJSON(data []byte) ([]domain.Marker, error) {
	var fc geojson.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("decode marker collection: %w", err)
	}

	markers := make([]domain.Marker, 0, len(fc.Features))
	for i, f := range fc.Features {
		m, err := markerFromFeature(f)
		if err != nil {
			return nil, fmt.Errorf("feature %d: %w", i, err)
		}
		markers = append(markers, m)
	}
	return markers, nil
}

func markerFromFeature(f *geojson.Feature) (domain.Marker, error) {
	if f == nil {
		return domain.Marker{}, errors.New("null feature")
	}
	point, ok := f.Geometry.(*geom.Point)
	if !ok || point == nil || point.Empty() {
		return domain.Marker{}, fmt.Errorf("geometry is %T, want Point", f.Geometry)
	}

	p := f.Properties
	m := domain.Marker{
		ID:          f.ID,
		Position:    domain.LatLng{Lat: point.Y(), Lon: point.X()},
		Radius:      number(p, "radius"),
		FillColor:   domain.Color(text(p, "fill_color")),
		StrokeColor: domain.Color(text(p, "stroke_color")),
		Weight:      number(p, "weight"),
		Opacity:     number(p, "opacity"),
		FillOpacity: number(p, "fill_opacity"),
		PopupText:   text(p, "popup_text"),
		Place:       text(p, "place"),
		Magnitude:   number(p, "mag"),
		Depth:       number(p, "depth"),
		URL:         text(p, "url"),
	}
	if m.ID == "" {
		m.ID = text(p, "id")
	}
	if s := text(p, "time"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return domain.Marker{}, fmt.Errorf("parse time: %w", err)
		}
		m.Time = t.UTC()
	}
	return m, nil
}

func number(props map[string]interface{}, key string) float64 {
	v, _ := props[key].(float64)
	return v
}

func text(props map[string]interface{}, key string) string {
	s, _ := props[key].(string)
	return s
}
