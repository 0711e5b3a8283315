package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"strings"
	"time"
)

// PopupTimeLayout renders event times in popups, e.g.
// "Tue Nov 14 2023 22:13:20 UTC".
const PopupTimeLayout = "Mon Jan 02 2006 15:04:05 MST"

// Circle styling shared by every marker.
const (
	markerWeight      = 1
	markerOpacity     = 1
	markerFillOpacity = 0.9
)

// Validate reports the first field that makes the feature unrenderable.
func (f Feature) Validate() error {
	switch {
	case strings.TrimSpace(f.Place) == "":
		return fmt.Errorf("%w: missing place", ErrMalformedFeature)
	case f.Time.IsZero():
		return fmt.Errorf("%w: missing time", ErrMalformedFeature)
	case !finite(f.Magnitude):
		return fmt.Errorf("%w: non-finite magnitude", ErrMalformedFeature)
	case !finite(f.Depth):
		return fmt.Errorf("%w: non-finite depth", ErrMalformedFeature)
	case !finite(f.Lat) || f.Lat < -90 || f.Lat > 90:
		return fmt.Errorf("%w: latitude %v out of range", ErrMalformedFeature, f.Lat)
	case !finite(f.Lon) || f.Lon < -180 || f.Lon > 180:
		return fmt.Errorf("%w: longitude %v out of range", ErrMalformedFeature, f.Lon)
	}
	return nil
}

// BuildMarker validates a feature and converts it to a Marker. Times in the
// popup are rendered in loc; a nil loc means UTC.
func BuildMarker(c Classifier, f Feature, loc *time.Location) (Marker, error) {
	if err := f.Validate(); err != nil {
		return Marker{}, err
	}
	if loc == nil {
		loc = time.UTC
	}

	color := c.ColorForDepth(f.Depth)
	id := f.ID
	if id == "" {
		id = generateID(f)
	}

	return Marker{
		ID:          id,
		Position:    LatLng{Lat: f.Lat, Lon: f.Lon},
		Radius:      c.RadiusForMagnitude(f.Magnitude),
		FillColor:   color,
		StrokeColor: color,
		Weight:      markerWeight,
		Opacity:     markerOpacity,
		FillOpacity: markerFillOpacity,
		PopupText:   PopupText(f, loc),

		Place:     f.Place,
		Time:      f.Time.UTC(),
		Magnitude: f.Magnitude,
		Depth:     f.Depth,
		URL:       f.URL,
	}, nil
}

// PopupText joins the place and the event time rendered in loc.
func PopupText(f Feature, loc *time.Location) string {
	return f.Place + " - " + f.Time.In(loc).Format(PopupTimeLayout)
}

// generateID produces a deterministic ID from the feature's key fields so
// repeated renders of the same feed emit identical markers.
func generateID(f Feature) string {
	input := fmt.Sprintf("%s|%d|%.4f|%.4f|%.2f|%g",
		f.Place, f.Time.UnixMilli(), f.Lon, f.Lat, f.Depth, f.Magnitude)
	hash := sha256.Sum256([]byte(input))
	return "eq-" + hex.EncodeToString(hash[:8])
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
