package domain

import "context"

// PlaceResult is a reverse-geocoding answer for one coordinate pair.
type PlaceResult struct {
	PlaceName        string
	FormattedAddress string
	Confidence       float64 // 0.0–1.0 provider relevance score
}

// Geocoder turns coordinates into a human-readable place.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lon float64) (PlaceResult, error)
}
