package domain

import (
	"context"
	"log/slog"
	"strings"
)

// EnrichPlace fills a missing place name from the geocoder. The feature is
// returned unchanged when it already has a place, when geocoder is nil, when
// its coordinates are unusable, or when the lookup fails or comes back empty.
// Validation rejects the feature later if the place is still missing.
func EnrichPlace(ctx context.Context, f Feature, geocoder Geocoder, logger *slog.Logger) Feature {
	if geocoder == nil || strings.TrimSpace(f.Place) != "" {
		return f
	}
	if !finite(f.Lat) || !finite(f.Lon) || f.Lat < -90 || f.Lat > 90 || f.Lon < -180 || f.Lon > 180 {
		return f
	}

	result, err := geocoder.ReverseGeocode(ctx, f.Lat, f.Lon)
	if err != nil {
		logger.Warn("reverse geocoding failed",
			"event_id", f.ID,
			"lat", f.Lat,
			"lon", f.Lon,
			"error", err,
		)
		return f
	}

	switch {
	case result.FormattedAddress != "":
		f.Place = result.FormattedAddress
	case result.PlaceName != "":
		f.Place = result.PlaceName
	}
	return f
}
