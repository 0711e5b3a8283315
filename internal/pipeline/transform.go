package pipeline

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/couchcryptid/quake-map-service/internal/domain"
)

// MarkerTransformer implements Transformer by decoding a feed feature,
// optionally filling in a missing place, and styling it as a marker.
type MarkerTransformer struct {
	classifier domain.Classifier
	location   *time.Location
	geocoder   domain.Geocoder
	logger     *slog.Logger
}

// NewTransformer creates a MarkerTransformer. Popup times are rendered in loc.
// Pass a nil geocoder to disable place enrichment.
func NewTransformer(c domain.Classifier, loc *time.Location, geocoder domain.Geocoder, logger *slog.Logger) *MarkerTransformer {
	return &MarkerTransformer{
		classifier: c,
		location:   loc,
		geocoder:   geocoder,
		logger:     logger,
	}
}

func (t *MarkerTransformer) Transform(ctx context.Context, raw json.RawMessage) (domain.Marker, error) {
	f, err := domain.DecodeFeature(raw)
	if err != nil {
		return domain.Marker{}, err
	}

	f = domain.EnrichPlace(ctx, f, t.geocoder, t.logger)

	return domain.BuildMarker(t.classifier, f, t.location)
}
