package pipeline_test

import (
	"context"
	"errors"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/couchcryptid/quake-map-service/internal/domain"
	"github.com/couchcryptid/quake-map-service/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const noPlaceFeature = `{
  "type": "Feature",
  "properties": {"mag": 4.5, "place": null, "time": 1700000000000},
  "geometry": {"type": "Point", "coordinates": [139.69, 35.69, 40]},
  "id": "jp1"
}`

type fixedGeocoder struct {
	result domain.PlaceResult
	err    error
}

func (g fixedGeocoder) ReverseGeocode(_ context.Context, _, _ float64) (domain.PlaceResult, error) {
	return g.result, g.err
}

func TestMarkerTransformer_FillsMissingPlace(t *testing.T) {
	geocoder := fixedGeocoder{result: domain.PlaceResult{FormattedAddress: "Shinjuku, Tokyo, Japan", PlaceName: "Shinjuku"}}
	tr := pipeline.NewTransformer(domain.ClassifierFromPreset(viridis(t)), time.UTC, geocoder, discardLogger())

	m, err := tr.Transform(context.Background(), []byte(noPlaceFeature))
	require.NoError(t, err)
	assert.Equal(t, "Shinjuku, Tokyo, Japan", m.Place)
	assert.Equal(t, "Shinjuku, Tokyo, Japan - Tue Nov 14 2023 22:13:20 UTC", m.PopupText)
}

func TestMarkerTransformer_GeocoderFailureSkipsFeature(t *testing.T) {
	geocoder := fixedGeocoder{err: errors.New("mapbox API error: status 429")}
	tr := pipeline.NewTransformer(domain.ClassifierFromPreset(viridis(t)), time.UTC, geocoder, discardLogger())

	_, err := tr.Transform(context.Background(), []byte(noPlaceFeature))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrMalformedFeature))
}

func TestMarkerTransformer_DisplayTimezone(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	tr := pipeline.NewTransformer(domain.ClassifierFromPreset(viridis(t)), loc, nil, discardLogger())

	m, err := tr.Transform(context.Background(), []byte(`{
	  "type": "Feature",
	  "properties": {"mag": 4.5, "place": "near the coast of Honshu", "time": 1700000000000},
	  "geometry": {"type": "Point", "coordinates": [141.0, 38.0, 40]}
	}`))
	require.NoError(t, err)
	assert.Equal(t, "near the coast of Honshu - Wed Nov 15 2023 07:13:20 JST", m.PopupText)
	assert.Equal(t, time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC), m.Time)
}
