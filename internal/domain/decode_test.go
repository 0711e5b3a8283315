package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCollection = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"mag": 5.0, "place": "10km N of Testville", "time": 1700000000000,
                     "url": "https://earthquake.usgs.gov/earthquakes/eventpage/us7000test",
                     "net": "us", "code": "7000test", "magType": "mww"},
      "geometry": {"type": "Point", "coordinates": [-122.4, 37.8, 10.0]},
      "id": "us7000test"
    },
    {
      "type": "Feature",
      "properties": {"mag": null, "place": "Somewhere", "time": 1700000000000},
      "geometry": {"type": "Point", "coordinates": [10.0, 20.0, 5.0]},
      "id": "nomag"
    },
    {
      "type": "Feature",
      "properties": {"mag": 4.6, "place": "Flatland", "time": 1700000000000},
      "geometry": {"type": "Point", "coordinates": [10.0, 20.0]},
      "id": "nodepth"
    },
    {
      "type": "Feature",
      "properties": {"mag": 4.6, "place": "Lineland", "time": 1700000000000},
      "geometry": {"type": "LineString", "coordinates": [[0, 0, 1], [1, 1, 1]]},
      "id": "line"
    },
    {
      "type": "Feature",
      "properties": {"mag": 4.6, "place": "Nowhen"},
      "geometry": {"type": "Point", "coordinates": [1.0, 2.0, 3.0]},
      "id": "notime"
    },
    {
      "type": "Feature",
      "properties": {"mag": 4.6, "place": null, "time": 1700000000000},
      "geometry": {"type": "Point", "coordinates": [1.0, 2.0, 3.0]},
      "id": "noplace"
    }
  ]
}`

func TestDecodeFeatureCollection(t *testing.T) {
	features, err := DecodeFeatureCollection([]byte(testCollection))
	require.NoError(t, err)
	require.Len(t, features, 6)

	t.Run("well formed", func(t *testing.T) {
		f, err := DecodeFeature(features[0])
		require.NoError(t, err)

		assert.Equal(t, "us7000test", f.ID)
		assert.Equal(t, "10km N of Testville", f.Place)
		assert.Equal(t, time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC), f.Time)
		assert.Equal(t, 5.0, f.Magnitude)
		assert.Equal(t, "mww", f.MagType)
		assert.Equal(t, -122.4, f.Lon)
		assert.Equal(t, 37.8, f.Lat)
		assert.Equal(t, 10.0, f.Depth)
		assert.Contains(t, f.URL, "us7000test")
	})

	t.Run("null magnitude", func(t *testing.T) {
		_, err := DecodeFeature(features[1])
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrMalformedFeature))
		assert.Contains(t, err.Error(), "magnitude")
	})

	t.Run("two-dimensional point", func(t *testing.T) {
		_, err := DecodeFeature(features[2])
		require.Error(t, err)
		assert.Contains(t, err.Error(), "depth")
	})

	t.Run("non-point geometry", func(t *testing.T) {
		_, err := DecodeFeature(features[3])
		require.Error(t, err)
		assert.Contains(t, err.Error(), "want Point")
	})

	t.Run("missing time", func(t *testing.T) {
		_, err := DecodeFeature(features[4])
		require.Error(t, err)
		assert.Contains(t, err.Error(), "time")
	})

	t.Run("null place decodes but fails validation", func(t *testing.T) {
		f, err := DecodeFeature(features[5])
		require.NoError(t, err)
		assert.Empty(t, f.Place)
		assert.Equal(t, "noplace", f.ID)
		assert.True(t, errors.Is(f.Validate(), ErrMalformedFeature))
	})
}

func TestDecodeFeature_NullAndBroken(t *testing.T) {
	for _, raw := range []string{"", "null", `{"type":"Feature","geometry":{"type":"Point","coordinates":"x"}}`, `{"type":"Polygon"}`, `{"type":"Feature","geometry":{"type":"Point","coordinates":[]},"properties":{}}`} {
		_, err := DecodeFeature([]byte(raw))
		assert.True(t, errors.Is(err, ErrMalformedFeature), "raw %q", raw)
	}
}

func TestDecodeFeature_NullCoordinates(t *testing.T) {
	tests := map[string]string{
		"null depth":     `[-122.4, 37.8, null]`,
		"null latitude":  `[-122.4, null, 10.0]`,
		"null longitude": `[null, 37.8, 10.0]`,
	}
	for name, coords := range tests {
		t.Run(name, func(t *testing.T) {
			raw := `{"type":"Feature","id":"nulls","properties":{"mag":4.6,"place":"Nullville","time":1700000000000},` +
				`"geometry":{"type":"Point","coordinates":` + coords + `}}`
			f, err := DecodeFeature([]byte(raw))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedFeature))
			assert.Contains(t, err.Error(), "null coordinate")
			assert.Equal(t, Feature{}, f)
		})
	}
}

func TestDecodeFeature_TimeOutOfRange(t *testing.T) {
	for _, millis := range []string{"1e300", "-1e300", "9.3e18"} {
		raw := `{"type":"Feature","id":"far","properties":{"mag":4.6,"place":"Farfuture","time":` + millis + `},` +
			`"geometry":{"type":"Point","coordinates":[1.0, 2.0, 3.0]}}`
		_, err := DecodeFeature([]byte(raw))
		require.Error(t, err, "time %s", millis)
		assert.True(t, errors.Is(err, ErrMalformedFeature))
		assert.Contains(t, err.Error(), "out of range")
	}
}

func TestDecodeFeatureCollection_BadFeatureDoesNotFailDocument(t *testing.T) {
	doc := `{"type":"FeatureCollection","features":[null,{"type":"Feature","geometry":{"type":"Point","coordinates":"x"},"properties":{}}]}`
	features, err := DecodeFeatureCollection([]byte(doc))
	require.NoError(t, err)
	assert.Len(t, features, 2)
}

func TestDecodeFeatureCollection_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", "<html>gateway timeout</html>"},
		{"wrong type", `{"type":"Feature","properties":{},"geometry":null}`},
		{"empty object", `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeFeatureCollection([]byte(tt.body))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrFetchFailed))
		})
	}
}
