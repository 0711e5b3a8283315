package config

import (
	"testing"
	"time"

	"github.com/couchcryptid/quake-map-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMapboxToken = "pk.test-token"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultFeedURL, cfg.FeedURL)
	assert.Equal(t, 10*time.Second, cfg.FetchTimeout)
	assert.Equal(t, domain.PresetViridis, cfg.Palette)
	assert.Equal(t, 5.0, cfg.RadiusScale)
	assert.Equal(t, 0.0, cfg.MinRadius)
	assert.Equal(t, "UTC", cfg.DisplayTimezone)
	assert.Equal(t, time.UTC, cfg.Location)
	assert.Equal(t, domain.DefaultView, cfg.View)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.False(t, cfg.KafkaEnabled())
	assert.Equal(t, "earthquake-markers", cfg.KafkaMarkerTopic)
	assert.False(t, cfg.MapboxEnabled)
	assert.Empty(t, cfg.MapboxToken)
	assert.Equal(t, 5*time.Second, cfg.MapboxTimeout)
	assert.Equal(t, 1000, cfg.MapboxCacheSize)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("USGS_FEED_URL", "http://localhost:9999/feed.geojson")
	t.Setenv("FETCH_TIMEOUT", "3s")
	t.Setenv("PALETTE", "Classic")
	t.Setenv("RADIUS_SCALE", "6.5")
	t.Setenv("MIN_RADIUS", "2")
	t.Setenv("DISPLAY_TIMEZONE", "America/Los_Angeles")
	t.Setenv("MAP_CENTER_LAT", "35.5")
	t.Setenv("MAP_CENTER_LON", "139.7")
	t.Setenv("MAP_ZOOM", "6")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("KAFKA_BROKERS", "broker1:9092, broker2:9092")
	t.Setenv("KAFKA_MARKER_TOPIC", "custom-markers")
	t.Setenv("MAPBOX_TOKEN", testMapboxToken)
	t.Setenv("MAPBOX_TIMEOUT", "10s")
	t.Setenv("MAPBOX_CACHE_SIZE", "500")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9999/feed.geojson", cfg.FeedURL)
	assert.Equal(t, 3*time.Second, cfg.FetchTimeout)
	assert.Equal(t, domain.PresetClassic, cfg.Palette)
	assert.Equal(t, 6.5, cfg.RadiusScale)
	assert.Equal(t, 2.0, cfg.MinRadius)
	assert.Equal(t, "America/Los_Angeles", cfg.Location.String())
	assert.Equal(t, domain.MapView{Center: domain.LatLng{Lat: 35.5, Lon: 139.7}, Zoom: 6}, cfg.View)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.KafkaEnabled())
	assert.Equal(t, "custom-markers", cfg.KafkaMarkerTopic)
	assert.True(t, cfg.MapboxEnabled)
	assert.Equal(t, testMapboxToken, cfg.MapboxToken)
	assert.Equal(t, 10*time.Second, cfg.MapboxTimeout)
	assert.Equal(t, 500, cfg.MapboxCacheSize)
}

func TestLoad_PaletteDrivesDefaultScale(t *testing.T) {
	t.Setenv("PALETTE", domain.PresetClassic)
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 4.0, cfg.RadiusScale)

	c, err := cfg.Classifier()
	require.NoError(t, err)
	assert.Equal(t, domain.Color("#FF5F65"), c.ColorForDepth(100))
	assert.Equal(t, 20.0, c.RadiusForMagnitude(5))
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"USGS_FEED_URL", "not a url"},
		{"FETCH_TIMEOUT", "soon"},
		{"FETCH_TIMEOUT", "0s"},
		{"SHUTDOWN_TIMEOUT", "not-a-duration"},
		{"SHUTDOWN_TIMEOUT", "-1s"},
		{"MAPBOX_TIMEOUT", "bad"},
		{"PALETTE", "rainbow"},
		{"RADIUS_SCALE", "big"},
		{"RADIUS_SCALE", "0"},
		{"RADIUS_SCALE", "NaN"},
		{"MIN_RADIUS", "-1"},
		{"DISPLAY_TIMEZONE", "Mars/Olympus_Mons"},
		{"MAP_CENTER_LAT", "91"},
		{"MAP_CENTER_LON", "-181"},
		{"MAP_ZOOM", "twelve"},
		{"MAP_ZOOM", "25"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestLoad_InvalidCacheSizeFallsBack(t *testing.T) {
	t.Setenv("MAPBOX_CACHE_SIZE", "-5")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 1000, cfg.MapboxCacheSize)
}

func TestLoad_EmptyBrokerListDisablesKafka(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", " , ")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.KafkaEnabled())
}

func TestLoad_MapboxEnabledWithoutToken(t *testing.T) {
	t.Setenv("MAPBOX_ENABLED", "true")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAPBOX_TOKEN")
}

func TestLoad_MapboxTokenImpliesEnabled(t *testing.T) {
	t.Setenv("MAPBOX_TOKEN", testMapboxToken)
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.MapboxEnabled)
}

func TestLoad_MapboxExplicitlyDisabled(t *testing.T) {
	t.Setenv("MAPBOX_TOKEN", testMapboxToken)
	t.Setenv("MAPBOX_ENABLED", "false")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.MapboxEnabled)
}
