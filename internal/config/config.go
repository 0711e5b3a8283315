package config

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // DISPLAY_TIMEZONE must resolve on hosts without a zoneinfo database

	"github.com/couchcryptid/quake-map-service/internal/domain"
	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// DefaultFeedURL is the USGS summary feed of M4.5+ events for the past month.
const DefaultFeedURL = "https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/4.5_month.geojson"

// Config holds all service settings, populated from environment variables.
type Config struct {
	FeedURL      string
	FetchTimeout time.Duration

	Palette         string
	RadiusScale     float64
	MinRadius       float64
	DisplayTimezone string
	Location        *time.Location
	View            domain.MapView

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Kafka publishing is disabled when no brokers are set.
	KafkaBrokers     []string
	KafkaMarkerTopic string

	// Mapbox geocoding and satellite tiles.
	MapboxToken     string
	MapboxEnabled   bool
	MapboxTimeout   time.Duration
	MapboxCacheSize int
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	feedURL := sharedcfg.EnvOrDefault("USGS_FEED_URL", DefaultFeedURL)
	if u, err := url.Parse(feedURL); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid USGS_FEED_URL %q", feedURL)
	}

	fetchTimeout, err := parsePositiveDuration("FETCH_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}
	mapboxTimeout, err := parsePositiveDuration("MAPBOX_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	paletteName := strings.ToLower(strings.TrimSpace(sharedcfg.EnvOrDefault("PALETTE", domain.PresetViridis)))
	preset, ok := domain.LookupPreset(paletteName)
	if !ok {
		return nil, fmt.Errorf("invalid PALETTE %q: want one of %s", paletteName, strings.Join(domain.PresetNames(), ", "))
	}

	radiusScale, err := parseFloat("RADIUS_SCALE", preset.RadiusScale)
	if err != nil {
		return nil, err
	}
	if radiusScale <= 0 {
		return nil, errors.New("invalid RADIUS_SCALE: must be positive")
	}
	minRadius, err := parseFloat("MIN_RADIUS", 0)
	if err != nil {
		return nil, err
	}
	if minRadius < 0 {
		return nil, errors.New("invalid MIN_RADIUS: must not be negative")
	}

	tz := sharedcfg.EnvOrDefault("DISPLAY_TIMEZONE", "UTC")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid DISPLAY_TIMEZONE %q: %w", tz, err)
	}

	view, err := parseView()
	if err != nil {
		return nil, err
	}

	mapboxToken := os.Getenv("MAPBOX_TOKEN")
	mapboxEnabled := mapboxToken != ""
	if v := os.Getenv("MAPBOX_ENABLED"); v != "" {
		mapboxEnabled = v == "true"
	}

	cfg := &Config{
		FeedURL:         feedURL,
		FetchTimeout:    fetchTimeout,
		Palette:         paletteName,
		RadiusScale:     radiusScale,
		MinRadius:       minRadius,
		DisplayTimezone: tz,
		Location:        loc,
		View:            view,

		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		KafkaBrokers:     sharedcfg.ParseBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaMarkerTopic: sharedcfg.EnvOrDefault("KAFKA_MARKER_TOPIC", "earthquake-markers"),

		MapboxToken:     mapboxToken,
		MapboxEnabled:   mapboxEnabled,
		MapboxTimeout:   mapboxTimeout,
		MapboxCacheSize: parseMapboxCacheSize(),
	}

	if cfg.KafkaEnabled() && cfg.KafkaMarkerTopic == "" {
		return nil, errors.New("KAFKA_MARKER_TOPIC is required when KAFKA_BROKERS is set")
	}
	if cfg.MapboxEnabled && cfg.MapboxToken == "" {
		return nil, errors.New("MAPBOX_ENABLED is true but MAPBOX_TOKEN is not set")
	}

	return cfg, nil
}

// KafkaEnabled reports whether markers should also be published to Kafka.
func (c *Config) KafkaEnabled() bool { return len(c.KafkaBrokers) > 0 }

// Classifier builds the depth and magnitude classifier for the configured palette.
func (c *Config) Classifier() (domain.Classifier, error) {
	preset, ok := domain.LookupPreset(c.Palette)
	if !ok {
		return domain.Classifier{}, fmt.Errorf("unknown palette %q", c.Palette)
	}
	return domain.NewClassifier(preset.Palette, c.RadiusScale, c.MinRadius)
}

func parsePositiveDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be a positive duration", key)
	}
	return d, nil
}

func parseFloat(key string, fallback float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid %s %q", key, s)
	}
	return v, nil
}

func parseView() (domain.MapView, error) {
	lat, err := parseFloat("MAP_CENTER_LAT", domain.DefaultView.Center.Lat)
	if err != nil {
		return domain.MapView{}, err
	}
	if lat < -90 || lat > 90 {
		return domain.MapView{}, errors.New("invalid MAP_CENTER_LAT: must be within [-90, 90]")
	}
	lon, err := parseFloat("MAP_CENTER_LON", domain.DefaultView.Center.Lon)
	if err != nil {
		return domain.MapView{}, err
	}
	if lon < -180 || lon > 180 {
		return domain.MapView{}, errors.New("invalid MAP_CENTER_LON: must be within [-180, 180]")
	}

	zoom := domain.DefaultView.Zoom
	if s := os.Getenv("MAP_ZOOM"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 || n > 20 {
			return domain.MapView{}, fmt.Errorf("invalid MAP_ZOOM %q: must be an integer in [0, 20]", s)
		}
		zoom = n
	}

	return domain.MapView{Center: domain.LatLng{Lat: lat, Lon: lon}, Zoom: zoom}, nil
}

func parseMapboxCacheSize() int {
	if s := os.Getenv("MAPBOX_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 1000
}
