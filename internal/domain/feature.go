package domain

import (
	"errors"
	"time"
)

var (
	// ErrFetchFailed marks a terminal failure retrieving or decoding the feed.
	ErrFetchFailed = errors.New("fetch failed")

	// ErrMalformedFeature marks a single feature that cannot be rendered.
	// The pipeline skips such features and keeps going.
	ErrMalformedFeature = errors.New("malformed feature")
)

// RawFeed is an undecoded feed document as returned by the fetcher.
type RawFeed struct {
	Body      []byte
	Source    string
	FetchedAt time.Time
}

// Feature is one earthquake event read from the feed.
type Feature struct {
	ID        string    `json:"id,omitempty"`
	Place     string    `json:"place"`
	Time      time.Time `json:"time"`
	Magnitude float64   `json:"mag"`
	MagType   string    `json:"mag_type,omitempty"`
	Lon       float64   `json:"lon"`
	Lat       float64   `json:"lat"`
	Depth     float64   `json:"depth"`
	URL       string    `json:"url,omitempty"`
}

// LatLng is a map position in (latitude, longitude) order.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Marker describes one circle marker for the map renderer.
type Marker struct {
	ID          string  `json:"id"`
	Position    LatLng  `json:"position"`
	Radius      float64 `json:"radius"`
	FillColor   Color   `json:"fill_color"`
	StrokeColor Color   `json:"stroke_color"`
	Weight      float64 `json:"weight"`
	Opacity     float64 `json:"opacity"`
	FillOpacity float64 `json:"fill_opacity"`
	PopupText   string  `json:"popup_text"`

	Place     string    `json:"place"`
	Time      time.Time `json:"time"`
	Magnitude float64   `json:"mag"`
	Depth     float64   `json:"depth"`
	URL       string    `json:"url,omitempty"`
}

// LegendEntry is one legend row: a color swatch and a depth range label.
type LegendEntry struct {
	Color      Color    `json:"color"`
	Label      string   `json:"label"`
	LowerBound float64  `json:"lower_bound"`
	UpperBound *float64 `json:"upper_bound,omitempty"` // nil for the open-ended top row
}

// BaseLayer is a tile layer the user can switch between.
type BaseLayer struct {
	Name        string `json:"name"`
	URLTemplate string `json:"url_template"`
	Attribution string `json:"attribution"`
	Subdomains  string `json:"subdomains,omitempty"`
	MaxZoom     int    `json:"max_zoom,omitempty"`
	Default     bool   `json:"default"` // shown on load
}

// MapView is the initial map viewport.
type MapView struct {
	Center LatLng `json:"center"`
	Zoom   int    `json:"zoom"`
}

// Scene is everything a renderer receives for one render pass.
type Scene struct {
	Title       string        `json:"title"`
	OverlayName string        `json:"overlay_name"`
	LegendTitle string        `json:"legend_title"`
	Markers     []Marker      `json:"markers"`
	Legend      []LegendEntry `json:"legend"`
	Layers      []BaseLayer   `json:"layers"`
	View        MapView       `json:"view"`

	Source      string    `json:"source"`
	Total       int       `json:"total"`
	Skipped     int       `json:"skipped"`
	GeneratedAt time.Time `json:"generated_at"`
}
