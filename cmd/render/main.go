// Command render runs the map pipeline once and writes a standalone HTML map
// and a marker GeoJSON file. It reads the live USGS feed or a saved copy, and
// with -fixed-time produces byte-identical output for identical input.
//
// Usage:
//
//	go run ./cmd/render \
//	  -in internal/pipeline/testdata/usgs_sample.geojson \
//	  -html out/map.html \
//	  -geojson out/markers.geojson \
//	  -palette classic -tz America/Los_Angeles \
//	  -fixed-time 2024-03-01T12:00:00Z
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"
	_ "time/tzdata"

	"github.com/couchcryptid/quake-map-service/internal/adapter/usgs"
	"github.com/couchcryptid/quake-map-service/internal/config"
	"github.com/couchcryptid/quake-map-service/internal/domain"
	"github.com/couchcryptid/quake-map-service/internal/observability"
	"github.com/couchcryptid/quake-map-service/internal/pipeline"
	"github.com/couchcryptid/quake-map-service/internal/render"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/jonboulle/clockwork"
)

func main() {
	if err := run(); err != nil {
		slog.Error("render failed", "error", err)
		os.Exit(1)
	}
}

// options holds the parsed command-line flags.
type options struct {
	url       string
	in        string
	htmlOut   string
	geojson   string
	palette   string
	tz        string
	scale     float64
	minRadius float64
	fixedTime string
	timeout   time.Duration
	logLevel  string
}

func parseFlags() options {
	var o options
	flag.StringVar(&o.url, "url", config.DefaultFeedURL, "USGS GeoJSON feed URL")
	flag.StringVar(&o.in, "in", "", "read a saved feed file instead of fetching -url")
	flag.StringVar(&o.htmlOut, "html", "map.html", "output path for the HTML map (empty to skip)")
	flag.StringVar(&o.geojson, "geojson", "", "output path for the marker GeoJSON (empty to skip)")
	flag.StringVar(&o.palette, "palette", domain.PresetViridis, "color preset name")
	flag.StringVar(&o.tz, "tz", "UTC", "IANA time zone for popup times")
	flag.Float64Var(&o.scale, "scale", 0, "radius scale (0 uses the preset's scale)")
	flag.Float64Var(&o.minRadius, "min-radius", 0, "minimum marker radius")
	flag.StringVar(&o.fixedTime, "fixed-time", "", "RFC3339 timestamp to stamp the scene with, for reproducible output")
	flag.DurationVar(&o.timeout, "timeout", 10*time.Second, "feed fetch timeout")
	flag.StringVar(&o.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()
	return o
}

func run() error {
	o := parseFlags()
	if o.htmlOut == "" && o.geojson == "" {
		flag.Usage()
		return errors.New("nothing to write: set -html and/or -geojson")
	}

	preset, ok := domain.LookupPreset(o.palette)
	if !ok {
		return fmt.Errorf("unknown palette %q (have %v)", o.palette, domain.PresetNames())
	}
	scale := preset.RadiusScale
	if o.scale != 0 {
		scale = o.scale
	}
	classifier, err := domain.NewClassifier(preset.Palette, scale, o.minRadius)
	if err != nil {
		return err
	}
	loc, err := time.LoadLocation(o.tz)
	if err != nil {
		return fmt.Errorf("load time zone: %w", err)
	}

	if o.fixedTime != "" {
		t, err := time.Parse(time.RFC3339, o.fixedTime)
		if err != nil {
			return fmt.Errorf("parse -fixed-time: %w", err)
		}
		domain.SetClock(clockwork.NewFakeClockAt(t))
		defer domain.SetClock(nil)
	}

	logger := sharedobs.NewLogger(o.logLevel, "text")
	metrics := observability.NewMetricsForTesting()

	var fetcher pipeline.Fetcher = usgs.NewClient(o.url, o.timeout, metrics, logger)
	if o.in != "" {
		fetcher = fileFetcher{path: o.in}
	}

	for _, p := range []string{o.htmlOut, o.geojson} {
		if p == "" {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return err
		}
	}

	capture := &sceneCapture{}
	p := pipeline.New(fetcher, pipeline.NewTransformer(classifier, loc, nil, logger),
		render.Multi{render.FileWriter{HTMLPath: o.htmlOut, GeoJSONPath: o.geojson}, capture},
		pipeline.SceneOptions{Palette: preset.Palette, Layers: domain.BaseLayers(""), View: domain.DefaultView},
		logger, metrics)

	res, err := p.Run(context.Background())
	if err != nil {
		return err
	}

	if o.htmlOut != "" {
		logger.Info("wrote map", "path", o.htmlOut)
	}
	if o.geojson != "" {
		logger.Info("wrote markers", "path", o.geojson)
	}
	printStats(os.Stdout, res, capture.scene)
	return nil
}

// fileFetcher reads a saved feed document from disk.
type fileFetcher struct {
	path string
}

func (f fileFetcher) Fetch(_ context.Context) (domain.RawFeed, error) {
	body, err := os.ReadFile(f.path)
	if err != nil {
		return domain.RawFeed{}, fmt.Errorf("%w: %w", domain.ErrFetchFailed, err)
	}
	return domain.RawFeed{Body: body, Source: f.path, FetchedAt: domain.Now()}, nil
}

// sceneCapture keeps the rendered scene for reporting.
type sceneCapture struct {
	scene domain.Scene
}

func (c *sceneCapture) Render(_ context.Context, scene domain.Scene) error {
	c.scene = scene
	return nil
}

func printStats(w io.Writer, res pipeline.Result, scene domain.Scene) {
	fmt.Fprintln(w, "\n=== Render stats ===")
	fmt.Fprintf(w, "Source:   %s\n", res.Source)
	fmt.Fprintf(w, "Features: %d\n", res.Total)
	fmt.Fprintf(w, "Markers:  %d\n", res.Rendered)
	fmt.Fprintf(w, "Skipped:  %d\n", res.Skipped)
	if len(scene.Markers) == 0 {
		return
	}

	byColor := map[domain.Color]int{}
	minMag, maxMag := scene.Markers[0].Magnitude, scene.Markers[0].Magnitude
	for _, m := range scene.Markers {
		byColor[m.FillColor]++
		minMag = min(minMag, m.Magnitude)
		maxMag = max(maxMag, m.Magnitude)
	}
	fmt.Fprintf(w, "Magnitude range: %g to %g\n", minMag, maxMag)

	fmt.Fprintln(w, "\nBy depth bucket:")
	for _, e := range scene.Legend {
		fmt.Fprintf(w, "  %-8s %s  %d\n", e.Label, e.Color, byColor[e.Color])
	}

	strongest := append([]domain.Marker(nil), scene.Markers...)
	sort.SliceStable(strongest, func(i, j int) bool { return strongest[i].Magnitude > strongest[j].Magnitude })
	fmt.Fprintln(w, "\nStrongest events:")
	for _, m := range strongest[:min(5, len(strongest))] {
		fmt.Fprintf(w, "  M%-4g %s\n", m.Magnitude, m.PopupText)
	}
}
