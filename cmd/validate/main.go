// Command validate performs end-to-end integrity checks between a saved USGS
// feed and the marker GeoJSON rendered from it. It verifies feature counts,
// re-derives every marker from the feed and compares styling and popups, and
// checks that marker colors line up with the palette legend.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -feed internal/pipeline/testdata/usgs_sample.geojson \
//	  -markers out/markers.geojson \
//	  -palette viridis -tz UTC
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/couchcryptid/quake-map-service/internal/domain"
	"github.com/couchcryptid/quake-map-service/internal/pipeline"
	"github.com/couchcryptid/quake-map-service/internal/render"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	feedPath := flag.String("feed", "", "path to a saved USGS GeoJSON feed")
	markersPath := flag.String("markers", "", "path to the marker GeoJSON rendered from -feed")
	palette := flag.String("palette", domain.PresetViridis, "color preset the markers were rendered with")
	scale := flag.Float64("scale", 0, "radius scale the markers were rendered with (0 uses the preset's scale)")
	minRadius := flag.Float64("min-radius", 0, "minimum radius the markers were rendered with")
	tz := flag.String("tz", "UTC", "time zone the popups were rendered in")
	flag.Parse()

	if *feedPath == "" || *markersPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*feedPath, *markersPath, *palette, *scale, *minRadius, *tz); code != 0 {
		os.Exit(code)
	}
}

func run(feedPath, markersPath, paletteName string, scale, minRadius float64, tz string) int {
	fmt.Println("=== Quake Map Integrity Validation ===")
	fmt.Println()

	preset, ok := domain.LookupPreset(paletteName)
	if !ok {
		fmt.Fprintf(os.Stderr, "FATAL: unknown palette %q (have %v)\n", paletteName, domain.PresetNames())
		return 1
	}
	if scale == 0 {
		scale = preset.RadiusScale
	}
	classifier, err := domain.NewClassifier(preset.Palette, scale, minRadius)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: classifier: %v\n", err)
		return 1
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load time zone: %v\n", err)
		return 1
	}

	feedBody, err := os.ReadFile(feedPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load feed: %v\n", err)
		return 1
	}
	markerBody, err := os.ReadFile(markersPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load markers: %v\n", err)
		return 1
	}
	markers, err := render.ParseMarkersGeoJSON(markerBody)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: parse markers: %v\n", err)
		return 1
	}

	integrity, features := validateFeedIntegrity(feedBody)
	phases := []*phase{
		integrity,
		validateMarkerParity(features, markers, classifier, loc),
		validateLegendAlignment(markers, classifier),
	}

	// ── Report results ──
	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d feed features, %d markers\n", len(features), len(markers))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Phase 1: feed integrity ──

// validateFeedIntegrity checks the feed envelope and that the declared count
// matches the features present. It returns the raw features for later phases.
func validateFeedIntegrity(body []byte) (*phase, []json.RawMessage) {
	p := &phase{name: "Phase 1: Feed integrity"}

	features, err := domain.DecodeFeatureCollection(body)
	if err != nil {
		p.errorf("decode feed: %v", err)
		return p, nil
	}

	var envelope struct {
		Metadata struct {
			Count *int `json:"count"`
		} `json:"metadata"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Metadata.Count != nil {
		if *envelope.Metadata.Count != len(features) {
			p.errorf("metadata.count is %d but feed has %d features", *envelope.Metadata.Count, len(features))
		}
	}

	seen := make(map[string]int, len(features))
	decoded := 0
	for i, raw := range features {
		f, err := domain.DecodeFeature(raw)
		if err != nil {
			fmt.Printf("  feature[%d]: skipped (%v)\n", i, err)
			continue
		}
		decoded++
		if f.ID == "" {
			continue
		}
		if prev, dup := seen[f.ID]; dup {
			p.errorf("feature[%d]: id %q duplicates feature[%d]", i, f.ID, prev)
		}
		seen[f.ID] = i
	}
	if len(features) > 0 && decoded == 0 {
		p.errorf("none of %d features could be decoded", len(features))
	}
	return p, features
}

// ── Phase 2: marker parity ──

// validateMarkerParity re-derives markers from the feed and compares them to
// the rendered markers by ID.
func validateMarkerParity(features []json.RawMessage, markers []domain.Marker, c domain.Classifier, loc *time.Location) *phase {
	p := &phase{name: "Phase 2: Marker transformation parity"}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	t := pipeline.NewTransformer(c, loc, nil, logger)

	expected := make(map[string]domain.Marker, len(features))
	var order []string
	for _, raw := range features {
		m, err := t.Transform(context.Background(), raw)
		if err != nil {
			continue
		}
		if _, dup := expected[m.ID]; !dup {
			order = append(order, m.ID)
		}
		expected[m.ID] = m
	}

	got := make(map[string]domain.Marker, len(markers))
	for _, m := range markers {
		if _, dup := got[m.ID]; dup {
			p.errorf("marker %q appears more than once", m.ID)
		}
		got[m.ID] = m
	}

	if len(expected) != len(got) {
		p.errorf("feed yields %d markers but %d were rendered", len(expected), len(got))
	}

	for _, id := range order {
		want := expected[id]
		have, ok := got[id]
		if !ok {
			p.errorf("marker %q missing from rendered output", id)
			continue
		}
		pf := func(format string, args ...any) {
			p.errorf("marker %q: "+format, append([]any{id}, args...)...)
		}
		compareMarker(pf, want, have)
	}
	for id := range got {
		if _, ok := expected[id]; !ok {
			p.errorf("rendered marker %q has no matching feed feature", id)
		}
	}
	return p
}

func compareMarker(pf func(string, ...any), want, have domain.Marker) {
	if !floatEq(want.Position.Lat, have.Position.Lat) || !floatEq(want.Position.Lon, have.Position.Lon) {
		pf("position (%g, %g) != expected (%g, %g)", have.Position.Lat, have.Position.Lon, want.Position.Lat, want.Position.Lon)
	}
	if !floatEq(want.Radius, have.Radius) {
		pf("radius %g != expected %g", have.Radius, want.Radius)
	}
	if want.FillColor != have.FillColor {
		pf("fill color %s != expected %s (depth %g)", have.FillColor, want.FillColor, want.Depth)
	}
	if want.StrokeColor != have.StrokeColor {
		pf("stroke color %s != expected %s", have.StrokeColor, want.StrokeColor)
	}
	if !floatEq(want.Weight, have.Weight) || !floatEq(want.Opacity, have.Opacity) || !floatEq(want.FillOpacity, have.FillOpacity) {
		pf("stroke style (%g, %g, %g) != expected (%g, %g, %g)",
			have.Weight, have.Opacity, have.FillOpacity, want.Weight, want.Opacity, want.FillOpacity)
	}
	if want.PopupText != have.PopupText {
		pf("popup %q != expected %q", have.PopupText, want.PopupText)
	}
	if !want.Time.Truncate(time.Second).Equal(have.Time) {
		pf("time %s != expected %s", have.Time.Format(time.RFC3339), want.Time.UTC().Format(time.RFC3339))
	}
}

// ── Phase 3: legend alignment ──

// validateLegendAlignment checks that the legend mirrors the palette and that
// every marker color and radius is one the classifier can produce.
func validateLegendAlignment(markers []domain.Marker, c domain.Classifier) *phase {
	p := &phase{name: "Phase 3: Legend/palette alignment"}

	palette := c.Palette()
	legend := domain.BuildLegend(palette)
	if len(legend) != palette.Len() {
		p.errorf("legend has %d entries, palette has %d buckets", len(legend), palette.Len())
	}
	for i := 1; i < len(legend); i++ {
		if legend[i].LowerBound >= legend[i-1].LowerBound {
			p.errorf("legend entry %d (%s) not below entry %d (%s)", i, legend[i].Label, i-1, legend[i-1].Label)
		}
	}
	if len(legend) > 0 && legend[0].UpperBound != nil {
		p.errorf("top legend entry %q should be open-ended", legend[0].Label)
	}

	inPalette := make(map[domain.Color]bool, palette.Len())
	for _, col := range palette.Colors() {
		inPalette[col] = true
	}
	for _, m := range markers {
		if !inPalette[m.FillColor] {
			p.errorf("marker %q: fill color %s not in palette", m.ID, m.FillColor)
			continue
		}
		if want := c.ColorForDepth(m.Depth); want != m.FillColor {
			p.errorf("marker %q: depth %g maps to %s, rendered %s", m.ID, m.Depth, want, m.FillColor)
		}
		if want := c.RadiusForMagnitude(m.Magnitude); !floatEq(want, m.Radius) {
			p.errorf("marker %q: magnitude %g maps to radius %g, rendered %g", m.ID, m.Magnitude, want, m.Radius)
		}
	}
	return p
}

// ── Helpers ──

func floatEq(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
