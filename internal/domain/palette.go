package domain

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// Color is a CSS color value, e.g. "#440154FF".
type Color string

// ColorBucket assigns Color to depths strictly greater than LowerBound.
// The last bucket of a palette is the default; its LowerBound only labels the
// legend and takes no part in matching.
type ColorBucket struct {
	LowerBound float64 `json:"lower_bound"`
	Color      Color   `json:"color"`
}

// Palette is an immutable, ordered set of color buckets with strictly
// descending lower bounds.
type Palette struct {
	buckets []ColorBucket
}

// NewPalette validates and copies buckets. Bounds must be finite and strictly
// descending; every bucket needs a color.
func NewPalette(buckets []ColorBucket) (Palette, error) {
	if len(buckets) == 0 {
		return Palette{}, errors.New("palette needs at least one bucket")
	}
	for i, b := range buckets {
		if b.Color == "" {
			return Palette{}, fmt.Errorf("bucket %d: empty color", i)
		}
		if math.IsNaN(b.LowerBound) || math.IsInf(b.LowerBound, 0) {
			return Palette{}, fmt.Errorf("bucket %d: non-finite lower bound", i)
		}
		if i > 0 && b.LowerBound >= buckets[i-1].LowerBound {
			return Palette{}, fmt.Errorf("bucket %d: lower bound %g not below %g", i, b.LowerBound, buckets[i-1].LowerBound)
		}
	}
	return Palette{buckets: append([]ColorBucket(nil), buckets...)}, nil
}

// MustPalette is NewPalette for static tables; it panics on invalid input.
func MustPalette(buckets []ColorBucket) Palette {
	p, err := NewPalette(buckets)
	if err != nil {
		panic(err)
	}
	return p
}

// Buckets returns a copy of the buckets in scan order (highest bound first).
func (p Palette) Buckets() []ColorBucket {
	return append([]ColorBucket(nil), p.buckets...)
}

// Len reports the number of buckets.
func (p Palette) Len() int { return len(p.buckets) }

// Default returns the catch-all bucket.
func (p Palette) Default() ColorBucket {
	if len(p.buckets) == 0 {
		return ColorBucket{}
	}
	return p.buckets[len(p.buckets)-1]
}

// Colors returns every color in scan order.
func (p Palette) Colors() []Color {
	out := make([]Color, len(p.buckets))
	for i, b := range p.buckets {
		out[i] = b.Color
	}
	return out
}

// Preset is a named palette plus its marker radius scale.
type Preset struct {
	Name        string
	Palette     Palette
	RadiusScale float64
}

// Preset names.
const (
	PresetViridis = "viridis"
	PresetClassic = "classic"
)

var presets = map[string]Preset{
	// Viridis ramp from the original map, darkest for the deepest events.
	PresetViridis: {
		Name: PresetViridis,
		Palette: MustPalette([]ColorBucket{
			{LowerBound: 90, Color: "#440154FF"},
			{LowerBound: 70, Color: "#471164FF"},
			{LowerBound: 50, Color: "#481F70FF"},
			{LowerBound: 30, Color: "#472D7BFF"},
			{LowerBound: 10, Color: "#443A83FF"},
			{LowerBound: -10, Color: "#404688FF"},
		}),
		RadiusScale: 5,
	},
	// Green-to-red ramp, red for the deepest events.
	PresetClassic: {
		Name: PresetClassic,
		Palette: MustPalette([]ColorBucket{
			{LowerBound: 90, Color: "#FF5F65"},
			{LowerBound: 70, Color: "#FCA35D"},
			{LowerBound: 50, Color: "#FDB72A"},
			{LowerBound: 30, Color: "#F7DB11"},
			{LowerBound: 10, Color: "#DCF400"},
			{LowerBound: -10, Color: "#A3F600"},
		}),
		RadiusScale: 4,
	},
}

// LookupPreset returns the preset registered under name.
func LookupPreset(name string) (Preset, bool) {
	p, ok := presets[name]
	return p, ok
}

// PresetNames lists the registered preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
