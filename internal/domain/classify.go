package domain

import (
	"errors"
	"math"
)

// Classifier maps depth to a color and magnitude to a marker radius.
// It holds no mutable state and is safe for concurrent use.
type Classifier struct {
	palette   Palette
	scale     float64
	minRadius float64
}

// NewClassifier builds a Classifier. scale must be positive and finite;
// minRadius must be finite and non-negative.
func NewClassifier(p Palette, scale, minRadius float64) (Classifier, error) {
	if p.Len() == 0 {
		return Classifier{}, errors.New("classifier needs a non-empty palette")
	}
	if !(scale > 0) || math.IsInf(scale, 0) {
		return Classifier{}, errors.New("radius scale must be positive and finite")
	}
	if !(minRadius >= 0) || math.IsInf(minRadius, 0) {
		return Classifier{}, errors.New("minimum radius must be non-negative and finite")
	}
	return Classifier{palette: p, scale: scale, minRadius: minRadius}, nil
}

// ClassifierFromPreset builds a Classifier from a preset with no radius floor.
func ClassifierFromPreset(p Preset) Classifier {
	c, err := NewClassifier(p.Palette, p.RadiusScale, 0)
	if err != nil {
		panic(err)
	}
	return c
}

// Palette returns the classifier's palette.
func (c Classifier) Palette() Palette { return c.palette }

// Scale returns the radius scale constant.
func (c Classifier) Scale() float64 { return c.scale }

// ColorForDepth returns the color of the first bucket whose lower bound is
// below depth, or the default bucket's color. NaN and infinite depths get the
// default color. The zero Classifier returns the empty Color.
func (c Classifier) ColorForDepth(depth float64) Color {
	if len(c.palette.buckets) == 0 {
		return ""
	}
	if math.IsNaN(depth) || math.IsInf(depth, 0) {
		return c.palette.Default().Color
	}
	last := len(c.palette.buckets) - 1
	for _, b := range c.palette.buckets[:last] {
		if b.LowerBound < depth {
			return b.Color
		}
	}
	return c.palette.Default().Color
}

// RadiusForMagnitude returns magnitude * scale, floored at the minimum radius.
// Non-finite magnitudes get the minimum radius.
func (c Classifier) RadiusForMagnitude(magnitude float64) float64 {
	if math.IsNaN(magnitude) || math.IsInf(magnitude, 0) {
		return c.minRadius
	}
	r := magnitude * c.scale
	if r < c.minRadius {
		return c.minRadius
	}
	return r
}
