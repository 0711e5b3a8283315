package domain

import "strconv"

// LegendTitle heads the depth legend.
const LegendTitle = "Depth (km)"

// BuildLegend derives one legend row per bucket, highest bucket first. The
// top row is open ended ("90+"); every other row spans its own lower bound to
// the next higher bucket's lower bound ("70–90"). The palette is not touched.
func BuildLegend(p Palette) []LegendEntry {
	entries := make([]LegendEntry, 0, len(p.buckets))
	for i, b := range p.buckets {
		e := LegendEntry{
			Color:      b.Color,
			LowerBound: b.LowerBound,
		}
		if i == 0 {
			e.Label = formatBound(b.LowerBound) + "+"
		} else {
			upper := p.buckets[i-1].LowerBound
			e.UpperBound = &upper
			e.Label = formatBound(b.LowerBound) + "–" + formatBound(upper)
		}
		entries = append(entries, e)
	}
	return entries
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
