package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildLegend(t *testing.T) {
	p, ok := LookupPreset(PresetViridis)
	require.True(t, ok)

	legend := BuildLegend(p.Palette)
	require.Len(t, legend, p.Palette.Len())

	labels := make([]string, len(legend))
	for i, e := range legend {
		labels[i] = e.Label
	}
	assert.Equal(t, []string{"90+", "70–90", "50–70", "30–50", "10–30", "-10–10"}, labels)

	assert.Equal(t, Color("#440154FF"), legend[0].Color)
	assert.Nil(t, legend[0].UpperBound)
	require.NotNil(t, legend[1].UpperBound)
	assert.Equal(t, 90.0, *legend[1].UpperBound)
	assert.Equal(t, Color("#404688FF"), legend[len(legend)-1].Color)
}

func TestBuildLegend_OrderAndSuffix(t *testing.T) {
	for _, name := range PresetNames() {
		t.Run(name, func(t *testing.T) {
			p, _ := LookupPreset(name)
			legend := BuildLegend(p.Palette)

			for i := 1; i < len(legend); i++ {
				assert.Less(t, legend[i].LowerBound, legend[i-1].LowerBound)
			}
			for i, e := range legend {
				assert.Equal(t, i == 0, strings.HasSuffix(e.Label, "+"), "entry %d label %q", i, e.Label)
			}
		})
	}
}

func TestBuildLegend_DoesNotMutatePalette(t *testing.T) {
	p, _ := LookupPreset(PresetClassic)
	before := p.Palette.Buckets()

	legend := BuildLegend(p.Palette)
	legend[0].Color = "#000000"
	_ = BuildLegend(p.Palette)

	assert.Equal(t, before, p.Palette.Buckets())
}

func TestBuildLegend_FractionalBounds(t *testing.T) {
	legend := BuildLegend(MustPalette([]ColorBucket{{2.5, "#a"}, {0, "#b"}}))
	assert.Equal(t, "2.5+", legend[0].Label)
	assert.Equal(t, "0–2.5", legend[1].Label)
}
