package algorithms

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlan_FixedOrder(t *testing.T) {
	p := Parameters{Brightness: 120, Contrast: 80, Saturation: 150, Hue: 90, Blur: 2, Preset: PresetVintage}
	assert.Equal(t,
		"brightness(120%) contrast(80%) saturate(150%) hue-rotate(90deg) blur(2px) sepia(30%) saturate(120%) contrast(110%)",
		Describe(Plan(p)))
}

func TestPlan_SkipsNeutralFields(t *testing.T) {
	p := Neutral()
	p.Saturation = 0
	assert.Equal(t, "saturate(0%)", Describe(Plan(p)))

	assert.Equal(t, "none", Describe(Plan(Neutral())))
}

func TestRecipeTable(t *testing.T) {
	tests := []struct {
		preset Preset
		want   string
	}{
		{PresetNone, "none"},
		{PresetGrayscale, "grayscale(100%)"},
		{PresetSepia, "sepia(100%)"},
		{PresetInvert, "invert(100%)"},
		{PresetVintage, "sepia(30%) saturate(120%) contrast(110%)"},
		{PresetWarm, "sepia(20%) saturate(120%) hue-rotate(10deg)"},
		{PresetCool, "saturate(120%) hue-rotate(180deg) brightness(110%)"},
	}
	for _, tt := range tests {
		t.Run(tt.preset.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, Describe(Recipe(tt.preset)))
		})
	}
}

func TestRecipe_ReturnsCopy(t *testing.T) {
	steps := Recipe(PresetVintage)
	steps[0] = Invert(1)
	assert.Equal(t, "sepia(30%)", Recipe(PresetVintage)[0].Name())
}

func TestFilterAmountsClamp(t *testing.T) {
	assert.Equal(t, "brightness(0%)", Brightness(-2).Name())
	assert.Equal(t, "invert(100%)", Invert(3).Name())
	assert.Equal(t, "sepia(0%)", Sepia(-1).Name())
}

func TestGaussianTaps(t *testing.T) {
	g := GaussianBlur{Sigma: 2}
	k := g.Taps(100)
	assert.Len(t, k, 2*g.Radius()+1)
	assert.Equal(t, 6, g.Radius())

	var sum float32
	for i, w := range k {
		sum += w
		assert.Equal(t, w, k[len(k)-1-i])
	}
	assert.InDelta(t, 1.0, sum, 1e-5)

	assert.Equal(t, 0, GaussianBlur{}.Radius())
	assert.Equal(t, []float32{1}, GaussianBlur{}.Taps(10))
	assert.Equal(t, []float32{1}, g.Taps(1))
}

func TestGaussianTaps_FoldedToAxis(t *testing.T) {
	g := GaussianBlur{Sigma: 2}
	full := g.Taps(100)
	folded := g.Taps(3)
	require.Len(t, folded, 5)

	// Offsets of two or more read the edge sample of a 3-pixel axis.
	var edge float32
	for _, w := range full[:5] {
		edge += w
	}
	assert.InDelta(t, edge, folded[0], 1e-6)
	assert.InDelta(t, full[5], folded[1], 1e-6)
	assert.InDelta(t, full[6], folded[2], 1e-6)
	assert.Equal(t, folded[0], folded[4])
}

func TestGaussianTaps_HugeSigma(t *testing.T) {
	for _, sigma := range []float64{100000, 1 << 40, float64(math.MaxInt)} {
		g := GaussianBlur{Sigma: sigma}
		assert.Positive(t, g.Radius())

		k := g.Taps(64)
		require.Len(t, k, 127)
		var sum float64
		for _, w := range k {
			sum += float64(w)
		}
		assert.InDelta(t, 1.0, sum, 1e-4)
		assert.Greater(t, k[0], k[63], "edge taps carry the folded tails")
	}
	assert.Equal(t, math.MaxInt, GaussianBlur{Sigma: float64(math.MaxInt)}.Radius())
}
