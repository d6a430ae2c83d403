package algorithms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNeutral(t *testing.T) {
	p := Neutral()
	assert.Equal(t, Parameters{Brightness: 100, Contrast: 100, Saturation: 100, Hue: 0, Blur: 0, Preset: PresetNone}, p)
	assert.True(t, p.IsNeutral())
	assert.Empty(t, Plan(p))
}

func TestParameters_With(t *testing.T) {
	p, err := Neutral().With(FieldContrast, 250)
	require.NoError(t, err, "out-of-range values are not errors")
	assert.Equal(t, 250, p.Contrast)
	assert.Equal(t, 100, p.Brightness)

	v, err := p.Get(FieldContrast)
	require.NoError(t, err)
	assert.Equal(t, 250, v)

	_, err = p.With(Field("gamma"), 1)
	require.ErrorIs(t, err, ErrUnknownField)
	_, err = p.Get(Field("gamma"))
	require.ErrorIs(t, err, ErrUnknownField)
}

func TestParameters_PresetComposesWithContinuous(t *testing.T) {
	p, err := Neutral().With(FieldHue, 30)
	require.NoError(t, err)
	p = p.WithPreset(PresetSepia).WithPreset(PresetCool)

	assert.Equal(t, PresetCool, p.Preset, "selecting a preset replaces the previous one")
	assert.Equal(t, 30, p.Hue)
	assert.False(t, p.IsNeutral())
}

func TestParsePreset(t *testing.T) {
	for _, preset := range Presets() {
		got, err := ParsePreset(preset.String())
		require.NoError(t, err)
		assert.Equal(t, preset, got)
	}

	got, err := ParsePreset("  Vintage ")
	require.NoError(t, err)
	assert.Equal(t, PresetVintage, got)

	got, err = ParsePreset("")
	require.NoError(t, err)
	assert.Equal(t, PresetNone, got)

	_, err = ParsePreset("lomo")
	require.Error(t, err)
}

func TestPreset_TextRoundTrip(t *testing.T) {
	var p Preset
	require.NoError(t, p.UnmarshalText([]byte("warm")))
	assert.Equal(t, PresetWarm, p)

	text, err := p.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "warm", string(text))

	_, err = Preset(42).MarshalText()
	require.Error(t, err)
	assert.False(t, Preset(-1).Valid())
}

func TestFields(t *testing.T) {
	fields := Fields()
	require.Len(t, fields, 5)

	order := []Field{FieldBrightness, FieldContrast, FieldSaturation, FieldHue, FieldBlur}
	neutral := Neutral()
	for i, f := range fields {
		assert.Equal(t, order[i], f.Field)
		def, err := neutral.Get(f.Field)
		require.NoError(t, err)
		assert.Equal(t, def, f.Default, "registry default for %s must be neutral", f.Field)
		assert.LessOrEqual(t, f.Min, f.Default)
		assert.GreaterOrEqual(t, f.Max, f.Default)
	}

	hue, ok := FieldInfo(FieldHue)
	require.True(t, ok)
	assert.Equal(t, "-45°", hue.FormatValue(-45))

	_, ok = FieldInfo(Field("gamma"))
	assert.False(t, ok)
}
