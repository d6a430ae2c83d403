package recipe

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"image-editor/internal/algorithms"
	"image-editor/internal/core"
	"image-editor/internal/geometry"
	imgio "image-editor/internal/io"
)

func TestParse(t *testing.T) {
	r, err := Parse([]byte(`
geometry = ["rotate", "flip-v"]

[adjustments]
brightness = 120
hue = -30
preset = "vintage"
`))
	require.NoError(t, err)

	want := algorithms.Neutral()
	want.Brightness = 120
	want.Hue = -30
	want.Preset = algorithms.PresetVintage
	assert.Equal(t, want, r.Adjustments)

	ops, err := r.Ops()
	require.NoError(t, err)
	assert.Equal(t, []geometry.Op{geometry.RotateClockwise, geometry.FlipVertical}, ops)
}

func TestParse_Empty(t *testing.T) {
	r, err := Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, r.Geometry)
	assert.Equal(t, algorithms.Neutral(), r.Adjustments)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"bad geometry", `geometry = ["rotate", "shear"]`},
		{"bad preset", "[adjustments]\npreset = \"lomo\""},
		{"unknown key", "[adjustments]\ngamma = 2"},
		{"syntax", "geometry = [rotate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.text))
			require.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "warm.toml")
	require.NoError(t, os.WriteFile(path, []byte("[adjustments]\npreset = \"warm\"\nblur = 2\n"), 0o600))

	r, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, algorithms.PresetWarm, r.Adjustments.Preset)
	assert.Equal(t, 2, r.Adjustments.Blur)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}

func TestApply(t *testing.T) {
	ctx := context.Background()
	codec, err := imgio.New("native", imgio.Options{}, nil)
	require.NoError(t, err)
	c := core.NewController(codec, algorithms.NewRenderer(algorithms.Options{Workers: 1}, nil), nil)

	img := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	for i := range img.Pix {
		img.Pix[i] = uint8(i * 7)
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, c.Load(ctx, buf.Bytes()))

	r, err := Parse([]byte("geometry = [\"rotate\"]\n[adjustments]\ncontrast = 140\n"))
	require.NoError(t, err)
	require.NoError(t, r.Apply(ctx, c))

	assert.Equal(t, 2, c.Metadata().Width)
	assert.Equal(t, 4, c.Metadata().Height)
	assert.Equal(t, 140, c.Params().Contrast)

	empty := core.NewController(codec, algorithms.NewRenderer(algorithms.Options{}, nil), nil)
	require.ErrorIs(t, r.Apply(ctx, empty), core.ErrNoImageLoaded)
}
