package algorithms

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"image-editor/internal/raster"
)

func newTestRenderer() *Renderer {
	return NewRenderer(Options{Workers: 2}, nil)
}

// gradient builds a w x h image with distinct colours and a varying alpha channel.
func gradient(t *testing.T, w, h int, opaque bool) *raster.Image {
	t.Helper()
	pix := make([]uint8, w*h*4)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := (y*w + x) * 4
			pix[i] = uint8((x * 37) % 256)
			pix[i+1] = uint8((y * 53) % 256)
			pix[i+2] = uint8((x*y*11 + 7) % 256)
			if opaque {
				pix[i+3] = 255
			} else {
				pix[i+3] = uint8((x*29 + y*13) % 256)
			}
		}
	}
	img, err := raster.New(w, h, pix)
	require.NoError(t, err)
	return img
}

func solid(t *testing.T, w, h int, c [4]uint8) *raster.Image {
	t.Helper()
	pix := make([]uint8, w*h*4)
	for i := 0; i < len(pix); i += 4 {
		copy(pix[i:i+4], c[:])
	}
	img, err := raster.New(w, h, pix)
	require.NoError(t, err)
	return img
}

func TestRender_NeutralIsIdentity(t *testing.T) {
	r := newTestRenderer()
	for _, img := range []*raster.Image{
		gradient(t, 7, 5, true),
		gradient(t, 13, 9, false),
		gradient(t, 1, 1, false),
	} {
		out, err := r.Render(context.Background(), img, Neutral())
		require.NoError(t, err)
		assert.True(t, img.Equal(out))
		assert.NotSame(t, img, out)
	}
}

func TestRender_NeutralEquivalents(t *testing.T) {
	r := newTestRenderer()
	img := gradient(t, 6, 4, false)

	p := Neutral()
	p.Hue = 360
	out, err := r.Render(context.Background(), img, p)
	require.NoError(t, err)
	assert.True(t, img.Equal(out), "a full hue turn is neutral")

	p = Neutral()
	p.Blur = -3
	out, err = r.Render(context.Background(), img, p)
	require.NoError(t, err)
	assert.True(t, img.Equal(out), "negative blur clamps to zero")
}

func TestRender_BrightnessScalesAndClamps(t *testing.T) {
	img, err := raster.New(2, 2, []uint8{
		100, 10, 0, 255,
		200, 60, 170, 128,
		2, 4, 6, 0,
		254, 120, 30, 77,
	})
	require.NoError(t, err)

	p := Neutral()
	p.Brightness = 150
	out, err := newTestRenderer().Render(context.Background(), img, p)
	require.NoError(t, err)

	src := img.Pix()
	got := out.Pix()
	for i := range src {
		want := int(src[i])
		if i%4 != 3 {
			want = min(255, want*3/2)
		}
		assert.Equal(t, uint8(want), got[i], "sample %d", i)
	}
}

func TestRender_DoesNotMutateInput(t *testing.T) {
	img := gradient(t, 5, 5, false)
	before := img.Clone()

	p := Parameters{Brightness: 140, Contrast: 80, Saturation: 30, Hue: 45, Blur: 2, Preset: PresetVintage}
	_, err := newTestRenderer().Render(context.Background(), img, p)
	require.NoError(t, err)
	assert.True(t, before.Equal(img))
}

func TestRender_Deterministic(t *testing.T) {
	img := gradient(t, 31, 17, false)
	p := Parameters{Brightness: 120, Contrast: 90, Saturation: 150, Hue: -60, Blur: 3, Preset: PresetWarm}

	a, err := NewRenderer(Options{Workers: 1}, nil).Render(context.Background(), img, p)
	require.NoError(t, err)
	b, err := NewRenderer(Options{Workers: 8}, nil).Render(context.Background(), img, p)
	require.NoError(t, err)
	assert.True(t, a.Equal(b), "worker count must not change the output")
}

func TestRender_Presets(t *testing.T) {
	r := newTestRenderer()
	tests := []struct {
		preset Preset
		in     [4]uint8
		want   [4]uint8
	}{
		{PresetInvert, [4]uint8{0, 100, 255, 200}, [4]uint8{255, 155, 0, 200}},
		{PresetGrayscale, [4]uint8{255, 0, 0, 255}, [4]uint8{54, 54, 54, 255}},
		{PresetGrayscale, [4]uint8{80, 80, 80, 255}, [4]uint8{80, 80, 80, 255}},
		{PresetSepia, [4]uint8{255, 255, 255, 255}, [4]uint8{255, 255, 239, 255}},
		{PresetSepia, [4]uint8{0, 0, 0, 10}, [4]uint8{0, 0, 0, 10}},
	}
	for _, tt := range tests {
		t.Run(tt.preset.String(), func(t *testing.T) {
			img := solid(t, 2, 2, tt.in)
			out, err := r.Render(context.Background(), img, Neutral().WithPreset(tt.preset))
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.At(1, 1))
		})
	}
}

func TestRender_PresetLayersOnContinuous(t *testing.T) {
	r := newTestRenderer()
	img := solid(t, 1, 1, [4]uint8{100, 100, 100, 255})

	p := Neutral()
	p.Brightness = 150
	p.Preset = PresetInvert
	out, err := r.Render(context.Background(), img, p)
	require.NoError(t, err)

	// brightness first (100 -> 150), then invert (150 -> 105)
	assert.Equal(t, [4]uint8{105, 105, 105, 255}, out.At(0, 0))
}

func TestRender_OrderMatters(t *testing.T) {
	r := newTestRenderer()
	img := solid(t, 1, 1, [4]uint8{200, 200, 200, 255})

	// brightness then contrast: 200*1.5 clamps to 255, contrast 0 forces mid-grey
	out, err := r.RenderPlan(context.Background(), img, []Step{Brightness(1.5), Contrast(0)})
	require.NoError(t, err)
	assert.Equal(t, [4]uint8{128, 128, 128, 255}, out.At(0, 0))

	out, err = r.RenderPlan(context.Background(), img, []Step{Contrast(0), Brightness(1.5)})
	require.NoError(t, err)
	assert.Equal(t, [4]uint8{191, 191, 191, 255}, out.At(0, 0))
}

func TestRender_SaturationZeroIsGrey(t *testing.T) {
	img := gradient(t, 4, 4, true)
	p := Neutral()
	p.Saturation = 0
	out, err := newTestRenderer().Render(context.Background(), img, p)
	require.NoError(t, err)

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			px := out.At(x, y)
			assert.InDelta(t, px[0], px[1], 1)
			assert.InDelta(t, px[1], px[2], 1)
		}
	}
}

func TestRender_BlurKeepsUniformImage(t *testing.T) {
	img := solid(t, 9, 6, [4]uint8{12, 200, 77, 255})
	p := Neutral()
	p.Blur = 4
	out, err := newTestRenderer().Render(context.Background(), img, p)
	require.NoError(t, err)
	assert.True(t, img.Equal(out))
}

func TestRender_BlurSpreadsAndPreservesEdges(t *testing.T) {
	pix := make([]uint8, 9*1*4)
	for i := 3; i < len(pix); i += 4 {
		pix[i] = 255
	}
	pix[4*4] = 255 // red spike in the middle
	img, err := raster.New(9, 1, pix)
	require.NoError(t, err)

	p := Neutral()
	p.Blur = 1
	out, err := newTestRenderer().Render(context.Background(), img, p)
	require.NoError(t, err)

	mid := out.At(4, 0)[0]
	near := out.At(3, 0)[0]
	far := out.At(0, 0)[0]
	assert.Less(t, mid, uint8(255))
	assert.Greater(t, near, uint8(0))
	assert.Less(t, near, mid)
	assert.Equal(t, uint8(0), far)
	assert.Equal(t, out.At(3, 0), out.At(5, 0), "blur is symmetric")
}

func TestRender_BlurTransparentNeighboursDoNotBleed(t *testing.T) {
	img, err := raster.New(2, 1, []uint8{
		255, 0, 0, 255,
		0, 255, 0, 0,
	})
	require.NoError(t, err)

	p := Neutral()
	p.Blur = 2
	out, err := newTestRenderer().Render(context.Background(), img, p)
	require.NoError(t, err)

	px := out.At(1, 0)
	assert.Equal(t, uint8(255), px[0])
	assert.Equal(t, uint8(0), px[1], "colour of a transparent pixel must not leak")
	assert.Greater(t, px[3], uint8(0))
}

func TestRender_HugeBlurIsBoundedByImage(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, blur := range []int{1 << 40, math.MaxInt} {
		p := Neutral()
		p.Blur = blur

		one := solid(t, 1, 1, [4]uint8{10, 20, 30, 255})
		out, err := newTestRenderer().Render(ctx, one, p)
		require.NoError(t, err)
		assert.True(t, one.Equal(out))

		out, err = newTestRenderer().Render(ctx, gradient(t, 5, 3, false), p)
		require.NoError(t, err)
		assert.Equal(t, 5, out.Width())
		assert.Equal(t, 3, out.Height())
	}
}

func TestRender_LargeBlurAveragesEdges(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pix := make([]uint8, 64*64*4)
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			i := (y*64 + x) * 4
			if x >= 32 {
				pix[i], pix[i+1], pix[i+2] = 255, 255, 255
			}
			pix[i+3] = 255
		}
	}
	img, err := raster.New(64, 64, pix)
	require.NoError(t, err)

	p := Neutral()
	p.Blur = 100000
	out, err := newTestRenderer().Render(ctx, img, p)
	require.NoError(t, err)

	for _, x := range []int{0, 31, 32, 63} {
		px := out.At(x, 10)
		assert.InDelta(t, 127.5, float64(px[0]), 1, "x=%d", x)
		assert.Equal(t, uint8(255), px[3])
	}
}

func TestRender_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := Neutral()
	p.Blur = 2
	_, err := newTestRenderer().Render(ctx, gradient(t, 16, 16, true), p)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRender_Malformed(t *testing.T) {
	_, err := newTestRenderer().Render(context.Background(), nil, Neutral())
	require.ErrorIs(t, err, raster.ErrMalformedBuffer)
}
