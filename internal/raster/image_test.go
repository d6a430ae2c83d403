package raster

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_CopiesBuffer(t *testing.T) {
	pix := []uint8{1, 2, 3, 4, 5, 6, 7, 8}
	img, err := New(2, 1, pix)
	require.NoError(t, err)

	pix[0] = 99
	assert.Equal(t, [4]uint8{1, 2, 3, 4}, img.At(0, 0))
	assert.Equal(t, [4]uint8{5, 6, 7, 8}, img.At(1, 0))

	out := img.Pix()
	out[0] = 42
	assert.Equal(t, uint8(1), img.At(0, 0)[0], "Pix must return a copy")
}

func TestNew_Malformed(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		n             int
	}{
		{"short buffer", 2, 2, 15},
		{"long buffer", 1, 1, 5},
		{"zero width", 0, 1, 0},
		{"negative height", 1, -1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.width, tt.height, make([]uint8, tt.n))
			require.ErrorIs(t, err, ErrMalformedBuffer)
		})
	}
}

func TestFromImage_OffsetBounds(t *testing.T) {
	src := image.NewNRGBA(image.Rect(10, 20, 12, 21))
	src.SetNRGBA(10, 20, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	src.SetNRGBA(11, 20, color.NRGBA{R: 40, G: 50, B: 60, A: 128})

	img, err := FromImage(src)
	require.NoError(t, err)
	assert.Equal(t, 2, img.Width())
	assert.Equal(t, 1, img.Height())
	assert.Equal(t, [4]uint8{10, 20, 30, 255}, img.At(0, 0))
	assert.Equal(t, [4]uint8{40, 50, 60, 128}, img.At(1, 0))
}

func TestFromImage_Gray(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 1, 1))
	src.SetGray(0, 0, color.Gray{Y: 77})

	img, err := FromImage(src)
	require.NoError(t, err)
	assert.Equal(t, [4]uint8{77, 77, 77, 255}, img.At(0, 0))
}

func TestEqualAndClone(t *testing.T) {
	a, err := New(1, 2, []uint8{1, 2, 3, 4, 5, 6, 7, 8})
	require.NoError(t, err)

	b := a.Clone()
	assert.True(t, a.Equal(b))
	assert.NotSame(t, a, b)

	c, err := New(2, 1, []uint8{1, 2, 3, 4, 5, 6, 7, 8})
	require.NoError(t, err)
	assert.False(t, a.Equal(c), "same bytes, different shape")
}

func TestToNRGBA(t *testing.T) {
	img, err := New(1, 1, []uint8{9, 8, 7, 6})
	require.NoError(t, err)

	out := img.ToNRGBA()
	assert.Equal(t, color.NRGBA{R: 9, G: 8, B: 7, A: 6}, out.NRGBAAt(0, 0))

	out.Pix[0] = 0
	assert.Equal(t, uint8(9), img.At(0, 0)[0])
}
