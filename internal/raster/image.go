// Immutable RGBA raster shared by every pipeline stage
package raster

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
)

// ErrMalformedBuffer reports a pixel buffer whose length disagrees with its dimensions.
var ErrMalformedBuffer = errors.New("malformed pixel buffer")

// Image is a row-major, non-premultiplied RGBA raster. It never changes after
// construction; every transform produces a new Image.
type Image struct {
	width  int
	height int
	pix    []uint8
}

// New validates the buffer against the dimensions and copies it.
func New(width, height int, pix []uint8) (*Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: invalid dimensions %dx%d", ErrMalformedBuffer, width, height)
	}
	if want := width * height * 4; len(pix) != want {
		return nil, fmt.Errorf("%w: %dx%d needs %d bytes, got %d", ErrMalformedBuffer, width, height, want, len(pix))
	}

	owned := make([]uint8, len(pix))
	copy(owned, pix)
	return &Image{width: width, height: height, pix: owned}, nil
}

// Wrap adopts pix without copying. Callers must not touch pix afterwards.
func Wrap(width, height int, pix []uint8) (*Image, error) {
	if width <= 0 || height <= 0 || len(pix) != width*height*4 {
		return nil, fmt.Errorf("%w: %dx%d with %d bytes", ErrMalformedBuffer, width, height, len(pix))
	}
	return &Image{width: width, height: height, pix: pix}, nil
}

// FromImage converts a decoded image into a raster.
func FromImage(src image.Image) (*Image, error) {
	b := src.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("%w: empty image bounds %v", ErrMalformedBuffer, b)
	}

	nrgba, ok := src.(*image.NRGBA)
	if !ok || nrgba.Stride != b.Dx()*4 || b.Min != (image.Point{}) {
		nrgba = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(nrgba, nrgba.Bounds(), src, b.Min, draw.Src)
		return Wrap(b.Dx(), b.Dy(), nrgba.Pix)
	}
	return New(b.Dx(), b.Dy(), nrgba.Pix)
}

func (img *Image) Width() int  { return img.width }
func (img *Image) Height() int { return img.height }

// Bounds returns the raster rectangle anchored at the origin.
func (img *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, img.width, img.height)
}

// Pix returns a copy of the pixel samples.
func (img *Image) Pix() []uint8 {
	out := make([]uint8, len(img.pix))
	copy(out, img.pix)
	return out
}

// At returns the RGBA samples at (x, y). Coordinates must be in range.
func (img *Image) At(x, y int) [4]uint8 {
	i := (y*img.width + x) * 4
	return [4]uint8{img.pix[i], img.pix[i+1], img.pix[i+2], img.pix[i+3]}
}

// Row returns the samples of row y without copying. The slice must not be modified.
func (img *Image) Row(y int) []uint8 {
	stride := img.width * 4
	return img.pix[y*stride : (y+1)*stride : (y+1)*stride]
}

// Validate re-checks the buffer invariant.
func (img *Image) Validate() error {
	if img == nil {
		return fmt.Errorf("%w: nil image", ErrMalformedBuffer)
	}
	if img.width <= 0 || img.height <= 0 || len(img.pix) != img.width*img.height*4 {
		return fmt.Errorf("%w: %dx%d with %d bytes", ErrMalformedBuffer, img.width, img.height, len(img.pix))
	}
	return nil
}

// Equal reports pixel-exact equality.
func (img *Image) Equal(other *Image) bool {
	if img == nil || other == nil {
		return img == other
	}
	if img.width != other.width || img.height != other.height {
		return false
	}
	for i := range img.pix {
		if img.pix[i] != other.pix[i] {
			return false
		}
	}
	return true
}

// Clone returns an independent copy.
func (img *Image) Clone() *Image {
	c, _ := New(img.width, img.height, img.pix)
	return c
}

// ToNRGBA returns a fresh standard library image for display or encoding.
func (img *Image) ToNRGBA() *image.NRGBA {
	out := image.NewNRGBA(img.Bounds())
	copy(out.Pix, img.pix)
	return out
}

