// Destructive geometry operations that produce a new baseline raster
package geometry

import (
	"fmt"
	"strings"

	"image-editor/internal/raster"
)

// Axis selects the mirror direction of a flip.
type Axis int

const (
	Horizontal Axis = iota // mirror columns
	Vertical               // mirror rows
)

func (a Axis) String() string {
	switch a {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	}
	return fmt.Sprintf("axis(%d)", int(a))
}

// Op is a committed geometry operation.
type Op int

const (
	RotateClockwise Op = iota
	FlipHorizontal
	FlipVertical
)

var opNames = map[Op]string{
	RotateClockwise: "rotate",
	FlipHorizontal:  "flip-h",
	FlipVertical:    "flip-v",
}

func (op Op) String() string {
	if name, ok := opNames[op]; ok {
		return name
	}
	return fmt.Sprintf("op(%d)", int(op))
}

// ParseOp accepts "rotate", "flip-h" or "flip-v".
func ParseOp(s string) (Op, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for op, n := range opNames {
		if n == name {
			return op, nil
		}
	}
	return 0, fmt.Errorf("unknown geometry operation %q", s)
}

// Apply runs op on img.
func Apply(op Op, img *raster.Image) (*raster.Image, error) {
	switch op {
	case RotateClockwise:
		return Rotate90(img)
	case FlipHorizontal:
		return Flip(img, Horizontal)
	case FlipVertical:
		return Flip(img, Vertical)
	}
	return nil, fmt.Errorf("unknown geometry operation %d", int(op))
}

// Rotate90 rotates clockwise by a quarter turn. Width and height swap and
// out(x, y) = in(y, H-1-x). It is an exact permutation of samples.
func Rotate90(img *raster.Image) (*raster.Image, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}

	w, h := img.Width(), img.Height()
	outW, outH := h, w
	pix := make([]uint8, len(img.Row(0))*h)
	for y := 0; y < outH; y++ {
		for x := 0; x < outW; x++ {
			src := img.Row(h - 1 - x)[y*4 : y*4+4]
			copy(pix[(y*outW+x)*4:], src)
		}
	}
	return raster.Wrap(outW, outH, pix)
}

// Flip mirrors img across the given axis. Applying the same flip twice is an
// exact identity.
func Flip(img *raster.Image, axis Axis) (*raster.Image, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}

	w, h := img.Width(), img.Height()
	stride := w * 4
	pix := make([]uint8, stride*h)

	switch axis {
	case Horizontal:
		for y := 0; y < h; y++ {
			row := img.Row(y)
			dst := pix[y*stride : (y+1)*stride]
			for x := 0; x < w; x++ {
				copy(dst[x*4:x*4+4], row[(w-1-x)*4:(w-x)*4])
			}
		}
	case Vertical:
		for y := 0; y < h; y++ {
			copy(pix[y*stride:(y+1)*stride], img.Row(h-1-y))
		}
	default:
		return nil, fmt.Errorf("unknown flip axis %d", int(axis))
	}

	return raster.Wrap(w, h, pix)
}
