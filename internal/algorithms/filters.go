// Primitive filter steps: colour matrices and Gaussian blur
package algorithms

import (
	"fmt"
	"math"
	"strconv"
)

// ColorMatrix is a 4x5 row-major matrix over non-premultiplied RGBA in [0,1]:
// [R_r, R_g, R_b, R_a, R_offset, G_r, ...]. Results are clamped to [0,1].
type ColorMatrix struct {
	Label  string
	Matrix [20]float64
}

func (cm ColorMatrix) Name() string { return cm.Label }

// rgbMatrix embeds a 3x3 RGB matrix, leaving alpha untouched.
func rgbMatrix(label string, m [9]float64) ColorMatrix {
	return ColorMatrix{
		Label: label,
		Matrix: [20]float64{
			m[0], m[1], m[2], 0, 0,
			m[3], m[4], m[5], 0, 0,
			m[6], m[7], m[8], 0, 0,
			0, 0, 0, 1, 0,
		},
	}
}

// linearTransfer applies v*slope + intercept to each RGB channel.
func linearTransfer(label string, slope, intercept float64) ColorMatrix {
	return ColorMatrix{
		Label: label,
		Matrix: [20]float64{
			slope, 0, 0, 0, intercept,
			0, slope, 0, 0, intercept,
			0, 0, slope, 0, intercept,
			0, 0, 0, 1, 0,
		},
	}
}

func percent(amount float64) string {
	return strconv.FormatFloat(math.Round(amount*1e4)/1e2, 'f', -1, 64) + "%"
}

func nonNegative(v float64) float64 {
	return math.Max(v, 0)
}

func unit(v float64) float64 {
	return math.Min(math.Max(v, 0), 1)
}

// Brightness multiplies RGB by amount (1 = unchanged).
func Brightness(amount float64) ColorMatrix {
	amount = nonNegative(amount)
	return linearTransfer("brightness("+percent(amount)+")", amount, 0)
}

// Contrast scales RGB around mid-grey (1 = unchanged).
func Contrast(amount float64) ColorMatrix {
	amount = nonNegative(amount)
	return linearTransfer("contrast("+percent(amount)+")", amount, 0.5-0.5*amount)
}

// Saturate scales chroma using Rec.709-style luminance weights (1 = unchanged).
func Saturate(amount float64) ColorMatrix {
	s := nonNegative(amount)
	return rgbMatrix("saturate("+percent(s)+")", [9]float64{
		0.213 + 0.787*s, 0.715 - 0.715*s, 0.072 - 0.072*s,
		0.213 - 0.213*s, 0.715 + 0.285*s, 0.072 - 0.072*s,
		0.213 - 0.213*s, 0.715 - 0.715*s, 0.072 + 0.928*s,
	})
}

// HueRotate rotates the hue angle by deg degrees while holding luminance.
func HueRotate(deg float64) ColorMatrix {
	rad := deg * math.Pi / 180
	c, s := math.Cos(rad), math.Sin(rad)
	return rgbMatrix("hue-rotate("+strconv.FormatFloat(deg, 'f', -1, 64)+"deg)", [9]float64{
		0.213 + c*0.787 - s*0.213, 0.715 - c*0.715 - s*0.715, 0.072 - c*0.072 + s*0.928,
		0.213 - c*0.213 + s*0.143, 0.715 + c*0.285 + s*0.140, 0.072 - c*0.072 - s*0.283,
		0.213 - c*0.213 - s*0.787, 0.715 - c*0.715 + s*0.715, 0.072 + c*0.928 + s*0.072,
	})
}

// Grayscale desaturates towards Rec.709 luma; amount 1 is fully grey.
func Grayscale(amount float64) ColorMatrix {
	a := 1 - unit(amount)
	return rgbMatrix("grayscale("+percent(unit(amount))+")", [9]float64{
		0.2126 + 0.7874*a, 0.7152 - 0.7152*a, 0.0722 - 0.0722*a,
		0.2126 - 0.2126*a, 0.7152 + 0.2848*a, 0.0722 - 0.0722*a,
		0.2126 - 0.2126*a, 0.7152 - 0.7152*a, 0.0722 + 0.9278*a,
	})
}

// Sepia tints towards brown; amount 1 is full sepia.
func Sepia(amount float64) ColorMatrix {
	a := 1 - unit(amount)
	return rgbMatrix("sepia("+percent(unit(amount))+")", [9]float64{
		0.393 + 0.607*a, 0.769 - 0.769*a, 0.189 - 0.189*a,
		0.349 - 0.349*a, 0.686 + 0.314*a, 0.168 - 0.168*a,
		0.272 - 0.272*a, 0.534 - 0.534*a, 0.131 + 0.869*a,
	})
}

// Invert mixes each channel with its complement; amount 1 is a full inversion.
func Invert(amount float64) ColorMatrix {
	a := unit(amount)
	return linearTransfer("invert("+percent(a)+")", 1-2*a, a)
}

// GaussianBlur convolves with a Gaussian of the given standard deviation in pixels.
// Edge pixels are sampled with clamp-to-edge.
type GaussianBlur struct {
	Sigma float64
}

func (g GaussianBlur) Name() string {
	return fmt.Sprintf("blur(%spx)", strconv.FormatFloat(g.Sigma, 'f', -1, 64))
}

// Radius is the half-width of the Gaussian, ceil(3σ), saturating at math.MaxInt.
func (g GaussianBlur) Radius() int {
	r := g.radius()
	if r >= float64(math.MaxInt) {
		return math.MaxInt
	}
	return int(r)
}

func (g GaussianBlur) radius() float64 {
	if !(g.Sigma > 0) || math.IsInf(g.Sigma, 1) {
		return 0
	}
	return math.Ceil(3 * g.Sigma)
}

// directTail is the longest tail summed term by term; longer tails use the
// midpoint integral, whose relative error is O(1/σ²) at that scale.
const directTail = 1 << 16

// Taps returns the normalised 1-D weights for an axis of n samples. Under
// clamp-to-edge every offset of n-1 or more reads the edge sample, so the
// weight beyond that is folded into the outermost tap. The result is
// symmetric with 2*min(Radius(), n-1)+1 entries.
func (g GaussianBlur) Taps(n int) []float32 {
	r := g.radius()
	m := min(r, float64(max(n-1, 0)))
	if m == 0 {
		return []float32{1}
	}

	reach := int(m)
	denom := 2 * g.Sigma * g.Sigma
	half := make([]float64, reach+1)
	for i := range half {
		half[i] = math.Exp(-float64(i) * float64(i) / denom)
	}
	half[reach] += g.tail(m, r)

	total := half[0]
	for _, w := range half[1:] {
		total += 2 * w
	}

	taps := make([]float32, 2*reach+1)
	for i, w := range half {
		v := float32(w / total)
		taps[reach+i] = v
		taps[reach-i] = v
	}
	return taps
}

// tail is the unnormalised weight of the offsets in (from, to].
func (g GaussianBlur) tail(from, to float64) float64 {
	if to <= from {
		return 0
	}
	denom := 2 * g.Sigma * g.Sigma
	if to-from <= directTail {
		sum := 0.0
		for i := from + 1; i <= to; i++ {
			sum += math.Exp(-i * i / denom)
		}
		return sum
	}
	s := g.Sigma * math.Sqrt2
	return g.Sigma * math.Sqrt(math.Pi/2) * (math.Erf((to+0.5)/s) - math.Erf((from+0.5)/s))
}
