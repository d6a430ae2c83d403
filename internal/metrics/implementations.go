// Concrete implementations of comparison metrics
package metrics

import (
	"errors"
	"fmt"
	"math"

	"image-editor/internal/raster"
)

// ErrDimensionMismatch is returned when the two rasters differ in size.
var ErrDimensionMismatch = errors.New("image dimensions mismatch")

func checkPair(original, processed *raster.Image) error {
	if err := original.Validate(); err != nil {
		return err
	}
	if err := processed.Validate(); err != nil {
		return err
	}
	if original.Width() != processed.Width() || original.Height() != processed.Height() {
		return fmt.Errorf("%w: %dx%d vs %dx%d", ErrDimensionMismatch,
			original.Width(), original.Height(), processed.Width(), processed.Height())
	}
	return nil
}

// meanSquaredError averages squared differences over the RGB channels.
func meanSquaredError(original, processed *raster.Image) float64 {
	sum := 0.0
	count := 0
	for y := 0; y < original.Height(); y++ {
		a, b := original.Row(y), processed.Row(y)
		for i := 0; i < len(a); i += 4 {
			for c := 0; c < 3; c++ {
				d := float64(a[i+c]) - float64(b[i+c])
				sum += d * d
			}
			count += 3
		}
	}
	return sum / float64(count)
}

// MSE implements mean squared error over RGB samples
type MSE struct{}

func NewMSE() *MSE { return &MSE{} }

func (m *MSE) Calculate(original, processed *raster.Image) (float64, error) {
	if err := checkPair(original, processed); err != nil {
		return 0, err
	}
	return meanSquaredError(original, processed), nil
}

func (m *MSE) GetName() string        { return "MSE" }
func (m *MSE) GetDescription() string { return "Mean squared error of the colour channels" }
func (m *MSE) IsHigherBetter() bool   { return false }

// PSNR implements Peak Signal-to-Noise Ratio
type PSNR struct{}

func NewPSNR() *PSNR { return &PSNR{} }

func (p *PSNR) Calculate(original, processed *raster.Image) (float64, error) {
	if err := checkPair(original, processed); err != nil {
		return 0, err
	}

	mse := meanSquaredError(original, processed)
	if mse == 0 {
		return math.Inf(1), nil // Perfect match
	}
	return 20 * math.Log10(255.0/math.Sqrt(mse)), nil
}

func (p *PSNR) GetName() string        { return "PSNR" }
func (p *PSNR) GetDescription() string { return "Peak Signal-to-Noise Ratio in dB" }
func (p *PSNR) IsHigherBetter() bool   { return true }

// MaxDiff is the largest absolute difference of any sample, alpha included
type MaxDiff struct{}

func NewMaxDiff() *MaxDiff { return &MaxDiff{} }

func (m *MaxDiff) Calculate(original, processed *raster.Image) (float64, error) {
	if err := checkPair(original, processed); err != nil {
		return 0, err
	}

	largest := 0
	for y := 0; y < original.Height(); y++ {
		a, b := original.Row(y), processed.Row(y)
		for i := range a {
			d := int(a[i]) - int(b[i])
			if d < 0 {
				d = -d
			}
			largest = max(largest, d)
		}
	}
	return float64(largest), nil
}

func (m *MaxDiff) GetName() string        { return "Max difference" }
func (m *MaxDiff) GetDescription() string { return "Largest absolute per-sample difference" }
func (m *MaxDiff) IsHigherBetter() bool   { return false }
