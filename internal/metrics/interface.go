// Baseline-versus-render comparison for the info panel
package metrics

import (
	"fmt"

	"image-editor/internal/raster"
)

// Metric scores how far a rendered raster has moved from its baseline. Both
// rasters must have the same size.
type Metric interface {
	Calculate(original, processed *raster.Image) (float64, error)

	// GetName is the label shown next to the value.
	GetName() string

	GetDescription() string

	// IsHigherBetter reports whether larger values mean the render is closer
	// to the baseline, as with PSNR.
	IsHigherBetter() bool
}

// Evaluator holds the metrics reported after each render, keyed by the name
// used in the result map.
type Evaluator struct {
	metrics map[string]Metric
}

// NewEvaluator returns an evaluator reporting "mse" (RGB channels only, alpha
// ignored), "psnr" (derived from that MSE, +Inf for identical colours) and
// "max_diff" (any channel, alpha included).
func NewEvaluator() *Evaluator {
	e := &Evaluator{
		metrics: make(map[string]Metric),
	}
	e.RegisterDefaultMetrics()
	return e
}

func (e *Evaluator) RegisterDefaultMetrics() {
	e.Register("mse", NewMSE())
	e.Register("psnr", NewPSNR())
	e.Register("max_diff", NewMaxDiff())
}

// Register adds metric under name, replacing any metric already using it.
func (e *Evaluator) Register(name string, metric Metric) {
	e.metrics[name] = metric
}

// Calculate runs one metric. Mismatched sizes fail with ErrDimensionMismatch.
func (e *Evaluator) Calculate(name string, original, processed *raster.Image) (float64, error) {
	metric, exists := e.metrics[name]
	if !exists {
		return 0, fmt.Errorf("metric not found: %s", name)
	}
	return metric.Calculate(original, processed)
}

// CalculateAll runs every metric and returns the ones that succeeded. A metric
// that fails, for instance on a size mismatch, is left out of the map rather
// than failing the render it describes.
func (e *Evaluator) CalculateAll(original, processed *raster.Image) map[string]float64 {
	results := make(map[string]float64, len(e.metrics))
	for name, metric := range e.metrics {
		if value, err := metric.Calculate(original, processed); err == nil {
			results[name] = value
		}
	}
	return results
}
