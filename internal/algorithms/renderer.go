// Renderer composes a render plan onto a raster
package algorithms

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"image-editor/internal/raster"
)

// Options tunes the renderer. Results do not depend on Workers.
type Options struct {
	Workers int
}

func (o *Options) init() {
	if o.Workers < 1 {
		o.Workers = min(6, runtime.NumCPU())
	}
}

// Renderer maps (raster, parameters) to a new raster. It holds no per-render state
// and is safe for concurrent use.
type Renderer struct {
	options Options
	logger  *logrus.Entry
}

func NewRenderer(options Options, logger *logrus.Entry) *Renderer {
	options.init()
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Renderer{
		options: options,
		logger:  logger.WithField("component", "renderer"),
	}
}

// Render applies Plan(p) to img. The input is never modified.
func (r *Renderer) Render(ctx context.Context, img *raster.Image, p Parameters) (*raster.Image, error) {
	return r.RenderPlan(ctx, img, Plan(p))
}

// RenderPlan applies steps in order. Consecutive colour matrices share one pass;
// a blur is a barrier because it reads neighbouring pixels.
func (r *Renderer) RenderPlan(ctx context.Context, img *raster.Image, steps []Step) (*raster.Image, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	if len(steps) == 0 {
		return img.Clone(), nil
	}

	start := time.Now()
	buf := newWorkBuffer(img)

	for i := 0; i < len(steps); {
		switch s := steps[i].(type) {
		case ColorMatrix:
			var mats [][20]float32
			for i < len(steps) {
				cm, ok := steps[i].(ColorMatrix)
				if !ok {
					break
				}
				mats = append(mats, toFloat32(cm.Matrix))
				i++
			}
			if err := r.applyMatrices(ctx, buf, mats); err != nil {
				return nil, err
			}
		case GaussianBlur:
			if err := r.applyBlur(ctx, buf, s); err != nil {
				return nil, err
			}
			i++
		default:
			return nil, fmt.Errorf("unsupported render step %T", steps[i])
		}
	}

	out, err := buf.quantize()
	if err != nil {
		return nil, err
	}

	r.logger.WithFields(logrus.Fields{
		"plan":     Describe(steps),
		"width":    img.Width(),
		"height":   img.Height(),
		"duration": time.Since(start),
	}).Debug("RENDER: plan applied")

	return out, nil
}

// forEachBand runs fn over disjoint row ranges on the worker pool. Bands that have
// not started when ctx is cancelled are skipped.
func (r *Renderer) forEachBand(ctx context.Context, height int, fn func(y0, y1 int)) error {
	band := max(1, height/(r.options.Workers*4))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.options.Workers)
	for y0 := 0; y0 < height; y0 += band {
		if gctx.Err() != nil {
			break
		}
		y1 := min(y0+band, height)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fn(y0, y1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func (r *Renderer) applyMatrices(ctx context.Context, buf *workBuffer, mats [][20]float32) error {
	stride := buf.width * 4
	return r.forEachBand(ctx, buf.height, func(y0, y1 int) {
		d := buf.data
		for i := y0 * stride; i < y1*stride; i += 4 {
			px := [4]float32{d[i], d[i+1], d[i+2], d[i+3]}
			for m := range mats {
				px = applyMatrix(&mats[m], px)
			}
			d[i], d[i+1], d[i+2], d[i+3] = px[0], px[1], px[2], px[3]
		}
	})
}

func applyMatrix(m *[20]float32, p [4]float32) [4]float32 {
	var out [4]float32
	for row := 0; row < 4; row++ {
		o := row * 5
		v := m[o]*p[0] + m[o+1]*p[1] + m[o+2]*p[2] + m[o+3]*p[3] + m[o+4]
		out[row] = clamp01(v)
	}
	return out
}

// applyBlur runs a separable Gaussian in premultiplied space so transparent pixels
// do not bleed colour into their neighbours. Each axis uses taps folded to its
// own length, so the cost is bounded by the image size whatever the sigma.
func (r *Renderer) applyBlur(ctx context.Context, buf *workBuffer, g GaussianBlur) error {
	w, h := buf.width, buf.height
	xTaps, yTaps := g.Taps(w), g.Taps(h)
	xRadius, yRadius := len(xTaps)/2, len(yTaps)/2
	if xRadius == 0 && yRadius == 0 {
		return nil
	}

	src := buf.data
	tmp := make([]float32, len(src))

	err := r.forEachBand(ctx, h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			row := y * w * 4
			for x := 0; x < w; x++ {
				var acc [4]float32
				for k, wt := range xTaps {
					sx := clampInt(x+k-xRadius, 0, w-1)
					i := row + sx*4
					a := src[i+3]
					acc[0] += wt * src[i] * a
					acc[1] += wt * src[i+1] * a
					acc[2] += wt * src[i+2] * a
					acc[3] += wt * a
				}
				o := row + x*4
				tmp[o], tmp[o+1], tmp[o+2], tmp[o+3] = acc[0], acc[1], acc[2], acc[3]
			}
		}
	})
	if err != nil {
		return err
	}

	return r.forEachBand(ctx, h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < w; x++ {
				var acc [4]float32
				for k, wt := range yTaps {
					sy := clampInt(y+k-yRadius, 0, h-1)
					i := (sy*w + x) * 4
					acc[0] += wt * tmp[i]
					acc[1] += wt * tmp[i+1]
					acc[2] += wt * tmp[i+2]
					acc[3] += wt * tmp[i+3]
				}
				o := (y*w + x) * 4
				a := clamp01(acc[3])
				if a > 0 {
					src[o] = clamp01(acc[0] / acc[3])
					src[o+1] = clamp01(acc[1] / acc[3])
					src[o+2] = clamp01(acc[2] / acc[3])
				} else {
					src[o], src[o+1], src[o+2] = 0, 0, 0
				}
				src[o+3] = a
			}
		}
	})
}

// workBuffer holds non-premultiplied RGBA samples in [0,1].
type workBuffer struct {
	width, height int
	data          []float32
}

func newWorkBuffer(img *raster.Image) *workBuffer {
	pix := img.Pix()
	data := make([]float32, len(pix))
	for i, v := range pix {
		data[i] = float32(v) / 255
	}
	return &workBuffer{width: img.Width(), height: img.Height(), data: data}
}

func (b *workBuffer) quantize() (*raster.Image, error) {
	pix := make([]uint8, len(b.data))
	for i, v := range b.data {
		pix[i] = uint8(clamp01(v)*255 + 0.5)
	}
	return raster.Wrap(b.width, b.height, pix)
}

func toFloat32(m [20]float64) [20]float32 {
	var out [20]float32
	for i, v := range m {
		out[i] = float32(v)
	}
	return out
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
