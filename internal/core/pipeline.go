// Pipeline controller: owns the baseline raster, the adjustment parameters and the
// rendered result, and keeps the three consistent.
package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"image-editor/internal/algorithms"
	"image-editor/internal/geometry"
	"image-editor/internal/io"
	"image-editor/internal/metrics"
	"image-editor/internal/raster"
)

// RenderCallback receives every rendered raster that becomes current, with
// comparison metrics against the baseline when an evaluator is configured.
type RenderCallback func(rendered *raster.Image, metrics map[string]float64)

// Option configures a Controller.
type Option func(*Controller)

// WithEvaluator computes metrics for each stored render.
func WithEvaluator(e *metrics.Evaluator) Option {
	return func(c *Controller) { c.evaluator = e }
}

// WithRenderCallback registers cb for stored renders. It runs on the goroutine
// that finished the render, outside the controller lock.
func WithRenderCallback(cb RenderCallback) Option {
	return func(c *Controller) { c.onRender = cb }
}

// Controller is the pipeline state machine. Every public operation commits its
// state change atomically and re-renders from the baseline. A new operation
// cancels the render still in flight, so the last committed state always wins.
type Controller struct {
	id        string
	codec     io.Codec
	renderer  *algorithms.Renderer
	evaluator *metrics.Evaluator
	onRender  RenderCallback
	logger    *logrus.Entry

	mu          sync.Mutex
	data        ImageData
	version     uint64
	rendered    *raster.Image
	renderedKey renderKey
	job         *renderJob

	stats pipelineStats
}

type renderJob struct {
	key    renderKey
	cancel context.CancelCauseFunc
	done   chan struct{}
}

func NewController(codec io.Codec, renderer *algorithms.Renderer, logger *logrus.Entry, opts ...Option) *Controller {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	id := uuid.NewString()
	c := &Controller{
		id:       id,
		codec:    codec,
		renderer: renderer,
		logger:   logger.WithField("controller_id", id),
		data:     ImageData{Params: algorithms.Neutral()},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ID identifies the controller in logs.
func (c *Controller) ID() string { return c.id }

// Load decodes data and makes it the new baseline with neutral parameters.
// On a decode failure the previous image stays current.
func (c *Controller) Load(ctx context.Context, data []byte) error {
	img, info, err := c.codec.Decode(data)
	if err != nil {
		c.logger.WithError(err).WithField("size", humanize.Bytes(uint64(len(data)))).
			Warn("PIPELINE: decode failed, keeping current image")
		return &DecodeError{Err: err}
	}

	return c.apply(ctx, "load", logrus.Fields{
		"format": info.Format,
		"size":   humanize.Bytes(uint64(info.EncodedSize)),
		"width":  img.Width(),
		"height": img.Height(),
	}, func(ImageData) (ImageData, error) {
		return newImageData(img, info), nil
	})
}

// SetParameter updates one continuous adjustment.
func (c *Controller) SetParameter(ctx context.Context, field algorithms.Field, value int) error {
	return c.apply(ctx, "set_parameter", logrus.Fields{"field": field, "value": value},
		func(d ImageData) (ImageData, error) {
			p, err := d.Params.With(field, value)
			if err != nil {
				return d, err
			}
			d.Params = p
			return d, nil
		})
}

// SetPreset selects the preset filter, replacing the previous one.
func (c *Controller) SetPreset(ctx context.Context, preset algorithms.Preset) error {
	return c.apply(ctx, "set_preset", logrus.Fields{"preset": preset},
		func(d ImageData) (ImageData, error) {
			if !preset.Valid() {
				return d, fmt.Errorf("unknown preset %d", int(preset))
			}
			d.Params = d.Params.WithPreset(preset)
			return d, nil
		})
}

// SetParameters replaces the whole parameter set.
func (c *Controller) SetParameters(ctx context.Context, p algorithms.Parameters) error {
	return c.apply(ctx, "set_parameters", logrus.Fields{"params": p.String()},
		func(d ImageData) (ImageData, error) {
			if !p.Preset.Valid() {
				return d, fmt.Errorf("unknown preset %d", int(p.Preset))
			}
			d.Params = p
			return d, nil
		})
}

// Reset restores neutral parameters. The baseline is untouched.
func (c *Controller) Reset(ctx context.Context) error {
	return c.apply(ctx, "reset", nil, func(d ImageData) (ImageData, error) {
		d.Params = algorithms.Neutral()
		return d, nil
	})
}

// ApplyGeometry replaces the baseline with op applied to the unfiltered baseline.
// The current parameters stay active on the new baseline.
func (c *Controller) ApplyGeometry(ctx context.Context, op geometry.Op) error {
	return c.apply(ctx, "geometry", logrus.Fields{"geometry_op": op.String()},
		func(d ImageData) (ImageData, error) {
			if !d.HasImage() {
				return d, ErrNoImageLoaded
			}
			img, err := geometry.Apply(op, d.Original)
			if err != nil {
				return d, err
			}
			return d.withOriginal(img), nil
		})
}

// Export encodes the current rendered raster.
func (c *Controller) Export(ctx context.Context) ([]byte, error) {
	img, err := c.Rendered(ctx)
	if err != nil {
		return nil, err
	}

	data, err := c.codec.Encode(img)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	c.logger.WithField("size", humanize.Bytes(uint64(len(data)))).Info("PIPELINE: image exported")
	return data, nil
}

// Rendered returns the render of the current state, waiting for or starting
// the render when the stored one is stale.
func (c *Controller) Rendered(ctx context.Context) (*raster.Image, error) {
	for {
		c.mu.Lock()
		data := c.data
		if !data.HasImage() {
			c.mu.Unlock()
			return nil, ErrNoImageLoaded
		}
		if c.isFreshLocked() {
			img := c.rendered
			c.mu.Unlock()
			return img, nil
		}

		if job := c.job; job != nil && job.key == data.key() {
			c.mu.Unlock()
			select {
			case <-job.done:
				continue
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		rctx, job := c.startRenderLocked(ctx, data.key())
		c.mu.Unlock()

		img, err := c.render(rctx, data)
		superseded := err != nil && errors.Is(context.Cause(rctx), errSuperseded)
		c.finishRender(job)
		if superseded {
			c.stats.superseded()
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("render: %w", err)
		}
		return img, nil
	}
}

// Stats reports render activity.
func (c *Controller) Stats() Stats {
	return c.stats.snapshot()
}

// Snapshot returns the committed state.
func (c *Controller) Snapshot() ImageData {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data
}

// Params returns the current parameters.
func (c *Controller) Params() algorithms.Parameters {
	return c.Snapshot().Params
}

// Original returns the current baseline, or nil before the first load.
func (c *Controller) Original() *raster.Image {
	return c.Snapshot().Original
}

// Metadata returns information about the loaded image.
func (c *Controller) Metadata() ImageMetadata {
	return c.Snapshot().Metadata
}

// HasImage returns true once an image has been loaded.
func (c *Controller) HasImage() bool {
	return c.Snapshot().HasImage()
}

// apply commits change and renders the new state. On a render failure the
// previous state is restored unless a newer operation has already replaced it.
func (c *Controller) apply(ctx context.Context, op string, fields logrus.Fields, change func(ImageData) (ImageData, error)) error {
	start := time.Now()
	log := c.logger.WithField("op", op).WithFields(fields)

	c.mu.Lock()
	prev := c.data
	next, err := change(prev)
	if err != nil {
		c.mu.Unlock()
		log.WithError(err).Warn("PIPELINE: operation rejected")
		return err
	}
	c.data = next
	c.version++
	version := c.version
	c.stats.operation()

	if !next.HasImage() || c.isFreshLocked() {
		if c.job != nil {
			c.job.cancel(errSuperseded)
		}
		c.mu.Unlock()
		log.Debug("PIPELINE: state committed, no render needed")
		return nil
	}

	rctx, job := c.startRenderLocked(ctx, next.key())
	c.mu.Unlock()

	_, err = c.render(rctx, next)
	superseded := err != nil && errors.Is(context.Cause(rctx), errSuperseded)
	c.finishRender(job)

	switch {
	case err == nil:
		log.WithField("duration", time.Since(start)).Debug("PIPELINE: operation applied")
		return nil
	case superseded:
		c.stats.superseded()
		log.Debug("PIPELINE: render superseded by a newer operation")
		return nil
	}
	c.stats.failed()

	c.mu.Lock()
	if c.version == version {
		c.data = prev
		c.version++
	}
	c.mu.Unlock()

	log.WithError(err).Error("PIPELINE: render failed, previous state restored")
	return fmt.Errorf("%s: %w", op, err)
}

func (c *Controller) isFreshLocked() bool {
	return c.rendered != nil && c.renderedKey == c.data.key()
}

// startRenderLocked cancels the in-flight render and registers a new one.
// c.mu must be held.
func (c *Controller) startRenderLocked(ctx context.Context, key renderKey) (context.Context, *renderJob) {
	if c.job != nil {
		c.job.cancel(errSuperseded)
	}
	rctx, cancel := context.WithCancelCause(ctx)
	job := &renderJob{key: key, cancel: cancel, done: make(chan struct{})}
	c.job = job
	return rctx, job
}

func (c *Controller) finishRender(job *renderJob) {
	job.cancel(nil)
	c.mu.Lock()
	if c.job == job {
		c.job = nil
	}
	c.mu.Unlock()
	close(job.done)
}

// render computes data's render and stores it if data is still the current state.
func (c *Controller) render(ctx context.Context, data ImageData) (*raster.Image, error) {
	start := time.Now()
	out, err := c.renderer.Render(ctx, data.Original, data.Params)
	if err != nil {
		return nil, err
	}

	key := data.key()
	c.mu.Lock()
	stored := c.data.key() == key
	if stored {
		c.rendered = out
		c.renderedKey = key
	}
	c.mu.Unlock()

	if !stored {
		return out, nil
	}
	c.stats.rendered(time.Since(start))

	var m map[string]float64
	if c.evaluator != nil {
		m = c.evaluator.CalculateAll(data.Original, out)
	}
	if c.onRender != nil {
		c.onRender(out, m)
	}
	return out, nil
}
