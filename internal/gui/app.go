// Main editor window: preview on the left, adjustment controls on the right
package gui

import (
	"context"
	"fmt"
	"io"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"image-editor/internal/algorithms"
	"image-editor/internal/core"
	"image-editor/internal/geometry"
	imgio "image-editor/internal/io"
	"image-editor/internal/raster"
)

// ControllerFactory builds the pipeline controller with the options the window
// needs to receive renders.
type ControllerFactory func(opts ...core.Option) (*core.Controller, error)

// Application is the desktop editor.
type Application struct {
	app    fyne.App
	window fyne.Window
	logger *logrus.Entry
	ctx    context.Context
	cancel context.CancelFunc

	controller *core.Controller
	debounce   *debouncer
	ops        *opQueue

	preview  *PreviewCanvas
	controls *ControlPanel
	info     *InfoPanel
	menu     *MenuHandler
}

func NewApplication(ctx context.Context, app fyne.App, newController ControllerFactory, previewDelay time.Duration, logger *logrus.Logger) (*Application, error) {
	window := app.NewWindow("Image Editor")
	window.Resize(fyne.NewSize(1200, 800))
	window.CenterOnScreen()

	ctx, cancel := context.WithCancel(ctx)
	a := &Application{
		app:      app,
		window:   window,
		logger:   logrus.NewEntry(logger).WithField("component", "gui"),
		ctx:      ctx,
		cancel:   cancel,
		debounce: newDebouncer(previewDelay),
		ops:      newOpQueue(),
	}

	controller, err := newController(core.WithRenderCallback(a.onRendered))
	if err != nil {
		cancel()
		return nil, fmt.Errorf("create controller: %w", err)
	}
	a.controller = controller
	go a.ops.Run(ctx)

	a.initializeGUI()
	a.setupLayout()
	a.setupShortcuts()
	return a, nil
}

func (a *Application) initializeGUI() {
	a.preview = NewPreviewCanvas()
	a.info = NewInfoPanel()
	a.controls = NewControlPanel(ControlCallbacks{
		OnParameter: a.setParameter,
		OnPreset:    a.setPreset,
		OnGeometry:  a.applyGeometry,
		OnReset:     a.reset,
		OnOpen:      func() { a.menu.OpenImage() },
		OnSave:      func() { a.menu.SaveImage() },
	})
	a.menu = NewMenuHandler(a.window, a.logger, a.loadImage, a.controller.Export)
}

func (a *Application) setupLayout() {
	right := container.NewVScroll(container.NewVBox(
		a.controls.GetContainer(),
		widget.NewSeparator(),
		a.info.GetContainer(),
	))

	split := container.NewHSplit(container.NewPadded(a.preview.GetContainer()), right)
	split.SetOffset(0.72)

	a.window.SetMainMenu(a.menu.GetMainMenu(a.reset))
	a.window.SetContent(split)
	a.window.SetOnDropped(a.onDropped)
}

// onDropped loads the first dropped file that looks like an image.
func (a *Application) onDropped(_ fyne.Position, uris []fyne.URI) {
	for _, uri := range uris {
		if !imgio.IsSupportedImageFormat(uri.Path()) {
			continue
		}
		reader, err := storage.Reader(uri)
		if err != nil {
			a.showError("Failed to Open Image", err)
			return
		}
		data, err := io.ReadAll(reader)
		reader.Close()
		if err != nil {
			a.showError("Failed to Read Image", err)
			return
		}
		a.loadImage(uri.Name(), data)
		return
	}
}

// ShowAndRun blocks until the window is closed or ctx is cancelled.
func (a *Application) ShowAndRun() {
	a.logger.Info("Showing editor window")

	go func() {
		<-a.ctx.Done()
		fyne.Do(a.app.Quit)
	}()

	a.window.SetCloseIntercept(func() {
		a.cleanup()
		a.app.Quit()
	})
	a.window.ShowAndRun()
	a.cleanup()
}

func (a *Application) cleanup() {
	a.debounce.Stop()
	a.cancel()
}

func (a *Application) loadImage(name string, data []byte) {
	a.ops.Push(func() {
		if err := a.controller.Load(a.ctx, data); err != nil {
			fyne.Do(func() { a.showError("Failed to Load Image", err) })
			return
		}
		meta := a.controller.Metadata()
		params := a.controller.Params()
		fyne.Do(func() {
			a.controls.SetParams(params)
			a.controls.Enable()
			a.info.ShowImageInfo(name, meta)
			a.window.SetTitle("Image Editor - " + name)
		})
		a.logger.WithField("file", name).Info("Image loaded")
	})
}

func (a *Application) setParameter(field algorithms.Field, value int) {
	a.debounce.Trigger(string(field), func() {
		a.run("set "+string(field), func(ctx context.Context) error {
			return a.controller.SetParameter(ctx, field, value)
		})
	})
}

func (a *Application) setPreset(preset algorithms.Preset) {
	a.run("preset", func(ctx context.Context) error {
		return a.controller.SetPreset(ctx, preset)
	})
}

func (a *Application) applyGeometry(op geometry.Op) {
	a.run(op.String(), func(ctx context.Context) error {
		if err := a.controller.ApplyGeometry(ctx, op); err != nil {
			return err
		}
		meta := a.controller.Metadata()
		fyne.Do(func() { a.info.ShowDimensions(meta) })
		return nil
	})
}

func (a *Application) reset() {
	a.debounce.Stop()
	a.controls.SetParams(algorithms.Neutral())
	a.run("reset", func(ctx context.Context) error {
		if !a.controller.HasImage() {
			return nil
		}
		return a.controller.Reset(ctx)
	})
}

// run queues a controller operation behind those already submitted; it runs
// off the UI goroutine.
func (a *Application) run(name string, op func(ctx context.Context) error) {
	a.ops.Push(func() {
		if err := op(a.ctx); err != nil && a.ctx.Err() == nil {
			fyne.Do(func() { a.showError(fmt.Sprintf("Failed to apply %s", name), err) })
		}
	})
}

func (a *Application) onRendered(img *raster.Image, metrics map[string]float64) {
	stats := a.controller.Stats()
	fyne.Do(func() {
		a.preview.Update(img)
		a.info.UpdateMetrics(metrics)
		a.info.ShowRenderTime(stats.LastRender)
	})
}

func (a *Application) showError(title string, err error) {
	a.logger.WithError(err).Error(title)
	dialog.ShowError(fmt.Errorf("%s: %w", title, err), a.window)
	a.info.ShowMessage(err.Error())
}
