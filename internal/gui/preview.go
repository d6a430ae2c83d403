package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"image-editor/internal/raster"
)

// PreviewCanvas shows the latest rendered raster scaled to fit.
type PreviewCanvas struct {
	container   *fyne.Container
	image       *canvas.Image
	placeholder *widget.Label
}

func NewPreviewCanvas() *PreviewCanvas {
	pc := &PreviewCanvas{
		image:       canvas.NewImageFromImage(nil),
		placeholder: widget.NewLabel("Open an image to start editing (Ctrl+O)"),
	}
	pc.image.FillMode = canvas.ImageFillContain
	pc.image.ScaleMode = canvas.ImageScaleSmooth
	pc.image.Hide()

	pc.container = container.NewStack(container.NewCenter(pc.placeholder), pc.image)
	return pc
}

// Update replaces the displayed raster. Must run on the UI goroutine.
func (pc *PreviewCanvas) Update(img *raster.Image) {
	if img == nil {
		return
	}
	pc.image.Image = img.ToNRGBA()
	pc.placeholder.Hide()
	pc.image.Show()
	pc.image.Refresh()
}

func (pc *PreviewCanvas) GetContainer() fyne.CanvasObject {
	return pc.container
}
