// Controller state: baseline raster, parameters and source metadata
package core

import (
	"image-editor/internal/algorithms"
	"image-editor/internal/io"
	"image-editor/internal/raster"
)

// ImageMetadata contains image information
type ImageMetadata struct {
	Format       string
	SourceWidth  int
	SourceHeight int
	EncodedSize  int // Encoded input size in bytes
	Width        int // Current baseline width
	Height       int // Current baseline height
}

// ImageData is one immutable snapshot of controller state. Operations build a
// modified copy and commit it in one step.
type ImageData struct {
	Original *raster.Image
	Params   algorithms.Parameters
	Metadata ImageMetadata
}

// HasImage returns true if a baseline raster is present
func (d ImageData) HasImage() bool {
	return d.Original != nil
}

func newImageData(img *raster.Image, info io.Info) ImageData {
	return ImageData{
		Original: img,
		Params:   algorithms.Neutral(),
		Metadata: ImageMetadata{
			Format:       info.Format,
			SourceWidth:  info.SourceWidth,
			SourceHeight: info.SourceHeight,
			EncodedSize:  info.EncodedSize,
			Width:        img.Width(),
			Height:       img.Height(),
		},
	}
}

// withOriginal replaces the baseline, keeping parameters and source metadata.
func (d ImageData) withOriginal(img *raster.Image) ImageData {
	d.Original = img
	d.Metadata.Width = img.Width()
	d.Metadata.Height = img.Height()
	return d
}

// renderKey identifies the inputs a rendered raster was computed from.
type renderKey struct {
	original *raster.Image
	params   algorithms.Parameters
}

func (d ImageData) key() renderKey {
	return renderKey{original: d.Original, params: d.Params}
}
