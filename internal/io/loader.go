// Native codec: standard library and x/image decoders, PNG export
package io

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"math"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"image-editor/internal/raster"
)

func init() {
	Register("native", func(options Options, logger *logrus.Entry) Codec {
		return NewImageLoader(options, logger)
	})
}

// ImageLoader is the pure Go codec
type ImageLoader struct {
	options Options
	logger  *logrus.Entry
	encoder png.Encoder
}

func NewImageLoader(options Options, logger *logrus.Entry) *ImageLoader {
	options.init()
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &ImageLoader{
		options: options,
		logger:  logger,
		encoder: png.Encoder{CompressionLevel: png.DefaultCompression},
	}
}

func (il *ImageLoader) Name() string { return "native" }

// Decode reads PNG, JPEG, GIF, BMP, TIFF or WebP bytes.
func (il *ImageLoader) Decode(data []byte) (*raster.Image, Info, error) {
	il.logger.WithField("size", humanize.Bytes(uint64(len(data)))).Debug("Decoding image")

	if len(data) == 0 {
		return nil, Info{}, fmt.Errorf("%w: empty input", ErrUnsupportedFormat)
	}

	format, err := checkHeader(data, il.options.MaxDimension)
	if err != nil {
		return nil, Info{}, err
	}

	decoded, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, Info{}, fmt.Errorf("decode %s: %w", format, err)
	}

	img, err := raster.FromImage(decoded)
	if err != nil {
		return nil, Info{}, err
	}

	info := Info{
		Format:       format,
		SourceWidth:  img.Width(),
		SourceHeight: img.Height(),
		EncodedSize:  len(data),
	}

	img, err = fitWithin(img, il.options.FitWidth, il.options.FitHeight)
	if err != nil {
		return nil, Info{}, err
	}

	il.logger.WithFields(logrus.Fields{
		"format": format,
		"size":   humanize.Bytes(uint64(len(data))),
		"source": fmt.Sprintf("%dx%d", info.SourceWidth, info.SourceHeight),
		"width":  img.Width(),
		"height": img.Height(),
	}).Info("Image decoded successfully")

	return img, info, nil
}

// Encode writes a lossless PNG.
func (il *ImageLoader) Encode(img *raster.Image) ([]byte, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := il.encoder.Encode(&buf, img.ToNRGBA()); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}

	il.logger.WithFields(logrus.Fields{
		"width":  img.Width(),
		"height": img.Height(),
		"size":   humanize.Bytes(uint64(buf.Len())),
	}).Info("Image encoded successfully")

	return buf.Bytes(), nil
}

// checkHeader reads only the image header, so oversized images are rejected
// before any pixel is decoded.
func checkHeader(data []byte, maxDimension int) (string, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	return format, checkDimensions(cfg.Width, cfg.Height, maxDimension)
}

func checkDimensions(width, height, maxDimension int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: invalid dimensions %dx%d", ErrUnsupportedFormat, width, height)
	}
	if width > maxDimension || height > maxDimension {
		return fmt.Errorf("%w: %dx%d (max: %d)", ErrImageTooLarge, width, height, maxDimension)
	}
	return nil
}

// fitWithin scales img down so it fits a fw x fh box. Smaller images and a
// disabled box return img unchanged.
func fitWithin(img *raster.Image, fw, fh int) (*raster.Image, error) {
	if fw <= 0 || fh <= 0 {
		return img, nil
	}
	w, h := img.Width(), img.Height()
	if w <= fw && h <= fh {
		return img, nil
	}

	ratio := math.Min(float64(fw)/float64(w), float64(fh)/float64(h))
	nw := max(1, int(math.Round(float64(w)*ratio)))
	nh := max(1, int(math.Round(float64(h)*ratio)))

	dst := image.NewNRGBA(image.Rect(0, 0, nw, nh))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img.ToNRGBA(), img.Bounds(), xdraw.Src, nil)
	return raster.Wrap(nw, nh, dst.Pix)
}
