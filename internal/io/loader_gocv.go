//go:build gocv

// OpenCV-backed codec, available when built with -tags gocv
package io

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"image-editor/internal/raster"
)

func init() {
	Register("opencv", func(options Options, logger *logrus.Entry) Codec {
		return NewOpenCVCodec(options, logger)
	})
}

// OpenCVCodec decodes with IMDecode and encodes PNG with IMEncode.
type OpenCVCodec struct {
	options Options
	logger  *logrus.Entry
}

func NewOpenCVCodec(options Options, logger *logrus.Entry) *OpenCVCodec {
	options.init()
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &OpenCVCodec{options: options, logger: logger}
}

func (oc *OpenCVCodec) Name() string { return "opencv" }

func (oc *OpenCVCodec) Decode(data []byte) (*raster.Image, Info, error) {
	if len(data) == 0 {
		return nil, Info{}, fmt.Errorf("%w: empty input", ErrUnsupportedFormat)
	}

	// Formats the header sniffer does not know are checked after decoding.
	if _, err := checkHeader(data, oc.options.MaxDimension); errors.Is(err, ErrImageTooLarge) {
		return nil, Info{}, err
	}

	mat, err := gocv.IMDecode(data, gocv.IMReadUnchanged)
	if err != nil {
		return nil, Info{}, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	defer mat.Close()

	if mat.Empty() {
		return nil, Info{}, fmt.Errorf("%w: opencv could not decode input", ErrUnsupportedFormat)
	}
	if err := checkDimensions(mat.Cols(), mat.Rows(), oc.options.MaxDimension); err != nil {
		return nil, Info{}, err
	}

	var code gocv.ColorConversionCode
	switch mat.Type() {
	case gocv.MatTypeCV8UC1:
		code = gocv.ColorGrayToBGRA
	case gocv.MatTypeCV8UC3:
		code = gocv.ColorBGRToRGBA
	case gocv.MatTypeCV8UC4:
		code = gocv.ColorBGRAToRGBA
	default:
		return nil, Info{}, fmt.Errorf("%w: unsupported mat type %v", ErrUnsupportedFormat, mat.Type())
	}

	rgba := gocv.NewMat()
	defer rgba.Close()
	gocv.CvtColor(mat, &rgba, code)

	img, err := raster.New(rgba.Cols(), rgba.Rows(), rgba.ToBytes())
	if err != nil {
		return nil, Info{}, err
	}

	info := Info{
		Format:       "opencv",
		SourceWidth:  img.Width(),
		SourceHeight: img.Height(),
		EncodedSize:  len(data),
	}

	img, err = fitWithin(img, oc.options.FitWidth, oc.options.FitHeight)
	if err != nil {
		return nil, Info{}, err
	}

	oc.logger.WithFields(logrus.Fields{
		"size":     humanize.Bytes(uint64(len(data))),
		"width":    img.Width(),
		"height":   img.Height(),
		"channels": mat.Channels(),
	}).Info("Image decoded successfully")

	return img, info, nil
}

func (oc *OpenCVCodec) Encode(img *raster.Image) ([]byte, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}

	rgba, err := gocv.NewMatFromBytes(img.Height(), img.Width(), gocv.MatTypeCV8UC4, img.Pix())
	if err != nil {
		return nil, fmt.Errorf("wrap raster: %w", err)
	}
	defer rgba.Close()

	bgra := gocv.NewMat()
	defer bgra.Close()
	gocv.CvtColor(rgba, &bgra, gocv.ColorRGBAToBGRA)

	buf, err := gocv.IMEncode(gocv.PNGFileExt, bgra)
	if err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	defer buf.Close()

	out := bytes.Clone(buf.GetBytes())
	oc.logger.WithField("size", humanize.Bytes(uint64(len(out)))).Info("Image encoded successfully")
	return out, nil
}
