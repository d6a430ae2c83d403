// Codec registry for decoding input bytes and encoding exports
package io

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"image-editor/internal/raster"
)

var (
	// ErrUnsupportedFormat is returned for bytes no registered decoder understands.
	ErrUnsupportedFormat = errors.New("unsupported image format")
	// ErrImageTooLarge is returned when a dimension exceeds Options.MaxDimension.
	ErrImageTooLarge = errors.New("image too large")
)

// DefaultMaxDimension bounds either side of a decoded image.
const DefaultMaxDimension = 16384

// Info describes the source of a decoded raster.
type Info struct {
	Format       string
	SourceWidth  int
	SourceHeight int
	EncodedSize  int
}

// Codec turns encoded bytes into rasters and rasters into a lossless encoding.
type Codec interface {
	Name() string
	Decode(data []byte) (*raster.Image, Info, error)
	Encode(img *raster.Image) ([]byte, error)
}

// Options configures codecs.
type Options struct {
	// MaxDimension rejects larger images before their pixels are decoded.
	MaxDimension int
	// FitWidth and FitHeight, when both positive, downscale larger images on load
	// so the working raster fits the box with its aspect ratio kept.
	FitWidth  int
	FitHeight int
}

func (o *Options) init() {
	if o.MaxDimension <= 0 {
		o.MaxDimension = DefaultMaxDimension
	}
}

// Factory builds a codec.
type Factory func(options Options, logger *logrus.Entry) Codec

var codecs = make(map[string]Factory)

// Register makes a codec available under name.
func Register(name string, factory Factory) {
	codecs[name] = factory
}

// New builds the named codec.
func New(name string, options Options, logger *logrus.Entry) (Codec, error) {
	factory, exists := codecs[name]
	if !exists {
		return nil, fmt.Errorf("codec not found: %s (available: %s)", name, strings.Join(Names(), ", "))
	}
	options.init()
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return factory(options, logger.WithField("codec", name)), nil
}

// Names lists registered codecs.
func Names() []string {
	names := make([]string, 0, len(codecs))
	for name := range codecs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultFilename is the download name for an export made at t.
func DefaultFilename(t time.Time) string {
	return fmt.Sprintf("edited-image-%d.png", t.UnixMilli())
}

// IsSupportedImageFormat reports whether path has an extension the native codec reads.
func IsSupportedImageFormat(path string) bool {
	ext := strings.ToLower(getFileExtension(path))
	for _, format := range SupportedExtensions() {
		if ext == format {
			return true
		}
	}
	return false
}

// SupportedExtensions lists the file extensions accepted by the open dialog.
func SupportedExtensions() []string {
	return []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tiff", ".tif", ".webp"}
}

func getFileExtension(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '.' {
			return path[i:]
		}
		if path[i] == '/' || path[i] == '\\' {
			break
		}
	}
	return ""
}
