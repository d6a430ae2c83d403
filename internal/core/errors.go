// Error kinds surfaced by the controller
package core

import (
	"errors"

	"image-editor/internal/raster"
)

var (
	// ErrNoImageLoaded is returned by geometry and export before a successful load.
	ErrNoImageLoaded = errors.New("no image loaded")

	// ErrMalformedBuffer signals a raster whose buffer disagrees with its dimensions.
	ErrMalformedBuffer = raster.ErrMalformedBuffer

	errSuperseded = errors.New("render superseded by a newer operation")
)

// DecodeError wraps a failure to turn input bytes into a raster. The controller
// state is unchanged when it is returned.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return "decode image: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
