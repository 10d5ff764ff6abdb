package renderer

import "errors"

var (
	// ErrInvalidDimensions is returned for non-positive image sizes.
	ErrInvalidDimensions = errors.New("renderer: invalid image dimensions")

	// ErrInvalidSamples is returned for a non-positive sample count.
	ErrInvalidSamples = errors.New("renderer: invalid sample count")

	// ErrInvalidRange is returned when a pixel range falls outside the image.
	ErrInvalidRange = errors.New("renderer: invalid pixel range")

	// ErrMissingScene is returned when the integrator has nothing to trace.
	ErrMissingScene = errors.New("renderer: missing scene or camera")
)
