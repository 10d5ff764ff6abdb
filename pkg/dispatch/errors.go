package dispatch

import "errors"

var (
	// ErrFrameTooLarge is returned when a length header exceeds MaxFrameSize.
	ErrFrameTooLarge = errors.New("dispatch: frame too large")

	// ErrNoWorkers is returned when dispatching to an empty worker list.
	ErrNoWorkers = errors.New("dispatch: no workers")

	// ErrInvalidJob is returned for jobs that cannot be rendered.
	ErrInvalidJob = errors.New("dispatch: invalid job")

	// ErrShortBuffer is returned when a worker answers with the wrong pixel count.
	ErrShortBuffer = errors.New("dispatch: result buffer size mismatch")
)
