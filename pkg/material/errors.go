package material

import "errors"

var (
	// ErrInvalidMaterial is returned for parameter sets that cannot be shaded.
	ErrInvalidMaterial = errors.New("material: invalid parameters")
)
