package scene

import "errors"

var (
	// ErrInvalidMaterialIndex is returned when a primitive refers to a missing material.
	ErrInvalidMaterialIndex = errors.New("scene: invalid material index")

	// ErrMismatchedGeometry is returned when geometry and material indices differ in length.
	ErrMismatchedGeometry = errors.New("scene: geometry and material index lengths differ")

	// ErrIndexBuilt is returned when building the spatial index twice.
	ErrIndexBuilt = errors.New("scene: spatial index already built")

	// ErrFrozen is returned when modifying a scene after its index was built.
	ErrFrozen = errors.New("scene: scene is frozen")

	// ErrUnknownScene is returned for an unrecognized preset name.
	ErrUnknownScene = errors.New("scene: unknown scene")
)
