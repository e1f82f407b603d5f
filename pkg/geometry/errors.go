package geometry

import "errors"

// Sentinel errors for conditions the host is expected to recover from.
var (
	// ErrNoMatchingResolution is returned when no supported preview size fits the surface.
	// The host keeps its previous preview size.
	ErrNoMatchingResolution = errors.New("geometry: no suitable preview size")

	// ErrDegenerateBounds is returned when an area is requested before the preview
	// has non-zero layout bounds.
	ErrDegenerateBounds = errors.New("geometry: preview bounds have zero width or height")

	// ErrUnclassifiedRotation is returned when a reading falls between rotation windows.
	// It means "no transition", not a failure.
	ErrUnclassifiedRotation = errors.New("geometry: reading outside all rotation windows")

	// ErrInvalidExtent is returned for non-positive surface dimensions.
	ErrInvalidExtent = errors.New("geometry: surface extent must be positive")
)
