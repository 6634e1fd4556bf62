package studio

import "errors"

// Errors reported by export operations. Use errors.Is to check for them.
var (
	// ErrElementNotFound is returned when the element was never registered.
	ErrElementNotFound = errors.New("studio: element not found")

	// ErrControlNotFound is returned when the element has no such control.
	ErrControlNotFound = errors.New("studio: control not found")

	// ErrNoControls is returned when the element has no registered controls.
	ErrNoControls = errors.New("studio: element has no controls")

	// ErrNoKeyFrames is returned when a track has nothing to export.
	ErrNoKeyFrames = errors.New("studio: track has no keyframes")
)
