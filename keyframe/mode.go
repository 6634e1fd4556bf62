package keyframe

import (
	"fmt"

	"github.com/fogleman/ease"
)

// Mode describes the shape of the curve leaving a keyframe towards the next one.
type Mode int

const (
	Linear Mode = iota
	InQuad
	OutQuad
	InOutQuad
)

// modeCount is the number of defined easing modes.
const modeCount = 4

var modeNames = [modeCount]string{"Linear", "InQuad", "OutQuad", "InOutQuad"}

// String returns the mode name used in exported literals.
func (m Mode) String() string {
	if !m.Valid() {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// Valid reports whether m is one of the defined modes.
func (m Mode) Valid() bool {
	return m >= 0 && m < modeCount
}

// Next cycles to the following mode, wrapping back to Linear.
func (m Mode) Next() Mode {
	if !m.Valid() {
		return Linear
	}
	return (m + 1) % modeCount
}

// Ease maps normalised progress t in [0,1] onto the mode's curve.
// Unknown modes behave as Linear.
func (m Mode) Ease(t float64) float64 {
	switch m {
	case InQuad:
		return ease.InQuad(t)
	case OutQuad:
		return ease.OutQuad(t)
	case InOutQuad:
		return ease.InOutQuad(t)
	default:
		return ease.Linear(t)
	}
}

// ParseMode looks a mode up by name.
func ParseMode(name string) (Mode, bool) {
	for i, n := range modeNames {
		if n == name {
			return Mode(i), true
		}
	}
	return Linear, false
}
