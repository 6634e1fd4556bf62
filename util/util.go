package util

import (
	"math"
)

// Clamp limits value to the inclusive range [min, max].
func Clamp(value float64, min float64, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// ClampInt limits value to the inclusive range [min, max].
func ClampInt(value int, min int, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// Lerp blends between a and b by t.
func Lerp(a float64, b float64, t float64) float64 {
	return a + (b-a)*t
}

// Pulse oscillates smoothly between 0 and 1 once per unit of time.
func Pulse(time float64) float64 {
	return 0.5 * (1 + math.Sin(2*math.Pi*time))
}
