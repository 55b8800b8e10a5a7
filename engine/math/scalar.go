package math

import (
	"golang.org/x/exp/constraints"
)

const (
	// K_PI is an approximate representation of PI.
	K_PI float32 = 3.14159265358979323846
	// K_HALF_PI is an approximate representation of PI divided by 2.
	K_HALF_PI float32 = 0.5 * K_PI
	// K_QUARTER_PI is an approximate representation of PI divided by 4.
	K_QUARTER_PI float32 = 0.25 * K_PI
	// K_DEG2RAD_MULTIPLIER converts degrees to radians when multiplied.
	K_DEG2RAD_MULTIPLIER float32 = K_PI / 180.0
	// K_RAD2DEG_MULTIPLIER converts radians to degrees when multiplied.
	K_RAD2DEG_MULTIPLIER float32 = 180.0 / K_PI
	// K_FLOAT_EPSILON is the difference between 1.0 and the next float32.
	K_FLOAT_EPSILON float32 = 1.192092896e-07
)

// DegToRad converts degrees to radians.
func DegToRad(degrees float32) float32 {
	return degrees * K_DEG2RAD_MULTIPLIER
}

// RadToDeg converts radians to degrees.
func RadToDeg(radians float32) float32 {
	return radians * K_RAD2DEG_MULTIPLIER
}

// Clamp limits v to the range [low, high].
func Clamp[T constraints.Ordered](v, low, high T) T {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}
