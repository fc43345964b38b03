// internal/utils/math.go
package utils

import "math"

// NormalizeAngle maps an angle into [-π, π].
func NormalizeAngle(angle float64) float64 {
	if math.IsNaN(angle) || math.IsInf(angle, 0) {
		return 0
	}
	angle = math.Mod(angle, 2*math.Pi)
	if angle > math.Pi {
		angle -= 2 * math.Pi
	} else if angle < -math.Pi {
		angle += 2 * math.Pi
	}
	return angle
}

// Lerp performs linear interpolation.
func Lerp(from, to, t float64) float64 {
	return from + (to-from)*t
}
