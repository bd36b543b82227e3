package common

import "math"

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

// DeltaAngle returns the shortest signed difference target-current in degrees.
func DeltaAngle(current, target float64) float64 {
	d := math.Mod(target-current, 360)
	if d > 180 {
		d -= 360
	} else if d < -180 {
		d += 360
	}
	return d
}

// SineBlend maps a phase onto [0,1] with a smooth periodic curve.
func SineBlend(phase float64) float64 {
	return (math.Sin(phase) + 1) / 2
}
