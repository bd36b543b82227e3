package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec3 is a world-space vector. Y is up, Z is forward.
type Vec3 = mgl64.Vec3

var (
	Up      = Vec3{0, 1, 0}
	Forward = Vec3{0, 0, 1}
	Right   = Vec3{1, 0, 0}
)

const normalizeEpsilon = 1e-5

// SafeNormalize returns the unit vector of v, or zero when v is too short to
// have a direction.
func SafeNormalize(v Vec3) Vec3 {
	l := v.Len()
	if l < normalizeEpsilon {
		return Vec3{}
	}
	return v.Mul(1 / l)
}

// Angle returns the unsigned angle between a and b in degrees. Degenerate
// inputs report 0.
func Angle(a, b Vec3) float64 {
	denom := math.Sqrt(a.Dot(a) * b.Dot(b))
	if denom < 1e-15 {
		return 0
	}
	cos := Clamp(a.Dot(b)/denom, -1, 1)
	return mgl64.RadToDeg(math.Acos(cos))
}

func Distance(a, b Vec3) float64 {
	return a.Sub(b).Len()
}

func LerpVec3(a, b Vec3, t float64) Vec3 {
	return Vec3{
		Lerp(a[0], b[0], t),
		Lerp(a[1], b[1], t),
		Lerp(a[2], b[2], t),
	}
}

// Flat drops the vertical component.
func Flat(v Vec3) Vec3 {
	return Vec3{v[0], 0, v[2]}
}
