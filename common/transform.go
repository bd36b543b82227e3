package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Transform is a position plus Euler orientation in degrees
// (X pitch, Y yaw, Z roll). Positive pitch looks down.
type Transform struct {
	Position Vec3
	Euler    Vec3
}

// Rotation composes yaw, then pitch, then roll.
func (t Transform) Rotation() mgl64.Quat {
	yaw := mgl64.QuatRotate(mgl64.DegToRad(t.Euler[1]), Up)
	pitch := mgl64.QuatRotate(mgl64.DegToRad(t.Euler[0]), Right)
	roll := mgl64.QuatRotate(mgl64.DegToRad(t.Euler[2]), Forward)
	return yaw.Mul(pitch).Mul(roll)
}

func (t Transform) Forward() Vec3 {
	return t.Rotation().Rotate(Forward)
}

func (t Transform) Right() Vec3 {
	return t.Rotation().Rotate(Right)
}

// YawTo returns the heading in degrees that faces from toward to on the
// ground plane.
func YawTo(from, to Vec3) float64 {
	d := to.Sub(from)
	return mgl64.RadToDeg(math.Atan2(d[0], d[2]))
}

// PitchTo returns the pitch in degrees that faces from toward to.
func PitchTo(from, to Vec3) float64 {
	d := to.Sub(from)
	horizontal := math.Hypot(d[0], d[2])
	return -mgl64.RadToDeg(math.Atan2(d[1], horizontal))
}

// HeadingVec returns the unit ground-plane vector for a yaw in degrees.
func HeadingVec(yaw float64) Vec3 {
	r := mgl64.DegToRad(yaw)
	return Vec3{math.Sin(r), 0, math.Cos(r)}
}
