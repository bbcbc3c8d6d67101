package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Forward returns the unit view vector for yaw and pitch in degrees. Yaw 0
// faces +Z and grows toward +X; positive pitch looks up.
func Forward(yaw, pitch float64) mgl64.Vec3 {
	y := mgl64.DegToRad(yaw)
	p := mgl64.DegToRad(pitch)
	return mgl64.Vec3{
		math.Sin(y) * math.Cos(p),
		math.Sin(p),
		math.Cos(y) * math.Cos(p),
	}
}

// Flat returns the horizontal forward and right vectors for yaw in degrees.
func Flat(yaw float64) (forward, right mgl64.Vec3) {
	y := mgl64.DegToRad(yaw)
	forward = mgl64.Vec3{math.Sin(y), 0, math.Cos(y)}
	right = mgl64.Vec3{math.Cos(y), 0, -math.Sin(y)}
	return forward, right
}

// Horizontal returns v with its Y component zeroed.
func Horizontal(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v[0], 0, v[2]}
}
