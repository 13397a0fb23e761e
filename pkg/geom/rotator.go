package geom

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Rotator is an orientation in degrees. X is forward, Y is right and Z is
// up; positive yaw turns from +X toward +Y and positive pitch looks up.
type Rotator struct {
	Pitch float64 `json:"pitch" yaml:"pitch"`
	Yaw   float64 `json:"yaw" yaml:"yaw"`
	Roll  float64 `json:"roll" yaml:"roll"`
}

// Forward returns the unit vector the rotator faces. Roll does not affect
// the forward axis.
func (r Rotator) Forward() mgl64.Vec3 {
	pitch := mgl64.DegToRad(r.Pitch)
	yaw := mgl64.DegToRad(r.Yaw)
	cp := math.Cos(pitch)
	return mgl64.Vec3{
		cp * math.Cos(yaw),
		cp * math.Sin(yaw),
		math.Sin(pitch),
	}
}

// FromDirection builds the rotator whose forward axis is aligned with v.
// The second result is false when v has no direction.
func FromDirection(v mgl64.Vec3) (Rotator, bool) {
	if IsNearlyZero(v) {
		return Rotator{}, false
	}
	return Rotator{
		Pitch: mgl64.RadToDeg(math.Atan2(v[2], math.Hypot(v[0], v[1]))),
		Yaw:   mgl64.RadToDeg(math.Atan2(v[1], v[0])),
	}, true
}

// RotateYaw turns v about the up axis by the rotator's yaw.
func (r Rotator) RotateYaw(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.QuatRotate(mgl64.DegToRad(r.Yaw), Up).Rotate(v)
}

// Lerp interpolates each component independently. alpha is not clamped.
func Lerp(from, to Rotator, alpha float64) Rotator {
	return Rotator{
		Pitch: from.Pitch + (to.Pitch-from.Pitch)*alpha,
		Yaw:   from.Yaw + (to.Yaw-from.Yaw)*alpha,
		Roll:  from.Roll + (to.Roll-from.Roll)*alpha,
	}
}

// ApproxEqual compares componentwise with an absolute tolerance of 1e-9
// degrees.
func (r Rotator) ApproxEqual(o Rotator) bool {
	return math.Abs(r.Pitch-o.Pitch) <= 1e-9 &&
		math.Abs(r.Yaw-o.Yaw) <= 1e-9 &&
		math.Abs(r.Roll-o.Roll) <= 1e-9
}

func (r Rotator) String() string {
	return fmt.Sprintf("P=%.2f Y=%.2f R=%.2f", r.Pitch, r.Yaw, r.Roll)
}
