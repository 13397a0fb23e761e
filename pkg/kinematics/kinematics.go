// Package kinematics holds the pure per-tick motion rules of a steered
// pawn.
package kinematics

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/sdtraining/steer/pkg/geom"
)

// IntegrateVelocity applies acceleration over dt and clamps each axis of
// the result to [-maxSpeed, maxSpeed] independently.
func IntegrateVelocity(current mgl64.Vec3, dt float64, acceleration mgl64.Vec3, maxSpeed float64) mgl64.Vec3 {
	return geom.ClampAxes(current.Add(acceleration.Mul(dt)), maxSpeed)
}

// OrientationFromVelocity returns the rotator facing along velocity. A
// velocity without a direction yields fallback, which callers set to the
// orientation they already have.
func OrientationFromVelocity(velocity mgl64.Vec3, fallback geom.Rotator) geom.Rotator {
	r, ok := geom.FromDirection(velocity)
	if !ok {
		return fallback
	}
	return r
}
