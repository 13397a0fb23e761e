package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Tolerance below which a vector length is treated as zero.
const Tolerance = 1e-6

var (
	Up      = mgl64.Vec3{0, 0, 1}
	Forward = mgl64.Vec3{1, 0, 0}
)

func IsNearlyZero(v mgl64.Vec3) bool { return v.Len() <= Tolerance }

// SafeNormal returns the unit vector along v, or the zero vector when v
// is too short to have a direction.
func SafeNormal(v mgl64.Vec3) mgl64.Vec3 {
	if IsNearlyZero(v) {
		return mgl64.Vec3{}
	}
	return v.Normalize()
}

// Horizontal drops the vertical component.
func Horizontal(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v[0], v[1], 0}
}

// Scale returns v with its magnitude set to k. Vectors without a
// direction are returned unchanged.
func Scale(v mgl64.Vec3, k float64) mgl64.Vec3 {
	if mag := v.Len(); mag > Tolerance {
		return v.Mul(k / mag)
	}
	return v
}

// ClampAxes clamps every component of v to [-limit, limit].
func ClampAxes(v mgl64.Vec3, limit float64) mgl64.Vec3 {
	limit = math.Abs(limit)
	return mgl64.Vec3{
		mgl64.Clamp(v[0], -limit, limit),
		mgl64.Clamp(v[1], -limit, limit),
		mgl64.Clamp(v[2], -limit, limit),
	}
}

func Distance(from, to mgl64.Vec3) float64 {
	return from.Sub(to).Len()
}

// Near reports whether a and b differ by at most tol on every axis.
func Near(a, b mgl64.Vec3, tol float64) bool {
	return math.Abs(a[0]-b[0]) <= tol &&
		math.Abs(a[1]-b[1]) <= tol &&
		math.Abs(a[2]-b[2]) <= tol
}

// WithZ returns v with its vertical component replaced.
func WithZ(v mgl64.Vec3, z float64) mgl64.Vec3 {
	return mgl64.Vec3{v[0], v[1], z}
}
