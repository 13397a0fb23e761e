package arena

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/sdtraining/steer/pkg/geom"
)

const (
	searchSteps = 80
	bisectSteps = 60
)

// segmentBox clips the segment origin + t*delta, t in [0, 1], against the
// box with the slab method. It returns the entry parameter and the outward
// normal of the entry face. A segment starting inside the box enters at 0
// with the normal facing back along delta.
func segmentBox(b *Body, origin, delta mgl64.Vec3) (float64, mgl64.Vec3, bool) {
	tmin, tmax := 0.0, 1.0
	normal := mgl64.Vec3{}
	for axis := 0; axis < 3; axis++ {
		if math.Abs(delta[axis]) < geom.Tolerance {
			if origin[axis] < b.min[axis] || origin[axis] > b.max[axis] {
				return 0, mgl64.Vec3{}, false
			}
			continue
		}
		inv := 1 / delta[axis]
		t1 := (b.min[axis] - origin[axis]) * inv
		t2 := (b.max[axis] - origin[axis]) * inv
		sign := -1.0
		if t1 > t2 {
			t1, t2 = t2, t1
			sign = 1
		}
		if t1 > tmin {
			tmin = t1
			normal = mgl64.Vec3{}
			normal[axis] = sign
		}
		if t2 < tmax {
			tmax = t2
		}
		if tmin > tmax {
			return 0, mgl64.Vec3{}, false
		}
	}
	if normal == (mgl64.Vec3{}) {
		normal = backward(delta)
	}
	return tmin, normal, true
}

// sphereBox finds the first t in [0, 1] at which a sphere of radius r
// centred on origin + t*delta touches the box. The distance from a point
// moving on a line to a convex box is convex in t, so the minimum is found
// by ternary search and the first contact by bisection before it.
func sphereBox(b *Body, origin, delta mgl64.Vec3, r float64) (float64, bool) {
	gap := func(t float64) float64 {
		return b.Distance(origin.Add(delta.Mul(t))) - r
	}

	if gap(0) <= 0 {
		return 0, true
	}

	lo, hi := 0.0, 1.0
	for i := 0; i < searchSteps; i++ {
		m1 := lo + (hi-lo)/3
		m2 := hi - (hi-lo)/3
		if gap(m1) <= gap(m2) {
			hi = m2
		} else {
			lo = m1
		}
	}
	closest := (lo + hi) / 2
	if gap(closest) > 0 && gap(1) > 0 {
		return 0, false
	}
	if gap(closest) > 0 {
		closest = 1
	}

	lo, hi = 0, closest
	for i := 0; i < bisectSteps; i++ {
		mid := (lo + hi) / 2
		if gap(mid) <= 0 {
			hi = mid
		} else {
			lo = mid
		}
	}
	return hi, true
}

// contactNormal points from the box toward a sphere centred on c.
func contactNormal(b *Body, c, delta mgl64.Vec3) mgl64.Vec3 {
	n := c.Sub(b.Closest(c))
	if geom.IsNearlyZero(n) {
		return backward(delta)
	}
	return n.Normalize()
}

func backward(delta mgl64.Vec3) mgl64.Vec3 {
	if geom.IsNearlyZero(delta) {
		return geom.Up
	}
	return delta.Normalize().Mul(-1)
}
