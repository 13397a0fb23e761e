// Package world defines what a steering controller needs from the
// simulation around it: spatial queries, tagged objects and a clock.
package world

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/repeale/fp-go/option"
)

// Query is the collision oracle. Every call is synchronous and read-only.
type Query interface {
	// SweepSphere moves a sphere of the given radius from origin to dest and
	// reports the first body of the category it touches.
	SweepSphere(origin, dest mgl64.Vec3, radius float64, category Category, exclude Exclude) opt.Option[Hit]
	// RaycastLine reports the first body of the category crossed by the
	// segment from origin to dest.
	RaycastLine(origin, dest mgl64.Vec3, category Category, exclude Exclude) opt.Option[Hit]
	// Tagged lists every object carrying tag.
	Tagged(tag Tag) []ObjectID
}

type Clock interface {
	Now() time.Duration
}

// ManualClock is a Clock advanced explicitly by its owner.
type ManualClock struct {
	now time.Duration
}

func (c *ManualClock) Now() time.Duration { return c.now }

func (c *ManualClock) Advance(d time.Duration) { c.now += d }

func (c *ManualClock) Set(now time.Duration) { c.now = now }
