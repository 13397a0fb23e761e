// Package agent is the per-tick steering controller. A Controller owns the
// motion state of one pawn and decides, every tick, whether to keep
// cruising, start turning away from an obstacle, or continue a turn.
package agent

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/sdtraining/steer/pkg/debugdraw"
	"github.com/sdtraining/steer/pkg/geom"
	"github.com/sdtraining/steer/pkg/pickup"
	"github.com/sdtraining/steer/pkg/probe"
	"github.com/sdtraining/steer/pkg/world"
)

// Pawn is the controlled entity.
type Pawn interface {
	ID() world.ObjectID
	Position() mgl64.Vec3
	Orientation() geom.Rotator
	AddMovementInput(velocity mgl64.Vec3)
	SetOrientation(orientation geom.Rotator)
}

// Brain is what a host loop drives: one bind, then one call per frame.
type Brain interface {
	OnBind(pawn Pawn)
	OnTick(dt float64)
}

// State is the motion state a controller owns. Every axis of Velocity
// stays within [-MaxSpeed, MaxSpeed].
type State struct {
	Acceleration mgl64.Vec3   `cbor:"acc"`
	Velocity     mgl64.Vec3   `cbor:"vel"`
	MaxSpeed     float64      `cbor:"max"`
	Orientation  geom.Rotator `cbor:"rot"`
	InRotation   bool         `cbor:"turning"`
}

// PickupHandler is told about every pickup a controller sees.
type PickupHandler func(pawn Pawn, result pickup.Result)

type Options struct {
	MaxSpeed            float64
	InitialAcceleration mgl64.Vec3
	ManeuverDuration    time.Duration

	Probe  probe.Settings
	Pickup pickup.Settings

	Draw     debugdraw.Drawer
	OnPickup PickupHandler
}

func DefaultOptions() Options {
	return Options{
		MaxSpeed:            1,
		InitialAcceleration: mgl64.Vec3{0.5, 0, 0},
		ManeuverDuration:    500 * time.Millisecond,
		Probe:               probe.DefaultSettings(),
		Pickup:              pickup.DefaultSettings(),
	}
}

// Snapshot describes what a controller did during its last tick.
type Snapshot struct {
	Agent    world.ObjectID `cbor:"id"`
	Tick     uint64         `cbor:"tick"`
	Position mgl64.Vec3     `cbor:"pos"`
	State    State          `cbor:"state"`
	Obstacle probe.Report   `cbor:"obstacle"`
	Pickup   pickup.Result  `cbor:"pickup"`
	// Escape is set on the tick a maneuver starts.
	Escape string `cbor:"escape,omitempty"`
	// Alpha is the maneuver progress while rotating.
	Alpha float64 `cbor:"alpha,omitempty"`
}
