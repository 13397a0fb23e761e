package probe

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/repeale/fp-go/option"
	"github.com/rs/zerolog/log"

	"github.com/sdtraining/steer/pkg/debugdraw"
	"github.com/sdtraining/steer/pkg/geom"
	"github.com/sdtraining/steer/pkg/kinematics"
	"github.com/sdtraining/steer/pkg/world"
)

// Side is the branch of the escape rule that was taken.
type Side uint8

const (
	SideRight Side = iota
	SideLeft
	SideReverse
)

func (s Side) String() string {
	switch s {
	case SideRight:
		return "right"
	case SideLeft:
		return "left"
	case SideReverse:
		return "reverse"
	}
	return "unknown"
}

type Escape struct {
	Orientation geom.Rotator
	Direction   mgl64.Vec3
	Side        Side
}

// EscapeHeuristic chooses a new heading away from an obstacle by checking
// the two directions tangent to the struck surface. It looks a single
// sweep ahead, so symmetric geometry can make an agent alternate sides.
type EscapeHeuristic struct {
	query    world.Query
	draw     debugdraw.Drawer
	settings Settings
}

func NewEscapeHeuristic(query world.Query, settings Settings, draw debugdraw.Drawer) *EscapeHeuristic {
	if draw == nil {
		draw = debugdraw.Nop{}
	}
	return &EscapeHeuristic{
		query:    query,
		draw:     draw,
		settings: settings,
	}
}

// Lateral returns the right and left directions along a surface with the
// given normal. Both are zero when the normal is vertical.
func Lateral(normal mgl64.Vec3) (right, left mgl64.Vec3) {
	right = geom.SafeNormal(normal.Cross(geom.Up))
	return right, right.Mul(-1)
}

// Choose prefers turning right, then left, and faces along the impact
// normal when both sides are blocked.
func (h *EscapeHeuristic) Choose(self world.ObjectID, position, normal mgl64.Vec3) Escape {
	right, left := Lateral(normal)

	var escape Escape
	switch {
	case h.clear(self, position, right, "right"):
		escape = Escape{Direction: right, Side: SideRight}
	case h.clear(self, position, left, "left"):
		escape = Escape{Direction: left, Side: SideLeft}
	default:
		direction := geom.SafeNormal(geom.Horizontal(normal))
		if geom.IsNearlyZero(direction) {
			direction = geom.SafeNormal(normal)
		}
		escape = Escape{Direction: direction, Side: SideReverse}
	}
	escape.Orientation = kinematics.OrientationFromVelocity(escape.Direction, geom.Rotator{})

	log.Debug().
		Str("agent", string(self)).
		Str("side", escape.Side.String()).
		Float64("yaw", escape.Orientation.Yaw).
		Msg("escape chosen")
	return escape
}

func (h *EscapeHeuristic) clear(self world.ObjectID, position, direction mgl64.Vec3, label string) bool {
	if geom.IsNearlyZero(direction) {
		return false
	}
	dest := position.Add(direction.Mul(h.settings.SweepDistance))
	hit := h.query.SweepSphere(position, dest, h.settings.Radius, world.CategoryVisibility, world.NewExclude(self))
	h.draw.Sphere(position, dest, h.settings.Radius, opt.IsSome(hit), label)
	return opt.IsNone(hit)
}
