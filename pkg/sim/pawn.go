package sim

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/sdtraining/steer/pkg/agent"
	"github.com/sdtraining/steer/pkg/geom"
	"github.com/sdtraining/steer/pkg/world"
)

// Pawn is a walking body driven by movement input. It stays on the plane
// it was spawned on.
type Pawn struct {
	id          world.ObjectID
	position    mgl64.Vec3
	orientation geom.Rotator
	input       mgl64.Vec3
}

var _ agent.Pawn = (*Pawn)(nil)

func NewPawn(id world.ObjectID, position mgl64.Vec3, orientation geom.Rotator) *Pawn {
	return &Pawn{
		id:          id,
		position:    position,
		orientation: orientation,
	}
}

func (p *Pawn) ID() world.ObjectID { return p.id }

func (p *Pawn) Position() mgl64.Vec3 { return p.position }

func (p *Pawn) Orientation() geom.Rotator { return p.orientation }

func (p *Pawn) AddMovementInput(velocity mgl64.Vec3) {
	p.input = p.input.Add(velocity)
}

func (p *Pawn) SetOrientation(orientation geom.Rotator) {
	p.orientation = orientation
}

// Move applies the input accumulated since the last move. Input longer
// than one is treated as one.
func (p *Pawn) Move(walkSpeed, dt float64) mgl64.Vec3 {
	input := geom.Horizontal(p.input)
	if input.Len() > 1 {
		input = input.Normalize()
	}
	p.input = mgl64.Vec3{}

	delta := input.Mul(walkSpeed * dt)
	p.position = p.position.Add(delta)
	return delta
}
