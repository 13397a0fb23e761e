package agent

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/sdtraining/steer/pkg/debugdraw"
	"github.com/sdtraining/steer/pkg/geom"
	"github.com/sdtraining/steer/pkg/kinematics"
	"github.com/sdtraining/steer/pkg/maneuver"
	"github.com/sdtraining/steer/pkg/pickup"
	"github.com/sdtraining/steer/pkg/probe"
	"github.com/sdtraining/steer/pkg/world"
)

type Controller struct {
	query   world.Query
	clock   world.Clock
	options Options

	obstacles *probe.ObstacleProbe
	escape    *probe.EscapeHeuristic
	scanner   *pickup.Scanner
	maneuver  *maneuver.Machine

	pawn   Pawn
	state  State
	last   Snapshot
	ticks  uint64
	logger zerolog.Logger
}

var _ Brain = (*Controller)(nil)

func New(query world.Query, clock world.Clock, options Options) *Controller {
	if options.Draw == nil {
		options.Draw = debugdraw.Nop{}
	}
	return &Controller{
		query:     query,
		clock:     clock,
		options:   options,
		obstacles: probe.NewObstacleProbe(query, options.Probe, options.Draw),
		escape:    probe.NewEscapeHeuristic(query, options.Probe, options.Draw),
		scanner:   pickup.NewScanner(query, options.Pickup, options.Draw),
		maneuver:  maneuver.NewMachine(options.ManeuverDuration),
		logger:    log.Logger,
	}
}

// OnBind takes control of pawn and resets the motion state.
func (c *Controller) OnBind(pawn Pawn) {
	c.pawn = pawn
	c.maneuver.Reset()
	c.ticks = 0
	c.state = State{
		Acceleration: c.options.InitialAcceleration,
		MaxSpeed:     c.options.MaxSpeed,
	}
	c.last = Snapshot{}

	if pawn == nil {
		return
	}

	// The initial acceleration is relative to the heading the pawn was
	// spawned with.
	c.state.Orientation = pawn.Orientation()
	c.state.Acceleration = c.state.Orientation.RotateYaw(c.options.InitialAcceleration)

	floors := c.query.Tagged(world.TagFloor)
	c.obstacles.SetFloors(floors)

	c.logger = log.With().Str("agent", string(pawn.ID())).Logger()
	c.logger.Debug().
		Int("floors", len(floors)).
		Float64("maxSpeed", c.state.MaxSpeed).
		Stringer("orientation", c.state.Orientation).
		Msg("pawn bound")
}

func (c *Controller) Bound() bool { return c.pawn != nil }

func (c *Controller) Pawn() Pawn { return c.pawn }

func (c *Controller) State() State { return c.state }

// Snapshot returns the outcome of the last tick.
func (c *Controller) Snapshot() Snapshot { return c.last }

func (c *Controller) Maneuver() *maneuver.Machine { return c.maneuver }

// OnTick runs one decision step. Without a bound pawn it does nothing.
func (c *Controller) OnTick(dt float64) {
	if c.pawn == nil {
		log.Debug().Msg("no pawn bound, skipping tick")
		return
	}

	id := c.pawn.ID()
	position := c.pawn.Position()
	forward := c.pawn.Orientation().Forward()

	c.ticks++
	snapshot := Snapshot{
		Agent:    id,
		Tick:     c.ticks,
		Position: position,
	}

	// Obstacles are ignored until a turn in progress has finished.
	if !c.maneuver.Rotating() {
		snapshot.Obstacle = c.obstacles.Probe(id, position, forward)
	}

	snapshot.Pickup = c.scanner.Search(id, position, forward)
	if snapshot.Pickup.Found {
		c.logger.Debug().
			Str("pickup", string(snapshot.Pickup.Object)).
			Int("ray", snapshot.Pickup.Ray).
			Msg("pickup in sight")
		if c.options.OnPickup != nil {
			c.options.OnPickup(c.pawn, snapshot.Pickup)
		}
	}

	switch {
	case c.maneuver.Rotating():
		snapshot.Alpha = c.rotate()
	case snapshot.Obstacle.Blocked():
		snapshot.Escape = c.avoid(id, position, forward, snapshot.Obstacle).String()
	default:
		c.cruise(dt)
	}

	c.pawn.AddMovementInput(c.state.Velocity)
	c.pawn.SetOrientation(c.state.Orientation)

	snapshot.State = c.state
	c.last = snapshot
}

func (c *Controller) cruise(dt float64) {
	c.state.Velocity = kinematics.IntegrateVelocity(c.state.Velocity, dt, c.state.Acceleration, c.state.MaxSpeed)
	c.state.Orientation = kinematics.OrientationFromVelocity(c.state.Velocity, c.state.Orientation)
}

// avoid starts a maneuver toward the escape heading. Velocity and
// orientation are left as they were; the turn takes over next tick.
func (c *Controller) avoid(id world.ObjectID, position, forward mgl64.Vec3, report probe.Report) probe.Side {
	escape := c.escape.Choose(id, position, escapeNormal(report.Normal, forward))

	c.maneuver.Begin(c.clock.Now(), c.state.Orientation, escape.Orientation)
	c.state.InRotation = true

	c.logger.Debug().
		Str("obstacle", report.Kind.String()).
		Str("side", escape.Side.String()).
		Stringer("from", c.state.Orientation).
		Stringer("to", escape.Orientation).
		Msg("maneuver started")
	return escape.Side
}

// escapeNormal falls back to facing back along the horizontal heading when
// the struck surface is horizontal and has no lateral directions.
func escapeNormal(normal, forward mgl64.Vec3) mgl64.Vec3 {
	if !geom.IsNearlyZero(geom.Horizontal(normal)) {
		return normal
	}
	back := geom.SafeNormal(geom.Horizontal(forward)).Mul(-1)
	if geom.IsNearlyZero(back) {
		return geom.Forward.Mul(-1)
	}
	return back
}

func (c *Controller) rotate() float64 {
	step, ok := c.maneuver.Step(c.clock.Now())
	if !ok {
		c.state.InRotation = false
		return 0
	}

	c.state.Orientation = step.Orientation
	c.state.Velocity = c.headingVelocity(step.Orientation)

	if step.Done {
		c.state.Acceleration = geom.SafeNormal(c.state.Velocity)
		c.state.InRotation = false
		c.logger.Debug().Stringer("orientation", step.Orientation).Msg("maneuver done")
	}
	return step.Alpha
}

func (c *Controller) headingVelocity(orientation geom.Rotator) mgl64.Vec3 {
	return geom.ClampAxes(orientation.Forward().Mul(c.state.MaxSpeed), c.state.MaxSpeed)
}
