// Package probe turns forward sweeps into obstacle reports and picks the
// direction an agent turns to when it meets one.
package probe

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/repeale/fp-go/option"
	"github.com/rs/zerolog/log"

	"github.com/sdtraining/steer/pkg/debugdraw"
	"github.com/sdtraining/steer/pkg/geom"
	"github.com/sdtraining/steer/pkg/world"
)

type Kind uint8

const (
	KindNone Kind = iota
	KindWall
	KindDeathFloor
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindWall:
		return "wall"
	case KindDeathFloor:
		return "deathfloor"
	}
	return "unknown"
}

type Settings struct {
	// Radius of the swept sphere.
	Radius float64
	// SweepDistance is how far ahead of the agent the sweeps reach.
	SweepDistance float64
	// FloorProbeHeight is the world Z the lethal floor sweep runs at.
	FloorProbeHeight float64
}

func DefaultSettings() Settings {
	return Settings{
		Radius:           50,
		SweepDistance:    150,
		FloorProbeHeight: 140,
	}
}

// Report is the outcome of one tick of obstacle probing.
type Report struct {
	Kind   Kind       `cbor:"k"`
	Normal mgl64.Vec3 `cbor:"n"`
	Point  mgl64.Vec3 `cbor:"p"`
}

func (r Report) Blocked() bool { return r.Kind != KindNone }

type ObstacleProbe struct {
	query    world.Query
	draw     debugdraw.Drawer
	settings Settings
	floors   world.Exclude
}

func NewObstacleProbe(query world.Query, settings Settings, draw debugdraw.Drawer) *ObstacleProbe {
	if draw == nil {
		draw = debugdraw.Nop{}
	}
	return &ObstacleProbe{
		query:    query,
		draw:     draw,
		settings: settings,
		floors:   world.NewExclude(),
	}
}

// SetFloors replaces the objects the lethal floor sweep ignores.
func (p *ObstacleProbe) SetFloors(ids []world.ObjectID) {
	p.floors = world.NewExclude(ids...)
}

func (p *ObstacleProbe) Settings() Settings { return p.settings }

// Probe sweeps ahead of the agent for walls, then for lethal floor at the
// floor probe height. A wall hit always wins over a lethal floor hit.
func (p *ObstacleProbe) Probe(self world.ObjectID, position, forward mgl64.Vec3) Report {
	wall := p.sweepWall(self, position, forward)
	deathFloor := p.sweepDeathFloor(self, position, forward)

	if opt.IsSome(wall) {
		return Report{Kind: KindWall, Normal: wall.Value.Normal, Point: wall.Value.Point}
	}
	if opt.IsSome(deathFloor) {
		return Report{Kind: KindDeathFloor, Normal: deathFloor.Value.Normal, Point: deathFloor.Value.Point}
	}
	return Report{}
}

func (p *ObstacleProbe) sweepWall(self world.ObjectID, position, forward mgl64.Vec3) opt.Option[world.Hit] {
	dest := position.Add(geom.SafeNormal(forward).Mul(p.settings.SweepDistance))
	hit := p.query.SweepSphere(position, dest, p.settings.Radius, world.CategoryWall, world.NewExclude(self))
	p.draw.Sphere(position, dest, p.settings.Radius, opt.IsSome(hit), "wall")
	if opt.IsSome(hit) {
		log.Trace().
			Str("agent", string(self)).
			Str("object", objectID(hit.Value)).
			Float64("distance", hit.Value.Distance).
			Msg("wall sweep hit")
	}
	return hit
}

func (p *ObstacleProbe) sweepDeathFloor(self world.ObjectID, position, forward mgl64.Vec3) opt.Option[world.Hit] {
	origin := geom.WithZ(position, p.settings.FloorProbeHeight)
	direction := geom.SafeNormal(geom.Horizontal(forward))
	dest := origin.Add(direction.Mul(p.settings.SweepDistance))

	exclude := p.floors.With(self)
	hit := p.query.SweepSphere(origin, dest, p.settings.Radius, world.CategoryDeathFloor, exclude)
	p.draw.Sphere(origin, dest, p.settings.Radius, opt.IsSome(hit), "deathfloor")
	if opt.IsSome(hit) {
		log.Trace().
			Str("agent", string(self)).
			Str("object", objectID(hit.Value)).
			Float64("distance", hit.Value.Distance).
			Msg("deathfloor sweep hit")
	}
	return hit
}

func objectID(hit world.Hit) string {
	if hit.Object == nil {
		return ""
	}
	return string(hit.Object.ID())
}
