// Package pickup looks for collectible objects in a cone ahead of an agent.
package pickup

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/repeale/fp-go/option"
	"github.com/rs/zerolog/log"

	"github.com/sdtraining/steer/pkg/debugdraw"
	"github.com/sdtraining/steer/pkg/geom"
	"github.com/sdtraining/steer/pkg/world"
)

type Settings struct {
	// RayHeight is added to the agent's Z for every ray.
	RayHeight float64
	Range     float64
	RayCount  int
	// HalfAngle of the fan in degrees.
	HalfAngle float64
}

func DefaultSettings() Settings {
	return Settings{
		RayHeight: 45,
		Range:     300,
		RayCount:  20,
		HalfAngle: 30,
	}
}

type Result struct {
	Found    bool           `cbor:"found"`
	Position mgl64.Vec3     `cbor:"pos"`
	Object   world.ObjectID `cbor:"obj,omitempty"`
	Ray      int            `cbor:"ray"`
}

type Scanner struct {
	query    world.Query
	draw     debugdraw.Drawer
	settings Settings
	offsets  []float64
}

func NewScanner(query world.Query, settings Settings, draw debugdraw.Drawer) *Scanner {
	if draw == nil {
		draw = debugdraw.Nop{}
	}
	return &Scanner{
		query:    query,
		draw:     draw,
		settings: settings,
		offsets:  Offsets(settings.RayCount, settings.HalfAngle),
	}
}

// Offsets spreads count yaw offsets evenly over [-halfAngle, halfAngle],
// in increasing order. A single ray points straight ahead.
func Offsets(count int, halfAngle float64) []float64 {
	if count <= 0 {
		return nil
	}
	if count == 1 {
		return []float64{0}
	}
	offsets := make([]float64, count)
	step := 2 * halfAngle / float64(count-1)
	for i := range offsets {
		offsets[i] = -halfAngle + float64(i)*step
	}
	return offsets
}

// Direction turns forward about the world up axis by offset degrees.
func Direction(forward mgl64.Vec3, offset float64) mgl64.Vec3 {
	return mgl64.QuatRotate(mgl64.DegToRad(offset), geom.Up).Rotate(geom.SafeNormal(forward))
}

// Search casts a diagnostic ray straight ahead, then the fan. The first
// fan ray that strikes an object tagged Pickup ends the scan.
func (s *Scanner) Search(self world.ObjectID, position, forward mgl64.Vec3) Result {
	origin := position.Add(mgl64.Vec3{0, 0, s.settings.RayHeight})
	exclude := world.NewExclude(self)

	center := s.cast(origin, geom.SafeNormal(forward), exclude, "center")
	if opt.IsSome(center) && center.Value.Object != nil {
		log.Trace().
			Str("agent", string(self)).
			Str("object", string(center.Value.Object.ID())).
			Float64("distance", center.Value.Distance).
			Msg("center ray hit")
	}

	for i, offset := range s.offsets {
		hit := s.cast(origin, Direction(forward, offset), exclude, "fan")
		if opt.IsNone(hit) || hit.Value.Object == nil {
			continue
		}
		if !hit.Value.Object.HasTag(world.TagPickup) {
			continue
		}
		s.draw.Point(hit.Value.Point, "pickup")
		return Result{
			Found:    true,
			Position: hit.Value.Point,
			Object:   hit.Value.Object.ID(),
			Ray:      i,
		}
	}
	return Result{Ray: -1}
}

func (s *Scanner) cast(origin, direction mgl64.Vec3, exclude world.Exclude, label string) opt.Option[world.Hit] {
	dest := origin.Add(direction.Mul(s.settings.Range))
	hit := s.query.RaycastLine(origin, dest, world.CategoryVisibility, exclude)
	s.draw.Line(origin, dest, opt.IsSome(hit), label)
	return hit
}
