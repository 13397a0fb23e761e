package probe

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/repeale/fp-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdtraining/steer/pkg/debugdraw"
	"github.com/sdtraining/steer/pkg/geom"
	"github.com/sdtraining/steer/pkg/world"
)

type sweep struct {
	origin, dest mgl64.Vec3
	radius       float64
	category     world.Category
	exclude      world.Exclude
}

type object struct{ id world.ObjectID }

func (o object) ID() world.ObjectID         { return o.id }
func (o object) HasTag(tag world.Tag) bool { return false }

// mockQuery answers sweeps with respond and records every call.
type mockQuery struct {
	respond func(s sweep) opt.Option[world.Hit]
	sweeps  []sweep
}

var _ world.Query = &mockQuery{}

func (q *mockQuery) SweepSphere(origin, dest mgl64.Vec3, radius float64, category world.Category, exclude world.Exclude) opt.Option[world.Hit] {
	s := sweep{origin, dest, radius, category, exclude}
	q.sweeps = append(q.sweeps, s)
	if q.respond == nil {
		return opt.None[world.Hit]()
	}
	return q.respond(s)
}

func (q *mockQuery) RaycastLine(origin, dest mgl64.Vec3, category world.Category, exclude world.Exclude) opt.Option[world.Hit] {
	return opt.None[world.Hit]()
}

func (q *mockQuery) Tagged(world.Tag) []world.ObjectID { return nil }

func hitWith(normal mgl64.Vec3, id world.ObjectID) opt.Option[world.Hit] {
	return opt.Some(world.Hit{
		Point:    mgl64.Vec3{100, 0, 0},
		Normal:   normal,
		Distance: 100,
		Object:   object{id},
	})
}

func TestProbeReportsNone(t *testing.T) {
	q := &mockQuery{}
	p := NewObstacleProbe(q, DefaultSettings(), nil)

	report := p.Probe("pawn", mgl64.Vec3{0, 0, 90}, mgl64.Vec3{1, 0, 0})
	assert.Equal(t, KindNone, report.Kind)
	assert.False(t, report.Blocked())
	require.Len(t, q.sweeps, 2)

	wall := q.sweeps[0]
	assert.Equal(t, world.CategoryWall, wall.category)
	assert.Equal(t, 50.0, wall.radius)
	assert.Equal(t, mgl64.Vec3{0, 0, 90}, wall.origin)
	assert.Equal(t, mgl64.Vec3{150, 0, 90}, wall.dest)
	assert.True(t, wall.exclude.Has("pawn"))

	floor := q.sweeps[1]
	assert.Equal(t, world.CategoryDeathFloor, floor.category)
	assert.Equal(t, mgl64.Vec3{0, 0, 140}, floor.origin)
	assert.Equal(t, mgl64.Vec3{150, 0, 140}, floor.dest)
}

func TestProbeDeathFloorExcludesFloors(t *testing.T) {
	q := &mockQuery{}
	p := NewObstacleProbe(q, DefaultSettings(), nil)
	p.SetFloors([]world.ObjectID{"floor-a", "floor-b"})

	// A pitched forward vector still sweeps the lethal floor horizontally.
	forward := geom.Rotator{Pitch: 30, Yaw: 90}.Forward()
	p.Probe("pawn", mgl64.Vec3{10, 20, 90}, forward)

	floor := q.sweeps[1]
	assert.Equal(t, []world.ObjectID{"floor-a", "floor-b", "pawn"}, floor.exclude.IDs())
	assert.True(t, geom.Near(floor.dest, mgl64.Vec3{10, 170, 140}, 1e-9))
	assert.False(t, q.sweeps[0].exclude.Has("floor-a"), "walls are not filtered by floor tags")
}

func TestProbeDeathFloor(t *testing.T) {
	q := &mockQuery{respond: func(s sweep) opt.Option[world.Hit] {
		if s.category == world.CategoryDeathFloor {
			return hitWith(mgl64.Vec3{-1, 0, 0}, "lava")
		}
		return opt.None[world.Hit]()
	}}
	p := NewObstacleProbe(q, DefaultSettings(), nil)

	report := p.Probe("pawn", mgl64.Vec3{}, mgl64.Vec3{1, 0, 0})
	assert.Equal(t, KindDeathFloor, report.Kind)
	assert.Equal(t, mgl64.Vec3{-1, 0, 0}, report.Normal)
}

func TestProbeWallPreemptsDeathFloor(t *testing.T) {
	q := &mockQuery{respond: func(s sweep) opt.Option[world.Hit] {
		if s.category == world.CategoryWall {
			return hitWith(mgl64.Vec3{-1, 0, 0}, "wall")
		}
		return hitWith(mgl64.Vec3{0, -1, 0}, "lava")
	}}
	p := NewObstacleProbe(q, DefaultSettings(), nil)

	report := p.Probe("pawn", mgl64.Vec3{}, mgl64.Vec3{1, 0, 0})
	assert.Equal(t, KindWall, report.Kind)
	assert.Equal(t, mgl64.Vec3{-1, 0, 0}, report.Normal)
	assert.Equal(t, mgl64.Vec3{100, 0, 0}, report.Point)
}

func TestProbeDraws(t *testing.T) {
	recorder := debugdraw.NewRecorder()
	q := &mockQuery{respond: func(s sweep) opt.Option[world.Hit] {
		if s.category == world.CategoryWall {
			return hitWith(mgl64.Vec3{-1, 0, 0}, "wall")
		}
		return opt.None[world.Hit]()
	}}
	NewObstacleProbe(q, DefaultSettings(), recorder).Probe("pawn", mgl64.Vec3{}, mgl64.Vec3{1, 0, 0})

	drawn := recorder.Drain()
	require.Len(t, drawn, 2)
	assert.True(t, drawn[0].Hit)
	assert.Equal(t, "wall", drawn[0].Label)
	assert.False(t, drawn[1].Hit)
}

// blockSides makes lateral visibility sweeps toward +Y and/or -Y hit.
func blockSides(right, left bool) *mockQuery {
	return &mockQuery{respond: func(s sweep) opt.Option[world.Hit] {
		if s.category != world.CategoryVisibility {
			return opt.None[world.Hit]()
		}
		direction := s.dest.Sub(s.origin)
		if right && direction[1] > 0 {
			return hitWith(mgl64.Vec3{0, -1, 0}, "right-wall")
		}
		if left && direction[1] < 0 {
			return hitWith(mgl64.Vec3{0, 1, 0}, "left-wall")
		}
		return opt.None[world.Hit]()
	}}
}

func TestLateral(t *testing.T) {
	right, left := Lateral(mgl64.Vec3{-1, 0, 0})
	assert.True(t, geom.Near(right, mgl64.Vec3{0, 1, 0}, 1e-12))
	assert.True(t, geom.Near(left, mgl64.Vec3{0, -1, 0}, 1e-12))

	right, left = Lateral(mgl64.Vec3{0, 0, 1})
	assert.Equal(t, mgl64.Vec3{}, right)
	assert.Equal(t, mgl64.Vec3{}, geom.Horizontal(left))
}

func TestEscapeRightClear(t *testing.T) {
	for i := 0; i < 3; i++ {
		q := blockSides(false, true)
		escape := NewEscapeHeuristic(q, DefaultSettings(), nil).Choose("pawn", mgl64.Vec3{}, mgl64.Vec3{-1, 0, 0})
		assert.Equal(t, SideRight, escape.Side)
		assert.InDelta(t, 90, escape.Orientation.Yaw, 1e-9)
		assert.True(t, geom.Near(escape.Direction, mgl64.Vec3{0, 1, 0}, 1e-12))
		// The left side is never probed once right is clear.
		require.Len(t, q.sweeps, 1)
	}
}

func TestEscapeLeftClear(t *testing.T) {
	q := blockSides(true, false)
	escape := NewEscapeHeuristic(q, DefaultSettings(), nil).Choose("pawn", mgl64.Vec3{}, mgl64.Vec3{-1, 0, 0})
	assert.Equal(t, SideLeft, escape.Side)
	assert.InDelta(t, -90, escape.Orientation.Yaw, 1e-9)
	require.Len(t, q.sweeps, 2)
	for _, s := range q.sweeps {
		assert.Equal(t, world.CategoryVisibility, s.category)
		assert.Equal(t, 50.0, s.radius)
		assert.InDelta(t, 150, s.dest.Sub(s.origin).Len(), 1e-9)
		assert.True(t, s.exclude.Has("pawn"))
	}
}

func TestEscapeBothBlocked(t *testing.T) {
	q := blockSides(true, true)
	escape := NewEscapeHeuristic(q, DefaultSettings(), nil).Choose("pawn", mgl64.Vec3{}, mgl64.Vec3{-1, 0, 0})
	assert.Equal(t, SideReverse, escape.Side)
	assert.True(t, geom.Near(escape.Direction, mgl64.Vec3{-1, 0, 0}, 1e-12))
	assert.InDelta(t, 180, escape.Orientation.Yaw, 1e-9)
	assert.InDelta(t, 0, escape.Orientation.Pitch, 1e-9)
}

func TestEscapeReverseIgnoresNormalSlope(t *testing.T) {
	q := &mockQuery{respond: func(s sweep) opt.Option[world.Hit] {
		return hitWith(mgl64.Vec3{0, 0, 1}, "box")
	}}
	normal := mgl64.Vec3{0, 1, 1}.Normalize()
	escape := NewEscapeHeuristic(q, DefaultSettings(), nil).Choose("pawn", mgl64.Vec3{}, normal)
	assert.Equal(t, SideReverse, escape.Side)
	assert.InDelta(t, 90, escape.Orientation.Yaw, 1e-9)
	assert.InDelta(t, 0, escape.Orientation.Pitch, 1e-9)
}
