package pickup

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/repeale/fp-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdtraining/steer/pkg/debugdraw"
	"github.com/sdtraining/steer/pkg/geom"
	"github.com/sdtraining/steer/pkg/world"
)

type object struct {
	id   world.ObjectID
	tags []world.Tag
}

func (o object) ID() world.ObjectID { return o.id }

func (o object) HasTag(tag world.Tag) bool {
	for _, t := range o.tags {
		if t == tag {
			return true
		}
	}
	return false
}

type ray struct {
	origin, dest mgl64.Vec3
	category     world.Category
}

// mockQuery answers raycasts with respond and records every call.
type mockQuery struct {
	respond func(index int, r ray) opt.Option[world.Hit]
	rays    []ray
}

func (q *mockQuery) SweepSphere(mgl64.Vec3, mgl64.Vec3, float64, world.Category, world.Exclude) opt.Option[world.Hit] {
	return opt.None[world.Hit]()
}

func (q *mockQuery) RaycastLine(origin, dest mgl64.Vec3, category world.Category, exclude world.Exclude) opt.Option[world.Hit] {
	r := ray{origin, dest, category}
	index := len(q.rays)
	q.rays = append(q.rays, r)
	if q.respond == nil {
		return opt.None[world.Hit]()
	}
	return q.respond(index, r)
}

func (q *mockQuery) Tagged(world.Tag) []world.ObjectID { return nil }

func TestOffsets(t *testing.T) {
	offsets := Offsets(20, 30)
	require.Len(t, offsets, 20)
	assert.Equal(t, -30.0, offsets[0])
	assert.InDelta(t, 30, offsets[19], 1e-9)
	for i := 1; i < len(offsets); i++ {
		assert.InDelta(t, 60.0/19, offsets[i]-offsets[i-1], 1e-9)
	}

	assert.Equal(t, []float64{0}, Offsets(1, 30))
	assert.Nil(t, Offsets(0, 30))
}

func TestDirection(t *testing.T) {
	d := Direction(mgl64.Vec3{1, 0, 0}, 90)
	assert.True(t, geom.Near(d, mgl64.Vec3{0, 1, 0}, 1e-12))

	d = Direction(mgl64.Vec3{2, 0, 0}, -30)
	assert.InDelta(t, 1, d.Len(), 1e-12)
	assert.InDelta(t, -30, mgl64.RadToDeg(math.Atan2(d[1], d[0])), 1e-9)
}

func TestSearchFindsTaggedRay(t *testing.T) {
	pickupAt := mgl64.Vec3{250, 7, 45}
	q := &mockQuery{respond: func(index int, r ray) opt.Option[world.Hit] {
		// Index 0 is the center ray; fan ray i is call i+1.
		if index == 0 {
			return opt.Some(world.Hit{Point: mgl64.Vec3{280, 0, 45}, Object: object{id: "crate"}})
		}
		if index == 11 {
			return opt.Some(world.Hit{Point: pickupAt, Object: object{id: "gem", tags: []world.Tag{world.TagPickup}}})
		}
		return opt.None[world.Hit]()
	}}

	recorder := debugdraw.NewRecorder()
	result := NewScanner(q, DefaultSettings(), recorder).Search("pawn", mgl64.Vec3{}, mgl64.Vec3{1, 0, 0})

	assert.True(t, result.Found)
	assert.Equal(t, pickupAt, result.Position)
	assert.Equal(t, world.ObjectID("gem"), result.Object)
	assert.Equal(t, 10, result.Ray)

	// Scanning stops at the first tagged hit.
	assert.Len(t, q.rays, 12)
	for _, r := range q.rays {
		assert.Equal(t, world.CategoryVisibility, r.category)
		assert.Equal(t, 45.0, r.origin[2])
		assert.InDelta(t, 300, r.dest.Sub(r.origin).Len(), 1e-9)
	}
	// Center + 11 fan lines + the pickup marker.
	assert.Equal(t, 13, recorder.Len())
}

func TestSearchIgnoresUntaggedHits(t *testing.T) {
	q := &mockQuery{respond: func(index int, r ray) opt.Option[world.Hit] {
		return opt.Some(world.Hit{Point: r.dest, Object: object{id: "wall"}})
	}}
	result := NewScanner(q, DefaultSettings(), nil).Search("pawn", mgl64.Vec3{0, 0, 90}, mgl64.Vec3{0, 1, 0})

	assert.False(t, result.Found)
	assert.Equal(t, -1, result.Ray)
	assert.Len(t, q.rays, 21)
}

func TestSearchCenterRayIsNotATrigger(t *testing.T) {
	q := &mockQuery{respond: func(index int, r ray) opt.Option[world.Hit] {
		if index == 0 {
			return opt.Some(world.Hit{Point: r.dest, Object: object{id: "gem", tags: []world.Tag{world.TagPickup}}})
		}
		return opt.None[world.Hit]()
	}}
	result := NewScanner(q, DefaultSettings(), nil).Search("pawn", mgl64.Vec3{}, mgl64.Vec3{1, 0, 0})
	assert.False(t, result.Found)
}
