package arena

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/sdtraining/steer/pkg/world"
)

// Body is a static axis-aligned box.
type Body struct {
	id         world.ObjectID
	min, max   mgl64.Vec3
	categories []world.Category
	tags       []world.Tag
}

var _ world.Object = (*Body)(nil)

// NewBox builds a body spanning two opposite corners in any order.
func NewBox(id world.ObjectID, a, b mgl64.Vec3, categories []world.Category, tags []world.Tag) *Body {
	min := mgl64.Vec3{}
	max := mgl64.Vec3{}
	for i := 0; i < 3; i++ {
		min[i], max[i] = a[i], b[i]
		if min[i] > max[i] {
			min[i], max[i] = max[i], min[i]
		}
	}
	return &Body{
		id:         id,
		min:        min,
		max:        max,
		categories: categories,
		tags:       tags,
	}
}

func (b *Body) ID() world.ObjectID { return b.id }

func (b *Body) Min() mgl64.Vec3 { return b.min }

func (b *Body) Max() mgl64.Vec3 { return b.max }

func (b *Body) Center() mgl64.Vec3 { return b.min.Add(b.max).Mul(0.5) }

func (b *Body) Categories() []world.Category { return b.categories }

func (b *Body) Tags() []world.Tag { return b.tags }

func (b *Body) HasTag(tag world.Tag) bool {
	for _, t := range b.tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Blocks reports whether queries of the category stop at this body.
// Visibility stops at anything that also blocks walls.
func (b *Body) Blocks(category world.Category) bool {
	for _, c := range b.categories {
		if c == category {
			return true
		}
		if category == world.CategoryVisibility && c == world.CategoryWall {
			return true
		}
	}
	return false
}

// Closest returns the point of the box nearest to p.
func (b *Body) Closest(p mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{
		mgl64.Clamp(p[0], b.min[0], b.max[0]),
		mgl64.Clamp(p[1], b.min[1], b.max[1]),
		mgl64.Clamp(p[2], b.min[2], b.max[2]),
	}
}

// Distance from p to the box, zero inside it.
func (b *Body) Distance(p mgl64.Vec3) float64 {
	return p.Sub(b.Closest(p)).Len()
}

func (b *Body) Contains(p mgl64.Vec3) bool {
	return p[0] >= b.min[0] && p[0] <= b.max[0] &&
		p[1] >= b.min[1] && p[1] <= b.max[1] &&
		p[2] >= b.min[2] && p[2] <= b.max[2]
}
