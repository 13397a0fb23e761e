// Package arena is an in-memory world of static boxes that answers the
// spatial queries of world.Query.
package arena

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	fp "github.com/repeale/fp-go"
	"github.com/repeale/fp-go/option"

	"github.com/sdtraining/steer/pkg/world"
)

type Arena struct {
	bodies []*Body
	byID   map[world.ObjectID]*Body
}

var _ world.Query = (*Arena)(nil)

func New() *Arena {
	return &Arena{
		byID: make(map[world.ObjectID]*Body),
	}
}

func (a *Arena) Add(b *Body) error {
	if _, ok := a.byID[b.id]; ok {
		return fmt.Errorf("duplicate body %q", b.id)
	}
	a.bodies = append(a.bodies, b)
	a.byID[b.id] = b
	return nil
}

func (a *Arena) Remove(id world.ObjectID) bool {
	if _, ok := a.byID[id]; !ok {
		return false
	}
	delete(a.byID, id)
	a.bodies = fp.Filter(func(b *Body) bool { return b.id != id })(a.bodies)
	return true
}

func (a *Arena) Body(id world.ObjectID) (*Body, bool) {
	b, ok := a.byID[id]
	return b, ok
}

func (a *Arena) Bodies() []*Body { return a.bodies }

func (a *Arena) candidates(category world.Category, exclude world.Exclude) []*Body {
	return fp.Filter(func(b *Body) bool {
		return !exclude.Has(b.id) && b.Blocks(category)
	})(a.bodies)
}

func (a *Arena) SweepSphere(origin, dest mgl64.Vec3, radius float64, category world.Category, exclude world.Exclude) opt.Option[world.Hit] {
	delta := dest.Sub(origin)

	var (
		best  *Body
		bestT float64
	)
	for _, b := range a.candidates(category, exclude) {
		t, ok := sphereBox(b, origin, delta, radius)
		if !ok || (best != nil && t >= bestT) {
			continue
		}
		best, bestT = b, t
	}
	if best == nil {
		return opt.None[world.Hit]()
	}

	center := origin.Add(delta.Mul(bestT))
	return opt.Some(world.Hit{
		Point:    best.Closest(center),
		Normal:   contactNormal(best, center, delta),
		Distance: delta.Len() * bestT,
		Object:   best,
	})
}

func (a *Arena) RaycastLine(origin, dest mgl64.Vec3, category world.Category, exclude world.Exclude) opt.Option[world.Hit] {
	delta := dest.Sub(origin)

	var (
		best       *Body
		bestT      float64
		bestNormal mgl64.Vec3
	)
	for _, b := range a.candidates(category, exclude) {
		t, normal, ok := segmentBox(b, origin, delta)
		if !ok || (best != nil && t >= bestT) {
			continue
		}
		best, bestT, bestNormal = b, t, normal
	}
	if best == nil {
		return opt.None[world.Hit]()
	}

	return opt.Some(world.Hit{
		Point:    origin.Add(delta.Mul(bestT)),
		Normal:   bestNormal,
		Distance: delta.Len() * bestT,
		Object:   best,
	})
}

func (a *Arena) Tagged(tag world.Tag) []world.ObjectID {
	tagged := fp.Filter(func(b *Body) bool { return b.HasTag(tag) })(a.bodies)
	ids := fp.Map(func(b *Body) world.ObjectID { return b.id })(tagged)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
