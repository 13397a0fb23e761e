package world

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

type ObjectID string

type Tag string

const (
	TagPickup     Tag = "Pickup"
	TagFloor      Tag = "Floor"
	TagDeathFloor Tag = "DeathFloor"
)

// Category selects which bodies block a query.
type Category uint8

const (
	// CategoryVisibility is blocked by every solid body.
	CategoryVisibility Category = iota
	CategoryWall
	CategoryDeathFloor
)

func (c Category) String() string {
	switch c {
	case CategoryVisibility:
		return "visibility"
	case CategoryWall:
		return "wall"
	case CategoryDeathFloor:
		return "deathfloor"
	}
	return "unknown"
}

func ParseCategory(s string) (Category, bool) {
	switch s {
	case "visibility":
		return CategoryVisibility, true
	case "wall":
		return CategoryWall, true
	case "deathfloor":
		return CategoryDeathFloor, true
	}
	return 0, false
}

// Object is the thing a query struck.
type Object interface {
	ID() ObjectID
	HasTag(Tag) bool
}

type Hit struct {
	Point    mgl64.Vec3
	Normal   mgl64.Vec3
	Distance float64
	Object   Object
}

// Exclude is a set of objects a query ignores.
type Exclude map[ObjectID]struct{}

func NewExclude(ids ...ObjectID) Exclude {
	e := make(Exclude, len(ids))
	for _, id := range ids {
		e[id] = struct{}{}
	}
	return e
}

func (e Exclude) Has(id ObjectID) bool {
	_, ok := e[id]
	return ok
}

// With returns a copy of e that also contains ids.
func (e Exclude) With(ids ...ObjectID) Exclude {
	out := make(Exclude, len(e)+len(ids))
	for id := range e {
		out[id] = struct{}{}
	}
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}

// IDs lists the members in sorted order.
func (e Exclude) IDs() []ObjectID {
	ids := make([]ObjectID, 0, len(e))
	for id := range e {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
