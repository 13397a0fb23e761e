// Package debugdraw records the geometric queries a controller issues so
// they can be inspected without a renderer.
package debugdraw

import (
	"github.com/go-gl/mathgl/mgl64"
)

type Shape uint8

const (
	ShapeLine Shape = iota
	ShapeSphere
	ShapePoint
)

// Primitive is one drawn query. Hit marks queries that struck something.
type Primitive struct {
	Shape  Shape      `cbor:"s"`
	From   mgl64.Vec3 `cbor:"f"`
	To     mgl64.Vec3 `cbor:"t"`
	Radius float64    `cbor:"r,omitempty"`
	Hit    bool       `cbor:"h"`
	Label  string     `cbor:"l,omitempty"`
}

type Drawer interface {
	Line(from, to mgl64.Vec3, hit bool, label string)
	Sphere(from, to mgl64.Vec3, radius float64, hit bool, label string)
	Point(at mgl64.Vec3, label string)
}

type Nop struct{}

func (Nop) Line(mgl64.Vec3, mgl64.Vec3, bool, string)            {}
func (Nop) Sphere(mgl64.Vec3, mgl64.Vec3, float64, bool, string) {}
func (Nop) Point(mgl64.Vec3, string)                             {}

// Recorder keeps every primitive drawn since the last Drain.
type Recorder struct {
	primitives []Primitive
}

var _ Drawer = (*Recorder)(nil)

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Line(from, to mgl64.Vec3, hit bool, label string) {
	r.primitives = append(r.primitives, Primitive{Shape: ShapeLine, From: from, To: to, Hit: hit, Label: label})
}

func (r *Recorder) Sphere(from, to mgl64.Vec3, radius float64, hit bool, label string) {
	r.primitives = append(r.primitives, Primitive{Shape: ShapeSphere, From: from, To: to, Radius: radius, Hit: hit, Label: label})
}

func (r *Recorder) Point(at mgl64.Vec3, label string) {
	r.primitives = append(r.primitives, Primitive{Shape: ShapePoint, From: at, To: at, Label: label})
}

func (r *Recorder) Len() int { return len(r.primitives) }

// Drain returns the recorded primitives and starts a new batch.
func (r *Recorder) Drain() []Primitive {
	out := r.primitives
	r.primitives = nil
	return out
}
