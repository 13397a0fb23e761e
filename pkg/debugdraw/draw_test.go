package debugdraw

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderDrain(t *testing.T) {
	r := NewRecorder()
	r.Line(mgl64.Vec3{}, mgl64.Vec3{1, 0, 0}, true, "center")
	r.Sphere(mgl64.Vec3{}, mgl64.Vec3{150, 0, 0}, 50, false, "wall")
	r.Point(mgl64.Vec3{3, 3, 3}, "pickup")
	require.Equal(t, 3, r.Len())

	drained := r.Drain()
	require.Len(t, drained, 3)
	assert.Equal(t, ShapeLine, drained[0].Shape)
	assert.True(t, drained[0].Hit)
	assert.Equal(t, 50.0, drained[1].Radius)
	assert.Equal(t, "pickup", drained[2].Label)

	assert.Equal(t, 0, r.Len())
	assert.Empty(t, r.Drain())
}
