package world

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExclude(t *testing.T) {
	e := NewExclude("pawn")
	assert.True(t, e.Has("pawn"))
	assert.False(t, e.Has("floor"))

	more := e.With("floor", "floor2")
	assert.True(t, more.Has("floor"))
	assert.False(t, e.Has("floor"), "With must not modify the receiver")
	assert.Equal(t, []ObjectID{"floor", "floor2", "pawn"}, more.IDs())
}

func TestCategory(t *testing.T) {
	for _, c := range []Category{CategoryVisibility, CategoryWall, CategoryDeathFloor} {
		parsed, ok := ParseCategory(c.String())
		assert.True(t, ok)
		assert.Equal(t, c, parsed)
	}
	_, ok := ParseCategory("lava")
	assert.False(t, ok)
}

func TestManualClock(t *testing.T) {
	var c ManualClock
	assert.Equal(t, time.Duration(0), c.Now())
	c.Advance(250 * time.Millisecond)
	c.Advance(250 * time.Millisecond)
	assert.Equal(t, 500*time.Millisecond, c.Now())
	c.Set(time.Second)
	assert.Equal(t, time.Second, c.Now())
}
