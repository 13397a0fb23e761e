package scenario

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdtraining/steer/pkg/world"
)

const room = `
name: test
boxes:
  - id: floor
    min: [-100, -100, -10]
    max: [100, 100, 0]
    categories: [wall, deathfloor]
    tags: [Floor]
  - min: [50, -100, 0]
    max: [60, 100, 100]
  - id: coin
    min: [0, 0, 0]
    max: [10, 10, 10]
    tags: [Pickup]
agents:
  - id: bot
    position: [0, 0, 90]
    yaw: 45
`

func TestParse(t *testing.T) {
	scenario, err := Parse([]byte(room))
	require.NoError(t, err)

	assert.Equal(t, "test", scenario.Name)
	require.Len(t, scenario.Boxes, 3)
	assert.Equal(t, "box-1", scenario.Boxes[1].ID)

	require.Len(t, scenario.Agents, 1)
	assert.Equal(t, mgl64.Vec3{0, 0, 90}, scenario.Agents[0].Location())
	assert.Equal(t, 45.0, scenario.Agents[0].Orientation().Yaw)
}

func TestBuild(t *testing.T) {
	scenario, err := Parse([]byte(room))
	require.NoError(t, err)

	a, err := scenario.Build()
	require.NoError(t, err)
	assert.Len(t, a.Bodies(), 3)
	assert.Equal(t, []world.ObjectID{"floor"}, a.Tagged(world.TagFloor))
	assert.Equal(t, []world.ObjectID{"coin"}, a.Tagged(world.TagPickup))

	wall, ok := a.Body("box-1")
	require.True(t, ok)
	assert.True(t, wall.Blocks(world.CategoryWall))

	coin, ok := a.Body("coin")
	require.True(t, ok)
	assert.False(t, coin.Blocks(world.CategoryWall))
	assert.True(t, coin.Blocks(world.CategoryVisibility))
}

func TestInvalid(t *testing.T) {
	cases := map[string]string{
		"no agents": `
boxes:
  - min: [0, 0, 0]
    max: [1, 1, 1]
`,
		"inverted box": `
boxes:
  - min: [0, 5, 0]
    max: [1, 1, 1]
agents:
  - id: a
    position: [0, 0, 0]
`,
		"short vector": `
agents:
  - id: a
    position: [0, 0]
`,
		"duplicate id": `
boxes:
  - id: a
    min: [0, 0, 0]
    max: [1, 1, 1]
agents:
  - id: a
    position: [0, 0, 0]
`,
		"unknown category": `
boxes:
  - min: [0, 0, 0]
    max: [1, 1, 1]
    categories: [lava]
agents:
  - id: a
    position: [0, 0, 0]
`,
		"unknown key": `
agents:
  - id: a
    position: [0, 0, 0]
    speed: 4
`,
	}

	for name, data := range cases {
		_, err := Parse([]byte(data))
		assert.Error(t, err, name)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "room.yaml")
	require.NoError(t, os.WriteFile(path, []byte(room), 0644))

	scenario, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "test", scenario.Name)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestBundledScenarios(t *testing.T) {
	paths, err := filepath.Glob("../../scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		scenario, err := Load(path)
		require.NoError(t, err, path)
		_, err = scenario.Build()
		require.NoError(t, err, path)
	}
}
