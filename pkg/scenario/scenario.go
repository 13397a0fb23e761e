// Package scenario loads arena layouts and agent spawns from YAML.
package scenario

import (
	"bytes"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	fp "github.com/repeale/fp-go"
	"gopkg.in/yaml.v3"

	"github.com/sdtraining/steer/pkg/arena"
	"github.com/sdtraining/steer/pkg/geom"
	"github.com/sdtraining/steer/pkg/world"
)

type Box struct {
	ID         string    `yaml:"id"`
	Min        []float64 `yaml:"min"`
	Max        []float64 `yaml:"max"`
	Categories []string  `yaml:"categories"`
	Tags       []string  `yaml:"tags"`
}

type Spawn struct {
	ID       string    `yaml:"id"`
	Position []float64 `yaml:"position"`
	Yaw      float64   `yaml:"yaw"`
}

type Scenario struct {
	Name   string  `yaml:"name"`
	Boxes  []Box   `yaml:"boxes"`
	Agents []Spawn `yaml:"agents"`
}

func vec3(v []float64) (mgl64.Vec3, error) {
	if len(v) != 3 {
		return mgl64.Vec3{}, fmt.Errorf("want 3 components, got %d", len(v))
	}
	return mgl64.Vec3{v[0], v[1], v[2]}, nil
}

func (s Spawn) Location() mgl64.Vec3 {
	v, _ := vec3(s.Position)
	return v
}

func (s Spawn) Orientation() geom.Rotator {
	return geom.Rotator{Yaw: s.Yaw}
}

// categories defaults to the ones a box of the given tags needs: pickups
// are only visible, everything else is a wall.
func (b Box) categories() ([]world.Category, error) {
	names := b.Categories
	if len(names) == 0 {
		names = []string{"wall"}
		for _, tag := range b.Tags {
			if world.Tag(tag) == world.TagPickup {
				names = []string{"visibility"}
			}
		}
	}

	categories := make([]world.Category, 0, len(names))
	for _, name := range names {
		category, ok := world.ParseCategory(name)
		if !ok {
			return nil, fmt.Errorf("unknown category %q", name)
		}
		categories = append(categories, category)
	}
	return categories, nil
}

// Parse decodes a scenario and validates it. Unknown keys are rejected.
func Parse(data []byte) (*Scenario, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var scenario Scenario
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("could not decode scenario: %w", err)
	}

	for i := range scenario.Boxes {
		if scenario.Boxes[i].ID == "" {
			scenario.Boxes[i].ID = fmt.Sprintf("box-%d", i)
		}
	}

	if err := scenario.Validate(); err != nil {
		return nil, err
	}
	return &scenario, nil
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	scenario, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	if scenario.Name == "" {
		scenario.Name = path
	}
	return scenario, nil
}

func (s *Scenario) Validate() error {
	if len(s.Agents) == 0 {
		return fmt.Errorf("scenario has no agents")
	}

	seen := make(map[string]struct{})
	claim := func(id string) error {
		if id == "" {
			return fmt.Errorf("empty id")
		}
		if _, ok := seen[id]; ok {
			return fmt.Errorf("duplicate id %q", id)
		}
		seen[id] = struct{}{}
		return nil
	}

	for _, box := range s.Boxes {
		if err := claim(box.ID); err != nil {
			return fmt.Errorf("box: %w", err)
		}

		min, err := vec3(box.Min)
		if err != nil {
			return fmt.Errorf("box %s: min: %w", box.ID, err)
		}
		max, err := vec3(box.Max)
		if err != nil {
			return fmt.Errorf("box %s: max: %w", box.ID, err)
		}
		for axis := 0; axis < 3; axis++ {
			if min[axis] > max[axis] {
				return fmt.Errorf("box %s: min exceeds max on axis %d", box.ID, axis)
			}
		}

		if _, err := box.categories(); err != nil {
			return fmt.Errorf("box %s: %w", box.ID, err)
		}
	}

	for _, agent := range s.Agents {
		if err := claim(agent.ID); err != nil {
			return fmt.Errorf("agent: %w", err)
		}
		if _, err := vec3(agent.Position); err != nil {
			return fmt.Errorf("agent %s: position: %w", agent.ID, err)
		}
	}

	return nil
}

// Build creates the arena holding every box of the scenario.
func (s *Scenario) Build() (*arena.Arena, error) {
	a := arena.New()
	for _, box := range s.Boxes {
		categories, err := box.categories()
		if err != nil {
			return nil, fmt.Errorf("box %s: %w", box.ID, err)
		}

		tags := fp.Map(func(tag string) world.Tag { return world.Tag(tag) })(box.Tags)

		min, _ := vec3(box.Min)
		max, _ := vec3(box.Max)
		err = a.Add(arena.NewBox(world.ObjectID(box.ID), min, max, categories, tags))
		if err != nil {
			return nil, err
		}
	}
	return a, nil
}
