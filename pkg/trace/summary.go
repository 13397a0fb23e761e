package trace

import (
	"errors"
	"io"
	"sort"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/sdtraining/steer/pkg/geom"
	"github.com/sdtraining/steer/pkg/probe"
	"github.com/sdtraining/steer/pkg/world"
)

type AgentSummary struct {
	Maneuvers   int            `json:"maneuvers"`
	Escapes     map[string]int `json:"escapes"`
	Walls       int            `json:"walls"`
	DeathFloors int            `json:"deathFloors"`
	Sightings   int            `json:"sightings"`
	Distance    float64        `json:"distance"`
}

type Summary struct {
	Header    Header                           `json:"header"`
	Ticks     uint64                           `json:"ticks"`
	Duration  time.Duration                    `json:"duration"`
	Collected []world.ObjectID                 `json:"collected"`
	Agents    map[world.ObjectID]*AgentSummary `json:"agents"`
}

// AgentIDs lists the summarized agents in sorted order.
func (s *Summary) AgentIDs() []world.ObjectID {
	ids := make([]world.ObjectID, 0, len(s.Agents))
	for id := range s.Agents {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Summarize reads every remaining frame of the trace.
func Summarize(reader *Reader) (*Summary, error) {
	summary := &Summary{
		Header: reader.Header(),
		Agents: make(map[world.ObjectID]*AgentSummary),
	}
	last := make(map[world.ObjectID]mgl64.Vec3)

	for {
		frame, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return summary, nil
		}
		if err != nil {
			return summary, err
		}

		summary.Ticks++
		summary.Duration = frame.Time
		summary.Collected = append(summary.Collected, frame.Collected...)

		for _, snapshot := range frame.Agents {
			agent, ok := summary.Agents[snapshot.Agent]
			if !ok {
				agent = &AgentSummary{Escapes: make(map[string]int)}
				summary.Agents[snapshot.Agent] = agent
			}
			if previous, ok := last[snapshot.Agent]; ok {
				agent.Distance += geom.Distance(previous, snapshot.Position)
			}
			last[snapshot.Agent] = snapshot.Position

			switch snapshot.Obstacle.Kind {
			case probe.KindWall:
				agent.Walls++
			case probe.KindDeathFloor:
				agent.DeathFloors++
			}
			if snapshot.Escape != "" {
				agent.Maneuvers++
				agent.Escapes[snapshot.Escape]++
			}
			if snapshot.Pickup.Found {
				agent.Sightings++
			}
		}
	}
}
