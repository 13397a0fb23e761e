package config

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/sdtraining/steer/pkg/agent"
	"github.com/sdtraining/steer/pkg/pickup"
	"github.com/sdtraining/steer/pkg/probe"
)

type AgentConfig struct {
	MaxSpeed            float64    `json:"maxSpeed"`
	InitialAcceleration mgl64.Vec3 `json:"initialAcceleration"`
}

type ProbeConfig struct {
	Radius           float64 `json:"radius"`
	SweepDistance    float64 `json:"sweepDistance"`
	FloorProbeHeight float64 `json:"floorProbeHeight"`
}

type ManeuverConfig struct {
	DurationSeconds float64 `json:"durationSeconds"`
}

type PickupConfig struct {
	RayHeight        float64 `json:"rayHeight"`
	Range            float64 `json:"range"`
	RayCount         int     `json:"rayCount"`
	HalfAngleDegrees float64 `json:"halfAngleDegrees"`
}

type SimConfig struct {
	TickRate   int     `json:"tickRate"`
	Realtime   bool    `json:"realtime"`
	WalkSpeed  float64 `json:"walkSpeed"`
	PawnRadius float64 `json:"pawnRadius"`
}

type ObserveConfig struct {
	Listen       string  `json:"listen"`
	MaxFrameRate float64 `json:"maxFrameRate"`
}

type Config struct {
	Agent    AgentConfig    `json:"agent"`
	Probe    ProbeConfig    `json:"probe"`
	Maneuver ManeuverConfig `json:"maneuver"`
	Pickup   PickupConfig   `json:"pickup"`
	Sim      SimConfig      `json:"sim"`
	Observe  ObserveConfig  `json:"observe"`
}

func (c *Config) ManeuverDuration() time.Duration {
	return time.Duration(c.Maneuver.DurationSeconds * float64(time.Second))
}

func (c *Config) TickInterval() time.Duration {
	return time.Second / time.Duration(c.Sim.TickRate)
}

// AgentOptions converts the configuration into controller options.
func (c *Config) AgentOptions() agent.Options {
	return agent.Options{
		MaxSpeed:            c.Agent.MaxSpeed,
		InitialAcceleration: c.Agent.InitialAcceleration,
		ManeuverDuration:    c.ManeuverDuration(),
		Probe: probe.Settings{
			Radius:           c.Probe.Radius,
			SweepDistance:    c.Probe.SweepDistance,
			FloorProbeHeight: c.Probe.FloorProbeHeight,
		},
		Pickup: pickup.Settings{
			RayHeight: c.Pickup.RayHeight,
			Range:     c.Pickup.Range,
			RayCount:  c.Pickup.RayCount,
			HalfAngle: c.Pickup.HalfAngleDegrees,
		},
	}
}
