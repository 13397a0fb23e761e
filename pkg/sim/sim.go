// Package sim hosts steering controllers in an arena and advances them
// on a fixed timestep.
package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sasha-s/go-deadlock"

	"github.com/sdtraining/steer/pkg/agent"
	"github.com/sdtraining/steer/pkg/arena"
	"github.com/sdtraining/steer/pkg/debugdraw"
	"github.com/sdtraining/steer/pkg/pickup"
	"github.com/sdtraining/steer/pkg/scenario"
	"github.com/sdtraining/steer/pkg/world"
)

// Frame is everything that happened during one tick.
type Frame struct {
	Tick      uint64                `cbor:"tick"`
	Time      time.Duration         `cbor:"time"`
	Agents    []agent.Snapshot      `cbor:"agents"`
	Collected []world.ObjectID      `cbor:"collected,omitempty"`
	Draw      []debugdraw.Primitive `cbor:"draw,omitempty"`
}

// Sink receives every frame the simulation produces.
type Sink interface {
	WriteFrame(frame *Frame) error
}

type Options struct {
	TickRate int
	// WalkSpeed is how far a pawn moves per second at full input.
	WalkSpeed float64
	// PawnRadius is how close a pawn must get to a pickup to collect it.
	PawnRadius float64
	Agent      agent.Options
}

func DefaultOptions() Options {
	return Options{
		TickRate:   30,
		WalkSpeed:  600,
		PawnRadius: 40,
		Agent:      agent.DefaultOptions(),
	}
}

type Sim struct {
	name    string
	options Options
	arena   *arena.Arena
	clock   *world.ManualClock
	draw    *debugdraw.Recorder

	pawns       []*Pawn
	controllers []*agent.Controller
	sinks       []Sink
	tick        uint64

	mutex  deadlock.Mutex
	ticker *Ticker

	logger zerolog.Logger
}

func New(s *scenario.Scenario, options Options) (*Sim, error) {
	if options.TickRate <= 0 {
		return nil, fmt.Errorf("tick rate must be positive")
	}

	layout, err := s.Build()
	if err != nil {
		return nil, err
	}

	sim := &Sim{
		name:    s.Name,
		options: options,
		arena:   layout,
		clock:   &world.ManualClock{},
		draw:    debugdraw.NewRecorder(),
		logger:  log.With().Str("scenario", s.Name).Logger(),
	}

	for _, spawn := range s.Agents {
		pawn := NewPawn(world.ObjectID(spawn.ID), spawn.Location(), spawn.Orientation())

		agentOptions := options.Agent
		agentOptions.Draw = sim.draw
		agentOptions.OnPickup = sim.sighted

		controller := agent.New(layout, sim.clock, agentOptions)
		controller.OnBind(pawn)

		sim.pawns = append(sim.pawns, pawn)
		sim.controllers = append(sim.controllers, controller)
	}

	return sim, nil
}

func (s *Sim) Name() string { return s.name }

func (s *Sim) Arena() *arena.Arena { return s.arena }

func (s *Sim) Pawns() []*Pawn { return s.pawns }

func (s *Sim) Controllers() []*agent.Controller { return s.controllers }

func (s *Sim) Tick() uint64 { return s.tick }

func (s *Sim) Now() time.Duration { return s.clock.Now() }

func (s *Sim) Interval() time.Duration {
	return time.Second / time.Duration(s.options.TickRate)
}

// elapsed is the simulated time at the end of tick, computed from the tick
// count so that rates not dividing a second do not drift.
func (s *Sim) elapsed(tick uint64) time.Duration {
	return time.Duration(tick) * time.Second / time.Duration(s.options.TickRate)
}

func (s *Sim) AddSink(sink Sink) {
	s.sinks = append(s.sinks, sink)
}

func (s *Sim) sighted(pawn agent.Pawn, result pickup.Result) {
	s.logger.Trace().
		Str("agent", string(pawn.ID())).
		Str("pickup", string(result.Object)).
		Msg("pickup sighted")
}

// collect removes every pickup within reach of the pawn.
func (s *Sim) collect(pawn *Pawn) []world.ObjectID {
	var collected []world.ObjectID
	for _, id := range s.arena.Tagged(world.TagPickup) {
		body, ok := s.arena.Body(id)
		if !ok || body.Distance(pawn.Position()) > s.options.PawnRadius {
			continue
		}
		s.arena.Remove(id)
		collected = append(collected, id)

		s.logger.Info().
			Str("agent", string(pawn.ID())).
			Str("pickup", string(id)).
			Msg("pickup collected")
	}
	return collected
}

// Step advances the simulation by one tick and hands the resulting frame
// to every sink.
func (s *Sim) Step() (*Frame, error) {
	dt := 1 / float64(s.options.TickRate)

	s.tick++
	s.clock.Set(s.elapsed(s.tick))

	frame := &Frame{
		Tick: s.tick,
		Time: s.clock.Now(),
	}

	for i, controller := range s.controllers {
		controller.OnTick(dt)
		frame.Agents = append(frame.Agents, controller.Snapshot())

		pawn := s.pawns[i]
		pawn.Move(s.options.WalkSpeed, dt)
		frame.Collected = append(frame.Collected, s.collect(pawn)...)
	}
	frame.Draw = s.draw.Drain()

	for _, sink := range s.sinks {
		if err := sink.WriteFrame(frame); err != nil {
			return frame, err
		}
	}

	return frame, nil
}

// Run steps the simulation ticks times. Headless runs go as fast as
// possible and need a positive tick count; realtime runs follow the wall
// clock and run until the context ends when ticks is zero.
func (s *Sim) Run(ctx context.Context, ticks int, realtime bool) error {
	s.logger.Info().
		Int("agents", len(s.controllers)).
		Int("ticks", ticks).
		Bool("realtime", realtime).
		Msg("simulation started")

	if !realtime {
		if ticks <= 0 {
			return fmt.Errorf("headless runs need a tick count")
		}
		for i := 0; i < ticks; i++ {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if _, err := s.Step(); err != nil {
				return err
			}
		}
		s.logger.Info().Uint64("tick", s.tick).Msg("simulation finished")
		return nil
	}

	ticker := NewTicker(s.Interval())
	s.mutex.Lock()
	s.ticker = ticker
	s.mutex.Unlock()

	defer func() {
		s.mutex.Lock()
		s.ticker = nil
		s.mutex.Unlock()
		ticker.Stop()
	}()

	for ran := 0; ticks == 0 || ran < ticks; ran++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := s.Step(); err != nil {
				return err
			}
		}
	}

	s.logger.Info().Uint64("tick", s.tick).Msg("simulation finished")
	return nil
}

// Pause stops a realtime run from ticking until Resume is called. It does
// nothing for headless runs.
func (s *Sim) Pause() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.ticker != nil {
		s.ticker.Pause()
		s.logger.Info().Msg("simulation paused")
	}
}

func (s *Sim) Resume() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.ticker != nil {
		s.ticker.Resume()
		s.logger.Info().Msg("simulation resumed")
	}
}

func (s *Sim) Paused() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.ticker != nil && s.ticker.Paused()
}
