package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/sdtraining/steer/pkg/config"
	"github.com/sdtraining/steer/pkg/observe"
	"github.com/sdtraining/steer/pkg/scenario"
	"github.com/sdtraining/steer/pkg/sim"
	"github.com/sdtraining/steer/pkg/trace"
	"github.com/sdtraining/steer/pkg/world"

	"github.com/rs/zerolog/log"
)

func simCommand(scenarioPath string, configs []string) error {
	cfg, err := config.Process(configs)
	if err != nil {
		return err
	}

	layout, err := scenario.Load(scenarioPath)
	if err != nil {
		return err
	}

	simulation, err := sim.New(layout, sim.Options{
		TickRate:   cfg.Sim.TickRate,
		WalkSpeed:  cfg.Sim.WalkSpeed,
		PawnRadius: cfg.Sim.PawnRadius,
		Agent:      cfg.AgentOptions(),
	})
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	var recorder *trace.Writer
	if CLI.Sim.Record != "" {
		agents := make([]world.ObjectID, 0, len(layout.Agents))
		for _, spawn := range layout.Agents {
			agents = append(agents, world.ObjectID(spawn.ID))
		}

		recorder, err = trace.Create(CLI.Sim.Record, trace.Header{
			Scenario:    layout.Name,
			TickRate:    cfg.Sim.TickRate,
			Fingerprint: cfg.Fingerprint(),
			Agents:      agents,
		})
		if err != nil {
			return err
		}
		simulation.AddSink(recorder)
	}

	listen := CLI.Sim.Observe
	if listen == "" {
		listen = cfg.Observe.Listen
	}

	errc := make(chan error, 1)
	if listen != "" {
		server := observe.New(simulation, cfg.Observe.MaxFrameRate)
		simulation.AddSink(server)
		go func() {
			err := server.Serve(ctx, listen)
			if err != nil {
				log.Error().Err(err).Msg("observer failed, stopping simulation")
				cancel()
			}
			errc <- err
		}()
	}

	realtime := CLI.Sim.Realtime || cfg.Sim.Realtime || listen != ""

	log.Info().
		Str("scenario", layout.Name).
		Uint64("fingerprint", cfg.Fingerprint()).
		Msg("config loaded")

	err = simulation.Run(ctx, CLI.Sim.Ticks, realtime)
	if errors.Is(err, context.Canceled) {
		log.Info().Msg("interrupted")
		err = nil
	}
	cancel()

	if recorder != nil {
		if closeErr := recorder.Close(); err == nil {
			err = closeErr
		}
		log.Info().
			Int("frames", recorder.Frames()).
			Str("path", CLI.Sim.Record).
			Msg("trace written")
	}

	if listen != "" {
		if serveErr := <-errc; err == nil {
			err = serveErr
		}
	}

	for i, controller := range simulation.Controllers() {
		pawn := simulation.Pawns()[i]
		state := controller.State()
		position := pawn.Position()
		log.Info().
			Str("agent", string(pawn.ID())).
			Floats64("position", position[:]).
			Stringer("orientation", state.Orientation).
			Bool("turning", state.InRotation).
			Msg("final state")
	}

	return err
}
