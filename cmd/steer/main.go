package main

import (
	"fmt"
	"os"
	"time"

	"github.com/sdtraining/steer/pkg/config"
	"github.com/sdtraining/steer/pkg/version"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var CLI struct {
	Version bool `help:"Print version information and exit." short:"v"`
	Debug   bool `help:"Whether to enable debug logging."`
	Trace   bool `help:"Log every probe and ray hit. Very noisy."`

	Sim struct {
		Scenario string   `arg:"" name:"scenario" help:"Scenario file to simulate." type:"existingfile"`
		Configs  []string `arg:"" optional:"" name:"configs" help:"Configuration files merged over the defaults." type:"existingfile"`
		Ticks    int      `help:"Number of ticks to run. Zero runs until interrupted in realtime mode." default:"300"`
		Record   string   `help:"Write a trace of the run to this file." type:"path"`
		Observe  string   `help:"Serve the observer websocket on this address, e.g. localhost:8080. Implies realtime."`
		Realtime bool     `help:"Tick on the wall clock instead of as fast as possible."`
	} `cmd:"" help:"Run a scenario."`

	Replay struct {
		Trace string `arg:"" name:"trace" help:"Trace file to summarize." type:"existingfile"`
		JSON  bool   `help:"Print the summary as JSON." name:"json"`
	} `cmd:"" help:"Summarize a recorded trace."`

	Config struct {
	} `cmd:"" help:"Write steer's default configuration to standard output."`
}

func writeError(err error) {
	fmt.Fprintf(os.Stderr, "%s\n", err)
	os.Exit(1)
}

func printVersion() {
	fmt.Printf(
		"steer %s (commit %s)\n",
		version.Version,
		version.GitCommit,
	)
	fmt.Printf(
		"built %s\n",
		version.BuildTime,
	)
}

func main() {
	consoleWriter := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	log.Logger = log.Output(consoleWriter)

	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	// kong insists on a command, so a bare version flag is handled first.
	if len(os.Args) == 2 && (os.Args[1] == "-v" || os.Args[1] == "--version") {
		printVersion()
		return
	}

	ctx := kong.Parse(&CLI,
		kong.Name("steer"),
		kong.Description("an obstacle-avoiding agent steering simulator"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}))

	if CLI.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Warn().Msg("debug logging enabled")
	}
	if CLI.Trace {
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
		log.Warn().Msg("trace logging enabled")
	}

	if CLI.Version {
		printVersion()
		os.Exit(0)
	}

	switch ctx.Command() {
	case "sim <scenario>":
		fallthrough
	case "sim <scenario> <configs>":
		err := simCommand(CLI.Sim.Scenario, CLI.Sim.Configs)
		if err != nil {
			writeError(err)
		}
	case "replay <trace>":
		err := replayCommand(CLI.Replay.Trace, CLI.Replay.JSON)
		if err != nil {
			writeError(err)
		}
	case "config":
		os.Stdout.Write(config.DEFAULT)
	}
}
