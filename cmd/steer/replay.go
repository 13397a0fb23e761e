package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/sdtraining/steer/pkg/trace"
)

func replayCommand(path string, asJSON bool) error {
	reader, err := trace.Open(path)
	if err != nil {
		return err
	}
	defer reader.Close()

	summary, err := trace.Summarize(reader)
	if err != nil {
		return err
	}

	if asJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(summary)
	}

	header := summary.Header
	fmt.Printf("scenario %s, %d ticks at %d Hz (%s)\n", header.Scenario, summary.Ticks, header.TickRate, summary.Duration)
	fmt.Printf("config fingerprint %016x\n", header.Fingerprint)
	fmt.Printf("pickups collected: %d\n\n", len(summary.Collected))

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "AGENT\tDISTANCE\tWALLS\tDEATHFLOORS\tMANEUVERS\tESCAPES\tSIGHTINGS")
	for _, id := range summary.AgentIDs() {
		agent := summary.Agents[id]

		sides := make([]string, 0, len(agent.Escapes))
		for side := range agent.Escapes {
			sides = append(sides, side)
		}
		sort.Strings(sides)
		escapes := ""
		for _, side := range sides {
			escapes += fmt.Sprintf("%s=%d ", side, agent.Escapes[side])
		}

		fmt.Fprintf(
			writer,
			"%s\t%.1f\t%d\t%d\t%d\t%s\t%d\n",
			id,
			agent.Distance,
			agent.Walls,
			agent.DeathFloors,
			agent.Maneuvers,
			escapes,
			agent.Sightings,
		)
	}
	return writer.Flush()
}
