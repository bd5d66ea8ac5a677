// Binary probe captures one observation, prints the extracted positions and
// the events a fresh bridge would emit, and exits without touching the
// signal file. Useful when tuning patterns against a new terminal build.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/Mikeyaruto/MT5-Copier-bridge/internal/capture"
	"github.com/Mikeyaruto/MT5-Copier-bridge/internal/extract"
	"github.com/Mikeyaruto/MT5-Copier-bridge/internal/position"
	"github.com/Mikeyaruto/MT5-Copier-bridge/internal/publish"
	"github.com/Mikeyaruto/MT5-Copier-bridge/internal/reconcile"
	"github.com/Mikeyaruto/MT5-Copier-bridge/internal/util"
)

func main() {
	_ = godotenv.Load() // best-effort

	provider := flag.String("provider", capture.ProviderADB, "capture provider (adb, ws, stub)")
	adbPath := flag.String("adb", os.Getenv("ADB_PATH"), "adb binary path")
	serial := flag.String("serial", "", "adb device serial")
	agentURL := flag.String("agent", "", "remote capture agent websocket url")
	timeout := flag.Duration("timeout", 15*time.Second, "capture timeout")
	flag.Parse()

	log := util.NewLogger("info")

	source := capture.NewSource(*provider, log,
		capture.WithADBPath(*adbPath),
		capture.WithSerial(*serial),
		capture.WithAgentURL(*agentURL),
	)
	defer source.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if source.Provider() == capture.ProviderADB {
		if err := source.VerifyDevice(ctx); err != nil {
			log.Fatal().Err(err).Msg("adb check failed")
		}
	}

	fragments, err := source.Fragments(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("capture failed")
	}
	records := extract.New().Positions(fragments)
	log.Info().Int("fragments", len(fragments)).Int("positions", len(records)).Msg("probe complete")

	mem := publish.NewMemory(len(records))
	for _, ev := range reconcile.Diff(position.Snapshot{}, position.Build(records)) {
		_ = mem.Publish(ev)
	}
	for _, ev := range mem.Snapshot() {
		payload, err := json.Marshal(ev)
		if err != nil {
			log.Fatal().Err(err).Msg("encode event")
		}
		fmt.Println(string(payload))
	}
}
