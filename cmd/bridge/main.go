// Binary bridge polls the terminal UI and mirrors position changes into the
// copier's signal file.
package main

import (
	"context"
	"errors"
	"os"
	ossignal "os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/Mikeyaruto/MT5-Copier-bridge/internal/bridge"
	"github.com/Mikeyaruto/MT5-Copier-bridge/internal/capture"
	"github.com/Mikeyaruto/MT5-Copier-bridge/internal/config"
	"github.com/Mikeyaruto/MT5-Copier-bridge/internal/debounce"
	"github.com/Mikeyaruto/MT5-Copier-bridge/internal/extract"
	"github.com/Mikeyaruto/MT5-Copier-bridge/internal/metrics"
	"github.com/Mikeyaruto/MT5-Copier-bridge/internal/publish"
	"github.com/Mikeyaruto/MT5-Copier-bridge/internal/util"
)

func main() {
	_ = godotenv.Load() // best-effort

	cfgPath := os.Getenv("BRIDGE_CONFIG")
	if cfgPath == "" {
		cfgPath = "internal/config/config.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log := util.NewLogger("info")
		log.Fatal().Err(err).Msg("load config")
	}
	applyEnvOverrides(cfg)

	log := util.NewLogger(cfg.App.LogLevel)

	_ = metrics.Serve(cfg.App.MetricsAddr)
	log.Info().Str("addr", cfg.App.MetricsAddr).Msg("metrics up")

	ctx, cancel := ossignal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	source := buildSource(cfg.Capture, cfg.Capture.Provider, log)
	defer source.Close()
	if source.Provider() == capture.ProviderADB {
		if err := source.VerifyDevice(ctx); err != nil {
			log.Fatal().Err(err).Msg("adb check failed")
		}
	}

	out, err := publish.NewFileBridge(cfg.Bridge.SignalPath)
	if err != nil {
		log.Fatal().Err(err).Msg("open signal bridge")
	}

	opts := []bridge.Option{
		bridge.WithInterval(time.Duration(cfg.Capture.PollMs) * time.Millisecond),
		bridge.WithDebounce(debounce.New(time.Duration(cfg.Bridge.DebounceTTLMs) * time.Millisecond)),
	}
	if cfg.Capture.Fallback != "" && cfg.Capture.Fallback != cfg.Capture.Provider {
		fallback := buildSource(cfg.Capture, cfg.Capture.Fallback, log)
		defer fallback.Close()
		opts = append(opts, bridge.WithFallback(fallback))
	}

	extractor := extract.New(extract.WithMaxLot(cfg.Extract.MaxLot))
	engine := bridge.New(log, source, extractor, out, opts...)

	if err := engine.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("bridge stopped")
		return
	}
	log.Info().Msg("shutting down")
}

func buildSource(cfg config.Capture, provider string, log zerolog.Logger) *capture.Source {
	opts := []capture.Option{
		capture.WithADBPath(cfg.ADBPath),
		capture.WithSerial(cfg.DeviceSerial),
		capture.WithDumpPath(cfg.DumpPath),
		capture.WithAgentURL(cfg.AgentURL),
	}
	if len(cfg.StubScript) > 0 {
		opts = append(opts, capture.WithScript([][]string{cfg.StubScript}))
	}
	return capture.NewSource(provider, log, opts...)
}

// ADB_PATH, POLL_SECONDS, and SIGNAL_PATH mirror the knobs the original
// operators already set in the environment.
func applyEnvOverrides(cfg *config.Config) {
	if v := os.Getenv("ADB_PATH"); v != "" {
		cfg.Capture.ADBPath = v
	}
	if v := os.Getenv("POLL_SECONDS"); v != "" {
		if secs, err := strconv.ParseFloat(v, 64); err == nil && secs > 0 {
			cfg.Capture.PollMs = int(secs * 1000)
		}
	}
	if v := os.Getenv("SIGNAL_PATH"); v != "" {
		cfg.Bridge.SignalPath = v
	}
}
