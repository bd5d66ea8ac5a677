// Package bridge runs the capture, extract, reconcile, publish loop and
// owns the cross-tick state it needs.
package bridge

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Mikeyaruto/MT5-Copier-bridge/internal/capture"
	"github.com/Mikeyaruto/MT5-Copier-bridge/internal/debounce"
	"github.com/Mikeyaruto/MT5-Copier-bridge/internal/extract"
	"github.com/Mikeyaruto/MT5-Copier-bridge/internal/metrics"
	"github.com/Mikeyaruto/MT5-Copier-bridge/internal/position"
	"github.com/Mikeyaruto/MT5-Copier-bridge/internal/publish"
	"github.com/Mikeyaruto/MT5-Copier-bridge/internal/reconcile"
)

const defaultInterval = 1500 * time.Millisecond

// Engine threads one observation through the pipeline per tick. The previous
// snapshot and the debounce cache are the only cross-tick state and are owned
// exclusively by the engine; ticks never overlap.
type Engine struct {
	log       zerolog.Logger
	source    *capture.Source
	fallback  *capture.Source
	extractor *extract.Extractor
	out       publish.Bridge
	cache     *debounce.Cache
	interval  time.Duration
	prev      position.Snapshot
}

// Option configures Engine construction parameters.
type Option func(*Engine)

// WithInterval overrides the polling cadence.
func WithInterval(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.interval = d
		}
	}
}

// WithFallback adds a secondary capture source consulted when the primary
// observation yields no positions.
func WithFallback(src *capture.Source) Option {
	return func(e *Engine) { e.fallback = src }
}

// WithDebounce replaces the default 5s signature cache.
func WithDebounce(cache *debounce.Cache) Option {
	return func(e *Engine) {
		if cache != nil {
			e.cache = cache
		}
	}
}

// New wires an engine over the given collaborators.
func New(log zerolog.Logger, source *capture.Source, extractor *extract.Extractor, out publish.Bridge, opts ...Option) *Engine {
	e := &Engine{
		log:       log,
		source:    source,
		extractor: extractor,
		out:       out,
		cache:     debounce.New(debounce.DefaultTTL),
		interval:  defaultInterval,
		prev:      position.Snapshot{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Previous returns a copy of the last committed snapshot.
func (e *Engine) Previous() position.Snapshot { return e.prev.Clone() }

// Tick runs one capture-and-reconcile cycle. The previous snapshot commits
// only after every event for the cycle has been handled; any error leaves it
// untouched so the next tick retries the same diff.
func (e *Engine) Tick(ctx context.Context) error {
	fragments, err := e.source.Fragments(ctx)
	if err != nil {
		metrics.CaptureFailuresTotal.Inc()
		return fmt.Errorf("capture: %w", err)
	}
	metrics.FragmentsTotal.Add(float64(len(fragments)))

	records := e.extractor.Positions(fragments)
	if len(records) == 0 && e.fallback != nil {
		records = e.capturedFallback(ctx)
	}
	metrics.PositionsExtractedTotal.Add(float64(len(records)))

	current := position.Build(records)
	for _, ev := range reconcile.Diff(e.prev, current) {
		if !e.cache.ShouldPublish(ev) {
			metrics.EventsDebouncedTotal.Inc()
			continue
		}
		if err := e.out.Publish(ev); err != nil {
			metrics.PublishFailuresTotal.Inc()
			return fmt.Errorf("publish %s %s: %w", ev.Action, ev.Symbol, err)
		}
		e.cache.MarkPublished(ev)
		metrics.EventsPublishedTotal.WithLabelValues(string(ev.Action)).Inc()
		e.log.Info().
			Str("action", string(ev.Action)).
			Str("symbol", ev.Symbol).
			Str("side", string(ev.Side)).
			Float64("lot", ev.Lot).
			Msg("signal emitted")
	}

	e.prev = current
	return nil
}

func (e *Engine) capturedFallback(ctx context.Context) []position.Record {
	fragments, err := e.fallback.Fragments(ctx)
	if err != nil {
		e.log.Warn().Err(err).Msg("fallback capture failed")
		return nil
	}
	records := e.extractor.Positions(fragments)
	if len(records) > 0 {
		e.log.Info().Str("provider", e.fallback.Provider()).Msg("using fallback capture for this cycle")
	}
	return records
}

// Run ticks immediately and then on the configured interval until ctx is
// canceled. Tick errors are logged and counted; the loop itself keeps
// polling.
func (e *Engine) Run(ctx context.Context) error {
	e.log.Info().Dur("interval", e.interval).Msg("starting bridge monitor")
	e.runTick(ctx)

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			e.runTick(ctx)
		}
	}
}

func (e *Engine) runTick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if err := e.Tick(ctx); err != nil {
		metrics.TickFailuresTotal.Inc()
		e.log.Warn().Err(err).Msg("polling cycle failed")
		return
	}
	metrics.TicksTotal.Inc()
}
