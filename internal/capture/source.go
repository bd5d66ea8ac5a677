// Package capture hosts providers that read raw UI text fragments from the
// observed terminal once per polling cycle.
package capture

import (
	"context"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	// ProviderStub replays a fixed fragment script (useful for tests/offline work).
	ProviderStub = "stub"
	// ProviderADB pulls uiautomator dumps from an Android device over adb.
	ProviderADB = "adb"
	// ProviderWS receives fragment batches pushed by a remote capture agent.
	ProviderWS = "ws"
)

// Source represents a pluggable fragment capture implementation.
type Source struct {
	provider string
	log      zerolog.Logger

	adbPath  string
	serial   string
	dumpPath string

	wsURL string
	conn  *websocket.Conn

	script [][]string
	cursor int

	mu sync.Mutex
}

// Option configures Source construction parameters.
type Option func(*Source)

const (
	defaultADBPath  = "adb"
	defaultDumpPath = "/sdcard/window_dump.xml"
)

// WithADBPath overrides the adb binary location.
func WithADBPath(path string) Option {
	return func(s *Source) {
		if path != "" {
			s.adbPath = path
		}
	}
}

// WithSerial pins capture to one device when several are attached.
func WithSerial(serial string) Option {
	return func(s *Source) {
		s.serial = strings.TrimSpace(serial)
	}
}

// WithDumpPath overrides where uiautomator writes its dump on the device.
func WithDumpPath(path string) Option {
	return func(s *Source) {
		if path != "" {
			s.dumpPath = path
		}
	}
}

// WithAgentURL points the ws provider at a remote capture agent.
func WithAgentURL(url string) Option {
	return func(s *Source) {
		s.wsURL = strings.TrimSpace(url)
	}
}

// WithScript seeds the stub provider with per-tick fragment batches; once
// the script runs out, the stub reports an empty screen.
func WithScript(batches [][]string) Option {
	return func(s *Source) {
		s.script = batches
	}
}

// NewSource constructs a source backed by the requested provider.
func NewSource(provider string, log zerolog.Logger, opts ...Option) *Source {
	if provider == "" {
		provider = ProviderStub
	}
	s := &Source{
		provider: strings.ToLower(provider),
		log:      log,
		adbPath:  defaultADBPath,
		dumpPath: defaultDumpPath,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Provider returns the configured provider name.
func (s *Source) Provider() string { return s.provider }

// Fragments returns the raw UI text for one tick. An empty batch is a valid
// observation (an empty screen); an error means the tick failed to capture.
func (s *Source) Fragments(ctx context.Context) ([]string, error) {
	switch s.provider {
	case ProviderADB:
		return s.fragmentsADB(ctx)
	case ProviderWS:
		return s.fragmentsWS(ctx)
	default:
		return s.fragmentsStub(ctx)
	}
}

func (s *Source) fragmentsStub(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cursor >= len(s.script) {
		return nil, nil
	}
	batch := s.script[s.cursor]
	s.cursor++
	out := make([]string, len(batch))
	copy(out, batch)
	return out, nil
}

// Close releases any live capture connection.
func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}
