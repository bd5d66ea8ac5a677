package publish

import (
	"sync"

	"github.com/Mikeyaruto/MT5-Copier-bridge/internal/signal"
)

// Memory records published events in memory for quick inspection; the probe
// binary and tests use it in place of the file bridge.
type Memory struct {
	mu     sync.Mutex
	events []signal.Event
}

// NewMemory creates an empty in-memory bridge optionally pre-sizing storage.
func NewMemory(capacity int) *Memory {
	if capacity < 0 {
		capacity = 0
	}
	return &Memory{events: make([]signal.Event, 0, capacity)}
}

// Publish appends the event to the in-memory log.
func (m *Memory) Publish(ev signal.Event) error {
	m.mu.Lock()
	m.events = append(m.events, ev)
	m.mu.Unlock()
	return nil
}

// Snapshot returns a copy of the recorded events.
func (m *Memory) Snapshot() []signal.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]signal.Event, len(m.events))
	copy(out, m.events)
	return out
}

// Reset clears all recorded events.
func (m *Memory) Reset() {
	m.mu.Lock()
	m.events = m.events[:0]
	m.mu.Unlock()
}
