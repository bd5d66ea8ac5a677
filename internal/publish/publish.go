// Package publish delivers signal events to the external copier.
package publish

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Mikeyaruto/MT5-Copier-bridge/internal/signal"
)

// Bridge exposes one event at a time to an external reader.
type Bridge interface {
	Publish(signal.Event) error
}

// FileBridge writes each event as compact JSON to a fixed path. The write
// lands on a temp file first and is swapped in with a rename, so a reader
// polling the path never sees a partial record. The path holds exactly one
// record; consumers must poll faster than transitions occur.
type FileBridge struct {
	path string
}

// NewFileBridge creates the parent directory if needed and returns a bridge
// targeting path.
func NewFileBridge(path string) (*FileBridge, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create signal dir: %w", err)
	}
	return &FileBridge{path: path}, nil
}

// Path returns the destination the bridge replaces on each publish.
func (b *FileBridge) Path() string { return b.path }

// Publish atomically replaces the destination with the encoded event. On
// error the destination is untouched and the event counts as undelivered.
func (b *FileBridge) Publish(ev signal.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode signal: %w", err)
	}
	tmp := b.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return fmt.Errorf("write signal: %w", err)
	}
	if err := os.Rename(tmp, b.path); err != nil {
		return fmt.Errorf("replace signal: %w", err)
	}
	return nil
}
