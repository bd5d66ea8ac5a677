package publish

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/Mikeyaruto/MT5-Copier-bridge/internal/position"
	"github.com/Mikeyaruto/MT5-Copier-bridge/internal/signal"
)

func TestFileBridgeWritesCompactJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bridge", "signal.json")
	b, err := NewFileBridge(path)
	if err != nil {
		t.Fatalf("NewFileBridge error: %v", err)
	}

	ev := signal.Open(position.Record{Symbol: "EURUSD", Side: position.Buy, Lot: 1})
	if err := b.Publish(ev); err != nil {
		t.Fatalf("Publish error: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read signal file: %v", err)
	}
	if string(raw) != `{"action":"OPEN","symbol":"EURUSD","side":"BUY","lot":1}` {
		t.Fatalf("unexpected payload: %s", raw)
	}
}

func TestFileBridgeReplacesPreviousRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "signal.json")
	b, err := NewFileBridge(path)
	if err != nil {
		t.Fatalf("NewFileBridge error: %v", err)
	}

	if err := b.Publish(signal.Open(position.Record{Symbol: "EURUSD", Side: position.Buy, Lot: 1})); err != nil {
		t.Fatalf("Publish error: %v", err)
	}
	if err := b.Publish(signal.Close("EURUSD")); err != nil {
		t.Fatalf("Publish error: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read signal file: %v", err)
	}
	var decoded signal.Event
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("signal file must always hold valid JSON: %v", err)
	}
	if decoded.Action != signal.ActionClose || decoded.Symbol != "EURUSD" {
		t.Fatalf("expected latest event only, got %+v", decoded)
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file must not survive a publish")
	}
}

func TestMemoryRecordsAndResets(t *testing.T) {
	mem := NewMemory(2)
	if err := mem.Publish(signal.Close("EURUSD")); err != nil {
		t.Fatalf("Publish error: %v", err)
	}

	events := mem.Snapshot()
	if len(events) != 1 || events[0].Symbol != "EURUSD" {
		t.Fatalf("unexpected snapshot %+v", events)
	}

	mem.Reset()
	if len(mem.Snapshot()) != 0 {
		t.Fatalf("expected reset to clear events")
	}
}
