package reconcile

import (
	"testing"

	"github.com/Mikeyaruto/MT5-Copier-bridge/internal/position"
	"github.com/Mikeyaruto/MT5-Copier-bridge/internal/signal"
)

func TestDiffEmitsOpensForNewPositions(t *testing.T) {
	rec := position.Record{Symbol: "EURUSD", Side: position.Buy, Lot: 1}
	events := Diff(position.Snapshot{}, position.Build([]position.Record{rec}))

	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Action != signal.ActionOpen || events[0].Symbol != "EURUSD" || events[0].Lot != 1 {
		t.Fatalf("unexpected event %+v", events[0])
	}
}

func TestDiffClosesCarrySymbolOnly(t *testing.T) {
	rec := position.Record{Symbol: "GBPUSD", Side: position.Sell, Lot: 2}
	events := Diff(position.Build([]position.Record{rec}), position.Snapshot{})

	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	ev := events[0]
	if ev.Action != signal.ActionClose || ev.Symbol != "GBPUSD" {
		t.Fatalf("unexpected event %+v", ev)
	}
	if ev.Side != "" || ev.Lot != 0 {
		t.Fatalf("close must drop side and lot, got %+v", ev)
	}
}

func TestDiffPerUnitCounts(t *testing.T) {
	rec := position.Record{Symbol: "EURUSD", Side: position.Buy, Lot: 1}
	prev := position.Build([]position.Record{rec})
	current := position.Build([]position.Record{rec, rec, rec})

	events := Diff(prev, current)
	if len(events) != 2 {
		t.Fatalf("expected 2 opens for 2 units of excess, got %d", len(events))
	}
	for _, ev := range events {
		if ev.Action != signal.ActionOpen {
			t.Fatalf("expected only opens, got %+v", ev)
		}
	}
}

func TestDiffCountsBalance(t *testing.T) {
	a := position.Record{Symbol: "EURUSD", Side: position.Buy, Lot: 1}
	b := position.Record{Symbol: "GBPUSD", Side: position.Sell, Lot: 2}
	c := position.Record{Symbol: "USDJPY", Side: position.Buy, Lot: 0.5}
	prev := position.Build([]position.Record{a, a, b})
	current := position.Build([]position.Record{a, c, c})

	opens, closes := 0, 0
	for _, ev := range Diff(prev, current) {
		switch ev.Action {
		case signal.ActionOpen:
			opens++
		case signal.ActionClose:
			closes++
		}
	}
	// current excess: c twice; prev excess: one a unit and b.
	if opens != 2 {
		t.Fatalf("expected 2 opens, got %d", opens)
	}
	if closes != 2 {
		t.Fatalf("expected 2 closes, got %d", closes)
	}
}

func TestDiffDeterministicOrder(t *testing.T) {
	prev := position.Build([]position.Record{
		{Symbol: "USDJPY", Side: position.Buy, Lot: 1},
		{Symbol: "AUDUSD", Side: position.Sell, Lot: 1},
	})
	current := position.Build([]position.Record{
		{Symbol: "GBPUSD", Side: position.Sell, Lot: 2},
		{Symbol: "EURUSD", Side: position.Buy, Lot: 1},
	})

	first := Diff(prev, current)
	second := Diff(prev, current)
	if len(first) != 4 || len(second) != 4 {
		t.Fatalf("expected 4 events, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("event %d differs between runs: %+v vs %+v", i, first[i], second[i])
		}
	}
	// Opens sorted by symbol, then closes sorted by symbol.
	if first[0].Symbol != "EURUSD" || first[1].Symbol != "GBPUSD" {
		t.Fatalf("unexpected open order: %+v", first[:2])
	}
	if first[2].Symbol != "AUDUSD" || first[3].Symbol != "USDJPY" {
		t.Fatalf("unexpected close order: %+v", first[2:])
	}
}

func TestDiffIdenticalSnapshotsEmitNothing(t *testing.T) {
	rec := position.Record{Symbol: "EURUSD", Side: position.Buy, Lot: 1}
	snap := position.Build([]position.Record{rec, rec})
	if events := Diff(snap, snap.Clone()); len(events) != 0 {
		t.Fatalf("expected no events, got %+v", events)
	}
}
