// Package reconcile turns consecutive position snapshots into the open and
// close events the copier needs to mirror the terminal.
package reconcile

import (
	"github.com/Mikeyaruto/MT5-Copier-bridge/internal/position"
	"github.com/Mikeyaruto/MT5-Copier-bridge/internal/signal"
)

// Diff computes the per-unit multiset difference between the previous and
// current snapshots: one Open per unit of excess in current, one Close per
// unit of excess in previous. Same-shaped positions are interchangeable, so
// the diff tracks counts only. Opens come first, and each group iterates
// sorted keys so identical inputs always yield identical output.
func Diff(prev, current position.Snapshot) []signal.Event {
	var events []signal.Event

	for _, rec := range current.Keys() {
		for n := current[rec] - prev[rec]; n > 0; n-- {
			events = append(events, signal.Open(rec))
		}
	}
	for _, rec := range prev.Keys() {
		for n := prev[rec] - current[rec]; n > 0; n-- {
			events = append(events, signal.Close(rec.Symbol))
		}
	}
	return events
}
