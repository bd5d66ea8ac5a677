// Package signal standardizes the event payloads shared between the
// reconcile and publish layers.
package signal

import (
	"strconv"

	"github.com/Mikeyaruto/MT5-Copier-bridge/internal/position"
)

// Action enumerates the state transitions the bridge reports downstream.
type Action string

const (
	// ActionOpen reports a newly observed position.
	ActionOpen Action = "OPEN"
	// ActionClose reports a position that disappeared from the terminal.
	ActionClose Action = "CLOSE"
)

// Event is one unit of position delta. Close events carry the symbol only;
// the copier tracks open trades per symbol and needs nothing more.
type Event struct {
	Action Action        `json:"action"`
	Symbol string        `json:"symbol"`
	Side   position.Side `json:"side,omitempty"`
	Lot    float64       `json:"lot,omitempty"`
}

// Open builds the event announcing one unit of rec appearing.
func Open(rec position.Record) Event {
	return Event{Action: ActionOpen, Symbol: rec.Symbol, Side: rec.Side, Lot: rec.Lot}
}

// Close builds the event announcing one unit in symbol disappearing.
func Close(symbol string) Event {
	return Event{Action: ActionClose, Symbol: symbol}
}

// Signature returns a canonical key over the event fields. Two events with
// identical fields always share a signature, independent of how they were
// constructed.
func (e Event) Signature() string {
	return string(e.Action) + "|" + e.Symbol + "|" + string(e.Side) + "|" +
		strconv.FormatFloat(e.Lot, 'f', -1, 64)
}
