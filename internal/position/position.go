// Package position defines the canonical open-position value and the
// per-tick multiset snapshot built from it.
package position

import "sort"

// Side enumerates position directions as rendered by the terminal.
type Side string

const (
	// Buy indicates a long position.
	Buy Side = "BUY"
	// Sell indicates a short position.
	Sell Side = "SELL"
)

// Record is one open position recovered from the terminal UI. Records are
// plain comparable values; equality covers all three fields.
type Record struct {
	Symbol string
	Side   Side
	Lot    float64
}

// Snapshot counts identical open positions observed in a single polling
// cycle. The zero value is an empty snapshot.
type Snapshot map[Record]int

// Build aggregates extracted records into a multiset snapshot.
func Build(records []Record) Snapshot {
	snap := make(Snapshot, len(records))
	for _, rec := range records {
		snap[rec]++
	}
	return snap
}

// Keys returns the distinct records sorted by symbol, side, then lot so
// callers iterating a snapshot produce reproducible output.
func (s Snapshot) Keys() []Record {
	keys := make([]Record, 0, len(s))
	for rec := range s {
		keys = append(keys, rec)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Symbol != keys[j].Symbol {
			return keys[i].Symbol < keys[j].Symbol
		}
		if keys[i].Side != keys[j].Side {
			return keys[i].Side < keys[j].Side
		}
		return keys[i].Lot < keys[j].Lot
	})
	return keys
}

// Units returns the total number of open position units in the snapshot.
func (s Snapshot) Units() int {
	total := 0
	for _, count := range s {
		total += count
	}
	return total
}

// Clone returns an independent copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	out := make(Snapshot, len(s))
	for rec, count := range s {
		out[rec] = count
	}
	return out
}
