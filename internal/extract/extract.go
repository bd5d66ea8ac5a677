// Package extract recovers typed position records from the noisy text
// fragments scraped off the terminal UI.
package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Mikeyaruto/MT5-Copier-bridge/internal/position"
)

// ruleSet keeps the capture patterns as data, separate from the matching
// pass, so grammar tweaks never touch control flow.
type ruleSet struct {
	symbol *regexp.Regexp
	side   *regexp.Regexp
	size   *regexp.Regexp
}

// Patterns tuned to what the PU Prime position list renders.
var defaultRules = ruleSet{
	symbol: regexp.MustCompile(`\b([A-Z]{3,7}(?:USD|JPY|EUR|GBP|AUD|NZD|CHF|CAD)?)\b`),
	side:   regexp.MustCompile(`\b(BUY|SELL)\b`),
	size:   regexp.MustCompile(`(?i)(?:lot|volume|vol)?\s*[:=]?\s*(\d+(?:\.\d+)?)`),
}

// A single logical position may be spread over several adjacent UI nodes
// (symbol in one, side in another, size in a third); windowTokens bounds how
// far apart those nodes may sit in the flattened token stream.
const windowTokens = 6

var tokenSplit = regexp.MustCompile(`[\n|,;]`)

// Grammar keywords are never symbols, even though they fit the symbol shape.
var reservedWords = map[string]struct{}{
	"BUY": {}, "SELL": {}, "LOT": {}, "LOTS": {}, "VOL": {}, "VOLUME": {},
}

// Extractor turns raw fragment batches into deduplicated position records.
type Extractor struct {
	rules  ruleSet
	maxLot float64
}

// Option configures Extractor construction parameters.
type Option func(*Extractor)

// WithMaxLot discards parses whose size exceeds the cap; garbage text can
// otherwise yield absurd sizes. Zero disables the cap.
func WithMaxLot(maxLot float64) Option {
	return func(e *Extractor) {
		if maxLot > 0 {
			e.maxLot = maxLot
		}
	}
}

// New constructs an extractor with the default grammar.
func New(opts ...Option) *Extractor {
	e := &Extractor{rules: defaultRules}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Positions recovers every position record reachable from the fragment
// batch. Fragments that match nothing contribute nothing; the result is
// deduplicated by (symbol, side, lot) in first-seen order.
func (e *Extractor) Positions(fragments []string) []position.Record {
	records := make([]position.Record, 0, len(fragments))

	for _, frag := range fragments {
		if rec, ok := e.parse(frag); ok {
			records = append(records, rec)
		}
	}

	// Second pass: slide a short window over the flattened token stream to
	// recover positions whose fields are split across nearby fragments.
	tokens := splitTokens(strings.Join(fragments, "\n"))
	for i := range tokens {
		end := i + windowTokens
		if end > len(tokens) {
			end = len(tokens)
		}
		if rec, ok := e.parse(strings.Join(tokens[i:end], " ")); ok {
			records = append(records, rec)
		}
	}

	seen := make(map[position.Record]struct{}, len(records))
	unique := make([]position.Record, 0, len(records))
	for _, rec := range records {
		if _, dup := seen[rec]; dup {
			continue
		}
		seen[rec] = struct{}{}
		unique = append(unique, rec)
	}
	return unique
}

func (e *Extractor) parse(text string) (position.Record, bool) {
	upper := strings.ToUpper(text)
	symbol := e.findSymbol(upper)
	side := e.rules.side.FindStringSubmatch(upper)
	size := e.rules.size.FindStringSubmatch(text)
	if symbol == "" || side == nil || size == nil {
		return position.Record{}, false
	}

	lot, err := strconv.ParseFloat(size[1], 64)
	if err != nil || lot <= 0 {
		return position.Record{}, false
	}
	if e.maxLot > 0 && lot > e.maxLot {
		return position.Record{}, false
	}
	return position.Record{Symbol: symbol, Side: position.Side(side[1]), Lot: lot}, true
}

// findSymbol returns the first symbol-shaped token that is not a grammar
// keyword, or "" when none exists.
func (e *Extractor) findSymbol(upper string) string {
	for _, m := range e.rules.symbol.FindAllStringSubmatch(upper, -1) {
		if _, reserved := reservedWords[m[1]]; !reserved {
			return m[1]
		}
	}
	return ""
}

func splitTokens(joined string) []string {
	raw := tokenSplit.Split(joined, -1)
	tokens := make([]string, 0, len(raw))
	for _, tok := range raw {
		if tok = strings.TrimSpace(tok); tok != "" {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}
