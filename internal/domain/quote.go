package domain

// RawRecord is one market object as decoded from a provider's JSON response,
// before any normalization. Providers disagree on field names, types (numbers
// arrive as strings on Gamma), and nesting, so the raw shape stays untyped
// and a normalize.SourceFormat extracts the canonical fields from it.
type RawRecord map[string]any

// CanonicalQuote is the normalized price/liquidity record for one instrument,
// independent of which provider or exchange produced it. It is immutable once
// produced by the normalizer.
type CanonicalQuote struct {
	InstrumentID string
	// OutcomeA is the price of the first outcome in [0,1] for binary
	// prediction markets, or the raw price for spot pairs.
	OutcomeA float64
	// OutcomeB is the price of the second outcome. HasOutcomeB is false for
	// spot pairs, which carry a single price.
	OutcomeB     float64
	HasOutcomeB  bool
	Liquidity    float64
	Volume       float64
	Label        string
	ReferenceURL string
}

// Total returns the combined outcome price. Only meaningful when HasOutcomeB
// is true.
func (q CanonicalQuote) Total() float64 {
	return q.OutcomeA + q.OutcomeB
}
