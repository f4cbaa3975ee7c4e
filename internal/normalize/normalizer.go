package normalize

import (
	"log/slog"

	"github.com/alanyoungcy/arbscan/internal/domain"
)

// neutralPrice substitutes for a missing or malformed outcome price so a
// record with partial data still normalizes instead of aborting the scan.
const neutralPrice = 0.5

// Normalizer converts raw provider records into canonical quotes. It never
// fails: malformed fields degrade to neutral defaults with a warning, and
// only a record without any identifiable label is dropped.
type Normalizer struct {
	logger *slog.Logger
}

// NewNormalizer creates a Normalizer.
func NewNormalizer(logger *slog.Logger) *Normalizer {
	return &Normalizer{logger: logger.With(slog.String("component", "normalizer"))}
}

// Normalize produces zero or one CanonicalQuote from a raw record using the
// given source format. ok is false when the record was dropped.
func (n *Normalizer) Normalize(rec domain.RawRecord, format SourceFormat) (domain.CanonicalQuote, bool) {
	label := format.Label(rec)
	if label == "" {
		// No identifiable instrument: nothing meaningful to classify.
		return domain.CanonicalQuote{}, false
	}

	quote := domain.CanonicalQuote{
		InstrumentID: format.InstrumentID(rec),
		Label:        label,
		ReferenceURL: format.URL(rec),
		HasOutcomeB:  true,
	}

	a, b, ok := format.Prices(rec)
	if !ok {
		n.logger.Warn("record missing prices, using neutral defaults",
			slog.String("format", format.Name()),
			slog.String("label", label),
		)
		a, b = neutralPrice, neutralPrice
	}
	quote.OutcomeA = a
	quote.OutcomeB = b

	quote.Liquidity, quote.Volume = format.Liquidity(rec)
	if quote.Liquidity < 0 {
		quote.Liquidity = 0
	}
	if quote.Volume < 0 {
		quote.Volume = 0
	}

	return quote, true
}

// NormalizeAll maps a record list through Normalize, keeping the surviving
// quotes in input order.
func (n *Normalizer) NormalizeAll(recs []domain.RawRecord, format SourceFormat) []domain.CanonicalQuote {
	quotes := make([]domain.CanonicalQuote, 0, len(recs))
	for _, rec := range recs {
		if q, ok := n.Normalize(rec, format); ok {
			quotes = append(quotes, q)
		}
	}
	return quotes
}
