package normalize

import (
	"github.com/alanyoungcy/arbscan/internal/domain"
)

// ClobFormat extracts fields from Polymarket CLOB API market records, which
// carry an order-book style "tokens" list with per-outcome price fields.
type ClobFormat struct {
	SiteURL string
}

// Name identifies the format.
func (ClobFormat) Name() string { return "clob" }

// Label returns the market question.
func (ClobFormat) Label(rec domain.RawRecord) string {
	return str(rec, "question")
}

// InstrumentID returns the CLOB condition ID.
func (ClobFormat) InstrumentID(rec domain.RawRecord) string {
	return str(rec, "condition_id")
}

// Prices reads the first two token price fields from the tokens list.
func (ClobFormat) Prices(rec domain.RawRecord) (float64, float64, bool) {
	tokens, ok := rec["tokens"].([]any)
	if !ok || len(tokens) < 2 {
		return 0, 0, false
	}
	a, okA := tokenPrice(tokens[0])
	b, okB := tokenPrice(tokens[1])
	if !okA || !okB {
		return 0, 0, false
	}
	return a, b, true
}

// Liquidity returns the liquidity and volume fields, zero when absent.
func (ClobFormat) Liquidity(rec domain.RawRecord) (float64, float64) {
	return numOr(rec, "liquidity", 0), numOr(rec, "volume", 0)
}

// URL builds the public market page link from the market slug.
func (f ClobFormat) URL(rec domain.RawRecord) string {
	slug := str(rec, "market_slug")
	if slug == "" {
		slug = str(rec, "slug")
	}
	if slug == "" {
		return ""
	}
	root := f.SiteURL
	if root == "" {
		root = "https://polymarket.com"
	}
	return root + "/event/" + slug
}

// tokenPrice reads the "price" field from one tokens-list entry.
func tokenPrice(tok any) (float64, bool) {
	m, ok := tok.(map[string]any)
	if !ok {
		return 0, false
	}
	return num(domain.RawRecord(m), "price")
}

var _ SourceFormat = ClobFormat{}
