package normalize

import (
	"encoding/json"
	"strconv"

	"github.com/alanyoungcy/arbscan/internal/domain"
)

// GammaFormat extracts fields from Polymarket Gamma API market records. The
// Gamma API JSON-encodes the outcome price array inside a string field, e.g.
// "outcomePrices": "[\"0.45\",\"0.55\"]", and sends liquidity/volume as
// numeric strings.
type GammaFormat struct {
	// SiteURL is the public market page root used to build reference links,
	// e.g. "https://polymarket.com".
	SiteURL string
}

// Name identifies the format.
func (GammaFormat) Name() string { return "gamma" }

// Label returns the market question.
func (GammaFormat) Label(rec domain.RawRecord) string {
	return str(rec, "question")
}

// InstrumentID returns the Gamma market ID.
func (GammaFormat) InstrumentID(rec domain.RawRecord) string {
	if id := str(rec, "id"); id != "" {
		return id
	}
	if f, ok := num(rec, "id"); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return ""
}

// Prices decodes the JSON-encoded outcomePrices string array.
func (GammaFormat) Prices(rec domain.RawRecord) (float64, float64, bool) {
	raw, ok := rec["outcomePrices"].(string)
	if !ok || raw == "" {
		return 0, 0, false
	}
	var prices []string
	if err := json.Unmarshal([]byte(raw), &prices); err != nil || len(prices) < 2 {
		return 0, 0, false
	}
	a, errA := strconv.ParseFloat(prices[0], 64)
	b, errB := strconv.ParseFloat(prices[1], 64)
	if errA != nil || errB != nil {
		return 0, 0, false
	}
	return a, b, true
}

// Liquidity returns the liquidity and volume fields, zero when absent.
func (GammaFormat) Liquidity(rec domain.RawRecord) (float64, float64) {
	return numOr(rec, "liquidity", 0), numOr(rec, "volume", 0)
}

// URL builds the public market page link from the slug.
func (f GammaFormat) URL(rec domain.RawRecord) string {
	slug := str(rec, "slug")
	if slug == "" {
		return ""
	}
	root := f.SiteURL
	if root == "" {
		root = "https://polymarket.com"
	}
	return root + "/event/" + slug
}

var _ SourceFormat = GammaFormat{}
