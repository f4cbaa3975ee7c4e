// Package normalize converts provider-specific raw market records into
// canonical quotes. Each provider format implements SourceFormat; adding a
// provider means adding one implementation, never touching classification.
package normalize

import (
	"encoding/json"
	"strconv"

	"github.com/alanyoungcy/arbscan/internal/domain"
)

// SourceFormat extracts the canonical fields from one provider's raw record
// shape. Extractors must tolerate missing or malformed fields: Prices reports
// ok=false instead of failing, Label returns "" when no identifiable label
// exists, and Liquidity returns zeros.
type SourceFormat interface {
	// Name identifies the format (e.g. "gamma", "clob").
	Name() string
	// Label returns the human-readable instrument label, or "" when the
	// record carries none.
	Label(rec domain.RawRecord) string
	// InstrumentID returns the provider's identifier for the record.
	InstrumentID(rec domain.RawRecord) string
	// Prices returns both outcome prices. ok is false when the record does
	// not carry a usable price pair.
	Prices(rec domain.RawRecord) (outA, outB float64, ok bool)
	// Liquidity returns the liquidity and volume figures, zero when absent.
	Liquidity(rec domain.RawRecord) (liquidity, volume float64)
	// URL returns a reference link for the instrument, or "".
	URL(rec domain.RawRecord) string
}

// ---------------------------------------------------------------------------
// Field helpers shared by format implementations. Provider APIs are loose
// about types: the same field may arrive as a JSON number, a numeric string,
// or be absent.
// ---------------------------------------------------------------------------

// str returns the string value of a field, or "".
func str(rec domain.RawRecord, key string) string {
	if v, ok := rec[key].(string); ok {
		return v
	}
	return ""
}

// num returns the numeric value of a field, accepting JSON numbers and
// numeric strings. ok is false when the field is absent or unparseable.
func num(rec domain.RawRecord, key string) (float64, bool) {
	switch v := rec[key].(type) {
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// numOr returns the numeric value of a field, or fallback when missing.
func numOr(rec domain.RawRecord, key string, fallback float64) float64 {
	if f, ok := num(rec, key); ok {
		return f
	}
	return fallback
}
