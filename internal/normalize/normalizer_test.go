package normalize

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/arbscan/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNormalize_GammaRecord(t *testing.T) {
	n := NewNormalizer(testLogger())

	rec := domain.RawRecord{
		"id":            "12345",
		"question":      "Will it rain tomorrow?",
		"outcomePrices": `["0.45","0.55"]`,
		"liquidity":     "2500.50",
		"volume":        "10000",
		"slug":          "will-it-rain-tomorrow",
	}

	q, ok := n.Normalize(rec, GammaFormat{})
	require.True(t, ok)

	assert.Equal(t, "12345", q.InstrumentID)
	assert.Equal(t, "Will it rain tomorrow?", q.Label)
	assert.Equal(t, 0.45, q.OutcomeA)
	assert.Equal(t, 0.55, q.OutcomeB)
	assert.True(t, q.HasOutcomeB)
	assert.Equal(t, 2500.50, q.Liquidity)
	assert.Equal(t, 10000.0, q.Volume)
	assert.Equal(t, "https://polymarket.com/event/will-it-rain-tomorrow", q.ReferenceURL)
	assert.InDelta(t, 1.0, q.Total(), 1e-9)
}

func TestNormalize_GammaNumericFields(t *testing.T) {
	n := NewNormalizer(testLogger())

	// Gamma sometimes sends numbers instead of numeric strings.
	rec := domain.RawRecord{
		"id":            float64(987),
		"question":      "Numeric market",
		"outcomePrices": `["0.30","0.72"]`,
		"liquidity":     float64(1500),
		"volume":        float64(200),
	}

	q, ok := n.Normalize(rec, GammaFormat{})
	require.True(t, ok)
	assert.Equal(t, "987", q.InstrumentID)
	assert.Equal(t, 1500.0, q.Liquidity)
	assert.Empty(t, q.ReferenceURL)
}

func TestNormalize_ClobRecord(t *testing.T) {
	n := NewNormalizer(testLogger())

	rec := domain.RawRecord{
		"condition_id": "0xabc",
		"question":     "Will the game go to overtime?",
		"market_slug":  "overtime-game",
		"tokens": []any{
			map[string]any{"outcome": "Yes", "price": 0.4},
			map[string]any{"outcome": "No", "price": 0.58},
		},
	}

	q, ok := n.Normalize(rec, ClobFormat{})
	require.True(t, ok)
	assert.Equal(t, "0xabc", q.InstrumentID)
	assert.Equal(t, 0.4, q.OutcomeA)
	assert.Equal(t, 0.58, q.OutcomeB)
	assert.Equal(t, "https://polymarket.com/event/overtime-game", q.ReferenceURL)
}

func TestNormalize_DropsUnlabeledRecord(t *testing.T) {
	n := NewNormalizer(testLogger())

	_, ok := n.Normalize(domain.RawRecord{
		"id":            "1",
		"outcomePrices": `["0.45","0.55"]`,
	}, GammaFormat{})
	assert.False(t, ok)
}

func TestNormalize_NeutralDefaultsForMissingPrices(t *testing.T) {
	n := NewNormalizer(testLogger())

	q, ok := n.Normalize(domain.RawRecord{
		"id":       "1",
		"question": "Broken market",
	}, GammaFormat{})
	require.True(t, ok)
	assert.Equal(t, 0.5, q.OutcomeA)
	assert.Equal(t, 0.5, q.OutcomeB)
	assert.True(t, q.HasOutcomeB)
}

func TestNormalize_MalformedPricesDegrade(t *testing.T) {
	n := NewNormalizer(testLogger())

	for _, raw := range []string{`not json`, `["0.45"]`, `["x","y"]`, ``} {
		q, ok := n.Normalize(domain.RawRecord{
			"id":            "1",
			"question":      "Broken prices",
			"outcomePrices": raw,
		}, GammaFormat{})
		require.True(t, ok, "raw=%q", raw)
		assert.Equal(t, 0.5, q.OutcomeA, "raw=%q", raw)
		assert.Equal(t, 0.5, q.OutcomeB, "raw=%q", raw)
	}
}

func TestNormalize_ClampsNegativeLiquidity(t *testing.T) {
	n := NewNormalizer(testLogger())

	q, ok := n.Normalize(domain.RawRecord{
		"id":            "1",
		"question":      "Weird liquidity",
		"outcomePrices": `["0.45","0.55"]`,
		"liquidity":     "-50",
		"volume":        "-10",
	}, GammaFormat{})
	require.True(t, ok)
	assert.Equal(t, 0.0, q.Liquidity)
	assert.Equal(t, 0.0, q.Volume)
}

func TestNormalizeAll_KeepsInputOrder(t *testing.T) {
	n := NewNormalizer(testLogger())

	recs := []domain.RawRecord{
		{"id": "1", "question": "First", "outcomePrices": `["0.45","0.55"]`},
		{"id": "2", "outcomePrices": `["0.45","0.55"]`}, // dropped
		{"id": "3", "question": "Third", "outcomePrices": `["0.30","0.60"]`},
	}

	quotes := n.NormalizeAll(recs, GammaFormat{})
	require.Len(t, quotes, 2)
	assert.Equal(t, "First", quotes[0].Label)
	assert.Equal(t, "Third", quotes[1].Label)
}
