package export

import (
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/arbscan/internal/domain"
)

func sampleOpps() []domain.Opportunity {
	return []domain.Opportunity{
		{
			ID:         "1",
			Kind:       domain.OpportunitySureWin,
			Instrument: "Will it rain tomorrow?",
			Strategy:   "Buy both outcomes",
			Prices: []domain.PricePoint{
				{Source: "outcome_a", Price: 0.45},
				{Source: "outcome_b", Price: 0.47},
			},
			Investment:     100,
			ExpectedProfit: 6.38,
			ProfitPct:      6.38,
			Risk:           domain.RiskNone,
			ReferenceURL:   "https://polymarket.com/event/rain",
		},
		{
			ID:         "2",
			Kind:       domain.OpportunityCrossExchangeSpread,
			Instrument: "BTC/USDT",
			Strategy:   "Buy on binance, sell on kraken",
			Prices: []domain.PricePoint{
				{Source: "binance", Price: 100},
				{Source: "kraken", Price: 101.5},
			},
			Investment:     100,
			ExpectedProfit: 1.5,
			ProfitPct:      1.5,
			Risk:           domain.RiskLow,
			BuySource:      "binance",
			SellSource:     "kraken",
		},
	}
}

func TestCSV_ColumnsAndRows(t *testing.T) {
	data, err := CSV(sampleOpps())
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{
		"type", "instrument", "strategy", "prices", "investment",
		"profit", "profit_percentage", "risk", "url",
	}, rows[0])

	assert.Equal(t, "sure_win", rows[1][0])
	assert.Equal(t, "Will it rain tomorrow?", rows[1][1])
	assert.Equal(t, "outcome_a=0.4500 outcome_b=0.4700", rows[1][3])
	assert.Equal(t, "100.00", rows[1][4])
	assert.Equal(t, "6.38", rows[1][6])
	assert.Equal(t, "none", rows[1][7])
	assert.Equal(t, "https://polymarket.com/event/rain", rows[1][8])

	assert.Equal(t, "cross_exchange_spread", rows[2][0])
	assert.Equal(t, "binance=100.0000 kraken=101.5000", rows[2][3])
}

func TestCSV_EmptyListHasHeaderOnly(t *testing.T) {
	data, err := CSV(nil)
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestJSON_RoundTrip(t *testing.T) {
	data, err := JSON(sampleOpps())
	require.NoError(t, err)

	var decoded []domain.Opportunity
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, domain.OpportunitySureWin, decoded[0].Kind)
	assert.Equal(t, "binance", decoded[1].BuySource)
}

func TestJSON_NilBecomesEmptyArray(t *testing.T) {
	data, err := JSON(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}
