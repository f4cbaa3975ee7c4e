package exchange

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/alanyoungcy/arbscan/internal/domain"
)

// Kraken queries the Kraken public Ticker endpoint.
type Kraken struct {
	baseURL string
	client  *http.Client
}

// NewKraken creates a Kraken ticker source.
func NewKraken() *Kraken {
	return &Kraken{
		baseURL: "https://api.kraken.com",
		client:  newHTTPClient(),
	}
}

// Name identifies the exchange.
func (k *Kraken) Name() string { return "kraken" }

// krakenTicker is one pair entry in the Ticker result map. Kraken encodes
// bid/ask/last as string arrays: b[0] best bid, a[0] best ask, c[0] last.
type krakenTicker struct {
	Ask  []string `json:"a"`
	Bid  []string `json:"b"`
	Last []string `json:"c"`
}

// MidPrice returns (b+a)/2 from /0/public/Ticker, falling back to the last
// trade. Kraken keys the result map by its own pair alias, so the single
// entry is taken regardless of key.
func (k *Kraken) MidPrice(ctx context.Context, symbol string) (float64, error) {
	params := url.Values{}
	params.Set("pair", strings.ReplaceAll(symbol, "/", ""))

	var resp struct {
		Error  []string                `json:"error"`
		Result map[string]krakenTicker `json:"result"`
	}
	if err := getJSON(ctx, k.client, k.baseURL+"/0/public/Ticker?"+params.Encode(), &resp); err != nil {
		return 0, fmt.Errorf("exchange/kraken: %s: %w", symbol, err)
	}
	if len(resp.Error) > 0 {
		return 0, fmt.Errorf("exchange/kraken: %s: api error: %s", symbol, strings.Join(resp.Error, "; "))
	}

	for _, t := range resp.Result {
		bid := first(t.Bid)
		ask := first(t.Ask)
		last := first(t.Last)
		price, err := mid(bid, ask, last)
		if err != nil {
			return 0, fmt.Errorf("exchange/kraken: %s: %w", symbol, err)
		}
		return price, nil
	}
	return 0, fmt.Errorf("exchange/kraken: %s: %w", symbol, domain.ErrNoPrice)
}

// first parses the leading element of a Kraken string array, 0 when absent.
func first(vals []string) float64 {
	if len(vals) == 0 {
		return 0
	}
	f, _ := strconv.ParseFloat(vals[0], 64)
	return f
}

var _ TickerSource = (*Kraken)(nil)
