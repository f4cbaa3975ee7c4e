package exchange

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Binance queries the Binance spot book-ticker endpoint.
type Binance struct {
	baseURL string
	client  *http.Client
}

// NewBinance creates a Binance ticker source on the public spot API.
func NewBinance() *Binance {
	return &Binance{
		baseURL: "https://api.binance.com",
		client:  newHTTPClient(),
	}
}

// Name identifies the exchange.
func (b *Binance) Name() string { return "binance" }

// MidPrice returns (bestBid+bestAsk)/2 from /api/v3/ticker/bookTicker.
func (b *Binance) MidPrice(ctx context.Context, symbol string) (float64, error) {
	params := url.Values{}
	params.Set("symbol", strings.ReplaceAll(symbol, "/", ""))

	var ticker struct {
		BidPrice string `json:"bidPrice"`
		AskPrice string `json:"askPrice"`
	}
	if err := getJSON(ctx, b.client, b.baseURL+"/api/v3/ticker/bookTicker?"+params.Encode(), &ticker); err != nil {
		return 0, fmt.Errorf("exchange/binance: %s: %w", symbol, err)
	}

	bid, _ := strconv.ParseFloat(ticker.BidPrice, 64)
	ask, _ := strconv.ParseFloat(ticker.AskPrice, 64)
	price, err := mid(bid, ask, 0)
	if err != nil {
		return 0, fmt.Errorf("exchange/binance: %s: %w", symbol, err)
	}
	return price, nil
}

var _ TickerSource = (*Binance)(nil)
