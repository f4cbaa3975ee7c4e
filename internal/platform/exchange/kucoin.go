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

// KuCoin queries the KuCoin level-1 order book endpoint.
type KuCoin struct {
	baseURL string
	client  *http.Client
}

// NewKuCoin creates a KuCoin ticker source.
func NewKuCoin() *KuCoin {
	return &KuCoin{
		baseURL: "https://api.kucoin.com",
		client:  newHTTPClient(),
	}
}

// Name identifies the exchange.
func (k *KuCoin) Name() string { return "kucoin" }

// MidPrice returns (bestBid+bestAsk)/2 from /api/v1/market/orderbook/level1,
// falling back to the last price. KuCoin symbols use a dash, e.g. "BTC-USDT".
func (k *KuCoin) MidPrice(ctx context.Context, symbol string) (float64, error) {
	params := url.Values{}
	params.Set("symbol", strings.ReplaceAll(symbol, "/", "-"))

	var resp struct {
		Code string `json:"code"`
		Data *struct {
			BestBid string `json:"bestBid"`
			BestAsk string `json:"bestAsk"`
			Price   string `json:"price"`
		} `json:"data"`
	}
	if err := getJSON(ctx, k.client, k.baseURL+"/api/v1/market/orderbook/level1?"+params.Encode(), &resp); err != nil {
		return 0, fmt.Errorf("exchange/kucoin: %s: %w", symbol, err)
	}
	if resp.Data == nil {
		return 0, fmt.Errorf("exchange/kucoin: %s: %w", symbol, domain.ErrNoPrice)
	}

	bid, _ := strconv.ParseFloat(resp.Data.BestBid, 64)
	ask, _ := strconv.ParseFloat(resp.Data.BestAsk, 64)
	last, _ := strconv.ParseFloat(resp.Data.Price, 64)
	price, err := mid(bid, ask, last)
	if err != nil {
		return 0, fmt.Errorf("exchange/kucoin: %s: %w", symbol, err)
	}
	return price, nil
}

var _ TickerSource = (*KuCoin)(nil)
