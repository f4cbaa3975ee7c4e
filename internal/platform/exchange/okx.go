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

// OKX queries the OKX public market ticker endpoint.
type OKX struct {
	baseURL string
	client  *http.Client
}

// NewOKX creates an OKX ticker source.
func NewOKX() *OKX {
	return &OKX{
		baseURL: "https://www.okx.com",
		client:  newHTTPClient(),
	}
}

// Name identifies the exchange.
func (o *OKX) Name() string { return "okx" }

// MidPrice returns (bidPx+askPx)/2 from /api/v5/market/ticker, falling back
// to the last trade. OKX instrument IDs use a dash, e.g. "BTC-USDT".
func (o *OKX) MidPrice(ctx context.Context, symbol string) (float64, error) {
	params := url.Values{}
	params.Set("instId", strings.ReplaceAll(symbol, "/", "-"))

	var resp struct {
		Code string `json:"code"`
		Msg  string `json:"msg"`
		Data []struct {
			BidPx string `json:"bidPx"`
			AskPx string `json:"askPx"`
			Last  string `json:"last"`
		} `json:"data"`
	}
	if err := getJSON(ctx, o.client, o.baseURL+"/api/v5/market/ticker?"+params.Encode(), &resp); err != nil {
		return 0, fmt.Errorf("exchange/okx: %s: %w", symbol, err)
	}
	if resp.Code != "0" && resp.Code != "" {
		return 0, fmt.Errorf("exchange/okx: %s: api error %s: %s", symbol, resp.Code, resp.Msg)
	}
	if len(resp.Data) == 0 {
		return 0, fmt.Errorf("exchange/okx: %s: %w", symbol, domain.ErrNoPrice)
	}

	t := resp.Data[0]
	bid, _ := strconv.ParseFloat(t.BidPx, 64)
	ask, _ := strconv.ParseFloat(t.AskPx, 64)
	last, _ := strconv.ParseFloat(t.Last, 64)
	price, err := mid(bid, ask, last)
	if err != nil {
		return 0, fmt.Errorf("exchange/okx: %s: %w", symbol, err)
	}
	return price, nil
}

var _ TickerSource = (*OKX)(nil)
