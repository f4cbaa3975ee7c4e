// Package exchange provides keyless public-ticker clients for centralized
// crypto exchanges. Each client reports a mid-price ((bid+ask)/2, falling
// back to the last trade) for canonical "BASE/QUOTE" symbols.
package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/alanyoungcy/arbscan/internal/domain"
)

// TickerSource is one exchange's public price feed.
type TickerSource interface {
	Name() string
	// MidPrice returns the observed mid-price for a canonical symbol like
	// "BTC/USDT". It returns domain.ErrNoPrice when the exchange responds
	// without a usable price.
	MidPrice(ctx context.Context, symbol string) (float64, error)
}

// knownSources maps config names to constructors.
var knownSources = map[string]func() TickerSource{
	"binance": func() TickerSource { return NewBinance() },
	"kraken":  func() TickerSource { return NewKraken() },
	"okx":     func() TickerSource { return NewOKX() },
	"kucoin":  func() TickerSource { return NewKuCoin() },
}

// Build returns ticker sources for the named exchanges, skipping unknown
// names with an error listing them.
func Build(names []string) ([]TickerSource, error) {
	sources := make([]TickerSource, 0, len(names))
	var unknown []string
	for _, name := range names {
		ctor, ok := knownSources[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		sources = append(sources, ctor())
	}
	if len(unknown) > 0 {
		return sources, fmt.Errorf("exchange: unknown source(s): %s", strings.Join(unknown, ", "))
	}
	return sources, nil
}

// mid computes the mid-price, preferring (bid+ask)/2 and falling back to the
// last trade price.
func mid(bid, ask, last float64) (float64, error) {
	if bid > 0 && ask > 0 {
		return (bid + ask) / 2, nil
	}
	if last > 0 {
		return last, nil
	}
	return 0, domain.ErrNoPrice
}

// getJSON issues a GET and decodes the JSON response into v.
func getJSON(ctx context.Context, client *http.Client, fullURL string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(snippet))
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// newHTTPClient returns the default client used by all sources.
func newHTTPClient() *http.Client {
	return &http.Client{Timeout: 10 * time.Second}
}
