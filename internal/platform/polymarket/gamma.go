// Package polymarket provides unauthenticated REST clients for the two
// Polymarket market-data APIs: Gamma (market discovery and metadata) and the
// CLOB (order-book style market listings). Both return raw records; field
// extraction lives in the normalize package.
package polymarket

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/alanyoungcy/arbscan/internal/domain"
)

// GammaClient is the REST client for the Polymarket Gamma API.
type GammaClient struct {
	baseURL    string
	limit      int
	httpClient *http.Client
}

// NewGammaClient creates a Gamma API client.
//
// baseURL is the Gamma API root, e.g. "https://gamma-api.polymarket.com".
// limit caps the number of markets fetched per scan.
func NewGammaClient(baseURL string, limit int) *GammaClient {
	if limit <= 0 {
		limit = 50
	}
	return &GammaClient{
		baseURL: baseURL,
		limit:   limit,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Name identifies the provider.
func (g *GammaClient) Name() string { return "gamma" }

// ListMarkets returns active, open markets as raw records.
func (g *GammaClient) ListMarkets(ctx context.Context) ([]domain.RawRecord, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(g.limit))
	params.Set("active", "true")
	params.Set("closed", "false")

	body, err := doGet(ctx, g.httpClient, g.baseURL+"/markets?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("polymarket/gamma: list markets: %w", err)
	}

	var records []domain.RawRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("polymarket/gamma: decode markets: %w", err)
	}
	return records, nil
}

// --------------------------------------------------------------------------
// Internal helpers shared with the CLOB client
// --------------------------------------------------------------------------

// doGet sends an unauthenticated GET request and returns the response body.
func doGet(ctx context.Context, client *http.Client, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if err := checkHTTPStatus(resp.StatusCode, body); err != nil {
		return nil, err
	}
	return body, nil
}

// checkHTTPStatus converts non-2xx responses into errors carrying a bounded
// slice of the body for diagnostics.
func checkHTTPStatus(statusCode int, body []byte) error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}
	snippet := body
	if len(snippet) > 512 {
		snippet = snippet[:512]
	}
	if statusCode == http.StatusNotFound {
		return fmt.Errorf("%w: status %d", domain.ErrNotFound, statusCode)
	}
	return fmt.Errorf("unexpected status %d: %s", statusCode, string(snippet))
}
