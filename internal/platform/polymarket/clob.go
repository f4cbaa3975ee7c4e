package polymarket

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/alanyoungcy/arbscan/internal/domain"
)

// ClobClient is the REST client for the Polymarket CLOB API market listings.
// No authentication is needed for public market data.
type ClobClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewClobClient creates a CLOB API client.
//
// baseURL is the CLOB API root, e.g. "https://clob.polymarket.com".
func NewClobClient(baseURL string) *ClobClient {
	return &ClobClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Name identifies the provider.
func (c *ClobClient) Name() string { return "clob" }

// ListMarkets returns active, open markets as raw records. The endpoint has
// served both a bare array and a paginated {"data": [...]} envelope, so both
// shapes decode.
func (c *ClobClient) ListMarkets(ctx context.Context) ([]domain.RawRecord, error) {
	body, err := doGet(ctx, c.httpClient, c.baseURL+"/markets")
	if err != nil {
		return nil, fmt.Errorf("polymarket/clob: list markets: %w", err)
	}

	var records []domain.RawRecord
	if err := json.Unmarshal(body, &records); err != nil {
		var envelope struct {
			Data []domain.RawRecord `json:"data"`
		}
		if envErr := json.Unmarshal(body, &envelope); envErr != nil {
			return nil, fmt.Errorf("polymarket/clob: decode markets: %w", err)
		}
		records = envelope.Data
	}

	active := make([]domain.RawRecord, 0, len(records))
	for _, rec := range records {
		if isActive(rec) {
			active = append(active, rec)
		}
	}
	return active, nil
}

// isActive filters for open markets; the API sends booleans, but tolerate
// "true"/"false" strings the way Gamma sometimes does.
func isActive(rec domain.RawRecord) bool {
	return truthy(rec["active"]) && !truthy(rec["closed"])
}

func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t == "true" || t == "1"
	}
	return false
}
