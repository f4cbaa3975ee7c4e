package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/alanyoungcy/arbscan/internal/domain"
)

// QuoteCache implements domain.QuoteCache with one JSON blob per provider
// under "markets:{source}", expiring via the Redis TTL.
type QuoteCache struct {
	rdb *redis.Client
}

// NewQuoteCache creates a QuoteCache backed by the given Client.
func NewQuoteCache(c *Client) *QuoteCache {
	return &QuoteCache{rdb: c.Underlying()}
}

func recordsKey(source string) string {
	return "markets:" + source
}

// GetRecords returns the cached provider listing, or domain.ErrNotFound when
// the key is missing or expired.
func (qc *QuoteCache) GetRecords(ctx context.Context, source string) ([]domain.RawRecord, error) {
	data, err := qc.rdb.Get(ctx, recordsKey(source)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis: get records %s: %w", source, err)
	}

	var records []domain.RawRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("redis: decode records %s: %w", source, err)
	}
	return records, nil
}

// SetRecords stores the provider listing with the given TTL.
func (qc *QuoteCache) SetRecords(ctx context.Context, source string, records []domain.RawRecord, ttl time.Duration) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("redis: encode records %s: %w", source, err)
	}
	if err := qc.rdb.Set(ctx, recordsKey(source), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis: set records %s: %w", source, err)
	}
	return nil
}

// Compile-time interface check.
var _ domain.QuoteCache = (*QuoteCache)(nil)
