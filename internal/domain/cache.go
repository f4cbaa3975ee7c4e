package domain

import (
	"context"
	"time"
)

// QuoteCache stores raw provider market listings so repeated scans inside the
// cache TTL do not refetch. Implementations may be backed by Redis or absent
// entirely; the scanner treats a nil cache as a permanent miss.
type QuoteCache interface {
	// GetRecords returns the cached records for a provider source, or
	// ErrNotFound when the entry is missing or expired.
	GetRecords(ctx context.Context, source string) ([]RawRecord, error)
	// SetRecords stores the records for a provider source with the given TTL.
	SetRecords(ctx context.Context, source string, records []RawRecord, ttl time.Duration) error
}

// SignalBus carries per-scan opportunity payloads from the scanner to
// interested consumers (the dashboard WebSocket hub).
type SignalBus interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
}
