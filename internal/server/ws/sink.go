package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alanyoungcy/arbscan/internal/domain"
)

// Sink pushes each completed scan's ranked list to connected WebSocket
// clients through the hub. It implements the scanner sink interface.
type Sink struct {
	hub *Hub
}

// NewSink creates a scan sink bound to the given hub.
func NewSink(hub *Hub) *Sink {
	return &Sink{hub: hub}
}

// Name identifies the sink.
func (s *Sink) Name() string { return "ws_hub" }

// Consume broadcasts the scan result on the opportunities channel. Empty
// scans are broadcast too so dashboards can clear stale rows.
func (s *Sink) Consume(ctx context.Context, opps []domain.Opportunity) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if opps == nil {
		opps = []domain.Opportunity{}
	}
	msg, err := json.Marshal(map[string]any{
		"type": "scan_result",
		"payload": map[string]any{
			"count":         len(opps),
			"opportunities": opps,
			"scanned_at":    time.Now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return fmt.Errorf("ws: encode scan result: %w", err)
	}
	s.hub.Broadcast(ChannelOpportunities, msg)
	return nil
}
