package ws

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/arbscan/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// dialHub starts a hub, exposes it over httptest, and returns a connected
// client that has already consumed the initial status frame.
func dialHub(t *testing.T) (*Hub, *websocket.Conn) {
	t.Helper()

	hub := NewHub(nil, "server", testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWS))
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var status struct {
		Type    string `json:"type"`
		Payload struct {
			Mode        string `json:"mode"`
			WSConnected bool   `json:"ws_connected"`
		} `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(raw, &status))
	require.Equal(t, "scanner_status", status.Type)
	assert.Equal(t, "server", status.Payload.Mode)
	assert.True(t, status.Payload.WSConnected)

	return hub, conn
}

func TestHubBroadcastReachesClient(t *testing.T) {
	hub, conn := dialHub(t)

	hub.Broadcast(ChannelOpportunities, []byte(`{"type":"scan_result"}`))

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	msgType, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, websocket.TextMessage, msgType)
	assert.JSONEq(t, `{"type":"scan_result"}`, string(raw))
}

func TestHubUnsubscribedChannelFiltered(t *testing.T) {
	hub, conn := dialHub(t)

	err := conn.WriteJSON(subscribeMsg{Unsubscribe: []string{ChannelOpportunities}})
	require.NoError(t, err)

	// The unsubscribe frame is handled on the read pump; give it a moment
	// before broadcasting.
	require.Eventually(t, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		for c := range hub.clients {
			return !c.isSubscribed(ChannelOpportunities)
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)

	hub.Broadcast(ChannelOpportunities, []byte(`{"dropped":true}`))
	hub.Broadcast(ChannelStatus, []byte(`{"kept":true}`))

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"kept":true}`, string(raw))
}

func TestSinkConsume(t *testing.T) {
	hub, conn := dialHub(t)
	sink := NewSink(hub)
	assert.Equal(t, "ws_hub", sink.Name())

	opps := []domain.Opportunity{
		{
			ID:         "op-1",
			Kind:       domain.OpportunitySureWin,
			Instrument: "Will it rain tomorrow?",
			ProfitPct:  6.38,
			Risk:       domain.RiskNone,
		},
	}
	require.NoError(t, sink.Consume(context.Background(), opps))

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg struct {
		Type    string `json:"type"`
		Payload struct {
			Count         int                  `json:"count"`
			Opportunities []domain.Opportunity `json:"opportunities"`
		} `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(raw, &msg))
	assert.Equal(t, "scan_result", msg.Type)
	assert.Equal(t, 1, msg.Payload.Count)
	require.Len(t, msg.Payload.Opportunities, 1)
	assert.Equal(t, "op-1", msg.Payload.Opportunities[0].ID)
}

func TestSinkConsume_EmptyScanStillBroadcast(t *testing.T) {
	hub, conn := dialHub(t)
	require.NoError(t, NewSink(hub).Consume(context.Background(), nil))

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg struct {
		Payload struct {
			Count int `json:"count"`
		} `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(raw, &msg))
	assert.Equal(t, 0, msg.Payload.Count)
}

func TestHubShutdownReleasesClients(t *testing.T) {
	hub := NewHub(nil, "server", testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWS))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, _, err = conn.ReadMessage()
	require.NoError(t, err)

	cancel()

	// The write pump sends a close frame once the hub drops the client, so
	// the next read fails instead of hanging.
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, _, err = conn.ReadMessage()
	assert.Error(t, err)

	// Late unregisters from pump goroutines must not block after Run exits.
	require.Eventually(t, func() bool {
		select {
		case <-hub.done:
			return true
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSinkConsume_CancelledContext(t *testing.T) {
	hub := NewHub(nil, "server", testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, NewSink(hub).Consume(ctx, nil))
}
