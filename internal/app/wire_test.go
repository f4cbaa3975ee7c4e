package app

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/arbscan/internal/config"
	"github.com/alanyoungcy/arbscan/internal/domain"
)

func TestWireDefaults(t *testing.T) {
	cfg := config.Defaults()
	require.NoError(t, cfg.Validate())

	deps, cleanup, err := Wire(context.Background(), &cfg)
	require.NoError(t, err)
	defer cleanup()

	require.NotNil(t, deps)
	assert.NotNil(t, deps.Session)
	assert.NotNil(t, deps.Scanner)
	// Redis is off by default, so the dashboard bridge runs in-process.
	assert.Nil(t, deps.SignalBus)
}

func TestWireClobSource(t *testing.T) {
	cfg := config.Defaults()
	cfg.Polymarket.Source = "clob"

	deps, cleanup, err := Wire(context.Background(), &cfg)
	require.NoError(t, err)
	defer cleanup()
	assert.NotNil(t, deps.Scanner)
}

func TestWireUnknownExchange(t *testing.T) {
	cfg := config.Defaults()
	cfg.Exchanges.Enabled = append(cfg.Exchanges.Enabled, "mtgox")

	_, _, err := Wire(context.Background(), &cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wire: exchanges")
	assert.Contains(t, err.Error(), "mtgox")
}

func TestBuildClassifierConfig(t *testing.T) {
	cfg := config.Defaults()
	cfg.Scan.MinProfitPct = 3.5
	cfg.Scan.MaxInvestment = 250
	cfg.Classifier.UnderpricedTotal = 0.95

	out := buildClassifierConfig(&cfg)
	assert.Equal(t, 3.5, out.MinProfitPct)
	assert.Equal(t, 250.0, out.MaxInvestment)
	assert.Equal(t, 0.95, out.UnderpricedTotal)
	// Unset thresholds keep the calibrated defaults.
	assert.Equal(t, 1.02, out.OverpricedTotal)
	assert.Equal(t, 0.8, out.OverpricedHaircut)
}

type captureBus struct {
	channel string
	payload []byte
}

func (c *captureBus) Publish(ctx context.Context, channel string, data []byte) error {
	c.channel = channel
	c.payload = data
	return nil
}

func (c *captureBus) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	return nil, nil
}

func TestBusSinkPublishesScanResult(t *testing.T) {
	bus := &captureBus{}
	sink := &busSink{bus: bus}

	err := sink.Consume(context.Background(), []domain.Opportunity{{ID: "op-1"}})
	require.NoError(t, err)
	assert.Equal(t, "opportunities", bus.channel)

	var msg struct {
		Type    string `json:"type"`
		Payload struct {
			Count int `json:"count"`
		} `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(bus.payload, &msg))
	assert.Equal(t, "scan_result", msg.Type)
	assert.Equal(t, 1, msg.Payload.Count)
}
