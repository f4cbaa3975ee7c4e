package notify

import (
	"context"
	"net/smtp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/arbscan/internal/session"
)

func TestRenderAlertHTML_CrossExchangeRow(t *testing.T) {
	html, err := RenderAlertHTML(sampleOpps())
	require.NoError(t, err)

	assert.Contains(t, html, "<table>")
	assert.Contains(t, html, "BTC/USDT")
	assert.Contains(t, html, "BINANCE")
	assert.Contains(t, html, "KRAKEN")
	assert.Contains(t, html, "$100.0000")
	assert.Contains(t, html, "$101.5000")
	assert.Contains(t, html, "1.50%")
	// The prediction-market row carries its profit too.
	assert.Contains(t, html, "6.38%")
	assert.Contains(t, html, "sure_win")
}

func TestRenderAlertHTML_EscapesContent(t *testing.T) {
	opps := sampleOpps()
	opps[0].Instrument = `Will <script>alert("x")</script> happen?`

	html, err := RenderAlertHTML(opps)
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
}

func TestEmailAlert_SendsRenderedMessage(t *testing.T) {
	sess := session.New(10)
	alert := NewEmailAlert(EmailConfig{
		Host:      "smtp.example.com",
		Port:      587,
		Sender:    "alerts@example.com",
		Password:  "secret",
		Recipient: "ops@example.com",
	}, sess, testLogger())

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	alert.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	require.NoError(t, alert.Consume(context.Background(), sampleOpps()))

	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, "alerts@example.com", gotFrom)
	assert.Equal(t, []string{"ops@example.com"}, gotTo)

	msg := string(gotMsg)
	assert.Contains(t, msg, "Subject: Arbitrage alert: 2 opportunities found")
	assert.Contains(t, msg, "Content-Type: text/html")
	assert.True(t, strings.Contains(msg, "BTC/USDT"))
	assert.Equal(t, 1, sess.Stats().AlertsSent)
}

func TestEmailAlert_SkipsEmptyScan(t *testing.T) {
	alert := NewEmailAlert(EmailConfig{}, nil, testLogger())
	alert.send = func(string, smtp.Auth, string, []string, []byte) error {
		t.Fatal("send should not be called for an empty scan")
		return nil
	}
	assert.NoError(t, alert.Consume(context.Background(), nil))
}

func TestEmailAlert_PropagatesSendError(t *testing.T) {
	sess := session.New(10)
	alert := NewEmailAlert(EmailConfig{Host: "smtp.example.com", Port: 587}, sess, testLogger())
	alert.send = func(string, smtp.Auth, string, []string, []byte) error {
		return assert.AnError
	}

	err := alert.Consume(context.Background(), sampleOpps())
	require.Error(t, err)
	assert.Equal(t, 0, sess.Stats().AlertsSent)
}
