package exchange

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/arbscan/internal/domain"
)

func TestMid(t *testing.T) {
	price, err := mid(100, 102, 0)
	require.NoError(t, err)
	assert.Equal(t, 101.0, price)

	price, err = mid(0, 102, 99)
	require.NoError(t, err)
	assert.Equal(t, 99.0, price)

	_, err = mid(0, 0, 0)
	assert.ErrorIs(t, err, domain.ErrNoPrice)
}

func TestBuild(t *testing.T) {
	sources, err := Build([]string{"Binance", " kraken ", "okx", "kucoin"})
	require.NoError(t, err)
	require.Len(t, sources, 4)
	assert.Equal(t, "binance", sources[0].Name())
	assert.Equal(t, "kucoin", sources[3].Name())

	sources, err = Build([]string{"binance", "mtgox"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mtgox")
	assert.Len(t, sources, 1)
}

func TestBinance_MidPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/ticker/bookTicker", r.URL.Path)
		assert.Equal(t, "BTCUSDT", r.URL.Query().Get("symbol"))
		w.Write([]byte(`{"symbol":"BTCUSDT","bidPrice":"64000.10","askPrice":"64000.30"}`))
	}))
	defer srv.Close()

	b := NewBinance()
	b.baseURL = srv.URL

	price, err := b.MidPrice(context.Background(), "BTC/USDT")
	require.NoError(t, err)
	assert.InDelta(t, 64000.20, price, 1e-6)
}

func TestBinance_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code":-1121,"msg":"Invalid symbol."}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	b := NewBinance()
	b.baseURL = srv.URL

	_, err := b.MidPrice(context.Background(), "NOPE/USDT")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exchange/binance")
}

func TestKraken_MidPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/0/public/Ticker", r.URL.Path)
		assert.Equal(t, "BTCUSDT", r.URL.Query().Get("pair"))
		w.Write([]byte(`{"error":[],"result":{"XBTUSDT":{"a":["64010.0","1","1"],"b":["63990.0","2","2"],"c":["64000.0","0.1"]}}}`))
	}))
	defer srv.Close()

	k := NewKraken()
	k.baseURL = srv.URL

	price, err := k.MidPrice(context.Background(), "BTC/USDT")
	require.NoError(t, err)
	assert.InDelta(t, 64000.0, price, 1e-6)
}

func TestKraken_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":["EQuery:Unknown asset pair"],"result":{}}`))
	}))
	defer srv.Close()

	k := NewKraken()
	k.baseURL = srv.URL

	_, err := k.MidPrice(context.Background(), "NOPE/USDT")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unknown asset pair")
}

func TestOKX_MidPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v5/market/ticker", r.URL.Path)
		assert.Equal(t, "BTC-USDT", r.URL.Query().Get("instId"))
		w.Write([]byte(`{"code":"0","msg":"","data":[{"bidPx":"63995","askPx":"64005","last":"64001"}]}`))
	}))
	defer srv.Close()

	o := NewOKX()
	o.baseURL = srv.URL

	price, err := o.MidPrice(context.Background(), "BTC/USDT")
	require.NoError(t, err)
	assert.InDelta(t, 64000.0, price, 1e-6)
}

func TestOKX_EmptyData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":"0","msg":"","data":[]}`))
	}))
	defer srv.Close()

	o := NewOKX()
	o.baseURL = srv.URL

	_, err := o.MidPrice(context.Background(), "BTC/USDT")
	assert.ErrorIs(t, err, domain.ErrNoPrice)
}

func TestKuCoin_MidPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/market/orderbook/level1", r.URL.Path)
		assert.Equal(t, "BTC-USDT", r.URL.Query().Get("symbol"))
		w.Write([]byte(`{"code":"200000","data":{"bestBid":"63990","bestAsk":"64010","price":"64000"}}`))
	}))
	defer srv.Close()

	k := NewKuCoin()
	k.baseURL = srv.URL

	price, err := k.MidPrice(context.Background(), "BTC/USDT")
	require.NoError(t, err)
	assert.InDelta(t, 64000.0, price, 1e-6)
}

func TestKuCoin_MissingData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":"200000","data":null}`))
	}))
	defer srv.Close()

	k := NewKuCoin()
	k.baseURL = srv.URL

	_, err := k.MidPrice(context.Background(), "BTC/USDT")
	assert.ErrorIs(t, err, domain.ErrNoPrice)
}
