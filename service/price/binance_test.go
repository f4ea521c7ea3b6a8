package price

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinanceFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/ticker/price", r.URL.Path)

		switch symbol := r.URL.Query().Get("symbol"); symbol {
		case "ETHUSDT":
			fmt.Fprintf(w, `{"symbol":%q,"price":"2345.67000000"}`, symbol)
		default:
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"code":-1121,"msg":"Invalid symbol."}`)
		}
	}))
	defer srv.Close()

	fetcher := NewBinance(BinanceConfig{Endpoint: srv.URL, Rate: 100})

	p, err := fetcher.Fetch(context.Background(), "ETH")
	require.NoError(t, err)
	assert.True(t, p.Equal(decimal.RequireFromString("2345.67")), p.String())

	_, err = fetcher.Fetch(context.Background(), "NOPE")
	assert.Error(t, err)
}

func TestBinanceBreakerOpens(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	fetcher := NewBinance(BinanceConfig{Endpoint: srv.URL, Rate: 100})
	for i := 0; i < 5; i++ {
		_, err := fetcher.Fetch(context.Background(), "BTC")
		assert.Error(t, err)
	}

	assert.EqualValues(t, 3, hits.Load(), "breaker stops calling the feed after consecutive failures")
}
