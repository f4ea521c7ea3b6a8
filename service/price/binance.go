package price

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

type BinanceConfig struct {
	Endpoint string
	Timeout  time.Duration
	// Rate caps outbound requests per second.
	Rate float64
}

// NewBinance quotes symbols against USDT on the Binance spot ticker.
func NewBinance(cfg BinanceConfig) Fetcher {
	if cfg.Endpoint == "" {
		cfg.Endpoint = "https://api.binance.com"
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	if cfg.Rate <= 0 {
		cfg.Rate = 5
	}

	return &binance{
		endpoint: strings.TrimSuffix(cfg.Endpoint, "/"),
		client:   &http.Client{Timeout: cfg.Timeout},
		limiter:  rate.NewLimiter(rate.Limit(cfg.Rate), 1),
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "binance",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
		}),
	}
}

type binance struct {
	endpoint string
	client   *http.Client
	limiter  *rate.Limiter
	breaker  *gobreaker.CircuitBreaker
}

type tickerPrice struct {
	Symbol string          `json:"symbol"`
	Price  decimal.Decimal `json:"price"`
}

func (b *binance) Fetch(ctx context.Context, symbol string) (decimal.Decimal, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		return decimal.Zero, err
	}

	v, err := b.breaker.Execute(func() (interface{}, error) {
		return b.ticker(ctx, symbol+"USDT")
	})
	if err != nil {
		return decimal.Zero, err
	}

	return v.(decimal.Decimal), nil
}

func (b *binance) ticker(ctx context.Context, pair string) (decimal.Decimal, error) {
	uri := b.endpoint + "/api/v3/ticker/price?" + url.Values{"symbol": {pair}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return decimal.Zero, err
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return decimal.Zero, err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("ticker %s: unexpected status %s", pair, resp.Status)
	}

	var body tickerPrice
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return decimal.Zero, fmt.Errorf("decode ticker %s failed: %w", pair, err)
	}

	if !body.Price.IsPositive() {
		return decimal.Zero, fmt.Errorf("ticker %s: non-positive price %s", pair, body.Price)
	}

	return body.Price, nil
}
