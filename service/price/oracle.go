package price

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/pandodao/custody-wallet/core"
	"github.com/pandodao/custody-wallet/metrics"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

// Fetcher quotes one symbol in USD from a live feed.
type Fetcher interface {
	Fetch(ctx context.Context, symbol string) (decimal.Decimal, error)
}

const (
	AssetADA  = "ADA"
	AssetUSDC = "USDC"
)

// Quoted is the set of symbols priced from the live feed.
var Quoted = []string{core.AssetBTC, core.AssetETH, core.AssetBNB, AssetADA}

// fallback serves quoted symbols when the feed is unreachable.
var fallback = map[string]decimal.Decimal{
	core.AssetBTC: decimal.NewFromInt(45000),
	core.AssetETH: decimal.NewFromInt(2500),
	core.AssetBNB: decimal.NewFromInt(300),
	AssetADA:      decimal.RequireFromString("0.5"),
}

// pegged symbols never hit the feed.
var pegged = map[string]decimal.Decimal{
	core.AssetUSDT: decimal.NewFromInt(1),
	AssetUSDC:      decimal.NewFromInt(1),
	core.AssetRWD:  decimal.RequireFromString("0.1"),
}

type Config struct {
	TTL  time.Duration
	Size int

	// Timeout bounds a shared feed lookup, which outlives any single caller.
	Timeout time.Duration
}

func New(fetcher Fetcher, cfg Config, logger *slog.Logger) core.PriceOracle {
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Second
	}

	if cfg.Size <= 0 {
		cfg.Size = 64
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &oracle{
		fetcher: fetcher,
		cache:   expirable.NewLRU[string, decimal.Decimal](cfg.Size, nil, cfg.TTL),
		timeout: cfg.Timeout,
		logger:  logger.With("service", "price"),
	}
}

type oracle struct {
	fetcher Fetcher
	cache   *expirable.LRU[string, decimal.Decimal]
	timeout time.Duration
	sf      singleflight.Group
	logger  *slog.Logger
}

func (s *oracle) GetPrice(ctx context.Context, symbol string) decimal.Decimal {
	symbol = strings.ToUpper(symbol)

	if p, ok := pegged[symbol]; ok {
		return p
	}

	static, ok := fallback[symbol]
	if !ok {
		return decimal.Zero
	}

	if p, ok := s.cache.Get(symbol); ok {
		return p
	}

	p, err := s.fetch(ctx, symbol)
	if err != nil {
		s.logger.Warn("price feed unavailable, using fallback", "symbol", symbol, "err", err)
		metrics.PriceFallback(symbol)
		return static
	}

	return p
}

func (s *oracle) GetPrices(ctx context.Context, symbols []string) map[string]decimal.Decimal {
	prices := make(map[string]decimal.Decimal, len(symbols))
	for _, symbol := range symbols {
		prices[symbol] = s.GetPrice(ctx, symbol)
	}

	return prices
}

func (s *oracle) Refresh(ctx context.Context, symbols []string) error {
	var errs []error
	for _, symbol := range symbols {
		symbol = strings.ToUpper(symbol)
		if _, ok := fallback[symbol]; !ok {
			continue
		}

		if _, err := s.fetch(ctx, symbol); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// fetch dedups concurrent lookups of the same symbol and caches the result.
// The lookup is detached from the first caller so its cancellation does not
// fail the callers sharing it.
func (s *oracle) fetch(ctx context.Context, symbol string) (decimal.Decimal, error) {
	v, err, _ := s.sf.Do(symbol, func() (interface{}, error) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()

		p, err := s.fetcher.Fetch(ctx, symbol)
		if err != nil {
			return nil, core.OracleError(err, symbol)
		}

		s.cache.Add(symbol, p)
		return p, nil
	})

	if err != nil {
		return decimal.Zero, err
	}

	return v.(decimal.Decimal), nil
}
