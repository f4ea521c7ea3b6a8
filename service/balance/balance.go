package balance

import (
	"context"
	"log/slog"
	"sort"

	"github.com/asaskevich/govalidator"
	"github.com/pandodao/custody-wallet/core"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type Config struct {
	// Network is where live native balances are read from.
	Network core.Network `valid:"required"`

	// Concurrency bounds parallel chain reads per request.
	Concurrency int `valid:"-"`
}

func New(
	ledger core.LedgerStore,
	gateway core.ChainGateway,
	oracle core.PriceOracle,
	cfg Config,
	logger *slog.Logger,
) core.BalanceService {
	if _, err := govalidator.ValidateStruct(cfg); err != nil {
		panic(err)
	}

	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}

	return &service{
		ledger:  ledger,
		gateway: gateway,
		oracle:  oracle,
		cfg:     cfg,
		logger:  logger.With("service", "balance"),
	}
}

type service struct {
	ledger  core.LedgerStore
	gateway core.ChainGateway
	oracle  core.PriceOracle
	cfg     Config
	logger  *slog.Logger
}

func (s *service) GetBalances(ctx context.Context, address string) (*core.BalanceView, error) {
	address = core.NormalizeAddress(address)

	wallet, err := s.ledger.FindWallet(ctx, address)
	if err != nil {
		return nil, err
	}

	live, err := s.readChain(ctx, address)
	if err != nil {
		return nil, err
	}

	balances := wallet.Balances.Clone()
	for asset, amount := range live {
		balances[asset] = amount
	}

	symbols := make([]string, 0, len(balances))
	for symbol := range balances {
		symbols = append(symbols, symbol)
	}

	sort.Strings(symbols)
	prices := s.oracle.GetPrices(ctx, symbols)

	total := decimal.Zero
	for _, symbol := range symbols {
		total = total.Add(balances[symbol].Mul(prices[symbol]))
	}

	return &core.BalanceView{
		Balances:   balances,
		Prices:     prices,
		TotalValue: total,
	}, nil
}

// readChain queries every native adapter in parallel. An adapter that fails
// is left out of the result instead of failing the read. Only a cancelled
// caller aborts the read.
func (s *service) readChain(ctx context.Context, address string) (core.Balances, error) {
	adapters := s.gateway.Adapters(s.cfg.Network)
	results := make([]*decimal.Decimal, len(adapters))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)
	for idx, adapter := range adapters {
		idx, adapter := idx, adapter
		g.Go(func() error {
			amount, err := adapter.GetBalance(gctx, address)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}

				s.logger.Warn("adapter.GetBalance", "asset", adapter.Asset(), "network", adapter.Network(), "err", err)
				return nil
			}

			results[idx] = &amount
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	live := core.Balances{}
	for idx, amount := range results {
		if amount != nil {
			live[adapters[idx].Asset()] = *amount
		}
	}

	return live, nil
}
