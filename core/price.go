package core

import (
	"context"

	"github.com/shopspring/decimal"
)

// PriceOracle never fails: lookups that cannot reach the feed fall back to a
// static table, and unknown symbols price at zero.
type PriceOracle interface {
	GetPrice(ctx context.Context, symbol string) decimal.Decimal
	GetPrices(ctx context.Context, symbols []string) map[string]decimal.Decimal
	// Refresh fetches the symbols from the feed, bypassing the cache.
	Refresh(ctx context.Context, symbols []string) error
}

type BalanceView struct {
	Balances   Balances                   `json:"balances"`
	Prices     map[string]decimal.Decimal `json:"prices"`
	TotalValue decimal.Decimal            `json:"totalValue"`
}

type BalanceService interface {
	GetBalances(ctx context.Context, address string) (*BalanceView, error)
}
