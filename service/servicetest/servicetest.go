// Package servicetest provides in-memory chain adapters and a fixed price
// oracle for exercising services without a node or a price feed.
package servicetest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/pandodao/custody-wallet/core"
	"github.com/shopspring/decimal"
)

var ErrUnreachable = errors.New("node unreachable")

func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type Adapter struct {
	network core.Network
	asset   string

	mux      sync.Mutex
	balances map[string]decimal.Decimal
	sends    int
	reads    int

	// BalanceErr and SendErr, when set, fail the matching call.
	BalanceErr error
	SendErr    error
}

func NewAdapter(network core.Network, asset string) *Adapter {
	return &Adapter{
		network:  network,
		asset:    asset,
		balances: map[string]decimal.Decimal{},
	}
}

func (a *Adapter) Network() core.Network { return a.network }

func (a *Adapter) Asset() string { return a.asset }

// SetBalance makes GetBalance report amount for address.
func (a *Adapter) SetBalance(address string, amount decimal.Decimal) {
	a.mux.Lock()
	defer a.mux.Unlock()
	a.balances[address] = amount
}

func (a *Adapter) GetBalance(_ context.Context, address string) (decimal.Decimal, error) {
	a.mux.Lock()
	defer a.mux.Unlock()

	a.reads++
	if a.BalanceErr != nil {
		return decimal.Zero, core.ChainError(a.BalanceErr, "read balance of %s", address)
	}

	return a.balances[address], nil
}

func (a *Adapter) GetGasPrice(context.Context) (decimal.Decimal, error) {
	return decimal.New(2, -9), nil
}

func (a *Adapter) SendValueTransfer(_ context.Context, transfer *core.ValueTransfer) (string, error) {
	a.mux.Lock()
	defer a.mux.Unlock()

	a.sends++
	if a.SendErr != nil {
		return "", core.ChainError(a.SendErr, "send transaction")
	}

	return fmt.Sprintf("0x%064x", a.sends), nil
}

func (a *Adapter) ExplorerURL(txHash string) string {
	return fmt.Sprintf("https://explorer.test/%s/%s/tx/%s", a.network, a.asset, txHash)
}

// Sends counts SendValueTransfer calls, failed ones included.
func (a *Adapter) Sends() int {
	a.mux.Lock()
	defer a.mux.Unlock()
	return a.sends
}

func (a *Adapter) Reads() int {
	a.mux.Lock()
	defer a.mux.Unlock()
	return a.reads
}

type Oracle map[string]decimal.Decimal

func (o Oracle) GetPrice(_ context.Context, symbol string) decimal.Decimal {
	return o[symbol]
}

func (o Oracle) GetPrices(ctx context.Context, symbols []string) map[string]decimal.Decimal {
	prices := make(map[string]decimal.Decimal, len(symbols))
	for _, symbol := range symbols {
		prices[symbol] = o.GetPrice(ctx, symbol)
	}

	return prices
}

func (o Oracle) Refresh(context.Context, []string) error {
	return nil
}

// DefaultOracle prices the starter assets at the static fallback table.
func DefaultOracle() Oracle {
	return Oracle{
		core.AssetETH:  decimal.NewFromInt(2500),
		core.AssetBNB:  decimal.NewFromInt(300),
		core.AssetBTC:  decimal.NewFromInt(45000),
		core.AssetUSDT: decimal.NewFromInt(1),
		core.AssetRWD:  decimal.RequireFromString("0.1"),
	}
}
