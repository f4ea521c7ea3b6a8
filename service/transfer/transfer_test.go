package transfer

import (
	"context"
	"sync"
	"testing"

	"github.com/pandodao/custody-wallet/core"
	"github.com/pandodao/custody-wallet/service/chain"
	"github.com/pandodao/custody-wallet/service/servicetest"
	"github.com/pandodao/custody-wallet/service/wallet"
	"github.com/pandodao/custody-wallet/store/ledger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const recipient = "0x8ba1f109551bD432803012645Ac136ddd64DBA72"

type fixture struct {
	store      core.LedgerStore
	eth, ethMn *servicetest.Adapter
	gateway    core.ChainGateway
	address    string
	key        string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		store: ledger.NewMemory(),
		eth:   servicetest.NewAdapter(core.NetworkTestnet, core.AssetETH),
		ethMn: servicetest.NewAdapter(core.NetworkMainnet, core.AssetETH),
	}

	f.gateway = chain.NewGateway(f.eth, servicetest.NewAdapter(core.NetworkTestnet, core.AssetBNB), f.ethMn)

	result, err := wallet.New(f.store, servicetest.Logger()).Create(context.Background(), "")
	require.NoError(t, err)
	f.address, f.key = result.Address, result.PrivateKey

	return f
}

func (f *fixture) service(cfg Config) core.TransferService {
	return New(f.store, f.gateway, cfg, servicetest.Logger())
}

func (f *fixture) request(amount string) *core.TransferRequest {
	return &core.TransferRequest{
		From:   f.address,
		To:     recipient,
		Amount: decimal.RequireFromString(amount),
		Asset:  core.AssetETH,
		Key:    f.key,
	}
}

func (f *fixture) wallet(t *testing.T) *core.Wallet {
	t.Helper()

	w, err := f.store.FindWallet(context.Background(), f.address)
	require.NoError(t, err)
	return w
}

func TestTransfer(t *testing.T) {
	f := newFixture(t)

	result, err := f.service(Config{}).Transfer(context.Background(), f.request("0.04"))
	require.NoError(t, err)

	assert.NotEmpty(t, result.TxHash)
	assert.Equal(t, f.eth.ExplorerURL(result.TxHash), result.ExplorerURL)
	assert.True(t, result.NewBalance.Equal(decimal.RequireFromString("0.06")), result.NewBalance.String())
	assert.Equal(t, 1, f.eth.Sends())
	assert.Zero(t, f.ethMn.Sends(), "networkType defaults to testnet")

	w := f.wallet(t)
	assert.True(t, w.Balances[core.AssetETH].Equal(decimal.RequireFromString("0.06")))
	require.Len(t, w.Transactions, 1)

	record := w.Transactions[0]
	assert.Equal(t, core.RecordKindTransfer, record.Kind)
	assert.Equal(t, core.RecordStatusConfirmed, record.Status)
	assert.Equal(t, result.TxHash, record.TxHash)
	assert.Equal(t, core.NetworkTestnet, record.Network)
	assert.Equal(t, f.address, record.From)
	assert.Equal(t, recipient, record.To)
	assert.True(t, record.Amount.Equal(decimal.RequireFromString("0.04")))
}

func TestTransferMainnet(t *testing.T) {
	f := newFixture(t)
	req := f.request("0.01")
	req.Network = "mainnet"

	_, err := f.service(Config{}).Transfer(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, f.ethMn.Sends())
	assert.Zero(t, f.eth.Sends())
}

func TestTransferFullWeiPrecision(t *testing.T) {
	f := newFixture(t)

	result, err := f.service(Config{}).Transfer(context.Background(), f.request("0.010000000000000001000"))
	require.NoError(t, err)
	assert.True(t, result.NewBalance.Equal(decimal.RequireFromString("0.089999999999999999")), result.NewBalance.String())
	assert.Equal(t, 1, f.eth.Sends())
}

func TestTransferOverdrawIsTracked(t *testing.T) {
	f := newFixture(t)

	result, err := f.service(Config{}).Transfer(context.Background(), f.request("0.25"))
	require.NoError(t, err)
	assert.True(t, result.NewBalance.Equal(decimal.RequireFromString("-0.15")), result.NewBalance.String())
	assert.True(t, f.wallet(t).Balances[core.AssetETH].Equal(decimal.RequireFromString("-0.15")))
}

func TestTransferOverdrawClamped(t *testing.T) {
	f := newFixture(t)

	result, err := f.service(Config{ClampNegative: true}).Transfer(context.Background(), f.request("0.25"))
	require.NoError(t, err)
	assert.True(t, result.NewBalance.IsZero())

	w := f.wallet(t)
	assert.True(t, w.Balances[core.AssetETH].IsZero())
	require.Len(t, w.Transactions, 1)
	assert.True(t, w.Transactions[0].Amount.Equal(decimal.RequireFromString("0.25")), "record keeps the amount sent")
}

func TestTransferRejected(t *testing.T) {
	tests := []struct {
		name string
		edit func(f *fixture, req *core.TransferRequest)
		kind core.ErrorKind
	}{
		{"missing from", func(_ *fixture, req *core.TransferRequest) { req.From = "" }, core.ErrorKindValidation},
		{"missing to", func(_ *fixture, req *core.TransferRequest) { req.To = "" }, core.ErrorKindValidation},
		{"missing amount", func(_ *fixture, req *core.TransferRequest) { req.Amount = decimal.Zero }, core.ErrorKindValidation},
		{"missing asset", func(_ *fixture, req *core.TransferRequest) { req.Asset = "" }, core.ErrorKindValidation},
		{"missing key", func(_ *fixture, req *core.TransferRequest) { req.Key = "" }, core.ErrorKindValidation},
		{"unknown wallet", func(_ *fixture, req *core.TransferRequest) { req.From = recipient }, core.ErrorKindNotFound},
		{"reward token", func(_ *fixture, req *core.TransferRequest) { req.Asset = core.AssetRWD }, core.ErrorKindUnsupportedAsset},
		{"bonus stablecoin", func(_ *fixture, req *core.TransferRequest) { req.Asset = core.AssetUSDT }, core.ErrorKindUnsupportedAsset},
		{"negative amount", func(_ *fixture, req *core.TransferRequest) { req.Amount = decimal.NewFromInt(-1) }, core.ErrorKindValidation},
		{"finer than wei", func(_ *fixture, req *core.TransferRequest) {
			req.Amount = decimal.RequireFromString("0.0100000000000000009")
		}, core.ErrorKindValidation},
		{"bad recipient", func(_ *fixture, req *core.TransferRequest) { req.To = "0x1234" }, core.ErrorKindValidation},
		{"unknown network", func(_ *fixture, req *core.TransferRequest) { req.Network = "devnet" }, core.ErrorKindValidation},
		{"malformed key", func(_ *fixture, req *core.TransferRequest) { req.Key = "0xzz" }, core.ErrorKindValidation},
		{"foreign key", func(_ *fixture, req *core.TransferRequest) {
			req.Key = "0x4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"
		}, core.ErrorKindValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			req := f.request("0.01")
			tt.edit(f, req)

			_, err := f.service(Config{}).Transfer(context.Background(), req)
			require.Error(t, err)
			assert.Equal(t, tt.kind, core.KindOf(err), err.Error())

			assert.Zero(t, f.eth.Sends(), "no chain call before preconditions pass")

			w := f.wallet(t)
			assert.Empty(t, w.Transactions)
			for asset, amount := range core.StarterBundle() {
				assert.True(t, w.Balances[asset].Equal(amount), asset)
			}
		})
	}
}

func TestTransferChainFailureLeavesLedger(t *testing.T) {
	f := newFixture(t)
	f.eth.SendErr = servicetest.ErrUnreachable

	_, err := f.service(Config{}).Transfer(context.Background(), f.request("0.01"))
	assert.True(t, core.IsKind(err, core.ErrorKindChain))
	assert.Equal(t, 1, f.eth.Sends())

	w := f.wallet(t)
	assert.Empty(t, w.Transactions)
	assert.True(t, w.Balances[core.AssetETH].Equal(decimal.RequireFromString("0.1")))
}

func TestTransferConcurrentNoLostUpdate(t *testing.T) {
	f := newFixture(t)
	s := f.service(Config{})

	const n = 32
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Transfer(context.Background(), f.request("0.003"))
			assert.NoError(t, err)
		}()
	}

	wg.Wait()

	w := f.wallet(t)
	want := decimal.RequireFromString("0.1").Sub(decimal.RequireFromString("0.003").Mul(decimal.NewFromInt(n)))
	assert.True(t, w.Balances[core.AssetETH].Equal(want), "got %s want %s", w.Balances[core.AssetETH], want)
	assert.Len(t, w.Transactions, n)
	assert.Equal(t, n, f.eth.Sends())
}
