package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/pandodao/custody-wallet/core"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAddress = "0x8ba1f109551bD432803012645Ac136ddd64DBA72"

func seed(t *testing.T, s core.LedgerStore) {
	t.Helper()

	err := s.Create(context.Background(), &core.Account{
		Address:   testAddress,
		CreatedAt: time.Now(),
	}, &core.Wallet{
		Address:    testAddress,
		PrivateKey: "secret",
		Balances:   core.StarterBundle(),
	})
	require.NoError(t, err)
}

func TestMemoryCreateAndFind(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	seed(t, s)

	wallet, err := s.FindWallet(ctx, testAddress)
	require.NoError(t, err)
	assert.Empty(t, wallet.PrivateKey, "key material must not leave the store")
	assert.True(t, wallet.Balances[core.AssetRWD].Equal(decimal.NewFromInt(1000)))

	account, err := s.FindAccount(ctx, testAddress)
	require.NoError(t, err)
	assert.Equal(t, testAddress, account.Address)

	err = s.Create(ctx, &core.Account{Address: testAddress}, &core.Wallet{Address: testAddress})
	assert.Error(t, err, "duplicate address")
}

func TestMemoryNotFound(t *testing.T) {
	s := NewMemory()

	_, err := s.FindWallet(context.Background(), "0xmissing")
	assert.True(t, core.IsKind(err, core.ErrorKindNotFound))

	err = s.WithLock(context.Background(), "0xmissing", func(*core.Account, *core.Wallet) error {
		t.Fatal("fn must not run for an unknown address")
		return nil
	})
	assert.True(t, core.IsKind(err, core.ErrorKindNotFound))
}

func TestMemorySnapshotIsolation(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	seed(t, s)

	wallet, err := s.FindWallet(ctx, testAddress)
	require.NoError(t, err)
	wallet.Balances[core.AssetETH] = decimal.NewFromInt(99)

	again, err := s.FindWallet(ctx, testAddress)
	require.NoError(t, err)
	assert.True(t, again.Balances[core.AssetETH].Equal(decimal.RequireFromString("0.1")))
}

func TestMemoryWithLockDiscardsOnError(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	seed(t, s)

	boom := errors.New("boom")
	err := s.WithLock(ctx, testAddress, func(_ *core.Account, w *core.Wallet) error {
		w.Balances[core.AssetETH] = decimal.Zero
		w.Append(&core.TransactionRecord{Kind: core.RecordKindTransfer})
		return boom
	})
	assert.ErrorIs(t, err, boom)

	wallet, err := s.FindWallet(ctx, testAddress)
	require.NoError(t, err)
	assert.True(t, wallet.Balances[core.AssetETH].Equal(decimal.RequireFromString("0.1")))
	assert.Empty(t, wallet.Transactions)
}

func TestMemoryHistoryIsAppendOnly(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	seed(t, s)

	require.NoError(t, s.WithLock(ctx, testAddress, func(_ *core.Account, w *core.Wallet) error {
		w.Append(&core.TransactionRecord{Kind: core.RecordKindBonus})
		return nil
	}))

	err := s.WithLock(ctx, testAddress, func(_ *core.Account, w *core.Wallet) error {
		w.Transactions = nil
		return nil
	})
	assert.Error(t, err)

	wallet, err := s.FindWallet(ctx, testAddress)
	require.NoError(t, err)
	assert.Len(t, wallet.Transactions, 1)
}

func TestMemoryWithLockNoLostUpdate(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	seed(t, s)

	const n = 64
	step := decimal.RequireFromString("0.001")

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.WithLock(ctx, testAddress, func(_ *core.Account, w *core.Wallet) error {
				w.Balances[core.AssetETH] = w.Balances[core.AssetETH].Sub(step)
				return nil
			})
			assert.NoError(t, err)
		}()
	}

	wg.Wait()

	wallet, err := s.FindWallet(ctx, testAddress)
	require.NoError(t, err)
	want := decimal.RequireFromString("0.1").Sub(step.Mul(decimal.NewFromInt(n)))
	assert.True(t, wallet.Balances[core.AssetETH].Equal(want), "got %s want %s", wallet.Balances[core.AssetETH], want)
}

func TestMemoryWithLockSavesAccount(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	seed(t, s)

	require.NoError(t, s.WithLock(ctx, testAddress, func(a *core.Account, _ *core.Wallet) error {
		a.Contact = "ops@example.com"
		a.TotalBonus = decimal.NewFromInt(100)
		a.Address = "0xother"
		return nil
	}))

	account, err := s.FindAccount(ctx, testAddress)
	require.NoError(t, err)
	assert.Equal(t, testAddress, account.Address)
	assert.Equal(t, "ops@example.com", account.Contact)
	assert.True(t, account.TotalBonus.Equal(decimal.NewFromInt(100)))
}
