package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pandodao/custody-wallet/core"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsenart/nap"
)

func newMockStore(t *testing.T) (core.LedgerStore, sqlmock.Sqlmock) {
	t.Helper()

	dsn := "ledger_" + t.Name()
	db, mock, err := sqlmock.NewWithDSN(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	conn, err := nap.Open("sqlmock", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return NewPostgres(conn), mock
}

func TestPostgresCreate(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO accounts").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO wallets").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO balances .* ON CONFLICT").WillReturnResult(sqlmock.NewResult(0, 5))
	mock.ExpectCommit()

	err := s.Create(context.Background(), &core.Account{
		Address:   testAddress,
		CreatedAt: time.Now(),
	}, &core.Wallet{
		Address:    testAddress,
		PrivateKey: "secret",
		Balances:   core.StarterBundle(),
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFindWalletNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("SELECT address FROM wallets").
		WithArgs(testAddress).
		WillReturnRows(sqlmock.NewRows([]string{"address"}))

	_, err := s.FindWallet(context.Background(), testAddress)
	assert.True(t, core.IsKind(err, core.ErrorKindNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresWithLock(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT address FROM wallets .* FOR UPDATE").
		WithArgs(testAddress).
		WillReturnRows(sqlmock.NewRows([]string{"address"}).AddRow(testAddress))
	mock.ExpectQuery("SELECT asset, amount FROM balances").
		WillReturnRows(sqlmock.NewRows([]string{"asset", "amount"}).
			AddRow("ETH", "0.1").
			AddRow("RWD", "1000"))
	mock.ExpectQuery("SELECT id, kind, .* FROM transactions").
		WillReturnRows(sqlmock.NewRows(recordColumns))
	mock.ExpectQuery("SELECT address, contact, total_bonus, created_at FROM accounts").
		WillReturnRows(sqlmock.NewRows(accountColumns).AddRow(testAddress, "", "0", time.Now()))
	mock.ExpectExec("INSERT INTO balances").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO transactions").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE accounts SET contact = \\$1, total_bonus = \\$2").
		WithArgs("ops@example.com", sqlmock.AnyArg(), testAddress).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := s.WithLock(context.Background(), testAddress, func(account *core.Account, wallet *core.Wallet) error {
		assert.True(t, wallet.Balances[core.AssetETH].Equal(decimal.RequireFromString("0.1")))
		wallet.Balances[core.AssetRWD] = wallet.Balances[core.AssetRWD].Add(decimal.NewFromInt(100))
		wallet.Append(&core.TransactionRecord{
			ID:        "5f8c7a7e-5c3b-4f5e-9a43-0d7f8f0a1b2c",
			Kind:      core.RecordKindBonus,
			From:      core.BonusSender,
			To:        testAddress,
			Amount:    decimal.NewFromInt(100),
			Asset:     core.AssetRWD,
			Status:    core.RecordStatusCompleted,
			Timestamp: time.Now(),
		})
		account.TotalBonus = account.TotalBonus.Add(decimal.NewFromInt(100))
		account.Contact = "ops@example.com"
		return nil
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
