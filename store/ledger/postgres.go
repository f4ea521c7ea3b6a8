package ledger

import (
	"context"
	"fmt"
	"sort"

	sq "github.com/Masterminds/squirrel"
	"github.com/pandodao/custody-wallet/core"
	"github.com/pandodao/custody-wallet/store"
	"github.com/shopspring/decimal"
	"github.com/tsenart/nap"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// NewPostgres returns a ledger backed by the schema in store/db.
func NewPostgres(db *nap.DB) core.LedgerStore {
	return &postgresStore{db: db}
}

type postgresStore struct {
	db *nap.DB
}

func exec(ctx context.Context, e execer, b sq.Sqlizer) error {
	stmt, args, err := b.ToSql()
	if err != nil {
		return err
	}

	_, err = e.ExecContext(ctx, stmt, args...)
	return err
}

func (s *postgresStore) Create(ctx context.Context, account *core.Account, wallet *core.Wallet) error {
	if account.Address != wallet.Address {
		return fmt.Errorf("account %s and wallet %s address mismatch", account.Address, wallet.Address)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	defer tx.Rollback()

	if err := exec(ctx, tx, psql.Insert("accounts").
		Columns(accountColumns...).
		Values(account.Address, account.Contact, account.TotalBonus, account.CreatedAt)); err != nil {
		return fmt.Errorf("insert account failed: %w", err)
	}

	if err := exec(ctx, tx, psql.Insert("wallets").
		Columns("address", "private_key").
		Values(wallet.Address, wallet.PrivateKey)); err != nil {
		return fmt.Errorf("insert wallet failed: %w", err)
	}

	if err := upsertBalances(ctx, tx, wallet.Address, wallet.Balances); err != nil {
		return err
	}

	if err := insertRecords(ctx, tx, wallet.Address, wallet.Transactions); err != nil {
		return err
	}

	return tx.Commit()
}

func upsertBalances(ctx context.Context, tx execer, address string, balances core.Balances) error {
	if len(balances) == 0 {
		return nil
	}

	assets := make([]string, 0, len(balances))
	for asset := range balances {
		assets = append(assets, asset)
	}

	sort.Strings(assets)

	b := psql.Insert("balances").Columns("address", "asset", "amount")
	for _, asset := range assets {
		b = b.Values(address, asset, balances[asset])
	}

	b = b.Suffix("ON CONFLICT (address, asset) DO UPDATE SET amount = EXCLUDED.amount")
	if err := exec(ctx, tx, b); err != nil {
		return fmt.Errorf("upsert balances failed: %w", err)
	}

	return nil
}

func insertRecords(ctx context.Context, tx execer, address string, records []*core.TransactionRecord) error {
	if len(records) == 0 {
		return nil
	}

	b := psql.Insert("transactions").Columns(append([]string{"address"}, recordColumns...)...)
	for _, r := range records {
		b = b.Values(address, r.ID, string(r.Kind), r.From, r.To, r.Amount, r.Asset, r.TxHash, string(r.Network), string(r.Status), r.Timestamp)
	}

	if err := exec(ctx, tx, b); err != nil {
		return fmt.Errorf("insert transactions failed: %w", err)
	}

	return nil
}

func findAccount(ctx context.Context, q querier, address string) (*core.Account, error) {
	stmt, args := psql.Select(accountColumns...).
		From("accounts").
		Where(sq.Eq{"address": address}).
		MustSql()

	var account core.Account
	if err := scanAccount(q.QueryRowContext(ctx, stmt, args...), &account); err != nil {
		if store.IsErrNotFound(err) {
			return nil, core.NotFoundError("wallet %s not found", address)
		}

		return nil, err
	}

	return &account, nil
}

func findWallet(ctx context.Context, q querier, address string, forUpdate bool) (*core.Wallet, error) {
	b := psql.Select("address").From("wallets").Where(sq.Eq{"address": address})
	if forUpdate {
		b = b.Suffix("FOR UPDATE")
	}

	stmt, args := b.MustSql()
	wallet := &core.Wallet{Balances: core.Balances{}}
	if err := q.QueryRowContext(ctx, stmt, args...).Scan(&wallet.Address); err != nil {
		if store.IsErrNotFound(err) {
			return nil, core.NotFoundError("wallet %s not found", address)
		}

		return nil, err
	}

	if err := loadBalances(ctx, q, wallet); err != nil {
		return nil, err
	}

	if err := loadRecords(ctx, q, wallet); err != nil {
		return nil, err
	}

	return wallet, nil
}

func loadBalances(ctx context.Context, q querier, wallet *core.Wallet) error {
	stmt, args := psql.Select("asset", "amount").
		From("balances").
		Where(sq.Eq{"address": wallet.Address}).
		MustSql()

	rows, err := q.QueryContext(ctx, stmt, args...)
	if err != nil {
		return err
	}

	defer rows.Close()

	for rows.Next() {
		var (
			asset  string
			amount decimal.Decimal
		)

		if err := rows.Scan(&asset, &amount); err != nil {
			return err
		}

		wallet.Balances[asset] = amount
	}

	return rows.Err()
}

func loadRecords(ctx context.Context, q querier, wallet *core.Wallet) error {
	stmt, args := psql.Select(recordColumns...).
		From("transactions").
		Where(sq.Eq{"address": wallet.Address}).
		OrderBy("seq").
		MustSql()

	rows, err := q.QueryContext(ctx, stmt, args...)
	if err != nil {
		return err
	}

	defer rows.Close()

	for rows.Next() {
		var record core.TransactionRecord
		if err := scanRecord(rows, &record); err != nil {
			return err
		}

		wallet.Append(&record)
	}

	return rows.Err()
}

func (s *postgresStore) FindAccount(ctx context.Context, address string) (*core.Account, error) {
	return findAccount(ctx, s.db, address)
}

func (s *postgresStore) FindWallet(ctx context.Context, address string) (*core.Wallet, error) {
	return findWallet(ctx, s.db, address, false)
}

func (s *postgresStore) WithLock(ctx context.Context, address string, fn func(account *core.Account, wallet *core.Wallet) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	defer tx.Rollback()

	// the row lock on wallets serializes writers of the same address
	wallet, err := findWallet(ctx, tx, address, true)
	if err != nil {
		return err
	}

	account, err := findAccount(ctx, tx, address)
	if err != nil {
		return err
	}

	before := len(wallet.Transactions)
	if err := fn(account, wallet); err != nil {
		return err
	}

	if len(wallet.Transactions) < before {
		return fmt.Errorf("wallet %s: transaction history is append-only", address)
	}

	if err := upsertBalances(ctx, tx, address, wallet.Balances); err != nil {
		return err
	}

	if err := insertRecords(ctx, tx, address, wallet.Transactions[before:]); err != nil {
		return err
	}

	if err := exec(ctx, tx, psql.Update("accounts").
		Set("contact", account.Contact).
		Set("total_bonus", account.TotalBonus).
		Where(sq.Eq{"address": address})); err != nil {
		return fmt.Errorf("update account failed: %w", err)
	}

	return tx.Commit()
}
