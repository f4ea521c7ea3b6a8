package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Account struct {
	Address    string          `json:"address"`
	Contact    string          `json:"contact,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	TotalBonus decimal.Decimal `json:"total_bonus"`
}

// Wallet is owned 1:1 by an Account under the same address. PrivateKey is only
// populated on the record handed to LedgerStore.Create and on the creation
// result; stores never hand it back out.
type Wallet struct {
	Address      string               `json:"address"`
	PrivateKey   string               `json:"-"`
	Balances     Balances             `json:"balances"`
	Transactions []*TransactionRecord `json:"transactions"`
}

func (w *Wallet) Clone() *Wallet {
	return &Wallet{
		Address:      w.Address,
		Balances:     w.Balances.Clone(),
		Transactions: append([]*TransactionRecord(nil), w.Transactions...),
	}
}

// Append adds a record to the history. History is append-only.
func (w *Wallet) Append(record *TransactionRecord) {
	w.Transactions = append(w.Transactions, record)
}

// LedgerStore keeps accounts and wallets keyed by address.
type LedgerStore interface {
	// Create stores a new account and its wallet atomically.
	Create(ctx context.Context, account *Account, wallet *Wallet) error
	FindAccount(ctx context.Context, address string) (*Account, error)
	// FindWallet returns a snapshot of the wallet without key material.
	FindWallet(ctx context.Context, address string) (*Wallet, error)
	// WithLock runs fn with exclusive access to the address. Changes fn makes to
	// the account contact and bonus total, the wallet balances and appended
	// records are saved only if fn returns nil. Addresses and creation time are
	// fixed.
	WithLock(ctx context.Context, address string, fn func(account *Account, wallet *Wallet) error) error
}

type CreateWalletResult struct {
	Address    string
	PrivateKey string
	Balances   Balances
}

type WalletService interface {
	Create(ctx context.Context, contact string) (*CreateWalletResult, error)
	History(ctx context.Context, address string) ([]*TransactionRecord, error)
}
