package ledger

import (
	"context"
	"fmt"
	"hash/maphash"
	"sync"

	"github.com/pandodao/custody-wallet/core"
)

const lockStripes = 64

// NewMemory returns a volatile ledger. Nothing survives a restart.
func NewMemory() core.LedgerStore {
	return &memory{
		records: map[string]*record{},
		seed:    maphash.MakeSeed(),
	}
}

type record struct {
	account core.Account
	// custodial key, never part of a wallet snapshot
	privateKey string
	wallet     *core.Wallet
}

type memory struct {
	mux     sync.RWMutex
	records map[string]*record

	// read-modify-write sections are serialized per address stripe
	locks [lockStripes]sync.Mutex
	seed  maphash.Seed
}

func (s *memory) lockFor(address string) *sync.Mutex {
	return &s.locks[maphash.String(s.seed, address)%lockStripes]
}

func (s *memory) Create(_ context.Context, account *core.Account, wallet *core.Wallet) error {
	if account.Address != wallet.Address {
		return fmt.Errorf("account %s and wallet %s address mismatch", account.Address, wallet.Address)
	}

	s.mux.Lock()
	defer s.mux.Unlock()

	if _, ok := s.records[account.Address]; ok {
		return fmt.Errorf("wallet %s already exists", account.Address)
	}

	s.records[account.Address] = &record{
		account:    *account,
		privateKey: wallet.PrivateKey,
		wallet:     wallet.Clone(),
	}

	return nil
}

func (s *memory) get(address string) (*record, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()

	r, ok := s.records[address]
	if !ok {
		return nil, core.NotFoundError("wallet %s not found", address)
	}

	return r, nil
}

func (s *memory) FindAccount(_ context.Context, address string) (*core.Account, error) {
	r, err := s.get(address)
	if err != nil {
		return nil, err
	}

	s.mux.RLock()
	account := r.account
	s.mux.RUnlock()
	return &account, nil
}

func (s *memory) FindWallet(_ context.Context, address string) (*core.Wallet, error) {
	r, err := s.get(address)
	if err != nil {
		return nil, err
	}

	s.mux.RLock()
	defer s.mux.RUnlock()
	return r.wallet.Clone(), nil
}

func (s *memory) WithLock(ctx context.Context, address string, fn func(account *core.Account, wallet *core.Wallet) error) error {
	mu := s.lockFor(address)
	mu.Lock()
	defer mu.Unlock()

	r, err := s.get(address)
	if err != nil {
		return err
	}

	s.mux.RLock()
	account, wallet := r.account, r.wallet.Clone()
	s.mux.RUnlock()

	if err := fn(&account, wallet); err != nil {
		return err
	}

	if len(wallet.Transactions) < len(r.wallet.Transactions) {
		return fmt.Errorf("wallet %s: transaction history is append-only", address)
	}

	s.mux.Lock()
	r.account.Contact = account.Contact
	r.account.TotalBonus = account.TotalBonus
	r.wallet = &core.Wallet{
		Address:      r.wallet.Address,
		Balances:     wallet.Balances.Clone(),
		Transactions: wallet.Transactions,
	}
	s.mux.Unlock()

	return nil
}
