package wallet

import (
	"context"
	"crypto/ecdsa"
	"log/slog"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pandodao/custody-wallet/core"
	"github.com/pandodao/custody-wallet/metrics"
)

// KeyGenerator produces the signing key of a new wallet.
type KeyGenerator func() (*ecdsa.PrivateKey, error)

type service struct {
	ledger core.LedgerStore
	keygen KeyGenerator
	logger *slog.Logger
}

func New(ledger core.LedgerStore, logger *slog.Logger) core.WalletService {
	return NewWithKeyGenerator(ledger, crypto.GenerateKey, logger)
}

func NewWithKeyGenerator(ledger core.LedgerStore, keygen KeyGenerator, logger *slog.Logger) core.WalletService {
	return &service{
		ledger: ledger,
		keygen: keygen,
		logger: logger.With("service", "wallet"),
	}
}

func (s *service) Create(ctx context.Context, contact string) (*core.CreateWalletResult, error) {
	if contact != "" && !govalidator.IsEmail(contact) {
		return nil, core.ValidationError("invalid email %q", contact)
	}

	key, err := s.keygen()
	if err != nil {
		return nil, core.GenerationError(err)
	}

	address := crypto.PubkeyToAddress(key.PublicKey).Hex()
	wallet := &core.Wallet{
		Address:    address,
		PrivateKey: hexutil.Encode(crypto.FromECDSA(key)),
		Balances:   core.StarterBundle(),
	}

	account := &core.Account{
		Address:   address,
		Contact:   contact,
		CreatedAt: time.Now(),
	}

	if err := s.ledger.Create(ctx, account, wallet); err != nil {
		s.logger.Error("ledger.Create", "address", address, "err", err)
		return nil, err
	}

	metrics.WalletCreated()
	s.logger.Info("wallet created", "address", address)

	return &core.CreateWalletResult{
		Address:    address,
		PrivateKey: wallet.PrivateKey,
		Balances:   wallet.Balances.Clone(),
	}, nil
}

func (s *service) History(ctx context.Context, address string) ([]*core.TransactionRecord, error) {
	wallet, err := s.ledger.FindWallet(ctx, core.NormalizeAddress(address))
	if err != nil {
		return nil, err
	}

	return wallet.Transactions, nil
}
