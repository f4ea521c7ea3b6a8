package bonus

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pandodao/custody-wallet/core"
	"github.com/pandodao/custody-wallet/metrics"
)

func New(ledger core.LedgerStore, logger *slog.Logger) core.BonusService {
	return &service{
		ledger: ledger,
		logger: logger.With("service", "bonus"),
	}
}

type service struct {
	ledger core.LedgerStore
	logger *slog.Logger
}

// Claim credits the bonus bundle. Every call credits it again; there is no
// eligibility window.
func (s *service) Claim(ctx context.Context, address string) (*core.BonusResult, error) {
	address = core.NormalizeAddress(address)
	bundle := core.BonusBundle()

	var balances core.Balances
	err := s.ledger.WithLock(ctx, address, func(account *core.Account, wallet *core.Wallet) error {
		wallet.Balances.Add(bundle)
		account.TotalBonus = account.TotalBonus.Add(bundle[core.AssetRWD])
		wallet.Append(&core.TransactionRecord{
			ID:        uuid.NewString(),
			Kind:      core.RecordKindBonus,
			From:      core.BonusSender,
			To:        address,
			Amount:    bundle[core.AssetRWD],
			Asset:     core.AssetRWD,
			Status:    core.RecordStatusCompleted,
			Timestamp: time.Now(),
		})

		balances = wallet.Balances.Clone()
		return nil
	})

	if err != nil {
		if !core.IsKind(err, core.ErrorKindNotFound) {
			s.logger.Error("ledger.WithLock", "address", address, "err", err)
		}

		return nil, err
	}

	metrics.BonusClaimed()
	s.logger.Info("bonus claimed", "address", address)

	return &core.BonusResult{
		Bonuses:     bundle,
		NewBalances: balances,
	}, nil
}
