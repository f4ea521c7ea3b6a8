package transfer

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pandodao/custody-wallet/core"
	"github.com/pandodao/custody-wallet/metrics"
	"github.com/shopspring/decimal"
)

type Config struct {
	// ClampNegative stops a debit at zero instead of letting the tracked
	// balance go negative when it has drifted below the chain.
	ClampNegative bool
}

func New(
	ledger core.LedgerStore,
	gateway core.ChainGateway,
	cfg Config,
	logger *slog.Logger,
) core.TransferService {
	return &service{
		ledger:  ledger,
		gateway: gateway,
		cfg:     cfg,
		logger:  logger.With("service", "transfer"),
	}
}

type service struct {
	ledger  core.LedgerStore
	gateway core.ChainGateway
	cfg     Config
	logger  *slog.Logger
}

func (s *service) Transfer(ctx context.Context, req *core.TransferRequest) (*core.TransferResult, error) {
	if err := checkRequired(req); err != nil {
		return nil, err
	}

	from := core.NormalizeAddress(req.From)
	if _, err := s.ledger.FindWallet(ctx, from); err != nil {
		return nil, err
	}

	asset := strings.ToUpper(req.Asset)
	if !core.IsNativeAsset(asset) {
		return nil, core.UnsupportedAssetError(asset)
	}

	network, err := checkTransfer(req)
	if err != nil {
		return nil, err
	}

	adapter, ok := s.gateway.Adapter(network, asset)
	if !ok {
		return nil, core.UnsupportedAssetError(asset + " on " + string(network))
	}

	key, err := parseKey(req.Key, from)
	if err != nil {
		return nil, err
	}

	to := core.NormalizeAddress(req.To)
	txHash, err := adapter.SendValueTransfer(ctx, &core.ValueTransfer{
		From:   from,
		To:     to,
		Amount: req.Amount,
		Key:    key,
	})
	key.D.SetInt64(0)

	metrics.Transfer(asset, string(network), err)
	if err != nil {
		s.logger.Error("adapter.SendValueTransfer", "from", from, "asset", asset, "network", network, "err", err)
		if core.KindOf(err) == core.ErrorKindInternal {
			err = core.ChainError(err, "send %s on %s", asset, network)
		}

		return nil, err
	}

	var newBalance decimal.Decimal
	if err := s.ledger.WithLock(ctx, from, func(_ *core.Account, wallet *core.Wallet) error {
		newBalance = s.debit(wallet, asset, req.Amount)
		wallet.Append(&core.TransactionRecord{
			ID:        uuid.NewString(),
			Kind:      core.RecordKindTransfer,
			From:      from,
			To:        to,
			Amount:    req.Amount,
			Asset:     asset,
			TxHash:    txHash,
			Network:   network,
			Status:    core.RecordStatusConfirmed,
			Timestamp: time.Now(),
		})
		return nil
	}); err != nil {
		// the transaction is already on chain, so this is ledger drift
		s.logger.Error("ledger.WithLock", "from", from, "tx", txHash, "err", err)
		return nil, err
	}

	s.logger.Info("transfer confirmed", "from", from, "to", to, "amount", req.Amount, "asset", asset, "network", network, "tx", txHash)

	return &core.TransferResult{
		TxHash:      txHash,
		ExplorerURL: adapter.ExplorerURL(txHash),
		NewBalance:  newBalance,
	}, nil
}

// debit is not checked against the tracked balance: the chain already
// accepted the transfer, so a shortfall means the ledger has drifted.
func (s *service) debit(wallet *core.Wallet, asset string, amount decimal.Decimal) decimal.Decimal {
	balance := wallet.Balances[asset].Sub(amount)
	if balance.IsNegative() {
		s.logger.Warn("tracked balance below zero after debit",
			"address", wallet.Address, "asset", asset, "balance", balance, "clamp", s.cfg.ClampNegative)

		if s.cfg.ClampNegative {
			balance = decimal.Zero
		}
	}

	wallet.Balances[asset] = balance
	return balance
}
