package chain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pandodao/custody-wallet/core"
	"github.com/pandodao/custody-wallet/metrics"
	"github.com/shopspring/decimal"
)

const (
	nativeDecimals = core.NativeDecimals

	valueTransferGas = 21000
)

// Backend is the subset of *ethclient.Client the adapter needs.
type Backend interface {
	bind.DeployBackend
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	ChainID(ctx context.Context) (*big.Int, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
}

type Config struct {
	Network        core.Network  `valid:"required"`
	Asset          string        `valid:"required"`
	Explorer       string        `valid:"url,required"`
	Timeout        time.Duration `valid:"-"`
	ConfirmTimeout time.Duration `valid:"-"`
}

func NewEVM(backend Backend, cfg Config, logger *slog.Logger) core.ChainAdapter {
	if _, err := govalidator.ValidateStruct(cfg); err != nil {
		panic(err)
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	if cfg.ConfirmTimeout <= 0 {
		cfg.ConfirmTimeout = 2 * time.Minute
	}

	return &evmAdapter{
		backend: backend,
		cfg:     cfg,
		logger:  logger.With("chain", string(cfg.Network)+"/"+cfg.Asset),
	}
}

type evmAdapter struct {
	backend Backend
	cfg     Config
	logger  *slog.Logger

	mux     sync.Mutex
	chainID *big.Int
	senders sync.Map // common.Address -> *sync.Mutex
}

func (a *evmAdapter) Network() core.Network {
	return a.cfg.Network
}

func (a *evmAdapter) Asset() string {
	return a.cfg.Asset
}

func (a *evmAdapter) ExplorerURL(txHash string) string {
	return strings.TrimSuffix(a.cfg.Explorer, "/") + "/tx/" + txHash
}

func (a *evmAdapter) chainErr(err error, format string, args ...any) error {
	if errors.Is(err, context.DeadlineExceeded) {
		format += " (timeout)"
	}

	return core.ChainError(err, "%s %s: "+format, append([]any{a.cfg.Network, a.cfg.Asset}, args...)...)
}

func (a *evmAdapter) GetBalance(ctx context.Context, address string) (decimal.Decimal, error) {
	if !common.IsHexAddress(address) {
		return decimal.Zero, core.ValidationError("invalid address %q", address)
	}

	defer metrics.ObserveChainCall(string(a.cfg.Network), a.cfg.Asset, "balance", time.Now())

	ctx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
	defer cancel()

	wei, err := a.backend.BalanceAt(ctx, common.HexToAddress(address), nil)
	if err != nil {
		return decimal.Zero, a.chainErr(err, "read balance of %s", address)
	}

	return decimal.NewFromBigInt(wei, -nativeDecimals), nil
}

func (a *evmAdapter) GetGasPrice(ctx context.Context) (decimal.Decimal, error) {
	gasPrice, err := a.suggestGasPrice(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	return decimal.NewFromBigInt(gasPrice, -nativeDecimals), nil
}

func (a *evmAdapter) suggestGasPrice(ctx context.Context) (*big.Int, error) {
	defer metrics.ObserveChainCall(string(a.cfg.Network), a.cfg.Asset, "gas_price", time.Now())

	ctx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
	defer cancel()

	gasPrice, err := a.backend.SuggestGasPrice(ctx)
	if err != nil {
		return nil, a.chainErr(err, "suggest gas price")
	}

	return gasPrice, nil
}

func (a *evmAdapter) loadChainID(ctx context.Context) (*big.Int, error) {
	a.mux.Lock()
	defer a.mux.Unlock()

	if a.chainID != nil {
		return a.chainID, nil
	}

	ctx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
	defer cancel()

	id, err := a.backend.ChainID(ctx)
	if err != nil {
		return nil, a.chainErr(err, "read chain id")
	}

	a.chainID = id
	return id, nil
}

func (a *evmAdapter) senderLock(sender common.Address) *sync.Mutex {
	mu, _ := a.senders.LoadOrStore(sender, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

func (a *evmAdapter) SendValueTransfer(ctx context.Context, transfer *core.ValueTransfer) (string, error) {
	if transfer.Key == nil {
		return "", core.ValidationError("signing key is required")
	}

	if !common.IsHexAddress(transfer.To) {
		return "", core.ValidationError("invalid recipient %q", transfer.To)
	}

	shifted := transfer.Amount.Shift(nativeDecimals)
	if !shifted.IsInteger() {
		return "", core.ValidationError("amount %s is not a whole number of wei", transfer.Amount)
	}

	value := shifted.BigInt()
	if value.Sign() <= 0 {
		return "", core.ValidationError("amount %s must be positive", transfer.Amount)
	}

	chainID, err := a.loadChainID(ctx)
	if err != nil {
		return "", err
	}

	tx, err := a.submit(ctx, transfer, chainID, value)
	if err != nil {
		return "", err
	}

	hash := tx.Hash().Hex()
	a.logger.Info("transaction submitted", "hash", hash, "from", transfer.From, "to", transfer.To, "amount", transfer.Amount)

	receipt, err := a.waitMined(ctx, tx)
	if err != nil {
		return "", a.chainErr(err, "wait for %s", hash)
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		return "", a.chainErr(fmt.Errorf("receipt status %d", receipt.Status), "transaction %s reverted", hash)
	}

	return hash, nil
}

// submit assigns the nonce and broadcasts. Concurrent sends from the same
// sender are serialized here so they never share a pending nonce.
func (a *evmAdapter) submit(ctx context.Context, transfer *core.ValueTransfer, chainID, value *big.Int) (*types.Transaction, error) {
	sender := crypto.PubkeyToAddress(transfer.Key.PublicKey)

	mu := a.senderLock(sender)
	mu.Lock()
	defer mu.Unlock()

	defer metrics.ObserveChainCall(string(a.cfg.Network), a.cfg.Asset, "send", time.Now())

	gasPrice, err := a.suggestGasPrice(ctx)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
	defer cancel()

	nonce, err := a.backend.PendingNonceAt(ctx, sender)
	if err != nil {
		return nil, a.chainErr(err, "read nonce of %s", sender.Hex())
	}

	to := common.HexToAddress(transfer.To)
	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &to,
		Value:    value,
		Gas:      valueTransferGas,
		GasPrice: gasPrice,
	})

	signed, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), transfer.Key)
	if err != nil {
		return nil, a.chainErr(err, "sign transaction")
	}

	if err := a.backend.SendTransaction(ctx, signed); err != nil {
		return nil, a.chainErr(err, "send transaction")
	}

	return signed, nil
}

func (a *evmAdapter) waitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	defer metrics.ObserveChainCall(string(a.cfg.Network), a.cfg.Asset, "confirm", time.Now())

	ctx, cancel := context.WithTimeout(ctx, a.cfg.ConfirmTimeout)
	defer cancel()

	return bind.WaitMined(ctx, a.backend, tx)
}
