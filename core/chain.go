package core

import (
	"context"
	"crypto/ecdsa"

	"github.com/shopspring/decimal"
)

type Network string

const (
	NetworkTestnet Network = "testnet"
	NetworkMainnet Network = "mainnet"
)

func ParseNetwork(s string) (Network, error) {
	switch n := Network(s); n {
	case NetworkTestnet, NetworkMainnet:
		return n, nil
	case "":
		return NetworkTestnet, nil
	default:
		return "", ValidationError("unknown network %q", s)
	}
}

type ValueTransfer struct {
	From   string
	To     string
	Amount decimal.Decimal
	// Key signs the transaction. Adapters must not retain it.
	Key *ecdsa.PrivateKey
}

// ChainAdapter talks to one chain-native asset on one network.
type ChainAdapter interface {
	Network() Network
	Asset() string
	GetBalance(ctx context.Context, address string) (decimal.Decimal, error)
	// GetGasPrice returns the current gas price in units of the native asset.
	GetGasPrice(ctx context.Context) (decimal.Decimal, error)
	// SendValueTransfer signs, submits and waits for the transfer to be mined,
	// returning the transaction hash.
	SendValueTransfer(ctx context.Context, transfer *ValueTransfer) (string, error)
	ExplorerURL(txHash string) string
}

type ChainGateway interface {
	Adapter(network Network, asset string) (ChainAdapter, bool)
	Adapters(network Network) []ChainAdapter
}
