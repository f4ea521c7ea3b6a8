package chain

import (
	"context"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pandodao/custody-wallet/core"
)

type key struct {
	network core.Network
	asset   string
}

// NewGateway indexes adapters by (network, asset). Adapters(network) keeps
// registration order.
func NewGateway(adapters ...core.ChainAdapter) core.ChainGateway {
	g := &gateway{adapters: map[key]core.ChainAdapter{}}
	for _, adapter := range adapters {
		k := key{network: adapter.Network(), asset: adapter.Asset()}
		if _, ok := g.adapters[k]; ok {
			continue
		}

		g.adapters[k] = adapter
		g.ordered = append(g.ordered, adapter)
	}

	return g
}

type gateway struct {
	adapters map[key]core.ChainAdapter
	ordered  []core.ChainAdapter
}

func (g *gateway) Adapter(network core.Network, asset string) (core.ChainAdapter, bool) {
	adapter, ok := g.adapters[key{network: network, asset: asset}]
	return adapter, ok
}

func (g *gateway) Adapters(network core.Network) []core.ChainAdapter {
	var adapters []core.ChainAdapter
	for _, adapter := range g.ordered {
		if adapter.Network() == network {
			adapters = append(adapters, adapter)
		}
	}

	return adapters
}

type Endpoint struct {
	Network  core.Network
	Asset    string
	RPC      string
	Explorer string
}

// DefaultEndpoints are public nodes; override them under chains.<network>.<asset>.
func DefaultEndpoints() []Endpoint {
	return []Endpoint{
		{core.NetworkTestnet, core.AssetETH, "https://rpc.sepolia.org", "https://sepolia.etherscan.io"},
		{core.NetworkTestnet, core.AssetBNB, "https://data-seed-prebsc-1-s1.binance.org:8545", "https://testnet.bscscan.com"},
		{core.NetworkMainnet, core.AssetETH, "https://cloudflare-eth.com", "https://etherscan.io"},
		{core.NetworkMainnet, core.AssetBNB, "https://bsc-dataseed.binance.org/", "https://bscscan.com"},
	}
}

// Dial connects an EVM adapter per endpoint. HTTP endpoints connect lazily, so
// an unreachable node surfaces on first use rather than here.
func Dial(ctx context.Context, endpoints []Endpoint, timeout, confirmTimeout time.Duration, logger *slog.Logger) (core.ChainGateway, func(), error) {
	var (
		clients  []*ethclient.Client
		adapters []core.ChainAdapter
	)

	cleanup := func() {
		for _, client := range clients {
			client.Close()
		}
	}

	for _, endpoint := range endpoints {
		client, err := ethclient.DialContext(ctx, endpoint.RPC)
		if err != nil {
			cleanup()
			return nil, nil, core.ChainError(err, "dial %s %s", endpoint.Network, endpoint.Asset)
		}

		clients = append(clients, client)
		adapters = append(adapters, NewEVM(client, Config{
			Network:        endpoint.Network,
			Asset:          endpoint.Asset,
			Explorer:       endpoint.Explorer,
			Timeout:        timeout,
			ConfirmTimeout: confirmTimeout,
		}, logger))
	}

	return NewGateway(adapters...), cleanup, nil
}
