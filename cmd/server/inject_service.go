package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/wire"
	"github.com/pandodao/custody-wallet/core"
	"github.com/pandodao/custody-wallet/service/balance"
	"github.com/pandodao/custody-wallet/service/bonus"
	"github.com/pandodao/custody-wallet/service/chain"
	"github.com/pandodao/custody-wallet/service/price"
	"github.com/pandodao/custody-wallet/service/transfer"
	"github.com/pandodao/custody-wallet/service/wallet"
	"github.com/pandodao/custody-wallet/worker/pricer"
	"github.com/spf13/viper"
)

var serviceSet = wire.NewSet(
	provideGateway,
	provideFetcher,
	providePriceConfig,
	price.New,
	wallet.New,
	provideBalanceConfig,
	balance.New,
	provideTransferConfig,
	transfer.New,
	bonus.New,
	providePricerConfig,
	pricer.New,
)

func provideGateway(ctx context.Context, v *viper.Viper, logger *slog.Logger) (core.ChainGateway, func(), error) {
	v.SetDefault("chain.timeout", 30*time.Second)
	v.SetDefault("chain.confirm_timeout", 2*time.Minute)

	endpoints := chain.DefaultEndpoints()
	for idx, endpoint := range endpoints {
		prefix := fmt.Sprintf("chains.%s.%s.", endpoint.Network, strings.ToLower(endpoint.Asset))
		if rpc := v.GetString(prefix + "rpc"); rpc != "" {
			endpoints[idx].RPC = rpc
		}

		if explorer := v.GetString(prefix + "explorer"); explorer != "" {
			endpoints[idx].Explorer = explorer
		}
	}

	return chain.Dial(ctx, endpoints, v.GetDuration("chain.timeout"), v.GetDuration("chain.confirm_timeout"), logger)
}

func provideFetcher(v *viper.Viper) price.Fetcher {
	return price.NewBinance(price.BinanceConfig{
		Endpoint: v.GetString("price.endpoint"),
		Timeout:  v.GetDuration("price.timeout"),
		Rate:     v.GetFloat64("price.rate"),
	})
}

func providePriceConfig(v *viper.Viper) price.Config {
	return price.Config{
		TTL:     v.GetDuration("price.ttl"),
		Timeout: v.GetDuration("price.timeout"),
	}
}

func provideBalanceConfig(v *viper.Viper) (balance.Config, error) {
	v.SetDefault("chain.balance_network", string(core.NetworkTestnet))

	network, err := core.ParseNetwork(v.GetString("chain.balance_network"))
	if err != nil {
		return balance.Config{}, err
	}

	return balance.Config{
		Network:     network,
		Concurrency: v.GetInt("chain.read_concurrency"),
	}, nil
}

func provideTransferConfig(v *viper.Viper) transfer.Config {
	return transfer.Config{
		ClampNegative: v.GetBool("transfer.clamp_negative"),
	}
}

func providePricerConfig(v *viper.Viper) pricer.Config {
	v.SetDefault("price.quoted", price.Quoted)

	return pricer.Config{
		Symbols:  v.GetStringSlice("price.quoted"),
		Interval: v.GetDuration("price.refresh_interval"),
	}
}
