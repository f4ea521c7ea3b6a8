package core

import (
	"github.com/shopspring/decimal"
	"github.com/zyedidia/generic/mapset"
)

const (
	AssetETH  = "ETH"
	AssetBNB  = "BNB"
	AssetRWD  = "RWD"
	AssetBTC  = "BTC"
	AssetUSDT = "USDT"
)

// NativeDecimals is the precision of ETH and BNB on chain.
const NativeDecimals = 18

// NativeAssets are the chain-native assets tracked against a live network.
var NativeAssets = []string{AssetETH, AssetBNB}

var nativeAssets = func() mapset.Set[string] {
	s := mapset.New[string]()
	for _, asset := range NativeAssets {
		s.Put(asset)
	}

	return s
}()

// IsNativeAsset reports whether asset can be transferred on-chain.
func IsNativeAsset(asset string) bool {
	return nativeAssets.Has(asset)
}

// Balances maps asset symbol to amount.
type Balances map[string]decimal.Decimal

func (b Balances) Clone() Balances {
	c := make(Balances, len(b))
	for k, v := range b {
		c[k] = v
	}

	return c
}

// Add credits every amount in bundle, treating missing symbols as zero.
func (b Balances) Add(bundle Balances) {
	for asset, amount := range bundle {
		b[asset] = b[asset].Add(amount)
	}
}

// StarterBundle seeds every new wallet. The gas assets are small but non-zero
// so a fresh wallet can pay fees immediately.
func StarterBundle() Balances {
	return Balances{
		AssetETH:  decimal.RequireFromString("0.1"),
		AssetBNB:  decimal.RequireFromString("0.1"),
		AssetRWD:  decimal.NewFromInt(1000),
		AssetBTC:  decimal.RequireFromString("0.001"),
		AssetUSDT: decimal.NewFromInt(50),
	}
}

// BonusBundle is credited on every bonus claim.
func BonusBundle() Balances {
	return Balances{
		AssetRWD:  decimal.NewFromInt(100),
		AssetBTC:  decimal.RequireFromString("0.0001"),
		AssetUSDT: decimal.NewFromInt(10),
	}
}
