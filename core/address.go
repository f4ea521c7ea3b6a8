package core

import (
	"github.com/ethereum/go-ethereum/common"
)

// NormalizeAddress returns the checksummed form of a hex address so lookups do
// not depend on the caller's letter case. Other strings are returned as is.
func NormalizeAddress(address string) string {
	if !common.IsHexAddress(address) {
		return address
	}

	return common.HexToAddress(address).Hex()
}
