package transfer

import (
	"crypto/ecdsa"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pandodao/custody-wallet/core"
)

func checkRequired(req *core.TransferRequest) error {
	var missing []string
	if req.From == "" {
		missing = append(missing, "fromAddress")
	}

	if req.To == "" {
		missing = append(missing, "toAddress")
	}

	if req.Amount.IsZero() {
		missing = append(missing, "amount")
	}

	if req.Asset == "" {
		missing = append(missing, "currency")
	}

	if req.Key == "" {
		missing = append(missing, "privateKey")
	}

	if len(missing) > 0 {
		return core.ValidationError("missing required fields: %s", strings.Join(missing, ", "))
	}

	return nil
}

// parseKey decodes a hex secp256k1 key and checks it controls from.
func parseKey(hexKey, from string) (*ecdsa.PrivateKey, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(hexKey, "0x"))
	if err != nil {
		return nil, core.ValidationError("malformed private key")
	}

	if crypto.PubkeyToAddress(key.PublicKey) != common.HexToAddress(from) {
		key.D.SetInt64(0)
		return nil, core.ValidationError("private key does not control %s", from)
	}

	return key, nil
}

func checkTransfer(req *core.TransferRequest) (core.Network, error) {
	if !req.Amount.IsPositive() {
		return "", core.ValidationError("amount must be positive")
	}

	// the chain moves whole wei, anything finer would be debited but never sent
	if !req.Amount.Shift(core.NativeDecimals).IsInteger() {
		return "", core.ValidationError("amount %s has more than %d decimal places", req.Amount, core.NativeDecimals)
	}

	if !common.IsHexAddress(req.From) {
		return "", core.ValidationError("invalid fromAddress %q", req.From)
	}

	if !common.IsHexAddress(req.To) {
		return "", core.ValidationError("invalid toAddress %q", req.To)
	}

	return core.ParseNetwork(req.Network)
}
