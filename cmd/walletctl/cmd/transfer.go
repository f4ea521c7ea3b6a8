/*
Copyright © 2024 pando
*/
package cmd

import (
	"errors"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var transferOpt TransferRequest

// transferCmd represents the transfer command
var transferCmd = &cobra.Command{
	Use:   "transfer",
	Short: "send a native asset on chain",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := decimal.NewFromString(transferOpt.Amount); err != nil {
			return errors.New("amount must be a decimal number")
		}

		// prefer the environment so the key stays out of shell history
		if transferOpt.PrivateKey == "" {
			transferOpt.PrivateKey = os.Getenv("WALLETCTL_PRIVATE_KEY")
		}

		resp, err := getClient().Transfer(cmd.Context(), &transferOpt)
		if err != nil {
			return err
		}

		return printJson(cmd, resp)
	},
}

var claimCmd = &cobra.Command{
	Use:   "claim <address>",
	Short: "claim the bonus bundle",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := getClient().ClaimBonus(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		return printJson(cmd, resp)
	},
}

func init() {
	rootCmd.AddCommand(transferCmd, claimCmd)

	transferCmd.Flags().StringVar(&transferOpt.FromAddress, "from", "", "sender address")
	transferCmd.Flags().StringVar(&transferOpt.ToAddress, "to", "", "recipient address")
	transferCmd.Flags().StringVar(&transferOpt.Amount, "amount", "0", "amount")
	transferCmd.Flags().StringVar(&transferOpt.Currency, "currency", "ETH", "ETH or BNB")
	transferCmd.Flags().StringVar(&transferOpt.PrivateKey, "key", "", "sender private key (or WALLETCTL_PRIVATE_KEY)")
	transferCmd.Flags().StringVar(&transferOpt.NetworkType, "network", "testnet", "testnet or mainnet")
}
