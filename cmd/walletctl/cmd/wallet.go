/*
Copyright © 2024 pando
*/
package cmd

import (
	"fmt"

	"github.com/pandodao/generic"
	"github.com/spf13/cobra"
)

var walletOpt struct {
	email string
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "create a custodial wallet",
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := getClient().CreateWallet(cmd.Context(), walletOpt.email)
		if err != nil {
			return err
		}

		return printJson(cmd, resp)
	},
}

var balanceCmd = &cobra.Command{
	Use:   "balance <address>",
	Short: "show the combined balances of a wallet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := getClient().Balance(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		return printJson(cmd, resp)
	},
}

var historyCmd = &cobra.Command{
	Use:   "history <address>",
	Short: "list the transactions of a wallet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := getClient().History(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		for _, line := range generic.MapSlice(records, formatRecord) {
			cmd.Println(line)
		}

		return nil
	},
}

var pricesCmd = &cobra.Command{
	Use:   "prices",
	Short: "show unit prices",
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := getClient().Prices(cmd.Context())
		if err != nil {
			return err
		}

		return printJson(cmd, resp["prices"])
	},
}

func init() {
	rootCmd.AddCommand(createCmd, balanceCmd, historyCmd, pricesCmd)

	createCmd.Flags().StringVar(&walletOpt.email, "email", "", "contact email (optional)")
}

func formatRecord(r *Record) string {
	line := fmt.Sprintf("%-8s %-9s %s %s  %s -> %s", r.Type, r.Status, r.Amount, r.Currency, r.From, r.To)
	if r.TxHash != "" {
		line += fmt.Sprintf("  [%s %s]", r.Network, r.TxHash)
	}

	return line
}
