package main

import "github.com/pandodao/custody-wallet/cmd/walletctl/cmd"

func main() {
	cmd.Execute()
}
