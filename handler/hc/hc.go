package hc

import (
	"net/http"
	"time"

	"github.com/pandodao/custody-wallet/core"
	"github.com/pandodao/custody-wallet/handler/render"
)

func Handler(version string, gateway core.ChainGateway) http.Handler {
	t := time.Now()

	chains := map[core.Network][]string{}
	for _, network := range []core.Network{core.NetworkTestnet, core.NetworkMainnet} {
		for _, adapter := range gateway.Adapters(network) {
			chains[network] = append(chains[network], adapter.Asset())
		}
	}

	fn := func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, http.StatusOK, render.H{
			"version": version,
			"uptime":  time.Since(t).String(),
			"chains":  chains,
		})
	}

	return http.HandlerFunc(fn)
}
