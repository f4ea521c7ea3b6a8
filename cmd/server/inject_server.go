package main

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/wire"
	"github.com/pandodao/custody-wallet/core"
	"github.com/pandodao/custody-wallet/handler/api"
	"github.com/pandodao/custody-wallet/handler/hc"
	"github.com/pandodao/custody-wallet/service/price"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/spf13/viper"
)

var serverSet = wire.NewSet(
	provideApiConfig,
	api.New,
	provideServer,
)

func provideApiConfig(v *viper.Viper) api.Config {
	v.SetDefault("price.symbols", append(append([]string{}, price.Quoted...), core.AssetUSDT, price.AssetUSDC))

	return api.Config{
		PriceSymbols: v.GetStringSlice("price.symbols"),
	}
}

func provideServer(apiHandler *api.Server, gateway core.ChainGateway) *http.Server {
	m := chi.NewMux()
	m.Use(middleware.RealIP)
	m.Use(middleware.Logger)
	m.Use(middleware.Recoverer)
	m.Use(cors.AllowAll().Handler)

	m.Mount("/api", apiHandler.Handler())
	m.Mount("/hc", hc.Handler(version, gateway))
	m.Handle("/metrics", promhttp.Handler())

	return &http.Server{
		Addr:    fmt.Sprintf(":%d", opt.port),
		Handler: m,
	}
}
