package main

import (
	"fmt"
	"log/slog"

	"github.com/google/wire"
	"github.com/pandodao/custody-wallet/core"
	"github.com/pandodao/custody-wallet/store/db"
	"github.com/pandodao/custody-wallet/store/ledger"
	"github.com/spf13/viper"
	"github.com/tsenart/nap"

	_ "github.com/lib/pq"
)

var storeSet = wire.NewSet(
	provideLedger,
)

func provideLedger(v *viper.Viper, logger *slog.Logger) (core.LedgerStore, func(), error) {
	v.SetDefault("store.driver", "memory")

	switch driver := v.GetString("store.driver"); driver {
	case "memory":
		logger.Warn("using the in-memory ledger, wallets are lost on restart")
		return ledger.NewMemory(), func() {}, nil
	case "postgres":
		conn, cleanup, err := provideDB(v)
		if err != nil {
			return nil, nil, err
		}

		return ledger.NewPostgres(conn), cleanup, nil
	default:
		return nil, nil, fmt.Errorf("unknown store.driver %q", driver)
	}
}

func provideDB(v *viper.Viper) (*nap.DB, func(), error) {
	dsn := v.GetString("db.dsn")
	for _, replica := range v.GetStringSlice("db.replicas") {
		dsn += ";" + replica
	}

	conn, err := nap.Open("postgres", dsn)
	if err != nil {
		return nil, nil, err
	}

	if err := db.Migrate(conn.Master()); err != nil {
		_ = conn.Close()
		return nil, nil, err
	}

	return conn, func() { _ = conn.Close() }, nil
}
