package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "custody"

var (
	transfers = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transfers_total",
		Help:      "Transfers by asset, network and result.",
	}, []string{"asset", "network", "result"})

	chainCallSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "chain_call_seconds",
		Help:      "Latency of chain node calls.",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
	}, []string{"network", "asset", "method"})

	priceFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "price_fallbacks_total",
		Help:      "Price lookups served from the static table.",
	}, []string{"symbol"})

	bonusClaims = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bonus_claims_total",
		Help:      "Bonus bundles credited.",
	})

	walletsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "wallets_created_total",
		Help:      "Custodial wallets issued.",
	})
)

func Transfer(asset, network string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}

	transfers.WithLabelValues(asset, network, result).Inc()
}

// ObserveChainCall is meant to be deferred: defer metrics.ObserveChainCall(n, a, "send", time.Now())
func ObserveChainCall(network, asset, method string, start time.Time) {
	chainCallSeconds.WithLabelValues(network, asset, method).Observe(time.Since(start).Seconds())
}

func PriceFallback(symbol string) {
	priceFallbacks.WithLabelValues(symbol).Inc()
}

func BonusClaimed() {
	bonusClaims.Inc()
}

func WalletCreated() {
	walletsCreated.Inc()
}
