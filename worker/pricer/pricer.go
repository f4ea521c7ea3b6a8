package pricer

import (
	"context"
	"log/slog"
	"time"

	"github.com/pandodao/custody-wallet/core"
)

type Config struct {
	Symbols  []string
	Interval time.Duration
}

func New(
	oracle core.PriceOracle,
	cfg Config,
	logger *slog.Logger,
) *Pricer {
	if cfg.Interval <= 0 {
		cfg.Interval = 20 * time.Second
	}

	return &Pricer{
		oracle: oracle,
		cfg:    cfg,
		logger: logger.With("worker", "pricer"),
	}
}

// Pricer keeps the oracle cache warm so request paths rarely wait on the feed.
type Pricer struct {
	oracle core.PriceOracle
	cfg    Config
	logger *slog.Logger
}

func (w *Pricer) Run(ctx context.Context) error {
	w.logger.Info("pricer start", "symbols", w.cfg.Symbols, "interval", w.cfg.Interval)

	for {
		dur := w.cfg.Interval
		if err := w.run(ctx); err != nil {
			dur = min(dur, 5*time.Second)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(dur):
		}
	}
}

func (w *Pricer) run(ctx context.Context) error {
	if err := w.oracle.Refresh(ctx, w.cfg.Symbols); err != nil {
		w.logger.Error("oracle.Refresh", "err", err)
		return err
	}

	return nil
}
