package pricer

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pandodao/custody-wallet/service/servicetest"
	"github.com/stretchr/testify/assert"
)

type countingOracle struct {
	servicetest.Oracle
	refreshes atomic.Int32
	err       error
}

func (o *countingOracle) Refresh(context.Context, []string) error {
	o.refreshes.Add(1)
	return o.err
}

func TestRunRefreshesUntilCancelled(t *testing.T) {
	oracle := &countingOracle{err: errors.New("feed down")}
	w := New(oracle, Config{Symbols: []string{"BTC"}, Interval: 10 * time.Millisecond}, servicetest.Logger())

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := w.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.GreaterOrEqual(t, oracle.refreshes.Load(), int32(2))
}
