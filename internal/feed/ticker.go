package feed

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/JCaesar45/Chart-the-Stock-Market/internal/hub"
	"github.com/JCaesar45/Chart-the-Stock-Market/internal/store"
)

// Ticker is the background loop that perturbs one random instrument's price
// per cycle. It holds no state beyond its schedule.
type Ticker struct {
	hub      *hub.Hub
	store    *store.Store
	logger   *zap.Logger
	rand     Rand
	clock    Clock
	interval time.Duration
}

func NewTicker(h *hub.Hub, st *store.Store, logger *zap.Logger, rnd Rand, clock Clock, interval time.Duration) *Ticker {
	return &Ticker{
		hub:      h,
		store:    st,
		logger:   logger,
		rand:     rnd,
		clock:    clock,
		interval: interval,
	}
}

// Run drives the price ticker until the context is cancelled.
func (t *Ticker) Run(ctx context.Context) {
	t.logger.Info("Price ticker started", zap.Duration("interval", t.interval))

	for {
		select {
		case <-ctx.Done():
			t.logger.Info("Price ticker stopped")
			return
		default:
			t.clock.Sleep(t.interval)
			t.Tick()
		}
	}
}

// Tick performs one cycle: pick a uniform random tracked symbol and update its
// price. An empty store, or a symbol removed between pick and update, is a
// silent no-op.
func (t *Ticker) Tick() {
	symbols := t.store.Symbols()
	if len(symbols) == 0 {
		return
	}

	symbol := symbols[t.rand.Intn(len(symbols))]
	if err := t.hub.TickPrice(symbol); err != nil {
		t.logger.Debug("Skipping tick", zap.String("symbol", symbol), zap.Error(err))
		return
	}
	t.logger.Debug("Price update", zap.String("symbol", symbol))
}
