package feed

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/JCaesar45/Chart-the-Stock-Market/internal/hub"
	"github.com/JCaesar45/Chart-the-Stock-Market/internal/protocol"
	"github.com/JCaesar45/Chart-the-Stock-Market/internal/store"
)

// Churn is the background loop that randomly adds and removes instruments to
// emulate activity from other users. It only acts while at least one observer
// is connected, and every expected failure is a silent skip for that cycle.
type Churn struct {
	hub        *hub.Hub
	store      *store.Store
	logger     *zap.Logger
	rand       Rand
	clock      Clock
	interval   time.Duration
	candidates []string
}

func NewChurn(h *hub.Hub, st *store.Store, logger *zap.Logger, rnd Rand, clock Clock, interval time.Duration, candidates []string) *Churn {
	return &Churn{
		hub:        h,
		store:      st,
		logger:     logger,
		rand:       rnd,
		clock:      clock,
		interval:   interval,
		candidates: candidates,
	}
}

// Run drives the churn simulator until the context is cancelled.
func (c *Churn) Run(ctx context.Context) {
	c.logger.Info("Churn simulator started", zap.Duration("interval", c.interval))

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("Churn simulator stopped")
			return
		default:
			c.clock.Sleep(c.interval)
			c.Cycle()
		}
	}
}

// Cycle performs one churn decision: with 50% probability, and only while an
// observer is connected, add a pool candidate or remove a random tracked
// symbol. An already-tracked candidate is not retried.
func (c *Churn) Cycle() {
	if c.rand.Float64() <= 0.5 {
		return
	}
	if c.hub.ClientCount() == 0 {
		return
	}

	if c.rand.Intn(2) == 0 {
		symbol := c.candidates[c.rand.Intn(len(c.candidates))]
		if err := c.hub.AddStock(nil, symbol, protocol.SourceRemote); err != nil {
			return
		}
		c.logger.Info("Simulated add", zap.String("symbol", symbol))
		return
	}

	symbols := c.store.Symbols()
	if len(symbols) == 0 {
		return
	}
	symbol := symbols[c.rand.Intn(len(symbols))]
	if err := c.hub.RemoveStock(nil, symbol, protocol.SourceRemote); err != nil {
		return
	}
	c.logger.Info("Simulated remove", zap.String("symbol", symbol))
}
