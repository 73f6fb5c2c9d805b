package hub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/JCaesar45/Chart-the-Stock-Market/internal/protocol"
	"github.com/JCaesar45/Chart-the-Stock-Market/internal/store"
	"github.com/JCaesar45/Chart-the-Stock-Market/pkg/models"
)

const defaultHistoryDays = 365

// ClientInterface is the hub's view of one connected observer. The hub never
// touches transport internals, only this surface.
type ClientInterface interface {
	ID() string
	SendJSON(v interface{})
	SendBytes(b []byte)
	Close()
}

// TickSink receives every accepted price tick, after it has been broadcast.
type TickSink interface {
	PublishTick(ctx context.Context, tick models.PriceTick) error
}

// Hub tracks the set of connected observers and fans every store mutation out
// to all of them. Each mutating method holds the hub mutex across the store
// mutation and its broadcast, so observers see per-symbol events in apply
// order.
type Hub struct {
	mu      sync.RWMutex
	clients map[ClientInterface]bool

	store  *store.Store
	sinks  []TickSink
	logger *zap.Logger
}

func NewHub(st *store.Store, logger *zap.Logger, sinks ...TickSink) *Hub {
	return &Hub{
		clients: make(map[ClientInterface]bool),
		store:   st,
		sinks:   sinks,
		logger:  logger,
	}
}

// Join registers an observer and delivers the current instrument set before
// any broadcast the observer could otherwise race with.
func (h *Hub) Join(client ClientInterface) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true
	count := len(h.clients)
	h.logger.Info("Client connected", zap.String("client_id", client.ID()), zap.Int("total", count))

	client.SendJSON(protocol.Envelope{
		Event: protocol.EventInitialData,
		Data: protocol.InitialDataPayload{
			Stocks:      h.store.GetAll(),
			ClientCount: count,
		},
	})
	h.broadcastLocked(protocol.Envelope{
		Event: protocol.EventClientCount,
		Data:  protocol.ClientCountPayload{Count: count},
	})
}

// Leave deregisters an observer and announces the new count.
func (h *Hub) Leave(client ClientInterface) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.clients[client] {
		return
	}
	delete(h.clients, client)
	count := len(h.clients)
	h.logger.Info("Client disconnected", zap.String("client_id", client.ID()), zap.Int("total", count))

	h.broadcastLocked(protocol.Envelope{
		Event: protocol.EventClientCount,
		Data:  protocol.ClientCountPayload{Count: count},
	})
	client.Close()
}

// ClientCount reports the number of registered observers.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// HandleCommand dispatches one observer command. Expected failures are
// reported to the originating observer only.
func (h *Hub) HandleCommand(client ClientInterface, msg protocol.ClientMessage) {
	switch msg.Type {
	case protocol.TypeAddStock:
		h.AddStock(client, msg.Symbol, sourceOrLocal(msg.Source))
	case protocol.TypeRemoveStock:
		h.RemoveStock(client, msg.Symbol, sourceOrLocal(msg.Source))
	case protocol.TypeGetHistory:
		h.sendHistory(client, msg.Symbol, msg.Days)
	default:
		h.sendError(client, "Unknown message type: "+msg.Type)
	}
}

// AddStock adds an instrument and broadcasts the full record to every
// observer, the originator included. A nil origin marks a feed-driven
// mutation, in which case failures are swallowed silently.
func (h *Hub) AddStock(origin ClientInterface, symbol, source string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	stock, err := h.store.Add(symbol)
	if err != nil {
		if origin != nil {
			origin.SendJSON(protocol.Error(wireMessage(err)))
		}
		return err
	}

	payload := protocol.StockAddedPayload{
		Symbol: stock.Symbol,
		Stock:  stock,
		Source: source,
	}
	if origin != nil {
		payload.AddedBy = origin.ID()
	}
	h.broadcastLocked(protocol.Envelope{Event: protocol.EventStockAdded, Data: payload})
	return nil
}

// RemoveStock deletes an instrument and broadcasts the removal.
func (h *Hub) RemoveStock(origin ClientInterface, symbol, source string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.store.Remove(symbol); err != nil {
		if origin != nil {
			origin.SendJSON(protocol.Error(wireMessage(err)))
		}
		return err
	}

	payload := protocol.StockRemovedPayload{
		Symbol: store.Normalize(symbol),
		Source: source,
	}
	if origin != nil {
		payload.RemovedBy = origin.ID()
	}
	h.broadcastLocked(protocol.Envelope{Event: protocol.EventStockRemoved, Data: payload})
	return nil
}

// TickPrice applies one simulated price update and broadcasts the tick.
// Configured sinks receive the tick after the broadcast, best effort.
func (h *Hub) TickPrice(symbol string) error {
	h.mu.Lock()
	tick, err := h.store.UpdatePrice(symbol)
	if err != nil {
		h.mu.Unlock()
		return err
	}
	h.broadcastLocked(protocol.Envelope{Event: protocol.EventPriceUpdate, Data: tick})
	h.mu.Unlock()

	h.publishTick(tick)
	return nil
}

// ReportError delivers a message to a single observer, never broadcast.
func (h *Hub) ReportError(client ClientInterface, message string) {
	h.sendError(client, message)
}

func (h *Hub) sendHistory(client ClientInterface, symbol string, days int) {
	if days <= 0 {
		days = defaultHistoryDays
	}
	history, err := h.store.History(symbol, days)
	if err != nil {
		h.sendError(client, fmt.Sprintf("Stock %s not found", store.Normalize(symbol)))
		return
	}
	client.SendJSON(protocol.Envelope{
		Event: protocol.EventHistoryData,
		Data: protocol.HistoryDataPayload{
			Symbol: store.Normalize(symbol),
			Data:   history,
		},
	})
}

// broadcastLocked marshals once and fans out to every client. Caller holds at
// least a read lock.
func (h *Hub) broadcastLocked(env protocol.Envelope) {
	payload, err := json.Marshal(env)
	if err != nil {
		h.logger.Error("Broadcast marshal error", zap.Error(err))
		return
	}
	for client := range h.clients {
		client.SendBytes(payload)
	}
}

func (h *Hub) publishTick(tick models.PriceTick) {
	for _, sink := range h.sinks {
		if err := sink.PublishTick(context.Background(), tick); err != nil {
			h.logger.Error("Tick sink error", zap.String("symbol", tick.Symbol), zap.Error(err))
		}
	}
}

func (h *Hub) sendError(client ClientInterface, message string) {
	client.SendJSON(protocol.Error(message))
}

// wireMessage maps store sentinels to the messages observers expect.
func wireMessage(err error) string {
	switch {
	case errors.Is(err, store.ErrEmptySymbol):
		return "Symbol is required"
	case errors.Is(err, store.ErrAlreadyExists):
		return "Stock already exists"
	case errors.Is(err, store.ErrNotFound):
		return "Stock not found"
	default:
		return err.Error()
	}
}

func sourceOrLocal(source string) string {
	if source == "" {
		return protocol.SourceLocal
	}
	return source
}
