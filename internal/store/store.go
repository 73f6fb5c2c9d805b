package store

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/JCaesar45/Chart-the-Stock-Market/pkg/models"
)

var (
	ErrEmptySymbol   = errors.New("symbol is required")
	ErrAlreadyExists = errors.New("stock already exists")
	ErrNotFound      = errors.New("stock not found")
)

// Rand abstracts the randomness source so backfill and price jitter are
// deterministic in tests.
type Rand interface {
	Float64() float64
}

// Store is the authoritative table of tracked instruments. All mutations are
// serialized behind a single mutex; snapshots never expose internal state.
type Store struct {
	mu          sync.RWMutex
	stocks      map[string]*models.Stock
	rand        Rand
	now         func() time.Time
	historyDays int
	colorIndex  int
	logger      *zap.Logger
}

func New(logger *zap.Logger, rnd Rand, now func() time.Time, historyDays int) *Store {
	return &Store{
		stocks:      make(map[string]*models.Stock),
		rand:        rnd,
		now:         now,
		historyDays: historyDays,
		logger:      logger,
	}
}

// Normalize canonicalizes a user-supplied symbol.
func Normalize(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// Seed pre-adds the default instrument set. Duplicates are skipped.
func (s *Store) Seed(symbols []string) {
	for _, sym := range symbols {
		if _, err := s.Add(sym); err != nil {
			s.logger.Warn("Skipping seed symbol", zap.String("symbol", sym), zap.Error(err))
		}
	}
}

// Add tracks a new instrument, backfilling its history via a random walk.
// Returns a snapshot of the new record.
func (s *Store) Add(symbol string) (models.Stock, error) {
	symbol = Normalize(symbol)
	if symbol == "" {
		return models.Stock{}, ErrEmptySymbol
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.stocks[symbol]; ok {
		return models.Stock{}, ErrAlreadyExists
	}

	history := s.generateHistory(symbol)
	current := history[len(history)-1].Y
	previous := history[len(history)-2].Y
	change := round2(current - previous)

	stock := &models.Stock{
		Symbol:        symbol,
		Data:          history,
		Current:       current,
		Change:        change,
		ChangePercent: round2(change / previous * 100),
		Color:         s.nextColor(),
		AddedAt:       s.now().Format(time.RFC3339),
	}
	s.stocks[symbol] = stock

	s.logger.Info("Added stock", zap.String("symbol", symbol), zap.Float64("price", current))
	return copyStock(stock), nil
}

// Remove stops tracking an instrument.
func (s *Store) Remove(symbol string) error {
	symbol = Normalize(symbol)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.stocks[symbol]; !ok {
		return ErrNotFound
	}
	delete(s.stocks, symbol)

	s.logger.Info("Removed stock", zap.String("symbol", symbol))
	return nil
}

// UpdatePrice perturbs the last price by a uniform delta in [-1, 1] and
// appends a new sample stamped now. History is trimmed to the window cap.
func (s *Store) UpdatePrice(symbol string) (models.PriceTick, error) {
	symbol = Normalize(symbol)

	s.mu.Lock()
	defer s.mu.Unlock()

	stock, ok := s.stocks[symbol]
	if !ok {
		return models.PriceTick{}, ErrNotFound
	}

	last := stock.Data[len(stock.Data)-1].Y
	newPrice := round2(last + (s.rand.Float64()-0.5)*2)

	stock.Current = newPrice
	stock.Data = append(stock.Data, models.PricePoint{
		X: s.now().Format(time.RFC3339),
		Y: newPrice,
	})
	if len(stock.Data) > s.historyDays {
		stock.Data = stock.Data[len(stock.Data)-s.historyDays:]
	}

	return models.PriceTick{
		Symbol: symbol,
		Price:  newPrice,
		Change: round2(newPrice - last),
	}, nil
}

// Get returns a snapshot of one instrument.
func (s *Store) Get(symbol string) (models.Stock, bool) {
	symbol = Normalize(symbol)

	s.mu.RLock()
	defer s.mu.RUnlock()

	stock, ok := s.stocks[symbol]
	if !ok {
		return models.Stock{}, false
	}
	return copyStock(stock), true
}

// GetAll returns a consistent point-in-time snapshot of every tracked
// instrument, ordered by symbol.
func (s *Store) GetAll() []models.Stock {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]models.Stock, 0, len(s.stocks))
	for _, stock := range s.stocks {
		all = append(all, copyStock(stock))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Symbol < all[j].Symbol })
	return all
}

// Symbols lists the tracked symbols.
func (s *Store) Symbols() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	symbols := make([]string, 0, len(s.stocks))
	for sym := range s.stocks {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)
	return symbols
}

// Len reports how many instruments are tracked.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.stocks)
}

// History returns the last days samples of an instrument, or the whole series
// when days is non-positive or exceeds its length.
func (s *Store) History(symbol string, days int) ([]models.PricePoint, error) {
	symbol = Normalize(symbol)

	s.mu.RLock()
	defer s.mu.RUnlock()

	stock, ok := s.stocks[symbol]
	if !ok {
		return nil, ErrNotFound
	}

	data := stock.Data
	if days > 0 && days < len(data) {
		data = data[len(data)-days:]
	}
	out := make([]models.PricePoint, len(data))
	copy(out, data)
	return out, nil
}

func copyStock(stock *models.Stock) models.Stock {
	out := *stock
	out.Data = make([]models.PricePoint, len(stock.Data))
	copy(out.Data, stock.Data)
	return out
}
