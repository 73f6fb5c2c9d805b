package store_test

import (
	"errors"
	"math"
	"math/rand"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/JCaesar45/Chart-the-Stock-Market/internal/store"
)

func fixedNow() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func newStore() *store.Store {
	return store.New(zap.NewNop(), rand.New(rand.NewSource(1)), fixedNow, 365)
}

func TestAdd_NormalizesAndBackfills(t *testing.T) {
	s := newStore()

	stock, err := s.Add("  aapl ")
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if stock.Symbol != "AAPL" {
		t.Errorf("Expected normalized symbol AAPL, got %s", stock.Symbol)
	}
	if len(stock.Data) != 366 {
		t.Errorf("Expected 366 backfilled samples (365 days back + today), got %d", len(stock.Data))
	}

	last := stock.Data[len(stock.Data)-1]
	prev := stock.Data[len(stock.Data)-2]
	if stock.Current != last.Y {
		t.Errorf("Current %v should equal last sample %v", stock.Current, last.Y)
	}
	wantChange := math.Round((last.Y-prev.Y)*100) / 100
	if stock.Change != wantChange {
		t.Errorf("Change %v, want %v", stock.Change, wantChange)
	}
	wantPercent := math.Round(wantChange/prev.Y*100*100) / 100
	if stock.ChangePercent != wantPercent {
		t.Errorf("ChangePercent %v, want %v", stock.ChangePercent, wantPercent)
	}
	if stock.AddedAt != fixedNow().Format(time.RFC3339) {
		t.Errorf("AddedAt %s, want %s", stock.AddedAt, fixedNow().Format(time.RFC3339))
	}
	if last.X != "2025-06-01" {
		t.Errorf("Final sample should be stamped today, got %s", last.X)
	}
	if stock.Data[0].X != "2024-06-01" {
		t.Errorf("First sample should be 365 days back, got %s", stock.Data[0].X)
	}
}

func TestAdd_TimestampsNonDecreasing(t *testing.T) {
	s := newStore()
	stock, _ := s.Add("GOOGL")

	for i := 1; i < len(stock.Data); i++ {
		if stock.Data[i].X < stock.Data[i-1].X {
			t.Fatalf("Timestamps out of order at %d: %s < %s", i, stock.Data[i].X, stock.Data[i-1].X)
		}
	}
}

func TestAdd_Duplicate(t *testing.T) {
	s := newStore()

	first, _ := s.Add("AAPL")
	_, err := s.Add("aapl")
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Fatalf("Expected ErrAlreadyExists, got %v", err)
	}

	if s.Len() != 1 {
		t.Errorf("Store should still contain exactly one record, got %d", s.Len())
	}
	got, _ := s.Get("AAPL")
	if got.Current != first.Current {
		t.Errorf("Existing record must be unchanged: %v vs %v", got.Current, first.Current)
	}
}

func TestAdd_EmptySymbol(t *testing.T) {
	s := newStore()

	for _, sym := range []string{"", "   "} {
		if _, err := s.Add(sym); !errors.Is(err, store.ErrEmptySymbol) {
			t.Errorf("Add(%q): expected ErrEmptySymbol, got %v", sym, err)
		}
	}
}

func TestAdd_ColorsCycle(t *testing.T) {
	s := newStore()
	symbols := []string{"A1", "A2", "A3", "A4", "A5", "A6", "A7", "A8", "A9"}

	var colors []string
	for _, sym := range symbols {
		stock, err := s.Add(sym)
		if err != nil {
			t.Fatalf("Add(%s): %v", sym, err)
		}
		colors = append(colors, stock.Color)
	}

	if colors[0] == colors[1] {
		t.Errorf("Consecutive adds should get distinct colors, both got %s", colors[0])
	}
	if colors[8] != colors[0] {
		t.Errorf("Palette should cycle after 8 colors: got %s, want %s", colors[8], colors[0])
	}
}

func TestUpdatePrice_AppendsAndTrims(t *testing.T) {
	s := newStore()
	added, _ := s.Add("AAPL")
	last := added.Data[len(added.Data)-1].Y

	tick, err := s.UpdatePrice("aapl")
	if err != nil {
		t.Fatalf("UpdatePrice failed: %v", err)
	}

	if tick.Symbol != "AAPL" {
		t.Errorf("Tick symbol %s, want AAPL", tick.Symbol)
	}
	if math.Abs(tick.Change) > 1.01 {
		t.Errorf("Delta must be in [-1, 1], got %v", tick.Change)
	}
	if got := math.Round((tick.Price-last)*100) / 100; got != tick.Change {
		t.Errorf("Change %v inconsistent with price delta %v", tick.Change, got)
	}

	stock, _ := s.Get("AAPL")
	if stock.Current != tick.Price {
		t.Errorf("Current %v should equal tick price %v", stock.Current, tick.Price)
	}
	if len(stock.Data) != 365 {
		t.Errorf("History must be capped at 365 after an update, got %d", len(stock.Data))
	}
	newest := stock.Data[len(stock.Data)-1]
	if newest.Y != tick.Price {
		t.Errorf("Last sample %v should hold the new price %v", newest.Y, tick.Price)
	}
	if newest.X != fixedNow().Format(time.RFC3339) {
		t.Errorf("New sample stamped %s, want %s", newest.X, fixedNow().Format(time.RFC3339))
	}

	// At the cap the window slides: length stays fixed.
	oldest := stock.Data[0]
	if _, err := s.UpdatePrice("AAPL"); err != nil {
		t.Fatalf("Second update failed: %v", err)
	}
	stock, _ = s.Get("AAPL")
	if len(stock.Data) != 365 {
		t.Errorf("History length should stay 365 at the cap, got %d", len(stock.Data))
	}
	if stock.Data[0] == oldest {
		t.Errorf("Oldest sample should have been evicted")
	}
}

func TestUpdatePrice_NotFound(t *testing.T) {
	s := newStore()
	if _, err := s.UpdatePrice("MISSING"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestRemove(t *testing.T) {
	s := newStore()
	s.Add("AAPL")

	if err := s.Remove("aapl"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("Store should be empty after removal")
	}
	if err := s.Remove("AAPL"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Second removal should fail with ErrNotFound, got %v", err)
	}
}

func TestHistory(t *testing.T) {
	s := newStore()
	s.Add("AAPL")

	history, err := s.History("aapl", 30)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 30 {
		t.Errorf("Expected last 30 samples, got %d", len(history))
	}

	full, _ := s.History("AAPL", 0)
	if len(full) != 366 {
		t.Errorf("Non-positive days should return the whole series, got %d", len(full))
	}
	if history[29] != full[len(full)-1] {
		t.Errorf("Slice should end at the newest sample")
	}

	whole, _ := s.History("AAPL", 1000)
	if len(whole) != 366 {
		t.Errorf("Days beyond length should return the whole series, got %d", len(whole))
	}

	if _, err := s.History("MISSING", 30); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for untracked symbol, got %v", err)
	}
}

func TestGetAll_SnapshotIsIsolated(t *testing.T) {
	s := newStore()
	s.Add("AAPL")

	snapshot := s.GetAll()
	if len(snapshot) != 1 {
		t.Fatalf("Expected 1 stock, got %d", len(snapshot))
	}
	snapshot[0].Data[0].Y = -1

	fresh, _ := s.Get("AAPL")
	if fresh.Data[0].Y == -1 {
		t.Errorf("Mutating a snapshot must not affect the store")
	}
}

func TestSeed_SkipsDuplicates(t *testing.T) {
	s := newStore()
	s.Seed([]string{"AAPL", "GOOGL", "aapl"})

	if s.Len() != 2 {
		t.Errorf("Seed should skip duplicates, got %d stocks", s.Len())
	}
}
