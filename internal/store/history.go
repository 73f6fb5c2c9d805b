package store

import (
	"math"

	"github.com/JCaesar45/Chart-the-Stock-Market/pkg/models"
)

// Per-step volatility of the backfill random walk.
const backfillVolatility = 0.015

// Reference prices for well-known symbols; unknown symbols start from a
// random base in [100, 300).
var basePrices = map[string]float64{
	"AAPL": 175.50, "GOOGL": 142.30, "MSFT": 380.20,
	"AMZN": 155.80, "TSLA": 245.60, "META": 505.20,
	"NVDA": 485.10, "NFLX": 485.90, "AMD": 145.30,
	"INTC": 42.50, "CRM": 285.40, "ORCL": 115.20,
	"UBER": 65.20, "COIN": 145.80, "PLTR": 16.50,
	"SQ": 75.30, "SHOP": 120.40,
}

var colorPalette = []string{
	"#00f3ff", "#ff00ff", "#00ff88", "#ffaa00",
	"#bc13fe", "#ff0055", "#00ffff", "#ffff00",
}

// generateHistory synthesizes a plausible historical series: a multiplicative
// random walk of up to ±1.5% per day, from historyDays ago through today.
// Caller holds the store lock.
func (s *Store) generateHistory(symbol string) []models.PricePoint {
	base, ok := basePrices[symbol]
	if !ok {
		base = 100 + s.rand.Float64()*200
	}

	end := s.now()
	current := base
	points := make([]models.PricePoint, 0, s.historyDays+1)
	for i := s.historyDays; i >= 0; i-- {
		step := (s.rand.Float64() - 0.5) * 2 * backfillVolatility
		current = current * (1 + step)
		points = append(points, models.PricePoint{
			X: end.AddDate(0, 0, -i).Format("2006-01-02"),
			Y: round2(current),
		})
	}
	return points
}

// nextColor cycles through the fixed palette. Caller holds the store lock.
func (s *Store) nextColor() string {
	color := colorPalette[s.colorIndex%len(colorPalette)]
	s.colorIndex++
	return color
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
