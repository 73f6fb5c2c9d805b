package models

// PricePoint is a single sample of an instrument's price history.
// X is a plain date (YYYY-MM-DD) for backfilled samples and an RFC3339
// timestamp for live ticks.
type PricePoint struct {
	X string  `json:"x"`
	Y float64 `json:"y"`
}

// Stock holds everything an observer needs to render one tracked instrument.
type Stock struct {
	Symbol        string       `json:"symbol"`
	Data          []PricePoint `json:"data"`
	Current       float64      `json:"current"`
	Change        float64      `json:"change"`
	ChangePercent float64      `json:"changePercent"`
	Color         string       `json:"color"`
	AddedAt       string       `json:"added_at"`
}

// PriceTick is the outcome of a single simulated price update.
type PriceTick struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
	Change float64 `json:"change"`
}
