package model

// Position is the running holding for one (instrument, currency) pair under
// the weighted-average cost model. The valuation fields (CurrentPrice and
// onward) are zero until a price is attached by the valuator.
//
// Positions are pure projections of the transaction stream: they are never
// persisted and can be recomputed from the same inputs at any time.
type Position struct {
	InstrumentKey   string  `json:"instrumentKey"`
	Currency        string  `json:"currency"`
	Shares          float64 `json:"shares"`
	AverageCost     float64 `json:"averageCost"` // 0 when Shares == 0
	TotalCost       float64 `json:"totalCost"`
	CurrentPrice    float64 `json:"currentPrice,omitempty"`
	CurrentValue    float64 `json:"currentValue,omitempty"`
	GainLoss        float64 `json:"gainLoss,omitempty"`
	GainLossPercent float64 `json:"gainLossPercent,omitempty"`
}

// Closed reports whether the position was fully sold out.
func (p Position) Closed() bool {
	return p.Shares == 0
}
