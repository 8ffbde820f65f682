package model

import "time"

// StockMetrics holds the derived performance figures for one instrument.
// All values are recomputed on demand from the transaction and price inputs
// and are never persisted.
type StockMetrics struct {
	TotalReturn        float64   `json:"totalReturn"`
	TotalReturnPercent float64   `json:"totalReturnPercent"`
	AnnualizedReturn   float64   `json:"annualizedReturn"` // CAGR, percent
	HoldingPeriodDays  int       `json:"holdingPeriodDays"`
	HighestPrice       float64   `json:"highestPrice"`
	LowestPrice        float64   `json:"lowestPrice"`
	PriceVolatility    float64   `json:"priceVolatility"` // annualized, percent
	MaxDrawdown        float64   `json:"maxDrawdown"`
	MaxDrawdownPercent float64   `json:"maxDrawdownPercent"`
	BestDayGain        float64   `json:"bestDayGain"`
	BestDayGainDate    time.Time `json:"bestDayGainDate"`
	WorstDayLoss       float64   `json:"worstDayLoss"`
	WorstDayLossDate   time.Time `json:"worstDayLossDate"`
}

// WindowChange is the approximate money-weighted return over a selectable
// range. Change is the NAV movement net of cash flows inside the window;
// PercentChange relates it to the capital at work over the window.
type WindowChange struct {
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	Change        float64   `json:"change"`
	PercentChange float64   `json:"percentChange"`
}

// PeriodTotal accumulates dividend cash for one calendar bucket
// (a year "2024" or a quarter "2024-Q3").
type PeriodTotal struct {
	Period string  `json:"period"`
	Total  float64 `json:"total"`
	Count  int     `json:"count"`
}

// DividendSummary aggregates an instrument's dividend history.
type DividendSummary struct {
	TotalDividends   float64       `json:"totalDividends"`
	DividendCount    int           `json:"dividendCount"`
	AverageDividend  float64       `json:"averageDividend"`
	LastDividendDate time.Time     `json:"lastDividendDate"`
	AnnualYield      float64       `json:"annualYield"` // trailing 365 days vs current price, percent
	PerYear          []PeriodTotal `json:"perYearTotals"`
	PerQuarter       []PeriodTotal `json:"perQuarterTotals"`
}
