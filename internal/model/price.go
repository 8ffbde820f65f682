package model

import "time"

// PriceRecord is one day of price history for an instrument. Series are
// supplied ascending by date; only Close is required, the OHLCV extras are
// carried through for charting when the source provides them.
type PriceRecord struct {
	Date   time.Time `json:"date"`
	Close  float64   `json:"close"`
	Open   float64   `json:"open,omitempty"`
	High   float64   `json:"high,omitempty"`
	Low    float64   `json:"low,omitempty"`
	Volume float64   `json:"volume,omitempty"`
}

// ChartDataPoint is a single (date, value) sample of a chart-ready series:
// price, NAV, volume, or position size.
type ChartDataPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}
