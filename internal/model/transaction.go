package model

import "time"

// TransactionType is the closed set of event kinds the calculation core
// understands. Raw input tags are normalized once at the parsing boundary;
// anything unrecognized becomes TypeUnknown and is skipped downstream.
type TransactionType string

const (
	TypeBuy      TransactionType = "buy"
	TypeSell     TransactionType = "sell"
	TypeDividend TransactionType = "dividend"
	TypeSplit    TransactionType = "split"
	TypeUnknown  TransactionType = "unknown"
)

// Valid reports whether the type is one of the known event kinds.
func (t TransactionType) Valid() bool {
	switch t {
	case TypeBuy, TypeSell, TypeDividend, TypeSplit:
		return true
	}
	return false
}

// Transaction represents a single trade, dividend, or split event for an
// instrument. Transactions are immutable once parsed; input order carries no
// meaning and the ledger sorts them before folding.
type Transaction struct {
	ID            string          `json:"id,omitempty"`
	Date          time.Time       `json:"date"`
	InstrumentKey string          `json:"instrumentKey"` // e.g. "NASDAQ:AAPL"
	Currency      string          `json:"currency"`
	Type          TransactionType `json:"type"`
	Quantity      float64         `json:"quantity"`
	Price         float64         `json:"price"`
	Fees          float64         `json:"fees"`
	SplitRatio    float64         `json:"splitRatio,omitempty"` // multiplicative share factor, split events only
	CreatedAt     time.Time       `json:"createdAt,omitempty"`
}

// Amount is the cash value of the event: gross cost for a buy, gross
// proceeds for a sell, cash received for a dividend. Fees are not included.
func (t Transaction) Amount() float64 {
	return t.Quantity * t.Price
}

// TransactionEvent is a chart marker for a trade, consumed by the
// presentation layer alongside the price/NAV series.
type TransactionEvent struct {
	Date     time.Time       `json:"date"`
	Type     TransactionType `json:"type"`
	Quantity float64         `json:"quantity"`
	Price    float64         `json:"price"`
}
