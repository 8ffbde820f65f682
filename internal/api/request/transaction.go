package request

// CreateTransactionRequest is the payload for POST /api/transactions. Numeric
// fields arrive as strings and pass through the tolerant parse boundary, same
// as CSV rows, so "$1,234.56" and "(10)" behave identically on both paths.
type CreateTransactionRequest struct {
	Date          string `json:"date"`
	InstrumentKey string `json:"instrumentKey"`
	Currency      string `json:"currency"`
	Type          string `json:"type"`
	Quantity      string `json:"quantity"`
	Price         string `json:"price"`
	Fees          string `json:"fees"`
	SplitRatio    string `json:"splitRatio"`
}
