package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mvanetten/stock-portfolio-analytics/internal/model"
	"github.com/mvanetten/stock-portfolio-analytics/internal/repository"
)

// MakeID returns a fresh UUID string for test rows.
func MakeID() string {
	return uuid.New().String()
}

// Date builds a UTC midnight time from a calendar date, the granularity
// transactions and prices are stored at.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// TransactionBuilder provides a fluent interface for creating test transactions.
//
// Example usage:
//
//	tx := testutil.NewTransaction().
//	    Buy(100, 150.0).
//	    WithFees(10).
//	    On(testutil.Date(2024, 1, 2)).
//	    Build(t, db)
type TransactionBuilder struct {
	tx model.Transaction
}

// NewTransaction creates a TransactionBuilder with sensible defaults.
func NewTransaction() *TransactionBuilder {
	return &TransactionBuilder{
		tx: model.Transaction{
			ID:            MakeID(),
			Date:          Date(2024, time.January, 2),
			InstrumentKey: "NASDAQ:AAPL",
			Currency:      "USD",
			Type:          model.TypeBuy,
			Quantity:      100,
			Price:         150,
		},
	}
}

// ForInstrument sets the instrument key and currency.
func (b *TransactionBuilder) ForInstrument(key, currency string) *TransactionBuilder {
	b.tx.InstrumentKey = key
	b.tx.Currency = currency
	return b
}

// On sets the transaction date.
func (b *TransactionBuilder) On(date time.Time) *TransactionBuilder {
	b.tx.Date = date
	return b
}

// Buy marks the transaction as a purchase of quantity shares at price.
func (b *TransactionBuilder) Buy(quantity, price float64) *TransactionBuilder {
	b.tx.Type = model.TypeBuy
	b.tx.Quantity = quantity
	b.tx.Price = price
	b.tx.SplitRatio = 0
	return b
}

// Sell marks the transaction as a sale of quantity shares at price.
func (b *TransactionBuilder) Sell(quantity, price float64) *TransactionBuilder {
	b.tx.Type = model.TypeSell
	b.tx.Quantity = quantity
	b.tx.Price = price
	b.tx.SplitRatio = 0
	return b
}

// Dividend marks the transaction as a cash dividend on quantity shares at
// perShare each.
func (b *TransactionBuilder) Dividend(quantity, perShare float64) *TransactionBuilder {
	b.tx.Type = model.TypeDividend
	b.tx.Quantity = quantity
	b.tx.Price = perShare
	b.tx.SplitRatio = 0
	return b
}

// Split marks the transaction as a share split with the given multiplicative
// ratio (4 for a 4-for-1 split, 0.5 for a 1-for-2 reverse split).
func (b *TransactionBuilder) Split(ratio float64) *TransactionBuilder {
	b.tx.Type = model.TypeSplit
	b.tx.Quantity = 0
	b.tx.Price = 0
	b.tx.SplitRatio = ratio
	return b
}

// WithFees sets the transaction fees.
func (b *TransactionBuilder) WithFees(fees float64) *TransactionBuilder {
	b.tx.Fees = fees
	return b
}

// Transaction returns the built transaction without storing it, for tests
// that fold in memory.
func (b *TransactionBuilder) Transaction() model.Transaction {
	return b.tx
}

// Build stores the transaction in the database and returns it.
func (b *TransactionBuilder) Build(t *testing.T, db *sql.DB) model.Transaction {
	t.Helper()

	repo := repository.NewTransactionRepository(db)
	tx := b.tx
	if err := repo.Insert(context.Background(), &tx); err != nil {
		t.Fatalf("Failed to create test transaction: %v", err)
	}
	return tx
}

// SecurityBuilder provides a fluent interface for creating test securities.
type SecurityBuilder struct {
	security model.Security
}

// NewSecurity creates a SecurityBuilder with sensible defaults.
func NewSecurity() *SecurityBuilder {
	return &SecurityBuilder{
		security: model.Security{
			ID:       MakeID(),
			Ticker:   "AAPL",
			Name:     "Apple Inc.",
			Exchange: "NASDAQ",
			Currency: "USD",
			Type:     "stock",
		},
	}
}

// WithTicker sets the exchange and ticker.
func (b *SecurityBuilder) WithTicker(exchange, ticker string) *SecurityBuilder {
	b.security.Exchange = exchange
	b.security.Ticker = ticker
	return b
}

// WithCurrency sets the trading currency.
func (b *SecurityBuilder) WithCurrency(currency string) *SecurityBuilder {
	b.security.Currency = currency
	return b
}

// WithAPISymbol sets the price-provider symbol override.
func (b *SecurityBuilder) WithAPISymbol(symbol string) *SecurityBuilder {
	b.security.APISymbol = symbol
	return b
}

// Build stores the security in the database and returns it.
func (b *SecurityBuilder) Build(t *testing.T, db *sql.DB) model.Security {
	t.Helper()

	repo := repository.NewSecurityRepository(db)
	security := b.security
	if err := repo.Upsert(context.Background(), &security); err != nil {
		t.Fatalf("Failed to create test security: %v", err)
	}
	return security
}

// CreatePrices stores a daily close series for a symbol starting at the given
// date, one record per consecutive day.
func CreatePrices(t *testing.T, db *sql.DB, symbol string, start time.Time, closes ...float64) {
	t.Helper()

	records := make([]model.PriceRecord, len(closes))
	for i, close := range closes {
		records[i] = model.PriceRecord{
			Date:  start.AddDate(0, 0, i),
			Close: close,
		}
	}

	repo := repository.NewPriceRepository(db)
	if err := repo.Upsert(context.Background(), symbol, "test", records); err != nil {
		t.Fatalf("Failed to create test prices: %v", err)
	}
}
