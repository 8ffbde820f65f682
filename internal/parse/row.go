package parse

import (
	"strings"

	"github.com/mvanetten/stock-portfolio-analytics/internal/model"
)

// Row is one raw transaction record as read from a per-currency CSV file:
// date, stock, type, quantity, price, fees, split_ratio.
type Row struct {
	Date       string
	Stock      string
	Type       string
	Quantity   string
	Price      string
	Fees       string
	SplitRatio string
}

// RowResult is the tagged outcome of parsing one row: either a usable
// transaction or a skip with the reason recorded for the import report.
type RowResult struct {
	Transaction model.Transaction
	SkipReason  string
}

// Ok reports whether the row parsed into a transaction.
func (r RowResult) Ok() bool {
	return r.SkipReason == ""
}

func skip(reason string) RowResult {
	return RowResult{SkipReason: reason}
}

// ParseRow validates and converts one raw row. A malformed field skips only
// that row; the caller logs the reason and continues with the rest of the
// stream.
//
// Fees are optional (missing means zero); quantity and price are required
// for buys, sells, and dividends. Splits carry their ratio in the
// split_ratio column and ignore quantity/price.
func ParseRow(row Row, currency string) RowResult {
	date, ok := ParseDate(row.Date)
	if !ok {
		return skip("unparseable date: " + row.Date)
	}

	instrument := strings.TrimSpace(row.Stock)
	if instrument == "" {
		return skip("missing instrument")
	}

	txType := ParseType(row.Type)
	if txType == model.TypeUnknown {
		return skip("unrecognized transaction type: " + row.Type)
	}

	tx := model.Transaction{
		Date:          date,
		InstrumentKey: instrument,
		Currency:      currency,
		Type:          txType,
	}

	if txType == model.TypeSplit {
		ratio, ok := ParseSplitRatio(row.SplitRatio)
		if !ok {
			return skip("invalid split ratio: " + row.SplitRatio)
		}
		tx.SplitRatio = ratio
		return RowResult{Transaction: tx}
	}

	quantity, ok := ParseAmount(row.Quantity)
	if !ok {
		return skip("unparseable quantity: " + row.Quantity)
	}
	price, ok := ParseAmount(row.Price)
	if !ok {
		return skip("unparseable price: " + row.Price)
	}

	fees, ok := ParseAmount(row.Fees)
	if !ok {
		fees = 0
	}

	tx.Quantity = quantity
	tx.Price = price
	tx.Fees = fees
	return RowResult{Transaction: tx}
}
