package metrics

import (
	"fmt"
	"sort"
	"time"

	"github.com/mvanetten/stock-portfolio-analytics/internal/model"
)

// WindowChangeResult pairs a resolved range name with its computed change.
type WindowChangeResult struct {
	Range string `json:"range"`
	model.WindowChange
}

// SummarizeDividends aggregates dividend-type transactions into calendar
// buckets and the trailing-twelve-month yield. Non-dividend events are
// ignored, so callers may pass a full mixed stream. The yield relates the
// dividend cash received in the 365 days before asOf to the current price;
// a zero price yields zero, never NaN.
func SummarizeDividends(transactions []model.Transaction, currentPrice float64, asOf time.Time) model.DividendSummary {
	var summary model.DividendSummary
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}

	years := make(map[string]*model.PeriodTotal)
	quarters := make(map[string]*model.PeriodTotal)
	ttmStart := asOf.AddDate(0, 0, -365)
	var ttmTotal float64

	for _, tx := range transactions {
		if tx.Type != model.TypeDividend {
			continue
		}
		amount := tx.Amount()

		summary.TotalDividends += amount
		summary.DividendCount++
		if tx.Date.After(summary.LastDividendDate) {
			summary.LastDividendDate = tx.Date
		}
		if tx.Date.After(ttmStart) && !tx.Date.After(asOf) {
			ttmTotal += amount
		}

		year := fmt.Sprintf("%04d", tx.Date.Year())
		quarter := fmt.Sprintf("%s-Q%d", year, (int(tx.Date.Month())-1)/3+1)
		bump(years, year, amount)
		bump(quarters, quarter, amount)
	}

	if summary.DividendCount > 0 {
		summary.AverageDividend = summary.TotalDividends / float64(summary.DividendCount)
	}
	if currentPrice != 0 {
		summary.AnnualYield = ttmTotal / currentPrice * 100
	}
	summary.PerYear = sortedTotals(years)
	summary.PerQuarter = sortedTotals(quarters)
	return summary
}

// Dividends summarizes the dividends observed during the engine's replay.
func (e *Engine) Dividends(currentPrice float64, asOf time.Time) model.DividendSummary {
	if asOf.IsZero() {
		asOf = e.LastDate()
	}
	return SummarizeDividends(e.dividends, currentPrice, asOf)
}

func bump(buckets map[string]*model.PeriodTotal, period string, amount float64) {
	bucket, ok := buckets[period]
	if !ok {
		bucket = &model.PeriodTotal{Period: period}
		buckets[period] = bucket
	}
	bucket.Total += amount
	bucket.Count++
}

func sortedTotals(buckets map[string]*model.PeriodTotal) []model.PeriodTotal {
	totals := make([]model.PeriodTotal, 0, len(buckets))
	for _, bucket := range buckets {
		totals = append(totals, *bucket)
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].Period < totals[j].Period })
	return totals
}
