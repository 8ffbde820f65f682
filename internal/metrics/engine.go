// Package metrics derives time-series performance figures for a single
// instrument from its price history and transaction stream. All computation
// is pure and in-memory: an Engine does one O(n) replay pass at construction
// and answers every window query from prefix sums afterwards, so interactive
// range toggling never re-walks the history.
package metrics

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/mvanetten/stock-portfolio-analytics/internal/ledger"
	"github.com/mvanetten/stock-portfolio-analytics/internal/model"
)

// Config tunes the statistical conventions. The defaults follow standard
// finance practice but are deliberately parameters, not constants.
type Config struct {
	TradingDaysPerYear  int // annualization factor for volatility
	TrailingWindowYears int // window for drawdown/volatility/best-worst day
}

// DefaultConfig returns the conventional settings: 252 trading days and a
// 5-year trailing window.
func DefaultConfig() Config {
	return Config{TradingDaysPerYear: 252, TrailingWindowYears: 5}
}

// Engine holds the precomputed series for one (instrument, currency) pair.
// Construction replays the transaction stream day-by-day against the price
// history using the same ledger transitions as the position fold.
type Engine struct {
	cfg Config

	dates   []time.Time
	closes  []float64
	volumes []float64

	nav       []float64 // sharesAt[i] * closes[i]
	sharesAt  []float64 // running share count as of dates[i]
	costAt    []float64 // running total cost as of dates[i]
	cumBuy    []float64 // prefix sum of buy amounts with txDate <= dates[i]
	cumSell   []float64 // prefix sum of sell amounts with txDate <= dates[i]
	dividends []model.Transaction
	trades    []model.TransactionEvent

	firstBuyDate  time.Time
	firstInvested float64 // total cost immediately after the first accepted buy
}

// NewEngine builds the engine from an ascending price series and an
// unordered transaction stream. Events the ledger rejects (oversell, bad
// split ratio) are skipped here exactly as the position fold skips them.
func NewEngine(prices []model.PriceRecord, transactions []model.Transaction, cfg Config) *Engine {
	if cfg.TradingDaysPerYear <= 0 {
		cfg.TradingDaysPerYear = 252
	}
	if cfg.TrailingWindowYears <= 0 {
		cfg.TrailingWindowYears = 5
	}

	txs := make([]model.Transaction, len(transactions))
	copy(txs, transactions)
	sort.SliceStable(txs, func(i, j int) bool { return txs[i].Date.Before(txs[j].Date) })

	e := &Engine{
		cfg:      cfg,
		dates:    make([]time.Time, len(prices)),
		closes:   make([]float64, len(prices)),
		volumes:  make([]float64, len(prices)),
		nav:      make([]float64, len(prices)),
		sharesAt: make([]float64, len(prices)),
		costAt:   make([]float64, len(prices)),
		cumBuy:   make([]float64, len(prices)),
		cumSell:  make([]float64, len(prices)),
	}

	var state ledger.State
	var buySum, sellSum float64
	next := 0 // next transaction to apply

	applyThrough := func(date time.Time) {
		for next < len(txs) && !txs[next].Date.After(date) {
			tx := txs[next]
			next++
			if err := state.Apply(tx); err != nil {
				continue
			}
			switch tx.Type {
			case model.TypeBuy:
				buySum += tx.Amount()
				if e.firstBuyDate.IsZero() {
					e.firstBuyDate = tx.Date
					e.firstInvested = state.TotalCost
				}
				e.trades = append(e.trades, model.TransactionEvent{
					Date: tx.Date, Type: tx.Type, Quantity: tx.Quantity, Price: tx.Price,
				})
			case model.TypeSell:
				sellSum += tx.Amount()
				e.trades = append(e.trades, model.TransactionEvent{
					Date: tx.Date, Type: tx.Type, Quantity: tx.Quantity, Price: tx.Price,
				})
			case model.TypeDividend:
				e.dividends = append(e.dividends, tx)
			}
		}
	}

	for i, p := range prices {
		applyThrough(p.Date)
		e.dates[i] = p.Date
		e.closes[i] = p.Close
		e.volumes[i] = p.Volume
		e.sharesAt[i] = state.Shares
		e.costAt[i] = state.TotalCost
		e.nav[i] = state.Shares * p.Close
		e.cumBuy[i] = buySum
		e.cumSell[i] = sellSum
	}

	// Events dated after the last price row (dividends announced today, a
	// split not yet reflected in history) still count for aggregation.
	applyThrough(maxTime)

	return e
}

var maxTime = time.Unix(1<<62, 0)

// indexAt returns the index of the last price date on or before the target,
// or -1 when the target predates the series.
func (e *Engine) indexAt(target time.Time) int {
	return sort.Search(len(e.dates), func(i int) bool {
		return e.dates[i].After(target)
	}) - 1
}

// Empty reports whether the engine has no price history to work from.
func (e *Engine) Empty() bool {
	return len(e.dates) == 0
}

// LastDate returns the most recent price date, the default evaluation point.
func (e *Engine) LastDate() time.Time {
	if e.Empty() {
		return time.Time{}
	}
	return e.dates[len(e.dates)-1]
}

// Metrics computes the full metric set as of the given date. A zero asOf
// evaluates at the end of the price history. The trailing window for
// drawdown, volatility, and best/worst day is cfg.TrailingWindowYears back
// from asOf.
func (e *Engine) Metrics(asOf time.Time) model.StockMetrics {
	var m model.StockMetrics
	if e.Empty() {
		return m
	}
	if asOf.IsZero() {
		asOf = e.LastDate()
	}
	end := e.indexAt(asOf)
	if end < 0 {
		return m
	}

	// The trailing window is inclusive at both ends: a price dated exactly
	// TrailingWindowYears before asOf is part of it.
	windowStart := asOf.AddDate(-e.cfg.TrailingWindowYears, 0, 0)
	start := sort.Search(len(e.dates), func(i int) bool {
		return !e.dates[i].Before(windowStart)
	})
	if start > end {
		start = end
	}

	currentValue := e.nav[end]
	totalCost := e.costAt[end]
	m.TotalReturn = currentValue - totalCost
	if totalCost != 0 {
		m.TotalReturnPercent = (currentValue/totalCost - 1) * 100
	}

	if !e.firstBuyDate.IsZero() && asOf.After(e.firstBuyDate) {
		m.HoldingPeriodDays = int(asOf.Sub(e.firstBuyDate).Hours() / 24)
	}
	if m.HoldingPeriodDays > 0 && e.firstInvested > 0 && currentValue > 0 {
		exponent := 365 / float64(m.HoldingPeriodDays)
		m.AnnualizedReturn = (math.Pow(currentValue/e.firstInvested, exponent) - 1) * 100
	}

	window := e.closes[start : end+1]
	m.HighestPrice = window[0]
	m.LowestPrice = window[0]
	peak := window[0]
	for i, price := range window {
		if price > m.HighestPrice {
			m.HighestPrice = price
		}
		if price < m.LowestPrice {
			m.LowestPrice = price
		}
		if price > peak {
			peak = price
		}
		if dd := peak - price; dd > m.MaxDrawdown {
			m.MaxDrawdown = dd
			if peak > 0 {
				m.MaxDrawdownPercent = dd / peak * 100
			}
		}
		if i == 0 {
			continue
		}
		// The first move seeds both extremes so a window of all-negative
		// (or all-positive) moves still reports its max and min.
		move := price - window[i-1]
		if i == 1 || move > m.BestDayGain {
			m.BestDayGain = move
			m.BestDayGainDate = e.dates[start+i]
		}
		if i == 1 || move < m.WorstDayLoss {
			m.WorstDayLoss = move
			m.WorstDayLossDate = e.dates[start+i]
		}
	}

	m.PriceVolatility = e.annualizedVolatility(window)
	return m
}

// annualizedVolatility is stdev(daily simple returns) * sqrt(trading days),
// expressed in percent. Fewer than two prices yield zero.
func (e *Engine) annualizedVolatility(window []float64) float64 {
	if len(window) < 2 {
		return 0
	}
	returns := make([]float64, 0, len(window)-1)
	for i := 1; i < len(window); i++ {
		if window[i-1] != 0 {
			returns = append(returns, window[i]/window[i-1]-1)
		}
	}
	if len(returns) < 2 {
		return 0
	}
	sd := stat.StdDev(returns, nil)
	if math.IsNaN(sd) {
		return 0
	}
	return sd * math.Sqrt(float64(e.cfg.TradingDaysPerYear)) * 100
}

// WindowChange computes the approximate money-weighted return over
// [start, end]: the NAV movement net of cash flows inside the window,
// related to the capital at work (starting NAV plus buys in the window).
// This is an O(log n) lookup against the prefix sums, not an IRR solve.
func (e *Engine) WindowChange(start, end time.Time) model.WindowChange {
	wc := model.WindowChange{Start: start, End: end}
	if e.Empty() {
		return wc
	}

	endIdx := e.indexAt(end)
	if endIdx < 0 {
		return wc
	}
	startIdx := e.indexAt(start)

	navStart, buyBase, sellBase := 0.0, 0.0, 0.0
	if startIdx >= 0 {
		navStart = e.nav[startIdx]
		buyBase = e.cumBuy[startIdx]
		sellBase = e.cumSell[startIdx]
	}
	navEnd := e.nav[endIdx]
	buys := e.cumBuy[endIdx] - buyBase
	sells := e.cumSell[endIdx] - sellBase

	netFlow := buys - sells
	wc.Change = (navEnd - navStart) - netFlow
	if denom := navStart + buys; denom != 0 {
		wc.PercentChange = wc.Change / denom * 100
	}
	return wc
}

// NAVSeries is the day-by-day net asset value: shares held at each price
// date times that day's close. It reflects position size, unlike the raw
// price series.
func (e *Engine) NAVSeries() []model.ChartDataPoint {
	return e.series(e.nav)
}

// PriceSeries is the raw close series, chart-ready.
func (e *Engine) PriceSeries() []model.ChartDataPoint {
	return e.series(e.closes)
}

// VolumeSeries is the traded-volume series, chart-ready.
func (e *Engine) VolumeSeries() []model.ChartDataPoint {
	return e.series(e.volumes)
}

// PositionSizeSeries is the running share count at each price date.
func (e *Engine) PositionSizeSeries() []model.ChartDataPoint {
	return e.series(e.sharesAt)
}

func (e *Engine) series(values []float64) []model.ChartDataPoint {
	points := make([]model.ChartDataPoint, len(values))
	for i, v := range values {
		points[i] = model.ChartDataPoint{Date: e.dates[i], Value: v}
	}
	return points
}

// TradeMarkers returns the buy/sell events the chart overlays on the series.
func (e *Engine) TradeMarkers() []model.TransactionEvent {
	markers := make([]model.TransactionEvent, len(e.trades))
	copy(markers, e.trades)
	return markers
}
