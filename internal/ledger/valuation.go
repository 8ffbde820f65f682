package ledger

import "github.com/mvanetten/stock-portfolio-analytics/internal/model"

// ValuePosition attaches a live or point-in-time price to a position and
// returns a new Position with market value and gain/loss filled in. The
// input is never mutated, so the same position can be revalued repeatedly
// for what-if displays.
func ValuePosition(position model.Position, currentPrice float64) model.Position {
	valued := position
	valued.CurrentPrice = currentPrice
	valued.CurrentValue = position.Shares * currentPrice
	valued.GainLoss = valued.CurrentValue - position.TotalCost
	if position.TotalCost != 0 {
		valued.GainLossPercent = (valued.CurrentValue/position.TotalCost - 1) * 100
	} else {
		valued.GainLossPercent = 0
	}
	return valued
}
