// Package ledger folds chronologically ordered transaction events into
// holdings under the weighted-average cost model. The same Apply primitive
// drives both the current-position fold and the day-by-day NAV replay in the
// metrics engine, so the two can never disagree on transition rules.
package ledger

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/mvanetten/stock-portfolio-analytics/internal/model"
)

// Epsilon bounds the floating-point residue tolerated when comparing share
// counts and when checking the totalCost == averageCost*shares invariant.
const Epsilon = 1e-9

// ErrInvalidSplitRatio marks a split event whose ratio is zero, negative, or
// non-finite. The event is skipped; the rest of the stream still folds.
var ErrInvalidSplitRatio = errors.New("invalid split ratio")

// OversellError reports a sell whose quantity exceeds the shares held at
// that point in the stream. The sell is rejected rather than clamped; state
// is left untouched.
type OversellError struct {
	InstrumentKey string
	Currency      string
	Date          time.Time
	Requested     float64
	Held          float64
}

func (e *OversellError) Error() string {
	return fmt.Sprintf("oversell of %s (%s) on %s: sell %.4f exceeds %.4f held",
		e.InstrumentKey, e.Currency, e.Date.Format("2006-01-02"), e.Requested, e.Held)
}

// State is the running {shares, totalCost} pair for one (instrument,
// currency) group. The zero value is the empty state.
type State struct {
	Shares    float64
	TotalCost float64
}

// AverageCost is the weighted-average cost per share, defined as zero for an
// empty state so callers never see NaN.
func (s *State) AverageCost() float64 {
	if s.Shares > 0 {
		return s.TotalCost / s.Shares
	}
	return 0
}

// Apply advances the state by one event:
//
//   - buy: adds quantity*price+fees to cost, quantity to shares
//   - sell: removes cost at the current average cost (realized P&L is the
//     caller's concern, never stored here)
//   - dividend: no state change; dividends feed the separate aggregation
//   - split: rescales shares by the ratio, cost unchanged; a split against
//     zero shares is a no-op
//
// A rejected event (oversell, bad split ratio) returns an error and leaves
// the state exactly as it was.
func (s *State) Apply(tx model.Transaction) error {
	switch tx.Type {
	case model.TypeBuy:
		s.TotalCost += tx.Quantity*tx.Price + tx.Fees
		s.Shares += tx.Quantity

	case model.TypeSell:
		if tx.Quantity > s.Shares+Epsilon {
			return &OversellError{
				InstrumentKey: tx.InstrumentKey,
				Currency:      tx.Currency,
				Date:          tx.Date,
				Requested:     tx.Quantity,
				Held:          s.Shares,
			}
		}
		s.TotalCost -= tx.Quantity * s.AverageCost()
		s.Shares -= tx.Quantity
		if s.Shares <= Epsilon {
			s.Shares = 0
			s.TotalCost = 0
		}

	case model.TypeDividend:
		// Cash event only.

	case model.TypeSplit:
		if s.Shares == 0 {
			return nil
		}
		ratio := tx.SplitRatio
		if ratio <= 0 || math.IsNaN(ratio) || math.IsInf(ratio, 0) {
			return fmt.Errorf("%w: %v", ErrInvalidSplitRatio, ratio)
		}
		s.Shares *= ratio
	}
	return nil
}

type groupKey struct {
	instrument string
	currency   string
}

// BuildPositions folds an unordered transaction stream into one Position per
// (instrument, currency) group that ever held shares.
//
// Within a group, events are sorted ascending by date with input order
// breaking ties, so repeated runs over the same input are deterministic.
// A group whose only events are splits or dividends before any buy emits
// nothing. A fully sold-out group is still emitted with Shares == 0.
//
// Rejected events (oversell, invalid split ratio) are skipped and their
// errors joined into the returned error; the surviving positions are always
// valid, so callers may treat the error as a warning.
func BuildPositions(transactions []model.Transaction) ([]model.Position, error) {
	groups := make(map[groupKey][]model.Transaction)
	var order []groupKey
	for _, tx := range transactions {
		key := groupKey{tx.InstrumentKey, tx.Currency}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], tx)
	}

	sort.Slice(order, func(i, j int) bool {
		if order[i].instrument != order[j].instrument {
			return order[i].instrument < order[j].instrument
		}
		return order[i].currency < order[j].currency
	})

	var positions []model.Position
	var rejected []error
	for _, key := range order {
		events := groups[key]
		sort.SliceStable(events, func(i, j int) bool {
			return events[i].Date.Before(events[j].Date)
		})

		var state State
		everHeld := false
		for _, tx := range events {
			if err := state.Apply(tx); err != nil {
				rejected = append(rejected, err)
				continue
			}
			if state.Shares > 0 {
				everHeld = true
			}
		}

		if !everHeld {
			continue
		}
		positions = append(positions, model.Position{
			InstrumentKey: key.instrument,
			Currency:      key.currency,
			Shares:        state.Shares,
			AverageCost:   state.AverageCost(),
			TotalCost:     state.TotalCost,
		})
	}

	return positions, errors.Join(rejected...)
}
