package metrics

import (
	"fmt"
	"strings"
	"time"
)

// RangeNames lists the selectable window presets in display order.
var RangeNames = []string{"1W", "MTD", "1M", "3M", "6M", "YTD", "1Y", "5Y", "ALL"}

// Range resolves a named window preset into a concrete [start, end] pair
// anchored at asOf (a zero asOf anchors at the end of the price history).
// Names are case-insensitive. ALL starts at the first price date.
func (e *Engine) Range(name string, asOf time.Time) (time.Time, time.Time, error) {
	if asOf.IsZero() {
		asOf = e.LastDate()
	}

	var start time.Time
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "1W":
		start = asOf.AddDate(0, 0, -7)
	case "MTD":
		start = time.Date(asOf.Year(), asOf.Month(), 1, 0, 0, 0, 0, time.UTC)
	case "1M":
		start = asOf.AddDate(0, -1, 0)
	case "3M":
		start = asOf.AddDate(0, -3, 0)
	case "6M":
		start = asOf.AddDate(0, -6, 0)
	case "YTD":
		start = time.Date(asOf.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	case "1Y":
		start = asOf.AddDate(-1, 0, 0)
	case "5Y":
		start = asOf.AddDate(-5, 0, 0)
	case "ALL":
		if !e.Empty() {
			start = e.dates[0]
		}
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("unknown range %q", name)
	}
	return start, asOf, nil
}

// WindowChangeForRange is the one-call form used by the API: resolve the
// preset, then answer from the prefix sums.
func (e *Engine) WindowChangeForRange(name string, asOf time.Time) (WindowChangeResult, error) {
	start, end, err := e.Range(name, asOf)
	if err != nil {
		return WindowChangeResult{}, err
	}
	return WindowChangeResult{Range: strings.ToUpper(strings.TrimSpace(name)), WindowChange: e.WindowChange(start, end)}, nil
}
