// Package parse is the tolerant boundary between raw textual rows and the
// typed transaction model. Field-level failures never abort a whole stream:
// callers receive a skip reason per bad row and keep going.
package parse

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/mvanetten/stock-portfolio-analytics/internal/model"
)

// currencyMarkers are stripped from the front of amounts before numeric
// parsing. Multi-character prefixes must come before their single-character
// tails so "NT$1,000" is not left with a dangling "NT".
var currencyMarkers = []string{
	"NT$", "HK$", "US$", "$", "€", "£", "¥", "₩", "USD", "TWD", "JPY", "HKD",
}

// ParseAmount converts a currency-prefixed, comma-separated numeric string
// into a float64. Parenthesized values are negative, per accounting
// convention. The second return value is false for empty or non-numeric
// input so callers can tell "missing" apart from a literal zero.
func ParseAmount(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	if strings.HasPrefix(s, "-") {
		negative = !negative
		s = s[1:]
	}

	s = strings.TrimSpace(s)
	for _, marker := range currencyMarkers {
		if strings.HasPrefix(s, marker) {
			s = strings.TrimSpace(strings.TrimPrefix(s, marker))
			break
		}
	}
	s = strings.ReplaceAll(s, ",", "")

	value, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	if negative {
		value = -value
	}
	return value, true
}

// typeSynonyms maps the tags brokers actually export to the canonical kinds.
var typeSynonyms = map[string]model.TransactionType{
	"buy":      model.TypeBuy,
	"purchase": model.TypeBuy,
	"sell":     model.TypeSell,
	"sale":     model.TypeSell,
	"dividend": model.TypeDividend,
	"div":      model.TypeDividend,
	"split":    model.TypeSplit,
}

// ParseType normalizes a raw, case-insensitive transaction type tag into the
// closed TransactionType set. Unrecognized tags map to TypeUnknown rather
// than being coerced, so downstream code can skip-and-warn.
func ParseType(raw string) model.TransactionType {
	tag := strings.ToLower(strings.TrimSpace(raw))
	if t, ok := typeSynonyms[tag]; ok {
		return t
	}
	return model.TypeUnknown
}

// ParseSplitRatio resolves a split ratio from either a single factor ("4",
// "0.5") or a numerator/denominator pair ("4/1", "4:1", "1:2"). A zero,
// negative, or non-finite ratio is a parse failure for the event.
func ParseSplitRatio(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}

	for _, sep := range []string{"/", ":"} {
		if num, den, found := strings.Cut(s, sep); found {
			n, okN := ParseAmount(num)
			d, okD := ParseAmount(den)
			if !okN || !okD || d == 0 {
				return 0, false
			}
			return checkRatio(n / d)
		}
	}

	factor, ok := ParseAmount(s)
	if !ok {
		return 0, false
	}
	return checkRatio(factor)
}

func checkRatio(ratio float64) (float64, bool) {
	if ratio <= 0 || math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return 0, false
	}
	return ratio, true
}

// ParseDate parses a date in "2006-01-02" or RFC3339 form, normalized to UTC.
func ParseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.UTC(), true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), true
	}
	return time.Time{}, false
}
