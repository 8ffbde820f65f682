package validation

import (
	"fmt"
	"strings"

	"github.com/mvanetten/stock-portfolio-analytics/internal/apperrors"
)

// ValidateInstrumentKey checks that a key is in "EXCHANGE:TICKER" form with
// both parts present.
func ValidateInstrumentKey(key string) error {
	exchange, ticker, found := strings.Cut(key, ":")
	if !found || strings.TrimSpace(exchange) == "" || strings.TrimSpace(ticker) == "" {
		return fmt.Errorf("%w: %q", apperrors.ErrInvalidInstrumentKey, key)
	}
	return nil
}

// ValidateCurrency checks that a currency code looks like an ISO 4217 code.
func ValidateCurrency(currency string) error {
	if len(currency) != 3 {
		return fmt.Errorf("%w: %q", apperrors.ErrInvalidCurrency, currency)
	}
	for _, r := range currency {
		if r < 'A' || r > 'Z' {
			return fmt.Errorf("%w: %q", apperrors.ErrInvalidCurrency, currency)
		}
	}
	return nil
}
