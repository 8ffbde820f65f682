package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrSecurityNotFound indicates that a security with the given key does not exist.
	ErrSecurityNotFound = errors.New("security not found")

	// ErrPositionNotFound indicates that no position exists for the given instrument key.
	ErrPositionNotFound = errors.New("position not found")

	// ErrPriceNotFound indicates no price record for a specific instrument and date combination.
	ErrPriceNotFound = errors.New("price not found")

	// ErrTransactionNotFound indicates that a transaction with the given ID does not exist.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrSettingNotFound indicates that a setting with the given key does not exist.
	ErrSettingNotFound = errors.New("setting not found")
)

// Business logic errors represent validation failures or constraint violations.
var (
	// ErrInvalidInstrumentKey indicates a key that is not in EXCHANGE:TICKER form.
	ErrInvalidInstrumentKey = errors.New("invalid instrument key")

	// ErrInvalidDateRange indicates that the provided date range is invalid
	// (e.g., start date is after end date).
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrUnknownRange indicates an unrecognized window range preset.
	ErrUnknownRange = errors.New("unknown range preset")

	// ErrInvalidCurrency indicates a missing or unsupported currency code.
	ErrInvalidCurrency = errors.New("invalid currency")

	// ErrMissingFernetKey indicates the settings encryption key is not configured.
	ErrMissingFernetKey = errors.New("settings fernet key not configured")

	// ErrHostNotAllowed indicates a price-provider URL outside the allow-list.
	ErrHostNotAllowed = errors.New("price provider host not allowed")
)
