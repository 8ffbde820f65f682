package model

import "time"

// Security is a catalog entry for a tradable instrument: which exchange and
// currency it belongs to and which symbol the price provider knows it by.
type Security struct {
	ID          string    `json:"id"`
	Ticker      string    `json:"ticker"`
	Name        string    `json:"name"`
	Exchange    string    `json:"exchange"`
	Currency    string    `json:"currency"`
	Type        string    `json:"type"`
	Sector      string    `json:"sector,omitempty"`
	DataSource  string    `json:"dataSource,omitempty"`
	APISymbol   string    `json:"apiSymbol,omitempty"`
	LastUpdated time.Time `json:"lastUpdated,omitempty"`
}

// InstrumentKey returns the "EXCHANGE:TICKER" key the ledger groups by.
func (s Security) InstrumentKey() string {
	return s.Exchange + ":" + s.Ticker
}

// ProviderSymbol returns the symbol the price provider knows the security
// by, falling back to the plain ticker when no override is set.
func (s Security) ProviderSymbol() string {
	if s.APISymbol != "" {
		return s.APISymbol
	}
	return s.Ticker
}

// Setting is one key/value pair from the settings store.
type Setting struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}
