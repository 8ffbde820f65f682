package yahoo

import "time"

// Response maps the raw JSON from the Yahoo Finance chart API:
// Chart.Result carries metadata, Unix timestamps, and parallel OHLCV arrays;
// Chart.Error carries an optional API-level error message.
type Response struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency         string `json:"currency"`
				Symbol           string `json:"symbol"`
				ExchangeName     string `json:"exchangeName"`
				FullExchangeName string `json:"fullExchangeName"`
				LongName         string `json:"longName"`
				Shortname        string `json:"shortName"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []float64 `json:"open"`
					Close  []float64 `json:"close"`
					Volume []int64   `json:"volume"`
					High   []float64 `json:"high"`
					Low    []float64 `json:"low"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *string `json:"error"`
	} `json:"chart"`
}

// PriceChart is the parsed, application-facing form of a chart response:
// symbol metadata plus one Indicators entry per trading day.
type PriceChart struct {
	Currency         string       `json:"currency"`
	Symbol           string       `json:"symbol"`
	ExchangeName     string       `json:"exchangeName"`
	FullExchangeName string       `json:"fullExchangeName"`
	LongName         string       `json:"longName"`
	Shortname        string       `json:"shortName"`
	Indicators       []Indicators `json:"indicators"`
}

// Indicators is one trading day of OHLCV data, date truncated to midnight UTC.
type Indicators struct {
	Date       time.Time
	PriceOpen  float64
	PriceClose float64
	Volume     int64
	PriceHigh  float64
	PriceLow   float64
}
