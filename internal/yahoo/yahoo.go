package yahoo

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mvanetten/stock-portfolio-analytics/internal/apperrors"
)

// allowedHosts guards every outgoing request: the client refuses to talk to
// anything that is not a known Yahoo Finance endpoint.
var allowedHosts = []string{
	"query1.finance.yahoo.com",
	"query2.finance.yahoo.com",
	"finance.yahoo.com",
}

// FinanceClient provides methods for fetching daily price history from the
// Yahoo Finance chart API.
type FinanceClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewFinanceClient creates a client against the given base URL (normally
// https://query1.finance.yahoo.com) with a bounded request timeout.
func NewFinanceClient(baseURL string) *FinanceClient {
	return &FinanceClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// ParseChart converts a raw API response into a structured price chart.
// It validates that timestamps and close prices are present and that the
// parallel arrays line up.
func (c *FinanceClient) ParseChart(yahooResult Response) (PriceChart, error) {
	if len(yahooResult.Chart.Result) == 0 {
		return PriceChart{}, fmt.Errorf("no results in chart response")
	}
	result := yahooResult.Chart.Result[0]

	if len(result.Timestamp) == 0 {
		return PriceChart{}, fmt.Errorf("no price data returned")
	}
	if len(result.Indicators.Quote) == 0 || len(result.Indicators.Quote[0].Close) == 0 {
		return PriceChart{}, fmt.Errorf("no close prices returned")
	}
	if len(result.Indicators.Quote[0].Close) != len(result.Timestamp) {
		return PriceChart{}, fmt.Errorf("mismatched data lengths")
	}

	indicators := make([]Indicators, len(result.Timestamp))
	for i, v := range result.Timestamp {
		indicators[i].Date = time.Unix(v, 0).UTC().Truncate(24 * time.Hour)
		indicators[i].PriceOpen = result.Indicators.Quote[0].Open[i]
		indicators[i].PriceClose = result.Indicators.Quote[0].Close[i]
		indicators[i].Volume = result.Indicators.Quote[0].Volume[i]
		indicators[i].PriceHigh = result.Indicators.Quote[0].High[i]
		indicators[i].PriceLow = result.Indicators.Quote[0].Low[i]
	}

	return PriceChart{
		Symbol:           result.Meta.Symbol,
		Currency:         result.Meta.Currency,
		ExchangeName:     result.Meta.ExchangeName,
		FullExchangeName: result.Meta.FullExchangeName,
		LongName:         result.Meta.LongName,
		Shortname:        result.Meta.Shortname,
		Indicators:       indicators,
	}, nil
}

// QueryRecent fetches the last five trading days for a symbol, enough to
// pick up the latest available close.
func (c *FinanceClient) QueryRecent(symbol string) (Response, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=5d", c.baseURL, url.PathEscape(symbol))
	return c.query(endpoint, symbol)
}

// QueryDateRange fetches daily price data for a symbol between two dates
// (inclusive), used for historical backfills.
func (c *FinanceClient) QueryDateRange(symbol string, startDate, endDate time.Time) (Response, error) {
	endpoint := fmt.Sprintf(
		"%s/v8/finance/chart/%s?interval=1d&period1=%d&period2=%d",
		c.baseURL, url.PathEscape(symbol), startDate.Unix(), endDate.Unix(),
	)
	return c.query(endpoint, symbol)
}

func (c *FinanceClient) query(endpoint, symbol string) (Response, error) {
	if err := checkHost(endpoint); err != nil {
		return Response{}, err
	}

	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return Response{}, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Response{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return Response{}, fmt.Errorf("upstream error %d for %s", resp.StatusCode, symbol)
	}

	var response Response
	if err := json.Unmarshal(data, &response); err != nil {
		return Response{}, err
	}
	if response.Chart.Error != nil {
		return Response{}, fmt.Errorf("yahoo API error for %s: %s", symbol, *response.Chart.Error)
	}
	if len(response.Chart.Result) == 0 {
		return Response{}, fmt.Errorf("no results returned for symbol %s", symbol)
	}
	return response, nil
}

func checkHost(endpoint string) error {
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("invalid provider URL: %w", err)
	}
	host := strings.ToLower(parsed.Hostname())
	if host == "localhost" || host == "127.0.0.1" {
		return nil // test servers
	}
	for _, allowed := range allowedHosts {
		if host == allowed {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", apperrors.ErrHostNotAllowed, host)
}
