package yahoo

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mvanetten/stock-portfolio-analytics/internal/apperrors"
)

const chartJSON = `{
	"chart": {
		"result": [{
			"meta": {"currency": "USD", "symbol": "AAPL", "exchangeName": "NMS"},
			"timestamp": [1704153600, 1704240000],
			"indicators": {"quote": [{
				"open": [149.0, 151.0],
				"close": [150.0, 152.5],
				"volume": [1000, 2000],
				"high": [151.0, 153.0],
				"low": [148.0, 150.5]
			}]}
		}],
		"error": null
	}
}`

// TestFinanceClient_QueryRecent tests the fetch-and-decode path against a
// local test server.
func TestFinanceClient_QueryRecent(t *testing.T) {
	t.Run("decodes a chart response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/v8/finance/chart/AAPL" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			if r.URL.Query().Get("range") != "5d" {
				t.Errorf("expected range=5d, got %s", r.URL.Query().Get("range"))
			}
			w.Header().Set("Content-Type", "application/json")
			//nolint:errcheck // Test server write
			w.Write([]byte(chartJSON))
		}))
		defer server.Close()

		client := NewFinanceClient(server.URL)
		response, err := client.QueryRecent("AAPL")
		if err != nil {
			t.Fatalf("QueryRecent returned unexpected error: %v", err)
		}
		if len(response.Chart.Result) != 1 {
			t.Fatalf("expected 1 result, got %d", len(response.Chart.Result))
		}
		if response.Chart.Result[0].Meta.Symbol != "AAPL" {
			t.Errorf("Symbol = %s, want AAPL", response.Chart.Result[0].Meta.Symbol)
		}
	})

	t.Run("API-level error is surfaced", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			//nolint:errcheck // Test server write
			w.Write([]byte(`{"chart": {"result": [], "error": "Not Found"}}`))
		}))
		defer server.Close()

		client := NewFinanceClient(server.URL)
		if _, err := client.QueryRecent("NOPE"); err == nil {
			t.Error("expected error for API-level failure")
		}
	})

	t.Run("non-200 status is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		client := NewFinanceClient(server.URL)
		if _, err := client.QueryRecent("AAPL"); err == nil {
			t.Error("expected error for 429 response")
		}
	})
}

// TestFinanceClient_HostAllowList tests the outbound host guard.
//
// WHY: The base URL is configuration. If it is ever pointed somewhere
// unexpected, the client must refuse to send the request instead of leaking
// queries to an arbitrary host.
func TestFinanceClient_HostAllowList(t *testing.T) {
	client := NewFinanceClient("https://evil.example.com")
	_, err := client.QueryRecent("AAPL")
	if !errors.Is(err, apperrors.ErrHostNotAllowed) {
		t.Errorf("expected ErrHostNotAllowed, got %v", err)
	}

	for _, base := range []string{
		"https://query1.finance.yahoo.com",
		"https://query2.finance.yahoo.com",
	} {
		if err := checkHost(base + "/v8/finance/chart/AAPL"); err != nil {
			t.Errorf("checkHost(%s) = %v, want nil", base, err)
		}
	}
}

// TestFinanceClient_ParseChart tests validation of the parallel arrays.
func TestFinanceClient_ParseChart(t *testing.T) {
	client := NewFinanceClient("https://query1.finance.yahoo.com")

	t.Run("valid response", func(t *testing.T) {
		var response Response
		if err := json.Unmarshal([]byte(chartJSON), &response); err != nil {
			t.Fatalf("Failed to decode fixture: %v", err)
		}

		chart, err := client.ParseChart(response)
		if err != nil {
			t.Fatalf("ParseChart returned unexpected error: %v", err)
		}
		if chart.Symbol != "AAPL" || len(chart.Indicators) != 2 {
			t.Errorf("unexpected chart: %+v", chart)
		}
		if chart.Indicators[0].PriceClose != 150 || chart.Indicators[1].Volume != 2000 {
			t.Errorf("unexpected indicators: %+v", chart.Indicators)
		}
		wantDate := time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC)
		if !chart.Indicators[0].Date.Equal(wantDate) {
			t.Errorf("Date = %v, want %v", chart.Indicators[0].Date, wantDate)
		}
	})

	t.Run("mismatched array lengths", func(t *testing.T) {
		var response Response
		if err := json.Unmarshal([]byte(chartJSON), &response); err != nil {
			t.Fatalf("Failed to decode fixture: %v", err)
		}
		response.Chart.Result[0].Timestamp = response.Chart.Result[0].Timestamp[:1]

		if _, err := client.ParseChart(response); err == nil {
			t.Error("expected error for mismatched lengths")
		}
	})

	t.Run("empty response", func(t *testing.T) {
		if _, err := client.ParseChart(Response{}); err == nil {
			t.Error("expected error for empty response")
		}
	})
}
