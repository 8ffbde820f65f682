package service_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/mvanetten/stock-portfolio-analytics/internal/repository"
	"github.com/mvanetten/stock-portfolio-analytics/internal/service"
	"github.com/mvanetten/stock-portfolio-analytics/internal/testutil"
	"github.com/mvanetten/stock-portfolio-analytics/internal/yahoo"
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

// TestPriceService_RefreshAll tests the provider-to-store refresh path.
//
// WHY: The refresh walks the whole catalog, resolves each security's provider
// symbol, and upserts what the provider returns. One failing symbol must be
// reported but never fail the batch.
func TestPriceService_RefreshAll(t *testing.T) {
	t.Run("stores fetched closes", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			//nolint:errcheck // Test server write
			w.Write([]byte(chartJSON))
		}))
		defer server.Close()

		testutil.NewSecurity().WithTicker("NASDAQ", "AAPL").Build(t, db)

		priceRepo := repository.NewPriceRepository(db)
		svc := service.NewPriceService(
			yahoo.NewFinanceClient(server.URL),
			priceRepo,
			repository.NewSecurityRepository(db),
			zerolog.Nop(),
		)

		report, err := svc.RefreshAll(context.Background())
		if err != nil {
			t.Fatalf("RefreshAll returned unexpected error: %v", err)
		}
		if report.Updated != 1 || len(report.Failed) != 0 {
			t.Errorf("unexpected report: %+v", report)
		}

		close, err := priceRepo.LatestClose(context.Background(), "AAPL")
		if err != nil {
			t.Fatalf("LatestClose returned unexpected error: %v", err)
		}
		if close != 152.5 {
			t.Errorf("LatestClose = %v, want 152.5", close)
		}
	})

	t.Run("failing symbol is reported not fatal", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		testutil.NewSecurity().WithTicker("NASDAQ", "GONE").Build(t, db)

		svc := service.NewPriceService(
			yahoo.NewFinanceClient(server.URL),
			repository.NewPriceRepository(db),
			repository.NewSecurityRepository(db),
			zerolog.Nop(),
		)

		report, err := svc.RefreshAll(context.Background())
		if err != nil {
			t.Fatalf("RefreshAll returned unexpected error: %v", err)
		}
		if report.Updated != 0 || len(report.Failed) != 1 {
			t.Errorf("unexpected report: %+v", report)
		}
		if report.Failed[0] != "NASDAQ:GONE" {
			t.Errorf("Failed[0] = %s, want NASDAQ:GONE", report.Failed[0])
		}
	})

	t.Run("empty catalog is a no-op", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := service.NewPriceService(
			yahoo.NewFinanceClient("https://query1.finance.yahoo.com"),
			repository.NewPriceRepository(db),
			repository.NewSecurityRepository(db),
			zerolog.Nop(),
		)

		report, err := svc.RefreshAll(context.Background())
		if err != nil {
			t.Fatalf("RefreshAll returned unexpected error: %v", err)
		}
		if report.Updated != 0 || len(report.Failed) != 0 {
			t.Errorf("unexpected report: %+v", report)
		}
	})
}
