package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mvanetten/stock-portfolio-analytics/internal/apperrors"
	"github.com/mvanetten/stock-portfolio-analytics/internal/testutil"
)

// TestMetricsService_GetMetrics tests the end-to-end metrics read path.
//
// WHY: This is where repositories, the catalog lookup, and the engine meet.
// The service must resolve the provider symbol, feed the engine the stored
// series, and answer the requested range preset, with sentinel errors for
// unknown instruments and bad presets.
func TestMetricsService_GetMetrics(t *testing.T) {
	t.Run("computes metrics for a stored instrument", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestMetricsService(t, db)

		testutil.NewSecurity().WithTicker("NASDAQ", "AAPL").Build(t, db)
		testutil.NewTransaction().ForInstrument("NASDAQ:AAPL", "USD").
			On(testutil.Date(2024, time.January, 1)).Buy(10, 100).Build(t, db)
		testutil.CreatePrices(t, db, "AAPL", testutil.Date(2024, time.January, 1), 100, 110, 105, 120)

		result, err := svc.GetMetrics(context.Background(), "NASDAQ:AAPL", "USD", "ALL")
		if err != nil {
			t.Fatalf("GetMetrics returned unexpected error: %v", err)
		}
		if result.InstrumentKey != "NASDAQ:AAPL" || result.Currency != "USD" {
			t.Errorf("unexpected identity: %+v", result)
		}
		if !approxEqual(result.Metrics.TotalReturn, 200) {
			t.Errorf("TotalReturn = %v, want 200", result.Metrics.TotalReturn)
		}
		if result.Window.Range != "ALL" {
			t.Errorf("Window.Range = %q, want ALL", result.Window.Range)
		}
		if !approxEqual(result.Window.Change, 200) {
			t.Errorf("Window.Change = %v, want 200", result.Window.Change)
		}
	})

	t.Run("unknown range preset", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestMetricsService(t, db)

		testutil.NewSecurity().WithTicker("NASDAQ", "AAPL").Build(t, db)
		testutil.NewTransaction().ForInstrument("NASDAQ:AAPL", "USD").Buy(10, 100).Build(t, db)
		testutil.CreatePrices(t, db, "AAPL", testutil.Date(2024, time.January, 1), 100)

		_, err := svc.GetMetrics(context.Background(), "NASDAQ:AAPL", "USD", "2W")
		if !errors.Is(err, apperrors.ErrUnknownRange) {
			t.Errorf("expected ErrUnknownRange, got %v", err)
		}
	})

	t.Run("instrument without transactions is not found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestMetricsService(t, db)

		_, err := svc.GetMetrics(context.Background(), "NASDAQ:AAPL", "USD", "ALL")
		if !errors.Is(err, apperrors.ErrPositionNotFound) {
			t.Errorf("expected ErrPositionNotFound, got %v", err)
		}
	})

	t.Run("instrument missing from the catalog", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestMetricsService(t, db)

		testutil.NewTransaction().ForInstrument("NASDAQ:AAPL", "USD").Buy(10, 100).Build(t, db)

		_, err := svc.GetMetrics(context.Background(), "NASDAQ:AAPL", "USD", "ALL")
		if !errors.Is(err, apperrors.ErrSecurityNotFound) {
			t.Errorf("expected ErrSecurityNotFound, got %v", err)
		}
	})
}

// TestMetricsService_GetChart tests the chart bundle.
func TestMetricsService_GetChart(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestMetricsService(t, db)

	testutil.NewSecurity().WithTicker("NASDAQ", "AAPL").Build(t, db)
	testutil.NewTransaction().ForInstrument("NASDAQ:AAPL", "USD").
		On(testutil.Date(2024, time.January, 1)).Buy(10, 100).Build(t, db)
	testutil.CreatePrices(t, db, "AAPL", testutil.Date(2024, time.January, 1), 100, 110)

	chart, err := svc.GetChart(context.Background(), "NASDAQ:AAPL", "USD")
	if err != nil {
		t.Fatalf("GetChart returned unexpected error: %v", err)
	}
	if len(chart.Price) != 2 || len(chart.NAV) != 2 || len(chart.PositionSize) != 2 {
		t.Errorf("unexpected series lengths: price %d, nav %d, size %d",
			len(chart.Price), len(chart.NAV), len(chart.PositionSize))
	}
	if len(chart.Events) != 1 {
		t.Errorf("expected 1 trade marker, got %d", len(chart.Events))
	}
	if !approxEqual(chart.NAV[1].Value, 1100) {
		t.Errorf("NAV[1] = %v, want 1100", chart.NAV[1].Value)
	}
}

// TestMetricsService_GetDividends tests the dividend summary path, including
// the degraded mode when no current price exists.
func TestMetricsService_GetDividends(t *testing.T) {
	t.Run("with price history", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestMetricsService(t, db)

		testutil.NewSecurity().WithTicker("NASDAQ", "AAPL").Build(t, db)
		testutil.NewTransaction().ForInstrument("NASDAQ:AAPL", "USD").
			On(testutil.Date(2024, time.January, 1)).Buy(100, 100).Build(t, db)
		testutil.NewTransaction().ForInstrument("NASDAQ:AAPL", "USD").
			On(time.Now().UTC().AddDate(0, -1, 0)).Dividend(100, 0.25).Build(t, db)
		testutil.CreatePrices(t, db, "AAPL", testutil.Date(2024, time.January, 1), 100)

		summary, err := svc.GetDividends(context.Background(), "NASDAQ:AAPL", "USD")
		if err != nil {
			t.Fatalf("GetDividends returned unexpected error: %v", err)
		}
		if summary.DividendCount != 1 || !approxEqual(summary.TotalDividends, 25) {
			t.Errorf("unexpected summary: %+v", summary)
		}
		if !approxEqual(summary.AnnualYield, 25) {
			t.Errorf("AnnualYield = %v, want 25", summary.AnnualYield)
		}
	})

	t.Run("without catalog entry yield degrades to zero", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestMetricsService(t, db)

		testutil.NewTransaction().ForInstrument("NASDAQ:AAPL", "USD").
			On(time.Now().UTC().AddDate(0, -1, 0)).Dividend(100, 0.25).Build(t, db)

		summary, err := svc.GetDividends(context.Background(), "NASDAQ:AAPL", "USD")
		if err != nil {
			t.Fatalf("GetDividends returned unexpected error: %v", err)
		}
		if summary.AnnualYield != 0 {
			t.Errorf("AnnualYield = %v, want 0 without a price", summary.AnnualYield)
		}
		if summary.DividendCount != 1 {
			t.Errorf("DividendCount = %d, want 1", summary.DividendCount)
		}
	})
}

// TestMetricsService_ComputeAll tests the fan-out recomputation.
func TestMetricsService_ComputeAll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestMetricsService(t, db)

	for _, ticker := range []string{"AAPL", "NVDA", "MSFT"} {
		testutil.NewSecurity().WithTicker("NASDAQ", ticker).Build(t, db)
		testutil.NewTransaction().ForInstrument("NASDAQ:"+ticker, "USD").
			On(testutil.Date(2024, time.January, 1)).Buy(10, 100).Build(t, db)
		testutil.CreatePrices(t, db, ticker, testutil.Date(2024, time.January, 1), 100, 120)
	}
	// An instrument with no catalog entry fails alone, not the batch.
	testutil.NewTransaction().ForInstrument("TWSE:2330", "TWD").Buy(10, 600).Build(t, db)

	results, err := svc.ComputeAll(context.Background(), "ALL")
	if err != nil {
		t.Fatalf("ComputeAll returned unexpected error: %v", err)
	}
	if len(results) != 3 {
		t.Errorf("expected 3 results, got %d", len(results))
	}
}
