package service_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mvanetten/stock-portfolio-analytics/internal/model"
	"github.com/mvanetten/stock-portfolio-analytics/internal/repository"
	"github.com/mvanetten/stock-portfolio-analytics/internal/testutil"
)

func writeCSV(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
}

// TestImportService_ImportAll tests the CSV ingestion path end to end.
//
// WHY: Imports are the main way data enters the system. Each per-currency
// file must stamp its rows with the right currency, malformed rows must be
// skipped and reported with file and line, and missing files must not abort
// the run.
func TestImportService_ImportAll(t *testing.T) {
	t.Run("imports rows with per-file currency", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		dir := t.TempDir()
		svc := testutil.NewTestImportService(t, db, dir)

		writeCSV(t, dir, "US_Trx.csv",
			"date,stock,type,quantity,price,fees,split_ratio\n"+
				"2024-01-02,NASDAQ:AAPL,buy,100,$150.00,10,\n"+
				"2024-02-01,NASDAQ:AAPL,dividend,100,0.25,,\n")
		writeCSV(t, dir, "TW_Trx.csv",
			"date,stock,type,quantity,price,fees,split_ratio\n"+
				"2024-01-03,TWSE:2330,buy,50,\"NT$600\",,\n")

		report, err := svc.ImportAll(context.Background())
		if err != nil {
			t.Fatalf("ImportAll returned unexpected error: %v", err)
		}
		if report.Imported != 3 {
			t.Errorf("Imported = %d, want 3", report.Imported)
		}
		if len(report.Skipped) != 0 {
			t.Errorf("Skipped = %+v, want none", report.Skipped)
		}

		repo := repository.NewTransactionRepository(db)
		usd, err := repo.GetByInstrument(context.Background(), "NASDAQ:AAPL", "USD")
		if err != nil {
			t.Fatal(err)
		}
		if len(usd) != 2 {
			t.Errorf("expected 2 USD transactions, got %d", len(usd))
		}
		twd, err := repo.GetByInstrument(context.Background(), "TWSE:2330", "TWD")
		if err != nil {
			t.Fatal(err)
		}
		if len(twd) != 1 || twd[0].Price != 600 {
			t.Errorf("unexpected TWD transactions: %+v", twd)
		}
	})

	t.Run("skips malformed rows with reasons", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		dir := t.TempDir()
		svc := testutil.NewTestImportService(t, db, dir)

		writeCSV(t, dir, "US_Trx.csv",
			"date,stock,type,quantity,price,fees,split_ratio\n"+
				"2024-01-02,NASDAQ:AAPL,buy,100,150,,\n"+
				"not-a-date,NASDAQ:AAPL,buy,10,150,,\n"+
				"2024-01-05,NASDAQ:AAPL,transfer,10,150,,\n"+
				"2024-01-06,NASDAQ:AAPL,buy,many,150,,\n"+
				"2024-06-10,NASDAQ:AAPL,split,,,,4:1\n")

		report, err := svc.ImportAll(context.Background())
		if err != nil {
			t.Fatalf("ImportAll returned unexpected error: %v", err)
		}
		if report.Imported != 2 {
			t.Errorf("Imported = %d, want 2 (buy and split)", report.Imported)
		}
		if len(report.Skipped) != 3 {
			t.Fatalf("Skipped = %d rows, want 3: %+v", len(report.Skipped), report.Skipped)
		}
		for _, skipped := range report.Skipped {
			if skipped.File != "US_Trx.csv" || skipped.Line < 2 || skipped.Reason == "" {
				t.Errorf("incomplete skip record: %+v", skipped)
			}
		}

		// The split row must round-trip its ratio.
		repo := repository.NewTransactionRepository(db)
		all, err := repo.GetAll(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		var foundSplit bool
		for _, tx := range all {
			if tx.Type == model.TypeSplit {
				foundSplit = true
				if tx.SplitRatio != 4 {
					t.Errorf("SplitRatio = %v, want 4", tx.SplitRatio)
				}
			}
		}
		if !foundSplit {
			t.Error("split row not imported")
		}
	})

	t.Run("missing files are not an error", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestImportService(t, db, t.TempDir())

		report, err := svc.ImportAll(context.Background())
		if err != nil {
			t.Fatalf("ImportAll returned unexpected error: %v", err)
		}
		if report.Imported != 0 || len(report.Skipped) != 0 {
			t.Errorf("expected empty report, got %+v", report)
		}
	})
}
