package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/mvanetten/stock-portfolio-analytics/internal/parse"
	"github.com/mvanetten/stock-portfolio-analytics/internal/repository"
)

// importFiles maps the per-currency CSV exports of the desktop app to their
// currencies. Each file shares the same column layout:
// date,stock,type,quantity,price,fees,split_ratio.
var importFiles = []struct {
	Filename string
	Currency string
}{
	{"US_Trx.csv", "USD"},
	{"TW_Trx.csv", "TWD"},
	{"JP_Trx.csv", "JPY"},
	{"HK_Trx.csv", "HKD"},
}

// ImportService ingests the per-currency transaction CSV files through the
// tolerant parse boundary. Malformed rows are skipped with a logged warning
// and reported back; they never abort the import.
type ImportService struct {
	transactionRepo *repository.TransactionRepository
	dataDir         string
	logger          zerolog.Logger
}

// NewImportService creates a new ImportService reading from the given data directory.
func NewImportService(transactionRepo *repository.TransactionRepository, dataDir string, logger zerolog.Logger) *ImportService {
	return &ImportService{
		transactionRepo: transactionRepo,
		dataDir:         dataDir,
		logger:          logger,
	}
}

// SkippedRow records why one input row was not imported.
type SkippedRow struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// ImportReport summarizes one import run.
type ImportReport struct {
	Imported int          `json:"imported"`
	Skipped  []SkippedRow `json:"skipped"`
}

// ImportAll reads every per-currency file present in the data directory.
// Missing files are fine (not every market is traded); unreadable rows are
// skipped and reported.
func (s *ImportService) ImportAll(ctx context.Context) (ImportReport, error) {
	var report ImportReport
	for _, file := range importFiles {
		path := filepath.Join(s.dataDir, file.Filename)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}
		if err := s.importFile(ctx, path, file.Filename, file.Currency, &report); err != nil {
			return report, err
		}
	}
	return report, nil
}

// importFile streams one CSV file through ParseRow. The first line is the
// header; short or empty lines are skipped like any other bad row.
func (s *ImportService) importFile(ctx context.Context, path, filename, currency string, report *ImportReport) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", filename, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // ragged rows become skips, not fatal errors

	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", filename, err)
		}
		line++
		if line == 1 {
			continue // header
		}

		result := s.parseRecord(record, currency)
		if !result.Ok() {
			s.logger.Warn().
				Str("file", filename).
				Int("line", line).
				Str("reason", result.SkipReason).
				Msg("skipping transaction row")
			report.Skipped = append(report.Skipped, SkippedRow{File: filename, Line: line, Reason: result.SkipReason})
			continue
		}

		tx := result.Transaction
		if err := s.transactionRepo.Insert(ctx, &tx); err != nil {
			return fmt.Errorf("failed to store row %d of %s: %w", line, filename, err)
		}
		report.Imported++
	}
}

func (s *ImportService) parseRecord(record []string, currency string) parse.RowResult {
	if len(record) < 7 {
		return parse.RowResult{SkipReason: fmt.Sprintf("expected 7 columns, got %d", len(record))}
	}
	return parse.ParseRow(parse.Row{
		Date:       record[0],
		Stock:      record[1],
		Type:       record[2],
		Quantity:   record[3],
		Price:      record[4],
		Fees:       record[5],
		SplitRatio: record[6],
	}, currency)
}
