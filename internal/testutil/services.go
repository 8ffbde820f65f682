package testutil

import (
	"database/sql"
	"testing"

	"github.com/rs/zerolog"

	"github.com/mvanetten/stock-portfolio-analytics/internal/config"
	"github.com/mvanetten/stock-portfolio-analytics/internal/repository"
	"github.com/mvanetten/stock-portfolio-analytics/internal/service"
)

// NewTestSystemService creates a SystemService backed by the given test database.
func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()
	return service.NewSystemService(db)
}

// NewTestPortfolioService creates a PortfolioService with a silent logger.
func NewTestPortfolioService(t *testing.T, db *sql.DB) *service.PortfolioService {
	t.Helper()
	return service.NewPortfolioService(
		repository.NewTransactionRepository(db),
		repository.NewSecurityRepository(db),
		repository.NewPriceRepository(db),
		zerolog.Nop(),
	)
}

// NewTestMetricsService creates a MetricsService with default conventions and
// a silent logger.
func NewTestMetricsService(t *testing.T, db *sql.DB) *service.MetricsService {
	t.Helper()
	return service.NewMetricsService(
		repository.NewTransactionRepository(db),
		repository.NewSecurityRepository(db),
		repository.NewPriceRepository(db),
		config.MetricsConfig{TradingDaysPerYear: 252, TrailingWindowYears: 5},
		zerolog.Nop(),
	)
}

// NewTestImportService creates an ImportService reading from the given directory.
func NewTestImportService(t *testing.T, db *sql.DB, dataDir string) *service.ImportService {
	t.Helper()
	return service.NewImportService(repository.NewTransactionRepository(db), dataDir, zerolog.Nop())
}
