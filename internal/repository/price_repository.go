package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mvanetten/stock-portfolio-analytics/internal/apperrors"
	"github.com/mvanetten/stock-portfolio-analytics/internal/model"
)

// PriceRepository provides data access methods for the price table. Price
// history is keyed by the provider symbol and always returned ascending by
// date, the order the metrics engine requires.
type PriceRepository struct {
	db *sql.DB
}

// NewPriceRepository creates a new PriceRepository with the provided database connection.
func NewPriceRepository(db *sql.DB) *PriceRepository {
	return &PriceRepository{db: db}
}

// GetSeries retrieves the full daily price series for a symbol, ascending by date.
func (r *PriceRepository) GetSeries(ctx context.Context, symbol string) ([]model.PriceRecord, error) {
	query := `SELECT date, close, open, high, low, volume FROM price
		WHERE symbol = ? ORDER BY date ASC`
	rows, err := r.db.QueryContext(ctx, query, symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to query prices for %s: %w", symbol, err)
	}
	defer rows.Close()

	var records []model.PriceRecord
	for rows.Next() {
		var record model.PriceRecord
		var date string
		if err := rows.Scan(&date, &record.Close, &record.Open, &record.High, &record.Low, &record.Volume); err != nil {
			return nil, fmt.Errorf("failed to scan price: %w", err)
		}
		parsedDate, err := ParseTime(date)
		if err != nil {
			return nil, err
		}
		record.Date = parsedDate
		records = append(records, record)
	}
	return records, rows.Err()
}

// LatestClose returns the most recent close for a symbol.
// Returns apperrors.ErrPriceNotFound when the symbol has no history.
func (r *PriceRepository) LatestClose(ctx context.Context, symbol string) (float64, error) {
	query := `SELECT close FROM price WHERE symbol = ? ORDER BY date DESC LIMIT 1`
	var close float64
	err := r.db.QueryRowContext(ctx, query, symbol).Scan(&close)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: %s", apperrors.ErrPriceNotFound, symbol)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to query latest close for %s: %w", symbol, err)
	}
	return close, nil
}

// Upsert stores a batch of price records for a symbol, replacing any
// existing row for the same (symbol, date). Refreshes are idempotent.
func (r *PriceRepository) Upsert(ctx context.Context, symbol, source string, records []model.PriceRecord) error {
	if len(records) == 0 {
		return nil
	}

	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin price upsert: %w", err)
	}
	defer dbTx.Rollback()

	query := `INSERT INTO price (id, symbol, date, close, open, high, low, volume, source, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (symbol, date) DO UPDATE SET
			close = excluded.close, open = excluded.open, high = excluded.high,
			low = excluded.low, volume = excluded.volume,
			source = excluded.source, updated_at = excluded.updated_at`

	updatedAt := time.Now().UTC().Format(time.RFC3339)
	for _, record := range records {
		if _, err := dbTx.ExecContext(ctx, query,
			uuid.New().String(), symbol, FormatDate(record.Date),
			record.Close, record.Open, record.High, record.Low, record.Volume,
			source, updatedAt,
		); err != nil {
			return fmt.Errorf("failed to upsert price %s/%s: %w", symbol, FormatDate(record.Date), err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit price upsert: %w", err)
	}
	return nil
}
