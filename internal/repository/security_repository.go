package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mvanetten/stock-portfolio-analytics/internal/apperrors"
	"github.com/mvanetten/stock-portfolio-analytics/internal/model"
)

// SecurityRepository provides data access methods for the security catalog:
// which exchange/currency an instrument trades in and which symbol the price
// provider knows it by.
type SecurityRepository struct {
	db *sql.DB
}

// NewSecurityRepository creates a new SecurityRepository with the provided database connection.
func NewSecurityRepository(db *sql.DB) *SecurityRepository {
	return &SecurityRepository{db: db}
}

const securityColumns = `id, ticker, name, exchange, currency, type, sector, data_source, api_symbol, last_updated`

// GetAll retrieves the full security catalog ordered by exchange and ticker.
func (r *SecurityRepository) GetAll(ctx context.Context) ([]model.Security, error) {
	query := `SELECT ` + securityColumns + ` FROM security ORDER BY exchange ASC, ticker ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query securities: %w", err)
	}
	defer rows.Close()

	var securities []model.Security
	for rows.Next() {
		security, err := scanSecurity(rows.Scan)
		if err != nil {
			return nil, err
		}
		securities = append(securities, security)
	}
	return securities, rows.Err()
}

// GetByInstrumentKey looks up a security by its "EXCHANGE:TICKER" key.
// Returns apperrors.ErrSecurityNotFound when no catalog entry exists and
// apperrors.ErrInvalidInstrumentKey for a malformed key.
func (r *SecurityRepository) GetByInstrumentKey(ctx context.Context, instrumentKey string) (model.Security, error) {
	exchange, ticker, found := strings.Cut(instrumentKey, ":")
	if !found || exchange == "" || ticker == "" {
		return model.Security{}, fmt.Errorf("%w: %q", apperrors.ErrInvalidInstrumentKey, instrumentKey)
	}

	query := `SELECT ` + securityColumns + ` FROM security WHERE exchange = ? AND ticker = ?`
	row := r.db.QueryRowContext(ctx, query, exchange, ticker)
	security, err := scanSecurity(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Security{}, fmt.Errorf("%w: %s", apperrors.ErrSecurityNotFound, instrumentKey)
	}
	return security, err
}

// Upsert stores a catalog entry, replacing any existing row for the same
// (exchange, ticker).
func (r *SecurityRepository) Upsert(ctx context.Context, security *model.Security) error {
	if security.ID == "" {
		security.ID = uuid.New().String()
	}
	security.LastUpdated = time.Now().UTC()

	query := `INSERT INTO security (` + securityColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (exchange, ticker) DO UPDATE SET
			name = excluded.name, currency = excluded.currency, type = excluded.type,
			sector = excluded.sector, data_source = excluded.data_source,
			api_symbol = excluded.api_symbol, last_updated = excluded.last_updated`
	_, err := r.db.ExecContext(ctx, query,
		security.ID, security.Ticker, security.Name, security.Exchange, security.Currency,
		security.Type, security.Sector, security.DataSource, security.APISymbol,
		security.LastUpdated.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert security %s: %w", security.InstrumentKey(), err)
	}
	return nil
}

func scanSecurity(scan func(...any) error) (model.Security, error) {
	var s model.Security
	var lastUpdated sql.NullString
	err := scan(&s.ID, &s.Ticker, &s.Name, &s.Exchange, &s.Currency, &s.Type,
		&s.Sector, &s.DataSource, &s.APISymbol, &lastUpdated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Security{}, err
		}
		return model.Security{}, fmt.Errorf("failed to scan security: %w", err)
	}
	if lastUpdated.Valid {
		if t, parseErr := time.Parse(time.RFC3339, lastUpdated.String); parseErr == nil {
			s.LastUpdated = t
		}
	}
	return s, nil
}
