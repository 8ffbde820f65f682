package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mvanetten/stock-portfolio-analytics/internal/model"
)

// TransactionRepository provides data access methods for the txn table.
// It handles retrieving and storing the immutable transaction events the
// calculation core folds over.
type TransactionRepository struct {
	db *sql.DB
}

// NewTransactionRepository creates a new TransactionRepository with the provided database connection.
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

const transactionColumns = `id, date, instrument_key, currency, type, quantity, price, fees, split_ratio, created_at`

// GetAll retrieves every stored transaction sorted ascending by date.
// Insertion order breaks date ties (via created_at then rowid), matching the
// determinism the ledger's stable sort expects.
func (r *TransactionRepository) GetAll(ctx context.Context) ([]model.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM txn ORDER BY date ASC, created_at ASC, rowid ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

// GetByInstrument retrieves all transactions for one (instrument, currency)
// pair sorted ascending by date.
func (r *TransactionRepository) GetByInstrument(ctx context.Context, instrumentKey, currency string) ([]model.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM txn
		WHERE instrument_key = ? AND currency = ?
		ORDER BY date ASC, created_at ASC, rowid ASC`
	rows, err := r.db.QueryContext(ctx, query, instrumentKey, currency)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions for %s: %w", instrumentKey, err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

// Insert stores a new transaction, assigning it an ID when missing.
func (r *TransactionRepository) Insert(ctx context.Context, tx *model.Transaction) error {
	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO txn (` + transactionColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		tx.ID, FormatDate(tx.Date), tx.InstrumentKey, tx.Currency, string(tx.Type),
		tx.Quantity, tx.Price, tx.Fees, tx.SplitRatio, tx.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

func scanTransactions(rows *sql.Rows) ([]model.Transaction, error) {
	var transactions []model.Transaction
	for rows.Next() {
		var tx model.Transaction
		var date, txType, createdAt string
		if err := rows.Scan(&tx.ID, &date, &tx.InstrumentKey, &tx.Currency, &txType,
			&tx.Quantity, &tx.Price, &tx.Fees, &tx.SplitRatio, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		parsedDate, err := ParseTime(date)
		if err != nil {
			return nil, err
		}
		tx.Date = parsedDate
		tx.Type = model.TransactionType(txType)
		if created, err := time.Parse(time.RFC3339, createdAt); err == nil {
			tx.CreatedAt = created
		}
		transactions = append(transactions, tx)
	}
	return transactions, rows.Err()
}
