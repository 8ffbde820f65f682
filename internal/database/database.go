// Package database owns the sqlite connection and the embedded schema
// migrations every repository builds on.
package database

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // sqlite driver
)

// Open opens the sqlite store at path and applies the connection settings
// the rest of the application assumes. WAL keeps position and metrics reads
// open while the price refresh writes; the busy timeout makes a blocked
// writer wait instead of failing with SQLITE_BUSY when the metrics fan-out
// holds read connections.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			return nil, fmt.Errorf("failed to apply %s: %w", pragma, err)
		}
	}

	return db, nil
}

// HealthCheck reports whether the store is reachable. The system health
// endpoint calls this per request.
func HealthCheck(db *sql.DB) error {
	return db.Ping()
}
