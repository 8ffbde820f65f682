package database_test

import (
	"path/filepath"
	"testing"

	"github.com/mvanetten/stock-portfolio-analytics/internal/database"
)

// TestOpen tests connection setup and the applied journal settings.
//
// WHY: The repositories assume reads stay open while the price refresh
// writes. That only holds when the store actually runs in WAL mode, so the
// test opens a file-backed database and reads the mode back.
func TestOpen(t *testing.T) {
	t.Run("file store runs in WAL mode", func(t *testing.T) {
		db, err := database.Open(filepath.Join(t.TempDir(), "portfolio.db"))
		if err != nil {
			t.Fatalf("Open returned unexpected error: %v", err)
		}
		t.Cleanup(func() {
			db.Close()
		})

		var mode string
		if err := db.QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
			t.Fatalf("Failed to read journal_mode: %v", err)
		}
		if mode != "wal" {
			t.Errorf("journal_mode = %q, want wal", mode)
		}
	})

	t.Run("unreachable path is an error", func(t *testing.T) {
		if _, err := database.Open(filepath.Join(t.TempDir(), "missing", "portfolio.db")); err == nil {
			t.Error("expected error for a path in a missing directory")
		}
	})
}

// TestHealthCheck tests the liveness probe behind /api/system/health.
func TestHealthCheck(t *testing.T) {
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("Open returned unexpected error: %v", err)
	}

	if err := database.HealthCheck(db); err != nil {
		t.Errorf("HealthCheck on a live store = %v, want nil", err)
	}

	db.Close()
	if err := database.HealthCheck(db); err == nil {
		t.Error("expected error after the store is closed")
	}
}
