package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"rentexpress/internal/db"
)

// OpenTestDB opens a throwaway SQLite database with all migrations applied.
// It is closed automatically when the test ends.
func OpenTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "rentexpress_test.db")
	d, err := db.InitDB(db.SQLite, path, zerolog.Nop())
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	if err := db.RunMigrations(d, db.SQLite, zerolog.Nop()); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return d
}

// InsertVehicle adds a vehicle row and returns its id.
func InsertVehicle(t *testing.T, d *sql.DB, brand, model string, year int, price float64, available bool, createdAt string) int64 {
	t.Helper()

	res, err := d.Exec(
		`INSERT INTO vehicles (brand, model, year, color, price_per_day, available, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		brand, model, year, "Blanco", price, available, createdAt,
	)
	if err != nil {
		t.Fatalf("insert vehicle: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("vehicle id: %v", err)
	}
	return id
}
