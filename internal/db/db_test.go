package db_test

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"rentexpress/internal/db"
)

func TestParseDialect(t *testing.T) {
	tests := []struct {
		in      string
		want    db.Dialect
		wantErr bool
	}{
		{in: "mysql", want: db.MySQL},
		{in: " Postgres ", want: db.Postgres},
		{in: "sqlite", want: db.SQLite},
		{in: "oracle", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := db.ParseDialect(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseDialect(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Fatalf("ParseDialect(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRebind(t *testing.T) {
	q := "SELECT id FROM users WHERE email = ? OR username = ?"

	if got := db.MySQL.Rebind(q); got != q {
		t.Fatalf("mysql rebind changed query: %s", got)
	}
	if got := db.SQLite.Rebind(q); got != q {
		t.Fatalf("sqlite rebind changed query: %s", got)
	}
	want := "SELECT id FROM users WHERE email = $1 OR username = $2"
	if got := db.Postgres.Rebind(q); got != want {
		t.Fatalf("postgres rebind = %s, want %s", got, want)
	}
}

func TestRunMigrations_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "migrate.db")
	d, err := db.InitDB(db.SQLite, path, zerolog.Nop())
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	if err := db.RunMigrations(d, db.SQLite, zerolog.Nop()); err != nil {
		t.Fatalf("RunMigrations: %v", err)
	}
	// second run is a no-op
	if err := db.RunMigrations(d, db.SQLite, zerolog.Nop()); err != nil {
		t.Fatalf("RunMigrations again: %v", err)
	}

	for _, table := range []string{"users", "vehicles", "sessions"} {
		var n int
		if err := d.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&n); err != nil {
			t.Fatalf("table %s missing: %v", table, err)
		}
	}

	var seeded int
	if err := d.QueryRow(`SELECT COUNT(*) FROM vehicles`).Scan(&seeded); err != nil {
		t.Fatalf("count vehicles: %v", err)
	}
	if seeded != 5 {
		t.Fatalf("seeded vehicles = %d, want 5", seeded)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unique.db")
	d, err := db.InitDB(db.SQLite, path, zerolog.Nop())
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	if err := db.RunMigrations(d, db.SQLite, zerolog.Nop()); err != nil {
		t.Fatalf("RunMigrations: %v", err)
	}

	insert := `INSERT INTO users (username, email, password_hash, name, role) VALUES (?, ?, 'x', 'n', 'user')`
	if _, err := d.Exec(insert, "ana", "ana@x.com"); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	_, err = d.Exec(insert, "ana", "other@x.com")
	if !db.IsUniqueViolation(fmt.Errorf("wrapped: %w", err)) {
		t.Fatalf("sqlite duplicate not detected: %v", err)
	}

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", errors.New("boom"), false},
		{"mysql duplicate", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}, true},
		{"mysql other", &mysql.MySQLError{Number: 1045}, false},
		{"postgres duplicate", &pq.Error{Code: "23505"}, true},
		{"postgres other", &pq.Error{Code: "42P01"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := db.IsUniqueViolation(tt.err); got != tt.want {
				t.Fatalf("IsUniqueViolation(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
