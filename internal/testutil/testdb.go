package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/alexanderramin/weekplan/internal/db"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
// The database is closed when the test completes.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		database.Close()
	})
	return database
}

func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}

// InsertTestUser writes a bare user row so owned rows can reference it.
func InsertTestUser(t *testing.T, database *sql.DB, id, email string) {
	t.Helper()
	now := FixedNow.Format(time.RFC3339)
	_, err := database.ExecContext(context.Background(),
		`INSERT INTO users (id, email, name, password_hash, created_at, updated_at) VALUES (?, ?, '', 'x', ?, ?)`,
		id, email, now, now)
	if err != nil {
		t.Fatalf("inserting test user: %v", err)
	}
}
