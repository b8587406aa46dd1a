package repository

import (
	"database/sql"
	"testing"
	"time"

	"github.com/alexanderramin/weekplan/internal/domain"
	"github.com/alexanderramin/weekplan/internal/testutil"
)

const testUser = "user-1"

func repoTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database := testutil.NewTestDB(t)
	testutil.InsertTestUser(t, database, testUser, "ada@example.com")
	return database
}

// storedWeek builds a week whose day IDs are prefixed with the week ID so
// several weeks can share one database.
func storedWeek(id string, anchor time.Time) *domain.Week {
	w := domain.BuildWeek(anchor)
	w.ID = id
	w.Days = domain.GenerateDays(w.Start, func(date string) string { return id + "-" + date })
	return &w
}
