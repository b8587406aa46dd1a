// Package servertest starts a fully wired API server over an in-memory
// database for tests.
package servertest

import (
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/alexanderramin/weekplan/internal/repository"
	"github.com/alexanderramin/weekplan/internal/server"
	"github.com/alexanderramin/weekplan/internal/service"
	"github.com/alexanderramin/weekplan/internal/testutil"
)

// Start serves the API until the test completes. The clock is pinned to
// testutil.FixedNow.
func Start(t *testing.T) *httptest.Server {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)
	tasks := repository.NewSQLiteTaskRepo(database)
	weeks := repository.NewSQLiteWeekRepo(database)
	now := func() time.Time { return testutil.FixedNow }

	srv := server.New(server.Options{
		Tasks: service.NewTaskService(tasks, weeks, uow),
		Weeks: service.NewWeekService(weeks, tasks, uow),
		Auth: service.NewAuthService(
			repository.NewSQLiteUserRepo(database),
			repository.NewSQLiteAuthSessionRepo(database),
			service.AuthConfig{SessionTTL: 24 * time.Hour, BcryptCost: bcrypt.MinCost, Now: now},
		),
		Now: now,
	})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}
