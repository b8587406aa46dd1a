package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/alexanderramin/weekplan/internal/app"
	"github.com/alexanderramin/weekplan/internal/db"
	"github.com/alexanderramin/weekplan/internal/domain"
	"github.com/alexanderramin/weekplan/internal/repository"
	"github.com/alexanderramin/weekplan/internal/testutil"
	"github.com/stretchr/testify/require"
)

const (
	alice = "user-alice"
	bob   = "user-bob"
)

type backend struct {
	db       *sql.DB
	taskRepo *repository.SQLiteTaskRepo
	weekRepo *repository.SQLiteWeekRepo
	tasks    TaskService
	weeks    WeekService
	week     *domain.Week
}

// newBackend opens a fresh database with two users and a week for alice
// containing testutil.FixedNow.
func newBackend(t *testing.T) *backend {
	t.Helper()
	database := testutil.NewTestDB(t)
	testutil.InsertTestUser(t, database, alice, "alice@example.com")
	testutil.InsertTestUser(t, database, bob, "bob@example.com")
	return newBackendWithUoW(t, database, testutil.NewTestUoW(database))
}

func newBackendWithUoW(t *testing.T, database *sql.DB, uow db.UnitOfWork) *backend {
	t.Helper()
	b := &backend{
		db:       database,
		taskRepo: repository.NewSQLiteTaskRepo(database),
		weekRepo: repository.NewSQLiteWeekRepo(database),
	}
	b.tasks = NewTaskService(b.taskRepo, b.weekRepo, uow)
	b.weeks = NewWeekService(b.weekRepo, b.taskRepo, uow)

	weeks, err := b.weekRepo.List(context.Background(), alice)
	require.NoError(t, err)
	if len(weeks) > 0 {
		b.week = &weeks[0]
		return b
	}
	b.week = createWeek(t, b.weeks, alice)
	return b
}

func createWeek(t *testing.T, weeks WeekService, userID string) *domain.Week {
	t.Helper()
	start := domain.StartOfWeek(testutil.FixedNow)
	w, err := weeks.Create(context.Background(), userID, app.CreateWeekRequest{
		Start: start,
		End:   start.AddDate(0, 0, domain.DaysPerWeek-1),
	})
	require.NoError(t, err)
	return w
}

func (b *backend) day(i int) string {
	return b.week.Days[i].ID
}

// create adds a task for alice, optionally placed.
func (b *backend) create(t *testing.T, title, dayID string, lane domain.SwimlaneKey) *domain.Task {
	t.Helper()
	f := testutil.NewTestFields(title)
	f.DayID, f.Swimlane = dayID, lane
	task, err := b.tasks.Create(context.Background(), alice, f)
	require.NoError(t, err)
	return task
}

// titlesIn lists the titles of one group in position order.
func (b *backend) titlesIn(t *testing.T, dayID string, lane domain.SwimlaneKey) []string {
	t.Helper()
	filter := app.TaskFilter{DayID: dayID, Swimlane: lane, Unassigned: dayID == ""}
	tasks, err := b.tasks.List(context.Background(), alice, filter)
	require.NoError(t, err)
	titles := []string{}
	for i, task := range tasks {
		require.Equal(t, i, task.Order, "group %s/%s is not dense", dayID, lane)
		titles = append(titles, task.Title)
	}
	return titles
}
