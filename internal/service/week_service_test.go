package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alexanderramin/weekplan/internal/app"
	"github.com/alexanderramin/weekplan/internal/domain"
	"github.com/alexanderramin/weekplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekService_CreateGeneratesDays(t *testing.T) {
	b := newBackend(t)

	w := b.week
	assert.NotEmpty(t, w.ID)
	assert.Equal(t, 202642, w.WeekNumber)
	assert.Equal(t, "2026-10-12", w.Start.Format(domain.DateLayout))
	assert.Equal(t, "2026-10-18", w.End.Format(domain.DateLayout))
	require.Len(t, w.Days, domain.DaysPerWeek)
	assert.Equal(t, "2026-10-12", w.Days[0].Date)
	assert.Equal(t, "Mon, Oct 12", w.Days[0].Label)
	assert.Equal(t, "2026-10-18", w.Days[6].Date)

	seen := map[string]bool{}
	for _, d := range w.Days {
		assert.NotEqual(t, d.Date, d.ID, "backend day IDs are opaque")
		assert.False(t, seen[d.ID])
		seen[d.ID] = true
	}

	stored, err := b.weeks.Get(context.Background(), alice, w.ID)
	require.NoError(t, err)
	assert.Equal(t, w.Days, stored.Days)
}

func TestWeekService_CreateRejects(t *testing.T) {
	b := newBackend(t)
	ctx := context.Background()
	start := domain.StartOfWeek(testutil.FixedNow)

	tests := []struct {
		name  string
		req   app.CreateWeekRequest
		check func(t *testing.T, err error)
	}{
		{"end before start", app.CreateWeekRequest{Start: start, End: start.AddDate(0, 0, -1)}, func(t *testing.T, err error) {
			assert.True(t, domain.IsValidation(err))
		}},
		{"wrong span", app.CreateWeekRequest{Start: start, End: start.AddDate(0, 0, 3)}, func(t *testing.T, err error) {
			assert.True(t, domain.IsValidation(err))
		}},
		{"duplicate start", app.CreateWeekRequest{Start: start, End: start.AddDate(0, 0, 6)}, func(t *testing.T, err error) {
			assert.ErrorIs(t, err, ErrWeekExists)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.weeks.Create(ctx, alice, tt.req)
			require.Error(t, err)
			tt.check(t, err)
		})
	}

	// Another user may own a week with the same dates.
	_, err := b.weeks.Create(ctx, bob, app.CreateWeekRequest{Start: start, End: start.AddDate(0, 0, 6)})
	assert.NoError(t, err)
}

func TestWeekService_Current(t *testing.T) {
	b := newBackend(t)
	ctx := context.Background()

	w, err := b.weeks.Current(ctx, alice, testutil.FixedNow)
	require.NoError(t, err)
	assert.Equal(t, b.week.ID, w.ID)

	_, err = b.weeks.Current(ctx, alice, testutil.FixedNow.AddDate(0, 0, 7))
	assert.ErrorIs(t, err, domain.ErrWeekNotFound)

	_, err = b.weeks.Current(ctx, bob, testutil.FixedNow)
	assert.ErrorIs(t, err, domain.ErrWeekNotFound)
}

func TestWeekService_ListInRange(t *testing.T) {
	b := newBackend(t)
	ctx := context.Background()
	next := domain.StartOfWeek(testutil.FixedNow).AddDate(0, 0, 7)
	_, err := b.weeks.Create(ctx, alice, app.CreateWeekRequest{Start: next, End: next.AddDate(0, 0, 6)})
	require.NoError(t, err)

	weeks, err := b.weeks.ListInRange(ctx, alice, next, next.AddDate(0, 1, 0))
	require.NoError(t, err)
	require.Len(t, weeks, 1)
	assert.True(t, next.Equal(weeks[0].Start))

	all, err := b.weeks.List(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = b.weeks.ListInRange(ctx, alice, next, next.Add(-time.Hour))
	assert.True(t, domain.IsValidation(err))
}

func TestWeekService_GetWithStats(t *testing.T) {
	b := newBackend(t)
	ctx := context.Background()

	done := b.create(t, "done", b.day(0), domain.SwimlaneFocus)
	b.create(t, "open", b.day(2), domain.SwimlaneSelfCare)
	b.create(t, "backlog", "", "")
	completed := domain.StatusCompleted
	_, err := b.tasks.Update(ctx, alice, done.ID, domain.TaskPatch{Status: &completed})
	require.NoError(t, err)

	ws, err := b.weeks.GetWithStats(ctx, alice, b.week.ID)
	require.NoError(t, err)
	assert.Equal(t, b.week.ID, ws.Week.ID)
	assert.Equal(t, 2, ws.Statistics.Total)
	assert.Equal(t, 1, ws.Statistics.Completed)
	assert.Equal(t, 50.0, ws.Statistics.CompletionRate)

	_, err = b.weeks.GetWithStats(ctx, bob, b.week.ID)
	assert.ErrorIs(t, err, domain.ErrWeekNotFound)
}

func TestWeekService_UpdateTheme(t *testing.T) {
	b := newBackend(t)
	ctx := context.Background()

	theme := "Launch week"
	w, err := b.weeks.Update(ctx, alice, b.week.ID, domain.WeekPatch{Theme: &theme})
	require.NoError(t, err)
	assert.Equal(t, theme, w.Theme)

	long := string(make([]rune, domain.MaxWeekThemeLen+1))
	_, err = b.weeks.Update(ctx, alice, b.week.ID, domain.WeekPatch{Theme: &long})
	assert.True(t, domain.IsValidation(err))

	_, err = b.weeks.Update(ctx, bob, b.week.ID, domain.WeekPatch{Theme: &theme})
	assert.ErrorIs(t, err, domain.ErrWeekNotFound)
}

func TestWeekService_DeleteReturnsTasksToBacklog(t *testing.T) {
	b := newBackend(t)
	ctx := context.Background()

	b.create(t, "floating", "", "")
	b.create(t, "mon", b.day(0), domain.SwimlaneFocus)
	b.create(t, "wed", b.day(2), domain.SwimlaneFocus)

	require.NoError(t, b.weeks.Delete(ctx, alice, b.week.ID))

	assert.Equal(t, []string{"floating", "mon", "wed"}, b.titlesIn(t, "", ""))
	_, err := b.weeks.Get(ctx, alice, b.week.ID)
	assert.ErrorIs(t, err, domain.ErrWeekNotFound)
	_, err = b.weeks.GetDay(ctx, alice, b.day(0))
	assert.ErrorIs(t, err, domain.ErrDayNotFound)
	assert.ErrorIs(t, b.weeks.Delete(ctx, alice, b.week.ID), domain.ErrWeekNotFound)
}

func TestWeekService_DeleteRollsBackOnFailure(t *testing.T) {
	database := testutil.NewTestDB(t)
	testutil.InsertTestUser(t, database, alice, "alice@example.com")
	setup := newBackendWithUoW(t, database, testutil.NewTestUoW(database))
	setup.create(t, "mon", setup.day(0), domain.SwimlaneFocus)

	// Exec #1 unschedules the task, #2 deletes the week.
	injected := errors.New("injected delete failure")
	failing := newBackendWithUoW(t, database, &testutil.FailOnNthExecUoW{DB: database, FailOn: 2, Err: injected})

	require.ErrorIs(t, failing.weeks.Delete(context.Background(), alice, setup.week.ID), injected)

	assert.Equal(t, []string{"mon"}, setup.titlesIn(t, setup.day(0), domain.SwimlaneFocus))
	_, err := setup.weeks.Get(context.Background(), alice, setup.week.ID)
	assert.NoError(t, err)
}

func TestWeekService_Days(t *testing.T) {
	b := newBackend(t)
	ctx := context.Background()

	theme, metric := "Writing", "2 chapters"
	d, err := b.weeks.UpdateDay(ctx, alice, b.day(3), domain.DayPatch{Theme: &theme, FocusMetric: &metric})
	require.NoError(t, err)
	assert.Equal(t, theme, d.Theme)

	got, err := b.weeks.GetDay(ctx, alice, b.day(3))
	require.NoError(t, err)
	assert.Equal(t, metric, got.FocusMetric)

	empty := ""
	got, err = b.weeks.UpdateDay(ctx, alice, b.day(3), domain.DayPatch{Theme: &empty})
	require.NoError(t, err)
	assert.Empty(t, got.Theme)
	assert.Equal(t, metric, got.FocusMetric, "nil field is left untouched")

	_, err = b.weeks.GetDay(ctx, bob, b.day(3))
	assert.ErrorIs(t, err, domain.ErrDayNotFound)
	_, err = b.weeks.UpdateDay(ctx, alice, "missing", domain.DayPatch{Theme: &theme})
	assert.ErrorIs(t, err, domain.ErrDayNotFound)
}
