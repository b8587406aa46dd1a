package planner

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/weekplan/internal/domain"
	"github.com/alexanderramin/weekplan/internal/snapshot"
	"github.com/alexanderramin/weekplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStore_StartsColdWithSeedContent(t *testing.T) {
	s := newGuestStore(t, testutil.NewMemoryBlobStore())

	st := s.State()
	assert.Equal(t, HydrationCold, st.Hydration)
	assert.Equal(t, snapshot.SourceSeed, st.Source)
	assert.Equal(t, ViewWeekly, st.Mode)
	assert.Len(t, st.Tasks, 7)
	assert.Len(t, st.Floating, 3)
	assert.Equal(t, domain.StartOfWeek(testutil.FixedNow), st.Week.Start)
	assert.Equal(t, ModeGuest, s.Mode())
}

func TestLoadInitialSnapshot_HydrationTransitions(t *testing.T) {
	s := newGuestStore(t, testutil.NewMemoryBlobStore())

	var mu sync.Mutex
	var seen []Hydration
	s.Subscribe(func(st State) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, st.Hydration)
	})

	require.NoError(t, s.LoadInitialSnapshot(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []Hydration{HydrationHydrating, HydrationHydrated}, seen)
	assert.Equal(t, snapshot.SourceSeed, s.State().Source)
}

func TestLoadInitialSnapshot_Idempotent(t *testing.T) {
	s, _ := newLoadedGuestStore(t, nil, nil)

	_, _, err := s.CreateTask(testutil.NewTestFields("Keep me"))
	require.NoError(t, err)

	require.NoError(t, s.LoadInitialSnapshot(context.Background()))
	_, ok := findByTitle(s.State(), "Keep me")
	assert.True(t, ok, "second load must not replace in-memory state")
}

func TestLoadInitialSnapshot_WaitsForAuthInitialization(t *testing.T) {
	auth := testutil.NewFakeAuth()
	s := newGuestStore(t, testutil.NewMemoryBlobStore(), WithAuth(auth))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := s.LoadInitialSnapshot(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, HydrationCold, s.State().Hydration)

	auth.Initialize(false)
	require.NoError(t, s.LoadInitialSnapshot(context.Background()))
	assert.Equal(t, HydrationHydrated, s.State().Hydration)
}

func TestLoadInitialSnapshot_CorruptSnapshotFallsBackToSeed(t *testing.T) {
	blobs := testutil.NewMemoryBlobStore()
	blobs.Set(snapshot.StorageKey, []byte("{not json"))
	s := newGuestStore(t, blobs)

	require.NoError(t, s.LoadInitialSnapshot(context.Background()))

	st := s.State()
	assert.Equal(t, HydrationHydrated, st.Hydration)
	assert.Equal(t, snapshot.SourceSeed, st.Source)
	assert.Len(t, st.Tasks, 7)
	assert.Nil(t, st.LastSavedAt)
}

// Scenario: create on an empty backlog.
func TestCreateTask_EmptyBacklog(t *testing.T) {
	s, _ := newLoadedGuestStore(t, nil, nil)

	task, op, err := s.CreateTask(domain.TaskFields{
		Title:           "Write docs",
		Category:        domain.CategoryWork,
		Energy:          domain.EnergyHigh,
		DurationMinutes: 60,
	})
	require.NoError(t, err)
	require.NoError(t, waitOp(t, op))

	st := s.State()
	require.Len(t, st.Floating, 1)
	assert.Equal(t, task.ID, st.Floating[0].ID)
	assert.Equal(t, 0, st.Floating[0].Order)
	assert.Equal(t, domain.StatusPlanned, st.Floating[0].Status)
	assert.Empty(t, st.Tasks)
}

func TestCreateTask_InsertsAtHeadOfBacklog(t *testing.T) {
	s, _ := newLoadedGuestStore(t, nil, []domain.Task{
		testutil.NewTestTask("a", testutil.WithTaskID("a"), testutil.WithOrder(0)),
		testutil.NewTestTask("b", testutil.WithTaskID("b"), testutil.WithOrder(1)),
	})

	task, _, err := s.CreateTask(testutil.NewTestFields("new"))
	require.NoError(t, err)

	st := s.State()
	assert.Equal(t, []string{task.ID, "a", "b"}, taskIDs(IndexFor(st.Floating).Lane(FloatingLane)))
	assertDense(t, st.Floating)
}

func TestCreateTask_PlacedAppendsToLane(t *testing.T) {
	week := testutil.NewTestWeek()
	mon := week.Days[0].ID
	s, _ := newLoadedGuestStore(t, []domain.Task{
		testutil.NewTestTask("a", testutil.WithTaskID("a"), testutil.WithPlacement(mon, domain.SwimlaneFocus)),
	}, nil)

	fields := testutil.NewTestFields("placed")
	fields.DayID, fields.Swimlane = mon, domain.SwimlaneFocus
	task, _, err := s.CreateTask(fields)
	require.NoError(t, err)

	lane := s.Index().Lane(LaneKey{DayID: mon, Swimlane: domain.SwimlaneFocus})
	assert.Equal(t, []string{"a", task.ID}, taskIDs(lane))
}

func TestCreateTask_ValidationRejectsWithoutChange(t *testing.T) {
	s, _ := newLoadedGuestStore(t, nil, nil)

	tests := []struct {
		name   string
		fields domain.TaskFields
	}{
		{"blank title", domain.TaskFields{Title: "   ", Category: domain.CategoryWork, Energy: domain.EnergyLow, DurationMinutes: 30}},
		{"short duration", domain.TaskFields{Title: "x", Category: domain.CategoryWork, Energy: domain.EnergyLow, DurationMinutes: 4}},
		{"unknown category", domain.TaskFields{Title: "x", Category: "chores", Energy: domain.EnergyLow, DurationMinutes: 30}},
		{"half placement", domain.TaskFields{Title: "x", Category: domain.CategoryWork, Energy: domain.EnergyLow, DurationMinutes: 30, DayID: "2026-10-12"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := s.State()
			_, op, err := s.CreateTask(tt.fields)
			require.Error(t, err)
			assert.Nil(t, op)
			assert.Equal(t, before, s.State())
		})
	}
}

func TestCreateTask_DayOutsideWeek(t *testing.T) {
	s, _ := newLoadedGuestStore(t, nil, nil)

	fields := testutil.NewTestFields("elsewhere")
	fields.DayID, fields.Swimlane = "1999-01-01", domain.SwimlaneFocus
	_, _, err := s.CreateTask(fields)
	require.ErrorIs(t, err, domain.ErrDayNotFound)
	assert.Empty(t, s.State().Floating)
}

// Scenario: schedule the second backlog task into an empty lane.
func TestScheduleFloatingTask_IntoEmptyLane(t *testing.T) {
	mon := testutil.NewTestWeek().Days[0].ID
	s, _ := newLoadedGuestStore(t, nil, []domain.Task{
		testutil.NewTestTask("first", testutil.WithTaskID("f0"), testutil.WithOrder(0)),
		testutil.NewTestTask("second", testutil.WithTaskID("f1"), testutil.WithOrder(1)),
	})

	op := s.ScheduleFloatingTask(MoveRequest{TaskID: "f1", DayID: mon, Swimlane: domain.SwimlaneFocus, Index: 0})
	require.NoError(t, waitOp(t, op))

	st := s.State()
	require.Len(t, st.Floating, 1)
	assert.Equal(t, "f0", st.Floating[0].ID)
	assert.Equal(t, 0, st.Floating[0].Order)

	lane := IndexFor(st.Tasks).Lane(LaneKey{DayID: mon, Swimlane: domain.SwimlaneFocus})
	require.Len(t, lane, 1)
	assert.Equal(t, "f1", lane[0].ID)
	assert.Equal(t, 0, lane[0].Order)
}

// Scenario: move the head of a three-task lane to another day.
func TestMoveTask_BetweenLanes(t *testing.T) {
	week := testutil.NewTestWeek()
	mon, tue := week.Days[0].ID, week.Days[1].ID
	s, _ := newLoadedGuestStore(t, []domain.Task{
		testutil.NewTestTask("a", testutil.WithTaskID("a"), testutil.WithOrder(0), testutil.WithPlacement(mon, domain.SwimlaneFocus)),
		testutil.NewTestTask("b", testutil.WithTaskID("b"), testutil.WithOrder(1), testutil.WithPlacement(mon, domain.SwimlaneFocus)),
		testutil.NewTestTask("c", testutil.WithTaskID("c"), testutil.WithOrder(2), testutil.WithPlacement(mon, domain.SwimlaneFocus)),
	}, nil)

	op := s.MoveTask(MoveRequest{TaskID: "a", DayID: tue, Swimlane: domain.SwimlaneCollaboration, Index: 0})
	require.NoError(t, waitOp(t, op))

	ix := s.Index()
	src := ix.Lane(LaneKey{DayID: mon, Swimlane: domain.SwimlaneFocus})
	assert.Equal(t, []string{"b", "c"}, taskIDs(src))
	assert.Equal(t, []int{0, 1}, []int{src[0].Order, src[1].Order})

	dst := ix.Lane(LaneKey{DayID: tue, Swimlane: domain.SwimlaneCollaboration})
	require.Len(t, dst, 1)
	assert.Equal(t, "a", dst[0].ID)
	assert.Equal(t, 0, dst[0].Order)
}

func TestMoveTask_WithinLaneClampsIndex(t *testing.T) {
	mon := testutil.NewTestWeek().Days[0].ID
	s, _ := newLoadedGuestStore(t, []domain.Task{
		testutil.NewTestTask("a", testutil.WithTaskID("a"), testutil.WithOrder(0), testutil.WithPlacement(mon, domain.SwimlaneFocus)),
		testutil.NewTestTask("b", testutil.WithTaskID("b"), testutil.WithOrder(1), testutil.WithPlacement(mon, domain.SwimlaneFocus)),
	}, nil)

	require.NoError(t, waitOp(t, s.MoveTask(MoveRequest{TaskID: "a", DayID: mon, Swimlane: domain.SwimlaneFocus, Index: 50})))
	assert.Equal(t, []string{"b", "a"}, taskIDs(s.Index().Lane(LaneKey{DayID: mon, Swimlane: domain.SwimlaneFocus})))
}

func TestMoveTask_Preconditions(t *testing.T) {
	mon := testutil.NewTestWeek().Days[0].ID
	s, _ := newLoadedGuestStore(t, nil, []domain.Task{
		testutil.NewTestTask("loose", testutil.WithTaskID("f0")),
	})
	before := s.State()

	err := waitOp(t, s.MoveTask(MoveRequest{TaskID: "f0", DayID: mon, Swimlane: domain.SwimlaneFocus}))
	assert.ErrorIs(t, err, domain.ErrTaskNotFound, "floating tasks are not movable with MoveTask")

	err = waitOp(t, s.ScheduleFloatingTask(MoveRequest{TaskID: "f0", DayID: mon}))
	assert.ErrorIs(t, err, domain.ErrInvalidPlacement)

	assert.Equal(t, before, s.State())
}

func TestUnscheduleTask(t *testing.T) {
	mon := testutil.NewTestWeek().Days[0].ID
	scheduled := []domain.Task{
		testutil.NewTestTask("s", testutil.WithTaskID("s"), testutil.WithPlacement(mon, domain.SwimlaneFocus)),
	}
	floating := []domain.Task{
		testutil.NewTestTask("f0", testutil.WithTaskID("f0"), testutil.WithOrder(0)),
		testutil.NewTestTask("f1", testutil.WithTaskID("f1"), testutil.WithOrder(1)),
	}

	t.Run("appends by default", func(t *testing.T) {
		s, _ := newLoadedGuestStore(t, scheduled, floating)
		require.NoError(t, waitOp(t, s.UnscheduleTask(UnscheduleRequest{TaskID: "s"})))

		st := s.State()
		assert.Empty(t, st.Tasks)
		assert.Equal(t, []string{"f0", "f1", "s"}, taskIDs(IndexFor(st.Floating).Lane(FloatingLane)))
		moved, _ := st.Task("s")
		assert.Empty(t, moved.DayID)
		assert.Empty(t, moved.Swimlane)
	})

	t.Run("inserts at index", func(t *testing.T) {
		s, _ := newLoadedGuestStore(t, scheduled, floating)
		idx := 1
		require.NoError(t, waitOp(t, s.UnscheduleTask(UnscheduleRequest{TaskID: "s", Index: &idx})))
		assert.Equal(t, []string{"f0", "s", "f1"}, taskIDs(s.Index().Lane(FloatingLane)))
	})
}

func TestReorderFloatingTask(t *testing.T) {
	s, _ := newLoadedGuestStore(t, nil, []domain.Task{
		testutil.NewTestTask("f0", testutil.WithTaskID("f0"), testutil.WithOrder(0)),
		testutil.NewTestTask("f1", testutil.WithTaskID("f1"), testutil.WithOrder(1)),
		testutil.NewTestTask("f2", testutil.WithTaskID("f2"), testutil.WithOrder(2)),
	})

	require.NoError(t, waitOp(t, s.ReorderFloatingTask("f2", 0)))
	assert.Equal(t, []string{"f2", "f0", "f1"}, taskIDs(s.Index().Lane(FloatingLane)))
	assertDense(t, s.State().Floating)
}

// Scenario: completing and reopening a task.
func TestUpdateTaskStatus_CompletionTimestamp(t *testing.T) {
	s, _ := newLoadedGuestStore(t, nil, []domain.Task{
		testutil.NewTestTask("t", testutil.WithTaskID("t")),
	})

	require.NoError(t, waitOp(t, s.UpdateTaskStatus("t", domain.StatusCompleted)))
	task, _ := s.State().Task("t")
	assert.Equal(t, domain.StatusCompleted, task.Status)
	require.NotNil(t, task.CompletedAt)
	assert.Equal(t, testutil.FixedNow, *task.CompletedAt)

	require.NoError(t, waitOp(t, s.UpdateTaskStatus("t", domain.StatusPlanned)))
	task, _ = s.State().Task("t")
	assert.Equal(t, domain.StatusPlanned, task.Status)
	assert.Nil(t, task.CompletedAt)

	require.NoError(t, waitOp(t, s.UpdateTaskStatus("t", domain.StatusInProgress)))
	task, _ = s.State().Task("t")
	assert.Nil(t, task.CompletedAt)
}

func TestUpdateTaskStatus_InvalidStatus(t *testing.T) {
	s, _ := newLoadedGuestStore(t, nil, []domain.Task{testutil.NewTestTask("t", testutil.WithTaskID("t"))})
	err := waitOp(t, s.UpdateTaskStatus("t", "done"))
	assert.True(t, domain.IsValidation(err))
}

func TestUpdateTask_PatchesFields(t *testing.T) {
	s, _ := newLoadedGuestStore(t, nil, []domain.Task{testutil.NewTestTask("t", testutil.WithTaskID("t"))})

	op, err := s.UpdateTask("t", domain.TaskPatch{Title: domain.StrPtr("  renamed "), DurationMinutes: domain.IntPtr(90)})
	require.NoError(t, err)
	require.NoError(t, waitOp(t, op))

	task, _ := s.State().Task("t")
	assert.Equal(t, "renamed", task.Title)
	assert.Equal(t, 90, task.DurationMinutes)

	_, err = s.UpdateTask("t", domain.TaskPatch{DurationMinutes: domain.IntPtr(500)})
	assert.True(t, domain.IsValidation(err))
}

func TestDeleteTask_Idempotent(t *testing.T) {
	s, _ := newLoadedGuestStore(t, nil, []domain.Task{
		testutil.NewTestTask("f0", testutil.WithTaskID("f0"), testutil.WithOrder(0)),
		testutil.NewTestTask("f1", testutil.WithTaskID("f1"), testutil.WithOrder(1)),
	})

	require.NoError(t, waitOp(t, s.DeleteTask("f0")))
	require.NoError(t, waitOp(t, s.DeleteTask("f0")))

	st := s.State()
	require.Len(t, st.Floating, 1)
	assert.Equal(t, 0, st.Floating[0].Order)
}

func TestDayPatches(t *testing.T) {
	s, _ := newLoadedGuestStore(t, nil, nil)
	mon := s.State().Week.Days[0].ID

	require.NoError(t, waitOp(t, s.SetTheme(mon, "Admin day")))
	require.NoError(t, waitOp(t, s.SetFocusMetric(mon, "Inbox zero")))
	day, _ := s.State().Week.Day(mon)
	assert.Equal(t, "Admin day", day.Theme)
	assert.Equal(t, "Inbox zero", day.FocusMetric)

	require.NoError(t, waitOp(t, s.SetTheme(mon, "")))
	day, _ = s.State().Week.Day(mon)
	assert.Empty(t, day.Theme)

	assert.ErrorIs(t, waitOp(t, s.SetTheme("nowhere", "x")), domain.ErrDayNotFound)
}

func TestSetViewMode(t *testing.T) {
	s := newGuestStore(t, testutil.NewMemoryBlobStore())
	s.SetViewMode(ViewList)
	assert.Equal(t, ViewList, s.State().Mode)
}

func TestWeekNavigation_Guest(t *testing.T) {
	s, _ := newLoadedGuestStore(t, nil, []domain.Task{testutil.NewTestTask("keep", testutil.WithTaskID("k"))})
	start := domain.StartOfWeek(testutil.FixedNow)

	require.NoError(t, waitOp(t, s.GoToNextWeek()))
	st := s.State()
	assert.Equal(t, start.AddDate(0, 0, 7), st.Week.Start)
	assert.Len(t, st.Week.Days, domain.DaysPerWeek)
	assert.Len(t, st.Floating, 1, "navigation keeps the backlog")

	require.NoError(t, waitOp(t, s.GoToPreviousWeek()))
	require.NoError(t, waitOp(t, s.GoToPreviousWeek()))
	assert.Equal(t, start.AddDate(0, 0, -7), s.State().Week.Start)

	require.NoError(t, waitOp(t, s.ResetToCurrentWeek()))
	assert.Equal(t, start, s.State().Week.Start)

	require.NoError(t, waitOp(t, s.HydrateFromDate(time.Date(2027, 1, 1, 15, 0, 0, 0, time.UTC))))
	assert.Equal(t, time.Date(2026, 12, 28, 0, 0, 0, 0, time.UTC), s.State().Week.Start)
}

// Scenario: persist, restart, reload.
func TestPersistSnapshot_RestartRoundTrip(t *testing.T) {
	blobs := testutil.NewMemoryBlobStore()
	first := newGuestStore(t, blobs)
	require.NoError(t, first.LoadInitialSnapshot(context.Background()))

	task, _, err := first.CreateTask(testutil.NewTestFields("Persist me"))
	require.NoError(t, err)
	mon := first.State().Week.Days[0].ID
	require.NoError(t, waitOp(t, first.ScheduleFloatingTask(MoveRequest{TaskID: task.ID, DayID: mon, Swimlane: domain.SwimlaneLifeAdmin})))
	require.NoError(t, waitOp(t, first.UpdateTaskStatus("task-1", domain.StatusCompleted)))
	require.NoError(t, waitOp(t, first.SetFocusMetric(mon, "3 deep blocks")))

	require.NoError(t, first.PersistSnapshot(context.Background()))
	saved := first.State()
	first.Close()

	second := newGuestStore(t, blobs)
	require.NoError(t, second.LoadInitialSnapshot(context.Background()))
	loaded := second.State()

	assert.Equal(t, saved.Week, loaded.Week)
	assert.Equal(t, saved.Tasks, loaded.Tasks)
	assert.Equal(t, saved.Floating, loaded.Floating)
	assert.Equal(t, snapshot.SourceLocal, loaded.Source)
	require.NotNil(t, loaded.LastSavedAt)
	assert.Equal(t, testutil.FixedNow, *loaded.LastSavedAt)
}

func TestPersistSnapshot_SavingFlag(t *testing.T) {
	s := newGuestStore(t, testutil.NewMemoryBlobStore())

	var mu sync.Mutex
	var saving []bool
	s.Subscribe(func(st State) {
		mu.Lock()
		defer mu.Unlock()
		saving = append(saving, st.Saving)
	})

	require.NoError(t, s.PersistSnapshot(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []bool{true, false}, saving)
	st := s.State()
	assert.Equal(t, snapshot.SourceLocal, st.Source)
	assert.NotNil(t, st.LastSavedAt)
}

func TestPersistSnapshot_FailureIsReported(t *testing.T) {
	blobs := testutil.NewMemoryBlobStore()
	blobs.PutErr = errors.New("disk full")
	s := newGuestStore(t, blobs)
	require.NoError(t, s.LoadInitialSnapshot(context.Background()))

	err := s.PersistSnapshot(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	st := s.State()
	assert.False(t, st.Saving)
	assert.Nil(t, st.LastSavedAt, "last-saved is recorded on success only")
	assert.Equal(t, snapshot.SourceSeed, st.Source)
}

func TestMutationsAfterClose(t *testing.T) {
	s := newGuestStore(t, testutil.NewMemoryBlobStore())
	s.Close()

	assert.ErrorIs(t, waitOp(t, s.DeleteTask("task-1")), ErrClosed)
	assert.ErrorIs(t, waitOp(t, s.GoToNextWeek()), ErrClosed)
	_, _, err := s.CreateTask(testutil.NewTestFields("late"))
	assert.ErrorIs(t, err, ErrClosed)
}

func TestInvariants_HoldAcrossRandomMutations(t *testing.T) {
	s := newGuestStore(t, testutil.NewMemoryBlobStore())
	require.NoError(t, s.LoadInitialSnapshot(context.Background()))
	rng := rand.New(rand.NewPCG(42, 7))
	days := s.State().Week.Days

	pick := func(tasks []domain.Task) (string, bool) {
		if len(tasks) == 0 {
			return "", false
		}
		return tasks[rng.IntN(len(tasks))].ID, true
	}

	for i := 0; i < 200; i++ {
		st := s.State()
		day := days[rng.IntN(len(days))].ID
		lane := domain.SwimlaneKeys[rng.IntN(len(domain.SwimlaneKeys))]
		index := rng.IntN(6) - 1

		switch rng.IntN(6) {
		case 0:
			if id, ok := pick(st.Tasks); ok {
				s.MoveTask(MoveRequest{TaskID: id, DayID: day, Swimlane: lane, Index: index})
			}
		case 1:
			if id, ok := pick(st.Floating); ok {
				s.ScheduleFloatingTask(MoveRequest{TaskID: id, DayID: day, Swimlane: lane, Index: index})
			}
		case 2:
			if id, ok := pick(st.Tasks); ok {
				s.UnscheduleTask(UnscheduleRequest{TaskID: id, Index: &index})
			}
		case 3:
			if id, ok := pick(st.Floating); ok {
				s.ReorderFloatingTask(id, index)
			}
		case 4:
			_, _, err := s.CreateTask(testutil.NewTestFields("random"))
			require.NoError(t, err)
		case 5:
			if id, ok := pick(append(st.Tasks, st.Floating...)); ok {
				s.DeleteTask(id)
			}
		}

		st = s.State()
		assertDense(t, st.Tasks)
		assertDense(t, st.Floating)
		for _, task := range st.Tasks {
			require.NoError(t, domain.ValidatePlacement(task.DayID, task.Swimlane))
			require.True(t, task.Scheduled())
		}
		for _, task := range st.Floating {
			require.False(t, task.Scheduled())
			require.Empty(t, task.Swimlane)
		}
	}
}
