package planner

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/weekplan/internal/app"
	"github.com/alexanderramin/weekplan/internal/domain"
	"github.com/alexanderramin/weekplan/internal/snapshot"
	"github.com/alexanderramin/weekplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBackendDown = errors.New("backend unavailable")

func seedRemoteLane(h *remoteHarness) {
	mon := h.dayID(0)
	for i, id := range []string{"r0", "r1", "r2"} {
		h.remote.PutTask(testutil.NewTestTask(id, testutil.WithTaskID(id), testutil.WithOrder(i), testutil.WithPlacement(mon, domain.SwimlaneFocus)))
	}
	h.remote.PutTask(testutil.NewTestTask("backlog", testutil.WithTaskID("rf")))
}

func TestRemoteHydration(t *testing.T) {
	h := newRemoteHarness(t, seedRemoteLane)

	st := h.store.State()
	assert.Equal(t, ModeRemote, h.store.Mode())
	assert.Equal(t, HydrationHydrated, st.Hydration)
	assert.Equal(t, snapshot.SourceRemote, st.Source)
	assert.Equal(t, h.week.ID, st.Week.ID)
	assert.Equal(t, []string{"r0", "r1", "r2"}, taskIDs(st.Tasks))
	assert.Equal(t, []string{"rf"}, taskIDs(st.Floating))
	assert.Zero(t, h.remote.CallCount("CreateWeek"))
}

func TestRemoteHydration_CreatesMissingWeek(t *testing.T) {
	remote := testutil.NewFakeRemote()
	s := newGuestStore(t, testutil.NewMemoryBlobStore(), WithRemote(remote), WithAuth(testutil.NewReadyAuth(true)))

	require.NoError(t, s.LoadInitialSnapshot(context.Background()))

	st := s.State()
	assert.Equal(t, 1, remote.CallCount("CreateWeek"))
	assert.NotEmpty(t, st.Week.ID)
	assert.Equal(t, domain.StartOfWeek(testutil.FixedNow), st.Week.Start)
	assert.Empty(t, st.Tasks)
}

func TestRemoteHydration_FailureFallsBackToLocal(t *testing.T) {
	remote := testutil.NewFakeRemote()
	remote.FailOn("CurrentWeek", errBackendDown)
	notifier := &testutil.RecordingNotifier{}
	s := newGuestStore(t, testutil.NewMemoryBlobStore(),
		WithRemote(remote), WithAuth(testutil.NewReadyAuth(true)), WithNotifier(notifier))

	require.NoError(t, s.LoadInitialSnapshot(context.Background()))

	st := s.State()
	assert.Equal(t, HydrationHydrated, st.Hydration)
	assert.Equal(t, snapshot.SourceSeed, st.Source)
	require.Len(t, notifier.Notices(), 1)
	assert.Equal(t, app.NoticeError, notifier.Notices()[0].Level)
}

// Scenario: a remote-backed move fails and snaps back.
func TestMoveTask_RemoteFailureRollsBack(t *testing.T) {
	h := newRemoteHarness(t, seedRemoteLane)
	h.remote.FailOn("AssignTask", errBackendDown)
	before := h.store.State().Tasks

	op := h.store.MoveTask(MoveRequest{TaskID: "r0", DayID: h.dayID(1), Swimlane: domain.SwimlaneCollaboration, Index: 0})

	err := waitOp(t, op)
	require.ErrorIs(t, err, errBackendDown)
	assert.Equal(t, before, h.store.State().Tasks)
	require.Len(t, h.notifier.Notices(), 1)
	assert.Contains(t, h.notifier.Notices()[0].Message, "move task")
}

func TestMoveTask_OptimisticBeforeConfirm(t *testing.T) {
	h := newRemoteHarness(t, seedRemoteLane)
	release := h.remote.Hold()
	defer release()

	op := h.store.MoveTask(MoveRequest{TaskID: "r0", DayID: h.dayID(1), Swimlane: domain.SwimlaneCollaboration, Index: 0})

	task, _ := h.store.State().Task("r0")
	assert.Equal(t, h.dayID(1), task.DayID, "local state reflects the move before the backend answers")
	assert.NoError(t, op.Err(), "in-flight ops report no error yet")

	release()
	require.NoError(t, waitOp(t, op))
	remoteTask, _ := h.remote.Task("r0")
	assert.Equal(t, h.dayID(1), remoteTask.DayID)
	assert.Equal(t, domain.SwimlaneCollaboration, remoteTask.Swimlane)
	assert.Equal(t, 0, remoteTask.Order)
	assert.Empty(t, h.notifier.Notices())
}

func TestRemoteFailure_RollbackCompleteness(t *testing.T) {
	tests := []struct {
		name   string
		method string
		mutate func(h *remoteHarness) *Op
	}{
		{"move", "AssignTask", func(h *remoteHarness) *Op {
			return h.store.MoveTask(MoveRequest{TaskID: "r2", DayID: h.dayID(3), Swimlane: domain.SwimlaneSelfCare})
		}},
		{"schedule", "AssignTask", func(h *remoteHarness) *Op {
			return h.store.ScheduleFloatingTask(MoveRequest{TaskID: "rf", DayID: h.dayID(0), Swimlane: domain.SwimlaneFocus, Index: 1})
		}},
		{"unschedule", "AssignTask", func(h *remoteHarness) *Op {
			return h.store.UnscheduleTask(UnscheduleRequest{TaskID: "r1"})
		}},
		{"reorder", "AssignTask", func(h *remoteHarness) *Op {
			return h.store.ReorderFloatingTask("rf", 0)
		}},
		{"status", "UpdateTask", func(h *remoteHarness) *Op {
			return h.store.UpdateTaskStatus("r0", domain.StatusCompleted)
		}},
		{"update", "UpdateTask", func(h *remoteHarness) *Op {
			op, err := h.store.UpdateTask("rf", domain.TaskPatch{Notes: domain.StrPtr("new notes")})
			require.NoError(t, err)
			return op
		}},
		{"delete", "DeleteTask", func(h *remoteHarness) *Op {
			return h.store.DeleteTask("r1")
		}},
		{"theme", "UpdateDay", func(h *remoteHarness) *Op {
			return h.store.SetTheme(h.dayID(2), "Deep work")
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newRemoteHarness(t, seedRemoteLane)
			h.remote.FailOn(tt.method, errBackendDown)
			before := h.store.State()

			err := waitOp(t, tt.mutate(h))
			require.ErrorIs(t, err, errBackendDown)

			after := h.store.State()
			assert.Equal(t, before.Tasks, after.Tasks)
			assert.Equal(t, before.Floating, after.Floating)
			assert.Equal(t, before.Week, after.Week)
			assert.Len(t, h.notifier.Notices(), 1)
		})
	}
}

func TestCreateTask_RemoteSubstitutesServerID(t *testing.T) {
	h := newRemoteHarness(t, nil)

	task, op, err := h.store.CreateTask(testutil.NewTestFields("Synced"))
	require.NoError(t, err)
	assert.Equal(t, "local-1", task.ID)
	require.NoError(t, waitOp(t, op))

	st := h.store.State()
	require.Len(t, st.Floating, 1)
	serverID := st.Floating[0].ID
	assert.NotEqual(t, task.ID, serverID)
	_, ok := h.remote.Task(serverID)
	assert.True(t, ok)
	_, ok = st.Task(task.ID)
	assert.False(t, ok, "local ID is replaced, not duplicated")
}

func TestCreateTask_ForgetsSettledCreates(t *testing.T) {
	h := newRemoteHarness(t, nil)
	release := h.remote.Hold()

	task, createOp, err := h.store.CreateTask(testutil.NewTestFields("Quick"))
	require.NoError(t, err)
	moveOp := h.store.ScheduleFloatingTask(MoveRequest{TaskID: task.ID, DayID: h.dayID(1), Swimlane: domain.SwimlaneFocus})

	h.store.mu.Lock()
	assert.Len(t, h.store.pending, 1)
	h.store.mu.Unlock()

	release()
	require.NoError(t, waitOp(t, createOp))
	require.NoError(t, waitOp(t, moveOp))

	for range 5 {
		_, op, err := h.store.CreateTask(testutil.NewTestFields("More"))
		require.NoError(t, err)
		require.NoError(t, waitOp(t, op))
	}

	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	assert.Empty(t, h.store.pending)
	assert.Empty(t, h.store.aliases)
	assert.Zero(t, h.store.mirrors)
}

func TestCreateTask_RemoteFailureRemovesTask(t *testing.T) {
	h := newRemoteHarness(t, seedRemoteLane)
	h.remote.FailOn("CreateTask", errBackendDown)
	before := h.store.State().Floating

	_, op, err := h.store.CreateTask(testutil.NewTestFields("Doomed"))
	require.NoError(t, err, "remote failures are asynchronous")
	require.ErrorIs(t, waitOp(t, op), errBackendDown)

	assert.Equal(t, before, h.store.State().Floating)
	assert.Len(t, h.notifier.Notices(), 1)
}

func TestCreateTask_DependentMutationUsesServerID(t *testing.T) {
	h := newRemoteHarness(t, nil)
	release := h.remote.Hold()

	task, createOp, err := h.store.CreateTask(testutil.NewTestFields("Quick"))
	require.NoError(t, err)
	moveOp := h.store.ScheduleFloatingTask(MoveRequest{TaskID: task.ID, DayID: h.dayID(2), Swimlane: domain.SwimlaneFocus})

	release()
	require.NoError(t, waitOp(t, createOp))
	require.NoError(t, waitOp(t, moveOp))

	st := h.store.State()
	got, ok := findByTitle(st, "Quick")
	require.True(t, ok)
	assert.NotEqual(t, task.ID, got.ID)
	assert.Equal(t, h.dayID(2), got.DayID)

	remoteTask, ok := h.remote.Task(got.ID)
	require.True(t, ok)
	assert.Equal(t, h.dayID(2), remoteTask.DayID, "the assign reached the backend under the server ID")
}

func TestCreateTask_DependentMutationDroppedWhenCreateFails(t *testing.T) {
	h := newRemoteHarness(t, seedRemoteLane)
	h.remote.FailOn("CreateTask", errBackendDown)
	before := h.store.State()
	release := h.remote.Hold()

	task, createOp, err := h.store.CreateTask(testutil.NewTestFields("Phantom"))
	require.NoError(t, err)
	moveOp := h.store.ScheduleFloatingTask(MoveRequest{TaskID: task.ID, DayID: h.dayID(2), Swimlane: domain.SwimlaneFocus})

	release()
	require.ErrorIs(t, waitOp(t, createOp), errBackendDown)
	require.ErrorIs(t, waitOp(t, moveOp), ErrUnconfirmedTask)

	after := h.store.State()
	_, ok := findByTitle(after, "Phantom")
	assert.False(t, ok)
	assert.Equal(t, before.Tasks, after.Tasks)
	assert.Equal(t, before.Floating, after.Floating)
	assert.Len(t, h.notifier.Notices(), 1, "only the failed create is reported")
	assert.Zero(t, h.remote.CallCount("AssignTask"))
}

func TestRollback_KeepsConfirmedServerIDs(t *testing.T) {
	h := newRemoteHarness(t, nil)
	h.remote.FailOn("AssignTask", errBackendDown)
	release := h.remote.Hold()

	task, createOp, err := h.store.CreateTask(testutil.NewTestFields("Renamed"))
	require.NoError(t, err)
	moveOp := h.store.ScheduleFloatingTask(MoveRequest{TaskID: task.ID, DayID: h.dayID(0), Swimlane: domain.SwimlaneFocus})

	release()
	require.NoError(t, waitOp(t, createOp))
	require.ErrorIs(t, waitOp(t, moveOp), errBackendDown)

	st := h.store.State()
	require.Len(t, st.Floating, 1)
	assert.NotEqual(t, task.ID, st.Floating[0].ID, "rollback must not resurrect the local ID")
	assert.Empty(t, st.Tasks)
	assert.Len(t, h.notifier.Notices(), 1)
}

func TestSetTheme_Remote(t *testing.T) {
	h := newRemoteHarness(t, nil)

	require.NoError(t, waitOp(t, h.store.SetTheme(h.dayID(0), "Deep work")))

	week, err := h.remote.GetWeek(context.Background(), h.week.ID)
	require.NoError(t, err)
	assert.Equal(t, "Deep work", week.Days[0].Theme)
}

func TestSetTheme_RemoteRejectedWhileWeekUnsynced(t *testing.T) {
	h := newRemoteHarness(t, nil)
	h.remote.FailOn("CurrentWeek", errBackendDown)
	require.Error(t, waitOp(t, h.store.GoToNextWeek()))
	before := len(h.notifier.Notices())

	st := h.store.State()
	require.Empty(t, st.Week.ID)
	dayID := st.Week.Days[0].ID

	err := waitOp(t, h.store.SetTheme(dayID, "Ship it"))
	require.ErrorIs(t, err, ErrWeekNotSynced)
	assert.Empty(t, h.store.State().Week.Days[0].Theme, "a rejected edit leaves the day untouched")
	assert.Zero(t, h.remote.CallCount("UpdateDay"))
	assert.Len(t, h.notifier.Notices(), before+1)

	h.remote.ClearFailures()
	require.NoError(t, waitOp(t, h.store.ResetToCurrentWeek()))
	require.Equal(t, h.week.ID, h.store.State().Week.ID)
	dayID = h.store.State().Week.Days[0].ID
	require.NoError(t, waitOp(t, h.store.SetFocusMetric(dayID, "3 commits")))
	assert.Equal(t, 1, h.remote.CallCount("UpdateDay"))
}

func TestWeekNavigation_RemoteReloads(t *testing.T) {
	h := newRemoteHarness(t, seedRemoteLane)

	require.NoError(t, waitOp(t, h.store.GoToNextWeek()))

	st := h.store.State()
	assert.Equal(t, domain.StartOfWeek(testutil.FixedNow).AddDate(0, 0, 7), st.Week.Start)
	assert.NotEmpty(t, st.Week.ID)
	assert.NotEqual(t, h.week.ID, st.Week.ID)
	assert.Empty(t, st.Tasks, "tasks of other weeks are not shown")
	assert.Equal(t, []string{"rf"}, taskIDs(st.Floating))
	assert.Equal(t, 1, h.remote.CallCount("CreateWeek"))
}

func TestWeekNavigation_RemoteFailureNotifies(t *testing.T) {
	h := newRemoteHarness(t, nil)
	h.remote.FailOn("CurrentWeek", errBackendDown)

	err := waitOp(t, h.store.GoToNextWeek())
	require.ErrorIs(t, err, errBackendDown)
	assert.Len(t, h.notifier.Notices(), 1)
}

func TestPersistSnapshot_NoopInRemoteMode(t *testing.T) {
	h := newRemoteHarness(t, nil)
	require.NoError(t, h.store.PersistSnapshot(context.Background()))
	assert.Zero(t, h.blobs.Puts())
}

func TestAuthChange_SwitchesLoadPath(t *testing.T) {
	remote := testutil.NewFakeRemote()
	remote.PutWeek(testutil.FixedNow)
	auth := testutil.NewReadyAuth(false)
	s := newGuestStore(t, testutil.NewMemoryBlobStore(), WithRemote(remote), WithAuth(auth))

	require.NoError(t, s.LoadInitialSnapshot(context.Background()))
	assert.Equal(t, snapshot.SourceSeed, s.State().Source)
	assert.Equal(t, ModeGuest, s.Mode())

	auth.SetAuthenticated(true)
	flush(t, s)
	st := s.State()
	assert.Equal(t, ModeRemote, s.Mode())
	assert.Equal(t, snapshot.SourceRemote, st.Source)
	assert.Equal(t, HydrationHydrated, st.Hydration)

	auth.SetAuthenticated(false)
	flush(t, s)
	assert.Equal(t, snapshot.SourceSeed, s.State().Source)
}

func TestObserver_RecordsSyncOutcomes(t *testing.T) {
	h := newRemoteHarness(t, seedRemoteLane)

	require.NoError(t, waitOp(t, h.store.ReorderFloatingTask("rf", 0)))
	h.remote.FailOn("DeleteTask", errBackendDown)
	require.Error(t, waitOp(t, h.store.DeleteTask("r0")))

	events := h.observer.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "reorder task", events[0].Name)
	assert.True(t, events[0].Success)
	assert.Equal(t, "delete task", events[1].Name)
	assert.False(t, events[1].Success)
	assert.ErrorIs(t, events[1].Err, errBackendDown)
}

func TestClose_CancelsInFlightSync(t *testing.T) {
	h := newRemoteHarness(t, seedRemoteLane)
	release := h.remote.Hold()
	defer release()

	op := h.store.MoveTask(MoveRequest{TaskID: "r0", DayID: h.dayID(1), Swimlane: domain.SwimlaneFocus})
	h.store.Close()

	assert.ErrorIs(t, waitOp(t, op), context.Canceled)
}
