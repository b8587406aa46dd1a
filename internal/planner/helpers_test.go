package planner

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alexanderramin/weekplan/internal/domain"
	"github.com/alexanderramin/weekplan/internal/snapshot"
	"github.com/alexanderramin/weekplan/internal/testutil"
	"github.com/stretchr/testify/require"
)

func sequentialIDs(prefix string) func() string {
	var n atomic.Int64
	return func() string { return fmt.Sprintf("%s-%d", prefix, n.Add(1)) }
}

func baseOptions() []Option {
	return []Option{
		WithClock(testutil.FixedClock(testutil.FixedNow)),
		WithIDGenerator(sequentialIDs("local")),
	}
}

// newGuestStore builds an unhydrated guest-mode store over blobs.
func newGuestStore(t *testing.T, blobs *testutil.MemoryBlobStore, opts ...Option) *Store {
	t.Helper()
	s := NewStore(snapshot.NewAdapter(blobs, nil), append(baseOptions(), opts...)...)
	t.Cleanup(s.Close)
	return s
}

// newLoadedGuestStore hydrates a guest store from a stored snapshot holding
// exactly the given tasks in the FixedNow week.
func newLoadedGuestStore(t *testing.T, scheduled, floating []domain.Task) (*Store, *testutil.MemoryBlobStore) {
	t.Helper()
	blobs := testutil.NewMemoryBlobStore()
	adapter := snapshot.NewAdapter(blobs, nil)
	require.NoError(t, adapter.Save(context.Background(), snapshot.Snapshot{
		ID:         "fixture",
		CapturedAt: testutil.FixedNow,
		Week:       testutil.NewTestWeek(),
		Tasks:      scheduled,
		Floating:   floating,
		Source:     snapshot.SourceLocal,
	}))
	s := newGuestStore(t, blobs)
	require.NoError(t, s.LoadInitialSnapshot(context.Background()))
	return s, blobs
}

type remoteHarness struct {
	store    *Store
	remote   *testutil.FakeRemote
	auth     *testutil.FakeAuth
	notifier *testutil.RecordingNotifier
	blobs    *testutil.MemoryBlobStore
	observer *recordingObserver
	week     domain.Week
}

// newRemoteHarness builds a signed-in store whose backend already holds the
// FixedNow week. Tasks are seeded with prepare before hydration.
func newRemoteHarness(t *testing.T, prepare func(h *remoteHarness)) *remoteHarness {
	t.Helper()
	h := &remoteHarness{
		remote:   testutil.NewFakeRemote(),
		auth:     testutil.NewReadyAuth(true),
		notifier: &testutil.RecordingNotifier{},
		blobs:    testutil.NewMemoryBlobStore(),
		observer: &recordingObserver{},
	}
	h.week = h.remote.PutWeek(testutil.FixedNow)
	if prepare != nil {
		prepare(h)
	}
	h.store = newGuestStore(t, h.blobs,
		WithRemote(h.remote),
		WithAuth(h.auth),
		WithNotifier(h.notifier),
		WithObserver(h.observer),
	)
	require.NoError(t, h.store.LoadInitialSnapshot(context.Background()))
	return h
}

func (h *remoteHarness) dayID(i int) string {
	return h.week.Days[i].ID
}

func waitOp(t *testing.T, op *Op) error {
	t.Helper()
	require.NotNil(t, op)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	select {
	case <-op.Done():
		return op.Err()
	case <-ctx.Done():
		t.Fatal("op did not settle")
		return nil
	}
}

func flush(t *testing.T, s *Store) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Flush(ctx))
}

type recordingObserver struct {
	mu     sync.Mutex
	events []SyncEvent
}

func (o *recordingObserver) ObserveSync(_ context.Context, e SyncEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingObserver) Events() []SyncEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]SyncEvent(nil), o.events...)
}

func findByTitle(st State, title string) (domain.Task, bool) {
	for _, t := range append(append([]domain.Task{}, st.Tasks...), st.Floating...) {
		if t.Title == title {
			return t, true
		}
	}
	return domain.Task{}, false
}
