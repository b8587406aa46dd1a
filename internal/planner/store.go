package planner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/alexanderramin/weekplan/internal/app"
	"github.com/alexanderramin/weekplan/internal/snapshot"
	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

// SnapshotStore is the local durable mirror used in guest mode.
type SnapshotStore interface {
	Load(ctx context.Context) (*snapshot.Snapshot, error)
	Save(ctx context.Context, snap snapshot.Snapshot) error
}

// Store owns the live planning state. All reads are served from memory;
// the local snapshot and the backend are mirrors it writes to.
type Store struct {
	mu      sync.Mutex
	state   State
	subs    map[int]func(State)
	nextSub int
	closed  bool

	// Identity reconciliation for optimistic creates. Both maps are only
	// consulted by mirrors, so they are dropped once none is in flight.
	pending map[string]*pendingCreate
	aliases map[string]string
	mirrors int

	hydratedMode Mode
	loadMu       sync.Mutex

	snapshots   SnapshotStore
	remote      app.Remote
	auth        app.AuthStatus
	notifier    app.Notifier
	observer    SyncObserver
	clock       func() time.Time
	newID       func() string
	maxInFlight int64
	sem         *semaphore.Weighted

	ctx       context.Context
	cancel    context.CancelFunc
	inflight  sync.WaitGroup
	unsubAuth func()
}

var _ Planner = (*Store)(nil)

type Option func(*Store)

// WithRemote enables remote mode whenever the auth status is authenticated.
func WithRemote(r app.Remote) Option {
	return func(s *Store) { s.remote = r }
}

func WithAuth(a app.AuthStatus) Option {
	return func(s *Store) { s.auth = a }
}

func WithNotifier(n app.Notifier) Option {
	return func(s *Store) { s.notifier = n }
}

func WithObserver(o SyncObserver) Option {
	return func(s *Store) { s.observer = o }
}

func WithClock(fn func() time.Time) Option {
	return func(s *Store) { s.clock = fn }
}

func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// WithMaxInFlight bounds how many remote calls run at once.
func WithMaxInFlight(n int64) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxInFlight = n
		}
	}
}

// NewStore builds a store seeded with starter content for the current week.
// Call LoadInitialSnapshot to hydrate it and Close when done.
func NewStore(snapshots SnapshotStore, opts ...Option) *Store {
	s := &Store{
		subs:        make(map[int]func(State)),
		pending:     make(map[string]*pendingCreate),
		aliases:     make(map[string]string),
		snapshots:   snapshots,
		auth:        app.StaticAuth{},
		notifier:    app.NoopNotifier{},
		observer:    NoopSyncObserver{},
		clock:       time.Now,
		newID:       uuid.NewString,
		maxInFlight: 4,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.sem = semaphore.NewWeighted(s.maxInFlight)
	s.ctx, s.cancel = context.WithCancel(context.Background())

	now := s.clock()
	s.applySnapshotLocked(seedSnapshot(now, now))
	s.state.Hydration = HydrationCold
	s.state.Mode = ViewWeekly

	s.unsubAuth = s.auth.Subscribe(s.onAuthChanged)
	return s
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Index builds the lane read model over the current collections.
func (s *Store) Index() LaneIndex {
	s.mu.Lock()
	defer s.mu.Unlock()
	return IndexFor(s.state.Tasks, s.state.Floating)
}

// Mode reports which durability strategy new mutations will use.
func (s *Store) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.syncerLocked().mode()
}

// Subscribe registers fn to receive a state copy after every change.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) publish(st State) {
	s.mu.Lock()
	fns := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(st)
	}
}

func (s *Store) syncerLocked() syncer {
	if s.remote != nil && s.auth.IsAuthenticated() {
		return remoteSyncer{remote: s.remote, sem: s.sem, clock: s.clock}
	}
	return s.guest()
}

func (s *Store) guest() syncer {
	return guestSyncer{snapshots: s.snapshots, clock: s.clock}
}

// LoadInitialSnapshot hydrates the store once. It waits for the auth status
// to initialize, then loads from the backend when signed in or from the local
// snapshot (falling back to seed content) otherwise. A failed backend load
// degrades to the local path with a notification.
func (s *Store) LoadInitialSnapshot(ctx context.Context) error {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	s.mu.Lock()
	hydrated := s.state.Hydration == HydrationHydrated
	s.mu.Unlock()
	if hydrated {
		return nil
	}
	if err := s.auth.WaitInitialized(ctx); err != nil {
		return fmt.Errorf("waiting for auth status: %w", err)
	}
	return s.hydrate(ctx)
}

func (s *Store) hydrate(ctx context.Context) error {
	s.mu.Lock()
	s.state.Hydration = HydrationHydrating
	sy := s.syncerLocked()
	anchor := s.state.Week.Start
	snap := s.state.clone()
	s.mu.Unlock()
	s.publish(snap)

	loaded, err := sy.load(ctx, anchor)
	mode := sy.mode()
	if err != nil && mode == ModeRemote {
		s.notifier.Notify(ctx, app.Notice{
			Level:   app.NoticeError,
			Message: "Could not load your planner from the server. Showing local data instead.",
		})
		loaded, err = s.guest().load(ctx, anchor)
		mode = ModeGuest
	}

	s.mu.Lock()
	if err != nil {
		s.state.Hydration = HydrationCold
	} else {
		s.applySnapshotLocked(loaded)
		s.state.Hydration = HydrationHydrated
		s.hydratedMode = mode
	}
	snap = s.state.clone()
	s.mu.Unlock()
	s.publish(snap)

	if err != nil {
		return fmt.Errorf("loading planner: %w", err)
	}
	return nil
}

func (s *Store) applySnapshotLocked(snap snapshot.Snapshot) {
	s.state.Week = snap.Week.Clone()
	s.state.Tasks = Normalize(snap.Tasks, PlacementKey)
	s.state.Floating = Normalize(snap.Floating, PlacementKey)
	s.state.Source = snap.Source
	s.state.LastSavedAt = nil
	if snap.Source == snapshot.SourceLocal {
		t := snap.CapturedAt
		s.state.LastSavedAt = &t
	}
}

// onAuthChanged reloads through the other strategy when sign-in status flips
// after hydration.
func (s *Store) onAuthChanged(bool) {
	s.mu.Lock()
	if s.closed || s.state.Hydration != HydrationHydrated || s.syncerLocked().mode() == s.hydratedMode {
		s.mu.Unlock()
		return
	}
	s.state.Hydration = HydrationCold
	s.inflight.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.inflight.Done()
		s.loadMu.Lock()
		defer s.loadMu.Unlock()
		_ = s.hydrate(s.ctx)
	}()
}

// PersistSnapshot writes the current state to the local snapshot store. In
// remote mode the backend is the durable copy and this is a no-op.
func (s *Store) PersistSnapshot(ctx context.Context) error {
	s.mu.Lock()
	if s.syncerLocked().mode() == ModeRemote {
		s.mu.Unlock()
		return nil
	}
	s.state.Saving = true
	snap := snapshot.Snapshot{
		ID:         s.newID(),
		CapturedAt: s.clock().UTC(),
		Week:       s.state.Week.Clone(),
		Tasks:      cloneTasks(s.state.Tasks),
		Floating:   cloneTasks(s.state.Floating),
		Source:     snapshot.SourceLocal,
	}
	st := s.state.clone()
	s.mu.Unlock()
	s.publish(st)

	err := s.snapshots.Save(ctx, snap)

	s.mu.Lock()
	s.state.Saving = false
	if err == nil {
		t := snap.CapturedAt
		s.state.LastSavedAt = &t
		s.state.Source = snapshot.SourceLocal
	}
	st = s.state.clone()
	s.mu.Unlock()
	s.publish(st)

	if err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	return nil
}

// Flush waits for every in-flight remote sync and reload to settle.
func (s *Store) Flush(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting mutations, cancels in-flight remote calls, and waits
// for them to settle.
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.unsubAuth()
	s.cancel()
	s.inflight.Wait()
}
