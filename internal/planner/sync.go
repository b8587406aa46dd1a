package planner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/weekplan/internal/app"
	"github.com/alexanderramin/weekplan/internal/domain"
	"github.com/alexanderramin/weekplan/internal/snapshot"
	"golang.org/x/sync/semaphore"
)

// Mode names the durability strategy backing the store.
type Mode string

const (
	// ModeGuest keeps changes in memory until PersistSnapshot writes them locally.
	ModeGuest Mode = "guest"
	// ModeRemote mirrors every change to the backend as it happens.
	ModeRemote Mode = "remote"
)

// syncer is the durability strategy behind the store. The store picks one per
// dispatch from the authentication status; both share the same mutation code.
type syncer interface {
	mode() Mode
	// mirror pushes an already-applied command. The returned func, if any,
	// reconciles server-assigned fields into state.
	mirror(ctx context.Context, s *Store, cmd *command) (func(*State), error)
	// load fetches the planning state for the week containing anchor.
	load(ctx context.Context, anchor time.Time) (snapshot.Snapshot, error)
}

type guestSyncer struct {
	snapshots SnapshotStore
	clock     func() time.Time
}

func (guestSyncer) mode() Mode { return ModeGuest }

func (guestSyncer) mirror(context.Context, *Store, *command) (func(*State), error) {
	return nil, nil
}

func (g guestSyncer) load(ctx context.Context, anchor time.Time) (snapshot.Snapshot, error) {
	stored, err := g.snapshots.Load(ctx)
	if err != nil {
		return snapshot.Snapshot{}, err
	}
	if stored != nil {
		return *stored, nil
	}
	return seedSnapshot(g.clock(), anchor), nil
}

type remoteSyncer struct {
	remote app.Remote
	sem    *semaphore.Weighted
	clock  func() time.Time
}

func (remoteSyncer) mode() Mode { return ModeRemote }

func (r remoteSyncer) mirror(ctx context.Context, s *Store, cmd *command) (func(*State), error) {
	if cmd.remote == nil {
		return nil, nil
	}
	// Resolve before taking a slot: the create being waited on needs one too.
	id := cmd.taskID
	if id != "" {
		resolved, err := s.resolveID(ctx, id)
		if err != nil {
			return nil, err
		}
		id = resolved
	}
	if err := r.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer r.sem.Release(1)
	return cmd.remote(ctx, r.remote, id)
}

func (r remoteSyncer) load(ctx context.Context, anchor time.Time) (snapshot.Snapshot, error) {
	week, err := r.remote.CurrentWeek(ctx, anchor)
	if errors.Is(err, domain.ErrWeekNotFound) {
		start := domain.StartOfWeek(anchor)
		week, err = r.remote.CreateWeek(ctx, app.CreateWeekRequest{
			Start: start,
			End:   start.AddDate(0, 0, domain.DaysPerWeek-1),
		})
	}
	if err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("fetching week: %w", err)
	}

	all, err := r.remote.ListTasks(ctx, app.TaskFilter{})
	if err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("fetching tasks: %w", err)
	}

	inWeek := make(map[string]bool, len(week.Days))
	for _, d := range week.Days {
		inWeek[d.ID] = true
	}
	var scheduled, floating []domain.Task
	for _, t := range all {
		switch {
		case t.DayID == "":
			floating = append(floating, t)
		case inWeek[t.DayID]:
			scheduled = append(scheduled, t)
		}
	}

	return snapshot.Snapshot{
		ID:         week.ID,
		CapturedAt: r.clock().UTC(),
		Week:       *week,
		Tasks:      Normalize(scheduled, PlacementKey),
		Floating:   Normalize(floating, PlacementKey),
		Source:     snapshot.SourceRemote,
	}, nil
}

func seedSnapshot(now, anchor time.Time) snapshot.Snapshot {
	week := domain.SeedWeek(anchor)
	scheduled, floating := domain.SeedTasks(week)
	return snapshot.Snapshot{
		ID:         "seed",
		CapturedAt: now.UTC(),
		Week:       week,
		Tasks:      Normalize(scheduled, PlacementKey),
		Floating:   Normalize(floating, PlacementKey),
		Source:     snapshot.SourceSeed,
	}
}
