package planner

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/weekplan/internal/app"
)

var (
	// ErrUnconfirmedTask marks a mutation dropped because it targeted a
	// locally created task whose create was rejected by the backend.
	ErrUnconfirmedTask = errors.New("task was never confirmed by the backend")
	// ErrWeekNotSynced rejects day edits in remote mode while the active
	// week has no backend ID, such as after a failed week reload.
	ErrWeekNotSynced = errors.New("week is not loaded from the backend")
	// ErrClosed is returned by mutations issued after Close.
	ErrClosed = errors.New("planner store is closed")

	// errNoChange lets apply report an idempotent no-op that needs no mirror.
	errNoChange = errors.New("no change")
)

// command is one planner mutation: the optimistic forward change, the
// collections it touches, and the remote call that mirrors it.
type command struct {
	name   string
	taskID string
	scope  scope

	// apply mutates state in place. It must check its preconditions before
	// touching anything; an error means nothing changed.
	apply func(st *State) error

	// remote mirrors the change. taskID is already resolved to the backend ID.
	// A nil remote makes the command local-only.
	remote func(ctx context.Context, r app.Remote, taskID string) (func(*State), error)

	// onRemote runs under the store lock when the command is handed to the
	// remote strategy; settle runs after the remote outcome has been applied.
	onRemote func()
	settle   func(err error)
}

// pendingCreate tracks a create whose server ID is not known yet.
type pendingCreate struct {
	done     chan struct{}
	serverID string
	err      error
}

// dispatch applies cmd optimistically and, in remote mode, mirrors it in the
// background. The returned Op settles when the mirror confirms or rolls back.
func (s *Store) dispatch(cmd command) *Op {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return settledOp(ErrClosed)
	}
	rp := capture(s.state, cmd.scope)
	if err := cmd.apply(&s.state); err != nil {
		s.mu.Unlock()
		if errors.Is(err, errNoChange) {
			return settledOp(nil)
		}
		return settledOp(err)
	}
	sy := s.syncerLocked()
	remote := sy.mode() == ModeRemote && cmd.remote != nil
	if remote {
		if cmd.onRemote != nil {
			cmd.onRemote()
		}
		s.mirrors++
		s.inflight.Add(1)
	}
	snap := s.state.clone()
	s.mu.Unlock()
	s.publish(snap)

	if !remote {
		return settledOp(nil)
	}
	op := newOp()
	go func() {
		defer s.inflight.Done()
		op.finish(s.mirror(sy, &cmd, rp))
	}()
	return op
}

// mirror runs the remote half of cmd and then confirms, reconciles, or rolls back.
func (s *Store) mirror(sy syncer, cmd *command, rp restorePoint) error {
	start := s.clock()
	reconcile, err := sy.mirror(s.ctx, s, cmd)
	s.observer.ObserveSync(s.ctx, SyncEvent{
		Name:      cmd.name,
		TaskID:    cmd.taskID,
		Duration:  s.clock().Sub(start),
		Success:   err == nil,
		Err:       err,
		StartedAt: start,
	})

	s.mu.Lock()
	switch {
	case errors.Is(err, ErrUnconfirmedTask):
		// The failed create already notified and rolled back; drop the phantom.
		purgeTask(&s.state, cmd.taskID)
	case err != nil:
		rp.restore(&s.state)
		s.applyAliasesLocked()
	case reconcile != nil:
		reconcile(&s.state)
	}
	snap := s.state.clone()
	s.mu.Unlock()
	s.publish(snap)

	if cmd.settle != nil {
		cmd.settle(err)
	}
	s.mu.Lock()
	s.mirrors--
	if s.mirrors == 0 {
		clear(s.pending)
		clear(s.aliases)
	}
	s.mu.Unlock()
	if err != nil && !errors.Is(err, ErrUnconfirmedTask) {
		s.notifier.Notify(s.ctx, app.Notice{
			Level:   app.NoticeError,
			Message: fmt.Sprintf("Could not %s. Your change was reverted.", cmd.name),
		})
		return fmt.Errorf("%s: %w", cmd.name, err)
	}
	return err
}

// resolveID maps a task ID to the backend ID, waiting for an in-flight create
// of that task to settle first.
func (s *Store) resolveID(ctx context.Context, id string) (string, error) {
	s.mu.Lock()
	p, ok := s.pending[id]
	s.mu.Unlock()
	if !ok {
		return id, nil
	}
	select {
	case <-p.done:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	if p.err != nil {
		return "", fmt.Errorf("%w: %s", ErrUnconfirmedTask, id)
	}
	return p.serverID, nil
}

// applyAliasesLocked renames any confirmed local IDs a restore brought back.
func (s *Store) applyAliasesLocked() {
	for local, server := range s.aliases {
		renameTask(&s.state, local, server)
	}
}
