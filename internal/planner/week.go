package planner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/weekplan/internal/app"
	"github.com/alexanderramin/weekplan/internal/domain"
)

// SetTheme sets or, with an empty string, clears a day's theme.
func (s *Store) SetTheme(dayID, theme string) *Op {
	return s.patchDay("update day theme", dayID, domain.DayPatch{Theme: &theme})
}

// SetFocusMetric sets or, with an empty string, clears a day's focus metric.
func (s *Store) SetFocusMetric(dayID, text string) *Op {
	return s.patchDay("update focus metric", dayID, domain.DayPatch{FocusMetric: &text})
}

func (s *Store) patchDay(name, dayID string, patch domain.DayPatch) *Op {
	if err := patch.Validate(); err != nil {
		return settledOp(err)
	}
	op := s.dispatch(command{
		name:  name,
		scope: scopeWeek,
		apply: func(st *State) error {
			i := st.Week.DayIndex(dayID)
			if i < 0 {
				return fmt.Errorf("%w: %s", domain.ErrDayNotFound, dayID)
			}
			// A week the backend has not handed us yet has no days to patch
			// remotely, and remote mode never saves it locally.
			if st.Week.ID == "" && s.syncerLocked().mode() == ModeRemote {
				return fmt.Errorf("%w: week of %s", ErrWeekNotSynced, st.Week.Start.Format(domain.DateLayout))
			}
			patch.Apply(&st.Week.Days[i])
			return nil
		},
		remote: func(ctx context.Context, r app.Remote, _ string) (func(*State), error) {
			_, err := r.UpdateDay(ctx, dayID, patch)
			return nil, err
		},
	})
	if errors.Is(op.Err(), ErrWeekNotSynced) {
		s.notifier.Notify(s.ctx, app.Notice{
			Level:   app.NoticeError,
			Message: fmt.Sprintf("Could not %s. This week has not loaded from the server yet.", name),
		})
	}
	return op
}

// SetViewMode records the preferred board layout. It is local only.
func (s *Store) SetViewMode(mode ViewMode) {
	s.mu.Lock()
	s.state.Mode = mode
	st := s.state.clone()
	s.mu.Unlock()
	s.publish(st)
}

func (s *Store) GoToPreviousWeek() *Op {
	return s.shiftWeek(-domain.DaysPerWeek)
}

func (s *Store) GoToNextWeek() *Op {
	return s.shiftWeek(domain.DaysPerWeek)
}

// ResetToCurrentWeek jumps back to the week containing today.
func (s *Store) ResetToCurrentWeek() *Op {
	return s.switchWeek(s.clock())
}

// HydrateFromDate jumps to the week containing date.
func (s *Store) HydrateFromDate(date time.Time) *Op {
	return s.switchWeek(date)
}

func (s *Store) shiftWeek(days int) *Op {
	s.mu.Lock()
	anchor := s.state.Week.Start.AddDate(0, 0, days)
	s.mu.Unlock()
	return s.switchWeek(anchor)
}

// switchWeek regenerates the week skeleton for anchor. In remote mode it then
// reloads that week and its tasks from the backend; a reload that finishes
// after the user has moved on to another week is discarded.
func (s *Store) switchWeek(anchor time.Time) *Op {
	start := domain.StartOfWeek(anchor)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return settledOp(ErrClosed)
	}
	s.state.Week = domain.BuildWeek(start)
	sy := s.syncerLocked()
	remote := sy.mode() == ModeRemote
	if remote {
		s.inflight.Add(1)
	}
	st := s.state.clone()
	s.mu.Unlock()
	s.publish(st)

	if !remote {
		return settledOp(nil)
	}
	op := newOp()
	go func() {
		defer s.inflight.Done()
		loaded, err := sy.load(s.ctx, start)

		s.mu.Lock()
		current := s.state.Week.Start.Equal(start)
		if err == nil && current {
			s.applySnapshotLocked(loaded)
		}
		st := s.state.clone()
		s.mu.Unlock()
		s.publish(st)

		if err != nil {
			s.notifier.Notify(s.ctx, app.Notice{
				Level:   app.NoticeError,
				Message: "Could not load that week from the server.",
			})
			err = fmt.Errorf("loading week of %s: %w", start.Format(domain.DateLayout), err)
		}
		op.finish(err)
	}()
	return op
}
