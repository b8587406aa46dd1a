package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/weekplan/internal/app"
	"github.com/alexanderramin/weekplan/internal/domain"
	"github.com/alexanderramin/weekplan/internal/planner"
)

// Account is the sign-in surface behind login, register, logout and whoami.
type Account interface {
	Login(ctx context.Context, email, password string) (*domain.User, error)
	Register(ctx context.Context, reg domain.Registration) (*domain.User, error)
	Logout(ctx context.Context) error
	User() *domain.User
}

// StatsSource computes statistics across every task the backend holds.
type StatsSource interface {
	TaskStatistics(ctx context.Context, filter app.TaskFilter) (domain.TaskStatistics, error)
}

// App holds everything the commands drive.
type App struct {
	Planner planner.Planner
	Account Account
	Stats   StatsSource

	// Serve runs the HTTP backend until ctx is cancelled.
	Serve      func(ctx context.Context, addr string) error
	ServerAddr string

	Now           func() time.Time
	IsInteractive func() bool
}

var errNoBackend = errors.New("no backend configured (set WEEKPLAN_API_URL)")

// NewRootCmd creates the top-level "weekplan" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "weekplan",
		Short:         "Weekly planner with swimlanes and a floating backlog",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newShowCmd(app),
		newAddCmd(app),
		newMoveCmd(app),
		newScheduleCmd(app),
		newUnscheduleCmd(app),
		newReorderCmd(app),
		newStatusCmd(app),
		newEditCmd(app),
		newRemoveCmd(app),
		newThemeCmd(app),
		newFocusCmd(app),
		newWeekCmd(app),
		newStatsCmd(app),
		newBoardCmd(app),
		newLoginCmd(app),
		newRegisterCmd(app),
		newLogoutCmd(app),
		newWhoamiCmd(app),
		newServeCmd(app),
	)

	return root
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// load hydrates the planner and returns its state.
func (a *App) load(ctx context.Context) (planner.State, error) {
	if err := a.Planner.LoadInitialSnapshot(ctx); err != nil {
		return planner.State{}, err
	}
	return a.Planner.State(), nil
}

// settle waits for op and any background sync it started, then writes the
// local snapshot. Persisting is a no-op when signed in.
func (a *App) settle(ctx context.Context, op *planner.Op) error {
	if err := op.Wait(ctx); err != nil {
		return err
	}
	if err := a.Planner.Flush(ctx); err != nil {
		return err
	}
	return a.Planner.PersistSnapshot(ctx)
}

// mutate hydrates, dispatches one change, and settles it.
func (a *App) mutate(ctx context.Context, dispatch func(st planner.State) (*planner.Op, error)) error {
	st, err := a.load(ctx)
	if err != nil {
		return err
	}
	op, err := dispatch(st)
	if err != nil {
		return err
	}
	return a.settle(ctx, op)
}

func (a *App) account() (Account, error) {
	if a.Account == nil {
		return nil, errNoBackend
	}
	return a.Account, nil
}

func printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
