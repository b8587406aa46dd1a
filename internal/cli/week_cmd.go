package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/weekplan/internal/app"
	"github.com/alexanderramin/weekplan/internal/cli/formatter"
	"github.com/alexanderramin/weekplan/internal/domain"
	"github.com/alexanderramin/weekplan/internal/planner"
)

func newThemeCmd(app *App) *cobra.Command {
	return newDayTextCmd(app, "theme", "Set a day's theme (no text clears it)",
		func(p planner.Planner, dayID, text string) *planner.Op { return p.SetTheme(dayID, text) })
}

func newFocusCmd(app *App) *cobra.Command {
	return newDayTextCmd(app, "focus", "Set a day's focus metric (no text clears it)",
		func(p planner.Planner, dayID, text string) *planner.Op { return p.SetFocusMetric(dayID, text) })
}

func newDayTextCmd(app *App, name, short string, set func(p planner.Planner, dayID, text string) *planner.Op) *cobra.Command {
	return &cobra.Command{
		Use:   name + " DAY [TEXT...]",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args[1:], " ")
			var label string
			err := app.mutate(cmd.Context(), func(st planner.State) (*planner.Op, error) {
				day, err := resolveDay(st.Week, args[0], app.now())
				if err != nil {
					return nil, err
				}
				label = day.Label
				return set(app.Planner, day.ID, text), nil
			})
			if err != nil {
				return err
			}
			if text == "" {
				printf(cmd, "Cleared %s for %s\n", name, label)
				return nil
			}
			printf(cmd, "Set %s for %s: %s\n", name, label, text)
			return nil
		},
	}
}

func newWeekCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "week",
		Short: "Navigate between weeks",
	}

	nav := func(use, short string, args cobra.PositionalArgs, dispatch func(args []string) (*planner.Op, error)) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  args,
			RunE: func(cmd *cobra.Command, args []string) error {
				err := app.mutate(cmd.Context(), func(planner.State) (*planner.Op, error) {
					return dispatch(args)
				})
				if err != nil {
					return err
				}
				printf(cmd, "%s\n", formatter.Header(formatter.WeekTitle(app.Planner.State().Week)))
				return nil
			},
		}
	}

	cmd.AddCommand(
		nav("next", "Go to the following week", cobra.NoArgs, func([]string) (*planner.Op, error) {
			return app.Planner.GoToNextWeek(), nil
		}),
		nav("prev", "Go to the previous week", cobra.NoArgs, func([]string) (*planner.Op, error) {
			return app.Planner.GoToPreviousWeek(), nil
		}),
		nav("current", "Go back to this week", cobra.NoArgs, func([]string) (*planner.Op, error) {
			return app.Planner.ResetToCurrentWeek(), nil
		}),
		nav("goto DATE", "Go to the week containing DATE (YYYY-MM-DD)", cobra.ExactArgs(1), func(args []string) (*planner.Op, error) {
			date, err := domain.ParseDate(args[0])
			if err != nil {
				return nil, err
			}
			return app.Planner.HydrateFromDate(date), nil
		}),
	)

	return cmd
}

func newStatsCmd(a *App) *cobra.Command {
	var (
		day, lane string
		backlog   bool
		all       bool
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize tasks by status",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := a.load(ctx)
			if err != nil {
				return err
			}

			var filter app.TaskFilter
			title := formatter.WeekTitle(st.Week)
			if day != "" {
				d, err := resolveDay(st.Week, day, a.now())
				if err != nil {
					return err
				}
				filter.DayID = d.ID
				title = d.Label
			}
			if lane != "" {
				key, err := resolveLane(lane)
				if err != nil {
					return err
				}
				filter.Swimlane = key
				title += " · " + formatter.LaneLabel(key)
			}
			if backlog {
				filter.Unassigned = true
				title = "Backlog"
			}

			if all {
				if a.Stats == nil || a.Planner.Mode() != planner.ModeRemote {
					return fmt.Errorf("--all needs a signed-in backend session")
				}
				stats, err := a.Stats.TaskStatistics(ctx, filter)
				if err != nil {
					return err
				}
				printf(cmd, "%s\n", formatter.FormatStatistics("All weeks", stats))
				return nil
			}

			printf(cmd, "%s\n", formatter.FormatStatistics(title, domain.ComputeStatistics(filterTasks(st, filter))))
			return nil
		},
	}

	cmd.Flags().StringVar(&day, "day", "", "Only tasks on this day")
	cmd.Flags().StringVar(&lane, "lane", "", "Only tasks in this swimlane")
	cmd.Flags().BoolVar(&backlog, "backlog", false, "Only backlog tasks")
	cmd.Flags().BoolVar(&all, "all", false, "Ask the backend for statistics across every week")
	cmd.MarkFlagsMutuallyExclusive("day", "backlog")
	cmd.MarkFlagsMutuallyExclusive("lane", "backlog")
	return cmd
}

// filterTasks applies filter to the loaded week and backlog. An empty filter
// selects everything.
func filterTasks(st planner.State, filter app.TaskFilter) []domain.Task {
	if filter.Unassigned {
		return st.Floating
	}
	var out []domain.Task
	if filter.DayID == "" && filter.Swimlane == "" {
		out = append(out, st.Floating...)
	}
	for _, t := range st.Tasks {
		if st.Week.DayIndex(t.DayID) < 0 {
			continue
		}
		if filter.DayID != "" && t.DayID != filter.DayID {
			continue
		}
		if filter.Swimlane != "" && t.Swimlane != filter.Swimlane {
			continue
		}
		out = append(out, t)
	}
	return out
}
