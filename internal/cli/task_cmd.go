package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/weekplan/internal/cli/formatter"
	"github.com/alexanderramin/weekplan/internal/domain"
	"github.com/alexanderramin/weekplan/internal/planner"
)

const detailWidth = 80

func newShowCmd(app *App) *cobra.Command {
	var list bool
	cmd := &cobra.Command{
		Use:   "show [TASK]",
		Short: "Show the week board, or one task in detail",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := app.load(cmd.Context())
			if err != nil {
				return err
			}
			if len(args) == 1 {
				t, err := resolveTask(st, args[0])
				if err != nil {
					return err
				}
				printf(cmd, "%s\n", formatter.FormatTaskDetail(t, st.Week, detailWidth))
				return nil
			}

			if cmd.Flags().Changed("list") {
				mode := planner.ViewWeekly
				if list {
					mode = planner.ViewList
				}
				app.Planner.SetViewMode(mode)
				st = app.Planner.State()
			}
			if st.Mode == planner.ViewList {
				printf(cmd, "%s\n%s", formatter.Header(formatter.WeekTitle(st.Week)), formatter.FormatTaskList(st, app.Planner.Index()))
				return nil
			}
			printf(cmd, "%s", formatter.FormatBoard(st, app.Planner.Index(), app.Planner.Mode(), app.now()))
			return nil
		},
	}
	cmd.Flags().BoolVar(&list, "list", false, "Show tasks as a flat table")
	return cmd
}

func newAddCmd(app *App) *cobra.Command {
	var (
		category         domain.Category
		energy           domain.Energy
		notes, day, lane string
		duration, times  int
		interactive      bool
	)

	cmd := &cobra.Command{
		Use:   "add [TITLE...]",
		Short: "Add a task to the backlog, or straight into a lane",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := app.load(ctx)
			if err != nil {
				return err
			}

			var fields domain.TaskFields
			if interactive {
				if !app.interactive() {
					return fmt.Errorf("interactive add needs a terminal")
				}
				form := newTaskForm(strings.Join(args, " "), st.Week)
				if err := form.Run(); err != nil {
					return err
				}
				if fields, err = form.Fields(); err != nil {
					return err
				}
			} else {
				if len(args) == 0 {
					return fmt.Errorf("a title is required (or use -i)")
				}
				q := domain.QuickAddResult{
					Title:           strings.Join(args, " "),
					Category:        category,
					Energy:          energy,
					DurationMinutes: duration,
				}
				if times > 0 {
					q.Occurrences = domain.IntPtr(times)
				}
				fields = q.Fields()
				fields.Notes = notes
				if day != "" || lane != "" {
					if day == "" || lane == "" {
						return domain.ErrInvalidPlacement
					}
					d, err := resolveDay(st.Week, day, app.now())
					if err != nil {
						return err
					}
					key, err := resolveLane(lane)
					if err != nil {
						return err
					}
					fields.DayID, fields.Swimlane = d.ID, key
				}
			}

			task, op, err := app.Planner.CreateTask(fields)
			if err != nil {
				return err
			}
			if err := app.settle(ctx, op); err != nil {
				return err
			}
			printf(cmd, "Added %q to %s\n", task.Title, where(st.Week, task.DayID, task.Swimlane))
			return nil
		},
	}

	enumVar(cmd.Flags(), &category, "category", domain.Categories, "Category")
	enumVar(cmd.Flags(), &energy, "energy", domain.Energies, "Energy")
	cmd.Flags().IntVar(&duration, "duration", 0, "Duration in minutes")
	cmd.Flags().IntVar(&times, "times", 0, "Target occurrences per week")
	cmd.Flags().StringVar(&notes, "notes", "", "Markdown notes")
	cmd.Flags().StringVar(&day, "day", "", "Schedule on this day (mon..sun, date or day ID)")
	cmd.Flags().StringVar(&lane, "lane", "", "Schedule in this swimlane")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Fill the task in with a form")
	return cmd
}

func newMoveCmd(app *App) *cobra.Command {
	var at int
	cmd := &cobra.Command{
		Use:   "move TASK DAY LANE",
		Short: "Move a scheduled task to another day or swimlane",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.place(cmd, args, at, true)
		},
	}
	cmd.Flags().IntVar(&at, "at", 0, "Position in the target lane (1 = top, default end)")
	return cmd
}

func newScheduleCmd(app *App) *cobra.Command {
	var at int
	cmd := &cobra.Command{
		Use:   "schedule TASK DAY LANE",
		Short: "Schedule a backlog task into a day and swimlane",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.place(cmd, args, at, false)
		},
	}
	cmd.Flags().IntVar(&at, "at", 0, "Position in the target lane (1 = top, default end)")
	return cmd
}

// place handles move (scheduled tasks) and schedule (backlog tasks).
func (a *App) place(cmd *cobra.Command, args []string, at int, scheduled bool) error {
	var title, target string
	err := a.mutate(cmd.Context(), func(st planner.State) (*planner.Op, error) {
		t, err := resolveTask(st, args[0])
		if err != nil {
			return nil, err
		}
		switch {
		case scheduled && !t.Scheduled():
			return nil, fmt.Errorf("%q is in the backlog; use schedule", t.Title)
		case !scheduled && t.Scheduled():
			return nil, fmt.Errorf("%q is already scheduled; use move", t.Title)
		}
		day, err := resolveDay(st.Week, args[1], a.now())
		if err != nil {
			return nil, err
		}
		lane, err := resolveLane(args[2])
		if err != nil {
			return nil, err
		}
		index, err := resolvePosition(at, a.Planner.Index().Len(planner.LaneKey{DayID: day.ID, Swimlane: lane}))
		if err != nil {
			return nil, err
		}
		title, target = t.Title, where(st.Week, day.ID, lane)

		req := planner.MoveRequest{TaskID: t.ID, DayID: day.ID, Swimlane: lane, Index: index}
		if scheduled {
			return a.Planner.MoveTask(req), nil
		}
		return a.Planner.ScheduleFloatingTask(req), nil
	})
	if err != nil {
		return err
	}
	printf(cmd, "Moved %q to %s\n", title, target)
	return nil
}

func newUnscheduleCmd(app *App) *cobra.Command {
	var at int
	cmd := &cobra.Command{
		Use:   "unschedule TASK",
		Short: "Return a scheduled task to the backlog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var title string
			err := app.mutate(cmd.Context(), func(st planner.State) (*planner.Op, error) {
				t, err := resolveTask(st, args[0])
				if err != nil {
					return nil, err
				}
				if !t.Scheduled() {
					return nil, fmt.Errorf("%q is already in the backlog", t.Title)
				}
				title = t.Title
				req := planner.UnscheduleRequest{TaskID: t.ID}
				if at > 0 {
					index := at - 1
					req.Index = &index
				}
				return app.Planner.UnscheduleTask(req), nil
			})
			if err != nil {
				return err
			}
			printf(cmd, "Moved %q to the backlog\n", title)
			return nil
		},
	}
	cmd.Flags().IntVar(&at, "at", 0, "Position in the backlog (1 = top, default end)")
	return cmd
}

func newReorderCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reorder TASK POSITION",
		Short: "Move a backlog task to a new position (1 = top)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := parsePosition(args[1])
			if err != nil {
				return err
			}
			var title string
			err = app.mutate(cmd.Context(), func(st planner.State) (*planner.Op, error) {
				t, err := resolveTask(st, args[0])
				if err != nil {
					return nil, err
				}
				if t.Scheduled() {
					return nil, fmt.Errorf("%q is scheduled; reorder only applies to the backlog", t.Title)
				}
				title = t.Title
				return app.Planner.ReorderFloatingTask(t.ID, pos-1), nil
			})
			if err != nil {
				return err
			}
			printf(cmd, "Reordered %q\n", title)
			return nil
		},
	}
}

func newStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status TASK STATUS",
		Short: "Set a task's status (" + joinKeys(domain.Statuses) + ")",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := resolveStatus(args[1])
			if err != nil {
				return err
			}
			var title string
			err = app.mutate(cmd.Context(), func(st planner.State) (*planner.Op, error) {
				t, err := resolveTask(st, args[0])
				if err != nil {
					return nil, err
				}
				title = t.Title
				return app.Planner.UpdateTaskStatus(t.ID, status), nil
			})
			if err != nil {
				return err
			}
			printf(cmd, "%s %s\n", formatter.StatusPill(status), title)
			return nil
		},
	}
}

func newEditCmd(app *App) *cobra.Command {
	var (
		title, notes    string
		category        domain.Category
		energy          domain.Energy
		duration, times int
	)

	cmd := &cobra.Command{
		Use:   "edit TASK",
		Short: "Change a task's fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch domain.TaskPatch
			flags := cmd.Flags()
			if flags.Changed("title") {
				patch.Title = &title
			}
			if flags.Changed("category") {
				patch.Category = &category
			}
			if flags.Changed("energy") {
				patch.Energy = &energy
			}
			if flags.Changed("duration") {
				patch.DurationMinutes = &duration
			}
			if flags.Changed("notes") {
				patch.Notes = &notes
			}
			if flags.Changed("times") {
				patch.TargetOccurrencesPerWeek = &times
			}
			if patch.Empty() {
				return fmt.Errorf("nothing to change; pass at least one field flag")
			}

			var name string
			err := app.mutate(cmd.Context(), func(st planner.State) (*planner.Op, error) {
				t, err := resolveTask(st, args[0])
				if err != nil {
					return nil, err
				}
				name = t.Title
				return app.Planner.UpdateTask(t.ID, patch)
			})
			if err != nil {
				return err
			}
			if patch.Title != nil {
				name = *patch.Title
			}
			printf(cmd, "Updated %q\n", name)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	enumVar(cmd.Flags(), &category, "category", domain.Categories, "Category")
	enumVar(cmd.Flags(), &energy, "energy", domain.Energies, "Energy")
	cmd.Flags().IntVar(&duration, "duration", 0, "Duration in minutes")
	cmd.Flags().StringVar(&notes, "notes", "", "Markdown notes (empty clears)")
	cmd.Flags().IntVar(&times, "times", 0, "Target occurrences per week (0 clears)")
	return cmd
}

func newRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm TASK",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var title string
			err := app.mutate(cmd.Context(), func(st planner.State) (*planner.Op, error) {
				t, err := resolveTask(st, args[0])
				if err != nil {
					return nil, err
				}
				title = t.Title
				return app.Planner.DeleteTask(t.ID), nil
			})
			if err != nil {
				return err
			}
			printf(cmd, "Deleted %q\n", title)
			return nil
		},
	}
}

// where names a placement for confirmation messages.
func where(week domain.Week, dayID string, lane domain.SwimlaneKey) string {
	if dayID == "" {
		return "the backlog"
	}
	label := dayID
	if d, ok := week.Day(dayID); ok {
		label = d.Label
	}
	if sl, ok := domain.LookupSwimlane(lane); ok {
		return label + " · " + sl.Label
	}
	return label
}
