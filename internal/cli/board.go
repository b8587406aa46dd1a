package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/weekplan/internal/cli/formatter"
	"github.com/alexanderramin/weekplan/internal/domain"
	"github.com/alexanderramin/weekplan/internal/planner"
)

func newBoardCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "Interactive board: pick tasks up and drop them into lanes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return errors.New("board needs a terminal")
			}
			if _, err := app.load(cmd.Context()); err != nil {
				return err
			}
			_, err := tea.NewProgram(newBoardModel(app), tea.WithAltScreen()).Run()
			return err
		},
	}
}

type rowKind int

const (
	rowDay rowKind = iota
	rowLane
	rowTask
	rowBacklog
)

// boardRow is one line of the board. Every row except a day heading is a
// cursor stop and a drop target.
type boardRow struct {
	kind rowKind
	day  domain.Day
	lane domain.SwimlaneKey
	task domain.Task
}

func (r boardRow) selectable() bool { return r.kind != rowDay }

func (r boardRow) target() *planner.DropTarget {
	switch r.kind {
	case rowLane:
		return &planner.DropTarget{Kind: planner.TargetLane, DayID: r.day.ID, Swimlane: r.lane}
	case rowTask:
		return &planner.DropTarget{Kind: planner.TargetTask, TaskID: r.task.ID}
	case rowBacklog:
		return &planner.DropTarget{Kind: planner.TargetBacklog}
	}
	return nil
}

func boardRows(st planner.State, ix planner.LaneIndex) []boardRow {
	var rows []boardRow
	for _, day := range st.Week.Days {
		rows = append(rows, boardRow{kind: rowDay, day: day})
		for _, sl := range domain.Swimlanes() {
			rows = append(rows, boardRow{kind: rowLane, day: day, lane: sl.Key})
			for _, t := range ix.Lane(planner.LaneKey{DayID: day.ID, Swimlane: sl.Key}) {
				rows = append(rows, boardRow{kind: rowTask, day: day, lane: sl.Key, task: t})
			}
		}
	}
	rows = append(rows, boardRow{kind: rowBacklog})
	for _, t := range ix.Lane(planner.LaneKey{}) {
		rows = append(rows, boardRow{kind: rowTask, task: t})
	}
	return rows
}

type boardKeys struct {
	Up     key.Binding
	Down   key.Binding
	Grab   key.Binding
	Cancel key.Binding
	Toggle key.Binding
	Prev   key.Binding
	Next   key.Binding
	Today  key.Binding
	Quit   key.Binding
}

func defaultBoardKeys() boardKeys {
	return boardKeys{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Grab:   key.NewBinding(key.WithKeys("enter", " ", "space"), key.WithHelp("enter", "pick up/drop")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Toggle: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "toggle done")),
		Prev:   key.NewBinding(key.WithKeys("p", "left"), key.WithHelp("p", "prev week")),
		Next:   key.NewBinding(key.WithKeys("n", "right"), key.WithHelp("n", "next week")),
		Today:  key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "this week")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k boardKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Grab, k.Cancel, k.Toggle, k.Prev, k.Next, k.Quit}
}

func (k boardKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.Grab, k.Cancel}, {k.Toggle, k.Prev, k.Next, k.Today, k.Quit}}
}

// opDoneMsg reports that a dispatched change settled.
type opDoneMsg struct{ err error }

type boardModel struct {
	app    *App
	drag   *planner.Translator
	keys   boardKeys
	help   help.Model
	cursor int
	height int
	notice string
}

func newBoardModel(app *App) boardModel {
	m := boardModel{
		app:  app,
		drag: planner.NewTranslator(app.Planner),
		keys: defaultBoardKeys(),
		help: help.New(),
	}
	m.cursor = m.step(m.rows(), -1, 1)
	return m
}

func (m boardModel) Init() tea.Cmd { return nil }

func (m boardModel) rows() []boardRow {
	return boardRows(m.app.Planner.State(), m.app.Planner.Index())
}

// selected returns the row under the cursor.
func (m boardModel) selected() (boardRow, bool) {
	rows := m.rows()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return boardRow{}, false
	}
	return rows[m.cursor], true
}

// step finds the next cursor stop from i in direction dir, staying put at
// either end.
func (m boardModel) step(rows []boardRow, i, dir int) int {
	for j := i + dir; j >= 0 && j < len(rows); j += dir {
		if rows[j].selectable() {
			return j
		}
	}
	if i < 0 {
		return 0
	}
	return i
}

// focusTask moves the cursor onto the task's row, if it is on the board.
func (m *boardModel) focusTask(id string) {
	for i, r := range m.rows() {
		if r.kind == rowTask && r.task.ID == id {
			m.cursor = i
			return
		}
	}
	m.clamp()
}

func (m *boardModel) clamp() {
	rows := m.rows()
	if m.cursor >= len(rows) {
		m.cursor = len(rows) - 1
	}
	if m.cursor >= 0 && !rows[m.cursor].selectable() {
		m.cursor = m.step(rows, m.cursor, 1)
	}
}

func (m boardModel) await(op *planner.Op) tea.Cmd {
	return func() tea.Msg {
		return opDoneMsg{err: m.app.settle(context.Background(), op)}
	}
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case opDoneMsg:
		m.notice = ""
		if msg.err != nil {
			m.notice = msg.err.Error()
		}
		m.clamp()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m boardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		m.cursor = m.step(m.rows(), m.cursor, -1)

	case key.Matches(msg, m.keys.Down):
		m.cursor = m.step(m.rows(), m.cursor, 1)

	case key.Matches(msg, m.keys.Grab):
		row, ok := m.selected()
		if !ok {
			return m, nil
		}
		if active, dragging := m.drag.Active(); dragging {
			op := m.drag.Drop(row.target())
			m.focusTask(active.TaskID)
			return m, m.await(op)
		}
		if row.kind == rowTask {
			ctx := planner.DragFloating
			if row.task.Scheduled() {
				ctx = planner.DragScheduled
			}
			m.drag.PickUp(planner.DragStart{TaskID: row.task.ID, Context: ctx})
		}

	case key.Matches(msg, m.keys.Cancel):
		m.drag.Cancel()

	case key.Matches(msg, m.keys.Toggle):
		row, ok := m.selected()
		if !ok || row.kind != rowTask {
			return m, nil
		}
		next := domain.StatusCompleted
		if row.task.Status == domain.StatusCompleted {
			next = domain.StatusPlanned
		}
		return m, m.await(m.app.Planner.UpdateTaskStatus(row.task.ID, next))

	case key.Matches(msg, m.keys.Prev):
		return m.navigate(m.app.Planner.GoToPreviousWeek())

	case key.Matches(msg, m.keys.Next):
		return m.navigate(m.app.Planner.GoToNextWeek())

	case key.Matches(msg, m.keys.Today):
		return m.navigate(m.app.Planner.ResetToCurrentWeek())
	}
	return m, nil
}

func (m boardModel) navigate(op *planner.Op) (tea.Model, tea.Cmd) {
	m.drag.Cancel()
	m.cursor = m.step(m.rows(), -1, 1)
	return m, m.await(op)
}

func (m boardModel) View() string {
	st := m.app.Planner.State()
	rows := boardRows(st, m.app.Planner.Index())
	active, dragging := m.drag.Active()

	lines := make([]string, 0, len(rows))
	for i, r := range rows {
		pointer := "  "
		if i == m.cursor {
			pointer = formatter.StyleHeader.Render("› ")
		}
		lines = append(lines, pointer+m.renderRow(r, dragging && r.task.ID == active.TaskID))
	}

	var b strings.Builder
	b.WriteString(formatter.Header(formatter.WeekTitle(st.Week)) + "\n\n")
	b.WriteString(strings.Join(m.window(lines), "\n") + "\n\n")
	if dragging {
		if t, ok := st.Task(active.TaskID); ok {
			b.WriteString(formatter.StyleYellow.Render(fmt.Sprintf("Moving %q · enter to drop, esc to cancel", t.Title)) + "\n")
		}
	}
	if m.notice != "" {
		b.WriteString(formatter.StyleRed.Render(m.notice) + "\n")
	}
	b.WriteString(formatter.StatusLine(st, m.app.Planner.Mode(), m.app.now()) + "\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m boardModel) renderRow(r boardRow, held bool) string {
	switch r.kind {
	case rowDay:
		return formatter.Bold(r.day.Label)
	case rowLane:
		return "  " + formatter.LaneLabel(r.lane)
	case rowBacklog:
		return formatter.Header("Backlog")
	}
	line := formatter.TaskLine(r.task)
	if held {
		line = formatter.StyleYellow.Render("⇅ " + r.task.Title)
	}
	if r.task.Scheduled() {
		return "    " + line
	}
	return "  " + line
}

// window trims lines to the terminal height, keeping the cursor visible.
func (m boardModel) window(lines []string) []string {
	visible := m.height - 7
	if m.height == 0 || visible >= len(lines) || visible <= 0 {
		return lines
	}
	start := m.cursor - visible/2
	if start < 0 {
		start = 0
	}
	if start+visible > len(lines) {
		start = len(lines) - visible
	}
	return lines[start : start+visible]
}
