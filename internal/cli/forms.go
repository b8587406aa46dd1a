package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/weekplan/internal/cli/formatter"
	"github.com/alexanderramin/weekplan/internal/domain"
)

// weekplanHuhTheme returns a huh theme that matches the formatter palette.
func weekplanHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// taskForm collects new-task fields. Values stay as strings until Fields.
type taskForm struct {
	title, category, energy, duration, times, notes string
	day, lane                                       string

	form *huh.Form
}

func newTaskForm(title string, week domain.Week) *taskForm {
	f := &taskForm{
		title:    title,
		category: string(domain.DefaultQuickAddCategory),
		energy:   string(domain.DefaultQuickAddEnergy),
		duration: strconv.Itoa(domain.DefaultQuickAddDuration),
	}

	dayOptions := []huh.Option[string]{huh.NewOption("Backlog", "")}
	for _, d := range week.Days {
		dayOptions = append(dayOptions, huh.NewOption(d.Label, d.ID))
	}
	laneOptions := make([]huh.Option[string], 0, len(domain.SwimlaneKeys))
	for _, sl := range domain.Swimlanes() {
		laneOptions = append(laneOptions, huh.NewOption(sl.Label, string(sl.Key)))
	}

	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(&f.title).Validate(validateTitle),
			huh.NewSelect[string]().Title("Category").Options(stringOptions(domain.Categories)...).Value(&f.category),
			huh.NewSelect[string]().Title("Energy").Options(stringOptions(domain.Energies)...).Value(&f.energy),
			durationInput(&f.duration),
			huh.NewInput().Title("Times per week (blank for none)").Value(&f.times).Validate(validateOptionalInt),
		),
		huh.NewGroup(
			huh.NewSelect[string]().Title("Day").Options(dayOptions...).Value(&f.day),
			huh.NewSelect[string]().Title("Swimlane").Description("Ignored for backlog tasks").Options(laneOptions...).Value(&f.lane),
			huh.NewText().Title("Notes (markdown)").Value(&f.notes),
		),
	).WithTheme(weekplanHuhTheme())
	return f
}

func (f *taskForm) Run() error {
	return f.form.Run()
}

// Fields converts the collected answers into creation input.
func (f *taskForm) Fields() (domain.TaskFields, error) {
	minutes, err := strconv.Atoi(strings.TrimSpace(f.duration))
	if err != nil {
		return domain.TaskFields{}, fmt.Errorf("duration: %w", err)
	}
	fields := domain.TaskFields{
		Title:           f.title,
		Category:        domain.Category(f.category),
		Energy:          domain.Energy(f.energy),
		DurationMinutes: minutes,
		Notes:           strings.TrimSpace(f.notes),
	}
	if s := strings.TrimSpace(f.times); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return domain.TaskFields{}, fmt.Errorf("times per week: %w", err)
		}
		fields.TargetOccurrencesPerWeek = &n
	}
	if f.day != "" {
		fields.DayID = f.day
		fields.Swimlane = domain.SwimlaneKey(f.lane)
	}
	return fields.Normalize(), nil
}

// durationInput returns a huh.Input for a duration in minutes.
func durationInput(value *string) *huh.Input {
	return huh.NewInput().
		Title("Minutes").
		Placeholder(strconv.Itoa(domain.DefaultQuickAddDuration)).
		Value(value).
		Validate(validateDuration)
}

func (a *App) promptPassword() (string, error) {
	if !a.interactive() {
		return "", errors.New("--password is required when not running in a terminal")
	}
	var password string
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&password),
		),
	).WithTheme(weekplanHuhTheme()).WithShowHelp(false).Run()
	return password, err
}

func validateTitle(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("title is required")
	}
	return nil
}

func validateDuration(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return errors.New("must be a number")
	}
	if n < domain.MinDurationMinutes || n > domain.MaxDurationMinutes {
		return fmt.Errorf("must be between %d and %d", domain.MinDurationMinutes, domain.MaxDurationMinutes)
	}
	return nil
}

func validateOptionalInt(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if _, err := strconv.Atoi(strings.TrimSpace(s)); err != nil {
		return errors.New("must be a number")
	}
	return nil
}

func stringOptions[T ~string](values []T) []huh.Option[string] {
	out := make([]huh.Option[string], len(values))
	for i, v := range values {
		out[i] = huh.NewOption(string(v), string(v))
	}
	return out
}
