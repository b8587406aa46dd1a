package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/weekplan/internal/domain"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// laneStyles gives each swimlane a stable accent.
var laneStyles = map[domain.SwimlaneKey]lipgloss.Style{
	domain.SwimlaneFocus:         StyleBlue,
	domain.SwimlaneCollaboration: StylePurple,
	domain.SwimlaneSelfCare:      StyleGreen,
	domain.SwimlaneLifeAdmin:     StyleYellow,
}

// LaneLabel renders a swimlane's display name in its accent color.
func LaneLabel(key domain.SwimlaneKey) string {
	sl, ok := domain.LookupSwimlane(key)
	if !ok {
		return StyleDim.Render(string(key))
	}
	style, ok := laneStyles[key]
	if !ok {
		style = StyleFg
	}
	return style.Render(sl.Label)
}

// StatusPill returns a colored status indicator for a task.
func StatusPill(status domain.Status) string {
	switch status {
	case domain.StatusPlanned:
		return StyleBlue.Render("○ Planned")
	case domain.StatusInProgress:
		return StyleYellow.Render("● In Progress")
	case domain.StatusCompleted:
		return StyleGreen.Render("✔ Done")
	case domain.StatusSkipped:
		return StyleDim.Render("⊘ Skipped")
	default:
		return StyleDim.Render(string(status))
	}
}

// StatusMark is the one-rune form of StatusPill used on the board.
func StatusMark(status domain.Status) string {
	switch status {
	case domain.StatusInProgress:
		return StyleYellow.Render("●")
	case domain.StatusCompleted:
		return StyleGreen.Render("✔")
	case domain.StatusSkipped:
		return StyleDim.Render("⊘")
	default:
		return StyleBlue.Render("○")
	}
}

func EnergyBadge(e domain.Energy) string {
	switch e {
	case domain.EnergyHigh:
		return StyleRed.Render("▲ high")
	case domain.EnergyMedium:
		return StyleYellow.Render("■ medium")
	case domain.EnergyLow:
		return StyleGreen.Render("▼ low")
	default:
		return StyleDim.Render(string(e))
	}
}

// CategoryBadge returns a capitalized, purple-styled category label.
func CategoryBadge(c domain.Category) string {
	if c == "" {
		return StyleDim.Render("--")
	}
	s := string(c)
	return StylePurple.Render(strings.ToUpper(s[:1]) + s[1:])
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
