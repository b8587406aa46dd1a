package domain

// QuickAddResult is the structured output of quick task entry. Producers fill
// what they recognize; Fields applies the defaults for the rest.
type QuickAddResult struct {
	Title           string
	Category        Category
	Energy          Energy
	DurationMinutes int
	Occurrences     *int
	SwimlaneHint    SwimlaneKey
}

const (
	DefaultQuickAddCategory = CategoryPersonal
	DefaultQuickAddEnergy   = EnergyMedium
	DefaultQuickAddDuration = 30
)

// Fields converts the result into creation input. The swimlane hint is
// advisory and never places the task; quick-added tasks land in the backlog.
func (q QuickAddResult) Fields() TaskFields {
	f := TaskFields{
		Title:                    q.Title,
		Category:                 Category(CoalesceStr(string(q.Category), string(DefaultQuickAddCategory))),
		Energy:                   Energy(CoalesceStr(string(q.Energy), string(DefaultQuickAddEnergy))),
		DurationMinutes:          q.DurationMinutes,
		TargetOccurrencesPerWeek: copyInt(q.Occurrences),
	}
	if f.DurationMinutes == 0 {
		f.DurationMinutes = DefaultQuickAddDuration
	}
	return f.Normalize()
}
