package domain

// Swimlane is one of the fixed categories of effort a scheduled task sits in.
// Swimlanes are static; they are never created by users or stored per user.
type Swimlane struct {
	Key         SwimlaneKey `json:"id"`
	Label       string      `json:"label"`
	Description string      `json:"description"`
}

var swimlanes = []Swimlane{
	{Key: SwimlaneFocus, Label: "Deep Work", Description: "High-value, high-focus work that moves goals forward."},
	{Key: SwimlaneCollaboration, Label: "Collaboration", Description: "Meetings, pair sessions, and communication-heavy work."},
	{Key: SwimlaneSelfCare, Label: "Self Care", Description: "Wellness, rest, reflection, and personal growth."},
	{Key: SwimlaneLifeAdmin, Label: "Life Admin", Description: "Logistics, errands, and household responsibilities."},
}

// Swimlanes returns the swimlane definitions in board order.
func Swimlanes() []Swimlane {
	out := make([]Swimlane, len(swimlanes))
	copy(out, swimlanes)
	return out
}

// LookupSwimlane returns the definition for key.
func LookupSwimlane(key SwimlaneKey) (Swimlane, bool) {
	for _, s := range swimlanes {
		if s.Key == key {
			return s, true
		}
	}
	return Swimlane{}, false
}
