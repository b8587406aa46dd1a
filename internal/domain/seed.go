package domain

import "time"

// SeedWeek returns the skeleton for the week containing anchor with the
// starter theme on Monday.
func SeedWeek(anchor time.Time) Week {
	w := BuildWeek(anchor)
	w.Days[0].Theme = "Deep Work Monday"
	return w
}

// SeedTasks returns the deterministic starter content shown before anything
// has been loaded: scheduled tasks across Monday to Friday and a short backlog.
func SeedTasks(w Week) (scheduled, floating []Task) {
	if len(w.Days) < 5 {
		return nil, nil
	}
	mon, tue, wed, thu, fri := w.Days[0].ID, w.Days[1].ID, w.Days[2].ID, w.Days[3].ID, w.Days[4].ID
	three := 3

	scheduled = []Task{
		seedTask("task-1", "Strategic Planning Deep Work", CategoryWork, EnergyHigh, 120, 0, mon, SwimlaneFocus),
		seedTask("task-2", "Client Standup + Roadmap Review", CategoryWork, EnergyMedium, 60, 0, mon, SwimlaneCollaboration),
		seedTask("task-3", "Strength Training", CategoryHealth, EnergyHigh, 75, 0, tue, SwimlaneSelfCare),
		seedTask("task-4", "Content Calendar Refresh", CategoryWork, EnergyMedium, 90, 0, wed, SwimlaneFocus),
		seedTask("task-5", "Team Sync + Retro Prep", CategoryWork, EnergyLow, 45, 0, wed, SwimlaneCollaboration),
		seedTask("task-6", "Family Logistics & Meal Plan", CategoryPersonal, EnergyLow, 60, 0, thu, SwimlaneLifeAdmin),
		seedTask("task-7", "Weekly Reflection & Wins", CategoryLearning, EnergyLow, 45, 0, fri, SwimlaneSelfCare),
	}
	scheduled[0].Notes = "Outline OKRs and highlight key initiatives."

	floating = []Task{
		seedTask("floating-1", "3x Midday Walk", CategoryHealth, EnergyLow, 30, 0, "", ""),
		seedTask("floating-2", "Inbox Zero Sweep", CategoryAdmin, EnergyLow, 25, 1, "", ""),
		seedTask("floating-3", "Reach out to mentor", CategoryPersonal, EnergyMedium, 20, 2, "", ""),
	}
	floating[0].TargetOccurrencesPerWeek = &three
	return scheduled, floating
}

func seedTask(id, title string, c Category, e Energy, minutes, order int, dayID string, lane SwimlaneKey) Task {
	return Task{
		ID:              id,
		Title:           title,
		Category:        c,
		Energy:          e,
		Status:          StatusPlanned,
		DurationMinutes: minutes,
		Order:           order,
		DayID:           dayID,
		Swimlane:        lane,
	}
}
