package domain

type Category string

const (
	CategoryWork     Category = "work"
	CategoryHealth   Category = "health"
	CategoryPersonal Category = "personal"
	CategoryLearning Category = "learning"
	CategoryAdmin    Category = "admin"
)

// Categories lists every category in display order.
var Categories = []Category{CategoryWork, CategoryHealth, CategoryPersonal, CategoryLearning, CategoryAdmin}

func (c Category) Valid() bool {
	switch c {
	case CategoryWork, CategoryHealth, CategoryPersonal, CategoryLearning, CategoryAdmin:
		return true
	}
	return false
}

type Energy string

const (
	EnergyHigh   Energy = "high"
	EnergyMedium Energy = "medium"
	EnergyLow    Energy = "low"
)

var Energies = []Energy{EnergyHigh, EnergyMedium, EnergyLow}

func (e Energy) Valid() bool {
	switch e {
	case EnergyHigh, EnergyMedium, EnergyLow:
		return true
	}
	return false
}

type Status string

const (
	StatusPlanned    Status = "planned"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusSkipped    Status = "skipped"
)

var Statuses = []Status{StatusPlanned, StatusInProgress, StatusCompleted, StatusSkipped}

func (s Status) Valid() bool {
	switch s {
	case StatusPlanned, StatusInProgress, StatusCompleted, StatusSkipped:
		return true
	}
	return false
}

type SwimlaneKey string

const (
	SwimlaneFocus         SwimlaneKey = "focus"
	SwimlaneCollaboration SwimlaneKey = "collaboration"
	SwimlaneSelfCare      SwimlaneKey = "self-care"
	SwimlaneLifeAdmin     SwimlaneKey = "life-admin"
)

var SwimlaneKeys = []SwimlaneKey{SwimlaneFocus, SwimlaneCollaboration, SwimlaneSelfCare, SwimlaneLifeAdmin}

func (k SwimlaneKey) Valid() bool {
	switch k {
	case SwimlaneFocus, SwimlaneCollaboration, SwimlaneSelfCare, SwimlaneLifeAdmin:
		return true
	}
	return false
}
