package contract

import (
	"fmt"

	"github.com/alexanderramin/weekplan/internal/domain"
)

// Wire enums are the uppercase spellings the REST API uses.
type (
	Category string
	Energy   string
	Status   string
	Swimlane string
)

const (
	CategoryWork     Category = "WORK"
	CategoryHealth   Category = "HEALTH"
	CategoryPersonal Category = "PERSONAL"
	CategoryLearning Category = "LEARNING"
	CategoryAdmin    Category = "ADMIN"

	EnergyHigh   Energy = "HIGH"
	EnergyMedium Energy = "MEDIUM"
	EnergyLow    Energy = "LOW"

	StatusPlanned    Status = "PLANNED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusSkipped    Status = "SKIPPED"

	SwimlaneFocus         Swimlane = "FOCUS"
	SwimlaneCollaboration Swimlane = "COLLABORATION"
	SwimlaneSelfCare      Swimlane = "SELF_CARE"
	SwimlaneLifeAdmin     Swimlane = "LIFE_ADMIN"
)

var (
	categoryToWire = map[domain.Category]Category{
		domain.CategoryWork:     CategoryWork,
		domain.CategoryHealth:   CategoryHealth,
		domain.CategoryPersonal: CategoryPersonal,
		domain.CategoryLearning: CategoryLearning,
		domain.CategoryAdmin:    CategoryAdmin,
	}
	energyToWire = map[domain.Energy]Energy{
		domain.EnergyHigh:   EnergyHigh,
		domain.EnergyMedium: EnergyMedium,
		domain.EnergyLow:    EnergyLow,
	}
	statusToWire = map[domain.Status]Status{
		domain.StatusPlanned:    StatusPlanned,
		domain.StatusInProgress: StatusInProgress,
		domain.StatusCompleted:  StatusCompleted,
		domain.StatusSkipped:    StatusSkipped,
	}
	swimlaneToWire = map[domain.SwimlaneKey]Swimlane{
		domain.SwimlaneFocus:         SwimlaneFocus,
		domain.SwimlaneCollaboration: SwimlaneCollaboration,
		domain.SwimlaneSelfCare:      SwimlaneSelfCare,
		domain.SwimlaneLifeAdmin:     SwimlaneLifeAdmin,
	}

	categoryFromWire = invert(categoryToWire)
	energyFromWire   = invert(energyToWire)
	statusFromWire   = invert(statusToWire)
	swimlaneFromWire = invert(swimlaneToWire)
)

func invert[K, V comparable](m map[K]V) map[V]K {
	out := make(map[V]K, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}

// The To* functions pass unknown values through unchanged; the server
// rejects them.

func ToWireCategory(c domain.Category) Category {
	if w, ok := categoryToWire[c]; ok {
		return w
	}
	return Category(c)
}

func ToWireEnergy(e domain.Energy) Energy {
	if w, ok := energyToWire[e]; ok {
		return w
	}
	return Energy(e)
}

func ToWireStatus(s domain.Status) Status {
	if w, ok := statusToWire[s]; ok {
		return w
	}
	return Status(s)
}

// ToWireSwimlane maps the empty key to the empty string.
func ToWireSwimlane(k domain.SwimlaneKey) Swimlane {
	if w, ok := swimlaneToWire[k]; ok {
		return w
	}
	return Swimlane(k)
}

// The From* functions read server responses and never fail: unknown values
// fall back to a default.

func FromWireCategory(c Category) domain.Category {
	if d, ok := categoryFromWire[c]; ok {
		return d
	}
	return domain.CategoryWork
}

func FromWireEnergy(e Energy) domain.Energy {
	if d, ok := energyFromWire[e]; ok {
		return d
	}
	return domain.EnergyMedium
}

func FromWireStatus(s Status) domain.Status {
	if d, ok := statusFromWire[s]; ok {
		return d
	}
	return domain.StatusPlanned
}

// FromWireSwimlane returns the empty key for absent or unknown lanes.
func FromWireSwimlane(s Swimlane) domain.SwimlaneKey {
	return swimlaneFromWire[s]
}

// The Parse* functions read client requests strictly.

func ParseCategory(c Category) (domain.Category, error) {
	if d, ok := categoryFromWire[c]; ok {
		return d, nil
	}
	return "", &domain.ValidationError{Field: "category", Message: fmt.Sprintf("unknown category %q", c)}
}

func ParseEnergy(e Energy) (domain.Energy, error) {
	if d, ok := energyFromWire[e]; ok {
		return d, nil
	}
	return "", &domain.ValidationError{Field: "energy", Message: fmt.Sprintf("unknown energy %q", e)}
}

func ParseStatus(s Status) (domain.Status, error) {
	if d, ok := statusFromWire[s]; ok {
		return d, nil
	}
	return "", &domain.ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", s)}
}

// ParseSwimlane accepts the empty string as "no lane".
func ParseSwimlane(s Swimlane) (domain.SwimlaneKey, error) {
	if s == "" {
		return "", nil
	}
	if d, ok := swimlaneFromWire[s]; ok {
		return d, nil
	}
	return "", &domain.ValidationError{Field: "swimlane", Message: fmt.Sprintf("unknown swimlane %q", s)}
}
