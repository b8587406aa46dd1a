package planner

import (
	"sort"

	"github.com/alexanderramin/weekplan/internal/domain"
)

// LaneKey identifies a placement group: a (day, swimlane) pair, or the
// floating backlog when both fields are empty.
type LaneKey struct {
	DayID    string
	Swimlane domain.SwimlaneKey
}

// FloatingLane is the key of the floating backlog.
var FloatingLane = LaneKey{}

func (k LaneKey) Floating() bool {
	return k == FloatingLane
}

func (k LaneKey) String() string {
	if k.Floating() {
		return "floating"
	}
	return k.DayID + "::" + string(k.Swimlane)
}

// PlacementKey returns the group a task belongs to.
func PlacementKey(t domain.Task) LaneKey {
	return LaneKey{DayID: t.DayID, Swimlane: t.Swimlane}
}

// LaneIndex is a read model over the flat task collections. It is rebuilt
// from scratch for every read and never patched.
type LaneIndex struct {
	lanes map[LaneKey][]domain.Task
}

// IndexFor groups every task of the given collections by placement, each
// lane sorted ascending by order.
func IndexFor(collections ...[]domain.Task) LaneIndex {
	lanes := make(map[LaneKey][]domain.Task)
	for _, tasks := range collections {
		for _, t := range tasks {
			k := PlacementKey(t)
			lanes[k] = append(lanes[k], t)
		}
	}
	for _, lane := range lanes {
		sortLane(lane)
	}
	return LaneIndex{lanes: lanes}
}

// Lane returns a copy of the tasks in key, ascending by order. A missing
// key yields an empty list.
func (ix LaneIndex) Lane(key LaneKey) []domain.Task {
	lane := ix.lanes[key]
	out := make([]domain.Task, len(lane))
	copy(out, lane)
	return out
}

func (ix LaneIndex) Len(key LaneKey) int {
	return len(ix.lanes[key])
}

// Keys returns every non-empty lane, floating first, then by day and swimlane.
func (ix LaneIndex) Keys() []LaneKey {
	keys := make([]LaneKey, 0, len(ix.lanes))
	for k := range ix.lanes {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].DayID != keys[j].DayID {
			return keys[i].DayID < keys[j].DayID
		}
		return keys[i].Swimlane < keys[j].Swimlane
	})
	return keys
}

// Find locates a task, returning its lane and its position in that lane.
func (ix LaneIndex) Find(taskID string) (LaneKey, int, bool) {
	for k, lane := range ix.lanes {
		for i, t := range lane {
			if t.ID == taskID {
				return k, i, true
			}
		}
	}
	return LaneKey{}, 0, false
}
