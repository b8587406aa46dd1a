package planner

import (
	"sort"

	"github.com/alexanderramin/weekplan/internal/domain"
)

// Normalize re-derives a dense 0..n-1 order inside every group. Tasks in a
// group are ranked by their existing order, then title, then ID, so the
// result is deterministic and a normalized collection passes through
// unchanged. Groups are emitted in order of first appearance.
func Normalize(tasks []domain.Task, groupKey func(domain.Task) LaneKey) []domain.Task {
	groups := make(map[LaneKey][]domain.Task)
	var keys []LaneKey
	for _, t := range tasks {
		k := groupKey(t)
		if _, seen := groups[k]; !seen {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], t)
	}

	out := make([]domain.Task, 0, len(tasks))
	for _, k := range keys {
		lane := groups[k]
		sortLane(lane)
		for i := range lane {
			lane[i].Order = i
		}
		out = append(out, lane...)
	}
	return out
}

func sortLane(lane []domain.Task) {
	sort.SliceStable(lane, func(i, j int) bool {
		a, b := lane[i], lane[j]
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		if a.Title != b.Title {
			return a.Title < b.Title
		}
		return a.ID < b.ID
	})
}

// insertAt places t into lane key of tasks at index, clamped to
// [0, len(lane)]. t must not already be in tasks and must already carry the
// placement of key. Returns the normalized collection and the clamped index.
func insertAt(tasks []domain.Task, t domain.Task, key LaneKey, index int) ([]domain.Task, int) {
	lane := IndexFor(tasks).Lane(key)
	idx := clampIndex(index, len(lane))

	rank := make(map[string]int, len(lane)+1)
	for i, other := range lane {
		if i < idx {
			rank[other.ID] = i
		} else {
			rank[other.ID] = i + 1
		}
	}

	out := make([]domain.Task, 0, len(tasks)+1)
	for _, other := range tasks {
		if PlacementKey(other) == key {
			other.Order = rank[other.ID]
		}
		out = append(out, other)
	}
	t.Order = idx
	out = append(out, t)
	return Normalize(out, PlacementKey), idx
}

// take removes the task with id from tasks, renormalizing what is left.
func take(tasks []domain.Task, id string) ([]domain.Task, domain.Task, bool) {
	for i, t := range tasks {
		if t.ID != id {
			continue
		}
		rest := make([]domain.Task, 0, len(tasks)-1)
		rest = append(rest, tasks[:i]...)
		rest = append(rest, tasks[i+1:]...)
		return Normalize(rest, PlacementKey), t, true
	}
	return tasks, domain.Task{}, false
}

func findTask(tasks []domain.Task, id string) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func clampIndex(index, size int) int {
	if index < 0 {
		return 0
	}
	if index > size {
		return size
	}
	return index
}
