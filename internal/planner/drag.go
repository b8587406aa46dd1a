package planner

import (
	"sync"

	"github.com/alexanderramin/weekplan/internal/domain"
)

// DragContext says where a picked-up task came from.
type DragContext string

const (
	DragScheduled DragContext = "scheduled"
	DragFloating  DragContext = "floating"
)

// DragStart is the "item picked up" event.
type DragStart struct {
	TaskID  string
	Context DragContext
}

// TargetKind is what a drag ended over.
type TargetKind string

const (
	TargetTask    TargetKind = "task"
	TargetLane    TargetKind = "lane"
	TargetBacklog TargetKind = "backlog"
)

// DropTarget is the "item dropped on target" event. TaskID is set for task
// targets; DayID and Swimlane for lane targets.
type DropTarget struct {
	Kind     TargetKind
	TaskID   string
	DayID    string
	Swimlane domain.SwimlaneKey
}

// Translator turns pick-up and drop events into planner mutations.
type Translator struct {
	planner Planner

	mu     sync.Mutex
	active *DragStart
}

func NewTranslator(p Planner) *Translator {
	return &Translator{planner: p}
}

// PickUp starts a drag, replacing any drag already in progress.
func (t *Translator) PickUp(ev DragStart) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.active = &ev
}

// Active returns the drag in progress, if any.
func (t *Translator) Active() (DragStart, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active == nil {
		return DragStart{}, false
	}
	return *t.active, true
}

// Cancel abandons the drag in progress.
func (t *Translator) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.active = nil
}

// Drop ends the drag over target and dispatches the resolved mutation. A nil
// target or a combination with no meaning is a no-op with a settled Op.
func (t *Translator) Drop(target *DropTarget) *Op {
	t.mu.Lock()
	active := t.active
	t.active = nil
	t.mu.Unlock()

	if active == nil || target == nil {
		return settledOp(nil)
	}
	ix := t.planner.Index()

	switch target.Kind {
	case TargetBacklog:
		if active.Context == DragScheduled {
			return t.planner.UnscheduleTask(UnscheduleRequest{TaskID: active.TaskID})
		}
		return settledOp(nil)

	case TargetLane:
		lane := LaneKey{DayID: target.DayID, Swimlane: target.Swimlane}
		if lane.Floating() || !target.Swimlane.Valid() {
			return settledOp(nil)
		}
		return t.place(*active, lane, ix.Len(lane))

	case TargetTask:
		if target.TaskID == active.TaskID {
			return settledOp(nil)
		}
		lane, index, ok := ix.Find(target.TaskID)
		if !ok {
			return settledOp(nil)
		}
		if lane.Floating() {
			if active.Context == DragFloating {
				return t.planner.ReorderFloatingTask(active.TaskID, index)
			}
			return t.planner.UnscheduleTask(UnscheduleRequest{TaskID: active.TaskID, Index: &index})
		}
		return t.place(*active, lane, index)
	}
	return settledOp(nil)
}

func (t *Translator) place(active DragStart, lane LaneKey, index int) *Op {
	req := MoveRequest{TaskID: active.TaskID, DayID: lane.DayID, Swimlane: lane.Swimlane, Index: index}
	switch active.Context {
	case DragFloating:
		return t.planner.ScheduleFloatingTask(req)
	case DragScheduled:
		return t.planner.MoveTask(req)
	}
	return settledOp(nil)
}
