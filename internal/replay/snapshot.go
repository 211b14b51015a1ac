// Package replay folds an event log up to a cursor time into the live task
// set and the solver's search tree.
package replay

import (
	"slices"

	"github.com/alexanderramin/schedtrace/internal/domain"
)

// Snapshot is the live task set built by applying events one at a time.
// The zero value is not usable; call NewSnapshot.
type Snapshot struct {
	tasks map[string]*domain.LiveTask
}

func NewSnapshot() *Snapshot {
	return &Snapshot{tasks: make(map[string]*domain.LiveTask)}
}

// Apply folds one event into the snapshot. Events that target a task which
// is not live are ignored, except assign which creates it.
func (s *Snapshot) Apply(e domain.Event) {
	switch e.Type {
	case domain.EventAssign:
		s.tasks[e.TaskID] = &domain.LiveTask{
			ID:         e.TaskID,
			Name:       domain.CoalesceStr(e.TaskName, e.TaskID),
			StartTime:  domain.IntFromPtrWithDefault(0, e.StartTime),
			EndTime:    domain.IntFromPtrWithDefault(0, e.EndTime),
			ResourceID: e.ResourceID,
		}
	case domain.EventRemove:
		delete(s.tasks, e.TaskID)
	case domain.EventStart:
		task, ok := s.tasks[e.TaskID]
		if !ok || e.StartTime == nil {
			return
		}
		task.StartTime = *e.StartTime
		if e.EndTime != nil {
			task.EndTime = *e.EndTime
		}
	case domain.EventComplete:
		task, ok := s.tasks[e.TaskID]
		if !ok || e.EndTime == nil {
			return
		}
		task.EndTime = *e.EndTime
		task.Progress = 100
	case domain.EventModify:
		task, ok := s.tasks[e.TaskID]
		if !ok || e.Patch == nil {
			return
		}
		applyPatch(task, e.Patch)
	}
}

func applyPatch(task *domain.LiveTask, p *domain.TaskPatch) {
	if p.Name != nil {
		task.Name = *p.Name
	}
	if p.StartTime != nil {
		task.StartTime = *p.StartTime
	}
	if p.EndTime != nil {
		task.EndTime = *p.EndTime
	}
	if p.Progress != nil {
		task.Progress = *p.Progress
	}
	if p.ResourceID != nil {
		task.ResourceID = *p.ResourceID
	}
}

// Len returns the number of live tasks.
func (s *Snapshot) Len() int {
	return len(s.tasks)
}

// Tasks returns copies of the live tasks in task id order.
func (s *Snapshot) Tasks() []domain.LiveTask {
	out := make([]domain.LiveTask, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, *t)
	}
	slices.SortFunc(out, func(a, b domain.LiveTask) int {
		return domain.CompareTaskIDs(a.ID, b.ID)
	})
	return out
}

// TasksAtTime replays, in log order, every event with timestamp <= t.
func TasksAtTime(events []domain.Event, t int) []domain.LiveTask {
	s := NewSnapshot()
	for i := range events {
		if events[i].Timestamp <= t {
			s.Apply(events[i])
		}
	}
	return s.Tasks()
}

// LatestEventAt returns the last event logged with timestamp exactly t.
func LatestEventAt(events []domain.Event, t int) (domain.Event, bool) {
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].Timestamp == t {
			return events[i], true
		}
	}
	return domain.Event{}, false
}

// TimeRange returns the smallest and largest timestamps, or 0, 0 for an
// empty log.
func TimeRange(events []domain.Event) (lo, hi int) {
	for i := range events {
		ts := events[i].Timestamp
		if i == 0 || ts < lo {
			lo = ts
		}
		if i == 0 || ts > hi {
			hi = ts
		}
	}
	return lo, hi
}
