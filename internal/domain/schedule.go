package domain

import "slices"

// Timing is a task's placement on the time axis. End is the first time unit
// the task no longer occupies.
type Timing struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// Schedule maps task ids to timings.
type Schedule map[string]Timing

// Clone returns an independent copy; a nil schedule clones to an empty one.
func (s Schedule) Clone() Schedule {
	out := make(Schedule, len(s))
	for id, t := range s {
		out[id] = t
	}
	return out
}

// Makespan is the latest end time, or 0 for an empty schedule.
func (s Schedule) Makespan() int {
	if len(s) == 0 {
		return 0
	}
	first := true
	var m int
	for _, t := range s {
		if first || t.End > m {
			m = t.End
			first = false
		}
	}
	return m
}

// TaskIDs returns the scheduled ids in canonical task id order.
func (s Schedule) TaskIDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, CompareTaskIDs)
	return ids
}

// LiveTask is a task as it appears at one point of the replayed log.
type LiveTask struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	StartTime  int    `json:"startTime"`
	EndTime    int    `json:"endTime"`
	Progress   int    `json:"progress"`
	ResourceID string `json:"resourceId,omitempty"`
}

// ConstraintViolation is one finding of the constraint checker.
type ConstraintViolation struct {
	Type         ViolationType `json:"type" yaml:"type"`
	TaskID       string        `json:"taskId" yaml:"taskId"`
	Message      string        `json:"message" yaml:"message"`
	Severity     Severity      `json:"severity" yaml:"severity"`
	RelatedTasks []string      `json:"relatedTasks,omitempty" yaml:"relatedTasks,omitempty"`
}
