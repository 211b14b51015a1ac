package domain

import (
	"encoding/json"
	"strconv"
	"strings"
)

// SolverSentinel is the task name (or name prefix) the solver uses for its
// own bookkeeping events. Those events never describe a task.
const SolverSentinel = "Solver"

const (
	markerTaskDefined   = "Task defined"
	markerFinalSolution = "Final solution"
)

// Event is one immutable record of the solver's event log.
type Event struct {
	ID               string          `json:"id"`
	Type             EventType       `json:"type"`
	TaskID           string          `json:"taskId"`
	TaskName         string          `json:"taskName,omitempty"`
	Timestamp        int             `json:"timestamp"`
	StartTime        *int            `json:"startTime,omitempty"`
	EndTime          *int            `json:"endTime,omitempty"`
	ResourceID       string          `json:"resourceId,omitempty"`
	PreviousValue    json.RawMessage `json:"previousValue,omitempty"`
	NewValue         json.RawMessage `json:"newValue,omitempty"`
	DecisionLevel    *int            `json:"decisionLevel,omitempty"`
	BacktrackToLevel *int            `json:"backtrackToLevel,omitempty"`
	NodeID           string          `json:"nodeId,omitempty"`
	ParentNodeID     string          `json:"parentNodeId,omitempty"`
	NodeStatus       NodeStatus      `json:"nodeStatus,omitempty"`
	Description      string          `json:"description,omitempty"`
	Dependencies     []int           `json:"dependencies,omitempty"`
	Successors       []int           `json:"successors,omitempty"`

	// Patch is the decoded form of NewValue for modify events. It is filled
	// in by the event log parser; nil means no usable patch.
	Patch *TaskPatch `json:"-"`
}

// IsSolverEvent reports whether the event is the solver's own bookkeeping.
func (e *Event) IsSolverEvent() bool {
	return e.TaskName == SolverSentinel || strings.HasPrefix(e.TaskName, SolverSentinel)
}

// IsTaskDefinition reports whether the event is a "Task defined" marker.
func (e *Event) IsTaskDefinition() bool {
	return strings.HasPrefix(e.Description, markerTaskDefined)
}

// IsFinalSolution reports whether the description marks a final solution.
func (e *Event) IsFinalSolution() bool {
	return strings.Contains(e.Description, markerFinalSolution)
}

// Level returns the decision level, 0 when absent.
func (e *Event) Level() int {
	return IntFromPtrWithDefault(0, e.DecisionLevel)
}

// HasTiming reports whether both start and end times are present.
func (e *Event) HasTiming() bool {
	return e.StartTime != nil && e.EndTime != nil
}

// TaskPatch is the closed set of per-field updates a modify event may carry.
// Nil fields are left untouched.
type TaskPatch struct {
	Name       *string `json:"name,omitempty"`
	StartTime  *int    `json:"startTime,omitempty"`
	EndTime    *int    `json:"endTime,omitempty"`
	Progress   *int    `json:"progress,omitempty"`
	ResourceID *string `json:"resourceId,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Name == nil && p.StartTime == nil && p.EndTime == nil &&
		p.Progress == nil && p.ResourceID == nil
}

// EventFile is the on-disk event log envelope.
type EventFile struct {
	Version  string         `json:"version"`
	Events   []Event        `json:"events"`
	Metadata *EventMetadata `json:"metadata,omitempty"`
}

type EventMetadata struct {
	ProjectName string `json:"projectName,omitempty"`
	TotalTasks  int    `json:"totalTasks,omitempty"`
	Solver      string `json:"solver,omitempty"`
}

// Instance is one entry of the instance catalog.
type Instance struct {
	ID          string     `json:"id" yaml:"id" validate:"required"`
	Name        string     `json:"name" yaml:"name" validate:"required"`
	Description string     `json:"description" yaml:"description"`
	Difficulty  Difficulty `json:"difficulty" yaml:"difficulty" validate:"required,oneof=beginner intermediate advanced"`
	File        string     `json:"file" yaml:"file" validate:"required"`
}

// CompareTaskIDs orders ids numerically when both parse as integers, with
// numeric ids before non-numeric ones and lexical order otherwise.
func CompareTaskIDs(a, b string) int {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	switch {
	case errA == nil && errB == nil:
		if na != nb {
			if na < nb {
				return -1
			}
			return 1
		}
		return strings.Compare(a, b)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	default:
		return strings.Compare(a, b)
	}
}
