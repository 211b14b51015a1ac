package testutil

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/alexanderramin/schedtrace/internal/domain"
)

var eventCounter atomic.Int64

// EventOption mutates an event under construction.
type EventOption func(*domain.Event)

func WithName(name string) EventOption {
	return func(e *domain.Event) {
		e.TaskName = name
	}
}

func WithTiming(start, end int) EventOption {
	return func(e *domain.Event) {
		e.StartTime = &start
		e.EndTime = &end
	}
}

func WithStart(start int) EventOption {
	return func(e *domain.Event) {
		e.StartTime = &start
	}
}

func WithEnd(end int) EventOption {
	return func(e *domain.Event) {
		e.EndTime = &end
	}
}

func WithLevel(level int) EventOption {
	return func(e *domain.Event) {
		e.DecisionLevel = &level
	}
}

func WithNode(nodeID, parentID string) EventOption {
	return func(e *domain.Event) {
		e.NodeID = nodeID
		e.ParentNodeID = parentID
	}
}

func WithNodeStatus(s domain.NodeStatus) EventOption {
	return func(e *domain.Event) {
		e.NodeStatus = s
	}
}

func WithBacktrack(level int) EventOption {
	return func(e *domain.Event) {
		e.BacktrackToLevel = &level
	}
}

func WithDescription(desc string) EventOption {
	return func(e *domain.Event) {
		e.Description = desc
	}
}

func WithDependencies(ids ...int) EventOption {
	return func(e *domain.Event) {
		e.Dependencies = append([]int{}, ids...)
	}
}

func WithSuccessors(ids ...int) EventOption {
	return func(e *domain.Event) {
		e.Successors = append([]int{}, ids...)
	}
}

func WithResource(id string) EventOption {
	return func(e *domain.Event) {
		e.ResourceID = id
	}
}

func WithPatch(p domain.TaskPatch) EventOption {
	return func(e *domain.Event) {
		e.Patch = &p
		raw, _ := json.Marshal(p)
		e.NewValue = raw
	}
}

// NewEvent builds an event with a unique id.
func NewEvent(typ domain.EventType, taskID string, ts int, opts ...EventOption) domain.Event {
	n := eventCounter.Add(1)
	e := domain.Event{
		ID:        fmt.Sprintf("%s_%s_%d_%d", taskID, typ, ts, n),
		Type:      typ,
		TaskID:    taskID,
		Timestamp: ts,
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// Assign is an assign event carrying a timing.
func Assign(taskID, name string, ts, start, end int, opts ...EventOption) domain.Event {
	return NewEvent(domain.EventAssign, taskID, ts, append([]EventOption{WithName(name), WithTiming(start, end)}, opts...)...)
}

// Decision is an assign event that also creates a search tree node.
func Decision(taskID, name string, ts, start, end, level int, nodeID, parentID string) domain.Event {
	return Assign(taskID, name, ts, start, end, WithLevel(level), WithNode(nodeID, parentID))
}

// Backtrack is a remove event retracting the search path to level.
func Backtrack(taskID string, ts, level int) domain.Event {
	return NewEvent(domain.EventRemove, taskID, ts, WithBacktrack(level))
}

// TaskDefined is a marker event describing a task's duration and demands.
func TaskDefined(taskID, name string, duration int, demands []int, opts ...EventOption) domain.Event {
	desc := fmt.Sprintf("Task defined with duration %d", duration)
	if len(demands) > 0 {
		b, _ := json.Marshal(demands)
		desc += ", Resources: " + spaced(string(b))
	}
	return NewEvent(domain.EventStart, taskID, 0, append([]EventOption{WithName(name), WithDescription(desc)}, opts...)...)
}

// FinalStart is a start event marked as part of the final solution.
func FinalStart(taskID, name string, ts, start, end int) domain.Event {
	return NewEvent(domain.EventStart, taskID, ts,
		WithName(name), WithTiming(start, end), WithDescription("Final solution: task scheduled"))
}

// SolverEvent is the solver's own bookkeeping record.
func SolverEvent(ts int, desc string) domain.Event {
	return NewEvent(domain.EventStart, "solver", ts, WithName(domain.SolverSentinel), WithDescription(desc))
}

func spaced(list string) string {
	out := make([]byte, 0, len(list)+4)
	for i := 0; i < len(list); i++ {
		out = append(out, list[i])
		if list[i] == ',' {
			out = append(out, ' ')
		}
	}
	return string(out)
}

// SoftwareProjectEvents is a five-task chain solved to makespan 17 with one
// backtrack at timestamp 4. Demands peak at 2 on both resources.
func SoftwareProjectEvents() []domain.Event {
	return []domain.Event{
		SolverEvent(0, "Solver started"),
		TaskDefined("0", "Requirements", 3, []int{2, 1}, WithSuccessors(1)),
		TaskDefined("1", "Design", 4, []int{1, 2}, WithSuccessors(2)),
		TaskDefined("2", "Implementation", 2, []int{2, 1}, WithSuccessors(3)),
		TaskDefined("3", "Testing", 5, []int{1, 1}, WithSuccessors(4)),
		TaskDefined("4", "Deployment", 3, []int{2, 0}, WithSuccessors()),
		Decision("0", "Requirements", 1, 0, 3, 1, "n1", ""),
		Decision("1", "Design", 2, 3, 7, 2, "n2", "n1"),
		Decision("2", "Implementation", 3, 8, 10, 3, "n3", "n2"),
		Backtrack("2", 4, 2),
		Decision("2", "Implementation", 5, 7, 9, 3, "n4", "n2"),
		Decision("3", "Testing", 6, 9, 14, 4, "n5", "n4"),
		Decision("4", "Deployment", 7, 14, 17, 5, "n6", "n5"),
		NewEvent(domain.EventComplete, "0", 8, WithEnd(3)),
		FinalStart("0", "Requirements", 9, 0, 3),
		FinalStart("1", "Design", 9, 3, 7),
		FinalStart("2", "Implementation", 9, 7, 9),
		FinalStart("3", "Testing", 9, 9, 14),
		FinalStart("4", "Deployment", 9, 14, 17),
		SolverEvent(9, "Solver finished"),
	}
}

// WriteEventFile writes events as an event log file and returns its path.
func WriteEventFile(t *testing.T, events []domain.Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.json")
	data, err := json.MarshalIndent(domain.EventFile{Version: "1.0", Events: events}, "", "  ")
	if err != nil {
		t.Fatalf("marshalling event file: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("writing event file: %v", err)
	}
	return path
}

// WriteCatalog writes an instance catalog and returns its path.
func WriteCatalog(t *testing.T, instances []domain.Instance) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "instances.json")
	data, err := json.MarshalIndent(map[string]any{"instances": instances}, "", "  ")
	if err != nil {
		t.Fatalf("marshalling catalog: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("writing catalog: %v", err)
	}
	return path
}
