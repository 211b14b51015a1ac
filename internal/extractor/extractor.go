// Package extractor reconstructs the static RCPSP instance and the solver's
// optimal schedule from an event log.
package extractor

import (
	"slices"
	"strconv"

	"github.com/alexanderramin/schedtrace/internal/domain"
)

type options struct {
	chain          CapacityChain
	defaultDemands []int
}

// Option customises extraction.
type Option func(*options)

// WithCapacityChain replaces the capacity inference chain.
func WithCapacityChain(chain CapacityChain) Option {
	return func(o *options) {
		o.chain = chain
	}
}

// WithSentinelTaskName swaps the sentinel name of the five-task heuristic
// in the default chain.
func WithSentinelTaskName(name string) Option {
	return func(o *options) {
		o.chain = DefaultCapacityChain(name)
	}
}

// WithDefaultDemands sets the demand vector given to every task when no
// marker in the log carries a Resources list.
func WithDefaultDemands(demands []int) Option {
	return func(o *options) {
		o.defaultDemands = slices.Clone(demands)
	}
}

func defaultOptions() options {
	return options{
		chain:          DefaultCapacityChain(""),
		defaultDemands: []int{1, 1},
	}
}

// ExtractProblem derives the problem definition from events. It never
// fails: missing data degrades to zero values and documented fallbacks.
func ExtractProblem(events []domain.Event, opts ...Option) domain.ProblemDefinition {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	var order []string
	tasks := make(map[string]*domain.Task)
	hasDuration := make(map[string]bool)
	explicitDeps := false
	explicitDemands := false
	type edge struct{ pred, succ string }
	var successorEdges []edge

	for i := range events {
		e := &events[i]
		if e.TaskID == "" || e.TaskName == "" || e.IsSolverEvent() {
			continue
		}
		task, ok := tasks[e.TaskID]
		if !ok {
			task = &domain.Task{
				ID:              e.TaskID,
				Name:            e.TaskName,
				Dependencies:    []string{},
				ResourceDemands: []int{},
			}
			tasks[e.TaskID] = task
			order = append(order, e.TaskID)
		}

		if !e.IsTaskDefinition() {
			continue
		}
		if d, ok := parseDuration(e.Description); ok {
			task.Duration = d
			hasDuration[e.TaskID] = true
		}
		if demands, ok := parseResources(e.Description); ok {
			task.ResourceDemands = demands
			explicitDemands = true
		}
		if e.Dependencies != nil {
			explicitDeps = true
			task.Dependencies = idsOf(e.Dependencies)
		}
		if e.Successors != nil {
			explicitDeps = true
			for _, s := range e.Successors {
				successorEdges = append(successorEdges, edge{pred: e.TaskID, succ: strconv.Itoa(s)})
			}
		}
	}

	// Duration fallback: the first event of the task carrying both times.
	for i := range events {
		e := &events[i]
		task, ok := tasks[e.TaskID]
		if !ok || hasDuration[e.TaskID] || !e.HasTiming() {
			continue
		}
		task.Duration = *e.EndTime - *e.StartTime
		hasDuration[e.TaskID] = true
	}

	for _, se := range successorEdges {
		if succ, ok := tasks[se.succ]; ok && !slices.Contains(succ.Dependencies, se.pred) {
			succ.Dependencies = append(succ.Dependencies, se.pred)
		}
	}

	source := domain.DependenciesExplicit
	if !explicitDeps {
		source = inferChain(order, tasks)
	}

	if !explicitDemands {
		for _, id := range order {
			tasks[id].ResourceDemands = slices.Clone(o.defaultDemands)
		}
	}

	list := make([]domain.Task, 0, len(order))
	for _, id := range order {
		list = append(list, *tasks[id])
	}

	resources, strategy := o.chain.Resolve(CapacityInput{Tasks: list, HasExplicitDemands: explicitDemands})

	optimal := ExtractOptimalSchedule(events, order)
	makespan := optimal.Makespan()

	return domain.ProblemDefinition{
		Tasks:            list,
		Resources:        resources,
		TimeHorizon:      makespan,
		OptimalSchedule:  optimal,
		OptimalMakespan:  makespan,
		DependencySource: source,
		CapacityStrategy: strategy,
	}
}

// inferChain makes every task depend on the one first seen before it. The
// edge is a heuristic, not something the solver reported.
func inferChain(order []string, tasks map[string]*domain.Task) domain.DependencySource {
	if len(order) < 2 {
		return domain.DependenciesNone
	}
	for i := 1; i < len(order); i++ {
		tasks[order[i]].Dependencies = []string{order[i-1]}
	}
	return domain.DependenciesInferred
}

func idsOf(nums []int) []string {
	ids := make([]string, 0, len(nums))
	for _, n := range nums {
		id := strconv.Itoa(n)
		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	return ids
}
