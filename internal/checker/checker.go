// Package checker evaluates precedence, resource-capacity and timing rules
// for a candidate schedule against a problem definition.
package checker

import (
	"fmt"
	"slices"
	"sort"

	"github.com/alexanderramin/schedtrace/internal/domain"
)

// Validate runs every rule and concatenates the findings in rule order:
// precedence, resource, overlap. An empty result means the schedule is
// feasible.
func Validate(schedule domain.Schedule, problem *domain.ProblemDefinition) []domain.ConstraintViolation {
	var violations []domain.ConstraintViolation

	violations = append(violations, validatePrecedence(schedule, problem)...)
	violations = append(violations, validateResources(schedule, problem)...)
	violations = append(violations, validateOverlaps(schedule, problem)...)

	return violations
}

func validatePrecedence(schedule domain.Schedule, problem *domain.ProblemDefinition) []domain.ConstraintViolation {
	var violations []domain.ConstraintViolation

	for _, task := range problem.Tasks {
		timing, ok := schedule[task.ID]
		if !ok {
			continue
		}
		for _, depID := range task.Dependencies {
			dep, ok := schedule[depID]
			if !ok {
				continue
			}
			if dep.End > timing.Start {
				violations = append(violations, domain.ConstraintViolation{
					Type:   domain.ViolationPrecedence,
					TaskID: task.ID,
					Message: fmt.Sprintf("Task %q starts at %d but dependency %q ends at %d",
						problem.TaskName(task.ID), timing.Start, problem.TaskName(depID), dep.End),
					Severity:     domain.SeverityError,
					RelatedTasks: []string{depID},
				})
			}
		}
	}

	return violations
}

// maxUnitReports bounds the per-unit findings for one over-allocated
// stretch. Longer stretches are reported once as a range.
const maxUnitReports = 256

// validateResources sweeps the start and end points of the tasks using each
// resource. Usage is constant between consecutive points, so the work depends
// on the number of tasks, never on how far apart their timings are.
func validateResources(schedule domain.Schedule, problem *domain.ProblemDefinition) []domain.ConstraintViolation {
	var violations []domain.ConstraintViolation
	ids := schedule.TaskIDs()

	for _, resource := range problem.Resources {
		var users []string
		demands := make(map[string]int)
		var points []int
		for _, id := range ids {
			task, ok := problem.Task(id)
			if !ok {
				continue
			}
			demand := task.Demand(resource.Index)
			timing := schedule[id]
			if demand == 0 || timing.Start >= timing.End {
				continue
			}
			users = append(users, id)
			demands[id] = demand
			points = append(points, timing.Start, timing.End)
		}
		slices.Sort(points)
		points = slices.Compact(points)

		for i := 0; i+1 < len(points); i++ {
			from, to := points[i], points[i+1]
			used := 0
			var at []string
			for _, id := range users {
				if timing := schedule[id]; timing.Start <= from && timing.End > from {
					used += demands[id]
					at = append(at, id)
				}
			}
			if used > resource.Capacity {
				violations = append(violations, overAllocation(resource, from, to, used, at)...)
			}
		}
	}

	return violations
}

func overAllocation(resource domain.Resource, from, to, used int, at []string) []domain.ConstraintViolation {
	finding := func(msg string) domain.ConstraintViolation {
		return domain.ConstraintViolation{
			Type:         domain.ViolationResource,
			TaskID:       at[0],
			Message:      msg,
			Severity:     domain.SeverityError,
			RelatedTasks: slices.Clone(at),
		}
	}

	// The unsigned difference is exact even when to-from overflows int.
	if uint64(to)-uint64(from) > maxUnitReports {
		return []domain.ConstraintViolation{finding(fmt.Sprintf(
			"Resource %q over-allocated from time %d to %d: %d > %d",
			resource.ID, from, to, used, resource.Capacity))}
	}
	var out []domain.ConstraintViolation
	for t := from; t < to; t++ {
		out = append(out, finding(fmt.Sprintf("Resource %q over-allocated at time %d: %d > %d",
			resource.ID, t, used, resource.Capacity)))
	}
	return out
}

func validateOverlaps(schedule domain.Schedule, problem *domain.ProblemDefinition) []domain.ConstraintViolation {
	var violations []domain.ConstraintViolation

	for _, id := range schedule.TaskIDs() {
		timing := schedule[id]
		if timing.Start >= timing.End {
			violations = append(violations, domain.ConstraintViolation{
				Type:   domain.ViolationOverlap,
				TaskID: id,
				Message: fmt.Sprintf("Task %q has invalid timing: start (%d) >= end (%d)",
					problem.TaskName(id), timing.Start, timing.End),
				Severity: domain.SeverityError,
			})
		}
	}

	return violations
}

// MaxProfileUnits caps the length of a resource profile.
const MaxProfileUnits = 4096

// ResourceProfile returns per-time-unit usage of the resource at index over
// [0, max(horizon, makespan)], truncated to MaxProfileUnits. Units before 0
// are not reported.
func ResourceProfile(schedule domain.Schedule, problem *domain.ProblemDefinition, index int) []int {
	hi := max(problem.TimeHorizon, schedule.Makespan())
	hi = min(max(hi, 0), MaxProfileUnits-1)
	usage := make([]int, hi+1)
	for id, timing := range schedule {
		task, ok := problem.Task(id)
		if !ok {
			continue
		}
		demand := task.Demand(index)
		if demand == 0 {
			continue
		}
		for t := max(timing.Start, 0); t < timing.End && t <= hi; t++ {
			usage[t] += demand
		}
	}
	return usage
}

// Makespan returns the completion time of the last-finishing task.
func Makespan(schedule domain.Schedule) int {
	return schedule.Makespan()
}

// ViolationsByType groups findings by rule, preserving order within a rule.
func ViolationsByType(violations []domain.ConstraintViolation) map[domain.ViolationType][]domain.ConstraintViolation {
	out := make(map[domain.ViolationType][]domain.ConstraintViolation)
	for _, v := range violations {
		out[v.Type] = append(out[v.Type], v)
	}
	return out
}

// ImplicatedTasks returns every task id mentioned by the findings, sorted.
func ImplicatedTasks(violations []domain.ConstraintViolation) []string {
	seen := make(map[string]bool)
	for _, v := range violations {
		if v.TaskID != "" {
			seen[v.TaskID] = true
		}
		for _, id := range v.RelatedTasks {
			seen[id] = true
		}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return domain.CompareTaskIDs(ids[i], ids[j]) < 0 })
	return ids
}
