package extractor

import (
	"slices"

	"github.com/alexanderramin/schedtrace/internal/domain"
)

// ExtractOptimalSchedule returns the solver's best complete schedule over
// taskIDs. "Final solution" start events win when they cover every task;
// otherwise each timestamp's deepest assignments are swept and the complete
// candidate with the smallest makespan is kept, first one on ties.
func ExtractOptimalSchedule(events []domain.Event, taskIDs []string) domain.Schedule {
	if len(taskIDs) == 0 {
		return domain.Schedule{}
	}
	known := make(map[string]bool, len(taskIDs))
	for _, id := range taskIDs {
		known[id] = true
	}

	if s, ok := finalSolutionSchedule(events, known); ok {
		return s
	}
	return sweepSchedule(events, known)
}

func finalSolutionSchedule(events []domain.Event, known map[string]bool) (domain.Schedule, bool) {
	schedule := domain.Schedule{}
	for i := range events {
		e := &events[i]
		if e.Type != domain.EventStart || !e.IsFinalSolution() || !e.HasTiming() || !known[e.TaskID] {
			continue
		}
		schedule[e.TaskID] = domain.Timing{Start: *e.StartTime, End: *e.EndTime}
	}
	return schedule, len(schedule) == len(known)
}

func sweepSchedule(events []domain.Event, known map[string]bool) domain.Schedule {
	byTimestamp := make(map[int][]int)
	for i := range events {
		e := &events[i]
		if e.TaskID == "" || e.IsSolverEvent() || e.IsTaskDefinition() {
			continue
		}
		if e.Type != domain.EventAssign && e.Type != domain.EventStart {
			continue
		}
		byTimestamp[e.Timestamp] = append(byTimestamp[e.Timestamp], i)
	}

	timestamps := make([]int, 0, len(byTimestamp))
	for ts := range byTimestamp {
		timestamps = append(timestamps, ts)
	}
	slices.Sort(timestamps)

	best := domain.Schedule{}
	bestMakespan := 0
	found := false

	for _, ts := range timestamps {
		idx := byTimestamp[ts]
		maxLevel := 0
		for _, i := range idx {
			if l := events[i].Level(); l > maxLevel {
				maxLevel = l
			}
		}

		candidate := domain.Schedule{}
		for _, i := range idx {
			e := &events[i]
			if e.Level() != maxLevel || !e.HasTiming() || !known[e.TaskID] {
				continue
			}
			candidate[e.TaskID] = domain.Timing{Start: *e.StartTime, End: *e.EndTime}
		}
		if len(candidate) != len(known) {
			continue
		}
		if m := candidate.Makespan(); !found || m < bestMakespan {
			best, bestMakespan, found = candidate, m, true
		}
	}

	return best
}
