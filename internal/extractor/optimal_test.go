package extractor

import (
	"testing"

	"github.com/alexanderramin/schedtrace/internal/domain"
	"github.com/alexanderramin/schedtrace/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func sweepEvents() []domain.Event {
	return []domain.Event{
		// Incomplete at ts 5: only one task.
		testutil.Assign("1", "A", 5, 0, 4, testutil.WithLevel(1)),
		// Complete at ts 10, makespan 9.
		testutil.Assign("1", "A", 10, 0, 4, testutil.WithLevel(2)),
		testutil.Assign("2", "B", 10, 4, 9, testutil.WithLevel(2)),
		// A shallower event at ts 10 is ignored.
		testutil.Assign("2", "B", 10, 0, 1, testutil.WithLevel(1)),
		// Complete at ts 20, makespan 8.
		testutil.NewEvent(domain.EventStart, "1", 20, testutil.WithTiming(0, 3), testutil.WithLevel(3)),
		testutil.Assign("2", "B", 20, 3, 8, testutil.WithLevel(3)),
		// Complete at ts 30 with the same makespan: first one wins.
		testutil.Assign("1", "A", 30, 1, 4, testutil.WithLevel(1)),
		testutil.Assign("2", "B", 30, 4, 8, testutil.WithLevel(1)),
	}
}

func TestExtractOptimalSchedule_Sweep(t *testing.T) {
	schedule := ExtractOptimalSchedule(sweepEvents(), []string{"1", "2"})
	assert.Equal(t, domain.Schedule{"1": {Start: 0, End: 3}, "2": {Start: 3, End: 8}}, schedule)
}

func TestExtractOptimalSchedule_SweepIgnoresMarkers(t *testing.T) {
	events := []domain.Event{
		testutil.NewEvent(domain.EventAssign, "1", 0, testutil.WithName("A"),
			testutil.WithTiming(0, 1), testutil.WithDescription("Task defined with duration 1")),
		testutil.NewEvent(domain.EventAssign, "2", 0, testutil.WithName("B"),
			testutil.WithTiming(1, 2), testutil.WithDescription("Task defined with duration 1")),
	}
	assert.Empty(t, ExtractOptimalSchedule(events, []string{"1", "2"}))
}

func TestExtractOptimalSchedule_FinalSolutionPreferred(t *testing.T) {
	events := append(sweepEvents(),
		testutil.FinalStart("1", "A", 40, 0, 5),
		testutil.FinalStart("2", "B", 40, 5, 11),
		testutil.FinalStart("1", "A", 41, 0, 4),
	)
	schedule := ExtractOptimalSchedule(events, []string{"1", "2"})
	assert.Equal(t, domain.Schedule{"1": {Start: 0, End: 4}, "2": {Start: 5, End: 11}}, schedule,
		"the last final-solution event per task is used even if the sweep finds a shorter one")
}

func TestExtractOptimalSchedule_PartialFinalFallsBackToSweep(t *testing.T) {
	events := append(sweepEvents(), testutil.FinalStart("1", "A", 40, 0, 5))
	schedule := ExtractOptimalSchedule(events, []string{"1", "2"})
	assert.Equal(t, 8, schedule.Makespan())
}

func TestExtractOptimalSchedule_NoTasks(t *testing.T) {
	assert.Empty(t, ExtractOptimalSchedule(sweepEvents(), nil))
}
