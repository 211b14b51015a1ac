package extractor

import (
	"testing"

	"github.com/alexanderramin/schedtrace/internal/checker"
	"github.com/alexanderramin/schedtrace/internal/domain"
	"github.com/alexanderramin/schedtrace/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractProblem_SoftwareProject(t *testing.T) {
	problem := ExtractProblem(testutil.SoftwareProjectEvents())

	require.Len(t, problem.Tasks, 5)
	names := make([]string, 0, 5)
	for _, task := range problem.Tasks {
		names = append(names, task.Name)
	}
	assert.Equal(t, []string{"Requirements", "Design", "Implementation", "Testing", "Deployment"}, names,
		"tasks keep first-seen order and the solver is excluded")

	design, ok := problem.Task("1")
	require.True(t, ok)
	assert.Equal(t, 4, design.Duration)
	assert.Equal(t, []int{1, 2}, design.ResourceDemands)
	assert.Equal(t, []string{"0"}, design.Dependencies, "successor lists become dependencies")

	first, _ := problem.Task("0")
	assert.Empty(t, first.Dependencies)

	assert.Equal(t, domain.DependenciesExplicit, problem.DependencySource)
	assert.Equal(t, "explicit-demands", problem.CapacityStrategy)
	require.Len(t, problem.Resources, 2)
	assert.Equal(t, 3, problem.Resources[0].Capacity)
	assert.Equal(t, 3, problem.Resources[1].Capacity)

	assert.Equal(t, 17, problem.OptimalMakespan)
	assert.Equal(t, 17, problem.TimeHorizon)
	assert.Equal(t, domain.Timing{Start: 7, End: 9}, problem.OptimalSchedule["2"])
}

func TestExtractProblem_OptimalScheduleRoundTrip(t *testing.T) {
	problem := ExtractProblem(testutil.SoftwareProjectEvents())
	assert.Empty(t, checker.Validate(problem.OptimalSchedule, &problem),
		"the solver's own solution must satisfy the extracted constraints")
}

func TestExtractProblem_Deterministic(t *testing.T) {
	events := testutil.SoftwareProjectEvents()
	first := ExtractProblem(events)
	for i := 0; i < 20; i++ {
		again := ExtractProblem(events)
		assert.Equal(t, first.OptimalMakespan, again.OptimalMakespan)
		assert.Equal(t, first.Tasks, again.Tasks)
		assert.Equal(t, first.OptimalSchedule, again.OptimalSchedule)
	}
}

func TestExtractProblem_EmptyLog(t *testing.T) {
	problem := ExtractProblem(nil)
	assert.Empty(t, problem.Tasks)
	assert.Empty(t, problem.OptimalSchedule)
	assert.Equal(t, 0, problem.OptimalMakespan)
	assert.Equal(t, 0, problem.TimeHorizon)
	assert.Equal(t, domain.DependenciesNone, problem.DependencySource)
}

func TestExtractProblem_DurationFallsBackToTiming(t *testing.T) {
	events := []domain.Event{
		testutil.Assign("1", "Pour", 0, 2, 6),
		testutil.Assign("1", "Pour", 1, 3, 10),
	}
	problem := ExtractProblem(events)
	require.Len(t, problem.Tasks, 1)
	assert.Equal(t, 4, problem.Tasks[0].Duration, "the first timed event wins")
}

func TestExtractProblem_MarkerDurationBeatsTiming(t *testing.T) {
	events := []domain.Event{
		testutil.Assign("1", "Pour", 0, 2, 6),
		testutil.TaskDefined("1", "Pour", 9, nil),
	}
	problem := ExtractProblem(events)
	assert.Equal(t, 9, problem.Tasks[0].Duration)
}

func TestExtractProblem_InferredChainDependencies(t *testing.T) {
	events := []domain.Event{
		testutil.Assign("3", "C", 0, 0, 1),
		testutil.Assign("1", "A", 1, 1, 2),
		testutil.Assign("2", "B", 2, 2, 3),
	}
	problem := ExtractProblem(events)
	require.Len(t, problem.Tasks, 3)
	assert.Empty(t, problem.Tasks[0].Dependencies)
	assert.Equal(t, []string{"3"}, problem.Tasks[1].Dependencies)
	assert.Equal(t, []string{"1"}, problem.Tasks[2].Dependencies)
	assert.Equal(t, domain.DependenciesInferred, problem.DependencySource)
}

func TestExtractProblem_ExplicitEmptyDependenciesSuppressInference(t *testing.T) {
	events := []domain.Event{
		testutil.TaskDefined("1", "A", 2, nil, testutil.WithDependencies()),
		testutil.TaskDefined("2", "B", 2, nil, testutil.WithDependencies()),
	}
	problem := ExtractProblem(events)
	assert.Equal(t, domain.DependenciesExplicit, problem.DependencySource)
	for _, task := range problem.Tasks {
		assert.Empty(t, task.Dependencies)
	}
}

func TestExtractProblem_ExplicitDependencyList(t *testing.T) {
	events := []domain.Event{
		testutil.TaskDefined("1", "A", 2, nil),
		testutil.TaskDefined("2", "B", 2, nil),
		testutil.TaskDefined("3", "C", 2, nil, testutil.WithDependencies(1, 2, 1)),
	}
	problem := ExtractProblem(events)
	c, _ := problem.Task("3")
	assert.Equal(t, []string{"1", "2"}, c.Dependencies)
}

func TestExtractProblem_NamelessEventsAreNotTasks(t *testing.T) {
	events := []domain.Event{
		testutil.NewEvent(domain.EventAssign, "7", 0, testutil.WithTiming(0, 1)),
		testutil.SolverEvent(0, "Solver started"),
		testutil.NewEvent(domain.EventStart, "9", 0, testutil.WithName("Solver-worker")),
	}
	problem := ExtractProblem(events)
	assert.Empty(t, problem.Tasks)
}

func TestExtractProblem_DefaultFloorWithoutDemands(t *testing.T) {
	events := []domain.Event{
		testutil.Assign("1", "A", 0, 0, 2),
		testutil.Assign("2", "B", 0, 2, 4),
		testutil.Assign("3", "C", 0, 4, 6),
		testutil.Assign("4", "D", 0, 6, 8),
	}
	problem := ExtractProblem(events)
	assert.Equal(t, "default-floor", problem.CapacityStrategy)
	require.Len(t, problem.Resources, 2)
	assert.Equal(t, 3, problem.Resources[0].Capacity)
	assert.Equal(t, 2, problem.Resources[1].Capacity)
	for _, task := range problem.Tasks {
		assert.Equal(t, []int{1, 1}, task.ResourceDemands)
	}
}

func TestExtractProblem_ShapeHeuristics(t *testing.T) {
	three := []domain.Event{
		testutil.TaskDefined("1", "A", 1, []int{2}),
		testutil.TaskDefined("2", "B", 1, []int{2}),
		testutil.TaskDefined("3", "C", 1, []int{2}),
	}
	problem := ExtractProblem(three)
	assert.Equal(t, "shape-heuristic(3)", problem.CapacityStrategy)
	require.Len(t, problem.Resources, 1)
	assert.Equal(t, 1, problem.Resources[0].Capacity)

	five := []domain.Event{
		testutil.TaskDefined("1", "A", 1, []int{4, 1}),
		testutil.TaskDefined("2", "B", 1, []int{1, 1}),
		testutil.TaskDefined("3", "Integration", 1, []int{1, 1}),
		testutil.TaskDefined("4", "D", 1, []int{1, 1}),
		testutil.TaskDefined("5", "E", 1, []int{1, 1}),
	}
	problem = ExtractProblem(five)
	assert.Equal(t, "shape-heuristic(5,Integration)", problem.CapacityStrategy)
	require.Len(t, problem.Resources, 2)
	assert.Equal(t, 2, problem.Resources[0].Capacity)
	assert.Equal(t, 2, problem.Resources[1].Capacity)

	problem = ExtractProblem(five, WithSentinelTaskName("Rollout"))
	assert.Equal(t, "explicit-demands", problem.CapacityStrategy)
	assert.Equal(t, 5, problem.Resources[0].Capacity)
}

func TestExtractProblem_CustomChainAndDemands(t *testing.T) {
	events := []domain.Event{testutil.Assign("1", "A", 0, 0, 2)}
	problem := ExtractProblem(events,
		WithDefaultDemands([]int{2}),
		WithCapacityChain(CapacityChain{DefaultFloor{Capacities: []int{4}}}),
	)
	assert.Equal(t, []int{2}, problem.Tasks[0].ResourceDemands)
	require.Len(t, problem.Resources, 1)
	assert.Equal(t, 4, problem.Resources[0].Capacity)
}

func TestParseMarkers(t *testing.T) {
	d, ok := parseDuration("Task defined with duration 12, Resources: [3, 0, 1]")
	assert.True(t, ok)
	assert.Equal(t, 12, d)

	r, ok := parseResources("Task defined with duration 12, Resources: [3, 0, 1]")
	assert.True(t, ok)
	assert.Equal(t, []int{3, 0, 1}, r)

	_, ok = parseDuration("Task defined")
	assert.False(t, ok)
	_, ok = parseResources("Resources: []")
	assert.False(t, ok)
	_, ok = parseResources("Resources: [1, x]")
	assert.False(t, ok)
}
