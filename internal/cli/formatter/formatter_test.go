package formatter

import (
	"math"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/schedtrace/internal/domain"
	"github.com/alexanderramin/schedtrace/internal/replay"
	"github.com/alexanderramin/schedtrace/internal/session"
	"github.com/alexanderramin/schedtrace/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func lines(s string) []string {
	return strings.Split(strings.TrimRight(stripANSI(s), "\n"), "\n")
}

func TestRenderTable_AlignsColumns(t *testing.T) {
	out := lines(RenderTable([]string{"ID", "NAME"}, [][]string{
		{"1", "Design"},
		{"10", StyleRed.Render("Testing")},
	}))

	require.Len(t, out, 4)
	assert.Equal(t, "ID  NAME", strings.TrimRight(out[0], " "))
	assert.Equal(t, "──  ───────", out[1])
	assert.Equal(t, "1   Design", out[2])
	assert.Equal(t, "10  Testing", out[3])
}

func TestRenderTable_NoHeaders(t *testing.T) {
	assert.Empty(t, RenderTable(nil, [][]string{{"x"}}))
}

func TestRenderProgress(t *testing.T) {
	tests := []struct {
		pct  int
		want string
	}{
		{0, "[░░░░░░░░░░]   0%"},
		{50, "[█████░░░░░]  50%"},
		{100, "[██████████] 100%"},
		{150, "[██████████] 100%"},
		{-5, "[░░░░░░░░░░]   0%"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, stripANSI(RenderProgress(tt.pct, 10)), "pct=%d", tt.pct)
	}
}

func TestRenderGantt(t *testing.T) {
	bars := []GanttBar{
		{ID: "1", Name: "Alpha", Start: 0, End: 3},
		{ID: "2", Name: "Beta", Start: 3, End: 5, Flagged: true},
	}

	out := lines(RenderGantt(bars, GanttOptions{Horizon: 5}))
	require.Len(t, out, 3)
	assert.Equal(t, "        0", out[0])
	assert.Equal(t, "1 Alpha ███·· [0,3)", out[1])
	assert.Equal(t, "2 Beta  ···██ [3,5)", out[2])
}

func TestRenderGantt_Cursor(t *testing.T) {
	cursor := 2
	out := lines(RenderGantt([]GanttBar{{ID: "1", Start: 0, End: 4}}, GanttOptions{Cursor: &cursor}))
	require.Len(t, out, 3)
	assert.Equal(t, "    ▼", out[1])
}

func TestRenderGantt_ScalesWideSpans(t *testing.T) {
	out := lines(RenderGantt([]GanttBar{{ID: "1", Start: 0, End: 15}}, GanttOptions{Horizon: 100, Width: 10}))
	require.Len(t, out, 2)
	assert.Equal(t, "  0    50", out[0])
	assert.Equal(t, "1 ██········ [0,15)", out[1])
}

func TestRenderGantt_ExtremeBars(t *testing.T) {
	bars := []GanttBar{
		{ID: "1", Start: math.MinInt, End: 5},
		{ID: "2", Start: 0, End: math.MaxInt},
	}
	out := lines(RenderGantt(bars, GanttOptions{Horizon: 10}))
	require.Len(t, out, 3)
	assert.LessOrEqual(t, len([]rune(out[1])), maxGanttColumns+40)
	assert.Contains(t, out[2], "[0,9223372036854775807)")
}

func TestRenderGantt_Empty(t *testing.T) {
	assert.Contains(t, stripANSI(RenderGantt(nil, GanttOptions{})), "No tasks scheduled")
}

func TestBarsFromSchedule(t *testing.T) {
	p := &domain.ProblemDefinition{Tasks: []domain.Task{{ID: "1", Name: "Design"}}}
	bars := BarsFromSchedule(domain.Schedule{
		"2":  {Start: 4, End: 6},
		"1":  {Start: 0, End: 4},
		"10": {Start: 6, End: 7},
	}, p, []string{"2"})

	require.Len(t, bars, 3)
	assert.Equal(t, []string{"1", "2", "10"}, []string{bars[0].ID, bars[1].ID, bars[2].ID})
	assert.Equal(t, "Design", bars[0].Name)
	assert.Equal(t, "2", bars[1].Name)
	assert.True(t, bars[1].Flagged)
	assert.False(t, bars[0].Flagged)
}

func TestRenderSearchTree_MarksBacktrackedBranch(t *testing.T) {
	tree := replay.TreeAtTime(testutil.SoftwareProjectEvents(), 9)
	out := stripANSI(RenderSearchTree(tree, TreeOptions{}))
	got := lines(out)

	require.Len(t, got, 7)
	assert.Equal(t, "Root", got[0])
	assert.Contains(t, got[1], "└─ n1 ▶ Requirements @ 0")
	assert.Contains(t, got[2], "   └─ n2 ▶ Design @ 3")
	assert.Contains(t, got[3], "      ├─ n3 ✖ Implementation @ 8")
	assert.Contains(t, got[4], "      └─ n4 ▶ Implementation @ 7")
	assert.Contains(t, got[6], "            └─ n6 ▶ Deployment @ 14")
	assert.Contains(t, got[6], "[ L5 ]")
}

func TestRenderSearchTree_Positions(t *testing.T) {
	tree := replay.TreeAtTime(testutil.SoftwareProjectEvents(), 9)
	out := stripANSI(RenderSearchTree(tree, TreeOptions{ShowPositions: true}))
	assert.Contains(t, out, "(400, 60)")
	assert.Contains(t, out, "(320, 300)")
}

func TestRenderSearchTree_StatusGlyphs(t *testing.T) {
	events := []domain.Event{
		testutil.Assign("1", "A", 1, 0, 2, testutil.WithLevel(1), testutil.WithNode("a", ""), testutil.WithNodeStatus(domain.NodePruned)),
		testutil.Assign("2", "B", 2, 2, 4, testutil.WithLevel(1), testutil.WithNode("b", ""), testutil.WithNodeStatus(domain.NodeSolution)),
	}
	out := stripANSI(RenderSearchTree(replay.TreeAtTime(events, 2), TreeOptions{}))
	assert.Contains(t, out, "a ⊘ A @ 0")
	assert.Contains(t, out, "b ✔ B @ 2")
}

func TestFormatPath(t *testing.T) {
	tree := replay.TreeAtTime(testutil.SoftwareProjectEvents(), 4)
	assert.Equal(t, "root → n1 → n2", stripANSI(FormatPath(tree)))
}

func TestFormatViolations(t *testing.T) {
	assert.Equal(t, "✔ No constraint violations\n", stripANSI(FormatViolations(nil)))

	out := stripANSI(FormatViolations([]domain.ConstraintViolation{
		{Type: domain.ViolationOverlap, TaskID: "3", Message: "bad timing"},
		{Type: domain.ViolationPrecedence, TaskID: "2", Message: "too early", RelatedTasks: []string{"1"}},
	}))
	assert.Less(t, strings.Index(out, "PRECEDENCE (1)"), strings.Index(out, "OVERLAP (1)"))
	assert.Contains(t, out, "✖ too early")
	assert.Contains(t, out, "Tasks involved: 1, 2, 3")
	assert.NotContains(t, out, "RESOURCE")
}

func TestFormatUsage_FlagsOverCapacity(t *testing.T) {
	out := lines(FormatUsage(domain.Resource{ID: "0", Capacity: 1}, []int{2, 1, 0}))
	require.Len(t, out, 5)
	assert.Equal(t, "RESOURCE 0 (CAPACITY 1)", out[0])
	assert.Equal(t, "  2 █", strings.TrimRight(out[2], " "))
	assert.Equal(t, "  1▸██", strings.TrimRight(out[3], " "))
	assert.Equal(t, "over capacity in 1 time unit(s)", out[4])
}

func TestFormatProblem(t *testing.T) {
	s := session.New()
	s.LoadEvents(testutil.SoftwareProjectEvents())
	out := stripANSI(FormatProblem(s.Problem()))

	assert.Contains(t, out, "Implementation")
	assert.Contains(t, out, "Makespan: 17")
	assert.Contains(t, out, "Dependencies: explicit")
	assert.Contains(t, out, "Capacities: explicit-demands")
}

func TestFormatGame(t *testing.T) {
	s := session.New()
	s.LoadEvents(testutil.SoftwareProjectEvents())
	s.SetGameMode(true)

	out := stripANSI(FormatGame(&domain.GameRecord{InstanceID: "software"}, s, []string{"2"}))
	assert.Contains(t, out, "GAME: SOFTWARE")
	assert.Contains(t, out, "INVALID")
	assert.Contains(t, out, "PRECEDENCE")
	assert.Contains(t, out, "Rejected by strict policy: 2")
}

func TestFormatEvent(t *testing.T) {
	e := testutil.Backtrack("2", 4, 2)
	assert.Equal(t, "t=4 remove 2 backtrack to L2", stripANSI(FormatEvent(e)))
}

func TestVerdictPill(t *testing.T) {
	assert.Equal(t, "● OPTIMAL", stripANSI(VerdictPill(domain.VerdictOptimal)))
	assert.Equal(t, "● SUBOPTIMAL", stripANSI(VerdictPill(domain.VerdictSuboptimal)))
	assert.Equal(t, "● INVALID", stripANSI(VerdictPill(domain.VerdictInvalid)))
}

func TestHumanTimestampFrom(t *testing.T) {
	now := time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "Just now", HumanTimestampFrom(now.Add(-10*time.Second), now))
	assert.Equal(t, "5m ago", HumanTimestampFrom(now.Add(-5*time.Minute), now))
	assert.Equal(t, "3h ago", HumanTimestampFrom(now.Add(-3*time.Hour), now))
	assert.Equal(t, "Feb 1, 2026", HumanTimestampFrom(now.AddDate(0, 0, -6), now))
}
