package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/schedtrace/internal/domain"
)

// FormatProblem renders the reconstructed problem: tasks, resources and the
// optimal schedule the solver reported.
func FormatProblem(p *domain.ProblemDefinition) string {
	var b strings.Builder

	b.WriteString(Header("Tasks") + "\n")
	rows := make([][]string, len(p.Tasks))
	for i, t := range p.Tasks {
		demands := make([]string, len(t.ResourceDemands))
		for j, d := range t.ResourceDemands {
			demands[j] = fmt.Sprint(d)
		}
		rows[i] = []string{t.ID, t.Name, fmt.Sprint(t.Duration), joinIDs(t.Dependencies), strings.Join(demands, " ")}
	}
	b.WriteString(RenderTable([]string{"ID", "NAME", "DURATION", "DEPENDS ON", "DEMANDS"}, rows))

	b.WriteString("\n" + Header("Resources") + "\n")
	rows = make([][]string, len(p.Resources))
	for i, r := range p.Resources {
		rows[i] = []string{fmt.Sprint(r.Index), r.ID, fmt.Sprint(r.Capacity)}
	}
	b.WriteString(RenderTable([]string{"INDEX", "RESOURCE", "CAPACITY"}, rows))

	b.WriteString("\n" + Header("Optimal schedule") + "\n")
	b.WriteString(RenderGantt(BarsFromSchedule(p.OptimalSchedule, p, nil), GanttOptions{Horizon: p.TimeHorizon, Width: 60}))

	fmt.Fprintf(&b, "\n%s %d  %s %d\n",
		Dim("Makespan:"), p.OptimalMakespan, Dim("Horizon:"), p.TimeHorizon)
	fmt.Fprintf(&b, "%s %s  %s %s\n",
		Dim("Dependencies:"), p.DependencySource, Dim("Capacities:"), p.CapacityStrategy)
	return b.String()
}

// FormatTasks renders the live task table at one replay time.
func FormatTasks(tasks []domain.LiveTask, at int) string {
	var b strings.Builder
	b.WriteString(Header(fmt.Sprintf("Tasks at t=%d", at)) + "\n")
	if len(tasks) == 0 {
		b.WriteString(Dim("No tasks scheduled yet.") + "\n")
		return b.String()
	}
	rows := make([][]string, len(tasks))
	for i, t := range tasks {
		rows[i] = []string{
			t.ID, t.Name,
			fmt.Sprint(t.StartTime), fmt.Sprint(t.EndTime),
			RenderProgress(t.Progress, 10),
			t.ResourceID,
		}
	}
	b.WriteString(RenderTable([]string{"ID", "NAME", "START", "END", "PROGRESS", "RESOURCE"}, rows))
	return b.String()
}

// FormatEvent renders one log event as a single status line.
func FormatEvent(e domain.Event) string {
	parts := []string{StyleBlue.Render(string(e.Type)), Bold(domain.CoalesceStr(e.TaskName, e.TaskID))}
	if e.StartTime != nil && e.EndTime != nil {
		parts = append(parts, fmt.Sprintf("[%d,%d)", *e.StartTime, *e.EndTime))
	}
	if e.BacktrackToLevel != nil {
		parts = append(parts, StyleRed.Render(fmt.Sprintf("backtrack to L%d", *e.BacktrackToLevel)))
	}
	if e.Description != "" {
		parts = append(parts, Dim(e.Description))
	}
	return fmt.Sprintf("%s %s", Dim(fmt.Sprintf("t=%d", e.Timestamp)), strings.Join(parts, " "))
}
