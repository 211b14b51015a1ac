package formatter

import (
	"fmt"
	"slices"
	"strings"

	"github.com/alexanderramin/schedtrace/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

const (
	// ganttLimit clips the drawn axis. Bars reaching past it run to the edge.
	ganttLimit = 1 << 30
	// maxGanttColumns applies when GanttOptions.Width is zero.
	maxGanttColumns = 240
)

// GanttBar is one row of a Gantt chart.
type GanttBar struct {
	ID       string
	Name     string
	Start    int
	End      int
	Progress int
	Flagged  bool
}

type GanttOptions struct {
	// Horizon extends the time axis to at least this value.
	Horizon int
	// Cursor marks the replay time on the axis when set.
	Cursor *int
	// Width caps the number of chart columns. Zero means one column per unit
	// up to maxGanttColumns.
	Width int
}

// BarsFromTasks turns a live snapshot into Gantt rows.
func BarsFromTasks(tasks []domain.LiveTask) []GanttBar {
	bars := make([]GanttBar, len(tasks))
	for i, t := range tasks {
		bars[i] = GanttBar{ID: t.ID, Name: t.Name, Start: t.StartTime, End: t.EndTime, Progress: t.Progress}
	}
	return bars
}

// BarsFromSchedule lists the scheduled tasks in problem order. Tasks named in
// flagged are highlighted.
func BarsFromSchedule(s domain.Schedule, p *domain.ProblemDefinition, flagged []string) []GanttBar {
	bars := make([]GanttBar, 0, len(s))
	for _, id := range s.TaskIDs() {
		timing := s[id]
		bars = append(bars, GanttBar{
			ID:      id,
			Name:    p.TaskName(id),
			Start:   timing.Start,
			End:     timing.End,
			Flagged: slices.Contains(flagged, id),
		})
	}
	return bars
}

// RenderGantt draws one bar per row against a shared time axis. When the span
// is wider than opts.Width, each column covers several time units.
func RenderGantt(bars []GanttBar, opts GanttOptions) string {
	if len(bars) == 0 {
		return Dim("No tasks scheduled.") + "\n"
	}

	lo, hi := 0, opts.Horizon
	for _, b := range bars {
		lo = min(lo, b.Start)
		hi = max(hi, b.End)
	}
	lo, hi = max(lo, -ganttLimit), min(hi, ganttLimit)
	span := max(hi-lo, 1)
	width := opts.Width
	if width <= 0 {
		width = maxGanttColumns
	}
	scale := 1
	if span > width {
		scale = (span + width - 1) / width
	}
	cols := (span + scale - 1) / scale

	label := 0
	for _, b := range bars {
		label = max(label, lipgloss.Width(barLabel(b)))
	}

	var sb strings.Builder
	indent := strings.Repeat(" ", label+1)
	ticks, marker := axis(lo, cols, scale, opts.Cursor)
	sb.WriteString(indent + ticks + "\n")
	if marker != "" {
		sb.WriteString(indent + marker + "\n")
	}
	for _, b := range bars {
		name := barLabel(b)
		sb.WriteString(name + strings.Repeat(" ", label-lipgloss.Width(name)+1))

		cells := make([]byte, 0, cols)
		for c := 0; c < cols; c++ {
			from := lo + c*scale
			if b.Start < from+scale && b.End > from {
				cells = append(cells, 1)
			} else {
				cells = append(cells, 0)
			}
		}
		sb.WriteString(renderCells(cells, barStyle(b)))
		sb.WriteString(Dim(fmt.Sprintf(" [%d,%d)", b.Start, b.End)) + "\n")
	}
	return sb.String()
}

func barLabel(b GanttBar) string {
	if b.Name == "" || b.Name == b.ID {
		return b.ID
	}
	return b.ID + " " + b.Name
}

func barStyle(b GanttBar) lipgloss.Style {
	switch {
	case b.Flagged:
		return StyleRed
	case b.Progress >= 100:
		return StyleGreen
	case b.Progress > 0:
		return StyleYellow
	default:
		return StyleBlue
	}
}

func renderCells(cells []byte, style lipgloss.Style) string {
	var sb strings.Builder
	for _, c := range cells {
		if c == 1 {
			sb.WriteString(style.Render(filledBlock))
		} else {
			sb.WriteString(StyleDim.Render("·"))
		}
	}
	return sb.String()
}

// axis labels every fifth column with its time. The marker row points at
// the cursor column and is empty when the cursor is off the chart.
func axis(lo, cols, scale int, cursor *int) (ticks, marker string) {
	row := []rune(strings.Repeat(" ", cols+4))
	for c := 0; c < cols; c += 5 {
		for i, r := range fmt.Sprint(lo + c*scale) {
			if c+i < len(row) {
				row[c+i] = r
			}
		}
	}
	ticks = Dim(strings.TrimRight(string(row), " "))
	if cursor == nil || *cursor < lo {
		return ticks, ""
	}
	c := (*cursor - lo) / scale
	if c >= cols {
		return ticks, ""
	}
	return ticks, strings.Repeat(" ", c) + StyleYellowBold.Render("▼")
}
