package formatter

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/alexanderramin/schedtrace/internal/checker"
	"github.com/alexanderramin/schedtrace/internal/domain"
	"github.com/alexanderramin/schedtrace/internal/session"
)

// FormatCost renders "cost 19 / optimal 17" followed by the verdict pill.
func FormatCost(s *session.Session) string {
	return fmt.Sprintf("%s %d %s %d  %s",
		Dim("cost"), s.CurrentCost(), Dim("/ optimal"), s.Problem().OptimalMakespan, VerdictPill(s.Verdict()))
}

// FormatGame renders a game: status line, the user's schedule as a Gantt
// chart with offending tasks in red, and the current violations.
func FormatGame(rec *domain.GameRecord, s *session.Session, rejected []string) string {
	var b strings.Builder

	title := "Game"
	if rec != nil && rec.InstanceID != "" {
		title = "Game: " + rec.InstanceID
	}
	b.WriteString(Header(title) + "\n")
	fmt.Fprintf(&b, "%s  %s %s\n", GameStatusPill(s.GameStatus()), Dim("policy"), s.EditPolicy())
	b.WriteString(FormatCost(s) + "\n\n")

	violations := s.Violations()
	flagged := checker.ImplicatedTasks(violations)
	problem := s.Problem()
	b.WriteString(RenderGantt(BarsFromSchedule(s.UserSchedule(), problem, flagged),
		GanttOptions{Horizon: problem.TimeHorizon, Width: 60}))
	b.WriteString("\n" + FormatViolations(violations))

	if len(rejected) > 0 {
		b.WriteString(StyleRed.Render("Rejected by strict policy: ") + strings.Join(rejected, ", ") + "\n")
	}
	return b.String()
}

func FormatGameList(records []*domain.GameRecord) string {
	if len(records) == 0 {
		return Dim("No saved games.") + "\n"
	}
	rows := make([][]string, len(records))
	for i, r := range records {
		rows[i] = []string{
			TruncID(r.ID),
			filepath.Base(r.LogPath),
			domain.CoalesceStr(r.InstanceID, "--"),
			GameStatusPill(r.Status),
			string(r.Policy),
			HumanTimestamp(r.UpdatedAt),
		}
	}
	return RenderTable([]string{"ID", "LOG", "INSTANCE", "STATUS", "POLICY", "UPDATED"}, rows)
}

func FormatInstances(instances []domain.Instance) string {
	if len(instances) == 0 {
		return Dim("No instances in catalog.") + "\n"
	}
	rows := make([][]string, len(instances))
	for i, inst := range instances {
		rows[i] = []string{inst.ID, inst.Name, DifficultyBadge(inst.Difficulty), inst.Description}
	}
	return RenderTable([]string{"ID", "NAME", "DIFFICULTY", "DESCRIPTION"}, rows)
}

func DifficultyBadge(d domain.Difficulty) string {
	switch d {
	case domain.DifficultyBeginner:
		return StyleGreen.Render(string(d))
	case domain.DifficultyIntermediate:
		return StyleYellow.Render(string(d))
	case domain.DifficultyAdvanced:
		return StyleRed.Render(string(d))
	default:
		return StyleDim.Render(string(d))
	}
}
