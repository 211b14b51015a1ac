package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/schedtrace/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen      = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow     = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleYellowBold = lipgloss.NewStyle().Foreground(ColorYellow).Bold(true)
	StyleRed        = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue       = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple     = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim        = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg         = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader     = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold       = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// VerdictPill renders the cost verdict of a schedule, e.g. "● OPTIMAL".
func VerdictPill(v domain.Verdict) string {
	switch v {
	case domain.VerdictOptimal:
		return StyleGreen.Render("● OPTIMAL")
	case domain.VerdictSuboptimal:
		return StyleYellow.Render("● SUBOPTIMAL")
	case domain.VerdictInvalid:
		return StyleRed.Render("● INVALID")
	default:
		return StyleDim.Render("● UNKNOWN")
	}
}

func GameStatusPill(s domain.GameStatus) string {
	switch s {
	case domain.GameCompleted:
		return StyleGreen.Render("✔ Completed")
	case domain.GameInProgress:
		return StyleYellow.Render("▶ In Progress")
	case domain.GameNotStarted:
		return StyleDim.Render("○ Not Started")
	default:
		return StyleDim.Render(string(s))
	}
}

// NodeStatusStyle colors search tree nodes by how the solver left them.
func NodeStatusStyle(s domain.NodeStatus) lipgloss.Style {
	switch s {
	case domain.NodeSolution:
		return StyleGreen
	case domain.NodePruned:
		return StyleRed
	default:
		return StyleFg
	}
}

func ViolationStyle(t domain.ViolationType) lipgloss.Style {
	switch t {
	case domain.ViolationPrecedence:
		return StyleYellow
	case domain.ViolationResource:
		return StyleRed
	default:
		return StylePurple
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
