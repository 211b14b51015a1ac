package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/schedtrace/internal/cli/formatter"
	"github.com/alexanderramin/schedtrace/internal/domain"
	"github.com/alexanderramin/schedtrace/internal/service"
	"github.com/alexanderramin/schedtrace/internal/session"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// editField is one task's start time in the edit form.
type editField struct {
	TaskID   string
	Name     string
	Duration int
	Value    string
	original string
}

func newEditFields(s *session.Session) []*editField {
	schedule := s.UserSchedule()
	tasks := s.Problem().Tasks
	fields := make([]*editField, len(tasks))
	for i, t := range tasks {
		f := &editField{TaskID: t.ID, Name: t.Name, Duration: t.Duration}
		if timing, ok := schedule[t.ID]; ok {
			f.Value = strconv.Itoa(timing.Start)
		}
		f.original = f.Value
		fields[i] = f
	}
	return fields
}

func editForm(fields []*editField) *huh.Form {
	inputs := make([]huh.Field, len(fields))
	for i, f := range fields {
		inputs[i] = huh.NewInput().
			Title(fmt.Sprintf("%s %s (duration %d)", f.TaskID, f.Name, f.Duration)).
			Placeholder("start time").
			Value(&f.Value).
			Validate(validateOptionalStart)
	}
	return huh.NewForm(huh.NewGroup(inputs...)).
		WithTheme(schedtraceHuhTheme()).
		WithShowHelp(false)
}

// editsFromFields returns an edit for every field the user changed. Blank
// fields are left alone.
func editsFromFields(fields []*editField) ([]service.TaskEdit, error) {
	var edits []service.TaskEdit
	for _, f := range fields {
		v := strings.TrimSpace(f.Value)
		if v == "" || v == f.original {
			continue
		}
		start, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("task %s: start %q is not an integer", f.TaskID, v)
		}
		edits = append(edits, service.TaskEdit{TaskID: f.TaskID, Start: start, End: start + f.Duration})
	}
	return edits, nil
}

func validateOptionalStart(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return errors.New("must be a whole number")
	}
	if n < 0 {
		return errors.New("must not be negative")
	}
	return nil
}

// parseSets reads --set values of the form id=start or id=start:end. A
// missing end keeps the task's duration.
func parseSets(sets []string, problem *domain.ProblemDefinition) ([]service.TaskEdit, error) {
	edits := make([]service.TaskEdit, 0, len(sets))
	for _, raw := range sets {
		id, timing, ok := strings.Cut(raw, "=")
		if !ok || id == "" {
			return nil, fmt.Errorf("--set %q: want id=start or id=start:end", raw)
		}
		startStr, endStr, hasEnd := strings.Cut(timing, ":")
		start, err := strconv.Atoi(startStr)
		if err != nil {
			return nil, fmt.Errorf("--set %q: start is not an integer", raw)
		}

		end := start
		switch {
		case hasEnd:
			if end, err = strconv.Atoi(endStr); err != nil {
				return nil, fmt.Errorf("--set %q: end is not an integer", raw)
			}
		default:
			if t, ok := problem.Task(id); ok {
				end = start + t.Duration
			}
		}
		edits = append(edits, service.TaskEdit{TaskID: id, Start: start, End: end})
	}
	return edits, nil
}

func schedtraceHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}
