package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/schedtrace/internal/checker"
	"github.com/alexanderramin/schedtrace/internal/cli/formatter"
	"github.com/alexanderramin/schedtrace/internal/domain"
	"github.com/alexanderramin/schedtrace/internal/session"
	"github.com/alexanderramin/schedtrace/internal/watch"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type playKeyMap struct {
	Toggle  key.Binding
	Back    key.Binding
	Forward key.Binding
	Home    key.Binding
	End     key.Binding
	Faster  key.Binding
	Slower  key.Binding
	View    key.Binding
	Quit    key.Binding
}

func defaultPlayKeys() playKeyMap {
	return playKeyMap{
		Toggle:  key.NewBinding(key.WithKeys(" ", "p"), key.WithHelp("space", "play/pause")),
		Back:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "step back")),
		Forward: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "step")),
		Home:    key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "start")),
		End:     key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "end")),
		Faster:  key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "faster")),
		Slower:  key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "slower")),
		View:    key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "view")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k playKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Back, k.Forward, k.View, k.Quit}
}

func (k playKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Back, k.Forward, k.Home, k.End},
		{k.Faster, k.Slower, k.View, k.Quit},
	}
}

// tickMsg carries the id of the tick chain that scheduled it. Only the
// chain started by the latest toggle advances the cursor.
type tickMsg struct {
	id int
	at time.Time
}

// logChangedMsg carries a reload of the followed log.
type logChangedMsg struct {
	change watch.Change
	sess   *session.Session
	err    error
}

type playOptions struct {
	Title   string
	Tick    time.Duration
	Reload  func() (*session.Session, error)
	Changes <-chan watch.Change
}

// playModel replays a session on a timer. Each tick advances the cursor by
// the playback speed; ticks are only scheduled while playing.
type playModel struct {
	sess     *session.Session
	opts     playOptions
	tickID   int
	keys     playKeyMap
	help     help.Model
	width    int
	notice   string
	quitting bool
}

func newPlayModel(sess *session.Session, opts playOptions) playModel {
	if opts.Tick <= 0 {
		opts.Tick = 250 * time.Millisecond
	}
	return playModel{
		sess:  sess,
		opts:  opts,
		keys:  defaultPlayKeys(),
		help:  help.New(),
		width: 80,
	}
}

func (m playModel) Init() tea.Cmd {
	return m.waitForChange()
}

func (m playModel) tick() tea.Cmd {
	id := m.tickID
	return tea.Tick(m.opts.Tick, func(t time.Time) tea.Msg { return tickMsg{id: id, at: t} })
}

func (m playModel) waitForChange() tea.Cmd {
	if m.opts.Changes == nil || m.opts.Reload == nil {
		return nil
	}
	changes, reload := m.opts.Changes, m.opts.Reload
	return func() tea.Msg {
		c, ok := <-changes
		if !ok {
			return nil
		}
		if c.Kind == watch.ChangeRemoved {
			return logChangedMsg{change: c}
		}
		sess, err := reload()
		return logChangedMsg{change: c, sess: sess, err: err}
	}
}

func (m playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		if msg.id != m.tickID || !m.sess.IsPlaying() {
			return m, nil
		}
		m.sess.Advance()
		if m.sess.IsPlaying() {
			return m, m.tick()
		}
		return m, nil

	case logChangedMsg:
		m.applyChange(msg)
		return m, m.waitForChange()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m playModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.sess
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Toggle):
		s.TogglePlayback()
		m.tickID++
		if s.IsPlaying() {
			return m, m.tick()
		}
	case key.Matches(msg, m.keys.Back):
		s.Step(-1)
	case key.Matches(msg, m.keys.Forward):
		s.Step(1)
	case key.Matches(msg, m.keys.Home):
		s.SetCurrentTime(s.MinTime())
	case key.Matches(msg, m.keys.End):
		s.SetCurrentTime(s.MaxTime())
	case key.Matches(msg, m.keys.Faster):
		s.SetPlaybackSpeed(s.PlaybackSpeed() * 2)
	case key.Matches(msg, m.keys.Slower):
		s.SetPlaybackSpeed(s.PlaybackSpeed() / 2)
	case key.Matches(msg, m.keys.View):
		s.CycleViewMode()
	}
	return m, nil
}

// applyChange swaps in the reloaded log, keeping the cursor, speed and view.
// The reloaded session starts paused.
func (m *playModel) applyChange(msg logChangedMsg) {
	switch {
	case msg.change.Kind == watch.ChangeRemoved:
		m.notice = "log removed; waiting for it to reappear"
		return
	case msg.err != nil:
		m.notice = "reload failed: " + msg.err.Error()
		return
	case msg.sess == nil:
		return
	}

	old := m.sess
	next := msg.sess
	next.SetPlaybackSpeed(old.PlaybackSpeed())
	_ = next.SetViewMode(old.ViewMode())
	next.SetCurrentTime(old.CurrentTime())
	m.sess = next
	m.tickID++
	m.notice = fmt.Sprintf("reloaded: %d events", len(next.Events()))
}

func (m playModel) View() string {
	if m.quitting {
		return ""
	}
	s := m.sess
	var b strings.Builder

	state := formatter.Dim("⏸ paused")
	if s.IsPlaying() {
		state = formatter.StyleGreen.Render("▶ playing")
	}
	fmt.Fprintf(&b, "%s  %s %d %s  %s x%d  %s %s\n",
		formatter.StyleHeader.Render(m.opts.Title),
		formatter.Dim("t ="), s.CurrentTime(), formatter.Dim(fmt.Sprintf("[%d..%d]", s.MinTime(), s.MaxTime())),
		state, s.PlaybackSpeed(),
		formatter.Dim("view"), s.ViewMode())
	b.WriteString("\n")

	chartWidth := max(m.width-30, 20)
	cursor := s.CurrentTime()
	problem := s.Problem()

	switch s.ViewMode() {
	case domain.ViewGantt:
		b.WriteString(formatter.RenderGantt(formatter.BarsFromTasks(s.Tasks()),
			formatter.GanttOptions{Horizon: problem.TimeHorizon, Cursor: &cursor, Width: chartWidth}))
	case domain.ViewTree:
		b.WriteString(formatter.RenderSearchTree(s.Tree(), formatter.TreeOptions{}))
	case domain.ViewBoth:
		b.WriteString(formatter.RenderGantt(formatter.BarsFromTasks(s.Tasks()),
			formatter.GanttOptions{Horizon: problem.TimeHorizon, Cursor: &cursor, Width: chartWidth}))
		b.WriteString("\n" + formatter.RenderSearchTree(s.Tree(), formatter.TreeOptions{}))
	case domain.ViewGame:
		schedule := s.CurrentSchedule()
		flagged := checker.ImplicatedTasks(checker.Validate(schedule, problem))
		b.WriteString(formatter.FormatCost(s) + "\n\n")
		b.WriteString(formatter.RenderGantt(formatter.BarsFromSchedule(schedule, problem, flagged),
			formatter.GanttOptions{Horizon: problem.TimeHorizon, Width: chartWidth}))
	}

	b.WriteString("\n")
	if e, ok := s.LatestEvent(); ok {
		b.WriteString(formatter.FormatEvent(e) + "\n")
	}
	if m.notice != "" {
		b.WriteString(formatter.StyleYellow.Render(m.notice) + "\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}
