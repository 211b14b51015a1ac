package cli

import (
	"testing"
	"time"

	"github.com/alexanderramin/schedtrace/internal/domain"
	"github.com/alexanderramin/schedtrace/internal/session"
	"github.com/alexanderramin/schedtrace/internal/teatest"
	"github.com/alexanderramin/schedtrace/internal/testutil"
	"github.com/alexanderramin/schedtrace/internal/watch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func projectSession(t *testing.T) *session.Session {
	t.Helper()
	s := session.New()
	s.LoadEvents(testutil.SoftwareProjectEvents())
	return s
}

func newPlayDriver(t *testing.T, s *session.Session, opts playOptions) *teatest.Driver {
	t.Helper()
	d := teatest.New(t, newPlayModel(s, opts), teatest.WithSize(120, 40))
	d.DrainInit()
	return d
}

func playState(d *teatest.Driver) playModel {
	return d.Model.(playModel)
}

// nextTick is the message the running tick chain would deliver.
func nextTick(d *teatest.Driver) tickMsg {
	return tickMsg{id: playState(d).tickID, at: time.Now()}
}

func TestPlay_TicksAdvanceBySpeed(t *testing.T) {
	s := projectSession(t)
	s.SetPlaybackSpeed(4)
	d := newPlayDriver(t, s, playOptions{Title: "demo"})

	d.PressSpace()
	require.True(t, s.IsPlaying())
	assert.Equal(t, 1, d.Skipped, "the tick timer is left to the test")

	d.Send(nextTick(d))
	assert.Equal(t, 4, s.CurrentTime())
	d.Send(nextTick(d))
	assert.Equal(t, 8, s.CurrentTime())
	d.Send(nextTick(d))
	assert.Equal(t, 9, s.CurrentTime())
	assert.False(t, s.IsPlaying(), "playback stops at the end of the log")

	skipped := d.Skipped
	d.Send(nextTick(d))
	assert.Equal(t, 9, s.CurrentTime())
	assert.Equal(t, skipped, d.Skipped, "no tick is scheduled once stopped")
}

func TestPlay_PauseStopsTicks(t *testing.T) {
	s := projectSession(t)
	d := newPlayDriver(t, s, playOptions{})

	d.PressSpace()
	d.Send(nextTick(d))
	assert.Equal(t, 1, s.CurrentTime())

	d.PressSpace()
	assert.False(t, s.IsPlaying())
	d.Send(nextTick(d))
	assert.Equal(t, 1, s.CurrentTime())
}

func TestPlay_RapidToggleKeepsOneTickChain(t *testing.T) {
	s := projectSession(t)
	d := newPlayDriver(t, s, playOptions{})

	d.PressSpace()
	first := nextTick(d)
	d.PressSpace()
	d.PressSpace()
	require.True(t, s.IsPlaying())

	d.Send(first)
	assert.Equal(t, 0, s.CurrentTime(), "a tick from an earlier chain is dropped")
	d.Send(nextTick(d))
	assert.Equal(t, 1, s.CurrentTime())
	d.Send(first)
	assert.Equal(t, 1, s.CurrentTime())
}

func TestPlay_Stepping(t *testing.T) {
	s := projectSession(t)
	d := newPlayDriver(t, s, playOptions{})

	d.PressRight()
	d.PressRight()
	assert.Equal(t, 2, s.CurrentTime())
	d.PressLeft()
	assert.Equal(t, 1, s.CurrentTime())
	d.PressLeft()
	d.PressLeft()
	assert.Equal(t, 0, s.CurrentTime(), "clamped at the first timestamp")

	d.PressKey('G')
	assert.Equal(t, 9, s.CurrentTime())
	d.PressKey('g')
	assert.Equal(t, 0, s.CurrentTime())
}

func TestPlay_SpeedKeys(t *testing.T) {
	s := projectSession(t)
	d := newPlayDriver(t, s, playOptions{})

	d.PressKey('+')
	d.PressKey('+')
	assert.Equal(t, 4, s.PlaybackSpeed())
	d.PressKey('-')
	assert.Equal(t, 2, s.PlaybackSpeed())
	d.PressKey('-')
	d.PressKey('-')
	assert.Equal(t, 1, s.PlaybackSpeed())
}

func TestPlay_ViewCycle(t *testing.T) {
	s := projectSession(t)
	s.SetCurrentTime(4)
	d := newPlayDriver(t, s, playOptions{Title: "demo"})

	assert.Contains(t, stripANSI(d.View()), "cost 17 / optimal 17")

	d.PressKey('v')
	assert.Equal(t, domain.ViewGantt, s.ViewMode())
	view := stripANSI(d.View())
	assert.Contains(t, view, "demo")
	assert.Contains(t, view, "t = 4")
	assert.Contains(t, view, "backtrack to L2")

	d.PressKey('v')
	assert.Equal(t, domain.ViewTree, s.ViewMode())
	assert.Contains(t, stripANSI(d.View()), "n3 ✖ Implementation @ 8")

	d.PressKey('v')
	view = stripANSI(d.View())
	assert.Contains(t, view, "Root")
	assert.Contains(t, view, "[0,3)")
}

func TestPlay_Quit(t *testing.T) {
	d := newPlayDriver(t, projectSession(t), playOptions{})
	d.PressKey('q')
	assert.True(t, d.Quitting)
	assert.Empty(t, d.View())
}

func TestPlay_FollowReloads(t *testing.T) {
	s := projectSession(t)
	s.SetCurrentTime(5)
	s.SetPlaybackSpeed(2)

	longer := append(testutil.SoftwareProjectEvents(), testutil.SolverEvent(12, "Solver idle"))
	changes := make(chan watch.Change, 1)
	changes <- watch.Change{Kind: watch.ChangeModified, Path: "events.json"}
	close(changes)

	d := newPlayDriver(t, s, playOptions{
		Changes: changes,
		Reload: func() (*session.Session, error) {
			next := session.New()
			next.LoadEvents(longer)
			return next, nil
		},
	})

	m := playState(d)
	assert.NotSame(t, s, m.sess)
	assert.Equal(t, 12, m.sess.MaxTime())
	assert.Equal(t, 5, m.sess.CurrentTime(), "cursor survives the reload")
	assert.Equal(t, 2, m.sess.PlaybackSpeed())
	assert.Contains(t, stripANSI(d.View()), "reloaded: 21 events")
}

func TestPlay_FollowRemoved(t *testing.T) {
	s := projectSession(t)
	changes := make(chan watch.Change, 1)
	changes <- watch.Change{Kind: watch.ChangeRemoved}
	close(changes)

	d := newPlayDriver(t, s, playOptions{
		Changes: changes,
		Reload: func() (*session.Session, error) {
			t.Fatal("a removed log is not reloaded")
			return nil, nil
		},
	})
	assert.Same(t, s, playState(d).sess)
	assert.Contains(t, stripANSI(d.View()), "log removed")
}
