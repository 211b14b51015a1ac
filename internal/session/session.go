// Package session holds the interactive state around one loaded event log:
// the replay cursor, playback, view mode and the user's schedule.
package session

import (
	"fmt"
	"slices"

	"github.com/alexanderramin/schedtrace/internal/domain"
	"github.com/alexanderramin/schedtrace/internal/extractor"
	"github.com/alexanderramin/schedtrace/internal/replay"
)

// Session is not safe for concurrent use. Every query recomputes from the
// event log and the current cursor or schedule.
type Session struct {
	events   []domain.Event
	problem  domain.ProblemDefinition
	instance *domain.Instance

	currentTime int
	minTime     int
	maxTime     int
	playing     bool
	speed       int
	viewMode    domain.ViewMode

	gameMode     bool
	policy       domain.EditPolicy
	userSchedule domain.Schedule
	lastValid    domain.Schedule
	status       domain.GameStatus
	violations   []domain.ConstraintViolation

	extractOpts []extractor.Option
}

// Option configures a Session.
type Option func(*Session)

func WithEditPolicy(p domain.EditPolicy) Option {
	return func(s *Session) {
		s.policy = p
	}
}

func WithPlaybackSpeed(speed int) Option {
	return func(s *Session) {
		s.speed = max(speed, 1)
	}
}

// WithExtractorOptions passes options to problem extraction on every load.
func WithExtractorOptions(opts ...extractor.Option) Option {
	return func(s *Session) {
		s.extractOpts = append(s.extractOpts, opts...)
	}
}

func New(opts ...Option) *Session {
	s := &Session{
		speed:  1,
		policy: domain.PolicyLearning,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.clear()
	return s
}

// clear restores everything except the configured options.
func (s *Session) clear() {
	s.events = nil
	s.problem = extractor.ExtractProblem(nil, s.extractOpts...)
	s.instance = nil
	s.currentTime, s.minTime, s.maxTime = 0, 0, 0
	s.playing = false
	s.viewMode = domain.ViewGame
	s.gameMode = false
	s.clearGame()
}

func (s *Session) clearGame() {
	s.userSchedule = domain.Schedule{}
	s.lastValid = domain.Schedule{}
	s.status = domain.GameNotStarted
	s.violations = nil
}

// LoadEvents replaces the event log, re-extracts the problem and moves the
// cursor to the earliest timestamp. Game state is kept.
func (s *Session) LoadEvents(events []domain.Event) {
	s.events = slices.Clone(events)
	s.problem = extractor.ExtractProblem(s.events, s.extractOpts...)
	s.minTime, s.maxTime = replay.TimeRange(s.events)
	s.currentTime = s.minTime
}

// SwitchInstance makes inst current and drops the log and all game state.
func (s *Session) SwitchInstance(inst domain.Instance) {
	viewMode := s.viewMode
	s.clear()
	s.viewMode = viewMode
	s.instance = &inst
}

// Reset returns the session to its freshly constructed state.
func (s *Session) Reset() {
	s.clear()
}

func (s *Session) Instance() (domain.Instance, bool) {
	if s.instance == nil {
		return domain.Instance{}, false
	}
	return *s.instance, true
}

func (s *Session) Events() []domain.Event { return s.events }

// Cursor and playback.

func (s *Session) CurrentTime() int { return s.currentTime }
func (s *Session) MinTime() int     { return s.minTime }
func (s *Session) MaxTime() int     { return s.maxTime }
func (s *Session) IsPlaying() bool  { return s.playing }
func (s *Session) PlaybackSpeed() int {
	return s.speed
}

// SetCurrentTime moves the cursor, clamped to the log's time range.
func (s *Session) SetCurrentTime(t int) {
	s.currentTime = min(max(t, s.minTime), s.maxTime)
}

// Step moves the cursor by delta time units.
func (s *Session) Step(delta int) {
	s.SetCurrentTime(s.currentTime + delta)
}

// TogglePlayback starts or stops playback. Starting at the end of the log
// rewinds to the beginning first.
func (s *Session) TogglePlayback() {
	if !s.playing && s.currentTime >= s.maxTime {
		s.currentTime = s.minTime
	}
	s.playing = !s.playing
}

func (s *Session) SetPlaybackSpeed(speed int) {
	s.speed = max(speed, 1)
}

// Advance is one playback tick. It reports whether the cursor moved;
// reaching the end of the log stops playback.
func (s *Session) Advance() bool {
	if !s.playing {
		return false
	}
	before := s.currentTime
	s.SetCurrentTime(s.currentTime + s.speed)
	if s.currentTime >= s.maxTime {
		s.playing = false
	}
	return s.currentTime != before
}

// View mode.

func (s *Session) ViewMode() domain.ViewMode { return s.viewMode }

func (s *Session) SetViewMode(mode domain.ViewMode) error {
	if !slices.Contains(domain.ValidViewModes, mode) {
		return fmt.Errorf("unknown view mode %q", mode)
	}
	s.viewMode = mode
	return nil
}

// CycleViewMode switches to the next view mode and returns it.
func (s *Session) CycleViewMode() domain.ViewMode {
	i := slices.Index(domain.ValidViewModes, s.viewMode)
	s.viewMode = domain.ValidViewModes[(i+1)%len(domain.ValidViewModes)]
	return s.viewMode
}

// Replay queries at the cursor.

func (s *Session) Tasks() []domain.LiveTask {
	return replay.TasksAtTime(s.events, s.currentTime)
}

func (s *Session) Tree() *replay.Tree {
	return replay.TreeAtTime(s.events, s.currentTime)
}

func (s *Session) LatestEvent() (domain.Event, bool) {
	return replay.LatestEventAt(s.events, s.currentTime)
}

// Problem returns the problem extracted at load time.
func (s *Session) Problem() *domain.ProblemDefinition {
	return &s.problem
}
