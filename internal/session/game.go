package session

import (
	"github.com/alexanderramin/schedtrace/internal/checker"
	"github.com/alexanderramin/schedtrace/internal/domain"
)

// GameState is the persistable part of a game.
type GameState struct {
	UserSchedule domain.Schedule
	LastValid    domain.Schedule
	Status       domain.GameStatus
	Policy       domain.EditPolicy
}

func (s *Session) IsGameMode() bool              { return s.gameMode }
func (s *Session) GameStatus() domain.GameStatus { return s.status }
func (s *Session) EditPolicy() domain.EditPolicy { return s.policy }

func (s *Session) SetEditPolicy(p domain.EditPolicy) {
	s.policy = p
}

func (s *Session) Violations() []domain.ConstraintViolation {
	return s.violations
}

func (s *Session) UserSchedule() domain.Schedule {
	return s.userSchedule.Clone()
}

func (s *Session) LastValidSchedule() domain.Schedule {
	return s.lastValid.Clone()
}

// SetGameMode turns interactive editing on or off. Turning it on with an
// empty user schedule seeds every task at [0, duration) and validates.
func (s *Session) SetGameMode(enabled bool) {
	s.gameMode = enabled
	if !enabled || len(s.userSchedule) > 0 {
		return
	}
	for _, task := range s.problem.Tasks {
		s.userSchedule[task.ID] = domain.Timing{Start: 0, End: task.Duration}
	}
	s.Validate()
}

// SetUserSchedule overwrites one task's timing and re-validates. Under the
// strict policy an edit that leaves any violation is discarded and false is
// returned.
func (s *Session) SetUserSchedule(taskID string, start, end int) bool {
	next := s.userSchedule.Clone()
	next[taskID] = domain.Timing{Start: start, End: end}

	if s.policy == domain.PolicyStrict && len(checker.Validate(next, &s.problem)) > 0 {
		return false
	}
	s.userSchedule = next
	s.Validate()
	return true
}

// Validate checks the user schedule, caches the violations, remembers the
// schedule as the last valid one when it is clean and updates the status.
func (s *Session) Validate() []domain.ConstraintViolation {
	s.violations = checker.Validate(s.userSchedule, &s.problem)
	if len(s.violations) == 0 && len(s.userSchedule) > 0 {
		s.lastValid = s.userSchedule.Clone()
	}
	s.refreshStatus()
	return s.violations
}

func (s *Session) refreshStatus() {
	switch {
	case len(s.userSchedule) == 0:
		s.status = domain.GameNotStarted
	case s.IsValid() && s.userSchedule.Makespan() == s.problem.OptimalMakespan:
		s.status = domain.GameCompleted
	default:
		s.status = domain.GameInProgress
	}
}

// ResetGame clears the user schedule or reverts it to the last schedule
// that validated clean. Reverting with no such schedule leaves it empty.
func (s *Session) ResetGame(mode domain.ResetMode) {
	switch mode {
	case domain.ResetClear:
		s.userSchedule = domain.Schedule{}
		s.violations = nil
		s.status = domain.GameNotStarted
	case domain.ResetRevert:
		s.userSchedule = s.lastValid.Clone()
		s.Validate()
	}
}

// RestoreGame loads a persisted game and re-validates it.
func (s *Session) RestoreGame(g GameState) {
	s.gameMode = true
	if g.Policy != "" {
		s.policy = g.Policy
	}
	s.userSchedule = g.UserSchedule.Clone()
	s.lastValid = g.LastValid.Clone()
	s.Validate()
}

// GameState returns a copy of the persistable game state.
func (s *Session) GameState() GameState {
	return GameState{
		UserSchedule: s.userSchedule.Clone(),
		LastValid:    s.lastValid.Clone(),
		Status:       s.status,
		Policy:       s.policy,
	}
}

// CurrentSchedule is the user schedule in game mode, otherwise the
// extracted optimal schedule.
func (s *Session) CurrentSchedule() domain.Schedule {
	if s.gameMode {
		return s.userSchedule
	}
	return s.problem.OptimalSchedule
}

// CurrentCost is the makespan of the current schedule.
func (s *Session) CurrentCost() int {
	return s.CurrentSchedule().Makespan()
}

func (s *Session) IsValid() bool {
	return len(s.violations) == 0
}

func (s *Session) IsOptimal() bool {
	return s.IsValid() && s.CurrentCost() == s.problem.OptimalMakespan
}

func (s *Session) Verdict() domain.Verdict {
	switch {
	case !s.IsValid():
		return domain.VerdictInvalid
	case s.IsOptimal():
		return domain.VerdictOptimal
	default:
		return domain.VerdictSuboptimal
	}
}
