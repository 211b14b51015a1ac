package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/alexanderramin/schedtrace/internal/db"
	"github.com/alexanderramin/schedtrace/internal/domain"
	"github.com/alexanderramin/schedtrace/internal/repository"
	"github.com/alexanderramin/schedtrace/internal/session"
)

type gameService struct {
	games    repository.GameRepo
	uow      db.UnitOfWork
	traces   TraceService
	observer UseCaseObserver
}

func NewGameService(games repository.GameRepo, uow db.UnitOfWork, traces TraceService, observers ...UseCaseObserver) GameService {
	return &gameService{
		games:    games,
		uow:      uow,
		traces:   traces,
		observer: useCaseObserverOrNoop(observers),
	}
}

// Start opens a game on the log, or resumes the one already saved for it.
// A new game is seeded with every task at [0, duration).
func (s *gameService) Start(ctx context.Context, req StartGameRequest) (view *GameView, err error) {
	fields := map[string]any{"log": req.LogPath}
	defer observe(ctx, s.observer, "start-game", time.Now().UTC(), fields, &err)

	logPath, err := canonicalPath(req.LogPath)
	if err != nil {
		return nil, err
	}
	sess, err := s.traces.Load(ctx, logPath)
	if err != nil {
		return nil, err
	}
	if req.Policy != "" {
		sess.SetEditPolicy(req.Policy)
	}

	game, err := s.games.GetByLogPath(ctx, logPath)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		game = &domain.GameRecord{LogPath: logPath, InstanceID: req.InstanceID}
		sess.SetGameMode(true)
		fields["resumed"] = false
	case err != nil:
		return nil, fmt.Errorf("loading game: %w", err)
	default:
		state := gameState(game)
		if req.Policy != "" {
			state.Policy = req.Policy
		}
		sess.RestoreGame(state)
		if req.InstanceID != "" {
			game.InstanceID = req.InstanceID
		}
		fields["resumed"] = true
	}

	if err := s.save(ctx, game, sess); err != nil {
		return nil, err
	}
	fields["status"] = string(game.Status)
	return &GameView{Game: game, Session: sess}, nil
}

// Move reschedules one task the way a drag on the Gantt chart does.
func (s *gameService) Move(ctx context.Context, req MoveRequest) (view *GameView, err error) {
	fields := map[string]any{"log": req.LogPath, "task": req.TaskID, "start": req.Start}
	defer observe(ctx, s.observer, "move-task", time.Now().UTC(), fields, &err)

	game, sess, err := s.resume(ctx, req.LogPath)
	if err != nil {
		return nil, err
	}
	task, ok := sess.Problem().Task(req.TaskID)
	if !ok {
		return nil, fmt.Errorf("task %q: %w", req.TaskID, ErrUnknownTask)
	}
	end := req.Start + task.Duration
	if req.End != nil {
		end = *req.End
	}
	fields["end"] = end

	view = &GameView{Game: game, Session: sess}
	if !sess.SetUserSchedule(req.TaskID, req.Start, end) {
		view.Rejected = []string{req.TaskID}
		fields["rejected"] = true
		return view, nil
	}
	if err := s.save(ctx, game, sess); err != nil {
		return nil, err
	}
	return view, nil
}

// Edit applies several timings in order. Unknown tasks fail the whole edit
// before anything changes.
func (s *gameService) Edit(ctx context.Context, logPath string, edits []TaskEdit) (view *GameView, err error) {
	fields := map[string]any{"log": logPath, "edits": len(edits)}
	defer observe(ctx, s.observer, "edit-game", time.Now().UTC(), fields, &err)

	game, sess, err := s.resume(ctx, logPath)
	if err != nil {
		return nil, err
	}
	for _, e := range edits {
		if _, ok := sess.Problem().Task(e.TaskID); !ok {
			return nil, fmt.Errorf("task %q: %w", e.TaskID, ErrUnknownTask)
		}
	}

	view = &GameView{Game: game, Session: sess}
	for _, e := range edits {
		if !sess.SetUserSchedule(e.TaskID, e.Start, e.End) {
			view.Rejected = append(view.Rejected, e.TaskID)
		}
	}
	fields["rejected"] = len(view.Rejected)
	if err := s.save(ctx, game, sess); err != nil {
		return nil, err
	}
	return view, nil
}

func (s *gameService) Reset(ctx context.Context, logPath string, mode domain.ResetMode) (view *GameView, err error) {
	fields := map[string]any{"log": logPath, "mode": string(mode)}
	defer observe(ctx, s.observer, "reset-game", time.Now().UTC(), fields, &err)

	switch mode {
	case domain.ResetClear, domain.ResetRevert:
	default:
		return nil, fmt.Errorf("unknown reset mode %q", mode)
	}

	game, sess, err := s.resume(ctx, logPath)
	if err != nil {
		return nil, err
	}
	sess.ResetGame(mode)
	if err := s.save(ctx, game, sess); err != nil {
		return nil, err
	}
	return &GameView{Game: game, Session: sess}, nil
}

func (s *gameService) Status(ctx context.Context, logPath string) (*GameView, error) {
	game, sess, err := s.resume(ctx, logPath)
	if err != nil {
		return nil, err
	}
	return &GameView{Game: game, Session: sess}, nil
}

func (s *gameService) List(ctx context.Context) ([]*domain.GameRecord, error) {
	return s.games.List(ctx)
}

func (s *gameService) Abandon(ctx context.Context, logPath string) (err error) {
	fields := map[string]any{"log": logPath}
	defer observe(ctx, s.observer, "abandon-game", time.Now().UTC(), fields, &err)

	game, err := s.lookup(ctx, logPath)
	if err != nil {
		return err
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteGameRepo(tx).Delete(ctx, game.ID)
	})
}

func (s *gameService) lookup(ctx context.Context, logPath string) (*domain.GameRecord, error) {
	path, err := canonicalPath(logPath)
	if err != nil {
		return nil, err
	}
	game, err := s.games.GetByLogPath(ctx, path)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", logPath, ErrNoGame)
	}
	if err != nil {
		return nil, fmt.Errorf("loading game: %w", err)
	}
	return game, nil
}

// resume replays the saved game into a freshly loaded session.
func (s *gameService) resume(ctx context.Context, logPath string) (*domain.GameRecord, *session.Session, error) {
	game, err := s.lookup(ctx, logPath)
	if err != nil {
		return nil, nil, err
	}
	sess, err := s.traces.Load(ctx, game.LogPath)
	if err != nil {
		return nil, nil, err
	}
	sess.RestoreGame(gameState(game))
	return game, sess, nil
}

func (s *gameService) save(ctx context.Context, game *domain.GameRecord, sess *session.Session) error {
	state := sess.GameState()
	game.UserSchedule = state.UserSchedule
	game.LastValid = state.LastValid
	game.Status = state.Status
	game.Policy = state.Policy

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteGameRepo(tx).Save(ctx, game)
	})
}

func gameState(g *domain.GameRecord) session.GameState {
	return session.GameState{
		UserSchedule: g.UserSchedule,
		LastValid:    g.LastValid,
		Status:       g.Status,
		Policy:       g.Policy,
	}
}

func canonicalPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", path, err)
	}
	return abs, nil
}
