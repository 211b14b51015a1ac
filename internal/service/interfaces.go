package service

import (
	"context"

	"github.com/alexanderramin/schedtrace/internal/domain"
	"github.com/alexanderramin/schedtrace/internal/session"
)

type TraceService interface {
	// Load reads an event log into a fresh session. Malformed entries are
	// logged as findings; only envelope errors fail the load.
	Load(ctx context.Context, path string) (*session.Session, error)
	// LoadInstance loads a catalog instance's log and records the instance
	// on the session.
	LoadInstance(ctx context.Context, inst domain.Instance) (*session.Session, error)
}

type CatalogService interface {
	List(ctx context.Context, catalogPath string) ([]domain.Instance, error)
	Resolve(ctx context.Context, catalogPath, id string) (*domain.Instance, error)
}

type GameService interface {
	Start(ctx context.Context, req StartGameRequest) (*GameView, error)
	Move(ctx context.Context, req MoveRequest) (*GameView, error)
	Edit(ctx context.Context, logPath string, edits []TaskEdit) (*GameView, error)
	Reset(ctx context.Context, logPath string, mode domain.ResetMode) (*GameView, error)
	Status(ctx context.Context, logPath string) (*GameView, error)
	List(ctx context.Context) ([]*domain.GameRecord, error)
	Abandon(ctx context.Context, logPath string) error
}

type StartGameRequest struct {
	LogPath    string
	InstanceID string
	// Policy overrides the configured edit policy when set.
	Policy domain.EditPolicy
}

// MoveRequest is one drag of a task bar. A nil End keeps the task's
// duration.
type MoveRequest struct {
	LogPath string
	TaskID  string
	Start   int
	End     *int
}

type TaskEdit struct {
	TaskID string
	Start  int
	End    int
}

// GameView is a game together with the session it was replayed into.
type GameView struct {
	Game    *domain.GameRecord
	Session *session.Session
	// Rejected lists tasks whose edits the strict policy discarded.
	Rejected []string
}
