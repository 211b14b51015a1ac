package repository

import (
	"context"

	"github.com/alexanderramin/schedtrace/internal/domain"
)

type GameRepo interface {
	GetByID(ctx context.Context, id string) (*domain.GameRecord, error)
	GetByLogPath(ctx context.Context, logPath string) (*domain.GameRecord, error)
	List(ctx context.Context) ([]*domain.GameRecord, error)
	// Save inserts or updates the game and replaces both schedules. Run it
	// inside a unit of work so the entries change atomically.
	Save(ctx context.Context, g *domain.GameRecord) error
	Delete(ctx context.Context, id string) error
}
