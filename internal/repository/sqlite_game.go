package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/schedtrace/internal/db"
	"github.com/alexanderramin/schedtrace/internal/domain"
	"github.com/google/uuid"
)

const (
	entryUser      = "user"
	entryLastValid = "last_valid"
)

// SQLiteGameRepo implements GameRepo on the game_sessions and game_entries
// tables.
type SQLiteGameRepo struct {
	db db.DBTX
}

func NewSQLiteGameRepo(db db.DBTX) *SQLiteGameRepo {
	return &SQLiteGameRepo{db: db}
}

const selectGame = `SELECT id, log_path, instance_id, status, policy, created_at, updated_at FROM game_sessions`

func (r *SQLiteGameRepo) GetByID(ctx context.Context, id string) (*domain.GameRecord, error) {
	return r.get(ctx, selectGame+` WHERE id = ?`, id)
}

func (r *SQLiteGameRepo) GetByLogPath(ctx context.Context, logPath string) (*domain.GameRecord, error) {
	return r.get(ctx, selectGame+` WHERE log_path = ?`, logPath)
}

func (r *SQLiteGameRepo) get(ctx context.Context, query string, arg string) (*domain.GameRecord, error) {
	g, err := scanGame(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		return nil, err
	}
	if err := r.loadEntries(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// List returns every game, most recently updated first, without entries.
func (r *SQLiteGameRepo) List(ctx context.Context) ([]*domain.GameRecord, error) {
	rows, err := r.db.QueryContext(ctx, selectGame+` ORDER BY updated_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("listing games: %w", err)
	}
	defer rows.Close()

	var games []*domain.GameRecord
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating games: %w", err)
	}
	return games, nil
}

func (r *SQLiteGameRepo) Save(ctx context.Context, g *domain.GameRecord) error {
	now := nowUTC()
	if g.ID == "" {
		g.ID = uuid.New().String()
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = now
	}
	g.UpdatedAt = now

	query := `INSERT INTO game_sessions (id, log_path, instance_id, status, policy, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			log_path = excluded.log_path,
			instance_id = excluded.instance_id,
			status = excluded.status,
			policy = excluded.policy,
			updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query,
		g.ID, g.LogPath, g.InstanceID, string(g.Status), string(g.Policy),
		g.CreatedAt.Format(timeLayout), g.UpdatedAt.Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("saving game: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM game_entries WHERE session_id = ?`, g.ID); err != nil {
		return fmt.Errorf("clearing game entries: %w", err)
	}
	if err := r.insertEntries(ctx, g.ID, entryUser, g.UserSchedule); err != nil {
		return err
	}
	return r.insertEntries(ctx, g.ID, entryLastValid, g.LastValid)
}

func (r *SQLiteGameRepo) insertEntries(ctx context.Context, id, kind string, s domain.Schedule) error {
	for _, taskID := range s.TaskIDs() {
		t := s[taskID]
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO game_entries (session_id, kind, task_id, start_time, end_time) VALUES (?, ?, ?, ?, ?)`,
			id, kind, taskID, t.Start, t.End)
		if err != nil {
			return fmt.Errorf("inserting %s entry for task %s: %w", kind, taskID, err)
		}
	}
	return nil
}

func (r *SQLiteGameRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM game_sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting game: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("game %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *SQLiteGameRepo) loadEntries(ctx context.Context, g *domain.GameRecord) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT kind, task_id, start_time, end_time FROM game_entries WHERE session_id = ?`, g.ID)
	if err != nil {
		return fmt.Errorf("loading game entries: %w", err)
	}
	defer rows.Close()

	g.UserSchedule = domain.Schedule{}
	g.LastValid = domain.Schedule{}
	for rows.Next() {
		var kind, taskID string
		var t domain.Timing
		if err := rows.Scan(&kind, &taskID, &t.Start, &t.End); err != nil {
			return fmt.Errorf("scanning game entry: %w", err)
		}
		switch kind {
		case entryUser:
			g.UserSchedule[taskID] = t
		case entryLastValid:
			g.LastValid[taskID] = t
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating game entries: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanGame(row scanner) (*domain.GameRecord, error) {
	var g domain.GameRecord
	var status, policy, createdAt, updatedAt string
	err := row.Scan(&g.ID, &g.LogPath, &g.InstanceID, &status, &policy, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("game: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning game: %w", err)
	}
	g.Status = domain.GameStatus(status)
	g.Policy = domain.EditPolicy(policy)
	g.CreatedAt = parseTime(createdAt)
	g.UpdatedAt = parseTime(updatedAt)
	return &g, nil
}
