package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/fairwaycup/matchplay/models"
)

var (
	ErrPlayerNotFound     = errors.New("player not found")
	ErrPlayerNameConflict = errors.New("player name already registered in pod")
)

type PlayerRepository interface {
	Create(ctx context.Context, exec SQLExecutor, player *models.Player) error
	BatchCreate(ctx context.Context, exec SQLExecutor, players []*models.Player) error
	ListAll(ctx context.Context, exec SQLExecutor) ([]*models.Player, error)
	ListByPod(ctx context.Context, exec SQLExecutor, pod string) ([]*models.Player, error)
	DeleteByPod(ctx context.Context, exec SQLExecutor, pod string) error
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

func (r *postgresPlayerRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresPlayerRepository) Create(ctx context.Context, exec SQLExecutor, player *models.Player) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO players (pod, name, handicap)
		VALUES ($1, $2, $3)
		RETURNING id`
	err := executor.QueryRowContext(ctx, query, player.Pod, player.Name, player.Handicap).Scan(&player.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			if pqErr.Constraint == "players_pod_name_key" {
				return ErrPlayerNameConflict
			}
		}
		return err
	}
	return nil
}

func (r *postgresPlayerRepository) BatchCreate(ctx context.Context, exec SQLExecutor, players []*models.Player) error {
	if len(players) == 0 {
		return nil
	}
	for _, p := range players {
		if err := r.Create(ctx, exec, p); err != nil {
			return err
		}
	}
	return nil
}

func (r *postgresPlayerRepository) scanPlayer(rowScanner interface{ Scan(...interface{}) error }) (*models.Player, error) {
	var p models.Player
	err := rowScanner.Scan(&p.ID, &p.Pod, &p.Name, &p.Handicap)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *postgresPlayerRepository) ListAll(ctx context.Context, exec SQLExecutor) ([]*models.Player, error) {
	executor := r.getExecutor(exec)
	query := `SELECT id, pod, name, handicap FROM players ORDER BY pod, name`
	return r.list(ctx, executor, query)
}

func (r *postgresPlayerRepository) ListByPod(ctx context.Context, exec SQLExecutor, pod string) ([]*models.Player, error) {
	executor := r.getExecutor(exec)
	query := `SELECT id, pod, name, handicap FROM players WHERE pod = $1 ORDER BY name`
	return r.list(ctx, executor, query, pod)
}

func (r *postgresPlayerRepository) list(ctx context.Context, executor SQLExecutor, query string, args ...interface{}) ([]*models.Player, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := make([]*models.Player, 0)
	for rows.Next() {
		p, errScan := r.scanPlayer(rows)
		if errScan != nil {
			return nil, errScan
		}
		players = append(players, p)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return players, nil
}

func (r *postgresPlayerRepository) DeleteByPod(ctx context.Context, exec SQLExecutor, pod string) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx, `DELETE FROM players WHERE pod = $1`, pod)
	return err
}
