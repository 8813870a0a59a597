package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/fairwaycup/matchplay/models"
)

var ErrMatchResultNotFound = errors.New("match result not found")

type MatchResultRepository interface {
	// Upsert stores a result for a pod pairing, overwriting a previous
	// entry for the same pair. The result's pair must be normalized
	// before the call so (A,B) and (B,A) hit the same row.
	Upsert(ctx context.Context, exec SQLExecutor, result *models.MatchResult) error
	ListAll(ctx context.Context, exec SQLExecutor) ([]models.MatchResult, error)
	ListByPod(ctx context.Context, exec SQLExecutor, pod string) ([]models.MatchResult, error)
	DeleteByPair(ctx context.Context, exec SQLExecutor, pod, playerA, playerB string) error
}

type postgresMatchResultRepository struct {
	db *sql.DB
}

func NewPostgresMatchResultRepository(db *sql.DB) MatchResultRepository {
	return &postgresMatchResultRepository{db: db}
}

func (r *postgresMatchResultRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresMatchResultRepository) Upsert(ctx context.Context, exec SQLExecutor, result *models.MatchResult) error {
	executor := r.getExecutor(exec)
	if result.UpdatedAt.IsZero() {
		result.UpdatedAt = time.Now()
	}
	query := `
		INSERT INTO match_results (pod, player_a, player_b, winner, margin, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (pod, player_a, player_b)
		DO UPDATE SET winner = EXCLUDED.winner, margin = EXCLUDED.margin, updated_at = EXCLUDED.updated_at
		RETURNING id`
	return executor.QueryRowContext(ctx, query,
		result.Pod, result.PlayerA, result.PlayerB, result.Winner, result.Margin, result.UpdatedAt,
	).Scan(&result.ID)
}

func (r *postgresMatchResultRepository) scanResult(rowScanner interface{ Scan(...interface{}) error }) (models.MatchResult, error) {
	var m models.MatchResult
	err := rowScanner.Scan(&m.ID, &m.Pod, &m.PlayerA, &m.PlayerB, &m.Winner, &m.Margin, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.MatchResult{}, ErrMatchResultNotFound
		}
		return models.MatchResult{}, err
	}
	return m, nil
}

func (r *postgresMatchResultRepository) ListAll(ctx context.Context, exec SQLExecutor) ([]models.MatchResult, error) {
	query := `
		SELECT id, pod, player_a, player_b, winner, margin, updated_at
		FROM match_results ORDER BY pod, player_a, player_b`
	return r.list(ctx, r.getExecutor(exec), query)
}

func (r *postgresMatchResultRepository) ListByPod(ctx context.Context, exec SQLExecutor, pod string) ([]models.MatchResult, error) {
	query := `
		SELECT id, pod, player_a, player_b, winner, margin, updated_at
		FROM match_results WHERE pod = $1 ORDER BY player_a, player_b`
	return r.list(ctx, r.getExecutor(exec), query, pod)
}

func (r *postgresMatchResultRepository) list(ctx context.Context, executor SQLExecutor, query string, args ...interface{}) ([]models.MatchResult, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]models.MatchResult, 0)
	for rows.Next() {
		m, errScan := r.scanResult(rows)
		if errScan != nil {
			return nil, errScan
		}
		results = append(results, m)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *postgresMatchResultRepository) DeleteByPair(ctx context.Context, exec SQLExecutor, pod, playerA, playerB string) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx,
		`DELETE FROM match_results WHERE pod = $1 AND player_a = $2 AND player_b = $3`,
		pod, playerA, playerB,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchResultNotFound)
}
