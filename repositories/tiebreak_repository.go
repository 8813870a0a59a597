package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fairwaycup/matchplay/models"
)

var ErrTiebreakSelectionNotFound = errors.New("tiebreak selection not found")

type TiebreakRepository interface {
	// Upsert records the committee's pick for one (pod, place) pair,
	// replacing any earlier pick for the same pair.
	Upsert(ctx context.Context, exec SQLExecutor, sel *models.TiebreakSelection) error
	ListAll(ctx context.Context, exec SQLExecutor) ([]models.TiebreakSelection, error)
	Delete(ctx context.Context, exec SQLExecutor, pod string, place models.Place) error
	DeleteAll(ctx context.Context, exec SQLExecutor) error
}

type postgresTiebreakRepository struct {
	db *sql.DB
}

func NewPostgresTiebreakRepository(db *sql.DB) TiebreakRepository {
	return &postgresTiebreakRepository{db: db}
}

func (r *postgresTiebreakRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresTiebreakRepository) Upsert(ctx context.Context, exec SQLExecutor, sel *models.TiebreakSelection) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO tiebreak_selections (pod, place, player)
		VALUES ($1, $2, $3)
		ON CONFLICT (pod, place)
		DO UPDATE SET player = EXCLUDED.player`
	_, err := executor.ExecContext(ctx, query, sel.Pod, sel.Place, sel.Player)
	return err
}

func (r *postgresTiebreakRepository) ListAll(ctx context.Context, exec SQLExecutor) ([]models.TiebreakSelection, error) {
	executor := r.getExecutor(exec)
	rows, err := executor.QueryContext(ctx,
		`SELECT pod, place, player FROM tiebreak_selections ORDER BY pod, place`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	selections := make([]models.TiebreakSelection, 0)
	for rows.Next() {
		var s models.TiebreakSelection
		if err := rows.Scan(&s.Pod, &s.Place, &s.Player); err != nil {
			return nil, err
		}
		selections = append(selections, s)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return selections, nil
}

func (r *postgresTiebreakRepository) Delete(ctx context.Context, exec SQLExecutor, pod string, place models.Place) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx,
		`DELETE FROM tiebreak_selections WHERE pod = $1 AND place = $2`, pod, place)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTiebreakSelectionNotFound)
}

func (r *postgresTiebreakRepository) DeleteAll(ctx context.Context, exec SQLExecutor) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx, `DELETE FROM tiebreak_selections`)
	return err
}
