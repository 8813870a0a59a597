package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"github.com/fairwaycup/matchplay/models"
)

var ErrFinalResultNotFound = errors.New("final result not found")

type FinalResultRepository interface {
	// Create appends a confirmed outcome. Rows are never updated in
	// place; the latest row is the one that grades predictions.
	Create(ctx context.Context, exec SQLExecutor, result *models.FinalResult) error
	LoadLatest(ctx context.Context, exec SQLExecutor) (*models.FinalResult, error)
}

type postgresFinalResultRepository struct {
	db *sql.DB
}

func NewPostgresFinalResultRepository(db *sql.DB) FinalResultRepository {
	return &postgresFinalResultRepository{db: db}
}

func (r *postgresFinalResultRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresFinalResultRepository) Create(ctx context.Context, exec SQLExecutor, result *models.FinalResult) error {
	executor := r.getExecutor(exec)
	if result.CreatedAt.IsZero() {
		result.CreatedAt = time.Now()
	}
	query := `
		INSERT INTO final_results
		    (r16_left, r16_right, qf_left, qf_right, sf_left, sf_right, champion, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	return executor.QueryRowContext(ctx, query,
		pq.Array(result.R16Left), pq.Array(result.R16Right),
		pq.Array(result.QFLeft), pq.Array(result.QFRight),
		pq.Array(result.SFLeft), pq.Array(result.SFRight),
		result.Champion, result.CreatedAt,
	).Scan(&result.ID)
}

func (r *postgresFinalResultRepository) LoadLatest(ctx context.Context, exec SQLExecutor) (*models.FinalResult, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, r16_left, r16_right, qf_left, qf_right, sf_left, sf_right, champion, created_at
		FROM final_results ORDER BY created_at DESC, id DESC LIMIT 1`
	var f models.FinalResult
	err := executor.QueryRowContext(ctx, query).Scan(
		&f.ID,
		pq.Array(&f.R16Left), pq.Array(&f.R16Right),
		pq.Array(&f.QFLeft), pq.Array(&f.QFRight),
		pq.Array(&f.SFLeft), pq.Array(&f.SFRight),
		&f.Champion, &f.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFinalResultNotFound
		}
		return nil, err
	}
	return &f, nil
}
