package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/fairwaycup/matchplay/models"
)

var (
	ErrPredictionNotFound     = errors.New("prediction not found")
	ErrPredictionNameConflict = errors.New("prediction name already submitted")
)

type PredictionRepository interface {
	// Create stores a slate. Names are unique case-insensitively; a
	// second submission under the same name (in any casing) fails with
	// ErrPredictionNameConflict.
	Create(ctx context.Context, exec SQLExecutor, pred *models.Prediction) error
	GetByName(ctx context.Context, exec SQLExecutor, name string) (*models.Prediction, error)
	ListAll(ctx context.Context, exec SQLExecutor) ([]*models.Prediction, error)
	Count(ctx context.Context, exec SQLExecutor) (int, error)
}

type postgresPredictionRepository struct {
	db *sql.DB
}

func NewPostgresPredictionRepository(db *sql.DB) PredictionRepository {
	return &postgresPredictionRepository{db: db}
}

func (r *postgresPredictionRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresPredictionRepository) Create(ctx context.Context, exec SQLExecutor, pred *models.Prediction) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO predictions
		    (name, r16_left, r16_right, qf_left, qf_right, sf_left, sf_right, champion, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`
	err := executor.QueryRowContext(ctx, query,
		pred.Name,
		pq.Array(pred.R16Left), pq.Array(pred.R16Right),
		pq.Array(pred.QFLeft), pq.Array(pred.QFRight),
		pq.Array(pred.SFLeft), pq.Array(pred.SFRight),
		pred.Champion, pred.SubmittedAt,
	).Scan(&pred.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			if pqErr.Constraint == "predictions_name_lower_key" {
				return ErrPredictionNameConflict
			}
		}
		return err
	}
	return nil
}

func (r *postgresPredictionRepository) scanPrediction(rowScanner interface{ Scan(...interface{}) error }) (*models.Prediction, error) {
	var p models.Prediction
	err := rowScanner.Scan(
		&p.ID, &p.Name,
		pq.Array(&p.R16Left), pq.Array(&p.R16Right),
		pq.Array(&p.QFLeft), pq.Array(&p.QFRight),
		pq.Array(&p.SFLeft), pq.Array(&p.SFRight),
		&p.Champion, &p.SubmittedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPredictionNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *postgresPredictionRepository) GetByName(ctx context.Context, exec SQLExecutor, name string) (*models.Prediction, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, name, r16_left, r16_right, qf_left, qf_right, sf_left, sf_right, champion, submitted_at
		FROM predictions WHERE lower(name) = lower($1)`
	return r.scanPrediction(executor.QueryRowContext(ctx, query, name))
}

func (r *postgresPredictionRepository) ListAll(ctx context.Context, exec SQLExecutor) ([]*models.Prediction, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, name, r16_left, r16_right, qf_left, qf_right, sf_left, sf_right, champion, submitted_at
		FROM predictions ORDER BY submitted_at, id`
	rows, err := executor.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	preds := make([]*models.Prediction, 0)
	for rows.Next() {
		p, errScan := r.scanPrediction(rows)
		if errScan != nil {
			return nil, errScan
		}
		preds = append(preds, p)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return preds, nil
}

func (r *postgresPredictionRepository) Count(ctx context.Context, exec SQLExecutor) (int, error) {
	executor := r.getExecutor(exec)
	var n int
	err := executor.QueryRowContext(ctx, `SELECT COUNT(*) FROM predictions`).Scan(&n)
	return n, err
}
