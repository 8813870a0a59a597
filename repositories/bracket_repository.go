package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fairwaycup/matchplay/models"
)

var ErrBracketMatchNotFound = errors.New("bracket match not found")

type BracketRepository interface {
	// ReplaceField atomically swaps in a new seeded field and wipes all
	// knockout match state, then seeds the round-of-16 slots. Must run
	// inside a transaction.
	ReplaceField(ctx context.Context, exec SQLExecutor, field []models.BracketEntrant, r16 []models.BracketMatch) error
	ListField(ctx context.Context, exec SQLExecutor) ([]models.BracketEntrant, error)
	UpsertMatch(ctx context.Context, exec SQLExecutor, match *models.BracketMatch) error
	ListMatches(ctx context.Context, exec SQLExecutor) ([]models.BracketMatch, error)
	ClearDecision(ctx context.Context, exec SQLExecutor, round models.Round, slot int) error
}

type postgresBracketRepository struct {
	db *sql.DB
}

func NewPostgresBracketRepository(db *sql.DB) BracketRepository {
	return &postgresBracketRepository{db: db}
}

func (r *postgresBracketRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresBracketRepository) ReplaceField(ctx context.Context, exec SQLExecutor, field []models.BracketEntrant, r16 []models.BracketMatch) error {
	executor := r.getExecutor(exec)

	if _, err := executor.ExecContext(ctx, `DELETE FROM bracket_matches`); err != nil {
		return fmt.Errorf("failed to clear bracket matches: %w", err)
	}
	if _, err := executor.ExecContext(ctx, `DELETE FROM bracket_field`); err != nil {
		return fmt.Errorf("failed to clear bracket field: %w", err)
	}

	for _, e := range field {
		_, err := executor.ExecContext(ctx, `
			INSERT INTO bracket_field (seed, name, handicap, origin_pod, place)
			VALUES ($1, $2, $3, $4, $5)`,
			e.Seed, e.Name, e.Handicap, e.OriginPod, e.Place,
		)
		if err != nil {
			return fmt.Errorf("failed to insert entrant %q: %w", e.Name, err)
		}
	}
	for i := range r16 {
		if err := r.UpsertMatch(ctx, executor, &r16[i]); err != nil {
			return fmt.Errorf("failed to seed round of 16 slot %d: %w", r16[i].SlotIndex, err)
		}
	}
	return nil
}

func (r *postgresBracketRepository) ListField(ctx context.Context, exec SQLExecutor) ([]models.BracketEntrant, error) {
	executor := r.getExecutor(exec)
	rows, err := executor.QueryContext(ctx,
		`SELECT seed, name, handicap, origin_pod, place FROM bracket_field ORDER BY seed`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	field := make([]models.BracketEntrant, 0, 16)
	for rows.Next() {
		var e models.BracketEntrant
		if err := rows.Scan(&e.Seed, &e.Name, &e.Handicap, &e.OriginPod, &e.Place); err != nil {
			return nil, err
		}
		field = append(field, e)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return field, nil
}

func (r *postgresBracketRepository) UpsertMatch(ctx context.Context, exec SQLExecutor, match *models.BracketMatch) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO bracket_matches (round, slot_index, player1, player2, winner, margin_label)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (round, slot_index)
		DO UPDATE SET player1 = EXCLUDED.player1, player2 = EXCLUDED.player2,
		              winner = EXCLUDED.winner, margin_label = EXCLUDED.margin_label`
	_, err := executor.ExecContext(ctx, query,
		match.Round, match.SlotIndex, match.Player1, match.Player2, match.Winner, match.MarginLabel,
	)
	return err
}

func (r *postgresBracketRepository) ListMatches(ctx context.Context, exec SQLExecutor) ([]models.BracketMatch, error) {
	executor := r.getExecutor(exec)
	rows, err := executor.QueryContext(ctx, `
		SELECT round, slot_index, player1, player2, winner, margin_label
		FROM bracket_matches
		ORDER BY CASE round
			WHEN 'r16' THEN 1 WHEN 'qf' THEN 2 WHEN 'sf' THEN 3 ELSE 4
		END, slot_index`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]models.BracketMatch, 0, 15)
	for rows.Next() {
		var m models.BracketMatch
		if err := rows.Scan(&m.Round, &m.SlotIndex, &m.Player1, &m.Player2, &m.Winner, &m.MarginLabel); err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}

func (r *postgresBracketRepository) ClearDecision(ctx context.Context, exec SQLExecutor, round models.Round, slot int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `
		UPDATE bracket_matches SET winner = NULL, margin_label = NULL
		WHERE round = $1 AND slot_index = $2`,
		round, slot,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrBracketMatchNotFound)
}
