package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/fairwaycup/matchplay/engine"
	"github.com/fairwaycup/matchplay/live"
	"github.com/fairwaycup/matchplay/models"
	"github.com/fairwaycup/matchplay/repositories"
)

// BracketView is the full knockout state served to clients.
type BracketView struct {
	Field   []models.BracketEntrant `json:"field"`
	Matches []models.BracketMatch   `json:"matches"`
}

// DecideMatchInput confirms one knockout result.
type DecideMatchInput struct {
	Round       models.Round `json:"round"`
	SlotIndex   int          `json:"slot_index"`
	Winner      string       `json:"winner"`
	MarginLabel string       `json:"margin_label"`
}

type BracketService interface {
	// FinalizeField builds the 16-player field from current standings
	// and tiebreak selections, wiping any previous knockout progress.
	FinalizeField(ctx context.Context) (*BracketView, error)
	View(ctx context.Context) (*BracketView, error)
	DecideMatch(ctx context.Context, input DecideMatchInput) (*BracketView, error)
	UnlockMatch(ctx context.Context, round models.Round, slot int) ([]engine.SlotRef, error)
	// ConfirmFinal snapshots the decided bracket into the result that
	// grades predictions.
	ConfirmFinal(ctx context.Context) (*models.FinalResult, error)
}

type bracketService struct {
	db              *sql.DB
	bracketRepo     repositories.BracketRepository
	finalResultRepo repositories.FinalResultRepository
	standings       StandingsService
	pairing         engine.PairingPolicy
	hub             *live.Hub
	logger          *slog.Logger
}

func NewBracketService(
	db *sql.DB,
	bracketRepo repositories.BracketRepository,
	finalResultRepo repositories.FinalResultRepository,
	standings StandingsService,
	pairing engine.PairingPolicy,
	hub *live.Hub,
	logger *slog.Logger,
) BracketService {
	return &bracketService{
		db:              db,
		bracketRepo:     bracketRepo,
		finalResultRepo: finalResultRepo,
		standings:       standings,
		pairing:         pairing,
		hub:             hub,
		logger:          logger,
	}
}

func (s *bracketService) FinalizeField(ctx context.Context) (*BracketView, error) {
	res, err := s.standings.TiebreakStatus(ctx)
	if err != nil {
		return nil, err
	}
	field, err := engine.BuildField(*res, engine.FieldConfig{Pairing: s.pairing})
	if err != nil {
		return nil, mapEngineError(err)
	}
	r16, err := s.pairing.PairR16(field)
	if err != nil {
		return nil, mapEngineError(err)
	}

	err = runInTx(ctx, s.db, func(tx *sql.Tx) error {
		return s.bracketRepo.ReplaceField(ctx, tx, field, r16)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to persist bracket field: %w", err)
	}

	s.logger.Info("bracket field finalized",
		slog.Int("entrants", len(field)),
		slog.String("pairing", string(s.pairing)))
	view := &BracketView{Field: field, Matches: r16}
	s.hub.Publish(live.TopicBracket, live.MessageBracketUpdated, view)
	return view, nil
}

// loadBracket restores the progression state machine from the store.
func (s *bracketService) loadBracket(ctx context.Context) (*engine.Bracket, error) {
	var (
		field   []models.BracketEntrant
		matches []models.BracketMatch
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		field, err = s.bracketRepo.ListField(gctx, nil)
		return err
	})
	g.Go(func() error {
		var err error
		matches, err = s.bracketRepo.ListMatches(gctx, nil)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load bracket state: %w", err)
	}
	if len(field) == 0 {
		return nil, ErrFieldNotFinalized
	}
	bracket, err := engine.RestoreBracket(field, matches)
	if err != nil {
		return nil, fmt.Errorf("failed to restore bracket: %w", err)
	}
	return bracket, nil
}

func (s *bracketService) View(ctx context.Context) (*BracketView, error) {
	bracket, err := s.loadBracket(ctx)
	if err != nil {
		return nil, err
	}
	return &BracketView{Field: bracket.Entrants, Matches: bracket.Matches()}, nil
}

func (s *bracketService) DecideMatch(ctx context.Context, input DecideMatchInput) (*BracketView, error) {
	var marginLabel *string
	if input.MarginLabel != "" {
		if _, ok := engine.MarginValue(input.MarginLabel); !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownMarginLabel, input.MarginLabel)
		}
		marginLabel = &input.MarginLabel
	}

	bracket, err := s.loadBracket(ctx)
	if err != nil {
		return nil, err
	}
	if err := bracket.Decide(input.Round, input.SlotIndex, input.Winner, marginLabel); err != nil {
		return nil, mapEngineError(err)
	}
	if err := s.persistMatches(ctx, bracket.Matches()); err != nil {
		return nil, err
	}

	s.logger.Info("knockout match decided",
		slog.String("round", string(input.Round)),
		slog.Int("slot", input.SlotIndex),
		slog.String("winner", input.Winner))
	view := &BracketView{Field: bracket.Entrants, Matches: bracket.Matches()}
	s.hub.Publish(live.TopicBracket, live.MessageBracketUpdated, view)
	return view, nil
}

func (s *bracketService) UnlockMatch(ctx context.Context, round models.Round, slot int) ([]engine.SlotRef, error) {
	bracket, err := s.loadBracket(ctx)
	if err != nil {
		return nil, err
	}
	reset, err := bracket.Unlock(round, slot)
	if err != nil {
		return nil, mapEngineError(err)
	}
	if len(reset) == 0 {
		return nil, nil
	}
	// Only decisions are cleared; derived entrants are recomputed on
	// every load, so the reset refs are exactly what must be stored.
	err = runInTx(ctx, s.db, func(tx *sql.Tx) error {
		for _, ref := range reset {
			if err := s.bracketRepo.ClearDecision(ctx, tx, ref.Round, ref.Slot); err != nil {
				return fmt.Errorf("failed to clear %s[%d]: %w", ref.Round, ref.Slot, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to persist unlock: %w", err)
	}

	s.logger.Info("knockout match unlocked",
		slog.String("round", string(round)),
		slog.Int("slot", slot),
		slog.Int("cascaded", len(reset)))
	s.hub.Publish(live.TopicBracket, live.MessageBracketUpdated,
		&BracketView{Field: bracket.Entrants, Matches: bracket.Matches()})
	return reset, nil
}

// persistMatches writes the full slot set in one transaction so a
// decide or cascade is stored atomically.
func (s *bracketService) persistMatches(ctx context.Context, matches []models.BracketMatch) error {
	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		for i := range matches {
			if err := s.bracketRepo.UpsertMatch(ctx, tx, &matches[i]); err != nil {
				return fmt.Errorf("failed to store %s[%d]: %w", matches[i].Round, matches[i].SlotIndex, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to persist bracket matches: %w", err)
	}
	return nil
}

func (s *bracketService) ConfirmFinal(ctx context.Context) (*models.FinalResult, error) {
	bracket, err := s.loadBracket(ctx)
	if err != nil {
		return nil, err
	}
	result, err := bracket.Snapshot()
	if err != nil {
		return nil, mapEngineError(err)
	}
	if err := s.finalResultRepo.Create(ctx, nil, result); err != nil {
		return nil, fmt.Errorf("failed to store final result: %w", err)
	}

	s.logger.Info("final result confirmed", slog.String("champion", result.Champion))
	s.hub.Publish(live.TopicLeaderboard, live.MessageLeaderboardUpdated, result)
	return result, nil
}

// mapEngineError translates engine sentinels into the service taxonomy
// that the HTTP layer knows how to map.
func mapEngineError(err error) error {
	switch {
	case errors.Is(err, engine.ErrUnresolvedTie):
		return fmt.Errorf("%w: %v", ErrUnresolvedTie, err)
	case errors.Is(err, engine.ErrNotReady), errors.Is(err, engine.ErrFieldIncomplete):
		return fmt.Errorf("%w: %v", ErrIncompleteData, err)
	case errors.Is(err, engine.ErrFeedersIncomplete):
		return fmt.Errorf("%w: %v", ErrFeedersIncomplete, err)
	case errors.Is(err, engine.ErrTieNotAllowed):
		return ErrTieNotAllowed
	case errors.Is(err, engine.ErrAlreadyDecided), errors.Is(err, engine.ErrUnknownEntrant):
		return fmt.Errorf("%w: %v", ErrStaleState, err)
	case errors.Is(err, engine.ErrFinalNotDecided):
		return ErrFinalNotDecided
	case errors.Is(err, engine.ErrDuplicateEntrant),
		errors.Is(err, engine.ErrUnknownRound),
		errors.Is(err, engine.ErrSlotOutOfRange),
		errors.Is(err, engine.ErrUnknownPairing):
		return fmt.Errorf("%w: %v", ErrValidationFailed, err)
	default:
		return err
	}
}
