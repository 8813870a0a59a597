package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fairwaycup/matchplay/cache"
	"github.com/fairwaycup/matchplay/engine"
	"github.com/fairwaycup/matchplay/live"
	"github.com/fairwaycup/matchplay/models"
	"github.com/fairwaycup/matchplay/repositories"
)

// SubmitPredictionInput is a full crowd slate: every slot of every
// round plus the champion.
type SubmitPredictionInput struct {
	Name     string   `json:"name"`
	R16Left  []string `json:"r16_left"`
	R16Right []string `json:"r16_right"`
	QFLeft   []string `json:"qf_left"`
	QFRight  []string `json:"qf_right"`
	SFLeft   []string `json:"sf_left"`
	SFRight  []string `json:"sf_right"`
	Champion string   `json:"champion"`
}

type PredictionService interface {
	Submit(ctx context.Context, input SubmitPredictionInput) (*models.Prediction, error)
	// Get looks a submitted slate up by name, case-insensitively.
	Get(ctx context.Context, name string) (*models.Prediction, error)
	// Leaderboard serves the cached snapshot, computing one on a cold
	// cache.
	Leaderboard(ctx context.Context) (cache.Snapshot, error)
	// Refresh regrades every slate against the latest confirmed result
	// and replaces the cached snapshot.
	Refresh(ctx context.Context) (cache.Snapshot, error)
}

type predictionService struct {
	predictionRepo  repositories.PredictionRepository
	finalResultRepo repositories.FinalResultRepository
	bracketRepo     repositories.BracketRepository
	snapshots       cache.LeaderboardStore
	hub             *live.Hub
	logger          *slog.Logger
}

func NewPredictionService(
	predictionRepo repositories.PredictionRepository,
	finalResultRepo repositories.FinalResultRepository,
	bracketRepo repositories.BracketRepository,
	snapshots cache.LeaderboardStore,
	hub *live.Hub,
	logger *slog.Logger,
) PredictionService {
	return &predictionService{
		predictionRepo:  predictionRepo,
		finalResultRepo: finalResultRepo,
		bracketRepo:     bracketRepo,
		snapshots:       snapshots,
		hub:             hub,
		logger:          logger,
	}
}

func (s *predictionService) Submit(ctx context.Context, input SubmitPredictionInput) (*models.Prediction, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: a name is required", ErrValidationFailed)
	}
	if err := validateSlateShape(input); err != nil {
		return nil, err
	}

	field, err := s.bracketRepo.ListField(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load bracket field: %w", err)
	}
	if len(field) == 0 {
		return nil, ErrFieldNotFinalized
	}
	if err := validateSlatePicks(input, field); err != nil {
		return nil, err
	}

	pred := &models.Prediction{
		Name:        strings.TrimSpace(input.Name),
		R16Left:     input.R16Left,
		R16Right:    input.R16Right,
		QFLeft:      input.QFLeft,
		QFRight:     input.QFRight,
		SFLeft:      input.SFLeft,
		SFRight:     input.SFRight,
		Champion:    input.Champion,
		SubmittedAt: time.Now(),
	}
	if err := s.predictionRepo.Create(ctx, nil, pred); err != nil {
		if errors.Is(err, repositories.ErrPredictionNameConflict) {
			return nil, fmt.Errorf("%w: a slate named %q was already submitted", ErrDuplicateSubmission, pred.Name)
		}
		return nil, fmt.Errorf("failed to store prediction: %w", err)
	}

	total, err := s.predictionRepo.Count(ctx, nil)
	if err != nil {
		total = -1
	}
	s.logger.Info("prediction submitted",
		slog.String("name", pred.Name),
		slog.Int("total", total))
	return pred, nil
}

func (s *predictionService) Get(ctx context.Context, name string) (*models.Prediction, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: a name is required", ErrValidationFailed)
	}
	pred, err := s.predictionRepo.GetByName(ctx, nil, name)
	if errors.Is(err, repositories.ErrPredictionNotFound) {
		return nil, fmt.Errorf("%w: no slate named %q", ErrPredictionNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load prediction: %w", err)
	}
	return pred, nil
}

// validateSlateShape checks slot counts and champion presence.
func validateSlateShape(input SubmitPredictionInput) error {
	shape := []struct {
		picks []string
		want  int
		label string
	}{
		{input.R16Left, 4, "r16_left"},
		{input.R16Right, 4, "r16_right"},
		{input.QFLeft, 2, "qf_left"},
		{input.QFRight, 2, "qf_right"},
		{input.SFLeft, 1, "sf_left"},
		{input.SFRight, 1, "sf_right"},
	}
	for _, s := range shape {
		if len(s.picks) != s.want {
			return fmt.Errorf("%w: %s needs %d picks, got %d", ErrValidationFailed, s.label, s.want, len(s.picks))
		}
		for _, pick := range s.picks {
			if strings.TrimSpace(pick) == "" {
				return fmt.Errorf("%w: %s has an empty pick", ErrValidationFailed, s.label)
			}
		}
	}
	if strings.TrimSpace(input.Champion) == "" {
		return fmt.Errorf("%w: a champion pick is required", ErrValidationFailed)
	}
	return nil
}

// validateSlatePicks checks every pick is a field entrant and that the
// slate is internally consistent: each pick must have survived the
// previous round of the same slate.
func validateSlatePicks(input SubmitPredictionInput, field []models.BracketEntrant) error {
	entrants := make(map[string]bool, len(field))
	for _, e := range field {
		entrants[e.Name] = true
	}
	for _, picks := range [][]string{input.R16Left, input.R16Right} {
		for _, pick := range picks {
			if !entrants[pick] {
				return fmt.Errorf("%w: %q is not in the field", ErrValidationFailed, pick)
			}
		}
	}

	checkFeeds := func(later, earlier []string, label string) error {
		for i, pick := range later {
			if pick != earlier[2*i] && pick != earlier[2*i+1] {
				return fmt.Errorf("%w: %s pick %q did not survive the previous round of this slate", ErrValidationFailed, label, pick)
			}
		}
		return nil
	}
	if err := checkFeeds(input.QFLeft, input.R16Left, "qf_left"); err != nil {
		return err
	}
	if err := checkFeeds(input.QFRight, input.R16Right, "qf_right"); err != nil {
		return err
	}
	if err := checkFeeds(input.SFLeft, input.QFLeft, "sf_left"); err != nil {
		return err
	}
	if err := checkFeeds(input.SFRight, input.QFRight, "sf_right"); err != nil {
		return err
	}
	if input.Champion != input.SFLeft[0] && input.Champion != input.SFRight[0] {
		return fmt.Errorf("%w: champion %q is not one of the slate's finalists", ErrValidationFailed, input.Champion)
	}
	return nil
}

func (s *predictionService) Leaderboard(ctx context.Context) (cache.Snapshot, error) {
	snap, found, err := s.snapshots.Get()
	if err != nil {
		s.logger.Warn("leaderboard cache read failed, recomputing", slog.Any("error", err))
	} else if found {
		return snap, nil
	}
	return s.Refresh(ctx)
}

func (s *predictionService) Refresh(ctx context.Context) (cache.Snapshot, error) {
	var (
		preds  []*models.Prediction
		actual *models.FinalResult
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		preds, err = s.predictionRepo.ListAll(gctx, nil)
		return err
	})
	g.Go(func() error {
		var err error
		actual, err = s.finalResultRepo.LoadLatest(gctx, nil)
		if errors.Is(err, repositories.ErrFinalResultNotFound) {
			// No confirmed outcome yet: an ungraded board still lists
			// submissions.
			actual = nil
			return nil
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return cache.Snapshot{}, fmt.Errorf("failed to load leaderboard inputs: %w", err)
	}

	snap := cache.Snapshot{
		Rows:        engine.RankLeaderboard(preds, actual),
		Graded:      actual != nil,
		RefreshedAt: time.Now(),
	}
	if err := s.snapshots.Set(snap); err != nil {
		s.logger.Warn("failed to cache leaderboard snapshot", slog.Any("error", err))
	}
	s.hub.Publish(live.TopicLeaderboard, live.MessageLeaderboardUpdated, snap)
	return snap, nil
}
