package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fairwaycup/matchplay/engine"
	"github.com/fairwaycup/matchplay/live"
	"github.com/fairwaycup/matchplay/models"
	"github.com/fairwaycup/matchplay/repositories"
)

// RecordResultInput is an admin entry for one round-robin match. The
// margin arrives as a match-play label ("2 and 1"); ties carry none.
type RecordResultInput struct {
	Pod         string `json:"pod"`
	PlayerA     string `json:"player_a"`
	PlayerB     string `json:"player_b"`
	Winner      string `json:"winner"`
	MarginLabel string `json:"margin_label"`
}

// PodStandingsView is one pod's sorted table.
type PodStandingsView struct {
	Pod  string                `json:"pod"`
	Rows []models.StandingsRow `json:"rows"`
}

// RosterPlayerInput is one roster line for pod setup.
type RosterPlayerInput struct {
	Name     string   `json:"name"`
	Handicap *float64 `json:"handicap"`
}

// ReplaceRosterInput swaps out a pod's full membership.
type ReplaceRosterInput struct {
	Pod     string              `json:"pod"`
	Players []RosterPlayerInput `json:"players"`
}

type StandingsService interface {
	ListPods(ctx context.Context) ([]models.Pod, error)
	// ReplaceRoster replaces a pod's membership in one transaction.
	// Intended for tournament setup; entered results reference players
	// by name and are not rewritten.
	ReplaceRoster(ctx context.Context, input ReplaceRosterInput) ([]*models.Player, error)
	Standings(ctx context.Context) ([]PodStandingsView, error)
	ResultsLog(ctx context.Context) ([]models.MatchResult, error)
	RecordResult(ctx context.Context, input RecordResultInput) (*models.MatchResult, error)
	DeleteResult(ctx context.Context, pod, playerA, playerB string) error
	TiebreakStatus(ctx context.Context) (*engine.Resolution, error)
	SelectTiebreakWinner(ctx context.Context, sel models.TiebreakSelection) (*engine.Resolution, error)
	// ClearTiebreaks discards committee selections: one (pod, place)
	// pair when given, or every selection when pod is empty.
	ClearTiebreaks(ctx context.Context, pod string, place models.Place) (*engine.Resolution, error)
}

type standingsService struct {
	db           *sql.DB
	playerRepo   repositories.PlayerRepository
	matchRepo    repositories.MatchResultRepository
	tiebreakRepo repositories.TiebreakRepository
	hub          *live.Hub
	logger       *slog.Logger
}

func NewStandingsService(
	db *sql.DB,
	playerRepo repositories.PlayerRepository,
	matchRepo repositories.MatchResultRepository,
	tiebreakRepo repositories.TiebreakRepository,
	hub *live.Hub,
	logger *slog.Logger,
) StandingsService {
	return &standingsService{
		db:           db,
		playerRepo:   playerRepo,
		matchRepo:    matchRepo,
		tiebreakRepo: tiebreakRepo,
		hub:          hub,
		logger:       logger,
	}
}

func (s *standingsService) ReplaceRoster(ctx context.Context, input ReplaceRosterInput) ([]*models.Player, error) {
	if strings.TrimSpace(input.Pod) == "" {
		return nil, fmt.Errorf("%w: a pod name is required", ErrValidationFailed)
	}
	if len(input.Players) < 2 {
		return nil, fmt.Errorf("%w: a pod needs at least 2 players", ErrValidationFailed)
	}
	seen := make(map[string]bool, len(input.Players))
	players := make([]*models.Player, 0, len(input.Players))
	for _, p := range input.Players {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: every roster line needs a name", ErrValidationFailed)
		}
		if seen[name] {
			return nil, fmt.Errorf("%w: %q appears twice in the roster", ErrValidationFailed, name)
		}
		seen[name] = true
		players = append(players, &models.Player{Pod: input.Pod, Name: name, Handicap: p.Handicap})
	}

	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.playerRepo.DeleteByPod(ctx, tx, input.Pod); err != nil {
			return err
		}
		return s.playerRepo.BatchCreate(ctx, tx, players)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNameConflict) {
			return nil, fmt.Errorf("%w: duplicate player name in %s", ErrValidationFailed, input.Pod)
		}
		return nil, fmt.Errorf("failed to replace roster for %s: %w", input.Pod, err)
	}

	s.logger.Info("pod roster replaced",
		slog.String("pod", input.Pod),
		slog.Int("players", len(players)))
	s.publishStandings(ctx)
	return players, nil
}

func (s *standingsService) ListPods(ctx context.Context) ([]models.Pod, error) {
	players, err := s.playerRepo.ListAll(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list roster: %w", err)
	}
	return groupPods(players), nil
}

// standingsByPod computes every pod's table from the results log.
func (s *standingsService) standingsByPod(ctx context.Context, exec repositories.SQLExecutor) (map[string][]models.StandingsRow, []models.Pod, error) {
	players, err := s.playerRepo.ListAll(ctx, exec)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list roster: %w", err)
	}
	results, err := s.matchRepo.ListAll(ctx, exec)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list match results: %w", err)
	}
	pods := groupPods(players)
	byPod := make(map[string][]models.StandingsRow, len(pods))
	for _, pod := range pods {
		rows := engine.ComputeStandings(pod, results)
		engine.SortStandings(rows)
		byPod[pod.Name] = rows
	}
	return byPod, pods, nil
}

func (s *standingsService) Standings(ctx context.Context) ([]PodStandingsView, error) {
	byPod, pods, err := s.standingsByPod(ctx, nil)
	if err != nil {
		return nil, err
	}
	views := make([]PodStandingsView, 0, len(pods))
	for _, pod := range pods {
		views = append(views, PodStandingsView{Pod: pod.Name, Rows: byPod[pod.Name]})
	}
	return views, nil
}

func (s *standingsService) ResultsLog(ctx context.Context) ([]models.MatchResult, error) {
	results, err := s.matchRepo.ListAll(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list match results: %w", err)
	}
	return results, nil
}

func (s *standingsService) RecordResult(ctx context.Context, input RecordResultInput) (*models.MatchResult, error) {
	result, err := s.validateResult(ctx, input)
	if err != nil {
		return nil, err
	}
	if err := s.matchRepo.Upsert(ctx, nil, result); err != nil {
		return nil, fmt.Errorf("failed to store match result: %w", err)
	}

	s.logger.Info("match result recorded",
		slog.String("pod", result.Pod),
		slog.String("winner", result.Winner))
	s.publishStandings(ctx)
	return result, nil
}

// publishStandings pushes the recomputed tables to live subscribers. A
// failed recompute only costs the broadcast, not the caller's write.
func (s *standingsService) publishStandings(ctx context.Context) {
	views, err := s.Standings(ctx)
	if err != nil {
		s.logger.Warn("failed to recompute standings for broadcast", slog.Any("error", err))
		return
	}
	s.hub.Publish(live.TopicStandings, live.MessageStandingsUpdated, views)
}

func (s *standingsService) validateResult(ctx context.Context, input RecordResultInput) (*models.MatchResult, error) {
	if input.Pod == "" || input.PlayerA == "" || input.PlayerB == "" {
		return nil, fmt.Errorf("%w: pod and both players are required", ErrValidationFailed)
	}
	if input.PlayerA == input.PlayerB {
		return nil, fmt.Errorf("%w: a player cannot play themselves", ErrValidationFailed)
	}

	members, err := s.playerRepo.ListByPod(ctx, nil, input.Pod)
	if err != nil {
		return nil, fmt.Errorf("failed to list pod %q: %w", input.Pod, err)
	}
	if len(members) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrPodNotFound, input.Pod)
	}
	inPod := make(map[string]bool, len(members))
	for _, m := range members {
		inPod[m.Name] = true
	}
	for _, name := range []string{input.PlayerA, input.PlayerB} {
		if !inPod[name] {
			return nil, fmt.Errorf("%w: %q is not in %s", ErrPlayerNotFound, name, input.Pod)
		}
	}

	result := &models.MatchResult{
		Pod:     input.Pod,
		PlayerA: input.PlayerA,
		PlayerB: input.PlayerB,
		Winner:  input.Winner,
	}
	switch {
	case strings.EqualFold(input.Winner, models.WinnerTie):
		result.Winner = models.WinnerTie
		if input.MarginLabel != "" {
			return nil, fmt.Errorf("%w: a tie has no margin", ErrValidationFailed)
		}
	case input.Winner == input.PlayerA || input.Winner == input.PlayerB:
		margin, ok := engine.MarginValue(input.MarginLabel)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownMarginLabel, input.MarginLabel)
		}
		result.Margin = margin
	default:
		return nil, fmt.Errorf("%w: winner %q is not one of the players", ErrValidationFailed, input.Winner)
	}
	result.NormalizePair()
	return result, nil
}

func (s *standingsService) DeleteResult(ctx context.Context, pod, playerA, playerB string) error {
	m := models.MatchResult{Pod: pod, PlayerA: playerA, PlayerB: playerB}
	m.NormalizePair()
	err := s.matchRepo.DeleteByPair(ctx, nil, m.Pod, m.PlayerA, m.PlayerB)
	if errors.Is(err, repositories.ErrMatchResultNotFound) {
		return fmt.Errorf("%w: no result for %s vs %s in %s", ErrMatchNotFound, playerA, playerB, pod)
	}
	if err == nil {
		s.logger.Info("match result deleted",
			slog.String("pod", m.Pod),
			slog.String("pair", m.PlayerA+" vs "+m.PlayerB))
		s.publishStandings(ctx)
	}
	return err
}

// resolution runs the tiebreak resolver over current standings and all
// stored committee selections.
func (s *standingsService) resolution(ctx context.Context, exec repositories.SQLExecutor) (*engine.Resolution, error) {
	byPod, _, err := s.standingsByPod(ctx, exec)
	if err != nil {
		return nil, err
	}
	selections, err := s.tiebreakRepo.ListAll(ctx, exec)
	if err != nil {
		return nil, fmt.Errorf("failed to list tiebreak selections: %w", err)
	}
	res := engine.ResolveTiebreaks(byPod, selections)
	return &res, nil
}

func (s *standingsService) TiebreakStatus(ctx context.Context) (*engine.Resolution, error) {
	return s.resolution(ctx, nil)
}

func (s *standingsService) SelectTiebreakWinner(ctx context.Context, sel models.TiebreakSelection) (*engine.Resolution, error) {
	if sel.Pod == "" || sel.Player == "" {
		return nil, fmt.Errorf("%w: pod and player are required", ErrValidationFailed)
	}
	if sel.Place != models.PlaceFirst && sel.Place != models.PlaceSecond {
		return nil, fmt.Errorf("%w: place must be %q or %q", ErrValidationFailed, models.PlaceFirst, models.PlaceSecond)
	}

	res, err := s.resolution(ctx, nil)
	if err != nil {
		return nil, err
	}
	pending := false
	for _, tie := range res.Pending {
		if tie.Pod != sel.Pod || tie.Place != sel.Place {
			continue
		}
		for _, name := range tie.Players {
			if name == sel.Player {
				pending = true
			}
		}
		if !pending {
			return nil, fmt.Errorf("%w: %q is not part of the %s %s tie", ErrValidationFailed, sel.Player, sel.Pod, sel.Place)
		}
	}
	if !pending {
		return nil, fmt.Errorf("%w: no pending %s tie in %s", ErrStaleState, sel.Place, sel.Pod)
	}

	if err := s.tiebreakRepo.Upsert(ctx, nil, &sel); err != nil {
		return nil, fmt.Errorf("failed to store tiebreak selection: %w", err)
	}

	s.logger.Info("tiebreak resolved",
		slog.String("pod", sel.Pod),
		slog.String("place", string(sel.Place)),
		slog.String("player", sel.Player))
	return s.resolution(ctx, nil)
}

func (s *standingsService) ClearTiebreaks(ctx context.Context, pod string, place models.Place) (*engine.Resolution, error) {
	switch {
	case pod == "" && place == "":
		if err := s.tiebreakRepo.DeleteAll(ctx, nil); err != nil {
			return nil, fmt.Errorf("failed to clear tiebreak selections: %w", err)
		}
		s.logger.Info("all tiebreak selections cleared")
	case pod != "" && (place == models.PlaceFirst || place == models.PlaceSecond):
		err := s.tiebreakRepo.Delete(ctx, nil, pod, place)
		if errors.Is(err, repositories.ErrTiebreakSelectionNotFound) {
			return nil, fmt.Errorf("%w: no %s selection for %s", ErrNotFound, place, pod)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to clear tiebreak selection: %w", err)
		}
		s.logger.Info("tiebreak selection cleared",
			slog.String("pod", pod),
			slog.String("place", string(place)))
	default:
		return nil, fmt.Errorf("%w: clear one (pod, place) pair or everything", ErrValidationFailed)
	}
	return s.resolution(ctx, nil)
}
