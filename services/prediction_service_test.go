package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairwaycup/matchplay/cache"
	"github.com/fairwaycup/matchplay/live"
	"github.com/fairwaycup/matchplay/models"
	"github.com/fairwaycup/matchplay/repositories"
)

type fakePredictionRepo struct {
	preds []*models.Prediction
}

func (f *fakePredictionRepo) Create(_ context.Context, _ repositories.SQLExecutor, pred *models.Prediction) error {
	for _, existing := range f.preds {
		if strings.EqualFold(existing.Name, pred.Name) {
			return repositories.ErrPredictionNameConflict
		}
	}
	pred.ID = len(f.preds) + 1
	f.preds = append(f.preds, pred)
	return nil
}

func (f *fakePredictionRepo) GetByName(_ context.Context, _ repositories.SQLExecutor, name string) (*models.Prediction, error) {
	for _, p := range f.preds {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return nil, repositories.ErrPredictionNotFound
}

func (f *fakePredictionRepo) ListAll(context.Context, repositories.SQLExecutor) ([]*models.Prediction, error) {
	return f.preds, nil
}

func (f *fakePredictionRepo) Count(context.Context, repositories.SQLExecutor) (int, error) {
	return len(f.preds), nil
}

type fakeFinalResultRepo struct {
	latest *models.FinalResult
}

func (f *fakeFinalResultRepo) Create(_ context.Context, _ repositories.SQLExecutor, result *models.FinalResult) error {
	f.latest = result
	return nil
}

func (f *fakeFinalResultRepo) LoadLatest(context.Context, repositories.SQLExecutor) (*models.FinalResult, error) {
	if f.latest == nil {
		return nil, repositories.ErrFinalResultNotFound
	}
	return f.latest, nil
}

type fakeBracketRepo struct {
	field   []models.BracketEntrant
	matches []models.BracketMatch
}

func (f *fakeBracketRepo) ReplaceField(_ context.Context, _ repositories.SQLExecutor, field []models.BracketEntrant, r16 []models.BracketMatch) error {
	f.field = field
	f.matches = r16
	return nil
}

func (f *fakeBracketRepo) ListField(context.Context, repositories.SQLExecutor) ([]models.BracketEntrant, error) {
	return f.field, nil
}

func (f *fakeBracketRepo) UpsertMatch(_ context.Context, _ repositories.SQLExecutor, match *models.BracketMatch) error {
	for i := range f.matches {
		if f.matches[i].Round == match.Round && f.matches[i].SlotIndex == match.SlotIndex {
			f.matches[i] = *match
			return nil
		}
	}
	f.matches = append(f.matches, *match)
	return nil
}

func (f *fakeBracketRepo) ListMatches(context.Context, repositories.SQLExecutor) ([]models.BracketMatch, error) {
	return f.matches, nil
}

func (f *fakeBracketRepo) ClearDecision(context.Context, repositories.SQLExecutor, models.Round, int) error {
	return nil
}

type fakeSnapshotStore struct {
	snap  cache.Snapshot
	found bool
}

func (f *fakeSnapshotStore) Get() (cache.Snapshot, bool, error) { return f.snap, f.found, nil }
func (f *fakeSnapshotStore) Set(snap cache.Snapshot) error {
	f.snap = snap
	f.found = true
	return nil
}
func (f *fakeSnapshotStore) Close() error { return nil }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sixteenEntrants() []models.BracketEntrant {
	field := make([]models.BracketEntrant, 16)
	for i := range field {
		field[i] = models.BracketEntrant{Seed: i + 1, Name: fmt.Sprintf("P%d", i+1)}
	}
	return field
}

func validSlate(name string) SubmitPredictionInput {
	return SubmitPredictionInput{
		Name:     name,
		R16Left:  []string{"P1", "P3", "P5", "P7"},
		R16Right: []string{"P9", "P11", "P13", "P15"},
		QFLeft:   []string{"P1", "P5"},
		QFRight:  []string{"P9", "P13"},
		SFLeft:   []string{"P1"},
		SFRight:  []string{"P9"},
		Champion: "P1",
	}
}

func newPredictionFixture() (PredictionService, *fakePredictionRepo, *fakeFinalResultRepo, *fakeSnapshotStore) {
	predRepo := &fakePredictionRepo{}
	finalRepo := &fakeFinalResultRepo{}
	bracketRepo := &fakeBracketRepo{field: sixteenEntrants()}
	snapshots := &fakeSnapshotStore{}
	logger := testLogger()
	svc := NewPredictionService(predRepo, finalRepo, bracketRepo, snapshots, live.NewHub(logger), logger)
	return svc, predRepo, finalRepo, snapshots
}

func TestSubmitPrediction(t *testing.T) {
	svc, repo, _, _ := newPredictionFixture()

	pred, err := svc.Submit(context.Background(), validSlate("Alice"))
	require.NoError(t, err)
	assert.Equal(t, "Alice", pred.Name)
	assert.False(t, pred.SubmittedAt.IsZero())
	assert.Len(t, repo.preds, 1)
}

func TestSubmitPredictionDuplicateNameCaseInsensitive(t *testing.T) {
	svc, repo, _, _ := newPredictionFixture()

	_, err := svc.Submit(context.Background(), validSlate("Alice"))
	require.NoError(t, err)

	// Same name in a different casing is still a duplicate.
	_, err = svc.Submit(context.Background(), validSlate("alice"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateSubmission)
	assert.Len(t, repo.preds, 1)
}

func TestSubmitPredictionValidation(t *testing.T) {
	svc, _, _, _ := newPredictionFixture()
	ctx := context.Background()

	t.Run("name required", func(t *testing.T) {
		slate := validSlate("  ")
		_, err := svc.Submit(ctx, slate)
		assert.ErrorIs(t, err, ErrValidationFailed)
	})

	t.Run("wrong slot count", func(t *testing.T) {
		slate := validSlate("Bob")
		slate.QFLeft = []string{"P1"}
		_, err := svc.Submit(ctx, slate)
		assert.ErrorIs(t, err, ErrValidationFailed)
	})

	t.Run("pick outside the field", func(t *testing.T) {
		slate := validSlate("Bob")
		slate.R16Left[1] = "Zed"
		_, err := svc.Submit(ctx, slate)
		assert.ErrorIs(t, err, ErrValidationFailed)
	})

	t.Run("pick eliminated by own slate", func(t *testing.T) {
		slate := validSlate("Bob")
		// P3 was picked to lose slot 0, so it cannot win a QF slot.
		slate.QFLeft = []string{"P3", "P5"}
		_, err := svc.Submit(ctx, slate)
		assert.ErrorIs(t, err, ErrValidationFailed)
	})

	t.Run("champion must be a slate finalist", func(t *testing.T) {
		slate := validSlate("Bob")
		slate.Champion = "P5"
		_, err := svc.Submit(ctx, slate)
		assert.ErrorIs(t, err, ErrValidationFailed)
	})
}

func TestSubmitPredictionRequiresFinalizedField(t *testing.T) {
	predRepo := &fakePredictionRepo{}
	logger := testLogger()
	svc := NewPredictionService(predRepo, &fakeFinalResultRepo{}, &fakeBracketRepo{}, &fakeSnapshotStore{}, live.NewHub(logger), logger)

	_, err := svc.Submit(context.Background(), validSlate("Alice"))
	assert.ErrorIs(t, err, ErrFieldNotFinalized)
}

func TestLeaderboardRefresh(t *testing.T) {
	svc, _, finalRepo, snapshots := newPredictionFixture()
	ctx := context.Background()

	base := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	first := validSlate("Early")
	second := validSlate("Late")
	p1, err := svc.Submit(ctx, first)
	require.NoError(t, err)
	p1.SubmittedAt = base
	p2, err := svc.Submit(ctx, second)
	require.NoError(t, err)
	p2.SubmittedAt = base.Add(time.Hour)

	t.Run("ungraded before a confirmed result", func(t *testing.T) {
		snap, err := svc.Refresh(ctx)
		require.NoError(t, err)
		assert.False(t, snap.Graded)
		require.Len(t, snap.Rows, 2)
		assert.Equal(t, 0, snap.Rows[0].Score)
		// Zero-score board still orders by submission time.
		assert.Equal(t, "Early", snap.Rows[0].Name)
	})

	t.Run("graded once the final is confirmed", func(t *testing.T) {
		finalRepo.latest = &models.FinalResult{
			R16Left:  []string{"P1", "P3", "P5", "P7"},
			R16Right: []string{"P9", "P11", "P13", "P15"},
			QFLeft:   []string{"P1", "P5"},
			QFRight:  []string{"P9", "P13"},
			SFLeft:   []string{"P1"},
			SFRight:  []string{"P9"},
			Champion: "P1",
		}
		snap, err := svc.Refresh(ctx)
		require.NoError(t, err)
		assert.True(t, snap.Graded)
		require.Len(t, snap.Rows, 2)
		// Both slates are perfect: 8 + 12 + 10 + 10.
		assert.Equal(t, 40, snap.Rows[0].Score)
		assert.Equal(t, "Early", snap.Rows[0].Name)
		assert.Equal(t, 1, snap.Rows[0].Rank)
		assert.Equal(t, 2, snap.Rows[1].Rank)
	})

	t.Run("leaderboard serves the cached snapshot", func(t *testing.T) {
		cached, err := svc.Leaderboard(ctx)
		require.NoError(t, err)
		assert.Equal(t, snapshots.snap.RefreshedAt, cached.RefreshedAt)
	})
}
