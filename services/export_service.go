package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/fairwaycup/matchplay/engine"
	"github.com/fairwaycup/matchplay/repositories"
	"github.com/fairwaycup/matchplay/storage"
)

// Export kinds accepted by Archive.
const (
	ExportResults = "results"
	ExportField   = "field"
)

type ExportService interface {
	// ResultsCSV renders the flattened match results log.
	ResultsCSV(ctx context.Context) ([]byte, error)
	// FieldCSV renders the seeded knockout field.
	FieldCSV(ctx context.Context) ([]byte, error)
	// Archive renders an export and uploads it to object storage.
	Archive(ctx context.Context, kind string) (*storage.UploadResult, error)
}

type exportService struct {
	matchRepo   repositories.MatchResultRepository
	bracketRepo repositories.BracketRepository
	uploader    storage.FileUploader
	logger      *slog.Logger
}

func NewExportService(
	matchRepo repositories.MatchResultRepository,
	bracketRepo repositories.BracketRepository,
	uploader storage.FileUploader,
	logger *slog.Logger,
) ExportService {
	return &exportService{
		matchRepo:   matchRepo,
		bracketRepo: bracketRepo,
		uploader:    uploader,
		logger:      logger,
	}
}

func (s *exportService) ResultsCSV(ctx context.Context) ([]byte, error) {
	results, err := s.matchRepo.ListAll(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list match results: %w", err)
	}
	return renderCSV(
		[]string{"pod", "player_a", "player_b", "winner", "margin", "updated_at"},
		len(results),
		func(i int) []string {
			m := results[i]
			margin := ""
			if !m.IsTie() {
				if label, ok := engine.MarginLabel(m.Margin); ok {
					margin = label
				} else {
					margin = strconv.Itoa(m.Margin)
				}
			}
			return []string{m.Pod, m.PlayerA, m.PlayerB, m.Winner, margin, m.UpdatedAt.Format(time.RFC3339)}
		},
	)
}

func (s *exportService) FieldCSV(ctx context.Context) ([]byte, error) {
	field, err := s.bracketRepo.ListField(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list bracket field: %w", err)
	}
	if len(field) == 0 {
		return nil, ErrFieldNotFinalized
	}
	return renderCSV(
		[]string{"seed", "name", "handicap", "origin_pod", "place"},
		len(field),
		func(i int) []string {
			e := field[i]
			handicap := ""
			if e.Handicap != nil {
				handicap = strconv.FormatFloat(*e.Handicap, 'f', 1, 64)
			}
			return []string{strconv.Itoa(e.Seed), e.Name, handicap, e.OriginPod, string(e.Place)}
		},
	)
}

func renderCSV(header []string, n int, row func(i int) []string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	for i := 0; i < n; i++ {
		if err := w.Write(row(i)); err != nil {
			return nil, fmt.Errorf("failed to write csv row %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *exportService) Archive(ctx context.Context, kind string) (*storage.UploadResult, error) {
	if s.uploader == nil {
		return nil, fmt.Errorf("cannot archive %s export: object storage is not configured", kind)
	}
	var (
		data []byte
		err  error
	)
	switch kind {
	case ExportResults:
		data, err = s.ResultsCSV(ctx)
	case ExportField:
		data, err = s.FieldCSV(ctx)
	default:
		return nil, fmt.Errorf("%w: unknown export kind %q", ErrValidationFailed, kind)
	}
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("exports/%s-%s.csv", kind, time.Now().UTC().Format("20060102-150405"))
	result, err := s.uploader.Upload(ctx, key, "text/csv", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to archive %s export: %w", kind, err)
	}
	s.logger.Info("export archived", slog.String("kind", kind), slog.String("key", result.Key))
	return result, nil
}
