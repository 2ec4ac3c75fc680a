package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/exonascope/exonascope-cli/internal/core/domain"
	"github.com/exonascope/exonascope-cli/internal/core/ports/driven"
	"github.com/exonascope/exonascope-cli/internal/core/ports/driving"
	"github.com/exonascope/exonascope-cli/internal/logger"
)

// Ensure IntakeService implements the interface.
var _ driving.IntakeService = (*IntakeService)(nil)

// IntakeService aggregates per-file extraction into a corpus.
type IntakeService struct {
	registry driven.ExtractorRegistry
	workers  int
}

// NewIntakeService creates an intake service.
// workers bounds concurrent extractions; values below 1 mean sequential.
func NewIntakeService(registry driven.ExtractorRegistry, workers int) *IntakeService {
	if workers < 1 {
		workers = 1
	}
	return &IntakeService{
		registry: registry,
		workers:  workers,
	}
}

// Ingest extracts every file. Results keep upload order regardless of
// which extraction finishes first. An unnamed file fails on its own
// without reaching the registry.
func (s *IntakeService) Ingest(ctx context.Context, files []domain.IntakeFile) (*domain.IntakeReport, error) {
	if s.registry == nil {
		return nil, fmt.Errorf("ingest: extractor registry not configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("ingest: %w", err)
	}

	logger.Section("Intake")
	results := make([]domain.ExtractionResult, len(files))

	extract := func(ctx context.Context, i int) {
		start := time.Now()
		if files[i].Name == "" {
			results[i] = domain.FailedResult(fmt.Sprintf("file %d", i+1), domain.KindUnsupported,
				domain.NewExtractionError(domain.StageInput, fmt.Errorf("file has no name: %w", domain.ErrInvalidInput)))
			return
		}
		results[i] = s.registry.Extract(ctx, &files[i])
		logger.WithField("file", files[i].Name).
			WithField("kind", results[i].Kind).
			WithField("status", results[i].Status).
			Debugf("extracted in %s", time.Since(start).Round(time.Millisecond))
	}

	if s.workers > 1 && len(files) > 1 {
		g, gCtx := errgroup.WithContext(ctx)
		g.SetLimit(s.workers)
		for i := range files {
			g.Go(func() error {
				extract(gCtx, i)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i := range files {
			extract(ctx, i)
		}
	}

	report := domain.NewIntakeReport(results)
	for _, w := range report.Warnings() {
		logger.Warn("%s: %s", w.SourceName, w.Reason())
	}
	return report, nil
}
