package driving

import (
	"context"

	"github.com/exonascope/exonascope-cli/internal/core/domain"
)

// IntakeService turns uploaded case materials into a corpus.
type IntakeService interface {
	// Ingest extracts every file and aggregates the results.
	// A failure in one file never aborts the others; per-file outcomes
	// are reported on IntakeReport.Results in upload order.
	Ingest(ctx context.Context, files []domain.IntakeFile) (*domain.IntakeReport, error)
}
