package driving

import (
	"context"

	"github.com/exonascope/exonascope-cli/internal/core/domain"
)

// HistoryService manages the optional record of completed analyses.
type HistoryService interface {
	// Record stores the case summary.
	Record(ctx context.Context, state domain.CaseState) error

	// List returns every stored record, oldest first.
	List(ctx context.Context) ([]domain.CaseRecord, error)

	// Get returns one record by ID.
	Get(ctx context.Context, id string) (*domain.CaseRecord, error)
}
