package driven

import (
	"context"

	"github.com/exonascope/exonascope-cli/internal/core/domain"
)

// CaseHistoryStore keeps completed case analyses.
// This is an optional store - nothing is recorded unless the caller opts in.
type CaseHistoryStore interface {
	// Save stores or replaces a record.
	Save(ctx context.Context, record domain.CaseRecord) error

	// Get returns a record by ID or domain.ErrNotFound.
	Get(ctx context.Context, id string) (*domain.CaseRecord, error)

	// List returns all records, oldest first.
	List(ctx context.Context) ([]domain.CaseRecord, error)
}
