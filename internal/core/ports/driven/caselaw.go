package driven

import (
	"context"

	"github.com/exonascope/exonascope-cli/internal/core/domain"
)

// CaselawSearcher looks up opinions relevant to a legal issue.
type CaselawSearcher interface {
	// Search returns at most limit opinions for the query in the given
	// court, newest first.
	Search(ctx context.Context, query, court string, limit int) ([]domain.CaselawRef, error)
}
