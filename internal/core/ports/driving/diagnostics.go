package driving

import (
	"context"

	"github.com/exonascope/exonascope-cli/internal/core/domain"
)

// DiagnosticsService checks that external tools and APIs are usable.
type DiagnosticsService interface {
	Check(ctx context.Context) []domain.Check
}
