package driving

import (
	"context"

	"github.com/exonascope/exonascope-cli/internal/core/domain"
)

// UploadService reads case materials from disk and ingests new arrivals.
type UploadService interface {
	// Load reads the given files in order.
	Load(ctx context.Context, paths []string) ([]domain.IntakeFile, error)

	// Watch ingests files as they land in root until ctx is done,
	// reporting each through handle.
	Watch(ctx context.Context, root string, handle func(domain.UploadEvent)) error
}
