package driven

import (
	"context"

	"github.com/exonascope/exonascope-cli/internal/core/domain"
)

// UploadSource reads case materials from where uploads land.
type UploadSource interface {
	// Load reads the given paths in order.
	Load(ctx context.Context, paths []string) ([]domain.IntakeFile, error)

	// Watch emits changes to the uploads location until ctx is done.
	Watch(ctx context.Context) (<-chan domain.UploadChange, error)

	// Close releases resources.
	Close() error
}
