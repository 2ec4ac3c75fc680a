package driven

import (
	"context"

	"github.com/exonascope/exonascope-cli/internal/core/domain"
)

// Extractor turns one kind of IntakeFile into plain text.
type Extractor interface {
	// Kind returns the media kind this extractor handles.
	Kind() domain.MediaKind

	// Extract returns the file's text. An empty string with a nil error
	// means the file was readable but held no text. Failures should be
	// *domain.ExtractionError so the stage is preserved.
	Extract(ctx context.Context, file *domain.IntakeFile) (string, error)
}
