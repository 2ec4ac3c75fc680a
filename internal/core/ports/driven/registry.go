package driven

import (
	"context"

	"github.com/exonascope/exonascope-cli/internal/core/domain"
)

// ExtractorRegistry classifies files and dispatches them to extractors.
type ExtractorRegistry interface {
	// Classify returns the media kind for a file. Never fails.
	Classify(file *domain.IntakeFile) domain.MediaKind

	// Extract classifies the file and runs the matching extractor.
	// The outcome is always reported as data, never as an error.
	Extract(ctx context.Context, file *domain.IntakeFile) domain.ExtractionResult

	// Register adds an extractor, replacing any for the same kind.
	Register(extractor Extractor)

	// SupportedKinds returns the kinds with a registered extractor.
	SupportedKinds() []domain.MediaKind
}
