package driven

import (
	"context"

	"github.com/exonascope/exonascope-cli/internal/core/domain"
)

// PostProcessor prepares corpus text for the LLM.
// PostProcessors are chained in a pipeline (e.g., sanitising, chunking).
type PostProcessor interface {
	// Name returns the processor name for logging and configuration.
	Name() string

	// Process takes a document and returns chunks.
	// If the processor rewrites text (e.g., sanitizer), it edits doc.Content and passes chunks through.
	// If the processor creates chunks (e.g., chunker), it receives nil and returns new chunks.
	Process(ctx context.Context, doc *domain.TextDocument, chunks []domain.Chunk) ([]domain.Chunk, error)
}

// PostProcessorPipeline chains multiple PostProcessors.
type PostProcessorPipeline interface {
	// Process runs the document through all processors in order.
	// Returns the final chunks after all processing.
	Process(ctx context.Context, doc *domain.TextDocument) ([]domain.Chunk, error)
}
