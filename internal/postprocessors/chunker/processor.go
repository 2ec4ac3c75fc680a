// Package chunker provides a fixed-size text chunking processor.
package chunker

import (
	"context"

	"github.com/google/uuid"

	"github.com/exonascope/exonascope-cli/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = domain.DefaultFactChunkSize

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 0

// Processor splits document content into fixed-size chunks.
// Sizes count characters, not bytes, so a chunk never splits a rune.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Process splits the document content into chunks.
// Input chunks are ignored; this processor creates new chunks from document content.
func (p *Processor) Process(_ context.Context, doc *domain.TextDocument, _ []domain.Chunk) ([]domain.Chunk, error) {
	if doc.Content == "" {
		return nil, nil
	}

	content := []rune(doc.Content)
	step := p.chunkSize - p.overlap
	chunks := make([]domain.Chunk, 0, len(content)/step+1)

	for start := 0; start < len(content); start += step {
		end := min(start+p.chunkSize, len(content))
		chunks = append(chunks, domain.Chunk{
			ID:       uuid.New().String(),
			Content:  string(content[start:end]),
			Position: len(chunks),
		})
		if end == len(content) {
			break
		}
	}

	return chunks, nil
}
