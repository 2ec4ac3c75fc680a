// Package sanitizer strips characters that confuse downstream models.
package sanitizer

import (
	"context"
	"strings"

	"github.com/exonascope/exonascope-cli/internal/core/domain"
)

// Processor removes NUL bytes and non-printing control characters
// other than newline, carriage return and tab.
type Processor struct{}

// New creates a sanitizer.
func New() *Processor {
	return &Processor{}
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "sanitizer"
}

// Process rewrites doc.Content in place and passes chunks through.
func (p *Processor) Process(_ context.Context, doc *domain.TextDocument, chunks []domain.Chunk) ([]domain.Chunk, error) {
	doc.Content = Sanitize(doc.Content)
	for i := range chunks {
		chunks[i].Content = Sanitize(chunks[i].Content)
	}
	return chunks, nil
}

// Sanitize returns s without control characters, trimmed.
func Sanitize(s string) string {
	if s == "" {
		return s
	}
	s = strings.ReplaceAll(s, "\x00", "")
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\r' || r == '\t':
			return r
		case r < 0x20 || r == 0x7f:
			return -1
		}
		return r
	}, s))
}
