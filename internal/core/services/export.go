package services

import (
	"fmt"
	"sort"

	"github.com/exonascope/exonascope-cli/internal/core/domain"
	"github.com/exonascope/exonascope-cli/internal/core/ports/driven"
	"github.com/exonascope/exonascope-cli/internal/core/ports/driving"
)

// Ensure ExportService implements the interface.
var _ driving.ExportService = (*ExportService)(nil)

// ExportService dispatches rendering to the renderer for a format.
type ExportService struct {
	renderers map[string]driven.DocumentRenderer
}

// NewExportService creates an export service over the given renderers.
func NewExportService(renderers ...driven.DocumentRenderer) *ExportService {
	m := make(map[string]driven.DocumentRenderer, len(renderers))
	for _, r := range renderers {
		m[r.Format()] = r
	}
	return &ExportService{renderers: m}
}

// Export renders the title and body in the named format.
func (s *ExportService) Export(format, title, body string) ([]byte, error) {
	r, ok := s.renderers[format]
	if !ok {
		return nil, fmt.Errorf("export format %q: %w", format, domain.ErrUnsupportedType)
	}
	out, err := r.Render(title, body)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return out, nil
}

// Formats lists the available formats in name order.
func (s *ExportService) Formats() []string {
	formats := make([]string, 0, len(s.renderers))
	for f := range s.renderers {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	return formats
}
