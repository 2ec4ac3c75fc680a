package extractors

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/exonascope/exonascope-cli/internal/core/domain"
	"github.com/exonascope/exonascope-cli/internal/core/ports/driven"
	"github.com/exonascope/exonascope-cli/internal/logger"
)

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry dispatches files to the extractor for their media kind.
type Registry struct {
	mu         sync.RWMutex
	extractors map[domain.MediaKind]driven.Extractor
}

// NewRegistry creates a registry with the given extractors.
func NewRegistry(extractors ...driven.Extractor) *Registry {
	r := &Registry{extractors: make(map[domain.MediaKind]driven.Extractor)}
	for _, e := range extractors {
		r.Register(e)
	}
	return r
}

// Register adds an extractor, replacing any for the same kind.
func (r *Registry) Register(extractor driven.Extractor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.extractors[extractor.Kind()] = extractor
}

// Classify returns the media kind for a file.
func (r *Registry) Classify(file *domain.IntakeFile) domain.MediaKind {
	if file == nil {
		return domain.KindUnsupported
	}
	return Classify(file.DeclaredType, file.Name)
}

// SupportedKinds returns the kinds with a registered extractor.
func (r *Registry) SupportedKinds() []domain.MediaKind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]domain.MediaKind, 0, len(r.extractors))
	for k := range r.extractors {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Extract classifies the file and runs the matching extractor.
func (r *Registry) Extract(ctx context.Context, file *domain.IntakeFile) domain.ExtractionResult {
	if file == nil {
		return domain.FailedResult("", domain.KindUnsupported,
			domain.NewExtractionError(domain.StageInput, domain.ErrInvalidInput))
	}

	kind := r.Classify(file)
	if !kind.IsSupported() {
		return domain.UnsupportedResult(file.Name)
	}

	r.mu.RLock()
	extractor, ok := r.extractors[kind]
	r.mu.RUnlock()
	if !ok {
		return domain.FailedResult(file.Name, kind, domain.NewExtractionError(domain.StageUnsupported,
			fmt.Errorf("no %s extractor configured: %w", kind, domain.ErrUnsupportedType)))
	}

	text, err := safeExtract(ctx, extractor, file)
	if err != nil {
		logger.WithField("file", file.Name).WithError(err).Debug("extraction failed")
		return domain.FailedResult(file.Name, kind, asExtractionError(kind, err))
	}
	return domain.OKResult(file.Name, kind, text)
}

// safeExtract runs the extractor, reporting a panic as an error so one
// file cannot take down the whole intake.
func safeExtract(ctx context.Context, extractor driven.Extractor, file *domain.IntakeFile) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.WithField("file", file.Name).Warnf("extractor panicked: %v", r)
			text, err = "", fmt.Errorf("panic: %v", r)
		}
	}()
	return extractor.Extract(ctx, file)
}

// asExtractionError keeps a stage already attached to err, otherwise
// attributes the failure to the kind's first stage.
func asExtractionError(kind domain.MediaKind, err error) *domain.ExtractionError {
	var ee *domain.ExtractionError
	if errors.As(err, &ee) {
		return ee
	}
	stage := domain.StageInput
	switch kind {
	case domain.KindPDF:
		stage = domain.StagePDFText
	case domain.KindDOCX:
		stage = domain.StageDOCX
	case domain.KindAudio:
		stage = domain.StageTranscribe
	case domain.KindVideo:
		stage = domain.StageProbe
	}
	return domain.NewExtractionError(stage, err)
}
