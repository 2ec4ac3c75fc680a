package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/exonascope/exonascope-cli/internal/core/domain"
	"github.com/exonascope/exonascope-cli/internal/core/ports/driven"
	"github.com/exonascope/exonascope-cli/internal/core/ports/driving"
	"github.com/exonascope/exonascope-cli/internal/logger"
)

// Ensure UploadService implements the interface.
var _ driving.UploadService = (*UploadService)(nil)

// DefaultSettleDelay is how long a watched file must be quiet before it
// is ingested. Copies usually arrive as a create followed by writes.
const DefaultSettleDelay = time.Second

// UploadSourceFactory opens an upload source rooted at dir.
type UploadSourceFactory func(dir string) driven.UploadSource

// UploadService loads files from disk and feeds watched arrivals into intake.
type UploadService struct {
	open   UploadSourceFactory
	intake driving.IntakeService
	settle time.Duration
}

// UploadOption configures an UploadService.
type UploadOption func(*UploadService)

// WithSettleDelay sets the quiet period before a watched file is ingested.
func WithSettleDelay(d time.Duration) UploadOption {
	return func(s *UploadService) {
		if d >= 0 {
			s.settle = d
		}
	}
}

// NewUploadService creates an upload service.
func NewUploadService(open UploadSourceFactory, intake driving.IntakeService, opts ...UploadOption) *UploadService {
	s := &UploadService{
		open:   open,
		intake: intake,
		settle: DefaultSettleDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the given files in order.
func (s *UploadService) Load(ctx context.Context, paths []string) ([]domain.IntakeFile, error) {
	if s.open == nil {
		return nil, fmt.Errorf("load uploads: source not configured")
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("load uploads: no files given: %w", domain.ErrInvalidInput)
	}
	src := s.open(".")
	defer src.Close()
	return src.Load(ctx, paths)
}

// Watch ingests files as they settle in root. Deleted files are dropped
// from the pending set. Returns nil when ctx is done.
func (s *UploadService) Watch(ctx context.Context, root string, handle func(domain.UploadEvent)) error {
	if s.open == nil || s.intake == nil {
		return fmt.Errorf("watch uploads: services not configured")
	}
	src := s.open(root)
	defer src.Close()

	changes, err := src.Watch(ctx)
	if err != nil {
		return fmt.Errorf("watch uploads: %w", err)
	}
	logger.Info("watching %s", root)

	pending := make(map[string]struct{})
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case change, ok := <-changes:
			if !ok {
				s.flush(ctx, src, pending, handle)
				return nil
			}
			if change.Type == domain.ChangeDeleted {
				delete(pending, change.Path)
				continue
			}
			pending[change.Path] = struct{}{}
			timer.Reset(s.settle)
		case <-timer.C:
			s.flush(ctx, src, pending, handle)
		}
	}
}

// flush ingests every pending path in name order and empties the set.
func (s *UploadService) flush(
	ctx context.Context,
	src driven.UploadSource,
	pending map[string]struct{},
	handle func(domain.UploadEvent),
) {
	paths := make([]string, 0, len(pending))
	for p := range pending {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	clear(pending)

	for _, path := range paths {
		if ctx.Err() != nil {
			return
		}
		event := domain.UploadEvent{Path: path}
		files, err := src.Load(ctx, []string{path})
		if err != nil {
			event.Err = err
		} else {
			event.Report, event.Err = s.intake.Ingest(ctx, files)
		}
		if event.Err != nil {
			logger.WithField("file", path).Warnf("upload not ingested: %v", event.Err)
		}
		if handle != nil {
			handle(event)
		}
	}
}
