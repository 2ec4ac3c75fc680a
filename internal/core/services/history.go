package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/exonascope/exonascope-cli/internal/core/domain"
	"github.com/exonascope/exonascope-cli/internal/core/ports/driven"
	"github.com/exonascope/exonascope-cli/internal/core/ports/driving"
)

// Ensure HistoryService implements the interface.
var _ driving.HistoryService = (*HistoryService)(nil)

// HistoryService records completed analyses.
type HistoryService struct {
	store driven.CaseHistoryStore
}

// NewHistoryService creates a new history service.
func NewHistoryService(store driven.CaseHistoryStore) *HistoryService {
	return &HistoryService{store: store}
}

// Record stores the case summary. States without an ID get one.
func (s *HistoryService) Record(ctx context.Context, state domain.CaseState) error {
	if s.store == nil {
		return fmt.Errorf("record case: history store not configured")
	}
	rec := state.Record()
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if err := s.store.Save(ctx, rec); err != nil {
		return fmt.Errorf("record case: %w", err)
	}
	return nil
}

// List returns every stored record, oldest first.
func (s *HistoryService) List(ctx context.Context) ([]domain.CaseRecord, error) {
	if s.store == nil {
		return nil, nil
	}
	return s.store.List(ctx)
}

// Get returns one record by ID.
func (s *HistoryService) Get(ctx context.Context, id string) (*domain.CaseRecord, error) {
	if s.store == nil {
		return nil, domain.ErrNotFound
	}
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	return s.store.Get(ctx, id)
}
