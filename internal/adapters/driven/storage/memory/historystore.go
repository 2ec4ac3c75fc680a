package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/exonascope/exonascope-cli/internal/core/domain"
	"github.com/exonascope/exonascope-cli/internal/core/ports/driven"
)

// Ensure HistoryStore implements the interface.
var _ driven.CaseHistoryStore = (*HistoryStore)(nil)

// HistoryStore is an in-memory implementation of driven.CaseHistoryStore.
type HistoryStore struct {
	mu      sync.RWMutex
	records map[string]domain.CaseRecord
	order   []string
}

// NewHistoryStore creates a new in-memory history store.
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{
		records: make(map[string]domain.CaseRecord),
	}
}

// Save stores or replaces a record. A replaced record keeps its position.
func (s *HistoryStore) Save(_ context.Context, record domain.CaseRecord) error {
	if record.ID == "" {
		return domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[record.ID]; !exists {
		s.order = append(s.order, record.ID)
	}
	s.records[record.ID] = cloneRecord(record)
	return nil
}

// Get retrieves a record by ID.
func (s *HistoryStore) Get(_ context.Context, id string) (*domain.CaseRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := cloneRecord(record)
	return &out, nil
}

// List returns all records in insertion order.
func (s *HistoryStore) List(_ context.Context) ([]domain.CaseRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.CaseRecord, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, cloneRecord(s.records[id]))
	}
	return out, nil
}

func cloneRecord(r domain.CaseRecord) domain.CaseRecord {
	r.Issues = slices.Clone(r.Issues)
	r.Defenses = slices.Clone(r.Defenses)
	return r
}
