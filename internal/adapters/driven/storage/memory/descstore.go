package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/fabulist-labs/descry/internal/core/domain"
	"github.com/fabulist-labs/descry/internal/core/ports/driven"
)

// Ensure DescriptionStore implements the interface.
var _ driven.DescriptionStore = (*DescriptionStore)(nil)

// DescriptionStore is an in-memory implementation of
// driven.DescriptionStore.
type DescriptionStore struct {
	mu       sync.RWMutex
	chapters map[string][]domain.Description
}

// NewDescriptionStore creates a new in-memory description store.
func NewDescriptionStore() *DescriptionStore {
	return &DescriptionStore{
		chapters: make(map[string][]domain.Description),
	}
}

// SaveDescriptions stores descriptions for a chapter, replacing any
// previous results for the same chapter.
func (s *DescriptionStore) SaveDescriptions(_ context.Context, chapterID string, descs []domain.Description) error {
	if chapterID == "" {
		return domain.ErrInvalidInput
	}
	copied := make([]domain.Description, len(descs))
	copy(copied, descs)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.chapters[chapterID] = copied
	return nil
}

// GetDescriptions retrieves a chapter's descriptions ordered by priority
// descending.
func (s *DescriptionStore) GetDescriptions(_ context.Context, chapterID string) ([]domain.Description, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.chapters[chapterID]
	if !ok {
		return nil, nil
	}
	descs := make([]domain.Description, len(stored))
	copy(descs, stored)
	sort.SliceStable(descs, func(i, j int) bool {
		return descs[i].Priority > descs[j].Priority
	})
	return descs, nil
}

// ListChapters returns the IDs of chapters with stored results.
func (s *DescriptionStore) ListChapters(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.chapters))
	for id := range s.chapters {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// DeleteDescriptions removes a chapter's descriptions.
func (s *DescriptionStore) DeleteDescriptions(_ context.Context, chapterID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.chapters, chapterID)
	return nil
}

// Close is a no-op for the in-memory store.
func (s *DescriptionStore) Close() error {
	return nil
}
