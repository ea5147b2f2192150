package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/soportebi/faro/pkg/faro/internalerr"
	"github.com/soportebi/faro/pkg/faro/store"
)

// Store is an in-memory implementation of store.Store for tests.
type Store struct {
	mu   sync.RWMutex
	runs map[string]store.Run
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{runs: make(map[string]store.Run)}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// SaveRun inserts or replaces a run, keyed by ID.
func (s *Store) SaveRun(ctx context.Context, r store.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[r.ID] = copyRun(r)
	return nil
}

// GetRun returns a run by ID.
func (s *Store) GetRun(ctx context.Context, id string) (store.Run, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if r, ok := s.runs[id]; ok {
		return copyRun(r), true, nil
	}
	return store.Run{}, false, nil
}

// ListRuns returns run summaries, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]store.RunInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]store.RunInfo, 0, len(s.runs))
	for _, r := range s.runs {
		infos = append(infos, store.RunInfo{
			ID:             r.ID,
			CreatedAt:      r.CreatedAt,
			TicketCount:    r.TicketCount,
			OriginalCauses: r.OriginalCauses,
			CategoryCount:  r.CategoryCount,
		})
	}
	sort.Slice(infos, func(i, j int) bool {
		if !infos[i].CreatedAt.Equal(infos[j].CreatedAt) {
			return infos[i].CreatedAt.After(infos[j].CreatedAt)
		}
		return infos[i].ID > infos[j].ID
	})
	if limit > 0 && len(infos) > limit {
		infos = infos[:limit]
	}
	return infos, nil
}

// GetMapping returns a run's cause→category mapping, or ErrNotFound when
// no such run exists.
func (s *Store) GetMapping(ctx context.Context, runID string) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.runs[runID]
	if !ok {
		return nil, fmt.Errorf("run %q: %w", runID, internalerr.ErrNotFound)
	}
	m := make(map[string]string, len(r.Mappings))
	for _, row := range r.Mappings {
		m[row.Cause] = row.Category
	}
	return m, nil
}

func copyRun(r store.Run) store.Run {
	out := r
	out.Categories = make([]store.Category, len(r.Categories))
	copy(out.Categories, r.Categories)
	out.Mappings = make([]store.Mapping, len(r.Mappings))
	copy(out.Mappings, r.Mappings)
	return out
}
