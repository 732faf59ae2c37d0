package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"moviehub/internal/app/movie"
)

// Memory is a process-local Store.
type Memory struct {
	mu        sync.RWMutex
	favorites map[string][]movie.Movie
	searches  map[string]*movie.SearchMetric
}

var _ Store = (*Memory)(nil)

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		favorites: make(map[string][]movie.Movie),
		searches:  make(map[string]*movie.SearchMetric),
	}
}

func (s *Memory) ListFavorites(ctx context.Context, userID string) ([]movie.Movie, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]movie.Movie, len(s.favorites[userID]))
	copy(out, s.favorites[userID])
	return out, nil
}

func (s *Memory) AddFavorite(ctx context.Context, userID string, m movie.Movie) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.favorites[userID] {
		if existing.ID == m.ID {
			return false, nil
		}
	}
	s.favorites[userID] = append(s.favorites[userID], m)
	return true, nil
}

func (s *Memory) RemoveFavorite(ctx context.Context, userID string, movieID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.favorites[userID]
	for i, existing := range list {
		if existing.ID == movieID {
			s.favorites[userID] = append(list[:i:i], list[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *Memory) RecordSearch(ctx context.Context, term string, top movie.Movie) error {
	term = movie.NormalizeTerm(term)

	s.mu.Lock()
	defer s.mu.Unlock()

	if metric, ok := s.searches[term]; ok {
		metric.Count++
		metric.UpdatedAt = time.Now()
		return nil
	}

	s.searches[term] = &movie.SearchMetric{
		SearchTerm: term,
		Count:      1,
		MovieID:    top.ID,
		PosterURL:  top.PosterURL(),
		UpdatedAt:  time.Now(),
	}
	return nil
}

func (s *Memory) TopSearches(ctx context.Context, limit int) ([]movie.SearchMetric, error) {
	s.mu.RLock()
	out := make([]movie.SearchMetric, 0, len(s.searches))
	for _, metric := range s.searches {
		out = append(out, *metric)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].SearchTerm < out[j].SearchTerm
	})

	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Memory) Ping(ctx context.Context) error { return nil }

func (s *Memory) Close(ctx context.Context) error { return nil }
