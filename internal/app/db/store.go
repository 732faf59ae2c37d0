package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"moviehub/internal/app/movie"
	"moviehub/internal/app/store"
)

const (
	listFavoritesSQL = `
SELECT movie FROM favorites
WHERE user_id = $1
ORDER BY created_at, movie_id`

	insertFavoriteSQL = `
INSERT INTO favorites (user_id, movie_id, movie)
VALUES ($1, $2, $3)
ON CONFLICT (user_id, movie_id) DO NOTHING`

	deleteFavoriteSQL = `DELETE FROM favorites WHERE user_id = $1 AND movie_id = $2`

	recordSearchSQL = `
INSERT INTO search_metrics (search_term, count, movie_id, poster_url)
VALUES ($1, 1, $2, $3)
ON CONFLICT (search_term)
DO UPDATE SET count = search_metrics.count + 1, updated_at = now()`

	topSearchesSQL = `
SELECT search_term, count, movie_id, poster_url, updated_at
FROM search_metrics
ORDER BY count DESC, search_term
LIMIT $1`
)

// Store is a PostgreSQL backed store.Store.
type Store struct {
	pool *pgxpool.Pool
}

var _ store.Store = (*Store)(nil)

// NewStore wraps a pool created by NewPool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) ListFavorites(ctx context.Context, userID string) ([]movie.Movie, error) {
	rows, err := s.pool.Query(ctx, listFavoritesSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query favorites: %w", err)
	}

	raws, err := pgx.CollectRows(rows, pgx.RowTo[[]byte])
	if err != nil {
		return nil, fmt.Errorf("failed to read favorites: %w", err)
	}

	movies := make([]movie.Movie, 0, len(raws))
	for _, raw := range raws {
		var m movie.Movie
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("failed to decode favorite: %w", err)
		}
		movies = append(movies, m)
	}
	return movies, nil
}

func (s *Store) AddFavorite(ctx context.Context, userID string, m movie.Movie) (bool, error) {
	payload, err := json.Marshal(m)
	if err != nil {
		return false, fmt.Errorf("failed to encode favorite: %w", err)
	}

	tag, err := s.pool.Exec(ctx, insertFavoriteSQL, userID, m.ID, payload)
	if IsUniqueViolation(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to insert favorite: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) RemoveFavorite(ctx context.Context, userID string, movieID int64) error {
	tag, err := s.pool.Exec(ctx, deleteFavoriteSQL, userID, movieID)
	if err != nil {
		return fmt.Errorf("failed to delete favorite: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) RecordSearch(ctx context.Context, term string, top movie.Movie) error {
	term = movie.NormalizeTerm(term)

	if _, err := s.pool.Exec(ctx, recordSearchSQL, term, top.ID, top.PosterURL()); err != nil {
		return fmt.Errorf("failed to record search %q: %w", term, err)
	}
	return nil
}

func (s *Store) TopSearches(ctx context.Context, limit int) ([]movie.SearchMetric, error) {
	rows, err := s.pool.Query(ctx, topSearchesSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query search metrics: %w", err)
	}

	metrics, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (movie.SearchMetric, error) {
		var m movie.SearchMetric
		err := row.Scan(&m.SearchTerm, &m.Count, &m.MovieID, &m.PosterURL, &m.UpdatedAt)
		return m, err
	})
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to read search metrics: %w", err)
	}
	return metrics, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Close(ctx context.Context) error {
	s.pool.Close()
	return nil
}
