/*
Package store defines the persistence contract for favorites and search metrics.

Two production implementations exist: docstore (MongoDB) and db (PostgreSQL).
Memory is used in development and tests.
*/
package store

import (
	"context"
	"errors"

	"moviehub/internal/app/movie"
)

// ErrNotFound is returned when the requested record does not exist.
var ErrNotFound = errors.New("store: not found")

// Store persists per-user favorites and global search metrics.
type Store interface {
	// ListFavorites returns the favorites of userID, oldest first.
	ListFavorites(ctx context.Context, userID string) ([]movie.Movie, error)

	// AddFavorite stores m for userID. It reports false when it was already a favorite.
	AddFavorite(ctx context.Context, userID string, m movie.Movie) (bool, error)

	// RemoveFavorite deletes movieID from the favorites of userID or returns ErrNotFound.
	RemoveFavorite(ctx context.Context, userID string, movieID int64) error

	// RecordSearch increments the counter of term, creating it with top as its movie.
	RecordSearch(ctx context.Context, term string, top movie.Movie) error

	// TopSearches returns up to limit metrics ordered by count, highest first.
	TopSearches(ctx context.Context, limit int) ([]movie.SearchMetric, error)

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
