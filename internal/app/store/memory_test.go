package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moviehub/internal/app/movie"
)

func TestMemory_Favorites(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	dune := movie.Movie{ID: 438631, Title: "Dune"}
	heat := movie.Movie{ID: 949, Title: "Heat"}

	added, err := s.AddFavorite(ctx, "u1", dune)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = s.AddFavorite(ctx, "u1", dune)
	require.NoError(t, err)
	assert.False(t, added)

	_, err = s.AddFavorite(ctx, "u1", heat)
	require.NoError(t, err)

	list, err := s.ListFavorites(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []movie.Movie{dune, heat}, list)

	require.NoError(t, s.RemoveFavorite(ctx, "u1", dune.ID))
	assert.ErrorIs(t, s.RemoveFavorite(ctx, "u1", dune.ID), ErrNotFound)

	list, err = s.ListFavorites(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []movie.Movie{heat}, list)

	other, err := s.ListFavorites(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestMemory_TopSearches(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	dune := movie.Movie{ID: 1, PosterPath: "/dune.jpg"}
	require.NoError(t, s.RecordSearch(ctx, "Dune", dune))
	require.NoError(t, s.RecordSearch(ctx, " dune ", movie.Movie{ID: 99}))
	require.NoError(t, s.RecordSearch(ctx, "heat", movie.Movie{ID: 2}))
	for i := 0; i < 3; i++ {
		require.NoError(t, s.RecordSearch(ctx, "alien", movie.Movie{ID: 3}))
	}

	top, err := s.TopSearches(ctx, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)

	assert.Equal(t, "alien", top[0].SearchTerm)
	assert.Equal(t, int64(3), top[0].Count)

	assert.Equal(t, "dune", top[1].SearchTerm)
	assert.Equal(t, int64(2), top[1].Count)
	assert.Equal(t, int64(1), top[1].MovieID)
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/dune.jpg", top[1].PosterURL)
}
