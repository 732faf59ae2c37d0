package docstore

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"moviehub/internal/app/movie"
	"moviehub/internal/app/store"
	"moviehub/internal/pkg/logx"
)

func init() {
	logx.SetOutput(io.Discard, zerolog.Disabled)
}

func TestStore_AddFavorite(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("inserted", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		added, err := newStore(mt.DB).AddFavorite(context.Background(), "u1", movie.Movie{ID: 1, Title: "Dune"})
		require.NoError(mt, err)
		assert.True(mt, added)
	})

	mt.Run("duplicate is not an error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		added, err := newStore(mt.DB).AddFavorite(context.Background(), "u1", movie.Movie{ID: 1, Title: "Dune"})
		require.NoError(mt, err)
		assert.False(mt, added)
	})
}

func TestStore_ListFavorites(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("decodes embedded movies", func(mt *mtest.T) {
		ns := mt.DB.Name() + "." + favoritesCollection
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{
				{Key: "user_id", Value: "u1"},
				{Key: "movie_id", Value: int64(1)},
				{Key: "movie", Value: bson.D{{Key: "id", Value: int64(1)}, {Key: "title", Value: "Dune"}}},
				{Key: "created_at", Value: time.Now()},
			},
			bson.D{
				{Key: "user_id", Value: "u1"},
				{Key: "movie_id", Value: int64(2)},
				{Key: "movie", Value: bson.D{{Key: "id", Value: int64(2)}, {Key: "title", Value: "Heat"}}},
				{Key: "created_at", Value: time.Now()},
			},
		))

		movies, err := newStore(mt.DB).ListFavorites(context.Background(), "u1")
		require.NoError(mt, err)
		assert.Equal(mt, []movie.Movie{{ID: 1, Title: "Dune"}, {ID: 2, Title: "Heat"}}, movies)
	})
}

func TestStore_RemoveFavorite(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("deleted", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))
		assert.NoError(mt, newStore(mt.DB).RemoveFavorite(context.Background(), "u1", 1))
	})

	mt.Run("missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))
		assert.ErrorIs(mt, newStore(mt.DB).RemoveFavorite(context.Background(), "u1", 1), store.ErrNotFound)
	})
}

func TestStore_Searches(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("record upserts", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))
		assert.NoError(mt, newStore(mt.DB).RecordSearch(context.Background(), "Dune", movie.Movie{ID: 1, PosterPath: "/d.jpg"}))
	})

	mt.Run("top searches", func(mt *mtest.T) {
		ns := mt.DB.Name() + "." + searchesCollection
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{
				{Key: "search_term", Value: "dune"},
				{Key: "count", Value: int64(4)},
				{Key: "movie_id", Value: int64(1)},
				{Key: "poster_url", Value: "https://image.tmdb.org/t/p/w500/d.jpg"},
			},
		))

		top, err := newStore(mt.DB).TopSearches(context.Background(), 5)
		require.NoError(mt, err)
		require.Len(mt, top, 1)
		assert.Equal(mt, "dune", top[0].SearchTerm)
		assert.Equal(mt, int64(4), top[0].Count)
	})

	mt.Run("query failure", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Message: "bad query"}))
		_, err := newStore(mt.DB).TopSearches(context.Background(), 5)
		assert.Error(mt, err)
	})
}
