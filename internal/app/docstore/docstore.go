/*
Package docstore implements store.Store on MongoDB.

Favorites live in one document per (user, movie) pair guarded by a unique index;
search metrics live in one document per normalised search term.
*/
package docstore

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"moviehub/internal/app/movie"
	"moviehub/internal/app/store"
	"moviehub/internal/pkg/logx"
)

const (
	favoritesCollection = "favorites"
	searchesCollection  = "search_metrics"
)

type favoriteDoc struct {
	UserID    string      `bson:"user_id"`
	MovieID   int64       `bson:"movie_id"`
	Movie     movie.Movie `bson:"movie"`
	CreatedAt time.Time   `bson:"created_at"`
}

// Store is a MongoDB backed store.Store.
type Store struct {
	client    *mongo.Client
	favorites *mongo.Collection
	searches  *mongo.Collection
	logger    zerolog.Logger
}

var _ store.Store = (*Store)(nil)

// New connects to uri, verifies the connection and ensures the indexes exist.
func New(ctx context.Context, uri, database string) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	s := newStore(client.Database(database))
	s.client = client

	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	s.logger.Info().Str("database", database).Msg("Successfully connected to MongoDB")
	return s, nil
}

func newStore(db *mongo.Database) *Store {
	return &Store{
		favorites: db.Collection(favoritesCollection),
		searches:  db.Collection(searchesCollection),
		logger:    logx.Component("docstore"),
	}
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.favorites.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "movie_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create favorites index: %w", err)
	}

	_, err = s.searches.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "search_term", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "count", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create search metric indexes: %w", err)
	}
	return nil
}

func (s *Store) ListFavorites(ctx context.Context, userID string) ([]movie.Movie, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

	cursor, err := s.favorites.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query favorites: %w", err)
	}

	var docs []favoriteDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode favorites: %w", err)
	}

	movies := make([]movie.Movie, 0, len(docs))
	for _, doc := range docs {
		movies = append(movies, doc.Movie)
	}
	return movies, nil
}

func (s *Store) AddFavorite(ctx context.Context, userID string, m movie.Movie) (bool, error) {
	_, err := s.favorites.InsertOne(ctx, favoriteDoc{
		UserID:    userID,
		MovieID:   m.ID,
		Movie:     m,
		CreatedAt: time.Now().UTC(),
	})
	if mongo.IsDuplicateKeyError(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to insert favorite: %w", err)
	}
	return true, nil
}

func (s *Store) RemoveFavorite(ctx context.Context, userID string, movieID int64) error {
	res, err := s.favorites.DeleteOne(ctx, bson.M{"user_id": userID, "movie_id": movieID})
	if err != nil {
		return fmt.Errorf("failed to delete favorite: %w", err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) RecordSearch(ctx context.Context, term string, top movie.Movie) error {
	term = movie.NormalizeTerm(term)

	update := bson.M{
		"$inc": bson.M{"count": 1},
		"$set": bson.M{"updated_at": time.Now().UTC()},
		"$setOnInsert": bson.M{
			"movie_id":   top.ID,
			"poster_url": top.PosterURL(),
		},
	}

	_, err := s.searches.UpdateOne(ctx, bson.M{"search_term": term}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to record search %q: %w", term, err)
	}
	return nil
}

func (s *Store) TopSearches(ctx context.Context, limit int) ([]movie.SearchMetric, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "count", Value: -1}, {Key: "search_term", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := s.searches.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query search metrics: %w", err)
	}

	metrics := []movie.SearchMetric{}
	if err := cursor.All(ctx, &metrics); err != nil {
		return nil, fmt.Errorf("failed to decode search metrics: %w", err)
	}
	return metrics, nil
}

func (s *Store) Ping(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Ping(ctx, nil)
}

func (s *Store) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}
