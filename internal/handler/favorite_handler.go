/*
Package handler provides HTTP handler functions for a user's favorite movies.
*/
package handler

import (
	"errors"
	"net/http"

	"moviehub/internal/app/movie"
	"moviehub/internal/app/store"
	"moviehub/internal/pkg/auth"
	"moviehub/internal/pkg/errs"
	"moviehub/internal/pkg/logx"
	"moviehub/internal/pkg/req"
	"moviehub/internal/pkg/resp"
)

type FavoriteInput struct {
	// Movie is the TMDB movie as the client received it; only a non-zero id is required.
	Movie *movie.Movie `json:"movie"`
}

func bindFavorite(w http.ResponseWriter, r *http.Request) (movie.Movie, *errs.CustomError) {
	var input FavoriteInput
	if customErr := req.BindJSON(w, r, &input); customErr != nil {
		return movie.Movie{}, customErr
	}

	if input.Movie == nil || input.Movie.ID <= 0 {
		return movie.Movie{}, errs.NewError(errs.ErrMovieInvalid)
	}
	return *input.Movie, nil
}

// HandleListFavorites returns the caller's favorites.
func HandleListFavorites(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, _ := auth.UserFromContext(r.Context())

		favorites, err := deps.Store.ListFavorites(r.Context(), u.ID)
		if err != nil {
			logx.Error(err, "Failed to list favorites", "user_id", u.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrStoreFailed))
			return
		}
		if favorites == nil {
			favorites = []movie.Movie{}
		}

		resp.RespondJSON(w, r, http.StatusOK, map[string]any{
			"favorites": favorites,
		})
	}
}

// HandleAddFavorite stores a favorite. Adding the same movie twice succeeds.
func HandleAddFavorite(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, _ := auth.UserFromContext(r.Context())

		m, customErr := bindFavorite(w, r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		added, err := deps.Store.AddFavorite(r.Context(), u.ID, m)
		if err != nil {
			logx.Error(err, "Failed to add favorite", "user_id", u.ID, "movie_id", m.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrStoreFailed))
			return
		}

		logx.Info("Favorite added", "user_id", u.ID, "movie_id", m.ID, "new", added)

		resp.RespondSuccess(w, r, map[string]any{
			"movie": m,
			"added": added,
		})
	}
}

// HandleRemoveFavorite deletes a favorite.
func HandleRemoveFavorite(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, _ := auth.UserFromContext(r.Context())

		m, customErr := bindFavorite(w, r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		err := deps.Store.RemoveFavorite(r.Context(), u.ID, m.ID)
		switch {
		case errors.Is(err, store.ErrNotFound):
			resp.RespondError(w, r, errs.NewError(errs.ErrFavoriteNotFound))
			return
		case err != nil:
			logx.Error(err, "Failed to remove favorite", "user_id", u.ID, "movie_id", m.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrStoreFailed))
			return
		}

		logx.Info("Favorite removed", "user_id", u.ID, "movie_id", m.ID)

		resp.RespondSuccess(w, r, map[string]any{
			"movie": m,
		})
	}
}
