/*
Package handler provides HTTP handler functions for browsing the movie catalog.
*/
package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"moviehub/internal/app/catalog"
	"moviehub/internal/app/movie"
	"moviehub/internal/pkg/errs"
	"moviehub/internal/pkg/logx"
	"moviehub/internal/pkg/resp"
)

const (
	// TrendingLimit is the number of search terms reported as trending.
	TrendingLimit = 5

	recordSearchTimeout = 5 * time.Second
)

// HandleListMovies proxies TMDB: popular movies without a search_term, matches otherwise.
// A successful search is counted in the background.
func HandleListMovies(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		term := strings.TrimSpace(r.URL.Query().Get("search_term"))

		var (
			page catalog.Page
			err  error
		)
		if term == "" {
			page, err = deps.Catalog.Popular(r.Context())
		} else {
			page, err = deps.Catalog.Search(r.Context(), term)
		}
		if err != nil {
			logx.Warn("Movie catalog request failed", "search_term", term, "error", err.Error())
			resp.RespondError(w, r, errs.NewError(errs.ErrCatalogUnavailable, err.Error()))
			return
		}

		if term != "" && len(page.Results) > 0 {
			recordSearch(deps, term, page.Results[0])
		}

		resp.RespondJSON(w, r, http.StatusOK, page)
	}
}

func recordSearch(deps *AppDeps, term string, top movie.Movie) {
	err := deps.Dispatcher.Submit(func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, recordSearchTimeout)
		defer cancel()

		if err := deps.Store.RecordSearch(ctx, term, top); err != nil {
			logx.Error(err, "Failed to record search", "search_term", term)
		}
	})
	if err != nil {
		logx.Warn("Search count dropped", "search_term", term, "error", err.Error())
	}
}

// HandleTrendingMovies returns the most searched terms.
func HandleTrendingMovies(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		trending, err := deps.Store.TopSearches(r.Context(), TrendingLimit)
		if err != nil {
			logx.Error(err, "Failed to load trending searches")
			resp.RespondError(w, r, errs.NewError(errs.ErrStoreFailed))
			return
		}
		if trending == nil {
			trending = []movie.SearchMetric{}
		}

		resp.RespondJSON(w, r, http.StatusOK, trending)
	}
}
