package catalog

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moviehub/internal/pkg/logx"
)

func init() {
	logx.SetOutput(io.Discard, zerolog.Disabled)
}

const pageJSON = `{"page":1,"results":[{"id":438631,"title":"Dune","poster_path":"/d.jpg","vote_average":7.8}],"total_pages":3,"total_results":41}`

func TestClient_Popular(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/3/discover/movie", r.URL.Path)
		assert.Equal(t, "popularity.desc", r.URL.Query().Get("sort_by"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, pageJSON)
	}))
	defer srv.Close()

	page, err := NewClient(srv.URL+"/3/", "secret", srv.Client()).Popular(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 41, page.TotalResults)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "Dune", page.Results[0].Title)
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/d.jpg", page.Results[0].PosterURL())
}

func TestClient_SearchEscapesQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/movie", r.URL.Path)
		assert.Equal(t, "the matrix & co", r.URL.Query().Get("query"))
		_, _ = io.WriteString(w, `{"page":1,"total_pages":0,"total_results":0}`)
	}))
	defer srv.Close()

	page, err := NewClient(srv.URL, "k", nil).Search(context.Background(), "the matrix & co")
	require.NoError(t, err)
	assert.NotNil(t, page.Results)
	assert.Empty(t, page.Results)
}

func TestClient_UpstreamErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/search/movie" {
			_, _ = io.WriteString(w, "not json")
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "bad", nil)

	_, err := c.Popular(context.Background())
	assert.ErrorIs(t, err, ErrUpstream)

	_, err = c.Search(context.Background(), "dune")
	assert.ErrorIs(t, err, ErrUpstream)

	srv.Close()
	_, err = c.Popular(context.Background())
	assert.ErrorIs(t, err, ErrUpstream)
}
