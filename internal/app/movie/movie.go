/*
Package movie contains the catalog entities shared by the TMDB client, the stores and the HTTP layer.
*/
package movie

import (
	"strings"
	"time"
)

// PosterBaseURL is the TMDB image prefix used for poster URLs.
const PosterBaseURL = "https://image.tmdb.org/t/p/w500"

// Movie is the subset of a TMDB movie the application keeps.
type Movie struct {
	ID               int64   `json:"id" bson:"id"`
	Title            string  `json:"title" bson:"title"`
	Overview         string  `json:"overview,omitempty" bson:"overview,omitempty"`
	PosterPath       string  `json:"poster_path,omitempty" bson:"poster_path,omitempty"`
	ReleaseDate      string  `json:"release_date,omitempty" bson:"release_date,omitempty"`
	VoteAverage      float64 `json:"vote_average,omitempty" bson:"vote_average,omitempty"`
	OriginalLanguage string  `json:"original_language,omitempty" bson:"original_language,omitempty"`
}

// PosterURL returns the full poster URL, or "" when the movie has no poster.
func (m Movie) PosterURL() string {
	if m.PosterPath == "" {
		return ""
	}
	return PosterBaseURL + m.PosterPath
}

// SearchMetric counts how often a search term was used, with the top result at the
// time it was first recorded.
type SearchMetric struct {
	SearchTerm string    `json:"search_term" bson:"search_term"`
	Count      int64     `json:"count" bson:"count"`
	MovieID    int64     `json:"movie_id" bson:"movie_id"`
	PosterURL  string    `json:"poster_url" bson:"poster_url"`
	UpdatedAt  time.Time `json:"updated_at" bson:"updated_at"`
}

// NormalizeTerm lowercases and trims a search term so counts are not split by case.
func NormalizeTerm(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}
