/*
Package handler provides the HTTP handlers and routing setup for the movie notification server.

This file defines the main Router, applying necessary middleware like logging, CORS,
and IP-based rate limiting before delegating requests to specific handlers (API and WebSocket).
*/
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"moviehub/internal/pkg/auth"
	"moviehub/internal/pkg/limiter"
	"moviehub/internal/pkg/logx"
)

const (
	WebSocketRate  = 1
	WebSocketBurst = 5
	APIRate        = 10
	APIBurst       = 20
)

// Router sets up the main HTTP routing table (chi.Router) for the application.
// The rate limiters' cleanup goroutines stop when ctx is cancelled.
func Router(ctx context.Context, deps *AppDeps) http.Handler {
	wsLimiter := limiter.NewIPRateLimiter(ctx, "websocket", rate.Limit(WebSocketRate), WebSocketBurst)
	apiLimiter := limiter.NewIPRateLimiter(ctx, "api", rate.Limit(APIRate), APIBurst)

	r := chi.NewRouter()

	// Origins are enforced by the session after the upgrade so the client gets a close frame.
	wsUpgrader := websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     func(*http.Request) bool { return true },
	}

	corsAllowedOrigins := deps.Config.AllowedOrigins
	if deps.Config.IsDevelopment() {
		corsAllowedOrigins = []string{"*"}
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Get("/", HandleRoot())
	r.Get("/health", HandleHealth(deps))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(api chi.Router) {
		api.Use(apiLimiter.Middleware)

		api.Get("/movies", HandleListMovies(deps))
		api.Get("/movies/trending", HandleTrendingMovies(deps))

		api.Group(func(private chi.Router) {
			private.Use(auth.RequireUser(deps.Validator))

			private.Get("/favorites", HandleListFavorites(deps))
			private.Post("/favorites", HandleAddFavorite(deps))
			private.Delete("/favorites", HandleRemoveFavorite(deps))
		})
	})

	r.Get("/ws/status", HandleStatus(deps))
	r.Get("/ws/{user_id}", HandleWebSocket(deps, wsUpgrader, wsLimiter))

	return r
}
