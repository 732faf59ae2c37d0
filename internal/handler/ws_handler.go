/*
Package handler provides the HTTP handler function for WebSocket connection upgrading and initialization.

This file contains HandleWebSocket, which rate limits the request, upgrades it, enforces the
origin allow-list and hands the connection to a notify.Session, and HandleStatus, which
reports the registry snapshot.
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"moviehub/internal/app/notify"
	"moviehub/internal/pkg/auth"
	"moviehub/internal/pkg/errs"
	"moviehub/internal/pkg/limiter"
	"moviehub/internal/pkg/logx"
	"moviehub/internal/pkg/metrics"
	"moviehub/internal/pkg/resp"
)

// HandleWebSocket creates an HTTP HandlerFunc to process WebSocket connection requests.
func HandleWebSocket(deps *AppDeps, upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !rateLimiter.Allow(r) {
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		userID := chi.URLParam(r, "user_id")
		if userID == "" {
			logx.Warn("WebSocket request rejected: Missing user id")
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		token, _ := auth.RequestToken(r)

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			metrics.ConnectionAttempts.WithLabelValues("upgrade_failed").Inc()
			logx.Warn("Failed to upgrade connection to WebSocket", "user_id", userID, "error", err.Error())
			return
		}

		if !deps.Origins.Check(r) {
			metrics.ConnectionAttempts.WithLabelValues("origin_rejected").Inc()
			logx.Warn("WebSocket connection rejected: Origin not allowed.", "origin", r.Header.Get("Origin"), "user_id", userID)
			notify.Reject(conn, websocket.ClosePolicyViolation, errs.NewError(errs.ErrOriginNotAllowed).Message)
			return
		}

		client := notify.NewClient(conn, userID)
		go client.WritePump()

		session := notify.NewSession(notify.SessionConfig{
			UserID:     userID,
			Token:      token,
			Peer:       client,
			Validator:  deps.Validator,
			Registry:   deps.Registry,
			Notifier:   deps.Notifier,
			Dispatcher: deps.Dispatcher,
		})
		session.Run(r.Context())
	}
}

// HandleStatus reports how many users are connected and who they are.
func HandleStatus(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp.RespondJSON(w, r, http.StatusOK, deps.Registry.Snapshot())
	}
}
