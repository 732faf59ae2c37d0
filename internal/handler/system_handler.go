package handler

import (
	"context"
	"net/http"
	"time"

	"moviehub/internal/pkg/errs"
	"moviehub/internal/pkg/logx"
	"moviehub/internal/pkg/resp"
)

const healthTimeout = 2 * time.Second

// HandleRoot answers the API root.
func HandleRoot() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp.RespondJSON(w, r, http.StatusOK, map[string]string{
			"message": "Welcome to the Movie App API!",
		})
	}
}

// HandleHealth reports liveness together with the store connectivity.
func HandleHealth(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		data := map[string]any{
			"status":             "ok",
			"service":            "MovieHub Notifications",
			"store":              deps.Config.StoreDriver,
			"active_connections": deps.Registry.Snapshot().ActiveConnections,
		}

		if err := deps.Store.Ping(ctx); err != nil {
			logx.Warn("Health check: store unreachable", "error", err.Error())
			data["status"] = "degraded"

			resp.RespondJSON(w, r, http.StatusServiceUnavailable, resp.JSONResponse{
				Code:    errs.ErrStoreFailed,
				Message: "store unreachable",
				Data:    data,
			})
			return
		}

		resp.RespondSuccess(w, r, data)
	}
}
