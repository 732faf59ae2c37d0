package auth

import (
	"context"
	"net/http"

	"moviehub/internal/app/user"
	"moviehub/internal/pkg/errs"
	"moviehub/internal/pkg/logx"
	"moviehub/internal/pkg/resp"
)

type contextKey string

// ContextUserKey is the key used to store the authenticated user.User in the request Context.
const ContextUserKey contextKey = "auth_user"

// RequireUser validates the bearer token of every request and rejects the request
// with 401 when validation fails. On success the user is available through UserFromContext.
func RequireUser(validator Validator) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := BearerToken(r)
			if !ok {
				resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
				return
			}

			u, err := validator.Validate(r.Context(), token)
			if err != nil {
				logx.Warn("Rejected bearer token", "path", r.URL.Path, "error", err.Error())
				resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
				return
			}

			ctx := context.WithValue(r.Context(), ContextUserKey, u)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the user injected by RequireUser.
func UserFromContext(ctx context.Context) (user.User, bool) {
	u, ok := ctx.Value(ContextUserKey).(user.User)
	return u, ok
}
