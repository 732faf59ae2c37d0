/*
Package auth defines the credential validation contract shared by the REST API and
the WebSocket endpoint.

A Validator turns a bearer token into a user identity. Implementations live in the
jwt (locally signed tokens) and appwrite (remote identity provider) subpackages.
*/
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"moviehub/internal/app/user"
)

// ErrUnauthorized is returned when a credential is missing, malformed or rejected.
var ErrUnauthorized = errors.New("auth: unauthorized")

// Validator validates a bearer token. Implementations must not mutate shared state;
// every call is allowed to hit the network.
type Validator interface {
	Validate(ctx context.Context, token string) (user.User, error)
}

// ValidatorFunc adapts a function to the Validator interface.
type ValidatorFunc func(ctx context.Context, token string) (user.User, error)

// Validate calls f.
func (f ValidatorFunc) Validate(ctx context.Context, token string) (user.User, error) {
	return f(ctx, token)
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// RequestToken returns the credential presented on a WebSocket upgrade request:
// the Authorization header when present, otherwise the "jwt" query parameter.
func RequestToken(r *http.Request) (string, bool) {
	if token, ok := BearerToken(r); ok {
		return token, true
	}

	token := strings.TrimSpace(r.URL.Query().Get("jwt"))
	return token, token != ""
}
