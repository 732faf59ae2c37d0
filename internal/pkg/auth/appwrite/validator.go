/*
Package appwrite validates session JWTs against an Appwrite identity provider.

Every Validate call performs one GET /account request with the caller's JWT; the
provider's answer is the only source of truth, so nothing is cached here.
*/
package appwrite

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"moviehub/internal/app/user"
	"moviehub/internal/pkg/auth"
	"moviehub/internal/pkg/metrics"
)

// DefaultTimeout bounds a single validation round trip.
const DefaultTimeout = 5 * time.Second

// ErrProviderUnavailable is returned when the provider could not be reached or
// answered with an unexpected status.
var ErrProviderUnavailable = errors.New("appwrite: identity provider unavailable")

// Validator is an auth.Validator that asks Appwrite who owns a JWT.
type Validator struct {
	endpoint  string
	projectID string
	client    *http.Client
}

// NewValidator builds a Validator for the given API endpoint (for example
// https://cloud.appwrite.io/v1) and project. A nil client gets a default with DefaultTimeout.
func NewValidator(endpoint, projectID string, client *http.Client) *Validator {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return &Validator{
		endpoint:  strings.TrimRight(endpoint, "/"),
		projectID: projectID,
		client:    client,
	}
}

type account struct {
	ID    string `json:"$id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Validate implements auth.Validator.
func (v *Validator) Validate(ctx context.Context, token string) (user.User, error) {
	if token == "" {
		return user.User{}, auth.ErrUnauthorized
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.endpoint+"/account", nil)
	if err != nil {
		return user.User{}, fmt.Errorf("appwrite: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Appwrite-Project", v.projectID)
	req.Header.Set("X-Appwrite-JWT", token)

	res, err := v.client.Do(req)
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues("appwrite", "error").Inc()
		return user.User{}, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer res.Body.Close()

	metrics.UpstreamRequests.WithLabelValues("appwrite", strconv.Itoa(res.StatusCode)).Inc()

	switch {
	case res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden:
		return user.User{}, auth.ErrUnauthorized
	case res.StatusCode != http.StatusOK:
		return user.User{}, fmt.Errorf("%w: status %d", ErrProviderUnavailable, res.StatusCode)
	}

	var acc account
	if err := json.NewDecoder(io.LimitReader(res.Body, 1<<20)).Decode(&acc); err != nil {
		return user.User{}, fmt.Errorf("%w: decode account: %v", ErrProviderUnavailable, err)
	}
	if acc.ID == "" {
		return user.User{}, fmt.Errorf("%w: account without id", auth.ErrUnauthorized)
	}

	return user.User{ID: acc.ID, Name: acc.Name, Email: acc.Email}, nil
}
