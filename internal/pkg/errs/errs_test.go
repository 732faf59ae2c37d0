package errs

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"moviehub/internal/pkg/logx"
)

func TestNewError(t *testing.T) {
	logx.SetOutput(io.Discard, zerolog.Disabled)

	tests := []struct {
		name        string
		code        int
		details     []any
		wantCode    int
		wantStatus  int
		wantMessage string
	}{
		{"plain", ErrMovieInvalid, nil, ErrMovieInvalid, http.StatusBadRequest, "Movie payload is missing an id."},
		{"zero status becomes 200", ErrMalformedMessage, nil, ErrMalformedMessage, http.StatusOK, "Invalid message format."},
		{"template formatted", ErrUnknownMessageType, []any{"dance"}, ErrUnknownMessageType, http.StatusOK, "Unknown message type: dance"},
		{"details ignored without placeholder", ErrUnauthorized, []any{"x"}, ErrUnauthorized, http.StatusUnauthorized, "Authentication failed"},
		{"unknown code", 123456, nil, ErrUnknown, http.StatusInternalServerError, "Something went wrong. Please try again."},
		{"unknown with cause hides cause", ErrUnknown, []any{errors.New("db exploded")}, ErrUnknown, http.StatusInternalServerError, "Something went wrong. Please try again."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewError(tt.code, tt.details...)
			assert.Equal(t, tt.wantCode, err.Code)
			assert.Equal(t, tt.wantStatus, err.Status)
			assert.Equal(t, tt.wantMessage, err.Message)
		})
	}
}

func TestNewError_DoesNotMutateTemplate(t *testing.T) {
	_ = NewError(ErrUnknownMessageType, "first")
	err := NewError(ErrUnknownMessageType, "second")
	assert.Equal(t, "Unknown message type: second", err.Message)
}

func TestCustomError_IsAndHasCode(t *testing.T) {
	wrapped := fmt.Errorf("favorites: %w", NewError(ErrFavoriteNotFound))

	assert.True(t, errors.Is(wrapped, NewError(ErrFavoriteNotFound)))
	assert.False(t, errors.Is(wrapped, NewError(ErrStoreFailed)))
	assert.True(t, HasCode(wrapped, ErrFavoriteNotFound))
	assert.False(t, HasCode(errors.New("plain"), ErrFavoriteNotFound))
}
