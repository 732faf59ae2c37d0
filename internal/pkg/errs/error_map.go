/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct, used to standardize
HTTP responses, in-band WebSocket errors and close reasons.
*/
package errs

import "net/http"

// errorMap stores the detailed CustomError struct corresponding to every application error code.
// A zero Status is reported as 200 OK, matching the response envelope convention.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:         {Code: ErrInvalidParams, Message: "Invalid request parameters.", Status: http.StatusBadRequest},
	ErrUnsupportedMediaType:  {Code: ErrUnsupportedMediaType, Message: "Unsupported request format.", Status: http.StatusUnsupportedMediaType},
	ErrInvalidJSONFormat:     {Code: ErrInvalidJSONFormat, Message: "Unsupported request format.", Status: http.StatusBadRequest},
	ErrExtraContentInBody:    {Code: ErrExtraContentInBody, Message: "Request contains unexpected data.", Status: http.StatusBadRequest},
	ErrRequestEntityTooLarge: {Code: ErrRequestEntityTooLarge, Message: "Request size is too large.", Status: http.StatusRequestEntityTooLarge},
	ErrRateLimitExceeded:     {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	// 2xxx: Catalog and Favorites Errors
	ErrCatalogUnavailable: {Code: ErrCatalogUnavailable, Message: "Movie catalog is unavailable: %s", Status: http.StatusInternalServerError},
	ErrMovieInvalid:       {Code: ErrMovieInvalid, Message: "Movie payload is missing an id.", Status: http.StatusBadRequest},
	ErrFavoriteNotFound:   {Code: ErrFavoriteNotFound, Message: "Movie is not in your favorites.", Status: http.StatusNotFound},

	// 3xxx: User, Session, and Security Errors
	ErrUnauthorized:     {Code: ErrUnauthorized, Message: "Authentication failed", Status: http.StatusUnauthorized},
	ErrOriginNotAllowed: {Code: ErrOriginNotAllowed, Message: "Origin not allowed", Status: http.StatusForbidden},
	ErrSessionKicked:    {Code: ErrSessionKicked, Message: "Session replaced by new connection."},

	// 4xxx: Realtime Messaging Errors
	ErrMalformedMessage:   {Code: ErrMalformedMessage, Message: "Invalid message format."},
	ErrUnknownMessageType: {Code: ErrUnknownMessageType, Message: "Unknown message type: %s"},
	ErrServerBusy:         {Code: ErrServerBusy, Message: "Server busy, please retry."},

	// 5xxx: Internal System Errors
	ErrUnknown:     {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
	ErrStoreFailed: {Code: ErrStoreFailed, Message: "Could not save your changes. Please try again.", Status: http.StatusInternalServerError},
}
