/*
Package errs provides custom error types and application-level error code constants.

These error codes are used to clearly identify specific business or system errors
both internally within the server and in communication with clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request header Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body JSON format is incorrect.
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates that the request body contained extra content after valid JSON data.
	ErrExtraContentInBody = 1004

	// ErrRequestEntityTooLarge indicates that the request body size exceeded the server limit.
	ErrRequestEntityTooLarge = 1006

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1007
)

// 2xxx: Catalog and Favorites Errors
const (
	// ErrCatalogUnavailable indicates the upstream movie catalog call failed.
	ErrCatalogUnavailable = 2101

	// ErrMovieInvalid indicates a movie payload without a usable id.
	ErrMovieInvalid = 2201

	// ErrFavoriteNotFound indicates the movie is not in the user's favorites.
	ErrFavoriteNotFound = 2202
)

// 3xxx: User, Session, and Security Errors
const (
	// ErrUnauthorized indicates a missing, malformed, or rejected credential.
	ErrUnauthorized = 3001

	// ErrOriginNotAllowed indicates the request origin is not on the allow-list.
	ErrOriginNotAllowed = 3002

	// ErrSessionKicked indicates that the connection was replaced by a newer one for the same user.
	ErrSessionKicked = 3004
)

// 4xxx: Realtime Messaging Errors
const (
	// ErrMalformedMessage indicates an inbound frame that is not a JSON object.
	ErrMalformedMessage = 4001

	// ErrUnknownMessageType indicates an inbound frame with an unsupported type.
	ErrUnknownMessageType = 4002

	// ErrServerBusy indicates the background dispatch queue rejected the work.
	ErrServerBusy = 4003
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000

	// ErrStoreFailed indicates a persistence failure.
	ErrStoreFailed = 5001
)
