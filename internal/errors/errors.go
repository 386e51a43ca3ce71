package errors

import "errors"

// This package defines a centralized set of sentinel errors for the application.
// Using sentinel errors allows services to return specific, recognizable error types
// without coupling them to implementation details like HTTP status codes. The API
// layer can then use `errors.Is()` to check for these specific errors and map
// them to the correct HTTP responses.

var (
	// ErrNotFound signifies that a requested resource could not be located.
	// This is typically mapped to a 404 Not Found HTTP status. For the abort
	// endpoint it is an expected outcome: the request may simply have finished
	// before the abort arrived.
	ErrNotFound = errors.New("resource not found")

	// ErrValidation signifies that input data provided by a client failed
	// business rule validation.
	// This is typically mapped to a 400 Bad Request HTTP status.
	ErrValidation = errors.New("validation failed")

	// ErrConflict signifies that an operation could not be completed because
	// it conflicts with the current state of a resource (e.g., registering
	// an email that already has an account).
	// This is typically mapped to a 409 Conflict HTTP status.
	ErrConflict = errors.New("resource conflict")

	// ErrInvalidCredentials signifies a failed login attempt. It deliberately
	// carries no detail about whether the email or the password was wrong.
	// This is typically mapped to a 401 Unauthorized HTTP status.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrConfiguration signifies that the server is missing a piece of
	// configuration it needs to serve the request (e.g., the upstream access
	// token). It is fatal to the request, not to the process, and is logged
	// distinctly so operators can tell it apart from transient upstream
	// failures. Mapped to a 500 Internal Server Error HTTP status.
	ErrConfiguration = errors.New("server configuration error")

	// ErrUpstreamAuth signifies that the inference provider rejected our
	// credential. It shares the 500 status class with ErrConfiguration but
	// carries a distinguished message, so a bad token is never confused with
	// a missing one. The raw upstream error is not forwarded to the client.
	ErrUpstreamAuth = errors.New("upstream authentication failed")

	// ErrUpstream signifies any other inference provider failure. The
	// provider's message is preserved for diagnostics and surfaced to the
	// user. No automatic retry is performed. Mapped to a 500 status.
	ErrUpstream = errors.New("upstream call failed")

	// ErrCanceled signifies that an in-flight chat request was cancelled,
	// either by an explicit abort or by the client disconnecting. It is an
	// expected outcome, never logged as an error, and mapped to HTTP 499
	// (client closed request).
	ErrCanceled = errors.New("request canceled")

	// ErrInternal signifies an unexpected error on the server. This is a generic
	// error used to prevent leaking sensitive implementation details to the client.
	// This is typically mapped to a 500 Internal Server Error HTTP status.
	ErrInternal = errors.New("internal server error")
)
