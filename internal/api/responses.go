package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	app_errors "github.com/Janriisasi/hanceai/internal/errors"
)

// This file contains shared DTOs (Data Transfer Objects) for API responses
// and helper functions for sending consistent HTTP responses.

// statusClientClosedRequest is the nginx-originated 499 status used when an
// in-flight request is cancelled by the client. net/http has no name for it.
const statusClientClosedRequest = 499

// ErrorResponse defines the standard JSON structure for error messages.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ChatRequest is the DTO for the chat proxy endpoint.
type ChatRequest struct {
	Message string `json:"message" validate:"required" example:"hello"`
}

// ChatResponse carries the generated text back to the client.
type ChatResponse struct {
	Response string `json:"response"`
}

// AbortRequest identifies the in-flight exchange to cancel.
type AbortRequest struct {
	RequestID string `json:"requestId" validate:"required" example:"req_1700000000000_ab12cd"`
}

// AbortResponse reports a successful cancellation.
type AbortResponse struct {
	Success bool `json:"success"`
}

// SignupRequest is the DTO for account creation.
type SignupRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest is the DTO for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned by both signup and login.
type AuthResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Token string `json:"token"`
}

// respondWithError is the centralized error handling function for the API layer.
// It maps sentinel errors from the business layer to appropriate HTTP status
// codes and formats a standard JSON error response.
func respondWithError(w http.ResponseWriter, err error) {
	var statusCode int
	var message string

	switch {
	case errors.Is(err, app_errors.ErrCanceled):
		// An expected outcome of the stop action or a dropped connection,
		// not a failure. Distinguished from every 5xx class.
		statusCode = statusClientClosedRequest
		message = "Request cancelled."
	case errors.Is(err, app_errors.ErrValidation):
		statusCode = http.StatusBadRequest
		// For validation errors, the error message from the service layer
		// is already descriptive and user-friendly.
		message = err.Error()
	case errors.Is(err, app_errors.ErrNotFound):
		statusCode = http.StatusNotFound
		message = "The requested resource was not found."
	case errors.Is(err, app_errors.ErrConflict):
		statusCode = http.StatusConflict
		message = err.Error()
	case errors.Is(err, app_errors.ErrInvalidCredentials):
		statusCode = http.StatusUnauthorized
		message = "Invalid email or password."
	case errors.Is(err, app_errors.ErrConfiguration):
		statusCode = http.StatusInternalServerError
		message = "Server configuration error: missing upstream access token."
	case errors.Is(err, app_errors.ErrUpstreamAuth):
		// Same status class as a configuration error but a distinguished
		// message, so a rejected token is never mistaken for a missing one.
		// The provider's raw error is deliberately withheld.
		statusCode = http.StatusInternalServerError
		message = "Authentication failed with the inference provider. Please check the configured token."
	case errors.Is(err, app_errors.ErrUpstream):
		// The provider's message is surfaced for transparency.
		statusCode = http.StatusInternalServerError
		message = err.Error()
	default:
		// Any unhandled error is considered an internal server error.
		// This prevents leaking implementation details to the client.
		statusCode = http.StatusInternalServerError
		message = "An unexpected internal server error occurred."
	}

	if errors.Is(err, app_errors.ErrCanceled) || errors.Is(err, app_errors.ErrNotFound) {
		// Expected outcomes of the completion/abort race are not warnings.
		slog.Debug("Responding with expected non-success", "status_code", statusCode, "reason", err)
	} else {
		// The original, more detailed error is logged for debugging purposes,
		// while the mapped message is sent to the client.
		slog.Warn("Responding with error", "status_code", statusCode, "client_message", message, "internal_error", err)
	}

	respondWithJSON(w, statusCode, ErrorResponse{Error: message})
}

// respondWithJSON is a low-level helper for marshaling a payload to JSON
// and writing it to the http.ResponseWriter with a given status code.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		// This indicates a server-side programming error (e.g., trying to marshal a channel).
		slog.Error("Failed to marshal JSON response", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(response); err != nil {
		slog.Error("Failed to write JSON response", "error", err)
	}
}
