package interfaces

import (
	"context"

	"github.com/Janriisasi/hanceai/internal/model"
)

// This file defines the interfaces for our core services.
// Depending on these interfaces, instead of concrete implementations, allows for
// decoupling (e.g., API layer from Service layer) and easier testing via mocking.

// ChatService defines the contract for the chat proxy business logic.
type ChatService interface {
	// Complete forwards message upstream under the given request id and
	// returns the generated text, or a sentinel-wrapped error.
	Complete(ctx context.Context, requestID, message string) (string, error)
	// Abort cancels the in-flight call registered under requestID,
	// reporting whether one was found.
	Abort(requestID string) bool
}

// AuthService defines the contract for account registration and login.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (model.AuthResult, error)
	Login(ctx context.Context, email, password string) (model.AuthResult, error)
}
