package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	app_errors "github.com/Janriisasi/hanceai/internal/errors"
	"github.com/Janriisasi/hanceai/internal/inflight"
	"github.com/Janriisasi/hanceai/internal/llm"
)

// ChatService proxies a single user message to the inference provider and
// owns the cancellation lifecycle of that call.
type ChatService struct {
	registry *inflight.Registry
	provider llm.Provider
	token    string
}

// NewChatService wires the service. token is the upstream access credential;
// it may be empty, in which case every chat request fails with a
// configuration error rather than reaching the provider.
func NewChatService(registry *inflight.Registry, provider llm.Provider, token string) *ChatService {
	return &ChatService{registry: registry, provider: provider, token: token}
}

// Complete validates the message and forwards it upstream. The call runs
// under a context derived from ctx, so a client disconnect cancels it; when
// requestID is non-empty the derived cancel func is also registered so the
// abort endpoint can cancel it explicitly. The registry entry is removed on
// every exit path.
//
// Cancellation from any trigger surfaces as ErrCanceled, never as a generic
// upstream failure.
func (s *ChatService) Complete(ctx context.Context, requestID, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", fmt.Errorf("%w: message is required", app_errors.ErrValidation)
	}

	if s.token == "" {
		// Logged distinctly: an operator fixing this is looking for a missing
		// token, not a flaky provider.
		slog.Error("Upstream access token is not configured, rejecting chat request")
		return "", fmt.Errorf("%w: missing upstream access token", app_errors.ErrConfiguration)
	}

	callCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if requestID != "" {
		s.registry.Register(requestID, cancel)
		defer s.registry.Remove(requestID)
	}

	text, err := s.provider.Complete(callCtx, message)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(callCtx.Err(), context.Canceled) {
			slog.Debug("Chat request canceled", "request_id", requestID)
			return "", app_errors.ErrCanceled
		}
		if errors.Is(err, app_errors.ErrUpstreamAuth) {
			slog.Error("Inference provider rejected the configured token")
			return "", err
		}
		if errors.Is(err, app_errors.ErrUpstream) {
			slog.Error("Inference call failed", "request_id", requestID, "error", err)
			return "", err
		}
		slog.Error("Unexpected inference error", "request_id", requestID, "error", err)
		return "", fmt.Errorf("%w: %v", app_errors.ErrUpstream, err)
	}

	return text, nil
}

// Abort cancels the in-flight call registered under requestID, reporting
// whether one was found. Not finding one is an expected race outcome: the
// call may have completed, or been cancelled by a disconnect, first.
func (s *ChatService) Abort(requestID string) bool {
	found := s.registry.Cancel(requestID)
	if found {
		slog.Info("Aborted in-flight chat request", "request_id", requestID)
	} else {
		slog.Debug("Abort requested for unknown request id", "request_id", requestID)
	}
	return found
}
