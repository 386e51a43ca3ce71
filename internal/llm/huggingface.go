package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	app_errors "github.com/Janriisasi/hanceai/internal/errors"
)

// Provider defines the interface for interacting with a hosted inference
// service. Implementations must honor ctx cancellation by tearing down the
// underlying network call, not merely by returning early.
type Provider interface {
	Complete(ctx context.Context, message string) (string, error)
}

// hfProvider talks to the HuggingFace router, which exposes an
// OpenAI-compatible chat completions API at {base}/v1/chat/completions.
type hfProvider struct {
	client  *http.Client
	token   string
	baseURL string
	model   string
}

// NewHFProvider builds a Provider against baseURL using model, authorizing
// every call with token. The timeout caps a single completion call; the
// provider itself imposes none.
func NewHFProvider(token, baseURL, model string, timeout time.Duration) Provider {
	return &hfProvider{
		client:  &http.Client{Timeout: timeout},
		token:   token,
		baseURL: baseURL,
		model:   model,
	}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionsRequest struct {
	Model    string    `json:"model"`
	Messages []message `json:"messages"`
}

type chatCompletionsResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// errorBody covers both error shapes the router emits: a bare string and an
// OpenAI-style object with a message field.
type errorBody struct {
	Error json.RawMessage `json:"error"`
}

func (p *hfProvider) Complete(ctx context.Context, content string) (string, error) {
	reqBody := chatCompletionsRequest{
		Model:    p.model,
		Messages: []message{{Role: "user", Content: content}},
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("could not marshal request: %w", err)
	}

	endpoint := p.baseURL + "/v1/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("could not create http request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.token)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		// A cancelled ctx surfaces as a *url.Error wrapping context.Canceled;
		// unwrap it so callers see the cancellation, not a transport failure.
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w: %v", app_errors.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return "", app_errors.ErrUpstreamAuth
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: status %d: %s", app_errors.ErrUpstream, resp.StatusCode, readErrorMessage(resp.Body))
	}

	var out chatCompletionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: could not decode response: %v", app_errors.ErrUpstream, err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned by model", app_errors.ErrUpstream)
	}
	return out.Choices[0].Message.Content, nil
}

// readErrorMessage extracts a diagnostic message from a non-2xx body,
// falling back to the raw body when it is not one of the known shapes.
func readErrorMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(raw) == 0 {
		return "no error detail"
	}

	var eb errorBody
	if err := json.Unmarshal(raw, &eb); err == nil && len(eb.Error) > 0 {
		var s string
		if json.Unmarshal(eb.Error, &s) == nil {
			return s
		}
		var obj struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(eb.Error, &obj) == nil && obj.Message != "" {
			return obj.Message
		}
	}
	return string(raw)
}
