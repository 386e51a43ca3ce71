// Package client is the HanceAI API client. It owns the lifecycle of one
// outstanding chat exchange the way the browser UI does: it generates the
// request id, issues the call under a local abort signal, reveals the
// response incrementally, and exposes a single Stop that tears down both
// the network wait and the reveal together.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// defaultRevealInterval paces the incremental reveal of a completed
// response. It is a display concern, not a protocol one.
const defaultRevealInterval = 30 * time.Millisecond

// State tracks the controller's single outstanding exchange.
type State int

const (
	StateIdle State = iota
	StateSending
)

// Events receives the outcomes of an exchange. Callbacks are invoked from a
// background goroutine, never concurrently with each other. A cancelled
// exchange produces OnCancel only: no error, no partial output.
type Events struct {
	// OnReveal is called with a progressively longer prefix of the response.
	OnReveal func(partial string)
	// OnDone is called once the full response has been revealed.
	OnDone func(full string)
	// OnCancel is called when the exchange was stopped, locally or remotely.
	OnCancel func()
	// OnError is called for any non-cancellation failure.
	OnError func(err error)
}

// Controller issues chat requests against a HanceAI server. The zero value
// is not usable; construct with New.
type Controller struct {
	baseURL string
	token   string
	client  *http.Client

	revealInterval time.Duration

	mu        sync.Mutex
	state     State
	gen       uint64 // invalidates stale network results and reveal ticks
	requestID string
	cancel    context.CancelFunc
}

// Option configures a Controller.
type Option func(*Controller)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(ctrl *Controller) { ctrl.client = c }
}

// WithRevealInterval changes the pacing of the incremental reveal. A zero
// or negative interval disables pacing and reveals in one step.
func WithRevealInterval(d time.Duration) Option {
	return func(ctrl *Controller) { ctrl.revealInterval = d }
}

// New builds a Controller for the server at baseURL, authenticating with
// the given session token.
func New(baseURL, token string, opts ...Option) *Controller {
	ctrl := &Controller{
		baseURL:        baseURL,
		token:          token,
		client:         &http.Client{},
		revealInterval: defaultRevealInterval,
	}
	for _, opt := range opts {
		opt(ctrl)
	}
	return ctrl
}

// Busy reports whether an exchange is outstanding.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == StateSending
}

// newRequestID builds a fresh identifier for one exchange: unguessable
// enough to never collide, ordered enough to read in logs.
func newRequestID() string {
	return fmt.Sprintf("req_%d_%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}

// Send issues one chat exchange. If an exchange is already outstanding the
// call is reinterpreted as Stop: one control surface toggles between send
// and stop, exactly like the UI button.
func (c *Controller) Send(message string, events Events) {
	c.mu.Lock()
	if c.state == StateSending {
		c.mu.Unlock()
		c.Stop()
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.state = StateSending
	c.gen++
	gen := c.gen
	c.requestID = newRequestID()
	c.cancel = cancel
	requestID := c.requestID
	c.mu.Unlock()

	go c.exchange(ctx, gen, requestID, message, events)
}

// Stop cancels the outstanding exchange, if any. The local abort fires
// synchronously: by the time Stop returns, no further reveal or completion
// callback for the stopped exchange can run. The server-side abort is
// fire-and-forget; a failed notification is logged, never surfaced, since
// the local abort already gave the user their result.
func (c *Controller) Stop() {
	c.mu.Lock()
	if c.state != StateSending {
		c.mu.Unlock()
		return
	}
	requestID := c.requestID
	cancel := c.cancel
	c.gen++ // stale ticks and results check the generation and drop themselves
	c.reset()
	c.mu.Unlock()

	cancel()
	go c.notifyAbort(requestID)
}

// reset returns the controller to idle. Callers must hold c.mu.
func (c *Controller) reset() {
	c.state = StateIdle
	c.requestID = ""
	c.cancel = nil
}

// current reports whether gen is still the live exchange.
func (c *Controller) current(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen == gen
}

// finish moves the controller back to idle if gen is still live, reporting
// whether it was.
func (c *Controller) finish(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return false
	}
	c.reset()
	return true
}

func (c *Controller) exchange(ctx context.Context, gen uint64, requestID, message string, events Events) {
	text, err := c.post(ctx, requestID, message)

	if ctx.Err() != nil {
		// Locally aborted: Stop already reset the state; report the
		// cancellation once and discard whatever the network returned.
		emit(events.OnCancel)
		return
	}
	if err != nil {
		if c.finish(gen) {
			if events.OnError != nil {
				events.OnError(err)
			}
		}
		return
	}

	c.reveal(ctx, gen, text, events)
}

// reveal delivers text as progressively longer prefixes on a ticker owned
// by this exchange. A Stop invalidates the generation before cancelling the
// context, so a tick that already fired cannot mutate state after reset.
func (c *Controller) reveal(ctx context.Context, gen uint64, text string, events Events) {
	runes := []rune(text)

	if c.revealInterval <= 0 || events.OnReveal == nil {
		if c.finish(gen) {
			if events.OnReveal != nil {
				events.OnReveal(text)
			}
			if events.OnDone != nil {
				events.OnDone(text)
			}
		}
		return
	}

	ticker := time.NewTicker(c.revealInterval)
	defer ticker.Stop()

	for i := 1; i <= len(runes); i++ {
		select {
		case <-ctx.Done():
			emit(events.OnCancel)
			return
		case <-ticker.C:
			if !c.current(gen) {
				emit(events.OnCancel)
				return
			}
			events.OnReveal(string(runes[:i]))
		}
	}

	if c.finish(gen) {
		if events.OnDone != nil {
			events.OnDone(text)
		}
	}
}

func emit(f func()) {
	if f != nil {
		f()
	}
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Response string `json:"response"`
}

type abortRequest struct {
	RequestID string `json:"requestId"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (c *Controller) post(ctx context.Context, requestID, message string) (string, error) {
	body, err := json.Marshal(chatRequest{Message: message})
	if err != nil {
		return "", fmt.Errorf("could not marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(requestIDHeader, requestID)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var er errorResponse
		if json.NewDecoder(resp.Body).Decode(&er) == nil && er.Error != "" {
			return "", fmt.Errorf("chat request failed: %s", er.Error)
		}
		return "", fmt.Errorf("chat request failed with status %d", resp.StatusCode)
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", fmt.Errorf("could not decode response: %w", err)
	}
	return cr.Response, nil
}

// notifyAbort tells the server to cancel the upstream call for requestID.
func (c *Controller) notifyAbort(requestID string) {
	body, _ := json.Marshal(abortRequest{RequestID: requestID})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat/abort", bytes.NewReader(body))
	if err != nil {
		slog.Warn("Failed to build abort notification", "request_id", requestID, "error", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		slog.Warn("Failed to notify server of abort", "request_id", requestID, "error", err)
		return
	}
	defer resp.Body.Close()

	// 404 just means the call settled before the abort arrived.
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNotFound {
		slog.Warn("Abort notification rejected", "request_id", requestID, "status", resp.StatusCode)
	}
}
