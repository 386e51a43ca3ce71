// Package inflight tracks cancellation handles for outstanding upstream
// chat calls, keyed by the client-generated request id.
//
// Three actors may race for the same entry: the chat handler's own
// completion path, the disconnect observer on the inbound connection, and a
// concurrent call to the abort endpoint. Whichever reaches the registry
// first wins and removes the entry; the losers are silent no-ops. A handle
// is therefore invoked at most once, and a missing key is never an error.
package inflight

import (
	"context"
	"log/slog"
	"sync"
)

// Registry is a process-wide map from request id to the cancellation handle
// of one in-flight upstream call. Entries are ephemeral: they exist only
// while the call is outstanding, and a process restart drops them all.
//
// Construct one with New and pass it by reference to every handler that
// needs it. It must not be copied after first use.
type Registry struct {
	mu      sync.Mutex
	handles map[string]context.CancelFunc
}

func New() *Registry {
	return &Registry{
		handles: make(map[string]context.CancelFunc),
	}
}

// Register stores the cancellation handle for id. Clients generate a fresh
// id per send, so a duplicate means a caller bug; the old handle is
// overwritten (and logged) rather than leaked silently.
func (r *Registry) Register(id string, cancel context.CancelFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.handles[id]; exists {
		slog.Warn("Overwriting cancellation handle for duplicate request id", "request_id", id)
	}
	r.handles[id] = cancel
}

// Cancel invokes and removes the handle for id, reporting whether one was
// found. A second Cancel with the same id returns false: losing the race
// against completion, disconnect, or another abort is a normal outcome.
func (r *Registry) Cancel(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	cancel, ok := r.handles[id]
	if !ok {
		return false
	}
	delete(r.handles, id)
	cancel()
	return true
}

// Remove deletes the entry for id without cancelling it. It is the normal
// completion path and is a no-op when the entry is already gone.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.handles, id)
}

// Len reports the number of outstanding entries.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.handles)
}
