package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	app_errors "github.com/Janriisasi/hanceai/internal/errors"
	"github.com/Janriisasi/hanceai/internal/interfaces"
)

// requestIDHeader carries the client-generated identifier correlating a
// browser-initiated exchange with its server-side in-flight call.
const requestIDHeader = "X-Request-ID"

type ChatHandler struct {
	service interfaces.ChatService
}

func NewChatHandler(svc interfaces.ChatService) *ChatHandler {
	return &ChatHandler{service: svc}
}

// HandleChat proxies one user message to the inference provider.
//
// The inbound request context doubles as the disconnect observer: net/http
// cancels it when the client goes away, which flows into the upstream call
// through the service. An explicit abort (see HandleAbort) cancels the same
// call through the registry. Either way the response is 499.
//
// @Summary  Send a chat message
// @Tags     chat
// @Accept   json
// @Produce  json
// @Param    X-Request-ID header string false "client-generated id enabling server-side cancellation"
// @Param    input body ChatRequest true "chat payload"
// @Success  200 {object} ChatResponse
// @Failure  400 {object} ErrorResponse
// @Failure  500 {object} ErrorResponse
// @Router   /chat [post]
func (h *ChatHandler) HandleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, fmt.Errorf("%w: invalid JSON payload", app_errors.ErrValidation))
		return
	}
	if err := validateRequest(&req); err != nil {
		respondWithError(w, err)
		return
	}

	requestID := r.Header.Get(requestIDHeader)

	text, err := h.service.Complete(r.Context(), requestID, req.Message)
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, ChatResponse{Response: text})
}

// HandleAbort cancels the in-flight upstream call registered under the given
// request id. Not finding one is normal: the call may have completed, or the
// disconnect observer may have won the race, moments earlier.
//
// @Summary  Abort an in-flight chat request
// @Tags     chat
// @Accept   json
// @Produce  json
// @Param    input body AbortRequest true "abort payload"
// @Success  200 {object} AbortResponse
// @Failure  400 {object} ErrorResponse
// @Failure  404 {object} ErrorResponse
// @Router   /chat/abort [post]
func (h *ChatHandler) HandleAbort(w http.ResponseWriter, r *http.Request) {
	var req AbortRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, fmt.Errorf("%w: invalid JSON payload", app_errors.ErrValidation))
		return
	}
	if err := validateRequest(&req); err != nil {
		respondWithError(w, err)
		return
	}

	if !h.service.Abort(req.RequestID) {
		respondWithError(w, fmt.Errorf("%w: no in-flight request with id %q", app_errors.ErrNotFound, req.RequestID))
		return
	}

	respondWithJSON(w, http.StatusOK, AbortResponse{Success: true})
}
