package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	app_errors "github.com/Janriisasi/hanceai/internal/errors"
	"github.com/Janriisasi/hanceai/internal/interfaces"
	"github.com/Janriisasi/hanceai/internal/model"
)

type AuthHandler struct {
	service interfaces.AuthService
}

func NewAuthHandler(svc interfaces.AuthService) *AuthHandler {
	return &AuthHandler{service: svc}
}

// HandleSignup creates a new account and returns its session token.
//
// @Summary  Register a new account
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    input body SignupRequest true "signup payload"
// @Success  201 {object} AuthResponse
// @Failure  400 {object} ErrorResponse
// @Failure  409 {object} ErrorResponse
// @Router   /auth/signup [post]
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, fmt.Errorf("%w: invalid JSON payload", app_errors.ErrValidation))
		return
	}
	if err := validateRequest(&req); err != nil {
		respondWithError(w, err)
		return
	}

	result, err := h.service.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, toAuthResponse(result))
}

// HandleLogin authenticates an existing account.
//
// @Summary  Log in
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    input body LoginRequest true "login payload"
// @Success  200 {object} AuthResponse
// @Failure  400 {object} ErrorResponse
// @Failure  401 {object} ErrorResponse
// @Router   /auth/login [post]
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, fmt.Errorf("%w: invalid JSON payload", app_errors.ErrValidation))
		return
	}
	if err := validateRequest(&req); err != nil {
		respondWithError(w, err)
		return
	}

	result, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, toAuthResponse(result))
}

func toAuthResponse(result model.AuthResult) AuthResponse {
	return AuthResponse{
		ID:    result.User.ID,
		Name:  result.User.Name,
		Email: result.User.Email,
		Token: result.Token,
	}
}
