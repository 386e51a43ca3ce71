package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Janriisasi/hanceai/internal/auth"
	app_errors "github.com/Janriisasi/hanceai/internal/errors"
	"github.com/Janriisasi/hanceai/internal/model"
	"github.com/Janriisasi/hanceai/internal/repository"
)

// AuthService implements account registration and login over the user store.
type AuthService struct {
	repo   repository.Repository
	tokens auth.TokenGenerator
}

func NewAuthService(repo repository.Repository, tokens auth.TokenGenerator) *AuthService {
	return &AuthService{repo: repo, tokens: tokens}
}

func (s *AuthService) Register(ctx context.Context, name, email, password string) (model.AuthResult, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" || password == "" {
		return model.AuthResult{}, fmt.Errorf("%w: name, email and password are required", app_errors.ErrValidation)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return model.AuthResult{}, fmt.Errorf("could not hash password: %w", err)
	}

	user := model.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(passwordHash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return model.AuthResult{}, fmt.Errorf("%w: an account with this email already exists", app_errors.ErrConflict)
		}
		return model.AuthResult{}, err
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return model.AuthResult{}, err
	}
	return model.AuthResult{User: user, Token: token}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (model.AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return model.AuthResult{}, fmt.Errorf("%w: email and password are required", app_errors.ErrValidation)
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		// A missing account and a wrong password are indistinguishable to
		// the caller.
		if errors.Is(err, repository.ErrNotFound) {
			return model.AuthResult{}, app_errors.ErrInvalidCredentials
		}
		return model.AuthResult{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return model.AuthResult{}, app_errors.ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(*user)
	if err != nil {
		return model.AuthResult{}, err
	}
	return model.AuthResult{User: *user, Token: token}, nil
}
