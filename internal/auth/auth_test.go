package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Janriisasi/hanceai/internal/auth"
	"github.com/Janriisasi/hanceai/internal/model"
)

const (
	testSecret = "test-secret"
	testIssuer = "hanceai-test"
)

func protectedEcho(t *testing.T) http.Handler {
	return auth.Middleware(testSecret, testIssuer)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, auth.UserID(r.Context()))
		w.WriteHeader(http.StatusOK)
	}))
}

func TestMiddleware_ValidToken(t *testing.T) {
	gen := auth.NewGenerator(testSecret, testIssuer, time.Hour)
	token, err := gen.Generate(model.User{ID: "user-1", Name: "Test"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	protectedEcho(t).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestMiddleware_RejectsBadTokens(t *testing.T) {
	cases := []struct {
		name   string
		header string
	}{
		{"Missing header", ""},
		{"Garbage token", "Bearer not-a-jwt"},
		{"Empty bearer", "Bearer "},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()
			protectedEcho(t).ServeHTTP(rr, req)

			assert.Equal(t, http.StatusUnauthorized, rr.Code)
		})
	}
}

func TestMiddleware_RejectsWrongIssuer(t *testing.T) {
	gen := auth.NewGenerator(testSecret, "someone-else", time.Hour)
	token, err := gen.Generate(model.User{ID: "user-1"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	protectedEcho(t).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestMiddleware_RejectsExpiredToken(t *testing.T) {
	gen := auth.NewGenerator(testSecret, testIssuer, -time.Minute)
	token, err := gen.Generate(model.User{ID: "user-1"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	protectedEcho(t).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
