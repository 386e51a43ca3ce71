package tests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Janriisasi/hanceai/internal/api"
	"github.com/Janriisasi/hanceai/internal/auth"
	"github.com/Janriisasi/hanceai/internal/database"
	"github.com/Janriisasi/hanceai/internal/inflight"
	"github.com/Janriisasi/hanceai/internal/llm"
	"github.com/Janriisasi/hanceai/internal/repository"
	"github.com/Janriisasi/hanceai/internal/service"
)

const (
	testJWTSecret = "integration-test-secret"
	testJWTIssuer = "hanceai"
	testHFToken   = "hf_test_token"
)

// upstream is a stand-in for the inference provider. Requests whose user
// message is "slow" are held open until the caller gives up; everything
// else answers immediately.
type upstream struct {
	*httptest.Server
	started chan struct{}
}

func newUpstream(t *testing.T) *upstream {
	t.Helper()
	up := &upstream{started: make(chan struct{}, 8)}
	up.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer "+testHFToken, r.Header.Get("Authorization"))

		var req struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotEmpty(t, req.Messages)

		up.started <- struct{}{}
		if req.Messages[0].Content == "slow" {
			<-r.Context().Done()
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":"hi there"}}]}`)
	}))
	t.Cleanup(up.Close)
	return up
}

// env wires the full server in process: real router, services, registry
// and database, with only the inference provider faked.
type env struct {
	server   *httptest.Server
	registry *inflight.Registry
	up       *upstream
	token    string
}

func newEnv(t *testing.T) *env {
	t.Helper()

	up := newUpstream(t)

	db, err := database.InitDB(filepath.Join(t.TempDir(), "hance.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	registry := inflight.New()
	provider := llm.NewHFProvider(testHFToken, up.URL, "openai/gpt-oss-20b", 30*time.Second)
	chatSvc := service.NewChatService(registry, provider, testHFToken)

	repo := repository.NewSQLiteRepository(db)
	tokens := auth.NewGenerator(testJWTSecret, testJWTIssuer, time.Hour)
	authSvc := service.NewAuthService(repo, tokens)

	router := api.NewRouter(api.NewChatHandler(chatSvc), api.NewAuthHandler(authSvc), testJWTSecret, testJWTIssuer)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	e := &env{server: server, registry: registry, up: up}

	// Every scenario talks to the API as a signed-in user.
	resp := e.post(t, "/api/auth/signup", map[string]string{
		"name":     "Integration Tester",
		"email":    "tester@example.com",
		"password": "secret123",
	}, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var signup struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&signup))
	require.NotEmpty(t, signup.Token)
	e.token = signup.Token

	return e
}

func (e *env) post(t *testing.T, path string, body any, headers map[string]string) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, e.server.URL+path, bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if e.token != "" {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := e.server.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func TestChatRoundTrip(t *testing.T) {
	e := newEnv(t)

	resp := e.post(t, "/api/chat", map[string]string{"message": "hello"},
		map[string]string{"X-Request-ID": "req_1"})
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out struct {
		Response string `json:"response"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "hi there", out.Response)

	// The completed exchange left nothing behind.
	assert.Equal(t, 0, e.registry.Len())
}

func TestAbortMidFlight(t *testing.T) {
	e := newEnv(t)

	type chatResult struct {
		status int
		body   map[string]any
	}
	results := make(chan chatResult, 1)

	go func() {
		resp := e.post(t, "/api/chat", map[string]string{"message": "slow"},
			map[string]string{"X-Request-ID": "req_2"})
		defer resp.Body.Close()
		var body map[string]any
		_ = json.NewDecoder(resp.Body).Decode(&body)
		results <- chatResult{status: resp.StatusCode, body: body}
	}()

	select {
	case <-e.up.started:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for the upstream call to start")
	}

	abortResp := e.post(t, "/api/chat/abort", map[string]string{"requestId": "req_2"}, nil)
	defer abortResp.Body.Close()
	require.Equal(t, http.StatusOK, abortResp.StatusCode)
	var abortBody struct {
		Success bool `json:"success"`
	}
	require.NoError(t, json.NewDecoder(abortResp.Body).Decode(&abortBody))
	assert.True(t, abortBody.Success)

	select {
	case res := <-results:
		assert.Equal(t, 499, res.status)
		assert.NotContains(t, res.body, "response")
		assert.Contains(t, res.body, "error")
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for the aborted chat call to settle")
	}

	assert.Equal(t, 0, e.registry.Len())
}

func TestAbortUnknownRequest(t *testing.T) {
	e := newEnv(t)

	resp := e.post(t, "/api/chat/abort", map[string]string{"requestId": "req_never_sent"}, nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestChatRequiresAuthentication(t *testing.T) {
	e := newEnv(t)
	e.token = ""

	resp := e.post(t, "/api/chat", map[string]string{"message": "hello"}, nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLoginAfterSignup(t *testing.T) {
	e := newEnv(t)
	e.token = ""

	resp := e.post(t, "/api/auth/login", map[string]string{
		"email":    "tester@example.com",
		"password": "secret123",
	}, nil)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out struct {
		Token string `json:"token"`
		Email string `json:"email"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, "tester@example.com", out.Email)
}
