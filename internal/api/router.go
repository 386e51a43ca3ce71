package api

import (
	"net/http"
	"time"

	// This blank import is required by swaggo to find the API definitions.
	_ "github.com/Janriisasi/hanceai/docs"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/Janriisasi/hanceai/internal/auth"
)

// NewRouter creates and configures a new chi router with all the application's routes.
func NewRouter(chatHandler *ChatHandler, authHandler *AuthHandler, jwtSecret, jwtIssuer string) *chi.Mux {
	r := chi.NewRouter()

	// --- Global Middleware ---
	// These are applied to every request.
	r.Use(middleware.RequestID) // Injects a unique request ID into the context.
	r.Use(middleware.RealIP)    // Sets the remote address to the real IP from proxy headers.
	r.Use(middleware.Logger)    // Logs the start and end of each request with useful info.
	r.Use(middleware.Recoverer) // Recovers from panics and returns a 500 error.

	// --- Public Routes ---

	// Serves the auto-generated Swagger UI for API documentation.
	r.Get("/api/swagger/*", httpSwagger.WrapHandler)

	// A simple health check endpoint for container orchestration probes.
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {

		// Auth routes are plain JSON exchanges and get a request timeout so
		// client connections cannot hang indefinitely.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(60 * time.Second))

			r.Post("/auth/signup", authHandler.HandleSignup)
			r.Post("/auth/login", authHandler.HandleLogin)
		})

		// The chat routes must NOT use the timeout middleware: the proxy call
		// is bounded by the upstream client's own configurable timeout, and a
		// route-level deadline would sever the inbound connection (and with
		// it, the cancellation signal) before a slow completion settles.
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(jwtSecret, jwtIssuer))

			r.Post("/chat", chatHandler.HandleChat)
			r.Post("/chat/abort", chatHandler.HandleAbort)
		})
	})

	// --- Frontend File Server ---
	// Serves the static React frontend. In a typical production deployment
	// this would be handled by Nginx, but it's useful for simplified local
	// development.
	fileServer := http.FileServer(http.Dir("./client/dist"))
	r.Handle("/*", http.StripPrefix("/", fileServer))

	return r
}
