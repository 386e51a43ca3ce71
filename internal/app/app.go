package app

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Janriisasi/hanceai/internal/api"
	"github.com/Janriisasi/hanceai/internal/auth"
	"github.com/Janriisasi/hanceai/internal/config"
	"github.com/Janriisasi/hanceai/internal/database"
	"github.com/Janriisasi/hanceai/internal/inflight"
	"github.com/Janriisasi/hanceai/internal/llm"
	"github.com/Janriisasi/hanceai/internal/repository"
	"github.com/Janriisasi/hanceai/internal/service"
)

// App holds the wired application: the open database handle and the
// configured HTTP server.
type App struct {
	DB     *sql.DB
	Server *http.Server
}

// NewApp wires every component from cfg. The caller owns closing App.DB.
func NewApp(cfg *config.Config) (*App, error) {
	db, err := database.InitDB(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	repo := repository.NewSQLiteRepository(db)
	tokens := auth.NewGenerator(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL())
	provider := llm.NewHFProvider(cfg.HFToken, cfg.HFBaseURL, cfg.HFModel, cfg.UpstreamTimeout())

	// One registry per process, shared by the chat and abort handlers.
	registry := inflight.New()

	chatService := service.NewChatService(registry, provider, cfg.HFToken)
	authService := service.NewAuthService(repo, tokens)

	chatHandler := api.NewChatHandler(chatService)
	authHandler := api.NewAuthHandler(authService)
	router := api.NewRouter(chatHandler, authHandler, cfg.JWTSecret, cfg.JWTIssuer)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.AppPort),
		Handler:           router,
		ReadHeaderTimeout: 20 * time.Second,
		WriteTimeout:      0, // Disabled: chat responses may outlive any fixed write deadline.
		IdleTimeout:       120 * time.Second,
	}

	return &App{DB: db, Server: server}, nil
}

func Run() int {
	cfg, err := config.LoadConfig()
	if err != nil {
		// slog is not yet configured, so use the default logger for this critical error.
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}

	setupLogger(cfg.LogLevel)

	logConfigSource()

	if cfg.HFToken == "" {
		// Not fatal: the chat endpoint rejects requests individually, and an
		// operator can fix the token without restarting the auth routes.
		slog.Warn("HF_TOKEN is not set; chat requests will fail until it is configured")
	}

	application, err := NewApp(cfg)
	if err != nil {
		slog.Error("Failed to build application", "error", err)
		return 1
	}
	defer func() {
		if err := application.DB.Close(); err != nil {
			slog.Error("Failed to close database connection", "error", err)
		}
	}()
	slog.Info("Successfully connected to SQLite database.")

	slog.Info("Starting server", "port", cfg.AppPort)
	if err := application.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server failed", "error", err)
		return 1
	}

	return 0
}

func logConfigSource() {
	configFileUsed := viper.ConfigFileUsed()
	if configFileUsed != "" {
		slog.Info("Successfully loaded configuration from file.", "file", configFileUsed)
	} else {
		slog.Info("Configuration file not found. Using environment variables and defaults.")
	}
}

func setupLogger(logLevel string) {
	var level slog.Level
	switch strings.ToUpper(logLevel) {
	case "DEBUG":
		level = slog.LevelDebug
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}
