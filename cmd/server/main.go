// Telegram agent backend - persona/council orchestration over a
// text-completion backend.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/neoweileng-spec/telegram-agent-backend/internal/bot"
	"github.com/neoweileng-spec/telegram-agent-backend/internal/config"
	"github.com/neoweileng-spec/telegram-agent-backend/internal/llm"
	"github.com/neoweileng-spec/telegram-agent-backend/internal/middleware"
	"github.com/neoweileng-spec/telegram-agent-backend/internal/orchestrator"
	"github.com/neoweileng-spec/telegram-agent-backend/internal/persona"
	"github.com/neoweileng-spec/telegram-agent-backend/internal/store"
	"github.com/neoweileng-spec/telegram-agent-backend/internal/telegram"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting server", "port", cfg.Port, "message_budget", cfg.MessageBudget)

	// Initialize dependencies.
	var repo store.Repository
	if cfg.DBPath != "" {
		repo, err = store.NewSQLite(cfg.DBPath)
		if err != nil {
			slog.Error("Failed to initialize database", "error", err)
			os.Exit(1)
		}
	} else {
		slog.Info("DB_PATH not set, conversation state is in-memory only")
		repo = store.NewMemory()
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			slog.Error("Failed to close repository", "error", closeErr)
		}
	}()

	if err := repo.Ping(context.Background()); err != nil {
		slog.Error("Store health check failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Conversation store ready")

	registry, err := persona.Load(cfg.PersonasPath)
	if err != nil {
		slog.Error("Failed to load persona registry", "error", err)
		os.Exit(1)
	}
	slog.Info("Persona registry loaded", "user_roles", registry.UserRoleList())

	if cfg.OllamaURL == "" {
		slog.Warn("OLLAMA_URL not set, model calls will degrade to an advisory reply")
	}
	completer := llm.NewClient(llm.Config{
		BaseURL: cfg.OllamaURL,
		Model:   cfg.OllamaModel,
	}, logger)

	orch := orchestrator.New(completer, registry, logger)

	sender := telegram.NewClient(telegram.Config{
		Token:   cfg.TelegramToken,
		BaseURL: cfg.TelegramBaseURL,
	}, logger)

	botHandler := bot.NewHandler(repo, orch, sender, registry, cfg.MessageBudget, logger)

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	r.Get("/", botHandler.Root)
	r.With(middleware.TelegramSecret(cfg.TelegramSecret)).Post("/webhook", botHandler.Webhook)

	// Webhook handling runs inline, so the write timeout must outlast the
	// message budget plus reply delivery.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.MessageBudget + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start server.
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal.
	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped successfully")
}
