// TalkTutor - English conversation tutoring server
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

	"TalkTutor/internal/api"
	"TalkTutor/internal/backend"
	"TalkTutor/internal/config"
	"TalkTutor/internal/convlog"
	"TalkTutor/internal/middleware"
	"TalkTutor/internal/scenario"
	"TalkTutor/internal/session"
	"TalkTutor/internal/telemetry"
	"TalkTutor/internal/tutor"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger, err := telemetry.InitLogger(cfg.LogDir)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, _, telemetryCleanup, err := telemetry.InitTelemetry(ctx, cfg.LogDir)
	if err != nil {
		logger.Error("Failed to initialize telemetry", "error", err)
		os.Exit(1)
	}
	defer telemetryCleanup()

	logger.Info("Starting server", "port", cfg.Port, "backend", cfg.Backend)

	var audit *convlog.Log
	if cfg.ConvLogPath != "" {
		audit, err = convlog.Open(cfg.ConvLogPath)
		if err != nil {
			logger.Error("Failed to open conversation log", "error", err)
			os.Exit(1)
		}
		defer func() {
			if closeErr := audit.Close(); closeErr != nil {
				logger.Error("Failed to close conversation log", "error", closeErr)
			}
		}()
		logger.Info("Conversation log ready", "path", cfg.ConvLogPath)
	}

	catalog, err := scenario.Load(cfg.ScenarioFile)
	if err != nil {
		logger.Error("Failed to load scenario catalog", "error", err)
		os.Exit(1)
	}

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	client, err := backend.New(cfg, httpClient)
	if err != nil {
		logger.Error("Failed to initialize completion backend", "error", err)
		os.Exit(1)
	}

	store := session.NewStore()
	svc := tutor.New(store, client, audit, cfg.MaxTurnPairs, logger)
	handler := api.NewHandler(svc, catalog)

	// Setup router.
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))
	r.Use(middleware.CORS([]string{"*"}))

	handler.RegisterRoutes(r)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.HTTPTimeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	stop()

	logger.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("Server stopped successfully")
}
