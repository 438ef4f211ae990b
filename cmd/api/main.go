// Package main is the entry point for the trip planner API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
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
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/pkordes/ourtrip/internal/config"
	"github.com/pkordes/ourtrip/internal/geocode"
	"github.com/pkordes/ourtrip/internal/handler"
	"github.com/pkordes/ourtrip/internal/middleware"
	"github.com/pkordes/ourtrip/internal/planner"
	"github.com/pkordes/ourtrip/internal/repo"
	"github.com/pkordes/ourtrip/internal/service"
)

func main() {
	// --- Config -----------------------------------------------------------
	if err := config.LoadEnvFile(".env"); err != nil {
		slog.Error("could not read .env", "error", err)
		os.Exit(1)
	}
	cfg, err := config.Load()
	if err != nil {
		// Use plain stderr before the logger is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Storage ----------------------------------------------------------
	kv, closeStore, err := openStore(context.Background(), cfg, logger)
	if err != nil {
		slog.Error("failed to open store", "backend", cfg.StoreBackend, "error", err)
		os.Exit(1)
	}
	defer closeStore()
	trips := repo.NewTripRepo(kv, cfg.StorageKey, logger)

	// --- Geocoder ---------------------------------------------------------
	// A nil Geocoder makes the service store points exactly as entered.
	var geocoder service.Geocoder
	if cfg.GeocoderEnabled() {
		client, err := geocode.NewClient(geocode.Config{
			BaseURL:           cfg.GeocoderURL,
			Language:          cfg.GeocoderLanguage,
			UserAgent:         cfg.GeocoderUserAgent,
			RequestsPerSecond: cfg.GeocoderRPS,
		})
		if err != nil {
			slog.Error("invalid geocoder configuration", "error", err)
			os.Exit(1)
		}
		geocoder = client
	} else {
		slog.Info("geocoding disabled")
	}

	// --- Services ---------------------------------------------------------
	tripSvc := service.NewTripService(trips, planner.New(), geocoder, logger)
	exportSvc := service.NewExportService(trips)
	server := handler.NewServer(tripSvc, exportSvc, logger)

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer
	// → CORS → body limit.
	// RequestID generates a unique trace ID per request.
	// RealIP sets r.RemoteAddr from X-Forwarded-For / X-Real-IP (safe behind a proxy).
	// SlogLogger writes one structured JSON log line per request.
	// Recoverer catches panics and returns HTTP 500 instead of crashing.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))

	r.Mount("/", server.Routes())

	// --- HTTP Server ------------------------------------------------------
	// WriteTimeout leaves room for a rate-limited geocoding lookup.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", srv.Addr, "store", cfg.StoreBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
