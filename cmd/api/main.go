// Package main is the entry point for the hike planner API server.
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
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pkordes/hike-planner/backend/internal/config"
	"github.com/pkordes/hike-planner/backend/internal/genlock"
	"github.com/pkordes/hike-planner/backend/internal/handler"
	"github.com/pkordes/hike-planner/backend/internal/metrics"
	"github.com/pkordes/hike-planner/backend/internal/middleware"
	"github.com/pkordes/hike-planner/backend/internal/repo"
	"github.com/pkordes/hike-planner/backend/internal/service"
	"github.com/pkordes/hike-planner/backend/internal/textgen"
	"github.com/pkordes/hike-planner/backend/migrations"
)

// lockMargin keeps a generation lock alive a little past the generation
// timeout so a slow store does not let a second request in.
const lockMargin = 30 * time.Second

func main() {
	// --- Config -----------------------------------------------------------
	if err := config.LoadDotEnv(); err != nil {
		slog.Error("failed to read .env", "error", err)
		os.Exit(1)
	}
	cfg, err := config.Load()
	if err != nil {
		// The default logger is still in place at this point.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	// JSON for log aggregators; LOG_FORMAT=text gives colourised local output.
	var logHandler slog.Handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})
	if cfg.LogFormat == "text" {
		logHandler = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      cfg.SlogLevel(),
			TimeFormat: time.Kitchen,
		})
	}
	logger := slog.New(logHandler)
	slog.SetDefault(logger)

	ctx := context.Background()

	// --- Database ---------------------------------------------------------
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	slog.Info("database connection established")

	// goose drives database/sql; OpenDBFromPool shares the pool's config.
	sqlDB := stdlib.OpenDBFromPool(pool)
	applied, err := migrations.Up(ctx, sqlDB)
	sqlDB.Close()
	if err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("migrations applied", "count", applied)

	// --- Collaborators ----------------------------------------------------
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	var generator service.Generator
	if cfg.OpenAI.APIKey != "" {
		client, err := textgen.New(textgen.Config{
			APIKey:  cfg.OpenAI.APIKey,
			BaseURL: cfg.OpenAI.BaseURL,
			Model:   cfg.OpenAI.Model,
			OrgID:   cfg.OpenAI.OrgID,
		}, &http.Client{Timeout: cfg.GenerationTimeout + 5*time.Second})
		if err != nil {
			slog.Error("failed to create text generator", "error", err)
			os.Exit(1)
		}
		generator = client
	} else {
		slog.Warn("OPENAI_API_KEY not set; itinerary generation disabled")
	}

	var locker genlock.Locker = genlock.Noop{}
	if cfg.RedisURL != "" {
		rdb, err := genlock.Connect(ctx, cfg.RedisURL)
		if err != nil {
			slog.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer rdb.Close()
		locker = genlock.NewRedisLocker(rdb, cfg.GenerationTimeout+lockMargin)
		slog.Info("redis generation lock enabled")
	}

	// --- Services ---------------------------------------------------------
	tripRepo := repo.NewTripRepo(pool)
	attendeeRepo := repo.NewAttendeeRepo(pool)
	itineraryRepo := repo.NewItineraryRepo(pool)

	tripSvc := service.NewTripService(tripRepo)
	attendeeSvc := service.NewAttendeeService(tripRepo, attendeeRepo)
	consensusSvc := service.NewConsensusService(tripRepo, attendeeRepo, m)
	exportSvc := service.NewExportService(tripRepo, attendeeRepo)
	itinerarySvc := service.NewItineraryService(tripRepo, attendeeRepo, itineraryRepo, service.ItineraryServiceConfig{
		Generator: generator,
		Locker:    locker,
		Recorder:  m,
		Timeout:   cfg.GenerationTimeout,
	})

	limiter := middleware.NewRateLimiter(cfg.ItineraryRatePerMinute, 1, 10*time.Minute)
	stopSweep := make(chan struct{})
	defer close(stopSweep)
	go limiter.Run(time.Minute, stopSweep)

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer
	// → CORS → body limit → metrics.
	// RealIP sets r.RemoteAddr from X-Forwarded-For / X-Real-IP, which is
	// also what the rate limiter keys on.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))
	r.Use(m.Middleware)

	srv := handler.NewServer(tripSvc, attendeeSvc, consensusSvc, exportSvc, itinerarySvc, handler.Options{
		PublicBaseURL:   cfg.PublicBaseURL,
		GenerateLimiter: limiter.Limit,
		Metrics:         promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})
	srv.Routes(r)

	// --- HTTP Server ------------------------------------------------------
	// WriteTimeout must outlast a full itinerary generation.
	httpSrv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.GenerationTimeout + 15*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
