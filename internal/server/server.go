// Package server is the composition root: it wires the database, services,
// handlers and middleware into one chi router and owns the HTTP lifecycle.
//
// Keeping the wiring out of main.go means a test can assemble the same
// dependency graph without starting a process, and main.go stays a thin
// config-then-run shell.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/devevents/api/internal/auth"
	"github.com/devevents/api/internal/config"
	"github.com/devevents/api/internal/geocode"
	"github.com/devevents/api/internal/handler"
	"github.com/devevents/api/internal/metrics"
	"github.com/devevents/api/internal/middleware"
	sqliteRepo "github.com/devevents/api/internal/repository/sqlite"
	"github.com/devevents/api/internal/service"
)

// Server bundles the router with the resources it owns. The database
// connection belongs to the server and is closed on shutdown.
type Server struct {
	router *chi.Mux
	config *config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the full dependency graph:
//
//	sqlite.DB → services → handlers → routes
//
// Each layer receives only what it needs; handlers never see the database
// and services never see HTTP.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// Handler exposes the router, mainly for tests driving the server through
// httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() error {
	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()
	geocoder := geocode.NewClient(s.config.GeocoderBaseURL, s.config.GeocoderEmail)

	authService := service.NewAuthService(s.db, tokens, passwords, s.logger)
	userService := service.NewUserService(s.db, passwords, s.logger)
	eventService := service.NewEventService(s.db, s.db, geocoder, s.logger)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	eventHandler := handler.NewEventHandler(eventService)

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		RPS:     s.config.RateLimitRPS,
		Burst:   s.config.RateLimitBurst,
		IdleTTL: 5 * time.Minute,
	})

	// Order matters: RealIP must run before the rate limiter so buckets key
	// on the client address, and the metrics middleware sits inside chi's
	// routing context to see route patterns.
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(metrics.Middleware)
	s.router.Use(rateLimiter.Middleware)

	requireAuth := auth.RequireAuth(tokens)

	s.router.Get("/", handler.Home)
	s.router.Handle("/metrics", metrics.Handler())
	s.router.Post("/auth/login", authHandler.Login)

	s.router.Route("/events", func(r chi.Router) {
		r.Get("/", eventHandler.List)
		r.Get("/categories", eventHandler.Categories)
		r.Get("/{id}", eventHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/", eventHandler.Create)
			r.Put("/{id}", eventHandler.Update)
			r.Delete("/{id}", eventHandler.Delete)
			r.Put("/{id}/attendees", eventHandler.Attend)
			r.Delete("/{id}/attendees", eventHandler.Unattend)
		})
	})

	s.router.Route("/users", func(r chi.Router) {
		r.Post("/", userHandler.Register)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", userHandler.List)
			r.Get("/{id}", userHandler.Get)
			r.Put("/{id}", userHandler.Update)
			r.Put("/{id}/password", userHandler.UpdatePassword)
		})
	})

	return nil
}

// Start runs the server until SIGINT/SIGTERM, then drains in-flight
// requests and closes the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
