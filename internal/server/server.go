// Package server sets up the HTTP server, router, and all route definitions.
//
// This package is the "wiring" layer — the composition root where the whole
// dependency chain is assembled:
//
//	sqlite.DB → AccountService/RegistrationService → handlers → routes
//
// Each layer only receives what it needs: services get repository interfaces
// (not the concrete sqlite.DB), handlers get services (not repositories).
// main.go stays minimal — read config, call server.New, call Start.
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

	"github.com/sakif/sports-registration/internal/auth"
	"github.com/sakif/sports-registration/internal/handler"
	"github.com/sakif/sports-registration/internal/middleware"
	sqliteRepo "github.com/sakif/sports-registration/internal/repository/sqlite"
	"github.com/sakif/sports-registration/internal/service"
)

// Config holds server configuration, loaded from the environment by main.
type Config struct {
	Port          int
	TemplateDir   string
	StaticDir     string
	DBPath        string
	SessionSecret string
	Sports        []string // seed list, inserted idempotently at startup
}

// Server owns the router and the database connection. The connection is
// closed during graceful shutdown to flush the WAL and release the file lock.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a Server: opens the database, seeds the sports table, wires the
// dependency chain, and registers all routes.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Seed sports on every start — SeedSports only inserts names that are
	// missing, so restarts never duplicate rows.
	if err := db.SeedSports(context.Background(), cfg.Sports); err != nil {
		db.Close()
		return nil, fmt.Errorf("seeding sports: %w", err)
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

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
//
//	GET       /                       → redirect by session state
//	GET, POST /create_account         → signup form / create account
//	GET, POST /login                  → login form / issue session cookie
//	GET       /logout                 → clear session cookie
//	GET       /select_sports          → sport selection page (session)
//	GET       /get_sport_icon/{sport}/{colour} → icon asset path
//	GET       /get_registered_sports  → JSON sport names (session)
//	POST      /register_for_sport     → JSON toggle on (session)
//	POST      /deregister_for_sport   → JSON toggle off (session)
//	GET       /admin                  → registrations table (admin)
//	POST      /make_admin             → promote account (admin)
//	GET       /static/*               → static files
func (s *Server) setupRoutes() error {
	// Global middleware — runs on every request, in order.
	s.router.Use(chimiddleware.RequestID) // Adds X-Request-ID header
	s.router.Use(chimiddleware.RealIP)    // Extracts real IP from X-Forwarded-For
	s.router.Use(chimiddleware.Recoverer) // Recovers from panics, returns 500
	s.router.Use(middleware.Logger(s.logger))

	// Static files: GET /static/css/style.css → serves {StaticDir}/css/style.css
	fileServer := http.FileServer(http.Dir(s.config.StaticDir))
	s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	templates, err := handler.NewTemplates(s.config.TemplateDir, s.logger)
	if err != nil {
		return fmt.Errorf("parsing templates: %w", err)
	}

	sessions, err := auth.NewSessionService(s.config.SessionSecret)
	if err != nil {
		return fmt.Errorf("creating session service: %w", err)
	}
	passwords := auth.NewPasswordService()

	// DEPENDENCY CHAIN:
	// s.db implements all three repository interfaces; the services receive
	// the interfaces, the handlers receive the services. Handlers never touch
	// the database; services never touch HTTP.
	accountService := service.NewAccountService(s.db, passwords, s.logger)
	registrationService := service.NewRegistrationService(s.db, s.db, s.db, s.logger)

	accountHandler := handler.NewAccountHandler(accountService, sessions, templates, s.logger)
	sportsHandler := handler.NewSportsHandler(registrationService, templates, s.logger)
	adminHandler := handler.NewAdminHandler(accountService, registrationService, templates, s.logger)

	// Public routes. OptionalAuth lets / and the forms react to an existing
	// session without requiring one.
	s.router.Group(func(r chi.Router) {
		r.Use(auth.OptionalAuth(sessions))
		r.Get("/", accountHandler.HandleIndex)
		r.Get("/create_account", accountHandler.HandleCreateAccount)
		r.Post("/create_account", accountHandler.HandleCreateAccount)
		r.Get("/login", accountHandler.HandleLogin)
		r.Post("/login", accountHandler.HandleLogin)
		r.Get("/logout", accountHandler.HandleLogout)
		r.Get("/get_sport_icon/{sport}/{colour}", sportsHandler.HandleSportIcon)
	})

	// Protected pages: anonymous requests are redirected to /login.
	s.router.Group(func(r chi.Router) {
		r.Use(auth.RequirePage(sessions))
		r.Get("/select_sports", sportsHandler.HandleSelectSports)
		r.Get("/admin", adminHandler.HandleDashboard)
	})

	// Protected JSON routes: anonymous requests get a structured 401.
	s.router.Group(func(r chi.Router) {
		r.Use(auth.RequireJSON(sessions))
		r.Get("/get_registered_sports", sportsHandler.HandleRegisteredSports)
		r.Post("/register_for_sport", sportsHandler.HandleRegister)
		r.Post("/deregister_for_sport", sportsHandler.HandleDeregister)
		r.Post("/make_admin", adminHandler.HandleMakeAdmin)
	})

	return nil
}

// Start starts the HTTP server and handles graceful shutdown:
// stop accepting connections, wait up to 30s for in-flight requests, then
// close the database (flushes WAL, releases the file lock).
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
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
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
