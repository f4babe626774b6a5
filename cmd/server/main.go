// Package main is the entry point for the sports registration server.
//
// The main package stays minimal — its job is to:
// 1. Read configuration (environment variables, optionally from a .env file)
// 2. Create dependencies (logger)
// 3. Start the application
//
// All actual logic lives in imported packages (internal/server, internal/handler, etc.).
package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/sakif/sports-registration/internal/server"
)

// defaultSports is the seed list inserted (idempotently) at startup.
// Override with SPORTS=comma,separated,names.
var defaultSports = []string{"Basketball", "Bouldering", "Swimming"}

func main() {
	// .env is optional — in production the environment is set by the deploy,
	// in development a .env file in the project root is convenient.
	_ = godotenv.Load()

	// DEBUG=true turns on debug-level logging; anything else stays at Info.
	level := slog.LevelInfo
	if os.Getenv("DEBUG") == "true" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))

	port := 8080
	if portStr := os.Getenv("PORT"); portStr != "" {
		var err error
		port, err = strconv.Atoi(portStr)
		if err != nil {
			logger.Error("invalid PORT value", slog.String("value", portStr))
			os.Exit(1)
		}
	}

	// Template and static directories live under web/ at the project root,
	// which is the working directory when running with `go run ./cmd/server`.
	templateDir, _ := filepath.Abs("web/templates")
	staticDir, _ := filepath.Abs("web/static")

	// DB_PATH overrides the default for production deployments.
	// Example: DB_PATH=/var/lib/sportsreg/prod.db
	dbPath := "data/registrations.db"
	if envDB := os.Getenv("DB_PATH"); envDB != "" {
		dbPath = envDB
	}

	// Ensure the data directory exists (like `mkdir -p`).
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		logger.Error("failed to create database directory",
			slog.String("dir", dbDir),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	// SESSION_SECRET signs the session cookies. It must be a long random
	// string: SESSION_SECRET=$(openssl rand -hex 32)
	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		logger.Error("SESSION_SECRET not set — refusing to start without a signing key")
		os.Exit(1)
	}

	sports := defaultSports
	if envSports := os.Getenv("SPORTS"); envSports != "" {
		sports = nil
		for _, name := range strings.Split(envSports, ",") {
			if name = strings.TrimSpace(name); name != "" {
				sports = append(sports, name)
			}
		}
	}

	cfg := server.Config{
		Port:          port,
		TemplateDir:   templateDir,
		StaticDir:     staticDir,
		DBPath:        dbPath,
		SessionSecret: sessionSecret,
		Sports:        sports,
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start() blocks until the server is shut down (via Ctrl+C or SIGTERM)
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
