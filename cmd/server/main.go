// Package main is the entry point for the Yatube server. It stays minimal:
// read configuration from the environment, build the logger, hand everything
// to internal/server. All actual logic lives in the imported packages.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/avolkov/yatube/internal/server"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(),
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

	// JWT_SECRET must be a long random string, e.g.
	//   JWT_SECRET=$(openssl rand -hex 32)
	// Sessions are signed with it, so the server refuses to start without one.
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Error("JWT_SECRET is required")
		os.Exit(1)
	}

	dbPath := envOr("DB_PATH", "data/yatube.db")
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		logger.Error("failed to create database directory",
			slog.String("dir", filepath.Dir(dbPath)),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	mediaDir := envOr("MEDIA_DIR", "data/media")
	if err := os.MkdirAll(mediaDir, 0o755); err != nil {
		logger.Error("failed to create media directory",
			slog.String("dir", mediaDir),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	// Home-feed cache lifetime. 20 seconds keeps the busiest page cheap
	// while staying short enough that new posts appear promptly.
	cacheTTL := 20 * time.Second
	if ttlStr := os.Getenv("CACHE_TTL_SECONDS"); ttlStr != "" {
		seconds, err := strconv.Atoi(ttlStr)
		if err != nil || seconds < 0 {
			logger.Error("invalid CACHE_TTL_SECONDS value", slog.String("value", ttlStr))
			os.Exit(1)
		}
		cacheTTL = time.Duration(seconds) * time.Second
	}

	githubCallbackURL := os.Getenv("GITHUB_CALLBACK_URL")
	if githubCallbackURL == "" {
		githubCallbackURL = fmt.Sprintf("http://localhost:%d/auth/github/callback", port)
	}

	cfg := server.Config{
		Port:      port,
		DBPath:    dbPath,
		JWTSecret: jwtSecret,

		GitHubClientID:     os.Getenv("GITHUB_CLIENT_ID"),
		GitHubClientSecret: os.Getenv("GITHUB_CLIENT_SECRET"),
		GitHubCallbackURL:  githubCallbackURL,

		MediaDir:     mediaDir,
		CacheTTL:     cacheTTL,
		FixturesPath: os.Getenv("FIXTURES_PATH"),
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start blocks until shutdown (Ctrl+C or SIGTERM).
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func logLevel() slog.Level {
	switch os.Getenv("LOG_LEVEL") {
	case "error":
		return slog.LevelError
	case "warn":
		return slog.LevelWarn
	case "info":
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}
