// Package server is the composition root: it wires the database, services,
// handlers and middleware together, defines every route, and owns the HTTP
// server's lifecycle. main.go stays minimal — read config, call New, Start.
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

	"github.com/avolkov/yatube/internal/auth"
	"github.com/avolkov/yatube/internal/cache"
	"github.com/avolkov/yatube/internal/fixtures"
	"github.com/avolkov/yatube/internal/handler"
	"github.com/avolkov/yatube/internal/middleware"
	sqliteRepo "github.com/avolkov/yatube/internal/repository/sqlite"
	"github.com/avolkov/yatube/internal/service"
)

// Config holds everything the server needs from the environment. A struct
// instead of parameters keeps wiring stable as options get added.
type Config struct {
	Port      int
	DBPath    string
	JWTSecret string

	GitHubClientID     string
	GitHubClientSecret string
	GitHubCallbackURL  string

	MediaDir     string        // uploaded images live here, served under /media/
	CacheTTL     time.Duration // home-feed page cache lifetime
	FixturesPath string        // optional JSON group fixtures, loaded at startup
}

// Server owns the router, the database connection and the page cache. The
// database is closed during graceful shutdown so the WAL gets flushed and the
// file lock released.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
	pages  *cache.PageCache
}

// New assembles the whole dependency chain: database, auth plumbing,
// services, handlers, routes. Each layer only receives what it needs — the
// services get repository interfaces, the handlers get services, and nothing
// below the handler layer ever sees HTTP.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
		pages:  cache.New(cfg.CacheTTL),
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

func (s *Server) setupRoutes() error {
	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}

	github := auth.NewGitHubProvider(
		s.config.GitHubClientID,
		s.config.GitHubClientSecret,
		s.config.GitHubCallbackURL,
	)

	// One sqlite.DB satisfies every repository interface; the services pick
	// the slices of it they need.
	accountSvc := service.NewAuthService(s.db, auth.NewPasswordService(), tokens, s.logger)
	postSvc := service.NewPostService(s.db, s.db, s.logger)
	groupSvc := service.NewGroupService(s.db, s.logger)
	commentSvc := service.NewCommentService(s.db, s.db, s.logger)
	followSvc := service.NewFollowService(s.db, s.db, s.logger)

	if s.config.FixturesPath != "" {
		if err := fixtures.LoadGroups(context.Background(), s.config.FixturesPath, groupSvc, s.logger); err != nil {
			return err
		}
	}

	posts := handler.NewPostHandler(postSvc, groupSvc, commentSvc, accountSvc, s.config.MediaDir, s.logger)
	groups := handler.NewGroupHandler(postSvc, s.logger)
	profiles := handler.NewProfileHandler(postSvc, followSvc, accountSvc, s.logger)
	comments := handler.NewCommentHandler(commentSvc, s.logger)
	accounts := handler.NewAuthHandler(accountSvc, github, s.logger)

	// Middleware order matters: request ID and real IP first so the logger
	// sees them, recoverer before anything that might panic.
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	s.router.NotFound(handler.NotFound)

	// Uploaded images. StripPrefix removes /media/ before the filesystem
	// lookup, so /media/posts/x.png serves {MediaDir}/posts/x.png.
	fileServer := http.FileServer(http.Dir(s.config.MediaDir))
	s.router.Handle("/media/*", http.StripPrefix("/media/", fileServer))

	// Public pages. Optional auth identifies the viewer when a session
	// cookie is present (the profile page's "following" flag) but lets
	// anonymous requests through.
	s.router.Group(func(r chi.Router) {
		r.Use(auth.Optional(tokens))

		// Only the home feed sits behind the page cache: it is the same
		// for every viewer, unlike the follow feed.
		r.With(middleware.CachePage(s.pages)).Get("/", posts.HandleHome)

		r.Get("/group/{slug}/", groups.HandleGroupPage)
		r.Get("/profile/{username}/", profiles.HandleProfile)
		r.Get("/posts/{id}/", posts.HandleDetail)
	})

	// Write actions and the personalized feed. RequireLogin sends anonymous
	// browsers to the login page with a 302, never a bare 401.
	s.router.Group(func(r chi.Router) {
		r.Use(auth.RequireLogin(tokens))

		r.Get("/create/", posts.HandleCreateForm)
		r.Post("/create/", posts.HandleCreate)
		r.Get("/posts/{id}/edit/", posts.HandleEditForm)
		r.Post("/posts/{id}/edit/", posts.HandleEdit)
		r.Post("/posts/{id}/comment/", comments.HandleAdd)

		r.Get("/follow/", profiles.HandleFollowFeed)
		r.Get("/profile/{username}/follow/", profiles.HandleFollow)
		r.Get("/profile/{username}/unfollow/", profiles.HandleUnfollow)

		r.Get("/auth/me/", accounts.HandleMe)
	})

	// Session endpoints.
	s.router.Post("/auth/signup/", accounts.HandleSignup)
	s.router.Post("/auth/login/", accounts.HandleLogin)
	s.router.Post("/auth/logout/", accounts.HandleLogout)
	s.router.Get("/auth/github/login", accounts.HandleGitHubLogin)
	s.router.Get("/auth/github/callback", accounts.HandleGitHubCallback)

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests 30 seconds
// to finish, close the database.
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
			slog.Duration("cacheTTL", s.config.CacheTTL),
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
