package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/vidtube/backend/internal/auth"
	"github.com/vidtube/backend/internal/config"
	"github.com/vidtube/backend/internal/database"
	"github.com/vidtube/backend/internal/logging"
	"github.com/vidtube/backend/internal/metrics"
	"github.com/vidtube/backend/internal/ratelimit"
	"github.com/vidtube/backend/internal/storage"
	"github.com/vidtube/backend/internal/tracing"
)

// API bundles the handler dependencies.
type API struct {
	users         UserStore
	sessions      SessionService
	videos        VideoStore
	comments      CommentStore
	likes         LikeStore
	playlists     PlaylistStore
	subscriptions SubscriptionStore
	tweets        TweetStore
	dashboard     DashboardStore
	media         MediaStore
	health        HealthChecker
	cacheHealth   HealthChecker
	log           *logging.Logger
	cookies       cookieConfig
}

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.NewLogger(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}

	// Database
	db, err := database.New(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	repo := database.NewRepository(db)

	// Object storage
	media, err := storage.New(cfg.Storage)
	if err != nil {
		log.Fatalf("failed to initialize storage: %v", err)
	}

	// Redis-backed limiter for credential endpoints
	loginLimiter, err := ratelimit.New(cfg.Redis, cfg.RateLimit.LoginAttempts, cfg.RateLimit.LoginWindow)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer loginLimiter.Close()

	// Auth
	tokens := auth.NewTokenService(cfg.Auth)
	sessions := auth.NewService(repo, tokens)

	// Tracing
	if cfg.Tracing.Enabled {
		_, closer, err := tracing.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.JaegerEndpoint)
		if err != nil {
			log.Fatalf("failed to initialize tracing: %v", err)
		}
		defer closer.Close()
	}

	// Metrics server
	if cfg.Metrics.Enabled {
		metricsServer := metrics.NewServer(cfg.Metrics.Port)
		go func() {
			log.Infof("starting metrics server on port %d", cfg.Metrics.Port)
			if err := metricsServer.Start(); err != nil {
				log.ErrorWithErr("metrics server failed", err)
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			if err := metricsServer.Shutdown(ctx); err != nil {
				log.ErrorWithErr("metrics server shutdown failed", err)
			}
		}()
	}

	api := &API{
		users:         repo,
		sessions:      sessions,
		videos:        repo,
		comments:      repo,
		likes:         repo,
		playlists:     repo,
		subscriptions: repo,
		tweets:        repo,
		dashboard:     repo,
		media:         media,
		health:        repo,
		cacheHealth:   loginLimiter,
		log:           log,
		cookies: cookieConfig{
			domain:        cfg.Auth.CookieDomain,
			secure:        cfg.Auth.CookieSecure,
			accessMaxAge:  int(cfg.Auth.AccessTokenTTL.Seconds()),
			refreshMaxAge: int(cfg.Auth.RefreshTokenTTL.Seconds()),
		},
	}

	router := setupRouter(api, tokens, loginLimiter, cfg)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Infof("starting API server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Info("server stopped")
}
