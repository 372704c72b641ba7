package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/minhchau-creator/blogger.com/internal/api/middleware"
	"github.com/minhchau-creator/blogger.com/internal/api/routes"
	"github.com/minhchau-creator/blogger.com/internal/auth"
	"github.com/minhchau-creator/blogger.com/internal/config"
	"github.com/minhchau-creator/blogger.com/internal/core/comments"
	"github.com/minhchau-creator/blogger.com/internal/core/likes"
	"github.com/minhchau-creator/blogger.com/internal/core/notifications"
	"github.com/minhchau-creator/blogger.com/internal/core/posts"
	"github.com/minhchau-creator/blogger.com/internal/core/users"
	postgresRepo "github.com/minhchau-creator/blogger.com/internal/db/postgres"
	"github.com/minhchau-creator/blogger.com/internal/mail"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgresRepo.Open(ctx, cfg.Database.URL, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.Error("failed to close database", "error", closeErr)
		}
	}()
	logger.Info("connected to database")

	if err := postgresRepo.Migrate(db); err != nil {
		return err
	}
	logger.Info("migrations completed successfully")

	tokens, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}

	var mailer users.Mailer
	if cfg.Mail.Enabled {
		mailer = mail.New(cfg.Mail.SMTP(), logger)
	} else {
		logger.Warn("mail disabled, emails are only logged")
		mailer = mail.LogMailer{Logger: logger}
	}

	// Initialize repositories and services
	tx := postgresRepo.NewTransactor(db)
	userRepo := postgresRepo.NewUserRepository(db)
	postRepo := postgresRepo.NewPostRepository(db)
	notificationRepo := postgresRepo.NewNotificationRepository(db)

	userService := users.NewUserService(userRepo, postgresRepo.NewOTPRepository(db), tokens, mailer, logger)
	postService := posts.NewPostService(postRepo, userRepo, tx, logger, posts.WithTrendingTTL(cfg.Trending.CacheTTL))
	likeService := likes.NewService(postgresRepo.NewLikeRepository(db), postRepo, notificationRepo, tx, logger,
		likes.WithTrendingInvalidator(postService))
	commentService := comments.NewCommentService(postgresRepo.NewCommentRepository(db), postRepo, notificationRepo, tx, logger,
		comments.WithTrendingInvalidator(postService))
	notificationService := notifications.NewService(notificationRepo, userRepo, logger)

	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(middleware.NewMetrics(prometheus.DefaultRegisterer).Middleware)

	if cfg.RateLimit.Enabled {
		rateLimiter, err := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst, cfg.RateLimit.MaxClients)
		if err != nil {
			return err
		}
		r.Use(rateLimiter.Middleware)
	}

	authMiddleware := middleware.NewAuthMiddleware(tokens, logger)

	routes.RegisterUserRoutes(r, userService, authMiddleware)
	routes.RegisterPostRoutes(r, postService, authMiddleware)
	routes.RegisterCommentRoutes(r, commentService, authMiddleware)
	routes.RegisterLikeRoutes(r, likeService, authMiddleware)
	routes.RegisterNotificationRoutes(r, notificationService, authMiddleware)
	routes.RegisterOpsRoutes(r, db, prometheus.DefaultGatherer)

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           r,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("blog server starting", "addr", cfg.Server.Addr)
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if strings.EqualFold(cfg.Format, "text") {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
