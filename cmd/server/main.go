package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	internalauth "github.com/telconnect/telconnect/internal/auth"
	"github.com/telconnect/telconnect/internal/background"
	"github.com/telconnect/telconnect/internal/config"
	"github.com/telconnect/telconnect/internal/database"
	"github.com/telconnect/telconnect/internal/handlers"
	middlewareCustom "github.com/telconnect/telconnect/internal/middleware"
	"github.com/telconnect/telconnect/internal/models"
	"github.com/telconnect/telconnect/internal/repositories"
	"github.com/telconnect/telconnect/internal/routes"
	"github.com/telconnect/telconnect/internal/services"
	pkgauth "github.com/telconnect/telconnect/pkg/auth"
	pkghttp "github.com/telconnect/telconnect/pkg/http"
	pkglogger "github.com/telconnect/telconnect/pkg/logger"
)

const cleanupInterval = 10 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stdout, nil)).Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.Server.LogLevel),
	}))
	slog.SetDefault(logger)

	logger.Info("configuration loaded", slog.String("env", cfg.Server.Env))

	db, err := database.NewConnection(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	migrateCtx, migrateCancel := context.WithTimeout(context.Background(), 60*time.Second)
	if err := db.Migrate(migrateCtx); err != nil {
		migrateCancel()
		logger.Error("failed to run migrations", slog.Any("error", err))
		os.Exit(1)
	}
	migrateCancel()

	// Repositories
	authRepo := repositories.NewAuthRepository(db)
	sessionRepo := repositories.NewSessionRepository(db)
	contactRepo := repositories.NewContactRepository(db)
	rateLimitRepo := repositories.NewRateLimitRepository(db)

	auditLogger := pkglogger.NewAuditLogger(logger)

	// Timing padding for failed logins.
	timingDelay := &internalauth.TimingDelay{
		BaseDelay:   100 * time.Millisecond,
		RandomDelay: 200 * time.Millisecond,
	}

	// Services
	authService := services.NewAuthService(authRepo, services.AuthConfig{
		MaxLoginAttempts: cfg.Auth.MaxLoginAttempts,
		LockoutDuration:  cfg.Auth.LockoutDuration,
	}, timingDelay, logger, auditLogger)

	sessionManager := services.NewSessionManager(sessionRepo, services.SessionConfig{
		Lifetime:      cfg.Auth.SessionLifetime,
		RegenInterval: cfg.Auth.SessionRegenInterval,
	}, logger)

	rateLimitService := services.NewRateLimitService(rateLimitRepo, services.RateLimitConfig{
		Enabled:        cfg.RateLimit.Enabled,
		MaxSubmissions: cfg.RateLimit.MaxSubmissions,
		Window:         cfg.RateLimit.Window,
	}, logger, auditLogger)

	var notifier services.Notifier
	if cfg.Email.Enabled {
		sesNotifier, err := services.NewSESNotifier(cfg.Email.AWSRegion, cfg.Email.FromAddress, cfg.Email.ToAddress, cfg.Site.Name, logger)
		if err != nil {
			logger.Error("failed to initialize email notifier", slog.Any("error", err))
			os.Exit(1)
		}
		notifier = sesNotifier
	}

	contactService := services.NewContactService(contactRepo, rateLimitService, notifier, logger)

	// Bootstrap first admin account if configured
	bootCtx, bootCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := ensureAdminAccount(bootCtx, authRepo, logger); err != nil {
		logger.Error("failed to ensure admin account", slog.Any("error", err))
	}
	bootCancel()

	// Handlers
	renderer, err := handlers.NewRenderer(cfg.Site.Name, logger)
	if err != nil {
		logger.Error("failed to parse templates", slog.Any("error", err))
		os.Exit(1)
	}

	cookies := internalauth.CookieConfig{
		Name:   cfg.Auth.CookieName,
		Secure: cfg.Auth.CookieSecure,
	}
	ipConfig := &pkghttp.IPConfig{
		TrustedProxies: []string{"127.0.0.1/32", "10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"},
	}

	guestCSRF := middlewareCustom.NewGuestCSRF(cfg.Auth.CookieSecure, logger, auditLogger)

	pageHandler := handlers.NewPageHandler(renderer, cfg.Site.DefaultLanguage)
	contactHandler := handlers.NewContactHandler(contactService, renderer, guestCSRF, ipConfig, cfg.Site.DefaultLanguage, logger)
	authHandler := handlers.NewAuthHandler(authService, sessionManager, renderer, guestCSRF, cookies, cfg.Auth.SessionLifetime, ipConfig, cfg.Site.DefaultLanguage, logger)
	adminHandler := handlers.NewAdminHandler(contactService, sessionManager, renderer, cfg.Site.ItemsPerPage, cfg.Site.DefaultLanguage, logger)

	sessionMW := middlewareCustom.NewSessionMiddleware(sessionManager, cookies, cfg.Auth.SessionLifetime, logger, auditLogger)

	// Router
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: cfg.Server.Env}))
	router.Use(middlewareCustom.SecureLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	routes.RegisterRoutes(router, pageHandler, contactHandler, authHandler, adminHandler, sessionMW, guestCSRF)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.HealthCheck(ctx); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unhealthy","database":"down"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy","database":"up"}`))
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Background cleanup of expired sessions, stale attempts and lapsed
	// rate-limit counters.
	cleanupManager := background.NewCleanupManager(sessionRepo, authRepo, rateLimitRepo, logger, cleanupInterval)
	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	defer cleanupCancel()

	go cleanupManager.Start(cleanupCtx)

	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	cleanupCancel()
	cleanupManager.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
}

func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ensureAdminAccount creates the first admin account if ADMIN_USERNAME and
// ADMIN_PASSWORD are set.
func ensureAdminAccount(ctx context.Context, authRepo *repositories.AuthRepository, logger *slog.Logger) error {
	username := os.Getenv("ADMIN_USERNAME")
	password := os.Getenv("ADMIN_PASSWORD")

	if username == "" || password == "" {
		logger.Info("no ADMIN_USERNAME or ADMIN_PASSWORD set, skipping admin bootstrap")
		return nil
	}

	_, err := authRepo.GetByUsername(ctx, username)
	if err == nil {
		logger.Info("admin account already exists")
		return nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return fmt.Errorf("failed to check if admin exists: %w", err)
	}

	if err := pkgauth.ValidatePassword(password); err != nil {
		return fmt.Errorf("ADMIN_PASSWORD rejected: %w", err)
	}

	hash, err := pkgauth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &models.AdminAccount{
		Username:     username,
		PasswordHash: hash,
		IsActive:     true,
	}

	if _, err := authRepo.Create(ctx, admin); err != nil {
		return fmt.Errorf("failed to create admin account: %w", err)
	}

	logger.Info("admin account created", slog.String("username", username))
	return nil
}
