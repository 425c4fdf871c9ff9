package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/BradenHooton/roomgate/internal/auth"
	"github.com/BradenHooton/roomgate/internal/background"
	"github.com/BradenHooton/roomgate/internal/config"
	"github.com/BradenHooton/roomgate/internal/database"
	"github.com/BradenHooton/roomgate/internal/handlers"
	"github.com/BradenHooton/roomgate/internal/metrics"
	middlewareCustom "github.com/BradenHooton/roomgate/internal/middleware"
	"github.com/BradenHooton/roomgate/internal/models"
	"github.com/BradenHooton/roomgate/internal/repositories"
	"github.com/BradenHooton/roomgate/internal/routes"
	"github.com/BradenHooton/roomgate/internal/services"
	pkgauth "github.com/BradenHooton/roomgate/pkg/auth"
	pkghttp "github.com/BradenHooton/roomgate/pkg/http"
	pkglogger "github.com/BradenHooton/roomgate/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLogLevel(cfg.Server.LogLevel)}))
	slog.SetDefault(logger)

	logger.Info("configuration loaded", slog.String("env", cfg.Server.Env))

	// Initialize database
	db, err := database.NewConnection(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		migrateCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
		err := db.Migrate(migrateCtx)
		cancel()
		if err != nil {
			logger.Error("failed to run migrations", slog.Any("error", err))
			os.Exit(1)
		}
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.RegisterMetrics(registry)

	// Initialize repositories
	studentRepo := repositories.NewStudentRepository(db)
	landlordRepo := repositories.NewLandlordRepository(db)
	adminRepo := repositories.NewAdministratorRepository(db)
	verificationRepo := repositories.NewVerificationRepository(db)

	// Password verification and login lockout
	verifier := pkgauth.NewBcryptVerifier(cfg.Auth.BcryptCost)
	limiter := services.NewLoginRateLimiter(services.LoginRateLimiterConfig{
		MaxFailedAttempts: cfg.Auth.MaxFailedAttempts,
		LockoutDuration:   cfg.Auth.LockoutDuration,
		Shards:            cfg.Auth.LimiterShards,
	}, logger)
	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	defer cleanupCancel()
	cleanup := background.NewCleanupManager(limiter, logger, cfg.Auth.LockoutDuration)
	go cleanup.Start(cleanupCtx)

	timingDelay := auth.NewTimingDelay(auth.TimingConfig{
		BaseDelayMs:   cfg.Auth.TimingDelayBaseMs,
		RandomDelayMs: cfg.Auth.TimingDelayRandomMs,
	})

	// Login precedence: administrator, landlord, student
	lookups := []services.AccountLookup{
		services.NewAccountLookup(models.RoleAdmin, adminRepo.GetByEmail),
		services.NewAccountLookup(models.RoleLandlord, landlordRepo.GetByEmail),
		services.NewAccountLookup(models.RoleStudent, studentRepo.GetByEmail),
	}

	// Applicant notifications
	var notifier services.ApplicationNotifier
	if cfg.Email.Enabled {
		sesNotifier, err := services.NewSESApplicationNotifier(context.Background(), cfg.Email.AWSRegion, cfg.Email.FromAddress, logger)
		if err != nil {
			logger.Error("failed to initialize email notifier", slog.Any("error", err))
			os.Exit(1)
		}
		notifier = sesNotifier
	}

	// Initialize services
	authService := services.NewAuthenticationService(lookups, verifier, limiter, timingDelay, logger)
	adminService := services.NewAdministratorService(adminRepo, landlordRepo, verificationRepo, verifier, notifier, logger)

	// Bootstrap first administrator if configured
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := ensureBootstrapAdministrator(ctx, adminService, logger); err != nil {
		logger.Error("failed to bootstrap administrator", slog.Any("error", err))
	}
	cancel()

	// Initialize handlers
	ipConfig := pkghttp.NewIPConfig(cfg.Server.TrustedProxies)
	authHandler := handlers.NewAuthHandler(authService, ipConfig, logger)
	adminHandler := handlers.NewAdminHandler(adminService)

	// Setup router
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middlewareCustom.SecureLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// Register routes
	routes.RegisterRoutes(router, authHandler, adminHandler, middlewareCustom.RateLimitConfig{
		RequestsPerMinute: cfg.Auth.LoginRequestsPerMinute,
		IPConfig:          ipConfig,
	})

	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	// Health check with database
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

	// Create server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server
	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")
	cleanup.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
}

// bootstrapper is the part of AdministratorService used at startup
type bootstrapper interface {
	HasAnyAdministrators(ctx context.Context) (bool, error)
	CreateAdministrator(ctx context.Context, input services.AdministratorInput, actingAdminID, actingPassword string) (*models.Administrator, error)
}

// ensureBootstrapAdministrator creates the first super-admin from ADMIN_EMAIL and
// ADMIN_PASSWORD when the administrator store is empty
func ensureBootstrapAdministrator(ctx context.Context, admins bootstrapper, logger *slog.Logger) error {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")

	if adminEmail == "" || adminPassword == "" {
		logger.Info("no ADMIN_EMAIL or ADMIN_PASSWORD set, skipping administrator bootstrap")
		return nil
	}

	exists, err := admins.HasAnyAdministrators(ctx)
	if err != nil {
		return fmt.Errorf("failed to check for administrators: %w", err)
	}
	if exists {
		logger.Info("administrators already exist, skipping bootstrap")
		return nil
	}

	admin, err := admins.CreateAdministrator(ctx, services.AdministratorInput{
		Name:     envOrDefault("ADMIN_NAME", "System"),
		Surname:  envOrDefault("ADMIN_SURNAME", "Administrator"),
		Email:    adminEmail,
		Password: adminPassword,
	}, "", "")
	if err != nil {
		if errors.Is(err, models.ErrForbidden) {
			// another instance bootstrapped first
			logger.Info("administrator bootstrapped concurrently, skipping")
			return nil
		}
		return fmt.Errorf("failed to create bootstrap administrator: %w", err)
	}

	logger.Info("bootstrap administrator created",
		slog.String("admin_id", admin.ID),
		slog.String("email", pkglogger.SanitizedEmail(admin.Contact.Email)))
	return nil
}

func envOrDefault(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
