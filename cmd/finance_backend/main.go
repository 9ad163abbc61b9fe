package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/finance_tracker/internal/adapters/blobstore"
	"github.com/SscSPs/finance_tracker/internal/adapters/localcache"
	"github.com/SscSPs/finance_tracker/internal/adapters/notify"
	"github.com/SscSPs/finance_tracker/internal/adapters/pdftext"
	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finance_tracker/internal/core/ports/services"
	"github.com/SscSPs/finance_tracker/internal/core/services"
	"github.com/SscSPs/finance_tracker/internal/handlers"
	"github.com/SscSPs/finance_tracker/internal/middleware"
	"github.com/SscSPs/finance_tracker/internal/platform/analytics"
	"github.com/SscSPs/finance_tracker/internal/platform/config"
	"github.com/SscSPs/finance_tracker/internal/platform/logging"
	"github.com/SscSPs/finance_tracker/internal/repositories/database/migrations"
	"github.com/SscSPs/finance_tracker/internal/repositories/database/pgsql"
	"github.com/SscSPs/finance_tracker/internal/repositories/database/sqlite"
	"github.com/SscSPs/finance_tracker/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/afero"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// @title Finance Tracker API
// @version 1.0
// @description Personal finance tracker: transactions, overdraft control, settings and invoices.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize structured logger
	logger := logging.New(cfg.IsProduction, cfg.LogLevel)

	ctx := context.Background()

	repos, closeDB, err := openRemoteStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize remote store", slog.String("backend", cfg.DataBackend), slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeDB()

	osFs := afero.NewOsFs()
	repos.SettingsCache = localcache.NewSettingsCache(osFs, cfg.SettingsCacheDir)
	repos.DocumentText = pdftext.NewReader()

	var localFiles *blobstore.LocalStore
	switch cfg.InvoiceStorage {
	case config.InvoiceStorageGCS:
		gcs, err := blobstore.NewGCSStore(ctx, cfg.GCSBucket, cfg.GCSCredentialsFile)
		if err != nil {
			logger.Error("Failed to initialize GCS invoice storage", slog.String("bucket", cfg.GCSBucket), slog.String("error", err.Error()))
			os.Exit(1)
		}
		repos.InvoiceFiles = gcs
		logger.Info("Invoice files stored in GCS", slog.String("bucket", cfg.GCSBucket))
	default:
		if err := osFs.MkdirAll(cfg.InvoiceLocalDir, 0o755); err != nil {
			logger.Error("Failed to create invoice directory", slog.String("dir", cfg.InvoiceLocalDir), slog.String("error", err.Error()))
			os.Exit(1)
		}
		localFiles = blobstore.NewLocalStore(osFs, cfg.InvoiceLocalDir, cfg.InvoicePublicBaseURL)
		repos.InvoiceFiles = localFiles
		logger.Info("Invoice files stored locally", slog.String("dir", cfg.InvoiceLocalDir))
	}

	var publisher portssvc.NotificationPublisher
	if cfg.AMQPURL != "" {
		amqpPublisher, err := notify.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPRoutingKey)
		if err != nil {
			// Notifications still reach the in-app inbox
			logger.Warn("AMQP publisher unavailable, notifications stay in-app only", slog.String("error", err.Error()))
		} else {
			publisher = amqpPublisher
			logger.Info("Publishing notifications over AMQP", slog.String("exchange", cfg.AMQPExchange))
		}
	}

	serviceContainer := services.NewServiceContainer(cfg, repos, publisher)

	if err := serviceContainer.Readiness.EnsureReady(ctx); err != nil {
		// Not fatal: operations report the database as not ready and the guard retries on demand
		logger.Warn("Database schema not ready at startup", slog.String("error", err.Error()))
	} else {
		logger.Info("Database schema verified")
	}

	posthogClient := analytics.NewClient(cfg.PosthogAPIKey, cfg.PosthogEndpoint, logger)
	defer posthogClient.Close()

	uploadRate, err := limiter.NewRateFromFormatted(cfg.UploadRateLimit)
	if err != nil {
		logger.Error("Invalid upload rate limit", slog.String("rate", cfg.UploadRateLimit), slog.String("error", err.Error()))
		os.Exit(1)
	}
	uploadLimiter := limiter.New(memory.NewStore(), uploadRate)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization", "X-Request-ID")
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}

	// Global middleware (cors, logging, recovery, metrics, analytics)
	r.Use(
		cors.New(corsConfig),
		middleware.StructuredLoggingMiddleware(logger),
		gin.Recovery(),
		middleware.MetricsMiddleware(),
		middleware.PosthogMiddleware(posthogClient),
	)

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	deps := handlers.RouteDeps{
		UploadLimiter: uploadLimiter,
		Analytics:     posthogClient,
	}
	if localFiles != nil {
		deps.Files = localFiles.FileSystem()
	}
	handlers.RegisterRoutes(r, cfg, serviceContainer, deps)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}

	// Graceful shutdown handling
	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", slog.String("error", err.Error()))
		}
		if publisher != nil {
			if err := publisher.Close(); err != nil {
				logger.Warn("Failed to close notification publisher", slog.String("error", err.Error()))
			}
		}
	}()

	logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("backend", cfg.DataBackend))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}

	<-shutdownDone
	logger.Info("Server stopped gracefully")
}

// openRemoteStore connects the configured backend, applies migrations when enabled and
// returns the repositories with a function releasing the connection.
func openRemoteStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	switch cfg.DataBackend {
	case config.BackendSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLiteDBPath, cfg.RunMigrations)
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, err
		}
		logger.Info("SQLite database opened", slog.String("path", cfg.SQLiteDBPath))
		return sqlite.NewRepositoryProvider(db), closeSQL(db, logger), nil
	default:
		// Initialize database connection pool (for application use)
		pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, database.PoolOptions{
			MaxConns:       cfg.DBMaxConns,
			ConnectTimeout: cfg.DBConnectTimeout,
		})
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, err
		}

		if cfg.RunMigrations {
			logger.Info("Running database migrations...")
			applied, err := migrations.RunPostgres(cfg.DatabaseURL)
			if err != nil {
				pool.Close()
				return portsrepo.RepositoryProvider{}, nil, err
			}
			if applied {
				logger.Info("Database migrations applied successfully.")
			} else {
				logger.Info("No new migrations to apply.")
			}
		}
		return pgsql.NewRepositoryProvider(pool), func() { database.ClosePgxPool(pool) }, nil
	}
}

func closeSQL(db *sql.DB, logger *slog.Logger) func() {
	return func() {
		if err := db.Close(); err != nil {
			logger.Error("Error closing SQLite database", slog.String("error", err.Error()))
		}
	}
}
