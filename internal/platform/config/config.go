package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Data backends for the remote store.
const (
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// Invoice storage kinds.
const (
	InvoiceStorageLocal = "local"
	InvoiceStorageGCS   = "gcs"
)

// Config holds application configuration.
type Config struct {
	// Remote store
	DataBackend       string
	DatabaseURL       string
	SQLiteDBPath      string
	RunMigrations     bool
	DBInitMaxAttempts int
	DBInitBackoff     time.Duration
	DBMaxConns        int32
	DBConnectTimeout  time.Duration

	// HTTP
	Port               string
	IsProduction       bool
	LogLevel           string
	CORSAllowedOrigins []string
	UploadRateLimit    string
	MaxUploadBytes     int64

	// Authentication provider
	JWTSecret string

	// Local settings cache
	SettingsCacheDir string

	// Invoice files
	InvoiceStorage       string
	InvoiceLocalDir      string
	InvoicePublicBaseURL string
	GCSBucket            string
	GCSCredentialsFile   string
	InvoiceDemoPassword  string

	// Notifications
	AMQPURL        string
	AMQPExchange   string
	AMQPRoutingKey string

	// Analytics
	PosthogAPIKey   string
	PosthogEndpoint string

	// Finance behaviour
	AllowIncomeWhenOverLimit bool
	ReconcileFailedUpdates   bool
	SessionCacheSize         int
	SessionTTL               time.Duration
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("DATA_BACKEND", BackendPostgres)
	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("SQLITE_DB_PATH", "finance.db")
	viper.SetDefault("RUN_MIGRATIONS", true)
	viper.SetDefault("DB_INIT_MAX_ATTEMPTS", 3)
	viper.SetDefault("DB_INIT_BACKOFF", "1s")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("DB_CONNECT_TIMEOUT", "5s")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")
	viper.SetDefault("UPLOAD_RATE_LIMIT", "30-M")
	viper.SetDefault("MAX_UPLOAD_BYTES", 10<<20)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("SETTINGS_CACHE_DIR", "data/settings")
	viper.SetDefault("INVOICE_STORAGE", InvoiceStorageLocal)
	viper.SetDefault("INVOICE_LOCAL_DIR", "data/invoices")
	viper.SetDefault("INVOICE_PUBLIC_BASE_URL", "http://localhost:8080/files")
	viper.SetDefault("GCS_BUCKET", "")
	viper.SetDefault("GCS_CREDENTIALS_FILE", "")
	viper.SetDefault("INVOICE_DEMO_PASSWORD", "1234")
	viper.SetDefault("AMQP_URL", "")
	viper.SetDefault("AMQP_EXCHANGE", "finance.notifications")
	viper.SetDefault("AMQP_ROUTING_KEY", "notification")
	viper.SetDefault("POSTHOG_API_KEY", "")
	viper.SetDefault("POSTHOG_ENDPOINT", "")
	viper.SetDefault("ALLOW_INCOME_WHEN_OVER_LIMIT", false)
	viper.SetDefault("RECONCILE_FAILED_UPDATES", false)
	viper.SetDefault("SESSION_CACHE_SIZE", 1000)
	viper.SetDefault("SESSION_TTL", "30m")

	// Environment variables override the defaults and the .env values.
	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DataBackend = strings.ToLower(viper.GetString("DATA_BACKEND"))
	switch cfg.DataBackend {
	case BackendPostgres, BackendSQLite:
	default:
		log.Printf("Warning: Unknown DATA_BACKEND ('%s'). Defaulting to %s.\n", cfg.DataBackend, BackendPostgres)
		cfg.DataBackend = BackendPostgres
	}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DataBackend == BackendPostgres && cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}
	cfg.SQLiteDBPath = viper.GetString("SQLITE_DB_PATH")
	cfg.RunMigrations = viper.GetBool("RUN_MIGRATIONS")

	cfg.DBInitMaxAttempts = viper.GetInt("DB_INIT_MAX_ATTEMPTS")
	if cfg.DBInitMaxAttempts <= 0 {
		log.Printf("Warning: Invalid value for DB_INIT_MAX_ATTEMPTS (%d). Defaulting to 3.\n", cfg.DBInitMaxAttempts)
		cfg.DBInitMaxAttempts = 3
	}
	cfg.DBInitBackoff = parseDuration("DB_INIT_BACKOFF", time.Second)
	cfg.DBMaxConns = viper.GetInt32("DB_MAX_CONNS")
	cfg.DBConnectTimeout = parseDuration("DB_CONNECT_TIMEOUT", 5*time.Second)

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080" // Default port
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.LogLevel = viper.GetString("LOG_LEVEL")
	cfg.CORSAllowedOrigins = splitList(viper.GetString("CORS_ALLOWED_ORIGINS"))
	cfg.UploadRateLimit = viper.GetString("UPLOAD_RATE_LIMIT")
	cfg.MaxUploadBytes = viper.GetInt64("MAX_UPLOAD_BYTES")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	cfg.SettingsCacheDir = viper.GetString("SETTINGS_CACHE_DIR")

	cfg.InvoiceStorage = strings.ToLower(viper.GetString("INVOICE_STORAGE"))
	cfg.InvoiceLocalDir = viper.GetString("INVOICE_LOCAL_DIR")
	cfg.InvoicePublicBaseURL = strings.TrimRight(viper.GetString("INVOICE_PUBLIC_BASE_URL"), "/")
	cfg.GCSBucket = viper.GetString("GCS_BUCKET")
	cfg.GCSCredentialsFile = viper.GetString("GCS_CREDENTIALS_FILE")
	if cfg.InvoiceStorage == InvoiceStorageGCS && cfg.GCSBucket == "" {
		log.Println("Warning: INVOICE_STORAGE is gcs but GCS_BUCKET is not set. Falling back to local storage.")
		cfg.InvoiceStorage = InvoiceStorageLocal
	}
	cfg.InvoiceDemoPassword = viper.GetString("INVOICE_DEMO_PASSWORD")

	cfg.AMQPURL = viper.GetString("AMQP_URL")
	cfg.AMQPExchange = viper.GetString("AMQP_EXCHANGE")
	cfg.AMQPRoutingKey = viper.GetString("AMQP_ROUTING_KEY")

	cfg.PosthogAPIKey = viper.GetString("POSTHOG_API_KEY")
	cfg.PosthogEndpoint = viper.GetString("POSTHOG_ENDPOINT")

	cfg.AllowIncomeWhenOverLimit = viper.GetBool("ALLOW_INCOME_WHEN_OVER_LIMIT")
	cfg.ReconcileFailedUpdates = viper.GetBool("RECONCILE_FAILED_UPDATES")
	cfg.SessionCacheSize = viper.GetInt("SESSION_CACHE_SIZE")
	if cfg.SessionCacheSize <= 0 {
		log.Printf("Warning: Invalid value for SESSION_CACHE_SIZE (%d). Defaulting to 1000.\n", cfg.SessionCacheSize)
		cfg.SessionCacheSize = 1000
	}
	cfg.SessionTTL = parseDuration("SESSION_TTL", 30*time.Minute)

	return cfg, nil
}

func parseDuration(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback.String())
		}
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
