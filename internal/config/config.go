package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/juju/errors"
	"github.com/labstack/gommon/random"
)

// Config holds runtime settings for the storefront API.
type Config struct {
	Port     int
	AppEnv   string
	LogLevel string

	DatabaseURL   string
	RunMigrations bool

	JWTSecret             string
	JWKSURL               string
	IdentityWebhookSecret string

	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	ProductCacheTTL time.Duration

	RabbitMQURL string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool
	ReceiptsBucket string

	CartTTL           time.Duration
	CartSweepInterval time.Duration
	EventTimeout      time.Duration
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env file", "error", err)
	}

	cfg := &Config{
		Port:     getEnvInt("PORT", 8080),
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RunMigrations: getEnvBool("RUN_MIGRATIONS", true),

		JWTSecret:             os.Getenv("JWT_SECRET"),
		JWKSURL:               os.Getenv("JWKS_URL"),
		IdentityWebhookSecret: os.Getenv("IDENTITY_WEBHOOK_SECRET"),

		RedisAddr:       strings.TrimPrefix(strings.TrimPrefix(os.Getenv("REDIS_ADDR"), "redis://"), "rediss://"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		RedisDB:         getEnvInt("REDIS_DB", 0),
		ProductCacheTTL: getEnvDuration("PRODUCT_CACHE_TTL", 10*time.Minute),

		RabbitMQURL: os.Getenv("RABBITMQ_URL"),

		MinioEndpoint:  os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		MinioSecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
		MinioUseSSL:    getEnvBool("MINIO_USE_SSL", false),
		ReceiptsBucket: getEnv("RECEIPTS_BUCKET", "order-receipts"),

		CartTTL:           getEnvDuration("CART_TTL", 30*24*time.Hour),
		CartSweepInterval: getEnvDuration("CART_SWEEP_INTERVAL", time.Hour),
		EventTimeout:      getEnvDuration("EVENT_TIMEOUT", 5*time.Second),
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.NewNotValid(nil, "DATABASE_URL environment variable is required")
	}

	if cfg.JWTSecret == "" && cfg.JWKSURL == "" {
		if cfg.IsProduction() {
			return nil, errors.NewNotValid(nil, "JWT_SECRET or JWKS_URL is required in production")
		}
		cfg.JWTSecret = random.String(32)
		slog.Warn("using generated JWT secret for development")
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
