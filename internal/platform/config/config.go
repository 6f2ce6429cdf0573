package config

import (
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	RunMigrations  bool
	MigrationsPath string
	LogLevel       slog.Level

	JWTSecret                  string
	JWTExpiryDuration          time.Duration
	JWTIssuer                  string
	RefreshTokenExpiryDuration time.Duration
	StoreJWTExpiryDuration     time.Duration

	// LoginRateLimit uses the ulule/limiter formatted rate, e.g. "10-M".
	LoginRateLimit     string
	CORSAllowedOrigins []string
	DefaultPageSize    int

	Cache   CacheConfig
	Events  EventsConfig
	Storage StorageConfig
}

// CacheConfig selects the dashboard stats cache backend.
type CacheConfig struct {
	Driver        string // noop | redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	StatsTTL      time.Duration
}

// EventsConfig selects where domain events are published.
type EventsConfig struct {
	Driver  string // noop | kafka
	Brokers []string
	Topic   string
}

// StorageConfig points the S3 client at AWS or any S3 compatible endpoint.
type StorageConfig struct {
	Endpoint     string
	Region       string
	AccessKey    string
	SecretKey    string
	UsePathStyle bool
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("RUN_MIGRATIONS", true)
	viper.SetDefault("MIGRATIONS_PATH", "migrations")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("JWT_SECRET", defaultJWTSecret)
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "ceramica-erp")
	viper.SetDefault("REFRESH_TOKEN_EXPIRY_DURATION", "168h")
	viper.SetDefault("STORE_JWT_EXPIRY_DURATION", "12h")
	viper.SetDefault("LOGIN_RATE_LIMIT", "10-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("DEFAULT_PAGE_SIZE", 20)
	viper.SetDefault("CACHE_DRIVER", "noop")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("STATS_CACHE_TTL", "5m")
	viper.SetDefault("EVENTS_DRIVER", "noop")
	viper.SetDefault("KAFKA_BROKERS", "localhost:9092")
	viper.SetDefault("KAFKA_TOPIC", "erp.events")
	viper.SetDefault("S3_ENDPOINT", "")
	viper.SetDefault("S3_REGION", "us-east-1")
	viper.SetDefault("S3_ACCESS_KEY", "")
	viper.SetDefault("S3_SECRET_KEY", "")
	viper.SetDefault("S3_USE_PATH_STYLE", true)

	viper.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:    viper.GetString("PGSQL_URL"),
		Port:           viper.GetString("PORT"),
		IsProduction:   viper.GetBool("IS_PRODUCTION"),
		EnableDBCheck:  viper.GetBool("ENABLE_DB_CHECK"),
		RunMigrations:  viper.GetBool("RUN_MIGRATIONS"),
		MigrationsPath: viper.GetString("MIGRATIONS_PATH"),
		LogLevel:       parseLogLevel(viper.GetString("LOG_LEVEL")),
		JWTSecret:      viper.GetString("JWT_SECRET"),
		JWTIssuer:      viper.GetString("JWT_ISSUER"),
		LoginRateLimit: viper.GetString("LOGIN_RATE_LIMIT"),

		CORSAllowedOrigins: splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
		DefaultPageSize:    viper.GetInt("DEFAULT_PAGE_SIZE"),
		Cache: CacheConfig{
			Driver:        strings.ToLower(viper.GetString("CACHE_DRIVER")),
			RedisAddr:     viper.GetString("REDIS_ADDR"),
			RedisPassword: viper.GetString("REDIS_PASSWORD"),
			RedisDB:       viper.GetInt("REDIS_DB"),
		},
		Events: EventsConfig{
			Driver:  strings.ToLower(viper.GetString("EVENTS_DRIVER")),
			Brokers: splitList(viper.GetString("KAFKA_BROKERS")),
			Topic:   viper.GetString("KAFKA_TOPIC"),
		},
		Storage: StorageConfig{
			Endpoint:     viper.GetString("S3_ENDPOINT"),
			Region:       viper.GetString("S3_REGION"),
			AccessKey:    viper.GetString("S3_ACCESS_KEY"),
			SecretKey:    viper.GetString("S3_SECRET_KEY"),
			UsePathStyle: viper.GetBool("S3_USE_PATH_STYLE"),
		},
	}

	if cfg.DatabaseURL == "" {
		slog.Warn("PGSQL_URL environment variable not set.")
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
		slog.Warn("PORT environment variable not set, using default", slog.String("port", cfg.Port))
	}
	if cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret {
		cfg.JWTSecret = defaultJWTSecret // !! CHANGE IN PRODUCTION !!
		slog.Warn("JWT_SECRET environment variable not set. Using default insecure key.")
	}
	if cfg.JWTIssuer == "" {
		cfg.JWTIssuer = "ceramica-erp"
	}
	if cfg.DefaultPageSize <= 0 {
		cfg.DefaultPageSize = 20
	}

	cfg.JWTExpiryDuration = durationOrDefault("JWT_EXPIRY_DURATION", time.Hour)
	cfg.RefreshTokenExpiryDuration = durationOrDefault("REFRESH_TOKEN_EXPIRY_DURATION", 7*24*time.Hour)
	cfg.StoreJWTExpiryDuration = durationOrDefault("STORE_JWT_EXPIRY_DURATION", 12*time.Hour)
	cfg.Cache.StatsTTL = durationOrDefault("STATS_CACHE_TTL", 5*time.Minute)

	return cfg, nil
}

// durationOrDefault parses a duration key, falling back to def with a warning when it is invalid.
func durationOrDefault(key string, def time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			slog.Warn("Invalid duration in configuration, using default",
				slog.String("key", key), slog.String("value", raw), slog.String("default", def.String()))
		}
		return def
	}
	return d
}

func parseLogLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
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

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
