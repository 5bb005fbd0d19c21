package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Storage   StorageConfig
	Auth      AuthConfig
	CORS      CORSConfig
	Metrics   MetricsConfig
	Tracing   TracingConfig
	RateLimit RateLimitConfig
	Logging   LoggingConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            int
	Host            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	MaxConns int
	MinConns int
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// StorageConfig holds object storage configuration
type StorageConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	Region          string
	UseSSL          bool
}

// AuthConfig holds token signing secrets and lifetimes. The two secrets are
// independent: rotating one must not invalidate tokens signed with the other.
type AuthConfig struct {
	AccessTokenSecret  string
	AccessTokenTTL     time.Duration
	RefreshTokenSecret string
	RefreshTokenTTL    time.Duration
	CookieDomain       string
	CookieSecure       bool
}

// CORSConfig holds the cross-origin policy
type CORSConfig struct {
	AllowedOrigin string
}

// MetricsConfig holds the Prometheus endpoint configuration
type MetricsConfig struct {
	Enabled bool
	Port    int
}

// TracingConfig holds Jaeger tracer configuration
type TracingConfig struct {
	Enabled        bool
	ServiceName    string
	JaegerEndpoint string
}

// RateLimitConfig holds both limiter tiers: the per-client in-process API
// limiter and the Redis-backed window applied to credential endpoints.
type RateLimitConfig struct {
	RequestsPerSecond int
	Burst             int
	LoginAttempts     int64
	LoginWindow       time.Duration
}

// LoggingConfig holds log output configuration
type LoggingConfig struct {
	Level  string
	Format string
	Output string
}

// Load reads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) validate() error {
	if c.Auth.AccessTokenSecret == "" || c.Auth.RefreshTokenSecret == "" {
		return fmt.Errorf("auth secrets must be configured")
	}
	if c.Auth.AccessTokenSecret == c.Auth.RefreshTokenSecret {
		return fmt.Errorf("access and refresh token secrets must differ")
	}
	return nil
}

func setDefaults() {
	// Server defaults
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.readTimeout", "30s")
	viper.SetDefault("server.writeTimeout", "30s")
	viper.SetDefault("server.shutdownTimeout", "10s")

	// Database defaults
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "postgres")
	viper.SetDefault("database.dbname", "vidtube")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.maxConns", 25)
	viper.SetDefault("database.minConns", 5)

	// Redis defaults
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)

	// Storage defaults
	viper.SetDefault("storage.endpoint", "localhost:9000")
	viper.SetDefault("storage.accessKeyID", "minioadmin")
	viper.SetDefault("storage.secretAccessKey", "minioadmin")
	viper.SetDefault("storage.bucketName", "vidtube-media")
	viper.SetDefault("storage.region", "us-east-1")
	viper.SetDefault("storage.useSSL", false)

	// Auth defaults; secrets intentionally have no default
	viper.SetDefault("auth.accessTokenTTL", "15m")
	viper.SetDefault("auth.refreshTokenTTL", "240h")
	viper.SetDefault("auth.cookieDomain", "")
	viper.SetDefault("auth.cookieSecure", true)

	// CORS defaults
	viper.SetDefault("cors.allowedOrigin", "*")

	// Metrics defaults
	viper.SetDefault("metrics.enabled", true)
	viper.SetDefault("metrics.port", 9090)

	// Tracing defaults
	viper.SetDefault("tracing.enabled", false)
	viper.SetDefault("tracing.serviceName", "vidtube-api")
	viper.SetDefault("tracing.jaegerEndpoint", "http://localhost:14268/api/traces")

	// Rate limit defaults
	viper.SetDefault("ratelimit.requestsPerSecond", 20)
	viper.SetDefault("ratelimit.burst", 40)
	viper.SetDefault("ratelimit.loginAttempts", 10)
	viper.SetDefault("ratelimit.loginWindow", "1m")

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.output", "stdout")
}
