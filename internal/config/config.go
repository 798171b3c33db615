package config

import (
	"fmt"
	"net/url"
	"time"

	pkgconfig "github.com/Sudhanshu9000/BazzarNet1.1/pkg/config"
	"github.com/Sudhanshu9000/BazzarNet1.1/pkg/database"
	"github.com/Sudhanshu9000/BazzarNet1.1/pkg/tracing"
)

const (
	// ServiceName labels logs, metrics, traces and event sources.
	ServiceName = "catalog-service"

	defaultJWTSecret = "change-this-to-a-secure-secret"
	minJWTSecretLen  = 32
)

// Config holds all configuration for the catalog service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"HTTP_PORT" envDefault:"8080"`

	// PostgreSQL
	PostgresHost string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser string `env:"POSTGRES_USER" envDefault:"bazzarnet"`
	PostgresPass string `env:"POSTGRES_PASSWORD" envDefault:"bazzarnet_secret"`
	PostgresDB   string `env:"POSTGRES_DB" envDefault:"bazzarnet"`
	PostgresSSL  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`

	// Database pool
	DBMaxConns            int32 `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns            int32 `env:"DB_MIN_CONNS" envDefault:"5"`
	DBMaxConnLifetimeMins int   `env:"DB_MAX_CONN_LIFETIME_MINUTES" envDefault:"60"`
	DBMaxConnIdleTimeMins int   `env:"DB_MAX_CONN_IDLE_TIME_MINUTES" envDefault:"30"`

	// Redis pincode cache; a TTL of 0 disables it. While enabled, pincode
	// lookups may lag store changes by up to the TTL.
	RedisHost            string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort            int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword        string `env:"REDIS_PASSWORD"`
	RedisDB              int    `env:"REDIS_DB" envDefault:"0"`
	StoreCacheTTLSeconds int    `env:"STORE_CACHE_TTL_SECONDS" envDefault:"0"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Auth
	JWTSecret string `env:"JWT_SECRET" envDefault:"change-this-to-a-secure-secret"`

	// Order service; empty means purchases are verified against Postgres.
	OrderServiceURL string `env:"ORDER_SERVICE_URL"`

	// Write rate limiting, per client IP. Forwarding headers identify the
	// client only when TRUST_PROXY_HEADERS is set.
	RateLimitRPS      float64 `env:"RATE_LIMIT_RPS" envDefault:"5"`
	RateLimitBurst    int     `env:"RATE_LIMIT_BURST" envDefault:"10"`
	TrustProxyHeaders bool    `env:"TRUST_PROXY_HEADERS" envDefault:"false"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:3000,http://localhost:5173" envSeparator:","`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`

	// Pprof debug endpoints (IP allowlist in CIDR notation)
	PprofAllowedCIDRs []string `env:"PPROF_ALLOWED_CIDRS" envDefault:"10.0.0.0/8,172.16.0.0/12,192.168.0.0/16,127.0.0.0/8,::1/128" envSeparator:","`

	// Slow query logging; 0 disables it.
	SlowQueryThresholdMs int `env:"LOG_SLOW_QUERY_MS" envDefault:"500"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load catalog config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validPort(p int) bool { return p >= 1 && p <= 65535 }

func (c *Config) validate() error {
	if !validPort(c.HTTPPort) {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.PostgresHost == "" {
		return fmt.Errorf("POSTGRES_HOST is required")
	}
	if c.PostgresUser == "" {
		return fmt.Errorf("POSTGRES_USER is required")
	}
	if !validPort(c.PostgresPort) {
		return fmt.Errorf("invalid POSTGRES_PORT: %d", c.PostgresPort)
	}
	if !validPort(c.RedisPort) {
		return fmt.Errorf("invalid REDIS_PORT: %d", c.RedisPort)
	}
	if c.StoreCacheTTLSeconds < 0 {
		return fmt.Errorf("STORE_CACHE_TTL_SECONDS must not be negative, got %d", c.StoreCacheTTLSeconds)
	}
	if len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required")
	}
	if c.OTELSampleRate < 0 || c.OTELSampleRate > 1.0 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got %f", c.OTELSampleRate)
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst < 1 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive, got %v/%d", c.RateLimitRPS, c.RateLimitBurst)
	}
	if c.OrderServiceURL != "" {
		u, err := url.Parse(c.OrderServiceURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("ORDER_SERVICE_URL must be an absolute URL, got %q", c.OrderServiceURL)
		}
	}

	// Outside development the bearer-token secret must be set explicitly.
	if c.Environment != "development" {
		if c.JWTSecret == defaultJWTSecret {
			return fmt.Errorf("JWT_SECRET must be explicitly set via environment variable in %q mode", c.Environment)
		}
		if len(c.JWTSecret) < minJWTSecretLen {
			return fmt.Errorf("JWT_SECRET must be at least %d characters long, got %d", minJWTSecretLen, len(c.JWTSecret))
		}
	}
	return nil
}

// Postgres returns the pool settings for database.NewPostgresPool.
func (c *Config) Postgres() *database.PostgresConfig {
	return &database.PostgresConfig{
		Host:            c.PostgresHost,
		Port:            c.PostgresPort,
		User:            c.PostgresUser,
		Password:        c.PostgresPass,
		DBName:          c.PostgresDB,
		SSLMode:         c.PostgresSSL,
		MaxConns:        c.DBMaxConns,
		MinConns:        c.DBMinConns,
		MaxConnLifetime: time.Duration(c.DBMaxConnLifetimeMins) * time.Minute,
		MaxConnIdleTime: time.Duration(c.DBMaxConnIdleTimeMins) * time.Minute,
	}
}

// Redis returns the connection settings for database.NewRedisClient.
func (c *Config) Redis() database.RedisConfig {
	return database.RedisConfig{
		Host:     c.RedisHost,
		Port:     c.RedisPort,
		Password: c.RedisPassword,
		DB:       c.RedisDB,
	}
}

// Tracing returns the exporter settings for tracing.InitTracer.
func (c *Config) Tracing() tracing.Config {
	return tracing.Config{
		ServiceName:    ServiceName,
		ServiceVersion: "1.1.0",
		Environment:    c.Environment,
		OTLPEndpoint:   c.OTELEndpoint,
		SampleRate:     c.OTELSampleRate,
		Enabled:        c.OTELEnabled,
	}
}

// StoreCacheTTL is how long pincode lookups stay cached.
func (c *Config) StoreCacheTTL() time.Duration {
	return time.Duration(c.StoreCacheTTLSeconds) * time.Second
}

// SlowQueryThreshold is the duration above which queries are logged.
func (c *Config) SlowQueryThreshold() time.Duration {
	return time.Duration(c.SlowQueryThresholdMs) * time.Millisecond
}
