// Package config provides configuration management and environment variable handling for the application
package config

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all configuration of the service
type Config struct {
	Database   DatabaseConfig   `envPrefix:"DB_"`
	Server     ServerConfig     `envPrefix:"SERVER_"`
	Security   SecurityConfig   `envPrefix:"SECURITY_"`
	Logging    LoggingConfig    `envPrefix:"LOG_"`
	Metrics    MetricsConfig    `envPrefix:"METRICS_"`
	Cache      CacheConfig      `envPrefix:"CACHE_"`
	Events     EventsConfig     `envPrefix:"EVENTS_"`
	Health     HealthConfig     `envPrefix:"HEALTH_"`
	Deployment DeploymentConfig `envPrefix:"APP_"`
}

type DatabaseConfig struct {
	Driver          string        `env:"DRIVER" envDefault:"postgres"`
	Host            string        `env:"HOST" envDefault:"localhost"`
	Port            int           `env:"PORT" envDefault:"5432"`
	Name            string        `env:"NAME" envDefault:"bd_sistemaSpam"`
	User            string        `env:"USER" envDefault:"postgres"`
	Password        string        `env:"PASSWORD"`
	SSLMode         string        `env:"SSL_MODE" envDefault:"disable"`
	SQLitePath      string        `env:"SQLITE_PATH" envDefault:"./data/spam.db"`
	MaxOpenConns    int           `env:"MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns    int           `env:"MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME" envDefault:"30m"`
	ConnMaxIdleTime time.Duration `env:"CONN_MAX_IDLE_TIME" envDefault:"5m"`
	SlowQueryTime   time.Duration `env:"SLOW_QUERY_TIME" envDefault:"200ms"`
}

type ServerConfig struct {
	Host            string        `env:"HOST" envDefault:"0.0.0.0"`
	Port            int           `env:"PORT" envDefault:"8000"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"30s"`
	IdleTimeout     time.Duration `env:"IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`
	BodyLimit       int           `env:"BODY_LIMIT" envDefault:"1048576"`
}

type SecurityConfig struct {
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
}

type LoggingConfig struct {
	Level      string `env:"LEVEL" envDefault:"info"`
	Format     string `env:"FORMAT" envDefault:"json"`
	Output     string `env:"OUTPUT" envDefault:"stdout"`
	FilePath   string `env:"FILE_PATH" envDefault:"./logs/spam-guard.log"`
	MaxSizeMB  int    `env:"MAX_SIZE_MB" envDefault:"64"`
	MaxBackups int    `env:"MAX_BACKUPS" envDefault:"7"`
	MaxAgeDays int    `env:"MAX_AGE_DAYS" envDefault:"30"`
	Compress   bool   `env:"COMPRESS" envDefault:"true"`
}

type MetricsConfig struct {
	Enabled bool   `env:"ENABLED" envDefault:"true"`
	Path    string `env:"PATH" envDefault:"/metrics"`
}

type CacheConfig struct {
	Enabled  bool          `env:"ENABLED" envDefault:"false"`
	RedisURL string        `env:"REDIS_URL"`
	Prefix   string        `env:"PREFIX" envDefault:"spam-guard:"`
	TTL      time.Duration `env:"TTL" envDefault:"30s"`
}

type EventsConfig struct {
	NATSURL string `env:"NATS_URL"`
	Subject string `env:"SUBJECT" envDefault:"spam.call-events"`
}

type HealthConfig struct {
	CheckSpec string `env:"CHECK_SPEC" envDefault:"@every 30s"`
}

type DeploymentConfig struct {
	Environment string `env:"ENV" envDefault:"production"`
	Name        string `env:"NAME" envDefault:"spam-guard"`
}

// IsDevelopment reports whether developer conveniences like the OpenAPI document are on
func (c Config) IsDevelopment() bool {
	return c.Deployment.Environment == "development" || c.Deployment.Environment == "local"
}

// ServerAddr returns the listen address in host:port format
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// DSN builds the PostgreSQL connection string
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// Load reads .env (when present) and the process environment
func Load() (*Config, error) {
	_ = godotenv.Load()
	return Parse()
}

// Parse reads the process environment only
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// ValidateConfig reports every configuration problem at once
func ValidateConfig(cfg *Config) error {
	var errors []string

	// Validate database configuration
	switch cfg.Database.Driver {
	case "postgres":
		if cfg.Database.Host == "" {
			errors = append(errors, "DB_HOST is required")
		}
		if cfg.Database.Port <= 0 || cfg.Database.Port > 65535 {
			errors = append(errors, "DB_PORT must be between 1 and 65535")
		}
		if cfg.Database.Name == "" {
			errors = append(errors, "DB_NAME is required")
		}
		if cfg.Database.User == "" {
			errors = append(errors, "DB_USER is required")
		}
	case "sqlite":
		if cfg.Database.SQLitePath == "" {
			errors = append(errors, "DB_SQLITE_PATH is required for the sqlite driver")
		}
	default:
		errors = append(errors, "DB_DRIVER must be one of: postgres, sqlite")
	}

	// Validate server configuration
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		errors = append(errors, "SERVER_PORT must be between 1 and 65535")
	}
	if cfg.Server.ReadTimeout <= 0 {
		errors = append(errors, "SERVER_READ_TIMEOUT must be positive")
	}
	if cfg.Server.WriteTimeout <= 0 {
		errors = append(errors, "SERVER_WRITE_TIMEOUT must be positive")
	}
	if cfg.Server.IdleTimeout <= 0 {
		errors = append(errors, "SERVER_IDLE_TIMEOUT must be positive")
	}

	// Validate logging configuration
	validLevels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(validLevels, cfg.Logging.Level) {
		errors = append(errors, fmt.Sprintf("LOG_LEVEL must be one of: %v", validLevels))
	}
	if cfg.Logging.Format != "json" && cfg.Logging.Format != "console" {
		errors = append(errors, "LOG_FORMAT must be one of: json, console")
	}
	switch cfg.Logging.Output {
	case "stdout":
	case "file", "both":
		if cfg.Logging.FilePath == "" {
			errors = append(errors, "LOG_FILE_PATH is required when logging to a file")
		}
	default:
		errors = append(errors, "LOG_OUTPUT must be one of: stdout, file, both")
	}

	// Validate cache configuration if enabled
	if cfg.Cache.Enabled {
		if cfg.Cache.RedisURL == "" {
			errors = append(errors, "CACHE_REDIS_URL is required when cache is enabled")
		}
		if cfg.Cache.TTL <= 0 {
			errors = append(errors, "CACHE_TTL must be positive")
		}
	}

	if cfg.Events.NATSURL != "" && cfg.Events.Subject == "" {
		errors = append(errors, "EVENTS_SUBJECT is required when EVENTS_NATS_URL is set")
	}

	if cfg.Health.CheckSpec == "" {
		errors = append(errors, "HEALTH_CHECK_SPEC is required")
	}

	// Return validation errors if any
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errors, "; "))
	}

	return nil
}
