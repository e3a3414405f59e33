package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/devlink-social/devlink/pkg/media"
	"github.com/devlink-social/devlink/pkg/observability"
	"github.com/devlink-social/devlink/pkg/storage"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Storage configuration
	Storage storage.Config

	// Media host configuration
	Media media.Config

	// Auth configuration
	Auth AuthConfig

	// Observability configuration
	Observability ObservabilityConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Health/metrics server (separate port for k8s probes)
	HealthPort string

	// Origins allowed to call the API with credentials
	AllowedOrigins []string
}

// AuthConfig holds session signing and admin principal settings
type AuthConfig struct {
	// SecretKey signs session tokens. Rotating it invalidates every
	// outstanding session.
	SecretKey string

	// The single admin principal. Credentials live in the environment,
	// never in the database.
	AdminUsername string
	AdminPassword string

	// Production switches cookies to Secure with SameSite=None
	Production bool
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	// Logging
	LogLevel observability.LogLevel

	// Metrics
	MetricsEnabled bool
}

// LoadConfig loads configuration from an optional YAML file (pointed to by
// DEVLINK_CONFIG_FILE) and the environment. Environment variables always win
// over file values, and secrets are env-only.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            "8080",
			HealthPort:      "9090",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Storage: storage.DefaultConfig(),
		Media: media.Config{
			Region: "us-east-1",
		},
		Observability: ObservabilityConfig{
			LogLevel:       observability.InfoLevel,
			MetricsEnabled: true,
		},
	}

	if path := os.Getenv("DEVLINK_CONFIG_FILE"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// fileConfig is the YAML shape of the non-secret configuration. Secrets
// (signing key, admin password, S3 keys) deliberately have no file
// representation so they never end up committed.
type fileConfig struct {
	Server struct {
		Host           string   `yaml:"host"`
		Port           string   `yaml:"port"`
		HealthPort     string   `yaml:"health_port"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"server"`
	Storage struct {
		PostgresURL string `yaml:"postgres_url"`
		RedisURL    string `yaml:"redis_url"`
	} `yaml:"storage"`
	Media struct {
		Endpoint      string `yaml:"endpoint"`
		Region        string `yaml:"region"`
		Bucket        string `yaml:"bucket"`
		PublicBaseURL string `yaml:"public_base_url"`
		UsePathStyle  bool   `yaml:"use_path_style"`
	} `yaml:"media"`
	Auth struct {
		Environment string `yaml:"environment"`
	} `yaml:"auth"`
	Observability struct {
		LogLevel       string `yaml:"log_level"`
		MetricsEnabled *bool  `yaml:"metrics_enabled"`
	} `yaml:"observability"`
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("invalid YAML in %s: %w", path, err)
	}

	if fc.Server.Host != "" {
		c.Server.Host = fc.Server.Host
	}
	if fc.Server.Port != "" {
		c.Server.Port = fc.Server.Port
	}
	if fc.Server.HealthPort != "" {
		c.Server.HealthPort = fc.Server.HealthPort
	}
	if len(fc.Server.AllowedOrigins) > 0 {
		c.Server.AllowedOrigins = fc.Server.AllowedOrigins
	}
	if fc.Storage.PostgresURL != "" {
		c.Storage.PostgresURL = fc.Storage.PostgresURL
	}
	if fc.Storage.RedisURL != "" {
		c.Storage.RedisURL = fc.Storage.RedisURL
	}
	if fc.Media.Endpoint != "" {
		c.Media.Endpoint = fc.Media.Endpoint
	}
	if fc.Media.Region != "" {
		c.Media.Region = fc.Media.Region
	}
	if fc.Media.Bucket != "" {
		c.Media.Bucket = fc.Media.Bucket
	}
	if fc.Media.PublicBaseURL != "" {
		c.Media.PublicBaseURL = fc.Media.PublicBaseURL
	}
	if fc.Media.UsePathStyle {
		c.Media.UsePathStyle = true
	}
	if fc.Auth.Environment != "" {
		c.Auth.Production = strings.EqualFold(fc.Auth.Environment, "production")
	}
	if fc.Observability.LogLevel != "" {
		c.Observability.LogLevel = parseLogLevel(fc.Observability.LogLevel)
	}
	if fc.Observability.MetricsEnabled != nil {
		c.Observability.MetricsEnabled = *fc.Observability.MetricsEnabled
	}

	return nil
}

func (c *Config) applyEnv() {
	// Server
	if host := getEnv("DEVLINK_HOST", ""); host != "" {
		c.Server.Host = host
	}
	if port := getEnv("DEVLINK_PORT", ""); port != "" {
		c.Server.Port = port
	}
	if healthPort := getEnv("DEVLINK_HEALTH_PORT", ""); healthPort != "" {
		c.Server.HealthPort = healthPort
	}
	if timeout := getEnvDuration("DEVLINK_READ_TIMEOUT", 0); timeout > 0 {
		c.Server.ReadTimeout = timeout
	}
	if timeout := getEnvDuration("DEVLINK_WRITE_TIMEOUT", 0); timeout > 0 {
		c.Server.WriteTimeout = timeout
	}
	if timeout := getEnvDuration("DEVLINK_IDLE_TIMEOUT", 0); timeout > 0 {
		c.Server.IdleTimeout = timeout
	}
	if timeout := getEnvDuration("DEVLINK_SHUTDOWN_TIMEOUT", 0); timeout > 0 {
		c.Server.ShutdownTimeout = timeout
	}
	if origins := getEnv("DEVLINK_ALLOWED_ORIGINS", ""); origins != "" {
		c.Server.AllowedOrigins = splitAndTrim(origins)
	}

	// PostgreSQL
	if pgURL := getEnv("DEVLINK_POSTGRES_URL", ""); pgURL != "" {
		c.Storage.PostgresURL = pgURL
	}
	if maxConns := getEnvInt("DEVLINK_POSTGRES_MAX_CONNS", 0); maxConns > 0 {
		c.Storage.PostgresMaxConns = maxConns
	}
	if minConns := getEnvInt("DEVLINK_POSTGRES_MIN_CONNS", 0); minConns > 0 {
		c.Storage.PostgresMinConns = minConns
	}
	if timeout := getEnvDuration("DEVLINK_POSTGRES_TIMEOUT", 0); timeout > 0 {
		c.Storage.PostgresTimeout = timeout
	}

	// Redis
	if redisURL := getEnv("DEVLINK_REDIS_URL", ""); redisURL != "" {
		c.Storage.RedisURL = redisURL
	}
	if redisPassword := getEnv("DEVLINK_REDIS_PASSWORD", ""); redisPassword != "" {
		c.Storage.RedisPassword = redisPassword
	}
	if redisDB := getEnvInt("DEVLINK_REDIS_DB", -1); redisDB >= 0 {
		c.Storage.RedisDB = redisDB
	}
	if redisMaxRetries := getEnvInt("DEVLINK_REDIS_MAX_RETRIES", 0); redisMaxRetries > 0 {
		c.Storage.RedisMaxRetries = redisMaxRetries
	}
	if redisPoolSize := getEnvInt("DEVLINK_REDIS_POOL_SIZE", 0); redisPoolSize > 0 {
		c.Storage.RedisPoolSize = redisPoolSize
	}

	// Media
	if endpoint := getEnv("DEVLINK_S3_ENDPOINT", ""); endpoint != "" {
		c.Media.Endpoint = endpoint
	}
	if region := getEnv("DEVLINK_S3_REGION", ""); region != "" {
		c.Media.Region = region
	}
	if bucket := getEnv("DEVLINK_S3_BUCKET", ""); bucket != "" {
		c.Media.Bucket = bucket
	}
	if accessKey := getEnv("DEVLINK_S3_ACCESS_KEY", ""); accessKey != "" {
		c.Media.AccessKey = accessKey
	}
	if secretKey := getEnv("DEVLINK_S3_SECRET_KEY", ""); secretKey != "" {
		c.Media.SecretKey = secretKey
	}
	if usePathStyle := getEnv("DEVLINK_S3_USE_PATH_STYLE", ""); usePathStyle != "" {
		c.Media.UsePathStyle = strings.ToLower(usePathStyle) == "true"
	}
	if baseURL := getEnv("DEVLINK_MEDIA_BASE_URL", ""); baseURL != "" {
		c.Media.PublicBaseURL = baseURL
	}

	// Auth
	if secret := getEnv("DEVLINK_SECRET_KEY", ""); secret != "" {
		c.Auth.SecretKey = secret
	}
	if username := getEnv("DEVLINK_ADMIN_USERNAME", ""); username != "" {
		c.Auth.AdminUsername = username
	}
	if password := getEnv("DEVLINK_ADMIN_PASSWORD", ""); password != "" {
		c.Auth.AdminPassword = password
	}
	if env := getEnv("DEVLINK_ENV", ""); env != "" {
		c.Auth.Production = strings.EqualFold(env, "production")
	}

	// Observability
	if level := getEnv("DEVLINK_LOG_LEVEL", ""); level != "" {
		c.Observability.LogLevel = parseLogLevel(level)
	}
	if metricsEnabled := getEnv("DEVLINK_METRICS_ENABLED", ""); metricsEnabled != "" {
		c.Observability.MetricsEnabled = getEnvBool("DEVLINK_METRICS_ENABLED", true)
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Server.HealthPort == "" {
		return fmt.Errorf("health port is required")
	}
	if c.Server.Port == c.Server.HealthPort {
		return fmt.Errorf("server port and health port must be different")
	}

	if c.Storage.PostgresURL == "" {
		return fmt.Errorf("postgres URL is required")
	}

	if c.Media.Bucket == "" {
		return fmt.Errorf("media bucket is required")
	}

	if c.Auth.SecretKey == "" {
		return fmt.Errorf("session signing secret is required")
	}
	if c.Auth.AdminUsername == "" || c.Auth.AdminPassword == "" {
		return fmt.Errorf("admin credentials are required")
	}

	return nil
}

// parseLogLevel parses a log level string
func parseLogLevel(level string) observability.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return observability.DebugLevel
	case "info":
		return observability.InfoLevel
	case "warn", "warning":
		return observability.WarnLevel
	case "error":
		return observability.ErrorLevel
	default:
		return observability.InfoLevel
	}
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
