package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Profile names accepted by Load. "default" is an alias for development,
// matching the original deployment convention.
const (
	ProfileDevelopment = "development"
	ProfileProduction  = "production"
	ProfileTesting     = "testing"
	ProfileDefault     = "default"
)

// Config holds all configuration for the application
type Config struct {
	Profile string
	App     AppConfig
	DB      DatabaseConfig
	Redis   RedisConfig
	Logger  LoggerConfig
}

// AppConfig holds configuration for the HTTP server and security flags
type AppConfig struct {
	HTTPPort           string
	Debug              bool
	SecretKey          string
	CSRFEnabled        bool
	CSRFTimeoutSeconds int
	MaxUploadBytes     int64
	CORSOrigins        []string
	SessionSecure      bool
	SessionTTLSeconds  int
	SoundingTablesPath string
	ShutdownTimeout    int

	RateLimitEnabled   bool
	RateLimitPerSecond float64
	RateLimitBurst     int
}

// DatabaseConfig holds configuration for the database
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
	ConnMaxIdleTime int
}

// RedisConfig holds configuration for Redis. An empty or "memory://" URL
// selects the in-process fallbacks (memory session store, limiter disabled).
type RedisConfig struct {
	URL      string
	CacheTTL int
}

// LoggerConfig holds configuration for the logger
type LoggerConfig struct {
	Level            string
	JSONFormat       bool
	Dir              string
	MaxBytes         int64
	BackupCount      int
	SlowQuerySeconds float64
	ServiceName      string
	ServiceVersion   string
}

// Load resolves the named profile into a fresh Config value. When profile is
// empty it falls back to the APP_ENV environment variable, then to
// development. Each call returns an independent value; mutating one loaded
// config never affects another.
func Load(profile string) (*Config, error) {
	if profile == "" {
		profile = os.Getenv("APP_ENV")
	}
	switch profile {
	case "", ProfileDefault:
		profile = ProfileDevelopment
	case ProfileDevelopment, ProfileProduction, ProfileTesting:
	default:
		return nil, fmt.Errorf("unknown config profile %q", profile)
	}

	v := viper.New()
	setDefaults(v, profile)
	v.AutomaticEnv()

	var cfg Config
	cfg.Profile = profile

	cfg.App.HTTPPort = v.GetString("HTTP_PORT")
	cfg.App.Debug = profile == ProfileDevelopment
	cfg.App.SecretKey = v.GetString("SECRET_KEY")
	cfg.App.CSRFEnabled = v.GetBool("CSRF_ENABLED")
	cfg.App.CSRFTimeoutSeconds = v.GetInt("CSRF_TIMEOUT_SECONDS")
	cfg.App.MaxUploadBytes = v.GetInt64("MAX_UPLOAD_BYTES")
	cfg.App.CORSOrigins = splitOrigins(v.GetString("CORS_ORIGINS"))
	cfg.App.SessionSecure = v.GetBool("SESSION_SECURE")
	cfg.App.SessionTTLSeconds = v.GetInt("SESSION_TTL_SECONDS")
	cfg.App.SoundingTablesPath = v.GetString("SOUNDING_TABLES_PATH")
	cfg.App.ShutdownTimeout = v.GetInt("SHUTDOWN_TIMEOUT_SECONDS")
	cfg.App.RateLimitEnabled = v.GetBool("RATE_LIMIT_ENABLED")
	cfg.App.RateLimitPerSecond = v.GetFloat64("RATE_LIMIT_PER_SECOND")
	cfg.App.RateLimitBurst = v.GetInt("RATE_LIMIT_BURST")

	cfg.DB.URL = v.GetString("DATABASE_URL")
	cfg.DB.MaxOpenConns = v.GetInt("DB_MAX_OPEN_CONNS")
	cfg.DB.MaxIdleConns = v.GetInt("DB_MAX_IDLE_CONNS")
	cfg.DB.ConnMaxLifetime = v.GetInt("DB_CONN_MAX_LIFETIME")
	cfg.DB.ConnMaxIdleTime = v.GetInt("DB_CONN_MAX_IDLE_TIME")

	cfg.Redis.URL = v.GetString("REDIS_URL")
	cfg.Redis.CacheTTL = v.GetInt("REDIS_CACHE_TTL")

	cfg.Logger.Level = v.GetString("LOG_LEVEL")
	cfg.Logger.JSONFormat = v.GetBool("LOG_JSON_FORMAT")
	cfg.Logger.Dir = v.GetString("LOG_DIR")
	cfg.Logger.MaxBytes = v.GetInt64("LOG_MAX_BYTES")
	cfg.Logger.BackupCount = v.GetInt("LOG_BACKUP_COUNT")
	cfg.Logger.SlowQuerySeconds = v.GetFloat64("LOG_SLOW_QUERY_SECONDS")
	cfg.Logger.ServiceName = v.GetString("SERVICE_NAME")
	cfg.Logger.ServiceVersion = v.GetString("SERVICE_VERSION")

	// Profile invariants hold regardless of environment overrides.
	switch profile {
	case ProfileTesting:
		cfg.DB.URL = ":memory:"
		cfg.Logger.Level = "warning"
		cfg.Logger.JSONFormat = false
	case ProfileProduction:
		cfg.Logger.JSONFormat = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the loaded configuration for values that would otherwise
// only fail at first use. Startup fails fast instead.
func (c *Config) Validate() error {
	if c.App.SecretKey == "" {
		return fmt.Errorf("secret key must not be empty")
	}
	if c.DB.URL == "" {
		return fmt.Errorf("database URL must not be empty")
	}
	if c.Logger.MaxBytes <= 0 {
		return fmt.Errorf("log max bytes must be positive, got %d", c.Logger.MaxBytes)
	}
	if c.Logger.BackupCount < 0 {
		return fmt.Errorf("log backup count must not be negative, got %d", c.Logger.BackupCount)
	}
	if c.App.CSRFTimeoutSeconds <= 0 {
		return fmt.Errorf("CSRF timeout must be positive, got %d", c.App.CSRFTimeoutSeconds)
	}
	if c.RedisEnabled() {
		if _, err := url.Parse(c.Redis.URL); err != nil {
			return fmt.Errorf("invalid REDIS_URL: %w", err)
		}
	}
	return nil
}

// RedisEnabled reports whether a real Redis backend is configured.
func (c *Config) RedisEnabled() bool {
	return c.Redis.URL != "" && c.Redis.URL != "memory://"
}

func setDefaults(v *viper.Viper, profile string) {
	v.SetDefault("HTTP_PORT", "5001")
	v.SetDefault("SECRET_KEY", "dev-key-change-in-production")
	v.SetDefault("CSRF_ENABLED", true)
	v.SetDefault("CSRF_TIMEOUT_SECONDS", 3600)
	v.SetDefault("MAX_UPLOAD_BYTES", 16*1024*1024)
	v.SetDefault("CORS_ORIGINS", "http://localhost:5001,https://localhost:5001")
	v.SetDefault("SESSION_SECURE", false)
	v.SetDefault("SESSION_TTL_SECONDS", 12*3600)
	v.SetDefault("SOUNDING_TABLES_PATH", "data/sounding_tables.json")
	v.SetDefault("SHUTDOWN_TIMEOUT_SECONDS", 15)
	v.SetDefault("RATE_LIMIT_ENABLED", true)
	v.SetDefault("RATE_LIMIT_PER_SECOND", 10.0)
	v.SetDefault("RATE_LIMIT_BURST", 20)

	v.SetDefault("DATABASE_URL", "data/orb.db")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", 300)
	v.SetDefault("DB_CONN_MAX_IDLE_TIME", 60)

	v.SetDefault("REDIS_URL", "memory://")
	v.SetDefault("REDIS_CACHE_TTL", 300)

	v.SetDefault("LOG_DIR", "logs")
	v.SetDefault("LOG_MAX_BYTES", 10*1024*1024)
	v.SetDefault("LOG_BACKUP_COUNT", 5)
	v.SetDefault("LOG_SLOW_QUERY_SECONDS", 0.2)
	v.SetDefault("SERVICE_NAME", "orb-service")
	v.SetDefault("SERVICE_VERSION", "1.0.0")

	switch profile {
	case ProfileProduction:
		v.SetDefault("LOG_LEVEL", "info")
		v.SetDefault("LOG_JSON_FORMAT", true)
	case ProfileTesting:
		v.SetDefault("LOG_LEVEL", "warning")
		v.SetDefault("LOG_JSON_FORMAT", false)
	default:
		v.SetDefault("LOG_LEVEL", "debug")
		v.SetDefault("LOG_JSON_FORMAT", false)
	}
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}

// IsPostgres reports whether the database URL points at PostgreSQL rather
// than a SQLite file path.
func (c *DatabaseConfig) IsPostgres() bool {
	return strings.HasPrefix(c.URL, "postgres://") || strings.HasPrefix(c.URL, "postgresql://")
}
