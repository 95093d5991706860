package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store backend selectors.
const (
	BackendPostgres    = "postgres"
	BackendSQLite      = "sqlite"
	BackendMongo       = "mongo"
	BackendGoogleTasks = "google"
)

// Config holds all configuration for the application
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Store    StoreConfig    `mapstructure:"store"`
	Database DatabaseConfig `mapstructure:"database"`
	Mongo    MongoConfig    `mapstructure:"mongo"`
	Google   GoogleConfig   `mapstructure:"google"`
	Session  SessionConfig  `mapstructure:"session"`
	Archive  ArchiveConfig  `mapstructure:"archive"`
	Logger   LoggerConfig   `mapstructure:"logger"`
	Security SecurityConfig `mapstructure:"security"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	Debug       bool   `mapstructure:"debug"`
	Timezone    string `mapstructure:"timezone"`
	StaticDir   string `mapstructure:"static_dir"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	Host         string        `mapstructure:"host"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// StoreConfig selects the task backing store.
type StoreConfig struct {
	Backend string `mapstructure:"backend"`
}

// DatabaseConfig holds relational database configuration. For the sqlite
// backend only Path is used; the rest describe the postgres connection.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Name            string        `mapstructure:"name"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

// MongoConfig holds document store configuration.
type MongoConfig struct {
	URI      string        `mapstructure:"uri"`
	Database string        `mapstructure:"database"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// GoogleConfig holds the OAuth client registration.
type GoogleConfig struct {
	ClientID     string   `mapstructure:"client_id"`
	ClientSecret string   `mapstructure:"client_secret"`
	RedirectURL  string   `mapstructure:"redirect_url"`
	Scopes       []string `mapstructure:"scopes"`
}

// SessionConfig holds session cookie and credential storage configuration.
type SessionConfig struct {
	Secret     string        `mapstructure:"secret"`
	CookieName string        `mapstructure:"cookie_name"`
	TTL        time.Duration `mapstructure:"ttl"`
	Store      string        `mapstructure:"store"` // memory | file
	StateDir   string        `mapstructure:"state_dir"`
}

// ArchiveConfig holds archival sweeper configuration.
type ArchiveConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Dir       string        `mapstructure:"dir"`
	Retention time.Duration `mapstructure:"retention"`
	Interval  time.Duration `mapstructure:"interval"`
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	Filename string `mapstructure:"filename"`
}

// SecurityConfig holds security configuration
type SecurityConfig struct {
	CORSAllowedOrigins []string      `mapstructure:"cors_allowed_origins"`
	CORSAllowedMethods []string      `mapstructure:"cors_allowed_methods"`
	CORSAllowedHeaders []string      `mapstructure:"cors_allowed_headers"`
	RateLimitRequests  int           `mapstructure:"rate_limit_requests"`
	RateLimitWindow    time.Duration `mapstructure:"rate_limit_window"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()
	bindEnvVars()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults() {
	// App defaults
	viper.SetDefault("app.name", "HarmonySync")
	viper.SetDefault("app.version", "1.0.0")
	viper.SetDefault("app.environment", "development")
	viper.SetDefault("app.debug", false)
	viper.SetDefault("app.timezone", "Europe/Saratov")
	viper.SetDefault("app.static_dir", "static")

	// Server defaults
	viper.SetDefault("server.port", 5000)
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.idle_timeout", "120s")

	// Store defaults
	viper.SetDefault("store.backend", BackendSQLite)

	// Database defaults
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.name", "harmonysync")
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "")
	viper.SetDefault("database.ssl_mode", "disable")
	viper.SetDefault("database.path", "harmonysync.db")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 10)
	viper.SetDefault("database.conn_max_lifetime", "5m")
	viper.SetDefault("database.conn_max_idle_time", "30s")

	// Mongo defaults
	viper.SetDefault("mongo.uri", "mongodb://localhost:27017")
	viper.SetDefault("mongo.database", "harmonysync")
	viper.SetDefault("mongo.timeout", "10s")

	// Google defaults
	viper.SetDefault("google.redirect_url", "http://localhost:5000/oauth2callback")
	viper.SetDefault("google.scopes", []string{
		"https://www.googleapis.com/auth/calendar",
		"https://www.googleapis.com/auth/tasks",
	})

	// Session defaults
	viper.SetDefault("session.cookie_name", "hs_session")
	viper.SetDefault("session.ttl", "24h")
	viper.SetDefault("session.store", "memory")
	viper.SetDefault("session.state_dir", ".harmonysync")

	// Archive defaults
	viper.SetDefault("archive.enabled", true)
	viper.SetDefault("archive.dir", "archive")
	viper.SetDefault("archive.retention", "720h") // 30 days
	viper.SetDefault("archive.interval", "24h")

	// Logger defaults
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "json")
	viper.SetDefault("logger.output", "stdout")
	viper.SetDefault("logger.filename", "harmonysync.log")

	// Security defaults
	viper.SetDefault("security.cors_allowed_origins", []string{"http://localhost:3000"})
	viper.SetDefault("security.cors_allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	viper.SetDefault("security.cors_allowed_headers", []string{"Authorization", "Content-Type"})
	viper.SetDefault("security.rate_limit_requests", 100)
	viper.SetDefault("security.rate_limit_window", "1m")

	// Metrics defaults
	viper.SetDefault("metrics.enabled", true)
	viper.SetDefault("metrics.path", "/metrics")
}

func bindEnvVars() {
	// App
	viper.BindEnv("app.name", "APP_NAME")
	viper.BindEnv("app.environment", "APP_ENV")
	viper.BindEnv("app.debug", "APP_DEBUG")
	viper.BindEnv("app.timezone", "APP_TIMEZONE")
	viper.BindEnv("app.static_dir", "APP_STATIC_DIR")

	// Server
	viper.BindEnv("server.port", "APP_PORT")
	viper.BindEnv("server.host", "APP_HOST")

	// Store
	viper.BindEnv("store.backend", "STORE_BACKEND")

	// Database
	viper.BindEnv("database.host", "DATABASE_HOST")
	viper.BindEnv("database.port", "DATABASE_PORT")
	viper.BindEnv("database.name", "DATABASE_NAME")
	viper.BindEnv("database.user", "DATABASE_USER")
	viper.BindEnv("database.password", "DATABASE_PASSWORD")
	viper.BindEnv("database.ssl_mode", "DATABASE_SSL_MODE")
	viper.BindEnv("database.path", "DATABASE_PATH")

	// Mongo
	viper.BindEnv("mongo.uri", "MONGO_URI")
	viper.BindEnv("mongo.database", "MONGO_DATABASE")

	// Google
	viper.BindEnv("google.client_id", "GOOGLE_CLIENT_ID")
	viper.BindEnv("google.client_secret", "GOOGLE_CLIENT_SECRET")
	viper.BindEnv("google.redirect_url", "GOOGLE_REDIRECT_URL")

	// Session
	viper.BindEnv("session.secret", "SESSION_SECRET")
	viper.BindEnv("session.store", "SESSION_STORE")
	viper.BindEnv("session.state_dir", "SESSION_STATE_DIR")

	// Archive
	viper.BindEnv("archive.enabled", "ARCHIVE_ENABLED")
	viper.BindEnv("archive.dir", "ARCHIVE_DIR")
	viper.BindEnv("archive.retention", "ARCHIVE_RETENTION")
	viper.BindEnv("archive.interval", "ARCHIVE_INTERVAL")

	// Logger
	viper.BindEnv("logger.level", "LOG_LEVEL")

	// Security
	viper.BindEnv("security.cors_allowed_origins", "CORS_ALLOWED_ORIGINS")
	viper.BindEnv("security.rate_limit_requests", "RATE_LIMIT_REQUESTS")
	viper.BindEnv("security.rate_limit_window", "RATE_LIMIT_WINDOW")

	// Metrics
	viper.BindEnv("metrics.enabled", "ENABLE_METRICS")
}

func validateConfig(cfg *Config) error {
	switch cfg.Store.Backend {
	case BackendPostgres:
		if cfg.Database.Host == "" || cfg.Database.Name == "" {
			return fmt.Errorf("postgres backend requires database host and name")
		}
	case BackendSQLite:
		if cfg.Database.Path == "" {
			return fmt.Errorf("sqlite backend requires database path")
		}
	case BackendMongo:
		if cfg.Mongo.URI == "" {
			return fmt.Errorf("mongo backend requires mongo uri")
		}
	case BackendGoogleTasks:
		// Remote store, nothing local to validate.
	default:
		return fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	if cfg.Session.Secret == "" {
		return fmt.Errorf("session secret must be set")
	}

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535")
	}

	if cfg.Archive.Retention <= 0 || cfg.Archive.Interval <= 0 {
		return fmt.Errorf("archive retention and interval must be positive")
	}

	return nil
}

// GetDSN returns the postgres connection string
func (cfg *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)
}

// IsDevelopment returns true if the environment is development
func (cfg *AppConfig) IsDevelopment() bool {
	return cfg.Environment == "development"
}

// IsProduction returns true if the environment is production
func (cfg *AppConfig) IsProduction() bool {
	return cfg.Environment == "production"
}
