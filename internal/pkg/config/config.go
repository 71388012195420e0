package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timeouts, cache sizing, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server ServerConfig
	DB     DBConfig
	Cache  CacheConfig
	CORS   CORSConfig
	Auth   AuthConfig
	Log    LogConfig
}

type ServerConfig struct {
	Port            string        `envconfig:"PORT" required:"true"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`

	MaxConnections    int32         `envconfig:"DB_MAX_CONNECTIONS" default:"50"`
	MinIdleConns      int32         `envconfig:"DB_MIN_IDLE_CONNECTIONS" default:"5"`
	IdleTimeout       time.Duration `envconfig:"DB_IDLE_TIMEOUT" default:"300s"`
	ConnectTimeout    time.Duration `envconfig:"DB_CONNECT_TIMEOUT" default:"10s"`
	MaxConnLifetime   time.Duration `envconfig:"DB_MAX_CONNECTION_LIFETIME" default:"1800s"`
	StatementTimeout  time.Duration `envconfig:"DB_STATEMENT_TIMEOUT" default:"30000ms"`
	LockTimeout       time.Duration `envconfig:"DB_LOCK_TIMEOUT" default:"10000ms"`
	HealthCheckPeriod time.Duration `envconfig:"DB_HEALTH_CHECK_PERIOD" default:"60s"`
}

type CacheConfig struct {
	TTL         time.Duration `envconfig:"CACHE_TTL" default:"2000ms"`
	MaxSize     int           `envconfig:"CACHE_MAX_SIZE" default:"10000"`
	SettingsTTL time.Duration `envconfig:"SETTINGS_CACHE_TTL" default:"2000ms"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,X-API-Key"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length,ETag"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

// Empty keys disable the corresponding check so local development works
// without credentials.
type AuthConfig struct {
	APIKey      string `envconfig:"API_KEY" default:""`
	AdminAPIKey string `envconfig:"ADMIN_API_KEY" default:""`
}

type LogConfig struct {
	Level      string `envconfig:"LOG_LEVEL" default:"info"`
	TimeFormat string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:            "8889", // Test port
			ShutdownTimeout: 5 * time.Second,
		},
		DB: DBConfig{
			Host:             "localhost",
			Port:             "15433", // Test DB port
			User:             "test",
			Password:         "test",
			DBName:           "test_db",
			SSLMode:          "disable",
			MaxConnections:   10,
			MinIdleConns:     1,
			IdleTimeout:      60 * time.Second,
			ConnectTimeout:   5 * time.Second,
			MaxConnLifetime:  10 * time.Minute,
			StatementTimeout: 30 * time.Second,
			LockTimeout:      10 * time.Second,
		},
		Cache: CacheConfig{
			TTL:         2 * time.Second,
			MaxSize:     1000,
			SettingsTTL: 2 * time.Second,
		},
		Log: LogConfig{
			Level:      "error", // Error level only for tests
			TimeFormat: "2006-01-02 15:04:05.000",
		},
	}
}
