package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App       AppConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	Logger    LoggerConfig
	Auth      AuthConfig
	Broadcast BroadcastConfig
	Tickets   TicketConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	RunMigrations   bool
	MigrationsDir   string
	ApplicationName string
	ConnMaxIdleSec  int32
	ConnMaxLifeSec  int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	BcryptCost            int
}

// BroadcastConfig controls how ticket updates reach connected clients.
type BroadcastConfig struct {
	// UseRedis relays events through Redis pub/sub so every instance sees them.
	UseRedis         bool
	Channel          string
	SubscriberBuffer int
	KeepAliveSeconds int
}

// TicketConfig holds lifecycle toggles.
type TicketConfig struct {
	StrictTransitions bool
}

// Load reads configuration from the environment, after merging a local .env
// file when one exists. Malformed numbers fall back to defaults, except
// REDIS_DB which selects data and must parse.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redis, err := loadRedis()
	if err != nil {
		return nil, err
	}
	cfg := &Config{
		App:       loadApp(),
		Postgres:  loadPostgres(),
		Redis:     redis,
		Logger:    LoggerConfig{Level: getEnv("LOG_LEVEL", "info")},
		Auth:      loadAuth(),
		Broadcast: loadBroadcast(),
		Tickets:   TicketConfig{StrictTransitions: getEnvAsBool("TICKET_STRICT_TRANSITIONS", false)},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadApp() AppConfig {
	return AppConfig{
		Name:                  getEnv("APP_NAME", "helpdesk-service"),
		Env:                   getEnv("APP_ENV", "development"),
		Host:                  getEnv("APP_HOST", "0.0.0.0"),
		Port:                  getEnv("APP_PORT", "8080"),
		Version:               getEnv("APP_VERSION", "dev"),
		RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
	}
}

func loadPostgres() PostgresConfig {
	return PostgresConfig{
		DSN:             os.Getenv("POSTGRES_DSN"),
		MaxConns:        int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
		MinConns:        int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
		RunMigrations:   getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
		MigrationsDir:   getEnv("POSTGRES_MIGRATIONS_DIR", "migrations"),
		ApplicationName: getEnv("POSTGRES_APPLICATION_NAME", "helpdesk-service"),
		ConnMaxIdleSec:  int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
		ConnMaxLifeSec:  int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
	}
}

func loadRedis() (RedisConfig, error) {
	db, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return RedisConfig{}, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	return RedisConfig{
		Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
	}, nil
}

func loadAuth() AuthConfig {
	return AuthConfig{
		JWTSecret:             getEnv("AUTH_JWT_SECRET", defaultJWTSecret),
		AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
		BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 12),
	}
}

func loadBroadcast() BroadcastConfig {
	return BroadcastConfig{
		UseRedis:         getEnvAsBool("BROADCAST_USE_REDIS", false),
		Channel:          getEnv("BROADCAST_CHANNEL", "helpdesk:ticket-updated"),
		SubscriberBuffer: getEnvAsInt("BROADCAST_SUBSCRIBER_BUFFER", 16),
		KeepAliveSeconds: getEnvAsInt("BROADCAST_KEEPALIVE_SECONDS", 25),
	}
}

const defaultJWTSecret = "dev-secret"

// Validate rejects settings the service cannot run with safely.
func (c *Config) Validate() error {
	if c.App.Env == "production" && c.Auth.JWTSecret == defaultJWTSecret {
		return errors.New("AUTH_JWT_SECRET must be set in production")
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		return fmt.Errorf("AUTH_BCRYPT_COST %d out of range 4..31", c.Auth.BcryptCost)
	}
	if c.Broadcast.UseRedis && c.Broadcast.Channel == "" {
		return errors.New("BROADCAST_CHANNEL is required when BROADCAST_USE_REDIS is set")
	}
	return nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// KeepAlive returns the interval between SSE keep-alive comments.
func (b BroadcastConfig) KeepAlive() time.Duration {
	if b.KeepAliveSeconds <= 0 {
		return 25 * time.Second
	}
	return time.Duration(b.KeepAliveSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
