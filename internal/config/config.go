package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates all runtime settings required by the application.
type Config struct {
	AppName     string
	Environment string
	HTTP        HTTPConfig
	Storage     StorageConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	JWT         JWTConfig
	Buffer      BufferConfig
	Scheduler   SchedulerConfig
	Workflow    WorkflowConfig
	Context     ContextConfig
	Logger      LoggerConfig
	Migrations  MigrationsConfig
}

type HTTPConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	MaxConn      int
	// DefaultPageSize and MaxPageSize bound department listings.
	DefaultPageSize int
	MaxPageSize     int
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	SequencerStore = "store"
	SequencerRedis = "redis"
)

type StorageConfig struct {
	Driver     string
	SQLitePath string
}

type DatabaseConfig struct {
	URL             string
	Host            string
	Port            string
	Name            string
	User            string
	Password        string
	MaxOpenConns    int
	MaxIdleConns    int
	MaxConnLifetime time.Duration
	SSLMode         string
}

type RedisConfig struct {
	URL      string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret string
	Issuer string
}

type BufferConfig struct {
	Path           string
	RetentionHours int
	SyncInterval   time.Duration
	BatchSize      int
	MaxRetry       int
}

type SchedulerConfig struct {
	Enabled         bool
	OverdueSweep    time.Duration
	MonitorInterval time.Duration
}

type WorkflowConfig struct {
	Departments       []string
	StrictTransitions bool
	AdminRole         string
	WeekLocation      string
	SequencerBackend  string
}

type ContextConfig struct {
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

type LoggerConfig struct {
	Level    string
	Encoding string
}

type MigrationsConfig struct {
	Enabled bool
	Path    string
}

// Load reads configuration from environment variables (optionally .env)
// and applies sane defaults so the service can boot in any environment.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		AppName:     getString("APP_NAME", "workflow-engine"),
		Environment: getString("APP_ENV", "development"),
		HTTP: HTTPConfig{
			Host:            getString("SERVER_HOST", "0.0.0.0"),
			Port:            getString("SERVER_PORT", "8080"),
			ReadTimeout:     getDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:     getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
			MaxConn:         getInt("SERVER_MAX_CONN", 0),
			DefaultPageSize: getInt("SERVER_DEFAULT_PAGE_SIZE", 50),
			MaxPageSize:     getInt("SERVER_MAX_PAGE_SIZE", 200),
		},
		Storage: StorageConfig{
			Driver:     strings.ToLower(getString("STORAGE_DRIVER", DriverPostgres)),
			SQLitePath: getString("SQLITE_PATH", "./data/workflow.db"),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			Host:            getString("DB_HOST", "localhost"),
			Port:            getString("DB_PORT", "5432"),
			Name:            getString("DB_NAME", "workflow_db"),
			User:            getString("DB_USER", "workflow_user"),
			Password:        os.Getenv("DB_PASSWORD"),
			MaxOpenConns:    getInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getInt("DB_MAX_IDLE_CONNS", 10),
			MaxConnLifetime: getDuration("DB_CONN_LIFETIME", time.Hour),
			SSLMode:         getString("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:      getString("REDIS_URL", "redis://localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret: os.Getenv("JWT_SECRET"),
			Issuer: getString("JWT_ISSUER", "workflow-engine"),
		},
		Buffer: BufferConfig{
			Path:           getString("BOLTDB_PATH", "./data/activity-buffer.db"),
			RetentionHours: getInt("BUFFER_RETENTION_HOURS", 72),
			SyncInterval:   getDuration("SYNC_INTERVAL_SECONDS", 30*time.Second),
			BatchSize:      getInt("BUFFER_BATCH_SIZE", 50),
			MaxRetry:       getInt("MAX_RETRY_ATTEMPTS", 3),
		},
		Scheduler: SchedulerConfig{
			Enabled:         getBool("SCHEDULER_ENABLED", true),
			OverdueSweep:    getDuration("OVERDUE_SWEEP_INTERVAL", 5*time.Minute),
			MonitorInterval: getDuration("MONITOR_INTERVAL", 10*time.Second),
		},
		Workflow: WorkflowConfig{
			Departments:       getList("WORKFLOW_DEPARTMENTS"),
			StrictTransitions: getBool("WORKFLOW_STRICT_TRANSITIONS", false),
			AdminRole:         getString("WORKFLOW_ADMIN_ROLE", "admin"),
			WeekLocation:      getString("WORKFLOW_WEEK_LOCATION", "UTC"),
			SequencerBackend:  strings.ToLower(getString("SEQUENCER_BACKEND", SequencerStore)),
		},
		Context: ContextConfig{
			RequestTimeout:  getDuration("REQUEST_TIMEOUT_SECONDS", 5*time.Second),
			ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT_SECONDS", 15*time.Second),
		},
		Logger: LoggerConfig{
			Level:    getString("LOG_LEVEL", "info"),
			Encoding: getString("LOG_ENCODING", "json"),
		},
		Migrations: MigrationsConfig{
			Enabled: getBool("RUN_MIGRATIONS", true),
			Path:    getString("MIGRATIONS_PATH", "./assets/migrations"),
		},
	}

	if cfg.Database.URL == "" {
		cfg.Database.URL = buildPostgresURL(cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.Storage.Driver)
	}
	switch c.Workflow.SequencerBackend {
	case SequencerStore, SequencerRedis:
	default:
		return fmt.Errorf("unsupported SEQUENCER_BACKEND %q", c.Workflow.SequencerBackend)
	}
	if _, err := c.WeekLocation(); err != nil {
		return fmt.Errorf("invalid WORKFLOW_WEEK_LOCATION: %w", err)
	}
	if c.HTTP.MaxPageSize < c.HTTP.DefaultPageSize {
		c.HTTP.MaxPageSize = c.HTTP.DefaultPageSize
	}
	return nil
}

// WeekLocation resolves the time zone calendar weeks are counted in.
func (c *Config) WeekLocation() (*time.Location, error) {
	return time.LoadLocation(c.Workflow.WeekLocation)
}

func buildPostgresURL(cfg *Config) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.Name,
		cfg.Database.SSLMode,
	)
}

func getString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// getList splits a comma separated variable, dropping blanks.
func getList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}

// Address returns the HTTP listen address for the fasthttp server.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%s", c.HTTP.Host, c.HTTP.Port)
}
