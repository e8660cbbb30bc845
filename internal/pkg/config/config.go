package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Credential store backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	API         APIConfig
	Demo        DemoConfig
	Credentials CredentialConfig
	Telemetry   TelemetryConfig

	Mongo MongoConfig
	Redis RedisConfig
}

type APIConfig struct {
	BaseURL        string        `env:"API_BASE_URL,    default=http://localhost:5000/api/v1"`
	Timeout        time.Duration `env:"HTTP_TIMEOUT,    default=30s"`
	RefreshTimeout time.Duration `env:"REFRESH_TIMEOUT, default=10s"`
}

// DemoConfig enables the offline demo mode. It is never entered implicitly.
type DemoConfig struct {
	Enabled bool   `env:"DEMO_MODE, default=false"`
	Role    string `env:"DEMO_ROLE, default=Super Admin"`
}

type CredentialConfig struct {
	Backend   string `env:"CREDENTIAL_BACKEND,   default=file"`
	File      string `env:"CREDENTIAL_FILE"`
	Namespace string `env:"CREDENTIAL_NAMESPACE, default=backoffice"`
}

type TelemetryConfig struct {
	Endpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	Insecure bool   `env:"OTEL_EXPORTER_OTLP_INSECURE, default=false"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=backoffice"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Development reports whether ENV selects a developer setup.
func (c *Config) Development() bool {
	return c.Env == "development" || c.Env == "dev"
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith reads configuration from an arbitrary lookuper and validates it.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}
	switch cfg.Credentials.Backend {
	case BackendMemory, BackendFile, BackendRedis, BackendMongo:
	default:
		return nil, fmt.Errorf("CREDENTIAL_BACKEND: unsupported value %q", cfg.Credentials.Backend)
	}
	if cfg.API.BaseURL == "" {
		return nil, fmt.Errorf("API_BASE_URL: must not be empty")
	}
	return &cfg, nil
}
