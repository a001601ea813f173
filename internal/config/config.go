// Package config handles loading and parsing application configuration.
// It supports two sources (in priority order):
//  1. An environment variable:  CONFIG_PATH=/path/to/config.yaml
//  2. A command-line flag:      --config=/path/to/config.yaml
//
// Every value read from the YAML file can be overridden by the environment
// variable named in its env:"..." tag.
package config

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
)

// Storage drivers understood by backend.Open.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
	DriverRemote   = "remote"
)

// Config is the root configuration structure.
//
// env-required:"true" means the app refuses to start if that value is
// missing. Cross-field rules (which storage setting a driver needs) are
// validate:"..." tags checked after loading.
type Config struct {
	// Env controls log format and verbosity.
	// Valid values: "dev", "staging", "prod"
	Env string `yaml:"env" env:"ENV" env-required:"true" validate:"oneof=dev staging prod"`

	Storage    Storage    `yaml:"storage"`
	HTTPServer HTTPServer `yaml:"http_server"`
	Auth       Auth       `yaml:"auth"`
	Remote     Remote     `yaml:"remote"`
	CORS       CORS       `yaml:"cors"`
}

// Storage selects and locates the students table.
type Storage struct {
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"sqlite" validate:"oneof=sqlite postgres memory remote"`

	// Path is the filesystem path to the SQLite .db file.
	Path string `yaml:"path" env:"STORAGE_PATH" validate:"required_if=Driver sqlite"`

	// DSN is the PostgreSQL connection string.
	DSN string `yaml:"dsn" env:"DATABASE_URL" validate:"required_if=Driver postgres"`
}

// HTTPServer holds settings specific to the records service.
type HTTPServer struct {
	// Addr is the TCP address the server listens on, e.g. "localhost:8082".
	Addr            string        `yaml:"address" env:"HTTP_SERVER_ADDR" env-default:"localhost:8082"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"HTTP_SERVER_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"HTTP_SERVER_WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"HTTP_SERVER_IDLE_TIMEOUT" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SERVER_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

// Auth holds the bearer-token settings.
type Auth struct {
	// JWTSecret signs and verifies owner tokens (HS256).
	JWTSecret string        `yaml:"jwt_secret" env:"AUTH_JWT_SECRET"`
	TokenTTL  time.Duration `yaml:"token_ttl" env:"AUTH_TOKEN_TTL" env-default:"24h"`
}

// Remote points the dashboard at a running records service.
type Remote struct {
	BaseURL string        `yaml:"base_url" env:"REMOTE_BASE_URL" validate:"omitempty,url"`
	Token   string        `yaml:"token" env:"REMOTE_TOKEN"`
	Timeout time.Duration `yaml:"timeout" env:"REMOTE_TIMEOUT" env-default:"10s"`
}

// CORS lists browser origins allowed to call the records service.
type CORS struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-separator:","`
}

// Load reads the YAML file at path, applies environment overrides and
// validates the result.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file does not exist: %s", path)
		}
		return nil, fmt.Errorf("config file: %w", err)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the cross-field rules.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Storage.Driver == DriverRemote && c.Remote.BaseURL == "" {
		return errors.New("invalid config: remote.base_url is required for the remote storage driver")
	}
	return nil
}

// MustLoad reads, validates, and returns the application config.
//
// Functions prefixed with "Must" are allowed to exit on failure. Callers do
// not need to check a returned error; if this returns, the config is valid.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {
		flags := flag.String("config", "", "Path to the configuration YAML file")
		flag.Parse()
		configPath = *flags
	}

	if configPath == "" {
		log.Fatal("config path is not set: use --config flag or CONFIG_PATH env var")
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatal(err)
	}
	return cfg
}
