package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Store driver names accepted in StoreConfig.Driver.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Authentication modes accepted in AuthConfig.Mode.
const (
	AuthModeFixed = "fixed"
	AuthModeJWT   = "jwt"
)

// DefaultUserID is the identity assigned to every request in fixed auth mode.
const DefaultUserID = "550e8400-e29b-41d4-a716-446655440000"

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Addr               string `mapstructure:"addr" yaml:"addr"`
	ShutdownTimeoutSec int    `mapstructure:"shutdown_timeout_sec" yaml:"shutdown_timeout_sec"`
}

// StoreConfig selects the task store backend.
type StoreConfig struct {
	// Driver is one of "memory", "sqlite" or "postgres".
	Driver string `mapstructure:"driver" yaml:"driver"`

	// DSN is the sqlite file path or the postgres connection URL.
	// Ignored by the memory driver.
	DSN string `mapstructure:"dsn" yaml:"dsn"`
}

// AuthConfig controls how request identities are established.
type AuthConfig struct {
	// Mode is "fixed" (every request is UserID) or "jwt".
	Mode   string `mapstructure:"mode" yaml:"mode"`
	UserID string `mapstructure:"user_id" yaml:"user_id"`
	Email  string `mapstructure:"email" yaml:"email"`

	// JWTSecret signs and verifies tokens in jwt mode. When empty the
	// secret is looked up in the system keyring.
	JWTSecret   string `mapstructure:"jwt_secret" yaml:"jwt_secret"`
	TokenTTLMin int    `mapstructure:"token_ttl_min" yaml:"token_ttl_min"`
}

// LogConfig holds logging preferences.
type LogConfig struct {
	// Env is "local", "dev" or "prod".
	Env  string `mapstructure:"env" yaml:"env"`
	File string `mapstructure:"file" yaml:"file"`
}

// ClientConfig is used by the board to reach the API.
type ClientConfig struct {
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
	Token   string `mapstructure:"token" yaml:"token"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Server ServerConfig `mapstructure:"server" yaml:"server"`
	Store  StoreConfig  `mapstructure:"store" yaml:"store"`
	Auth   AuthConfig   `mapstructure:"auth" yaml:"auth"`
	Log    LogConfig    `mapstructure:"log" yaml:"log"`
	Client ClientConfig `mapstructure:"client" yaml:"client"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/taskboard/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "taskboard", "config.yaml")
}

// DefaultAppConfig returns a configuration that runs the API on :3000 with
// the volatile in-memory store and the fixed development identity.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Addr:               ":3000",
			ShutdownTimeoutSec: 30,
		},
		Store: StoreConfig{
			Driver: DriverMemory,
		},
		Auth: AuthConfig{
			Mode:        AuthModeFixed,
			UserID:      DefaultUserID,
			Email:       "user@example.com",
			TokenTTLMin: 60 * 24,
		},
		Log: LogConfig{
			Env: "local",
		},
		Client: ClientConfig{
			BaseURL: "http://localhost:3000",
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// TASKBOARD_* environment variables override file values
// (e.g. TASKBOARD_STORE_DRIVER). A missing file yields the defaults.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("taskboard")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	def := DefaultAppConfig()
	v.SetDefault("server.addr", def.Server.Addr)
	v.SetDefault("server.shutdown_timeout_sec", def.Server.ShutdownTimeoutSec)
	v.SetDefault("store.driver", def.Store.Driver)
	v.SetDefault("store.dsn", def.Store.DSN)
	v.SetDefault("auth.mode", def.Auth.Mode)
	v.SetDefault("auth.user_id", def.Auth.UserID)
	v.SetDefault("auth.email", def.Auth.Email)
	v.SetDefault("auth.jwt_secret", def.Auth.JWTSecret)
	v.SetDefault("auth.token_ttl_min", def.Auth.TokenTTLMin)
	v.SetDefault("log.env", def.Log.Env)
	v.SetDefault("log.file", def.Log.File)
	v.SetDefault("client.base_url", def.Client.BaseURL)
	v.SetDefault("client.token", def.Client.Token)

	if err := v.ReadInConfig(); err != nil {
		var pathErr *os.PathError
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &pathErr) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks enumerated settings.
func (c *AppConfig) Validate() error {
	switch c.Store.Driver {
	case DriverMemory:
	case DriverSQLite, DriverPostgres:
		if c.Store.DSN == "" {
			return fmt.Errorf("store.dsn is required for driver %q", c.Store.Driver)
		}
	default:
		return fmt.Errorf("unknown store.driver %q", c.Store.Driver)
	}

	switch c.Auth.Mode {
	case AuthModeFixed:
		if c.Auth.UserID == "" {
			return fmt.Errorf("auth.user_id is required in fixed mode")
		}
	case AuthModeJWT:
	default:
		return fmt.Errorf("unknown auth.mode %q", c.Auth.Mode)
	}

	return nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("server", cfg.Server)
	v.Set("store", cfg.Store)
	v.Set("auth", cfg.Auth)
	v.Set("log", cfg.Log)
	v.Set("client", cfg.Client)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
