package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Program   ProgramConfig   `yaml:"program"`
	Log       LogConfig       `yaml:"log"`
	Cache     CacheConfig     `yaml:"cache"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	// Driver is "sqlite" (default) or "postgres".
	Driver string `yaml:"driver"`
	// Path is the sqlite database file.
	Path string `yaml:"path"`

	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

// ProgramConfig points at a program document replacing the built-in one.
type ProgramConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	// File, when set, also writes logs to a rotating file.
	File string `yaml:"file"`
}

type CacheConfig struct {
	PRCacheBytes int `yaml:"pr_cache_bytes"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() *Config {
	return &Config{
		Server:   ServerConfig{Port: 8080},
		Database: DatabaseConfig{Driver: "sqlite", Path: "logbook.db"},
		Log:      LogConfig{Level: "info", Format: "text"},
		Cache:    CacheConfig{PRCacheBytes: 4 << 20},
	}
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// DataSource returns the data source for the configured driver: the file
// path for sqlite, the connection URL for postgres.
func (d DatabaseConfig) DataSource() string {
	if d.Driver == "postgres" {
		return d.DSN()
	}
	return d.Path
}

// Addr returns host:port for the HTTP listener.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Load reads config from a YAML file over the defaults, then applies
// environment variable overrides. An empty path skips the file.
// Env vars use the prefix LOGBOOK_ and underscore-separated paths:
//
//	LOGBOOK_SERVER_HOST, LOGBOOK_SERVER_PORT,
//	LOGBOOK_DB_DRIVER, LOGBOOK_DB_PATH,
//	LOGBOOK_DB_HOST, LOGBOOK_DB_PORT, LOGBOOK_DB_NAME,
//	LOGBOOK_DB_USER, LOGBOOK_DB_PASSWORD, LOGBOOK_DB_SSLMODE,
//	LOGBOOK_PROGRAM_PATH, LOGBOOK_LOG_LEVEL, LOGBOOK_LOG_FORMAT, LOGBOOK_LOG_FILE,
//	LOGBOOK_CACHE_PR_BYTES,
//	LOGBOOK_TAILSCALE_ENABLED, LOGBOOK_TAILSCALE_HOSTNAME, LOGBOOK_TAILSCALE_STATE_DIR
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	envString("LOGBOOK_SERVER_HOST", &cfg.Server.Host)
	envInt("LOGBOOK_SERVER_PORT", &cfg.Server.Port)

	envString("LOGBOOK_DB_DRIVER", &cfg.Database.Driver)
	envString("LOGBOOK_DB_PATH", &cfg.Database.Path)
	envString("LOGBOOK_DB_HOST", &cfg.Database.Host)
	envInt("LOGBOOK_DB_PORT", &cfg.Database.Port)
	envString("LOGBOOK_DB_NAME", &cfg.Database.Name)
	envString("LOGBOOK_DB_USER", &cfg.Database.User)
	envString("LOGBOOK_DB_PASSWORD", &cfg.Database.Password)
	envString("LOGBOOK_DB_SSLMODE", &cfg.Database.SSLMode)

	envString("LOGBOOK_PROGRAM_PATH", &cfg.Program.Path)

	envString("LOGBOOK_LOG_LEVEL", &cfg.Log.Level)
	envString("LOGBOOK_LOG_FORMAT", &cfg.Log.Format)
	envString("LOGBOOK_LOG_FILE", &cfg.Log.File)

	envInt("LOGBOOK_CACHE_PR_BYTES", &cfg.Cache.PRCacheBytes)

	if v := os.Getenv("LOGBOOK_TAILSCALE_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Tailscale.Enabled = b
		}
	}
	envString("LOGBOOK_TAILSCALE_HOSTNAME", &cfg.Tailscale.Hostname)
	envString("LOGBOOK_TAILSCALE_STATE_DIR", &cfg.Tailscale.StateDir)
}

func envString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// envInt ignores values that are not integers.
func envInt(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port is required")
	}
	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Path == "" {
			return fmt.Errorf("database.path is required for sqlite")
		}
	case "postgres":
		if c.Database.Host == "" {
			return fmt.Errorf("database.host is required")
		}
		if c.Database.Port == 0 {
			return fmt.Errorf("database.port is required")
		}
		if c.Database.Name == "" {
			return fmt.Errorf("database.name is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database.user is required")
		}
	default:
		return fmt.Errorf("database.driver must be sqlite or postgres, got %q", c.Database.Driver)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	if c.Cache.PRCacheBytes < 0 {
		return fmt.Errorf("cache.pr_cache_bytes must not be negative")
	}
	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}
	return nil
}
