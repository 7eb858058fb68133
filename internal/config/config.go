package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	Environment string `toml:"environment"`

	// Remote service (cmd/server)
	Port        string `toml:"port"`
	DatabaseURL string `toml:"database_url"`
	TablePrefix string `toml:"table_prefix"`
	CORSOrigins string `toml:"cors_origins"`

	// Client (cmd/catalog)
	DataDir              string `toml:"data_dir"`
	RemoteURL            string `toml:"remote_url"` // empty disables the remote mirror
	RemoteTimeoutSeconds int    `toml:"remote_timeout_seconds"`
	LogMaxFiles          int    `toml:"log_max_files"`
}

// Default returns the configuration used when no file or environment overrides exist.
func Default() *Config {
	return &Config{
		Environment:          "dev",
		Port:                 "3001",
		CORSOrigins:          "http://localhost:3000",
		DataDir:              defaultDataDir(),
		RemoteTimeoutSeconds: 10,
		LogMaxFiles:          10,
	}
}

// Load builds the configuration from defaults, an optional TOML file and
// then environment variables, in that order of precedence (env wins).
// An empty path skips the file; a missing explicit file is an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()
	cfg.TablePrefix = getTablePrefix(cfg.Environment, cfg.TablePrefix)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config %s: %w", path, err)
	}
	defer file.Close()

	decoder := toml.NewDecoder(file)
	if err := decoder.Decode(c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Environment = getEnv("ENVIRONMENT", c.Environment)
	c.Port = getEnv("PORT", c.Port)
	c.DatabaseURL = getEnv("DATABASE_URL", c.DatabaseURL)
	c.TablePrefix = getEnv("TABLE_PREFIX", c.TablePrefix)
	c.CORSOrigins = getEnv("CORS_ORIGINS", c.CORSOrigins)
	c.DataDir = getEnv("CATALOG_DATA_DIR", c.DataDir)
	c.RemoteURL = getEnv("CATALOG_REMOTE_URL", c.RemoteURL)

	if v := os.Getenv("CATALOG_REMOTE_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RemoteTimeoutSeconds = n
		}
	}
	if v := os.Getenv("LOG_MAX_FILES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.LogMaxFiles = n
		}
	}
}

// Validate rejects settings the binaries cannot start with.
func (c *Config) Validate() error {
	switch c.Environment {
	case "dev", "test", "prod":
	default:
		return fmt.Errorf("environment must be dev, test or prod, got %q", c.Environment)
	}
	if strings.TrimSpace(c.DataDir) == "" {
		return errors.New("data_dir must not be empty")
	}
	if c.RemoteTimeoutSeconds <= 0 {
		return errors.New("remote_timeout_seconds must be positive")
	}
	if c.LogMaxFiles < 1 {
		return errors.New("log_max_files must be at least 1")
	}
	return nil
}

// RemoteTimeout is the per-request timeout for remote store calls.
func (c *Config) RemoteTimeout() time.Duration {
	return time.Duration(c.RemoteTimeoutSeconds) * time.Second
}

// CachePath is the SQLite file backing the local cache.
func (c *Config) CachePath() string {
	return filepath.Join(c.DataDir, "cache.db")
}

// LogDir holds the CLI's rotating log files.
func (c *Config) LogDir() string {
	return filepath.Join(c.DataDir, "logs")
}

// EnsureDirectories creates the data and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.DataDir, c.LogDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "creationrights")
	}
	return ".creationrights"
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env, override string) string {
	if override != "" {
		return override
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
