package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/nanohunter/internal/vision"
	"github.com/JaimeStill/nanohunter/pkg/database"
	"github.com/JaimeStill/nanohunter/pkg/kv"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvNanohunterEnv             = "NANOHUNTER_ENV"
	EnvNanohunterShutdownTimeout = "NANOHUNTER_SHUTDOWN_TIMEOUT"
	EnvNanohunterVersion         = "NANOHUNTER_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "NANOHUNTER_DB_HOST",
	Port:            "NANOHUNTER_DB_PORT",
	Name:            "NANOHUNTER_DB_NAME",
	User:            "NANOHUNTER_DB_USER",
	Password:        "NANOHUNTER_DB_PASSWORD",
	SSLMode:         "NANOHUNTER_DB_SSL_MODE",
	MaxOpenConns:    "NANOHUNTER_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "NANOHUNTER_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "NANOHUNTER_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "NANOHUNTER_DB_CONN_TIMEOUT",
}

var storeEnv = &kv.Env{
	Backend:          "NANOHUNTER_STORE_BACKEND",
	Namespace:        "NANOHUNTER_STORE_NAMESPACE",
	Dir:              "NANOHUNTER_STORE_DIR",
	RedisURL:         "NANOHUNTER_STORE_REDIS_URL",
	Table:            "NANOHUNTER_STORE_TABLE",
	Container:        "NANOHUNTER_STORE_CONTAINER",
	ConnectionString: "NANOHUNTER_STORE_CONNECTION_STRING",
	AccountURL:       "NANOHUNTER_STORE_ACCOUNT_URL",
}

var visionEnv = &vision.Env{
	Provider:          "NANOHUNTER_VISION_PROVIDER",
	Timeout:           "NANOHUNTER_VISION_TIMEOUT",
	Retries:           "NANOHUNTER_VISION_RETRIES",
	Backoff:           "NANOHUNTER_VISION_BACKOFF",
	GeminiAPIKey:      "NANOHUNTER_GEMINI_API_KEY",
	GeminiModel:       "NANOHUNTER_GEMINI_MODEL",
	AgentProviderName: "NANOHUNTER_AGENT_PROVIDER_NAME",
	AgentBaseURL:      "NANOHUNTER_AGENT_BASE_URL",
	AgentToken:        "NANOHUNTER_AGENT_TOKEN",
	AgentDeployment:   "NANOHUNTER_AGENT_DEPLOYMENT",
	AgentAPIVersion:   "NANOHUNTER_AGENT_API_VERSION",
	AgentAuthType:     "NANOHUNTER_AGENT_AUTH_TYPE",
	AgentModelName:    "NANOHUNTER_AGENT_MODEL_NAME",
}

// DatabaseEnv returns the environment variable names for the database section.
func DatabaseEnv() *database.Env {
	env := *databaseEnv
	return &env
}

// Config is the root configuration for the NanoHUNTER service.
type Config struct {
	Server          ServerConfig    `toml:"server"`
	API             APIConfig       `toml:"api"`
	Store           kv.Config       `toml:"store"`
	Database        database.Config `toml:"database"`
	Vision          vision.Config   `toml:"vision"`
	History         HistoryConfig   `toml:"history"`
	Analysis        AnalysisConfig  `toml:"analysis"`
	Logging         LoggingConfig   `toml:"logging"`
	ShutdownTimeout string          `toml:"shutdown_timeout"`
	Version         string          `toml:"version"`
}

// Env returns the NANOHUNTER_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvNanohunterEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// UsesDatabase reports whether the configured store needs a postgres connection.
func (c *Config) UsesDatabase() bool {
	return c.Store.Backend == kv.BackendPostgres
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	return LoadFrom(BaseConfigFile)
}

// LoadFrom is Load with an explicit base file path. The overlay is
// resolved next to the base file.
func LoadFrom(base string) (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(base); err == nil {
		loaded, err := load(base)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(base); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.API.Merge(&overlay.API)
	c.Store.Merge(&overlay.Store)
	c.Database.Merge(&overlay.Database)
	c.Vision.Merge(&overlay.Vision)
	c.History.Merge(&overlay.History)
	c.Analysis.Merge(&overlay.Analysis)
	c.Logging.Merge(&overlay.Logging)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Store.Finalize(storeEnv); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	if c.UsesDatabase() {
		if err := c.Database.Finalize(databaseEnv); err != nil {
			return fmt.Errorf("database: %w", err)
		}
	}
	if err := c.Vision.Finalize(visionEnv); err != nil {
		return fmt.Errorf("vision: %w", err)
	}
	if err := c.Server.checkBudget(c.Vision.Budget()); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.History.Finalize(); err != nil {
		return fmt.Errorf("history: %w", err)
	}
	if err := c.Analysis.Finalize(); err != nil {
		return fmt.Errorf("analysis: %w", err)
	}
	if err := c.Logging.Finalize(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvNanohunterShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvNanohunterVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath(base string) string {
	if env := os.Getenv(EnvNanohunterEnv); env != "" {
		path := filepath.Join(filepath.Dir(base), fmt.Sprintf(OverlayConfigPattern, env))
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
