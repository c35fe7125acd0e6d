package kv

import (
	"fmt"
	"os"
	"regexp"
	"slices"
)

// Supported backend names.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendAzure    = "azure"
)

var backends = []string{
	BackendMemory,
	BackendFile,
	BackendRedis,
	BackendPostgres,
	BackendAzure,
}

var tablePattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Config selects a backend and carries the settings each backend needs.
// Only the fields for the selected backend are validated.
type Config struct {
	Backend          string `toml:"backend"`
	Namespace        string `toml:"namespace"`
	Dir              string `toml:"dir"`
	RedisURL         string `toml:"redis_url"`
	Table            string `toml:"table"`
	Container        string `toml:"container"`
	ConnectionString string `toml:"connection_string"`
	AccountURL       string `toml:"account_url"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Backend          string
	Namespace        string
	Dir              string
	RedisURL         string
	Table            string
	Container        string
	ConnectionString string
	AccountURL       string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Backend != "" {
		c.Backend = overlay.Backend
	}
	if overlay.Namespace != "" {
		c.Namespace = overlay.Namespace
	}
	if overlay.Dir != "" {
		c.Dir = overlay.Dir
	}
	if overlay.RedisURL != "" {
		c.RedisURL = overlay.RedisURL
	}
	if overlay.Table != "" {
		c.Table = overlay.Table
	}
	if overlay.Container != "" {
		c.Container = overlay.Container
	}
	if overlay.ConnectionString != "" {
		c.ConnectionString = overlay.ConnectionString
	}
	if overlay.AccountURL != "" {
		c.AccountURL = overlay.AccountURL
	}
}

func (c *Config) loadDefaults() {
	if c.Backend == "" {
		c.Backend = BackendMemory
	}
	if c.Namespace == "" {
		c.Namespace = "nanohunter"
	}
	if c.Dir == "" {
		c.Dir = "data"
	}
	if c.Table == "" {
		c.Table = "kv_entries"
	}
	if c.Container == "" {
		c.Container = "nanohunter"
	}
}

func (c *Config) loadEnv(env *Env) {
	set := func(name string, field *string) {
		if name == "" {
			return
		}
		if v := os.Getenv(name); v != "" {
			*field = v
		}
	}

	set(env.Backend, &c.Backend)
	set(env.Namespace, &c.Namespace)
	set(env.Dir, &c.Dir)
	set(env.RedisURL, &c.RedisURL)
	set(env.Table, &c.Table)
	set(env.Container, &c.Container)
	set(env.ConnectionString, &c.ConnectionString)
	set(env.AccountURL, &c.AccountURL)
}

func (c *Config) validate() error {
	if !slices.Contains(backends, c.Backend) {
		return fmt.Errorf("%w: %s", ErrUnknownBackend, c.Backend)
	}

	switch c.Backend {
	case BackendFile:
		if c.Dir == "" {
			return fmt.Errorf("dir required for file backend")
		}
	case BackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("redis_url required for redis backend")
		}
	case BackendPostgres:
		if !tablePattern.MatchString(c.Table) {
			return fmt.Errorf("invalid table name: %q", c.Table)
		}
	case BackendAzure:
		if c.Container == "" {
			return fmt.Errorf("container required for azure backend")
		}
		if c.ConnectionString == "" && c.AccountURL == "" {
			return fmt.Errorf("connection_string or account_url required for azure backend")
		}
	}
	return nil
}
