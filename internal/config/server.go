package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/JaimeStill/nanohunter/pkg/formatting"
)

const (
	EnvServerHost              = "NANOHUNTER_SERVER_HOST"
	EnvServerPort              = "NANOHUNTER_SERVER_PORT"
	EnvServerReadTimeout       = "NANOHUNTER_SERVER_READ_TIMEOUT"
	EnvServerReadHeaderTimeout = "NANOHUNTER_SERVER_READ_HEADER_TIMEOUT"
	EnvServerWriteTimeout      = "NANOHUNTER_SERVER_WRITE_TIMEOUT"
	EnvServerIdleTimeout       = "NANOHUNTER_SERVER_IDLE_TIMEOUT"
	EnvServerMaxHeaderSize     = "NANOHUNTER_SERVER_MAX_HEADER_SIZE"
	EnvServerShutdownTimeout   = "NANOHUNTER_SERVER_SHUTDOWN_TIMEOUT"
)

const defaultMaxHeaderSize = 64 * 1024

// ServerConfig holds HTTP listener parameters. ReadTimeout covers a full
// multipart upload; WriteTimeout covers the slowest analysis response,
// including every vision retry.
type ServerConfig struct {
	Host              string `toml:"host"`
	Port              int    `toml:"port"`
	ReadTimeout       string `toml:"read_timeout"`
	ReadHeaderTimeout string `toml:"read_header_timeout"`
	WriteTimeout      string `toml:"write_timeout"`
	IdleTimeout       string `toml:"idle_timeout"`
	MaxHeaderSize     string `toml:"max_header_size"`
	ShutdownTimeout   string `toml:"shutdown_timeout"`
}

// Addr returns the host:port listen address.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// ReadTimeoutDuration returns ReadTimeout as a time.Duration.
func (c *ServerConfig) ReadTimeoutDuration() time.Duration { return duration(c.ReadTimeout) }

// ReadHeaderTimeoutDuration returns ReadHeaderTimeout as a time.Duration.
func (c *ServerConfig) ReadHeaderTimeoutDuration() time.Duration {
	return duration(c.ReadHeaderTimeout)
}

// WriteTimeoutDuration returns WriteTimeout as a time.Duration.
func (c *ServerConfig) WriteTimeoutDuration() time.Duration { return duration(c.WriteTimeout) }

// IdleTimeoutDuration returns IdleTimeout as a time.Duration.
func (c *ServerConfig) IdleTimeoutDuration() time.Duration { return duration(c.IdleTimeout) }

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *ServerConfig) ShutdownTimeoutDuration() time.Duration {
	return duration(c.ShutdownTimeout)
}

// MaxHeaderBytes returns MaxHeaderSize in bytes for http.Server.
func (c *ServerConfig) MaxHeaderBytes() int {
	size, err := formatting.ParseBytes(c.MaxHeaderSize)
	if err != nil || size <= 0 {
		return defaultMaxHeaderSize
	}
	return int(size)
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ServerConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *ServerConfig) Merge(overlay *ServerConfig) {
	if overlay.Host != "" {
		c.Host = overlay.Host
	}
	if overlay.Port != 0 {
		c.Port = overlay.Port
	}
	for dst, src := range c.stringFields(overlay) {
		if *src != "" {
			*dst = *src
		}
	}
}

// stringFields pairs each string field of c with the same field of other.
func (c *ServerConfig) stringFields(other *ServerConfig) map[*string]*string {
	return map[*string]*string{
		&c.ReadTimeout:       &other.ReadTimeout,
		&c.ReadHeaderTimeout: &other.ReadHeaderTimeout,
		&c.WriteTimeout:      &other.WriteTimeout,
		&c.IdleTimeout:       &other.IdleTimeout,
		&c.MaxHeaderSize:     &other.MaxHeaderSize,
		&c.ShutdownTimeout:   &other.ShutdownTimeout,
	}
}

func (c *ServerConfig) loadDefaults() {
	if c.Host == "" {
		c.Host = "0.0.0.0"
	}
	if c.Port == 0 {
		c.Port = 8080
	}

	defaults := []struct {
		field *string
		value string
	}{
		{&c.ReadTimeout, "2m"},
		{&c.ReadHeaderTimeout, "10s"},
		{&c.WriteTimeout, "5m"},
		{&c.IdleTimeout, "2m"},
		{&c.MaxHeaderSize, "64KB"},
		{&c.ShutdownTimeout, "30s"},
	}
	for _, d := range defaults {
		if *d.field == "" {
			*d.field = d.value
		}
	}
}

func (c *ServerConfig) loadEnv() {
	if v := os.Getenv(EnvServerHost); v != "" {
		c.Host = v
	}
	if v := os.Getenv(EnvServerPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Port = port
		}
	}

	vars := map[string]*string{
		EnvServerReadTimeout:       &c.ReadTimeout,
		EnvServerReadHeaderTimeout: &c.ReadHeaderTimeout,
		EnvServerWriteTimeout:      &c.WriteTimeout,
		EnvServerIdleTimeout:       &c.IdleTimeout,
		EnvServerMaxHeaderSize:     &c.MaxHeaderSize,
		EnvServerShutdownTimeout:   &c.ShutdownTimeout,
	}
	for name, field := range vars {
		if v := os.Getenv(name); v != "" {
			*field = v
		}
	}
}

func (c *ServerConfig) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}

	durations := []struct {
		name  string
		value string
	}{
		{"read_timeout", c.ReadTimeout},
		{"read_header_timeout", c.ReadHeaderTimeout},
		{"write_timeout", c.WriteTimeout},
		{"idle_timeout", c.IdleTimeout},
		{"shutdown_timeout", c.ShutdownTimeout},
	}
	for _, d := range durations {
		v, err := time.ParseDuration(d.value)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", d.name, err)
		}
		if v < 0 {
			return fmt.Errorf("invalid %s: must not be negative", d.name)
		}
	}

	if c.ReadTimeoutDuration() > 0 && c.ReadHeaderTimeoutDuration() > c.ReadTimeoutDuration() {
		return fmt.Errorf("read_header_timeout %s exceeds read_timeout %s", c.ReadHeaderTimeout, c.ReadTimeout)
	}

	size, err := formatting.ParseBytes(c.MaxHeaderSize)
	if err != nil {
		return fmt.Errorf("invalid max_header_size: %w", err)
	}
	if size < 4*1024 || size > 1<<20 {
		return fmt.Errorf("max_header_size must be between 4KB and 1MB, got %s", c.MaxHeaderSize)
	}
	return nil
}

// checkBudget verifies the listener leaves room for the slowest analysis.
// A zero write timeout means unlimited.
func (c *ServerConfig) checkBudget(analysis time.Duration) error {
	write := c.WriteTimeoutDuration()
	if write > 0 && write < analysis {
		return fmt.Errorf("write_timeout %s is shorter than the vision call budget %s", c.WriteTimeout, analysis)
	}
	return nil
}

func duration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}
