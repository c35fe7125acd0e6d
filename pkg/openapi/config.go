package openapi

import (
	"fmt"
	"net/url"
	"os"
	"strings"
)

const (
	defaultTitle       = "NanoHUNTER API"
	defaultDescription = "Reference image analysis and prompt generation for image models."
)

// Config holds the document metadata published at the spec endpoint.
// Servers lists public URLs documented after the API base path, such as
// a gateway that fronts the service.
type Config struct {
	Title       string   `toml:"title"`
	Description string   `toml:"description"`
	Servers     []string `toml:"servers"`
}

// ConfigEnv names the environment variables that override Config.
// Servers is read as a comma-separated list.
type ConfigEnv struct {
	Title       string
	Description string
	Servers     string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *ConfigEnv) error {
	if env != nil {
		c.loadEnv(env)
	}
	c.Title = strings.TrimSpace(c.Title)
	if c.Title == "" {
		c.Title = defaultTitle
	}
	if c.Description == "" {
		c.Description = defaultDescription
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Title != "" {
		c.Title = overlay.Title
	}
	if overlay.Description != "" {
		c.Description = overlay.Description
	}
	if len(overlay.Servers) > 0 {
		c.Servers = overlay.Servers
	}
}

// Apply writes the configured metadata into spec. basePath is always the
// first server so relative clients resolve against the service itself.
func (c *Config) Apply(spec *Spec, basePath string) {
	spec.Info.Title = c.Title
	spec.SetDescription(c.Description)
	spec.AddServer(basePath)
	for _, s := range c.Servers {
		if s != basePath {
			spec.AddServer(s)
		}
	}
}

func (c *Config) loadEnv(env *ConfigEnv) {
	if v := lookup(env.Title); v != "" {
		c.Title = v
	}
	if v := lookup(env.Description); v != "" {
		c.Description = v
	}
	if v := lookup(env.Servers); v != "" {
		c.Servers = nil
		for s := range strings.SplitSeq(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				c.Servers = append(c.Servers, s)
			}
		}
	}
}

func (c *Config) validate() error {
	for _, s := range c.Servers {
		u, err := url.Parse(s)
		if err != nil {
			return fmt.Errorf("invalid server %q: %w", s, err)
		}
		if !u.IsAbs() && !strings.HasPrefix(s, "/") {
			return fmt.Errorf("invalid server %q: must be absolute or start with /", s)
		}
	}
	return nil
}

func lookup(name string) string {
	if name == "" {
		return ""
	}
	return os.Getenv(name)
}
