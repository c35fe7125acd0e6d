package vision

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"time"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

// Supported provider names.
const (
	ProviderAgent  = "agent"
	ProviderGemini = "gemini"
)

var providers = []string{ProviderAgent, ProviderGemini}

// Config selects the vision provider and governs call timeouts and retries.
type Config struct {
	Provider string               `toml:"provider"`
	Timeout  string               `toml:"timeout"`
	Retries  int                  `toml:"retries"`
	Backoff  string               `toml:"backoff"`
	Agent    gaconfig.AgentConfig `toml:"agent"`
	Gemini   GeminiConfig         `toml:"gemini"`
}

// GeminiConfig holds Gemini API credentials and the model to call.
type GeminiConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Provider string
	Timeout  string
	Retries  string
	Backoff  string

	GeminiAPIKey string
	GeminiModel  string

	AgentProviderName string
	AgentBaseURL      string
	AgentToken        string
	AgentDeployment   string
	AgentAPIVersion   string
	AgentAuthType     string
	AgentModelName    string
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// BackoffDuration returns Backoff as a time.Duration.
func (c *Config) BackoffDuration() time.Duration {
	d, _ := time.ParseDuration(c.Backoff)
	return d
}

// Budget returns the longest a single Describe can take: every attempt
// running to Timeout plus the exponential backoff between attempts.
// It is zero when attempts are unbounded.
func (c *Config) Budget() time.Duration {
	timeout := c.TimeoutDuration()
	if timeout <= 0 {
		return 0
	}

	total := timeout * time.Duration(c.Retries+1)
	wait := c.BackoffDuration()
	for range c.Retries {
		total += wait
		wait *= 2
	}
	return total
}

// Finalize applies defaults, environment variable overrides, and validation.
// The agent section is finalized only when the agent provider is selected.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	if err := c.validate(); err != nil {
		return err
	}

	if c.Provider == ProviderAgent {
		loadAgentDefaults(&c.Agent)
		if env != nil {
			loadAgentEnv(&c.Agent, env)
		}
		if err := validateAgent(&c.Agent); err != nil {
			return fmt.Errorf("agent: %w", err)
		}
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Provider != "" {
		c.Provider = overlay.Provider
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.Retries != 0 {
		c.Retries = overlay.Retries
	}
	if overlay.Backoff != "" {
		c.Backoff = overlay.Backoff
	}
	if overlay.Gemini.APIKey != "" {
		c.Gemini.APIKey = overlay.Gemini.APIKey
	}
	if overlay.Gemini.Model != "" {
		c.Gemini.Model = overlay.Gemini.Model
	}
	if overlay.Agent.Name != "" || overlay.Agent.Provider != nil || overlay.Agent.Model != nil {
		c.Agent.Merge(&overlay.Agent)
	}
}

func (c *Config) loadDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderGemini
	}
	if c.Timeout == "" {
		c.Timeout = "90s"
	}
	if c.Retries == 0 {
		c.Retries = 2
	}
	if c.Backoff == "" {
		c.Backoff = "500ms"
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.5-flash"
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

	set(env.Provider, &c.Provider)
	set(env.Timeout, &c.Timeout)
	set(env.Backoff, &c.Backoff)
	set(env.GeminiAPIKey, &c.Gemini.APIKey)
	set(env.GeminiModel, &c.Gemini.Model)

	if env.Retries != "" {
		if v := os.Getenv(env.Retries); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.Retries = n
			}
		}
	}
}

func (c *Config) validate() error {
	if !slices.Contains(providers, c.Provider) {
		return fmt.Errorf("%w: %s", ErrUnknownProvider, c.Provider)
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	if _, err := time.ParseDuration(c.Backoff); err != nil {
		return fmt.Errorf("invalid backoff: %w", err)
	}
	if c.Retries < 0 {
		return fmt.Errorf("retries must not be negative: %d", c.Retries)
	}
	if c.Provider == ProviderGemini && c.Gemini.APIKey == "" {
		return fmt.Errorf("gemini api_key required")
	}
	return nil
}

func loadAgentDefaults(c *gaconfig.AgentConfig) {
	defaults := gaconfig.DefaultAgentConfig()
	defaults.Merge(c)
	*c = defaults
}

func loadAgentEnv(c *gaconfig.AgentConfig, env *Env) {
	if c.Provider == nil {
		c.Provider = &gaconfig.ProviderConfig{}
	}
	if c.Provider.Options == nil {
		c.Provider.Options = make(map[string]any)
	}
	if c.Model == nil {
		c.Model = &gaconfig.ModelConfig{}
	}

	lookup := func(name string) string {
		if name == "" {
			return ""
		}
		return os.Getenv(name)
	}

	if v := lookup(env.AgentProviderName); v != "" {
		c.Provider.Name = v
	}
	if v := lookup(env.AgentBaseURL); v != "" {
		c.Provider.BaseURL = v
	}
	if v := lookup(env.AgentModelName); v != "" {
		c.Model.Name = v
	}

	setOption := func(name, key string) {
		if v := lookup(name); v != "" {
			c.Provider.Options[key] = v
		}
	}

	setOption(env.AgentToken, "token")
	setOption(env.AgentDeployment, "deployment")
	setOption(env.AgentAPIVersion, "api_version")
	setOption(env.AgentAuthType, "auth_type")
}

func validateAgent(c *gaconfig.AgentConfig) error {
	if c.Name == "" {
		return fmt.Errorf("name required")
	}
	if c.Provider == nil || c.Provider.Name == "" {
		return fmt.Errorf("provider name required")
	}
	if c.Model == nil {
		return fmt.Errorf("model required")
	}
	return nil
}
