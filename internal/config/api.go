package config

import (
	"fmt"
	"os"

	"github.com/JaimeStill/nanohunter/pkg/formatting"
	"github.com/JaimeStill/nanohunter/pkg/middleware"
	"github.com/JaimeStill/nanohunter/pkg/openapi"
)

const defaultMaxUploadSize = 20 * 1024 * 1024

var corsEnv = &middleware.CORSEnv{
	Enabled:          "NANOHUNTER_CORS_ENABLED",
	Origins:          "NANOHUNTER_CORS_ORIGINS",
	AllowedMethods:   "NANOHUNTER_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "NANOHUNTER_CORS_ALLOWED_HEADERS",
	AllowCredentials: "NANOHUNTER_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "NANOHUNTER_CORS_MAX_AGE",
}

var openAPIEnv = &openapi.ConfigEnv{
	Title:       "NANOHUNTER_OPENAPI_TITLE",
	Description: "NANOHUNTER_OPENAPI_DESCRIPTION",
	Servers:     "NANOHUNTER_OPENAPI_SERVERS",
}

// APIConfig holds API routing, upload limits, CORS, and OpenAPI settings.
type APIConfig struct {
	BasePath      string                `toml:"base_path"`
	MaxUploadSize string                `toml:"max_upload_size"`
	CORS          middleware.CORSConfig `toml:"cors"`
	OpenAPI       openapi.Config        `toml:"openapi"`
}

// MaxUploadSizeBytes returns the per-image upload limit in bytes.
func (c *APIConfig) MaxUploadSizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxUploadSize)
	if err != nil {
		return defaultMaxUploadSize
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS and OpenAPI configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.OpenAPI.Finalize(openAPIEnv); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxUploadSize != "" {
		c.MaxUploadSize = overlay.MaxUploadSize
	}

	c.CORS.Merge(&overlay.CORS)
	c.OpenAPI.Merge(&overlay.OpenAPI)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "20MB"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv("NANOHUNTER_API_BASE_PATH"); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv("NANOHUNTER_API_MAX_UPLOAD_SIZE"); v != "" {
		c.MaxUploadSize = v
	}
}

func (c *APIConfig) validate() error {
	size, err := formatting.ParseBytes(c.MaxUploadSize)
	if err != nil {
		return fmt.Errorf("invalid max_upload_size: %w", err)
	}
	if size <= 0 {
		return fmt.Errorf("max_upload_size must be positive")
	}
	return nil
}
