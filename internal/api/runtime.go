package api

import (
	"github.com/JaimeStill/nanohunter/internal/config"
	"github.com/JaimeStill/nanohunter/internal/infrastructure"
	"github.com/JaimeStill/nanohunter/pkg/openapi"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	HistoryKey        string
	SecondaryLanguage string
	MaxUploadSize     int64
	BasePath          string
	Version           string
	OpenAPI           openapi.Config
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	scoped := *infra
	scoped.Logger = infra.Logger.With("module", "api")

	return &Runtime{
		Infrastructure:    &scoped,
		HistoryKey:        cfg.History.Key,
		SecondaryLanguage: cfg.Analysis.SecondaryLanguage,
		MaxUploadSize:     cfg.API.MaxUploadSizeBytes(),
		BasePath:          cfg.API.BasePath,
		Version:           cfg.Version,
		OpenAPI:           cfg.API.OpenAPI,
	}
}
