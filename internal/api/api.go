// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/nanohunter/internal/config"
	"github.com/JaimeStill/nanohunter/internal/infrastructure"
	"github.com/JaimeStill/nanohunter/pkg/middleware"
	"github.com/JaimeStill/nanohunter/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
// Domain lifecycle hooks are registered on infra's coordinator.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	if err := domain.Start(runtime); err != nil {
		return nil, fmt.Errorf("start domain: %w", err)
	}

	mux := http.NewServeMux()
	if err := registerRoutes(mux, domain, runtime); err != nil {
		return nil, err
	}

	m, err := module.New(cfg.API.BasePath, mux)
	if err != nil {
		return nil, err
	}
	m.Use(
		middleware.Recover(runtime.Logger),
		middleware.Logger(runtime.Logger),
		middleware.CORS(&cfg.API.CORS),
	)

	return m, nil
}
