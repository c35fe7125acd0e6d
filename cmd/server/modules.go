package main

import (
	"encoding/json"
	"net/http"

	"github.com/JaimeStill/nanohunter/internal/api"
	"github.com/JaimeStill/nanohunter/internal/config"
	"github.com/JaimeStill/nanohunter/internal/infrastructure"
	"github.com/JaimeStill/nanohunter/pkg/module"
)

// Modules holds the mounted HTTP surfaces.
type Modules struct {
	API *module.Module
}

// NewModules builds every module from the configuration.
func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	apiModule, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}

	return &Modules{API: apiModule}, nil
}

// Mount attaches every module to router.
func (m *Modules) Mount(router *module.Router) error {
	return router.Mount(m.API)
}

func buildRouter(infra *infrastructure.Infrastructure, version string) *module.Router {
	router := module.NewRouter()

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, map[string]any{"status": "ok", "version": version})
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		probes, ok := infra.Lifecycle.Probe(r.Context())
		if !ok {
			writeStatus(w, http.StatusServiceUnavailable, map[string]any{"status": "not ready", "probes": probes})
			return
		}
		writeStatus(w, http.StatusOK, map[string]any{"status": "ready", "probes": probes})
	})

	return router
}

func writeStatus(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
