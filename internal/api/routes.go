package api

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/nanohunter/pkg/openapi"
	"github.com/JaimeStill/nanohunter/pkg/routes"
)

// SpecPath serves the generated OpenAPI document relative to the API base path.
const SpecPath = "/openapi.json"

func groups(domain *Domain, runtime *Runtime) []routes.Group {
	return []routes.Group{
		domain.Options.Routes(),
		domain.History.Handler().Routes(),
		domain.Analysis.Handler(runtime.MaxUploadSize).Routes(),
	}
}

func registerRoutes(mux *http.ServeMux, domain *Domain, runtime *Runtime) error {
	gs := groups(domain, runtime)
	routes.Register(mux, gs...)

	spec := openapi.NewSpec(runtime.OpenAPI.Title, runtime.Version)
	runtime.OpenAPI.Apply(spec, runtime.BasePath)
	routes.Describe(spec, gs...)

	data, err := spec.MarshalJSON()
	if err != nil {
		return fmt.Errorf("marshal openapi spec: %w", err)
	}
	mux.HandleFunc("GET "+SpecPath, openapi.ServeSpec(data))

	for _, pattern := range routes.Patterns(gs...) {
		runtime.Logger.Debug("route registered", "pattern", pattern)
	}
	return nil
}
