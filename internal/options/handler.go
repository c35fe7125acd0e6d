package options

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/nanohunter/pkg/handlers"
	"github.com/JaimeStill/nanohunter/pkg/routes"
)

// Handler serves the option catalog and preset expansion.
type Handler struct {
	logger *slog.Logger
}

// CatalogResponse lists every choice a client can make before analysis.
type CatalogResponse struct {
	Keys         []Descriptor  `json:"keys"`
	Defaults     Preservation  `json:"defaults"`
	AspectRatios []AspectRatio `json:"aspect_ratios"`
	SubjectModes []SubjectMode `json:"subject_modes"`
	Presets      []Preset      `json:"presets"`
}

// PresetRequest asks for a preset to be merged over the current options.
type PresetRequest struct {
	Preset      string       `json:"preset"`
	SubjectMode SubjectMode  `json:"subject_mode"`
	Current     Preservation `json:"current"`
}

// NewHandler creates a Handler.
func NewHandler(logger *slog.Logger) *Handler {
	return &Handler{logger: logger.With("handler", "options")}
}

// Routes returns the route group definition for option endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:  "/options",
		Tags:    []string{"Options"},
		Schemas: docs.Schemas,
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.Catalog, OpenAPI: docs.Catalog},
			{Method: "POST", Pattern: "/preset", Handler: h.Preset, OpenAPI: docs.Preset},
		},
	}
}

// Catalog returns the preservation keys, their defaults, and the enumerated choices.
func (h *Handler) Catalog(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, CatalogResponse{
		Keys:         Catalog(),
		Defaults:     Defaults(),
		AspectRatios: AspectRatios(),
		SubjectModes: SubjectModes(),
		Presets:      Presets(),
	})
}

// Preset applies a named preset to the supplied options and returns the result.
func (h *Handler) Preset(w http.ResponseWriter, r *http.Request) {
	var req PresetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	preset, err := ParsePreset(req.Preset)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	mode := req.SubjectMode
	if mode == "" {
		mode = DefaultMode
	}

	handlers.RespondJSON(w, http.StatusOK, preset.Apply(mode, req.Current))
}
