package analysis

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/JaimeStill/nanohunter/pkg/handlers"
	"github.com/JaimeStill/nanohunter/pkg/routes"
)

// Handler provides HTTP endpoints for analysis and image normalization.
type Handler struct {
	sys           System
	logger        *slog.Logger
	maxUploadSize int64
}

// NewHandler creates a Handler. maxUploadSize bounds each uploaded image.
func NewHandler(sys System, logger *slog.Logger, maxUploadSize int64) *Handler {
	return &Handler{
		sys:           sys,
		logger:        logger.With("handler", "analysis"),
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the route group definition for analysis endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/analyze", Handler: h.Analyze, OpenAPI: docs.Analyze},
			{Method: "POST", Pattern: "/images/normalize", Handler: h.Normalize, OpenAPI: docs.Normalize},
		},
	}
}

// Analyze accepts a multipart upload and returns the recorded history entry.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r) {
		return
	}

	cmd, err := parseCommand(r, h.maxUploadSize)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	entry, err := h.sys.Generate(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, entry)
}

// Normalize returns the normalized JPEG for an uploaded image.
func (h *Handler) Normalize(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r) {
		return
	}

	data, _, err := readImage(r, "image", h.maxUploadSize, true)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	payload, err := h.sys.Normalize(r.Context(), data)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	body := payload.Bytes()
	w.Header().Set("Content-Type", payload.MIMEType)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.Header().Set("X-Image-Width", strconv.Itoa(payload.Width))
	w.Header().Set("X-Image-Height", strconv.Itoa(payload.Height))
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// parseForm caps the request body at two images plus form overhead.
func (h *Handler) parseForm(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 2*h.maxUploadSize+multipartMemory)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, ErrFileTooLarge)
			return false
		}
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: %w", ErrNoImage, err))
		return false
	}
	return true
}
