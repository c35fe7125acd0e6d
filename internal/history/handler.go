package history

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/nanohunter/pkg/handlers"
	"github.com/JaimeStill/nanohunter/pkg/routes"
)

// RestoreNote accompanies restored entries because the source image is never kept.
const RestoreNote = "restored from history; the source image is not included"

// Handler provides HTTP endpoints for the history ledger.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// RestoreResponse carries a restored entry and a reminder that the image is gone.
type RestoreResponse struct {
	Entry Entry  `json:"entry"`
	Note  string `json:"note"`
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "history"),
	}
}

// Routes returns the route group definition for history endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:  "/history",
		Tags:    []string{"History"},
		Schemas: docs.Schemas,
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List, OpenAPI: docs.List},
			{Method: "DELETE", Pattern: "", Handler: h.Clear, OpenAPI: docs.Clear},
			{Method: "GET", Pattern: "/{id}", Handler: h.Restore, OpenAPI: docs.Restore},
			{Method: "GET", Pattern: "/{id}/download", Handler: h.Download, OpenAPI: docs.Download},
		},
	}
}

// List returns all entries, newest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, h.sys.Entries())
}

// Restore returns a single entry for rehydrating client state.
func (h *Handler) Restore(w http.ResponseWriter, r *http.Request) {
	entry, err := h.sys.Find(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, RestoreResponse{
		Entry: Restore(entry),
		Note:  RestoreNote,
	})
}

// Download returns the primary or secondary prompt as a text attachment.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	entry, err := h.sys.Find(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	lang := r.URL.Query().Get("lang")
	text, err := entry.Prompt(lang)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	if lang == "" {
		lang = "primary"
	}

	filename := fmt.Sprintf("nanohunter-%s-%s.txt", entry.ID, lang)
	handlers.RespondAttachment(w, filename, "text/plain; charset=utf-8", []byte(text))
}

// Clear removes every entry and the persisted key.
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.sys.Clear(r.Context()); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
