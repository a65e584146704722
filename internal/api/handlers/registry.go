package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/openlobby/registry/internal/auth"
	"github.com/openlobby/registry/internal/models"
	"github.com/openlobby/registry/internal/service"
)

// RegistryHandler handles publish and registry view requests
type RegistryHandler struct {
	registry  *service.RegistryService
	allowlist *auth.Allowlist
	logger    *slog.Logger
}

// NewRegistryHandler creates a new RegistryHandler
func NewRegistryHandler(registry *service.RegistryService, allowlist *auth.Allowlist, logger *slog.Logger) *RegistryHandler {
	return &RegistryHandler{
		registry:  registry,
		allowlist: allowlist,
		logger:    logger,
	}
}

// Update handles POST /v1/update
func (h *RegistryHandler) Update(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get("token")
	if token == "" || !h.allowlist.Contains(token) {
		h.logger.WarnContext(r.Context(), "Publish rejected, token not authorized")
		w.WriteHeader(http.StatusForbidden)
		return
	}

	var snapshot models.GameServerInfo
	if err := json.NewDecoder(r.Body).Decode(&snapshot); err != nil {
		h.logger.WarnContext(r.Context(), "Invalid publish body", "error", err)
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	view, err := h.registry.Publish(r.Context(), token, &snapshot)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to publish server state", "name", snapshot.Name, "error", err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.logger.InfoContext(r.Context(), "Server state published", "id", view.ID, "name", snapshot.Name, "games", len(snapshot.Games))
	respondJSON(w, http.StatusOK, models.UpdateResponse{ID: view.ID})
}

// List handles GET /v1/list
func (h *RegistryHandler) List(w http.ResponseWriter, r *http.Request) {
	servers, err := h.registry.List(r.Context(),
		queryFlag(r, "include-dev"),
		queryFlag(r, "include-fallback"),
		queryFlag(r, "exclude-full"),
	)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to list servers", "error", err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, servers)
}

// Info handles GET /v1/info/{server_id}
func (h *RegistryHandler) Info(w http.ResponseWriter, r *http.Request) {
	id, err := models.ParseID(r.PathValue("server_id"))
	if err != nil {
		// Malformed ids are indistinguishable from unknown ones.
		w.WriteHeader(http.StatusNotFound)
		return
	}

	view, err := h.registry.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(r.Context(), "Failed to get server", "id", r.PathValue("server_id"), "error", err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, view)
}

// queryFlag reads a boolean query parameter. Bare presence counts as true,
// so /v1/list?include-dev works the same as ?include-dev=true.
func queryFlag(r *http.Request, name string) bool {
	if !r.URL.Query().Has(name) {
		return false
	}
	value := r.URL.Query().Get(name)
	return value != "false" && value != "0"
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
