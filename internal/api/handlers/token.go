package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/openlobby/registry/internal/models"
	"github.com/openlobby/registry/internal/service"
)

// FastTokenHandler handles fast-join code requests
type FastTokenHandler struct {
	tokens *service.FastTokenService
	logger *slog.Logger
}

// NewFastTokenHandler creates a new FastTokenHandler
func NewFastTokenHandler(tokens *service.FastTokenService, logger *slog.Logger) *FastTokenHandler {
	return &FastTokenHandler{
		tokens: tokens,
		logger: logger,
	}
}

// Add handles POST /v1/token
func (h *FastTokenHandler) Add(w http.ResponseWriter, r *http.Request) {
	ownerToken := r.Header.Get("token")
	if ownerToken == "" {
		w.WriteHeader(http.StatusForbidden)
		return
	}

	var req models.FastTokenAddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(r.Context(), "Invalid fast token body", "error", err)
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	token, err := h.tokens.Mint(r.Context(), ownerToken, req.Game, req.Lobby)
	if err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			h.logger.WarnContext(r.Context(), "Fast token rejected, unknown publish token")
			w.WriteHeader(http.StatusForbidden)
			return
		}
		h.logger.ErrorContext(r.Context(), "Failed to mint fast token", "game", req.Game, "error", err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, models.FastTokenAddResponse{Token: token.Code})
}

// Fetch handles GET /v1/token/{code}
func (h *FastTokenHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	resolved, err := h.tokens.Resolve(r.Context(), r.PathValue("code"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(r.Context(), "Failed to resolve fast token", "error", err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, resolved)
}
