package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/openlobby/registry/internal/models"
	"github.com/openlobby/registry/internal/service"
)

// MatchmakingHandler handles server selection requests
type MatchmakingHandler struct {
	matchmaker *service.MatchmakingService
	logger     *slog.Logger
}

// NewMatchmakingHandler creates a new MatchmakingHandler
func NewMatchmakingHandler(matchmaker *service.MatchmakingService, logger *slog.Logger) *MatchmakingHandler {
	return &MatchmakingHandler{
		matchmaker: matchmaker,
		logger:     logger,
	}
}

// NewGet handles GET /v1/new
func (h *MatchmakingHandler) NewGet(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	req := models.NewRequest{
		Game:      query.Get("game"),
		Developer: queryFlag(r, "developer"),
	}
	if query.Has("fallback") {
		fallback := queryFlag(r, "fallback")
		req.Fallback = &fallback
	}
	// ignore accepts both repeated parameters and comma-separated lists.
	for _, raw := range query["ignore"] {
		for _, id := range strings.Split(raw, ",") {
			if id != "" {
				req.Ignore = append(req.Ignore, id)
			}
		}
	}

	h.find(w, r, &req)
}

// NewPost handles POST /v1/new
func (h *MatchmakingHandler) NewPost(w http.ResponseWriter, r *http.Request) {
	var req models.NewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(r.Context(), "Invalid matchmaking body", "error", err)
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	h.find(w, r, &req)
}

func (h *MatchmakingHandler) find(w http.ResponseWriter, r *http.Request, req *models.NewRequest) {
	if req.Game == "" {
		respondError(w, http.StatusBadRequest, "game is required")
		return
	}

	match, err := h.matchmaker.Find(r.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrNoMatch) {
			h.logger.InfoContext(r.Context(), "No server available",
				"game", req.Game, "developer", req.Developer, "fallback", req.AllowFallback())
			w.WriteHeader(http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(r.Context(), "Matchmaking failed", "game", req.Game, "error", err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.logger.InfoContext(r.Context(), "Server matched", "game", req.Game, "id", match.ID)
	respondJSON(w, http.StatusOK, match)
}
