package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"github.com/wos-tracker/events-api/internal/models"
)

// GetLeaderboard serves a phase leaderboard, cache first.
func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	phaseID := chi.URLParam(r, "phaseID")

	if rows, ok := h.cache.Get(ctx, phaseID); ok {
		h.jsonResponse(w, http.StatusOK, rows)
		return
	}

	rows, err := h.dashboard.PhaseLeaderboard(ctx, phaseID)
	if err != nil {
		h.logger.Errorw("Leaderboard query failed", "phaseId", phaseID, "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to load leaderboard")
		return
	}
	if rows == nil {
		rows = []models.LeaderboardRow{}
	}

	h.cache.Set(ctx, phaseID, rows)
	h.jsonResponse(w, http.StatusOK, rows)
}

// GetExistingData reports whether a phase (optionally one alliance within
// it) already has stat rows.
func (h *Handler) GetExistingData(w http.ResponseWriter, r *http.Request) {
	phaseID := chi.URLParam(r, "phaseID")
	allianceID := r.URL.Query().Get("allianceId")

	check, err := h.dashboard.ExistingData(r.Context(), phaseID, allianceID)
	if err != nil {
		h.logger.Errorw("Existing data check failed", "phaseId", phaseID, "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to check existing data")
		return
	}
	h.jsonResponse(w, http.StatusOK, check)
}

// GetPlayer serves a full player profile.
func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	playerID := chi.URLParam(r, "playerID")

	profile, err := h.dashboard.PlayerProfile(r.Context(), playerID)
	if errors.Is(err, pgx.ErrNoRows) {
		h.errorResponse(w, http.StatusNotFound, "Player not found")
		return
	}
	if err != nil {
		h.logger.Errorw("Player profile query failed", "playerId", playerID, "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to load player")
		return
	}
	h.jsonResponse(w, http.StatusOK, profile)
}

// GetPlayerHistory serves the player's cross-event stat history.
func (h *Handler) GetPlayerHistory(w http.ResponseWriter, r *http.Request) {
	playerID := chi.URLParam(r, "playerID")

	events, err := h.dashboard.PlayerHistory(r.Context(), playerID)
	if err != nil {
		h.logger.Errorw("Player history query failed", "playerId", playerID, "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to load player history")
		return
	}
	if events == nil {
		events = []models.PlayerEventHistory{}
	}
	h.jsonResponse(w, http.StatusOK, events)
}

// ListEvents serves all events with their phases.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.dashboard.ListEvents(r.Context())
	if err != nil {
		h.logger.Errorw("Events query failed", "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to load events")
		return
	}
	if events == nil {
		events = []models.EventWithPhases{}
	}
	h.jsonResponse(w, http.StatusOK, events)
}

// GetEvent serves one event with its phases.
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")

	event, err := h.dashboard.GetEvent(r.Context(), eventID)
	if errors.Is(err, pgx.ErrNoRows) {
		h.errorResponse(w, http.StatusNotFound, "Event not found")
		return
	}
	if err != nil {
		h.logger.Errorw("Event query failed", "eventId", eventID, "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to load event")
		return
	}
	h.jsonResponse(w, http.StatusOK, event)
}

// ListAlliances serves all known alliances.
func (h *Handler) ListAlliances(w http.ResponseWriter, r *http.Request) {
	alliances, err := h.dashboard.ListAlliances(r.Context())
	if err != nil {
		h.logger.Errorw("Alliances query failed", "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to load alliances")
		return
	}
	if alliances == nil {
		alliances = []models.Alliance{}
	}
	h.jsonResponse(w, http.StatusOK, alliances)
}

type deltaRequest struct {
	From string `validate:"required"`
	To   string `validate:"required"`
}

// GetPowerDeltas compares player power between two phases, alias-merged.
func (h *Handler) GetPowerDeltas(w http.ResponseWriter, r *http.Request) {
	req := deltaRequest{
		From: r.URL.Query().Get("from"),
		To:   r.URL.Query().Get("to"),
	}
	if err := h.validator.Struct(req); err != nil {
		h.errorResponse(w, http.StatusBadRequest, "Query parameters 'from' and 'to' are required")
		return
	}

	deltas, err := h.dashboard.PowerDeltas(r.Context(), req.From, req.To)
	if err != nil {
		h.logger.Errorw("Power delta query failed", "from", req.From, "to", req.To, "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to compute deltas")
		return
	}
	if deltas == nil {
		deltas = []models.PowerDelta{}
	}
	h.jsonResponse(w, http.StatusOK, deltas)
}
