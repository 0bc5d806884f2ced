package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wos-tracker/events-api/internal/ingest"
)

// UploadPower accepts a power export (playername, power).
func (h *Handler) UploadPower(w http.ResponseWriter, r *http.Request) {
	h.handleUpload(w, r, func(ctx context.Context, file []byte, eventID, phaseID, _ string) ingest.Outcome {
		return h.uploads.IngestPower(ctx, file, eventID, phaseID)
	})
}

// UploadPlayerDetails accepts a details export (playername, allianceranking,
// playerrank, furnacelevel).
func (h *Handler) UploadPlayerDetails(w http.ResponseWriter, r *http.Request) {
	h.handleUpload(w, r, func(ctx context.Context, file []byte, eventID, phaseID, _ string) ingest.Outcome {
		return h.uploads.IngestPlayerDetails(ctx, file, eventID, phaseID)
	})
}

// UploadWorldRanking accepts a world-ranking export. An allianceId form
// value reassigns every player in the file to that alliance.
func (h *Handler) UploadWorldRanking(w http.ResponseWriter, r *http.Request) {
	h.handleUpload(w, r, func(ctx context.Context, file []byte, eventID, phaseID, allianceID string) ingest.Outcome {
		return h.uploads.IngestWorldRanking(ctx, file, eventID, phaseID, allianceID)
	})
}

// UploadCombined accepts a combined export (playername, power,
// allianceranking), with the same optional alliance reassignment.
func (h *Handler) UploadCombined(w http.ResponseWriter, r *http.Request) {
	h.handleUpload(w, r, func(ctx context.Context, file []byte, eventID, phaseID, allianceID string) ingest.Outcome {
		return h.uploads.IngestCombined(ctx, file, eventID, phaseID, allianceID)
	})
}

// handleUpload does the shared multipart plumbing. Upload outcomes travel in
// the body with HTTP 200 whether or not they succeeded; 4xx is reserved for
// requests that are malformed at the HTTP level.
func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request,
	run func(ctx context.Context, file []byte, eventID, phaseID, allianceID string) ingest.Outcome) {

	eventID := chi.URLParam(r, "eventID")
	phaseID := chi.URLParam(r, "phaseID")

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		h.errorResponse(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	allianceID := r.FormValue("allianceId")

	file, _, err := r.FormFile("file")
	if err != nil {
		h.errorResponse(w, http.StatusBadRequest, "Missing file part")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.logger.Errorw("Reading upload body failed", "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to read upload")
		return
	}

	outcome := run(r.Context(), data, eventID, phaseID, allianceID)
	if outcome.Success {
		h.cache.Invalidate(r.Context(), phaseID)
	}
	h.jsonResponse(w, http.StatusOK, outcome)
}
