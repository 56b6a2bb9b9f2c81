package handler

import (
	"log/slog"
	"net/http"

	"github.com/AbdelrahmanYosry2022/sohil-dashboard-sub000/internal/domain/models"
	"github.com/AbdelrahmanYosry2022/sohil-dashboard-sub000/internal/httputil"
	"github.com/AbdelrahmanYosry2022/sohil-dashboard-sub000/internal/service/episode"
)

// FrameHandler handles the frame routes of the episode content API.
type FrameHandler struct {
	frames *episode.FrameService
	logger *slog.Logger
}

// NewFrameHandler creates a new frame handler.
func NewFrameHandler(frames *episode.FrameService, logger *slog.Logger) *FrameHandler {
	return &FrameHandler{frames: frames, logger: logger}
}

// ListFrames returns the episode's frames sorted for display.
// GET /api/episodes/{id}/{kind}/frames
func (h *FrameHandler) ListFrames(w http.ResponseWriter, r *http.Request) {
	episodeID, kind, err := episodeScope(r)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	frames, err := h.frames.List(r.Context(), kind, episodeID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, frames)
}

// CreateFrame adds a frame, optionally spliced after a given position.
// POST /api/episodes/{id}/{kind}/frames
func (h *FrameHandler) CreateFrame(w http.ResponseWriter, r *http.Request) {
	episodeID, kind, err := episodeScope(r)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	var req models.CreateFrameRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	frame, err := h.frames.Create(r.Context(), kind, episodeID, &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, frame)
}

// UpdateFrame edits a frame's own fields.
// PATCH /api/episodes/{id}/{kind}/frames/{frameId}
func (h *FrameHandler) UpdateFrame(w http.ResponseWriter, r *http.Request) {
	episodeID, kind, err := episodeScope(r)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	var req models.UpdateFrameRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	frame, err := h.frames.Update(r.Context(), kind, episodeID, r.PathValue("frameId"), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, frame)
}

// MoveFrame repositions a frame, possibly across scenes.
// POST /api/episodes/{id}/{kind}/frames/{frameId}/position
func (h *FrameHandler) MoveFrame(w http.ResponseWriter, r *http.Request) {
	episodeID, kind, err := episodeScope(r)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	var req models.MoveFrameRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	frame, err := h.frames.Move(r.Context(), kind, episodeID, r.PathValue("frameId"), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, frame)
}

// DeleteFrame removes a frame and its uploaded blobs.
// DELETE /api/episodes/{id}/{kind}/frames/{frameId}
func (h *FrameHandler) DeleteFrame(w http.ResponseWriter, r *http.Request) {
	episodeID, kind, err := episodeScope(r)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	if err := h.frames.Delete(r.Context(), kind, episodeID, r.PathValue("frameId")); err != nil {
		handleError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// LinkFinalArt attaches or replaces a frame's final art.
// PUT /api/episodes/{id}/{kind}/frames/{frameId}/final-art
func (h *FrameHandler) LinkFinalArt(w http.ResponseWriter, r *http.Request) {
	episodeID, kind, err := episodeScope(r)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	var req models.LinkFinalArtRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	frame, err := h.frames.LinkFinalArt(r.Context(), kind, episodeID, r.PathValue("frameId"), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, frame)
}

// UnlinkFinalArt returns a frame to sketch-only.
// DELETE /api/episodes/{id}/{kind}/frames/{frameId}/final-art
func (h *FrameHandler) UnlinkFinalArt(w http.ResponseWriter, r *http.Request) {
	episodeID, kind, err := episodeScope(r)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	frame, err := h.frames.UnlinkFinalArt(r.Context(), kind, episodeID, r.PathValue("frameId"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, frame)
}
