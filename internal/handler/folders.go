package handler

import (
	"log/slog"
	"net/http"

	"github.com/AbdelrahmanYosry2022/sohil-dashboard-sub000/internal/domain/models"
	"github.com/AbdelrahmanYosry2022/sohil-dashboard-sub000/internal/httputil"
	"github.com/AbdelrahmanYosry2022/sohil-dashboard-sub000/internal/service/episode"
)

// FolderHandler handles the folder and scene routes of the episode
// content API.
type FolderHandler struct {
	folders *episode.FolderService
	logger  *slog.Logger
}

// NewFolderHandler creates a new folder handler.
func NewFolderHandler(folders *episode.FolderService, logger *slog.Logger) *FolderHandler {
	return &FolderHandler{folders: folders, logger: logger}
}

// ListFolders returns the episode's folders with their nested scenes.
// GET /api/episodes/{id}/{kind}/folders
func (h *FolderHandler) ListFolders(w http.ResponseWriter, r *http.Request) {
	episodeID, kind, err := episodeScope(r)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	folders, err := h.folders.List(r.Context(), kind, episodeID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, folders)
}

// CreateFolder adds a folder.
// POST /api/episodes/{id}/{kind}/folders
func (h *FolderHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	episodeID, kind, err := episodeScope(r)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	var req models.CreateFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	folder, err := h.folders.CreateFolder(r.Context(), kind, episodeID, &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, folder)
}

// RenameFolder renames a folder.
// PATCH /api/episodes/{id}/{kind}/folders/{folderId}
func (h *FolderHandler) RenameFolder(w http.ResponseWriter, r *http.Request) {
	episodeID, kind, err := episodeScope(r)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	var req models.UpdateFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	folder, err := h.folders.RenameFolder(r.Context(), kind, episodeID, r.PathValue("folderId"), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, folder)
}

// DeleteFolder removes a folder, its scenes, and every frame referencing
// those scenes.
// DELETE /api/episodes/{id}/{kind}/folders/{folderId}
func (h *FolderHandler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	episodeID, kind, err := episodeScope(r)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	if err := h.folders.DeleteFolder(r.Context(), kind, episodeID, r.PathValue("folderId")); err != nil {
		handleError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreateScene adds a scene to a folder.
// POST /api/episodes/{id}/{kind}/folders/{folderId}/scenes
func (h *FolderHandler) CreateScene(w http.ResponseWriter, r *http.Request) {
	episodeID, kind, err := episodeScope(r)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	var req models.CreateSceneRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	scene, err := h.folders.AddScene(r.Context(), kind, episodeID, r.PathValue("folderId"), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, scene)
}

// UpdateScene edits a scene; a title change retitles its frames.
// PATCH /api/episodes/{id}/{kind}/scenes/{sceneId}
func (h *FolderHandler) UpdateScene(w http.ResponseWriter, r *http.Request) {
	episodeID, kind, err := episodeScope(r)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	var req models.UpdateSceneRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	scene, err := h.folders.UpdateScene(r.Context(), kind, episodeID, r.PathValue("sceneId"), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, scene)
}

// DeleteScene removes a scene and cascades onto its frames.
// DELETE /api/episodes/{id}/{kind}/scenes/{sceneId}
func (h *FolderHandler) DeleteScene(w http.ResponseWriter, r *http.Request) {
	episodeID, kind, err := episodeScope(r)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	if err := h.folders.DeleteScene(r.Context(), kind, episodeID, r.PathValue("sceneId")); err != nil {
		handleError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
