package handler

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/AbdelrahmanYosry2022/sohil-dashboard-sub000/internal/assets"
	"github.com/AbdelrahmanYosry2022/sohil-dashboard-sub000/internal/domain"
	"github.com/AbdelrahmanYosry2022/sohil-dashboard-sub000/internal/httputil"
	"github.com/AbdelrahmanYosry2022/sohil-dashboard-sub000/internal/middleware"
	"github.com/AbdelrahmanYosry2022/sohil-dashboard-sub000/internal/storage"
)

// uploadMemoryLimit is the multipart parse threshold; the asset registry
// enforces the real per-kind size cap.
const uploadMemoryLimit = 8 << 20

// AssetHandler handles blob uploads and listing for episode assets.
type AssetHandler struct {
	store    storage.BlobStore
	registry *assets.Registry
	logger   *slog.Logger
}

// NewAssetHandler creates a new asset handler.
func NewAssetHandler(store storage.BlobStore, registry *assets.Registry, logger *slog.Logger) *AssetHandler {
	return &AssetHandler{store: store, registry: registry, logger: logger}
}

// Upload stores one image under episodes/{id}/{assetKind}/{fileName} and
// returns the stored reference plus its retrieval URL. The identity check
// and the size/type constraints run before any storage call.
// POST /api/episodes/{id}/assets/{assetKind}  (multipart field "file")
func (h *AssetHandler) Upload(w http.ResponseWriter, r *http.Request) {
	episodeID := r.PathValue("id")
	assetKind := r.PathValue("assetKind")

	// Uploads need a signed-in identity; fail before touching the network
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		handleError(w, h.logger, &domain.UnauthorizedError{Message: "sign in to upload files"})
		return
	}

	if err := r.ParseMultipartForm(uploadMemoryLimit); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid multipart request")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if err := h.registry.ValidateUpload(assetKind, contentType, header.Size); err != nil {
		handleError(w, h.logger, err)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	objectPath := storage.ObjectPath(episodeID, assetKind, header.Filename)
	ref, err := h.store.Upload(r.Context(), objectPath, contentType, data)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	h.logger.Info("asset uploaded",
		"episode_id", episodeID,
		"asset_kind", assetKind,
		"path", ref,
		"bytes", header.Size,
		"user_id", claims.GetUserID(),
	)

	httputil.RespondJSON(w, http.StatusCreated, map[string]string{
		"path": ref,
		"url":  h.store.URL(ref),
	})
}

// List returns every stored asset reference of an episode.
// GET /api/episodes/{id}/assets
func (h *AssetHandler) List(w http.ResponseWriter, r *http.Request) {
	episodeID := r.PathValue("id")

	paths, err := h.store.List(r.Context(), storage.EpisodePrefix(episodeID))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, paths)
}

// HealthCheck reports liveness.
// GET /health
func (h *AssetHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
