package episode

import (
	"context"
	"log/slog"

	"github.com/AbdelrahmanYosry2022/sohil-dashboard-sub000/internal/assets"
	"github.com/AbdelrahmanYosry2022/sohil-dashboard-sub000/internal/domain/models"
	"github.com/AbdelrahmanYosry2022/sohil-dashboard-sub000/internal/storage"
)

// AssetManager deletes the uploaded blobs a frame or scene leaves behind.
// Blob deletion is best-effort: failures are logged, never retried, and
// never allowed to block removal of the owning record, since a record the
// UI can no longer reach is worse than a leaked blob.
type AssetManager struct {
	store    storage.BlobStore
	registry *assets.Registry
	logger   *slog.Logger
}

// NewAssetManager creates an asset lifecycle manager.
func NewAssetManager(store storage.BlobStore, registry *assets.Registry, logger *slog.Logger) *AssetManager {
	return &AssetManager{
		store:    store,
		registry: registry,
		logger:   logger,
	}
}

// CleanupFrame requests deletion of every uploaded blob a frame owns: its
// sketch thumbnail when it is not a placeholder, and its final art pair
// when present. The deletes are independent; one failing does not stop
// the others.
func (m *AssetManager) CleanupFrame(ctx context.Context, frame *models.Frame) {
	m.DeleteBlob(ctx, frame.Thumbnail)
	if frame.FinalArtPath != "" {
		m.DeleteBlob(ctx, frame.FinalArtPath)
		if frame.FinalThumbnail != frame.FinalArtPath {
			m.DeleteBlob(ctx, frame.FinalThumbnail)
		}
	}
}

// CleanupScene requests deletion of a scene's uploaded thumbnail.
func (m *AssetManager) CleanupScene(ctx context.Context, scene *models.Scene) {
	m.DeleteBlob(ctx, scene.Thumbnail)
}

// DeleteBlob deletes one stored reference unless it is empty or a bundled
// placeholder. Failures are logged and swallowed.
func (m *AssetManager) DeleteBlob(ctx context.Context, ref string) {
	if m.registry.IsPlaceholder(ref) {
		return
	}
	if err := m.store.Delete(ctx, ref); err != nil {
		m.logger.Warn("blob delete failed", "ref", ref, "error", err)
	}
}
