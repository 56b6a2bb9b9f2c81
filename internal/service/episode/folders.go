package episode

import (
	"context"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/AbdelrahmanYosry2022/sohil-dashboard-sub000/internal/assets"
	"github.com/AbdelrahmanYosry2022/sohil-dashboard-sub000/internal/content"
	"github.com/AbdelrahmanYosry2022/sohil-dashboard-sub000/internal/domain"
	"github.com/AbdelrahmanYosry2022/sohil-dashboard-sub000/internal/domain/models"
	"github.com/AbdelrahmanYosry2022/sohil-dashboard-sub000/internal/domain/repositories"
)

// FolderService manages the nested folders document of an episode: the
// folder list, the scenes embedded in each folder, and the cascades onto
// frames that reference deleted scenes. Frames live in separate records
// with no store-enforced link to scenes, so every cascade here is manual.
type FolderService struct {
	reconciler *Reconciler
	codecs     map[models.Kind]*content.Codec
	assetMgr   *AssetManager
	registry   *assets.Registry
	txManager  repositories.TransactionManager
	logger     *slog.Logger
}

// NewFolderService creates a folder service covering both content kinds.
func NewFolderService(
	reconciler *Reconciler,
	codecs map[models.Kind]*content.Codec,
	assetMgr *AssetManager,
	registry *assets.Registry,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) *FolderService {
	return &FolderService{
		reconciler: reconciler,
		codecs:     codecs,
		assetMgr:   assetMgr,
		registry:   registry,
		txManager:  txManager,
		logger:     logger,
	}
}

func (s *FolderService) codec(kind models.Kind) (*content.Codec, error) {
	codec, ok := s.codecs[kind]
	if !ok {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("unknown content kind %q", kind)}
	}
	return codec, nil
}

// List returns the episode's folders for one kind.
func (s *FolderService) List(ctx context.Context, kind models.Kind, episodeID string) ([]models.Folder, error) {
	codec, err := s.codec(kind)
	if err != nil {
		return nil, err
	}
	return s.reconciler.LoadFolders(ctx, codec, episodeID)
}

// CreateFolder appends a folder and persists the folders document.
func (s *FolderService) CreateFolder(ctx context.Context, kind models.Kind, episodeID string, req *models.CreateFolderRequest) (*models.Folder, error) {
	codec, err := s.codec(kind)
	if err != nil {
		return nil, err
	}
	if err := validateFolderName(req.Name); err != nil {
		return nil, &domain.ValidationError{Message: err.Error()}
	}

	folders, err := s.reconciler.LoadFolders(ctx, codec, episodeID)
	if err != nil {
		return nil, err
	}

	for i := range folders {
		if folders[i].Name == req.Name {
			return nil, fmt.Errorf("folder %q: %w", req.Name, domain.ErrConflict)
		}
	}

	folder := models.Folder{
		ID:     uuid.NewString(),
		Name:   req.Name,
		Scenes: []models.Scene{},
	}
	folders = append(folders, folder)

	if err := s.reconciler.SaveFolders(ctx, codec, episodeID, folders); err != nil {
		return nil, err
	}

	s.logger.Info("folder created",
		"episode_id", episodeID,
		"kind", kind,
		"folder_id", folder.ID,
		"name", folder.Name,
	)
	return &folder, nil
}

// RenameFolder renames a folder. Scene titles, and therefore frame
// titles, are independent of the folder name and stay untouched.
func (s *FolderService) RenameFolder(ctx context.Context, kind models.Kind, episodeID, folderID string, req *models.UpdateFolderRequest) (*models.Folder, error) {
	codec, err := s.codec(kind)
	if err != nil {
		return nil, err
	}
	if err := validateFolderName(req.Name); err != nil {
		return nil, &domain.ValidationError{Message: err.Error()}
	}

	folders, err := s.reconciler.LoadFolders(ctx, codec, episodeID)
	if err != nil {
		return nil, err
	}

	idx, ok := findFolder(folders, folderID)
	if !ok {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("folder %s not found", folderID)}
	}
	folders[idx].Name = req.Name

	if err := s.reconciler.SaveFolders(ctx, codec, episodeID, folders); err != nil {
		return nil, err
	}

	renamed := folders[idx]
	return &renamed, nil
}

// DeleteFolder removes a folder with every scene nested inside it and
// cascades onto the frames referencing those scenes: their blobs are
// requested for deletion and the reduced frame collection persists in the
// same transaction as the shrunken folders document.
func (s *FolderService) DeleteFolder(ctx context.Context, kind models.Kind, episodeID, folderID string) error {
	codec, err := s.codec(kind)
	if err != nil {
		return err
	}

	folders, err := s.reconciler.LoadFolders(ctx, codec, episodeID)
	if err != nil {
		return err
	}

	idx, ok := findFolder(folders, folderID)
	if !ok {
		return &domain.NotFoundError{Message: fmt.Sprintf("folder %s not found", folderID)}
	}

	folder := folders[idx]
	doomed := make(map[string]bool, len(folder.Scenes))
	for i := range folder.Scenes {
		doomed[folder.Scenes[i].ID] = true
	}

	frames, err := s.reconciler.LoadFrames(ctx, codec, episodeID)
	if err != nil {
		return err
	}

	kept := make([]models.Frame, 0, len(frames))
	removed := 0
	for _, f := range frames {
		if f.SceneID != "" && doomed[f.SceneID] {
			s.assetMgr.CleanupFrame(ctx, &f)
			removed++
			continue
		}
		kept = append(kept, f)
	}
	for i := range folder.Scenes {
		s.assetMgr.CleanupScene(ctx, &folder.Scenes[i])
	}

	folders = append(folders[:idx], folders[idx+1:]...)

	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		if removed > 0 {
			if err := s.reconciler.SaveFrames(ctx, codec, episodeID, kept); err != nil {
				return err
			}
		}
		return s.reconciler.SaveFolders(ctx, codec, episodeID, folders)
	})
	if err != nil {
		return err
	}

	s.logger.Info("folder deleted",
		"episode_id", episodeID,
		"kind", kind,
		"folder_id", folderID,
		"scenes", len(folder.Scenes),
		"frames_removed", removed,
	)
	return nil
}

// AddScene appends a scene to a folder and persists the folders document.
func (s *FolderService) AddScene(ctx context.Context, kind models.Kind, episodeID, folderID string, req *models.CreateSceneRequest) (*models.Scene, error) {
	codec, err := s.codec(kind)
	if err != nil {
		return nil, err
	}
	if err := validateSceneTitle(req.Title); err != nil {
		return nil, &domain.ValidationError{Message: err.Error()}
	}

	folders, err := s.reconciler.LoadFolders(ctx, codec, episodeID)
	if err != nil {
		return nil, err
	}

	idx, ok := findFolder(folders, folderID)
	if !ok {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("folder %s not found", folderID)}
	}

	thumb, _ := s.registry.Get(assets.KindSceneThumb)
	scene := models.Scene{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Thumbnail:   req.Thumbnail,
		Description: req.Description,
	}
	if scene.Thumbnail == "" && thumb != nil {
		scene.Thumbnail = thumb.Placeholder
	}
	folders[idx].Scenes = append(folders[idx].Scenes, scene)

	if err := s.reconciler.SaveFolders(ctx, codec, episodeID, folders); err != nil {
		return nil, err
	}

	s.logger.Info("scene created",
		"episode_id", episodeID,
		"kind", kind,
		"folder_id", folderID,
		"scene_id", scene.ID,
	)
	return &scene, nil
}

// UpdateScene edits a scene. A title change cascades into the derived
// titles of every frame in the scene, so the frame collection re-saves in
// the same transaction as the folders document.
func (s *FolderService) UpdateScene(ctx context.Context, kind models.Kind, episodeID, sceneID string, req *models.UpdateSceneRequest) (*models.Scene, error) {
	codec, err := s.codec(kind)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		if err := validateSceneTitle(*req.Title); err != nil {
			return nil, &domain.ValidationError{Message: err.Error()}
		}
	}

	folders, err := s.reconciler.LoadFolders(ctx, codec, episodeID)
	if err != nil {
		return nil, err
	}

	fIdx, sIdx, ok := findScene(folders, sceneID)
	if !ok {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("scene %s not found", sceneID)}
	}

	scene := &folders[fIdx].Scenes[sIdx]
	retitled := false
	if req.Title != nil && *req.Title != scene.Title {
		scene.Title = *req.Title
		retitled = true
	}
	if req.Description != nil {
		scene.Description = *req.Description
	}
	if req.Thumbnail != nil && *req.Thumbnail != scene.Thumbnail {
		s.assetMgr.DeleteBlob(ctx, scene.Thumbnail)
		scene.Thumbnail = *req.Thumbnail
	}

	var frames []models.Frame
	if retitled {
		frames, err = s.reconciler.LoadFrames(ctx, codec, episodeID)
		if err != nil {
			return nil, err
		}
		frames = Renumber(frames, sceneID, scene.Title)
	}

	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		if retitled {
			if err := s.reconciler.SaveFrames(ctx, codec, episodeID, frames); err != nil {
				return err
			}
		}
		return s.reconciler.SaveFolders(ctx, codec, episodeID, folders)
	})
	if err != nil {
		return nil, err
	}

	updated := folders[fIdx].Scenes[sIdx]
	return &updated, nil
}

// DeleteScene removes a scene from its owning folder and cascades onto
// the frames referencing it: per-frame blob cleanup, removal from the
// collection, then the reduced frame set and the updated folders document
// persist together.
func (s *FolderService) DeleteScene(ctx context.Context, kind models.Kind, episodeID, sceneID string) error {
	codec, err := s.codec(kind)
	if err != nil {
		return err
	}

	folders, err := s.reconciler.LoadFolders(ctx, codec, episodeID)
	if err != nil {
		return err
	}

	fIdx, sIdx, ok := findScene(folders, sceneID)
	if !ok {
		return &domain.NotFoundError{Message: fmt.Sprintf("scene %s not found", sceneID)}
	}

	frames, err := s.reconciler.LoadFrames(ctx, codec, episodeID)
	if err != nil {
		return err
	}

	kept := make([]models.Frame, 0, len(frames))
	removed := 0
	for _, f := range frames {
		if f.SceneID == sceneID {
			s.assetMgr.CleanupFrame(ctx, &f)
			removed++
			continue
		}
		kept = append(kept, f)
	}

	scene := folders[fIdx].Scenes[sIdx]
	s.assetMgr.CleanupScene(ctx, &scene)
	folders[fIdx].Scenes = append(folders[fIdx].Scenes[:sIdx], folders[fIdx].Scenes[sIdx+1:]...)

	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		if err := s.reconciler.SaveFrames(ctx, codec, episodeID, kept); err != nil {
			return err
		}
		return s.reconciler.SaveFolders(ctx, codec, episodeID, folders)
	})
	if err != nil {
		return err
	}

	s.logger.Info("scene deleted",
		"episode_id", episodeID,
		"kind", kind,
		"scene_id", sceneID,
		"frames_removed", removed,
	)
	return nil
}

// findFolder locates a folder by id.
func findFolder(folders []models.Folder, folderID string) (int, bool) {
	for i := range folders {
		if folders[i].ID == folderID {
			return i, true
		}
	}
	return 0, false
}

// findScene locates a scene by id across all folders.
func findScene(folders []models.Folder, sceneID string) (folderIdx, sceneIdx int, ok bool) {
	for i := range folders {
		for j := range folders[i].Scenes {
			if folders[i].Scenes[j].ID == sceneID {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}

func validateFolderName(name string) error {
	return validation.Validate(name,
		validation.Required,
		validation.Length(1, 120),
	)
}

func validateSceneTitle(title string) error {
	return validation.Validate(title,
		validation.Required,
		validation.Length(1, 200),
	)
}
