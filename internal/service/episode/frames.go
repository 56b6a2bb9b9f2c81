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
)

const defaultFrameDuration = 1.0

// FrameService exposes the frame mutations of the episode view. Every
// mutation is the unit that triggers persistence: load the collection,
// apply the change in memory, renumber the affected scene group, and
// replace the persisted set through the reconciler.
type FrameService struct {
	reconciler *Reconciler
	codecs     map[models.Kind]*content.Codec
	assetMgr   *AssetManager
	registry   *assets.Registry
	logger     *slog.Logger
}

// NewFrameService creates a frame service covering both content kinds.
func NewFrameService(
	reconciler *Reconciler,
	codecs map[models.Kind]*content.Codec,
	assetMgr *AssetManager,
	registry *assets.Registry,
	logger *slog.Logger,
) *FrameService {
	return &FrameService{
		reconciler: reconciler,
		codecs:     codecs,
		assetMgr:   assetMgr,
		registry:   registry,
		logger:     logger,
	}
}

func (s *FrameService) codec(kind models.Kind) (*content.Codec, error) {
	codec, ok := s.codecs[kind]
	if !ok {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("unknown content kind %q", kind)}
	}
	return codec, nil
}

// List returns the episode's frames for one kind, sorted for display.
func (s *FrameService) List(ctx context.Context, kind models.Kind, episodeID string) ([]models.Frame, error) {
	codec, err := s.codec(kind)
	if err != nil {
		return nil, err
	}
	return s.reconciler.LoadFrames(ctx, codec, episodeID)
}

// Create adds a frame, splices it at the requested insert-after position
// (appending when none is given), renumbers its scene group, and persists
// the collection.
func (s *FrameService) Create(ctx context.Context, kind models.Kind, episodeID string, req *models.CreateFrameRequest) (*models.Frame, error) {
	codec, err := s.codec(kind)
	if err != nil {
		return nil, err
	}
	if err := validateCreateFrame(req); err != nil {
		return nil, &domain.ValidationError{Message: err.Error()}
	}

	sceneName := ""
	if req.SceneID != "" {
		folders, err := s.reconciler.LoadFolders(ctx, codec, episodeID)
		if err != nil {
			return nil, err
		}
		name, ok := findSceneName(folders, req.SceneID)
		if !ok {
			return nil, &domain.NotFoundError{Message: fmt.Sprintf("scene %s not found", req.SceneID)}
		}
		sceneName = name
	}

	frames, err := s.reconciler.LoadFrames(ctx, codec, episodeID)
	if err != nil {
		return nil, err
	}

	sketch, _ := s.registry.Get(assets.KindSketch)
	frame := models.Frame{
		FrameID:     uuid.NewString(),
		Description: req.Description,
		Thumbnail:   req.Thumbnail,
		Duration:    req.Duration,
		Notes:       req.Notes,
		SceneID:     req.SceneID,
	}
	if frame.Thumbnail == "" && sketch != nil {
		frame.Thumbnail = sketch.Placeholder
	}
	if frame.Duration <= 0 {
		frame.Duration = defaultFrameDuration
	}

	frames = Splice(frames, frame, req.InsertAfter)
	seedOrder(frames, frame.FrameID)

	if frame.SceneID != "" {
		frames = Renumber(frames, frame.SceneID, sceneName)
	} else {
		frames = RenumberUnassigned(frames)
	}

	idx, _ := findFrame(frames, frame.FrameID)
	if frames[idx].Title == "" {
		// Unassigned frames get no derived scene title; seed a plain one
		frames[idx].Title = fmt.Sprintf("Frame %02d", frames[idx].Order)
	}

	if err := s.reconciler.SaveFrames(ctx, codec, episodeID, frames); err != nil {
		return nil, err
	}

	created := frames[idx]
	s.logger.Info("frame created",
		"episode_id", episodeID,
		"kind", kind,
		"frame_id", created.FrameID,
		"scene_id", created.SceneID,
		"order", created.Order,
	)
	return &created, nil
}

// Update edits a frame's own fields. Scene membership and position go
// through Move; final art goes through LinkFinalArt/UnlinkFinalArt.
func (s *FrameService) Update(ctx context.Context, kind models.Kind, episodeID, frameID string, req *models.UpdateFrameRequest) (*models.Frame, error) {
	codec, err := s.codec(kind)
	if err != nil {
		return nil, err
	}
	if err := validateUpdateFrame(req); err != nil {
		return nil, &domain.ValidationError{Message: err.Error()}
	}

	frames, err := s.reconciler.LoadFrames(ctx, codec, episodeID)
	if err != nil {
		return nil, err
	}

	idx, ok := findFrame(frames, frameID)
	if !ok {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("frame %s not found", frameID)}
	}

	frame := &frames[idx]
	if req.Description != nil {
		frame.Description = *req.Description
	}
	if req.Duration != nil {
		frame.Duration = *req.Duration
	}
	if req.Notes != nil {
		frame.Notes = *req.Notes
	}
	if req.Thumbnail != nil && *req.Thumbnail != frame.Thumbnail {
		// Replacing the sketch drops the old upload so it cannot leak
		s.assetMgr.DeleteBlob(ctx, frame.Thumbnail)
		frame.Thumbnail = *req.Thumbnail
	}

	if err := s.reconciler.SaveFrames(ctx, codec, episodeID, frames); err != nil {
		return nil, err
	}

	updated := frames[idx]
	return &updated, nil
}

// Move repositions a frame, possibly across scenes. Both the group it
// left and the group it joined are renumbered before the collection is
// persisted.
func (s *FrameService) Move(ctx context.Context, kind models.Kind, episodeID, frameID string, req *models.MoveFrameRequest) (*models.Frame, error) {
	codec, err := s.codec(kind)
	if err != nil {
		return nil, err
	}
	if req.AfterFrameID == frameID {
		return nil, &domain.ValidationError{Message: "a frame cannot be positioned after itself"}
	}

	frames, err := s.reconciler.LoadFrames(ctx, codec, episodeID)
	if err != nil {
		return nil, err
	}

	idx, ok := findFrame(frames, frameID)
	if !ok {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("frame %s not found", frameID)}
	}

	folders, err := s.reconciler.LoadFolders(ctx, codec, episodeID)
	if err != nil {
		return nil, err
	}

	targetSceneName := ""
	if req.SceneID != "" {
		name, ok := findSceneName(folders, req.SceneID)
		if !ok {
			return nil, &domain.NotFoundError{Message: fmt.Sprintf("scene %s not found", req.SceneID)}
		}
		targetSceneName = name
	}

	frame := frames[idx]
	oldSceneID := frame.SceneID
	frames = append(frames[:idx], frames[idx+1:]...)

	frame.SceneID = req.SceneID
	var after *int
	if req.AfterFrameID != "" {
		targetIdx, ok := findFrame(frames, req.AfterFrameID)
		if !ok {
			return nil, &domain.NotFoundError{Message: fmt.Sprintf("frame %s not found", req.AfterFrameID)}
		}
		after = &targetIdx
	} else {
		// No anchor: place at the head of the list so the frame becomes
		// the first ordinal of its target group
		front := -1
		after = &front
	}
	frames = Splice(frames, frame, after)
	seedOrder(frames, frame.FrameID)

	frames = s.renumberGroup(frames, folders, req.SceneID, targetSceneName)
	if oldSceneID != req.SceneID {
		oldName, okOld := findSceneName(folders, oldSceneID)
		if oldSceneID == "" {
			frames = RenumberUnassigned(frames)
		} else if okOld {
			frames = Renumber(frames, oldSceneID, oldName)
		} else {
			frames = renumberOrders(frames, oldSceneID)
		}
	}

	if err := s.reconciler.SaveFrames(ctx, codec, episodeID, frames); err != nil {
		return nil, err
	}

	movedIdx, _ := findFrame(frames, frameID)
	moved := frames[movedIdx]
	return &moved, nil
}

// Delete removes a frame, requests deletion of its uploaded blobs, and
// persists the reduced, renumbered collection. Blob cleanup runs first
// but never blocks record removal.
func (s *FrameService) Delete(ctx context.Context, kind models.Kind, episodeID, frameID string) error {
	codec, err := s.codec(kind)
	if err != nil {
		return err
	}

	frames, err := s.reconciler.LoadFrames(ctx, codec, episodeID)
	if err != nil {
		return err
	}

	idx, ok := findFrame(frames, frameID)
	if !ok {
		return &domain.NotFoundError{Message: fmt.Sprintf("frame %s not found", frameID)}
	}

	frame := frames[idx]
	s.assetMgr.CleanupFrame(ctx, &frame)

	frames = append(frames[:idx], frames[idx+1:]...)

	if frame.SceneID == "" {
		frames = RenumberUnassigned(frames)
	} else {
		folders, err := s.reconciler.LoadFolders(ctx, codec, episodeID)
		if err != nil {
			return err
		}
		if name, ok := findSceneName(folders, frame.SceneID); ok {
			frames = Renumber(frames, frame.SceneID, name)
		} else {
			frames = renumberOrders(frames, frame.SceneID)
		}
	}

	if err := s.reconciler.SaveFrames(ctx, codec, episodeID, frames); err != nil {
		return err
	}

	s.logger.Info("frame deleted",
		"episode_id", episodeID,
		"kind", kind,
		"frame_id", frameID,
	)
	return nil
}

// LinkFinalArt attaches (or replaces) a frame's final art. Replacing
// deletes the previously linked blob exactly once so storage does not
// leak; the frame ends Finalized either way.
func (s *FrameService) LinkFinalArt(ctx context.Context, kind models.Kind, episodeID, frameID string, req *models.LinkFinalArtRequest) (*models.Frame, error) {
	codec, err := s.codec(kind)
	if err != nil {
		return nil, err
	}
	if err := validation.Validate(req.Path, validation.Required); err != nil {
		return nil, &domain.ValidationError{Message: "final art path is required"}
	}

	frames, err := s.reconciler.LoadFrames(ctx, codec, episodeID)
	if err != nil {
		return nil, err
	}

	idx, ok := findFrame(frames, frameID)
	if !ok {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("frame %s not found", frameID)}
	}

	frame := &frames[idx]
	prevArt := frame.FinalArtPath
	prevThumb := frame.FinalThumbnail

	frame.FinalArtPath = req.Path
	frame.FinalThumbnail = req.Thumbnail
	if frame.FinalThumbnail == "" {
		frame.FinalThumbnail = req.Path
	}

	if prevArt != "" && prevArt != frame.FinalArtPath {
		s.assetMgr.DeleteBlob(ctx, prevArt)
		if prevThumb != prevArt && prevThumb != frame.FinalThumbnail {
			s.assetMgr.DeleteBlob(ctx, prevThumb)
		}
	}

	if err := s.reconciler.SaveFrames(ctx, codec, episodeID, frames); err != nil {
		return nil, err
	}

	linked := frames[idx]
	s.logger.Info("final art linked",
		"episode_id", episodeID,
		"kind", kind,
		"frame_id", frameID,
		"replaced", prevArt != "",
	)
	return &linked, nil
}

// UnlinkFinalArt moves a frame back to sketch-only, deleting the orphaned
// final art blobs.
func (s *FrameService) UnlinkFinalArt(ctx context.Context, kind models.Kind, episodeID, frameID string) (*models.Frame, error) {
	codec, err := s.codec(kind)
	if err != nil {
		return nil, err
	}

	frames, err := s.reconciler.LoadFrames(ctx, codec, episodeID)
	if err != nil {
		return nil, err
	}

	idx, ok := findFrame(frames, frameID)
	if !ok {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("frame %s not found", frameID)}
	}

	frame := &frames[idx]
	if frame.FinalArtPath != "" {
		s.assetMgr.DeleteBlob(ctx, frame.FinalArtPath)
		if frame.FinalThumbnail != frame.FinalArtPath {
			s.assetMgr.DeleteBlob(ctx, frame.FinalThumbnail)
		}
	}
	frame.FinalArtPath = ""
	frame.FinalThumbnail = ""

	if err := s.reconciler.SaveFrames(ctx, codec, episodeID, frames); err != nil {
		return nil, err
	}

	unlinked := frames[idx]
	return &unlinked, nil
}

// renumberGroup renumbers one scene group, falling back to ordinals-only
// when the scene is unknown.
func (s *FrameService) renumberGroup(frames []models.Frame, folders []models.Folder, sceneID, sceneName string) []models.Frame {
	if sceneID == "" {
		return RenumberUnassigned(frames)
	}
	if sceneName == "" {
		if name, ok := findSceneName(folders, sceneID); ok {
			sceneName = name
		} else {
			return renumberOrders(frames, sceneID)
		}
	}
	return Renumber(frames, sceneID, sceneName)
}

// findFrame locates a frame by its stable frame id.
func findFrame(frames []models.Frame, frameID string) (int, bool) {
	for i := range frames {
		if frames[i].FrameID == frameID {
			return i, true
		}
	}
	return 0, false
}

// findSceneName resolves a scene id to its display title across all folders.
func findSceneName(folders []models.Folder, sceneID string) (string, bool) {
	for i := range folders {
		for j := range folders[i].Scenes {
			if folders[i].Scenes[j].ID == sceneID {
				return folders[i].Scenes[j].Title, true
			}
		}
	}
	return "", false
}

// seedOrder gives a just-spliced frame an order that ties it to the
// nearest preceding frame of its own group, so the stable renumber sort
// keeps it at the spliced position instead of jumping it to the front.
func seedOrder(frames []models.Frame, frameID string) {
	idx, ok := findFrame(frames, frameID)
	if !ok {
		return
	}
	frames[idx].Order = 0
	for i := idx - 1; i >= 0; i-- {
		if frames[i].SceneID == frames[idx].SceneID {
			frames[idx].Order = frames[i].Order
			return
		}
	}
}

func validateCreateFrame(req *models.CreateFrameRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Duration, validation.Min(0.0)),
		validation.Field(&req.Description, validation.Length(0, 2000)),
		validation.Field(&req.Notes, validation.Length(0, 2000)),
	)
}

func validateUpdateFrame(req *models.UpdateFrameRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Duration, validation.Min(0.0).Exclusive()),
		validation.Field(&req.Description, validation.Length(0, 2000)),
		validation.Field(&req.Notes, validation.Length(0, 2000)),
	)
}
