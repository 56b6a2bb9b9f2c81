package models

// Frame is one sketch frame of an episode, belonging to at most one scene.
// Order is unique and contiguous within the set of frames sharing a SceneID;
// the renumbering engine maintains that invariant, storage does not.
type Frame struct {
	ID             string  `json:"id"`                  // record id of the backing row, refreshed on every save
	FrameID        string  `json:"frame_id"`            // stable external-facing id, survives re-saves
	Title          string  `json:"title"`               // derived: "{scene} - Frame {NN}" for assigned frames
	Description    string  `json:"description"`
	Thumbnail      string  `json:"thumbnail"`           // sketch image reference, placeholder until uploaded
	FinalArtPath   string  `json:"final_art_path"`      // empty while the frame is sketch-only
	FinalThumbnail string  `json:"final_thumbnail"`
	Duration       float64 `json:"duration"`            // seconds, > 0
	Notes          string  `json:"notes,omitempty"`
	Order          int     `json:"order"`               // 1-based ordinal within the scene
	SceneID        string  `json:"scene_id,omitempty"`  // empty = unassigned; not enforced by the store
}

// Finalized reports whether the frame carries linked final art.
func (f *Frame) Finalized() bool {
	return f.FinalArtPath != ""
}

type CreateFrameRequest struct {
	SceneID     string  `json:"scene_id,omitempty"`
	Description string  `json:"description,omitempty"`
	Thumbnail   string  `json:"thumbnail,omitempty"`
	Duration    float64 `json:"duration,omitempty"`
	Notes       string  `json:"notes,omitempty"`
	// InsertAfter is the global list index the new frame is spliced after.
	// Nil appends to the end of the collection.
	InsertAfter *int `json:"insert_after,omitempty"`
}

type UpdateFrameRequest struct {
	Description *string  `json:"description,omitempty"`
	Thumbnail   *string  `json:"thumbnail,omitempty"`
	Duration    *float64 `json:"duration,omitempty"`
	Notes       *string  `json:"notes,omitempty"`
}

// MoveFrameRequest repositions a frame. AfterFrameID, when set, names the
// frame the moved one is placed after; empty moves it to the front of the
// target scene. SceneID may reassign the frame to a different scene (or to
// unassigned when empty).
type MoveFrameRequest struct {
	SceneID      string `json:"scene_id,omitempty"`
	AfterFrameID string `json:"after_frame_id,omitempty"`
}

type LinkFinalArtRequest struct {
	Path      string `json:"path"`
	Thumbnail string `json:"thumbnail,omitempty"`
}
