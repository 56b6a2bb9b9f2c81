package episode

import (
	"fmt"
	"sort"

	"github.com/AbdelrahmanYosry2022/sohil-dashboard-sub000/internal/domain/models"
)

// FrameTitle derives the display title for an assigned frame.
func FrameTitle(sceneName string, order int) string {
	return fmt.Sprintf("%s - Frame %02d", sceneName, order)
}

// Renumber recomputes the per-scene ordinals and derived titles for the
// frames of one scene. Frames in the scene are stably sorted by their
// current order (ties keep original relative position), reassigned
// order 1..n, and retitled; every other frame passes through untouched.
//
// The returned slice is the renumbered scene frames followed by the rest;
// that concatenation order carries no meaning, callers sort for display.
func Renumber(frames []models.Frame, sceneID, sceneName string) []models.Frame {
	if sceneID == "" {
		return RenumberUnassigned(frames)
	}

	inScene := make([]models.Frame, 0, len(frames))
	others := make([]models.Frame, 0, len(frames))
	for _, f := range frames {
		if f.SceneID == sceneID {
			inScene = append(inScene, f)
		} else {
			others = append(others, f)
		}
	}

	sort.SliceStable(inScene, func(i, j int) bool {
		return inScene[i].Order < inScene[j].Order
	})

	for i := range inScene {
		inScene[i].Order = i + 1
		inScene[i].Title = FrameTitle(sceneName, i+1)
	}

	return append(inScene, others...)
}

// RenumberUnassigned keeps the unassigned group's ordinals contiguous
// without touching titles. Unassigned frames have no scene to derive a
// title from, so whatever the user typed stays.
func RenumberUnassigned(frames []models.Frame) []models.Frame {
	return renumberOrders(frames, "")
}

// SortForDisplay orders a collection the way the episode view renders it:
// grouped by scene id with the unassigned group last, ordinals ascending
// within each group.
func SortForDisplay(frames []models.Frame) {
	sort.SliceStable(frames, func(i, j int) bool {
		a, b := frames[i], frames[j]
		if a.SceneID != b.SceneID {
			if a.SceneID == "" {
				return false
			}
			if b.SceneID == "" {
				return true
			}
			return a.SceneID < b.SceneID
		}
		return a.Order < b.Order
	})
}

// renumberOrders fixes one group's ordinals without deriving titles.
// Used for frames whose owning scene no longer exists, where no display
// name is available to rebuild titles from.
func renumberOrders(frames []models.Frame, sceneID string) []models.Frame {
	group := make([]models.Frame, 0, len(frames))
	others := make([]models.Frame, 0, len(frames))
	for _, f := range frames {
		if f.SceneID == sceneID {
			group = append(group, f)
		} else {
			others = append(others, f)
		}
	}

	sort.SliceStable(group, func(i, j int) bool {
		return group[i].Order < group[j].Order
	})

	for i := range group {
		group[i].Order = i + 1
	}

	return append(group, others...)
}

// Splice inserts a frame at the position implied by insert-after
// semantics: the new frame lands at global index after+1, or at the end
// when after is nil or beyond the list. An after of -1 inserts at the
// front.
func Splice(frames []models.Frame, frame models.Frame, after *int) []models.Frame {
	if after == nil || *after >= len(frames) {
		return append(frames, frame)
	}

	at := *after + 1
	if at < 0 {
		at = 0
	}
	out := make([]models.Frame, 0, len(frames)+1)
	out = append(out, frames[:at]...)
	out = append(out, frame)
	out = append(out, frames[at:]...)
	return out
}
