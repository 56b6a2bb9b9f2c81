package episode

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/AbdelrahmanYosry2022/sohil-dashboard-sub000/internal/domain"
	"github.com/AbdelrahmanYosry2022/sohil-dashboard-sub000/internal/domain/models"
)

// seedScene creates a folder with one scene and returns the scene id.
func seedScene(t *testing.T, eng *testEngine, episodeID, folderName, sceneTitle string) string {
	t.Helper()
	ctx := context.Background()

	folder, err := eng.folders.CreateFolder(ctx, models.KindStoryboard, episodeID, &models.CreateFolderRequest{Name: folderName})
	if err != nil {
		t.Fatalf("create folder %q: %v", folderName, err)
	}
	scene, err := eng.folders.AddScene(ctx, models.KindStoryboard, episodeID, folder.ID, &models.CreateSceneRequest{Title: sceneTitle})
	if err != nil {
		t.Fatalf("add scene %q: %v", sceneTitle, err)
	}
	return scene.ID
}

// seedFrames creates n frames in a scene and returns them in display order.
func seedFrames(t *testing.T, eng *testEngine, episodeID, sceneID string, n int) []models.Frame {
	t.Helper()
	ctx := context.Background()

	for i := 0; i < n; i++ {
		if _, err := eng.frames.Create(ctx, models.KindStoryboard, episodeID, &models.CreateFrameRequest{
			SceneID:     sceneID,
			Description: fmt.Sprintf("frame %d", i+1),
		}); err != nil {
			t.Fatalf("create frame %d: %v", i+1, err)
		}
	}
	frames, err := eng.frames.List(ctx, models.KindStoryboard, episodeID)
	if err != nil {
		t.Fatalf("list frames: %v", err)
	}
	return frames
}

func TestCreateFrame_InScene(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()
	sceneID := seedScene(t, eng, "ep-1", "Act One", "Opening")

	created, err := eng.frames.Create(ctx, models.KindStoryboard, "ep-1", &models.CreateFrameRequest{SceneID: sceneID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if created.FrameID == "" {
		t.Error("expected a generated frame id")
	}
	if created.Order != 1 {
		t.Errorf("expected order 1, got %d", created.Order)
	}
	if created.Title != "Opening - Frame 01" {
		t.Errorf("expected derived title, got %q", created.Title)
	}
	if created.Thumbnail != "/placeholders/frame-sketch.png" {
		t.Errorf("expected placeholder thumbnail, got %q", created.Thumbnail)
	}
	if created.Duration != defaultFrameDuration {
		t.Errorf("expected default duration, got %v", created.Duration)
	}
	if created.Finalized() {
		t.Error("a new frame must start unfinalized")
	}
}

func TestCreateFrame_UnknownSceneRejected(t *testing.T) {
	eng := newTestEngine(t)

	_, err := eng.frames.Create(context.Background(), models.KindStoryboard, "ep-1", &models.CreateFrameRequest{SceneID: "ghost"})

	var notFound *domain.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if eng.store.count("ep-1", models.TypeStoryboardFrame) != 0 {
		t.Error("a rejected create must not persist anything")
	}
}

func TestCreateFrame_Unassigned(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	created, err := eng.frames.Create(ctx, models.KindStoryboard, "ep-1", &models.CreateFrameRequest{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.SceneID != "" {
		t.Errorf("expected no scene, got %q", created.SceneID)
	}
	if created.Title != "Frame 01" {
		t.Errorf("expected plain seeded title, got %q", created.Title)
	}
}

func TestCreateFrame_InsertAfter(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()
	sceneID := seedScene(t, eng, "ep-1", "Act One", "Opening")
	existing := seedFrames(t, eng, "ep-1", sceneID, 3)

	// Insert after the first frame: positions shift, titles follow orders
	after := 0
	created, err := eng.frames.Create(ctx, models.KindStoryboard, "ep-1", &models.CreateFrameRequest{
		SceneID:     sceneID,
		InsertAfter: &after,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Order != 2 {
		t.Errorf("expected the inserted frame at order 2, got %d", created.Order)
	}

	frames, err := eng.frames.List(ctx, models.KindStoryboard, "ep-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(frames) != 4 {
		t.Fatalf("expected 4 frames, got %d", len(frames))
	}
	wantSeq := []string{existing[0].FrameID, created.FrameID, existing[1].FrameID, existing[2].FrameID}
	for i, f := range frames {
		if f.FrameID != wantSeq[i] {
			t.Errorf("position %d: expected %s, got %s", i, wantSeq[i], f.FrameID)
		}
		if f.Order != i+1 {
			t.Errorf("position %d: expected order %d, got %d", i, i+1, f.Order)
		}
		wantTitle := fmt.Sprintf("Opening - Frame %02d", i+1)
		if f.Title != wantTitle {
			t.Errorf("position %d: expected title %q, got %q", i, wantTitle, f.Title)
		}
	}
}

func TestCreateFrame_InvalidDuration(t *testing.T) {
	eng := newTestEngine(t)

	_, err := eng.frames.Create(context.Background(), models.KindStoryboard, "ep-1", &models.CreateFrameRequest{Duration: -2})

	var invalid *domain.ValidationError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestUpdateFrame_ReplacingSketchDeletesOldBlob(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()
	sceneID := seedScene(t, eng, "ep-1", "Act One", "Opening")
	frames := seedFrames(t, eng, "ep-1", sceneID, 1)
	target := frames[0]

	// First upload replaces the placeholder: nothing to delete yet
	first := "episodes/ep-1/sketch/v1.png"
	updated, err := eng.frames.Update(ctx, models.KindStoryboard, "ep-1", target.FrameID, &models.UpdateFrameRequest{Thumbnail: &first})
	if err != nil {
		t.Fatalf("first update: %v", err)
	}
	if updated.Thumbnail != first {
		t.Errorf("expected thumbnail %q, got %q", first, updated.Thumbnail)
	}
	if len(eng.blobs.deleted) != 0 {
		t.Errorf("replacing a placeholder must not delete anything, deleted %v", eng.blobs.deleted)
	}

	// Second upload replaces a real blob: the old one goes
	second := "episodes/ep-1/sketch/v2.png"
	if _, err := eng.frames.Update(ctx, models.KindStoryboard, "ep-1", target.FrameID, &models.UpdateFrameRequest{Thumbnail: &second}); err != nil {
		t.Fatalf("second update: %v", err)
	}
	if eng.blobs.deleteCount(first) != 1 {
		t.Errorf("expected the replaced sketch deleted once, got %d", eng.blobs.deleteCount(first))
	}
}

func TestUpdateFrame_PartialFields(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()
	sceneID := seedScene(t, eng, "ep-1", "Act One", "Opening")
	frames := seedFrames(t, eng, "ep-1", sceneID, 1)

	notes := "needs a second pass"
	updated, err := eng.frames.Update(ctx, models.KindStoryboard, "ep-1", frames[0].FrameID, &models.UpdateFrameRequest{Notes: &notes})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Notes != notes {
		t.Errorf("expected notes %q, got %q", notes, updated.Notes)
	}
	if updated.Description != frames[0].Description {
		t.Errorf("untouched description changed: %q -> %q", frames[0].Description, updated.Description)
	}
	if updated.Duration != frames[0].Duration {
		t.Errorf("untouched duration changed: %v -> %v", frames[0].Duration, updated.Duration)
	}
}

func TestDeleteFrame_MiddleOfThree(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()
	sceneID := seedScene(t, eng, "ep-1", "Act One", "Opening")
	frames := seedFrames(t, eng, "ep-1", sceneID, 3)

	// Give the middle frame real blobs so cleanup has work to do
	sketch := "episodes/ep-1/sketch/mid.png"
	art := "episodes/ep-1/final_art/mid.png"
	if _, err := eng.frames.Update(ctx, models.KindStoryboard, "ep-1", frames[1].FrameID, &models.UpdateFrameRequest{Thumbnail: &sketch}); err != nil {
		t.Fatalf("attach sketch: %v", err)
	}
	if _, err := eng.frames.LinkFinalArt(ctx, models.KindStoryboard, "ep-1", frames[1].FrameID, &models.LinkFinalArtRequest{Path: art}); err != nil {
		t.Fatalf("link final art: %v", err)
	}

	if err := eng.frames.Delete(ctx, models.KindStoryboard, "ep-1", frames[1].FrameID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	remaining, err := eng.frames.List(ctx, models.KindStoryboard, "ep-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(remaining) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(remaining))
	}
	wantSeq := []string{frames[0].FrameID, frames[2].FrameID}
	for i, f := range remaining {
		if f.FrameID != wantSeq[i] {
			t.Errorf("position %d: expected %s, got %s", i, wantSeq[i], f.FrameID)
		}
		if f.Order != i+1 {
			t.Errorf("position %d: expected order %d after renumber, got %d", i, i+1, f.Order)
		}
		wantTitle := fmt.Sprintf("Opening - Frame %02d", i+1)
		if f.Title != wantTitle {
			t.Errorf("position %d: expected title %q, got %q", i, wantTitle, f.Title)
		}
	}

	if eng.blobs.deleteCount(sketch) != 1 {
		t.Errorf("expected the sketch blob deleted once, got %d", eng.blobs.deleteCount(sketch))
	}
	if eng.blobs.deleteCount(art) != 1 {
		t.Errorf("expected the final art blob deleted once, got %d", eng.blobs.deleteCount(art))
	}
	if eng.blobs.deleteCount("/placeholders/frame-sketch.png") != 0 {
		t.Error("placeholder images must never be deleted")
	}
}

func TestDeleteFrame_Unknown(t *testing.T) {
	eng := newTestEngine(t)

	err := eng.frames.Delete(context.Background(), models.KindStoryboard, "ep-1", "ghost")

	var notFound *domain.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestMoveFrame_AcrossScenes(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()
	openingID := seedScene(t, eng, "ep-1", "Act One", "Opening")
	chaseID := seedScene(t, eng, "ep-1", "Act Two", "Chase")
	_ = seedFrames(t, eng, "ep-1", openingID, 3)
	all := seedFrames(t, eng, "ep-1", chaseID, 2)

	var opening, chase []models.Frame
	for _, f := range all {
		switch f.SceneID {
		case openingID:
			opening = append(opening, f)
		case chaseID:
			chase = append(chase, f)
		}
	}

	// Move Opening's second frame after Chase's first
	moved, err := eng.frames.Move(ctx, models.KindStoryboard, "ep-1", opening[1].FrameID, &models.MoveFrameRequest{
		SceneID:      chaseID,
		AfterFrameID: chase[0].FrameID,
	})
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if moved.SceneID != chaseID {
		t.Errorf("expected scene %s, got %s", chaseID, moved.SceneID)
	}
	if moved.Order != 2 {
		t.Errorf("expected order 2 in the target scene, got %d", moved.Order)
	}
	if moved.Title != "Chase - Frame 02" {
		t.Errorf("expected retitled frame, got %q", moved.Title)
	}

	frames, err := eng.frames.List(ctx, models.KindStoryboard, "ep-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	checkGroup := func(sceneID, sceneName string, wantIDs []string) {
		t.Helper()
		group := sceneFrames(frames, sceneID)
		if len(group) != len(wantIDs) {
			t.Fatalf("scene %s: expected %d frames, got %d", sceneName, len(wantIDs), len(group))
		}
		for i, f := range group {
			if f.FrameID != wantIDs[i] {
				t.Errorf("scene %s position %d: expected %s, got %s", sceneName, i, wantIDs[i], f.FrameID)
			}
			if f.Order != i+1 {
				t.Errorf("scene %s position %d: expected order %d, got %d", sceneName, i, i+1, f.Order)
			}
			wantTitle := fmt.Sprintf("%s - Frame %02d", sceneName, i+1)
			if f.Title != wantTitle {
				t.Errorf("scene %s position %d: expected title %q, got %q", sceneName, i, wantTitle, f.Title)
			}
		}
	}
	checkGroup(openingID, "Opening", []string{opening[0].FrameID, opening[2].FrameID})
	checkGroup(chaseID, "Chase", []string{chase[0].FrameID, opening[1].FrameID, chase[1].FrameID})
}

func TestMoveFrame_NoAnchorGoesToFront(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()
	sceneID := seedScene(t, eng, "ep-1", "Act One", "Opening")
	frames := seedFrames(t, eng, "ep-1", sceneID, 3)

	moved, err := eng.frames.Move(ctx, models.KindStoryboard, "ep-1", frames[2].FrameID, &models.MoveFrameRequest{SceneID: sceneID})
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if moved.Order != 1 {
		t.Errorf("expected the moved frame first, got order %d", moved.Order)
	}

	after, err := eng.frames.List(ctx, models.KindStoryboard, "ep-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	wantSeq := []string{frames[2].FrameID, frames[0].FrameID, frames[1].FrameID}
	for i, f := range after {
		if f.FrameID != wantSeq[i] {
			t.Errorf("position %d: expected %s, got %s", i, wantSeq[i], f.FrameID)
		}
	}
}

func TestMoveFrame_AfterItselfRejected(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()
	sceneID := seedScene(t, eng, "ep-1", "Act One", "Opening")
	frames := seedFrames(t, eng, "ep-1", sceneID, 2)

	_, err := eng.frames.Move(ctx, models.KindStoryboard, "ep-1", frames[0].FrameID, &models.MoveFrameRequest{
		SceneID:      sceneID,
		AfterFrameID: frames[0].FrameID,
	})

	var invalid *domain.ValidationError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	// The collection is untouched by the rejected move
	after, listErr := eng.frames.List(ctx, models.KindStoryboard, "ep-1")
	if listErr != nil {
		t.Fatalf("list: %v", listErr)
	}
	for i, f := range after {
		if f.FrameID != frames[i].FrameID || f.Order != frames[i].Order {
			t.Errorf("position %d changed: got %s order %d, want %s order %d",
				i, f.FrameID, f.Order, frames[i].FrameID, frames[i].Order)
		}
	}
}

func TestLinkFinalArt(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()
	sceneID := seedScene(t, eng, "ep-1", "Act One", "Opening")
	frames := seedFrames(t, eng, "ep-1", sceneID, 1)
	frameID := frames[0].FrameID

	first := "episodes/ep-1/final_art/v1.png"
	linked, err := eng.frames.LinkFinalArt(ctx, models.KindStoryboard, "ep-1", frameID, &models.LinkFinalArtRequest{Path: first})
	if err != nil {
		t.Fatalf("link: %v", err)
	}
	if !linked.Finalized() {
		t.Error("expected a linked frame to report finalized")
	}
	if linked.FinalThumbnail != first {
		t.Errorf("expected the thumbnail to default to the art path, got %q", linked.FinalThumbnail)
	}
	if len(eng.blobs.deleted) != 0 {
		t.Errorf("first link must not delete anything, deleted %v", eng.blobs.deleted)
	}

	// Replacing deletes the previous art and its distinct thumbnail once
	firstThumb := "episodes/ep-1/final_art/v1_thumb.png"
	if _, err := eng.frames.LinkFinalArt(ctx, models.KindStoryboard, "ep-1", frameID, &models.LinkFinalArtRequest{Path: first, Thumbnail: firstThumb}); err != nil {
		t.Fatalf("relink with thumbnail: %v", err)
	}
	if len(eng.blobs.deleted) != 0 {
		t.Errorf("relinking the same path must not delete it, deleted %v", eng.blobs.deleted)
	}

	second := "episodes/ep-1/final_art/v2.png"
	relinked, err := eng.frames.LinkFinalArt(ctx, models.KindStoryboard, "ep-1", frameID, &models.LinkFinalArtRequest{Path: second})
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if relinked.FinalArtPath != second {
		t.Errorf("expected art %q, got %q", second, relinked.FinalArtPath)
	}
	if eng.blobs.deleteCount(first) != 1 {
		t.Errorf("expected the replaced art deleted exactly once, got %d", eng.blobs.deleteCount(first))
	}
	if eng.blobs.deleteCount(firstThumb) != 1 {
		t.Errorf("expected the replaced thumbnail deleted exactly once, got %d", eng.blobs.deleteCount(firstThumb))
	}
}

func TestLinkFinalArt_PathRequired(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()
	sceneID := seedScene(t, eng, "ep-1", "Act One", "Opening")
	frames := seedFrames(t, eng, "ep-1", sceneID, 1)

	_, err := eng.frames.LinkFinalArt(ctx, models.KindStoryboard, "ep-1", frames[0].FrameID, &models.LinkFinalArtRequest{})

	var invalid *domain.ValidationError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestUnlinkFinalArt(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()
	sceneID := seedScene(t, eng, "ep-1", "Act One", "Opening")
	frames := seedFrames(t, eng, "ep-1", sceneID, 1)
	frameID := frames[0].FrameID

	art := "episodes/ep-1/final_art/v1.png"
	thumb := "episodes/ep-1/final_art/v1_thumb.png"
	if _, err := eng.frames.LinkFinalArt(ctx, models.KindStoryboard, "ep-1", frameID, &models.LinkFinalArtRequest{Path: art, Thumbnail: thumb}); err != nil {
		t.Fatalf("link: %v", err)
	}

	unlinked, err := eng.frames.UnlinkFinalArt(ctx, models.KindStoryboard, "ep-1", frameID)
	if err != nil {
		t.Fatalf("unlink: %v", err)
	}
	if unlinked.Finalized() {
		t.Error("expected the frame back in sketch state")
	}
	if unlinked.FinalArtPath != "" || unlinked.FinalThumbnail != "" {
		t.Errorf("expected cleared final art fields, got %q / %q", unlinked.FinalArtPath, unlinked.FinalThumbnail)
	}
	if eng.blobs.deleteCount(art) != 1 {
		t.Errorf("expected the art blob deleted once, got %d", eng.blobs.deleteCount(art))
	}
	if eng.blobs.deleteCount(thumb) != 1 {
		t.Errorf("expected the thumbnail blob deleted once, got %d", eng.blobs.deleteCount(thumb))
	}
}

func TestFrameService_UnknownKind(t *testing.T) {
	eng := newTestEngine(t)

	_, err := eng.frames.List(context.Background(), models.Kind("comic"), "ep-1")

	var invalid *domain.ValidationError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}
