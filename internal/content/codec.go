// Package content converts between in-memory episode entities and the flat
// JSON payloads stored in content records.
//
// Payload shapes evolve over the product's lifetime and older rows lack newer
// fields, so decoding fills type-appropriate defaults instead of failing:
// decode never returns an error. Frame records and the single folders
// document share a type column namespace in older data, so folders payloads
// carry a "type":"folders" marker that frame decoding checks first.
package content

import (
	"github.com/AbdelrahmanYosry2022/sohil-dashboard-sub000/internal/assets"
	"github.com/AbdelrahmanYosry2022/sohil-dashboard-sub000/internal/domain/models"
)

// foldersMarker is the payload-level discriminator for folders documents.
const foldersMarker = "folders"

// Codec encodes and decodes one content kind's frame and folders payloads.
type Codec struct {
	kind     models.Kind
	registry *assets.Registry
}

// NewCodec returns the codec for a content kind. The asset registry supplies
// placeholder references used as decode defaults.
func NewCodec(kind models.Kind, registry *assets.Registry) *Codec {
	return &Codec{kind: kind, registry: registry}
}

// Kind returns the content kind this codec serves.
func (c *Codec) Kind() models.Kind { return c.kind }

// IsFoldersPayload reports whether a payload is a folders document rather
// than a frame. Both can live under legacy rows with the same type value.
func IsFoldersPayload(payload map[string]interface{}) bool {
	marker, _ := payload["type"].(string)
	return marker == foldersMarker
}

// EncodeFrame flattens a frame into a storable payload.
func (c *Codec) EncodeFrame(f *models.Frame) map[string]interface{} {
	payload := map[string]interface{}{
		"frame_id":        f.FrameID,
		"title":           f.Title,
		"description":     f.Description,
		"thumbnail":       f.Thumbnail,
		"final_thumbnail": f.FinalThumbnail,
		"duration":        f.Duration,
		"order":           f.Order,
	}
	if f.FinalArtPath != "" {
		payload["final_art_path"] = f.FinalArtPath
	}
	if f.Notes != "" {
		payload["notes"] = f.Notes
	}
	if f.SceneID != "" {
		payload["scene_id"] = f.SceneID
	}
	return payload
}

// DecodeFrame rebuilds a frame from a payload, defaulting absent fields.
// recordID becomes the frame's row identity. Malformed values decode to
// defaults; this method never fails so list rendering stays resilient.
func (c *Codec) DecodeFrame(recordID string, payload map[string]interface{}) *models.Frame {
	sketch, _ := c.registry.Get(assets.KindSketch)

	f := &models.Frame{
		ID:             recordID,
		FrameID:        stringField(payload, "frame_id", "frameId"),
		Title:          stringField(payload, "title"),
		Description:    stringField(payload, "description"),
		Thumbnail:      stringField(payload, "thumbnail"),
		FinalArtPath:   stringField(payload, "final_art_path", "finalArtPath"),
		FinalThumbnail: stringField(payload, "final_thumbnail", "finalThumbnail"),
		Duration:       numberField(payload, "duration"),
		Notes:          stringField(payload, "notes"),
		Order:          int(numberField(payload, "order")),
		SceneID:        stringField(payload, "scene_id", "sceneId"),
	}

	if f.FrameID == "" {
		// Legacy rows predate the stable frame id; fall back to row identity
		f.FrameID = recordID
	}
	if f.Thumbnail == "" && sketch != nil {
		f.Thumbnail = sketch.Placeholder
	}
	if f.Duration <= 0 {
		f.Duration = 1
	}
	if f.Order <= 0 {
		f.Order = 1
	}

	return f
}

// EncodeFolders wraps the full folder list in a marked folders document.
// An empty list still encodes to a real document: persisting the explicit
// empty set is what stops a wiped folder list from resurrecting on reload.
func (c *Codec) EncodeFolders(folders []models.Folder) map[string]interface{} {
	encoded := make([]interface{}, 0, len(folders))
	for i := range folders {
		encoded = append(encoded, c.encodeFolder(&folders[i]))
	}
	return map[string]interface{}{
		"type":    foldersMarker,
		"folders": encoded,
	}
}

func (c *Codec) encodeFolder(f *models.Folder) map[string]interface{} {
	scenes := make([]interface{}, 0, len(f.Scenes))
	for i := range f.Scenes {
		s := &f.Scenes[i]
		scene := map[string]interface{}{
			"id":        s.ID,
			"title":     s.Title,
			"thumbnail": s.Thumbnail,
		}
		if s.Description != "" {
			scene["description"] = s.Description
		}
		scenes = append(scenes, scene)
	}
	return map[string]interface{}{
		"id":     f.ID,
		"name":   f.Name,
		"scenes": scenes,
	}
}

// DecodeFolders rebuilds the folder list from a folders document. Payloads
// without the marker or with a malformed folder list decode to an empty
// list; individual malformed entries decode to defaulted folders.
func (c *Codec) DecodeFolders(payload map[string]interface{}) []models.Folder {
	raw, _ := payload["folders"].([]interface{})
	folders := make([]models.Folder, 0, len(raw))
	for _, entry := range raw {
		doc, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		folders = append(folders, c.decodeFolder(doc))
	}
	return folders
}

func (c *Codec) decodeFolder(doc map[string]interface{}) models.Folder {
	thumb, _ := c.registry.Get(assets.KindSceneThumb)

	folder := models.Folder{
		ID:     stringField(doc, "id"),
		Name:   stringField(doc, "name"),
		Scenes: []models.Scene{},
	}

	raw, _ := doc["scenes"].([]interface{})
	for _, entry := range raw {
		sceneDoc, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		scene := models.Scene{
			ID:          stringField(sceneDoc, "id"),
			Title:       stringField(sceneDoc, "title"),
			Thumbnail:   stringField(sceneDoc, "thumbnail"),
			Description: stringField(sceneDoc, "description"),
		}
		if scene.Thumbnail == "" && thumb != nil {
			scene.Thumbnail = thumb.Placeholder
		}
		folder.Scenes = append(folder.Scenes, scene)
	}

	return folder
}

// stringField returns the first present string value among the given keys.
// Alternate keys cover camelCase payloads written by earlier clients.
func stringField(payload map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if v, ok := payload[key].(string); ok {
			return v
		}
	}
	return ""
}

// numberField tolerates the numeric types JSON decoding and JSONB scanning
// produce for the same column.
func numberField(payload map[string]interface{}, key string) float64 {
	switch v := payload[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return 0
	}
}
