package models

import (
	"fmt"
	"time"
)

// ContentType is the type discriminator column of the generic episode content
// table. Frame types are many-per-episode; folders types hold a single document
// per episode at any time.
type ContentType string

const (
	TypeStoryboardFrame   ContentType = "storyboard_frame"
	TypeStoryboardFolders ContentType = "storyboard_folders"
	TypeDrawingFrame      ContentType = "drawing_frame"
	TypeDrawingFolders    ContentType = "drawing_folders"
)

// Kind names one of the two episode content features sharing the engine.
type Kind string

const (
	KindStoryboard Kind = "storyboard"
	KindDrawing    Kind = "drawing"
)

// ParseKind validates a kind string from the request path.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindStoryboard, KindDrawing:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("unknown content kind %q", s)
	}
}

// FrameType returns the content type used for this kind's frame records.
func (k Kind) FrameType() ContentType {
	if k == KindDrawing {
		return TypeDrawingFrame
	}
	return TypeStoryboardFrame
}

// FoldersType returns the content type used for this kind's single folders document.
func (k Kind) FoldersType() ContentType {
	if k == KindDrawing {
		return TypeDrawingFolders
	}
	return TypeStoryboardFolders
}

// ContentRecord is one row of the generic content table. The payload is an
// opaque JSON document; business logic never reads it directly, only through
// the content codecs.
type ContentRecord struct {
	ID        string                 `json:"id" db:"id"`
	EpisodeID string                 `json:"episode_id" db:"episode_id"`
	Type      ContentType            `json:"type" db:"type"`
	Payload   map[string]interface{} `json:"payload" db:"payload"`
	CreatedAt time.Time              `json:"created_at" db:"created_at"`
}
