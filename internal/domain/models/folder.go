package models

// Folder groups scenes for one episode content kind. Folders and their scenes
// are not independent rows: the full folder list is serialized into a single
// folders-type ContentRecord per episode.
type Folder struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Scenes []Scene `json:"scenes"`
}

// Scene lives inside exactly one folder; ownership is positional within the
// folder's scene list. Frames reference a scene by id only, with no
// store-enforced integrity.
type Scene struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Thumbnail   string `json:"thumbnail"`
	Description string `json:"description,omitempty"`
}

type CreateFolderRequest struct {
	Name string `json:"name"`
}

type UpdateFolderRequest struct {
	Name string `json:"name"`
}

type CreateSceneRequest struct {
	Title       string `json:"title"`
	Thumbnail   string `json:"thumbnail,omitempty"`
	Description string `json:"description,omitempty"`
}

type UpdateSceneRequest struct {
	Title       *string `json:"title,omitempty"`
	Thumbnail   *string `json:"thumbnail,omitempty"`
	Description *string `json:"description,omitempty"`
}
