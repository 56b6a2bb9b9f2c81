package storage

import (
	"fmt"
	"strings"
)

// ObjectPath builds the canonical storage path for an episode asset. The
// layout interoperates with data written by earlier clients, so the three
// segments must stay exactly episodes/{episodeId}/{assetKind}/{fileName}.
func ObjectPath(episodeID, assetKind, fileName string) string {
	return fmt.Sprintf("episodes/%s/%s/%s", episodeID, assetKind, sanitizeFileName(fileName))
}

// EpisodePrefix is the path prefix covering every asset of one episode.
func EpisodePrefix(episodeID string) string {
	return fmt.Sprintf("episodes/%s", episodeID)
}

// sanitizeFileName strips path separators so a client-supplied file name
// cannot escape its episode prefix.
func sanitizeFileName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if name == "" {
		name = "unnamed"
	}
	return name
}
