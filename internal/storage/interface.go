package storage

import "context"

// BlobStore is the boundary to the hosted object store. References are
// bucket-relative object paths following the convention
// episodes/{episodeId}/{assetKind}/{fileName}; URL resolves a reference to
// something a browser can fetch.
type BlobStore interface {
	// Upload stores bytes under objectPath and returns the stored reference.
	Upload(ctx context.Context, objectPath, contentType string, data []byte) (string, error)

	// Delete removes an object. Deleting an absent object is not an error.
	Delete(ctx context.Context, objectPath string) error

	// List returns the object paths stored under a path prefix.
	List(ctx context.Context, pathPrefix string) ([]string, error)

	// URL returns the retrieval URL for a stored reference.
	URL(objectPath string) string
}
