package assets

import (
	"embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/AbdelrahmanYosry2022/sohil-dashboard-sub000/internal/domain"
)

//go:embed config/*.yaml
var configFiles embed.FS

// Kind ids match the {assetKind} path segment of stored objects.
const (
	KindSketch     = "sketch"
	KindFinalArt   = "final_art"
	KindSceneThumb = "scene_thumb"
)

// KindSpec describes one asset kind: its placeholder image and the upload
// constraints enforced before any network call.
type KindSpec struct {
	ID           string   `yaml:"id"`
	Label        string   `yaml:"label"`
	Placeholder  string   `yaml:"placeholder"`
	MaxBytes     int64    `yaml:"max_bytes"`
	ContentTypes []string `yaml:"content_types"`
}

type kindsFile struct {
	Kinds []KindSpec `yaml:"kinds"`
}

// Registry holds the asset-kind vocabulary loaded from the embedded YAML.
type Registry struct {
	kinds        map[string]*KindSpec
	placeholders map[string]bool
	mu           sync.RWMutex
}

// NewRegistry loads the embedded asset-kind file.
func NewRegistry() (*Registry, error) {
	data, err := configFiles.ReadFile("config/kinds.yaml")
	if err != nil {
		return nil, fmt.Errorf("read asset kinds: %w", err)
	}

	var file kindsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("unmarshal asset kinds: %w", err)
	}

	r := &Registry{
		kinds:        make(map[string]*KindSpec, len(file.Kinds)),
		placeholders: make(map[string]bool),
	}
	for i := range file.Kinds {
		spec := &file.Kinds[i]
		r.kinds[spec.ID] = spec
		if spec.Placeholder != "" {
			r.placeholders[spec.Placeholder] = true
		}
	}

	return r, nil
}

// Get returns the spec for an asset kind id.
func (r *Registry) Get(id string) (*KindSpec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	spec, ok := r.kinds[id]
	if !ok {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("unknown asset kind %q", id)}
	}
	return spec, nil
}

// IsPlaceholder reports whether ref is empty or one of the bundled
// placeholder images. Placeholder refs are never deleted from storage.
func (r *Registry) IsPlaceholder(ref string) bool {
	if ref == "" {
		return true
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.placeholders[ref]
}

// ValidateUpload checks an upload's declared content type and size against
// the kind's limits before the bytes go anywhere near the network.
func (r *Registry) ValidateUpload(kindID, contentType string, size int64) error {
	spec, err := r.Get(kindID)
	if err != nil {
		return err
	}

	if size <= 0 {
		return &domain.ValidationError{Message: "empty upload"}
	}
	if size > spec.MaxBytes {
		return &domain.ValidationError{
			Message: fmt.Sprintf("%s exceeds the %d byte limit", spec.Label, spec.MaxBytes),
		}
	}

	for _, ct := range spec.ContentTypes {
		if ct == contentType {
			return nil
		}
	}
	return &domain.ValidationError{
		Message: fmt.Sprintf("unsupported content type %q for %s", contentType, spec.Label),
	}
}
