package assets

import (
	"errors"
	"testing"

	"github.com/AbdelrahmanYosry2022/sohil-dashboard-sub000/internal/domain"
)

func TestRegistry_Get(t *testing.T) {
	registry, err := NewRegistry()
	if err != nil {
		t.Fatalf("load registry: %v", err)
	}

	for _, id := range []string{KindSketch, KindFinalArt, KindSceneThumb} {
		spec, err := registry.Get(id)
		if err != nil {
			t.Errorf("kind %s: %v", id, err)
			continue
		}
		if spec.MaxBytes <= 0 {
			t.Errorf("kind %s: expected an upload size limit, got %d", id, spec.MaxBytes)
		}
		if len(spec.ContentTypes) == 0 {
			t.Errorf("kind %s: expected allowed content types", id)
		}
	}

	if _, err := registry.Get("voiceover"); err == nil {
		t.Error("expected an error for an unknown kind")
	}
}

func TestRegistry_IsPlaceholder(t *testing.T) {
	registry, err := NewRegistry()
	if err != nil {
		t.Fatalf("load registry: %v", err)
	}

	tests := []struct {
		ref  string
		want bool
	}{
		{"", true},
		{"/placeholders/frame-sketch.png", true},
		{"/placeholders/scene-thumb.png", true},
		{"episodes/ep-1/sketch/f1.png", false},
	}
	for _, tt := range tests {
		if got := registry.IsPlaceholder(tt.ref); got != tt.want {
			t.Errorf("IsPlaceholder(%q) = %v, want %v", tt.ref, got, tt.want)
		}
	}
}

func TestRegistry_ValidateUpload(t *testing.T) {
	registry, err := NewRegistry()
	if err != nil {
		t.Fatalf("load registry: %v", err)
	}

	tests := []struct {
		name        string
		kind        string
		contentType string
		size        int64
		wantErr     bool
	}{
		{"valid png", KindSketch, "image/png", 1024, false},
		{"valid webp", KindFinalArt, "image/webp", 1024, false},
		{"empty upload", KindSketch, "image/png", 0, true},
		{"over the limit", KindSketch, "image/png", 5242881, true},
		{"at the limit", KindSketch, "image/png", 5242880, false},
		{"wrong content type", KindSketch, "application/pdf", 1024, true},
		{"unknown kind", "voiceover", "image/png", 1024, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := registry.ValidateUpload(tt.kind, tt.contentType, tt.size)
			if tt.wantErr {
				var invalid *domain.ValidationError
				if !errors.As(err, &invalid) {
					t.Fatalf("expected ValidationError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
