package storage

import "testing"

func TestObjectPath(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		want     string
	}{
		{"plain name", "frame.png", "episodes/ep-1/sketch/frame.png"},
		{"forward slash stripped", "../../etc/passwd", "episodes/ep-1/sketch/passwd"},
		{"backslash stripped", "..\\..\\frame.png", "episodes/ep-1/sketch/frame.png"},
		{"empty name", "", "episodes/ep-1/sketch/unnamed"},
		{"trailing slash", "dir/", "episodes/ep-1/sketch/unnamed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ObjectPath("ep-1", "sketch", tt.fileName); got != tt.want {
				t.Errorf("ObjectPath = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEpisodePrefix(t *testing.T) {
	if got := EpisodePrefix("ep-1"); got != "episodes/ep-1" {
		t.Errorf("EpisodePrefix = %q, want %q", got, "episodes/ep-1")
	}
}
