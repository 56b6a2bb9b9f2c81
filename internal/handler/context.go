package handler

import (
	"net/http"

	"github.com/AbdelrahmanYosry2022/sohil-dashboard-sub000/internal/domain"
	"github.com/AbdelrahmanYosry2022/sohil-dashboard-sub000/internal/domain/models"
)

// episodeScope extracts the {id} and {kind} path values shared by every
// episode content route.
func episodeScope(r *http.Request) (episodeID string, kind models.Kind, err error) {
	episodeID = r.PathValue("id")
	if episodeID == "" {
		return "", "", &domain.ValidationError{Message: "episode id is required"}
	}

	kind, err = models.ParseKind(r.PathValue("kind"))
	if err != nil {
		return "", "", &domain.ValidationError{Message: err.Error()}
	}

	return episodeID, kind, nil
}
