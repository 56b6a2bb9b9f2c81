package repositories

import (
	"context"

	"github.com/AbdelrahmanYosry2022/sohil-dashboard-sub000/internal/domain/models"
)

// ContentRecordRepository is the remote content table boundary. There is no
// update-in-place: the save protocol always deletes and recreates records,
// so the interface stays at insert, delete-by-id, and query-by-type.
type ContentRecordRepository interface {
	// Create inserts a record and fills its generated id and timestamp.
	Create(ctx context.Context, record *models.ContentRecord) error

	// QueryByType returns all records of one type for an episode, oldest first.
	QueryByType(ctx context.Context, episodeID string, contentType models.ContentType) ([]models.ContentRecord, error)

	// Delete removes a record by id. Deleting an already-absent record is
	// not an error; a retried save must be able to re-run its delete pass.
	Delete(ctx context.Context, recordID string) error
}
