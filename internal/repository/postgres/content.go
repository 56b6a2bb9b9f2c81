package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AbdelrahmanYosry2022/sohil-dashboard-sub000/internal/domain"
	"github.com/AbdelrahmanYosry2022/sohil-dashboard-sub000/internal/domain/models"
	"github.com/AbdelrahmanYosry2022/sohil-dashboard-sub000/internal/domain/repositories"
)

// PostgresContentRepository implements ContentRecordRepository on the
// generic episode content table.
type PostgresContentRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewContentRepository creates a new content record repository.
func NewContentRepository(config *RepositoryConfig) repositories.ContentRecordRepository {
	return &PostgresContentRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create inserts a record and fills the generated id and timestamp.
func (r *PostgresContentRepository) Create(ctx context.Context, record *models.ContentRecord) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (episode_id, type, payload)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, r.tables.EpisodeContent)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		record.EpisodeID,
		string(record.Type),
		record.Payload, // pgx handles map -> JSONB
	).Scan(&record.ID, &record.CreatedAt)

	if err != nil {
		if IsPgDuplicateError(err) {
			return fmt.Errorf("content record %s/%s: %w", record.EpisodeID, record.Type, domain.ErrConflict)
		}
		return fmt.Errorf("create content record: %w", err)
	}

	return nil
}

// QueryByType returns all records of one type for an episode, oldest first.
func (r *PostgresContentRepository) QueryByType(ctx context.Context, episodeID string, contentType models.ContentType) ([]models.ContentRecord, error) {
	query := fmt.Sprintf(`
		SELECT id, episode_id, type, payload, created_at
		FROM %s
		WHERE episode_id = $1 AND type = $2
		ORDER BY created_at ASC
	`, r.tables.EpisodeContent)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, episodeID, string(contentType))
	if err != nil {
		return nil, fmt.Errorf("query content records: %w", err)
	}
	defer rows.Close()

	var records []models.ContentRecord
	for rows.Next() {
		var record models.ContentRecord
		err := rows.Scan(
			&record.ID,
			&record.EpisodeID,
			&record.Type,
			&record.Payload, // pgx handles JSONB -> map
			&record.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan content record: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate content records: %w", err)
	}

	return records, nil
}

// Delete removes a record by id. A zero-row delete is not an error: a
// retried save re-runs its delete pass against records that may already be
// gone.
func (r *PostgresContentRepository) Delete(ctx context.Context, recordID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1
	`, r.tables.EpisodeContent)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, recordID); err != nil {
		return fmt.Errorf("delete content record: %w", err)
	}

	return nil
}
