package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the generic episode content table if it does not
// exist. One flat table with a type discriminator and a JSONB payload
// backs every content kind; queries always filter on (episode_id, type).
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	ddl := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id         uuid PRIMARY KEY DEFAULT gen_random_uuid(),
			episode_id text NOT NULL,
			type       text NOT NULL,
			payload    jsonb NOT NULL,
			created_at timestamptz NOT NULL DEFAULT now()
		)
	`, tables.EpisodeContent)

	if _, err := pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("create %s: %w", tables.EpisodeContent, err)
	}

	index := fmt.Sprintf(`
		CREATE INDEX IF NOT EXISTS %s_episode_type_idx
		ON %s (episode_id, type)
	`, tables.EpisodeContent, tables.EpisodeContent)

	if _, err := pool.Exec(ctx, index); err != nil {
		return fmt.Errorf("index %s: %w", tables.EpisodeContent, err)
	}

	return nil
}
