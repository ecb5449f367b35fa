package store

import (
	"context"
	"database/sql"
	"fmt"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS herald_posts (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	run_id TEXT NOT NULL,
	topic TEXT,
	content TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'composed',
	run_dir TEXT,
	error TEXT,
	posted_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_herald_posts_created_at ON herald_posts (created_at DESC);
CREATE INDEX IF NOT EXISTS idx_herald_posts_status ON herald_posts (status);
`

// EnsureSchema creates the posts table if it doesn't exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaDDL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
