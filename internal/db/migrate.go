package db

import (
	"context"
	"database/sql"
)

// DB wraps the Postgres connection shared by the stores.
type DB struct {
	*sql.DB
}

const usersMigration = `
CREATE TABLE IF NOT EXISTS users (
    id uuid PRIMARY KEY,
    provider text NOT NULL,
    oauth_id text NOT NULL,
    name text NOT NULL DEFAULT '',
    created_at timestamptz NOT NULL DEFAULT NOW(),
    CONSTRAINT users_provider_oauth_id_unique
        UNIQUE (provider, oauth_id)
);
`

func RunMigration(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, usersMigration)
	return err
}
