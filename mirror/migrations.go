package mirror

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// SCHEMA MIGRATIONS
// ══════════════════════════════════════════════════════════════════════════════

// Migration is one versioned schema step.
type Migration struct {
	Version int
	Name    string
	UpSQL   string
	DownSQL string
}

// Migrations returns the embedded schema, in order.
func Migrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_resources",
			UpSQL:   migration001Up,
			DownSQL: migration001Down,
		},
		{
			Version: 2,
			Name:    "create_sync_runs",
			UpSQL:   migration002Up,
			DownSQL: migration002Down,
		},
	}
}

const migration001Up = `
CREATE TABLE IF NOT EXISTS resources (
	id              BIGINT NOT NULL,
	object          TEXT NOT NULL,
	url             TEXT NOT NULL,
	data_updated_at TIMESTAMPTZ,
	data            JSONB NOT NULL,
	synced_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (object, id)
);

CREATE INDEX IF NOT EXISTS idx_resources_updated_at
	ON resources (object, data_updated_at);

CREATE INDEX IF NOT EXISTS idx_resources_subject_level
	ON resources (((data->>'level')::int))
	WHERE data ? 'level';
`

const migration001Down = `
DROP TABLE IF EXISTS resources;
`

const migration002Up = `
CREATE TABLE IF NOT EXISTS sync_runs (
	id           UUID PRIMARY KEY,
	started_at   TIMESTAMPTZ NOT NULL,
	finished_at  TIMESTAMPTZ,
	upserted     INTEGER NOT NULL DEFAULT 0,
	status       TEXT NOT NULL DEFAULT 'running',
	error        TEXT
);
`

const migration002Down = `
DROP TABLE IF EXISTS sync_runs;
`

// Migrate applies every pending migration, each in its own transaction, and
// records it in schema_migrations.
func (c *Connection) Migrate(ctx context.Context) error {
	_, err := c.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INTEGER PRIMARY KEY,
			name       TEXT NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("%w: create tracking table: %v", ErrMigrationFailed, err)
	}

	applied, err := c.appliedMigrations(ctx)
	if err != nil {
		return err
	}

	for _, mig := range Migrations() {
		if _, ok := applied[mig.Version]; ok {
			continue
		}

		err := c.WithTx(ctx, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, mig.UpSQL); err != nil {
				return fmt.Errorf("execute migration %d: %w", mig.Version, err)
			}
			_, err := tx.Exec(ctx,
				"INSERT INTO schema_migrations (version, name) VALUES ($1, $2)",
				mig.Version, mig.Name)
			return err
		})
		if err != nil {
			return fmt.Errorf("%w: version %d: %v", ErrMigrationFailed, mig.Version, err)
		}
	}

	return nil
}

func (c *Connection) appliedMigrations(ctx context.Context) (map[int]time.Time, error) {
	rows, err := c.pool.Query(ctx,
		"SELECT version, applied_at FROM schema_migrations ORDER BY version")
	if err != nil {
		return nil, fmt.Errorf("%w: query applied: %v", ErrMigrationFailed, err)
	}
	defer rows.Close()

	applied := make(map[int]time.Time)
	for rows.Next() {
		var version int
		var appliedAt time.Time
		if err := rows.Scan(&version, &appliedAt); err != nil {
			return nil, fmt.Errorf("%w: scan applied: %v", ErrMigrationFailed, err)
		}
		applied[version] = appliedAt
	}
	return applied, rows.Err()
}
