package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS accessibility_scans (
    id            TEXT PRIMARY KEY,
    website_id    TEXT NOT NULL,
    website_url   TEXT NOT NULL DEFAULT '',
    website_name  TEXT NOT NULL DEFAULT '',
    status        TEXT NOT NULL,
    score         DOUBLE PRECISION,
    critical      INTEGER NOT NULL DEFAULT 0,
    serious       INTEGER NOT NULL DEFAULT 0,
    moderate      INTEGER NOT NULL DEFAULT 0,
    minor         INTEGER NOT NULL DEFAULT 0,
    issues_total  INTEGER NOT NULL DEFAULT 0,
    report_url    TEXT NOT NULL DEFAULT '',
    archive_url   TEXT NOT NULL DEFAULT '',
    submitted_at  TIMESTAMPTZ NOT NULL,
    updated_at    TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_scans_status ON accessibility_scans(status);
CREATE INDEX IF NOT EXISTS idx_scans_submitted ON accessibility_scans(submitted_at);
`

// EnsureSchema creates the history table when it does not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("applying schema: %w", err)
	}
	return nil
}
