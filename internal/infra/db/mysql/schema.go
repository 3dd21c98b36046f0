package mysql

import (
	"context"
	"database/sql"
	"fmt"
)

// MySQL rejects multi-statement Exec without multiStatements=true, so the
// schema is a list.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS accessibility_scans (
    id            VARCHAR(64)  NOT NULL PRIMARY KEY,
    website_id    VARCHAR(64)  NOT NULL,
    website_url   VARCHAR(2048) NOT NULL DEFAULT '',
    website_name  VARCHAR(255) NOT NULL DEFAULT '',
    status        VARCHAR(16)  NOT NULL,
    score         DOUBLE       NULL,
    critical      INT          NOT NULL DEFAULT 0,
    serious       INT          NOT NULL DEFAULT 0,
    moderate      INT          NOT NULL DEFAULT 0,
    minor         INT          NOT NULL DEFAULT 0,
    issues_total  INT          NOT NULL DEFAULT 0,
    report_url    VARCHAR(2048) NOT NULL DEFAULT '',
    archive_url   VARCHAR(2048) NOT NULL DEFAULT '',
    submitted_at  DATETIME(3)  NOT NULL,
    updated_at    DATETIME(3)  NOT NULL,
    INDEX idx_scans_status (status),
    INDEX idx_scans_submitted (submitted_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// EnsureSchema creates the history table when it does not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("applying schema: %w", err)
		}
	}
	return nil
}
