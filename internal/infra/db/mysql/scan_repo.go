package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	domain "github.com/bryanwahyu/accessiscan/internal/domain/scans"
)

const selectScans = `
SELECT id, website_id, website_url, website_name, status, score,
       critical, serious, moderate, minor, issues_total,
       report_url, archive_url, submitted_at, updated_at
FROM accessibility_scans`

type ScanRepository struct {
	db *sql.DB
}

func NewScanRepository(db *sql.DB) *ScanRepository {
	return &ScanRepository{db: db}
}

// Save insert/update history row
func (r *ScanRepository) Save(ctx context.Context, s *domain.TrackedScan) error {
	const q = `
INSERT INTO accessibility_scans
(id, website_id, website_url, website_name, status, score,
 critical, serious, moderate, minor, issues_total,
 report_url, archive_url, submitted_at, updated_at)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
 website_url=VALUES(website_url), website_name=VALUES(website_name),
 status=VALUES(status), score=VALUES(score),
 critical=VALUES(critical), serious=VALUES(serious), moderate=VALUES(moderate), minor=VALUES(minor),
 issues_total=VALUES(issues_total),
 report_url=VALUES(report_url), archive_url=VALUES(archive_url), updated_at=VALUES(updated_at);
`
	submitted := s.SubmittedAt
	if submitted.IsZero() {
		submitted = time.Now().UTC()
	}
	updated := s.UpdatedAt
	if updated.IsZero() {
		updated = submitted
	}
	var score sql.NullFloat64
	if s.Score != nil {
		score = sql.NullFloat64{Float64: *s.Score, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, q,
		s.ID, s.WebsiteID, s.WebsiteURL, s.WebsiteName, s.Status, score,
		s.Counts.Critical, s.Counts.Serious, s.Counts.Moderate, s.Counts.Minor, s.Counts.Total,
		s.ReportURL, s.ArchiveURL, submitted, updated,
	)
	return err
}

// Get by ID
func (r *ScanRepository) Get(ctx context.Context, id domain.ScanID) (*domain.TrackedScan, error) {
	row := r.db.QueryRowContext(ctx, selectScans+" WHERE id=? LIMIT 1", id)
	s, err := scanRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return s, err
}

// Latest rows, newest first
func (r *ScanRepository) Latest(ctx context.Context, limit int) ([]*domain.TrackedScan, error) {
	if limit <= 0 {
		limit = 20
	}
	return r.query(ctx, selectScans+" ORDER BY submitted_at DESC LIMIT ?", limit)
}

// Active rows that have not reached a terminal status, oldest first
func (r *ScanRepository) Active(ctx context.Context, limit int) ([]*domain.TrackedScan, error) {
	if limit <= 0 {
		limit = 100
	}
	return r.query(ctx, selectScans+" WHERE status IN (?,?) ORDER BY submitted_at ASC LIMIT ?",
		domain.StatusQueued, domain.StatusProcessing, limit)
}

// Paginate with offset + limit (classic pagination)
func (r *ScanRepository) Paginate(ctx context.Context, page, pageSize int, f domain.Filter) (domain.PaginatedResult, error) {
	page, pageSize, offset := domain.PageBounds(page, pageSize)

	where, args := whereClause(f)
	q := selectScans + where + "\n ORDER BY submitted_at DESC LIMIT ? OFFSET ?"
	scans, err := r.query(ctx, q, append(args, pageSize, offset)...)
	if err != nil {
		return domain.PaginatedResult{}, fmt.Errorf("querying scans: %w", err)
	}

	total, err := r.Count(ctx, f)
	if err != nil {
		return domain.PaginatedResult{}, fmt.Errorf("getting total count: %w", err)
	}

	return domain.PaginatedResult{
		Data:       scans,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
	}, nil
}

// Count returns the total number of records matching the given filter
func (r *ScanRepository) Count(ctx context.Context, f domain.Filter) (int64, error) {
	where, args := whereClause(f)
	var count int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM accessibility_scans"+where, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// Summary computes the dashboard headline in one pass
func (r *ScanRepository) Summary(ctx context.Context) (domain.Summary, error) {
	const q = `
SELECT COUNT(*),
       COALESCE(SUM(CASE WHEN status='completed' AND score >= ? THEN 1 ELSE 0 END),0),
       COALESCE(SUM(CASE WHEN status='failed' THEN 1 ELSE 0 END),0),
       COALESCE(AVG(score),0)
FROM accessibility_scans;
`
	var s domain.Summary
	if err := r.db.QueryRowContext(ctx, q, domain.PassingScore).Scan(&s.TotalScans, &s.Passed, &s.Failed, &s.AverageScore); err != nil {
		return domain.Summary{}, err
	}
	return s, nil
}

func (r *ScanRepository) query(ctx context.Context, q string, args ...any) ([]*domain.TrackedScan, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.TrackedScan
	for rows.Next() {
		s, err := scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRow(row rowScanner) (*domain.TrackedScan, error) {
	var s domain.TrackedScan
	var score sql.NullFloat64
	if err := row.Scan(
		&s.ID, &s.WebsiteID, &s.WebsiteURL, &s.WebsiteName, &s.Status, &score,
		&s.Counts.Critical, &s.Counts.Serious, &s.Counts.Moderate, &s.Counts.Minor, &s.Counts.Total,
		&s.ReportURL, &s.ArchiveURL, &s.SubmittedAt, &s.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if score.Valid {
		v := score.Float64
		s.Score = &v
	}
	return &s, nil
}
