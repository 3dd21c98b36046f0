package scans

import (
	"encoding/json"
	"time"
)

// ID tipe untuk Scan
type ScanID string

// Status enum
type Status string

const (
	StatusQueued     Status = "queued"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Terminal reports whether polling should stop at this status.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// rank orders the lifecycle queued → processing → completed|failed.
// Unknown statuses rank with queued.
func (s Status) rank() int {
	switch s {
	case StatusProcessing:
		return 1
	case StatusCompleted, StatusFailed:
		return 2
	default:
		return 0
	}
}

// Website is the scan target record owned by the engine.
type Website struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Name      *string   `json:"name"`
	CreatedAt Timestamp `json:"createdAt"`
}

// Aggregate Root: Scan, in the engine's wire shape.
type Scan struct {
	ID        ScanID          `json:"id"`
	WebsiteID string          `json:"websiteId"`
	Status    Status          `json:"status"`
	Score     *float64        `json:"score"`
	ReportURL *string         `json:"reportUrl"`
	MetaJSON  json.RawMessage `json:"metaJson,omitempty"`
	CreatedAt Timestamp       `json:"createdAt"`

	// Website is only present when the engine joins it into the response.
	Website *Website `json:"website,omitempty"`
}

// WebsiteURL returns the joined website url, or "" when the engine omitted it.
func (s *Scan) WebsiteURL() string {
	if s == nil || s.Website == nil {
		return ""
	}
	return s.Website.URL
}

// SeverityCounts value object
type SeverityCounts struct {
	Critical int `json:"critical"`
	Serious  int `json:"serious"`
	Moderate int `json:"moderate"`
	Minor    int `json:"minor"`
	Total    int `json:"total"`
}

// TrackedScan is the local history row behind the dashboard scan table.
type TrackedScan struct {
	ID          ScanID         `json:"id"`
	WebsiteID   string         `json:"website_id"`
	WebsiteURL  string         `json:"website_url"`
	WebsiteName string         `json:"website_name,omitempty"`
	Status      Status         `json:"status"`
	Score       *float64       `json:"score"`
	Counts      SeverityCounts `json:"counts"`
	ReportURL   string         `json:"report_url,omitempty"`
	ArchiveURL  string         `json:"archive_url,omitempty"`
	SubmittedAt time.Time      `json:"submitted_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// NewTrackedScan starts a history row for a freshly created scan.
func NewTrackedScan(w *Website, s *Scan, now time.Time) *TrackedScan {
	t := &TrackedScan{
		ID:          s.ID,
		WebsiteID:   s.WebsiteID,
		Status:      s.Status,
		SubmittedAt: s.CreatedAt.Time,
		UpdatedAt:   now,
	}
	if t.SubmittedAt.IsZero() {
		t.SubmittedAt = now
	}
	if w != nil {
		t.WebsiteURL = w.URL
		if w.Name != nil {
			t.WebsiteName = *w.Name
		}
	}
	t.Apply(s, now)
	return t
}

// Apply folds a freshly fetched scan into the row. Status never moves
// backwards and is frozen once terminal; score and counts are only taken
// from completed scans.
func (t *TrackedScan) Apply(s *Scan, now time.Time) {
	if !t.Status.Terminal() && s.Status.rank() >= t.Status.rank() {
		t.Status = s.Status
	}
	if t.WebsiteID == "" {
		t.WebsiteID = s.WebsiteID
	}
	if u := s.WebsiteURL(); u != "" && t.WebsiteURL == "" {
		t.WebsiteURL = u
	}
	if s.ReportURL != nil {
		t.ReportURL = *s.ReportURL
	}
	if t.Status == StatusCompleted && s.Status == StatusCompleted {
		issues := Normalize(s.MetaJSON)
		score := float64(EffectiveScore(s.Score, issues))
		t.Score = &score
		t.Counts = CountSeverities(issues)
	}
	t.UpdatedAt = now
}
