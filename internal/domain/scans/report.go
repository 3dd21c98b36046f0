package scans

import (
	"fmt"
	"time"
)

// Score sources reported alongside the score.
const (
	ScoreFromEngine   = "engine"
	ScoreFromFallback = "fallback"
)

// Report is the rendered result of a completed scan.
type Report struct {
	ScanID      ScanID           `json:"scan_id"`
	WebsiteURL  string           `json:"website_url"`
	ScanDate    time.Time        `json:"scan_date"`
	Score       int              `json:"score"`
	ScoreSource string           `json:"score_source"`
	Band        ScoreBand        `json:"band"`
	TotalIssues int              `json:"total_issues"`
	Counts      SeverityCounts   `json:"counts"`
	Filter      string           `json:"filter"`
	Issues      []Issue          `json:"issues"`
	GIGW        *GIGWResult      `json:"gigw,omitempty"`
	GIGWStatus  ComplianceStatus `json:"gigw_status"`
	ReportURL   string           `json:"report_url,omitempty"`
}

// BuildReport normalizes a completed scan. Counts and score always cover
// every issue; only the Issues list is narrowed by the filter.
func BuildReport(s *Scan, filter Severity) (*Report, error) {
	if s.Status != StatusCompleted {
		return nil, fmt.Errorf("%w: status is %s", ErrScanNotCompleted, s.Status)
	}
	issues := Normalize(s.MetaJSON)
	gigw := ParseGIGW(s.MetaJSON)

	r := &Report{
		ScanID:      s.ID,
		WebsiteURL:  s.WebsiteURL(),
		ScanDate:    s.CreatedAt.Time,
		Score:       EffectiveScore(s.Score, issues),
		ScoreSource: ScoreFromFallback,
		TotalIssues: len(issues),
		Counts:      CountSeverities(issues),
		Filter:      "all",
		Issues:      FilterIssues(issues, filter),
		GIGW:        gigw,
		GIGWStatus:  gigw.ComplianceStatus(),
	}
	if s.Score != nil {
		r.ScoreSource = ScoreFromEngine
	}
	if filter != "" {
		r.Filter = string(filter)
	}
	if s.ReportURL != nil {
		r.ReportURL = *s.ReportURL
	}
	r.Band = BandFor(r.Score)
	return r, nil
}
