package scans

import "strings"

// Severity is the four-level impact classification of an issue.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeveritySerious  Severity = "serious"
	SeverityModerate Severity = "moderate"
	SeverityMinor    Severity = "minor"
)

// Severities lists every severity from most to least severe.
var Severities = []Severity{SeverityCritical, SeveritySerious, SeverityModerate, SeverityMinor}

// ParseSeverity lower-cases an engine impact value. Missing and
// unrecognised impacts become moderate.
func ParseSeverity(impact string) Severity {
	switch s := Severity(strings.ToLower(strings.TrimSpace(impact))); s {
	case SeverityCritical, SeveritySerious, SeverityModerate, SeverityMinor:
		return s
	default:
		return SeverityModerate
	}
}

// Deduction is the number of points an issue of this severity costs in
// the fallback score.
func (s Severity) Deduction() int {
	switch s {
	case SeverityCritical:
		return 10
	case SeveritySerious:
		return 5
	case SeverityModerate:
		return 2
	case SeverityMinor:
		return 1
	default:
		return 0
	}
}

// Rank orders severities, critical highest.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeveritySerious:
		return 3
	case SeverityModerate:
		return 2
	case SeverityMinor:
		return 1
	default:
		return 0
	}
}

// CountSeverities tallies issues per severity. Total always equals len(issues).
func CountSeverities(issues []Issue) SeverityCounts {
	var c SeverityCounts
	for _, is := range issues {
		switch is.Impact {
		case SeverityCritical:
			c.Critical++
		case SeveritySerious:
			c.Serious++
		case SeverityModerate:
			c.Moderate++
		case SeverityMinor:
			c.Minor++
		}
		c.Total++
	}
	return c
}

// ParseFilter accepts "", "all" or one severity name.
// The zero Severity means no filtering.
func ParseFilter(v string) (Severity, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" || v == "all" {
		return "", nil
	}
	for _, s := range Severities {
		if Severity(v) == s {
			return s, nil
		}
	}
	return "", ErrInvalidFilter
}

// FilterIssues keeps the issues of one severity; the zero Severity keeps all.
func FilterIssues(issues []Issue, sev Severity) []Issue {
	if sev == "" {
		return issues
	}
	out := make([]Issue, 0, len(issues))
	for _, is := range issues {
		if is.Impact == sev {
			out = append(out, is)
		}
	}
	return out
}
