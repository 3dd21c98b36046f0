package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/bryanwahyu/accessiscan/internal/domain/scans"
)

const maxSnippet = 120

// WriteText renders a report for the terminal, most severe issues first.
func WriteText(w io.Writer, r *scans.Report) error {
	ew := &errWriter{w: w}

	ew.printf("Accessibility Report\n")
	ew.printf("Website: %s\n", r.WebsiteURL)
	if !r.ScanDate.IsZero() {
		ew.printf("Scanned: %s\n", r.ScanDate.Format("2006-01-02 15:04 MST"))
	}
	ew.printf("Score:   %d / %d (%s, %s)\n\n", r.Score, scans.MaxScore, bandLabel(r.Band), r.ScoreSource)

	ew.printf("Issues:  %d total\n", r.TotalIssues)
	ew.printf("- Critical: %d\n", r.Counts.Critical)
	ew.printf("- Serious:  %d\n", r.Counts.Serious)
	ew.printf("- Moderate: %d\n", r.Counts.Moderate)
	ew.printf("- Minor:    %d\n\n", r.Counts.Minor)

	if r.GIGW != nil {
		ew.printf("GIGW:    %s (%d/%d checks passed)\n\n", r.GIGWStatus, r.GIGW.PassedChecks, r.GIGW.TotalChecks)
	}

	if r.TotalIssues == 0 {
		ew.printf("No accessibility issues detected.\n")
		return ew.err
	}
	if len(r.Issues) == 0 {
		ew.printf("No %s issues found.\n", r.Filter)
		return ew.err
	}

	issues := append([]scans.Issue(nil), r.Issues...)
	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].Impact.Rank() > issues[j].Impact.Rank()
	})

	for i, is := range issues {
		ew.printf("%d. [%s] %s: %s\n", i+1, strings.ToUpper(string(is.Impact)), is.ID, is.Help)
		if is.Description != "" && is.Description != is.Help {
			ew.printf("   %s\n", is.Description)
		}
		for _, n := range is.Nodes {
			if len(n.Target) > 0 {
				ew.printf("   Element: %s\n", strings.Join(n.Target, " "))
			}
			if n.HTML != "" {
				ew.printf("   HTML:    %s\n", snippet(n.HTML))
			}
			if n.FailureSummary != "" {
				ew.printf("   Fix:     %s\n", strings.ReplaceAll(strings.TrimSpace(n.FailureSummary), "\n", "\n            "))
			}
		}
		if is.HelpURL != "" {
			ew.printf("   Learn more: %s\n", is.HelpURL)
		}
		ew.printf("\n")
	}
	return ew.err
}

func bandLabel(b scans.ScoreBand) string {
	switch b {
	case scans.BandGood:
		return "Good"
	case scans.BandNeedsImprovement:
		return "Needs Improvement"
	default:
		return "Poor"
	}
}

func snippet(html string) string {
	html = strings.Join(strings.Fields(html), " ")
	if len(html) <= maxSnippet {
		return html
	}
	return html[:maxSnippet] + "..."
}

// errWriter keeps the first write error so the renderer can ignore it
// until the end.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
