package prompt

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/accessiscan/internal/domain/scans"
)

func issue(id string, sev scans.Severity, target string) scans.Issue {
	return scans.Issue{ID: id, Help: id + " help", Impact: sev, Nodes: []scans.Node{{Target: []string{target}}}}
}

func TestGroupByRule(t *testing.T) {
	groups := GroupByRule([]scans.Issue{
		issue("image-alt", scans.SeverityCritical, "img.a"),
		issue("color-contrast", scans.SeveritySerious, "p.1"),
		issue("color-contrast", scans.SeveritySerious, "p.2"),
		issue("image-alt", scans.SeverityCritical, "img.b"),
		issue("region", scans.SeverityModerate, "div"),
		issue("color-contrast", scans.SeveritySerious, "p.3"),
		issue("color-contrast", scans.SeveritySerious, "p.4"),
	})
	require.Len(t, groups, 3)

	assert.Equal(t, "image-alt", groups[0].ID)
	assert.Equal(t, 2, groups[0].Occurrences)
	assert.Equal(t, []string{"img.a", "img.b"}, groups[0].Targets)

	assert.Equal(t, "color-contrast", groups[1].ID)
	assert.Equal(t, 4, groups[1].Occurrences)
	assert.Len(t, groups[1].Targets, maxTargets)

	assert.Equal(t, "region", groups[2].ID)
}

func TestGroupByRule_Empty(t *testing.T) {
	assert.Empty(t, GroupByRule(nil))
}

func TestGetUserPrompt(t *testing.T) {
	var issues []scans.Issue
	for i := 0; i < MaxRules+2; i++ {
		issues = append(issues, issue(fmt.Sprintf("rule-%02d", i), scans.SeverityMinor, "a"))
	}
	r := &scans.Report{
		WebsiteURL: "https://example.com",
		Score:      83,
		Band:       scans.BandFor(83),
		Counts:     scans.CountSeverities(issues),
		Issues:     issues,
	}
	p := GetUserPrompt(r)
	assert.Contains(t, p, "Website: https://example.com")
	assert.Contains(t, p, "Score: 83/100")
	assert.Contains(t, p, fmt.Sprintf("Top %d of %d failing rules", MaxRules, MaxRules+2))
	assert.Contains(t, p, "rule-00")
	assert.NotContains(t, p, fmt.Sprintf("rule-%02d", MaxRules+1))
	assert.NotContains(t, p, "GIGW")
}

func TestGetSystemPrompt_DescribesSchema(t *testing.T) {
	assert.Contains(t, GetSystemPrompt(), `"actions"`)
}
