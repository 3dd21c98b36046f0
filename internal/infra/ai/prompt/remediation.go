package prompt

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bryanwahyu/accessiscan/internal/domain/scans"
)

// MaxRules caps how many rule groups go into the user prompt.
const MaxRules = 15

const maxTargets = 3

// RuleGroup is every occurrence of one rule in a report.
type RuleGroup struct {
	ID          string         `json:"id"`
	Help        string         `json:"help"`
	Impact      scans.Severity `json:"impact"`
	HelpURL     string         `json:"help_url,omitempty"`
	Occurrences int            `json:"occurrences"`
	Targets     []string       `json:"targets"`
}

// GroupByRule folds per-element issues into one group per rule, most
// severe first, then by occurrence count, then by rule id.
func GroupByRule(issues []scans.Issue) []RuleGroup {
	idx := map[string]int{}
	var out []RuleGroup
	for _, is := range issues {
		i, ok := idx[is.ID]
		if !ok {
			i = len(out)
			idx[is.ID] = i
			out = append(out, RuleGroup{ID: is.ID, Help: is.Help, Impact: is.Impact, HelpURL: is.HelpURL, Targets: []string{}})
		}
		g := &out[i]
		g.Occurrences++
		if is.Impact.Rank() > g.Impact.Rank() {
			g.Impact = is.Impact
		}
		for _, n := range is.Nodes {
			if len(g.Targets) < maxTargets && len(n.Target) > 0 {
				g.Targets = append(g.Targets, strings.Join(n.Target, " "))
			}
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		ra, rb := out[a].Impact.Rank(), out[b].Impact.Rank()
		if ra != rb {
			return ra > rb
		}
		if out[a].Occurrences != out[b].Occurrences {
			return out[a].Occurrences > out[b].Occurrences
		}
		return out[a].ID < out[b].ID
	})
	return out
}

func GetSystemPrompt() string {
	return `You are a senior web accessibility engineer (WCAG 2.1 AA, GIGW).
You receive the results of an automated accessibility scan and must produce a short, prioritised remediation plan.

Output ONLY a JSON object with this schema:
{
  "summary": "two or three sentences on the overall state of the site",
  "actions": [
    {
      "rule": "rule id from the input",
      "priority": "critical|serious|moderate|minor",
      "fix": "concrete change a developer should make",
      "wcag": "relevant WCAG success criterion, if known"
    }
  ]
}

Rules:
- Order actions by priority, most severe first.
- One action per rule; do not invent rules that are not in the input.
- Keep each fix under 40 words and refer to the provided selectors when useful.`
}

// GetUserPrompt renders the report's headline and its top rule groups.
func GetUserPrompt(r *scans.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Website: %s\n", r.WebsiteURL)
	fmt.Fprintf(&b, "Score: %d/100 (%s)\n", r.Score, r.Band)
	fmt.Fprintf(&b, "Issues: %d total, %d critical, %d serious, %d moderate, %d minor\n",
		r.Counts.Total, r.Counts.Critical, r.Counts.Serious, r.Counts.Moderate, r.Counts.Minor)
	if r.GIGW != nil {
		fmt.Fprintf(&b, "GIGW: %s (%d/%d checks passed)\n", r.GIGWStatus, r.GIGW.PassedChecks, r.GIGW.TotalChecks)
	}

	groups := GroupByRule(r.Issues)
	if len(groups) > MaxRules {
		fmt.Fprintf(&b, "\nTop %d of %d failing rules:\n", MaxRules, len(groups))
		groups = groups[:MaxRules]
	} else {
		b.WriteString("\nFailing rules:\n")
	}
	for _, g := range groups {
		fmt.Fprintf(&b, "- [%s] %s: %s (%d elements)", g.Impact, g.ID, g.Help, g.Occurrences)
		if len(g.Targets) > 0 {
			fmt.Fprintf(&b, " e.g. %s", strings.Join(g.Targets, ", "))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
