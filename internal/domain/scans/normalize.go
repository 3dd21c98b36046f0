package scans

import "encoding/json"

// Node is one DOM element a violation was reported on.
type Node struct {
	HTML           string   `json:"html"`
	Target         []string `json:"target"`
	Impact         string   `json:"impact"`
	FailureSummary string   `json:"failureSummary,omitempty"`
}

// Violation is a single rule failure from metaJson.axe.
type Violation struct {
	ID          string   `json:"id"`
	Impact      string   `json:"impact"`
	Description string   `json:"description"`
	Help        string   `json:"help"`
	HelpURL     string   `json:"helpUrl"`
	Tags        []string `json:"tags"`
	Nodes       []Node   `json:"nodes"`
}

// Issue is the per-node view of a violation. Nodes holds exactly one node,
// or none when the violation reported no nodes.
type Issue struct {
	ID          string   `json:"id"`
	Help        string   `json:"help"`
	Description string   `json:"description"`
	Impact      Severity `json:"impact"`
	HelpURL     string   `json:"helpUrl"`
	Tags        []string `json:"tags"`
	Nodes       []Node   `json:"nodes"`
}

func decodeMeta(meta json.RawMessage) map[string]any {
	if len(meta) == 0 {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(meta, &m); err != nil {
		return nil
	}
	return m
}

// ParseViolations reads metaJson.axe. An absent or non-array value yields
// no violations; malformed entries are read with empty defaults.
func ParseViolations(meta json.RawMessage) []Violation {
	arr, _ := decodeMeta(meta)["axe"].([]any)
	out := make([]Violation, 0, len(arr))
	for _, raw := range arr {
		out = append(out, violationFrom(object(raw)))
	}
	return out
}

func violationFrom(m map[string]any) Violation {
	v := Violation{
		ID:          str(m, "id"),
		Impact:      str(m, "impact"),
		Description: str(m, "description"),
		Help:        str(m, "help"),
		HelpURL:     str(m, "helpUrl"),
		Tags:        strs(m, "tags"),
	}
	nodes, _ := m["nodes"].([]any)
	for _, raw := range nodes {
		n := object(raw)
		v.Nodes = append(v.Nodes, Node{
			HTML:           str(n, "html"),
			Target:         strs(n, "target"),
			Impact:         str(n, "impact"),
			FailureSummary: str(n, "failureSummary"),
		})
	}
	return v
}

// Expand turns violations into issues: one per node, or a single issue
// with no nodes for a violation that has none. The result always has
// Σ max(1, len(nodes)) entries, matching the count in the PDF report.
func Expand(violations []Violation) []Issue {
	issues := make([]Issue, 0, len(violations))
	for _, v := range violations {
		base := Issue{
			ID:          v.ID,
			Help:        firstNonEmpty(v.Help, v.Description),
			Description: firstNonEmpty(v.Description, v.Help),
			Impact:      ParseSeverity(v.Impact),
			HelpURL:     v.HelpURL,
			Tags:        v.Tags,
		}
		if base.Tags == nil {
			base.Tags = []string{}
		}
		if len(v.Nodes) == 0 {
			base.Nodes = []Node{}
			issues = append(issues, base)
			continue
		}
		for _, n := range v.Nodes {
			is := base
			is.Nodes = []Node{n}
			issues = append(issues, is)
		}
	}
	return issues
}

// Normalize expands the raw metaJson of a scan into issues.
func Normalize(meta json.RawMessage) []Issue {
	return Expand(ParseViolations(meta))
}
