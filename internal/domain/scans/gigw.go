package scans

import "encoding/json"

// ComplianceStatus is the headline of a GIGW checklist result.
type ComplianceStatus string

const (
	ComplianceNotAssessed ComplianceStatus = "Not Assessed"
	ComplianceFull        ComplianceStatus = "Compliant"
	ComplianceLargely     ComplianceStatus = "Largely Compliant"
	CompliancePartially   ComplianceStatus = "Partially Compliant"
	ComplianceNone        ComplianceStatus = "Non-Compliant"
)

// GIGWCheck is one named check from metaJson.gigw.details.
type GIGWCheck struct {
	Passed bool           `json:"passed"`
	Fields map[string]any `json:"fields,omitempty"`
}

// GIGWResult mirrors metaJson.gigw. Only used for display.
type GIGWResult struct {
	Passed       bool                 `json:"passed"`
	TotalChecks  int                  `json:"totalChecks"`
	PassedChecks int                  `json:"passedChecks"`
	Violations   []any                `json:"violations"`
	Details      map[string]GIGWCheck `json:"details"`
}

// ParseGIGW reads metaJson.gigw; anything but an object yields nil.
func ParseGIGW(meta json.RawMessage) *GIGWResult {
	m := object(decodeMeta(meta)["gigw"])
	if m == nil {
		return nil
	}
	g := &GIGWResult{
		Passed:       boolean(m, "passed"),
		TotalChecks:  integer(m, "totalChecks"),
		PassedChecks: integer(m, "passedChecks"),
		Details:      map[string]GIGWCheck{},
	}
	g.Violations, _ = m["violations"].([]any)
	if g.Violations == nil {
		g.Violations = []any{}
	}
	for name, raw := range object(m["details"]) {
		d := object(raw)
		check := GIGWCheck{Passed: boolean(d, "passed")}
		for k, v := range d {
			if k == "passed" {
				continue
			}
			if check.Fields == nil {
				check.Fields = map[string]any{}
			}
			check.Fields[k] = v
		}
		g.Details[name] = check
	}
	return g
}

// ComplianceStatus grades the result by the share of passed checks.
func (g *GIGWResult) ComplianceStatus() ComplianceStatus {
	if g == nil {
		return ComplianceNotAssessed
	}
	if g.Passed {
		return ComplianceFull
	}
	var pct float64
	if g.TotalChecks > 0 {
		pct = float64(g.PassedChecks) / float64(g.TotalChecks) * 100
	}
	switch {
	case pct >= 75:
		return ComplianceLargely
	case pct >= 50:
		return CompliancePartially
	default:
		return ComplianceNone
	}
}
