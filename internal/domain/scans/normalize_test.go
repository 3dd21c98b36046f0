package scans

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_OneIssuePerNode(t *testing.T) {
	meta := json.RawMessage(`{"axe":[{
		"id":"color-contrast","impact":"Serious","description":"Elements must have sufficient contrast",
		"help":"Contrast","helpUrl":"https://dequeuniversity.com/rules/axe/color-contrast","tags":["wcag2aa"],
		"nodes":[
			{"html":"<p>a</p>","target":["p:nth-child(1)"],"impact":"serious","failureSummary":"Fix a"},
			{"html":"<p>b</p>","target":["p:nth-child(2)"],"impact":"serious"},
			{"html":"<p>c</p>","target":["p:nth-child(3)"],"impact":"serious"}
		]}]}`)

	issues := Normalize(meta)
	require.Len(t, issues, 3)
	for i, is := range issues {
		assert.Equal(t, "color-contrast", is.ID)
		assert.Equal(t, SeveritySerious, is.Impact, "impact should be lower-cased")
		assert.Equal(t, []string{"wcag2aa"}, is.Tags)
		require.Len(t, is.Nodes, 1)
		assert.Equal(t, []string{"p:nth-child(" + string(rune('1'+i)) + ")"}, is.Nodes[0].Target)
	}
	assert.Equal(t, "Fix a", issues[0].Nodes[0].FailureSummary)
	assert.Equal(t, "<p>b</p>", issues[1].Nodes[0].HTML)
}

func TestNormalize_ViolationWithoutNodes(t *testing.T) {
	cases := map[string]string{
		"absent":    `{"axe":[{"id":"meta-refresh","impact":"critical"}]}`,
		"empty":     `{"axe":[{"id":"meta-refresh","impact":"critical","nodes":[]}]}`,
		"not array": `{"axe":[{"id":"meta-refresh","impact":"critical","nodes":"oops"}]}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			issues := Normalize(json.RawMessage(raw))
			require.Len(t, issues, 1)
			assert.Equal(t, "meta-refresh", issues[0].ID)
			assert.Equal(t, SeverityCritical, issues[0].Impact)
			assert.NotNil(t, issues[0].Nodes)
			assert.Empty(t, issues[0].Nodes)
		})
	}
}

func TestNormalize_TotalMatchesNodeSum(t *testing.T) {
	meta := json.RawMessage(`{"axe":[
		{"id":"a","nodes":[{},{}]},
		{"id":"b"},
		{"id":"c","nodes":[{}]},
		{"id":"d","nodes":[]}
	]}`)
	// 2 + 1 + 1 + 1
	assert.Len(t, Normalize(meta), 5)
}

func TestNormalize_Defaults(t *testing.T) {
	meta := json.RawMessage(`{"axe":[
		{"id":"x","help":"Only help"},
		{"id":"y","description":"Only description","impact":"  MINOR "},
		{"id":"z","impact":"blocker","tags":["a",1,"b"]},
		42
	]}`)

	issues := Normalize(meta)
	require.Len(t, issues, 4)

	assert.Equal(t, "Only help", issues[0].Help)
	assert.Equal(t, "Only help", issues[0].Description)
	assert.Equal(t, SeverityModerate, issues[0].Impact, "missing impact defaults to moderate")
	assert.Equal(t, "", issues[0].HelpURL)
	assert.Equal(t, []string{}, issues[0].Tags)

	assert.Equal(t, "Only description", issues[1].Help)
	assert.Equal(t, SeverityMinor, issues[1].Impact)

	assert.Equal(t, SeverityModerate, issues[2].Impact, "unknown impact defaults to moderate")
	assert.Equal(t, []string{"a", "b"}, issues[2].Tags)

	assert.Equal(t, "", issues[3].ID, "non-object entry still yields one issue")
}

func TestNormalize_MissingOrMalformedMeta(t *testing.T) {
	for _, raw := range []string{``, `null`, `{}`, `{"axe":null}`, `{"axe":{"id":"x"}}`, `[1,2]`, `not json`} {
		assert.Empty(t, Normalize(json.RawMessage(raw)), "meta %q", raw)
	}
}

func TestParseGIGW(t *testing.T) {
	meta := json.RawMessage(`{"gigw":{
		"passed":false,"totalChecks":8,"passedChecks":6,
		"violations":[{"check":"lang"}],
		"details":{"lang":{"passed":false,"message":"missing lang"},"title":{"passed":true}}
	}}`)

	g := ParseGIGW(meta)
	require.NotNil(t, g)
	assert.Equal(t, 8, g.TotalChecks)
	assert.Equal(t, 6, g.PassedChecks)
	assert.Len(t, g.Violations, 1)
	assert.False(t, g.Details["lang"].Passed)
	assert.Equal(t, "missing lang", g.Details["lang"].Fields["message"])
	assert.True(t, g.Details["title"].Passed)
	assert.Equal(t, ComplianceLargely, g.ComplianceStatus())

	assert.Nil(t, ParseGIGW(json.RawMessage(`{"gigw":"n/a"}`)))
	assert.Nil(t, ParseGIGW(nil))
}

func TestComplianceStatus(t *testing.T) {
	tests := []struct {
		name string
		g    *GIGWResult
		want ComplianceStatus
	}{
		{"nil", nil, ComplianceNotAssessed},
		{"passed", &GIGWResult{Passed: true}, ComplianceFull},
		{"75 percent", &GIGWResult{TotalChecks: 4, PassedChecks: 3}, ComplianceLargely},
		{"50 percent", &GIGWResult{TotalChecks: 4, PassedChecks: 2}, CompliancePartially},
		{"below half", &GIGWResult{TotalChecks: 4, PassedChecks: 1}, ComplianceNone},
		{"no checks", &GIGWResult{}, ComplianceNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.g.ComplianceStatus())
		})
	}
}
