package scans

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func issuesOf(sevs ...Severity) []Issue {
	out := make([]Issue, 0, len(sevs))
	for _, s := range sevs {
		out = append(out, Issue{Impact: s})
	}
	return out
}

func TestFallbackScore(t *testing.T) {
	assert.Equal(t, 100, FallbackScore(nil))
	assert.Equal(t, 78, FallbackScore(issuesOf(SeverityCritical, SeveritySerious, SeveritySerious, SeverityModerate)))
	assert.Equal(t, 99, FallbackScore(issuesOf(SeverityMinor)))
}

func TestFallbackScore_NeverNegative(t *testing.T) {
	many := make([]Severity, 50)
	for i := range many {
		many[i] = SeverityCritical
	}
	assert.Equal(t, 0, FallbackScore(issuesOf(many...)))
	assert.Equal(t, 0, FallbackScore(issuesOf(append(many, SeverityMinor)...)))
}

func TestEffectiveScore(t *testing.T) {
	issues := issuesOf(SeverityCritical)
	engine := 97.4
	zero := 0.0

	assert.Equal(t, 97, EffectiveScore(&engine, issues))
	assert.Equal(t, 0, EffectiveScore(&zero, issues), "a present engine score wins even when zero")
	assert.Equal(t, 90, EffectiveScore(nil, issues))
}

func TestBandFor(t *testing.T) {
	assert.Equal(t, BandGood, BandFor(100))
	assert.Equal(t, BandGood, BandFor(90))
	assert.Equal(t, BandNeedsImprovement, BandFor(89))
	assert.Equal(t, BandNeedsImprovement, BandFor(70))
	assert.Equal(t, BandPoor, BandFor(69))
}

func TestParseSeverity(t *testing.T) {
	assert.Equal(t, SeverityCritical, ParseSeverity("CRITICAL"))
	assert.Equal(t, SeverityMinor, ParseSeverity(" minor"))
	assert.Equal(t, SeverityModerate, ParseSeverity(""))
	assert.Equal(t, SeverityModerate, ParseSeverity("high"))
}

func TestParseFilter(t *testing.T) {
	for _, v := range []string{"", "all", "ALL"} {
		sev, err := ParseFilter(v)
		assert.NoError(t, err)
		assert.Equal(t, Severity(""), sev)
	}
	sev, err := ParseFilter("Serious")
	assert.NoError(t, err)
	assert.Equal(t, SeveritySerious, sev)

	_, err = ParseFilter("high")
	assert.ErrorIs(t, err, ErrInvalidFilter)
}
