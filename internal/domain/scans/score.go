package scans

import "math"

// MaxScore is the score of a scan with no issues.
const MaxScore = 100

// FallbackScore deducts points per issue severity from 100, floored at 0.
// It is only used when the engine did not report a score.
func FallbackScore(issues []Issue) int {
	score := MaxScore
	for _, is := range issues {
		score -= is.Impact.Deduction()
	}
	if score < 0 {
		return 0
	}
	return score
}

// EffectiveScore prefers the engine's score whenever it is present.
func EffectiveScore(engine *float64, issues []Issue) int {
	if engine != nil {
		return int(math.Round(*engine))
	}
	return FallbackScore(issues)
}

// ScoreBand buckets a score for display.
type ScoreBand string

const (
	BandGood             ScoreBand = "good"
	BandNeedsImprovement ScoreBand = "needs-improvement"
	BandPoor             ScoreBand = "poor"
)

// BandFor returns good from 90, needs-improvement from 70, poor below.
func BandFor(score int) ScoreBand {
	switch {
	case score >= 90:
		return BandGood
	case score >= PassingScore:
		return BandNeedsImprovement
	default:
		return BandPoor
	}
}
