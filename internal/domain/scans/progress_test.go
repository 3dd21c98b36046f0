package scans

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func keys(msgs []ProgressMessage) []string {
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.Key)
	}
	return out
}

func TestProgressTracker(t *testing.T) {
	tr := NewProgressTracker()
	now := time.Now()

	assert.Equal(t, []string{"queued"}, keys(tr.Observe(StatusQueued, now)))
	assert.Empty(t, tr.Observe(StatusQueued, now), "repeated status adds nothing")
	assert.Equal(t, []string{"processing", "axe-scan"}, keys(tr.Observe(StatusProcessing, now)))
	assert.Empty(t, tr.Observe(StatusProcessing, now))

	done := tr.Observe(StatusCompleted, now)
	assert.Equal(t, []string{"axe-completed", "lighthouse-start", "generating", "final-success"}, keys(done))
	assert.Equal(t, ProgressSuccess, done[3].Level)
	assert.Equal(t, "Scan completed successfully!", done[3].Message)
}

func TestProgressTracker_Failed(t *testing.T) {
	tr := NewProgressTracker()
	msgs := tr.Observe(StatusFailed, time.Now())
	if assert.Len(t, msgs, 1) {
		assert.Equal(t, ProgressError, msgs[0].Level)
		assert.Equal(t, "Scan failed", msgs[0].Message)
	}
	assert.Empty(t, tr.Observe(Status("weird"), time.Now()))
}
