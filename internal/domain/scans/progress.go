package scans

import "time"

// ProgressLevel classifies a progress message for display.
type ProgressLevel string

const (
	ProgressInfo    ProgressLevel = "info"
	ProgressSuccess ProgressLevel = "success"
	ProgressError   ProgressLevel = "error"
)

// ProgressMessage is one human-readable step of a running scan.
type ProgressMessage struct {
	Key       string        `json:"key"`
	Message   string        `json:"message"`
	Level     ProgressLevel `json:"level"`
	Timestamp time.Time     `json:"timestamp"`
}

type progressStep struct {
	key   string
	msg   string
	level ProgressLevel
}

var progressSteps = map[Status][]progressStep{
	StatusQueued: {
		{"queued", "Scan initiated and queued", ProgressInfo},
	},
	StatusProcessing: {
		{"processing", "Processing scan...", ProgressInfo},
		{"axe-scan", "Running Axe-core accessibility scan...", ProgressInfo},
	},
	StatusCompleted: {
		{"axe-completed", "Axe scan completed", ProgressSuccess},
		{"lighthouse-start", "Lighthouse scan started...", ProgressInfo},
		{"generating", "Generating accessibility report...", ProgressInfo},
		{"final-success", "Scan completed successfully!", ProgressSuccess},
	},
	StatusFailed: {
		{"failed", "Scan failed", ProgressError},
	},
}

// ProgressTracker turns the statuses seen while polling into progress
// messages, emitting each message at most once per session.
// Not safe for concurrent use.
type ProgressTracker struct {
	seen map[string]bool
}

func NewProgressTracker() *ProgressTracker {
	return &ProgressTracker{seen: map[string]bool{}}
}

// Observe returns the messages the status adds to the session.
func (t *ProgressTracker) Observe(status Status, now time.Time) []ProgressMessage {
	var out []ProgressMessage
	for _, step := range progressSteps[status] {
		if t.seen[step.key] {
			continue
		}
		t.seen[step.key] = true
		out = append(out, ProgressMessage{
			Key:       step.key,
			Message:   step.msg,
			Level:     step.level,
			Timestamp: now,
		})
	}
	return out
}
