package ai

import (
	"context"

	"github.com/bryanwahyu/accessiscan/internal/domain/scans"
)

// Client produces remediation advice for a normalized report, as JSON text.
type Client interface {
	Advise(ctx context.Context, report *scans.Report) (string, error)
}
