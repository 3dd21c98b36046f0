package scans

import (
	"context"
	"time"

	domain "github.com/bryanwahyu/accessiscan/internal/domain/scans"
)

// DefaultPollInterval is the cadence between status fetches.
const DefaultPollInterval = 2 * time.Second

// ScanFetcher is the part of the engine the poller needs.
type ScanFetcher interface {
	GetScan(ctx context.Context, id domain.ScanID) (*domain.Scan, error)
}

// Poller fetches a scan once immediately and then once per Interval until
// it reaches a terminal status. The stop decision always reads the status
// of the latest response. Fetches never overlap; a slow response delays
// the next fetch instead of queueing one.
//
// There is no retry limit and no overall timeout: bound the poll with ctx.
// Cancelling ctx aborts the in-flight request and drops its result.
type Poller struct {
	Fetcher  ScanFetcher
	Interval time.Duration
	// OnUpdate sees every fetched scan, terminal ones included.
	OnUpdate func(*domain.Scan)
}

// Poll blocks until the scan completes, fails, a fetch errors or ctx ends.
// A failed scan is returned together with domain.ErrScanFailed.
func (p *Poller) Poll(ctx context.Context, id domain.ScanID) (*domain.Scan, error) {
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	scan, done, err := p.fetch(ctx, id)
	if done {
		return scan, err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return scan, ctx.Err()
		case <-ticker.C:
			next, done, err := p.fetch(ctx, id)
			if next != nil {
				scan = next
			}
			if done {
				return scan, err
			}
		}
	}
}

func (p *Poller) fetch(ctx context.Context, id domain.ScanID) (*domain.Scan, bool, error) {
	scan, err := p.Fetcher.GetScan(ctx, id)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, true, ctxErr
	}
	if err != nil {
		return nil, true, err
	}
	if p.OnUpdate != nil {
		p.OnUpdate(scan)
	}
	switch scan.Status {
	case domain.StatusCompleted:
		return scan, true, nil
	case domain.StatusFailed:
		return scan, true, domain.ErrScanFailed
	default:
		return scan, false, nil
	}
}
