package scans

import (
	"context"
	"errors"
	"io"
	"sync"

	domain "github.com/bryanwahyu/accessiscan/internal/domain/scans"
)

// fakeEngine replays a scripted sequence of GetScan responses. Once the
// script runs out it keeps returning the last entry.
type fakeEngine struct {
	mu       sync.Mutex
	script   []fakeStep
	calls    int
	website  *domain.Website
	scan     *domain.Scan
	pdf      []byte
	pdfErr   error
	createWs error
	createSc error
}

type fakeStep struct {
	scan *domain.Scan
	err  error
}

func step(status domain.Status) fakeStep {
	return fakeStep{scan: &domain.Scan{ID: "s1", WebsiteID: "w1", Status: status}}
}

func (f *fakeEngine) CreateWebsite(_ context.Context, url, name string) (*domain.Website, error) {
	if f.createWs != nil {
		return nil, f.createWs
	}
	w := &domain.Website{ID: "w1", URL: url}
	if name != "" {
		w.Name = &name
	}
	f.website = w
	return w, nil
}

func (f *fakeEngine) CreateScan(_ context.Context, websiteID string) (*domain.Scan, error) {
	if f.createSc != nil {
		return nil, f.createSc
	}
	f.scan = &domain.Scan{ID: "s1", WebsiteID: websiteID, Status: domain.StatusQueued}
	return f.scan, nil
}

func (f *fakeEngine) GetScan(_ context.Context, id domain.ScanID) (*domain.Scan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.script) == 0 {
		return nil, errors.New("no script")
	}
	idx := f.calls
	if idx >= len(f.script) {
		idx = len(f.script) - 1
	}
	f.calls++
	st := f.script[idx]
	if st.scan != nil {
		cp := *st.scan
		cp.ID = id
		return &cp, st.err
	}
	return nil, st.err
}

func (f *fakeEngine) DownloadPDF(_ context.Context, _ domain.ScanID, w io.Writer) (int64, error) {
	if f.pdfErr != nil {
		return 0, f.pdfErr
	}
	n, err := w.Write(f.pdf)
	return int64(n), err
}

func (f *fakeEngine) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
