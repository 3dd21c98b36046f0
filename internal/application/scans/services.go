package scans

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bryanwahyu/accessiscan/internal/application"
	domain "github.com/bryanwahyu/accessiscan/internal/domain/scans"
)

// refreshConcurrency bounds RefreshActive's parallel engine calls.
const refreshConcurrency = 4

// Service implements use-cases untuk Scan on top of the external engine.
// Service is safe for concurrent use as long as its ports are.
type Service struct {
	Engine       domain.Engine
	Repo         domain.Repository
	Archive      domain.ReportArchive // optional
	Clock        application.Clock
	PollInterval time.Duration
}

// StartScanCommand is the form a user submits.
type StartScanCommand struct {
	URL  string
	Name string
}

// StartScanResult carries both engine records created for a submission.
type StartScanResult struct {
	Website *domain.Website `json:"website"`
	Scan    *domain.Scan    `json:"scan"`
}

// StartScan creates the website record, then the scan, and records the
// scan in history. Either engine failure aborts the submission.
func (s *Service) StartScan(ctx context.Context, cmd StartScanCommand) (StartScanResult, error) {
	target, err := normalizeTarget(cmd.URL)
	if err != nil {
		return StartScanResult{}, err
	}

	site, err := s.Engine.CreateWebsite(ctx, target, strings.TrimSpace(cmd.Name))
	if err != nil {
		return StartScanResult{}, err
	}
	scan, err := s.Engine.CreateScan(ctx, site.ID)
	if err != nil {
		return StartScanResult{Website: site}, err
	}

	row := domain.NewTrackedScan(site, scan, s.now())
	if err := s.Repo.Save(ctx, row); err != nil {
		log.Printf("history save failed scan=%s: %v", scan.ID, err)
	}
	return StartScanResult{Website: site, Scan: scan}, nil
}

// Watch polls the scan until it is terminal, recording every observed
// state in history. onUpdate may be nil.
func (s *Service) Watch(ctx context.Context, id domain.ScanID, onUpdate func(*domain.Scan)) (*domain.Scan, error) {
	p := &Poller{
		Fetcher:  s.Engine,
		Interval: s.PollInterval,
		OnUpdate: func(scan *domain.Scan) {
			s.record(ctx, scan)
			if onUpdate != nil {
				onUpdate(scan)
			}
		},
	}
	return p.Poll(ctx, id)
}

// Get fetches the live scan and refreshes its history row.
func (s *Service) Get(ctx context.Context, id domain.ScanID) (*domain.Scan, error) {
	scan, err := s.Engine.GetScan(ctx, id)
	if err != nil {
		return nil, err
	}
	s.record(ctx, scan)
	return scan, nil
}

// Report builds the report of a completed scan. filter is "", "all" or a
// severity name.
func (s *Service) Report(ctx context.Context, id domain.ScanID, filter string) (*domain.Report, error) {
	sev, err := domain.ParseFilter(filter)
	if err != nil {
		return nil, err
	}
	scan, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return domain.BuildReport(scan, sev)
}

// DownloadPDF streams the engine's PDF report into w.
func (s *Service) DownloadPDF(ctx context.Context, id domain.ScanID, w io.Writer) (int64, error) {
	return s.Engine.DownloadPDF(ctx, id, w)
}

// ArchivePDF copies the engine's PDF report into the report archive and
// records where it went.
func (s *Service) ArchivePDF(ctx context.Context, id domain.ScanID) (string, error) {
	if s.Archive == nil {
		return "", domain.ErrArchiveDisabled
	}

	f, err := os.CreateTemp("", "accessibility-report-*.pdf")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmp := f.Name()
	if _, err := s.Engine.DownloadPDF(ctx, id, f); err != nil {
		f.Close()
		os.Remove(tmp)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("closing temp file: %w", err)
	}

	key := fmt.Sprintf("reports/%s/%s", id, PDFFileName(id))
	archived, err := s.Archive.UploadAndCleanup(ctx, tmp, key)
	if err != nil {
		os.Remove(tmp)
		return "", err
	}

	row, err := s.Repo.Get(ctx, id)
	switch {
	case err == nil:
		row.ArchiveURL = archived
		row.UpdatedAt = s.now()
		if err := s.Repo.Save(ctx, row); err != nil {
			log.Printf("history save failed scan=%s: %v", id, err)
		}
	case !errors.Is(err, domain.ErrNotFound):
		log.Printf("history lookup failed scan=%s: %v", id, err)
	}
	return archived, nil
}

// History lists tracked scans, newest first.
func (s *Service) History(ctx context.Context, page, pageSize int, f domain.Filter) (domain.PaginatedResult, error) {
	return s.Repo.Paginate(ctx, page, pageSize, f)
}

// Latest ambil N scan terakhir
func (s *Service) Latest(ctx context.Context, limit int) ([]*domain.TrackedScan, error) {
	return s.Repo.Latest(ctx, limit)
}

// Summary rekap seluruh history for the dashboard cards.
func (s *Service) Summary(ctx context.Context) (domain.Summary, error) {
	return s.Repo.Summary(ctx)
}

// RefreshActive re-fetches every non-terminal history row. A failed fetch
// is logged and skipped; it returns how many rows were refreshed.
func (s *Service) RefreshActive(ctx context.Context, limit int) (int, error) {
	rows, err := s.Repo.Active(ctx, limit)
	if err != nil {
		return 0, err
	}

	results := make([]bool, len(rows))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(refreshConcurrency)
	for i, row := range rows {
		g.Go(func() error {
			scan, err := s.Engine.GetScan(gctx, row.ID)
			if err != nil {
				log.Printf("refresh failed scan=%s: %v", row.ID, err)
				return nil
			}
			s.record(gctx, scan)
			results[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	var n int
	for _, ok := range results {
		if ok {
			n++
		}
	}
	return n, nil
}

// PDFFileName is the file name a downloaded report is saved under.
func PDFFileName(id domain.ScanID) string {
	return fmt.Sprintf("accessibility-report-%s.pdf", id)
}

// record folds a fetched scan into history. History is best effort: a
// storage failure never fails the caller's request.
func (s *Service) record(ctx context.Context, scan *domain.Scan) {
	now := s.now()
	row, err := s.Repo.Get(ctx, scan.ID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		row = domain.NewTrackedScan(scan.Website, scan, now)
	case err != nil:
		log.Printf("history lookup failed scan=%s: %v", scan.ID, err)
		return
	default:
		row.Apply(scan, now)
	}
	if err := s.Repo.Save(ctx, row); err != nil {
		log.Printf("history save failed scan=%s: %v", scan.ID, err)
	}
}

func (s *Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now()
}

// normalizeTarget trims the submitted URL and requires an absolute
// http(s) address.
func normalizeTarget(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", domain.ErrInvalidURL
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", domain.ErrInvalidURL
	}
	return raw, nil
}
