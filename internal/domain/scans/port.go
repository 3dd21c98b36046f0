package scans

import (
	"context"
	"io"
)

// Repository port (interface untuk persistence)
type Repository interface {
	Save(ctx context.Context, s *TrackedScan) error
	Get(ctx context.Context, id ScanID) (*TrackedScan, error)
	Latest(ctx context.Context, limit int) ([]*TrackedScan, error)
	Active(ctx context.Context, limit int) ([]*TrackedScan, error)
	Paginate(ctx context.Context, page, pageSize int, f Filter) (PaginatedResult, error)
	Summary(ctx context.Context) (Summary, error)
}

// Engine port: the external scan engine reached over HTTP.
type Engine interface {
	CreateWebsite(ctx context.Context, url, name string) (*Website, error)
	CreateScan(ctx context.Context, websiteID string) (*Scan, error)
	GetScan(ctx context.Context, id ScanID) (*Scan, error)
	DownloadPDF(ctx context.Context, id ScanID, w io.Writer) (int64, error)
}

// ReportArchive port (interface untuk penyimpanan laporan PDF)
type ReportArchive interface {
	UploadAndCleanup(ctx context.Context, localPath, key string) (string, error)
}
