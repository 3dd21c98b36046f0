package memory

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"

	domain "github.com/bryanwahyu/accessiscan/internal/domain/scans"
)

// ScanRepository keeps history in process memory. Used by the terminal
// client and when no database is configured.
type ScanRepository struct {
	mu    sync.RWMutex
	scans map[domain.ScanID]domain.TrackedScan
}

func NewScanRepository() *ScanRepository {
	return &ScanRepository{scans: make(map[domain.ScanID]domain.TrackedScan)}
}

// Save insert/update; rows are stored by value so callers can't mutate them.
func (r *ScanRepository) Save(_ context.Context, s *domain.TrackedScan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row := *s
	if old, ok := r.scans[s.ID]; ok {
		row.SubmittedAt = old.SubmittedAt
	}
	r.scans[s.ID] = row
	return nil
}

func (r *ScanRepository) Get(_ context.Context, id domain.ScanID) (*domain.TrackedScan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	row, ok := r.scans[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &row, nil
}

func (r *ScanRepository) Latest(_ context.Context, limit int) ([]*domain.TrackedScan, error) {
	if limit <= 0 {
		limit = 20
	}
	rows := r.sorted(func(*domain.TrackedScan) bool { return true })
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

// Active returns non-terminal rows, oldest first so stale scans refresh first.
func (r *ScanRepository) Active(_ context.Context, limit int) ([]*domain.TrackedScan, error) {
	if limit <= 0 {
		limit = 100
	}
	rows := r.sorted(func(s *domain.TrackedScan) bool { return !s.Status.Terminal() })
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (r *ScanRepository) Paginate(_ context.Context, page, pageSize int, f domain.Filter) (domain.PaginatedResult, error) {
	page, pageSize, start := domain.PageBounds(page, pageSize)
	website := strings.ToLower(f.Website)
	rows := r.sorted(func(s *domain.TrackedScan) bool {
		if f.Status != "" && s.Status != f.Status {
			return false
		}
		return website == "" || strings.Contains(strings.ToLower(s.WebsiteURL), website)
	})

	total := len(rows)
	if start > total {
		start = total
	}
	end := min(start+pageSize, total)
	return domain.PaginatedResult{
		Data:       rows[start:end],
		Page:       page,
		PageSize:   pageSize,
		Total:      int64(total),
		TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
	}, nil
}

func (r *ScanRepository) Summary(_ context.Context) (domain.Summary, error) {
	return domain.Summarize(r.sorted(func(*domain.TrackedScan) bool { return true })), nil
}

// sorted returns copies of matching rows, newest submission first.
func (r *ScanRepository) sorted(keep func(*domain.TrackedScan) bool) []*domain.TrackedScan {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.TrackedScan, 0, len(r.scans))
	for _, row := range r.scans {
		if keep(&row) {
			out = append(out, &row)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SubmittedAt.Equal(out[j].SubmittedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].SubmittedAt.After(out[j].SubmittedAt)
	})
	return out
}
