package scans

// PaginatedResult represents a paginated response with data and metadata
type PaginatedResult struct {
	Data       []*TrackedScan `json:"data"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	Total      int64          `json:"totalItems"`
	TotalPages int            `json:"totalPages"`
}

// Page limits. Keeping page and size bounded keeps (page-1)*size well
// inside int range on every platform.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	MaxPage         = 1 << 20
)

// PageBounds normalises a page request and returns the row offset of its
// first item.
func PageBounds(page, pageSize int) (p, size, offset int) {
	p, size = page, pageSize
	if p < 1 {
		p = 1
	}
	if p > MaxPage {
		p = MaxPage
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return p, size, (p - 1) * size
}

// Filter narrows a history listing. Empty fields match everything.
type Filter struct {
	Status  Status
	Website string
}

// Summary is the dashboard headline over the whole history.
type Summary struct {
	TotalScans   int     `json:"total_scans"`
	Passed       int     `json:"passed"`
	Failed       int     `json:"failed"`
	AverageScore float64 `json:"average_score"`
}

// PassingScore is the lowest score a completed scan counts as passed with.
const PassingScore = 70

// Summarize computes the dashboard summary in memory. The SQL repositories
// compute the same figures in the database.
func Summarize(rows []*TrackedScan) Summary {
	var sum Summary
	var scored int
	var total float64
	for _, r := range rows {
		sum.TotalScans++
		switch r.Status {
		case StatusCompleted:
			if r.Score != nil && *r.Score >= PassingScore {
				sum.Passed++
			}
		case StatusFailed:
			sum.Failed++
		}
		if r.Score != nil {
			scored++
			total += *r.Score
		}
	}
	if scored > 0 {
		sum.AverageScore = total / float64(scored)
	}
	return sum
}
