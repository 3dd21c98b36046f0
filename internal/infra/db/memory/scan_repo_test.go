package memory

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/accessiscan/internal/domain/scans"
)

func seed(t *testing.T, r *ScanRepository, n int) time.Time {
	t.Helper()
	base := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		status := domain.StatusCompleted
		if i%2 == 1 {
			status = domain.StatusProcessing
		}
		require.NoError(t, r.Save(context.Background(), &domain.TrackedScan{
			ID:          domain.ScanID(fmt.Sprintf("s%d", i)),
			WebsiteURL:  fmt.Sprintf("https://site%d.example.com", i),
			Status:      status,
			SubmittedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}
	return base
}

func TestScanRepository_SaveGet(t *testing.T) {
	r := NewScanRepository()
	ctx := context.Background()

	_, err := r.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	submitted := time.Date(2025, 12, 4, 9, 0, 0, 0, time.UTC)
	row := &domain.TrackedScan{ID: "s1", Status: domain.StatusQueued, SubmittedAt: submitted}
	require.NoError(t, r.Save(ctx, row))

	row.Status = domain.StatusCompleted
	row.SubmittedAt = submitted.Add(time.Hour)
	got, err := r.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusQueued, got.Status, "stored rows are copies")

	require.NoError(t, r.Save(ctx, row))
	got, _ = r.Get(ctx, "s1")
	assert.Equal(t, domain.StatusCompleted, got.Status)
	assert.Equal(t, submitted, got.SubmittedAt, "submission time is kept on update")
}

func TestScanRepository_LatestAndActive(t *testing.T) {
	r := NewScanRepository()
	seed(t, r, 5)
	ctx := context.Background()

	latest, err := r.Latest(ctx, 2)
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, domain.ScanID("s4"), latest[0].ID)
	assert.Equal(t, domain.ScanID("s3"), latest[1].ID)

	active, err := r.Active(ctx, 0)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, domain.ScanID("s1"), active[0].ID, "oldest active first")
	assert.Equal(t, domain.ScanID("s3"), active[1].ID)
}

func TestScanRepository_Paginate(t *testing.T) {
	r := NewScanRepository()
	seed(t, r, 5)
	ctx := context.Background()

	res, err := r.Paginate(ctx, 2, 2, domain.Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(5), res.Total)
	assert.Equal(t, 3, res.TotalPages)
	require.Len(t, res.Data, 2)
	assert.Equal(t, domain.ScanID("s2"), res.Data[0].ID)

	res, err = r.Paginate(ctx, 9, 2, domain.Filter{})
	require.NoError(t, err)
	assert.Empty(t, res.Data)

	res, err = r.Paginate(ctx, 1, 10, domain.Filter{Status: domain.StatusProcessing})
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Total)

	res, err = r.Paginate(ctx, 0, 0, domain.Filter{Website: "SITE4"})
	require.NoError(t, err)
	require.Len(t, res.Data, 1)
	assert.Equal(t, domain.ScanID("s4"), res.Data[0].ID)
	assert.Equal(t, 1, res.Page)
	assert.Equal(t, 20, res.PageSize)
}

func TestScanRepository_PaginateHugePage(t *testing.T) {
	r := NewScanRepository()
	seed(t, r, 3)

	for _, page := range []int{461168601842738791, math.MaxInt} {
		var res domain.PaginatedResult
		require.NotPanics(t, func() {
			var err error
			res, err = r.Paginate(context.Background(), page, math.MaxInt, domain.Filter{})
			require.NoError(t, err)
		})
		assert.Empty(t, res.Data)
		assert.Equal(t, domain.MaxPage, res.Page)
		assert.Equal(t, domain.MaxPageSize, res.PageSize)
		assert.Equal(t, int64(3), res.Total)
	}
}

func TestScanRepository_Summary(t *testing.T) {
	r := NewScanRepository()
	ctx := context.Background()
	score := 88.0
	require.NoError(t, r.Save(ctx, &domain.TrackedScan{ID: "a", Status: domain.StatusCompleted, Score: &score}))
	require.NoError(t, r.Save(ctx, &domain.TrackedScan{ID: "b", Status: domain.StatusFailed}))

	sum, err := r.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Summary{TotalScans: 2, Passed: 1, Failed: 1, AverageScore: 88}, sum)
}
